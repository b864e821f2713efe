//go:build stm32l0

package exti

import (
	"device/stm32"

	"l0hal-go/hal/mmio"
)

// Device is the EXTI block of the running chip with its SYSCFG routing.
var Device = &Registers{
	IMR:   &stm32.EXTI.IMR,
	EMR:   &stm32.EXTI.EMR,
	RTSR:  &stm32.EXTI.RTSR,
	FTSR:  &stm32.EXTI.FTSR,
	SWIER: &stm32.EXTI.SWIER,
	PR:    &stm32.EXTI.PR,
	EXTICR: [4]mmio.Register{
		&stm32.SYSCFG.EXTICR1,
		&stm32.SYSCFG.EXTICR2,
		&stm32.SYSCFG.EXTICR3,
		&stm32.SYSCFG.EXTICR4,
	},
}
