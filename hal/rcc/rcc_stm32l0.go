//go:build stm32l0

package rcc

import "device/stm32"

// Device is the RCC block of the running chip.
var Device = &Registers{
	CR:       &stm32.RCC.CR,
	CFGR:     &stm32.RCC.CFGR,
	CCIPR:    &stm32.RCC.CCIPR,
	AHBENR:   &stm32.RCC.AHBENR,
	AHBRSTR:  &stm32.RCC.AHBRSTR,
	APB1ENR:  &stm32.RCC.APB1ENR,
	APB1RSTR: &stm32.RCC.APB1RSTR,
	APB2ENR:  &stm32.RCC.APB2ENR,
	APB2RSTR: &stm32.RCC.APB2RSTR,
	IOPENR:   &stm32.RCC.IOPENR,
	IOPRSTR:  &stm32.RCC.IOPRSTR,
}
