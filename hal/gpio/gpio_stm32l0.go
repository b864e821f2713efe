//go:build stm32l0

package gpio

import "device/stm32"

func bind(p *stm32.GPIO_Type) *Registers {
	return &Registers{
		MODER: &p.MODER, OTYPER: &p.OTYPER, OSPEEDR: &p.OSPEEDR, PUPDR: &p.PUPDR,
		IDR: &p.IDR, ODR: &p.ODR, BSRR: &p.BSRR,
		AFRL: &p.AFRL, AFRH: &p.AFRH,
	}
}

// Port register blocks of the running chip.
var (
	GPIOA = bind(stm32.GPIOA)
	GPIOB = bind(stm32.GPIOB)
	GPIOC = bind(stm32.GPIOC)
	GPIOD = bind(stm32.GPIOD)
	GPIOE = bind(stm32.GPIOE)
	GPIOH = bind(stm32.GPIOH)
)
