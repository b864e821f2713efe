//go:build stm32l0

package i2c

import "device/stm32"

// Register blocks of the running chip.
var (
	Device1 = &Registers{
		CR1: &stm32.I2C1.CR1, CR2: &stm32.I2C1.CR2, TIMINGR: &stm32.I2C1.TIMINGR,
		ISR: &stm32.I2C1.ISR, ICR: &stm32.I2C1.ICR,
		TXDR: &stm32.I2C1.TXDR, RXDR: &stm32.I2C1.RXDR,
	}
	Device3 = &Registers{
		CR1: &stm32.I2C3.CR1, CR2: &stm32.I2C3.CR2, TIMINGR: &stm32.I2C3.TIMINGR,
		ISR: &stm32.I2C3.ISR, ICR: &stm32.I2C3.ICR,
		TXDR: &stm32.I2C3.TXDR, RXDR: &stm32.I2C3.RXDR,
	}
)
