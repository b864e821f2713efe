//go:build stm32l0

package lpuart

import "device/stm32"

// Device is the LPUART1 register block of the running chip.
var Device = &Registers{
	CR1: &stm32.LPUART1.CR1, CR2: &stm32.LPUART1.CR2, CR3: &stm32.LPUART1.CR3,
	BRR: &stm32.LPUART1.BRR,
	ISR: &stm32.LPUART1.ISR, ICR: &stm32.LPUART1.ICR,
	RDR: &stm32.LPUART1.RDR, TDR: &stm32.LPUART1.TDR,
}
