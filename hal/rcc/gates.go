package rcc

import "l0hal-go/hal/mmio"

// gate is one enable/reset register pair. Every write touches only the bit
// of the peripheral named by the caller.
type gate struct {
	enr, rstr mmio.Register
}

func (g gate) enable(mask uint32) { mmio.SetBits(g.enr, mask) }

func (g gate) reset(mask uint32) {
	mmio.SetBits(g.rstr, mask)
	mmio.ClearBits(g.rstr, mask)
}

// AHBPeriph is a peripheral clocked from the AHB.
type AHBPeriph uint32

const (
	AHBDMA   AHBPeriph = 1 << 0
	AHBMIF   AHBPeriph = 1 << 8
	AHBCRC   AHBPeriph = 1 << 12
	AHBTouch AHBPeriph = 1 << 16
	AHBRNG   AHBPeriph = 1 << 20
	AHBCRYP  AHBPeriph = 1 << 24
)

// APB1Periph is a peripheral clocked from APB1.
type APB1Periph uint32

const (
	APB1TIM2    APB1Periph = 1 << 0
	APB1TIM3    APB1Periph = 1 << 1
	APB1TIM6    APB1Periph = 1 << 4
	APB1TIM7    APB1Periph = 1 << 5
	APB1LCD     APB1Periph = 1 << 9
	APB1WWDG    APB1Periph = 1 << 11
	APB1SPI2    APB1Periph = 1 << 14
	APB1USART2  APB1Periph = 1 << 17
	APB1LPUART1 APB1Periph = 1 << 18
	APB1USART4  APB1Periph = 1 << 19
	APB1USART5  APB1Periph = 1 << 20
	APB1I2C1    APB1Periph = 1 << 21
	APB1I2C2    APB1Periph = 1 << 22
	APB1USB     APB1Periph = 1 << 23
	APB1CRS     APB1Periph = 1 << 27
	APB1PWR     APB1Periph = 1 << 28
	APB1DAC     APB1Periph = 1 << 29
	APB1I2C3    APB1Periph = 1 << 30
	APB1LPTIM1  APB1Periph = 1 << 31
)

// APB2Periph is a peripheral clocked from APB2.
type APB2Periph uint32

const (
	APB2SYSCFG APB2Periph = 1 << 0
	APB2TIM21  APB2Periph = 1 << 2
	APB2TIM22  APB2Periph = 1 << 5
	APB2ADC    APB2Periph = 1 << 9
	APB2SPI1   APB2Periph = 1 << 12
	APB2USART1 APB2Periph = 1 << 14
	APB2DBG    APB2Periph = 1 << 22
)

// IOPPort is a GPIO port on the IO port bus.
type IOPPort uint32

const (
	IOPA IOPPort = 1 << 0
	IOPB IOPPort = 1 << 1
	IOPC IOPPort = 1 << 2
	IOPD IOPPort = 1 << 3
	IOPE IOPPort = 1 << 4
	IOPH IOPPort = 1 << 7
)

// AHB grants access to AHBENR/AHBRSTR.
type AHB struct{ g gate }

// Enable turns on the clock of p.
func (b *AHB) Enable(p AHBPeriph) { b.g.enable(uint32(p)) }

// Reset pulses the reset line of p.
func (b *AHB) Reset(p AHBPeriph) { b.g.reset(uint32(p)) }

// APB1 grants access to APB1ENR/APB1RSTR.
type APB1 struct{ g gate }

func (b *APB1) Enable(p APB1Periph) { b.g.enable(uint32(p)) }
func (b *APB1) Reset(p APB1Periph)  { b.g.reset(uint32(p)) }

// APB2 grants access to APB2ENR/APB2RSTR.
type APB2 struct{ g gate }

func (b *APB2) Enable(p APB2Periph) { b.g.enable(uint32(p)) }
func (b *APB2) Reset(p APB2Periph)  { b.g.reset(uint32(p)) }

// IOP grants access to IOPENR/IOPRSTR.
type IOP struct{ g gate }

func (b *IOP) Enable(p IOPPort) { b.g.enable(uint32(p)) }
func (b *IOP) Reset(p IOPPort)  { b.g.reset(uint32(p)) }
