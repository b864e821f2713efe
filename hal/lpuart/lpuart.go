// Package lpuart drives LPUART1: frame and baud configuration from the
// frozen clocks, polled byte I/O and a software receive ring that backs the
// tinygo.org/x/drivers.UART surface.
package lpuart

import (
	"l0hal-go/errcode"
	"l0hal-go/hal/gpio"
	"l0hal-go/hal/mmio"
	"l0hal-go/hal/rcc"
	"l0hal-go/x/conv"
	"l0hal-go/x/mathx"
	"l0hal-go/x/shmring"
)

// Register bits.
const (
	cr1UE     = 1 << 0
	cr1RE     = 1 << 2
	cr1TE     = 1 << 3
	cr1RXNEIE = 1 << 5
	cr1TXEIE  = 1 << 7
	cr1PS     = 1 << 9
	cr1PCE    = 1 << 10
	cr1M0     = 1 << 12
	cr1M1     = 1 << 28

	cr3OVRDIS = 1 << 12

	isrORE  = 1 << 3
	isrRXNE = 1 << 5
	isrTC   = 1 << 6
	isrTXE  = 1 << 7

	icrORECF = 1 << 3
)

var cr2STOP = mmio.Field{Pos: 12, Width: 2}

// BRR limits of the LPUART divider.
const (
	MinBRR = 0x300
	MaxBRR = 1<<20 - 1
)

// DefaultBaud is used when Config.BaudRate is zero.
const DefaultBaud = 115200

// RxBufferSize is the capacity of the software receive ring.
const RxBufferSize = 128

// WordLength is the frame length including the parity bit.
type WordLength uint8

const (
	Word8 WordLength = iota
	Word9
	Word7
)

func (w WordLength) bits() uint32 {
	switch w {
	case Word9:
		return cr1M0
	case Word7:
		return cr1M1
	}
	return 0
}

// Parity selects the parity bit.
type Parity uint8

const (
	ParityNone Parity = iota
	ParityEven
	ParityOdd
)

// StopBits selects the stop bit count.
type StopBits uint8

const (
	StopBits1 StopBits = iota
	StopBits2
)

// Config is the frame and clock configuration. The zero value means 8N1 at
// DefaultBaud clocked from PCLK1; DefaultConfig clocks from SYSCLK.
type Config struct {
	BaudRate   uint32
	WordLength WordLength
	Parity     Parity
	StopBits   StopBits
	Kernel     rcc.LPUARTClock
}

// DefaultConfig is 115200 8N1 on the SYSCLK kernel clock.
func DefaultConfig() Config {
	return Config{BaudRate: DefaultBaud, Kernel: rcc.LPUARTClockSYSCLK}
}

// Registers is the LPUART1 register block.
type Registers struct {
	CR1, CR2, CR3, BRR mmio.Register
	ISR, ICR           mmio.Register
	RDR, TDR           mmio.Register

	taken bool
}

// UART is a configured LPUART1.
type UART struct {
	r      *Registers
	tx, rx *gpio.Pin
	cfg    Config
	kernel rcc.Hertz
	rxbuf  *shmring.Ring
}

// New checks the tx/rx alternate functions against the pinout, selects the
// kernel clock in CCIPR, enables and resets LPUART1 on APB1 and programs the
// frame. Configuration errors leave the hardware untouched.
func New(regs *Registers, tx, rx *gpio.Pin, cfg Config, clk *rcc.Clocks, apb1 *rcc.APB1, ccipr *rcc.CCIPR) (*UART, error) {
	const op = "lpuart.new"
	if regs.taken {
		return nil, errcode.New(errcode.AlreadyTaken, op, "LPUART1 already in use")
	}
	if err := checkPins(tx, rx); err != nil {
		return nil, err
	}
	if cfg.BaudRate == 0 {
		cfg.BaudRate = DefaultBaud
	}
	if cfg.WordLength > Word7 || cfg.Parity > ParityOdd || cfg.StopBits > StopBits2 {
		return nil, errcode.New(errcode.InvalidParams, op, "unknown frame setting")
	}
	kernel, err := clk.LPUARTKernel(cfg.Kernel)
	if err != nil {
		return nil, err
	}
	brr, err := BRR(kernel, cfg.BaudRate)
	if err != nil {
		return nil, err
	}

	regs.taken = true
	ccipr.SetLPUARTClock(cfg.Kernel)
	apb1.Enable(rcc.APB1LPUART1)
	apb1.Reset(rcc.APB1LPUART1)

	cr1 := cfg.WordLength.bits()
	switch cfg.Parity {
	case ParityEven:
		cr1 |= cr1PCE
	case ParityOdd:
		cr1 |= cr1PCE | cr1PS
	}
	stop := uint32(0)
	if cfg.StopBits == StopBits2 {
		stop = 0b10
	}
	regs.CR1.Set(cr1)
	regs.BRR.Set(brr)
	regs.CR2.Set(cr2STOP.Put(0, stop))
	regs.CR3.Set(cr3OVRDIS)
	regs.CR1.Set(cr1 | cr1UE | cr1RE | cr1TE)

	return &UART{r: regs, tx: tx, rx: rx, cfg: cfg, kernel: kernel, rxbuf: shmring.New(RxBufferSize)}, nil
}

// BRR computes the divider 256·kernel/baud, rounded to nearest. The result
// must lie in [MinBRR, MaxBRR]; outside it the baud rate is unreachable.
func BRR(kernel rcc.Hertz, baud uint32) (uint32, error) {
	const op = "lpuart.brr"
	if kernel == 0 || baud == 0 {
		return 0, errcode.New(errcode.InvalidParams, op, "zero frequency")
	}
	brr := mathx.RoundDiv(256*uint64(kernel), uint64(baud))
	if !mathx.Between(brr, MinBRR, MaxBRR) {
		return 0, errcode.New(errcode.Unreachable, op,
			conv.Uitoa(uint64(baud))+" baud from "+kernel.String()+" needs BRR "+conv.Hex32(uint32(mathx.Min(brr, 1<<32-1))))
	}
	return uint32(brr), nil
}

// Config returns the applied configuration with defaults filled in.
func (u *UART) Config() Config { return u.cfg }

// KernelClock returns the frequency the divider was computed from.
func (u *UART) KernelClock() rcc.Hertz { return u.kernel }

// EnableRXInterrupt raises the LPUART interrupt while RDR holds a byte.
func (u *UART) EnableRXInterrupt() { mmio.SetBits(u.r.CR1, cr1RXNEIE) }

func (u *UART) DisableRXInterrupt() { mmio.ClearBits(u.r.CR1, cr1RXNEIE) }

// EnableTXInterrupt raises the LPUART interrupt while TDR is empty.
func (u *UART) EnableTXInterrupt() { mmio.SetBits(u.r.CR1, cr1TXEIE) }

func (u *UART) DisableTXInterrupt() { mmio.ClearBits(u.r.CR1, cr1TXEIE) }

// IsTransmitting reports whether TDR still holds a byte for the shifter.
func (u *UART) IsTransmitting() bool { return !mmio.HasBits(u.r.ISR, isrTXE) }

// ReceivedByte returns the byte in RDR, if any. Reading RDR clears RXNE.
// With 9-bit words the ninth bit is dropped.
func (u *UART) ReceivedByte() (byte, bool) {
	if !mmio.HasBits(u.r.ISR, isrRXNE) {
		return 0, false
	}
	return byte(u.r.RDR.Get()), true
}

// TransmitByte writes b to TDR without waiting.
func (u *UART) TransmitByte(b byte) { u.r.TDR.Set(uint32(b)) }

// WriteByte waits for TDR to empty, then transmits b.
func (u *UART) WriteByte(b byte) error {
	for u.IsTransmitting() {
	}
	u.TransmitByte(b)
	return nil
}

// Write transmits p and waits for the last frame to leave the shifter.
func (u *UART) Write(p []byte) (int, error) {
	for _, b := range p {
		u.WriteByte(b)
	}
	if len(p) > 0 {
		for !mmio.HasBits(u.r.ISR, isrTC) {
		}
	}
	return len(p), nil
}

// HandleInterrupt moves pending received bytes into the ring. Call it from
// the LPUART1 interrupt handler, or let Read and Buffered poll it.
func (u *UART) HandleInterrupt() {
	for {
		b, ok := u.ReceivedByte()
		if !ok {
			break
		}
		u.rxbuf.Put(b)
	}
	if mmio.HasBits(u.r.ISR, isrORE) {
		u.r.ICR.Set(icrORECF)
	}
}

// Read returns buffered bytes without blocking; it returns 0, nil when none
// have arrived.
func (u *UART) Read(p []byte) (int, error) {
	u.HandleInterrupt()
	return u.rxbuf.ReadInto(p), nil
}

// ReadByte returns the next buffered byte.
func (u *UART) ReadByte() (byte, error) {
	u.HandleInterrupt()
	b, ok := u.rxbuf.Get()
	if !ok {
		return 0, errcode.New(errcode.Error, "lpuart.read", "buffer empty")
	}
	return b, nil
}

// Buffered returns the number of received bytes waiting to be read.
func (u *UART) Buffered() int {
	u.HandleInterrupt()
	return u.rxbuf.Available()
}

// Readable delivers a token when received bytes land in an empty buffer. It
// fires from HandleInterrupt, so a waiter needs the interrupt enabled or
// something else polling.
func (u *UART) Readable() <-chan struct{} { return u.rxbuf.Readable() }

// Dropped returns how many received bytes were lost to a full ring.
func (u *UART) Dropped() uint32 { return u.rxbuf.Drops() }
