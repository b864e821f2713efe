// Package i2c is a blocking I2C master for I2C1 and I2C3 in standard mode.
// Transfers implement tinygo.org/x/drivers.I2C.
package i2c

import (
	"l0hal-go/errcode"
	"l0hal-go/hal/gpio"
	"l0hal-go/hal/mmio"
	"l0hal-go/hal/rcc"
	"l0hal-go/x/mathx"
)

// Register bits.
const (
	cr1PE = 1 << 0

	cr2RDWRN   = 1 << 10
	cr2START   = 1 << 13
	cr2STOP    = 1 << 14
	cr2AUTOEND = 1 << 25

	isrTXIS  = 1 << 1
	isrRXNE  = 1 << 2
	isrNACKF = 1 << 4
	isrSTOPF = 1 << 5
	isrTC    = 1 << 6
	isrBERR  = 1 << 8
	isrARLO  = 1 << 9
	isrBUSY  = 1 << 15

	icrNACKCF = 1 << 4
	icrSTOPCF = 1 << 5
	icrBERRCF = 1 << 8
	icrARLOCF = 1 << 9
)

var (
	cr2SADD   = mmio.Field{Pos: 0, Width: 10}
	cr2NBYTES = mmio.Field{Pos: 16, Width: 8}
)

// MaxStandardHz is the fastest bus clock this driver programs.
const MaxStandardHz rcc.Hertz = 100 * rcc.KHz

// MaxTransfer is the longest write or read phase of one Tx.
const MaxTransfer = 255

// Instance names an I2C peripheral.
type Instance uint8

const (
	I2C1 Instance = 1
	I2C3 Instance = 3
)

func (i Instance) String() string {
	if i == I2C3 {
		return "I2C3"
	}
	return "I2C1"
}

func (i Instance) gate() rcc.APB1Periph {
	if i == I2C3 {
		return rcc.APB1I2C3
	}
	return rcc.APB1I2C1
}

// Registers is one I2C register block.
type Registers struct {
	CR1, CR2, TIMINGR mmio.Register
	ISR, ICR          mmio.Register
	TXDR, RXDR        mmio.Register

	taken bool
}

// Config is the bus configuration.
type Config struct {
	Frequency rcc.Hertz // defaults to 100kHz
}

// I2C is a configured master.
type I2C struct {
	inst     Instance
	r        *Registers
	scl, sda *gpio.Pin
}

// New enables and resets the peripheral on APB1, checks that scl and sda are
// configured with an alternate function that routes them to inst, derives
// the timing from PCLK1 and enables the peripheral.
func New(inst Instance, regs *Registers, scl, sda *gpio.Pin, cfg Config, clk *rcc.Clocks, apb1 *rcc.APB1) (*I2C, error) {
	const op = "i2c.new"
	if inst != I2C1 && inst != I2C3 {
		return nil, errcode.New(errcode.InvalidParams, op, "no such I2C instance")
	}
	if regs.taken {
		return nil, errcode.New(errcode.AlreadyTaken, op, inst.String()+" already in use")
	}
	if err := checkPin(inst, roleSCL, scl); err != nil {
		return nil, err
	}
	if err := checkPin(inst, roleSDA, sda); err != nil {
		return nil, err
	}
	if cfg.Frequency == 0 {
		cfg.Frequency = MaxStandardHz
	}
	t, err := Timing(clk.PCLK1(), cfg.Frequency)
	if err != nil {
		return nil, err
	}

	regs.taken = true
	apb1.Enable(inst.gate())
	apb1.Reset(inst.gate())
	regs.TIMINGR.Set(t)
	regs.CR1.Set(cr1PE)
	return &I2C{inst: inst, r: regs, scl: scl, sda: sda}, nil
}

// Timing computes TIMINGR for a standard-mode bus clock freq from the
// peripheral clock pclk. The smallest prescaler that fits SCLL in eight bits
// is used; SCLH is four ticks shorter to leave room for the sync delays.
func Timing(pclk, freq rcc.Hertz) (uint32, error) {
	const op = "i2c.timing"
	if freq == 0 || pclk == 0 {
		return 0, errcode.New(errcode.InvalidParams, op, "zero frequency")
	}
	if freq > MaxStandardHz {
		return 0, errcode.New(errcode.Unsupported, op, freq.String()+" is above standard mode")
	}
	for presc := uint32(0); presc < 16; presc++ {
		tick := uint32(pclk) / (presc + 1)
		half := tick / (2 * uint32(freq))
		if half == 0 || half > 256 {
			continue
		}
		scll := half - 1
		if scll < 5 {
			break
		}
		sclh := scll - 4
		sdadel := mathx.Min(uint32(2), sclh)
		scldel := uint32(4)
		return presc<<28 | scldel<<20 | sdadel<<16 | sclh<<8 | scll, nil
	}
	return 0, errcode.New(errcode.Unsupported, op, "PCLK1 "+pclk.String()+" cannot time "+freq.String())
}

// Instance returns the peripheral this master drives.
func (i *I2C) Instance() Instance { return i.inst }

// Tx writes w to the 7-bit address addr and then, after a repeated start,
// reads len(r) bytes. With both empty it addresses the device and returns
// whether it acknowledged, which is how a bus scan probes.
func (i *I2C) Tx(addr uint16, w, r []byte) error {
	const op = "i2c.tx"
	if addr > 0x7F {
		return errcode.New(errcode.InvalidParams, op, "address is not 7-bit")
	}
	if len(w) > MaxTransfer || len(r) > MaxTransfer {
		return errcode.New(errcode.InvalidParams, op, "transfer longer than 255 bytes")
	}

	for mmio.HasBits(i.r.ISR, isrBUSY) {
	}

	if len(w) > 0 || len(r) == 0 {
		autoend := len(r) == 0
		i.start(addr, false, len(w), autoend)
		for _, b := range w {
			if err := i.wait(isrTXIS, !autoend); err != nil {
				return err
			}
			i.r.TXDR.Set(uint32(b))
		}
		if autoend {
			return i.finish()
		}
		if err := i.wait(isrTC, true); err != nil {
			return err
		}
	}

	i.start(addr, true, len(r), true)
	for k := range r {
		if err := i.wait(isrRXNE, false); err != nil {
			return err
		}
		r[k] = byte(i.r.RXDR.Get())
	}
	return i.finish()
}

func (i *I2C) start(addr uint16, read bool, n int, autoend bool) {
	v := cr2SADD.Put(0, uint32(addr)<<1)
	v = cr2NBYTES.Put(v, uint32(n))
	v |= cr2START
	if read {
		v |= cr2RDWRN
	}
	if autoend {
		v |= cr2AUTOEND
	}
	i.r.CR2.Set(v)
}

// wait spins until flag sets or the transfer fails. After a NACK the
// controller only generates STOP by itself in AUTOEND mode; manualStop says
// it has to be requested.
func (i *I2C) wait(flag uint32, manualStop bool) error {
	for {
		isr := i.r.ISR.Get()
		switch {
		case isr&isrBERR != 0:
			i.r.ICR.Set(icrBERRCF)
			return errcode.New(errcode.BusError, "i2c.tx", i.inst.String()+" misplaced start or stop")
		case isr&isrARLO != 0:
			i.r.ICR.Set(icrARLOCF)
			return errcode.New(errcode.Arbitration, "i2c.tx", i.inst.String()+" lost arbitration")
		case isr&isrNACKF != 0:
			if manualStop {
				mmio.SetBits(i.r.CR2, cr2STOP)
			}
			for !mmio.HasBits(i.r.ISR, isrSTOPF) {
			}
			i.r.ICR.Set(icrNACKCF | icrSTOPCF)
			return errcode.New(errcode.Nack, "i2c.tx", "no acknowledge")
		case isr&flag != 0:
			return nil
		}
	}
}

// finish waits for the automatic STOP and clears it.
func (i *I2C) finish() error {
	if err := i.wait(isrSTOPF, false); err != nil {
		return err
	}
	i.r.ICR.Set(icrSTOPCF)
	return nil
}
