// Package aht20 reads the AHT20 temperature and humidity sensor over any
// tinygo.org/x/drivers.I2C bus.
//
// A measurement is two phases: Trigger starts a conversion, Collect fetches
// it once the sensor is idle. Measure does both with bounded polling.
// Conversions are fixed point; no floats on the MCU path.
package aht20

import (
	"time"

	"tinygo.org/x/drivers"

	"l0hal-go/errcode"
	"l0hal-go/x/mathx"
)

// Address is the fixed I2C address.
const Address = 0x38

const (
	cmdTrigger    = 0xAC
	cmdInitialize = 0xBE
	cmdSoftReset  = 0xBA
	cmdStatus     = 0x71

	statusBusy       = 0x80
	statusCalibrated = 0x08
)

// Errors returned besides bus errors.
var (
	ErrNotReady = errcode.New(errcode.Error, "aht20.collect", "conversion in progress")
	ErrTimeout  = errcode.New(errcode.Error, "aht20.measure", "no sample before timeout")
	ErrCRC      = errcode.New(errcode.Error, "aht20.collect", "checksum mismatch")
)

// Config holds optional timing.
type Config struct {
	Address      uint16        // defaults to Address
	PollInterval time.Duration // defaults to 15ms
	Timeout      time.Duration // defaults to 250ms
}

// Device is one sensor on a bus.
type Device struct {
	bus   drivers.I2C
	addr  uint16
	cfg   Config
	buf   [7]byte
	sleep func(time.Duration)
}

// New returns a driver for the sensor; it does not touch the bus.
func New(bus drivers.I2C, cfg Config) *Device {
	if cfg.Address == 0 {
		cfg.Address = Address
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 15 * time.Millisecond
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 250 * time.Millisecond
	}
	return &Device{bus: bus, addr: cfg.Address, cfg: cfg, sleep: time.Sleep}
}

// Init loads the calibration if the sensor reports it missing.
func (d *Device) Init() error {
	st, err := d.Status()
	if err != nil {
		return err
	}
	if st&statusCalibrated != 0 {
		return nil
	}
	if err := d.bus.Tx(d.addr, []byte{cmdInitialize, 0x08, 0x00}, nil); err != nil {
		return err
	}
	d.sleep(10 * time.Millisecond)
	return nil
}

// Reset issues a soft reset; the sensor needs about 20ms afterwards.
func (d *Device) Reset() error { return d.bus.Tx(d.addr, []byte{cmdSoftReset}, nil) }

// Status returns the status byte.
func (d *Device) Status() (byte, error) {
	b := d.buf[:1]
	if err := d.bus.Tx(d.addr, []byte{cmdStatus}, b); err != nil {
		return 0, err
	}
	return b[0], nil
}

// Trigger starts a conversion.
func (d *Device) Trigger() error {
	return d.bus.Tx(d.addr, []byte{cmdTrigger, 0x33, 0x00}, nil)
}

// Collect reads a finished conversion. It returns ErrNotReady while the
// sensor is busy.
func (d *Device) Collect() (Sample, error) {
	data := d.buf[:]
	if err := d.bus.Tx(d.addr, nil, data); err != nil {
		return Sample{}, err
	}
	if data[0]&statusCalibrated == 0 || data[0]&statusBusy != 0 {
		return Sample{}, ErrNotReady
	}
	if crc8(data[:6]) != data[6] {
		return Sample{}, ErrCRC
	}
	return Sample{
		RawHumidity: uint32(data[1])<<12 | uint32(data[2])<<4 | uint32(data[3])>>4,
		RawTemp:     uint32(data[3]&0x0F)<<16 | uint32(data[4])<<8 | uint32(data[5]),
	}, nil
}

// Measure triggers a conversion and polls Collect until it succeeds or the
// configured timeout has been spent in poll intervals.
func (d *Device) Measure() (Sample, error) {
	if err := d.Trigger(); err != nil {
		return Sample{}, err
	}
	tries := int(d.cfg.Timeout / d.cfg.PollInterval)
	for i := 0; ; i++ {
		s, err := d.Collect()
		if err != ErrNotReady {
			return s, err
		}
		if i >= tries {
			return Sample{}, ErrTimeout
		}
		d.sleep(d.cfg.PollInterval)
	}
}

// crc8 is the sensor's CRC-8 (polynomial 0x31, init 0xFF).
func crc8(p []byte) byte {
	crc := byte(0xFF)
	for _, b := range p {
		crc ^= b
		for i := 0; i < 8; i++ {
			if crc&0x80 != 0 {
				crc = crc<<1 ^ 0x31
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}

// Sample is one raw 20-bit reading pair.
type Sample struct {
	RawHumidity uint32
	RawTemp     uint32
}

// DeciRelHumidity returns tenths of %RH, clamped to 0..1000.
func (s Sample) DeciRelHumidity() int32 {
	return mathx.Clamp(int32(int64(s.RawHumidity)*1000>>20), 0, 1000)
}

// DeciCelsius returns tenths of °C.
func (s Sample) DeciCelsius() int32 {
	return int32(int64(s.RawTemp)*2000>>20) - 500
}
