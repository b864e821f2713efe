package i2c

import (
	"l0hal-go/errcode"
	"l0hal-go/hal/gpio"
)

type role uint8

const (
	roleSCL role = iota
	roleSDA
)

func (r role) String() string {
	if r == roleSDA {
		return "SDA"
	}
	return "SCL"
}

// pinout lists every pin and alternate function that reaches an I2C signal.
var pinout = [...]struct {
	inst Instance
	role role
	pin  gpio.PinID
	af   gpio.AF
}{
	{I2C1, roleSCL, gpio.PA9, gpio.AF6},
	{I2C1, roleSCL, gpio.PB6, gpio.AF1},
	{I2C1, roleSCL, gpio.PB8, gpio.AF4},
	{I2C1, roleSDA, gpio.PA10, gpio.AF6},
	{I2C1, roleSDA, gpio.PB7, gpio.AF1},
	{I2C1, roleSDA, gpio.PB9, gpio.AF4},
	{I2C3, roleSCL, gpio.PA8, gpio.AF7},
	{I2C3, roleSCL, gpio.PC0, gpio.AF7},
	{I2C3, roleSDA, gpio.PB4, gpio.AF7},
	{I2C3, roleSDA, gpio.PC1, gpio.AF7},
}

func checkPin(inst Instance, r role, p *gpio.Pin) error {
	const op = "i2c.pinout"
	if p == nil {
		return errcode.New(errcode.InvalidPinout, op, inst.String()+" "+r.String()+" pin missing")
	}
	af, ok := p.AF()
	if !ok {
		return errcode.New(errcode.InvalidPinout, op, p.String()+" is not in alternate mode")
	}
	for _, e := range pinout {
		if e.inst == inst && e.role == r && e.pin == p.ID() && e.af == af {
			return nil
		}
	}
	return errcode.New(errcode.InvalidPinout, op,
		p.String()+"/AF"+string(rune('0'+af))+" is not "+inst.String()+" "+r.String())
}
