//go:build stm32l0

// Command l0-demo brings an STM32L0x3 up on the PLL, prints the frozen clock
// snapshot on LPUART1, scans I2C1 for sensors and echoes button presses on
// PC13 through EXTI13. l0clock verify reads the snapshot line back.
package main

import (
	"time"

	"tinygo.org/x/drivers/shtc3"

	"l0hal-go/drivers/aht20"
	"l0hal-go/hal/exti"
	"l0hal-go/hal/flash"
	"l0hal-go/hal/gpio"
	"l0hal-go/hal/i2c"
	"l0hal-go/hal/lpuart"
	"l0hal-go/hal/rcc"
	"l0hal-go/x/conv"
)

const (
	shtc3Addr = 0x70
	buttonPin = 13
)

var out *lpuart.UART

func say(s string) {
	if out == nil {
		println(s)
		return
	}
	out.Write([]byte(s))
	out.Write([]byte("\r\n"))
}

func must(what string, err error) {
	if err == nil {
		return
	}
	for {
		say("[demo] " + what + ": " + err.Error())
		time.Sleep(2 * time.Second)
	}
}

func main() {
	r, err := rcc.Constrain(rcc.Device)
	must("rcc", err)
	fl, err := flash.Constrain(flash.Device)
	must("flash", err)
	fl.ACR.SetPrefetch(true)

	clk, err := r.Config.SYSCLK(32 * rcc.MHz).PCLK1(16 * rcc.MHz).Freeze(fl.ACR)
	must("freeze", err)

	pa, err := gpio.Split(gpio.PortA, gpio.GPIOA, r.IOP)
	must("gpioa", err)
	tx := claimAlt(pa, "lpuart1", 2, gpio.AF6, gpio.AltConfig{Speed: gpio.SpeedHigh})
	rx := claimAlt(pa, "lpuart1", 3, gpio.AF6, gpio.AltConfig{Pull: gpio.PullUp})
	out, err = lpuart.New(lpuart.Device, tx, rx, lpuart.DefaultConfig(), clk, r.APB1, r.CCIPR)
	must("lpuart", err)

	say(clk.String())

	pb, err := gpio.Split(gpio.PortB, gpio.GPIOB, r.IOP)
	must("gpiob", err)
	od := gpio.AltConfig{OpenDrain: true, Pull: gpio.PullUp}
	scl := claimAlt(pb, "i2c1", 6, gpio.AF1, od)
	sda := claimAlt(pb, "i2c1", 7, gpio.AF1, od)
	bus, err := i2c.New(i2c.I2C1, i2c.Device1, scl, sda, i2c.Config{}, clk, r.APB1)
	must("i2c1", err)
	found := scan(bus)
	readSensors(bus, found)

	pc, err := gpio.Split(gpio.PortC, gpio.GPIOC, r.IOP)
	must("gpioc", err)
	btn, err := pc.Claim("button", buttonPin)
	must("button", err)
	must("button", btn.ConfigureInput(gpio.PullUp))
	ex, err := exti.Constrain(exti.Device)
	must("exti", err)
	line, err := ex.Line(buttonPin)
	must("exti13", err)
	must("exti13", line.ConfigurePin(r.APB2, btn, exti.EdgeFalling))

	presses := uint64(0)
	buf := make([]byte, 32)
	// No IRQ is routed to LPUART1 here, so the tick drains the receiver and
	// the ring reports arrivals through Readable.
	tick := time.NewTicker(10 * time.Millisecond)
	for {
		select {
		case <-out.Readable():
			for {
				n, _ := out.Read(buf)
				if n == 0 {
					break
				}
				out.Write(buf[:n])
			}
		case <-tick.C:
			out.HandleInterrupt()
			if line.IsPending() {
				line.ClearPending()
				presses++
				say("[demo] button " + conv.Uitoa(presses))
			}
		}
	}
}

func claimAlt(g *gpio.GPIO, owner string, n uint8, af gpio.AF, cfg gpio.AltConfig) *gpio.Pin {
	p, err := g.Claim(owner, n)
	must(owner, err)
	must(owner, p.ConfigureAlternate(af, cfg))
	return p
}

// scan probes every non-reserved 7-bit address.
func scan(bus *i2c.I2C) []uint16 {
	var found []uint16
	for addr := uint16(0x08); addr < 0x78; addr++ {
		if bus.Tx(addr, nil, nil) == nil {
			found = append(found, addr)
			say("[demo] i2c1 " + conv.Hex32(uint32(addr)))
		}
	}
	if len(found) == 0 {
		say("[demo] i2c1 no devices")
	}
	return found
}

func readSensors(bus *i2c.I2C, found []uint16) {
	for _, addr := range found {
		switch addr {
		case shtc3Addr:
			s := shtc3.New(bus)
			s.WakeUp()
			tmc, rh, err := s.ReadTemperatureHumidity()
			s.Sleep()
			if err != nil {
				say("[demo] shtc3: " + err.Error())
				continue
			}
			say("[demo] shtc3 t=" + milli(int64(tmc)) + "C rh=" + centi(int64(rh)) + "%")
		case aht20.Address:
			d := aht20.New(bus, aht20.Config{})
			if err := d.Init(); err != nil {
				say("[demo] aht20: " + err.Error())
				continue
			}
			s, err := d.Measure()
			if err != nil {
				say("[demo] aht20: " + err.Error())
				continue
			}
			say("[demo] aht20 t=" + deci(int64(s.DeciCelsius())) + "C rh=" + deci(int64(s.DeciRelHumidity())) + "%")
		}
	}
}

func milli(v int64) string { return fixed(v, 1000, 3) }
func centi(v int64) string { return fixed(v, 100, 2) }
func deci(v int64) string  { return fixed(v, 10, 1) }

// fixed renders v/scale with the given number of fraction digits.
func fixed(v, scale int64, digits int) string {
	sign := ""
	if v < 0 {
		sign, v = "-", -v
	}
	frac := conv.Uitoa(uint64(v % scale))
	for len(frac) < digits {
		frac = "0" + frac
	}
	return sign + conv.Uitoa(uint64(v/scale)) + "." + frac
}
