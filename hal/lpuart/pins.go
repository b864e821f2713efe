package lpuart

import (
	"l0hal-go/errcode"
	"l0hal-go/hal/gpio"
)

// pinout lists the TX/RX pairs that reach LPUART1 and their alternate function.
var pinout = [...]struct {
	tx, rx gpio.PinID
	af     gpio.AF
}{
	{gpio.PA2, gpio.PA3, gpio.AF6},
	{gpio.PA14, gpio.PA13, gpio.AF6},
	{gpio.PB10, gpio.PB11, gpio.AF4},
	{gpio.PB11, gpio.PB10, gpio.AF7},
	{gpio.PC1, gpio.PC0, gpio.AF6},
	{gpio.PC4, gpio.PC5, gpio.AF2},
	{gpio.PC10, gpio.PC11, gpio.AF0},
}

func checkPins(tx, rx *gpio.Pin) error {
	const op = "lpuart.pinout"
	if tx == nil || rx == nil {
		return errcode.New(errcode.InvalidPinout, op, "TX and RX pins are required")
	}
	txAF, ok := tx.AF()
	if !ok {
		return errcode.New(errcode.InvalidPinout, op, tx.String()+" is not in alternate mode")
	}
	rxAF, ok := rx.AF()
	if !ok {
		return errcode.New(errcode.InvalidPinout, op, rx.String()+" is not in alternate mode")
	}
	for _, e := range pinout {
		if e.tx == tx.ID() && e.rx == rx.ID() && e.af == txAF && e.af == rxAF {
			return nil
		}
	}
	return errcode.New(errcode.InvalidPinout, op,
		tx.String()+"/"+rx.String()+" is not an LPUART1 TX/RX pair")
}
