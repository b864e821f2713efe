//go:build !rccdebug

package rcc

func dbgStep(string, *Registers) {}
