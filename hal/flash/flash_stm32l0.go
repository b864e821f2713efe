//go:build stm32l0

package flash

import "device/stm32"

// Device is the FLASH block of the running chip.
var Device = &Registers{ACR: &stm32.FLASH.ACR}
