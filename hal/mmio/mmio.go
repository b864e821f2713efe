// Package mmio is the register layer every HAL package sits on.
//
// On hardware a Register is a *volatile.Register32 from device/stm32; on the
// host it is a *Reg, optionally wired with hooks that model the peripheral.
// The helpers mirror the volatile.Register32 method set so driver code reads
// the same either way.
package mmio

// Register is a 32-bit memory-mapped register.
type Register interface {
	Get() uint32
	Set(value uint32)
}

// SetBits sets the bits in mask (read-modify-write).
func SetBits(r Register, mask uint32) { r.Set(r.Get() | mask) }

// ClearBits clears the bits in mask (read-modify-write).
func ClearBits(r Register, mask uint32) { r.Set(r.Get() &^ mask) }

// HasBits reports whether any bit in mask is set.
func HasBits(r Register, mask uint32) bool { return r.Get()&mask != 0 }

// ReplaceBits writes value into the field mask<<pos, leaving other bits alone.
func ReplaceBits(r Register, value, mask uint32, pos uint8) {
	r.Set(r.Get()&^(mask<<pos) | (value&mask)<<pos)
}

// Field is a named bit-field inside a register.
type Field struct {
	Pos   uint8
	Width uint8
}

// Mask returns the field mask shifted into place.
func (f Field) Mask() uint32 { return (1<<f.Width - 1) << f.Pos }

// Get extracts the field from a register value.
func (f Field) Get(v uint32) uint32 { return (v >> f.Pos) & (1<<f.Width - 1) }

// Put returns v with the field replaced by x.
func (f Field) Put(v, x uint32) uint32 { return v&^f.Mask() | (x<<f.Pos)&f.Mask() }

// Read reads the field from r.
func (f Field) Read(r Register) uint32 { return f.Get(r.Get()) }

// Write replaces the field in r (read-modify-write).
func (f Field) Write(r Register, x uint32) { r.Set(f.Put(r.Get(), x)) }
