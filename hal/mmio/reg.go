package mmio

// Reg is a host-side register. Hooks let a simulator model hardware:
// OnWrite receives the previous and proposed values and returns what the
// register latches (read-only flags, write-1-to-clear); OnRead runs before
// every Get and may update the latched value (status flags that settle over
// time).
type Reg struct {
	Name    string
	v       uint32
	OnWrite func(old, v uint32) uint32
	OnRead  func(v uint32) uint32
}

// NewReg returns a register holding its reset value.
func NewReg(name string, reset uint32) *Reg { return &Reg{Name: name, v: reset} }

func (r *Reg) Get() uint32 {
	if r.OnRead != nil {
		r.v = r.OnRead(r.v)
	}
	return r.v
}

func (r *Reg) Set(v uint32) {
	if r.OnWrite != nil {
		v = r.OnWrite(r.v, v)
	}
	r.v = v
}

// Peek returns the latched value without running hooks.
func (r *Reg) Peek() uint32 { return r.v }

// Poke stores v without running hooks.
func (r *Reg) Poke(v uint32) { r.v = v }
