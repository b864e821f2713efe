// Package rccsim simulates the RCC and FLASH registers the clock sequencer
// drives. Ready and lock flags follow their enable bits, SWS follows SW once
// the selected source is ready, and every write is recorded so tests can
// check the order of a sequence. Writes that would upset a real chip are
// logged as violations rather than rejected.
package rccsim

import (
	"errors"

	"l0hal-go/hal/flash"
	"l0hal-go/hal/mmio"
	"l0hal-go/hal/rcc"
	"l0hal-go/x/conv"
)

// ErrStillWaiting is the panic value raised when the code under test polls
// more than PollLimit times without writing anything.
var ErrStillWaiting = errors.New("rccsim: still waiting after poll limit")

// MSIFreq is the reset MSI frequency (range 5).
const MSIFreq rcc.Hertz = 2_097_000

// Reset values.
const (
	resetCR   = rcc.CR_MSION | rcc.CR_MSIRDY
	resetCFGR = 0
)

const pllFields = rcc.CFGR_PLLSRC | 0xF<<18 | 0x3<<22

const acrLatency = 1 << 0

// Write is one register write as the hardware latched it.
type Write struct {
	Reg string
	Old uint32
	New uint32
}

func (w Write) String() string {
	return w.Reg + " " + conv.Hex32(w.Old) + " -> " + conv.Hex32(w.New)
}

// Sim is a simulated RCC plus FLASH ACR.
type Sim struct {
	RCC   *rcc.Registers
	Flash *flash.Registers

	CR, CFGR, CCIPR, ACR *mmio.Reg

	// HSEFreq is what the HSE pin carries; only used to compute SYSCLK for
	// the flash latency checks.
	HSEFreq rcc.Hertz
	// PLLLockDelay is the number of CR reads before PLLRDY sets.
	PLLLockDelay int
	// PLLNeverLocks keeps PLLRDY clear forever.
	PLLNeverLocks bool
	// HSENeverReady keeps HSERDY clear forever.
	HSENeverReady bool
	// PollLimit bounds consecutive reads without a write; zero disables it.
	PollLimit int

	Trace      []Write
	Violations []string

	polls   int
	pllWait int
}

// New returns a simulator in the reset state: SYSCLK on MSI, PLL off, no
// flash wait state.
func New() *Sim {
	s := &Sim{PollLimit: 10_000, PLLLockDelay: 3}
	s.CR = mmio.NewReg("CR", resetCR)
	s.CFGR = mmio.NewReg("CFGR", resetCFGR)
	s.CCIPR = s.plain("CCIPR")
	s.ACR = mmio.NewReg("ACR", 0)

	s.CR.OnWrite = s.writeCR
	s.CR.OnRead = s.readCR
	s.CFGR.OnWrite = s.writeCFGR
	s.CFGR.OnRead = s.readCFGR
	s.ACR.OnWrite = s.writeACR
	s.ACR.OnRead = s.poll

	s.RCC = &rcc.Registers{
		CR:       s.CR,
		CFGR:     s.CFGR,
		CCIPR:    s.CCIPR,
		AHBENR:   s.plain("AHBENR"),
		AHBRSTR:  s.plain("AHBRSTR"),
		APB1ENR:  s.plain("APB1ENR"),
		APB1RSTR: s.plain("APB1RSTR"),
		APB2ENR:  s.plain("APB2ENR"),
		APB2RSTR: s.plain("APB2RSTR"),
		IOPENR:   s.plain("IOPENR"),
		IOPRSTR:  s.plain("IOPRSTR"),
	}
	s.Flash = &flash.Registers{ACR: s.ACR}
	return s
}

// StartOnPLL puts the simulator in the state a bootloader may leave behind:
// HSI16 feeding the PLL with the given codes, PLL locked and selected, one
// flash wait state.
func (s *Sim) StartOnPLL(mul rcc.PLLMul, div rcc.PLLDiv) {
	s.CR.Poke(resetCR | rcc.CR_HSI16ON | rcc.CR_HSI16RDYF | rcc.CR_PLLON | rcc.CR_PLLRDY)
	v := rcc.CFGR_PLLMUL.Put(0, uint32(mul))
	v = rcc.CFGR_PLLDIV.Put(v, uint32(div))
	v = rcc.CFGR_SW.Put(v, uint32(rcc.SourcePLL))
	v = rcc.CFGR_SWS.Put(v, uint32(rcc.SourcePLL))
	s.CFGR.Poke(v)
	s.ACR.Poke(acrLatency)
}

// StartOnHSE leaves SYSCLK running directly on HSE, driven by an external
// clock when bypass is set and by a crystal otherwise.
func (s *Sim) StartOnHSE(bypass bool) {
	cr := uint32(resetCR | rcc.CR_HSEON | rcc.CR_HSERDY)
	if bypass {
		cr |= rcc.CR_HSEBYP
	}
	s.CR.Poke(cr)
	v := rcc.CFGR_SW.Put(0, uint32(rcc.SourceHSE))
	s.CFGR.Poke(rcc.CFGR_SWS.Put(v, uint32(rcc.SourceHSE)))
}

// SYSCLK returns the frequency SWS currently selects.
func (s *Sim) SYSCLK() rcc.Hertz {
	return s.freq(rcc.Source(rcc.CFGR_SWS.Get(s.CFGR.Peek())))
}

// WaitState reports the latched flash latency.
func (s *Sim) WaitState() bool { return s.ACR.Peek()&acrLatency != 0 }

// Wrote reports the index of the first trace entry for reg whose new value
// satisfies match, or -1.
func (s *Sim) Wrote(reg string, match func(old, new uint32) bool) int {
	for i, w := range s.Trace {
		if w.Reg == reg && match(w.Old, w.New) {
			return i
		}
	}
	return -1
}

func (s *Sim) plain(name string) *mmio.Reg {
	r := mmio.NewReg(name, 0)
	r.OnWrite = func(old, v uint32) uint32 {
		s.record(name, old, v)
		return v
	}
	return r
}

func (s *Sim) record(name string, old, v uint32) {
	s.polls = 0
	s.Trace = append(s.Trace, Write{Reg: name, Old: old, New: v})
}

func (s *Sim) violate(msg string) { s.Violations = append(s.Violations, msg) }

func (s *Sim) poll(v uint32) uint32 {
	s.polls++
	if s.PollLimit > 0 && s.polls > s.PollLimit {
		panic(ErrStillWaiting)
	}
	return v
}

func (s *Sim) writeCR(old, v uint32) uint32 {
	const ro = rcc.CR_HSI16RDYF | rcc.CR_MSIRDY | rcc.CR_HSERDY | rcc.CR_PLLRDY
	v = v&^ro | old&ro

	if old&(rcc.CR_HSEON|rcc.CR_HSERDY) != 0 && (old^v)&rcc.CR_HSEBYP != 0 {
		s.violate("HSEBYP changed while HSE is on")
	}
	if v&rcc.CR_HSI16ON != 0 {
		v |= rcc.CR_HSI16RDYF
	} else {
		v &^= rcc.CR_HSI16RDYF
	}
	if v&rcc.CR_MSION != 0 {
		v |= rcc.CR_MSIRDY
	} else {
		v &^= rcc.CR_MSIRDY
	}
	if v&rcc.CR_HSEON != 0 && !s.HSENeverReady {
		v |= rcc.CR_HSERDY
	} else {
		v &^= rcc.CR_HSERDY
	}
	if old&rcc.CR_PLLON == 0 && v&rcc.CR_PLLON != 0 {
		s.pllWait = s.PLLLockDelay
	}

	sws := rcc.Source(rcc.CFGR_SWS.Get(s.CFGR.Peek()))
	if v&enableBit(sws) == 0 {
		s.violate("source of SYSCLK (" + sws.String() + ") switched off")
	}
	s.record("CR", old, v)
	return v
}

func (s *Sim) readCR(v uint32) uint32 {
	v = s.poll(v)
	switch {
	case v&rcc.CR_PLLON == 0:
		v &^= rcc.CR_PLLRDY
	case v&rcc.CR_PLLRDY != 0 || s.PLLNeverLocks:
	case !s.pllInputReady(v):
	case s.pllWait > 0:
		s.pllWait--
	default:
		v |= rcc.CR_PLLRDY
	}
	return v
}

func (s *Sim) pllInputReady(cr uint32) bool {
	if s.CFGR.Peek()&rcc.CFGR_PLLSRC != 0 {
		return cr&rcc.CR_HSERDY != 0
	}
	return cr&rcc.CR_HSI16RDYF != 0
}

func (s *Sim) writeCFGR(old, v uint32) uint32 {
	v = rcc.CFGR_SWS.Put(v, rcc.CFGR_SWS.Get(old))

	cr := s.CR.Peek()
	if cr&rcc.CR_PLLON != 0 && (old^v)&pllFields != 0 {
		s.violate("PLL reprogrammed while enabled")
	}
	sw := rcc.Source(rcc.CFGR_SW.Get(v))
	if sw != rcc.Source(rcc.CFGR_SW.Get(old)) {
		if ready(cr, sw) {
			v = rcc.CFGR_SWS.Put(v, uint32(sw))
			if s.freqOf(sw, v) > flash.MaxZeroWaitHz && !s.WaitState() {
				s.violate("SYSCLK " + s.freqOf(sw, v).String() + " with zero flash wait states")
			}
		} else {
			s.violate("switch to " + sw.String() + " before it is ready")
		}
	}
	s.record("CFGR", old, v)
	return v
}

func (s *Sim) readCFGR(v uint32) uint32 {
	v = s.poll(v)
	sw := rcc.Source(rcc.CFGR_SW.Get(v))
	if rcc.Source(rcc.CFGR_SWS.Get(v)) != sw && ready(s.CR.Peek(), sw) {
		v = rcc.CFGR_SWS.Put(v, uint32(sw))
	}
	return v
}

func (s *Sim) writeACR(old, v uint32) uint32 {
	if old&acrLatency != 0 && v&acrLatency == 0 && s.SYSCLK() > flash.MaxZeroWaitHz {
		s.violate("flash latency lowered at SYSCLK " + s.SYSCLK().String())
	}
	s.record("ACR", old, v)
	return v
}

func ready(cr uint32, src rcc.Source) bool {
	switch src {
	case rcc.SourceMSI:
		return cr&rcc.CR_MSIRDY != 0
	case rcc.SourceHSI16:
		return cr&rcc.CR_HSI16RDYF != 0
	case rcc.SourceHSE:
		return cr&rcc.CR_HSERDY != 0
	default:
		return cr&rcc.CR_PLLRDY != 0
	}
}

func enableBit(src rcc.Source) uint32 {
	switch src {
	case rcc.SourceMSI:
		return rcc.CR_MSION
	case rcc.SourceHSI16:
		return rcc.CR_HSI16ON
	case rcc.SourceHSE:
		return rcc.CR_HSEON
	default:
		return rcc.CR_PLLON
	}
}

func (s *Sim) freq(src rcc.Source) rcc.Hertz { return s.freqOf(src, s.CFGR.Peek()) }

func (s *Sim) freqOf(src rcc.Source, cfgr uint32) rcc.Hertz {
	switch src {
	case rcc.SourceMSI:
		return MSIFreq
	case rcc.SourceHSI16:
		return rcc.HSI16Freq
	case rcc.SourceHSE:
		return s.HSEFreq
	}
	in := rcc.HSI16Freq
	if cfgr&rcc.CFGR_PLLSRC != 0 {
		in = s.HSEFreq
	}
	mul := rcc.PLLMul(rcc.CFGR_PLLMUL.Get(cfgr))
	div := rcc.PLLDiv(rcc.CFGR_PLLDIV.Get(cfgr))
	if mul > rcc.PLLMul48 || div == 0 {
		return 0
	}
	return in * rcc.Hertz(mul.Factor()) / rcc.Hertz(div.Factor())
}
