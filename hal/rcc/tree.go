package rcc

// Source is a SYSCLK source; the values are the CFGR.SW encodings.
type Source uint8

const (
	SourceMSI Source = iota
	SourceHSI16
	SourceHSE
	SourcePLL
)

func (s Source) String() string {
	switch s {
	case SourceMSI:
		return "msi"
	case SourceHSI16:
		return "hsi16"
	case SourceHSE:
		return "hse"
	default:
		return "pll"
	}
}

// PLLMul is the CFGR.PLLMUL encoding.
type PLLMul uint8

const (
	PLLMul3 PLLMul = iota
	PLLMul4
	PLLMul6
	PLLMul8
	PLLMul12
	PLLMul16
	PLLMul24
	PLLMul32
	PLLMul48
)

var pllMulFactors = [...]uint32{3, 4, 6, 8, 12, 16, 24, 32, 48}

// Factor returns the multiplication factor encoded by m.
func (m PLLMul) Factor() uint32 { return pllMulFactors[m] }

func pllMulFor(factor uint32) (PLLMul, bool) {
	for i, f := range pllMulFactors {
		if f == factor {
			return PLLMul(i), true
		}
	}
	return 0, false
}

// PLLDiv is the CFGR.PLLDIV encoding.
type PLLDiv uint8

const (
	PLLDiv2 PLLDiv = iota + 1
	PLLDiv3
	PLLDiv4
)

// Factor returns the division factor encoded by d.
func (d PLLDiv) Factor() uint32 { return uint32(d) + 1 }

func pllDivFor(factor uint32) (PLLDiv, bool) {
	if factor < 2 || factor > 4 {
		return 0, false
	}
	return PLLDiv(factor - 1), true
}

// AHBPrescaler is the CFGR.HPRE encoding.
type AHBPrescaler uint8

const (
	AHBDiv1   AHBPrescaler = 0b0000
	AHBDiv2   AHBPrescaler = 0b1000
	AHBDiv4   AHBPrescaler = 0b1001
	AHBDiv8   AHBPrescaler = 0b1010
	AHBDiv16  AHBPrescaler = 0b1011
	AHBDiv64  AHBPrescaler = 0b1100
	AHBDiv128 AHBPrescaler = 0b1101
	AHBDiv256 AHBPrescaler = 0b1110
	AHBDiv512 AHBPrescaler = 0b1111
)

// Ratio returns the division ratio encoded by p.
func (p AHBPrescaler) Ratio() uint32 {
	switch p {
	case AHBDiv2:
		return 2
	case AHBDiv4:
		return 4
	case AHBDiv8:
		return 8
	case AHBDiv16:
		return 16
	case AHBDiv64:
		return 64
	case AHBDiv128:
		return 128
	case AHBDiv256:
		return 256
	case AHBDiv512:
		return 512
	default:
		return 1
	}
}

// APBPrescaler is the CFGR.PPRE1/PPRE2 encoding.
type APBPrescaler uint8

const (
	APBDiv1  APBPrescaler = 0b000
	APBDiv2  APBPrescaler = 0b100
	APBDiv4  APBPrescaler = 0b101
	APBDiv8  APBPrescaler = 0b110
	APBDiv16 APBPrescaler = 0b111
)

// Ratio returns the division ratio encoded by p.
func (p APBPrescaler) Ratio() uint32 {
	if p < APBDiv2 {
		return 1
	}
	return 1 << (p - APBDiv2 + 1)
}

// Prescaler selection buckets: an integer upstream/target ratio up to max
// selects code; the top bucket catches everything larger. A ratio between
// two powers of two may land on either neighbour.
var ahbBuckets = [...]struct {
	max  uint32
	code AHBPrescaler
}{
	{1, AHBDiv1},
	{2, AHBDiv2},
	{5, AHBDiv4},
	{11, AHBDiv8},
	{39, AHBDiv16},
	{95, AHBDiv64},
	{191, AHBDiv128},
	{383, AHBDiv256},
}

var apbBuckets = [...]struct {
	max  uint32
	code APBPrescaler
}{
	{1, APBDiv1},
	{2, APBDiv2},
	{5, APBDiv4},
	{11, APBDiv8},
}

func ahbPrescalerFor(ratio uint32) AHBPrescaler {
	for _, b := range ahbBuckets {
		if ratio <= b.max {
			return b.code
		}
	}
	return AHBDiv512
}

func apbPrescalerFor(ratio uint32) APBPrescaler {
	for _, b := range apbBuckets {
		if ratio <= b.max {
			return b.code
		}
	}
	return APBDiv16
}

// Tree is a resolved clock configuration: register encodings plus the
// frequencies they produce. It is plain data; two resolutions of the same
// Config compare equal with ==.
type Tree struct {
	Input     Source // SourceHSI16 or SourceHSE
	HSEBypass bool
	PLL       bool
	PLLMul    PLLMul
	PLLDiv    PLLDiv
	HPRE      AHBPrescaler
	PPRE1     APBPrescaler
	PPRE2     APBPrescaler

	FlashWaitState bool

	PLLCLK Hertz // zero when the PLL is bypassed
	SYSCLK Hertz
	HCLK   Hertz
	PCLK1  Hertz
	PCLK2  Hertz
}

// SW returns the SYSCLK source the tree selects.
func (t Tree) SW() Source {
	if t.PLL {
		return SourcePLL
	}
	return t.Input
}

// oscillator returns the CR enable and ready bits of the tree's input.
func (t Tree) oscillator() (on, ready uint32) {
	if t.Input == SourceHSE {
		return CR_HSEON, CR_HSERDY
	}
	return CR_HSI16ON, CR_HSI16RDYF
}
