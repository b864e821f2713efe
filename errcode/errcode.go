package errcode

// Code is a stable error identifier shared by every HAL package.
// It is a string newtype, comparable, allocation-free, and implements error.
type Code string

func (c Code) Error() string { return string(c) }

// Canonical codes (short, stable).
const (
	OK            Code = "ok"
	InvalidParams Code = "invalid_params"
	Unsupported   Code = "unsupported"

	// Clock configuration
	Unreachable       Code = "clock_unreachable"
	OverCeiling       Code = "over_ceiling"
	TargetAboveSource Code = "target_above_source"
	Frozen            Code = "clock_frozen"
	NotConstrained    Code = "not_constrained"

	// Ownership
	AlreadyTaken  Code = "already_taken"
	PinInUse      Code = "pin_in_use"
	InvalidPinout Code = "invalid_pinout"

	// Bus transfers
	BusError    Code = "bus_error"
	Arbitration Code = "arbitration_lost"
	Nack        Code = "nack"

	Error Code = "error" // generic fallback
)

// E keeps the failing operation and a human-readable message next to a Code.
type E struct {
	C   Code
	Op  string
	Msg string
	Err error
}

// New returns an *E without a cause.
func New(c Code, op, msg string) *E { return &E{C: c, Op: op, Msg: msg} }

func (e *E) Error() string {
	s := string(e.C)
	if e.Op != "" {
		s = e.Op + ": " + s
	}
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	return s
}
func (e *E) Unwrap() error { return e.Err }
func (e *E) Code() Code    { return e.C }

// Is lets errors.Is(err, errcode.X) match an *E carrying code X.
func (e *E) Is(target error) bool {
	c, ok := target.(Code)
	return ok && c == e.C
}

// Of extracts a Code from an error, defaulting to Error.
func Of(err error) Code {
	if err == nil {
		return OK
	}
	if c, ok := err.(Code); ok {
		return c
	}
	type coder interface{ Code() Code }
	if x, ok := err.(coder); ok {
		return x.Code()
	}
	return Error
}
