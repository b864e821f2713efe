package aht20

import (
	"errors"
	"testing"
	"time"

	"l0hal-go/errcode"
)

// fakeBus answers like a sensor; busyReads Collects report busy first.
type fakeBus struct {
	status    byte
	busyReads int
	frame     [7]byte
	writes    [][]byte
	nack      bool
}

func (f *fakeBus) Tx(addr uint16, w, r []byte) error {
	if f.nack || addr != Address {
		return errcode.New(errcode.Nack, "fake", "no acknowledge")
	}
	if len(w) > 0 {
		f.writes = append(f.writes, append([]byte(nil), w...))
		if w[0] == cmdStatus && len(r) == 1 {
			r[0] = f.status
		}
		return nil
	}
	if f.busyReads > 0 {
		f.busyReads--
		r[0] = statusCalibrated | statusBusy
		return nil
	}
	copy(r, f.frame[:])
	return nil
}

// frameFor builds a valid reading with the given raw values.
func frameFor(hum, temp uint32) [7]byte {
	f := [7]byte{
		statusCalibrated,
		byte(hum >> 12), byte(hum >> 4), byte(hum<<4) | byte(temp>>16&0x0F),
		byte(temp >> 8), byte(temp),
	}
	f[6] = crc8(f[:6])
	return f
}

func newDev(b *fakeBus) *Device {
	d := New(b, Config{PollInterval: 10 * time.Millisecond, Timeout: 50 * time.Millisecond})
	d.sleep = func(time.Duration) {}
	return d
}

func TestCRC8(t *testing.T) {
	// Reference value for polynomial 0x31, init 0xFF.
	if got := crc8([]byte{0xBE, 0xEF}); got != 0x92 {
		t.Fatalf("crc8(BEEF) = %#x, want 0x92", got)
	}
}

func TestMeasure(t *testing.T) {
	b := &fakeBus{busyReads: 2, frame: frameFor(0x80000, 0x60000)}
	d := newDev(b)
	s, err := d.Measure()
	if err != nil {
		t.Fatal(err)
	}
	if s.RawHumidity != 0x80000 || s.RawTemp != 0x60000 {
		t.Fatalf("sample = %+v", s)
	}
	if s.DeciRelHumidity() != 500 || s.DeciCelsius() != 250 {
		t.Fatalf("converted rh=%d t=%d, want 500 and 250", s.DeciRelHumidity(), s.DeciCelsius())
	}
	if len(b.writes) != 1 || b.writes[0][0] != cmdTrigger {
		t.Fatalf("writes = %x", b.writes)
	}
}

func TestMeasureTimeout(t *testing.T) {
	d := newDev(&fakeBus{busyReads: 100})
	if _, err := d.Measure(); !errors.Is(err, ErrTimeout) {
		t.Fatalf("err = %v, want timeout", err)
	}
}

func TestCollectChecksum(t *testing.T) {
	b := &fakeBus{frame: frameFor(1, 2)}
	b.frame[6] ^= 0xFF
	if _, err := newDev(b).Collect(); err != ErrCRC {
		t.Fatalf("err = %v, want CRC mismatch", err)
	}
}

func TestInit(t *testing.T) {
	b := &fakeBus{}
	if err := newDev(b).Init(); err != nil {
		t.Fatal(err)
	}
	if len(b.writes) != 2 || b.writes[1][0] != cmdInitialize {
		t.Fatalf("uncalibrated sensor: writes = %x", b.writes)
	}

	b = &fakeBus{status: statusCalibrated}
	if err := newDev(b).Init(); err != nil || len(b.writes) != 1 {
		t.Fatalf("calibrated sensor: writes = %x err = %v", b.writes, err)
	}

	if err := newDev(&fakeBus{nack: true}).Init(); errcode.Of(err) != errcode.Nack {
		t.Fatalf("absent sensor err = %v", err)
	}
}
