package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/shlex"

	"l0hal-go/internal/profile"
)

// fields is the order in which a snapshot line is compared.
var fields = []string{"sysclk", "hclk", "pclk1", "pclk2", "ppre1", "ppre2", "src"}

// parseClocksLine splits a "clocks key=value ..." line into its fields. Any
// text before "clocks" (a log prefix) is ignored; ok is false for lines that
// carry no snapshot.
func parseClocksLine(line string) (kv map[string]string, ok bool, err error) {
	i := strings.Index(line, "clocks ")
	if i < 0 {
		return nil, false, nil
	}
	toks, err := shlex.Split(line[i:])
	if err != nil {
		return nil, true, err
	}
	kv = make(map[string]string, len(toks)-1)
	for _, t := range toks[1:] {
		k, v, found := strings.Cut(t, "=")
		if !found || k == "" {
			return nil, true, fmt.Errorf("malformed field %q", t)
		}
		kv[k] = v
	}
	return kv, true, nil
}

type fieldResult struct {
	name      string
	want, got string
	ok        bool
}

// compare matches got against want field by field. Frequencies compare by
// value so "16000000Hz" and "16MHz" agree.
func compare(want, got map[string]string) []fieldResult {
	out := make([]fieldResult, 0, len(fields))
	for _, name := range fields {
		r := fieldResult{name: name, want: want[name], got: got[name]}
		switch name {
		case "sysclk", "hclk", "pclk1", "pclk2":
			w, err1 := profile.ParseHertz(r.want)
			g, err2 := profile.ParseHertz(r.got)
			r.ok = err1 == nil && err2 == nil && w == g
		default:
			r.ok = r.got != "" && r.want == r.got
		}
		out = append(out, r)
	}
	return out
}

// readClocks scans r for the first snapshot line. Other lines are returned
// as they arrive through echo, which may be nil.
func readClocks(r io.Reader, timeout time.Duration, echo func(string)) (map[string]string, error) {
	type result struct {
		kv  map[string]string
		err error
	}
	done := make(chan result, 1)
	go func() {
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			line := strings.TrimRight(sc.Text(), "\r")
			kv, ok, err := parseClocksLine(line)
			if ok {
				done <- result{kv, err}
				return
			}
			if echo != nil {
				echo(line)
			}
		}
		err := sc.Err()
		if err == nil {
			err = io.ErrUnexpectedEOF
		}
		done <- result{nil, err}
	}()

	select {
	case res := <-done:
		return res.kv, res.err
	case <-time.After(timeout):
		return nil, fmt.Errorf("no clocks line within %s", timeout)
	}
}
