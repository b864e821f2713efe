package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"l0hal-go/hal/flash"
	"l0hal-go/hal/rcc"
	"l0hal-go/hal/rcc/rccsim"
)

var (
	simulateFlags clockFlags

	simOpts = struct {
		fromPLL   bool
		neverLock bool
		hseDead   bool
		quiet     bool
	}{}

	errViolations = errors.New("sequence broke hardware rules")

	simulateCmd = &cobra.Command{
		Use:   "simulate",
		Short: "Replay the clock bring-up against the register simulator",
		Long:  "Freeze the configuration against a simulated RCC and FLASH, print every register write, and report any write a real chip would not tolerate.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := simulate(&simulateFlags, simOptions{
				fromPLL:   simOpts.fromPLL,
				neverLock: simOpts.neverLock,
				hseDead:   simOpts.hseDead,
			})
			w := stdout(cmd)
			if res.sim != nil && !simOpts.quiet {
				for _, t := range res.sim.Trace {
					fmt.Fprintln(w, t)
				}
			}
			if err != nil {
				return err
			}
			if res.stuck {
				return fmt.Errorf("sequencer still waiting after %d polls, SYSCLK left at %s", res.sim.PollLimit, res.sim.SYSCLK())
			}
			for _, v := range res.sim.Violations {
				fmt.Fprintln(w, red("violation:"), v)
			}
			fmt.Fprintln(w, res.clk)
			if len(res.sim.Violations) > 0 {
				return errViolations
			}
			fmt.Fprintln(w, green("ok"), "sequence clean")
			return nil
		},
	}
)

func init() {
	simulateFlags.register(simulateCmd)
	fl := simulateCmd.Flags()
	fl.BoolVar(&simOpts.fromPLL, "from-pll", false, "start with HSI16 ×4 ÷2 already selected, as a bootloader may leave it")
	fl.BoolVar(&simOpts.neverLock, "never-lock", false, "simulate a PLL that never locks")
	fl.BoolVar(&simOpts.hseDead, "hse-dead", false, "simulate an HSE that never becomes ready")
	fl.BoolVarP(&simOpts.quiet, "quiet", "q", false, "do not print the write trace")
}

type simOptions struct {
	fromPLL, neverLock, hseDead bool
}

type simResult struct {
	sim   *rccsim.Sim
	clk   *rcc.Clocks
	stuck bool
}

// simulate freezes the flags' configuration on a fresh simulator.
func simulate(f *clockFlags, o simOptions) (simResult, error) {
	s := rccsim.New()
	s.PLLNeverLocks = o.neverLock
	s.HSENeverReady = o.hseDead
	if o.neverLock || o.hseDead {
		s.PollLimit = 1000
	}
	if o.fromPLL {
		s.StartOnPLL(rcc.PLLMul4, rcc.PLLDiv2)
	}
	r, err := rcc.Constrain(s.RCC)
	if err != nil {
		return simResult{}, err
	}
	fl, err := flash.Constrain(s.Flash)
	if err != nil {
		return simResult{}, err
	}
	p, c, err := f.config(r.Config)
	if err != nil {
		return simResult{}, err
	}
	if p.HSE != nil {
		s.HSEFreq = p.HSE.Freq.Hertz()
	}
	clk, stuck, err := freeze(c, fl.ACR)
	return simResult{sim: s, clk: clk, stuck: stuck}, err
}

// freeze turns the simulator's poll-limit panic into a flag.
func freeze(c rcc.Config, acr *flash.ACR) (clk *rcc.Clocks, stuck bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			if r != rccsim.ErrStillWaiting {
				panic(r)
			}
			stuck = true
		}
	}()
	clk, err = c.Freeze(acr)
	return clk, false, err
}
