package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.bug.st/serial"
)

var (
	verifyFlags clockFlags

	verifyOpts = struct {
		port    string
		baud    int
		timeout time.Duration
		echo    bool
	}{}

	errMismatch = errors.New("board clocks differ from the resolved tree")

	verifyCmd = &cobra.Command{
		Use:   "verify",
		Short: "Check a running board's clock snapshot against the resolved tree",
		Long:  "Read lines from the board's LPUART until it prints its clock snapshot and compare every field with the snapshot the same configuration produces in the simulator.",
		Args:  cobra.NoArgs,
		RunE:  runVerify,
	}
)

func init() {
	verifyFlags.register(verifyCmd)
	fl := verifyCmd.Flags()
	fl.StringVar(&verifyOpts.port, "port", "", "serial port the board's LPUART is attached to")
	fl.IntVar(&verifyOpts.baud, "baud", 115200, "serial baud rate")
	fl.DurationVar(&verifyOpts.timeout, "timeout", 10*time.Second, "how long to wait for the snapshot")
	fl.BoolVar(&verifyOpts.echo, "echo", false, "print the board's other output")
}

func runVerify(cmd *cobra.Command, args []string) error {
	res, err := simulate(&verifyFlags, simOptions{})
	if err != nil {
		return err
	}
	want, _, err := parseClocksLine(res.clk.String())
	if err != nil {
		return err
	}

	if verifyOpts.port == "" {
		ports, _ := serial.GetPortsList()
		if len(ports) == 0 {
			return errors.New("--port is required and no serial ports were found")
		}
		return fmt.Errorf("--port is required; found %s", strings.Join(ports, ", "))
	}
	port, err := serial.Open(verifyOpts.port, &serial.Mode{BaudRate: verifyOpts.baud})
	if err != nil {
		return fmt.Errorf("open %s: %w", verifyOpts.port, err)
	}
	defer port.Close()

	w := stdout(cmd)
	var echo func(string)
	if verifyOpts.echo {
		echo = func(line string) { fmt.Fprintln(w, "  |", line) }
	}
	got, err := readClocks(port, verifyOpts.timeout, echo)
	if err != nil {
		return err
	}

	failed := false
	for _, r := range compare(want, got) {
		mark := green("PASS")
		if !r.ok {
			mark = red("FAIL")
			failed = true
		}
		fmt.Fprintf(w, "%s %-6s want %-8s got %s\n", mark, r.name, r.want, r.got)
	}
	if failed {
		return errMismatch
	}
	return nil
}
