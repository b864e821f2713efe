package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"l0hal-go/hal/rcc"
)

var (
	resolveFlags clockFlags

	resolveCmd = &cobra.Command{
		Use:   "resolve",
		Short: "Resolve clock targets into RCC settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, c, err := resolveFlags.config(rcc.NewConfig())
			if err != nil {
				return err
			}
			t, err := c.Resolve()
			if err != nil {
				return err
			}
			printTree(stdout(cmd), t)
			return nil
		},
	}
)

func init() {
	resolveFlags.register(resolveCmd)
}

func printTree(w io.Writer, t rcc.Tree) {
	in := t.Input.String()
	if t.Input == rcc.SourceHSE && t.HSEBypass {
		in += " (bypass)"
	}
	fmt.Fprintf(w, "%s %s\n", bold("input "), in)
	if t.PLL {
		fmt.Fprintf(w, "%s ×%d ÷%d = %s\n", bold("pll   "), t.PLLMul.Factor(), t.PLLDiv.Factor(), t.PLLCLK)
	} else {
		fmt.Fprintf(w, "%s bypassed\n", bold("pll   "))
	}
	fmt.Fprintf(w, "%s %s (sw=%s)\n", bold("sysclk"), t.SYSCLK, t.SW())
	fmt.Fprintf(w, "%s %s (÷%d)\n", bold("hclk  "), t.HCLK, t.HPRE.Ratio())
	fmt.Fprintf(w, "%s %s (÷%d)\n", bold("pclk1 "), t.PCLK1, t.PPRE1.Ratio())
	fmt.Fprintf(w, "%s %s (÷%d)\n", bold("pclk2 "), t.PCLK2, t.PPRE2.Ratio())
	ws := 0
	if t.FlashWaitState {
		ws = 1
	}
	fmt.Fprintf(w, "%s %d wait state\n", bold("flash "), ws)
}
