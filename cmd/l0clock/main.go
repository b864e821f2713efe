// Command l0clock resolves, simulates and verifies STM32L0 clock trees on
// the host.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-colorable"
	"github.com/spf13/cobra"
)

var (
	noColor bool

	rootCmd = &cobra.Command{
		Use:           "l0clock",
		Short:         "STM32L0 clock tree tool",
		Long:          "Resolve clock targets into RCC settings, replay the bring-up sequence against a register simulator, and check a running board against the expected tree.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable coloured output")
	rootCmd.AddCommand(resolveCmd, simulateCmd, verifyCmd, boardsCmd)
}

// stdout returns the command's output, translated for Windows consoles or
// stripped of escapes when colour is off.
func stdout(cmd *cobra.Command) io.Writer {
	w := cmd.OutOrStdout()
	if w == os.Stdout {
		w = colorable.NewColorableStdout()
	}
	if noColor {
		return colorable.NewNonColorable(w)
	}
	return w
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(colorable.NewColorableStderr(), red("error:"), err)
		os.Exit(1)
	}
}
