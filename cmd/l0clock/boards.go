package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"l0hal-go/internal/profile"
)

var boardsCmd = &cobra.Command{
	Use:   "boards",
	Short: "List the built-in board profiles",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		w := stdout(cmd)
		for _, b := range profile.Boards() {
			t, err := b.Config().Resolve()
			if err != nil {
				fmt.Fprintf(w, "%-16s %s\n", b.Name, red(err.Error()))
				continue
			}
			fmt.Fprintf(w, "%-16s sysclk=%-6s %s\n", b.Name, t.SYSCLK, b.Description)
		}
	},
}
