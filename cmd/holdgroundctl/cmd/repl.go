package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"holdground/internal/replctl"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive command session against a fresh simulation",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := replctl.New(state, player)
		if err != nil {
			return err
		}
		defer c.Close()
		fmt.Println("holdground repl — type 'help' for commands, 'quit' to exit")
		c.Run()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(replCmd)
}
