package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"holdground/internal/replctl"
)

var demolishCmd = &cobra.Command{
	Use:   "demolish <col,row>",
	Short: "Tear down the building at a position",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pos, err := replctl.ParsePos(state, args)
		if err != nil {
			return err
		}
		if err := state.Demolish(pos); err != nil {
			return err
		}
		fmt.Println("demolished")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(demolishCmd)
}
