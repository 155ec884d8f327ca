package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"holdground/internal/replctl"
)

var flagCmd = &cobra.Command{
	Use:   "flag <col,row>",
	Short: "Plant a flag",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pos, err := replctl.ParsePos(state, args)
		if err != nil {
			return err
		}
		h, err := state.BuildFlag(player, pos)
		if err != nil {
			return err
		}
		fmt.Printf("flag planted, handle=%d\n", h)
		return nil
	},
}

var buildCmd = &cobra.Command{
	Use:   "build <type> <col,row>",
	Short: "Place a building",
	Long: `Place a building at the given position.

Examples:
  holdgroundctl build lumberjack 4,5
  holdgroundctl build castle 0,0`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := replctl.ParseBuildingType(args[0])
		if err != nil {
			return err
		}
		pos, err := replctl.ParsePos(state, args[1:])
		if err != nil {
			return err
		}
		h, err := state.BuildBuilding(player, pos, t)
		if err != nil {
			return err
		}
		fmt.Printf("building placed, handle=%d\n", h)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(flagCmd)
	rootCmd.AddCommand(buildCmd)
}
