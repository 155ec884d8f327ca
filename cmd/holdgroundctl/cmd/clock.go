package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var pauseCmd = &cobra.Command{
	Use:   "pause",
	Short: "Pause the simulation clock",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		state.Pause(true)
		fmt.Println("paused")
		return nil
	},
}

var resumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Resume the simulation clock",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		state.Pause(false)
		fmt.Println("resumed")
		return nil
	},
}

var speedCmd = &cobra.Command{
	Use:   "speed <value>",
	Short: "Set game_speed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := strconv.ParseUint(args[0], 10, 32)
		if err != nil {
			return fmt.Errorf("invalid speed value: %w", err)
		}
		state.SetGameSpeed(uint32(v))
		fmt.Println("game speed set")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pauseCmd)
	rootCmd.AddCommand(resumeCmd)
	rootCmd.AddCommand(speedCmd)
}
