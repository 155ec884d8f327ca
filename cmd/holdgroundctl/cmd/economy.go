package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"holdground/entitystore"
	"holdground/internal/replctl"
)

var priorityCmd = &cobra.Command{
	Use:   "priority <resource> <0-25>",
	Short: "Set a resource's transport priority for the active player",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := replctl.ParseResource(args[0])
		if err != nil {
			return err
		}
		v, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid priority value: %w", err)
		}
		if err := state.SetPriority(player, res, v); err != nil {
			return err
		}
		fmt.Println("priority set")
		return nil
	},
}

var occupationCmd = &cobra.Command{
	Use:   "occupation <level 0-3> <min> <max>",
	Short: "Set a knight-occupation garrison threshold",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		level, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid level: %w", err)
		}
		min, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid min: %w", err)
		}
		max, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("invalid max: %w", err)
		}
		if err := state.SetKnightOccupation(player, level, uint8(min), uint8(max)); err != nil {
			return err
		}
		fmt.Println("occupation set")
		return nil
	},
}

var geologistCmd = &cobra.Command{
	Use:   "geologist <flag-handle>",
	Short: "Dispatch an idle geologist reachable from a flag",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fh, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid flag handle: %w", err)
		}
		if err := state.SendGeologist(entitystore.FlagHandle(fh)); err != nil {
			return err
		}
		fmt.Println("geologist dispatched")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(priorityCmd)
	rootCmd.AddCommand(occupationCmd)
	rootCmd.AddCommand(geologistCmd)
}
