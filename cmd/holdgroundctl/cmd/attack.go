package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"holdground/entitystore"
)

var attackCmd = &cobra.Command{
	Use:   "attack <target-flag-handle> <knights>",
	Short: "Attack the military building standing behind a flag",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		fh, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid flag handle: %w", err)
		}
		knights, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid knight count: %w", err)
		}
		if err := state.Attack(player, entitystore.FlagHandle(fh), knights); err != nil {
			return err
		}
		fmt.Println("attack resolved")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(attackCmd)
}
