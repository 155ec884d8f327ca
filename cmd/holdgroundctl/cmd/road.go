package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"holdground/entitystore"
	"holdground/internal/replctl"
)

var roadCmd = &cobra.Command{
	Use:   "road <flag-handle> <dirs>",
	Short: "Lay a road from a flag along a comma-separated direction sequence",
	Long: `dirs is a comma-separated list of direction names or shortcuts
(right/r, down_right/dr, down/d, left/l, up_left/ul, up/u).

Example:
  holdgroundctl road 3 r,r,dr`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		fh, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid flag handle: %w", err)
		}
		dirs, err := replctl.ParseDirs(args[1])
		if err != nil {
			return err
		}
		if err := state.BuildRoad(player, entitystore.FlagHandle(fh), dirs); err != nil {
			return err
		}
		fmt.Println("road built")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(roadCmd)
}
