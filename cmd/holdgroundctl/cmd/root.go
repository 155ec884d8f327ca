// Package cmd implements the holdgroundctl command tree: one subcommand per
// sim.State embedding-API command, plus an interactive repl subcommand.
//
// Grounded on _examples/turnforge-weewar/cmd/cli/cmd/root.go's cobra +
// viper wiring: persistent flags bound into viper, a config file resolved
// relative to the user's home directory.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"holdground/sim"
)

var (
	cfgFile string
	cols    int
	rows    int
	player  uint8

	state *sim.State
)

var rootCmd = &cobra.Command{
	Use:          "holdgroundctl",
	Short:        "Command-line driver for a holdground simulation",
	SilenceUsage: true,
	Long: `holdgroundctl drives a headless holdground simulation kernel.

Every subcommand maps onto one sim.State command; a fresh map is allocated
in-process on startup, so each invocation is independent unless chained
through the interactive repl subcommand.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" {
			return nil
		}
		state = sim.New(sim.Config{
			Cols:              cols,
			Rows:              rows,
			FlagCapacity:      4096,
			BuildingCapacity:  2048,
			InventoryCapacity: 64,
			SerfCapacity:      8192,
		}, 0x5a5a, 0x0001, 0x0001)
		return nil
	},
}

// Execute runs the command tree.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default $HOME/.holdgroundctl.yaml)")
	rootCmd.PersistentFlags().IntVar(&cols, "cols", 64, "map width in tiles (power of two)")
	rootCmd.PersistentFlags().IntVar(&rows, "rows", 64, "map height in tiles (power of two)")
	rootCmd.PersistentFlags().Uint8Var(&player, "player", 0, "player number issuing commands")

	viper.BindPFlag("cols", rootCmd.PersistentFlags().Lookup("cols"))
	viper.BindPFlag("rows", rootCmd.PersistentFlags().Lookup("rows"))
	viper.BindPFlag("player", rootCmd.PersistentFlags().Lookup("player"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return
		}
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".holdgroundctl")
	}

	viper.SetEnvPrefix("HOLDGROUND")
	viper.AutomaticEnv()
	_ = viper.ReadInConfig()
}
