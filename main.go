// Command holdground is the headless simulation kernel entrypoint: it
// starts a fresh map, runs the fixed 20ms tick loop, and optionally drops
// into an interactive command session.
//
// Grounded on the studio app's main.go: a single-instance lock file in the
// platform data directory, and signal-driven shutdown triggering a final
// save. There is no renderer to hand off to here, so the GUI/ebiten branch
// and the websocket API server are dropped (spec.md §1 excludes both).
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/spf13/viper"

	"holdground/internal/klog"
	"holdground/internal/replctl"
	"holdground/persistence"
	"holdground/sim"
)

func main() {
	var (
		repl     bool
		loadPath string
		cfgFile  string
	)
	flag.BoolVar(&repl, "repl", false, "start an interactive command session once the tick loop is running")
	flag.StringVar(&loadPath, "load", "", "save file (.lz4) to load on startup")
	flag.StringVar(&cfgFile, "config", "", "config file (default $HOME/.holdground.yaml)")
	flag.Parse()

	loadConfig(cfgFile)
	log := klog.New("MAIN")

	lockPath := persistence.SaveFile(".holdground.lock")
	lockFile, lockOwned, cleanupLock, err := prepareLock(lockPath)
	if err != nil {
		log.Printf("acquiring lock file: %v", err)
		os.Exit(1)
	}
	_ = lockFile
	defer cleanupLock()
	if !lockOwned {
		log.Printf("another instance already holds %s", lockPath)
		os.Exit(1)
	}

	st := sim.New(sim.Config{
		Cols:              viper.GetInt("cols"),
		Rows:              viper.GetInt("rows"),
		FlagCapacity:      viper.GetInt("flag_capacity"),
		BuildingCapacity:  viper.GetInt("building_capacity"),
		InventoryCapacity: viper.GetInt("inventory_capacity"),
		SerfCapacity:      viper.GetInt("serf_capacity"),
	}, 0x5a5a, 0x0001, 0x0001)

	if loadPath != "" {
		log.Printf("save loading is not yet wired to a running State; ignoring -load=%s", loadPath)
	}

	st.Clock.Start()
	defer st.Clock.Stop()
	log.Printf("tick loop started: %dx%d map", viper.GetInt("cols"), viper.GetInt("rows"))

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Printf("shutdown signal received, saving and exiting")
		if data, err := st.SaveSections(); err == nil {
			_ = persistence.WriteSaveFile("autosave.lz4", data)
		}
		st.Clock.Stop()
		cleanupLock()
		os.Exit(0)
	}()

	if repl {
		c, err := replctl.New(st, 0)
		if err != nil {
			log.Printf("starting repl: %v", err)
			os.Exit(1)
		}
		defer c.Close()
		fmt.Println("holdground repl — type 'help' for commands, 'quit' to exit")
		c.Run()
		return
	}

	select {}
}

func loadConfig(cfgFile string) {
	viper.SetDefault("cols", 64)
	viper.SetDefault("rows", 64)
	viper.SetDefault("flag_capacity", 4096)
	viper.SetDefault("building_capacity", 2048)
	viper.SetDefault("inventory_capacity", 64)
	viper.SetDefault("serf_capacity", 8192)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".holdground")
	}
	viper.SetEnvPrefix("HOLDGROUND")
	viper.AutomaticEnv()
	_ = viper.ReadInConfig()
}

func prepareLock(lockPath string) (*os.File, bool, func(), error) {
	if err := os.MkdirAll(filepath.Dir(lockPath), 0o755); err != nil {
		return nil, false, nil, err
	}
	lockFile, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	owned := true
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			owned = false
			lockFile, err = os.OpenFile(lockPath, os.O_WRONLY, 0o644)
			if err != nil {
				return nil, false, nil, err
			}
		} else {
			return nil, false, nil, err
		}
	}

	var cleanupOnce sync.Once
	cleanup := func() {
		cleanupOnce.Do(func() {
			if lockFile != nil {
				_ = lockFile.Close()
			}
			if owned {
				os.Remove(lockPath)
			}
		})
	}

	return lockFile, owned, cleanup, nil
}
