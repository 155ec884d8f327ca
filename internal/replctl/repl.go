// Package replctl implements a headless, readline-backed command processor
// over a live sim.State, for driving and inspecting a simulation without a
// renderer attached.
//
// Grounded on _examples/turnforge-weewar/cmd/cligame's CLI shape: one
// ExecuteCommand dispatch over whitespace-split fields, a chzyer/readline
// instance for history/line-editing, and a startREPL loop reading lines
// until EOF or "quit".
package replctl

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"

	"holdground/building"
	"holdground/entitystore"
	"holdground/hexmap"
	"holdground/inventory"
	"holdground/sim"
)

// CLI is a headless command processor bound to one simulation instance.
type CLI struct {
	State    *sim.State
	Player   uint8
	readline *readline.Instance
}

// New wires a CLI to state, configuring history and tab-completion the way
// cligame.NewCLI configures its readline instance.
func New(state *sim.State, player uint8) (*CLI, error) {
	homeDir, _ := os.UserHomeDir()
	historyFile := filepath.Join(homeDir, ".holdground_history")

	completer := readline.NewPrefixCompleter(
		readline.PcItem("flag"),
		readline.PcItem("road"),
		readline.PcItem("build"),
		readline.PcItem("demolish"),
		readline.PcItem("priority"),
		readline.PcItem("occupation"),
		readline.PcItem("geologist"),
		readline.PcItem("attack"),
		readline.PcItem("pause"),
		readline.PcItem("resume"),
		readline.PcItem("speed"),
		readline.PcItem("player"),
		readline.PcItem("help"),
		readline.PcItem("quit"),
		readline.PcItem("exit"),
	)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:              fmt.Sprintf("holdground[p%d]> ", player),
		HistoryFile:         historyFile,
		AutoComplete:        completer,
		InterruptPrompt:     "^C",
		EOFPrompt:           "exit",
		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		return nil, fmt.Errorf("replctl: create readline: %w", err)
	}

	return &CLI{State: state, Player: player, readline: rl}, nil
}

func filterInput(r rune) (rune, bool) {
	if r == readline.CharCtrlZ {
		return r, false
	}
	return r, true
}

// Close releases the readline instance's resources.
func (c *CLI) Close() error {
	if c.readline != nil {
		return c.readline.Close()
	}
	return nil
}

// Run starts the interactive loop, printing results until EOF or "quit".
func (c *CLI) Run() {
	for {
		line, err := c.readline.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			if err == io.EOF {
				fmt.Println("\ngoodbye")
				return
			}
			color.Red("read error: %v", err)
			return
		}

		command := strings.TrimSpace(line)
		if command == "" {
			continue
		}
		result := c.ExecuteCommand(command)
		if result == "quit" {
			fmt.Println("goodbye")
			return
		}
		fmt.Println(result)
	}
}

// ExecuteCommand parses one line and dispatches it to the matching
// sim.State command, returning a human-readable result line.
func (c *CLI) ExecuteCommand(command string) string {
	parts := strings.Fields(command)
	if len(parts) == 0 {
		return ""
	}
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "flag":
		return c.handleFlag(args)
	case "road":
		return c.handleRoad(args)
	case "build":
		return c.handleBuild(args)
	case "demolish":
		return c.handleDemolish(args)
	case "priority":
		return c.handlePriority(args)
	case "occupation":
		return c.handleOccupation(args)
	case "geologist":
		return c.handleGeologist(args)
	case "attack":
		return c.handleAttack(args)
	case "pause":
		c.State.Pause(true)
		return "paused"
	case "resume":
		c.State.Pause(false)
		return "resumed"
	case "speed":
		return c.handleSpeed(args)
	case "player":
		return c.handlePlayer(args)
	case "help":
		return helpText
	case "quit", "exit":
		return "quit"
	default:
		return color.RedString("unknown command: %s (type 'help')", cmd)
	}
}

func (c *CLI) handlePlayer(args []string) string {
	if len(args) != 1 {
		return "usage: player <number>"
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 0 || n > 255 {
		return "invalid player number"
	}
	c.Player = uint8(n)
	c.readline.SetPrompt(fmt.Sprintf("holdground[p%d]> ", c.Player))
	return fmt.Sprintf("active player set to %d", c.Player)
}

func (c *CLI) handleFlag(args []string) string {
	pos, err := ParsePos(c.State, args)
	if err != nil {
		return err.Error()
	}
	h, berr := c.State.BuildFlag(c.Player, pos)
	if berr != nil {
		return color.RedString("flag failed: %v", berr)
	}
	return color.GreenString("flag planted, handle=%d", h)
}

func (c *CLI) handleRoad(args []string) string {
	if len(args) < 2 {
		return "usage: road <flag-handle> <dir,dir,...>"
	}
	fh, err := strconv.Atoi(args[0])
	if err != nil {
		return "invalid flag handle"
	}
	dirs, err := ParseDirs(args[1])
	if err != nil {
		return err.Error()
	}
	if err := c.State.BuildRoad(c.Player, entitystore.FlagHandle(fh), dirs); err != nil {
		return color.RedString("road failed: %v", err)
	}
	return color.GreenString("road built")
}

func (c *CLI) handleBuild(args []string) string {
	if len(args) < 2 {
		return "usage: build <type> <pos>"
	}
	t, err := ParseBuildingType(args[0])
	if err != nil {
		return err.Error()
	}
	pos, perr := ParsePos(c.State, args[1:])
	if perr != nil {
		return perr.Error()
	}
	h, berr := c.State.BuildBuilding(c.Player, pos, t)
	if berr != nil {
		return color.RedString("build failed: %v", berr)
	}
	return color.GreenString("building placed, handle=%d", h)
}

func (c *CLI) handleDemolish(args []string) string {
	pos, err := ParsePos(c.State, args)
	if err != nil {
		return err.Error()
	}
	if err := c.State.Demolish(pos); err != nil {
		return color.RedString("demolish failed: %v", err)
	}
	return color.GreenString("demolished")
}

func (c *CLI) handlePriority(args []string) string {
	if len(args) != 2 {
		return "usage: priority <resource> <0-25>"
	}
	res, err := ParseResource(args[0])
	if err != nil {
		return err.Error()
	}
	v, err := strconv.Atoi(args[1])
	if err != nil {
		return "invalid priority value"
	}
	if err := c.State.SetPriority(c.Player, res, v); err != nil {
		return color.RedString("priority failed: %v", err)
	}
	return color.GreenString("priority set")
}

func (c *CLI) handleOccupation(args []string) string {
	if len(args) != 3 {
		return "usage: occupation <level 0-3> <min> <max>"
	}
	level, err := strconv.Atoi(args[0])
	if err != nil {
		return "invalid level"
	}
	min, err := strconv.Atoi(args[1])
	if err != nil {
		return "invalid min"
	}
	max, err := strconv.Atoi(args[2])
	if err != nil {
		return "invalid max"
	}
	if err := c.State.SetKnightOccupation(c.Player, level, uint8(min), uint8(max)); err != nil {
		return color.RedString("occupation failed: %v", err)
	}
	return color.GreenString("occupation set")
}

func (c *CLI) handleGeologist(args []string) string {
	if len(args) != 1 {
		return "usage: geologist <flag-handle>"
	}
	fh, err := strconv.Atoi(args[0])
	if err != nil {
		return "invalid flag handle"
	}
	if err := c.State.SendGeologist(entitystore.FlagHandle(fh)); err != nil {
		return color.RedString("geologist dispatch failed: %v", err)
	}
	return color.GreenString("geologist dispatched")
}

func (c *CLI) handleAttack(args []string) string {
	if len(args) != 2 {
		return "usage: attack <target-flag-handle> <knights>"
	}
	fh, err := strconv.Atoi(args[0])
	if err != nil {
		return "invalid flag handle"
	}
	knights, err := strconv.Atoi(args[1])
	if err != nil {
		return "invalid knight count"
	}
	if err := c.State.Attack(c.Player, entitystore.FlagHandle(fh), knights); err != nil {
		return color.RedString("attack failed: %v", err)
	}
	return color.GreenString("attack resolved")
}

func (c *CLI) handleSpeed(args []string) string {
	if len(args) != 1 {
		return "usage: speed <value>"
	}
	v, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		return "invalid speed value"
	}
	c.State.SetGameSpeed(uint32(v))
	return color.GreenString("game speed set to %d", v)
}

// ParsePos accepts a single "col,row" argument.
func ParsePos(st *sim.State, args []string) (hexmap.Pos, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("usage: <col,row>")
	}
	colRow := strings.Split(args[0], ",")
	if len(colRow) != 2 {
		return 0, fmt.Errorf("position must be col,row")
	}
	col, err1 := strconv.Atoi(colRow[0])
	row, err2 := strconv.Atoi(colRow[1])
	if err1 != nil || err2 != nil {
		return 0, fmt.Errorf("position must be numeric col,row")
	}
	return st.Map.MakePos(col, row), nil
}

// ParseDirs accepts a comma-separated direction list; each entry is either
// a full name (right, down_right, down, left, up_left, up) or a letter
// shortcut (r, dr, d, l, ul, u).
func ParseDirs(s string) ([]hexmap.Direction, error) {
	var out []hexmap.Direction
	for _, tok := range strings.Split(s, ",") {
		d, err := parseDir(tok)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

func parseDir(tok string) (hexmap.Direction, error) {
	switch strings.ToLower(tok) {
	case "right", "r":
		return hexmap.DirRight, nil
	case "down_right", "dr":
		return hexmap.DirDownRight, nil
	case "down", "d":
		return hexmap.DirDown, nil
	case "left", "l":
		return hexmap.DirLeft, nil
	case "up_left", "ul":
		return hexmap.DirUpLeft, nil
	case "up", "u":
		return hexmap.DirUp, nil
	default:
		return 0, fmt.Errorf("unknown direction: %s", tok)
	}
}

var buildingTypeNames = map[string]building.Type{
	"castle":      building.TypeCastle,
	"stock":       building.TypeStock,
	"hut":         building.TypeHut,
	"tower":       building.TypeTower,
	"fortress":    building.TypeFortress,
	"lumberjack":  building.TypeLumberjack,
	"sawmill":     building.TypeSawmill,
	"stonecutter": building.TypeStonecutter,
	"forester":    building.TypeForester,
	"fisher":      building.TypeFisher,
	"mine_coal":   building.TypeMineCoal,
	"mine_iron":   building.TypeMineIron,
	"mine_gold":   building.TypeMineGold,
	"mine_stone":  building.TypeMineStone,
	"smelter_iron": building.TypeSmelterIron,
	"smelter_gold": building.TypeSmelterGold,
	"farm":        building.TypeFarm,
	"mill":        building.TypeMill,
	"bakery":      building.TypeBakery,
	"butcher":     building.TypeButcher,
	"pigfarm":     building.TypePigfarm,
	"boatbuilder": building.TypeBoatbuilder,
	"toolmaker":   building.TypeToolmaker,
	"weaponsmith": building.TypeWeaponsmith,
}

func ParseBuildingType(s string) (building.Type, error) {
	t, ok := buildingTypeNames[strings.ToLower(s)]
	if !ok {
		return 0, fmt.Errorf("unknown building type: %s", s)
	}
	return t, nil
}

var resourceNames = map[string]inventory.Resource{
	"lumber": inventory.ResLumber, "plank": inventory.ResPlank, "boat": inventory.ResBoat,
	"stone": inventory.ResStone, "iron_ore": inventory.ResIronOre, "steel": inventory.ResSteel,
	"coal": inventory.ResCoal, "gold_ore": inventory.ResGoldOre, "gold_bar": inventory.ResGoldBar,
	"shovel": inventory.ResShovel, "hammer": inventory.ResHammer, "rod": inventory.ResRod,
	"cleaver": inventory.ResCleaver, "scythe": inventory.ResScythe, "axe": inventory.ResAxe,
	"saw": inventory.ResSaw, "pick": inventory.ResPick, "pincer": inventory.ResPincer,
	"sword": inventory.ResSword, "shield": inventory.ResShield, "fish": inventory.ResFish,
	"pig": inventory.ResPig, "wheat": inventory.ResWheat, "flour": inventory.ResFlour,
	"bread": inventory.ResBread,
}

func ParseResource(s string) (inventory.Resource, error) {
	r, ok := resourceNames[strings.ToLower(s)]
	if !ok {
		return 0, fmt.Errorf("unknown resource: %s", s)
	}
	return r, nil
}

const helpText = `commands:
  flag <col,row>                    plant a flag
  road <flag-handle> <dirs>         lay a road, dirs comma-separated (r,dr,d,l,ul,u)
  build <type> <col,row>            place a building
  demolish <col,row>                tear down a building
  priority <resource> <0-25>        set a resource's transport priority
  occupation <level> <min> <max>    set a knight-occupation threshold
  geologist <flag-handle>           dispatch a geologist from the flag's network
  attack <target-flag> <knights>    attack the military building behind a flag
  pause / resume                    toggle simulation time
  speed <value>                     set game_speed
  player <number>                   switch the active player
  quit / exit                       leave the REPL`
