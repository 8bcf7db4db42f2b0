// saveinspect dumps the contents of a save database for debugging.
// It reads through the same storage layer the server uses, so what it
// prints is exactly what a resumed session would load.
package main

import (
	"errors"
	"fmt"
	"os"

	"delve-server/internal/domain"
	"delve-server/internal/engine"
	"delve-server/internal/infrastructure/storage"
)

func main() {
	if len(os.Args) < 3 {
		printHelp()
		return
	}
	command, path := os.Args[1], os.Args[2]

	state, err := load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "saveinspect: %v\n", err)
		os.Exit(1)
	}

	switch command {
	case "meta":
		printMeta(state)
	case "entities":
		printEntities(state)
	case "queue":
		printQueue(state)
	case "tape":
		printTape(state)
	case "messages":
		printMessages(state)
	case "all":
		printMeta(state)
		fmt.Println()
		printEntities(state)
		fmt.Println()
		printQueue(state)
		fmt.Println()
		printTape(state)
		fmt.Println()
		printMessages(state)
	default:
		printHelp()
	}
}

func load(path string) (*engine.SessionState, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	store, err := storage.Open(path)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	state, err := store.Load()
	if errors.Is(err, storage.ErrNoSave) {
		return nil, fmt.Errorf("%s holds no saved session", path)
	}
	return state, err
}

func printMeta(state *engine.SessionState) {
	explored := 0
	for _, b := range state.Explored {
		for ; b != 0; b &= b - 1 {
			explored++
		}
	}

	fmt.Println("== meta ==")
	fmt.Printf("seed:      %d\n", state.Seed)
	fmt.Printf("depth:     %d\n", state.Depth)
	fmt.Printf("tick:      %d\n", state.CurrentTick)
	fmt.Printf("next seq:  %d\n", state.NextSeq)
	fmt.Printf("player:    %s\n", state.PlayerID)
	fmt.Printf("grid:      %dx%d (%d tiles explored)\n", state.Width, state.Height, explored)
}

func printEntities(state *engine.SessionState) {
	fmt.Printf("== entities (%d) ==\n", len(state.Entities))
	for _, rec := range state.Entities {
		e := rec.Entity
		place := "carried"
		if rec.OnMap {
			place = fmt.Sprintf("(%d,%d)", e.Pos.X, e.Pos.Y)
		}
		line := fmt.Sprintf("%-38s %-8s %-20s %s", e.ID, e.Kind, e.Name, place)
		if e.Fighter != nil {
			line += fmt.Sprintf("  hp %d/%d", e.Fighter.HP, e.Fighter.MaxHP)
		}
		fmt.Println(line)
	}
}

func printQueue(state *engine.SessionState) {
	fmt.Printf("== turn queue (%d) ==\n", len(state.Queue))
	for _, item := range state.Queue {
		fmt.Printf("tick %-6d seq %-4d %s\n", item.Tick, item.Seq, item.ID)
	}
}

func printTape(state *engine.SessionState) {
	fmt.Printf("== command tape (%d) ==\n", len(state.Tape))
	for _, rec := range state.Tape {
		fmt.Printf("tick %-6d %s%s\n", rec.Tick, rec.Action.Kind, describe(rec.Action))
	}
}

func describe(a domain.Action) string {
	switch {
	case a.Target != nil:
		return fmt.Sprintf(" key=%s target=(%d,%d)", a.Key, a.Target.X, a.Target.Y)
	case a.Key != "":
		return " key=" + a.Key
	case a.Dx != 0 || a.Dy != 0:
		return fmt.Sprintf(" (%+d,%+d)", a.Dx, a.Dy)
	default:
		return ""
	}
}

func printMessages(state *engine.SessionState) {
	fmt.Printf("== messages (%d) ==\n", len(state.Messages))
	for _, m := range state.Messages {
		fmt.Printf("tick %-6d [%s] %s\n", m.Tick, m.Tier, m.Text)
	}
}

func printHelp() {
	fmt.Println(`saveinspect - dump a save database
Usage: saveinspect <command> <save.db>
Commands:
  meta      - seed, depth, clock and grid summary
  entities  - every saved entity with position and HP
  queue     - pending turn queue entries in order
  tape      - the recorded player command tape
  messages  - the narrative log
  all       - everything above`)
}
