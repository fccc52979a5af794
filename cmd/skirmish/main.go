// Command skirmish plays one battle between two random bots and
// prints the resolution log. Pass a seed to replay a battle exactly;
// pass a database path to keep the report.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"skirmish/bot"
	"skirmish/dice"
	"skirmish/engine"
	"skirmish/game"
	"skirmish/scenario"
	"skirmish/storage"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

func main() {
	scenarioPath := flag.String("scenario", "", "scenario YAML file (default: built-in standard)")
	seed := flag.Int64("seed", 0, "dice seed, 0 picks one from the clock")
	dbPath := flag.String("db", "", "sqlite file for the battle report (optional)")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if err := run(*scenarioPath, *seed, *dbPath); err != nil {
		log.Fatal().Err(err).Msg("battle failed")
	}
}

func run(scenarioPath string, seed int64, dbPath string) error {
	scn := scenario.Standard()
	if scenarioPath != "" {
		var err error
		scn, err = scenario.Load(scenarioPath)
		if err != nil {
			return err
		}
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	log.Info().Str("scenario", scn.Name).Int64("seed", seed).Msg("starting battle")

	gs, err := scn.Battle(dice.NewRoller(seed))
	if err != nil {
		return err
	}
	for _, e := range gs.Events {
		fmt.Println(render(e))
	}

	var store *storage.Store
	var battleID int64
	if dbPath != "" {
		store, err = storage.Open(dbPath)
		if err != nil {
			return err
		}
		defer store.Close()
		battleID, err = store.BeginBattle(scn.Name, "alpha", "beta", seed)
		if err != nil {
			return err
		}
		if err := store.AppendEvents(battleID, gs.Events); err != nil {
			return err
		}
	}

	m := engine.NewMatch(gs, bot.NewRandom("alpha", seed+1), bot.NewRandom("beta", seed+2))
	m.Observe = func(_ game.Action, res *game.Result) {
		for _, e := range res.Events {
			fmt.Println(render(e))
		}
		if store != nil {
			if err := store.AppendEvents(battleID, res.Events); err != nil {
				log.Error().Err(err).Msg("event append failed")
			}
		}
	}

	final, err := m.Run()
	if err != nil {
		return err
	}
	if store != nil {
		if err := store.FinishBattle(battleID, final); err != nil {
			return err
		}
		log.Info().Int64("battle", battleID).Str("db", dbPath).Msg("report saved")
	}
	printSummary(final)
	return nil
}

func render(e game.Event) string {
	return fmt.Sprintf("T%d %-6s | %s", e.Turn, e.Phase, e.Line())
}

func printSummary(final game.Snapshot) {
	fmt.Println()
	if final.Winner == game.NoPlayer {
		fmt.Printf("draw (%s) after %d turns\n", final.Verdict, final.Turn)
	} else {
		fmt.Printf("player %d wins (%s) after %d turns\n", final.Winner, final.Verdict, final.Turn)
	}
	for _, u := range final.Units {
		fmt.Printf("  %s: hp %d/%d at %s\n", u.Label(), u.HP, u.MaxHP, u.Pos)
	}
	names := maps.Keys(final.Objectives)
	slices.Sort(names)
	for _, name := range names {
		if holder := final.Objectives[name]; holder == game.NoPlayer {
			fmt.Printf("  objective %s: contested\n", name)
		} else {
			fmt.Printf("  objective %s: player %d\n", name, holder)
		}
	}
}
