// Command skirmishd serves battles over HTTP and websocket rooms.
package main

import (
	"flag"
	"net/http"
	"os"
	"path/filepath"

	"skirmish/scenario"
	"skirmish/server"
	"skirmish/storage"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	dbPath := flag.String("db", "skirmish.db", "sqlite file for battle reports, empty disables persistence")
	scenarioDir := flag.String("scenarios", "", "directory of extra scenario YAML files")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	var store *storage.Store
	if *dbPath != "" {
		var err error
		store, err = storage.Open(*dbPath)
		if err != nil {
			log.Fatal().Err(err).Msg("battle store unavailable")
		}
		defer store.Close()
		log.Info().Str("db", *dbPath).Msg("battle reports enabled")
	}

	s := server.New(store)
	if *scenarioDir != "" {
		loadScenarios(s, *scenarioDir)
	}

	log.Info().Str("addr", *addr).Msg("listening")
	if err := http.ListenAndServe(*addr, s.Router()); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

// loadScenarios registers every YAML file in dir. Files that fail
// validation are skipped with a warning.
func loadScenarios(s *server.Server, dir string) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		log.Fatal().Err(err).Str("dir", dir).Msg("scenario directory unreadable")
	}
	more, _ := filepath.Glob(filepath.Join(dir, "*.yml"))
	for _, path := range append(paths, more...) {
		scn, err := scenario.Load(path)
		if err != nil {
			log.Warn().Err(err).Str("file", path).Msg("scenario skipped")
			continue
		}
		s.AddScenario(scn)
		log.Info().Str("file", path).Str("scenario", scn.Name).Msg("scenario loaded")
	}
}
