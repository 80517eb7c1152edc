package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"draughts/communication/server"
	"draughts/engine"
	"draughts/experiments"
	"draughts/experiments/metrics"
	"draughts/meta"
	"draughts/player"
	"draughts/searcher"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	experiment := flag.String("experiment", "matchup", "Experiment to run: matchup, difficulty or parallelization")
	black := flag.Int("black", 2, "Difficulty (1-4) of the first agent")
	white := flag.Int("white", 2, "Difficulty (1-4) of the second agent")
	numGames := flag.Int("games", meta.NUM_GAMES, "Number of games per matchup")
	seed := flag.Uint64("seed", 0, "Seed for opening and tie-break choices, 0 for a time-based seed")
	goroutines := flag.Int("goroutines", meta.GO_ROUTINES, "Number of goroutines searching root moves")
	concurrency := flag.Int("concurrency", 1, "Number of games played at the same time")
	maxTurns := flag.Int("max-turns", meta.MAX_TURNS, "Moves after which a game is stopped without a winner")
	out := flag.String("out", "results", "Directory for the experiment CSV files, empty to skip writing")
	serve := flag.String("serve", "", "Serve a human (black) vs computer (white, -white difficulty) game on this address instead of running experiments")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
	level, err := zerolog.ParseLevel(*logLevel)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid log level")
	}
	zerolog.SetGlobalLevel(level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *serve != "" {
		var options []searcher.Option
		if *seed > 0 {
			options = append(options, searcher.WithSeed(*seed))
		}
		options = append(options, searcher.WithGoroutines(*goroutines))
		session := engine.NewSession(player.NewHuman("human"), player.NewComputer("computer", *white, options...))
		if err := server.NewServer(session, *goroutines).ListenAndServe(ctx, *serve); err != nil {
			log.Fatal().Err(err).Msg("server failed")
		}
		return
	}

	opts := experiments.DefaultOptions()
	opts.NumGames = *numGames
	opts.Concurrency = *concurrency
	opts.MaxTurns = *maxTurns
	opts.OutDir = *out

	var results *experiments.Results
	switch *experiment {
	case "matchup":
		config1 := metrics.AgentConfig{ID: 1, Difficulty: *black, Goroutines: *goroutines, Seed: *seed}
		config2 := metrics.AgentConfig{ID: 2, Difficulty: *white, Goroutines: *goroutines, Seed: *seed}
		results, err = experiments.RunMatchUp(ctx, config1, config2, opts)
	case "difficulty":
		results, err = experiments.RunDifficultyExperiment(ctx, *goroutines, opts)
	case "parallelization":
		results, err = experiments.RunParallelizationExperiment(ctx, *black, opts)
	default:
		err = fmt.Errorf("unknown experiment %q", *experiment)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("experiment failed")
	}

	fmt.Printf("%d game(s), %d move(s) recorded\n", len(results.Games), len(results.Moves))
	if *experiment == "matchup" {
		fmt.Printf("agent 1 won %d, agent 2 won %d\n", results.Wins(1), results.Wins(2))
	}
}
