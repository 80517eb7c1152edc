package experiments

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"draughts/engine"
	"draughts/experiments/metrics"
	"draughts/game"
	"draughts/meta"
	"draughts/player"
	"draughts/searcher"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

type Options struct {
	NumGames    int    // per matchup
	Concurrency int    // games played at the same time
	MaxTurns    int    // per game
	OutDir      string // results are not written when empty
}

func DefaultOptions() Options {
	return Options{
		NumGames:    meta.NUM_GAMES,
		Concurrency: 1,
		MaxTurns:    meta.MAX_TURNS,
		OutDir:      "results",
	}
}

type Results struct {
	Games []metrics.GameRecord
	Moves []metrics.MoveRecord
	Dir   string // where the CSV files went, if anywhere
}

// Wins counts the games won by an agent, whichever colour it played.
func (r *Results) Wins(agentID int) int {
	wins := 0
	for _, g := range r.Games {
		if (g.Winner == int(game.Black) && g.Black == agentID) || (g.Winner == int(game.White) && g.White == agentID) {
			wins++
		}
	}
	return wins
}

// RunMatchUp plays two configurations against each other.
func RunMatchUp(ctx context.Context, config1, config2 metrics.AgentConfig, opts Options) (*Results, error) {
	return runExperiment(ctx, "matchup", []metrics.AgentConfig{config1, config2},
		[][2]metrics.AgentConfig{{config1, config2}}, opts)
}

// RunDifficultyExperiment pairs every difficulty against the weakest one.
func RunDifficultyExperiment(ctx context.Context, goroutines int, opts Options) (*Results, error) {
	baseline := metrics.AgentConfig{ID: 0, Difficulty: searcher.MinDifficulty, Goroutines: goroutines}
	configs := []metrics.AgentConfig{baseline}
	var matchUps [][2]metrics.AgentConfig
	for d := searcher.MinDifficulty; d <= searcher.MaxDifficulty; d++ {
		config := metrics.AgentConfig{ID: d, Difficulty: d, Goroutines: goroutines}
		configs = append(configs, config)
		matchUps = append(matchUps, [2]metrics.AgentConfig{baseline, config})
	}

	return runExperiment(ctx, "difficulty", configs, matchUps, opts)
}

// RunParallelizationExperiment plays the same difficulty with growing root parallelism against
// a sequential baseline. Playing strength should not change, only the time per decision.
func RunParallelizationExperiment(ctx context.Context, difficulty int, opts Options) (*Results, error) {
	baseline := metrics.AgentConfig{ID: 0, Difficulty: difficulty, Goroutines: 1}
	configs := []metrics.AgentConfig{baseline}
	var matchUps [][2]metrics.AgentConfig
	for i, goroutines := range []int{1, 2, 4, 8} {
		config := metrics.AgentConfig{ID: i + 1, Difficulty: difficulty, Goroutines: goroutines}
		configs = append(configs, config)
		matchUps = append(matchUps, [2]metrics.AgentConfig{baseline, config})
	}

	return runExperiment(ctx, "parallelization", configs, matchUps, opts)
}

type scheduledGame struct {
	id           int
	black, white metrics.AgentConfig
	seed         uint64
}

type gameResult struct {
	record metrics.GameRecord
	moves  []metrics.MoveRecord
}

func runExperiment(ctx context.Context, name string, configs []metrics.AgentConfig, matchUps [][2]metrics.AgentConfig, opts Options) (*Results, error) {
	if opts.NumGames <= 0 {
		return nil, fmt.Errorf("%s experiment: need at least one game per matchup", name)
	}

	// Colours alternate so neither configuration always has the first move
	var games []scheduledGame
	for _, matchUp := range matchUps {
		for i := 0; i < opts.NumGames; i++ {
			sg := scheduledGame{id: len(games) + 1, black: matchUp[0], white: matchUp[1], seed: uint64(i)}
			if i%2 == 1 {
				sg.black, sg.white = sg.white, sg.black
			}
			games = append(games, sg)
		}
	}

	log.Info().Msgf("starting %s experiment with %d matchup(s), %d game(s)...", name, len(matchUps), len(games))

	results := make([]gameResult, len(games))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, opts.Concurrency))
	for i, sg := range games {
		i, sg := i, sg
		g.Go(func() error {
			result, err := runGame(ctx, sg, opts.MaxTurns)
			if err != nil {
				return fmt.Errorf("game %d: %w", sg.id, err)
			}
			results[i] = result
			log.Info().Msgf("completed game %d of %d (%d vs %d) with winner: %s",
				sg.id, len(games), sg.black.ID, sg.white.ID, game.Color(result.record.Winner))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%s experiment: %w", name, err)
	}

	out := &Results{}
	for _, result := range results {
		out.Games = append(out.Games, result.record)
		out.Moves = append(out.Moves, result.moves...)
	}
	log.Info().Msgf("completed %s experiment", name)

	if opts.OutDir == "" {
		return out, nil
	}
	dir := filepath.Join(opts.OutDir, name, time.Now().UTC().Format("20060102T150405Z"))
	if err := writeResults(dir, configs, out); err != nil {
		return nil, err
	}
	out.Dir = dir
	return out, nil
}

func writeResults(dir string, configs []metrics.AgentConfig, results *Results) error {
	writer, err := metrics.NewWriter(dir)
	if err != nil {
		return fmt.Errorf("failed to create experiment writer: %w", err)
	}
	if err := writer.WriteAgentConfigs(configs, searcher.DepthForDifficulty); err != nil {
		return fmt.Errorf("failed to store agent configs: %w", err)
	}
	log.Info().Msg("stored agent configs")
	if err := writer.WriteGameRecords(results.Games); err != nil {
		return fmt.Errorf("failed to write game records: %w", err)
	}
	log.Info().Msg("stored game records")
	if err := writer.WriteMoveRecords(results.Moves); err != nil {
		return fmt.Errorf("failed to write move records: %w", err)
	}
	log.Info().Msgf("stored move records in %s", dir)
	return nil
}

// runGame executes a single game between two agents
func runGame(ctx context.Context, sg scheduledGame, maxTurns int) (gameResult, error) {
	black := createPlayer(game.Black, sg.black, sg.seed)
	white := createPlayer(game.White, sg.white, sg.seed)
	e := engine.LocalEngine(black, white, engine.WithMaxTurns(maxTurns))

	_, gameMetric, moveMetrics, err := e.Run(ctx)
	if err != nil {
		return gameResult{}, err
	}

	result := gameResult{
		record: metrics.GameRecord{
			ID:         sg.id,
			Black:      sg.black.ID,
			White:      sg.white.ID,
			GameMetric: gameMetric,
		},
	}
	for _, mm := range moveMetrics {
		result.moves = append(result.moves, metrics.MoveRecord{Game: sg.id, MoveMetric: mm})
	}
	return result, nil
}

func createPlayer(color game.Color, config metrics.AgentConfig, gameSeed uint64) *player.Player {
	options := []searcher.Option{searcher.WithGoroutines(config.Goroutines)}
	if config.Seed > 0 {
		options = append(options, searcher.WithSeed(playerSeed(config.Seed, color, gameSeed)))
	}
	return player.NewComputer(fmt.Sprintf("%s agent %d", color, config.ID), config.Difficulty, options...)
}

// playerSeed differs per game and per colour, so two agents sharing a seed never draw the
// same random sequence.
func playerSeed(seed uint64, color game.Color, gameSeed uint64) uint64 {
	return seed + 2*gameSeed + uint64(color)
}
