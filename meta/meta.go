// meta/meta.go
package meta

// GO_ROUTINES defines the number of goroutines searching root moves in parallel.
const GO_ROUTINES = 4

// NUM_GAMES defines the number of games per matchup in experiments.
const NUM_GAMES = 10

// MAX_TURNS caps automated games; a game reaching it has no winner.
const MAX_TURNS = 300
