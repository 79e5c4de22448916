package commands

import (
	"context"
	"fmt"

	"github.com/battlesnakeio/pit/config"
	"github.com/battlesnakeio/pit/game"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	rows   = config.DefaultRows
	cols   = config.DefaultCols
	snakes = config.DefaultSnakes
	seed   int64
	record bool
)

func init() {
	for _, c := range []*cobra.Command{playCmd, rootCmd} {
		c.Flags().IntVar(&rows, "rows", rows, "number of rows in the pit")
		c.Flags().IntVar(&cols, "cols", cols, "number of columns in the pit")
		c.Flags().IntVar(&snakes, "snakes", snakes, "number of snakes to start with")
		c.Flags().Int64Var(&seed, "seed", seed, "random seed, 0 picks one from the clock")
		c.Flags().BoolVar(&record, "record", record, "archive the game to the store")
	}
}

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "plays a game in the terminal",
	RunE: func(c *cobra.Command, args []string) error {
		g, err := game.New(game.Config{
			Rows:   rows,
			Cols:   cols,
			Snakes: snakes,
			Seed:   seed,
		})
		if err != nil {
			return err
		}

		if record {
			store, err := openStore()
			if err != nil {
				return err
			}
			defer closeStore(store)
			g.Recorder = store
		}

		status, err := g.Play(context.Background(), stdin, stdout)
		if err != nil {
			return err
		}
		log.WithFields(log.Fields{
			"GameID": g.Info.ID,
			"Seed":   g.Info.Seed,
			"Status": status,
		}).Info("game finished")

		if record && g.Recorder != nil {
			fmt.Fprintf(stdout, "Game %s recorded.\n", g.Info.ID)
		}
		return nil
	},
}
