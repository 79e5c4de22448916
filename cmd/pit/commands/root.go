package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/battlesnakeio/pit/version"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:          "pit",
	Short:        "pit is a snake pit survival game",
	Version:      version.Version,
	SilenceUsage: true,
	PersistentPreRunE: func(c *cobra.Command, args []string) error {
		level, err := log.ParseLevel(logLevel)
		if err != nil {
			return err
		}
		log.SetOutput(os.Stderr)
		log.SetLevel(level)
		return nil
	},
	RunE: func(c *cobra.Command, args []string) error {
		return playCmd.RunE(c, args)
	},
}

var (
	logLevel = "warn"
	gameID   string

	stdin  io.Reader = os.Stdin
	stdout io.Writer = os.Stdout
)

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", logLevel, "log level (debug, info, warn, error)")
	addStoreFlags(rootCmd)

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(serverCmd)
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
