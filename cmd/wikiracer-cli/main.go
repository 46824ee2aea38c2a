// Command wikiracer-cli runs a single search from the command line,
// without standing up the HTTP ingress.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/cametumbling/wikiracer/internal/config"
	"github.com/cametumbling/wikiracer/internal/linkcache"
	"github.com/cametumbling/wikiracer/internal/links"
	"github.com/cametumbling/wikiracer/internal/logging"
	"github.com/cametumbling/wikiracer/internal/racer"
	"github.com/cametumbling/wikiracer/internal/wikihttp"
	"github.com/cametumbling/wikiracer/internal/wikiparse"
)

var (
	debug   bool
	timeout time.Duration
)

var rootCmd = &cobra.Command{
	Use:     "wikiracer-cli <source> <destination>",
	Short:   "Find a hyperlink path between two wikipedia articles",
	Args:    cobra.ExactArgs(2),
	Version: "1.0.0",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRace(args[0], args[1])
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 60*time.Second, "overall search timeout")
}

func runRace(source, destination string) error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger, err := logging.New(debug || cfg.Debug)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer logger.Sync()

	cache := linkcache.NewMemStore(cfg.MemCacheEntries)

	fetcher := wikihttp.New(wikihttp.Config{
		Prefix:    cfg.WikiPrefix,
		Timeout:   cfg.FetchTimeout,
		FetchGate: cfg.FetchGate,
		Logger:    logger,
	})

	provider := links.New(cache, fetcher, wikiparse.Extract, logger)
	engine := racer.New(provider, fetcher, racer.Config{
		InFlightGate: cfg.InFlightGate,
		Logger:       logger,
	})

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	path, err := engine.Race(ctx, source, destination)
	if err != nil {
		return err
	}

	encoded, err := json.Marshal(path)
	if err != nil {
		return err
	}
	fmt.Println(string(encoded))
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
