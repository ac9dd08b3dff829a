package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"jobmatch/internal/app"
	"jobmatch/internal/config"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	fixtures string
	verbose  bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "matchctl",
		Short:         "Job matching engine toolbox",
		Long:          "matchctl scores, recommends and searches postings from a fixtures file, and warms, migrates or seeds the configured backing stores.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&opts.fixtures, "fixtures", "f", os.Getenv("FIXTURES_PATH"), "Path to the fixtures JSON file")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log engine activity to stderr")

	cmd.AddCommand(
		newRecommendCmd(opts),
		newMatchCmd(opts),
		newSkillGapsCmd(opts),
		newSearchCmd(opts),
		newTrendingCmd(opts),
		newSimilarCmd(opts),
		newWarmCmd(opts),
		newTokenCmd(),
		newMigrateCmd(opts),
		newSeedCmd(opts),
	)
	return cmd
}

func (o *rootOptions) logger(cmd *cobra.Command) *log.Logger {
	if o.verbose {
		return log.New(cmd.ErrOrStderr(), "", log.LstdFlags)
	}
	return log.New(io.Discard, "", 0)
}

// openEngine builds the engine over the fixtures file. Providers come from the
// environment; without credentials every operation runs on heuristics.
func (o *rootOptions) openEngine(ctx context.Context, cmd *cobra.Command) (*app.Container, error) {
	if o.fixtures == "" {
		return nil, errors.New("--fixtures or FIXTURES_PATH is required")
	}
	engine, err := config.EngineFromEnv()
	if err != nil {
		return nil, fmt.Errorf("engine config: %w", err)
	}
	cfg := config.Config{
		App:       config.AppConfig{AppName: "matchctl", Environment: "cli", FixturesPath: o.fixtures},
		Providers: config.ProvidersFromEnv(),
		Engine:    engine,
	}
	return app.NewContainer(ctx, cfg, o.logger(cmd))
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func parseID(flag, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("--%s must be a uuid: %w", flag, err)
	}
	return id, nil
}

func mustMarkRequired(cmd *cobra.Command, names ...string) {
	for _, name := range names {
		if err := cmd.MarkFlagRequired(name); err != nil {
			panic(fmt.Sprintf("failed to mark %s flag as required: %v", name, err))
		}
	}
}
