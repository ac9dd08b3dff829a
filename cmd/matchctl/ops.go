package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"jobmatch/internal/app"
	"jobmatch/internal/config"
	"jobmatch/internal/database"
	"jobmatch/internal/database/migration"
	dbpostgres "jobmatch/internal/database/postgres"
	"jobmatch/internal/database/seeder"
	"jobmatch/internal/pkg/jwt"
	"jobmatch/internal/repository"
	"jobmatch/internal/scheduler"
	"jobmatch/internal/usecase"

	"github.com/spf13/cobra"
)

func newWarmCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "warm",
		Short: "Run one cache warm cycle with the server configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			c, err := app.NewContainer(cmd.Context(), cfg, root.logger(cmd))
			if err != nil {
				return err
			}
			defer c.Close()

			if c.Cache == nil || !c.Cache.Available() {
				return errors.New("redis is not reachable; nothing to warm")
			}
			s := scheduler.New(c.Discovery, c.Cache, nil, scheduler.Config{
				Spec:    cfg.Engine.WarmCron,
				Limits:  cfg.Engine.WarmLimits,
				LockKey: usecase.WarmLockKey,
			}, root.logger(cmd))
			if !s.RunOnce(cmd.Context()) {
				return errors.New("warm cycle did not run; see --verbose output")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "warmed limits=%v\n", cfg.Engine.WarmLimits)
			return nil
		},
	}
}

func newTokenCmd() *cobra.Command {
	var (
		candidateID, email, secret string
		ttl                        time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Sign a candidate access token for local testing",
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, err := parseID("candidate", candidateID)
			if err != nil {
				return err
			}
			if secret == "" {
				return errors.New("--secret or JWT_ACCESS_SECRET is required")
			}
			tok, err := jwt.NewHMACService(secret, ttl).GenerateAccessToken(id, email)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().StringVarP(&candidateID, "candidate", "c", "", "Candidate id (required)")
	cmd.Flags().StringVar(&email, "email", "", "Email claim")
	cmd.Flags().StringVar(&secret, "secret", os.Getenv("JWT_ACCESS_SECRET"), "HMAC signing secret")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "Token lifetime")
	mustMarkRequired(cmd, "candidate")
	return cmd
}

func newMigrateCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			dbcfg := config.DatabaseFromEnv()
			db, err := connect(cmd.Context(), dbcfg, root, cmd)
			if err != nil {
				return err
			}
			defer db.Close()

			r := migration.Runner{Dir: dbcfg.MigrationsDir, Logger: root.logger(cmd)}
			if err := r.Run(cmd.Context(), db.SQLDB()); err != nil {
				return fmt.Errorf("run migrations: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	}
}

func newSeedCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Copy the fixtures file into Postgres",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if root.fixtures == "" {
				return errors.New("--fixtures or FIXTURES_PATH is required")
			}
			f, err := os.Open(root.fixtures)
			if err != nil {
				return fmt.Errorf("open fixtures: %w", err)
			}
			defer f.Close()
			fx, err := repository.DecodeFixtures(f)
			if err != nil {
				return err
			}

			db, err := connect(cmd.Context(), config.DatabaseFromEnv(), root, cmd)
			if err != nil {
				return err
			}
			defer db.Close()

			r := seeder.Runner{Seeders: []seeder.Seeder{seeder.FixturesSeeder{Fixtures: fx}}, Logger: root.logger(cmd)}
			if err := r.Run(cmd.Context(), db); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded jobs=%d candidates=%d cvs=%d applications=%d\n",
				len(fx.Jobs), len(fx.Candidates), len(fx.CVs), len(fx.Applications))
			return nil
		},
	}
}

func connect(ctx context.Context, cfg config.DatabaseConfig, root *rootOptions, cmd *cobra.Command) (database.DB, error) {
	if !cfg.Enabled() {
		return nil, errors.New("DB_HOST is required")
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return dbpostgres.Connect(ctx, cfg, root.logger(cmd))
}
