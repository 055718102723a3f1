package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/dukerupert/chorelog/internal/config"
	"github.com/dukerupert/chorelog/internal/database"
	"github.com/dukerupert/chorelog/internal/logging"
	"github.com/dukerupert/chorelog/internal/snapshot"
	"github.com/dukerupert/chorelog/internal/store"
)

const Version = "0.1.0"

// app is the state shared by every subcommand once the config is loaded.
type app struct {
	configPath string
	cfg        *config.Config
	logger     *slog.Logger
}

func (a *app) openDB() (*sql.DB, error) {
	db, err := database.Open(a.cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return db, nil
}

func (a *app) snapshots(db *sql.DB) *snapshot.Manager {
	return snapshot.NewManager(snapshot.Config{
		S3: snapshot.S3Config{
			Endpoint:  a.cfg.S3.Endpoint,
			Bucket:    a.cfg.S3.Bucket,
			Region:    a.cfg.S3.Region,
			AccessKey: a.cfg.S3.AccessKey,
			SecretKey: a.cfg.S3.SecretKey,
		},
		Passphrase: a.cfg.Snapshot.Passphrase,
		Prefix:     a.cfg.Snapshot.Prefix,
		Keep:       a.cfg.Snapshot.Keep,
		Interval:   a.cfg.Snapshot.Interval,
	}, store.NewLogStore(db), store.NewMemberStore(db), store.NewSnapshotStore(db), a.logger)
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "chorelog",
		Short:         "Household chore log with a stats dashboard",
		Long:          "chorelog records who did which chore and when, and serves a dashboard of the household's activity.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger = logging.Setup(cfg.LogLevel, cfg.LogFormat)
			return nil
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "path to a YAML config file (default $"+config.EnvConfigFile+")")

	root.AddCommand(
		newServeCmd(a),
		newLogCmd(a),
		newStatsCmd(a),
		newMembersCmd(a),
		newInsightsCmd(a),
		newClearCmd(a),
		newSnapshotCmd(a),
	)
	return root
}

func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
