package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/abelzeko/brew-bot/internal/config"
	"github.com/abelzeko/brew-bot/internal/logger"
	"github.com/abelzeko/brew-bot/internal/repository"
	"github.com/abelzeko/brew-bot/internal/seed"
	"github.com/abelzeko/brew-bot/internal/usecases"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var logLevel string

	rootCmd := &cobra.Command{
		Use:          "brewcalc",
		Short:        "Brewing calculators and inventory seeding from the command line",
		SilenceUsage: true,
		Long: `brewcalc runs the same calculators as the Telegram bot and can
load starter inventory into the bot's database.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.Init(logLevel, cmd.ErrOrStderr())
		},
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "WARN", "log level (DEBUG, INFO, WARN, ERROR)")

	calc := usecases.NewCalcUseCase()
	for _, kind := range calc.Kinds() {
		rootCmd.AddCommand(newCalcCmd(calc, kind))
	}
	rootCmd.AddCommand(newSeedCmd())
	return rootCmd
}

// newCalcCmd exposes one calculator as a subcommand. Arguments are passed through
// untouched so gravities and tuples like 10:3.5 reach the parser as typed.
func newCalcCmd(calc *usecases.CalcUseCase, kind string) *cobra.Command {
	return &cobra.Command{
		Use:                strings.TrimPrefix(calc.Usage(kind), "/"),
		Short:              calc.Description(kind),
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 && (args[0] == "-h" || args[0] == "--help") {
				return cmd.Help()
			}
			ctx := logger.WithRequestID(cmd.Context(), logger.GenerateRequestID())
			result, err := calc.Calculate(ctx, kind, args)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), result)
			return nil
		},
	}
}

func newSeedCmd() *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "seed FILE",
		Short: "Add ingredients and yeasts from a YAML file to the inventory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if dbPath == "" {
				cfg, err := config.Load()
				if err != nil {
					return err
				}
				dbPath = cfg.DBPath
			}

			f, err := seed.LoadFile(args[0])
			if err != nil {
				return err
			}

			store, err := repository.NewSQLiteStore(dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			res, err := seed.Apply(cmd.Context(), usecases.NewBrewUseCase(store, nil, nil), f)
			if err != nil {
				return err
			}
			slog.Info("Seed file applied", "path", args[0], "db", dbPath)
			fmt.Fprintf(cmd.OutOrStdout(), "Added %d, skipped %d already present\n", res.Added, res.Skipped)
			return nil
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "", "database path (defaults to DB_PATH)")
	return cmd
}
