package main

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/phrazzld/scry-flashcards/internal/platform/postgres"
	"github.com/spf13/cobra"
)

var migrateCommands = []string{
	postgres.MigrateUp,
	postgres.MigrateDown,
	postgres.MigrateReset,
	postgres.MigrateStatus,
	postgres.MigrateVersion,
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [" + strings.Join(migrateCommands, "|") + "]",
		Short:     "Run database migrations",
		Args:      validateMigrateArgs,
		ValidArgs: migrateCommands,
		RunE: func(cmd *cobra.Command, args []string) error {
			command := postgres.MigrateUp
			if len(args) == 1 {
				command = args[0]
			}

			ctx := cmd.Context()
			_, log, db, err := bootstrap(ctx)
			if err != nil {
				return err
			}
			defer func() {
				if cerr := db.Close(); cerr != nil {
					log.Error("error closing database connection", slog.String("error", cerr.Error()))
				}
			}()

			return postgres.Migrate(ctx, db, command, log)
		},
	}
}

// validateMigrateArgs accepts zero args (meaning up) or one known command.
func validateMigrateArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.MaximumNArgs(1)(cmd, args); err != nil {
		return err
	}
	if len(args) == 0 {
		return nil
	}
	if slices.Contains(migrateCommands, args[0]) {
		return nil
	}
	return fmt.Errorf("unknown migration command %q (expected one of %s)", args[0], strings.Join(migrateCommands, ", "))
}
