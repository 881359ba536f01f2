package main

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/memobit/labsql/internal/migrate"
)

type cmdMigrate struct {
	global *cmdGlobal

	flagDryRun bool
}

// Command generates the command definition.
func (c *cmdMigrate) Command() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.Use = "migrate"
	cmd.Short = "Create the tracker tables"
	cmd.Long = `Description:
  Create the tracker tables

  Every statement is idempotent; running this on an existing database
  leaves it untouched.
`
	cmd.RunE = c.Run
	cmd.Flags().BoolVar(&c.flagDryRun, "dry-run", false, "Print the statements instead of running them")

	return cmd
}

// Run runs the actual command logic.
func (c *cmdMigrate) Run(cmd *cobra.Command, args []string) error {
	// Quick checks.
	exit, err := c.global.CheckArgs(cmd, args, 0, 0)
	if exit {
		return err
	}

	if c.flagDryRun {
		for _, stmt := range migrate.Statements() {
			fmt.Printf("%s;\n\n", stmt)
		}

		return nil
	}

	cfg, err := c.global.load()
	if err != nil {
		return err
	}

	ctx := context.Background()
	db, err := c.global.connect(ctx, cfg)
	if err != nil {
		return err
	}

	defer db.Close()

	return migrate.Apply(ctx, db, log.StandardLogger())
}
