package main

import (
	"context"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/memobit/labsql"
	"github.com/memobit/labsql/internal/config"
)

type cmdGlobal struct {
	flagConfig  string
	flagDebug   bool
	flagVerbose bool
	flagHelp    bool
	flagVersion bool
}

func main() {
	app := &cobra.Command{}
	app.Use = "labtrackd"
	app.Short = "Lab results tracker backend"
	app.Long = `Description:
  Lab results tracker backend

  labtrackd serves the tracker API on top of a MySQL database and
  manages the medical_* tables it stores results in.
`
	app.SilenceUsage = true
	app.CompletionOptions = cobra.CompletionOptions{DisableDefaultCmd: true}

	// Global flags.
	globalCmd := cmdGlobal{}
	globalCmd.addFlags(app.PersistentFlags())

	// Help handling.
	app.SetHelpCommand(&cobra.Command{
		Use:    "no-help",
		Hidden: true,
	})

	// Version handling.
	app.SetVersionTemplate("{{.Version}}\n")
	app.Version = labsql.Version

	// serve sub-command.
	serveCmd := cmdServe{global: &globalCmd}
	app.AddCommand(serveCmd.Command())

	// describe sub-command.
	describeCmd := cmdDescribe{global: &globalCmd}
	app.AddCommand(describeCmd.Command())

	// migrate sub-command.
	migrateCmd := cmdMigrate{global: &globalCmd}
	app.AddCommand(migrateCmd.Command())

	// Run the main command and handle errors.
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func (c *cmdGlobal) addFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&c.flagConfig, "config", "c", "/etc/labtrackd/config.yml", "Path to the configuration file"+"``")
	fs.BoolVarP(&c.flagDebug, "debug", "d", false, "Show all debug messages")
	fs.BoolVarP(&c.flagVerbose, "verbose", "v", false, "Show all information messages")
	fs.BoolVar(&c.flagVersion, "version", false, "Print version number")
	fs.BoolVarP(&c.flagHelp, "help", "h", false, "Print help")
}

// CheckArgs validates the number of arguments passed to the function and shows the help if incorrect.
func (c *cmdGlobal) CheckArgs(cmd *cobra.Command, args []string, minArgs int, maxArgs int) (bool, error) {
	if len(args) < minArgs || (maxArgs != -1 && len(args) > maxArgs) {
		_ = cmd.Help()

		if len(args) == 0 {
			return true, nil
		}

		return true, fmt.Errorf("Invalid number of arguments")
	}

	return false, nil
}

// load reads the configuration and sets up the logger from it.
func (c *cmdGlobal) load() (*config.Config, error) {
	cfg, err := config.Load(c.flagConfig)
	if err != nil {
		return nil, err
	}

	log.SetFormatter(&log.TextFormatter{
		FullTimestamp: true,
	})
	log.SetOutput(os.Stderr)
	log.SetLevel(cfg.Level())

	if c.flagVerbose {
		log.SetLevel(log.InfoLevel)
	}

	// Only the log level; failure detail in responses stays on cfg.Debug.
	if c.flagDebug {
		log.SetLevel(log.DebugLevel)
	}

	return cfg, nil
}

// connect opens the database described by cfg.
func (c *cmdGlobal) connect(ctx context.Context, cfg *config.Config) (*labsql.DB, error) {
	logger := log.StandardLogger()

	db, err := labsql.ConnectWithConfig(ctx, cfg.Database,
		labsql.WithLogger(labsql.NewLogrusLogger(logger, cfg.SlowQuery)),
		labsql.WithSchemaCacheTTL(cfg.SchemaCacheTTL),
		labsql.WithSchemaOptions(schemaLogger(logger)),
	)
	if err != nil {
		return nil, fmt.Errorf("Unable to connect to the database: %w", err)
	}

	return db, nil
}
