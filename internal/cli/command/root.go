package command

import (
	"github.com/urfave/cli/v2"

	"github.com/liftlog/liftlog-go/internal/infra/buildinfo"
	"github.com/liftlog/liftlog-go/internal/infra/confloader"
	"github.com/liftlog/liftlog-go/internal/server/config"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "liftlog-server",
		Usage:   "LiftLog workout tracking API server",
		Version: buildinfo.Get().Version,
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			ServeCommand(),
			MigrateCommand(),
			VersionCommand(),
		},
		Action: serve,
	}
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to a YAML configuration file",
			EnvVars: []string{"LIFTLOG_CONFIG"},
		},
		&cli.StringFlag{
			Name:  "env-file",
			Usage: "Path to a .env file; missing files are ignored",
			Value: config.DefaultDotEnv,
		},
	}
}

// newLoader builds the configuration loader from the global flags.
func newLoader(c *cli.Context) *confloader.Loader {
	return config.NewLoader(c.String("config"), c.String("env-file"))
}
