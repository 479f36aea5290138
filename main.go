package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/okra-platform/thriftrs/internal/commands"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	short := commit
	if len(commit) > 7 {
		short = commit[:7]
	}

	return fmt.Sprintf("%s (%s) %s", version, short, date)
}

// projectFlags are shared by every command that loads the project config
func projectFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "path to thriftrs.yaml (default: searched upwards from the working directory)",
			Sources: cli.EnvVars("THRIFTRS_CONFIG"),
		},
		&cli.StringFlag{
			Name:  "lang",
			Usage: "target language",
		},
		&cli.StringFlag{
			Name:    "out",
			Aliases: []string{"o"},
			Usage:   "output directory",
		},
		&cli.StringFlag{
			Name:  "namespace",
			Usage: "path prefix for cross-module uses, e.g. my_crate.gen",
		},
		&cli.IntFlag{
			Name:  "max-chain-depth",
			Usage: "maximum number of levels in a service extends chain",
		},
	}
}

func main() {
	ctrl := &commands.Controller{
		Flags:   &commands.Flags{},
		Version: version,
	}

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	readFlags := func(ctx context.Context, c *cli.Command) (context.Context, error) {
		ctrl.Flags.ConfigPath = c.String("config")
		ctrl.Flags.Language = c.String("lang")
		ctrl.Flags.Output = c.String("out")
		ctrl.Flags.Namespace = c.String("namespace")
		ctrl.Flags.MaxChainDepth = int(c.Int("max-chain-depth"))
		if ctrl.Flags.MaxChainDepth < 0 {
			return ctx, fmt.Errorf("invalid --max-chain-depth %d", ctrl.Flags.MaxChainDepth)
		}
		return ctx, nil
	}

	app := &cli.Command{
		Name:    "thriftrs",
		Usage:   "Generate Rust modules from checked Thrift IDL",
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "log level (debug, info, warn, error, fatal, panic)",
				Sources: cli.EnvVars("THRIFTRS_LOG_LEVEL"),
				Value:   "info",
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			level, err := zerolog.ParseLevel(c.String("log-level"))
			if err != nil {
				return ctx, fmt.Errorf("failed to parse log level: %w", err)
			}

			ctrl.Flags.LogLevel = level.String()
			log.Logger = log.Level(level)

			return ctx, nil
		},
		Commands: []*cli.Command{
			{
				Name:      "generate",
				Aliases:   []string{"gen"},
				Usage:     "Generate one Rust module per program",
				ArgsUsage: "[AST files...]",
				Flags:     projectFlags(),
				Before:    readFlags,
				Action: func(ctx context.Context, c *cli.Command) error {
					return ctrl.Generate(ctx, c.Args().Slice())
				},
			},
			{
				Name:   "watch",
				Usage:  "Regenerate whenever an input changes",
				Flags:  projectFlags(),
				Before: readFlags,
				Action: func(ctx context.Context, c *cli.Command) error {
					return ctrl.Watch(ctx)
				},
			},
			{
				Name:      "inspect",
				Usage:     "Show how each program maps onto Rust without writing files",
				ArgsUsage: "[AST files...]",
				Flags:     projectFlags(),
				Before:    readFlags,
				Action: func(ctx context.Context, c *cli.Command) error {
					return ctrl.Inspect(ctx, c.Args().Slice())
				},
			},
			{
				Name:  "init",
				Usage: "Create thriftrs.yaml in the current directory",
				Flags: append(projectFlags(), &cli.BoolFlag{
					Name:    "yes",
					Aliases: []string{"y"},
					Usage:   "accept the defaults without prompting",
				}),
				Before: readFlags,
				Action: func(ctx context.Context, c *cli.Command) error {
					ctrl.Flags.Yes = c.Bool("yes")
					return ctrl.Init(ctx)
				},
			},
			{
				Name:  "languages",
				Usage: "List the supported target languages",
				Action: func(ctx context.Context, c *cli.Command) error {
					return ctrl.Languages(ctx)
				},
			},
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, os.Args); err != nil {
		log.Fatal().Err(err).Msg("failed to run thriftrs")
	}
}
