//go:build darwin

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"github.com/siegfried/topwatch/internal/app"
	"github.com/siegfried/topwatch/internal/config"
)

// Set at build time: go build -ldflags "-X main.version=1.2.3"
var version = "dev"

func init() {
	// AppKit must run on the main thread
	runtime.LockOSThread()

	log.SetFormatter(&log.TextFormatter{
		FullTimestamp: true,
		CallerPrettyfier: func(f *runtime.Frame) (string, string) {
			return "", fmt.Sprintf("%s:%d", filepath.Base(f.File), f.Line)
		},
	})
	log.SetReportCaller(true)
}

func main() {
	defaultDir, err := config.DefaultDir()
	if err != nil {
		defaultDir = "."
	}

	cmd := &cli.Command{
		Name:    "topwatch",
		Usage:   "always-on-top desktop clock",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to the settings file",
				Sources: cli.EnvVars("TOPWATCH_CONFIG"),
				Value:   filepath.Join(defaultDir, "settings.yaml"),
			},
			&cli.StringFlag{
				Name:    "data-dir",
				Usage:   "directory for the history database",
				Sources: cli.EnvVars("TOPWATCH_DATA_DIR"),
				Value:   defaultDir,
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "logging level: debug, info, warn, error",
				Sources: cli.EnvVars("TOPWATCH_LOG_LEVEL"),
				Value:   "info",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			level, err := log.ParseLevel(cmd.String("log-level"))
			if err != nil {
				log.Warnf("Unknown log level %q, using info", cmd.String("log-level"))
				level = log.InfoLevel
			}
			log.SetLevel(level)

			a, err := app.New(app.Options{
				ConfigPath: cmd.String("config"),
				DataDir:    cmd.String("data-dir"),
			})
			if err != nil {
				return fmt.Errorf("failed to start: %w", err)
			}
			return a.Run()
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
