// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"fmt"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/filepilot/pkg/agent"
	"github.com/walteh/filepilot/pkg/config"
	"github.com/walteh/filepilot/pkg/log"
	"github.com/walteh/filepilot/pkg/menu"
	"github.com/walteh/filepilot/pkg/remote/github"
	"gitlab.com/tozd/go/errors"
)

var (
	// Flags
	configFile string
	debug      bool
)

func main() {
	root := &cobra.Command{
		Use:   "filepilot",
		Short: "Local file assistant: table edits, text replacement, and GitHub pushes",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := setupLogging(cmd.Context())
			return run(ctx)
		},
		SilenceUsage: true,
	}
	addRootFlags(root)

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Print(FormatVersion())
		},
	})

	if err := root.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVarP(&configFile, "config", "c", "filepilot.yaml", "config file path")
	cmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug logging")
}

// setupLogging configures zerolog based on flags and attaches the per-file
// operation display to the context.
func setupLogging(ctx context.Context) context.Context {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().
		Timestamp().
		Logger()
	zerolog.DefaultContextLogger = &logger

	ctx = logger.WithContext(ctx)
	return log.NewContext(ctx, log.New(os.Stdout, logger))
}

// run wires settings, the edit agent, and the interactive menu.
func run(ctx context.Context) error {
	logger := zerolog.Ctx(ctx)

	cfg, err := config.Load(ctx, configFile)
	if err != nil {
		return errors.Errorf("loading config: %w", err)
	}

	if os.Getenv(github.TokenEnvVar) == "" {
		logger.Warn().Msgf("%s is not set, GitHub actions will be unavailable", github.TokenEnvVar)
	}

	a, err := agent.NewOllama(cfg.Agent.Model, cfg.Agent.ServerURL)
	if err != nil {
		return errors.Errorf("creating agent: %w", err)
	}
	logger.Info().Str("agent", a.Name()).Msg("agent ready")

	return menu.New(cfg, agent.NewPipeline(a)).Run(ctx)
}
