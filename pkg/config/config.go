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

package config

import (
	"context"
	"os"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the settings from bytes
	Parse(ctx context.Context, data []byte) (*Settings, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 🤖 AgentSettings selects the local language model backend.
type AgentSettings struct {
	Model     string `json:"model" yaml:"model"`
	ServerURL string `json:"server_url,omitempty" yaml:"server_url,omitempty"`
}

// 🔍 SearchSettings tunes filesystem search.
type SearchSettings struct {
	Roots          []string `json:"roots,omitempty" yaml:"roots,omitempty"`
	MaxResults     int      `json:"max_results,omitempty" yaml:"max_results,omitempty"`
	TextExtensions []string `json:"text_extensions,omitempty" yaml:"text_extensions,omitempty"`
}

// 🚚 PushSettings tunes repository pushes.
type PushSettings struct {
	CreateMissing  bool     `json:"create_missing,omitempty" yaml:"create_missing,omitempty"`
	Private        bool     `json:"private,omitempty" yaml:"private,omitempty"`
	IgnorePatterns []string `json:"ignore_patterns,omitempty" yaml:"ignore_patterns,omitempty"`
}

// 📚 Settings represents the complete configuration
type Settings struct {
	Agent  AgentSettings  `json:"agent" yaml:"agent"`
	Search SearchSettings `json:"search,omitempty" yaml:"search,omitempty"`
	Push   PushSettings   `json:"push,omitempty" yaml:"push,omitempty"`
}

// 🎯 Default returns the settings used when no config file is present.
func Default() *Settings {
	return &Settings{
		Agent: AgentSettings{
			Model: "llama3.2:1b",
		},
		Search: SearchSettings{
			MaxResults:     25,
			TextExtensions: []string{".txt", ".md", ".py", ".go", ".csv"},
		},
		Push: PushSettings{
			CreateMissing: true,
		},
	}
}

// 🎯 Load loads the configuration from a file. A missing file is not an
// error: defaults apply.
func Load(ctx context.Context, path string) (*Settings, error) {
	logger := zerolog.Ctx(ctx)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Debug().Str("path", path).Msg("no config file, using defaults")
			return Default(), nil
		}
		return nil, errors.Errorf("reading config file: %w", err)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	logger.Debug().Str("path", path).Str("model", cfg.Agent.Model).Msg("loaded configuration")
	return cfg, nil
}

// applyDefaults fills fields the file left unset.
func (cfg *Settings) applyDefaults() {
	def := Default()
	if cfg.Agent.Model == "" {
		cfg.Agent.Model = def.Agent.Model
	}
	if cfg.Search.MaxResults == 0 {
		cfg.Search.MaxResults = def.Search.MaxResults
	}
	if len(cfg.Search.TextExtensions) == 0 {
		cfg.Search.TextExtensions = def.Search.TextExtensions
	}
}

// 🔍 Validate checks if the configuration is valid
func (cfg *Settings) Validate() error {
	return validation.ValidateStruct(cfg,
		validation.Field(&cfg.Agent, validation.By(func(interface{}) error {
			return validation.ValidateStruct(&cfg.Agent,
				validation.Field(&cfg.Agent.Model, validation.Required),
			)
		})),
		validation.Field(&cfg.Search, validation.By(func(interface{}) error {
			return validation.ValidateStruct(&cfg.Search,
				validation.Field(&cfg.Search.MaxResults, validation.Min(1), validation.Max(500)),
			)
		})),
	)
}
