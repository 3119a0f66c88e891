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
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&HCLParser{})
}

// 🔧 HCLParser implements the Parser interface for HCL files
type HCLParser struct{}

// 🔍 CanParse checks if this parser can handle the given file
func (p *HCLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".hcl")
}

// 📝 Parse parses the settings from HCL
func (p *HCLParser) Parse(ctx context.Context, data []byte) (*Settings, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, "config.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{},
	}

	// Define HCL schema
	type hclConfig struct {
		Agent *struct {
			Model     string `hcl:"model"`
			ServerURL string `hcl:"server_url,optional"`
		} `hcl:"agent,block"`
		Search *struct {
			Roots          []string `hcl:"roots,optional"`
			MaxResults     int      `hcl:"max_results,optional"`
			TextExtensions []string `hcl:"text_extensions,optional"`
		} `hcl:"search,block"`
		Push *struct {
			CreateMissing  bool     `hcl:"create_missing,optional"`
			Private        bool     `hcl:"private,optional"`
			IgnorePatterns []string `hcl:"ignore_patterns,optional"`
		} `hcl:"push,block"`
	}

	var hclCfg hclConfig
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &hclCfg)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	// Convert to model
	cfg := &Settings{}
	if hclCfg.Agent != nil {
		cfg.Agent = AgentSettings{
			Model:     hclCfg.Agent.Model,
			ServerURL: hclCfg.Agent.ServerURL,
		}
	}
	if hclCfg.Search != nil {
		cfg.Search = SearchSettings{
			Roots:          hclCfg.Search.Roots,
			MaxResults:     hclCfg.Search.MaxResults,
			TextExtensions: hclCfg.Search.TextExtensions,
		}
	}
	if hclCfg.Push != nil {
		cfg.Push = PushSettings{
			CreateMissing:  hclCfg.Push.CreateMissing,
			Private:        hclCfg.Push.Private,
			IgnorePatterns: hclCfg.Push.IgnorePatterns,
		}
	}

	return cfg, nil
}
