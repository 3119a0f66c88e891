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

package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/walteh/filepilot/pkg/tabular"
	"gitlab.com/tozd/go/errors"
)

// 🤖 OllamaAgent drives a locally-served model and applies the single edit
// expression it replies with. Exact reasoning behavior is opaque and
// model-dependent; the pipeline's fallback ladder handles replies that do
// not parse.
type OllamaAgent struct {
	llm   *ollama.LLM
	model string
}

// 🏭 NewOllama creates an agent bound to the given model on a local Ollama
// server. serverURL may be empty for the default (http://localhost:11434).
func NewOllama(model, serverURL string) (*OllamaAgent, error) {
	if model == "" {
		return nil, errors.New("model name is required")
	}

	opts := []ollama.Option{ollama.WithModel(model)}
	if serverURL != "" {
		opts = append(opts, ollama.WithServerURL(serverURL))
	}

	llm, err := ollama.New(opts...)
	if err != nil {
		return nil, errors.Errorf("initializing ollama: %w", err)
	}

	return &OllamaAgent{llm: llm, model: model}, nil
}

// Name implements Agent.
func (a *OllamaAgent) Name() string {
	return "ollama/" + a.model
}

// ✏️ Edit implements Agent. The model is asked for exactly one assignment
// expression; when the reply parses as a known edit shape it is applied
// structurally to doc. A reply that does not parse is returned untouched so
// the caller's no-op detection and fallback ladder take over.
func (a *OllamaAgent) Edit(ctx context.Context, instruction string, doc *tabular.Document) (string, error) {
	logger := zerolog.Ctx(ctx)

	prompt := buildPrompt(instruction, doc)
	logger.Debug().Str("model", a.model).Msg("delegating edit to model")

	out, err := llms.GenerateFromSinglePrompt(ctx, a.llm, prompt, llms.WithTemperature(0))
	if err != nil {
		return "", &EditError{Err: errors.Errorf("generating edit: %w", err)}
	}

	expr := firstExpression(out)
	if expr == "" {
		logger.Debug().Str("output", truncate(out, 200)).Msg("model output contains no edit expression")
		return out, nil
	}

	if name, matched, err := ApplyFirstMatch(doc, expr); matched {
		if err != nil {
			return out, &EditError{Raw: out, Err: err}
		}
		logger.Debug().Str("rule", name).Str("expr", expr).Msg("applied model edit")
	}

	return out, nil
}

// 📝 buildPrompt frames the instruction with the table's columns and a short
// preview, constraining the reply to one assignment expression.
func buildPrompt(instruction string, doc *tabular.Document) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "You are editing a table named df with columns: %s.\n",
		strings.Join(doc.Columns(), ", "))
	fmt.Fprintf(&sb, "First rows:\n%s\n", doc.Head(5))
	fmt.Fprintf(&sb, "Instruction: %s\n", instruction)
	sb.WriteString("Reply with exactly one line of the form " +
		"df['Column'] = 'value' or " +
		"df.loc[df['Column'] == value, 'Target'] = value. " +
		"No explanation, no code fences.\n")
	return sb.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
