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
	"os"

	"github.com/rs/zerolog"
	"github.com/walteh/filepilot/pkg/apperr"
	"github.com/walteh/filepilot/pkg/tabular"
	"gitlab.com/tozd/go/errors"
)

// 👀 previewRows is how many rows the before/after previews show.
const previewRows = 5

// demoInstruction is the canned edit used by the demo entry point.
const demoInstruction = "Find 'notes' column and write 'pending' in it."

// 🏷️ Status classifies the outcome of one edit request.
type Status string

const (
	// StatusModified: the agent applied the edit itself.
	StatusModified Status = "modified"
	// StatusModifiedFallback: the fallback ladder recovered the edit.
	StatusModifiedFallback Status = "modified_fallback"
	// StatusUnmodified: neither the agent nor the ladder produced an edit.
	StatusUnmodified Status = "unmodified"
)

// 📦 Outcome reports one edit request.
type Outcome struct {
	Path      string // table file that was targeted
	Status    Status
	Rule      string // fallback rule that fired, if any
	Before    string // head preview before the edit
	After     string // head preview after the edit
	RawOutput string // raw agent output, for diagnostics
}

// 📝 Summary renders a human-readable status line for the menu.
func (o *Outcome) Summary() string {
	switch o.Status {
	case StatusModified:
		return fmt.Sprintf("Updated and saved: %s", o.Path)
	case StatusModifiedFallback:
		return fmt.Sprintf("Updated and saved (via fallback %s): %s", o.Rule, o.Path)
	default:
		return fmt.Sprintf("File unmodified: %s. Try a manual replace instead.", o.Path)
	}
}

// 🔁 Pipeline wires the table codec, the opaque agent, and the fallback
// ladder into the load → delegate → detect → recover → persist state
// machine.
type Pipeline struct {
	agent Agent
}

// 🏭 NewPipeline creates a Pipeline around the given agent.
func NewPipeline(a Agent) *Pipeline {
	return &Pipeline{agent: a}
}

// 🏃 Run executes one edit request against the table at path. The table is
// loaded fresh, mutated at most once, persisted back to the same path in its
// original format, then discarded.
func (p *Pipeline) Run(ctx context.Context, path, instruction string) (*Outcome, error) {
	logger := zerolog.Ctx(ctx)

	if !tabular.SupportedExtension(path) {
		return nil, errors.Errorf("%w: unsupported table file: %s", apperr.ErrInput, path)
	}

	doc, err := tabular.LoadFile(ctx, path)
	if err != nil {
		return nil, err
	}

	outcome := &Outcome{
		Path:   path,
		Before: doc.Head(previewRows),
	}
	snapshot := doc.Clone()

	raw, editErr := p.agent.Edit(ctx, instruction, doc)
	outcome.RawOutput = raw

	switch {
	case editErr != nil:
		// The reasoning step failed; its error text or raw output may still
		// carry a recognizable edit expression.
		var ee *EditError
		if !errors.As(editErr, &ee) {
			return nil, errors.Errorf("%w: %w", apperr.ErrAgent, editErr)
		}
		text := ee.Raw
		if text == "" {
			text = ee.Err.Error()
		}
		logger.Warn().Err(ee.Err).Msg("agent failed, attempting fallback")
		if !p.fallback(ctx, doc, text, outcome) {
			outcome.After = outcome.Before
			return outcome, nil
		}

	case doc.Equal(snapshot):
		// Delegation returned without touching the table; try the ladder
		// against whatever the model said.
		logger.Warn().Msg("table unchanged by agent, attempting fallback")
		if !p.fallback(ctx, doc, raw, outcome) {
			outcome.After = outcome.Before
			return outcome, nil
		}

	default:
		outcome.Status = StatusModified
	}

	if err := tabular.SaveFile(ctx, doc, path); err != nil {
		return nil, err
	}
	outcome.After = doc.Head(previewRows)

	return outcome, nil
}

// 🪜 fallback runs the rule ladder over text, mutating doc on a structural
// match. Reports whether the document was modified.
func (p *Pipeline) fallback(ctx context.Context, doc *tabular.Document, text string, outcome *Outcome) bool {
	logger := zerolog.Ctx(ctx)

	rule, matched, err := ApplyFirstMatch(doc, text)
	if !matched {
		logger.Warn().Msg("no fallback pattern matched agent output")
		outcome.Status = StatusUnmodified
		return false
	}
	if err != nil {
		logger.Warn().Str("rule", rule).Err(err).Msg("fallback rule failed to apply")
		outcome.Status = StatusUnmodified
		return false
	}

	logger.Info().Str("rule", rule).Msg("fallback applied")
	outcome.Status = StatusModifiedFallback
	outcome.Rule = rule
	return true
}

// 🎬 RunDemo synthesizes a small fixed sales table at path when the file
// does not exist, then runs a canned instruction against it.
func (p *Pipeline) RunDemo(ctx context.Context, path string) (*Outcome, error) {
	if _, err := os.Stat(path); err != nil {
		if err := tabular.SaveFile(ctx, DemoDocument(), path); err != nil {
			return nil, err
		}
	}
	return p.Run(ctx, path, demoInstruction)
}

// 📊 DemoDocument returns the fixed default table used by the demo entry
// point.
func DemoDocument() *tabular.Document {
	return tabular.New(
		[]string{"OrderID", "Product", "Price", "Status"},
		[][]string{
			{"101", "Laptop", "1200", "Shipped"},
			{"102", "Monitor", "300", "Pending"},
			{"103", "Mouse", "25", "Shipped"},
			{"104", "Keyboard", "75", "Pending"},
			{"105", "Webcam", "50", "Delivered"},
		},
	)
}
