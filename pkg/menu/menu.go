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

// Package menu implements the interactive top-level loop: one action menu,
// sequential prompts per action, and plain-language reporting of outcomes.
package menu

import (
	"context"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/walteh/filepilot/pkg/agent"
	"github.com/walteh/filepilot/pkg/apperr"
	"github.com/walteh/filepilot/pkg/config"
	"github.com/walteh/filepilot/pkg/ignore"
	"github.com/walteh/filepilot/pkg/log"
	"github.com/walteh/filepilot/pkg/remote"
	"github.com/walteh/filepilot/pkg/search"
	"github.com/walteh/filepilot/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// 🎛️ Menu actions, in display order.
const (
	actionTabular   = "Modify a table file (CSV or Excel)"
	actionPush      = "Push a local folder to GitHub"
	actionReplace   = "Find and replace text in a file"
	actionFindPush  = "Find a folder by name and push it to GitHub"
	actionQuit      = "Quit"
	defaultDemoPath = "default_sales.csv"
	defaultMessage  = "Automated update"
)

// 🔌 prompter abstracts the interactive widgets so handlers stay testable.
type prompter interface {
	Select(label string, options []string) (string, error)
	Ask(label string) (string, error)
}

// 🖥️ ptermPrompter renders prompts with pterm's interactive widgets.
type ptermPrompter struct{}

func (ptermPrompter) Select(label string, options []string) (string, error) {
	choice, err := pterm.DefaultInteractiveSelect.
		WithDefaultText(label).
		WithOptions(options).
		Show()
	if err != nil {
		return "", errors.Errorf("showing select prompt: %w", err)
	}
	return choice, nil
}

func (ptermPrompter) Ask(label string) (string, error) {
	answer, err := pterm.DefaultInteractiveTextInput.Show(label)
	if err != nil {
		return "", errors.Errorf("showing text prompt: %w", err)
	}
	return answer, nil
}

// 🎛️ Menu drives one interactive session.
type Menu struct {
	settings *config.Settings
	pipeline *agent.Pipeline
	prompt   prompter

	// newProvider defers remote construction (and its credential check)
	// until a push action is actually chosen.
	newProvider remote.Factory
}

// 🏭 New creates a Menu over the given settings and edit pipeline.
func New(settings *config.Settings, pipeline *agent.Pipeline) *Menu {
	return &Menu{
		settings: settings,
		pipeline: pipeline,
		prompt:   ptermPrompter{},
		newProvider: func(ctx context.Context) (remote.Provider, error) {
			return remote.GetProvider(ctx, "github")
		},
	}
}

// 🏃 Run loops the action menu until the user quits. Handler errors are
// reported and the loop continues.
func (m *Menu) Run(ctx context.Context) error {
	logger := zerolog.Ctx(ctx)

	for {
		choice, err := m.prompt.Select("What would you like to do?", []string{
			actionTabular, actionPush, actionReplace, actionFindPush, actionQuit,
		})
		if err != nil {
			return err
		}

		var handlerErr error
		switch choice {
		case actionTabular:
			handlerErr = m.runTabular(ctx)
		case actionPush:
			handlerErr = m.runPush(ctx)
		case actionReplace:
			handlerErr = m.runReplace(ctx)
		case actionFindPush:
			handlerErr = m.runFindPush(ctx)
		case actionQuit:
			pterm.Info.Println("Goodbye!")
			return nil
		}

		if handlerErr != nil {
			logger.Debug().Err(handlerErr).Str("action", choice).Msg("action failed")
			m.report(handlerErr)
		}
	}
}

// 📊 runTabular asks for a table file and an instruction, then runs the edit
// pipeline. A blank path runs the canned demo instead.
func (m *Menu) runTabular(ctx context.Context) error {
	path, err := m.prompt.Ask("Path of the table file (leave blank for a demo table)")
	if err != nil {
		return err
	}

	var outcome *agent.Outcome
	if path == "" {
		pterm.Info.Printfln("No path given, running the demo against %s", defaultDemoPath)
		outcome, err = m.pipeline.RunDemo(ctx, defaultDemoPath)
	} else {
		var instruction string
		instruction, err = m.prompt.Ask("What should be changed?")
		if err != nil {
			return err
		}
		outcome, err = m.pipeline.Run(ctx, path, instruction)
	}
	if err != nil {
		return err
	}

	pterm.DefaultBox.WithTitle("before").Println(outcome.Before)
	pterm.DefaultBox.WithTitle("after").Println(outcome.After)
	if outcome.Status == agent.StatusUnmodified {
		pterm.Warning.Println(outcome.Summary())
	} else {
		pterm.Success.Println(outcome.Summary())
	}
	return nil
}

// 🚚 runPush asks for a repository name, folder, and commit message, then
// mirrors the folder into the repository.
func (m *Menu) runPush(ctx context.Context) error {
	repoName, err := m.prompt.Ask("Repository name")
	if err != nil {
		return err
	}
	folder, err := m.prompt.Ask("Local folder to push")
	if err != nil {
		return err
	}
	message, err := m.prompt.Ask("Commit message")
	if err != nil {
		return err
	}
	if repoName == "" || folder == "" || message == "" {
		return errors.Errorf("%w: repository, folder, and message are all required", apperr.ErrInput)
	}

	pusher, err := m.pusher(ctx)
	if err != nil {
		return err
	}
	summary, err := pusher.PushFolder(ctx, repoName, folder, message, m.pushOptions())
	if err != nil {
		return err
	}

	pterm.Success.Println(summary.Status())
	return nil
}

// ✏️ runReplace searches for a text file by name, lets the user pick one,
// then runs a backed-up find/replace on it.
func (m *Menu) runReplace(ctx context.Context) error {
	query, err := m.prompt.Ask("Name of the file to edit")
	if err != nil {
		return err
	}

	matches := search.Find(ctx, search.Query{
		Name:       query,
		Extensions: m.settings.Search.TextExtensions,
		MaxResults: m.settings.Search.MaxResults,
		Roots:      m.settings.Search.Roots,
	})
	if len(matches) == 0 {
		return errors.Errorf("%w: no files found matching %q", apperr.ErrInput, query)
	}

	path := matches[0]
	if len(matches) > 1 {
		path, err = m.prompt.Select("Several files match, pick one", matches)
		if err != nil {
			return err
		}
	}

	find, err := m.prompt.Ask("Text to find")
	if err != nil {
		return err
	}
	replace, err := m.prompt.Ask("Replacement text")
	if err != nil {
		return err
	}

	result, err := text.ReplaceInFile(ctx, path, find, replace, true)
	if err != nil {
		return err
	}

	if result.WasModified {
		pterm.Success.Println(result.Status())
	} else {
		pterm.Warning.Printfln("No occurrences of %q in %s, file unchanged", find, path)
	}
	return nil
}

// 🔍 runFindPush fuzzy-searches for a folder and pushes the first match.
func (m *Menu) runFindPush(ctx context.Context) error {
	query, err := m.prompt.Ask("Name of the folder to find")
	if err != nil {
		return err
	}
	repoName, err := m.prompt.Ask("Repository name")
	if err != nil {
		return err
	}
	message, err := m.prompt.Ask("Commit message (blank for a default)")
	if err != nil {
		return err
	}
	if message == "" {
		message = defaultMessage
	}
	if query == "" || repoName == "" {
		return errors.Errorf("%w: folder name and repository are required", apperr.ErrInput)
	}

	pusher, err := m.pusher(ctx)
	if err != nil {
		return err
	}
	summary, err := pusher.FindFolderAndPush(ctx, query, repoName, message, m.pushOptions())
	if err != nil {
		return err
	}

	pterm.Success.Println(summary.Status())
	return nil
}

// 🏭 pusher constructs a Pusher with the session's ignore rules and display.
func (m *Menu) pusher(ctx context.Context) (*remote.Pusher, error) {
	provider, err := m.newProvider(ctx)
	if err != nil {
		return nil, errors.Errorf("%w: %w", apperr.ErrRemote, err)
	}

	patterns := append(ignore.DefaultPatterns(), m.settings.Push.IgnorePatterns...)
	return remote.NewPusher(provider, ignore.New(patterns...), log.FromContext(ctx)), nil
}

func (m *Menu) pushOptions() remote.PushOptions {
	return remote.PushOptions{
		CreateMissing: m.settings.Push.CreateMissing,
		Private:       m.settings.Push.Private,
	}
}

// 📣 report renders a handler error in plain language, classified by kind.
func (m *Menu) report(err error) {
	switch apperr.Kind(err) {
	case "input":
		pterm.Warning.Println(err.Error())
	default:
		pterm.Error.Println(err.Error())
	}
}
