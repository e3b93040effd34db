// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package command

import (
	"strings"

	"github.com/buildkite/shellwords"
	"github.com/samber/oops"
)

// ParsedCommand represents a parsed command line.
type ParsedCommand struct {
	Name string   // command label (first word, without a leading slash)
	Args []string // remaining words
	Raw  string   // original input
}

// Parse splits a command line into words using POSIX shell quoting, so a
// quoted world name like "my world" stays one argument.
func Parse(input string) (*ParsedCommand, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return nil, oops.Code("EMPTY_INPUT").Errorf("no command provided")
	}

	words, err := shellwords.SplitPosix(strings.TrimPrefix(trimmed, "/"))
	if err != nil {
		return nil, oops.Code(CodeParseFailed).With("input", input).Wrap(err)
	}
	if len(words) == 0 {
		return nil, oops.Code("EMPTY_INPUT").Errorf("no command provided")
	}

	return &ParsedCommand{
		Name: words[0],
		Args: words[1:],
		Raw:  input,
	}, nil
}
