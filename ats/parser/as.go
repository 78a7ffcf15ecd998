// Package parser turns `tabix as` arguments into attestation commands.
package parser

import (
	"strings"
	"time"

	"github.com/teranos/tabix/ats/types"
	"github.com/teranos/tabix/errors"
)

// ParseAsCommand parses CLI arguments into an AsCommand.
// Grammar: tabix as SUBJECTS [is|are PREDICATES] [of CONTEXTS] [by ACTORS] [on DATE]
//
// Exactly three bare tokens are read as SUBJECT PREDICATE CONTEXT.
// Values keep their case, since columns are matched on exact strings.
func ParseAsCommand(args []string) (*types.AsCommand, error) {
	if len(args) == 0 {
		return nil, errors.NewInvalidRequestError("no arguments provided")
	}

	tokens := tokenizeWithQuotes(args)
	if len(tokens) == 0 {
		return nil, errors.NewInvalidRequestError("no valid tokens found")
	}

	cmd := &types.AsCommand{}
	if err := parseAsTokens(tokens, cmd); err != nil {
		return nil, err
	}

	if len(cmd.Subjects) == 0 {
		return nil, errors.NewInvalidRequestError("at least one subject is required")
	}
	return cmd, nil
}

// tokenizeWithQuotes joins single-quoted runs of arguments into one token
func tokenizeWithQuotes(args []string) []string {
	var tokens []string
	var current strings.Builder
	inQuotes := false

	for _, arg := range args {
		if !inQuotes {
			if !strings.HasPrefix(arg, "'") {
				tokens = append(tokens, arg)
				continue
			}
			if len(arg) > 1 && strings.HasSuffix(arg, "'") {
				tokens = append(tokens, strings.Trim(arg, "'"))
				continue
			}
			inQuotes = true
			current.WriteString(strings.TrimPrefix(arg, "'"))
			continue
		}

		current.WriteString(" ")
		if strings.HasSuffix(arg, "'") {
			current.WriteString(strings.TrimSuffix(arg, "'"))
			tokens = append(tokens, current.String())
			current.Reset()
			inQuotes = false
		} else {
			current.WriteString(arg)
		}
	}

	// Unclosed quote runs to the end
	if inQuotes {
		tokens = append(tokens, current.String())
	}

	return tokens
}

type parseState int

const (
	stateSubjects parseState = iota
	statePredicates
	stateContexts
	stateActors
	stateTimestamp
)

var keywords = map[string]parseState{
	"is":  statePredicates,
	"are": statePredicates,
	"of":  stateContexts,
	"by":  stateActors,
	"on":  stateTimestamp,
}

func parseAsTokens(tokens []string, cmd *types.AsCommand) error {
	state := stateSubjects
	sawKeyword := false

	for _, token := range tokens {
		if next, ok := keywords[token]; ok {
			state = next
			sawKeyword = true
			continue
		}

		switch state {
		case stateSubjects:
			cmd.Subjects = append(cmd.Subjects, token)
		case statePredicates:
			cmd.Predicates = append(cmd.Predicates, token)
		case stateContexts:
			cmd.Contexts = append(cmd.Contexts, token)
		case stateActors:
			cmd.Actors = append(cmd.Actors, token)
		case stateTimestamp:
			ts, err := parseDate(token)
			if err != nil {
				return err
			}
			cmd.Timestamp = ts
			state = stateSubjects
		}
	}

	// France capital Paris -> France is capital of Paris
	if !sawKeyword && len(cmd.Subjects) == 3 {
		cmd.Predicates = []string{cmd.Subjects[1]}
		cmd.Contexts = []string{cmd.Subjects[2]}
		cmd.Subjects = cmd.Subjects[:1]
	}

	return nil
}

var dateLayouts = []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"}

func parseDate(expr string) (time.Time, error) {
	switch strings.ToLower(expr) {
	case "now", "today":
		return time.Now(), nil
	case "yesterday":
		return time.Now().AddDate(0, 0, -1), nil
	}
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, expr); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, errors.WithHint(
		errors.NewInvalidRequestError("invalid date %q", expr),
		"use YYYY-MM-DD, RFC3339, now, today or yesterday")
}
