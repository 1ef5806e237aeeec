package cmd

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	unknownCommandRe = regexp.MustCompile(`unknown command "([^"]+)"`)
	unknownFlagRe    = regexp.MustCompile(`unknown (?:shorthand )?flag: (?:'.' in )?(-{1,2}[^\s.,;:!?"']+)`)
)

// maxSuggestDistance is the largest edit distance still offered as a suggestion.
const maxSuggestDistance = 3

// levenshtein computes the edit distance between two strings using a single row.
func levenshtein(a, b string) int {
	if a == "" {
		return len(b)
	}
	if b == "" {
		return len(a)
	}

	row := make([]int, len(b)+1)
	for j := range row {
		row[j] = j
	}
	for i := 1; i <= len(a); i++ {
		diag := row[0]
		row[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			next := min(row[j]+1, row[j-1]+1, diag+cost)
			diag = row[j]
			row[j] = next
		}
	}
	return row[len(b)]
}

// closest returns the candidate nearest to input, or "" when none is within
// maxSuggestDistance. key maps a candidate to the form compared against input.
func closest(input string, candidates []string, key func(string) string) string {
	best := ""
	bestDist := maxSuggestDistance + 1
	for _, c := range candidates {
		if d := levenshtein(input, strings.ToLower(key(c))); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

// suggestCommand finds the closest command name to the unknown input.
func suggestCommand(unknown string, commands []string) string {
	return closest(strings.ToLower(unknown), commands, func(s string) string { return s })
}

// suggestFlag finds the closest flag to the unknown input. Leading dashes are
// ignored for the comparison; the match is returned as registered.
func suggestFlag(unknown string, flagNames []string) string {
	stripped := strings.ToLower(strings.TrimLeft(unknown, "-"))
	if stripped == "" {
		return ""
	}
	return closest(stripped, flagNames, func(s string) string { return strings.TrimLeft(s, "-") })
}

// unknownCommand returns the command name cobra rejected, if any.
func unknownCommand(msg string) string {
	if m := unknownCommandRe.FindStringSubmatch(msg); m != nil {
		return m[1]
	}
	return ""
}

// unknownFlag returns the flag pflag rejected, dashes included.
func unknownFlag(msg string) string {
	if m := unknownFlagRe.FindStringSubmatch(msg); m != nil {
		return m[1]
	}
	return ""
}

// explainUsageError appends a "did you mean" hint to cobra's unknown command
// and unknown flag errors. target is the command cobra resolved, possibly nil.
func explainUsageError(err error, root, target *cobra.Command) string {
	msg := err.Error()
	if target == nil {
		target = root
	}

	if name := unknownCommand(msg); name != "" {
		var names []string
		for _, c := range target.Commands() {
			if c.IsAvailableCommand() || c.Name() == "help" {
				names = append(names, c.Name())
				names = append(names, c.Aliases...)
			}
		}
		if s := suggestCommand(name, names); s != "" {
			return fmt.Sprintf("%s\n\nDid you mean %q?", msg, s)
		}
		return msg
	}

	name := unknownFlag(msg)
	if name == "" {
		return msg
	}
	var known []string
	collect := func(f *pflag.Flag) {
		if !f.Hidden {
			known = append(known, "--"+f.Name)
		}
	}
	target.Flags().VisitAll(collect)
	target.PersistentFlags().VisitAll(collect)
	target.InheritedFlags().VisitAll(collect)

	help := fmt.Sprintf("Run %q to see supported flags.", target.CommandPath()+" --help")
	if s := suggestFlag(name, known); s != "" {
		return fmt.Sprintf("%s\n\nDid you mean %q?\n%s", msg, s, help)
	}
	return fmt.Sprintf("%s\n\n%s", msg, help)
}
