// Package match applies regular expressions to candidate strings and returns the
// capture groups of the first match.
//
// Patterns are Go regexp (RE2) expressions, which run in time linear in the
// input and never backtrack. A Matcher additionally bounds the input length and
// treats anything longer as a non-match.
package match

import "regexp"

// DefaultMaxInput is the input length budget of the default matcher, in bytes.
const DefaultMaxInput = 4096

// Matcher matches patterns against inputs within a length budget.
type Matcher struct {
	MaxInput int // Inputs longer than this never match; <= 0 means DefaultMaxInput
}

var std = &Matcher{MaxInput: DefaultMaxInput}

// Match applies re to input using the default matcher.
func Match(re *regexp.Regexp, input string) [][]string {
	return std.Match(re, input)
}

// Match applies re to input and returns a single-element slice. The element is
// nil when there is no match, otherwise index 0 holds the whole match and
// indices >= 1 hold the capture groups. Groups that did not participate in the
// match are empty strings.
func (m *Matcher) Match(re *regexp.Regexp, input string) [][]string {
	if re == nil || len(input) > m.budget() {
		return [][]string{nil}
	}
	return [][]string{re.FindStringSubmatch(input)}
}

// First is Match without the wrapping slice.
func (m *Matcher) First(re *regexp.Regexp, input string) []string {
	return m.Match(re, input)[0]
}

func (m *Matcher) budget() int {
	if m == nil || m.MaxInput <= 0 {
		return DefaultMaxInput
	}
	return m.MaxInput
}
