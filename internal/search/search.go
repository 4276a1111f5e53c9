// Package search implements the regex search engine: compiling
// case-insensitive queries over extracted line text, circular match
// navigation, and scroll-to-match offset computation.
package search

import (
	"fmt"
	"regexp"
)

// Match is a single search hit on a row.
type Match struct {
	Row      int
	StartCol int
	EndCol   int
}

// LineProvider supplies line text for a contiguous range of absolute rows,
// negative rows denoting scrollback.
type LineProvider interface {
	Lines() []LineText
}

// LineText pairs an absolute row with its extracted text.
type LineText struct {
	Row  int
	Text string
}

// State holds a compiled query and its current match set/navigation index.
type State struct {
	query   string
	re      *regexp.Regexp
	err     error
	matches []Match
	index   int
}

// SetQuery compiles query as a case-insensitive regular expression and
// resets the navigation index to 0. An empty query yields no matches and no
// error. A compile failure clears matches and records the error; matches
// become empty and Err returns the failure.
func (s *State) SetQuery(query string) {
	s.query = query
	s.index = 0
	s.matches = nil
	s.err = nil

	if query == "" {
		s.re = nil
		return
	}

	re, err := regexp.Compile("(?i)" + query)
	if err != nil {
		s.re = nil
		s.err = fmt.Errorf("compile search query %q: %w", query, err)
		return
	}
	s.re = re
}

// Query returns the current raw query string.
func (s *State) Query() string { return s.query }

// Err returns the last compile error, if any.
func (s *State) Err() error { return s.err }

// Search runs the compiled query over lines and replaces the current match
// set. Every non-overlapping match on each line
// yields a Match.
func (s *State) Search(lines []LineText) {
	s.matches = nil
	s.index = 0

	if s.re == nil {
		return
	}

	for _, lt := range lines {
		for _, loc := range s.re.FindAllStringIndex(lt.Text, -1) {
			s.matches = append(s.matches, Match{Row: lt.Row, StartCol: loc[0], EndCol: loc[1]})
		}
	}
}

// Matches returns the current match set.
func (s *State) Matches() []Match { return s.matches }

// Count returns the number of matches.
func (s *State) Count() int { return len(s.matches) }

// Index returns the current navigation index.
func (s *State) Index() int { return s.index }

// Next advances the navigation index modulo the match count and returns the
// match at the new index, or zero-value with ok=false if there are no
// matches.
func (s *State) Next() (Match, bool) {
	if len(s.matches) == 0 {
		return Match{}, false
	}
	s.index = (s.index + 1) % len(s.matches)
	return s.matches[s.index], true
}

// Prev retreats the navigation index, wrapping to the last match from 0.
func (s *State) Prev() (Match, bool) {
	if len(s.matches) == 0 {
		return Match{}, false
	}
	s.index--
	if s.index < 0 {
		s.index = len(s.matches) - 1
	}
	return s.matches[s.index], true
}

// Current returns the match at the current index, if any.
func (s *State) Current() (Match, bool) {
	if len(s.matches) == 0 {
		return Match{}, false
	}
	return s.matches[s.index], true
}

// ScrollToMatch returns the display offset needed to bring matchRow into
// view, or (0, false) if matchRow is already visible. viewportRows is the
// visible row count, currentOffset the current display offset (lines
// scrolled up from live bottom), and maxOffset the history size.
func ScrollToMatch(matchRow, viewportRows, currentOffset, maxOffset int) (offset int, changed bool) {
	visibleStart := -currentOffset
	visibleEnd := -currentOffset + viewportRows - 1
	if matchRow >= visibleStart && matchRow <= visibleEnd {
		return 0, false
	}

	target := -matchRow
	if target < 0 {
		target = 0
	}
	if target > maxOffset {
		target = maxOffset
	}
	return target, true
}

// VisibleMatches filters matches to those whose row lies in
// [viewportStart-buffer, viewportEnd+buffer].
func VisibleMatches(matches []Match, viewportStart, viewportEnd, buffer int) []Match {
	lo := viewportStart - buffer
	hi := viewportEnd + buffer
	var out []Match
	for _, m := range matches {
		if m.Row >= lo && m.Row <= hi {
			out = append(out, m)
		}
	}
	return out
}
