// Package config validates an already-parsed configuration value set,
// filling defaults and collecting every violation into a single error.
package config

import (
	"fmt"
	"strings"
)

// CursorStyle enumerates the supported cursor render styles.
type CursorStyle string

const (
	CursorBlock     CursorStyle = "Block"
	CursorBeam      CursorStyle = "Beam"
	CursorUnderline CursorStyle = "Underline"
)

func (c CursorStyle) valid() bool {
	switch c {
	case CursorBlock, CursorBeam, CursorUnderline:
		return true
	}
	return false
}

// Themes is the named enumeration of built-in color themes. Populated at
// init with the shipped set; an unrecognized theme name falls back to
// DefaultTheme with a warning rather than failing validation.
var Themes = map[string]bool{
	"default": true,
	"dark":    true,
	"light":   true,
	"solarized-dark":  true,
	"solarized-light": true,
}

// DefaultTheme is substituted for an unrecognized colors.theme value.
const DefaultTheme = "default"

// Values is the set of enumerated options the core consumes, already
// parsed from whatever file format the external loader uses.
type Values struct {
	FontFamily      string
	FontSize        float64
	ColorsTheme     string
	CursorStyle     CursorStyle
	CursorBlink     bool
	ScrollbackLines int
	FPSLimit        int
	KeyBindings     map[string]string // normalized combo -> action name
}

// Defaults returns the baseline configuration applied before overrides.
func Defaults() Values {
	return Values{
		FontFamily:      "monospace",
		FontSize:        13,
		ColorsTheme:     DefaultTheme,
		CursorStyle:     CursorBlock,
		CursorBlink:     true,
		ScrollbackLines: 10000,
		FPSLimit:        60,
		KeyBindings:     map[string]string{},
	}
}

// Error collects every validation violation found in one Validate() call,
// rather than failing on the first.
type Error struct {
	Violations []string
}

func (e *Error) Error() string {
	return fmt.Sprintf("config: %d invalid value(s): %s", len(e.Violations), strings.Join(e.Violations, "; "))
}

// Warnings accumulates non-fatal fallback notices (e.g. unknown theme
// demoted to default) produced alongside a successful Validate.
type Warnings []string

// Validate checks every enumerated option, filling in defaults for zero
// values and returning a *Error listing every violation when any enumerated
// constraint is actually violated (as opposed to merely defaulted). Warnings
// for non-fatal fallbacks (unknown theme) are returned alongside a valid
// result.
func Validate(in Values) (Values, Warnings, error) {
	out := in
	defaults := Defaults()
	var violations []string
	var warnings Warnings

	if out.FontFamily == "" {
		out.FontFamily = defaults.FontFamily
	}

	if out.FontSize == 0 {
		out.FontSize = defaults.FontSize
	} else if out.FontSize <= 0 {
		violations = append(violations, fmt.Sprintf("font.size must be > 0, got %v", out.FontSize))
	}

	if out.ColorsTheme == "" {
		out.ColorsTheme = defaults.ColorsTheme
	} else if !Themes[out.ColorsTheme] {
		warnings = append(warnings, fmt.Sprintf("colors.theme %q is unrecognized, falling back to %q", out.ColorsTheme, DefaultTheme))
		out.ColorsTheme = DefaultTheme
	}

	if out.CursorStyle == "" {
		out.CursorStyle = defaults.CursorStyle
	} else if !out.CursorStyle.valid() {
		violations = append(violations, fmt.Sprintf("cursor.style must be one of Block, Beam, Underline, got %q", out.CursorStyle))
	}

	if out.ScrollbackLines == 0 {
		out.ScrollbackLines = defaults.ScrollbackLines
	} else if out.ScrollbackLines <= 0 {
		violations = append(violations, fmt.Sprintf("scrollback.lines must be > 0, got %d", out.ScrollbackLines))
	}

	if out.FPSLimit == 0 {
		out.FPSLimit = defaults.FPSLimit
	} else if out.FPSLimit <= 0 {
		violations = append(violations, fmt.Sprintf("performance.fps_limit must be > 0, got %d", out.FPSLimit))
	}

	if out.KeyBindings == nil {
		out.KeyBindings = defaults.KeyBindings
	}

	if len(violations) > 0 {
		return Values{}, warnings, &Error{Violations: violations}
	}
	return out, warnings, nil
}
