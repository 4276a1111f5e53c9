package render

import (
	"fmt"
	"strings"
)

// PreviewText renders a viewport of cells as an ANSI-colored string dump,
// for a debug/headless preview path with no window or GPU surface to draw
// against (cmd/veloterm --preview). Each row is SGR-true-color-colored and
// newline-terminated; trailing reset sequence per row avoids attribute
// bleed into the next line in a plain terminal.
func PreviewText(cells []ViewportCell, cols, rows int) string {
	var b strings.Builder
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			i := row*cols + col
			if i >= len(cells) {
				break
			}
			c := cells[i]
			fmt.Fprintf(&b, "\x1b[38;2;%d;%d;%d;48;2;%d;%d;%dm%c",
				c.Fg.R, c.Fg.G, c.Fg.B, c.Bg.R, c.Bg.G, c.Bg.B, displayRune(c.Char))
		}
		b.WriteString("\x1b[0m\n")
	}
	return b.String()
}

func displayRune(r rune) rune {
	if r == 0 {
		return ' '
	}
	return r
}
