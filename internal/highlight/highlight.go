// Package highlight provides syntax highlighting via Chroma for terminal output.
package highlight

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/lucasb-eyer/go-colorful"
)

// Lines highlights text with the given Chroma language and theme and
// returns one ANSI string per source line. Each line is formatted on its
// own, so it carries every escape it needs and can be printed next to any
// prefix. The plain lines are returned when the language is unknown or
// formatting fails.
func Lines(text, language, theme string) []string {
	plain := strings.Split(text, "\n")
	lex := lexers.Get(language)
	if lex == nil {
		return plain
	}
	lex = chroma.Coalesce(lex)
	sty := styles.Get(theme)
	fmtr := formatters.Get("terminal16m")
	if fmtr == nil {
		fmtr = formatters.Fallback
	}
	it, err := lex.Tokenise(nil, text)
	if err != nil {
		return plain
	}

	out := make([]string, 0, len(plain))
	for _, toks := range chroma.SplitTokensIntoLines(it.Tokens()) {
		if n := len(toks); n > 0 {
			toks[n-1].Value = strings.TrimRight(toks[n-1].Value, "\n")
		}
		var buf strings.Builder
		if err := fmtr.Format(&buf, sty, chroma.Literator(toks...)); err != nil {
			return plain
		}
		out = append(out, buf.String())
	}
	// Lexers terminate the input with a newline; drop the empty line it adds.
	if len(out) > len(plain) {
		out = out[:len(plain)]
	}
	return out
}

// Palette holds the report colors derived from a Chroma theme.
type Palette struct {
	Fg     string // Theme foreground
	Dim    string // 40% bg→fg, line numbers and hashes
	Accent string // Most saturated token color, context headers
	Error  string // Error token color, syntax errors
}

// ThemePalette derives a Palette from a Chroma theme name. Deterministic:
// same theme → same output.
func ThemePalette(theme string) Palette {
	sty := styles.Get(theme)
	entry := sty.Get(chroma.Background)
	bg, _ := colorful.Hex("#000000")
	fg, _ := colorful.Hex("#c8c8c8")
	if entry.Background.IsSet() {
		bg = toColor(entry.Background, bg)
	}
	if entry.Colour.IsSet() {
		fg = toColor(entry.Colour, fg)
	}
	return Palette{
		Fg:     fg.Hex(),
		Dim:    bg.BlendRgb(fg, 0.40).Clamped().Hex(),
		Accent: pickAccent(sty, fg).Hex(),
		Error:  pickError(sty, fg).Hex(),
	}
}

// pickAccent returns the most saturated foreground color across the
// standard token types. Ties go to the lowest token type.
func pickAccent(sty *chroma.Style, fallback colorful.Color) colorful.Color {
	best := fallback
	bestSat := 0.0
	bestType := chroma.TokenType(0)
	for tt := range chroma.StandardTypes {
		e := sty.Get(tt)
		if !e.Colour.IsSet() {
			continue
		}
		c := toColor(e.Colour, fallback)
		_, sat, v := c.Hsv()
		if v == 0 {
			continue
		}
		if sat > bestSat || (sat == bestSat && sat > 0 && tt < bestType) {
			best, bestSat, bestType = c, sat, tt
		}
	}
	return best
}

func pickError(sty *chroma.Style, fallback colorful.Color) colorful.Color {
	e := sty.Get(chroma.Error)
	if !e.Colour.IsSet() {
		return fallback
	}
	return toColor(e.Colour, fallback)
}

func toColor(c chroma.Colour, fallback colorful.Color) colorful.Color {
	out, err := colorful.Hex(c.String())
	if err != nil {
		return fallback
	}
	return out
}
