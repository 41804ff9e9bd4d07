package cli

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/xonecas/enclose/internal/config"
	"github.com/xonecas/enclose/internal/hashline"
	"github.com/xonecas/enclose/internal/highlight"
	"github.com/xonecas/enclose/internal/treesitter"
)

// renderer formats reports. With color off every styled string is stripped
// back to plain text.
type renderer struct {
	color  bool
	tagged bool
	theme  string

	header lipgloss.Style
	dim    lipgloss.Style
	ok     lipgloss.Style
	bad    lipgloss.Style
}

func newRenderer(cfg config.OutputConfig) *renderer {
	pal := highlight.ThemePalette(cfg.Theme)
	return &renderer{
		color:  cfg.Color,
		tagged: cfg.Tagged,
		theme:  cfg.Theme,
		header: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(pal.Accent)),
		dim:    lipgloss.NewStyle().Foreground(lipgloss.Color(pal.Dim)),
		ok:     lipgloss.NewStyle().Foreground(lipgloss.Color(pal.Fg)),
		bad:    lipgloss.NewStyle().Foreground(lipgloss.Color(pal.Error)),
	}
}

func (r *renderer) style(s lipgloss.Style, text string) string {
	out := s.Render(text)
	if !r.color {
		return ansi.Strip(out)
	}
	return out
}

// contextHeader renders "function handle (lines 3-7)".
func (r *renderer) contextHeader(c *treesitter.EnclosingContext) string {
	return r.style(r.header, fmt.Sprintf("%s %s", c.Type, c.Name)) +
		r.style(r.dim, fmt.Sprintf(" (lines %d-%d)", c.StartLine, c.EndLine))
}

// snippet renders the numbered source lines of the context.
func (r *renderer) snippet(path, src string, c *treesitter.EnclosingContext) string {
	lines := hashline.Slice(src, c.StartLine, c.EndLine)
	if len(lines) == 0 {
		return ""
	}
	if !r.color {
		return hashline.Format(lines, r.tagged)
	}

	texts := make([]string, len(lines))
	for i, l := range lines {
		texts[i] = l.Content
	}
	lang := highlight.DetectLanguage(path)
	colored := highlight.Lines(strings.Join(texts, "\n"), lang, r.theme)

	width := hashline.Width(lines)
	var b strings.Builder
	for i, l := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(r.style(r.dim, hashline.Prefix(l, width, r.tagged)))
		if i < len(colored) {
			b.WriteString(colored[i])
		} else {
			b.WriteString(l.Content)
		}
		b.WriteString("\x1b[0m")
	}
	return b.String()
}

func (r *renderer) checkLine(path string, err error) string {
	if err == nil {
		return path + ": " + r.style(r.ok, "ok")
	}
	return path + ": " + r.style(r.bad, err.Error())
}
