// Package hashline slices numbered source lines out of a file for display.
//
// Each line can carry a short hex hash derived from its content. A reviewer
// anchoring a comment to "12:a3" can tell later whether line 12 still holds
// the text the comment was written against.
package hashline

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

// HashLen is the number of hex characters per line hash (1 byte = 2 hex chars).
const HashLen = 2

// LineHash computes a short content hash for a single line.
func LineHash(line string) string {
	h := sha256.Sum256([]byte(line))
	return hex.EncodeToString(h[:1])
}

// TaggedLine is a line with its number and content hash.
type TaggedLine struct {
	Num     int    // 1-indexed line number
	Hash    string // 2-char hex hash
	Content string
}

// Slice returns lines start..end (1-indexed, inclusive) of content, clamped
// to the lines that exist. A trailing newline does not count as a line.
func Slice(content string, start, end int) []TaggedLine {
	lines := strings.Split(strings.TrimSuffix(content, "\n"), "\n")
	if start < 1 {
		start = 1
	}
	if end > len(lines) {
		end = len(lines)
	}
	if content == "" || start > end {
		return nil
	}

	out := make([]TaggedLine, 0, end-start+1)
	for i := start; i <= end; i++ {
		text := strings.TrimSuffix(lines[i-1], "\r")
		out = append(out, TaggedLine{Num: i, Hash: LineHash(text), Content: text})
	}
	return out
}

// Format renders lines one per row. Tagged output uses "num:hash|content";
// plain output right-aligns the numbers: "  9  content".
func Format(lines []TaggedLine, tagged bool) string {
	width := Width(lines)

	var b strings.Builder
	for i, l := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(Prefix(l, width, tagged))
		b.WriteString(l.Content)
	}
	return b.String()
}

// Prefix returns the gutter Format would print before line l, so callers
// can pair it with separately rendered content.
func Prefix(l TaggedLine, width int, tagged bool) string {
	if tagged {
		return fmt.Sprintf("%d:%s|", l.Num, l.Hash)
	}
	return fmt.Sprintf("%*d  ", width, l.Num)
}

// Width is the gutter width needed for the largest number in lines.
func Width(lines []TaggedLine) int {
	if len(lines) == 0 {
		return 0
	}
	return len(strconv.Itoa(lines[len(lines)-1].Num))
}
