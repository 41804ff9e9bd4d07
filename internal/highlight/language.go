package highlight

import (
	"path/filepath"

	"github.com/alecthomas/chroma/v2/lexers"
)

// DetectLanguage returns the Chroma lexer name for path, "text" when no
// lexer claims the file.
func DetectLanguage(path string) string {
	lex := lexers.Match(filepath.Base(path))
	if lex == nil {
		return "text"
	}
	return lex.Config().Name
}
