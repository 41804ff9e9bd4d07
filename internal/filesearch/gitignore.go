package filesearch

import (
	"bufio"
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
)

// GitignoreMatcher matches slash-separated relative paths against gitignore
// patterns. The last matching pattern wins, so "!keep.py" re-includes a
// file an earlier pattern ignored.
type GitignoreMatcher struct {
	rules []rule
}

type rule struct {
	re       *regexp.Regexp
	negate   bool
	dirOnly  bool
	anchored bool
}

// NewGitignoreMatcher loads patterns from a .gitignore file. A missing file
// or empty path yields a matcher that ignores nothing.
func NewGitignoreMatcher(gitignorePath string) (*GitignoreMatcher, error) {
	m := &GitignoreMatcher{}
	if gitignorePath == "" {
		return m, nil
	}

	f, err := os.Open(gitignorePath)
	if errors.Is(err, fs.ErrNotExist) {
		return m, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		m.Add(sc.Text())
	}
	return m, sc.Err()
}

// Add compiles one gitignore line. Blank lines, comments and patterns that
// do not compile are ignored.
func (m *GitignoreMatcher) Add(line string) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return
	}

	var r rule
	if strings.HasPrefix(line, "!") {
		r.negate = true
		line = line[1:]
	}
	if strings.HasSuffix(line, "/") {
		r.dirOnly = true
		line = strings.TrimSuffix(line, "/")
	}
	if strings.HasPrefix(line, "/") {
		r.anchored = true
		line = line[1:]
	}

	re, err := regexp.Compile(globRegexp(line, r.anchored))
	if err != nil {
		return
	}
	r.re = re
	m.rules = append(m.rules, r)
}

// Matches reports whether rel (relative to the .gitignore directory) is ignored.
func (m *GitignoreMatcher) Matches(rel string, isDir bool) bool {
	_, ignored := m.match(rel, isDir)
	return ignored
}

// match reports whether any rule matched rel and, if so, whether the last
// matching rule ignores it.
func (m *GitignoreMatcher) match(rel string, isDir bool) (matched, ignored bool) {
	if m == nil || len(m.rules) == 0 {
		return false, false
	}
	rel = filepath.ToSlash(rel)

	for _, r := range m.rules {
		if r.matches(rel, isDir) {
			matched = true
			ignored = !r.negate
		}
	}
	return matched, ignored
}

func (m *GitignoreMatcher) empty() bool {
	return m == nil || len(m.rules) == 0
}

// ignoreTree holds the .gitignore of every directory visited so far, keyed
// by slash-separated path relative to the walk root ("." for the root).
type ignoreTree map[string]*GitignoreMatcher

// load reads dir's .gitignore, if it has one, under key rel.
func (t ignoreTree) load(dir, rel string) {
	m, err := NewGitignoreMatcher(filepath.Join(dir, ".gitignore"))
	if err != nil || m.empty() {
		// Non-fatal: an unreadable .gitignore filters nothing
		return
	}
	t[rel] = m
}

// ignored checks rel against the .gitignore files of its ancestors. The
// deepest file with a matching rule decides, as in git.
func (t ignoreTree) ignored(rel string, isDir bool) bool {
	rel = filepath.ToSlash(rel)
	for dir := path.Dir(rel); ; dir = path.Dir(dir) {
		if m, ok := t[dir]; ok {
			sub := rel
			if dir != "." {
				sub = strings.TrimPrefix(rel, dir+"/")
			}
			if matched, ignored := m.match(sub, isDir); matched {
				return ignored
			}
		}
		if dir == "." || dir == "/" {
			return false
		}
	}
}

func (r rule) matches(rel string, isDir bool) bool {
	if r.dirOnly {
		if isDir {
			return r.re.MatchString(rel)
		}
		// A file is ignored when its parent directory is.
		return r.re.MatchString(path.Dir(rel))
	}
	if r.anchored {
		return r.re.MatchString(rel)
	}
	return r.re.MatchString(rel) || r.re.MatchString(path.Base(rel))
}

// globRegexp translates a gitignore glob. Unanchored patterns may match at
// any directory depth; every pattern also matches paths beneath a matching
// directory unless anchored.
func globRegexp(glob string, anchored bool) string {
	var b strings.Builder
	if anchored {
		b.WriteString("^")
	} else {
		b.WriteString("(^|/)")
	}

	for i := 0; i < len(glob); i++ {
		c := glob[i]
		switch {
		case strings.HasPrefix(glob[i:], "**/"):
			b.WriteString("(.*/)?")
			i += 2
		case strings.HasPrefix(glob[i:], "**"):
			b.WriteString(".*")
			i++
		case c == '*':
			b.WriteString("[^/]*")
		case c == '?':
			b.WriteString("[^/]")
		case c == '[':
			if end := strings.IndexByte(glob[i+1:], ']'); end >= 0 {
				b.WriteString(glob[i : i+end+2])
				i += end + 1
			} else {
				b.WriteString(`\[`)
			}
		case c == '\\' && i+1 < len(glob):
			b.WriteString(regexp.QuoteMeta(glob[i+1 : i+2]))
			i++
		default:
			b.WriteString(regexp.QuoteMeta(string(c)))
		}
	}

	if anchored {
		b.WriteString("$")
	} else {
		b.WriteString("(/.*)?$")
	}
	return b.String()
}
