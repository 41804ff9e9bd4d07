package treesitter

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	sitter "github.com/smacker/go-tree-sitter"
)

// DefaultMaxFileSize caps the input handed to tree-sitter (1MB).
const DefaultMaxFileSize = 1 << 20

// Policy selects which containing node a search reports.
type Policy int

const (
	// Outermost reports the first containing node in traversal order. Nodes
	// nested inside it are never considered.
	Outermost Policy = iota
	// Innermost keeps descending past a containing node and reports the
	// tightest span seen.
	Innermost
)

func (p Policy) String() string {
	switch p {
	case Innermost:
		return "innermost"
	default:
		return "outermost"
	}
}

// ParsePolicy maps "outermost"/"innermost" (or "") to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "outermost":
		return Outermost, nil
	case "innermost":
		return Innermost, nil
	default:
		return Outermost, fmt.Errorf("unknown policy %q (want outermost or innermost)", s)
	}
}

// Option configures a Parser.
type Option func(*Parser)

// WithMaxFileSize sets the largest input the parser accepts. Non-positive
// values are ignored.
func WithMaxFileSize(bytes int64) Option {
	return func(p *Parser) {
		if bytes > 0 {
			p.maxFileSize = bytes
		}
	}
}

// WithPolicy selects the containment policy used by Find.
func WithPolicy(policy Policy) Option {
	return func(p *Parser) {
		p.policy = policy
	}
}

// Parser is a single-language adapter. It holds no parse state: every call
// creates its own tree-sitter parser, so a Parser is safe for concurrent use.
type Parser struct {
	grammar     *grammar
	maxFileSize int64
	policy      Policy
}

var _ Adapter = (*Parser)(nil)

func newParser(g *grammar, opts ...Option) *Parser {
	p := &Parser{
		grammar:     g,
		maxFileSize: DefaultMaxFileSize,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Language returns the grammar name, e.g. "python".
func (p *Parser) Language() string {
	return p.grammar.name
}

// Parse builds the typed syntax tree for file. A file tree-sitter can only
// parse with error recovery, or one holding a construct the grammar marks
// as rejected, fails with a *SyntaxError.
func (p *Parser) Parse(ctx context.Context, file string) (*Tree, error) {
	if err := p.checkFile(file); err != nil {
		return nil, err
	}
	src := []byte(file)

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(p.grammar.language())

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("%s parse failed: %w", p.grammar.name, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		return nil, fmt.Errorf("%s parse failed: no root node", p.grammar.name)
	}
	if root.HasError() {
		return nil, syntaxError(root)
	}
	if se := p.grammar.rejected(root); se != nil {
		return nil, se
	}

	b := &builder{g: p.grammar, src: src}
	return &Tree{Language: p.grammar.name, Body: b.children(root)}, nil
}

// Find returns the node enclosing [lineStart, lineEnd] under the parser's
// policy. It returns nil, nil when the file parses but nothing covers the
// range. Inputs are validated before the parser is invoked.
func (p *Parser) Find(ctx context.Context, file string, lineStart, lineEnd int) (*EnclosingContext, error) {
	if err := checkRange(lineStart, lineEnd); err != nil {
		return nil, err
	}
	tree, err := p.Parse(ctx, file)
	if err != nil {
		return nil, err
	}
	if p.policy == Innermost {
		return FindInnermost(tree.Body, lineStart, lineEnd, p.grammar.classify), nil
	}
	return FindContext(tree.Body, lineStart, lineEnd, p.grammar.classify), nil
}

// FindEnclosingContext is the Adapter form of Find: failures are logged
// and reported as nil.
func (p *Parser) FindEnclosingContext(file string, lineStart, lineEnd int) *EnclosingContext {
	found, err := p.Find(context.Background(), file, lineStart, lineEnd)
	switch {
	case err == nil:
		return found
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrInvalidRange), errors.Is(err, ErrFileTooLarge):
		log.Warn().Err(err).
			Str("language", p.grammar.name).
			Int("line_start", lineStart).
			Int("line_end", lineEnd).
			Msg("rejected enclosing context request")
	default:
		log.Error().Err(err).
			Str("language", p.grammar.name).
			Int("line_start", lineStart).
			Int("line_end", lineEnd).
			Msg("failed to parse source")
	}
	return nil
}

// Validate parses file without searching it.
func (p *Parser) Validate(ctx context.Context, file string) error {
	_, err := p.Parse(ctx, file)
	return err
}

// DryRun reports whether file parses. It never logs.
func (p *Parser) DryRun(file string) ValidationResult {
	if err := p.Validate(context.Background(), file); err != nil {
		msg := err.Error()
		if msg == "" {
			msg = "unknown error"
		}
		return ValidationResult{Valid: false, Error: msg}
	}
	return ValidationResult{Valid: true}
}

func (p *Parser) checkFile(file string) error {
	switch {
	case file == "":
		return fmt.Errorf("%w: file is empty", ErrInvalidInput)
	case !utf8.ValidString(file):
		return fmt.Errorf("%w: file is not valid UTF-8", ErrInvalidInput)
	case strings.IndexByte(file, 0) >= 0:
		return fmt.Errorf("%w: file contains NUL bytes", ErrInvalidInput)
	case int64(len(file)) > p.maxFileSize:
		return fmt.Errorf("%w: size %d exceeds limit %d", ErrFileTooLarge, len(file), p.maxFileSize)
	}
	return nil
}

func checkRange(lineStart, lineEnd int) error {
	if lineStart < 1 || lineEnd < lineStart {
		return fmt.Errorf("%w: %d-%d (want 1 <= start <= end)", ErrInvalidRange, lineStart, lineEnd)
	}
	return nil
}
