package treesitter

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pyHandler = `import os

def handle(request):
    value = request.get("x")
    if value:
        return value
    return None
`

const pyWorker = `class Worker:
    """Runs jobs."""

    retries = 3
    def run(self, job):
        for attempt in range(self.retries):
            if job():
                return attempt
        return -1

    async def stop(self):
        await self.close()

    @property
    def name(self):
        return "worker"

    def close(self):
        self.closed = True
        return None
`

const pyDecorated = `import functools

@functools.cache
def compute(n):
    return n * 2
`

func TestPythonFind_Function(t *testing.T) {
	p := NewPythonParser()

	got, err := p.Find(context.Background(), pyHandler, 4, 5)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, EnclosingContext{StartLine: 3, EndLine: 7, Type: TypeFunction, Name: "handle"}, *got)
}

func TestPythonFind_TopLevelStatement(t *testing.T) {
	p := NewPythonParser()

	got, err := p.Find(context.Background(), pyHandler, 1, 1)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, EnclosingContext{StartLine: 1, EndLine: 1, Type: TypeUnknown, Name: AnonymousName}, *got)
}

func TestPythonFind_NoMatch(t *testing.T) {
	p := NewPythonParser()
	ctx := context.Background()

	for _, r := range [][2]int{{2, 2}, {3, 9}, {50, 60}} {
		got, err := p.Find(ctx, pyHandler, r[0], r[1])
		require.NoError(t, err, "range %v", r)
		assert.Nil(t, got, "range %v", r)
	}
}

func TestPythonFind_MethodInsideClass(t *testing.T) {
	ctx := context.Background()

	outer, err := NewPythonParser().Find(ctx, pyWorker, 6, 6)
	require.NoError(t, err)
	require.NotNil(t, outer)
	assert.Equal(t, EnclosingContext{StartLine: 1, EndLine: 20, Type: TypeClass, Name: "Worker"}, *outer)

	inner, err := NewPythonParser(WithPolicy(Innermost)).Find(ctx, pyWorker, 6, 6)
	require.NoError(t, err)
	require.NotNil(t, inner)
	assert.Equal(t, EnclosingContext{StartLine: 5, EndLine: 9, Type: TypeFunction, Name: "run"}, *inner)
}

func TestPythonFind_AsyncAndDecorated(t *testing.T) {
	p := NewPythonParser(WithPolicy(Innermost))
	ctx := context.Background()

	stop, err := p.Find(ctx, pyWorker, 12, 12)
	require.NoError(t, err)
	require.NotNil(t, stop)
	assert.Equal(t, EnclosingContext{StartLine: 11, EndLine: 12, Type: TypeAsyncFunction, Name: "stop"}, *stop)

	name, err := p.Find(ctx, pyWorker, 15, 16)
	require.NoError(t, err)
	require.NotNil(t, name)
	assert.Equal(t, EnclosingContext{StartLine: 15, EndLine: 16, Type: TypeFunction, Name: "name"}, *name)

	// The decorator line belongs to the class, not the method below it.
	deco, err := p.Find(ctx, pyWorker, 14, 14)
	require.NoError(t, err)
	require.NotNil(t, deco)
	assert.Equal(t, TypeClass, deco.Type)
}

func TestPythonFind_DecoratorLine(t *testing.T) {
	p := NewPythonParser()
	ctx := context.Background()

	fn, err := p.Find(ctx, pyDecorated, 4, 5)
	require.NoError(t, err)
	require.NotNil(t, fn)
	assert.Equal(t, EnclosingContext{StartLine: 4, EndLine: 5, Type: TypeFunction, Name: "compute"}, *fn)

	deco, err := p.Find(ctx, pyDecorated, 3, 3)
	require.NoError(t, err)
	require.NotNil(t, deco)
	assert.Equal(t, EnclosingContext{StartLine: 3, EndLine: 3, Type: TypeUnknown, Name: AnonymousName}, *deco)
}

func TestPythonFind_TopLevelAsync(t *testing.T) {
	src := "async def fetch(url):\n    return await get(url)\n"

	got, err := NewPythonParser().Find(context.Background(), src, 2, 2)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, EnclosingContext{StartLine: 1, EndLine: 2, Type: TypeAsyncFunction, Name: "fetch"}, *got)
}

func TestPythonFind_InvalidRequests(t *testing.T) {
	p := NewPythonParser()
	ctx := context.Background()

	tests := []struct {
		name       string
		file       string
		start, end int
		want       error
	}{
		{"zero start", pyHandler, 0, 3, ErrInvalidRange},
		{"negative start", pyHandler, -2, 3, ErrInvalidRange},
		{"end before start", pyHandler, 5, 4, ErrInvalidRange},
		{"empty file", "", 1, 1, ErrInvalidInput},
		{"not utf8", "def f():\n    return '\xff'\n", 1, 1, ErrInvalidInput},
		{"nul byte", "x = 1\x00\n", 1, 1, ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.Find(ctx, tt.file, tt.start, tt.end)
			assert.Nil(t, got)
			assert.ErrorIs(t, err, tt.want)

			assert.Nil(t, p.FindEnclosingContext(tt.file, tt.start, tt.end))
		})
	}
}

func TestPythonFind_RangeCheckedBeforeParsing(t *testing.T) {
	// Malformed source with a bad range reports the range, proving the
	// parser was never reached.
	_, err := NewPythonParser().Find(context.Background(), "def broken(:\n", 0, 1)
	assert.ErrorIs(t, err, ErrInvalidRange)
	assert.NotErrorIs(t, err, ErrSyntax)
}

func TestPythonFind_FileTooLarge(t *testing.T) {
	p := NewPythonParser(WithMaxFileSize(16))

	_, err := p.Find(context.Background(), pyHandler, 1, 1)
	assert.ErrorIs(t, err, ErrFileTooLarge)
}

func TestPythonFind_SyntaxError(t *testing.T) {
	p := NewPythonParser()
	src := "x = 1\ndef broken(:\n    pass\n"

	got, err := p.Find(context.Background(), src, 1, 1)
	assert.Nil(t, got)
	require.ErrorIs(t, err, ErrSyntax)

	var se *SyntaxError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 2, se.Line)
	assert.Positive(t, se.Column)

	assert.Nil(t, p.FindEnclosingContext(src, 1, 1))
}

func TestPythonFind_Python2Statements(t *testing.T) {
	p := NewPythonParser()
	ctx := context.Background()

	tests := []struct {
		name     string
		src      string
		line     int
		rejected string
	}{
		{"print", "print 'x'\n", 1, "print_statement"},
		{"exec", "exec \"x = 1\"\n", 1, "exec_statement"},
		{"print in body", "def f():\n    print 'hi'\n", 2, "print_statement"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := p.DryRun(tt.src)
			assert.False(t, res.Valid)
			assert.Contains(t, res.Error, tt.rejected)

			got, err := p.Find(ctx, tt.src, 1, 1)
			assert.Nil(t, got)
			var se *SyntaxError
			require.ErrorAs(t, err, &se)
			assert.ErrorIs(t, err, ErrSyntax)
			assert.Equal(t, tt.rejected, se.Rejected)
			assert.Equal(t, tt.line, se.Line)
		})
	}

	// print as a function call is Python 3.
	assert.Equal(t, ValidationResult{Valid: true}, p.DryRun("print('x')\n"))
}

func TestPythonFind_TrailingCommentOutsideSpan(t *testing.T) {
	src := "def f():\n    x = 1\n    # done\n\ny = 2\n"
	p := NewPythonParser()
	ctx := context.Background()

	fn, err := p.Find(ctx, src, 2, 2)
	require.NoError(t, err)
	require.NotNil(t, fn)
	assert.Equal(t, EnclosingContext{StartLine: 1, EndLine: 2, Type: TypeFunction, Name: "f"}, *fn)

	comment, err := p.Find(ctx, src, 3, 3)
	require.NoError(t, err)
	assert.Nil(t, comment)
}

func TestPythonFind_Idempotent(t *testing.T) {
	p := NewPythonParser()

	first := p.FindEnclosingContext(pyWorker, 6, 7)
	second := p.FindEnclosingContext(pyWorker, 6, 7)
	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.Equal(t, *first, *second)
	assert.NotSame(t, first, second)
}

func TestPythonDryRun(t *testing.T) {
	p := NewPythonParser()

	assert.Equal(t, ValidationResult{Valid: true, Error: ""}, p.DryRun(pyWorker))

	bad := p.DryRun("def broken(:\n    pass\n")
	assert.False(t, bad.Valid)
	assert.NotEmpty(t, bad.Error)
	assert.True(t, strings.HasPrefix(bad.Error, "syntax error"), bad.Error)

	empty := p.DryRun("")
	assert.False(t, empty.Valid)
	assert.Contains(t, empty.Error, "empty")
}

func TestPythonParse_TreeShape(t *testing.T) {
	src := `try:
    run()
except ValueError as err:
    log(err)
`
	tree, err := NewPythonParser().Parse(context.Background(), src)
	require.NoError(t, err)
	require.Len(t, tree.Body, 1)
	assert.Equal(t, "python", tree.Language)

	try := tree.Body[0]
	assert.Equal(t, "try_statement", try.Type)
	assert.Equal(t, 1, try.StartLine)
	assert.Equal(t, 4, try.EndLine)

	var handler *Node
	for _, c := range try.Children {
		if c.Type == "except_clause" {
			handler = c
		}
	}
	require.NotNil(t, handler, "except_clause not found among %d children", len(try.Children))
	assert.Equal(t, "err", handler.Name)
	assert.Equal(t, 3, handler.StartLine)
}

func TestPythonParse_ParametersUnlocated(t *testing.T) {
	tree, err := NewPythonParser().Parse(context.Background(), pyDecorated)
	require.NoError(t, err)
	require.Len(t, tree.Body, 2)

	fn := tree.Body[1]
	assert.Equal(t, "function_definition", fn.Type)

	var params *Node
	for _, c := range fn.Children {
		if c.Type == "parameters" {
			params = c
		}
	}
	require.NotNil(t, params)
	assert.False(t, params.Located())
}
