package shell

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/abiosoft/ishell/v2"
	"github.com/abiosoft/readline"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unilang/internal/catalog"
	"unilang/internal/interner"
	"unilang/internal/output"
	"unilang/internal/parser"
	"unilang/internal/semantic"
	"unilang/pkg/unitypes"
)

func newTestSession(t *testing.T) (*Session, *output.CaptureBuffer) {
	t.Helper()
	cat := catalog.New()
	_, err := cat.LoadBuiltin()
	require.NoError(t, err)

	in, err := interner.New(32)
	require.NoError(t, err)
	analyzer := semantic.New(cat, semantic.WithInterner(in), semantic.WithLogger(log.New(io.Discard)))

	buf := output.NewCaptureBuffer()
	printer := output.NewPrinter(output.WithWriter(buf), output.TestMode())
	return NewSession(analyzer, cat, in, printer), buf
}

func TestSession_Execute(t *testing.T) {
	s, buf := newTestSession(t)

	commands, err := s.Execute(".math.add 1 2 3")
	require.NoError(t, err)
	require.Len(t, commands, 1)
	assert.Equal(t, ".math.add", commands[0].Definition.Name)
	assert.True(t, strings.HasPrefix(buf.String(), "✓ .math.add\n"))
	assert.Contains(t, buf.String(), "  numbers = ")
}

func TestSession_ExecuteProgram(t *testing.T) {
	s, buf := newTestSession(t)

	commands, err := s.Execute(`.echo "hello world" ;; .math.divide 1 4`)
	require.NoError(t, err)
	require.Len(t, commands, 2)

	message, ok := commands[0].GetString("message")
	require.True(t, ok)
	assert.Equal(t, "hello world", message)
	precision, ok := commands[1].GetInteger("precision")
	require.True(t, ok)
	assert.Equal(t, int64(2), precision)

	assert.Contains(t, buf.String(), ".system.echo (via .echo)")
}

func TestSession_ExecuteIgnoresBlankAndComments(t *testing.T) {
	s, buf := newTestSession(t)
	for _, line := range []string{"", "   ", "# .math.add 1"} {
		commands, err := s.Execute(line)
		assert.NoError(t, err)
		assert.Nil(t, commands)
	}
	assert.Empty(t, buf.String())
}

func TestSession_ExecuteErrors(t *testing.T) {
	s, buf := newTestSession(t)

	_, err := s.Execute(`.echo "unterminated`)
	assert.True(t, errors.Is(err, parser.ErrUnterminatedQuote))

	_, err = s.Execute(".math.ad 1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, unitypes.ErrCommandNotFound))
	assert.Contains(t, buf.String(), "[UNILANG_COMMAND_NOT_FOUND]")

	buf.Reset()
	commands, err := s.Execute(".echo ok ;; .math.divide x 1")
	require.Error(t, err)
	assert.Nil(t, commands, "a program verifies as a whole")
	assert.Contains(t, buf.String(), "[UNILANG_TYPE_MISMATCH]")
	assert.NotContains(t, buf.String(), "✓")
}

func TestSession_SensitiveValuesStayHidden(t *testing.T) {
	s, buf := newTestSession(t)

	_, err := s.Execute(".system.login bob password::short")
	require.Error(t, err)
	assert.Contains(t, buf.String(), "[UNILANG_VALIDATION_RULE_FAILED]")
	assert.NotContains(t, buf.String(), "short")

	buf.Reset()
	_, err = s.Execute(".system.login bob password::longenough")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "password = <redacted>")
	assert.NotContains(t, buf.String(), "longenough")
}

func TestSession_ListCommandsAndStats(t *testing.T) {
	s, buf := newTestSession(t)

	s.ListCommands()
	assert.Contains(t, buf.String(), "### `.math.add`")
	assert.Contains(t, buf.String(), "### `.system.login`")

	buf.Reset()
	_, _ = s.Execute(".math.add 1")
	_, _ = s.Execute(".math.add 2")
	s.PrintStats()
	assert.Contains(t, buf.String(), "hits: 1, misses: 1")
}

func TestSession_RunScript(t *testing.T) {
	s, buf := newTestSession(t)

	script := strings.Join([]string{
		"# arithmetic",
		".math.add 1 2",
		"",
		".math.divide 10 0",
		".echo a ;; .echo b",
		".nope",
	}, "\n")

	result, err := s.RunScript(strings.NewReader(script))
	require.NoError(t, err)
	assert.Equal(t, 4, result.Lines)
	assert.Equal(t, 3, result.Verified)
	assert.Equal(t, []int{4, 6}, result.Failed)
	assert.Contains(t, buf.String(), "[UNILANG_VALIDATION_RULE_FAILED]")
}

func TestSession_RunScriptFile(t *testing.T) {
	s, _ := newTestSession(t)

	path := filepath.Join(t.TempDir(), "demo.unilang")
	require.NoError(t, os.WriteFile(path, []byte(".echo hi\n"), 0600))

	result, err := s.RunScriptFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Verified)
	assert.Empty(t, result.Failed)

	_, err = s.RunScriptFile(filepath.Join(t.TempDir(), "missing.unilang"))
	assert.Error(t, err)
}

func TestNewSession_Defaults(t *testing.T) {
	s := NewSession(nil, catalog.New(), nil, nil)
	assert.Same(t, interner.Global(), s.interner)
	assert.Same(t, output.GetGlobalPrinter(), s.printer)
}

func TestNewShell(t *testing.T) {
	s, _ := newTestSession(t)
	sh := NewShell(s, "0.1.0")
	require.NotNil(t, sh)
}

func TestSession_ProcessInputKeepsQuotedSpacing(t *testing.T) {
	s, buf := newTestSession(t)

	typed := `.echo message::"a  b"`
	for i := 1; i <= len(typed); i++ {
		s.lines.OnChange([]rune(typed[:i]), i, rune(typed[i-1]))
	}
	s.lines.OnChange(nil, 0, readline.CharEnter)

	words := strings.Fields(typed)
	assert.Equal(t, typed, s.lines.resolve(words))

	s.ProcessInput(&ishell.Context{RawArgs: words})
	assert.Contains(t, buf.String(), "  message = a  b (String)")
}

func TestLineRecorder_FallsBackToWords(t *testing.T) {
	rec := &lineRecorder{}
	assert.Equal(t, ".math.add 1 2", rec.resolve([]string{".math.add", "1", "2"}))

	rec.OnChange([]rune(".echo stale"), 11, 'e')
	assert.Equal(t, ".math.add 1", rec.resolve([]string{".math.add", "1"}))

	s, buf := newTestSession(t)
	s.ProcessInput(&ishell.Context{Args: []string{".math.add", "1"}})
	assert.True(t, strings.HasPrefix(buf.String(), "✓ .math.add\n"))

	buf.Reset()
	s.ProcessInput(&ishell.Context{})
	assert.Empty(t, buf.String())
}
