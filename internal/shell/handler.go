// Package shell provides the interactive unilang shell and batch script runner.
// Each input line is tokenized into instructions, analysed against the
// catalog and the verified commands or errors are printed.
package shell

import (
	"fmt"
	"strings"

	"github.com/abiosoft/ishell/v2"
	"github.com/abiosoft/readline"

	"unilang/internal/catalog"
	"unilang/internal/interner"
	"unilang/internal/logger"
	"unilang/internal/output"
	"unilang/internal/parser"
	"unilang/internal/semantic"
	"unilang/pkg/unitypes"
)

// CommentPrefix starts a line that is ignored.
const CommentPrefix = "#"

// Session ties the tokenizer, the analyzer and the printer together.
type Session struct {
	analyzer *semantic.Analyzer
	catalog  *catalog.Catalog
	interner *interner.Interner
	printer  *output.Printer
	lines    *lineRecorder
}

// NewSession creates a session. A nil printer selects the global printer and
// a nil interner selects the process-wide one.
func NewSession(analyzer *semantic.Analyzer, cat *catalog.Catalog, in *interner.Interner, printer *output.Printer) *Session {
	if printer == nil {
		printer = output.GetGlobalPrinter()
	}
	if in == nil {
		in = interner.Global()
	}
	return &Session{analyzer: analyzer, catalog: cat, interner: in, printer: printer, lines: &lineRecorder{}}
}

// Execute analyses one input line and prints the outcome. A line may hold
// several ";;" separated instructions; they are reported together and none
// is returned unless all of them verify. Blank and comment lines return nil, nil.
func (s *Session) Execute(line string) ([]*unitypes.VerifiedCommand, error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, CommentPrefix) {
		return nil, nil
	}

	instructions, err := parser.ParseProgram(line)
	if err != nil {
		logger.Debug("Tokenizer rejected input", "error", err)
		s.printer.Error(err.Error())
		return nil, err
	}

	commands, err := s.analyzer.AnalyzeAll(instructions)
	if err != nil {
		s.printer.Errors(err)
		return nil, err
	}
	for _, cmd := range commands {
		s.printer.VerifiedCommand(cmd)
	}
	return commands, nil
}

// ListCommands prints the catalog as markdown.
func (s *Session) ListCommands() {
	s.printer.Catalog(s.catalog.GetAll())
}

// PrintStats prints the interner cache counters.
func (s *Session) PrintStats() {
	stats := s.interner.Stats()
	s.printer.Info(fmt.Sprintf("interned paths: %d/%d, hits: %d, misses: %d, evictions: %d, hit rate: %.1f%%",
		stats.Size, stats.Capacity, stats.Hits, stats.Misses, stats.Evictions, stats.HitRate()*100))
}

// ProcessInput handles input that matched no shell command. The line is
// taken as typed at the prompt so quoted values keep their spacing.
func (s *Session) ProcessInput(c *ishell.Context) {
	words := c.RawArgs
	if len(words) == 0 {
		words = c.Args
	}
	if len(words) == 0 {
		return
	}
	_, _ = s.Execute(s.lines.resolve(words))
}

// NewShell builds the interactive shell around the session.
func NewShell(s *Session, version string) *ishell.Shell {
	sh := ishell.NewWithConfig(&readline.Config{Prompt: "unilang> ", Listener: s.lines})

	sh.AddCmd(&ishell.Cmd{
		Name: "commands",
		Help: "list the registered commands",
		Func: func(_ *ishell.Context) {
			s.ListCommands()
		},
	})
	sh.AddCmd(&ishell.Cmd{
		Name: "stats",
		Help: "show interner cache statistics",
		Func: func(_ *ishell.Context) {
			s.PrintStats()
		},
	})
	sh.NotFound(s.ProcessInput)

	sh.Println(fmt.Sprintf("unilang v%s - command analysis shell", version))
	sh.Println("Enter an instruction such as '.math.add 1 2', 'commands' to list commands or 'exit' to quit.")
	return sh
}
