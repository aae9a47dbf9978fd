package shell

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"unilang/internal/logger"
)

// ScriptResult summarises a batch run.
type ScriptResult struct {
	// Lines is the number of lines holding instructions.
	Lines int
	// Verified is the number of commands that passed analysis.
	Verified int
	// Failed lists the line numbers that failed analysis.
	Failed []int
}

// RunScript analyses every line of r. Failures are printed and recorded;
// processing continues with the next line.
func (s *Session) RunScript(r io.Reader) (ScriptResult, error) {
	var result ScriptResult
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		commands, err := s.Execute(scanner.Text())
		if err != nil {
			result.Lines++
			result.Failed = append(result.Failed, lineNo)
			logger.Debug("Script line failed", "line", lineNo, "error", err)
			continue
		}
		if commands != nil {
			result.Lines++
			result.Verified += len(commands)
		}
	}
	if err := scanner.Err(); err != nil {
		return result, fmt.Errorf("failed to read script: %w", err)
	}
	return result, nil
}

// RunScriptFile opens path and runs it as a script.
func (s *Session) RunScriptFile(path string) (ScriptResult, error) {
	file, err := os.Open(path)
	if err != nil {
		return ScriptResult{}, fmt.Errorf("failed to open script %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	logger.Info("Running script", "path", path)
	return s.RunScript(file)
}
