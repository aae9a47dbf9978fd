package shell

import (
	"strings"
	"sync"

	"github.com/abiosoft/readline"
)

// lineRecorder is a readline.Listener that keeps the text of the line being
// edited. ishell passes handlers the line split on whitespace, which drops
// repeated spaces inside quoted values.
type lineRecorder struct {
	mu   sync.Mutex
	line string
}

// OnChange implements readline.Listener. The buffer is already cleared when
// Enter is reported, so those keys leave the recorded line alone.
func (r *lineRecorder) OnChange(line []rune, pos int, key rune) ([]rune, int, bool) {
	if key == readline.CharEnter || key == readline.CharCtrlJ {
		return line, pos, false
	}
	r.mu.Lock()
	r.line = string(line)
	r.mu.Unlock()
	return line, pos, false
}

// resolve returns the recorded line when it is the one words were split
// from, and words joined by single spaces otherwise.
func (r *lineRecorder) resolve(words []string) string {
	joined := strings.Join(words, " ")
	r.mu.Lock()
	line := r.line
	r.mu.Unlock()
	if strings.Join(strings.Fields(line), " ") == joined {
		return line
	}
	return joined
}
