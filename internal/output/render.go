package output

import (
	"fmt"

	"unilang/internal/coercion"
	"unilang/internal/logger"
	"unilang/pkg/unitypes"
)

// FormatValue renders a bound value for display. Sensitive arguments are redacted.
func FormatValue(arg *unitypes.ArgumentDefinition, value unitypes.Value) string {
	return logger.ArgumentValue(coercion.Display(value, arg.Kind), arg.Sensitive)
}

type verifiedJSON struct {
	Type      string            `json:"type"`
	Command   string            `json:"command"`
	Via       string            `json:"via"`
	Arguments map[string]string `json:"arguments"`
}

type errorJSON struct {
	Type       string   `json:"type"`
	Code       string   `json:"code"`
	Command    string   `json:"command,omitempty"`
	Argument   string   `json:"argument,omitempty"`
	Redacted   bool     `json:"redacted,omitempty"`
	Values     []string `json:"values,omitempty"`
	Suggestion string   `json:"suggestion,omitempty"`
	Message    string   `json:"message"`
}

// VerifiedCommand prints a verified command and its arguments in declaration order.
func (p *Printer) VerifiedCommand(cmd *unitypes.VerifiedCommand) {
	if cmd == nil || cmd.Definition == nil {
		return
	}
	def := cmd.Definition

	if p.mode == ModeJSON {
		out := verifiedJSON{Type: "command", Command: def.Name, Via: cmd.Name.String(), Arguments: map[string]string{}}
		for _, arg := range def.Arguments {
			if value, ok := cmd.Arguments[arg.Name]; ok {
				out.Arguments[arg.Name] = FormatValue(arg, value)
			}
		}
		p.writeJSON(out)
		return
	}

	header := p.style(SemanticCommand, def.Name)
	if via := cmd.Name.String(); via != "" && via != def.Name {
		header += " " + p.style(SemanticHint, "(via "+via+")")
	}
	p.output(SemanticSuccess, header, true)

	for _, arg := range def.Arguments {
		value, ok := cmd.Arguments[arg.Name]
		if !ok {
			continue
		}
		p.write(fmt.Sprintf("  %s = %s %s\n",
			p.style(SemanticArgument, arg.Name),
			p.style(SemanticValue, FormatValue(arg, value)),
			p.style(SemanticKind, "("+arg.Kind.String()+")")))
	}
}

// Errors prints every problem carried by err. An analysis error list prints
// one line per entry; any other error prints as a single line.
func (p *Printer) Errors(err error) {
	if err == nil {
		return
	}
	list, ok := unitypes.AsErrorList(err)
	if !ok {
		if p.mode == ModeJSON {
			p.writeJSON(errorJSON{Type: "error", Code: "UNILANG_UNKNOWN_ERROR", Message: err.Error()})
			return
		}
		p.Error(err.Error())
		return
	}

	for _, e := range list {
		if p.mode == ModeJSON {
			values := e.Values
			if e.Redacted {
				values = nil
			}
			p.writeJSON(errorJSON{
				Type:       "error",
				Code:       e.Code.String(),
				Command:    e.Command,
				Argument:   e.Argument,
				Redacted:   e.Redacted,
				Values:     values,
				Suggestion: e.Suggestion,
				Message:    e.Message,
			})
			continue
		}
		p.output(SemanticError, p.style(SemanticCode, "["+e.Code.String()+"]")+" "+e.Message, true)
	}
}
