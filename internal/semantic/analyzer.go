package semantic

import (
	"fmt"

	"github.com/charmbracelet/log"

	"unilang/internal/binder"
	"unilang/internal/coercion"
	"unilang/internal/interner"
	"unilang/internal/logger"
	"unilang/internal/validation"
	"unilang/pkg/unitypes"
)

// Analyzer verifies instructions against a catalog. It holds no per-call
// state and is safe for concurrent use when its catalog is.
type Analyzer struct {
	catalog   unitypes.Catalog
	interner  *interner.Interner
	validator *validation.Validator
	logger    *log.Logger
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithInterner makes the analyzer resolve paths through in instead of the process-wide interner.
func WithInterner(in *interner.Interner) Option {
	return func(a *Analyzer) {
		if in != nil {
			a.interner = in
		}
	}
}

// WithValidator makes the analyzer use v instead of the process-wide validator.
func WithValidator(v *validation.Validator) Option {
	return func(a *Analyzer) {
		if v != nil {
			a.validator = v
		}
	}
}

// WithLogger replaces the analyzer's component logger.
func WithLogger(l *log.Logger) Option {
	return func(a *Analyzer) {
		if l != nil {
			a.logger = l
		}
	}
}

// New creates an Analyzer over catalog.
func New(catalog unitypes.Catalog, opts ...Option) *Analyzer {
	a := &Analyzer{
		catalog:   catalog,
		interner:  interner.Global(),
		validator: validation.Default(),
		logger:    logger.NewStyledLogger("Analyzer"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// analysis is the state of one Analyze call.
type analysis struct {
	state    State
	instr    unitypes.RawInstruction
	name     *unitypes.InternedName
	def      *unitypes.CommandDefinition
	bindings *binder.Bindings
	values   map[string]unitypes.Value
	errs     unitypes.ErrorList
}

// Analyze verifies one instruction. On success it returns the verified command
// and a nil error. Otherwise it returns a nil command and a unitypes.ErrorList
// holding every problem found, in stage order.
func (a *Analyzer) Analyze(instr unitypes.RawInstruction) (*unitypes.VerifiedCommand, error) {
	run := &analysis{state: StateResolvingCommand, instr: instr}

	a.logger.Debug("Analysis started", "path", instr.Path,
		"positional", len(instr.Positional), "named", len(instr.Named))

	for !run.state.IsTerminal() {
		current := run.state
		a.logger.Debug("Analyzer processing", "state", current.String())

		a.processCurrentState(run)
		next := a.determineNextState(run)

		// Safety check to prevent infinite loops
		if next == current {
			a.logger.Error("Analyzer stuck in state", "state", current.String())
			next = StateFailed
		}
		run.state = next
	}

	if run.state == StateFailed {
		a.logger.Debug("Analysis failed", "command", run.name.String(), "errors", len(run.errs))
		return nil, run.errs
	}

	a.logger.Debug("Analysis finished", "command", run.def.Name)
	return &unitypes.VerifiedCommand{
		Definition: run.def,
		Name:       run.name,
		Arguments:  run.values,
	}, nil
}

// AnalyzeAll verifies a program of several instructions. It analyses every
// instruction even after a failure and returns the commands only when all of
// them verified; otherwise the returned ErrorList holds the errors of every
// failing instruction in order.
func (a *Analyzer) AnalyzeAll(instrs []unitypes.RawInstruction) ([]*unitypes.VerifiedCommand, error) {
	commands := make([]*unitypes.VerifiedCommand, 0, len(instrs))
	var all unitypes.ErrorList
	for _, instr := range instrs {
		cmd, err := a.Analyze(instr)
		if err != nil {
			if list, ok := unitypes.AsErrorList(err); ok {
				all = append(all, list...)
			}
			continue
		}
		commands = append(commands, cmd)
	}
	if len(all) > 0 {
		return nil, all
	}
	return commands, nil
}

// processCurrentState runs the work of the current stage.
func (a *Analyzer) processCurrentState(run *analysis) {
	switch run.state {
	case StateResolvingCommand:
		a.processResolving(run)
	case StateBinding:
		a.processBinding(run)
	case StateCoercing:
		a.processCoercing(run)
	case StateValidating:
		a.processValidating(run)
	}
}

// determineNextState picks the stage that follows the current one.
func (a *Analyzer) determineNextState(run *analysis) State {
	switch run.state {
	case StateResolvingCommand:
		if run.def == nil {
			return StateFailed
		}
		return StateBinding
	case StateBinding:
		return StateCoercing
	case StateCoercing:
		return StateValidating
	case StateValidating:
		if len(run.errs) > 0 {
			return StateFailed
		}
		return StateDone
	default:
		return StateFailed
	}
}

func (a *Analyzer) processResolving(run *analysis) {
	run.name = a.interner.Resolve(run.instr.Path)

	var def *unitypes.CommandDefinition
	var ok bool
	if a.catalog != nil {
		def, ok = a.catalog.Lookup(run.name)
	}
	if !ok || def == nil {
		run.errs = append(run.errs, a.commandNotFound(run.name))
		return
	}

	run.def = def
	if def.IsDeprecated() {
		msg := def.DeprecationMessage
		if msg == "" {
			msg = "command is deprecated"
		}
		a.logger.Warn(msg, "command", def.Name)
	}
}

func (a *Analyzer) commandNotFound(name *unitypes.InternedName) *unitypes.SemanticError {
	err := &unitypes.SemanticError{
		Code:    unitypes.CodeCommandNotFound,
		Command: name.String(),
		Message: fmt.Sprintf("command '%s' not found", name),
	}
	if s, ok := a.catalog.(Suggester); ok {
		if suggestion, found := s.Suggest(name.String()); found {
			err.Suggestion = suggestion
			err.Message += fmt.Sprintf(". Did you mean '%s'?", suggestion)
		}
	}
	return err
}

func (a *Analyzer) processBinding(run *analysis) {
	bindings, errs := binder.Bind(run.def, run.instr)
	run.bindings = bindings
	run.errs = append(run.errs, errs...)
	for _, e := range errs {
		a.logger.Debug("Binding error", "code", e.Code.String(), "argument", e.Argument)
	}
}

func (a *Analyzer) processCoercing(run *analysis) {
	run.values = make(map[string]unitypes.Value, run.bindings.Len())

	for _, b := range run.bindings.All() {
		arg := b.Argument

		var value unitypes.Value
		var typeErr *unitypes.TypeError
		if arg.Multiple {
			value, typeErr = coercion.CoerceAll(b.Raw, arg.Kind)
		} else {
			value, typeErr = coercion.Coerce(b.Raw[0], arg.Kind)
		}

		if typeErr != nil {
			run.errs = append(run.errs, typeConversionError(run.def, arg, typeErr))
			continue
		}

		a.logger.Debug("Argument coerced",
			"argument", arg.Name,
			"source", b.Source.String(),
			"value", logger.ArgumentValue(value.String(), arg.Sensitive))
		run.values[arg.Name] = value
	}
}

func (a *Analyzer) processValidating(run *analysis) {
	for _, b := range run.bindings.All() {
		arg := b.Argument
		value, ok := run.values[arg.Name]
		if !ok || len(arg.Rules) == 0 {
			continue
		}
		violations := a.validator.Validate(value, arg.Rules)
		if list, isList := value.(unitypes.ListValue); isList && arg.Multiple {
			violations = append(violations, a.validator.ValidateItems(list, arg.Rules)...)
		}
		for _, violation := range violations {
			run.errs = append(run.errs, validationError(run.def, arg, violation))
		}
	}
}

func typeConversionError(def *unitypes.CommandDefinition, arg *unitypes.ArgumentDefinition, typeErr *unitypes.TypeError) *unitypes.SemanticError {
	msg := fmt.Sprintf("invalid value for argument '%s': %s", arg.Name, typeErr.Error())
	values := []string{typeErr.Literal}
	if arg.Sensitive {
		msg = fmt.Sprintf("invalid value for argument '%s': expected %s", arg.Name, typeErr.Expected)
		values = nil
		typeErr = &unitypes.TypeError{Literal: logger.RedactedValue, Expected: typeErr.Expected, Reason: logger.RedactedValue}
	}
	return &unitypes.SemanticError{
		Code:     unitypes.CodeTypeConversion,
		Command:  def.Name,
		Argument: arg.Name,
		Values:   values,
		Type:     typeErr,
		Redacted: arg.Sensitive,
		Message:  msg,
	}
}

func validationError(def *unitypes.CommandDefinition, arg *unitypes.ArgumentDefinition, violation *unitypes.ValidationError) *unitypes.SemanticError {
	msg := fmt.Sprintf("argument '%s' failed rule %s: %s", arg.Name, violation.Rule, violation.Reason)
	if arg.Sensitive {
		msg = fmt.Sprintf("argument '%s' failed rule %s", arg.Name, violation.Rule)
		violation = &unitypes.ValidationError{Rule: violation.Rule, Value: logger.RedactedValue, Reason: logger.RedactedValue}
	}
	return &unitypes.SemanticError{
		Code:      unitypes.CodeValidationRuleFailed,
		Command:   def.Name,
		Argument:  arg.Name,
		Violation: violation,
		Redacted:  arg.Sensitive,
		Message:   msg,
	}
}
