package semantic

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unilang/internal/interner"
	"unilang/pkg/unitypes"
)

// mapCatalog is a minimal catalog keyed by canonical path.
type mapCatalog map[string]*unitypes.CommandDefinition

func (m mapCatalog) Lookup(name *unitypes.InternedName) (*unitypes.CommandDefinition, bool) {
	def, ok := m[name.String()]
	return def, ok
}

func (m mapCatalog) Suggest(name string) (string, bool) {
	if name == ".math.ad" {
		return ".math.add", true
	}
	return "", false
}

func testCatalog() mapCatalog {
	return mapCatalog{
		".math.add": {
			Name: ".math.add",
			Arguments: []*unitypes.ArgumentDefinition{
				{Name: "a", Kind: unitypes.Simple(unitypes.KindInteger)},
				{Name: "b", Kind: unitypes.Simple(unitypes.KindInteger)},
			},
		},
		".need.x": {
			Name:      ".need.x",
			Arguments: []*unitypes.ArgumentDefinition{{Name: "x", Kind: unitypes.Simple(unitypes.KindInteger)}},
		},
		".range": {
			Name: ".range",
			Arguments: []*unitypes.ArgumentDefinition{
				{Name: "value", Kind: unitypes.Simple(unitypes.KindInteger), Rules: []unitypes.ValidationRule{unitypes.Min(10), unitypes.Max(100)}},
			},
		},
		".files.tag": {
			Name:   ".files.tag",
			Status: unitypes.StatusDeprecated,
			Arguments: []*unitypes.ArgumentDefinition{
				{Name: "files", Kind: unitypes.Simple(unitypes.KindPath), Multiple: true, DefaultPositional: true,
					Rules: []unitypes.ValidationRule{unitypes.MinItems(1)}},
				{Name: "color", Kind: unitypes.EnumOf("red", "green"), Optional: true, Default: unitypes.StringPtr("red")},
				{Name: "weights", Kind: unitypes.MapOf(unitypes.Simple(unitypes.KindString), unitypes.Simple(unitypes.KindFloat), ";", ":"), Optional: true, NamedOnly: true},
			},
		},
		".sum": {
			Name: ".sum",
			Arguments: []*unitypes.ArgumentDefinition{
				{Name: "nums", Kind: unitypes.Simple(unitypes.KindInteger), Multiple: true, DefaultPositional: true,
					Rules: []unitypes.ValidationRule{unitypes.MinItems(2), unitypes.Min(0)}},
			},
		},
		".vault": {
			Name: ".vault",
			Arguments: []*unitypes.ArgumentDefinition{
				{Name: "token", Kind: unitypes.Simple(unitypes.KindString), Optional: true, Sensitive: true},
				{Name: "pin", Kind: unitypes.Simple(unitypes.KindInteger), Optional: true, Sensitive: true,
					Rules: []unitypes.ValidationRule{unitypes.Max(999)}},
				{Name: "creds", Kind: unitypes.MapOf(unitypes.Simple(unitypes.KindString), unitypes.Simple(unitypes.KindString), ";", ":"),
					Optional: true, NamedOnly: true, Sensitive: true},
			},
		},
		".login": {
			Name: ".login",
			Arguments: []*unitypes.ArgumentDefinition{
				{Name: "user", Kind: unitypes.Simple(unitypes.KindString)},
				{Name: "pin", Kind: unitypes.Simple(unitypes.KindInteger), Sensitive: true},
			},
		},
	}
}

func newTestAnalyzer(t *testing.T) *Analyzer {
	t.Helper()
	in, err := interner.New(64)
	require.NoError(t, err)
	return New(testCatalog(), WithInterner(in), WithLogger(log.New(io.Discard)))
}

func instr(path []string, positional []string, named ...unitypes.NamedArgument) unitypes.RawInstruction {
	return unitypes.RawInstruction{Path: path, Positional: positional, Named: named}
}

func errorList(t *testing.T, err error) unitypes.ErrorList {
	t.Helper()
	require.Error(t, err)
	list, ok := unitypes.AsErrorList(err)
	require.True(t, ok, "expected an ErrorList, got %T", err)
	return list
}

func TestAnalyze_Success(t *testing.T) {
	a := newTestAnalyzer(t)

	cmd, err := a.Analyze(instr([]string{"math", "add"}, []string{"2"}, unitypes.NamedArgument{Name: "b", Value: "40"}))
	require.NoError(t, err)
	require.NotNil(t, cmd)

	assert.Equal(t, ".math.add", cmd.Name.String())
	assert.Equal(t, ".math.add", cmd.Definition.Name)
	a1, _ := cmd.GetInteger("a")
	b1, _ := cmd.GetInteger("b")
	assert.Equal(t, int64(42), a1+b1)
}

func TestAnalyze_ResolvedNameIsInterned(t *testing.T) {
	a := newTestAnalyzer(t)

	first, err := a.Analyze(instr([]string{"", "need", "x"}, []string{"1"}))
	require.NoError(t, err)
	second, err := a.Analyze(instr([]string{"need", "x"}, []string{"2"}))
	require.NoError(t, err)
	assert.Same(t, first.Name, second.Name)
}

func TestAnalyze_CommandNotFound(t *testing.T) {
	a := newTestAnalyzer(t)

	cmd, err := a.Analyze(instr([]string{"math", "ad"}, []string{"1", "2"}))
	assert.Nil(t, cmd)
	list := errorList(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, unitypes.CodeCommandNotFound, list[0].Code)
	assert.Equal(t, ".math.add", list[0].Suggestion)
	assert.True(t, errors.Is(err, unitypes.ErrCommandNotFound))
}

func TestAnalyze_NilCatalog(t *testing.T) {
	a := New(nil, WithLogger(log.New(io.Discard)))
	_, err := a.Analyze(instr([]string{"x"}, nil))
	list := errorList(t, err)
	assert.Equal(t, []unitypes.ErrorCode{unitypes.CodeCommandNotFound}, list.Codes())
}

func TestAnalyze_SingleMissingArgument(t *testing.T) {
	a := newTestAnalyzer(t)

	cmd, err := a.Analyze(instr([]string{"need", "x"}, nil))
	assert.Nil(t, cmd)
	list := errorList(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, unitypes.CodeMissingArgument, list[0].Code)
	assert.Equal(t, "x", list[0].Argument)
}

func TestAnalyze_ValidationRange(t *testing.T) {
	a := newTestAnalyzer(t)

	tests := []struct {
		raw   string
		codes []unitypes.ErrorCode
	}{
		{"5", []unitypes.ErrorCode{unitypes.CodeValidationRuleFailed}},
		{"50", nil},
		{"150", []unitypes.ErrorCode{unitypes.CodeValidationRuleFailed}},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			cmd, err := a.Analyze(instr([]string{"range"}, []string{tt.raw}))
			if tt.codes == nil {
				require.NoError(t, err)
				v, _ := cmd.GetInteger("value")
				assert.Equal(t, int64(50), v)
				return
			}
			assert.Equal(t, tt.codes, errorList(t, err).Codes())
		})
	}
}

func TestAnalyze_CollectsEverything(t *testing.T) {
	a := newTestAnalyzer(t)

	// a fails coercion, b is missing, and an unknown name is supplied.
	_, err := a.Analyze(instr([]string{"math", "add"}, []string{"one"}, unitypes.NamedArgument{Name: "c", Value: "3"}))
	list := errorList(t, err)

	assert.Equal(t, []unitypes.ErrorCode{
		unitypes.CodeMissingArgument,
		unitypes.CodeUnknownArgument,
		unitypes.CodeTypeConversion,
	}, list.Codes())

	typeErr := list.ByCode(unitypes.CodeTypeConversion)[0]
	require.NotNil(t, typeErr.Type)
	assert.Equal(t, "one", typeErr.Type.Literal)
	assert.Equal(t, "a", typeErr.Argument)
}

func TestAnalyze_MultipleArgumentsAndDefaults(t *testing.T) {
	a := newTestAnalyzer(t)

	cmd, err := a.Analyze(instr([]string{"files", "tag"}, []string{"a.txt", "b.txt"},
		unitypes.NamedArgument{Name: "weights", Value: "x:0.5;y:2"}))
	require.NoError(t, err)

	files, ok := cmd.GetList("files")
	require.True(t, ok)
	assert.Equal(t, unitypes.ListValue{unitypes.PathValue("a.txt"), unitypes.PathValue("b.txt")}, files)

	color, ok := cmd.Value("color")
	require.True(t, ok)
	assert.Equal(t, unitypes.EnumValue("red"), color)

	weights, ok := cmd.Value("weights")
	require.True(t, ok)
	assert.Equal(t, unitypes.MapValue{"x": unitypes.FloatValue(0.5), "y": unitypes.FloatValue(2)}, weights)
}

func TestAnalyze_MissingAndInvalidTogether(t *testing.T) {
	a := newTestAnalyzer(t)

	_, err := a.Analyze(instr([]string{"files", "tag"}, nil, unitypes.NamedArgument{Name: "color", Value: "blue"}))
	list := errorList(t, err)
	assert.Equal(t, []unitypes.ErrorCode{unitypes.CodeMissingArgument, unitypes.CodeTypeConversion}, list.Codes())
}

func TestAnalyze_SensitiveValuesAreRedacted(t *testing.T) {
	a := newTestAnalyzer(t)

	_, err := a.Analyze(instr([]string{"login"}, []string{"alice", "12x4"}))
	list := errorList(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].Redacted)
	assert.NotContains(t, list[0].Message, "12x4")
	assert.NotContains(t, list[0].Type.Error(), "12x4")
	assert.Empty(t, list[0].Values)
}

func TestAnalyze_SensitiveErrorsCarryNoRawValues(t *testing.T) {
	a := newTestAnalyzer(t)

	tests := []struct {
		name   string
		named  []unitypes.NamedArgument
		code   unitypes.ErrorCode
		secret string
	}{
		{"repeated value", []unitypes.NamedArgument{{Name: "token", Value: "hunter2"}, {Name: "token", Value: "s3cret"}},
			unitypes.CodeTooManyArguments, "hunter2"},
		{"bad map entry", []unitypes.NamedArgument{{Name: "creds", Value: "pw-leak"}},
			unitypes.CodeTypeConversion, "pw-leak"},
		{"failed rule", []unitypes.NamedArgument{{Name: "pin", Value: "9999"}},
			unitypes.CodeValidationRuleFailed, "9999"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := a.Analyze(instr([]string{"vault"}, nil, tt.named...))
			list := errorList(t, err)
			require.Len(t, list, 1)
			e := list[0]
			assert.Equal(t, tt.code, e.Code)
			assert.True(t, e.Redacted)
			assert.Nil(t, e.Values)
			assert.NotContains(t, e.Error(), tt.secret)
			assert.NotContains(t, fmt.Sprintf("%+v", *e), tt.secret)
			if e.Type != nil {
				assert.NotContains(t, e.Type.Error(), tt.secret)
			}
			if e.Violation != nil {
				assert.NotContains(t, e.Violation.Value, tt.secret)
				assert.NotContains(t, e.Violation.Error(), tt.secret)
			}
		})
	}
}

func TestAnalyze_MultipleArgumentRulesApplyPerItem(t *testing.T) {
	a := newTestAnalyzer(t)

	cmd, err := a.Analyze(instr([]string{"sum"}, []string{"1", "2", "3"}))
	require.NoError(t, err)
	nums, ok := cmd.GetList("nums")
	require.True(t, ok)
	assert.Len(t, nums, 3)

	_, err = a.Analyze(instr([]string{"sum"}, []string{"-5", "3"}))
	list := errorList(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, unitypes.CodeValidationRuleFailed, list[0].Code)
	assert.Equal(t, unitypes.RuleMin, list[0].Violation.Rule.Type)
	assert.Equal(t, "-5", list[0].Violation.Value)

	_, err = a.Analyze(instr([]string{"sum"}, []string{"-5"}))
	list = errorList(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, unitypes.RuleMinItems, list[0].Violation.Rule.Type)
	assert.Equal(t, unitypes.RuleMin, list[1].Violation.Rule.Type)
}

func TestAnalyzeAll(t *testing.T) {
	a := newTestAnalyzer(t)

	cmds, err := a.AnalyzeAll([]unitypes.RawInstruction{
		instr([]string{"need", "x"}, []string{"1"}),
		instr([]string{"range"}, []string{"20"}),
	})
	require.NoError(t, err)
	require.Len(t, cmds, 2)
	assert.Equal(t, ".range", cmds[1].Definition.Name)

	cmds, err = a.AnalyzeAll([]unitypes.RawInstruction{
		instr([]string{"need", "x"}, nil),
		instr([]string{"range"}, []string{"20"}),
		instr([]string{"nope"}, nil),
	})
	assert.Nil(t, cmds)
	assert.Equal(t, []unitypes.ErrorCode{unitypes.CodeMissingArgument, unitypes.CodeCommandNotFound}, errorList(t, err).Codes())
}

func TestAnalyze_NeverPanicsOnMalformedInput(t *testing.T) {
	a := newTestAnalyzer(t)

	inputs := []unitypes.RawInstruction{
		{},
		{Path: []string{""}},
		{Path: []string{"math", "add"}, Positional: []string{"", "", "", ""}},
		{Path: []string{"files", "tag"}, Named: []unitypes.NamedArgument{{Name: "", Value: ""}, {Name: "weights", Value: ";;::"}}},
	}
	for _, in := range inputs {
		assert.NotPanics(t, func() {
			_, _ = a.Analyze(in)
		})
	}
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "ResolvingCommand", StateResolvingCommand.String())
	assert.Equal(t, "Failed", StateFailed.String())
	assert.True(t, StateDone.IsTerminal())
	assert.False(t, StateBinding.IsTerminal())
}
