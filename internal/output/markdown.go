package output

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"unilang/pkg/unitypes"
)

// markdownWrap is the word wrap width of rendered markdown.
const markdownWrap = 80

// CatalogMarkdown describes the given commands as a markdown document,
// grouped by namespace in the order the definitions are given.
func CatalogMarkdown(defs []*unitypes.CommandDefinition) string {
	var b strings.Builder
	b.WriteString("# Commands\n")
	if len(defs) == 0 {
		b.WriteString("\nNo commands registered.\n")
		return b.String()
	}

	namespace := "\x00"
	for _, def := range defs {
		if ns := def.Namespace(); ns != namespace {
			namespace = ns
			title := ns
			if title == "" {
				title = "(root)"
			}
			fmt.Fprintf(&b, "\n## %s\n", title)
		}
		writeCommand(&b, def)
	}
	return b.String()
}

func writeCommand(b *strings.Builder, def *unitypes.CommandDefinition) {
	fmt.Fprintf(b, "\n### `%s`", def.Name)
	if def.Version != "" {
		fmt.Fprintf(b, " v%s", def.Version)
	}
	b.WriteString("\n\n")

	if def.Description != "" {
		b.WriteString(def.Description + "\n\n")
	}
	if def.IsDeprecated() {
		msg := def.DeprecationMessage
		if msg == "" {
			msg = "This command is deprecated."
		}
		fmt.Fprintf(b, "> **Deprecated:** %s\n\n", msg)
	}
	if len(def.Aliases) > 0 {
		fmt.Fprintf(b, "Aliases: %s\n\n", codeList(def.Aliases))
	}

	if len(def.Arguments) > 0 {
		b.WriteString("| Argument | Kind | Flags | Description |\n")
		b.WriteString("|---|---|---|---|\n")
		for _, arg := range def.Arguments {
			fmt.Fprintf(b, "| `%s` | %s | %s | %s |\n",
				arg.Name, escapeCell(arg.Kind.String()), argumentFlags(arg), escapeCell(arg.Description))
		}
		b.WriteString("\n")
	}

	for _, example := range def.Examples {
		fmt.Fprintf(b, "    %s\n", example)
	}
	if len(def.Examples) > 0 {
		b.WriteString("\n")
	}
}

func argumentFlags(arg *unitypes.ArgumentDefinition) string {
	var flags []string
	if arg.Optional {
		flags = append(flags, "optional")
	}
	if arg.Multiple {
		flags = append(flags, "multiple")
	}
	if arg.DefaultPositional {
		flags = append(flags, "default positional")
	}
	if arg.NamedOnly {
		flags = append(flags, "named only")
	}
	if arg.Sensitive {
		flags = append(flags, "sensitive")
	}
	if arg.Default != nil && !arg.Sensitive {
		flags = append(flags, "default "+escapeCell(*arg.Default))
	}
	if len(arg.Aliases) > 0 {
		flags = append(flags, "aliases "+codeList(arg.Aliases))
	}
	return strings.Join(flags, ", ")
}

func codeList(items []string) string {
	quoted := make([]string, len(items))
	for i, item := range items {
		quoted[i] = "`" + item + "`"
	}
	return strings.Join(quoted, ", ")
}

// escapeCell keeps table cells on one line and protects the column separator.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(s, "\n", " ")
}

// Markdown prints a markdown document. Styled printers render it through
// glamour; plain printers write the source unchanged.
func (p *Printer) Markdown(md string) {
	if p.mode == ModeJSON {
		p.output(SemanticPlain, md, false)
		return
	}
	if !p.IsStylable() {
		p.write(ensureNewline(md))
		return
	}

	rendered, err := RenderMarkdown(md)
	if err != nil {
		p.write(ensureNewline(md))
		return
	}
	p.write(rendered)
}

// Catalog prints a markdown listing of the given commands.
func (p *Printer) Catalog(defs []*unitypes.CommandDefinition) {
	p.Markdown(CatalogMarkdown(defs))
}

// RenderMarkdown renders md for the terminal, trying the environment's
// style first and falling back to the dark style.
func RenderMarkdown(md string) (string, error) {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithEnvironmentConfig(),
		glamour.WithWordWrap(markdownWrap),
	)
	if err != nil {
		renderer, err = glamour.NewTermRenderer(
			glamour.WithStandardStyle("dark"),
			glamour.WithWordWrap(markdownWrap),
		)
		if err != nil {
			return "", fmt.Errorf("failed to create markdown renderer: %w", err)
		}
	}
	return renderer.Render(md)
}

func ensureNewline(s string) string {
	if strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}
