// Package main provides the unilang CLI application entry point.
// unilang resolves command instructions against a catalog of command
// definitions and reports the verified, typed result or every problem found.
package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"unilang/internal/catalog"
	"unilang/internal/config"
	"unilang/internal/interner"
	"unilang/internal/logger"
	"unilang/internal/output"
	"unilang/internal/semantic"
	"unilang/internal/shell"
	"unilang/internal/validation"
	"unilang/internal/version"
	"unilang/pkg/unitypes"
)

// errAnalysisFailed is returned once the problems have been printed.
var errAnalysisFailed = errors.New("analysis failed")

var (
	v          = config.NewViper()
	cfg        *config.Config
	configFile string
	jsonOutput bool
	constraint string
	detailed   bool
	quiet      bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "unilang",
	Short: "unilang - command instruction analyzer",
	Long: `unilang resolves command instructions such as '.math.add 1 2' against a catalog
of command definitions, binds and coerces their arguments and validates them.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Run:           runShell, // Default behavior is to run the interactive shell
}

// analyzeCmd analyses the instructions given on the command line.
var analyzeCmd = &cobra.Command{
	Use:   "analyze <instruction>...",
	Short: "Analyze an instruction and print the verified command",
	Long: `Analyze joins its arguments into one line, which may hold several ';;'
separated instructions, and prints every verified command or every error found.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

// commandsCmd lists the catalog.
var commandsCmd = &cobra.Command{
	Use:   "commands",
	Short: "List the registered commands",
	Args:  cobra.NoArgs,
	RunE:  runCommands,
}

// replCmd is the explicit form of the default behavior.
var replCmd = &cobra.Command{
	Use:     "repl",
	Aliases: []string{"shell"},
	Short:   "Start the interactive shell",
	Args:    cobra.NoArgs,
	Run:     runShell,
}

// runCmd analyses a script file line by line.
var runCmd = &cobra.Command{
	Use:   "run <script>",
	Short: "Analyze every instruction of a script file",
	Long: `Run analyses a file holding one instruction program per line.
Blank lines and lines starting with '#' are skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: runScript,
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Args:  cobra.NoArgs,
	Run: func(_ *cobra.Command, _ []string) {
		if !detailed {
			output.Println(version.Formatted())
			return
		}
		info, err := version.Current()
		if err != nil {
			logger.Warn("Invalid build version", "version", version.Version, "error", err)
			output.Println(version.Formatted())
			return
		}
		output.Println(info.Detailed())
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errAnalysisFailed) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String(config.KeyLogLevel, "", "Set log level (debug|info|warn|error) [default: info]")
	flags.String(config.KeyLogFile, "", "Write logs to file instead of stderr")
	flags.Bool(config.KeyTestMode, false, "Run in deterministic test mode")
	flags.StringSlice(config.KeyCatalog, nil, "Catalog file or directory to load (repeatable)")
	flags.Bool(config.KeyNoBuiltin, false, "Do not load the built-in command catalog")
	flags.Int(config.KeyInternerCapacity, interner.DefaultCapacity, "Maximum number of interned command paths")
	flags.Int(config.KeyPatternCacheSize, validation.DefaultPatternCacheSize, "Maximum number of cached compiled patterns")
	flags.StringVar(&configFile, "config", "", "Configuration file [default: ./unilang.yaml]")
	flags.BoolVar(&jsonOutput, "json", false, "Print results as JSON lines")

	for _, key := range []string{
		config.KeyLogLevel, config.KeyLogFile, config.KeyTestMode, config.KeyCatalog,
		config.KeyNoBuiltin, config.KeyInternerCapacity, config.KeyPatternCacheSize,
	} {
		if err := v.BindPFlag(key, flags.Lookup(key)); err != nil {
			fmt.Fprintf(os.Stderr, "Error binding %s flag: %v\n", key, err)
			os.Exit(1)
		}
	}

	commandsCmd.Flags().StringVar(&constraint, "version-constraint", "", "Only list commands whose version satisfies the constraint, e.g. '>= 1.0'")
	runCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Only print the summary line")
	versionCmd.Flags().BoolVar(&detailed, "detailed", false, "Show detailed build information")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(commandsCmd)
	rootCmd.AddCommand(replCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(versionCmd)

	// Configure logger before any command execution
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	if err := config.LoadDotEnv(config.DefaultDotEnvPaths()...); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading .env: %v\n", err)
		os.Exit(1)
	}

	loaded, err := config.Load(v, configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}
	cfg = loaded

	if err := logger.Configure(cfg.LogLevel, cfg.LogFile, cfg.TestMode); err != nil {
		fmt.Fprintf(os.Stderr, "Error configuring logger: %v\n", err)
		os.Exit(1)
	}
	output.ConfigureGlobal(printerOptions(cfg, jsonOutput)...)
}

// printerOptions selects the output mode: test mode is plain, --json emits
// JSON lines and otherwise colors follow the terminal.
func printerOptions(cfg *config.Config, asJSON bool) []output.Option {
	switch {
	case asJSON:
		return []output.Option{output.JSON()}
	case cfg.TestMode:
		return []output.Option{output.TestMode()}
	default:
		return []output.Option{output.ForTerminal()}
	}
}

// newSession builds the analysis engine described by cfg around cat.
func newSession(cfg *config.Config, cat *catalog.Catalog, printer *output.Printer) (*shell.Session, error) {
	in, err := interner.New(cfg.InternerCapacity)
	if err != nil {
		return nil, err
	}
	val, err := validation.New(cfg.PatternCacheSize)
	if err != nil {
		return nil, err
	}
	validation.SetDefault(val)

	if !cfg.NoBuiltin {
		n, err := cat.LoadBuiltin()
		if err != nil {
			return nil, fmt.Errorf("failed to load built-in catalog: %w", err)
		}
		logger.Debug("Loaded built-in catalog", "commands", n)
	}
	for _, path := range cfg.Catalogs {
		n, err := cat.Load(path)
		if err != nil {
			return nil, err
		}
		logger.Debug("Loaded catalog", "path", path, "commands", n)
	}

	analyzer := semantic.New(cat, semantic.WithInterner(in), semantic.WithValidator(val))
	return shell.NewSession(analyzer, cat, in, printer), nil
}

func mustSession(printer *output.Printer) *shell.Session {
	session, err := newSession(cfg, catalog.GlobalCatalog, printer)
	if err != nil {
		logger.Fatal("Failed to initialize unilang", "error", err)
	}
	return session
}

func runAnalyze(_ *cobra.Command, args []string) error {
	session := mustSession(output.GetGlobalPrinter())
	if _, err := session.Execute(strings.Join(args, " ")); err != nil {
		return errAnalysisFailed
	}
	return nil
}

func runCommands(_ *cobra.Command, _ []string) error {
	mustSession(output.GetGlobalPrinter())
	defs, err := filterByVersion(catalog.GlobalCatalog.GetAll(), constraint)
	if err != nil {
		return err
	}
	if len(defs) == 0 {
		if constraint == "" {
			output.Warning("no commands registered")
		} else {
			output.Warning(fmt.Sprintf("no command satisfies %q", constraint))
		}
		return nil
	}
	output.GetGlobalPrinter().Catalog(defs)
	if constraint != "" {
		output.Info(fmt.Sprintf("%d of %d commands satisfy %q", len(defs), catalog.GlobalCatalog.Len(), constraint))
	}
	return nil
}

// filterByVersion keeps the definitions whose version satisfies constraint.
// Unversioned definitions never match a non-empty constraint.
func filterByVersion(defs []*unitypes.CommandDefinition, constraint string) ([]*unitypes.CommandDefinition, error) {
	if constraint == "" {
		return defs, nil
	}
	var kept []*unitypes.CommandDefinition
	for _, def := range defs {
		if def.Version == "" {
			continue
		}
		ok, err := version.Satisfies(def.Version, constraint)
		if err != nil {
			return nil, err
		}
		if ok {
			kept = append(kept, def)
		}
	}
	return kept, nil
}

func runScript(_ *cobra.Command, args []string) error {
	printer := output.GetGlobalPrinter()
	if quiet {
		printer = output.NewPrinter(output.Silent())
	}
	session := mustSession(printer)
	result, err := session.RunScriptFile(args[0])
	if err != nil {
		return err
	}
	return reportScript(result)
}

// reportScript prints the summary line of a script run.
func reportScript(result shell.ScriptResult) error {
	logger.Debug("Script analysed", "lines", result.Lines, "verified", result.Verified, "failed", len(result.Failed))
	summary := fmt.Sprintf("%d lines analysed, %d commands verified", result.Lines, result.Verified)
	if len(result.Failed) == 0 {
		output.Success(summary)
		return nil
	}
	failed := make([]string, len(result.Failed))
	for i, line := range result.Failed {
		failed[i] = fmt.Sprint(line)
	}
	output.Error(fmt.Sprintf("%s, failed lines: %s", summary, strings.Join(failed, ", ")))
	return errAnalysisFailed
}

func runShell(_ *cobra.Command, _ []string) {
	logger.Info("Starting unilang", "version", version.Version)
	session := mustSession(output.GetGlobalPrinter())
	shell.NewShell(session, version.Version).Run()
}
