package commands

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"github.com/relaykit/relaykit/pkg/intent"
	"github.com/relaykit/relaykit/pkg/portfolio"
	"github.com/relaykit/relaykit/pkg/store/sqlite"
	"github.com/relaykit/relaykit/pkg/tool"
)

var (
	verbose   bool
	dbPath    string
	rulesPath string
)

var rootCmd = &cobra.Command{
	Use:   "relaykit",
	Short: "Prompt-to-tool pipeline with a streamed event protocol",
	Long: `relaykit runs natural-language prompts through a tool pipeline:
a resolver picks the tools to call, the runner executes them and
streams typed events, and a phrased or templated summary closes
the run.

Without an API key everything runs local: prompts are matched by
rules and summaries come from templates. Store an OpenAI or Gemini
key (relaykit config set openai.api_key sk-...) to route intent
through a model instead; rules stay in place as the fallback.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		initLogger()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", filepath.Join("data", "relaykit.db"), "settings database path")
	rootCmd.PersistentFlags().StringVar(&rulesPath, "rules", "", "YAML rules file (default: built-in portfolio rules)")
}

func initLogger() {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handler := tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Value.Kind() == slog.KindAny {
				if _, ok := a.Value.Any().(error); ok {
					return tint.Attr(9, a)
				}
			}
			return a
		},
	})
	slog.SetDefault(slog.New(handler))
}

// openSettings opens the sqlite-backed settings store, creating the parent
// directory on first use. The caller closes it.
func openSettings() (*sqlite.Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}
	return sqlite.New(dbPath)
}

// buildToolkit assembles the tool registry and the rule set the local
// resolver compiles. The --rules flag swaps the built-in portfolio rules
// for a YAML file.
func buildToolkit() (*tool.Registry, []intent.Rule, error) {
	reg := tool.NewRegistry()
	if err := portfolio.Register(reg, portfolio.NewBook()); err != nil {
		return nil, nil, err
	}

	rules := portfolio.Rules()
	if rulesPath != "" {
		f, err := os.Open(rulesPath)
		if err != nil {
			return nil, nil, fmt.Errorf("opening rules file: %w", err)
		}
		defer f.Close()
		if rules, err = intent.LoadRules(f); err != nil {
			return nil, nil, err
		}
	}
	return reg, rules, nil
}
