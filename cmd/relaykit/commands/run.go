package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/itchyny/gojq"
	"github.com/spf13/cobra"

	"github.com/relaykit/relaykit/pkg/domain"
	"github.com/relaykit/relaykit/pkg/runner"
	"github.com/relaykit/relaykit/pkg/sink"
)

var (
	runJSON   bool
	runFilter string
)

var runCmd = &cobra.Command{
	Use:   "run <prompt>",
	Short: "Process one prompt and stream the run to the terminal",
	Example: `  relaykit run "Show my portfolio"
  relaykit run --json "rebalance to aggressive"
  relaykit run --filter 'select(.type == "text_message_content") | .delta' "analyze my returns"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		prompt := strings.Join(args, " ")

		settings, err := openSettings()
		if err != nil {
			return err
		}
		defer settings.Close()

		reg, rules, err := buildToolkit()
		if err != nil {
			return err
		}
		pl, err := buildPipeline(ctx, reg, rules, settings, slog.Default())
		if err != nil {
			return err
		}

		var events sink.Sink
		var jsonOut *sink.JSONWriter
		switch {
		case runFilter != "":
			jq, err := newJQSink(runFilter, os.Stdout)
			if err != nil {
				return err
			}
			events = jq
		case runJSON:
			jsonOut = sink.NewJSONWriter(os.Stdout)
			events = jsonOut
		default:
			events = sink.NewConsole(os.Stdout)
		}

		run := runner.New(reg, pl.resolver, events,
			runner.WithPhraser(pl.phraser),
		)
		if _, err := run.ProcessPrompt(ctx, prompt); err != nil {
			return err
		}
		if jsonOut != nil {
			return jsonOut.Err()
		}
		return nil
	},
}

func init() {
	runCmd.Flags().BoolVar(&runJSON, "json", false, "emit events as JSON lines")
	runCmd.Flags().StringVar(&runFilter, "filter", "", "jq expression applied to each event; results print as JSON lines")
	rootCmd.AddCommand(runCmd)
}

// jqSink pipes every event through a pre-parsed jq query and prints each
// result as a JSON line. Null results and query errors are skipped so a
// selecting filter stays quiet on non-matching events.
type jqSink struct {
	query *gojq.Query
	enc   *json.Encoder
}

var _ sink.Sink = (*jqSink)(nil)

func newJQSink(expr string, w io.Writer) (*jqSink, error) {
	query, err := gojq.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid jq expression %q: %w", expr, err)
	}
	return &jqSink{query: query, enc: json.NewEncoder(w)}, nil
}

func (s *jqSink) OnEvent(e domain.RunEvent) {
	raw, err := json.Marshal(e)
	if err != nil {
		return
	}
	var input any
	if err := json.Unmarshal(raw, &input); err != nil {
		return
	}
	iter := s.query.Run(input)
	for {
		v, ok := iter.Next()
		if !ok {
			return
		}
		if _, isErr := v.(error); isErr || v == nil {
			continue
		}
		s.enc.Encode(v)
	}
}
