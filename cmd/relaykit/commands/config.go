package commands

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/relaykit/relaykit/pkg/server"
	"github.com/relaykit/relaykit/pkg/store"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage stored settings",
	Long: `Manage the sqlite-backed settings store.

Keys:
  provider          force "openai" or "gemini" (default: inferred from keys)
  openai.api_key    OpenAI API key
  openai.model      OpenAI model override
  gemini.api_key    Gemini API key
  gemini.model      Gemini model override
  response.phrased  "false" disables model-phrased summaries

Environment variables OPENAI_API_KEY and GEMINI_API_KEY take
precedence over stored keys.`,
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored settings with secrets masked",
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := openSettings()
		if err != nil {
			return err
		}
		defer settings.Close()

		values, err := settings.List(cmd.Context())
		if err != nil {
			return err
		}
		keys := make([]string, 0, len(values))
		for k := range values {
			keys = append(keys, k)
		}
		slices.Sort(keys)

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "KEY\tVALUE")
		for _, k := range keys {
			fmt.Fprintf(w, "%s\t%s\n", k, server.MaskIfSecret(k, values[k]))
		}
		return w.Flush()
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print a stored value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := openSettings()
		if err != nil {
			return err
		}
		defer settings.Close()

		value, err := settings.Get(cmd.Context(), args[0])
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("%q is not set", args[0])
		}
		if err != nil {
			return err
		}
		fmt.Println(value)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Store a setting",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]
		if !store.KnownKey(key) {
			return fmt.Errorf("unknown setting %q", key)
		}
		settings, err := openSettings()
		if err != nil {
			return err
		}
		defer settings.Close()

		if err := settings.Set(cmd.Context(), key, value); err != nil {
			return err
		}
		fmt.Printf("%s = %s\n", key, server.MaskIfSecret(key, value))
		return nil
	},
}

var configUnsetCmd = &cobra.Command{
	Use:   "unset <key>",
	Short: "Remove a stored setting",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := openSettings()
		if err != nil {
			return err
		}
		defer settings.Close()
		return settings.Delete(cmd.Context(), args[0])
	},
}

func init() {
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configUnsetCmd)
	rootCmd.AddCommand(configCmd)
}
