package commands

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/relaykit/relaykit/pkg/tool"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the registered tools",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, _, err := buildToolkit()
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tPARAMETERS\tDESCRIPTION")
		for _, d := range reg.List() {
			fmt.Fprintf(w, "%s\t%s\t%s\n", d.Name, paramSummary(d.Params), d.Description)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(toolsCmd)
}

// paramSummary renders a declaration as "name:type" pairs, optional ones
// marked with a trailing question mark.
func paramSummary(p *tool.Params) string {
	if p == nil || len(p.Fields) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(p.Fields))
	for _, f := range p.Fields {
		s := f.Name + ":" + f.Type
		if !f.Required {
			s += "?"
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, " ")
}
