// relaykit routes natural-language prompts to tools and streams typed run
// events, locally by rules or remotely through a model provider.
//
// Usage:
//
//	relaykit serve             # API server + web UI on :8080
//	relaykit run "<prompt>"    # one-shot run in the terminal
//	relaykit tools             # list registered tools
//	relaykit config set openai.api_key sk-...
package main

import (
	"fmt"
	"os"

	"github.com/relaykit/relaykit/cmd/relaykit/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
