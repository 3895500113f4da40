package sink

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/relaykit/relaykit/pkg/domain"
)

// ConsoleStyles holds the lipgloss styles the renderer draws with.
type ConsoleStyles struct {
	Assistant lipgloss.Style
	Technical lipgloss.Style
	Tool      lipgloss.Style
	Failure   lipgloss.Style
	Notice    lipgloss.Style
}

// DefaultConsoleStyles is a dim-technical, bright-assistant scheme.
func DefaultConsoleStyles() ConsoleStyles {
	return ConsoleStyles{
		Assistant: lipgloss.NewStyle(),
		Technical: lipgloss.NewStyle().Foreground(lipgloss.Color("#6e7681")),
		Tool:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ff9f")),
		Failure:   lipgloss.NewStyle().Foreground(lipgloss.Color("#ff5f5f")),
		Notice:    lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("#e3b341")),
	}
}

// Console renders the event stream for a terminal: dim technical lines for
// the run and tool lifecycle, plain assistant text assembled from content
// deltas as they arrive.
type Console struct {
	mu     sync.Mutex
	w      io.Writer
	styles ConsoleStyles

	// inMessage tracks whether assistant deltas are being streamed, so the
	// closing event can terminate the line.
	inMessage bool
}

var _ Sink = (*Console)(nil)

// NewConsole renders to w with the default styles.
func NewConsole(w io.Writer) *Console {
	return &Console{w: w, styles: DefaultConsoleStyles()}
}

// NewConsoleWithStyles renders to w with custom styles.
func NewConsoleWithStyles(w io.Writer, styles ConsoleStyles) *Console {
	return &Console{w: w, styles: styles}
}

func (c *Console) OnEvent(e domain.RunEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch e.Type {
	case domain.EventRunStarted:
		c.line(c.styles.Technical.Render("· run " + e.RunID + " started"))
	case domain.EventRunFinished:
		c.line(c.styles.Technical.Render("· run " + e.RunID + " " + string(e.Status)))
	case domain.EventRunError:
		c.line(c.styles.Failure.Render("✗ " + e.Message + " (" + e.Code + ")"))
	case domain.EventToolCallStarted:
		c.line(c.styles.Technical.Render("⚙ ") + c.styles.Tool.Render(e.ToolName))
	case domain.EventToolCallArguments:
		c.line(c.styles.Technical.Render("  args " + e.ArgsJSON))
	case domain.EventToolCallEnded:
		// The result line that follows carries the information.
	case domain.EventToolCallResult:
		style := c.styles.Technical
		if strings.HasPrefix(e.ResultJSON, `{"success":false`) {
			style = c.styles.Failure
		}
		c.line(style.Render("  → " + e.ResultJSON))
	case domain.EventTextMessageStarted:
		c.inMessage = true
	case domain.EventTextMessageContent:
		fmt.Fprint(c.w, c.styles.Assistant.Render(e.Delta))
	case domain.EventTextMessageEnded:
		if c.inMessage {
			fmt.Fprintln(c.w)
			c.inMessage = false
		}
	case domain.EventCustom:
		c.line(c.styles.Notice.Render("! " + e.Message))
	}
}

func (c *Console) line(s string) {
	fmt.Fprintln(c.w, s)
}
