package runner

import (
	"context"
	"strings"

	"github.com/relaykit/relaykit/pkg/domain"
)

// noToolsMessage is the response when resolution produced no tool calls.
const noToolsMessage = "I couldn't find an applicable tool for that request. Try asking about your portfolio."

// respond emits the assistant message for the run and returns its full
// text. Template summaries go out as a single delta; phrased summaries are
// streamed word by word with a pause between chunks.
func (r *Runner) respond(ctx context.Context, phraser Phraser, prompt string, outcomes []domain.ToolOutcome) (string, error) {
	text, stream := r.compose(ctx, phraser, prompt, outcomes)

	msgID := r.ids.MessageID()
	r.emit(domain.NewTextMessageStarted(msgID, domain.RoleAssistant))
	if !stream {
		r.emit(domain.NewTextMessageContent(msgID, text))
		r.emit(domain.NewTextMessageEnded(msgID))
		return text, nil
	}

	words := strings.Fields(text)
	for i, word := range words {
		delta := word
		if i < len(words)-1 {
			delta += " "
			r.emit(domain.NewTextMessageContent(msgID, delta))
			if err := r.pacer.Pause(ctx); err != nil {
				return "", err
			}
			continue
		}
		r.emit(domain.NewTextMessageContent(msgID, delta))
	}
	r.emit(domain.NewTextMessageEnded(msgID))
	return strings.Join(words, " "), nil
}

// compose picks the response text and whether it should be streamed in
// chunks. Phrasing failures fall back to the template summary so the run
// still completes.
func (r *Runner) compose(ctx context.Context, phraser Phraser, prompt string, outcomes []domain.ToolOutcome) (string, bool) {
	if len(outcomes) == 0 {
		return noToolsMessage, false
	}
	if phraser == nil {
		return templateSummary(outcomes), false
	}
	text, err := phraser.Phrase(ctx, prompt, outcomes)
	if err != nil {
		r.log.Warn("Phrasing failed, using template summary", "error", err)
		return templateSummary(outcomes), false
	}
	if strings.TrimSpace(text) == "" {
		return templateSummary(outcomes), false
	}
	return text, true
}

// templateSummary names what ran and what failed, without any model call.
func templateSummary(outcomes []domain.ToolOutcome) string {
	var ran, failed []string
	for _, o := range outcomes {
		if o.Failed() {
			failed = append(failed, o.Name)
		} else {
			ran = append(ran, o.Name)
		}
	}

	var sb strings.Builder
	if len(ran) > 0 {
		sb.WriteString("Done. I ran ")
		sb.WriteString(humanJoin(ran))
		sb.WriteString(".")
	}
	switch len(failed) {
	case 0:
	case 1:
		if sb.Len() > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString("The ")
		sb.WriteString(failed[0])
		sb.WriteString(" call failed.")
	default:
		if sb.Len() > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString("The ")
		sb.WriteString(humanJoin(failed))
		sb.WriteString(" calls failed.")
	}
	return sb.String()
}

// humanJoin renders a name list the way a sentence would.
func humanJoin(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	case 2:
		return names[0] + " and " + names[1]
	default:
		return strings.Join(names[:len(names)-1], ", ") + ", and " + names[len(names)-1]
	}
}
