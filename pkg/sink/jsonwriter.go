package sink

import (
	"encoding/json"
	"io"
	"sync"

	"github.com/relaykit/relaykit/pkg/domain"
)

// JSONWriter emits one JSON object per event, newline-delimited. Write
// failures are remembered rather than surfaced; callers check Err after the
// stream ends.
type JSONWriter struct {
	mu  sync.Mutex
	enc *json.Encoder
	err error
}

var _ Sink = (*JSONWriter)(nil)

// NewJSONWriter writes events to w.
func NewJSONWriter(w io.Writer) *JSONWriter {
	return &JSONWriter{enc: json.NewEncoder(w)}
}

func (j *JSONWriter) OnEvent(e domain.RunEvent) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.err != nil {
		return
	}
	j.err = j.enc.Encode(e)
}

// Err returns the first write failure, if any.
func (j *JSONWriter) Err() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.err
}
