package bridge

import (
	"io"
	"sync"

	"github.com/rs/zerolog"
)

// Writer delivers each payload as one line on w. The terminal has no
// viewport, so Ready and Expand do nothing.
type Writer struct {
	mu  sync.Mutex
	w   io.Writer
	log zerolog.Logger
}

func NewWriter(w io.Writer, log zerolog.Logger) *Writer {
	return &Writer{w: w, log: log}
}

func (w *Writer) Ready() {}

func (w *Writer) Expand() {}

func (w *Writer) SendData(payload string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, err := io.WriteString(w.w, payload+"\n"); err != nil {
		w.log.Error().Err(err).Msg("bridge: write payload")
	}
}
