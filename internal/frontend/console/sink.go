package console

import (
	"fmt"
	"io"
	"sync"

	"github.com/cory-johannsen/duel/internal/game/narration"
)

var kindColors = map[narration.Kind]string{
	narration.KindEffectReceive: Magenta,
	narration.KindEffectApply:   Magenta,
	narration.KindEffectWearOff: Dim,
	narration.KindNotice:        Yellow,
	narration.KindBattle:        Bold,
}

// Sink prints narration events, one per line.
type Sink struct {
	mu    sync.Mutex
	out   io.Writer
	color bool
}

// NewSink returns a Sink writing to w, coloring lines by event kind when
// color is set.
//
// Precondition: w must be non-nil.
func NewSink(w io.Writer, color bool) *Sink {
	if w == nil {
		panic("console: NewSink precondition violated: writer must be non-nil")
	}
	return &Sink{out: w, color: color}
}

// Narrate writes e's text.
func (s *Sink) Narrate(e narration.Event) {
	text := e.Text
	if s.color {
		text = Colorize(kindColors[e.Kind], text)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintln(s.out, text)
}
