// Package narration renders move and status effect message templates and
// hands the resulting lines to a Sink. The engine never prints anything itself.
package narration

import (
	"math"
	"regexp"
	"strconv"
	"sync"
)

// Kind classifies a narrated event.
type Kind int

const (
	KindMove Kind = iota
	KindEffectReceive
	KindEffectApply
	KindEffectWearOff
	KindNotice
	KindBattle
)

var kindNames = [...]string{"move", "effect_receive", "effect_apply", "effect_wear_off", "notice", "battle"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Event is one narrated line.
type Event struct {
	Kind   Kind
	Sender string
	Target string
	Text   string
}

// Sink receives narration events.
type Sink interface {
	Narrate(Event)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Event)

// Narrate calls f(e).
func (f SinkFunc) Narrate(e Event) { f(e) }

// Discard drops every event.
var Discard Sink = SinkFunc(func(Event) {})

// Multi fans events out to every sink in order.
func Multi(sinks ...Sink) Sink {
	return SinkFunc(func(e Event) {
		for _, s := range sinks {
			s.Narrate(e)
		}
	})
}

// Recorder keeps every event it receives. It is safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// Narrate appends e.
func (r *Recorder) Narrate(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Texts returns the text of every recorded event of kind k.
func (r *Recorder) Texts(k Kind) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, e := range r.events {
		if e.Kind == k {
			out = append(out, e.Text)
		}
	}
	return out
}

// Reset discards everything recorded so far.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

// Values maps a placeholder code to the number it renders as. Codes are stat
// keys for applied deltas ("hp") and "<stat>Cost" for paid costs ("stCost").
type Values map[string]int

var placeholder = regexp.MustCompile(`\{(sender|target|move:(\w+)(?:\s+(neg|abs))?)\}`)

// Render substitutes {sender}, {target} and {move:<code> [neg|abs]} in tmpl.
// "neg" negates the number and "abs" drops its sign. Placeholders naming a code
// missing from vals are left untouched.
func Render(tmpl, sender, target string, vals Values) string {
	return placeholder.ReplaceAllStringFunc(tmpl, func(m string) string {
		sub := placeholder.FindStringSubmatch(m)
		switch sub[1] {
		case "sender":
			return sender
		case "target":
			return target
		}
		v, ok := vals[sub[2]]
		if !ok {
			return m
		}
		switch sub[3] {
		case "neg":
			v = -v
		case "abs":
			v = int(math.Abs(float64(v)))
		}
		return strconv.Itoa(v)
	})
}
