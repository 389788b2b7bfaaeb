package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/cory-johannsen/duel/internal/game/combat"
	"github.com/cory-johannsen/duel/internal/game/match"
	"github.com/cory-johannsen/duel/internal/game/move"
)

// ErrQuit is returned when the player ends input.
var ErrQuit = errors.New("console: player quit")

// Player is a combat.Decider that prompts on a writer and reads one choice
// per line. Names may be abbreviated; ambiguous or unknown input re-prompts.
type Player struct {
	mu    sync.Mutex
	in    *bufio.Scanner
	out   io.Writer
	color bool
}

// NewPlayer returns a Player reading from r and writing prompts to w.
//
// Precondition: r and w must be non-nil.
func NewPlayer(r io.Reader, w io.Writer, color bool) *Player {
	if r == nil || w == nil {
		panic("console: NewPlayer precondition violated: reader and writer must be non-nil")
	}
	return &Player{in: bufio.NewScanner(r), out: w, color: color}
}

// SelectMove shows self's status and usable moves, then reads a move name.
//
// Postcondition: returns a move self knows, or ErrQuit on end of input or "quit".
func (p *Player) SelectMove(self, opponent *combat.Fighter) (*move.Move, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.printf("\n%s\n%s\n", p.status(self), p.status(opponent))
	var names []string
	for _, m := range self.AvailableMoves() {
		names = append(names, m.Name)
	}
	p.printf("Moves: %s\n", strings.Join(names, ", "))

	for {
		line, err := p.read("Move> ")
		if err != nil {
			return nil, err
		}
		res := self.FindMove(line, false)
		if res.Ok() {
			return res.Value, nil
		}
		p.explain("move", line, res.Err())
	}
}

// SelectCounter reads a counter to m from self's counter set.
//
// Postcondition: returns a counter self has, or ErrQuit.
func (p *Player) SelectCounter(self, sender *combat.Fighter, m *move.Move) (move.Counter, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	counters := make([]string, 0, len(self.Counters()))
	for _, c := range self.Counters() {
		counters = append(counters, string(c))
	}
	p.printf("%s sends %s. Counter with: %s\n", sender.Name, m.Name, strings.Join(counters, ", "))

	for {
		line, err := p.read("Counter> ")
		if err != nil {
			return "", err
		}
		res := self.FindCounter(line, false)
		if res.Ok() {
			return res.Value, nil
		}
		p.explain("counter", line, res.Err())
	}
}

// read prompts and returns the next non-empty line.
func (p *Player) read(prompt string) (string, error) {
	for {
		p.printf("%s", prompt)
		if !p.in.Scan() {
			if err := p.in.Err(); err != nil {
				return "", fmt.Errorf("console: reading input: %w", err)
			}
			return "", ErrQuit
		}
		line := strings.TrimSpace(p.in.Text())
		switch strings.ToLower(line) {
		case "":
			continue
		case "quit", "exit":
			return "", ErrQuit
		}
		return line, nil
	}
}

func (p *Player) explain(what, input string, err error) {
	var amb *match.AmbiguousError
	switch {
	case errors.As(err, &amb):
		p.printf("%q matches %d %ss; be more specific.\n", input, amb.Count, what)
	default:
		p.printf("No %s matches %q.\n", what, input)
	}
}

// status renders "Name  HP 90/100  ST 40/100  [Bleeding 2]" with each stat
// in its configured color.
func (p *Player) status(f *combat.Fighter) string {
	name := f.Name
	if p.color {
		name = Colorize(Bold, name)
	}
	parts := []string{name}
	for _, s := range f.Stats() {
		text := s.String()
		if p.color {
			text = Colorize(ColorNamed(s.Color), text)
		}
		parts = append(parts, text)
	}
	var effects []string
	for _, a := range f.Effects.All() {
		effects = append(effects, fmt.Sprintf("%s %d", a.Name(), a.Remaining))
	}
	if len(effects) > 0 {
		parts = append(parts, "["+strings.Join(effects, ", ")+"]")
	}
	return strings.Join(parts, "  ")
}

func (p *Player) printf(format string, args ...any) {
	fmt.Fprintf(p.out, format, args...)
}
