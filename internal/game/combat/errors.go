package combat

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cory-johannsen/duel/internal/game/move"
	"github.com/cory-johannsen/duel/internal/game/stat"
)

// ErrNotInBattle is returned when a fighter acts outside an entered Environment.
var ErrNotInBattle = errors.New("combat: fighter is not in a battle")

// RequirementKind names which requirement list a move failed.
type RequirementKind int

const (
	RequireMoveType RequirementKind = iota
	RequireSkill
	RequireItem
)

// String returns a human-readable requirement label.
func (k RequirementKind) String() string {
	switch k {
	case RequireMoveType:
		return "move type"
	case RequireSkill:
		return "skill"
	case RequireItem:
		return "item"
	default:
		return "unknown"
	}
}

// RequirementError reports a move whose moveTypes, skillRequired or
// itemRequired list the fighter cannot satisfy. Missing is only populated
// when the move lists a single combination.
type RequirementError struct {
	Fighter string
	Move    string
	Kind    RequirementKind
	Missing []string
}

func (e *RequirementError) Error() string {
	if len(e.Missing) == 0 {
		return fmt.Sprintf("%s cannot use %s: %s requirement not met", e.Fighter, e.Move, e.Kind)
	}
	return fmt.Sprintf("%s cannot use %s: needs %s %s", e.Fighter, e.Move, e.Kind, strings.Join(e.Missing, ", "))
}

// InsufficientResourceError reports a cost the sender cannot pay.
type InsufficientResourceError struct {
	Fighter string
	Move    string
	Stat    stat.Key
	Have    int
	Cost    int
}

func (e *InsufficientResourceError) Error() string {
	return fmt.Sprintf("%s cannot use %s: %s %d cannot cover cost %d", e.Fighter, e.Move, e.Stat.Upper(), e.Have, e.Cost)
}

// InvalidCounterError reports a counter outside the fighter's available
// {none, block, evade} set. It indicates a broken AI or player contract and
// ends the battle.
type InvalidCounterError struct {
	Fighter string
	Counter move.Counter
}

func (e *InvalidCounterError) Error() string {
	return fmt.Sprintf("combat: %s chose invalid counter %q", e.Fighter, e.Counter)
}

// IsRecoverable reports whether err only aborts the current move rather than the battle.
func IsRecoverable(err error) bool {
	var req *RequirementError
	var res *InsufficientResourceError
	return errors.As(err, &req) || errors.As(err, &res)
}
