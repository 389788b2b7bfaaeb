package ai

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/duel/internal/game/combat"
	"github.com/cory-johannsen/duel/internal/game/move"
)

// Mimic replays the last move the opponent landed on it, when that move is
// still legal for it; otherwise it behaves like Generic.
type Mimic struct {
	*Generic
	last *move.Move
}

// NewMimic creates a Mimic AI on top of g.
func NewMimic(g *Generic) *Mimic { return &Mimic{Generic: g} }

// AnalyseMove implements combat.AI.
func (a *Mimic) AnalyseMove(self, target *combat.Fighter) *move.Move {
	if a.last != nil && usable(self, a.last) {
		a.logger.Debug("mimicking", zap.String("fighter", self.Name), zap.String("move", a.last.Name))
		return a.last
	}
	return a.Generic.AnalyseMove(self, target)
}

// AnalyseMoveReceive remembers every move the opponent actually sent.
func (a *Mimic) AnalyseMoveReceive(_, sender *combat.Fighter, m *move.Move, info move.Info) {
	if sender == nil || m.IsNone() || info.LowStat != "" {
		return
	}
	a.last = m
}

// Last returns the move Mimic would try to replay, or nil.
func (a *Mimic) Last() *move.Move { return a.last }
