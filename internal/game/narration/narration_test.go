package narration_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cory-johannsen/duel/internal/game/narration"
)

func TestRender_Names(t *testing.T) {
	got := narration.Render("{sender} kicks {target}.", "Ayla", "Brom", nil)
	assert.Equal(t, "Ayla kicks Brom.", got)
}

func TestRender_MoveValues(t *testing.T) {
	vals := narration.Values{"hp": -10, "stCost": -5}
	assert.Equal(t, "-10", narration.Render("{move:hp}", "", "", vals))
	assert.Equal(t, "10", narration.Render("{move:hp neg}", "", "", vals))
	assert.Equal(t, "5", narration.Render("{move:stCost abs}", "", "", vals))
	assert.Equal(t, "Brom takes 10 damage", narration.Render("{target} takes {move:hp neg} damage", "Ayla", "Brom", vals))
}

func TestRender_UnknownCodeLeftAlone(t *testing.T) {
	assert.Equal(t, "{move:mp neg}", narration.Render("{move:mp neg}", "", "", narration.Values{"hp": 1}))
}

func TestRender_UnrelatedBracesLeftAlone(t *testing.T) {
	assert.Equal(t, "{shout} Ayla", narration.Render("{shout} {sender}", "Ayla", "", nil))
}

func TestRecorder(t *testing.T) {
	var r narration.Recorder
	r.Narrate(narration.Event{Kind: narration.KindMove, Text: "a"})
	r.Narrate(narration.Event{Kind: narration.KindEffectWearOff, Text: "b"})
	assert.Len(t, r.Events(), 2)
	assert.Equal(t, []string{"b"}, r.Texts(narration.KindEffectWearOff))
	r.Reset()
	assert.Empty(t, r.Events())
}

func TestMulti(t *testing.T) {
	var a, b narration.Recorder
	narration.Multi(&a, narration.Discard, &b).Narrate(narration.Event{Text: "x"})
	assert.Len(t, a.Events(), 1)
	assert.Len(t, b.Events(), 1)
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "effect_wear_off", narration.KindEffectWearOff.String())
	assert.Equal(t, "unknown", narration.Kind(99).String())
}
