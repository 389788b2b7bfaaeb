// Package dice provides the randomness abstraction and percent-roll results
// used by the duel combat resolver.
package dice

import "fmt"

// Source is the randomness provider for every roll in a battle.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
	// Float64 returns a random float in [0.0, 1.0).
	Float64() float64
}

// CheckResult holds the audit trail for a single percent check.
//
// Postcondition: Success == (Chance >= 100 || (Chance > 0 && Roll <= Chance)).
type CheckResult struct {
	Label   string  // what was rolled, e.g. "critical"
	Chance  float64 // success chance in percent, already scaled
	Roll    float64 // uniform draw in [0, 100); zero when the chance short-circuited
	Success bool
}

// String returns a human-readable audit string in the format:
//
//	"critical 12.50% → 7.31 success"
//
// Precondition: r.Label is non-empty.
func (r CheckResult) String() string {
	if r.Label == "" {
		panic("dice: CheckResult.String() precondition violated: Label must be non-empty")
	}
	verdict := "fail"
	if r.Success {
		verdict = "success"
	}
	return fmt.Sprintf("%s %.2f%% → %.2f %s", r.Label, r.Chance, r.Roll, verdict)
}

// Check performs a percent check against chance using src.
// A chance of 0 or less never succeeds and a chance of 100 or more always
// succeeds without consuming randomness; otherwise a uniform roll in [0, 100)
// succeeds when it is <= chance.
//
// Precondition: src must be non-nil.
func Check(label string, chance float64, src Source) CheckResult {
	res := CheckResult{Label: label, Chance: chance}
	switch {
	case chance <= 0:
		return res
	case chance >= 100:
		res.Success = true
		return res
	}
	res.Roll = src.Float64() * 100
	res.Success = res.Roll <= chance
	return res
}
