package move

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/duel/internal/game/stat"
)

// Branch is one outcome category of a move resolution. It selects both the
// `<branch><STAT>Value` deltas applied and the `<branch>Message` narrated.
// The zero value (BranchNone) means nothing was resolved.
type Branch int

const (
	BranchNone        Branch = iota // zero value; nothing resolved
	Normal                          // no counter chosen, no critical
	Fast                            // counter prevented by the speed roll
	Critical                        // no counter chosen, critical
	FastCritical                    // counter prevented, critical
	Block                           // block succeeded
	BlockFail                       // block failed
	BlockFailCritical               // block failed, critical
	Evade                           // evade succeeded
	EvadeFail                       // evade failed
	EvadeFailCritical               // evade failed, critical
	Failure                         // the move failed; deltas hit the sender
)

var branchNames = [...]string{
	BranchNone:        "",
	Normal:            "normal",
	Fast:              "fast",
	Critical:          "critical",
	FastCritical:      "fastCritical",
	Block:             "block",
	BlockFail:         "blockFail",
	BlockFailCritical: "blockFailCritical",
	Evade:             "evade",
	EvadeFail:         "evadeFail",
	EvadeFailCritical: "evadeFailCritical",
	Failure:           "failure",
}

// Branches returns every resolvable branch in declaration order.
func Branches() []Branch {
	out := make([]Branch, 0, len(branchNames)-1)
	for b := Normal; b <= Failure; b++ {
		out = append(out, b)
	}
	return out
}

// String returns the convention name used in data keys, e.g. "blockFailCritical".
func (b Branch) String() string {
	if b < 0 || int(b) >= len(branchNames) {
		return "unknown"
	}
	return branchNames[b]
}

// ParseBranch maps a convention name back to its Branch.
func ParseBranch(s string) (Branch, bool) {
	for _, b := range Branches() {
		if b.String() == s {
			return b, true
		}
	}
	return BranchNone, false
}

// Fallback returns the branch whose data is used when b defines none itself:
// fast moves reuse the normal keys and fast criticals reuse the critical keys.
func (b Branch) Fallback() (Branch, bool) {
	switch b {
	case Fast:
		return Normal, true
	case FastCritical:
		return Critical, true
	default:
		return BranchNone, false
	}
}

// IsCritical reports whether b is one of the critical outcomes.
func (b Branch) IsCritical() bool {
	return b == Critical || b == FastCritical || b == BlockFailCritical || b == EvadeFailCritical
}

// Counter is a target's defensive response to an incoming move.
type Counter string

const (
	CounterNone  Counter = "none"
	CounterBlock Counter = "block"
	CounterEvade Counter = "evade"
)

// Counters returns every valid counter.
func Counters() []Counter { return []Counter{CounterNone, CounterBlock, CounterEvade} }

// Valid reports whether c is one of none, block or evade.
func (c Counter) Valid() bool {
	return c == CounterNone || c == CounterBlock || c == CounterEvade
}

// ParseCounter normalises s into a Counter.
func ParseCounter(s string) (Counter, bool) {
	c := Counter(strings.ToLower(strings.TrimSpace(s)))
	return c, c.Valid()
}

// Attributes exposes the counter to the requirement matcher.
func (c Counter) Attributes() map[string]any { return map[string]any{"name": string(c)} }

// Info describes how a move resolved. It drives conditional status effect
// chances and is handed to AIs after every exchange.
type Info struct {
	Branch  Branch
	Counter Counter  // counter the target attempted; empty when none was attempted
	LowStat stat.Key // set when the sender could not pay a cost and the move never left
}

// Fast reports whether the speed roll prevented any counter.
func (i Info) Fast() bool { return i.Branch == Fast || i.Branch == FastCritical }

// SenderFail reports whether the move failed on the sender's side.
func (i Info) SenderFail() bool { return i.Branch == Failure || i.LowStat != "" }

// CounterSucceeded reports whether an attempted block or evade held.
func (i Info) CounterSucceeded() bool { return i.Branch == Block || i.Branch == Evade }

// CounterFailed reports whether an attempted block or evade broke.
func (i Info) CounterFailed() bool {
	switch i.Branch {
	case BlockFail, BlockFailCritical, EvadeFail, EvadeFailCritical:
		return true
	}
	return false
}

// String renders the info as a compact tag list, e.g. "block/fail/critical".
func (i Info) String() string {
	if i.LowStat != "" {
		return fmt.Sprintf("senderFail/lowStats/%s", i.LowStat)
	}
	if i.Branch == Failure {
		return "senderFail/failure"
	}
	head := string(i.Counter)
	if head == "" {
		head = string(CounterNone)
	}
	if i.Fast() {
		head = "fast"
	}
	switch {
	case i.CounterSucceeded():
		return head + "/success"
	case i.CounterFailed() && i.Branch.IsCritical():
		return head + "/fail/critical"
	case i.CounterFailed():
		return head + "/fail"
	case i.Branch.IsCritical():
		return head + "/critical"
	default:
		return head + "/normal"
	}
}
