package dice

import "go.uber.org/zap"

// Roller wraps a Source and logger to provide logged percent checks.
// All checks are logged at debug level with label, chance, roll, and verdict.
//
// Roller is itself a Source, so code that only needs raw draws can take it
// wherever a Source is accepted.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewLoggedRoller creates a Roller that rolls with src and logs each check to logger.
//
// Precondition: src and logger must be non-nil.
func NewLoggedRoller(src Source, logger *zap.Logger) *Roller {
	return &Roller{src: src, logger: logger}
}

// Check performs a percent check and logs the result at debug level.
//
// Postcondition: returns Check(label, chance, src).Success.
func (r *Roller) Check(label string, chance float64) bool {
	res := Check(label, chance, r.src)
	r.logger.Debug("percent check",
		zap.String("label", res.Label),
		zap.Float64("chance", res.Chance),
		zap.Float64("roll", res.Roll),
		zap.Bool("success", res.Success),
	)
	return res.Success
}

// Intn delegates to the wrapped Source.
func (r *Roller) Intn(n int) int { return r.src.Intn(n) }

// Float64 delegates to the wrapped Source.
func (r *Roller) Float64() float64 { return r.src.Float64() }
