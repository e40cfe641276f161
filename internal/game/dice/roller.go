package dice

import "go.uber.org/zap"

// Roller wraps a Source and logger to provide logged rolls.
// All rolls are logged at debug level with their inputs and outcome.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewLoggedRoller creates a Roller that rolls with src and logs each roll to logger.
//
// Precondition: src and logger must be non-nil.
func NewLoggedRoller(src Source, logger *zap.Logger) *Roller {
	return &Roller{src: src, logger: logger}
}

// Crit rolls a critical hit against percent and logs the result.
//
// Postcondition: result logged; returns Chance(src, percent).
func (r *Roller) Crit(percent float64) bool {
	crit := Chance(r.src, percent)
	r.logger.Debug("crit roll",
		zap.Float64("chance", percent),
		zap.Bool("crit", crit),
	)
	return crit
}

// Damage draws weapon damage in [lo, hi] and logs the result.
//
// Postcondition: result logged; returns Between(src, lo, hi).
func (r *Roller) Damage(lo, hi float64) float64 {
	v := Between(r.src, lo, hi)
	r.logger.Debug("damage roll",
		zap.Float64("min", lo),
		zap.Float64("max", hi),
		zap.Float64("rolled", v),
	)
	return v
}
