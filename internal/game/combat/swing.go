package combat

// Roller supplies the randomness of a swing. *dice.Roller satisfies it.
type Roller interface {
	// Crit reports whether a roll against percent is a critical hit.
	Crit(percent float64) bool
	// Damage draws a value in [lo, hi].
	Damage(lo, hi float64) float64
}

// HitResult is one target's outcome of a swing.
type HitResult struct {
	TargetID string
	// Damage is the pre-mitigation damage dealt to the target.
	Damage float64
	Crit   bool
	DamageResult
}

// ResolveSwing hit-tests every living target against ctx and applies the
// attacker's physical damage to each one touched. Damage is the attacker's
// PhysicalDamage plus a weapon roll in [MinDamage, MaxDamage], multiplied by
// CritDamage on a critical hit. Crit is rolled once per target hit.
//
// Precondition: attacker and roller must be non-nil.
// Postcondition: the result lists every target whose hitbox the swing touched,
// in targets order; a dead attacker swings at nothing.
func ResolveSwing(attacker *Entity, ctx AttackContext, targets []*Entity, roller Roller) []HitResult {
	if attacker.IsDead() {
		return nil
	}
	d := attacker.Derived()
	var out []HitResult
	for _, t := range targets {
		if t == nil || t == attacker || t.IsDead() {
			continue
		}
		if !ctx.Hits(t.Hitbox()) {
			continue
		}
		dmg := d.PhysicalDamage + roller.Damage(d.MinDamage, d.MaxDamage)
		crit := roller.Crit(d.CritChance)
		if crit {
			dmg *= d.CritDamage
		}
		res := t.ApplyHit(dmg, Physical, ctx.Origin.X)
		out = append(out, HitResult{TargetID: t.ID(), Damage: dmg, Crit: crit, DamageResult: res})
	}
	return out
}
