package game

import (
	"math"
	"time"
)

// Dice rolls a uniform integer in [1, sides]. Injected so combat outcomes
// are reproducible in tests.
type Dice func(sides int) int

// MissChance computes the probability an attack misses. Within
// MissEvenMaxDelta levels the even-match numbers apply; past that the
// steeper uneven ones do. The signed delta (defender minus attacker) scales
// both, so hitting up is harder than hitting down.
func MissChance(t *Tuning, attackerLevel, defenderLevel int) float64 {
	delta := defenderLevel - attackerLevel
	var chance float64
	if delta >= -t.MissEvenMaxDelta && delta <= t.MissEvenMaxDelta {
		chance = t.MissEvenBase + t.MissEvenScale*float64(delta)
	} else {
		chance = t.MissUnevenBase + t.MissUnevenScale*float64(delta)
	}
	if chance < 0 {
		return 0
	}
	if chance > 0.95 {
		return 0.95
	}
	return chance
}

// WillHit resolves an attack roll against the miss chance. roll is a
// uniform sample in [0, 1).
func WillHit(t *Tuning, roll float64, attackerLevel, defenderLevel int) bool {
	return roll >= MissChance(t, attackerLevel, defenderLevel)
}

// RollDamage is the damage die plus weapon damage plus half the attacker's
// level, rounded down.
func RollDamage(t *Tuning, dice Dice, attacker *Character) int {
	weaponDamage := 0
	if w := attacker.Weapon(); w != nil {
		weaponDamage = w.Tmpl.Damage
	}
	return dice(t.DamageDieSides) + weaponDamage + attacker.Level/2
}

// NextAttackDelay is the attacker's cadence: the equipped weapon's delay,
// or the unarmed melee delay.
func NextAttackDelay(t *Tuning, attacker *Character) time.Duration {
	if w := attacker.Weapon(); w != nil {
		if d := w.Tmpl.AttackDelay(); d > 0 {
			return d
		}
	}
	return t.MeleeDelay
}

// ExperienceReward is the kill reward: base per-level experience scaled by
// the threat tier for the level delta. Trivial kills are worth exactly zero.
func ExperienceReward(t *Tuning, attackerLevel, targetLevel int) int {
	base := targetLevel*t.ExperiencePerLevel + t.ExperiencePerMob
	tier := ThreatFor(attackerLevel, targetLevel)
	return int(float64(base) * tier.Multiplier)
}

// ExperienceLevel is the largest level L whose threshold the experience
// total strictly exceeds, with a floor of level 1. The threshold for level
// L is ExperienceLevelBase * L^ExperienceLevelCurve.
func ExperienceLevel(t *Tuning, experience int) int {
	level := 1
	for {
		next := level + 1
		threshold := float64(t.ExperienceLevelBase) * math.Pow(float64(next), t.ExperienceLevelCurve)
		if float64(experience) <= threshold {
			return level
		}
		level = next
	}
}

// MaxHealth derives a character's health ceiling from base health, stamina,
// and level.
func MaxHealth(c *Character) int {
	return c.HealthBase + c.EffectiveStamina()*c.Level/10
}

// MaxWeight derives carry capacity from effective strength.
func MaxWeight(t *Tuning, c *Character) int {
	return c.EffectiveStrength() * t.StrengthMultiplier
}
