package game

import "time"

// Tuning holds the simulation's balance constants. One instance is shared by
// the resolver and the scheduler so isolated worlds can tune independently.
type Tuning struct {
	// Experience level curve: level L is reached once experience exceeds
	// ExperienceLevelBase * L^ExperienceLevelCurve.
	ExperienceLevelBase  int
	ExperienceLevelCurve float64

	// Kill rewards: target level * ExperiencePerLevel + ExperiencePerMob,
	// scaled by the threat tier multiplier.
	ExperiencePerLevel int
	ExperiencePerMob   int

	// Miss chance: within MissEvenMaxDelta levels the even-match numbers
	// apply, otherwise the uneven ones. The signed level delta scales both.
	MissEvenMaxDelta int
	MissEvenBase     float64
	MissEvenScale    float64
	MissUnevenBase   float64
	MissUnevenScale  float64

	// DamageDieSides bounds the uniform damage roll.
	DamageDieSides int

	// MeleeDelay is the unarmed attack cadence; weapons carry their own.
	MeleeDelay time.Duration

	PlayerRespawnDelay time.Duration
	DecayWindow        time.Duration

	// PersistInterval spaces the periodic character flushes; zero disables
	// them, leaving only the flush on disconnect.
	PersistInterval time.Duration

	// StrengthMultiplier converts effective strength into carry capacity.
	StrengthMultiplier int
}

func DefaultTuning() *Tuning {
	return &Tuning{
		ExperienceLevelBase:  1000,
		ExperienceLevelCurve: 3,
		ExperiencePerLevel:   5,
		ExperiencePerMob:     50,
		MissEvenMaxDelta:     3,
		MissEvenBase:         0.05,
		MissEvenScale:        0.01,
		MissUnevenBase:       0.2,
		MissUnevenScale:      0.03,
		DamageDieSides:       20,
		MeleeDelay:           2 * time.Second,
		PlayerRespawnDelay:   10 * time.Second,
		DecayWindow:          60 * time.Second,
		PersistInterval:      30 * time.Second,
		StrengthMultiplier:   10,
	}
}

// ThreatTier is one bucket of the level-delta table that scales experience
// rewards. Tiers are ordered from trivial through impossible; a fight is in
// the first tier whose MaxDelta is >= target level minus attacker level.
type ThreatTier struct {
	Name       string
	MaxDelta   int
	Multiplier float64
}

var threatTiers = []ThreatTier{
	{Name: "trivial", MaxDelta: -10, Multiplier: 0},
	{Name: "easy", MaxDelta: -1, Multiplier: 0.5},
	{Name: "even", MaxDelta: 0, Multiplier: 1},
	{Name: "difficult", MaxDelta: 1, Multiplier: 1.5},
	{Name: "impossible", MaxDelta: 3, Multiplier: 2},
}

// ThreatFor buckets the level delta between attacker and target. Deltas past
// the table's end clamp to the last tier.
func ThreatFor(attackerLevel, targetLevel int) ThreatTier {
	delta := targetLevel - attackerLevel
	for _, tier := range threatTiers {
		if delta <= tier.MaxDelta {
			return tier
		}
	}
	return threatTiers[len(threatTiers)-1]
}
