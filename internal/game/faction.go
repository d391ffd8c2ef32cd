package game

import "github.com/thornvale/mud/internal/storage"

// FactionTier labels a standing score for consider/hail checks. Tiers are
// ordered worst to best; a score falls in the first tier whose MaxScore
// contains it.
type FactionTier struct {
	Name     string
	MaxScore int
}

var factionTiers = []FactionTier{
	{Name: "hostile", MaxScore: -100},
	{Name: "wary", MaxScore: -10},
	{Name: "neutral", MaxScore: 10},
	{Name: "friendly", MaxScore: 100},
	{Name: "ally", MaxScore: int(^uint(0) >> 1)},
}

// FactionTierFor buckets a standing score.
func FactionTierFor(score int) FactionTier {
	for _, tier := range factionTiers {
		if score <= tier.MaxScore {
			return tier
		}
	}
	return factionTiers[len(factionTiers)-1]
}

// Hostile reports whether a standing score is at the hostile floor, at which
// point hailing provokes an attack instead of conversation.
func Hostile(score int) bool {
	return FactionTierFor(score).Name == "hostile"
}

// FactionReward is a standing change granted when a mob is defeated.
type FactionReward struct {
	FactionId storage.Identifier `json:"faction_id"`
	Score     int                `json:"score"`
}
