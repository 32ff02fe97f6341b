package bot

import (
	"github.com/rs/zerolog/log"

	"github.com/freeeve/sengoku/api/pkg/sengoku"
)

// Strategy decides actions for a computer lord. It plugs straight into the
// turn engine as its planner.
type Strategy interface {
	sengoku.Planner
	Name() string
}

// Difficulty levels accepted by StrategyForDifficulty.
const (
	DifficultyNormal     = "normal"
	DifficultyAggressive = "aggressive"
	DifficultyPassive    = "passive"
)

// StrategyForDifficulty returns the appropriate strategy for a difficulty level.
func StrategyForDifficulty(difficulty string) Strategy {
	switch difficulty {
	case DifficultyAggressive:
		return &AggressiveStrategy{}
	case DifficultyPassive:
		return &PassiveStrategy{}
	case DifficultyNormal, "":
		return &HeuristicStrategy{}
	default:
		log.Warn().Str("difficulty", difficulty).Msg("Unknown AI difficulty, using normal")
		return &HeuristicStrategy{}
	}
}

// ValidDifficulty reports whether difficulty names a strategy.
func ValidDifficulty(difficulty string) bool {
	switch difficulty {
	case DifficultyNormal, DifficultyAggressive, DifficultyPassive:
		return true
	}
	return false
}

// --- PassiveStrategy ---

// PassiveStrategy posts governors and otherwise does nothing. Useful as a
// punching bag in tests and arena runs.
type PassiveStrategy struct{}

func (PassiveStrategy) Name() string { return DifficultyPassive }

func (PassiveStrategy) AssignGenerals(gs *sengoku.GameState, lordID int) []sengoku.AssignGeneralCmd {
	return assignGenerals(gs, lordID)
}

func (PassiveStrategy) PlanProvince(*sengoku.GameState, int, *sengoku.Province, *sengoku.Rand) sengoku.Command {
	return nil
}

// --- AggressiveStrategy ---

// AggressiveStrategy always tries military first, then internal affairs,
// then transfers. It never draws a category at random.
type AggressiveStrategy struct{}

func (AggressiveStrategy) Name() string { return DifficultyAggressive }

func (AggressiveStrategy) AssignGenerals(gs *sengoku.GameState, lordID int) []sengoku.AssignGeneralCmd {
	return assignGenerals(gs, lordID)
}

func (AggressiveStrategy) PlanProvince(gs *sengoku.GameState, lordID int, p *sengoku.Province, rng *sengoku.Rand) sengoku.Command {
	if p.Loyalty < lowLoyalty && p.Rice >= sengoku.GiveRiceAmount {
		return sengoku.GiveRiceCmd{Province: p.ID}
	}
	for _, c := range fallbackOrder {
		if cmd := planCategory(gs, lordID, p, rng, c); cmd != nil {
			return cmd
		}
	}
	return nil
}
