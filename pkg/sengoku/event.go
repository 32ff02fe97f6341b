package sengoku

import (
	"fmt"
	"slices"
	"strings"
)

// Effect keys understood by ApplyEvent. Loss keys carry negative values.
const (
	EffectRiceMultiplier     = "rice_multiplier"
	EffectRice               = "rice"
	EffectGold               = "gold"
	EffectPeasantLoss        = "peasant_loss"
	EffectPeasants           = "peasants"
	EffectSoldierLoss        = "soldier_loss"
	EffectSoldiers           = "soldiers"
	EffectSoldierLossPercent = "soldier_loss_percent"
	EffectLoyaltyChange      = "loyalty_change"
	EffectDevelopmentLevel   = "development_level"
	EffectTownLevel          = "town_level"
)

var knownEffects = []string{
	EffectRiceMultiplier, EffectRice, EffectGold, EffectPeasantLoss, EffectPeasants,
	EffectSoldierLoss, EffectSoldiers, EffectSoldierLossPercent, EffectLoyaltyChange,
	EffectDevelopmentLevel, EffectTownLevel,
}

// Effects maps an effect key to its numeric delta or multiplier.
type Effects map[string]float64

func (e Effects) clone() Effects {
	out := make(Effects, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}

// TriggerConditions restrict an event to provinces in a given condition.
// Nil fields are unchecked.
type TriggerConditions struct {
	LoyaltyMax   *int `json:"peasant_loyalty_max,omitempty" yaml:"peasant_loyalty_max,omitempty"`
	LoyaltyMin   *int `json:"peasant_loyalty_min,omitempty" yaml:"peasant_loyalty_min,omitempty"`
	TownLevelMin *int `json:"town_level_min,omitempty" yaml:"town_level_min,omitempty"`
	SoldiersMax  *int `json:"soldiers_max,omitempty" yaml:"soldiers_max,omitempty"`
}

func (c TriggerConditions) match(p *Province) bool {
	if c.LoyaltyMax != nil && p.Loyalty > *c.LoyaltyMax {
		return false
	}
	if c.LoyaltyMin != nil && p.Loyalty < *c.LoyaltyMin {
		return false
	}
	if c.TownLevelMin != nil && p.TownLevel < *c.TownLevelMin {
		return false
	}
	if c.SoldiersMax != nil && p.Soldiers > *c.SoldiersMax {
		return false
	}
	return true
}

// Mitigation dampens an event's losses when a province attribute is high enough.
type Mitigation struct {
	Attribute       string  `json:"attribute" yaml:"attribute"`
	Threshold       int     `json:"threshold" yaml:"threshold"`
	ReductionFactor float64 `json:"reduction_factor" yaml:"reduction_factor"`
}

// Cost is paid from the affected province when a choice is taken.
type Cost struct {
	Gold int `json:"gold,omitempty" yaml:"gold,omitempty"`
	Rice int `json:"rice,omitempty" yaml:"rice,omitempty"`
}

// EventChoice is one option offered for an event.
type EventChoice struct {
	ID               string  `json:"id" yaml:"id"`
	Text             string  `json:"text" yaml:"text"`
	Cost             Cost    `json:"cost" yaml:"cost"`
	Effect           Effects `json:"effect" yaml:"effect"`
	RecruitGeneral   int     `json:"recruit_general,omitempty" yaml:"recruit_general,omitempty"`
	AssignToProvince bool    `json:"assign_to_province,omitempty" yaml:"assign_to_province,omitempty"`
}

// EventDef is a static event definition. Definitions are never mutated.
type EventDef struct {
	ID                 string            `json:"id" yaml:"id"`
	Category           string            `json:"type" yaml:"type"`
	Name               string            `json:"name" yaml:"name"`
	Description        string            `json:"description" yaml:"description"`
	Probability        float64           `json:"probability" yaml:"probability"`
	SeasonRestriction  []string          `json:"season_restriction,omitempty" yaml:"season_restriction,omitempty"`
	TerrainRestriction []Terrain         `json:"terrain_restriction,omitempty" yaml:"terrain_restriction,omitempty"`
	Triggers           TriggerConditions `json:"trigger_conditions" yaml:"trigger_conditions"`
	Effects            Effects           `json:"effects" yaml:"effects"`
	Mitigation         *Mitigation       `json:"mitigation,omitempty" yaml:"mitigation,omitempty"`
	Choices            []EventChoice     `json:"choices,omitempty" yaml:"choices,omitempty"`
}

// Text renders the description for a province.
func (e *EventDef) Text(p *Province) string {
	return strings.ReplaceAll(e.Description, "{province_name}", p.Name)
}

// Choice returns the choice with id, or nil.
func (e *EventDef) Choice(id string) *EventChoice {
	for i := range e.Choices {
		if e.Choices[i].ID == id {
			return &e.Choices[i]
		}
	}
	return nil
}

func (e *EventDef) validate() error {
	if e.ID == "" {
		return fmt.Errorf("event without id")
	}
	if e.Probability < 0 || e.Probability > 1 {
		return fmt.Errorf("event %s: probability %v out of range", e.ID, e.Probability)
	}
	for _, s := range e.SeasonRestriction {
		if _, ok := ParseSeason(s); !ok {
			return fmt.Errorf("event %s: unknown season %q", e.ID, s)
		}
	}
	for _, t := range e.TerrainRestriction {
		if !t.Valid() {
			return fmt.Errorf("event %s: unknown terrain %q", e.ID, t)
		}
	}
	check := func(eff Effects) error {
		for k := range eff {
			if !slices.Contains(knownEffects, k) {
				return fmt.Errorf("event %s: unknown effect %q", e.ID, k)
			}
		}
		return nil
	}
	if err := check(e.Effects); err != nil {
		return err
	}
	for _, c := range e.Choices {
		if c.ID == "" {
			return fmt.Errorf("event %s: choice without id", e.ID)
		}
		if err := check(c.Effect); err != nil {
			return err
		}
	}
	return nil
}

// EventCatalog holds the loaded definitions in file order.
type EventCatalog struct {
	Events []EventDef `json:"events" yaml:"events"`
}

// Get returns the event with id, or nil.
func (c *EventCatalog) Get(id string) *EventDef {
	if c == nil {
		return nil
	}
	for i := range c.Events {
		if c.Events[i].ID == id {
			return &c.Events[i]
		}
	}
	return nil
}

// PendingChoice is an event on a player province awaiting a decision.
type PendingChoice struct {
	EventID    string `json:"event_id" yaml:"event_id"`
	ProvinceID int    `json:"province_id" yaml:"province_id"`
	Turn       int    `json:"turn" yaml:"turn"`
}

// EventRecord is one entry of the event history.
type EventRecord struct {
	Turn       int     `json:"turn" yaml:"turn"`
	Season     string  `json:"season" yaml:"season"`
	EventID    string  `json:"event_id" yaml:"event_id"`
	ProvinceID int     `json:"province_id" yaml:"province_id"`
	Choice     string  `json:"choice,omitempty" yaml:"choice,omitempty"`
	Effects    Effects `json:"effects" yaml:"effects"`
}
