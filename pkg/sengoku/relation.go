package sengoku

// RelationType is the diplomatic status between two lords.
type RelationType string

const (
	RelationNeutral       RelationType = "neutral"
	RelationNonAggression RelationType = "non_aggression"
	RelationAlliance      RelationType = "alliance"
	RelationWar           RelationType = "war"
)

// Relation is the symmetric record for an unordered pair of lords.
type Relation struct {
	A         int          `json:"a" yaml:"a"` // lower lord id
	B         int          `json:"b" yaml:"b"`
	Value     int          `json:"value" yaml:"value"`
	Type      RelationType `json:"type" yaml:"type"`
	TurnsLeft int          `json:"turns_left" yaml:"turns_left"`
	Married   bool         `json:"married" yaml:"married"`

	WarsFought     int `json:"wars_fought" yaml:"wars_fought"`
	GiftsExchanged int `json:"gifts_exchanged" yaml:"gifts_exchanged"`
	Betrayals      int `json:"betrayals" yaml:"betrayals"`
}

// RelationKey identifies an unordered lord pair.
type RelationKey struct{ A, B int }

// PairKey normalizes a and b so the lower id comes first.
func PairKey(a, b int) RelationKey {
	if a > b {
		a, b = b, a
	}
	return RelationKey{A: a, B: b}
}

// Adjust adds delta to the relation value and clamps it.
func (r *Relation) Adjust(delta int) {
	r.Value = clamp(r.Value+delta, MinRelation, MaxRelation)
}

// HasPact reports a live alliance or non-aggression treaty.
func (r *Relation) HasPact() bool {
	return r.Type == RelationAlliance || r.Type == RelationNonAggression
}
