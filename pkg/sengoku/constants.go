package sengoku

// Economy.
const (
	BaseRiceProduction = 100
	BaseTaxIncome      = 50
	MinTaxRate         = 10
	MaxTaxRate         = 90
	DefaultTaxRate     = 50

	CultivationCost           = 200
	CultivationLoyaltyPenalty = 15
	TownDevelopmentCost       = 300
	FloodControlCost          = 150
	FloodControlIncrement     = 20
	GiveRiceAmount            = 100

	MaxDevelopmentLevel = 10
	MaxTownLevel        = 10
	MaxFloodControl     = 100

	RiceToGoldRate = 2.0 // rice per gold
	GoldToRiceRate = 1.5 // rice per gold
)

// Military.
const (
	SoldierCost        = 2 // gold per recruited soldier
	RiceUpkeepPerTroop = 1
	TrainingCost       = 150
	TrainingFactor     = 1.2
	MaxTraining        = 2.0
	ArmySupplyTurns    = 10

	RecruitLoyaltyPenalty = 5
	ArmyMinMorale         = 30
	ArmyShortSupplyMorale = 20
)

// Loyalty and morale.
const (
	LoyaltyDecayRate        = -2
	TaxLoyaltyPenalty       = -0.5 // per tax point above DefaultTaxRate
	HighLoyaltyThreshold    = 80
	HighLoyaltyRiceBonus    = 1.1
	RevoltThreshold         = 20
	UnrestWarningLoyalty    = 30
	UnrestWarningDrop       = 20
	GovernorPoliticsBonus   = 2
	GovernorPoliticsMinimum = 70

	LowRiceMoralePenalty = -10
	MoraleDecayRate      = -1
	VictoryMoraleBoost   = 10
	DefeatMoralePenalty  = -20

	CaptureLoyaltyPenalty = 30
	CaptureLoyaltyFloor   = 20
)

// Diplomacy.
const (
	GiftGoldAmount         = 500
	GiftRelationBonus      = 10
	WarRelationPenalty     = -30
	BetrayalPenalty        = -50
	AllianceThreshold      = 50
	NonAggressionThreshold = 20
	TreatyDuration         = 8
	MarriageRelationBonus  = 20
	MinRelation            = -100
	MaxRelation            = 100
)

// Transfer caps, per command.
const (
	MaxSoldierTransfer = 100
	MaxGoldTransfer    = 500
	MaxRiceTransfer    = 300
	MinGarrison        = 10
)

// Combat.
const (
	MaxCombatRounds     = 10
	ExpeditionPenalty   = 0.8
	AttackDamageMin     = 0.13
	AttackDamageMax     = 0.22
	DefenseDamageMin    = 0.10
	DefenseDamageMax    = 0.17
	RetreatThreshold    = 0.3
	RetreatChance       = 0.3
	CastleDefenseWeight = 0.2

	InfantryPower = 1.0
	CavalryPower  = 1.5
	ArcherPower   = 1.2
)

// Turn engine.
const (
	StartYear            = 1560
	SeasonsPerYear       = 4
	StatsReportInterval  = 20
	AIActionDelaySeconds = 0.5
	VictoryTurnLimit     = 100
)

// AttackRatioOptions are the dispatch fractions offered to the player.
var AttackRatioOptions = []float64{0.25, 0.5, 0.75, 1.0}

// Entity id ranges. Governor ids below GeneralIDBase name a lord.
const (
	MinLordID     = 1
	MaxLordID     = 99
	GeneralIDBase = 100
)

// Province defaults applied when static data omits a value.
const (
	DefaultMaxPeasants   = 8000
	DefaultLoyalty       = 50
	DefaultSoldiers      = 200
	DefaultMorale        = 70
	DefaultGold          = 500
	DefaultRice          = 300
	DefaultDevelopment   = 3
	DefaultTownLevel     = 2
	DefaultFloodControl  = 40
	DefaultCastleDefense = 50

	DefaultLordAge        = 30
	DefaultLordHealth     = 90
	DefaultGeneralAge     = 25
	DefaultGeneralLoyalty = 70
	RecruitedLoyalty      = 60
	MinRecruitmentCost    = 100
	MaxRecruitmentCost    = 300
)
