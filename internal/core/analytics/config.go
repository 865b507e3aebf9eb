// Package analytics holds the deterministic scoring, weekly rollup and
// recommendation rules. Nothing in here performs I/O.
package analytics

import (
	"errors"
	"math"
)

var (
	ErrInvalidTarget  = errors.New("target focus hours must be positive")
	ErrWeightsSum     = errors.New("scoring weights must sum to 1")
	ErrNegativeWeight = errors.New("scoring weights cannot be negative")
)

// Weights blend the three day components into the productivity score.
type Weights struct {
	Tasks  float64
	Focus  float64
	Energy float64
}

// EnergyBonus maps the reported energy level to a 0..1 component.
// Medium is also used when no energy level was reported.
type EnergyBonus struct {
	High   float64
	Medium float64
	Low    float64
}

// BurnoutThresholds are day counts within the week; either count reaching a level is enough.
type BurnoutThresholds struct {
	HighLowEnergyDays   int
	HighBadMoodDays     int
	MediumLowEnergyDays int
	MediumBadMoodDays   int
}

// RuleThresholds hold the trigger points of the recommendation rules.
type RuleThresholds struct {
	MinConsistency      int
	ChronicSleepHours   float64
	AdequateSleepHours  float64
	TaskOverload        int
	LowProductivity     int
	HighProductivity    int
	MinWeeklyFocusHours float64
	MorningPeakDays     int
}

// SleepTargets are the suggested nightly hours reported with a recommendation.
type SleepTargets struct {
	Default  float64
	Recovery float64
	Moderate float64
}

// Config carries every tunable of the scoring and the rules.
type Config struct {
	TargetFocusHours float64
	Weights          Weights
	EnergyBonus      EnergyBonus
	Burnout          BurnoutThresholds
	Rules            RuleThresholds
	Sleep            SleepTargets
}

// DefaultConfig returns the stock thresholds: a 6h focus target and 0.5/0.3/0.2 weights.
func DefaultConfig() Config {
	return Config{
		TargetFocusHours: 6,
		Weights: Weights{
			Tasks:  0.5,
			Focus:  0.3,
			Energy: 0.2,
		},
		EnergyBonus: EnergyBonus{
			High:   1,
			Medium: 0.5,
			Low:    0.2,
		},
		Burnout: BurnoutThresholds{
			HighLowEnergyDays:   4,
			HighBadMoodDays:     3,
			MediumLowEnergyDays: 2,
			MediumBadMoodDays:   2,
		},
		Rules: RuleThresholds{
			MinConsistency:      50,
			ChronicSleepHours:   6,
			AdequateSleepHours:  7,
			TaskOverload:        10,
			LowProductivity:     40,
			HighProductivity:    75,
			MinWeeklyFocusHours: 20,
			MorningPeakDays:     3,
		},
		Sleep: SleepTargets{
			Default:  8,
			Recovery: 8,
			Moderate: 7.5,
		},
	}
}

// Validate rejects a non-positive focus target and weights that are negative or do not sum to 1.
func (c Config) Validate() error {
	if c.TargetFocusHours <= 0 || math.IsNaN(c.TargetFocusHours) {
		return ErrInvalidTarget
	}
	w := c.Weights
	if w.Tasks < 0 || w.Focus < 0 || w.Energy < 0 {
		return ErrNegativeWeight
	}
	if math.Abs(w.Tasks+w.Focus+w.Energy-1) > 1e-9 {
		return ErrWeightsSum
	}
	return nil
}

// roundHalfUp rounds to the nearest integer with .5 going up.
func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}
