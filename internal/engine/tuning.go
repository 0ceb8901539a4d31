package engine

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Approximation controls a descending-threshold fuzzy search.
type Approximation struct {
	Start int `yaml:"start"`
	Min   int `yaml:"min"`
	Step  int `yaml:"step"`
}

// ActSearch controls the adaptive "l'acte" search.
type ActSearch struct {
	ThresholdStart int `yaml:"threshold_start"`
	ThresholdMin   int `yaml:"threshold_min"`
	ThresholdStep  int `yaml:"threshold_step"`

	// MinOffset is the preamble length; candidates must sit strictly after it.
	MinOffset int `yaml:"min_offset"`

	MultiplierStart     float64 `yaml:"multiplier_start"`
	MultiplierStep      float64 `yaml:"multiplier_step"`
	MultiplierCeiling   float64 `yaml:"multiplier_ceiling"`
	ConfidentMultiplier float64 `yaml:"confident_multiplier"`
}

// Patterns holds the positional windows used by the field extractor.
type Patterns struct {
	// MinNameGap: Nom - Entier must be below -MinNameGap.
	MinNameGap int `yaml:"min_name_gap"`
	// EarlyRegion bounds the sum of two anchor indexes.
	EarlyRegion int `yaml:"early_region"`
	// AbbrevWindow: Abrege - Nom must be below it.
	AbbrevWindow int `yaml:"abbrev_window"`
	// IndicatorGapMin < Nom - DEntreprise <= IndicatorGapMax.
	IndicatorGapMin int `yaml:"indicator_gap_min"`
	IndicatorGapMax int `yaml:"indicator_gap_max"`
	// AbbrevMarker is the literal token that disables the broad Pattern 2 variant.
	AbbrevMarker string `yaml:"abbrev_marker"`
	// NameMarker is the literal token that disables the broad Pattern 2 variant.
	NameMarker string `yaml:"name_marker"`
}

// Purpose holds the excerpter limits.
type Purpose struct {
	MinAccepted   int `yaml:"min_accepted"`
	FallbackWords int `yaml:"fallback_words"`
}

// Tuning is every hand-tuned constant of the extraction heuristics.
type Tuning struct {
	Keywords        map[KeywordClass]string `yaml:"keywords"`
	AnchorThreshold int                     `yaml:"anchor_threshold"`
	Abbrev          Approximation           `yaml:"abbrev_search"`
	Act             ActSearch               `yaml:"act_search"`
	Patterns        Patterns                `yaml:"patterns"`
	Purpose         Purpose                 `yaml:"purpose"`
}

// DefaultTuning returns the values the heuristics were tuned with.
func DefaultTuning() Tuning {
	return Tuning{
		Keywords: map[KeywordClass]string{
			Nom:         "Nom",
			Entier:      "entier",
			Abrege:      "abrege",
			DEntreprise: "d'entreprise",
			LActe:       "l'acte",
			Mentionner:  "mentionner",
		},
		AnchorThreshold: 55,
		Abbrev:          Approximation{Start: 80, Min: 50, Step: 5},
		Act: ActSearch{
			ThresholdStart:      100,
			ThresholdMin:        5,
			ThresholdStep:       5,
			MinOffset:           59,
			MultiplierStart:     0.6,
			MultiplierStep:      0.1,
			MultiplierCeiling:   2.0,
			ConfidentMultiplier: 2.5,
		},
		Patterns: Patterns{
			MinNameGap:      2,
			EarlyRegion:     120,
			AbbrevWindow:    10,
			IndicatorGapMin: 4,
			IndicatorGapMax: 8,
			AbbrevMarker:    "abrege",
			NameMarker:      "Nom",
		},
		Purpose: Purpose{MinAccepted: 3, FallbackWords: 10},
	}
}

// Keyword returns the reference string for class.
func (t Tuning) Keyword(class KeywordClass) string {
	return t.Keywords[class]
}

// Validate reports the first inconsistent setting.
func (t Tuning) Validate() error {
	for _, c := range AllKeywordClasses() {
		if t.Keywords[c] == "" {
			return fmt.Errorf("tuning: keyword for %s is empty", c)
		}
	}
	if t.AnchorThreshold < 0 || t.AnchorThreshold > 100 {
		return fmt.Errorf("tuning: anchor_threshold %d out of 0..100", t.AnchorThreshold)
	}
	if err := t.Abbrev.validate(); err != nil {
		return fmt.Errorf("tuning: abbrev_search: %w", err)
	}
	a := t.Act
	if a.ThresholdStep <= 0 || a.ThresholdStart < a.ThresholdMin || a.ThresholdMin <= 0 {
		return errors.New("tuning: act_search thresholds must descend to a positive minimum with a positive step")
	}
	if a.MultiplierStep <= 0 || a.MultiplierStart <= 0 || a.MultiplierCeiling < a.MultiplierStart {
		return errors.New("tuning: act_search multiplier must grow from a positive start towards the ceiling")
	}
	if t.Patterns.IndicatorGapMax < t.Patterns.IndicatorGapMin {
		return errors.New("tuning: indicator_gap_max is below indicator_gap_min")
	}
	if t.Purpose.FallbackWords <= 0 {
		return errors.New("tuning: purpose.fallback_words must be positive")
	}
	return nil
}

func (a Approximation) validate() error {
	if a.Step <= 0 {
		return errors.New("step must be positive")
	}
	if a.Start < a.Min {
		return errors.New("start is below min")
	}
	return nil
}

// LoadTuning reads a YAML file and overlays it on DefaultTuning.
// Keys absent from the file keep their default values.
func LoadTuning(path string) (Tuning, error) {
	t := DefaultTuning()
	data, err := os.ReadFile(path)
	if err != nil {
		return Tuning{}, fmt.Errorf("read tuning %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &t); err != nil {
		return Tuning{}, fmt.Errorf("parse tuning %s: %w", path, err)
	}
	return t, t.Validate()
}
