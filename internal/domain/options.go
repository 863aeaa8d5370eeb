package domain

import "waterworks/internal/units"

// HeadlossFormula selects the friction headloss formula.
type HeadlossFormula string

const (
	HeadlossHW HeadlossFormula = "H-W" // Hazen-Williams
	HeadlossDW HeadlossFormula = "D-W" // Darcy-Weisbach
	HeadlossCM HeadlossFormula = "C-M" // Chezy-Manning
)

// QualityMode selects the water-quality analysis type.
type QualityMode string

const (
	QualityNone     QualityMode = "none"
	QualityChemical QualityMode = "chemical"
	QualityAge      QualityMode = "age"
	QualityTrace    QualityMode = "trace"
)

// Options is the single global analysis configuration record. Time
// parameters are stored in whole seconds.
type Options struct {
	FlowUnits units.FlowUnit  `json:"flow_units"`
	Headloss  HeadlossFormula `json:"headloss"`

	SpecificGravity float64 `json:"specific_gravity"`
	Viscosity       float64 `json:"viscosity"`
	Trials          int     `json:"trials"`
	Accuracy        float64 `json:"accuracy"`
	Unbalanced      string  `json:"unbalanced,omitempty"`
	DefaultPattern  string  `json:"default_pattern,omitempty"`
	DemandMult      float64 `json:"demand_multiplier"`
	EmitterExponent float64 `json:"emitter_exponent"`

	Quality       QualityMode `json:"quality"`
	ChemicalName  string      `json:"chemical_name,omitempty"`
	ChemicalUnits string      `json:"chemical_units,omitempty"`
	TraceNode     string      `json:"trace_node,omitempty"`
	Diffusivity   float64     `json:"diffusivity"`
	QualTolerance float64     `json:"qual_tolerance"`

	BulkOrder       int     `json:"bulk_order"`
	WallOrder       int     `json:"wall_order"`
	TankOrder       int     `json:"tank_order"`
	GlobalBulkCoeff float64 `json:"global_bulk_coeff"`
	GlobalWallCoeff float64 `json:"global_wall_coeff"`
	LimitingConcen  float64 `json:"limiting_concen,omitempty"`
	RoughnessCorrel float64 `json:"roughness_correl,omitempty"`

	Duration     int `json:"duration"`      // seconds
	HydStep      int `json:"hyd_step"`      // seconds
	QualStep     int `json:"qual_step"`     // seconds
	PatternStep  int `json:"pattern_step"`  // seconds
	PatternStart int `json:"pattern_start"` // seconds
	ReportStep   int `json:"report_step"`   // seconds
	ReportStart  int `json:"report_start"`  // seconds
	RuleStep     int `json:"rule_step"`     // seconds
	ClockStart   int `json:"clock_start"`   // seconds past midnight
	Statistic    string `json:"statistic,omitempty"`

	EnergyEffic   float64 `json:"energy_effic"`
	EnergyPrice   float64 `json:"energy_price"`
	EnergyPattern string  `json:"energy_pattern,omitempty"`
	DemandCharge  float64 `json:"demand_charge"`
}

// DefaultOptions returns the options a new project starts with: GPM flow
// units, Hazen-Williams headloss, a 24 hour single-period analysis.
func DefaultOptions() Options {
	return Options{
		FlowUnits:       units.FlowGPM,
		Headloss:        HeadlossHW,
		SpecificGravity: 1.0,
		Viscosity:       1.0,
		Trials:          40,
		Accuracy:        0.001,
		Unbalanced:      "CONTINUE 10",
		DemandMult:      1.0,
		EmitterExponent: 0.5,
		Quality:         QualityNone,
		Diffusivity:     1.0,
		QualTolerance:   0.01,
		BulkOrder:       1,
		WallOrder:       1,
		TankOrder:       1,
		Duration:        24 * 3600,
		HydStep:         3600,
		QualStep:        300,
		PatternStep:     3600,
		ReportStep:      3600,
		RuleStep:        360,
		EnergyEffic:     75.0,
	}
}
