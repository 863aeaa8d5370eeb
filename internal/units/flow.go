package units

import (
	"fmt"
	"strings"
)

// FlowUnit identifies the flow-rate unit a project is expressed in.
// The flow unit also selects the project unit system for every other
// dimension: metric when the unit is one of the five SI flow units,
// US customary otherwise.
type FlowUnit string

const (
	FlowCFS  FlowUnit = "CFS"  // cubic feet / second
	FlowGPM  FlowUnit = "GPM"  // US gallons / minute
	FlowMGD  FlowUnit = "MGD"  // million US gallons / day
	FlowIMGD FlowUnit = "IMGD" // million imperial gallons / day
	FlowAFD  FlowUnit = "AFD"  // acre-feet / day
	FlowLPS  FlowUnit = "LPS"  // liters / second
	FlowLPM  FlowUnit = "LPM"  // liters / minute
	FlowMLD  FlowUnit = "MLD"  // megaliters / day
	FlowCMH  FlowUnit = "CMH"  // cubic meters / hour
	FlowCMD  FlowUnit = "CMD"  // cubic meters / day
)

// AllFlowUnits lists every supported flow unit.
var AllFlowUnits = []FlowUnit{
	FlowCFS, FlowGPM, FlowMGD, FlowIMGD, FlowAFD,
	FlowLPS, FlowLPM, FlowMLD, FlowCMH, FlowCMD,
}

// flowToCMS converts one project flow unit to cubic meters per second.
var flowToCMS = map[FlowUnit]float64{
	FlowCFS:  0.0283168,
	FlowGPM:  6.30902e-5,
	FlowMGD:  0.0438126,
	FlowIMGD: 0.0526168,
	FlowAFD:  0.0142764,
	FlowLPS:  0.001,
	FlowLPM:  1.66667e-5,
	FlowMLD:  0.0115741,
	FlowCMH:  2.77778e-4,
	FlowCMD:  1.15741e-5,
}

// Metric reports whether the unit implies the SI project unit system.
func (u FlowUnit) Metric() bool {
	switch u {
	case FlowLPS, FlowLPM, FlowMLD, FlowCMH, FlowCMD:
		return true
	}
	return false
}

// Valid reports whether the unit is one of the ten supported values.
func (u FlowUnit) Valid() bool {
	_, ok := flowToCMS[u]
	return ok
}

// ParseFlowUnit parses a flow unit token, case-insensitively.
func ParseFlowUnit(s string) (FlowUnit, error) {
	u := FlowUnit(strings.ToUpper(strings.TrimSpace(s)))
	if !u.Valid() {
		return "", fmt.Errorf("unknown flow unit %q", s)
	}
	return u, nil
}
