package units

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestConversionProperties verifies the conversion contract over randomly
// drawn finite values rather than a fixed grid.
func TestConversionProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	genUnit := gen.OneConstOf(
		FlowCFS, FlowGPM, FlowMGD, FlowIMGD, FlowAFD,
		FlowLPS, FlowLPM, FlowMLD, FlowCMH, FlowCMD,
	)
	genValue := gen.Float64Range(-1e9, 1e9)

	properties.Property("flow round trip recovers the input", prop.ForAll(
		func(u FlowUnit, v float64) bool {
			c := NewConverter(u)
			return approxEq(c.FlowToProject(c.FlowToSI(v)), v)
		},
		genUnit,
		genValue,
	))

	properties.Property("diameter round trip recovers the input", prop.ForAll(
		func(u FlowUnit, v float64) bool {
			c := NewConverter(u)
			return approxEq(c.DiameterToProject(c.DiameterToSI(v)), v)
		},
		genUnit,
		genValue,
	))

	properties.Property("SI conversions are linear", prop.ForAll(
		func(u FlowUnit, v float64) bool {
			c := NewConverter(u)
			return approxEq(c.LengthToSI(2*v), 2*c.LengthToSI(v)) &&
				approxEq(c.FlowToSI(2*v), 2*c.FlowToSI(v))
		},
		genUnit,
		genValue,
	))

	properties.Property("metric converters leave length unchanged", prop.ForAll(
		func(v float64) bool {
			c := NewConverter(FlowLPS)
			return c.LengthToSI(v) == v
		},
		genValue,
	))

	properties.TestingRun(t)
}

func approxEq(a, b float64) bool {
	if a == b {
		return true
	}
	denom := math.Max(math.Abs(a), math.Abs(b))
	if denom == 0 {
		return true
	}
	return math.Abs(a-b)/denom < 1e-9
}
