package engine

import (
	"fmt"
	"sort"

	"waterworks/internal/domain"
	"waterworks/internal/grammar"
	"waterworks/internal/units"
)

// Synchronizer translates a domain.Network to and from the engine-side
// Model. The network stays in project units; the model is always SI.
// Field writes the schema does not declare are dropped silently and
// tallied on the model.
type Synchronizer struct {
	Schema *Schema
}

// NewSynchronizer returns a synchronizer bound to schema (nil means the
// default schema).
func NewSynchronizer(schema *Schema) *Synchronizer {
	if schema == nil {
		schema = DefaultSchema()
	}
	return &Synchronizer{Schema: schema}
}

// Export builds an SI model from the network. Iteration is id-sorted so
// repeated exports of the same network are byte-identical downstream.
func (s *Synchronizer) Export(net *domain.Network) (*Model, error) {
	if net == nil {
		return nil, fmt.Errorf("export: nil network")
	}
	m := NewModel(s.Schema)
	conv := units.NewConverter(net.Options.FlowUnits)

	s.exportOptions(m, &net.Options)

	for _, id := range sortedIDs(net.Nodes) {
		s.exportNode(m, conv, net.Nodes[id])
	}
	for _, id := range sortedIDs(net.Links) {
		if err := s.exportLink(m, conv, net.Links[id]); err != nil {
			return nil, err
		}
	}
	for _, id := range sortedIDs(net.Patterns) {
		p := m.AddPattern(id)
		p.SetPatternMultipliers(net.Patterns[id].Multipliers)
	}
	for _, id := range sortedIDs(net.Curves) {
		s.exportCurve(m, conv, net.Curves[id])
	}

	// Controls and rules cross the boundary as text: the engine parses
	// its own control language, so the formatted project grammar is the
	// interchange form, not an executable object graph.
	for _, c := range net.Controls {
		m.AddControl(grammar.FormatSimpleControl(c))
	}
	for _, r := range net.Rules {
		m.AddRule(r.ID, grammar.FormatRule(r))
	}
	return m, nil
}

func (s *Synchronizer) exportOptions(m *Model, o *domain.Options) {
	e := m.Options
	e.SetText("units", string(o.FlowUnits))
	e.SetText("headloss", string(o.Headloss))
	e.SetText("quality", string(o.Quality))
	e.SetText("tracenode", o.TraceNode)
	e.SetText("statistic", o.Statistic)
	e.SetText("energypattern", o.EnergyPattern)

	e.SetNum("specgravity", o.SpecificGravity)
	e.SetNum("viscosity", o.Viscosity)
	e.SetNum("diffusivity", o.Diffusivity)
	e.SetNum("trials", float64(o.Trials))
	e.SetNum("accuracy", o.Accuracy)
	e.SetNum("demandmult", o.DemandMult)
	e.SetNum("tolerance", o.QualTolerance)
	e.SetNum("bulkorder", float64(o.BulkOrder))
	e.SetNum("wallorder", float64(o.WallOrder))
	e.SetNum("globalbulk", o.GlobalBulkCoeff)
	e.SetNum("globalwall", o.GlobalWallCoeff)
	e.SetNum("limitingpotential", o.LimitingConcen)
	e.SetNum("energyeffic", o.EnergyEffic)
	e.SetNum("energyprice", o.EnergyPrice)
	e.SetNum("demandcharge", o.DemandCharge)

	// Clock times are already seconds on both sides.
	e.SetNum("duration", float64(o.Duration))
	e.SetNum("hydstep", float64(o.HydStep))
	e.SetNum("qualstep", float64(o.QualStep))
	e.SetNum("patternstep", float64(o.PatternStep))
	e.SetNum("patternstart", float64(o.PatternStart))
	e.SetNum("reportstep", float64(o.ReportStep))
	e.SetNum("reportstart", float64(o.ReportStart))
	e.SetNum("starttime", float64(o.ClockStart))
}

func (s *Synchronizer) exportNode(m *Model, conv *units.Converter, n *domain.Node) {
	var e *Element
	switch n.Kind {
	case domain.NodeJunction:
		e = m.AddNode(ElemJunction, n.ID)
		j := n.Junction
		e.SetNum("elevation", conv.LengthToSI(n.Elevation))
		e.SetNum("basedemand", conv.FlowToSI(j.BaseDemand))
		e.SetText("demandpattern", j.DemandPattern)
		e.SetNum("emitter", j.EmitterCoeff)
		e.SetNum("initquality", j.InitQuality)
		if j.Source != nil {
			e.SetText("sourcekind", string(j.Source.Kind))
			e.SetNum("sourcequality", j.Source.Quality)
			e.SetText("sourcepattern", j.Source.Pattern)
		}
	case domain.NodeReservoir:
		e = m.AddNode(ElemReservoir, n.ID)
		e.SetNum("totalhead", conv.LengthToSI(n.Reservoir.TotalHead))
		e.SetText("headpattern", n.Reservoir.HeadPattern)
	case domain.NodeTank:
		e = m.AddNode(ElemTank, n.ID)
		t := n.Tank
		e.SetNum("elevation", conv.LengthToSI(n.Elevation))
		e.SetNum("initlevel", conv.LengthToSI(t.InitLevel))
		e.SetNum("minlevel", conv.LengthToSI(t.MinLevel))
		e.SetNum("maxlevel", conv.LengthToSI(t.MaxLevel))
		// Tank diameter is a plan dimension (ft or m), not a pipe bore.
		e.SetNum("diameter", conv.LengthToSI(t.Diameter))
		e.SetNum("minvolume", conv.VolumeToSI(t.MinVolume))
		e.SetText("volumecurve", t.VolumeCurve)
		e.SetText("mixmodel", mixingToEngine(t.Mixing))
		e.SetNum("mixfraction", t.MixingFraction)
		e.SetNum("bulkcoeff", t.BulkCoeff)
	}
	e.SetNum("x", n.X)
	e.SetNum("y", n.Y)
}

func (s *Synchronizer) exportLink(m *Model, conv *units.Converter, l *domain.Link) error {
	var e *Element
	switch l.Kind {
	case domain.LinkPipe:
		e = m.AddLink(ElemPipe, l.ID)
		p := l.Pipe
		e.SetNum("length", conv.LengthToSI(p.Length))
		e.SetNum("diameter", conv.DiameterToSI(p.Diameter))
		e.SetNum("roughness", p.Roughness)
		e.SetNum("minorloss", p.MinorLoss)
		e.SetNum("bulkcoeff", p.BulkCoeff)
		e.SetNum("wallcoeff", p.WallCoeff)
		if p.CheckValve {
			e.SetText("status", "CV")
		} else {
			e.SetText("status", statusToEngine(l.Status))
		}
	case domain.LinkPump:
		e = m.AddLink(ElemPump, l.ID)
		p := l.Pump
		e.SetText("headcurve", p.PumpCurve)
		if p.Power != 0 {
			e.SetNum("power", conv.PowerToSI(p.Power))
		}
		e.SetNum("speed", p.Speed)
		e.SetText("speedpattern", p.SpeedPattern)
		e.SetText("efficcurve", p.EfficCurve)
		e.SetNum("energyprice", p.EnergyPrice)
		e.SetText("pricepattern", p.PricePattern)
		e.SetText("status", statusToEngine(l.Status))
	case domain.LinkValve:
		e = m.AddLink(ElemValve, l.ID)
		v := l.Valve
		e.SetText("valvetype", string(v.Kind))
		e.SetNum("diameter", conv.DiameterToSI(v.Diameter))
		e.SetNum("setting", valveSettingToSI(conv, v.Kind, v.Setting))
		e.SetNum("minorloss", v.MinorLoss)
		e.SetText("status", statusToEngine(l.Status))
	default:
		return fmt.Errorf("export: link %s has unknown kind %q", l.ID, l.Kind)
	}
	e.SetText("node1", l.FromNode)
	e.SetText("node2", l.ToNode)
	return nil
}

func (s *Synchronizer) exportCurve(m *Model, conv *units.Converter, c *domain.Curve) {
	e := m.AddCurve(c.ID)
	e.SetText("curvetype", string(c.Kind))
	pts := make([]Point, len(c.Points))
	for i, p := range c.Points {
		pts[i] = convertCurvePoint(conv, c.Kind, Point{X: p.X, Y: p.Y}, true)
	}
	e.SetPoints(pts)
}

// convertCurvePoint applies the per-kind coordinate semantics: volume
// curves map level to volume, pump and headloss curves map flow to head,
// efficiency curves map flow to percent.
func convertCurvePoint(conv *units.Converter, kind domain.CurveKind, p Point, toSI bool) Point {
	length := conv.LengthToProject
	flow := conv.FlowToProject
	volume := conv.VolumeToProject
	if toSI {
		length = conv.LengthToSI
		flow = conv.FlowToSI
		volume = conv.VolumeToSI
	}
	switch kind {
	case domain.CurveVolume:
		return Point{X: length(p.X), Y: volume(p.Y)}
	case domain.CurvePump, domain.CurveHeadloss:
		return Point{X: flow(p.X), Y: length(p.Y)}
	case domain.CurveEfficiency:
		return Point{X: flow(p.X), Y: p.Y}
	default:
		return p
	}
}

// valveSettingToSI converts the setting per valve subtype: pressure
// valves carry head, flow-control valves carry flow, throttle and
// general-purpose settings are dimensionless.
func valveSettingToSI(conv *units.Converter, kind domain.ValveKind, v float64) float64 {
	switch kind {
	case domain.ValvePRV, domain.ValvePSV, domain.ValvePBV:
		return conv.PressureToSI(v)
	case domain.ValveFCV:
		return conv.FlowToSI(v)
	default:
		return v
	}
}

func valveSettingToProject(conv *units.Converter, kind domain.ValveKind, v float64) float64 {
	switch kind {
	case domain.ValvePRV, domain.ValvePSV, domain.ValvePBV:
		return conv.PressureToProject(v)
	case domain.ValveFCV:
		return conv.FlowToProject(v)
	default:
		return v
	}
}

func mixingToEngine(m domain.MixingModel) string {
	switch m {
	case domain.MixingTwoComp:
		return "2COMP"
	case domain.MixingFIFO:
		return "FIFO"
	case domain.MixingLIFO:
		return "LIFO"
	default:
		return "MIXED"
	}
}

func mixingFromEngine(s string) domain.MixingModel {
	switch s {
	case "2COMP":
		return domain.MixingTwoComp
	case "FIFO":
		return domain.MixingFIFO
	case "LIFO":
		return domain.MixingLIFO
	default:
		return domain.MixingComplete
	}
}

func statusToEngine(s domain.LinkStatus) string {
	switch s {
	case domain.StatusClosed:
		return "CLOSED"
	case domain.StatusCheckValve:
		return "CV"
	default:
		return "OPEN"
	}
}

func statusFromEngine(s string) domain.LinkStatus {
	switch s {
	case "CLOSED":
		return domain.StatusClosed
	case "CV":
		return domain.StatusCheckValve
	default:
		return domain.StatusOpen
	}
}

func sortedIDs[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for id := range m {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
