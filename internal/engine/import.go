package engine

import (
	"fmt"

	"waterworks/internal/domain"
	"waterworks/internal/grammar"
	"waterworks/internal/units"
)

// ImportStats summarizes what a model import dropped on the floor.
// Unparseable control text is dropped rather than failing the import:
// the model may have been produced by a different tool with grammar
// extensions this project does not speak.
type ImportStats struct {
	DroppedControls int
	DroppedRules    int
}

// Import rebuilds a domain.Network from an engine model. The model's
// options element is read first so the rest of the import converts into
// the right project unit system.
func (s *Synchronizer) Import(m *Model) (*domain.Network, *ImportStats, error) {
	if m == nil {
		return nil, nil, fmt.Errorf("import: nil model")
	}
	net := domain.NewNetwork()
	stats := &ImportStats{}

	importOptions(m.Options, &net.Options)
	conv := units.NewConverter(net.Options.FlowUnits)

	for _, e := range m.Nodes {
		n, err := importNode(conv, e)
		if err != nil {
			return nil, nil, err
		}
		if err := net.AddNode(n); err != nil {
			return nil, nil, fmt.Errorf("import node %s: %w", e.ID, err)
		}
	}
	for _, e := range m.Links {
		l, err := importLink(conv, e)
		if err != nil {
			return nil, nil, err
		}
		if err := net.AddLink(l); err != nil {
			return nil, nil, fmt.Errorf("import link %s: %w", e.ID, err)
		}
	}
	for _, e := range m.Patterns {
		pat := &domain.Pattern{ID: e.ID, Multipliers: e.PatternMultipliers()}
		if err := net.AddPattern(pat); err != nil {
			return nil, nil, fmt.Errorf("import pattern %s: %w", e.ID, err)
		}
	}
	for _, e := range m.Curves {
		c := importCurve(conv, e)
		if err := net.AddCurve(c); err != nil {
			return nil, nil, fmt.Errorf("import curve %s: %w", e.ID, err)
		}
	}

	for _, e := range m.Controls {
		text, _ := e.Text("text")
		ctl, err := grammar.ParseSimpleControl(text)
		if err != nil {
			stats.DroppedControls++
			continue
		}
		net.Controls = append(net.Controls, ctl)
	}
	for _, e := range m.Rules {
		text, _ := e.Text("text")
		rule, err := grammar.ParseRule(text)
		if err != nil {
			stats.DroppedRules++
			continue
		}
		net.Rules = append(net.Rules, rule)
	}
	return net, stats, nil
}

func importOptions(e *Element, o *domain.Options) {
	if u, err := units.ParseFlowUnit(e.TextOr("units", "")); err == nil {
		o.FlowUnits = u
	}
	switch e.TextOr("headloss", "") {
	case string(domain.HeadlossDW):
		o.Headloss = domain.HeadlossDW
	case string(domain.HeadlossCM):
		o.Headloss = domain.HeadlossCM
	case string(domain.HeadlossHW):
		o.Headloss = domain.HeadlossHW
	}
	switch domain.QualityMode(e.TextOr("quality", "")) {
	case domain.QualityChemical, domain.QualityAge, domain.QualityTrace, domain.QualityNone:
		o.Quality = domain.QualityMode(e.TextOr("quality", ""))
	}
	o.TraceNode = e.TextOr("tracenode", o.TraceNode)
	o.Statistic = e.TextOr("statistic", o.Statistic)
	o.EnergyPattern = e.TextOr("energypattern", o.EnergyPattern)

	o.SpecificGravity = e.NumOr("specgravity", o.SpecificGravity)
	o.Viscosity = e.NumOr("viscosity", o.Viscosity)
	o.Diffusivity = e.NumOr("diffusivity", o.Diffusivity)
	o.Trials = int(e.NumOr("trials", float64(o.Trials)))
	o.Accuracy = e.NumOr("accuracy", o.Accuracy)
	o.DemandMult = e.NumOr("demandmult", o.DemandMult)
	o.QualTolerance = e.NumOr("tolerance", o.QualTolerance)
	o.BulkOrder = int(e.NumOr("bulkorder", float64(o.BulkOrder)))
	o.WallOrder = int(e.NumOr("wallorder", float64(o.WallOrder)))
	o.GlobalBulkCoeff = e.NumOr("globalbulk", o.GlobalBulkCoeff)
	o.GlobalWallCoeff = e.NumOr("globalwall", o.GlobalWallCoeff)
	o.LimitingConcen = e.NumOr("limitingpotential", o.LimitingConcen)
	o.EnergyEffic = e.NumOr("energyeffic", o.EnergyEffic)
	o.EnergyPrice = e.NumOr("energyprice", o.EnergyPrice)
	o.DemandCharge = e.NumOr("demandcharge", o.DemandCharge)

	o.Duration = int(e.NumOr("duration", float64(o.Duration)))
	o.HydStep = int(e.NumOr("hydstep", float64(o.HydStep)))
	o.QualStep = int(e.NumOr("qualstep", float64(o.QualStep)))
	o.PatternStep = int(e.NumOr("patternstep", float64(o.PatternStep)))
	o.PatternStart = int(e.NumOr("patternstart", float64(o.PatternStart)))
	o.ReportStep = int(e.NumOr("reportstep", float64(o.ReportStep)))
	o.ReportStart = int(e.NumOr("reportstart", float64(o.ReportStart)))
	o.ClockStart = int(e.NumOr("starttime", float64(o.ClockStart)))
}

func importNode(conv *units.Converter, e *Element) (*domain.Node, error) {
	var n *domain.Node
	switch e.Kind {
	case ElemJunction:
		n = domain.NewJunction(e.ID)
		j := n.Junction
		n.Elevation = conv.LengthToProject(e.NumOr("elevation", 0))
		j.BaseDemand = conv.FlowToProject(e.NumOr("basedemand", 0))
		j.DemandPattern = e.TextOr("demandpattern", "")
		j.EmitterCoeff = e.NumOr("emitter", 0)
		j.InitQuality = e.NumOr("initquality", 0)
		if kind, ok := e.Text("sourcekind"); ok && kind != "" {
			j.Source = &domain.Source{
				Kind:    domain.SourceKind(kind),
				Quality: e.NumOr("sourcequality", 0),
				Pattern: e.TextOr("sourcepattern", ""),
			}
		}
	case ElemReservoir:
		n = domain.NewReservoir(e.ID)
		n.Reservoir.TotalHead = conv.LengthToProject(e.NumOr("totalhead", 0))
		n.Reservoir.HeadPattern = e.TextOr("headpattern", "")
	case ElemTank:
		n = domain.NewTank(e.ID)
		t := n.Tank
		n.Elevation = conv.LengthToProject(e.NumOr("elevation", 0))
		t.InitLevel = conv.LengthToProject(e.NumOr("initlevel", 0))
		t.MinLevel = conv.LengthToProject(e.NumOr("minlevel", 0))
		t.MaxLevel = conv.LengthToProject(e.NumOr("maxlevel", 0))
		t.Diameter = conv.LengthToProject(e.NumOr("diameter", 0))
		t.MinVolume = conv.VolumeToProject(e.NumOr("minvolume", 0))
		t.VolumeCurve = e.TextOr("volumecurve", "")
		t.Mixing = mixingFromEngine(e.TextOr("mixmodel", "MIXED"))
		t.MixingFraction = e.NumOr("mixfraction", 1.0)
		t.BulkCoeff = e.NumOr("bulkcoeff", 0)
	default:
		return nil, fmt.Errorf("import: node element %s has unknown kind %q", e.ID, e.Kind)
	}
	n.X = e.NumOr("x", 0)
	n.Y = e.NumOr("y", 0)
	return n, nil
}

func importLink(conv *units.Converter, e *Element) (*domain.Link, error) {
	from := e.TextOr("node1", "")
	to := e.TextOr("node2", "")
	switch e.Kind {
	case ElemPipe:
		l := domain.NewPipe(e.ID, from, to)
		p := l.Pipe
		p.Length = conv.LengthToProject(e.NumOr("length", 0))
		p.Diameter = conv.DiameterToProject(e.NumOr("diameter", 0))
		p.Roughness = e.NumOr("roughness", 0)
		p.MinorLoss = e.NumOr("minorloss", 0)
		p.BulkCoeff = e.NumOr("bulkcoeff", 0)
		p.WallCoeff = e.NumOr("wallcoeff", 0)
		if e.TextOr("status", "OPEN") == "CV" {
			p.CheckValve = true
			l.Status = domain.StatusOpen
		} else {
			l.Status = statusFromEngine(e.TextOr("status", "OPEN"))
		}
		return l, nil
	case ElemPump:
		l := domain.NewPump(e.ID, from, to)
		p := l.Pump
		p.PumpCurve = e.TextOr("headcurve", "")
		if w, ok := e.Num("power"); ok {
			p.Power = conv.PowerToProject(w)
		}
		p.Speed = e.NumOr("speed", 1.0)
		p.SpeedPattern = e.TextOr("speedpattern", "")
		p.EfficCurve = e.TextOr("efficcurve", "")
		p.EnergyPrice = e.NumOr("energyprice", 0)
		p.PricePattern = e.TextOr("pricepattern", "")
		l.Status = statusFromEngine(e.TextOr("status", "OPEN"))
		return l, nil
	case ElemValve:
		kind := domain.ValveKind(e.TextOr("valvetype", string(domain.ValveTCV)))
		l := domain.NewValve(e.ID, from, to, kind)
		v := l.Valve
		v.Diameter = conv.DiameterToProject(e.NumOr("diameter", 0))
		v.Setting = valveSettingToProject(conv, kind, e.NumOr("setting", 0))
		v.MinorLoss = e.NumOr("minorloss", 0)
		l.Status = statusFromEngine(e.TextOr("status", "OPEN"))
		return l, nil
	}
	return nil, fmt.Errorf("import: link element %s has unknown kind %q", e.ID, e.Kind)
}

func importCurve(conv *units.Converter, e *Element) *domain.Curve {
	kind := domain.CurveKind(e.TextOr("curvetype", string(domain.CurveGeneric)))
	c := &domain.Curve{ID: e.ID, Kind: kind}
	for _, p := range e.Points() {
		cp := convertCurvePoint(conv, kind, p, false)
		c.AddPoint(cp.X, cp.Y)
	}
	return c
}
