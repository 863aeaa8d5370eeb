package codec

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"waterworks/internal/domain"
	"waterworks/internal/grammar"
)

// Export implements Exporter. Sections are always emitted in the same
// order with a fixed column layout, so diffs between saves stay readable.
func (c *INPCodec) Export(net *domain.Network, w io.Writer) error {
	ew := &errWriter{w: w}

	ew.section("TITLE")
	if net.Title != "" {
		ew.line(net.Title)
	}
	for _, note := range net.Notes {
		ew.line(note)
	}

	junctions := sortedNodes(net.Junctions())
	reservoirs := sortedNodes(net.Reservoirs())
	tanks := sortedNodes(net.Tanks())
	pipes := sortedLinks(net.Pipes())
	pumps := sortedLinks(net.Pumps())
	valves := sortedLinks(net.Valves())

	ew.section("JUNCTIONS")
	ew.line(";ID              Elev         Demand       Pattern")
	for _, n := range junctions {
		ew.linef("%-16s %-12s %-12s %s", n.ID, fnum(n.Elevation),
			fnum(n.Junction.BaseDemand), n.Junction.DemandPattern)
	}

	ew.section("RESERVOIRS")
	ew.line(";ID              Head         Pattern")
	for _, n := range reservoirs {
		ew.linef("%-16s %-12s %s", n.ID, fnum(n.Reservoir.TotalHead), n.Reservoir.HeadPattern)
	}

	ew.section("TANKS")
	ew.line(";ID              Elev         InitLvl      MinLvl       MaxLvl       Diam         MinVol       VolCurve")
	for _, n := range tanks {
		t := n.Tank
		ew.linef("%-16s %-12s %-12s %-12s %-12s %-12s %-12s %s", n.ID,
			fnum(n.Elevation), fnum(t.InitLevel), fnum(t.MinLevel),
			fnum(t.MaxLevel), fnum(t.Diameter), fnum(t.MinVolume), t.VolumeCurve)
	}

	ew.section("PIPES")
	ew.line(";ID              Node1           Node2           Length       Diam         Roughness    MLoss        Status")
	for _, l := range pipes {
		status := "OPEN"
		switch {
		case l.Pipe.CheckValve || l.Status == domain.StatusCheckValve:
			status = "CV"
		case l.Status == domain.StatusClosed:
			status = "CLOSED"
		}
		ew.linef("%-16s %-15s %-15s %-12s %-12s %-12s %-12s %s",
			l.ID, l.FromNode, l.ToNode, fnum(l.Pipe.Length), fnum(l.Pipe.Diameter),
			fnum(l.Pipe.Roughness), fnum(l.Pipe.MinorLoss), status)
	}

	ew.section("PUMPS")
	ew.line(";ID              Node1           Node2           Properties")
	for _, l := range pumps {
		var props []string
		if l.Pump.PumpCurve != "" {
			props = append(props, "HEAD "+l.Pump.PumpCurve)
		}
		if l.Pump.Power > 0 {
			props = append(props, "POWER "+fnum(l.Pump.Power))
		}
		if l.Pump.Speed != 0 && l.Pump.Speed != 1 {
			props = append(props, "SPEED "+fnum(l.Pump.Speed))
		}
		if l.Pump.SpeedPattern != "" {
			props = append(props, "PATTERN "+l.Pump.SpeedPattern)
		}
		ew.linef("%-16s %-15s %-15s %s", l.ID, l.FromNode, l.ToNode, strings.Join(props, " "))
	}

	ew.section("VALVES")
	ew.line(";ID              Node1           Node2           Diam         Type  Setting      MLoss")
	for _, l := range valves {
		ew.linef("%-16s %-15s %-15s %-12s %-5s %-12s %s",
			l.ID, l.FromNode, l.ToNode, fnum(l.Valve.Diameter),
			string(l.Valve.Kind), fnum(l.Valve.Setting), fnum(l.Valve.MinorLoss))
	}

	ew.section("EMITTERS")
	for _, n := range junctions {
		if n.Junction.EmitterCoeff != 0 {
			ew.linef("%-16s %s", n.ID, fnum(n.Junction.EmitterCoeff))
		}
	}

	ew.section("DEMANDS")
	for _, n := range junctions {
		if len(n.Junction.Categories) == 0 {
			continue
		}
		// The primary demand leads so a re-import keeps it as the base
		// demand and reads the rest as categories.
		ew.linef("%-16s %-12s %s", n.ID, fnum(n.Junction.BaseDemand), n.Junction.DemandPattern)
		for _, cat := range n.Junction.Categories {
			suffix := ""
			if cat.Name != "" {
				suffix = " ;" + cat.Name
			}
			ew.linef("%-16s %-12s %-16s%s", n.ID, fnum(cat.BaseDemand), cat.Pattern, suffix)
		}
	}

	ew.section("SOURCES")
	for _, n := range junctions {
		if src := n.Junction.Source; src != nil {
			ew.linef("%-16s %-10s %-12s %s", n.ID,
				strings.ToUpper(string(src.Kind)), fnum(src.Quality), src.Pattern)
		}
	}

	ew.section("QUALITY")
	for _, n := range junctions {
		if n.Junction.InitQuality != 0 {
			ew.linef("%-16s %s", n.ID, fnum(n.Junction.InitQuality))
		}
	}

	ew.section("MIXING")
	for _, n := range tanks {
		ew.linef("%-16s %-8s %s", n.ID,
			strings.ToUpper(string(n.Tank.Mixing)), fnum(n.Tank.MixingFraction))
	}

	ew.section("REACTIONS")
	opts := net.Options
	ew.linef("ORDER BULK %d", opts.BulkOrder)
	ew.linef("ORDER WALL %d", opts.WallOrder)
	ew.linef("ORDER TANK %d", opts.TankOrder)
	ew.linef("GLOBAL BULK %s", fnum(opts.GlobalBulkCoeff))
	ew.linef("GLOBAL WALL %s", fnum(opts.GlobalWallCoeff))
	for _, l := range pipes {
		if l.Pipe.BulkCoeff != 0 {
			ew.linef("BULK %-16s %s", l.ID, fnum(l.Pipe.BulkCoeff))
		}
		if l.Pipe.WallCoeff != 0 {
			ew.linef("WALL %-16s %s", l.ID, fnum(l.Pipe.WallCoeff))
		}
	}
	for _, n := range tanks {
		if n.Tank.BulkCoeff != 0 {
			ew.linef("TANK %-16s %s", n.ID, fnum(n.Tank.BulkCoeff))
		}
	}

	ew.section("PATTERNS")
	for _, id := range sortedKeys(net.Patterns) {
		p := net.Patterns[id]
		// Six multipliers per line, the conventional layout.
		for i := 0; i < len(p.Multipliers); i += 6 {
			end := i + 6
			if end > len(p.Multipliers) {
				end = len(p.Multipliers)
			}
			toks := make([]string, 0, 6)
			for _, m := range p.Multipliers[i:end] {
				toks = append(toks, fnum(m))
			}
			ew.linef("%-16s %s", id, strings.Join(toks, " "))
		}
	}

	ew.section("CURVES")
	for _, id := range sortedKeys(net.Curves) {
		c := net.Curves[id]
		for _, pt := range c.Points {
			ew.linef("%-16s %-12s %s", id, fnum(pt.X), fnum(pt.Y))
		}
	}

	ew.section("STATUS")
	for _, l := range append(append(append([]*domain.Link{}, pipes...), pumps...), valves...) {
		if l.Status == domain.StatusClosed {
			ew.linef("%-16s CLOSED", l.ID)
		}
	}

	ew.section("CONTROLS")
	for _, ctrl := range net.Controls {
		ew.line(grammar.FormatSimpleControl(ctrl))
	}

	ew.section("RULES")
	for _, rule := range net.Rules {
		ew.line(grammar.FormatRule(rule))
		ew.line("")
	}

	ew.section("ENERGY")
	ew.linef("GLOBAL EFFICIENCY %s", fnum(opts.EnergyEffic))
	ew.linef("GLOBAL PRICE %s", fnum(opts.EnergyPrice))
	if opts.EnergyPattern != "" {
		ew.linef("GLOBAL PATTERN %s", opts.EnergyPattern)
	}
	ew.linef("DEMAND CHARGE %s", fnum(opts.DemandCharge))
	for _, l := range pumps {
		if l.Pump.EnergyPrice != 0 {
			ew.linef("PUMP %-16s PRICE %s", l.ID, fnum(l.Pump.EnergyPrice))
		}
		if l.Pump.PricePattern != "" {
			ew.linef("PUMP %-16s PATTERN %s", l.ID, l.Pump.PricePattern)
		}
		if l.Pump.EfficCurve != "" {
			ew.linef("PUMP %-16s EFFIC %s", l.ID, l.Pump.EfficCurve)
		}
	}

	ew.section("OPTIONS")
	ew.linef("UNITS %s", string(opts.FlowUnits))
	ew.linef("HEADLOSS %s", string(opts.Headloss))
	switch opts.Quality {
	case domain.QualityNone:
		ew.line("QUALITY NONE")
	case domain.QualityAge:
		ew.line("QUALITY AGE")
	case domain.QualityTrace:
		ew.linef("QUALITY TRACE %s", opts.TraceNode)
	case domain.QualityChemical:
		ew.linef("QUALITY %s %s", opts.ChemicalName, opts.ChemicalUnits)
	}
	ew.linef("VISCOSITY %s", fnum(opts.Viscosity))
	ew.linef("SPECIFIC GRAVITY %s", fnum(opts.SpecificGravity))
	ew.linef("TRIALS %d", opts.Trials)
	ew.linef("ACCURACY %s", fnum(opts.Accuracy))
	if opts.Unbalanced != "" {
		ew.linef("UNBALANCED %s", opts.Unbalanced)
	}
	if opts.DefaultPattern != "" {
		ew.linef("PATTERN %s", opts.DefaultPattern)
	}
	ew.linef("DEMAND MULTIPLIER %s", fnum(opts.DemandMult))
	ew.linef("EMITTER EXPONENT %s", fnum(opts.EmitterExponent))
	ew.linef("DIFFUSIVITY %s", fnum(opts.Diffusivity))
	ew.linef("TOLERANCE %s", fnum(opts.QualTolerance))

	ew.section("TIMES")
	ew.linef("DURATION %s", formatClock(opts.Duration))
	ew.linef("HYDRAULIC TIMESTEP %s", formatClock(opts.HydStep))
	ew.linef("QUALITY TIMESTEP %s", formatClock(opts.QualStep))
	ew.linef("PATTERN TIMESTEP %s", formatClock(opts.PatternStep))
	ew.linef("PATTERN START %s", formatClock(opts.PatternStart))
	ew.linef("REPORT TIMESTEP %s", formatClock(opts.ReportStep))
	ew.linef("REPORT START %s", formatClock(opts.ReportStart))
	ew.linef("RULE TIMESTEP %s", formatClock(opts.RuleStep))
	ew.linef("START CLOCKTIME %s", formatClock(opts.ClockStart))
	if opts.Statistic != "" {
		ew.linef("STATISTIC %s", opts.Statistic)
	}

	ew.section("COORDINATES")
	ew.line(";Node            X            Y")
	for _, id := range sortedKeys(net.Nodes) {
		n := net.Nodes[id]
		ew.linef("%-16s %-12s %s", id, fnum(n.X), fnum(n.Y))
	}

	ew.section("VERTICES")
	for _, id := range sortedKeys(net.Links) {
		for _, v := range net.Links[id].Vertices {
			ew.linef("%-16s %-12s %s", id, fnum(v.X), fnum(v.Y))
		}
	}

	ew.section("LABELS")
	for _, id := range sortedKeys(net.Labels) {
		l := net.Labels[id]
		ew.linef("%-12s %-12s %q %s", fnum(l.X), fnum(l.Y), l.Text, l.Anchor)
	}

	ew.section("END")
	return ew.err
}

type errWriter struct {
	w     io.Writer
	err   error
	begun bool
}

func (ew *errWriter) line(s string) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintln(ew.w, strings.TrimRight(s, " "))
}

func (ew *errWriter) linef(format string, args ...any) {
	ew.line(fmt.Sprintf(format, args...))
}

func (ew *errWriter) section(name string) {
	if ew.begun {
		ew.line("")
	}
	ew.begun = true
	ew.linef("[%s]", name)
}

func sortedKeys[M ~map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedNodes(nodes []*domain.Node) []*domain.Node {
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })
	return nodes
}

func sortedLinks(links []*domain.Link) []*domain.Link {
	sort.Slice(links, func(i, j int) bool { return links[i].ID < links[j].ID })
	return links
}
