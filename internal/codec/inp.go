package codec

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"waterworks/internal/domain"
	"waterworks/internal/grammar"
	"waterworks/internal/units"
)

// INPCodec reads and writes the sectioned, semicolon-comment network
// description format. Import is tolerant: a malformed line is recorded in
// the report and skipped, it never aborts the file.
type INPCodec struct{}

// NewINPCodec creates a new INP codec.
func NewINPCodec() *INPCodec { return &INPCodec{} }

// Format returns the codec format identifier.
func (c *INPCodec) Format() string { return "inp" }

// sectionLine is one payload line of a section with its trailing comment.
type sectionLine struct {
	text    string
	comment string
}

// sectionOrder is the processing order on import. Sections are processed
// nodes-first so that links, demands and quality lines can resolve their
// references regardless of the order they appear in the file.
var sectionOrder = []string{
	"TITLE", "OPTIONS", "TIMES",
	"JUNCTIONS", "RESERVOIRS", "TANKS",
	"PIPES", "PUMPS", "VALVES",
	"EMITTERS", "DEMANDS", "SOURCES", "QUALITY", "MIXING", "REACTIONS",
	"PATTERNS", "CURVES", "STATUS",
	"CONTROLS", "RULES", "ENERGY",
	"COORDINATES", "VERTICES", "LABELS",
}

// Parse implements Importer. Line-level findings are dropped; use
// ParseReport when the caller wants the batch report.
func (c *INPCodec) Parse(r io.Reader) (*domain.Network, error) {
	net, _, err := c.ParseReport(r)
	return net, err
}

// ParseReport parses the stream into a fresh network, collecting
// malformed lines into the returned report instead of failing on them.
func (c *INPCodec) ParseReport(r io.Reader) (*domain.Network, *ImportReport, error) {
	sections, err := splitSections(r)
	if err != nil {
		return nil, nil, err
	}

	net := domain.NewNetwork()
	report := &ImportReport{}
	p := &inpParser{net: net, report: report}

	for _, name := range sectionOrder {
		lines, ok := sections[name]
		if !ok {
			continue
		}
		p.section = name
		switch name {
		case "TITLE":
			p.parseTitle(lines)
		case "OPTIONS":
			p.parseOptions(lines)
		case "TIMES":
			p.parseTimes(lines)
		case "JUNCTIONS":
			p.parseJunctions(lines)
		case "RESERVOIRS":
			p.parseReservoirs(lines)
		case "TANKS":
			p.parseTanks(lines)
		case "PIPES":
			p.parsePipes(lines)
		case "PUMPS":
			p.parsePumps(lines)
		case "VALVES":
			p.parseValves(lines)
		case "EMITTERS":
			p.parseEmitters(lines)
		case "DEMANDS":
			p.parseDemands(lines)
		case "SOURCES":
			p.parseSources(lines)
		case "QUALITY":
			p.parseQuality(lines)
		case "MIXING":
			p.parseMixing(lines)
		case "REACTIONS":
			p.parseReactions(lines)
		case "PATTERNS":
			p.parsePatterns(lines)
		case "CURVES":
			p.parseCurves(lines)
		case "STATUS":
			p.parseStatus(lines)
		case "CONTROLS":
			p.parseControls(lines)
		case "RULES":
			p.parseRules(lines)
		case "ENERGY":
			p.parseEnergy(lines)
		case "COORDINATES":
			p.parseCoordinates(lines)
		case "VERTICES":
			p.parseVertices(lines)
		case "LABELS":
			p.parseLabels(lines)
		}
	}

	p.inferCurveKinds()

	return net, report, nil
}

// splitSections slices the stream into per-section line lists. Unknown
// sections are collected too and simply never processed.
func splitSections(r io.Reader) (map[string][]sectionLine, error) {
	sections := make(map[string][]sectionLine)
	current := ""

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		raw := scanner.Text()

		comment := ""
		if i := strings.Index(raw, ";"); i >= 0 {
			comment = strings.TrimSpace(raw[i+1:])
			raw = raw[:i]
		}
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "[") {
			name := strings.ToUpper(strings.Trim(line, "[] \t"))
			if name == "END" {
				break
			}
			current = name
			if _, ok := sections[current]; !ok {
				sections[current] = nil
			}
			continue
		}
		if current == "" {
			continue
		}
		sections[current] = append(sections[current], sectionLine{text: line, comment: comment})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read network file: %w", err)
	}
	return sections, nil
}

type inpParser struct {
	net     *domain.Network
	report  *ImportReport
	section string

	demandSeen map[string]bool
	labelSeq   int
}

func (p *inpParser) fail(line, msg string) {
	p.report.add(p.section, line, fmt.Errorf("%s", msg))
}

func (p *inpParser) float(line, tok string) (float64, bool) {
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		p.fail(line, fmt.Sprintf("%q is not a number", tok))
		return 0, false
	}
	return v, true
}

func (p *inpParser) parseTitle(lines []sectionLine) {
	for i, ln := range lines {
		if i == 0 {
			p.net.Title = ln.text
			continue
		}
		p.net.Notes = append(p.net.Notes, ln.text)
	}
}

func (p *inpParser) parseJunctions(lines []sectionLine) {
	for _, ln := range lines {
		f := strings.Fields(ln.text)
		if len(f) < 2 {
			p.fail(ln.text, "junction needs id and elevation")
			continue
		}
		node := domain.NewJunction(f[0])
		node.Comment = ln.comment
		var ok bool
		if node.Elevation, ok = p.float(ln.text, f[1]); !ok {
			continue
		}
		if len(f) > 2 {
			if node.Junction.BaseDemand, ok = p.float(ln.text, f[2]); !ok {
				continue
			}
		}
		if len(f) > 3 {
			node.Junction.DemandPattern = f[3]
		}
		if err := p.net.AddNode(node); err != nil {
			p.report.add(p.section, ln.text, err)
		}
	}
}

func (p *inpParser) parseReservoirs(lines []sectionLine) {
	for _, ln := range lines {
		f := strings.Fields(ln.text)
		if len(f) < 2 {
			p.fail(ln.text, "reservoir needs id and head")
			continue
		}
		node := domain.NewReservoir(f[0])
		node.Comment = ln.comment
		var ok bool
		if node.Reservoir.TotalHead, ok = p.float(ln.text, f[1]); !ok {
			continue
		}
		if len(f) > 2 {
			node.Reservoir.HeadPattern = f[2]
		}
		if err := p.net.AddNode(node); err != nil {
			p.report.add(p.section, ln.text, err)
		}
	}
}

func (p *inpParser) parseTanks(lines []sectionLine) {
	for _, ln := range lines {
		f := strings.Fields(ln.text)
		if len(f) < 6 {
			p.fail(ln.text, "tank needs id, elevation and four levels")
			continue
		}
		node := domain.NewTank(f[0])
		node.Comment = ln.comment
		vals := make([]float64, 0, 6)
		bad := false
		for _, tok := range f[1:6] {
			v, ok := p.float(ln.text, tok)
			if !ok {
				bad = true
				break
			}
			vals = append(vals, v)
		}
		if bad {
			continue
		}
		node.Elevation = vals[0]
		node.Tank.InitLevel = vals[1]
		node.Tank.MinLevel = vals[2]
		node.Tank.MaxLevel = vals[3]
		node.Tank.Diameter = vals[4]
		if len(f) > 6 {
			if v, ok := p.float(ln.text, f[6]); ok {
				node.Tank.MinVolume = v
			}
		}
		if len(f) > 7 {
			node.Tank.VolumeCurve = f[7]
		}
		if err := p.net.AddNode(node); err != nil {
			p.report.add(p.section, ln.text, err)
		}
	}
}

func (p *inpParser) parsePipes(lines []sectionLine) {
	for _, ln := range lines {
		f := strings.Fields(ln.text)
		if len(f) < 6 {
			p.fail(ln.text, "pipe needs id, endpoints, length, diameter and roughness")
			continue
		}
		link := domain.NewPipe(f[0], f[1], f[2])
		link.Comment = ln.comment
		var ok bool
		if link.Pipe.Length, ok = p.float(ln.text, f[3]); !ok {
			continue
		}
		if link.Pipe.Diameter, ok = p.float(ln.text, f[4]); !ok {
			continue
		}
		if link.Pipe.Roughness, ok = p.float(ln.text, f[5]); !ok {
			continue
		}
		if len(f) > 6 {
			if v, ok := p.float(ln.text, f[6]); ok {
				link.Pipe.MinorLoss = v
			}
		}
		if len(f) > 7 {
			switch strings.ToUpper(f[7]) {
			case "OPEN":
				link.Status = domain.StatusOpen
			case "CLOSED":
				link.Status = domain.StatusClosed
			case "CV":
				link.Status = domain.StatusCheckValve
				link.Pipe.CheckValve = true
			default:
				p.fail(ln.text, "unknown pipe status")
			}
		}
		if err := p.net.AddLink(link); err != nil {
			p.report.add(p.section, ln.text, err)
		}
	}
}

func (p *inpParser) parsePumps(lines []sectionLine) {
	for _, ln := range lines {
		f := strings.Fields(ln.text)
		if len(f) < 3 {
			p.fail(ln.text, "pump needs id and endpoints")
			continue
		}
		link := domain.NewPump(f[0], f[1], f[2])
		link.Comment = ln.comment
		// Remaining tokens are keyword/value pairs.
		for i := 3; i+1 < len(f); i += 2 {
			switch strings.ToUpper(f[i]) {
			case "HEAD":
				link.Pump.PumpCurve = f[i+1]
			case "POWER":
				if v, ok := p.float(ln.text, f[i+1]); ok {
					link.Pump.Power = v
				}
			case "SPEED":
				if v, ok := p.float(ln.text, f[i+1]); ok {
					link.Pump.Speed = v
				}
			case "PATTERN":
				link.Pump.SpeedPattern = f[i+1]
			default:
				p.fail(ln.text, fmt.Sprintf("unknown pump property %q", f[i]))
			}
		}
		if err := p.net.AddLink(link); err != nil {
			p.report.add(p.section, ln.text, err)
		}
	}
}

func (p *inpParser) parseValves(lines []sectionLine) {
	for _, ln := range lines {
		f := strings.Fields(ln.text)
		if len(f) < 6 {
			p.fail(ln.text, "valve needs id, endpoints, diameter, type and setting")
			continue
		}
		kind := domain.ValveKind(strings.ToUpper(f[4]))
		switch kind {
		case domain.ValvePRV, domain.ValvePSV, domain.ValvePBV,
			domain.ValveFCV, domain.ValveTCV, domain.ValveGPV:
		default:
			p.fail(ln.text, fmt.Sprintf("unknown valve type %q", f[4]))
			continue
		}
		link := domain.NewValve(f[0], f[1], f[2], kind)
		link.Comment = ln.comment
		var ok bool
		if link.Valve.Diameter, ok = p.float(ln.text, f[3]); !ok {
			continue
		}
		if link.Valve.Setting, ok = p.float(ln.text, f[5]); !ok {
			continue
		}
		if len(f) > 6 {
			if v, ok := p.float(ln.text, f[6]); ok {
				link.Valve.MinorLoss = v
			}
		}
		if err := p.net.AddLink(link); err != nil {
			p.report.add(p.section, ln.text, err)
		}
	}
}

func (p *inpParser) junction(line, id string) *domain.Junction {
	node := p.net.GetNode(id)
	if node == nil || node.Junction == nil {
		p.fail(line, fmt.Sprintf("unknown junction %q", id))
		return nil
	}
	return node.Junction
}

func (p *inpParser) parseEmitters(lines []sectionLine) {
	for _, ln := range lines {
		f := strings.Fields(ln.text)
		if len(f) < 2 {
			p.fail(ln.text, "emitter needs junction and coefficient")
			continue
		}
		j := p.junction(ln.text, f[0])
		if j == nil {
			continue
		}
		if v, ok := p.float(ln.text, f[1]); ok {
			j.EmitterCoeff = v
		}
	}
}

func (p *inpParser) parseDemands(lines []sectionLine) {
	if p.demandSeen == nil {
		p.demandSeen = make(map[string]bool)
	}
	for _, ln := range lines {
		f := strings.Fields(ln.text)
		if len(f) < 2 {
			p.fail(ln.text, "demand needs junction and value")
			continue
		}
		j := p.junction(ln.text, f[0])
		if j == nil {
			continue
		}
		v, ok := p.float(ln.text, f[1])
		if !ok {
			continue
		}
		pattern := ""
		if len(f) > 2 {
			pattern = f[2]
		}
		// The first demand line replaces the junction's base demand; any
		// further line for the same junction is a secondary category
		// named by the line comment.
		if !p.demandSeen[f[0]] {
			p.demandSeen[f[0]] = true
			j.BaseDemand = v
			j.DemandPattern = pattern
			continue
		}
		j.Categories = append(j.Categories, domain.DemandCategory{
			Name:       ln.comment,
			BaseDemand: v,
			Pattern:    pattern,
		})
	}
}

func (p *inpParser) parseSources(lines []sectionLine) {
	for _, ln := range lines {
		f := strings.Fields(ln.text)
		if len(f) < 3 {
			p.fail(ln.text, "source needs node, type and quality")
			continue
		}
		j := p.junction(ln.text, f[0])
		if j == nil {
			continue
		}
		var kind domain.SourceKind
		switch strings.ToUpper(f[1]) {
		case "CONCEN":
			kind = domain.SourceConcen
		case "MASS":
			kind = domain.SourceMass
		case "SETPOINT":
			kind = domain.SourceSetpoint
		case "FLOWPACED":
			kind = domain.SourceFlowPaced
		default:
			p.fail(ln.text, fmt.Sprintf("unknown source type %q", f[1]))
			continue
		}
		v, ok := p.float(ln.text, f[2])
		if !ok {
			continue
		}
		src := &domain.Source{Kind: kind, Quality: v}
		if len(f) > 3 {
			src.Pattern = f[3]
		}
		j.Source = src
	}
}

func (p *inpParser) parseQuality(lines []sectionLine) {
	for _, ln := range lines {
		f := strings.Fields(ln.text)
		if len(f) < 2 {
			p.fail(ln.text, "quality needs node and value")
			continue
		}
		node := p.net.GetNode(f[0])
		if node == nil {
			p.fail(ln.text, fmt.Sprintf("unknown node %q", f[0]))
			continue
		}
		// Initial quality is only modeled on junctions; other node kinds
		// are tolerated and skipped.
		if node.Junction == nil {
			continue
		}
		if v, ok := p.float(ln.text, f[1]); ok {
			node.Junction.InitQuality = v
		}
	}
}

func (p *inpParser) parseMixing(lines []sectionLine) {
	for _, ln := range lines {
		f := strings.Fields(ln.text)
		if len(f) < 2 {
			p.fail(ln.text, "mixing needs tank and model")
			continue
		}
		node := p.net.GetNode(f[0])
		if node == nil || node.Tank == nil {
			p.fail(ln.text, fmt.Sprintf("unknown tank %q", f[0]))
			continue
		}
		switch strings.ToUpper(f[1]) {
		case "MIXED":
			node.Tank.Mixing = domain.MixingComplete
		case "2COMP":
			node.Tank.Mixing = domain.MixingTwoComp
		case "FIFO":
			node.Tank.Mixing = domain.MixingFIFO
		case "LIFO":
			node.Tank.Mixing = domain.MixingLIFO
		default:
			p.fail(ln.text, fmt.Sprintf("unknown mixing model %q", f[1]))
			continue
		}
		if len(f) > 2 {
			if v, ok := p.float(ln.text, f[2]); ok {
				node.Tank.MixingFraction = v
			}
		}
	}
}

func (p *inpParser) parseReactions(lines []sectionLine) {
	for _, ln := range lines {
		f := strings.Fields(ln.text)
		if len(f) < 3 {
			p.fail(ln.text, "reaction line needs three tokens")
			continue
		}
		key := strings.ToUpper(f[0]) + " " + strings.ToUpper(f[1])
		switch key {
		case "ORDER BULK":
			if v, ok := p.float(ln.text, f[2]); ok {
				p.net.Options.BulkOrder = int(v)
			}
		case "ORDER WALL":
			if v, ok := p.float(ln.text, f[2]); ok {
				p.net.Options.WallOrder = int(v)
			}
		case "ORDER TANK":
			if v, ok := p.float(ln.text, f[2]); ok {
				p.net.Options.TankOrder = int(v)
			}
		case "GLOBAL BULK":
			if v, ok := p.float(ln.text, f[2]); ok {
				p.net.Options.GlobalBulkCoeff = v
			}
		case "GLOBAL WALL":
			if v, ok := p.float(ln.text, f[2]); ok {
				p.net.Options.GlobalWallCoeff = v
			}
		case "LIMITING POTENTIAL":
			if v, ok := p.float(ln.text, f[2]); ok {
				p.net.Options.LimitingConcen = v
			}
		case "ROUGHNESS CORRELATION":
			if v, ok := p.float(ln.text, f[2]); ok {
				p.net.Options.RoughnessCorrel = v
			}
		default:
			switch strings.ToUpper(f[0]) {
			case "BULK", "WALL":
				link := p.net.GetLink(f[1])
				if link == nil || link.Pipe == nil {
					p.fail(ln.text, fmt.Sprintf("unknown pipe %q", f[1]))
					continue
				}
				v, ok := p.float(ln.text, f[2])
				if !ok {
					continue
				}
				if strings.ToUpper(f[0]) == "BULK" {
					link.Pipe.BulkCoeff = v
				} else {
					link.Pipe.WallCoeff = v
				}
			case "TANK":
				node := p.net.GetNode(f[1])
				if node == nil || node.Tank == nil {
					p.fail(ln.text, fmt.Sprintf("unknown tank %q", f[1]))
					continue
				}
				if v, ok := p.float(ln.text, f[2]); ok {
					node.Tank.BulkCoeff = v
				}
			default:
				p.fail(ln.text, "unknown reaction keyword")
			}
		}
	}
}

func (p *inpParser) parsePatterns(lines []sectionLine) {
	for _, ln := range lines {
		f := strings.Fields(ln.text)
		if len(f) < 2 {
			p.fail(ln.text, "pattern needs id and multipliers")
			continue
		}
		pat := p.net.GetPattern(f[0])
		if pat == nil {
			pat = domain.NewPattern(f[0])
			pat.Comment = ln.comment
			if err := p.net.AddPattern(pat); err != nil {
				p.report.add(p.section, ln.text, err)
				continue
			}
		}
		for _, tok := range f[1:] {
			if v, ok := p.float(ln.text, tok); ok {
				pat.Multipliers = append(pat.Multipliers, v)
			}
		}
	}
}

func (p *inpParser) parseCurves(lines []sectionLine) {
	for _, ln := range lines {
		f := strings.Fields(ln.text)
		if len(f) < 3 {
			p.fail(ln.text, "curve needs id, x and y")
			continue
		}
		curve := p.net.GetCurve(f[0])
		if curve == nil {
			curve = domain.NewCurve(f[0], domain.CurveGeneric)
			curve.Comment = ln.comment
			if err := p.net.AddCurve(curve); err != nil {
				p.report.add(p.section, ln.text, err)
				continue
			}
		}
		x, ok := p.float(ln.text, f[1])
		if !ok {
			continue
		}
		y, ok := p.float(ln.text, f[2])
		if !ok {
			continue
		}
		curve.AddPoint(x, y)
	}
}

func (p *inpParser) parseStatus(lines []sectionLine) {
	for _, ln := range lines {
		f := strings.Fields(ln.text)
		if len(f) < 2 {
			p.fail(ln.text, "status needs link and value")
			continue
		}
		link := p.net.GetLink(f[0])
		if link == nil {
			p.fail(ln.text, fmt.Sprintf("unknown link %q", f[0]))
			continue
		}
		switch strings.ToUpper(f[1]) {
		case "OPEN":
			link.Status = domain.StatusOpen
		case "CLOSED":
			link.Status = domain.StatusClosed
		default:
			// A numeric value is a valve setting or pump speed.
			v, ok := p.float(ln.text, f[1])
			if !ok {
				continue
			}
			switch {
			case link.Valve != nil:
				link.Valve.Setting = v
			case link.Pump != nil:
				link.Pump.Speed = v
			default:
				p.fail(ln.text, "numeric status on a pipe")
			}
		}
	}
}

func (p *inpParser) parseControls(lines []sectionLine) {
	for _, ln := range lines {
		ctrl, err := grammar.ParseSimpleControl(ln.text)
		if err != nil {
			p.report.add(p.section, ln.text, err)
			continue
		}
		p.net.Controls = append(p.net.Controls, ctrl)
	}
}

func (p *inpParser) parseRules(lines []sectionLine) {
	var block []string
	flush := func() {
		if len(block) == 0 {
			return
		}
		text := strings.Join(block, "\n")
		rule, err := grammar.ParseRule(text)
		if err != nil {
			p.report.add(p.section, text, err)
		} else {
			p.net.Rules = append(p.net.Rules, rule)
		}
		block = nil
	}
	for _, ln := range lines {
		f := strings.Fields(ln.text)
		if len(f) > 0 && strings.EqualFold(f[0], "RULE") {
			flush()
		}
		block = append(block, ln.text)
	}
	flush()
}

func (p *inpParser) parseEnergy(lines []sectionLine) {
	for _, ln := range lines {
		f := strings.Fields(ln.text)
		if len(f) < 3 {
			p.fail(ln.text, "energy line needs three tokens")
			continue
		}
		switch strings.ToUpper(f[0]) {
		case "GLOBAL":
			switch strings.ToUpper(f[1]) {
			case "EFFICIENCY", "EFFIC":
				if v, ok := p.float(ln.text, f[2]); ok {
					p.net.Options.EnergyEffic = v
				}
			case "PRICE":
				if v, ok := p.float(ln.text, f[2]); ok {
					p.net.Options.EnergyPrice = v
				}
			case "PATTERN":
				p.net.Options.EnergyPattern = f[2]
			default:
				p.fail(ln.text, "unknown global energy property")
			}
		case "DEMAND":
			if v, ok := p.float(ln.text, f[2]); ok {
				p.net.Options.DemandCharge = v
			}
		case "PUMP":
			if len(f) < 4 {
				p.fail(ln.text, "pump energy line needs four tokens")
				continue
			}
			link := p.net.GetLink(f[1])
			if link == nil || link.Pump == nil {
				p.fail(ln.text, fmt.Sprintf("unknown pump %q", f[1]))
				continue
			}
			switch strings.ToUpper(f[2]) {
			case "PRICE":
				if v, ok := p.float(ln.text, f[3]); ok {
					link.Pump.EnergyPrice = v
				}
			case "PATTERN":
				link.Pump.PricePattern = f[3]
			case "EFFICIENCY", "EFFIC":
				link.Pump.EfficCurve = f[3]
			default:
				p.fail(ln.text, "unknown pump energy property")
			}
		default:
			p.fail(ln.text, "unknown energy keyword")
		}
	}
}

func (p *inpParser) parseOptions(lines []sectionLine) {
	opts := &p.net.Options
	for _, ln := range lines {
		f := strings.Fields(ln.text)
		if len(f) < 2 {
			p.fail(ln.text, "option needs a value")
			continue
		}
		switch strings.ToUpper(f[0]) {
		case "UNITS":
			u, err := units.ParseFlowUnit(f[1])
			if err != nil {
				p.report.add(p.section, ln.text, err)
				continue
			}
			opts.FlowUnits = u
		case "HEADLOSS":
			switch strings.ToUpper(f[1]) {
			case "H-W":
				opts.Headloss = domain.HeadlossHW
			case "D-W":
				opts.Headloss = domain.HeadlossDW
			case "C-M":
				opts.Headloss = domain.HeadlossCM
			default:
				p.fail(ln.text, fmt.Sprintf("unknown headloss formula %q", f[1]))
			}
		case "QUALITY":
			switch strings.ToUpper(f[1]) {
			case "NONE":
				opts.Quality = domain.QualityNone
			case "AGE":
				opts.Quality = domain.QualityAge
			case "TRACE":
				opts.Quality = domain.QualityTrace
				if len(f) > 2 {
					opts.TraceNode = f[2]
				}
			default:
				// Any other token is a chemical name.
				opts.Quality = domain.QualityChemical
				opts.ChemicalName = f[1]
				if len(f) > 2 {
					opts.ChemicalUnits = f[2]
				}
			}
		case "VISCOSITY":
			if v, ok := p.float(ln.text, f[1]); ok {
				opts.Viscosity = v
			}
		case "SPECIFIC":
			if len(f) > 2 {
				if v, ok := p.float(ln.text, f[2]); ok {
					opts.SpecificGravity = v
				}
			}
		case "TRIALS":
			if v, ok := p.float(ln.text, f[1]); ok {
				opts.Trials = int(v)
			}
		case "ACCURACY":
			if v, ok := p.float(ln.text, f[1]); ok {
				opts.Accuracy = v
			}
		case "UNBALANCED":
			opts.Unbalanced = strings.ToUpper(strings.Join(f[1:], " "))
		case "PATTERN":
			opts.DefaultPattern = f[1]
		case "DEMAND":
			if len(f) > 2 {
				if v, ok := p.float(ln.text, f[2]); ok {
					opts.DemandMult = v
				}
			}
		case "EMITTER":
			if len(f) > 2 {
				if v, ok := p.float(ln.text, f[2]); ok {
					opts.EmitterExponent = v
				}
			}
		case "DIFFUSIVITY":
			if v, ok := p.float(ln.text, f[1]); ok {
				opts.Diffusivity = v
			}
		case "TOLERANCE":
			if v, ok := p.float(ln.text, f[1]); ok {
				opts.QualTolerance = v
			}
		default:
			// Unknown options are tolerated so files from newer engine
			// builds still load.
		}
	}
}

func (p *inpParser) parseTimes(lines []sectionLine) {
	opts := &p.net.Options
	for _, ln := range lines {
		f := strings.Fields(ln.text)
		if len(f) < 2 {
			p.fail(ln.text, "time parameter needs a value")
			continue
		}

		key := strings.ToUpper(f[0])
		rest := f[1:]
		if len(f) >= 3 {
			two := key + " " + strings.ToUpper(f[1])
			switch two {
			case "HYDRAULIC TIMESTEP", "QUALITY TIMESTEP", "PATTERN TIMESTEP",
				"PATTERN START", "REPORT TIMESTEP", "REPORT START",
				"RULE TIMESTEP", "START CLOCKTIME":
				key = two
				rest = f[2:]
			}
		}

		if key == "STATISTIC" {
			opts.Statistic = strings.ToUpper(rest[0])
			continue
		}

		secs, err := parseClock(rest)
		if err != nil {
			p.report.add(p.section, ln.text, err)
			continue
		}
		switch key {
		case "DURATION":
			opts.Duration = secs
		case "HYDRAULIC TIMESTEP":
			opts.HydStep = secs
		case "QUALITY TIMESTEP":
			opts.QualStep = secs
		case "PATTERN TIMESTEP":
			opts.PatternStep = secs
		case "PATTERN START":
			opts.PatternStart = secs
		case "REPORT TIMESTEP":
			opts.ReportStep = secs
		case "REPORT START":
			opts.ReportStart = secs
		case "RULE TIMESTEP":
			opts.RuleStep = secs
		case "START CLOCKTIME":
			opts.ClockStart = secs
		default:
			p.fail(ln.text, fmt.Sprintf("unknown time parameter %q", f[0]))
		}
	}
}

func (p *inpParser) parseCoordinates(lines []sectionLine) {
	for _, ln := range lines {
		f := strings.Fields(ln.text)
		if len(f) < 3 {
			p.fail(ln.text, "coordinate needs id, x and y")
			continue
		}
		x, ok := p.float(ln.text, f[1])
		if !ok {
			continue
		}
		y, ok := p.float(ln.text, f[2])
		if !ok {
			continue
		}
		if err := p.net.MoveNode(f[0], x, y); err != nil {
			p.report.add(p.section, ln.text, err)
		}
	}
}

func (p *inpParser) parseVertices(lines []sectionLine) {
	for _, ln := range lines {
		f := strings.Fields(ln.text)
		if len(f) < 3 {
			p.fail(ln.text, "vertex needs link, x and y")
			continue
		}
		link := p.net.GetLink(f[0])
		if link == nil {
			p.fail(ln.text, fmt.Sprintf("unknown link %q", f[0]))
			continue
		}
		x, ok := p.float(ln.text, f[1])
		if !ok {
			continue
		}
		y, ok := p.float(ln.text, f[2])
		if !ok {
			continue
		}
		link.Vertices = append(link.Vertices, domain.Vertex{X: x, Y: y})
	}
}

func (p *inpParser) parseLabels(lines []sectionLine) {
	for _, ln := range lines {
		f := strings.Fields(ln.text)
		if len(f) < 3 {
			p.fail(ln.text, "label needs x, y and text")
			continue
		}
		x, ok := p.float(ln.text, f[0])
		if !ok {
			continue
		}
		y, ok := p.float(ln.text, f[1])
		if !ok {
			continue
		}

		rest := strings.Join(f[2:], " ")
		text := rest
		anchor := ""
		if strings.HasPrefix(rest, `"`) {
			if end := strings.Index(rest[1:], `"`); end >= 0 {
				text = rest[1 : end+1]
				anchor = strings.TrimSpace(rest[end+2:])
			}
		}

		p.labelSeq++
		label := &domain.Label{
			ID:     fmt.Sprintf("L%d", p.labelSeq),
			Text:   text,
			X:      x,
			Y:      y,
			Anchor: anchor,
		}
		if err := p.net.AddLabel(label); err != nil {
			p.report.add(p.section, ln.text, err)
		}
	}
}

// inferCurveKinds tags imported curves by how the model references them.
func (p *inpParser) inferCurveKinds() {
	for _, link := range p.net.Links {
		if link.Pump == nil {
			continue
		}
		if c := p.net.GetCurve(link.Pump.PumpCurve); c != nil {
			c.Kind = domain.CurvePump
		}
		if c := p.net.GetCurve(link.Pump.EfficCurve); c != nil {
			c.Kind = domain.CurveEfficiency
		}
	}
	for _, node := range p.net.Nodes {
		if node.Tank == nil {
			continue
		}
		if c := p.net.GetCurve(node.Tank.VolumeCurve); c != nil {
			c.Kind = domain.CurveVolume
		}
	}
}
