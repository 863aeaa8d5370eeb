package engine

// ElementKind identifies the engine-side object class an Element belongs to.
type ElementKind string

const (
	ElemOptions   ElementKind = "options"
	ElemJunction  ElementKind = "junction"
	ElemReservoir ElementKind = "reservoir"
	ElemTank      ElementKind = "tank"
	ElemPipe      ElementKind = "pipe"
	ElemPump      ElementKind = "pump"
	ElemValve     ElementKind = "valve"
	ElemPattern   ElementKind = "pattern"
	ElemCurve     ElementKind = "curve"
	ElemControl   ElementKind = "control"
	ElemRule      ElementKind = "rule"
)

// Schema declares, per element kind, which fields this engine build
// understands. Field access outside the declared set is a capability gap
// and is skipped, not rejected.
type Schema struct {
	Version string
	fields  map[ElementKind]map[string]bool
}

// Has reports whether kind carries field in this schema.
func (s *Schema) Has(kind ElementKind, field string) bool {
	if s == nil || s.fields == nil {
		return false
	}
	return s.fields[kind][field]
}

// Fields returns the declared field names for kind, in no particular order.
func (s *Schema) Fields(kind ElementKind) []string {
	out := make([]string, 0, len(s.fields[kind]))
	for f := range s.fields[kind] {
		out = append(out, f)
	}
	return out
}

func newSchema(version string, decl map[ElementKind][]string) *Schema {
	s := &Schema{Version: version, fields: make(map[ElementKind]map[string]bool, len(decl))}
	for kind, names := range decl {
		set := make(map[string]bool, len(names))
		for _, n := range names {
			set[n] = true
		}
		s.fields[kind] = set
	}
	return s
}

// DefaultSchema describes the full field surface of a current engine
// build. Older or reduced builds are modelled by removing entries.
func DefaultSchema() *Schema {
	return newSchema("2.2", map[ElementKind][]string{
		ElemOptions: {
			"units", "headloss", "quality", "tracenode", "specgravity",
			"viscosity", "diffusivity", "trials", "accuracy", "demandmult",
			"tolerance", "duration", "hydstep", "qualstep", "patternstep",
			"patternstart", "reportstep", "reportstart", "starttime",
			"statistic", "bulkorder", "wallorder", "globalbulk", "globalwall",
			"limitingpotential", "energyeffic", "energyprice", "energypattern",
			"demandcharge",
		},
		ElemJunction: {
			"elevation", "basedemand", "demandpattern", "emitter",
			"initquality", "sourcequality", "sourcekind", "sourcepattern",
			"x", "y",
		},
		ElemReservoir: {
			"totalhead", "headpattern", "initquality", "sourcequality",
			"sourcekind", "sourcepattern", "x", "y",
		},
		ElemTank: {
			"elevation", "initlevel", "minlevel", "maxlevel", "diameter",
			"minvolume", "volumecurve", "mixmodel", "mixfraction", "bulkcoeff",
			"initquality", "x", "y",
		},
		ElemPipe: {
			"node1", "node2", "length", "diameter", "roughness", "minorloss",
			"status", "bulkcoeff", "wallcoeff",
		},
		ElemPump: {
			"node1", "node2", "headcurve", "power", "speed", "speedpattern",
			"efficcurve", "energyprice", "pricepattern", "status",
		},
		ElemValve: {
			"node1", "node2", "valvetype", "diameter", "setting", "minorloss",
			"status",
		},
		ElemPattern: {"multipliers"},
		ElemCurve:   {"curvetype", "points"},
		ElemControl: {"text"},
		ElemRule:    {"text"},
	})
}

// LegacySchema models an older engine build without water quality
// sourcing, tank mixing detail or pump energy accounting. Useful for
// exercising capability-gap handling.
func LegacySchema() *Schema {
	return newSchema("1.1", map[ElementKind][]string{
		ElemOptions: {
			"units", "headloss", "trials", "accuracy", "duration", "hydstep",
			"patternstep", "reportstep", "starttime",
		},
		ElemJunction:  {"elevation", "basedemand", "demandpattern", "x", "y"},
		ElemReservoir: {"totalhead", "headpattern", "x", "y"},
		ElemTank: {
			"elevation", "initlevel", "minlevel", "maxlevel", "diameter",
			"minvolume", "volumecurve", "x", "y",
		},
		ElemPipe:    {"node1", "node2", "length", "diameter", "roughness", "minorloss", "status"},
		ElemPump:    {"node1", "node2", "headcurve", "speed", "status"},
		ElemValve:   {"node1", "node2", "valvetype", "diameter", "setting", "minorloss", "status"},
		ElemPattern: {"multipliers"},
		ElemCurve:   {"curvetype", "points"},
		ElemControl: {"text"},
		ElemRule:    {"text"},
	})
}
