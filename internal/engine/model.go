package engine

// Element is a single engine-side object: a bag of typed fields gated by
// the owning Model's schema. Setters on an absent field are silent no-ops
// that bump the model's gap counter; getters report presence through
// their second return value.
type Element struct {
	Kind ElementKind
	ID   string

	model   *Model
	numbers map[string]float64
	texts   map[string]string
	points  []Point
}

// Point is a single curve coordinate in engine units.
type Point struct {
	X, Y float64
}

// SetNum stores a numeric field if the schema declares it.
func (e *Element) SetNum(field string, v float64) bool {
	if !e.model.schema.Has(e.Kind, field) {
		e.model.gaps++
		return false
	}
	e.numbers[field] = v
	return true
}

// SetText stores a text field if the schema declares it.
func (e *Element) SetText(field, v string) bool {
	if !e.model.schema.Has(e.Kind, field) {
		e.model.gaps++
		return false
	}
	e.texts[field] = v
	return true
}

// SetPoints stores curve coordinates if the schema declares them.
func (e *Element) SetPoints(pts []Point) bool {
	if !e.model.schema.Has(e.Kind, "points") {
		e.model.gaps++
		return false
	}
	e.points = pts
	return true
}

// Num returns a numeric field and whether it is set.
func (e *Element) Num(field string) (float64, bool) {
	v, ok := e.numbers[field]
	return v, ok
}

// NumOr returns a numeric field or def when absent.
func (e *Element) NumOr(field string, def float64) float64 {
	if v, ok := e.numbers[field]; ok {
		return v
	}
	return def
}

// Text returns a text field and whether it is set.
func (e *Element) Text(field string) (string, bool) {
	v, ok := e.texts[field]
	return v, ok
}

// TextOr returns a text field or def when absent.
func (e *Element) TextOr(field, def string) string {
	if v, ok := e.texts[field]; ok {
		return v
	}
	return def
}

// Points returns the stored curve coordinates.
func (e *Element) Points() []Point { return e.points }

// Model is the engine-side object graph, always in SI units. Entity
// order is preserved so exports are deterministic.
type Model struct {
	schema *Schema
	gaps   int

	Options  *Element
	Nodes    []*Element
	Links    []*Element
	Patterns []*Element
	Curves   []*Element
	Controls []*Element
	Rules    []*Element

	nodeIndex map[string]*Element
	linkIndex map[string]*Element
}

// NewModel returns an empty model bound to schema. A nil schema gets
// the default one.
func NewModel(schema *Schema) *Model {
	if schema == nil {
		schema = DefaultSchema()
	}
	m := &Model{
		schema:    schema,
		nodeIndex: make(map[string]*Element),
		linkIndex: make(map[string]*Element),
	}
	m.Options = m.newElement(ElemOptions, "")
	return m
}

// Schema returns the schema this model is bound to.
func (m *Model) Schema() *Schema { return m.schema }

// CapabilityGaps reports how many field writes were skipped because the
// schema does not declare them.
func (m *Model) CapabilityGaps() int { return m.gaps }

func (m *Model) newElement(kind ElementKind, id string) *Element {
	return &Element{
		Kind:    kind,
		ID:      id,
		model:   m,
		numbers: make(map[string]float64),
		texts:   make(map[string]string),
	}
}

// AddNode appends a node element of the given kind and indexes it by id.
func (m *Model) AddNode(kind ElementKind, id string) *Element {
	e := m.newElement(kind, id)
	m.Nodes = append(m.Nodes, e)
	m.nodeIndex[id] = e
	return e
}

// AddLink appends a link element of the given kind and indexes it by id.
func (m *Model) AddLink(kind ElementKind, id string) *Element {
	e := m.newElement(kind, id)
	m.Links = append(m.Links, e)
	m.linkIndex[id] = e
	return e
}

// AddPattern appends a pattern element.
func (m *Model) AddPattern(id string) *Element {
	e := m.newElement(ElemPattern, id)
	m.Patterns = append(m.Patterns, e)
	return e
}

// AddCurve appends a curve element.
func (m *Model) AddCurve(id string) *Element {
	e := m.newElement(ElemCurve, id)
	m.Curves = append(m.Curves, e)
	return e
}

// AddControl appends a control element holding one line of control text.
func (m *Model) AddControl(text string) *Element {
	e := m.newElement(ElemControl, "")
	e.SetText("text", text)
	m.Controls = append(m.Controls, e)
	return e
}

// AddRule appends a rule element holding a full rule block.
func (m *Model) AddRule(id, text string) *Element {
	e := m.newElement(ElemRule, id)
	e.SetText("text", text)
	m.Rules = append(m.Rules, e)
	return e
}

// Node returns the node element with the given id, or nil.
func (m *Model) Node(id string) *Element { return m.nodeIndex[id] }

// Link returns the link element with the given id, or nil.
func (m *Model) Link(id string) *Element { return m.linkIndex[id] }

// PatternMultipliers is a convenience accessor for pattern elements,
// which store their factors as points on the x axis index.
func (e *Element) PatternMultipliers() []float64 {
	out := make([]float64, len(e.points))
	for i, p := range e.points {
		out[i] = p.Y
	}
	return out
}

// SetPatternMultipliers stores pattern factors as indexed points.
func (e *Element) SetPatternMultipliers(mult []float64) bool {
	pts := make([]Point, len(mult))
	for i, v := range mult {
		pts[i] = Point{X: float64(i), Y: v}
	}
	if !e.model.schema.Has(e.Kind, "multipliers") {
		e.model.gaps++
		return false
	}
	e.points = pts
	return true
}
