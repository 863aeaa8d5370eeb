package domain

import "sort"

// CurveKind tags what a curve's points mean, which also determines how
// the engine synchronizer converts each coordinate.
type CurveKind string

const (
	CurveVolume     CurveKind = "volume"     // x: level, y: volume
	CurvePump       CurveKind = "pump"       // x: flow, y: head
	CurveEfficiency CurveKind = "efficiency" // x: flow, y: percent
	CurveHeadloss   CurveKind = "headloss"   // x: flow, y: head
	CurveGeneric    CurveKind = "generic"
)

// CurvePoint is one (x, y) sample of a curve.
type CurvePoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Curve is an ordered sequence of (x, y) pairs with a kind tag.
type Curve struct {
	ID      string       `json:"id"`
	Kind    CurveKind    `json:"kind"`
	Points  []CurvePoint `json:"points"`
	Comment string       `json:"comment,omitempty"`
}

// NewCurve creates an empty curve of the given kind.
func NewCurve(id string, kind CurveKind) *Curve {
	return &Curve{ID: id, Kind: kind}
}

// AddPoint appends a point, keeping the sequence sorted by x.
func (c *Curve) AddPoint(x, y float64) {
	c.Points = append(c.Points, CurvePoint{X: x, Y: y})
	sort.Slice(c.Points, func(i, j int) bool { return c.Points[i].X < c.Points[j].X })
}

// ValueAt linearly interpolates the curve at x, clamping to the first and
// last points outside the sampled range. An empty curve yields 0.
func (c *Curve) ValueAt(x float64) float64 {
	n := len(c.Points)
	if n == 0 {
		return 0
	}
	if x <= c.Points[0].X {
		return c.Points[0].Y
	}
	if x >= c.Points[n-1].X {
		return c.Points[n-1].Y
	}
	for i := 1; i < n; i++ {
		p0, p1 := c.Points[i-1], c.Points[i]
		if x <= p1.X {
			if p1.X == p0.X {
				return p0.Y
			}
			t := (x - p0.X) / (p1.X - p0.X)
			return p0.Y + t*(p1.Y-p0.Y)
		}
	}
	return c.Points[n-1].Y
}
