package engine

import (
	"fmt"
	"sort"

	"waterworks/internal/domain"
	"waterworks/internal/units"
)

// Result parameter names. Node parameters are demand, head, pressure and
// quality; link parameters are flow, velocity, headloss and quality.
const (
	ParamDemand   = "demand"
	ParamHead     = "head"
	ParamPressure = "pressure"
	ParamQuality  = "quality"
	ParamFlow     = "flow"
	ParamVelocity = "velocity"
	ParamHeadloss = "headloss"
)

// Series is one entity's sampled values over the reporting period.
type Series []float64

// At returns the sample at step i, or 0 when out of range.
func (s Series) At(i int) float64 {
	if i < 0 || i >= len(s) {
		return 0
	}
	return s[i]
}

// Last returns the final sample, or 0 for an empty series.
func (s Series) Last() float64 {
	if len(s) == 0 {
		return 0
	}
	return s[len(s)-1]
}

// Results holds a run's output in engine units: per parameter, per
// entity id, a time series aligned to Times.
type Results struct {
	Times []int // seconds from run start, one per reporting step

	Nodes map[string]map[string]Series // param -> node id -> series
	Links map[string]map[string]Series // param -> link id -> series
}

// NewResults returns an empty result set.
func NewResults() *Results {
	return &Results{
		Nodes: make(map[string]map[string]Series),
		Links: make(map[string]map[string]Series),
	}
}

// AddNodeSeries records a node series for a parameter.
func (r *Results) AddNodeSeries(param, id string, s Series) {
	if r.Nodes[param] == nil {
		r.Nodes[param] = make(map[string]Series)
	}
	r.Nodes[param][id] = s
}

// AddLinkSeries records a link series for a parameter.
func (r *Results) AddLinkSeries(param, id string, s Series) {
	if r.Links[param] == nil {
		r.Links[param] = make(map[string]Series)
	}
	r.Links[param][id] = s
}

// NodeSeries returns the series for a node parameter, or nil.
func (r *Results) NodeSeries(param, id string) Series { return r.Nodes[param][id] }

// LinkSeries returns the series for a link parameter, or nil.
func (r *Results) LinkSeries(param, id string) Series { return r.Links[param][id] }

// Steps returns the number of reporting steps.
func (r *Results) Steps() int { return len(r.Times) }

// NodeIDs lists node ids present for a parameter, sorted.
func (r *Results) NodeIDs(param string) []string {
	out := make([]string, 0, len(r.Nodes[param]))
	for id := range r.Nodes[param] {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// ImportResults copies the snapshot at step onto the entity result
// fields of net, converted to project units. A negative step selects the
// final reporting step. Entities without a series keep zeroed results.
//
// Quality converts per analysis mode: age divides seconds into hours,
// chemical and trace pass through unchanged.
func (s *Synchronizer) ImportResults(net *domain.Network, res *Results, step int) error {
	if net == nil || res == nil {
		return fmt.Errorf("import results: nil network or results")
	}
	if res.Steps() == 0 {
		return fmt.Errorf("import results: empty result set")
	}
	if step < 0 {
		step = res.Steps() - 1
	}
	if step >= res.Steps() {
		return fmt.Errorf("import results: step %d out of range (%d steps)", step, res.Steps())
	}

	conv := units.NewConverter(net.Options.FlowUnits)
	quality := func(v float64) float64 {
		if net.Options.Quality == domain.QualityAge {
			return v / units.SecondsPerHour
		}
		return v
	}

	for id, n := range net.Nodes {
		n.Results = domain.NodeResults{
			Demand:   conv.FlowToProject(res.NodeSeries(ParamDemand, id).At(step)),
			Head:     conv.LengthToProject(res.NodeSeries(ParamHead, id).At(step)),
			Pressure: conv.PressureToProject(res.NodeSeries(ParamPressure, id).At(step)),
			Quality:  quality(res.NodeSeries(ParamQuality, id).At(step)),
		}
	}
	for id, l := range net.Links {
		l.Results = domain.LinkResults{
			Flow:     conv.FlowToProject(res.LinkSeries(ParamFlow, id).At(step)),
			Velocity: conv.VelocityToProject(res.LinkSeries(ParamVelocity, id).At(step)),
			Headloss: conv.HeadlossToProject(res.LinkSeries(ParamHeadloss, id).At(step)),
			Quality:  quality(res.LinkSeries(ParamQuality, id).At(step)),
		}
	}
	return nil
}
