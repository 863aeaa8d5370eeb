package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// StubEngine is a deterministic stand-in solver used by tests and by the
// CLI when no real solver is installed. It does no hydraulics: every
// node reports its elevation (or head) as head and zero demand, every
// link reports zero flow. One reporting step is produced per report
// interval across the duration.
type StubEngine struct {
	// Fail, when set, makes every run fail at the named stage with the
	// given diagnostics. Used to exercise error paths.
	Fail struct {
		Stage       string
		Diagnostics string
	}
}

// Name implements Engine.
func (s *StubEngine) Name() string { return "stub" }

// Run implements Engine.
func (s *StubEngine) Run(ctx context.Context, m *Model, workDir string, progress func(pct int)) (*Results, error) {
	if s.Fail.Stage != "" {
		return nil, NewEngineError(s.Name(), s.Fail.Stage, s.Fail.Diagnostics, nil)
	}

	// Leave a marker so tests can observe that the scratch dir was real
	// and is cleaned up afterwards.
	marker := filepath.Join(workDir, "stub.log")
	if err := os.WriteFile(marker, []byte("stub run\n"), 0o644); err != nil {
		return nil, fmt.Errorf("stub: write marker: %w", err)
	}

	duration := int(m.Options.NumOr("duration", 0))
	step := int(m.Options.NumOr("reportstep", 3600))
	if step <= 0 {
		step = 3600
	}
	steps := duration/step + 1

	res := NewResults()
	for t := 0; t < steps; t++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res.Times = append(res.Times, t*step)
	}

	for _, n := range m.Nodes {
		head := n.NumOr("elevation", 0)
		if n.Kind == ElemReservoir {
			head = n.NumOr("totalhead", 0)
		}
		pressure := head - n.NumOr("elevation", 0)
		res.AddNodeSeries(ParamHead, n.ID, flatSeries(head, steps))
		res.AddNodeSeries(ParamPressure, n.ID, flatSeries(pressure, steps))
		res.AddNodeSeries(ParamDemand, n.ID, flatSeries(0, steps))
		res.AddNodeSeries(ParamQuality, n.ID, flatSeries(0, steps))
	}
	for _, l := range m.Links {
		res.AddLinkSeries(ParamFlow, l.ID, flatSeries(0, steps))
		res.AddLinkSeries(ParamVelocity, l.ID, flatSeries(0, steps))
		res.AddLinkSeries(ParamHeadloss, l.ID, flatSeries(0, steps))
		res.AddLinkSeries(ParamQuality, l.ID, flatSeries(0, steps))
	}

	if progress != nil {
		progress(50)
	}
	return res, nil
}

func flatSeries(v float64, n int) Series {
	s := make(Series, n)
	for i := range s {
		s[i] = v
	}
	return s
}
