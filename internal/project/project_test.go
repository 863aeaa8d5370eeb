package project

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"waterworks/internal/domain"
	"waterworks/internal/engine"
)

func seedNetwork(t *testing.T, p *Project) {
	t.Helper()
	err := p.Mutate(func(net *domain.Network) error {
		r := domain.NewReservoir("R1")
		r.Reservoir.TotalHead = 100
		if err := net.AddNode(r); err != nil {
			return err
		}
		j := domain.NewJunction("J1")
		j.Elevation = 50
		if err := net.AddNode(j); err != nil {
			return err
		}
		pipe := domain.NewPipe("P1", "R1", "J1")
		pipe.Pipe.Length = 1000
		pipe.Pipe.Diameter = 12
		pipe.Pipe.Roughness = 100
		return net.AddLink(pipe)
	})
	if err != nil {
		t.Fatalf("seed failed: %v", err)
	}
}

func TestLifecycleTransitions(t *testing.T) {
	p := New(nil, nil)
	if p.State() != StateEmpty {
		t.Fatalf("new project must be empty, got %s", p.State())
	}

	seedNetwork(t, p)
	if p.State() != StateModified {
		t.Fatalf("mutation must move to modified, got %s", p.State())
	}

	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if p.State() != StateResultsValid {
		t.Fatalf("successful run must land in results_valid, got %s", p.State())
	}
	if p.Results() == nil {
		t.Fatal("results missing after successful run")
	}

	// Any mutation while results are valid makes them stale.
	err := p.Mutate(func(net *domain.Network) error {
		net.GetNode("J1").Elevation = 55
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if p.State() != StateResultsStale {
		t.Fatalf("mutation on valid results must go stale, got %s", p.State())
	}

	p.Clear()
	if p.State() != StateEmpty || len(p.Network().Nodes) != 0 {
		t.Error("clear must return to an empty project")
	}
}

func TestFailedMutationKeepsState(t *testing.T) {
	p := New(nil, nil)
	seedNetwork(t, p)
	if err := p.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	err := p.Mutate(func(net *domain.Network) error {
		return net.AddNode(domain.NewJunction("J1")) // duplicate
	})
	if err == nil {
		t.Fatal("expected duplicate id to fail")
	}
	if p.State() != StateResultsValid {
		t.Errorf("failed mutation must not change state, got %s", p.State())
	}
}

func TestFailedRunKeepsStateAndResults(t *testing.T) {
	eng := &engine.StubEngine{}
	p := New(eng, nil)
	seedNetwork(t, p)
	if err := p.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	first := p.Results()

	eng.Fail.Stage = "hydraulics"
	eng.Fail.Diagnostics = "Error 110: cannot solve network hydraulic equations"

	if err := p.Run(context.Background()); err == nil {
		t.Fatal("expected run to fail")
	}
	if p.State() != StateResultsValid {
		t.Errorf("failed run must keep prior state, got %s", p.State())
	}
	if p.Results() != first {
		t.Error("failed run must keep prior results")
	}
}

func TestRunOnEmptyProject(t *testing.T) {
	p := New(nil, nil)
	if err := p.Run(context.Background()); err == nil {
		t.Error("running an empty project must fail")
	}
}

func TestOpenSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "model.inp")

	p := New(nil, nil)
	seedNetwork(t, p)
	if err := p.Save(path); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if p.State() != StateLoaded {
		t.Errorf("saving a modified project must return to loaded, got %s", p.State())
	}

	q := New(nil, nil)
	report, err := q.Open(path)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	if !report.OK() {
		t.Fatalf("unexpected import errors: %v", report.Errors)
	}
	if q.State() != StateLoaded || q.Path() != path {
		t.Errorf("unexpected state %s path %q", q.State(), q.Path())
	}
	if len(q.Network().Nodes) != 2 || len(q.Network().Links) != 1 {
		t.Error("network content lost across save/open")
	}
}

func TestSaveWithoutPath(t *testing.T) {
	p := New(nil, nil)
	seedNetwork(t, p)
	if err := p.Save(""); err == nil {
		t.Error("saving with no associated file must fail")
	}
}

func TestRunPublishesEvents(t *testing.T) {
	bus := NewEventBus()
	ch := make(chan Event, 64)
	bus.Subscribe(ch)

	p := New(nil, bus)
	seedNetwork(t, p)
	if err := p.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	seen := map[EventType]bool{}
	for {
		select {
		case ev := <-ch:
			seen[ev.Type] = true
			continue
		default:
		}
		break
	}
	for _, want := range []EventType{EventModified, EventRunStarted, EventRunProgress, EventRunCompleted, EventStateChanged} {
		if !seen[want] {
			t.Errorf("missing event %s", want)
		}
	}
}

func TestRunResultsInProjectUnits(t *testing.T) {
	p := New(nil, nil)
	seedNetwork(t, p)
	if err := p.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	// The stub reports each node's head as its elevation (reservoirs
	// their total head); values must come back in feet, not meters.
	net := p.Network()
	if got := net.GetNode("R1").Results.Head; !approx(got, 100) {
		t.Errorf("reservoir head = %v, want 100 ft", got)
	}
	if got := net.GetNode("J1").Results.Head; !approx(got, 50) {
		t.Errorf("junction head = %v, want 50 ft", got)
	}
}

func approx(a, b float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < 1e-6
}

func TestImportCoordinates(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "layout.txt")
	if err := os.WriteFile(path, []byte("J1 120 340\nGHOST 1 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	p := New(nil, nil)
	seedNetwork(t, p)

	report, err := p.ImportCoordinates(path)
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if len(report.Errors) != 1 {
		t.Errorf("expected one error for the unknown node, got %v", report.Errors)
	}
	if j := p.Network().GetNode("J1"); j.X != 120 || j.Y != 340 {
		t.Errorf("J1 not moved: %v,%v", j.X, j.Y)
	}
	if p.State() != StateModified {
		t.Errorf("coordinate import must count as a mutation, got %s", p.State())
	}
}

func TestOpenedFileCanRunDirectly(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "model.inp")

	p := New(nil, nil)
	seedNetwork(t, p)
	if err := p.Save(path); err != nil {
		t.Fatal(err)
	}

	q := New(nil, nil)
	if _, err := q.Open(path); err != nil {
		t.Fatal(err)
	}
	if err := q.Run(context.Background()); err != nil {
		t.Fatalf("run after open failed: %v", err)
	}
	if q.State() != StateResultsValid {
		t.Errorf("expected results_valid, got %s", q.State())
	}
}
