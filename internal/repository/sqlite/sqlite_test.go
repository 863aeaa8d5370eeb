package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"waterworks/internal/domain"
	"waterworks/internal/repository"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "library.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func buildNetwork(t *testing.T) *domain.Network {
	t.Helper()
	net := domain.NewNetwork()
	r := domain.NewReservoir("R1")
	r.Reservoir.TotalHead = 100
	if err := net.AddNode(r); err != nil {
		t.Fatal(err)
	}
	j := domain.NewJunction("J1")
	j.Elevation = 50
	j.Junction.BaseDemand = 10
	if err := net.AddNode(j); err != nil {
		t.Fatal(err)
	}
	p := domain.NewPipe("P1", "R1", "J1")
	p.Pipe.Length = 1000
	if err := net.AddLink(p); err != nil {
		t.Fatal(err)
	}
	if err := net.AddPattern(&domain.Pattern{ID: "PAT1", Multipliers: []float64{1, 1.5}}); err != nil {
		t.Fatal(err)
	}
	return net
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	if err := s.SaveNetwork(ctx, "baseline", buildNetwork(t)); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	net, err := s.LoadNetwork(ctx, "baseline")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(net.Nodes) != 2 || len(net.Links) != 1 {
		t.Errorf("entity counts lost: %d nodes, %d links", len(net.Nodes), len(net.Links))
	}
	if net.GetNode("J1").Junction.BaseDemand != 10 {
		t.Error("junction demand lost")
	}
	if pat := net.GetPattern("PAT1"); pat == nil || len(pat.Multipliers) != 2 {
		t.Error("pattern lost")
	}

	// The loaded network still enforces its invariants.
	if err := net.AddNode(domain.NewJunction("J1")); err == nil {
		t.Error("loaded network must reject duplicate ids")
	}
}

func TestSaveReplacesExisting(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	net := buildNetwork(t)
	if err := s.SaveNetwork(ctx, "baseline", net); err != nil {
		t.Fatal(err)
	}
	if err := net.AddNode(domain.NewJunction("J2")); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveNetwork(ctx, "baseline", net); err != nil {
		t.Fatalf("second save failed: %v", err)
	}

	loaded, err := s.LoadNetwork(ctx, "baseline")
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded.Nodes) != 3 {
		t.Errorf("expected replaced snapshot with 3 nodes, got %d", len(loaded.Nodes))
	}

	list, err := s.ListNetworks(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 {
		t.Errorf("replace must not create a second row, got %d", len(list))
	}
}

func TestListNetworks(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	if err := s.SaveNetwork(ctx, "a", buildNetwork(t)); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveNetwork(ctx, "b", domain.NewNetwork()); err != nil {
		t.Fatal(err)
	}

	list, err := s.ListNetworks(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(list))
	}
	for _, sum := range list {
		switch sum.Name {
		case "a":
			if sum.Nodes != 2 || sum.Links != 1 || sum.FlowUnits != "GPM" {
				t.Errorf("unexpected summary for a: %+v", sum)
			}
		case "b":
			if sum.Nodes != 0 || sum.Links != 0 {
				t.Errorf("unexpected summary for b: %+v", sum)
			}
		default:
			t.Errorf("unexpected snapshot %q", sum.Name)
		}
	}
}

func TestLoadMissing(t *testing.T) {
	s := openStore(t)
	if _, err := s.LoadNetwork(context.Background(), "ghost"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteNetwork(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	if err := s.SaveNetwork(ctx, "doomed", buildNetwork(t)); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteNetwork(ctx, "doomed"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := s.LoadNetwork(ctx, "doomed"); !errors.Is(err, repository.ErrNotFound) {
		t.Error("snapshot must be gone after delete")
	}
	if err := s.DeleteNetwork(ctx, "doomed"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("double delete must report not found, got %v", err)
	}
}

func TestRunHistory(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	if err := s.SaveNetwork(ctx, "baseline", buildNetwork(t)); err != nil {
		t.Fatal(err)
	}

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	runs := []repository.RunRecord{
		{Snapshot: "baseline", Engine: "stub", Steps: 25, Succeeded: true, StartedAt: base},
		{Snapshot: "baseline", Engine: "stub", Succeeded: false,
			Diagnostic: "Error 110: cannot solve network hydraulic equations", StartedAt: base.Add(time.Hour)},
	}
	for _, rec := range runs {
		if err := s.RecordRun(ctx, rec); err != nil {
			t.Fatalf("record failed: %v", err)
		}
	}

	got, err := s.ListRuns(ctx, "baseline")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(got))
	}
	// Newest first.
	if got[0].Succeeded || got[0].Diagnostic == "" {
		t.Errorf("expected the failed run first, got %+v", got[0])
	}
	if !got[1].Succeeded || got[1].Steps != 25 {
		t.Errorf("unexpected oldest run: %+v", got[1])
	}

	// Deleting the snapshot cascades to its history.
	if err := s.DeleteNetwork(ctx, "baseline"); err != nil {
		t.Fatal(err)
	}
	got, err = s.ListRuns(ctx, "baseline")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("run history must cascade on delete, got %d rows", len(got))
	}
}
