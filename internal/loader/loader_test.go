package loader

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"waterworks/internal/domain"
)

func sampleNetwork(t *testing.T) *domain.Network {
	t.Helper()
	net := domain.NewNetwork()
	j := domain.NewJunction("J1")
	j.Elevation = 50
	if err := net.AddNode(j); err != nil {
		t.Fatal(err)
	}
	if err := net.AddNode(domain.NewReservoir("R1")); err != nil {
		t.Fatal(err)
	}
	p := domain.NewPipe("P1", "R1", "J1")
	p.Pipe.Length = 1000
	p.Pipe.Diameter = 12
	p.Pipe.Roughness = 100
	if err := net.AddLink(p); err != nil {
		t.Fatal(err)
	}
	return net
}

func TestSaveOpenByExtension(t *testing.T) {
	for _, ext := range []string{".inp", ".json"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "model"+ext)
			if err := Save(sampleNetwork(t), path); err != nil {
				t.Fatalf("save failed: %v", err)
			}

			net, report, err := Open(path)
			if err != nil {
				t.Fatalf("open failed: %v", err)
			}
			if !report.OK() {
				t.Fatalf("unexpected import errors: %v", report.Errors)
			}
			if len(net.Nodes) != 2 || len(net.Links) != 1 {
				t.Errorf("entity counts lost: %d nodes, %d links", len(net.Nodes), len(net.Links))
			}
			if net.GetNode("J1").Elevation != 50 {
				t.Error("elevation lost")
			}
		})
	}
}

func TestOpenUnknownExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.xlsx")
	if err := os.WriteFile(path, []byte("junk"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := Open(path); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("expected ErrUnknownFormat, got %v", err)
	}
	if err := Save(domain.NewNetwork(), path); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("expected ErrUnknownFormat on save, got %v", err)
	}
}

func TestOpenMissingFile(t *testing.T) {
	if _, _, err := Open(filepath.Join(t.TempDir(), "absent.inp")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	if err := Save(sampleNetwork(t), filepath.Join(dir, "model.inp")); err != nil {
		t.Fatal(err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only the model file, found %d entries", len(entries))
	}
}
