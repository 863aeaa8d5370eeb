package codec

import (
	"bytes"
	"strings"
	"testing"

	"waterworks/internal/domain"
	"waterworks/internal/units"
)

const sampleINP = `
[TITLE]
Small test system
Two loops fed by gravity

[JUNCTIONS]
;ID    Elev   Demand  Pattern
J1     50     10      PAT1
J2     48     5

[RESERVOIRS]
R1     100

[TANKS]
T1     80  15  5  25  40  0

[PIPES]
P1     R1   J1   1000   12   100   0   OPEN
P2     J1   J2   800    10   100   0   CLOSED
P3     J2   T1   600    8    100   0   CV

[PUMPS]
PU1    J2   J1   HEAD C1 SPEED 1.2

[VALVES]
V1     J1   T1   6   PRV   70   0

[DEMANDS]
J1     10      PAT1
J1     4       PAT1     ;industrial

[PATTERNS]
PAT1   1.0  1.2  1.4
PAT1   0.8  0.6  1.0

[CURVES]
C1     1500  250

[STATUS]
PU1    CLOSED

[CONTROLS]
LINK P2 OPEN IF NODE T1 ABOVE 20
LINK PU1 CLOSED AT TIME 6

[RULES]
RULE 1
IF NODE J1 PRESSURE BELOW 20
THEN PUMP PU1 STATUS IS OPEN
PRIORITY 2

[ENERGY]
GLOBAL EFFICIENCY 80
GLOBAL PRICE 0.08

[OPTIONS]
UNITS GPM
HEADLOSS H-W
QUALITY AGE
TRIALS 50

[TIMES]
DURATION 48
HYDRAULIC TIMESTEP 0:30
REPORT TIMESTEP 1:00

[COORDINATES]
J1   20   30
J2   45   30
R1   0    30
T1   70   30

[VERTICES]
P2   30   35

[LABELS]
5  40  "Source"  R1

[END]
`

func parseSample(t *testing.T) (*domain.Network, *ImportReport) {
	t.Helper()
	net, report, err := NewINPCodec().ParseReport(strings.NewReader(sampleINP))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	return net, report
}

func TestParseSampleNetwork(t *testing.T) {
	net, report := parseSample(t)

	if !report.OK() {
		t.Fatalf("expected clean import, got %v", report.Errors)
	}

	t.Run("title and counts", func(t *testing.T) {
		if net.Title != "Small test system" {
			t.Errorf("unexpected title %q", net.Title)
		}
		if len(net.Notes) != 1 {
			t.Errorf("expected one note line, got %d", len(net.Notes))
		}
		if len(net.Nodes) != 4 || len(net.Links) != 5 {
			t.Errorf("expected 4 nodes and 5 links, got %d/%d", len(net.Nodes), len(net.Links))
		}
	})

	t.Run("junction fields", func(t *testing.T) {
		j := net.GetNode("J1")
		if j == nil || j.Junction == nil {
			t.Fatal("missing junction J1")
		}
		if j.Elevation != 50 || j.Junction.BaseDemand != 10 || j.Junction.DemandPattern != "PAT1" {
			t.Errorf("unexpected junction: %+v", j)
		}
		if len(j.Junction.Categories) != 1 || j.Junction.Categories[0].Name != "industrial" {
			t.Errorf("expected one named demand category, got %+v", j.Junction.Categories)
		}
	})

	t.Run("tank fields", func(t *testing.T) {
		tank := net.GetNode("T1")
		if tank == nil || tank.Tank == nil {
			t.Fatal("missing tank T1")
		}
		if tank.Tank.MaxLevel != 25 || tank.Tank.Diameter != 40 {
			t.Errorf("unexpected tank payload: %+v", tank.Tank)
		}
	})

	t.Run("pipe statuses", func(t *testing.T) {
		if net.GetLink("P2").Status != domain.StatusClosed {
			t.Error("P2 should be closed")
		}
		p3 := net.GetLink("P3")
		if !p3.Pipe.CheckValve || p3.EffectiveKind() != "cv-pipe" {
			t.Error("P3 should carry a check valve")
		}
	})

	t.Run("pump and status override", func(t *testing.T) {
		pu := net.GetLink("PU1")
		if pu.Pump.PumpCurve != "C1" || pu.Pump.Speed != 1.2 {
			t.Errorf("unexpected pump payload: %+v", pu.Pump)
		}
		if pu.Status != domain.StatusClosed {
			t.Error("STATUS section should close PU1")
		}
	})

	t.Run("pattern accumulates across lines", func(t *testing.T) {
		pat := net.GetPattern("PAT1")
		if pat == nil || len(pat.Multipliers) != 6 {
			t.Fatalf("expected 6 multipliers, got %+v", pat)
		}
	})

	t.Run("curve kind inferred from pump", func(t *testing.T) {
		c := net.GetCurve("C1")
		if c == nil || c.Kind != domain.CurvePump {
			t.Errorf("expected pump curve, got %+v", c)
		}
	})

	t.Run("controls and rules", func(t *testing.T) {
		if len(net.Controls) != 2 {
			t.Fatalf("expected 2 controls, got %d", len(net.Controls))
		}
		if net.Controls[0].Kind != domain.ControlNodeLevel || net.Controls[0].Threshold != 20 {
			t.Errorf("unexpected control: %+v", net.Controls[0])
		}
		if len(net.Rules) != 1 {
			t.Fatalf("expected 1 rule, got %d", len(net.Rules))
		}
		r := net.Rules[0]
		if r.ID != "1" || len(r.Conditions) != 1 || len(r.ThenActions) != 1 {
			t.Errorf("unexpected rule: %+v", r)
		}
		if r.Priority == nil || *r.Priority != 2 {
			t.Errorf("expected priority 2, got %v", r.Priority)
		}
	})

	t.Run("options and times", func(t *testing.T) {
		if net.Options.Quality != domain.QualityAge || net.Options.Trials != 50 {
			t.Errorf("unexpected options: %+v", net.Options)
		}
		if net.Options.Duration != 48*3600 {
			t.Errorf("expected 48h duration, got %d", net.Options.Duration)
		}
		if net.Options.HydStep != 1800 {
			t.Errorf("expected 30min hydraulic step, got %d", net.Options.HydStep)
		}
	})

	t.Run("geometry", func(t *testing.T) {
		if j := net.GetNode("J1"); j.X != 20 || j.Y != 30 {
			t.Errorf("unexpected J1 position: %v,%v", j.X, j.Y)
		}
		if p2 := net.GetLink("P2"); len(p2.Vertices) != 1 {
			t.Errorf("expected one vertex on P2, got %+v", p2.Vertices)
		}
		if len(net.Labels) != 1 {
			t.Fatalf("expected one label, got %d", len(net.Labels))
		}
		for _, l := range net.Labels {
			if l.Text != "Source" || l.Anchor != "R1" {
				t.Errorf("unexpected label: %+v", l)
			}
		}
	})

	t.Run("energy", func(t *testing.T) {
		if net.Options.EnergyEffic != 80 || net.Options.EnergyPrice != 0.08 {
			t.Errorf("unexpected energy options: %+v", net.Options)
		}
	})
}

func TestParseOptionsSelectsUnits(t *testing.T) {
	input := "[OPTIONS]\n UNITS LPS\n HEADLOSS D-W\n"
	net, err := NewINPCodec().Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if net.Options.FlowUnits != units.FlowLPS {
		t.Errorf("expected LPS, got %s", net.Options.FlowUnits)
	}
	if net.Options.Headloss != domain.HeadlossDW {
		t.Errorf("expected D-W, got %s", net.Options.Headloss)
	}
	if conv := units.NewConverter(net.Options.FlowUnits); !conv.Metric() {
		t.Error("converter built from LPS options must be metric")
	}
}

func TestImportTolerance(t *testing.T) {
	input := `
[JUNCTIONS]
J1   50
J2   not-a-number
J3   40

[PIPES]
P1   J1  J3   100  12  100
P2   J1  GHOST 100 12  100

[BOGUS_SECTION]
whatever

[END]
`
	net, report, err := NewINPCodec().ParseReport(strings.NewReader(input))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	// The import continued past the bad lines.
	if net.GetNode("J1") == nil || net.GetNode("J3") == nil {
		t.Error("good junctions must survive a bad sibling line")
	}
	if net.GetNode("J2") != nil {
		t.Error("malformed junction must be skipped")
	}
	if net.GetLink("P1") == nil {
		t.Error("good pipe must survive")
	}
	if net.GetLink("P2") != nil {
		t.Error("pipe with dangling endpoint must be rejected")
	}

	if len(report.Errors) != 2 {
		t.Fatalf("expected 2 line errors, got %d: %v", len(report.Errors), report.Errors)
	}
	if report.Errors[0].Section != "JUNCTIONS" {
		t.Errorf("expected JUNCTIONS section in first error, got %q", report.Errors[0].Section)
	}
}

func TestExportRoundTrip(t *testing.T) {
	original, _ := parseSample(t)

	var buf bytes.Buffer
	if err := NewINPCodec().Export(original, &buf); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	reparsed, report, err := NewINPCodec().ParseReport(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("reparse failed: %v", err)
	}
	if !report.OK() {
		t.Fatalf("reparse reported errors: %v", report.Errors)
	}

	if len(reparsed.Nodes) != len(original.Nodes) || len(reparsed.Links) != len(original.Links) {
		t.Fatalf("entity counts changed: %d/%d nodes, %d/%d links",
			len(reparsed.Nodes), len(original.Nodes), len(reparsed.Links), len(original.Links))
	}
	if reparsed.GetNode("J1").Junction.BaseDemand != 10 {
		t.Error("junction demand lost in round trip")
	}
	if reparsed.GetLink("P1").Pipe.Length != 1000 {
		t.Error("pipe length lost in round trip")
	}
	if got := reparsed.GetLink("PU1").Pump.Speed; got != 1.2 {
		t.Errorf("pump speed lost in round trip: %v", got)
	}
	if len(reparsed.Controls) != 2 || len(reparsed.Rules) != 1 {
		t.Error("controls or rules lost in round trip")
	}
	if reparsed.Options.Duration != original.Options.Duration {
		t.Error("duration lost in round trip")
	}
	if reparsed.GetNode("T1").Tank.Mixing != original.GetNode("T1").Tank.Mixing {
		t.Error("mixing model lost in round trip")
	}
}

func TestParseClock(t *testing.T) {
	cases := []struct {
		fields []string
		want   int
	}{
		{[]string{"24"}, 24 * 3600},
		{[]string{"1:30"}, 5400},
		{[]string{"0:00:30"}, 30},
		{[]string{"90", "MINUTES"}, 5400},
		{[]string{"2", "DAYS"}, 172800},
		{[]string{"6:00", "PM"}, 18 * 3600},
		{[]string{"12:30", "AM"}, 1800},
	}
	for _, tc := range cases {
		got, err := parseClock(tc.fields)
		if err != nil {
			t.Errorf("parseClock(%v) failed: %v", tc.fields, err)
			continue
		}
		if got != tc.want {
			t.Errorf("parseClock(%v) = %d, want %d", tc.fields, got, tc.want)
		}
	}

	if _, err := parseClock([]string{"noon"}); err == nil {
		t.Error("expected error for non-numeric time")
	}
}
