package codec

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"waterworks/internal/domain"
)

// NodePosition is one entry of a coordinate-only import.
type NodePosition struct {
	NodeID string
	X      float64
	Y      float64
}

// ParseCoordinates reads a bare "id x y" list. A [COORDINATES] header is
// tolerated and skipped, so the degenerate single-section file form works
// too. Malformed lines are recorded in the report and skipped.
func ParseCoordinates(r io.Reader) ([]NodePosition, *ImportReport, error) {
	var positions []NodePosition
	report := &ImportReport{}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if i := strings.Index(line, ";"); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "[") {
			continue
		}

		f := strings.Fields(line)
		if len(f) < 3 {
			report.add("COORDINATES", line, fmt.Errorf("coordinate needs id, x and y"))
			continue
		}
		x, err := strconv.ParseFloat(f[1], 64)
		if err != nil {
			report.add("COORDINATES", line, fmt.Errorf("%q is not a number", f[1]))
			continue
		}
		y, err := strconv.ParseFloat(f[2], 64)
		if err != nil {
			report.add("COORDINATES", line, fmt.Errorf("%q is not a number", f[2]))
			continue
		}
		positions = append(positions, NodePosition{NodeID: f[0], X: x, Y: y})
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("read coordinate file: %w", err)
	}
	return positions, report, nil
}

// ApplyCoordinates moves the named nodes, leaving every other entity
// untouched. Positions naming unknown nodes are reported and skipped.
func ApplyCoordinates(net *domain.Network, positions []NodePosition, report *ImportReport) {
	for _, pos := range positions {
		if err := net.MoveNode(pos.NodeID, pos.X, pos.Y); err != nil {
			report.add("COORDINATES", pos.NodeID, err)
		}
	}
}
