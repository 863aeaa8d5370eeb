package domain

// NodeKind identifies the node variant.
type NodeKind string

const (
	NodeJunction  NodeKind = "junction"
	NodeReservoir NodeKind = "reservoir"
	NodeTank      NodeKind = "tank"
)

// MixingModel identifies a tank's water-quality mixing regime.
type MixingModel string

const (
	MixingComplete MixingModel = "mixed" // single completely mixed volume
	MixingTwoComp  MixingModel = "2comp" // two-compartment mixing
	MixingFIFO     MixingModel = "fifo"  // plug flow, first in first out
	MixingLIFO     MixingModel = "lifo"  // stacked plug flow
)

// SourceKind identifies how a water-quality source injects into a node.
type SourceKind string

const (
	SourceConcen    SourceKind = "concen"
	SourceMass      SourceKind = "mass"
	SourceSetpoint  SourceKind = "setpoint"
	SourceFlowPaced SourceKind = "flowpaced"
)

// Source is an optional water-quality source attached to a node.
type Source struct {
	Kind    SourceKind `json:"kind"`
	Quality float64    `json:"quality"`
	Pattern string     `json:"pattern,omitempty"`
}

// DemandCategory is a secondary demand on a junction. The pattern name is
// not cross-checked against the pattern map on mutation; a dangling name
// is reported by Network.Validate as an advisory diagnostic instead.
type DemandCategory struct {
	Name       string  `json:"name,omitempty"`
	BaseDemand float64 `json:"base_demand"`
	Pattern    string  `json:"pattern,omitempty"`
}

// Junction holds the junction-specific payload of a Node.
type Junction struct {
	BaseDemand    float64          `json:"base_demand"`
	DemandPattern string           `json:"demand_pattern,omitempty"`
	EmitterCoeff  float64          `json:"emitter_coeff,omitempty"`
	InitQuality   float64          `json:"init_quality,omitempty"`
	Source        *Source          `json:"source,omitempty"`
	Categories    []DemandCategory `json:"categories,omitempty"`
}

// Reservoir holds the reservoir-specific payload of a Node.
type Reservoir struct {
	TotalHead   float64 `json:"total_head"`
	HeadPattern string  `json:"head_pattern,omitempty"`
}

// Tank holds the tank-specific payload of a Node.
type Tank struct {
	InitLevel      float64     `json:"init_level"`
	MinLevel       float64     `json:"min_level"`
	MaxLevel       float64     `json:"max_level"`
	Diameter       float64     `json:"diameter"`
	MinVolume      float64     `json:"min_volume,omitempty"`
	VolumeCurve    string      `json:"volume_curve,omitempty"`
	Mixing         MixingModel `json:"mixing"`
	MixingFraction float64     `json:"mixing_fraction,omitempty"`
	BulkCoeff      float64     `json:"bulk_coeff,omitempty"`
}

// NodeResults are written by the result importer after a run.
type NodeResults struct {
	Demand   float64 `json:"demand"`
	Head     float64 `json:"head"`
	Pressure float64 `json:"pressure"`
	Quality  float64 `json:"quality"`
}

// Node represents a network node. Exactly one variant payload is non-nil,
// matching Kind.
type Node struct {
	ID        string   `json:"id"`
	Kind      NodeKind `json:"kind"`
	X         float64  `json:"x"`
	Y         float64  `json:"y"`
	Elevation float64  `json:"elevation"`
	Comment   string   `json:"comment,omitempty"`
	Tag       string   `json:"tag,omitempty"`

	Junction  *Junction  `json:"junction,omitempty"`
	Reservoir *Reservoir `json:"reservoir,omitempty"`
	Tank      *Tank      `json:"tank,omitempty"`

	Results NodeResults `json:"results"`
}

// NewJunction creates a junction node with zeroed demand.
func NewJunction(id string) *Node {
	return &Node{ID: id, Kind: NodeJunction, Junction: &Junction{}}
}

// NewReservoir creates a reservoir node.
func NewReservoir(id string) *Node {
	return &Node{ID: id, Kind: NodeReservoir, Reservoir: &Reservoir{}}
}

// NewTank creates a tank node with complete mixing.
func NewTank(id string) *Node {
	return &Node{ID: id, Kind: NodeTank, Tank: &Tank{Mixing: MixingComplete, MixingFraction: 1.0}}
}
