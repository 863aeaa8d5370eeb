package domain

// LinkKind identifies the link variant.
type LinkKind string

const (
	LinkPipe  LinkKind = "pipe"
	LinkPump  LinkKind = "pump"
	LinkValve LinkKind = "valve"
)

// LinkStatus is the initial status of a link.
type LinkStatus string

const (
	StatusOpen       LinkStatus = "open"
	StatusClosed     LinkStatus = "closed"
	StatusCheckValve LinkStatus = "cv"
)

// ValveKind identifies one of the six control-valve subtypes.
type ValveKind string

const (
	ValvePRV ValveKind = "PRV" // pressure reducing
	ValvePSV ValveKind = "PSV" // pressure sustaining
	ValvePBV ValveKind = "PBV" // pressure breaker
	ValveFCV ValveKind = "FCV" // flow control
	ValveTCV ValveKind = "TCV" // throttle control
	ValveGPV ValveKind = "GPV" // general purpose
)

// Vertex is an interior bend point of a link. Vertices are rendering
// geometry only; they carry no topological meaning.
type Vertex struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pipe holds the pipe-specific payload of a Link.
type Pipe struct {
	Length     float64 `json:"length"`
	Diameter   float64 `json:"diameter"`
	Roughness  float64 `json:"roughness"`
	MinorLoss  float64 `json:"minor_loss,omitempty"`
	BulkCoeff  float64 `json:"bulk_coeff,omitempty"`
	WallCoeff  float64 `json:"wall_coeff,omitempty"`
	CheckValve bool    `json:"check_valve,omitempty"`
}

// Pump holds the pump-specific payload of a Link.
type Pump struct {
	PumpCurve    string  `json:"pump_curve,omitempty"`
	Power        float64 `json:"power,omitempty"`
	Speed        float64 `json:"speed,omitempty"`
	SpeedPattern string  `json:"speed_pattern,omitempty"`
	EfficCurve   string  `json:"effic_curve,omitempty"`
	EnergyPrice  float64 `json:"energy_price,omitempty"`
	PricePattern string  `json:"price_pattern,omitempty"`
}

// Valve holds the valve-specific payload of a Link.
type Valve struct {
	Kind      ValveKind `json:"kind"`
	Diameter  float64   `json:"diameter"`
	Setting   float64   `json:"setting"`
	MinorLoss float64   `json:"minor_loss,omitempty"`
}

// LinkResults are written by the result importer after a run.
type LinkResults struct {
	Flow     float64 `json:"flow"`
	Velocity float64 `json:"velocity"`
	Headloss float64 `json:"headloss"`
	Quality  float64 `json:"quality"`
}

// Link represents a network link between two nodes. Exactly one variant
// payload is non-nil, matching Kind.
type Link struct {
	ID       string     `json:"id"`
	Kind     LinkKind   `json:"kind"`
	FromNode string     `json:"from_node"`
	ToNode   string     `json:"to_node"`
	Vertices []Vertex   `json:"vertices,omitempty"`
	Status   LinkStatus `json:"status"`
	Comment  string     `json:"comment,omitempty"`
	Tag      string     `json:"tag,omitempty"`

	Pipe  *Pipe  `json:"pipe,omitempty"`
	Pump  *Pump  `json:"pump,omitempty"`
	Valve *Valve `json:"valve,omitempty"`

	Results LinkResults `json:"results"`
}

// NewPipe creates an open pipe between two nodes.
func NewPipe(id, from, to string) *Link {
	return &Link{ID: id, Kind: LinkPipe, FromNode: from, ToNode: to, Status: StatusOpen, Pipe: &Pipe{}}
}

// NewPump creates a pump between two nodes running at full speed.
func NewPump(id, from, to string) *Link {
	return &Link{ID: id, Kind: LinkPump, FromNode: from, ToNode: to, Status: StatusOpen, Pump: &Pump{Speed: 1.0}}
}

// NewValve creates a valve of the given subtype between two nodes.
func NewValve(id, from, to string, kind ValveKind) *Link {
	return &Link{ID: id, Kind: LinkValve, FromNode: from, ToNode: to, Status: StatusOpen, Valve: &Valve{Kind: kind}}
}

// EffectiveKind returns "cv-pipe" for pipes carrying a check valve, the
// plain kind otherwise. The check-valve flag changes the link's effective
// type rather than being an independent attribute.
func (l *Link) EffectiveKind() string {
	if l.Kind == LinkPipe && l.Pipe != nil && l.Pipe.CheckValve {
		return "cv-pipe"
	}
	return string(l.Kind)
}

// Involves reports whether the link touches the given node id.
func (l *Link) Involves(nodeID string) bool {
	return l.FromNode == nodeID || l.ToNode == nodeID
}
