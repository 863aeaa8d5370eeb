package domain

import (
	"errors"
	"fmt"
)

// MaxIDLength is the longest entity id the engine accepts.
const MaxIDLength = 31

// DefaultMapExtent is the initial map bounds of an empty network.
const DefaultMapExtent = 10000.0

// ErrNotFound is returned when a get/remove targets a missing id.
var ErrNotFound = errors.New("not found")

// Bounds is the network's map extent. It widens automatically as nodes
// are inserted outside it; it never shrinks.
type Bounds struct {
	MinX float64 `json:"min_x"`
	MinY float64 `json:"min_y"`
	MaxX float64 `json:"max_x"`
	MaxY float64 `json:"max_y"`
}

func defaultBounds() Bounds {
	return Bounds{MinX: 0, MinY: 0, MaxX: DefaultMapExtent, MaxY: DefaultMapExtent}
}

// widen grows the bounds to include (x, y).
func (b *Bounds) widen(x, y float64) {
	if x < b.MinX {
		b.MinX = x
	}
	if x > b.MaxX {
		b.MaxX = x
	}
	if y < b.MinY {
		b.MinY = y
	}
	if y > b.MaxY {
		b.MaxY = y
	}
}

// Network is the aggregate root holding the complete model. All mutating
// operations validate the referential invariants before applying and
// leave the aggregate unchanged on failure.
//
// A Network is not safe for concurrent mutation; callers serialize edits.
type Network struct {
	Title string   `json:"title,omitempty"`
	Notes []string `json:"notes,omitempty"`

	Nodes    map[string]*Node    `json:"nodes"`
	Links    map[string]*Link    `json:"links"`
	Patterns map[string]*Pattern `json:"patterns"`
	Curves   map[string]*Curve   `json:"curves"`
	Labels   map[string]*Label   `json:"labels"`

	Controls []SimpleControl `json:"controls,omitempty"`
	Rules    []Rule          `json:"rules,omitempty"`

	Options Options `json:"options"`
	Bounds  Bounds  `json:"bounds"`
}

// NewNetwork creates an empty network with default options and map extent.
func NewNetwork() *Network {
	n := &Network{}
	n.Clear()
	return n
}

// Clear resets the aggregate to an empty network with default options and
// the default 10,000 x 10,000 map extent.
func (n *Network) Clear() {
	n.Title = ""
	n.Notes = nil
	n.Nodes = make(map[string]*Node)
	n.Links = make(map[string]*Link)
	n.Patterns = make(map[string]*Pattern)
	n.Curves = make(map[string]*Curve)
	n.Labels = make(map[string]*Label)
	n.Controls = nil
	n.Rules = nil
	n.Options = DefaultOptions()
	n.Bounds = defaultBounds()
}

func checkID(entity, id string) *StructuralError {
	if len(id) == 0 || len(id) > MaxIDLength {
		return structural(InvariantIDLength, entity, id, "")
	}
	return nil
}

// AddNode inserts a node. The id must be unique among nodes and the node
// must carry the payload matching its kind.
func (n *Network) AddNode(node *Node) error {
	if err := checkID("node", node.ID); err != nil {
		return err
	}
	if _, exists := n.Nodes[node.ID]; exists {
		return structural(InvariantUniqueID, "node", node.ID, "")
	}
	switch node.Kind {
	case NodeJunction:
		if node.Junction == nil {
			return structural(InvariantVariant, "node", node.ID, "")
		}
	case NodeReservoir:
		if node.Reservoir == nil {
			return structural(InvariantVariant, "node", node.ID, "")
		}
	case NodeTank:
		if node.Tank == nil {
			return structural(InvariantVariant, "node", node.ID, "")
		}
	default:
		return structural(InvariantVariant, "node", node.ID, "")
	}
	n.Nodes[node.ID] = node
	n.Bounds.widen(node.X, node.Y)
	return nil
}

// GetNode returns the node with the given id, or nil.
func (n *Network) GetNode(id string) *Node { return n.Nodes[id] }

// RemoveNode deletes a node. It fails while any link references the node.
func (n *Network) RemoveNode(id string) error {
	if _, exists := n.Nodes[id]; !exists {
		return fmt.Errorf("node %q: %w", id, ErrNotFound)
	}
	for _, link := range n.Links {
		if link.Involves(id) {
			return structural(InvariantNodeInUse, "node", id, link.ID)
		}
	}
	delete(n.Nodes, id)
	return nil
}

// MoveNode updates a node's coordinates, widening the map bounds.
func (n *Network) MoveNode(id string, x, y float64) error {
	node, exists := n.Nodes[id]
	if !exists {
		return fmt.Errorf("node %q: %w", id, ErrNotFound)
	}
	node.X, node.Y = x, y
	n.Bounds.widen(x, y)
	return nil
}

// AddLink inserts a link. Both endpoints must already exist and the link
// must carry the payload matching its kind.
func (n *Network) AddLink(link *Link) error {
	if err := checkID("link", link.ID); err != nil {
		return err
	}
	if _, exists := n.Links[link.ID]; exists {
		return structural(InvariantUniqueID, "link", link.ID, "")
	}
	if _, ok := n.Nodes[link.FromNode]; !ok {
		return structural(InvariantEndpoint, "link", link.ID, link.FromNode)
	}
	if _, ok := n.Nodes[link.ToNode]; !ok {
		return structural(InvariantEndpoint, "link", link.ID, link.ToNode)
	}
	switch link.Kind {
	case LinkPipe:
		if link.Pipe == nil {
			return structural(InvariantVariant, "link", link.ID, "")
		}
	case LinkPump:
		if link.Pump == nil {
			return structural(InvariantVariant, "link", link.ID, "")
		}
	case LinkValve:
		if link.Valve == nil {
			return structural(InvariantVariant, "link", link.ID, "")
		}
	default:
		return structural(InvariantVariant, "link", link.ID, "")
	}
	n.Links[link.ID] = link
	return nil
}

// GetLink returns the link with the given id, or nil.
func (n *Network) GetLink(id string) *Link { return n.Links[id] }

// RemoveLink deletes a link.
func (n *Network) RemoveLink(id string) error {
	if _, exists := n.Links[id]; !exists {
		return fmt.Errorf("link %q: %w", id, ErrNotFound)
	}
	delete(n.Links, id)
	return nil
}

// AddPattern inserts a time pattern.
func (n *Network) AddPattern(p *Pattern) error {
	if err := checkID("pattern", p.ID); err != nil {
		return err
	}
	if _, exists := n.Patterns[p.ID]; exists {
		return structural(InvariantUniqueID, "pattern", p.ID, "")
	}
	n.Patterns[p.ID] = p
	return nil
}

// GetPattern returns the pattern with the given id, or nil.
func (n *Network) GetPattern(id string) *Pattern { return n.Patterns[id] }

// RemovePattern deletes a pattern. It fails while any junction's primary
// demand pattern references it. Secondary demand categories do not block
// removal; Validate reports those as advisories.
func (n *Network) RemovePattern(id string) error {
	if _, exists := n.Patterns[id]; !exists {
		return fmt.Errorf("pattern %q: %w", id, ErrNotFound)
	}
	for _, node := range n.Nodes {
		if node.Junction != nil && node.Junction.DemandPattern == id {
			return structural(InvariantPatternInUse, "pattern", id, node.ID)
		}
	}
	delete(n.Patterns, id)
	return nil
}

// AddCurve inserts a data curve.
func (n *Network) AddCurve(c *Curve) error {
	if err := checkID("curve", c.ID); err != nil {
		return err
	}
	if _, exists := n.Curves[c.ID]; exists {
		return structural(InvariantUniqueID, "curve", c.ID, "")
	}
	n.Curves[c.ID] = c
	return nil
}

// GetCurve returns the curve with the given id, or nil.
func (n *Network) GetCurve(id string) *Curve { return n.Curves[id] }

// RemoveCurve deletes a curve. It fails while any pump's head curve
// references it.
func (n *Network) RemoveCurve(id string) error {
	if _, exists := n.Curves[id]; !exists {
		return fmt.Errorf("curve %q: %w", id, ErrNotFound)
	}
	for _, link := range n.Links {
		if link.Pump != nil && link.Pump.PumpCurve == id {
			return structural(InvariantCurveInUse, "curve", id, link.ID)
		}
	}
	delete(n.Curves, id)
	return nil
}

// AddLabel inserts a map label.
func (n *Network) AddLabel(l *Label) error {
	if l.ID == "" {
		return structural(InvariantIDLength, "label", l.ID, "")
	}
	if _, exists := n.Labels[l.ID]; exists {
		return structural(InvariantUniqueID, "label", l.ID, "")
	}
	n.Labels[l.ID] = l
	return nil
}

// GetLabel returns the label with the given id, or nil.
func (n *Network) GetLabel(id string) *Label { return n.Labels[id] }

// RemoveLabel deletes a label.
func (n *Network) RemoveLabel(id string) error {
	if _, exists := n.Labels[id]; !exists {
		return fmt.Errorf("label %q: %w", id, ErrNotFound)
	}
	delete(n.Labels, id)
	return nil
}

// Junctions returns all junction nodes.
func (n *Network) Junctions() []*Node { return n.nodesOfKind(NodeJunction) }

// Reservoirs returns all reservoir nodes.
func (n *Network) Reservoirs() []*Node { return n.nodesOfKind(NodeReservoir) }

// Tanks returns all tank nodes.
func (n *Network) Tanks() []*Node { return n.nodesOfKind(NodeTank) }

func (n *Network) nodesOfKind(kind NodeKind) []*Node {
	var out []*Node
	for _, node := range n.Nodes {
		if node.Kind == kind {
			out = append(out, node)
		}
	}
	return out
}

// Pipes returns all pipe links.
func (n *Network) Pipes() []*Link { return n.linksOfKind(LinkPipe) }

// Pumps returns all pump links.
func (n *Network) Pumps() []*Link { return n.linksOfKind(LinkPump) }

// Valves returns all valve links.
func (n *Network) Valves() []*Link { return n.linksOfKind(LinkValve) }

func (n *Network) linksOfKind(kind LinkKind) []*Link {
	var out []*Link
	for _, link := range n.Links {
		if link.Kind == kind {
			out = append(out, link)
		}
	}
	return out
}

// LinksFor returns all links touching the given node.
func (n *Network) LinksFor(nodeID string) []*Link {
	var out []*Link
	for _, link := range n.Links {
		if link.Involves(nodeID) {
			out = append(out, link)
		}
	}
	return out
}
