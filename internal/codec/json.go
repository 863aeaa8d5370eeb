package codec

import (
	"encoding/json"
	"fmt"
	"io"

	"waterworks/internal/domain"
)

// JSONCodec handles JSON import/export of a complete network, used for
// interchange with other tooling and by the project repository.
type JSONCodec struct{}

// NewJSONCodec creates a new JSON codec.
func NewJSONCodec() *JSONCodec { return &JSONCodec{} }

// Format returns the codec format identifier.
func (c *JSONCodec) Format() string { return "json" }

// Parse imports a network from JSON.
func (c *JSONCodec) Parse(r io.Reader) (*domain.Network, error) {
	net := domain.NewNetwork()
	decoder := json.NewDecoder(r)
	if err := decoder.Decode(net); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return net, nil
}

// Export writes a network to JSON.
func (c *JSONCodec) Export(net *domain.Network, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(net); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
