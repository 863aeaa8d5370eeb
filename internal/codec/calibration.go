package codec

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// CalibrationRegistry maps a measured parameter name (e.g. "pressure",
// "flowrate") to the path of a calibration data file. The files
// themselves are opaque to the model; only the association is kept.
type CalibrationRegistry struct {
	Files map[string]string `yaml:"files"`
}

// NewCalibrationRegistry creates an empty registry.
func NewCalibrationRegistry() *CalibrationRegistry {
	return &CalibrationRegistry{Files: make(map[string]string)}
}

// Set associates a parameter with a file path. An empty path clears it.
func (c *CalibrationRegistry) Set(parameter, path string) {
	if path == "" {
		delete(c.Files, parameter)
		return
	}
	c.Files[parameter] = path
}

// Get returns the file path for a parameter, or "".
func (c *CalibrationRegistry) Get(parameter string) string {
	return c.Files[parameter]
}

// Read loads a registry from YAML.
func (c *CalibrationRegistry) Read(r io.Reader) error {
	decoder := yaml.NewDecoder(r)
	if err := decoder.Decode(c); err != nil {
		return fmt.Errorf("parse calibration registry: %w", err)
	}
	if c.Files == nil {
		c.Files = make(map[string]string)
	}
	return nil
}

// Write stores the registry as YAML.
func (c *CalibrationRegistry) Write(w io.Writer) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal calibration registry: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// LoadCalibration reads a registry file from disk, returning an empty
// registry when the file does not exist.
func LoadCalibration(path string) (*CalibrationRegistry, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return NewCalibrationRegistry(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("open calibration registry: %w", err)
	}
	defer f.Close()

	reg := NewCalibrationRegistry()
	if err := reg.Read(f); err != nil {
		return nil, err
	}
	return reg, nil
}
