// Package loader opens and saves network model files, picking the codec
// from the file extension. ".inp" is the sectioned text format, ".json"
// the native serialization.
package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"waterworks/internal/codec"
	"waterworks/internal/domain"
)

// ErrUnknownFormat is wrapped into errors for unsupported extensions.
var ErrUnknownFormat = fmt.Errorf("unknown model file format")

// Open reads a network from path. For the text format the returned
// report carries per-line import errors; a non-empty report still
// yields a usable network.
func Open(path string) (*domain.Network, *codec.ImportReport, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open model: %w", err)
	}
	defer f.Close()

	switch ext(path) {
	case ".inp":
		return codec.NewINPCodec().ParseReport(f)
	case ".json":
		net, err := codec.NewJSONCodec().Parse(f)
		if err != nil {
			return nil, nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
		}
		return net, &codec.ImportReport{}, nil
	}
	return nil, nil, fmt.Errorf("%w: %s", ErrUnknownFormat, ext(path))
}

// Save writes a network to path, choosing the codec by extension. The
// file is written atomically through a sibling temp file.
func Save(net *domain.Network, path string) error {
	var exp codec.Exporter
	switch ext(path) {
	case ".inp":
		exp = codec.NewINPCodec()
	case ".json":
		exp = codec.NewJSONCodec()
	default:
		return fmt.Errorf("%w: %s", ErrUnknownFormat, ext(path))
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".waterworks-*")
	if err != nil {
		return fmt.Errorf("save model: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := exp.Export(net, tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("save model: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("save model: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}

func ext(path string) string {
	return strings.ToLower(filepath.Ext(path))
}
