package treefile

import (
	"fmt"
	"os"

	"github.com/aretw0/dtree/pkg/graph"
)

// Load reads and decodes the document at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tree %s: %w", path, err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// LoadGraph reads path and builds its graph.
func LoadGraph(path string, opts ...graph.Option) (*Document, *graph.Graph, error) {
	doc, err := Load(path)
	if err != nil {
		return nil, nil, err
	}
	g, err := doc.Build(opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, g, nil
}
