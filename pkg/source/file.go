package source

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/jruhland/assetscope/pkg/assetgraph"
)

// File is a Provider reading the graph from a JSON document on disk. The
// file is re-read on every fetch so edits show up on the next reload.
type File struct {
	Path   string
	Logger *log.Logger
}

// NewFile creates a file provider for path.
func NewFile(path string, logger *log.Logger) *File {
	if logger == nil {
		logger = log.Default()
	}
	return &File{Path: path, Logger: logger}
}

// Fetch reads and filters the graph. The context is checked before the
// read since file IO itself is not cancellable.
func (f *File) Fetch(ctx context.Context, query string) (*assetgraph.Graph, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	q, err := ParseQuery(query)
	if err != nil {
		return nil, err
	}

	g, err := assetgraph.ReadGraphFile(f.Path)
	if err != nil {
		return nil, err
	}
	f.Logger.Debug("loaded graph file", "path", f.Path, "nodes", g.NodeCount(), "edges", g.EdgeCount())
	return filter(g, q)
}
