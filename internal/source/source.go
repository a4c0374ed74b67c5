package source

import (
	"context"
	"io"
	"path"
	"strings"
)

// Meta describes an opened dataset
type Meta struct {
	Source      string
	Location    string
	ContentType string
	Size        int64
	Bucket      string
	Key         string
}

// Name returns the base file name of the opened object
func (m Meta) Name() string {
	loc := m.Location
	if m.Key != "" {
		loc = m.Key
	}
	if i := strings.IndexAny(loc, "?#"); i >= 0 {
		loc = loc[:i]
	}
	loc = strings.ReplaceAll(loc, "\\", "/")
	return path.Base(loc)
}

// Opener opens a dataset by location. The caller closes the reader.
type Opener interface {
	Open(ctx context.Context, location string) (io.ReadCloser, Meta, error)
}
