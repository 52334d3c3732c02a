package source

import (
	"context"
	"os"

	"github.com/matzehuels/zoomtree/pkg/errors"
	zio "github.com/matzehuels/zoomtree/pkg/io"
)

// File loads a dataset from the local filesystem.
type File struct {
	Path   string
	Format zio.Format
}

// NewFile creates a file loader. An empty format is detected from the extension.
func NewFile(path string, format zio.Format) *File {
	return &File{Path: path, Format: formatFor(path, format)}
}

// Fetch reads the file.
func (f *File) Fetch(ctx context.Context) (Dataset, error) {
	if err := ctx.Err(); err != nil {
		return Dataset{}, err
	}
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return Dataset{}, errors.Wrap(errors.ErrCodeDataLoad, err, "read %s", f.Path)
	}
	return Dataset{Ref: f.Path, Format: f.Format, Data: data}, nil
}

func (f *File) String() string { return f.Path }
