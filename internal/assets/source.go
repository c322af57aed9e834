package assets

import (
	"context"
	"errors"
	"io/fs"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// ErrNotFound is returned when a source has no asset under the requested name.
var ErrNotFound = errors.New("asset not found")

// Source serves the bytes of a named static asset.
type Source interface {
	Open(ctx context.Context, name string) ([]byte, error)
}

// FSSource reads assets from a file system, such as the embedded web/public
// tree or os.DirFS of a directory on disk.
type FSSource struct {
	fsys fs.FS
}

// NewFSSource creates a source reading from fsys
func NewFSSource(fsys fs.FS) *FSSource {
	return &FSSource{fsys: fsys}
}

func (s *FSSource) Open(_ context.Context, name string) ([]byte, error) {
	name = strings.TrimPrefix(name, "/")
	if !fs.ValidPath(name) || name == "." {
		return nil, ErrNotFound
	}

	data, err := fs.ReadFile(s.fsys, name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// ContentType returns the media type for an asset, by extension first and by
// sniffing the content otherwise.
func ContentType(name string, data []byte) string {
	switch strings.ToLower(path.Ext(name)) {
	case ".html":
		return "text/html"
	case ".css":
		return "text/css"
	case ".js":
		return "application/javascript"
	case ".png":
		return "image/png"
	default:
		return mimetype.Detect(data).String()
	}
}
