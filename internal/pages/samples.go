package pages

import (
	"embed"
	"errors"
	"io/fs"
	"os"
)

//go:embed samples
var embedded embed.FS

// EmbeddedSamples returns the sample sources compiled into the binary.
func EmbeddedSamples() fs.FS {
	sub, err := fs.Sub(embedded, "samples")
	if err != nil {
		panic(err)
	}
	return sub
}

// Samples returns the embedded samples overlaid by dir. Files present in dir
// win; everything else comes from the binary. An empty dir yields the
// embedded samples unchanged.
func Samples(dir string) fs.FS {
	if dir == "" {
		return EmbeddedSamples()
	}
	return overlayFS{upper: os.DirFS(dir), lower: EmbeddedSamples()}
}

type overlayFS struct {
	upper fs.FS
	lower fs.FS
}

func (o overlayFS) Open(name string) (fs.File, error) {
	f, err := o.upper.Open(name)
	if err == nil {
		return f, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	return o.lower.Open(name)
}
