package testutil

import (
	"github.com/arthur-debert/stowng/pkg/filesystem"
	"github.com/arthur-debert/stowng/pkg/types"
	"github.com/spf13/afero"
)

// NewTestFS creates a new in-memory filesystem for testing, rooted at "/".
// It returns the backing afero.Fs as well so tests can seed it.
func NewTestFS() (types.FS, afero.Fs) {
	mem := afero.NewMemMapFs()
	return filesystem.NewAferoFS(mem, "/"), mem
}
