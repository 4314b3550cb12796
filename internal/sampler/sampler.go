package sampler

import (
	"context"
	"path/filepath"

	"dynens/pkg/types"
)

// Sampler runs one nested sampling pass and writes the native output files
// for the configured base directory and file root.
type Sampler interface {
	Run(ctx context.Context, s types.Settings, comm Communicator) error
}

// ResumePath returns the location of the resume snapshot for a file root.
func ResumePath(baseDir, fileRoot string) string {
	return filepath.Join(baseDir, fileRoot+".resume")
}

// IniPath returns the location of the generated ini file for a file root.
func IniPath(baseDir, fileRoot string) string {
	return filepath.Join(baseDir, fileRoot+".ini")
}
