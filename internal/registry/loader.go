package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"dynens/internal/common/fsutil"
)

// Entry describes one completed run found in an output directory.
type Entry struct {
	// Root is the file root shared by the run's output files.
	Root string
	// DeadBirthPath is the absolute path of the run's dead-birth file.
	DeadBirthPath string
	// HasPosteriors reports whether a posterior sample table sits next to it.
	HasPosteriors bool
	// HasStats reports whether a stats file sits next to it.
	HasStats bool
}

const deadBirthSuffix = "_dead-birth.txt"

// LoadDir scans a directory for dead-birth files and builds an entry per
// run root found.
func LoadDir(dir string) ([]Entry, error) {
	base, err := fsutil.ExpandHome(dir)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("abs path: %w", err)
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}
	var runs []Entry
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(name, deadBirthSuffix) {
			continue
		}
		root := strings.TrimSuffix(name, deadBirthSuffix)
		runs = append(runs, Entry{
			Root:          root,
			DeadBirthPath: filepath.Join(abs, name),
			HasPosteriors: fsutil.PathExists(filepath.Join(abs, root+".txt")),
			HasStats:      fsutil.PathExists(filepath.Join(abs, root+".stats")),
		})
	}
	return runs, nil
}
