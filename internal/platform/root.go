package platform

import (
	"fmt"
	"os"
	"path/filepath"
)

// RootMarkers name the entries that identify a project root.
var RootMarkers = []string{".codefreeze.yaml", ".codefreeze.toml", ".git"}

// FindRoot looks upwards from startDir for a project root marker and returns
// the absolute path of the first directory that has one.
func FindRoot(startDir string) (string, error) {
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	dir := abs
	for {
		for _, marker := range RootMarkers {
			if hasFile(dir, marker) {
				return dir, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("root not found")
}

// ResolveRoot returns dir if given, otherwise the project root around the
// working directory, otherwise the working directory itself.
func ResolveRoot(dir string) (string, error) {
	if dir != "" && dir != "." {
		return filepath.Abs(dir)
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	if root, err := FindRoot(wd); err == nil {
		return root, nil
	}
	return wd, nil
}

func hasFile(dir, name string) bool {
	path := filepath.Join(dir, name)
	_, err := os.Stat(path)
	return err == nil
}
