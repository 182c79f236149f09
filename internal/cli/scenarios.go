package cli

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// scenarioExts lists the file extensions treated as scenario files.
var scenarioExts = map[string]bool{".yaml": true, ".yml": true, ".cue": true}

// findScenarioFiles expands paths into scenario files. Directories are
// walked recursively (skipping golden/ directories); files are taken as
// given. filter is a glob matched against the file name without its
// extension. Results are in lexical order per argument.
func findScenarioFiles(paths []string, filter string) ([]string, error) {
	if filter != "" {
		if _, err := filepath.Match(filter, ""); err != nil {
			return nil, fmt.Errorf("invalid filter pattern: %w", err)
		}
	}

	var files []string
	add := func(path string) {
		if filter != "" {
			base := filepath.Base(path)
			name := strings.TrimSuffix(base, filepath.Ext(base))
			if matched, _ := filepath.Match(filter, name); !matched {
				return
			}
		}
		files = append(files, path)
	}

	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, &pathError{path: root, err: err}
		}
		if !info.IsDir() {
			add(root)
			continue
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != root && d.Name() == "golden" {
					return filepath.SkipDir
				}
				return nil
			}
			if scenarioExts[filepath.Ext(path)] {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", root, err)
		}
	}
	return files, nil
}

// pathError reports a command-line path that cannot be used.
type pathError struct {
	path string
	err  error
}

func (e *pathError) Error() string {
	if os.IsNotExist(e.err) {
		return fmt.Sprintf("path not found: %s", e.path)
	}
	return fmt.Sprintf("cannot access %s: %v", e.path, e.err)
}

func (e *pathError) Unwrap() error {
	return e.err
}

// goldenFilePath returns the golden snapshot path for a scenario file:
// a sibling golden/ directory holding <name>.golden.
func goldenFilePath(scenarioFile string) string {
	dir := filepath.Dir(scenarioFile)
	base := filepath.Base(scenarioFile)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, "golden", name+".golden")
}
