package commands

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"git.home.luguber.info/inful/docenrich/internal/batch"
	"git.home.luguber.info/inful/docenrich/internal/foundation/errors"
)

// selector decides which files inside a directory argument are documents.
type selector struct {
	include []string
	exclude []string
}

func (s selector) matches(path string) bool {
	name := filepath.Base(path)
	for _, pattern := range s.exclude {
		if ok, _ := filepath.Match(pattern, name); ok {
			return false
		}
	}
	for _, pattern := range s.include {
		if ok, _ := filepath.Match(pattern, name); ok {
			return true
		}
	}
	return false
}

// collect expands paths into batch items. Files named explicitly are always
// taken; directories are walked, skipping hidden ones. With outputDir set,
// outputs mirror the layout below each argument.
func collect(paths []string, sel selector, outputDir string) ([]batch.Item, error) {
	if len(paths) == 0 {
		paths = []string{"."}
	}

	var items []batch.Item
	seen := map[string]bool{}
	add := func(path, rel string) {
		if seen[path] {
			return
		}
		seen[path] = true
		item := batch.Item{InputPath: path, OutputPath: path}
		if outputDir != "" {
			item.OutputPath = filepath.Join(outputDir, rel)
		}
		items = append(items, item)
	}

	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, errors.WrapError(err, errors.CategoryFileSystem, "cannot access path").
				WithContext("path", root).
				Build()
		}
		if !info.IsDir() {
			add(root, filepath.Base(root))
			continue
		}

		var found []string
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != root && len(d.Name()) > 1 && d.Name()[0] == '.' {
					return filepath.SkipDir
				}
				return nil
			}
			if sel.matches(path) {
				found = append(found, path)
			}
			return nil
		})
		if err != nil {
			return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to walk directory").
				WithContext("path", root).
				Build()
		}
		sort.Strings(found)
		for _, path := range found {
			rel, err := filepath.Rel(root, path)
			if err != nil {
				rel = filepath.Base(path)
			}
			add(path, rel)
		}
	}
	return items, nil
}
