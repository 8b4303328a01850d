package driver

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"lowerer/internal/treedoc"
)

// CollectDocuments expands files and directories (recursively) into the sorted,
// deduplicated list of tree documents. Explicit file arguments must be documents.
func CollectDocuments(ctx context.Context, paths []string) ([]string, error) {
	var files []string
	seen := make(map[string]struct{})
	addFile := func(path string) {
		path = filepath.Clean(path)
		if _, ok := seen[path]; ok {
			return
		}
		seen[path] = struct{}{}
		files = append(files, path)
	}

	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if info.IsDir() {
			err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if err := ctx.Err(); err != nil {
					return err
				}
				if d.IsDir() {
					return nil
				}
				if treedoc.IsDocumentPath(path) {
					addFile(path)
				}
				return nil
			})
			if err != nil {
				return nil, err
			}
			continue
		}

		if _, err := treedoc.FormatFromPath(p); err != nil {
			return nil, err
		}
		addFile(p)
	}

	sort.Strings(files)
	return files, nil
}
