package loader

import (
	"path/filepath"
	"strings"

	"github.com/apivet/apivet/doctree"
	"github.com/apivet/apivet/oaserrors"
)

// FileLoader returns a loader for external $ref documents, resolving
// relative reference paths against baseDir. References escaping baseDir
// are rejected rather than followed.
func FileLoader(baseDir string) func(path string) (*doctree.Tree, error) {
	return func(path string) (*doctree.Tree, error) {
		if path == "" {
			return nil, &oaserrors.ConfigError{Option: "ref", Message: "empty document path"}
		}
		if strings.Contains(path, "://") {
			return nil, &oaserrors.ConfigError{
				Option:  "ref",
				Message: "remote references are not fetched: " + path,
			}
		}

		full := path
		if !filepath.IsAbs(full) {
			full = filepath.Join(baseDir, filepath.FromSlash(path))
		}
		full = filepath.Clean(full)

		rel, err := filepath.Rel(baseDir, full)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return nil, &oaserrors.ConfigError{
				Option:  "ref",
				Message: "reference escapes the document directory: " + path,
			}
		}

		res, err := Load(full)
		if err != nil {
			return nil, err
		}
		return res.Tree, nil
	}
}
