// Package architecture_test enforces layering rules over the source tree so
// dependency direction regressions fail in CI instead of in review.
package architecture_test

import (
	"go/parser"
	"go/token"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const modulePath = "laketrace"

type layerRule struct {
	sourcePrefix string
	forbidden    []string
	hint         string
}

var rules = []layerRule{
	{
		sourcePrefix: modulePath + "/internal/domain",
		forbidden: []string{
			modulePath + "/internal/api",
			modulePath + "/internal/config",
			modulePath + "/internal/databricks",
			modulePath + "/internal/lineage",
			modulePath + "/internal/middleware",
			modulePath + "/internal/ui",
			modulePath + "/cmd",
			modulePath + "/pkg/cli",
		},
		hint: "domain may only import domain",
	},
	{
		sourcePrefix: modulePath + "/internal/databricks",
		forbidden: []string{
			modulePath + "/internal/api",
			modulePath + "/internal/config",
			modulePath + "/internal/lineage",
			modulePath + "/internal/middleware",
			modulePath + "/internal/ui",
			modulePath + "/cmd",
			modulePath + "/pkg/cli",
		},
		hint: "the workspace client depends on domain only",
	},
	{
		sourcePrefix: modulePath + "/internal/lineage",
		forbidden: []string{
			modulePath + "/internal/api",
			modulePath + "/internal/config",
			modulePath + "/internal/middleware",
			modulePath + "/internal/ui",
			modulePath + "/cmd",
			modulePath + "/pkg/cli",
		},
		hint: "lineage depends on domain and the workspace client",
	},
	{
		sourcePrefix: modulePath + "/internal/middleware",
		forbidden: []string{
			modulePath + "/internal/api",
			modulePath + "/internal/config",
			modulePath + "/internal/databricks",
			modulePath + "/internal/lineage",
			modulePath + "/internal/ui",
			modulePath + "/cmd",
			modulePath + "/pkg/cli",
		},
		hint: "middleware is self-contained",
	},
	{
		sourcePrefix: modulePath + "/internal/config",
		forbidden: []string{
			modulePath + "/internal/api",
			modulePath + "/internal/databricks",
			modulePath + "/internal/lineage",
			modulePath + "/internal/middleware",
			modulePath + "/internal/ui",
			modulePath + "/cmd",
			modulePath + "/pkg/cli",
		},
		hint: "config is self-contained",
	},
	{
		sourcePrefix: modulePath + "/internal/ui",
		forbidden: []string{
			modulePath + "/internal/api",
			modulePath + "/internal/config",
			modulePath + "/internal/databricks",
			modulePath + "/internal/middleware",
			modulePath + "/cmd",
			modulePath + "/pkg/cli",
		},
		hint: "ui renders service results; it must not call the workspace directly",
	},
	{
		sourcePrefix: modulePath + "/internal/api",
		forbidden: []string{
			modulePath + "/internal/config",
			modulePath + "/cmd",
			modulePath + "/pkg/cli",
		},
		hint: "api wires handlers from lineage, middleware, and ui",
	},
	{
		sourcePrefix: modulePath + "/pkg/cli",
		forbidden: []string{
			modulePath + "/internal/api",
			modulePath + "/internal/config",
			modulePath + "/internal/middleware",
			modulePath + "/internal/ui",
			modulePath + "/cmd",
		},
		hint: "the CLI talks to the workspace through the lineage service, not the relay",
	},
}

func TestImportBoundaries(t *testing.T) {
	roots := []string{
		filepath.Join(repoRootDir(), "internal"),
		filepath.Join(repoRootDir(), "pkg"),
	}

	violations := make([]string, 0)
	fset := token.NewFileSet()

	for _, root := range roots {
		files, err := collectGoFiles(root)
		require.NoError(t, err)

		for _, file := range files {
			if isTestFile(file) {
				continue
			}

			sourcePkg := packageImportPath(file)
			rule, ok := findRule(sourcePkg)
			if !ok {
				continue
			}

			parsed, parseErr := parser.ParseFile(fset, file, nil, parser.ImportsOnly)
			require.NoErrorf(t, parseErr, "parse imports for %s", file)

			for _, imp := range parsed.Imports {
				importPath := strings.Trim(imp.Path.Value, "\"")
				if !strings.HasPrefix(importPath, modulePath+"/") {
					continue
				}
				if violatesRule(importPath, rule.forbidden) {
					violations = append(violations,
						sourcePkg+" imports "+importPath+" via "+relToRepoRoot(file)+"; allowed direction: "+rule.hint,
					)
				}
			}
		}
	}

	if len(violations) > 0 {
		sort.Strings(violations)
		t.Fatalf("%s", strings.Join(violations, "\n"))
	}
}

func collectGoFiles(root string) ([]string, error) {
	files := make([]string, 0)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.HasSuffix(path, ".go") {
			files = append(files, filepath.ToSlash(path))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

func repoRootDir() string {
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		return "."
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}

func findRule(sourcePkg string) (layerRule, bool) {
	for _, rule := range rules {
		if hasPathPrefix(sourcePkg, rule.sourcePrefix) {
			return rule, true
		}
	}
	return layerRule{}, false
}

func violatesRule(importPath string, forbidden []string) bool {
	for _, prefix := range forbidden {
		if hasPathPrefix(importPath, prefix) {
			return true
		}
	}
	return false
}

func hasPathPrefix(value string, prefix string) bool {
	return value == prefix || strings.HasPrefix(value, prefix+"/")
}

func packageImportPath(file string) string {
	path := filepath.ToSlash(file)
	for _, marker := range []string{"/internal/", "/pkg/"} {
		if idx := strings.Index(path, marker); idx >= 0 {
			return modulePath + "/" + filepath.ToSlash(filepath.Dir(path[idx+1:]))
		}
	}
	return modulePath + "/" + filepath.ToSlash(filepath.Dir(path))
}

func isTestFile(path string) bool {
	return strings.HasSuffix(filepath.Base(path), "_test.go")
}

func relToRepoRoot(path string) string {
	rel, err := filepath.Rel(repoRootDir(), path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
