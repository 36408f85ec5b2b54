package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeFile creates rel (and its parents) under root with the given content.
func writeFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// defaultCfg mirrors the CLI defaults: exclude .git, no extension filters.
func defaultCfg(root string) ScanConfig {
	return ScanConfig{
		Root:        root,
		ExcludeDirs: parseDirSet(".git"),
		IncludeExts: parseExtSet(""),
		ExcludeExts: parseExtSet(""),
	}
}

func relPaths(t *testing.T, root string, paths []string) []string {
	t.Helper()
	rels := make([]string, 0, len(paths))
	for _, p := range paths {
		rel, err := filepath.Rel(root, p)
		require.NoError(t, err)
		rels = append(rels, filepath.ToSlash(rel))
	}
	return rels
}

func TestParseExtSet(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", nil},
		{"leading dot kept", ".py,.go", []string{".py", ".go"}},
		{"dot added and lowercased", "py, MD", []string{".py", ".md"}},
		{"blank entries dropped", ".py,,  ,", []string{".py"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := parseExtSet(tt.in)
			assert.Len(t, set, len(tt.want))
			for _, e := range tt.want {
				assert.Contains(t, set, e)
			}
		})
	}
}

func TestParseDirSet(t *testing.T) {
	t.Parallel()

	assert.Empty(t, parseDirSet(""))
	set := parseDirSet(".git, node_modules")
	assert.Contains(t, set, ".git")
	assert.Contains(t, set, "node_modules")
	// case-sensitive: the set stores names verbatim
	assert.NotContains(t, set, ".GIT")
}

func TestFileExt(t *testing.T) {
	t.Parallel()

	assert.Equal(t, ".py", fileExt("a.py"))
	assert.Equal(t, ".py", fileExt("A.PY"))
	assert.Equal(t, ".gz", fileExt("archive.tar.gz"))
	assert.Equal(t, "", fileExt("Makefile"))
	assert.Equal(t, ".", fileExt("trailing."))
}

func TestEnumerateExcludedDirsPrunedAtAnyDepth(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.py", "top")
	writeFile(t, root, ".git/config", "ignored")
	writeFile(t, root, "sub/nested/.git/deep/file.txt", "ignored too")
	writeFile(t, root, "sub/nested/keep.txt", "kept")

	got, err := enumerate(defaultCfg(root))
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a.py", "sub/nested/keep.txt"}, relPaths(t, root, got))
}

func TestEnumerateExactNameDirMatch(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".github/workflow.yml", "not the .git dir")
	writeFile(t, root, ".git/config", "pruned")

	got, err := enumerate(defaultCfg(root))
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{".github/workflow.yml"}, relPaths(t, root, got))
}

func TestEnumerateIncludeExtCaseInsensitive(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.py", "x")
	writeFile(t, root, "B.PY", "x")
	writeFile(t, root, "b.md", "x")
	writeFile(t, root, "Makefile", "x")

	cfg := defaultCfg(root)
	cfg.IncludeExts = parseExtSet(".py")

	got, err := enumerate(cfg)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"B.PY", "a.py"}, relPaths(t, root, got))
}

func TestEnumerateExcludeWinsAfterInclude(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.py", "x")
	writeFile(t, root, "b.md", "x")

	cfg := defaultCfg(root)
	cfg.IncludeExts = parseExtSet(".py,.md")
	cfg.ExcludeExts = parseExtSet(".md")

	got, err := enumerate(cfg)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a.py"}, relPaths(t, root, got))
}

func TestEnumerateExtensionlessOnlyMatchedExplicitly(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "Makefile", "x")
	writeFile(t, root, "a.py", "x")

	// No filters: extensionless files are kept by default.
	got, err := enumerate(defaultCfg(root))
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Makefile", "a.py"}, relPaths(t, root, got))

	// A non-empty include set without "" drops them.
	cfg := defaultCfg(root)
	cfg.IncludeExts = parseExtSet(".py")
	got, err = enumerate(cfg)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a.py"}, relPaths(t, root, got))
}

func TestEnumerateDisabledPruningKeepsGitDir(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".git/config", "x")
	writeFile(t, root, "a.py", "x")

	cfg := defaultCfg(root)
	cfg.ExcludeDirs = parseDirSet("")

	got, err := enumerate(cfg)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{".git/config", "a.py"}, relPaths(t, root, got))
}

func TestEnumerateSkipsBinaryFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "text.py", "plain text")
	binPath := filepath.Join(root, "blob.py")
	require.NoError(t, os.WriteFile(binPath, []byte{'E', 'L', 'F', 0x00, 0x01, 0x02}, 0o644))

	got, err := enumerate(defaultCfg(root))
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"text.py"}, relPaths(t, root, got))
}

func TestEnumerateDeterministic(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "z/last.go", "x")
	writeFile(t, root, "a/first.go", "x")
	writeFile(t, root, "m/mid.go", "x")

	first, err := enumerate(defaultCfg(root))
	require.NoError(t, err)
	second, err := enumerate(defaultCfg(root))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestEnumerateMissingRootIsFatal(t *testing.T) {
	cfg := defaultCfg(filepath.Join(t.TempDir(), "does-not-exist"))
	_, err := enumerate(cfg)
	require.Error(t, err)
}

func TestEnumerateSingleFileRoot(t *testing.T) {
	root := t.TempDir()
	path := writeFile(t, root, "only.py", "x")

	cfg := defaultCfg(path)
	got, err := enumerate(cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{path}, got)

	cfg.ExcludeExts = parseExtSet(".py")
	got, err = enumerate(cfg)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestEnumerateDoesNotFollowSymlinkedDirs(t *testing.T) {
	outside := t.TempDir()
	writeFile(t, outside, "hidden.go", "unreachable")

	root := t.TempDir()
	writeFile(t, root, "real.go", "x")
	require.NoError(t, os.Symlink(outside, filepath.Join(root, "linked")))

	got, err := enumerate(defaultCfg(root))
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"real.go"}, relPaths(t, root, got))
}

func TestEnumerateGitignoreOptIn(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".gitignore", "*.log\n")
	writeFile(t, root, "app.go", "x")
	writeFile(t, root, "debug.log", "x")

	got, err := enumerate(defaultCfg(root))
	require.NoError(t, err)
	assert.Contains(t, relPaths(t, root, got), "debug.log")

	cfg := defaultCfg(root)
	cfg.Gitignore = true
	got, err = enumerate(cfg)
	require.NoError(t, err)
	rels := relPaths(t, root, got)
	assert.Contains(t, rels, "app.go")
	assert.NotContains(t, rels, "debug.log")
}
