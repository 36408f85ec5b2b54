package main

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	gitignore "github.com/monochromegane/go-gitignore"
)

const sniffLen = 512

// parseExtSet splits a comma-separated list of extensions into a lookup set.
// Entries are lower-cased and normalized to carry a leading dot.
func parseExtSet(list string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, e := range strings.Split(list, ",") {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		set[e] = struct{}{}
	}
	return set
}

// parseDirSet splits a comma-separated list of directory names into a lookup
// set. Names are matched exactly and case-sensitively during the walk.
func parseDirSet(list string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, d := range strings.Split(list, ",") {
		d = strings.TrimSpace(d)
		if d == "" {
			continue
		}
		set[d] = struct{}{}
	}
	return set
}

// fileExt returns the extension from the last '.' onward, lower-cased.
// Extensionless files yield "".
func fileExt(name string) string {
	return strings.ToLower(filepath.Ext(name))
}

// keepByExt applies the include set first (empty set keeps everything),
// then the exclude set. Exclusion wins over inclusion.
func keepByExt(ext string, include, exclude map[string]struct{}) bool {
	if len(include) > 0 {
		if _, ok := include[ext]; !ok {
			return false
		}
	}
	_, excluded := exclude[ext]
	return !excluded
}

// isTextFile reads the first sniffLen bytes and checks for binary content.
// A NUL byte or any byte outside the printable/whitespace range marks the
// file as binary. Files that cannot be opened are treated as binary.
func isTextFile(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	buf := make([]byte, sniffLen)
	n, err := f.Read(buf)
	if err != nil && err != io.EOF {
		return false
	}
	for _, c := range buf[:n] {
		if c == 0 {
			return false
		}
		switch {
		case c >= 0x20: // printable ASCII and all multi-byte UTF-8 lead/continuation bytes
		case c == '\a', c == '\b', c == '\t', c == '\n', c == '\f', c == '\r', c == 0x1b:
		default:
			return false
		}
	}
	return true
}

// enumerate walks cfg.Root and returns every eligible candidate path.
// Directories whose base name appears in cfg.ExcludeDirs are pruned before
// descent; files then pass the extension filters and a binary sniff.
// filepath.WalkDir visits entries in lexical order and does not descend
// into symlinked directories, so enumeration is deterministic within a run.
// Errors below the root are warnings, not failures.
func enumerate(cfg ScanConfig) ([]string, error) {
	info, err := os.Stat(cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("error accessing path %s: %w", cfg.Root, err)
	}

	if !info.IsDir() {
		// A single-file root skips directory pruning but still honors the
		// extension filters and the binary sniff.
		if keepByExt(fileExt(info.Name()), cfg.IncludeExts, cfg.ExcludeExts) && isTextFile(cfg.Root) {
			return []string{cfg.Root}, nil
		}
		return nil, nil
	}

	var ignoreMatcher gitignore.IgnoreMatcher
	if cfg.Gitignore {
		gitIgnorePath := filepath.Join(cfg.Root, ".gitignore")
		if _, err := os.Stat(gitIgnorePath); err == nil {
			matcher, err := gitignore.NewGitIgnore(gitIgnorePath)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Warning: could not parse .gitignore file %s: %v\n", gitIgnorePath, err)
			} else {
				ignoreMatcher = matcher
			}
		}
	}

	var candidates []string
	walkErr := filepath.WalkDir(cfg.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == cfg.Root {
				return fmt.Errorf("error reading root directory %s: %w", cfg.Root, err)
			}
			fmt.Fprintf(os.Stderr, "Warning: error accessing path %s: %v\n", path, err)
			return nil
		}

		if path == cfg.Root {
			return nil
		}

		if d.IsDir() {
			if _, pruned := cfg.ExcludeDirs[d.Name()]; pruned {
				return fs.SkipDir
			}
			if ignoreMatcher != nil {
				if rel, relErr := filepath.Rel(cfg.Root, path); relErr == nil && ignoreMatcher.Match(rel, true) {
					return fs.SkipDir
				}
			}
			return nil
		}

		if ignoreMatcher != nil {
			if rel, relErr := filepath.Rel(cfg.Root, path); relErr == nil && ignoreMatcher.Match(rel, false) {
				return nil
			}
		}

		if !keepByExt(fileExt(d.Name()), cfg.IncludeExts, cfg.ExcludeExts) {
			return nil
		}
		if !isTextFile(path) {
			return nil
		}

		candidates = append(candidates, path)
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	return candidates, nil
}
