package inputs

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"strings"
)

const maxLineBytes = 4 * 1024 * 1024

// ReadLines returns the non-blank lines of r with line endings removed.
func ReadLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return lines, nil
}

// ReadAll returns everything in r as one string, for commands that take a
// single document.
func ReadAll(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return string(data), nil
}

// Files yields every regular file named by paths. Directories are walked
// recursively in lexical order, skipping hidden entries below the root.
// A path that cannot be read is yielded with its error and the walk goes on.
func Files(paths []string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for _, root := range paths {
			info, err := os.Stat(root)
			if err != nil {
				if !yield(root, fmt.Errorf("stat input: %w", err)) {
					return
				}
				continue
			}
			if !info.IsDir() {
				if !yield(root, nil) {
					return
				}
				continue
			}
			stopped := false
			walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
				if err != nil {
					if !yield(path, fmt.Errorf("walk input: %w", err)) {
						stopped = true
						return fs.SkipAll
					}
					return nil
				}
				if path != root && strings.HasPrefix(d.Name(), ".") {
					if d.IsDir() {
						return fs.SkipDir
					}
					return nil
				}
				if !d.Type().IsRegular() {
					return nil
				}
				if !yield(path, nil) {
					stopped = true
					return fs.SkipAll
				}
				return nil
			})
			if stopped {
				return
			}
			if walkErr != nil && !errors.Is(walkErr, fs.SkipAll) {
				if !yield(root, fmt.Errorf("walk input: %w", walkErr)) {
					return
				}
			}
		}
	}
}
