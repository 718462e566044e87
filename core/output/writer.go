// Package output handles file naming and writing for coursegrab downloads.
// Files are written under a temporary name and renamed into place only
// once complete, so a failed or interrupted download never leaves a
// truncated file behind.
package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"
)

// maxNameBytes keeps names under the common 255-byte filesystem limit,
// leaving room for the temporary suffix.
const maxNameBytes = 240

// Writer writes downloaded resources to disk.
type Writer struct {
	OutputDir string
}

// New creates a Writer targeting the given output directory.
// If outputDir is empty, it defaults to the current working directory.
func New(outputDir string) (*Writer, error) {
	if outputDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		outputDir = wd
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	return &Writer{OutputDir: outputDir}, nil
}

// Path returns where a file with the given name is written.
func (w *Writer) Path(name string) string {
	return filepath.Join(w.OutputDir, Sanitize(name))
}

// Exists reports whether a complete file with the given name is present.
func (w *Writer) Exists(name string) bool {
	info, err := os.Stat(w.Path(name))
	return err == nil && info.Mode().IsRegular()
}

// Save streams the output of write into the named file. The partial file
// is removed if write or any later step fails.
func (w *Writer) Save(name string, write func(io.Writer) error) (path string, err error) {
	path = w.Path(name)

	tmp, err := os.CreateTemp(w.OutputDir, ".coursegrab-*.part")
	if err != nil {
		return "", fmt.Errorf("creating temporary file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = write(tmp); err != nil {
		return "", err
	}
	if err = tmp.Close(); err != nil {
		return "", fmt.Errorf("closing %s: %w", tmp.Name(), err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("moving download to %s: %w", path, err)
	}
	return path, nil
}

// WriteFile writes data to the named file.
func (w *Writer) WriteFile(name string, data []byte) (string, error) {
	return w.Save(name, func(dst io.Writer) error {
		if _, err := dst.Write(data); err != nil {
			return fmt.Errorf("writing %s: %w", name, err)
		}
		return nil
	})
}

// Sanitize makes a lesson file name safe on common filesystems: path
// separators become dashes, reserved characters become underscores,
// control characters are dropped and over-long names are shortened while
// keeping the extension.
func Sanitize(name string) string {
	var b strings.Builder
	for _, ch := range name {
		switch {
		case ch == '/' || ch == '\\':
			b.WriteRune('-')
		case strings.ContainsRune(`<>:"|?*`, ch):
			b.WriteRune('_')
		case unicode.IsControl(ch):
		default:
			b.WriteRune(ch)
		}
	}
	out := strings.TrimRight(strings.TrimSpace(b.String()), ". ")
	if out == "" {
		return "_"
	}
	return truncate(out, maxNameBytes)
}

// truncate shortens the base of name to fit limit bytes, on a rune
// boundary, keeping the extension.
func truncate(name string, limit int) string {
	if len(name) <= limit {
		return name
	}
	ext := filepath.Ext(name)
	if len(ext) > 16 {
		ext = ""
	}
	base := name[:len(name)-len(ext)]
	cut := limit - len(ext)
	for cut > 0 && !utf8.RuneStart(base[cut]) {
		cut--
	}
	return strings.TrimSpace(base[:cut]) + ext
}
