// Package casefile loads parse cases from YAML and Markdown files.
//
// A YAML file looks like
//
//	parser: expr
//	cases:
//	  - name: precedence
//	    input: "2+3*4"
//	    want: "14"
//	  - input: "1+x"
//	    error: "expected end of input"
//
// A Markdown file carries the same information as an optional front matter
// block and a GFM table under a "Cases" heading.
package casefile

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/goccy/go-yaml"
)

// Sentinel errors
var (
	ErrUnsupportedFormat  = errors.New("unsupported case file format")
	ErrInvalidCase        = errors.New("invalid case")
	ErrInvalidTable       = errors.New("invalid cases table")
	ErrMissingCases       = errors.New("missing cases section")
	ErrInvalidFrontMatter = errors.New("invalid front matter")
)

// Case is one input with its expected outcome. Exactly one of Want and Error
// is set: Want is the rendered result, Error a substring of the diagnostic.
type Case struct {
	Name   string  `yaml:"name"`
	Parser string  `yaml:"parser"`
	Input  string  `yaml:"input"`
	Want   *string `yaml:"want"`
	Error  string  `yaml:"error"`

	// Source is the file the case was loaded from.
	Source string `yaml:"-"`
}

// ExpectsError reports whether the case must fail.
func (c Case) ExpectsError() bool {
	return c.Error != ""
}

// Validate checks that the case has exactly one expectation.
func (c Case) Validate() error {
	switch {
	case c.Want != nil && c.Error != "":
		return fmt.Errorf("%w: %s: both want and error are set", ErrInvalidCase, c.Name)
	case c.Want == nil && c.Error == "":
		return fmt.Errorf("%w: %s: either want or error is required", ErrInvalidCase, c.Name)
	}

	return nil
}

// File is a parsed case file.
type File struct {
	Path   string `yaml:"-"`
	Parser string `yaml:"parser"`
	Cases  []Case `yaml:"cases"`
}

// Load reads a case file, choosing the format by extension.
func Load(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open case file: %w", err)
	}
	defer f.Close()

	var file *File

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		file, err = ParseYAML(f)
	case ".md", ".markdown":
		file, err = ParseMarkdown(f)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}

	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	file.Path = path
	for i := range file.Cases {
		file.Cases[i].Source = path
	}

	return file, nil
}

// ParseYAML decodes a YAML case file.
func ParseYAML(reader io.Reader) (*File, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read content: %w", err)
	}

	var file File
	if err := yaml.Unmarshal(content, &file); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := file.normalize(); err != nil {
		return nil, err
	}

	return &file, nil
}

// normalize fills in default parser names and case names, then validates.
func (f *File) normalize() error {
	for i := range f.Cases {
		c := &f.Cases[i]
		if c.Parser == "" {
			c.Parser = f.Parser
		}

		if c.Name == "" {
			c.Name = fmt.Sprintf("case %d", i+1)
		}

		if err := c.Validate(); err != nil {
			return err
		}
	}

	return nil
}

// Collect expands directories and glob patterns into the list of case files
// they contain, sorted and without duplicates.
func Collect(paths []string) ([]string, error) {
	var files []string

	for _, p := range paths {
		matches, err := filepath.Glob(p)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", p, err)
		}

		if matches == nil {
			matches = []string{p}
		}

		for _, m := range matches {
			info, err := os.Stat(m)
			if err != nil {
				return nil, fmt.Errorf("failed to stat %s: %w", m, err)
			}

			if !info.IsDir() {
				files = append(files, m)
				continue
			}

			err = filepath.WalkDir(m, func(path string, d fs.DirEntry, err error) error {
				if err != nil {
					return err
				}

				if !d.IsDir() && IsCaseFile(path) {
					files = append(files, path)
				}

				return nil
			})
			if err != nil {
				return nil, fmt.Errorf("failed to scan %s: %w", m, err)
			}
		}
	}

	slices.Sort(files)

	return slices.Compact(files), nil
}

// IsCaseFile reports whether path has an extension Load understands.
func IsCaseFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".md", ".markdown":
		return true
	}

	return false
}
