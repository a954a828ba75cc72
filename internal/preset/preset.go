// Package preset reads catalogues of named vector fields.
//
// The text format has one preset per line, with fields separated by
// semicolons: a name, the three axis expressions, and then default values for
// the parameters in the order they first appear across the expressions.
//
//	Lorenz;s*(y-x);x*(r-z)-y;x*y-b*z;10;28;2.6666667
//
// Blank lines and lines starting with # are ignored. Catalogues may also be
// YAML documents holding a list of presets.
package preset

import (
	_ "embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/zephyrtronium/vecfield"
)

// Preset is a named vector field with parameter defaults.
type Preset struct {
	Name   string    `yaml:"name"`
	X      string    `yaml:"x"`
	Y      string    `yaml:"y"`
	Z      string    `yaml:"z"`
	Params []float64 `yaml:"params"`
}

// Exprs returns the preset's axis expressions.
func (p Preset) Exprs() [3]string {
	return [3]string{p.X, p.Y, p.Z}
}

// Build parses the preset into a group with its default parameters.
func (p Preset) Build() (*vecfield.Group, error) {
	g, err := vecfield.BuildGroup(p.Exprs(), vecfield.WithDefaults(p.defaults()))
	if err != nil {
		return nil, &Error{Name: p.Name, Err: err}
	}
	return g, nil
}

// LoadInto makes the preset the active group of f.
func (p Preset) LoadInto(f *vecfield.Field) error {
	if err := f.Load(p.Exprs(), p.defaults()); err != nil {
		return &Error{Name: p.Name, Err: err}
	}
	return nil
}

// defaults returns the parameter defaults, never nil, so that a preset with
// no defaults still requires its expressions to have no parameters.
func (p Preset) defaults() []float64 {
	if p.Params == nil {
		return []float64{}
	}
	return p.Params
}

// Catalogue is an ordered list of presets.
type Catalogue []Preset

// Find returns the preset with the given name, ignoring case.
func (c Catalogue) Find(name string) (Preset, bool) {
	for _, p := range c {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return Preset{}, false
}

// Names returns the names of the presets in order.
func (c Catalogue) Names() []string {
	r := make([]string, len(c))
	for i, p := range c {
		r[i] = p.Name
	}
	return r
}

//go:embed presets.txt
var builtin string

// Default returns the built-in catalogue.
func Default() Catalogue {
	c, err := Read(strings.NewReader(builtin))
	if err != nil {
		panic("preset: invalid built-in catalogue: " + err.Error())
	}
	return c
}

// Open reads a catalogue file. Files named *.yaml or *.yml are read as YAML;
// anything else is read as semicolon-separated text.
func Open(path string) (Catalogue, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("couldn't open catalogue: %w", err)
	}
	defer f.Close()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ReadYAML(f)
	default:
		return Read(f)
	}
}

// Read reads a semicolon-separated catalogue.
func Read(r io.Reader) (Catalogue, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = true
	var c Catalogue
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return c, nil
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				return nil, &Error{Line: pe.Line, Err: pe.Err}
			}
			return nil, fmt.Errorf("couldn't read catalogue: %w", err)
		}
		line, _ := cr.FieldPos(0)
		p, err := record(rec)
		if err != nil {
			return nil, &Error{Line: line, Name: p.Name, Err: err}
		}
		c = append(c, p)
	}
}

// record converts one row of a text catalogue. The returned preset has its
// name set even on error.
func record(rec []string) (Preset, error) {
	var p Preset
	if len(rec) > 0 {
		p.Name = strings.TrimSpace(rec[0])
	}
	if len(rec) < 4 {
		return p, fmt.Errorf("need a name and three expressions, have %d fields", len(rec))
	}
	if p.Name == "" {
		return p, errors.New("empty name")
	}
	p.X, p.Y, p.Z = rec[1], rec[2], rec[3]
	for i, s := range rec[4:] {
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return p, fmt.Errorf("parameter %d: %w", i+1, err)
		}
		p.Params = append(p.Params, v)
	}
	return p, nil
}

// ReadYAML reads a YAML catalogue, which is a list of mappings with keys
// name, x, y, z, and params.
func ReadYAML(r io.Reader) (Catalogue, error) {
	var c Catalogue
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&c); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, &Error{Err: err}
	}
	for i, p := range c {
		if p.Name == "" {
			return nil, &Error{Line: i + 1, Err: errors.New("empty name")}
		}
		if p.X == "" || p.Y == "" || p.Z == "" {
			return nil, &Error{Line: i + 1, Name: p.Name, Err: errors.New("missing expression")}
		}
	}
	return c, nil
}

// Error is an error in a catalogue row or in building a preset.
type Error struct {
	// Line is the line of a text catalogue or the 1-based index of a YAML
	// catalogue entry where the error occurred. It is 0 if the error did not
	// come from reading a catalogue.
	Line int
	// Name is the name of the preset, if known.
	Name string
	// Err is the underlying error. It is a *vecfield.DefaultsError if the
	// preset has too few default parameter values.
	Err error
}

func (err *Error) Error() string {
	var b strings.Builder
	b.WriteString("preset")
	if err.Name != "" {
		b.WriteString(" " + strconv.Quote(err.Name))
	}
	if err.Line > 0 {
		b.WriteString(" at entry " + strconv.Itoa(err.Line))
	}
	b.WriteString(": ")
	b.WriteString(err.Err.Error())
	return b.String()
}

func (err *Error) Unwrap() error {
	return err.Err
}
