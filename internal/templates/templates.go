// Package templates provides vertical deal presets.
package templates

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"sync"

	"gopkg.in/yaml.v2"

	"calcforge/internal/domain"
	"calcforge/internal/roi"
)

//go:embed verticals.yaml
var verticalsYAML []byte

// ErrUnknownVertical is returned by Get for an unsupported vertical.
var ErrUnknownVertical = errors.New("unknown vertical")

// Catalog holds validated vertical presets in display order.
type Catalog struct {
	order     []domain.Vertical
	templates map[domain.Vertical]domain.VerticalTemplate
}

// Listing is the /api/templates response body.
type Listing struct {
	Verticals    []string          `json:"verticals"`
	Descriptions map[string]string `json:"descriptions"`
	CaseStudies  map[string]string `json:"case_studies"`
}

type catalogFile struct {
	Templates []domain.VerticalTemplate `yaml:"templates"`
}

// Load parses a catalog. Every preset must pass input validation.
func Load(r io.Reader) (*Catalog, error) {
	var file catalogFile
	dec := yaml.NewDecoder(r)
	dec.SetStrict(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("decode templates: %w", err)
	}

	c := &Catalog{templates: make(map[domain.Vertical]domain.VerticalTemplate, len(file.Templates))}
	for _, t := range file.Templates {
		if t.Vertical == "" {
			return nil, errors.New("template without vertical")
		}
		if _, dup := c.templates[t.Vertical]; dup {
			return nil, fmt.Errorf("duplicate template %q", t.Vertical)
		}
		if err := roi.Validate(t.Inputs); err != nil {
			return nil, fmt.Errorf("template %q: %w", t.Vertical, err)
		}
		c.order = append(c.order, t.Vertical)
		c.templates[t.Vertical] = t
	}
	return c, nil
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
	defaultErr     error
)

// Default returns the built-in catalog.
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		defaultCatalog, defaultErr = Load(bytes.NewReader(verticalsYAML))
	})
	return defaultCatalog, defaultErr
}

// Get returns a copy of the preset inputs for a vertical.
func (c *Catalog) Get(vertical string) (domain.DealInputs, error) {
	t, ok := c.templates[domain.Vertical(vertical)]
	if !ok {
		return domain.DealInputs{}, fmt.Errorf("%w: %q", ErrUnknownVertical, vertical)
	}
	return t.Inputs.Clone(), nil
}

// Verticals returns vertical IDs in display order.
func (c *Catalog) Verticals() []domain.Vertical {
	out := make([]domain.Vertical, len(c.order))
	copy(out, c.order)
	return out
}

// Listing returns IDs with their descriptions and case studies.
func (c *Catalog) Listing() Listing {
	l := Listing{
		Verticals:    make([]string, 0, len(c.order)),
		Descriptions: make(map[string]string, len(c.order)),
		CaseStudies:  make(map[string]string, len(c.order)),
	}
	for _, v := range c.order {
		t := c.templates[v]
		l.Verticals = append(l.Verticals, string(v))
		l.Descriptions[string(v)] = t.Description
		l.CaseStudies[string(v)] = t.CaseStudy
	}
	return l
}
