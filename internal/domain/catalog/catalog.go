// Package catalog loads label catalogs and assembles collision pools from them.
//
// A catalog is a set of domains (e.g. "gems", "rings"). Each domain has
// entries, a name plus descriptive text, and may contribute adversarial
// fragments and base-type names. A domain's pool is its own entry names
// followed by every fragment, every entry text and every base type in the
// catalog, in load order.
package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/gobwas/glob"
	"gopkg.in/yaml.v3"

	"github.com/corey/stashre/internal/domain/pool"
)

// ErrUnknownDomain is returned when a domain is not in the catalog.
var ErrUnknownDomain = errors.New("unknown domain")

// EntryDef is the YAML schema for one labelled entry.
type EntryDef struct {
	Name string `yaml:"name"`
	Text string `yaml:"text,omitempty"`
}

// DomainDef is the YAML schema for a domain. Each catalog file contains an
// array of DomainDefs.
type DomainDef struct {
	Domain    string     `yaml:"domain"`
	Entries   []EntryDef `yaml:"entries"`
	Fragments []string   `yaml:"fragments,omitempty"`
	BaseTypes []string   `yaml:"base_types,omitempty"`
}

// LoadOptions controls which files Load reads.
type LoadOptions struct {
	// Include is a glob matched against file names; default "*.yaml".
	Include string
}

// Catalog holds parsed domains in load order.
type Catalog struct {
	Domains []DomainDef
	Files   []string // files read, in load order

	byName map[string]int
}

// Load reads every matching YAML file from dir in fsys. Files are loaded in
// sorted order so pools are deterministic. Domain names must be unique across
// files and entry names unique within a domain.
func Load(fsys fs.FS, dir string, opts LoadOptions) (*Catalog, error) {
	include := opts.Include
	if include == "" {
		include = "*.yaml"
	}
	g, err := glob.Compile(include)
	if err != nil {
		return nil, fmt.Errorf("include glob %q: %w", include, err)
	}

	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read catalog dir %q: %w", dir, err)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	c := &Catalog{byName: make(map[string]int)}
	seenIn := make(map[string]string) // domain -> source file

	for _, entry := range entries {
		if entry.IsDir() || !g.Match(entry.Name()) {
			continue
		}

		name := path.Join(dir, entry.Name())
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}

		var defs []DomainDef
		if err := yaml.Unmarshal(data, &defs); err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}

		for _, d := range defs {
			d, err := normalize(d)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", entry.Name(), err)
			}
			if prev, ok := seenIn[d.Domain]; ok {
				return nil, fmt.Errorf("duplicate domain %q (first in %s, again in %s)", d.Domain, prev, entry.Name())
			}
			seenIn[d.Domain] = entry.Name()
			c.byName[d.Domain] = len(c.Domains)
			c.Domains = append(c.Domains, d)
		}
		c.Files = append(c.Files, entry.Name())
	}

	if len(c.Domains) == 0 {
		return nil, fmt.Errorf("catalog is empty: no domains found in %q", dir)
	}
	return c, nil
}

// normalize trims names and validates a domain definition.
func normalize(d DomainDef) (DomainDef, error) {
	d.Domain = strings.TrimSpace(d.Domain)
	if d.Domain == "" {
		return d, fmt.Errorf("domain with no name")
	}
	seen := make(map[string]bool, len(d.Entries))
	for i := range d.Entries {
		e := &d.Entries[i]
		e.Name = strings.TrimSpace(e.Name)
		e.Text = strings.TrimSpace(e.Text)
		if e.Name == "" {
			return d, fmt.Errorf("domain %q: entry %d has no name", d.Domain, i)
		}
		key := strings.ToLower(e.Name)
		if seen[key] {
			return d, fmt.Errorf("domain %q: duplicate entry %q", d.Domain, e.Name)
		}
		seen[key] = true
	}
	return d, nil
}

// Names returns the domain names in load order.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.Domains))
	for i, d := range c.Domains {
		out[i] = d.Domain
	}
	return out
}

// Domain returns the named domain definition.
func (c *Catalog) Domain(name string) (DomainDef, error) {
	i, ok := c.byName[name]
	if !ok {
		return DomainDef{}, fmt.Errorf("%w: %q", ErrUnknownDomain, name)
	}
	return c.Domains[i], nil
}

// Labels returns the entry names of a domain in catalog order.
func (c *Catalog) Labels(domain string) ([]string, error) {
	d, err := c.Domain(domain)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(d.Entries))
	for i, e := range d.Entries {
		out[i] = e.Name
	}
	return out, nil
}

// PoolOptions curates the pool size.
type PoolOptions struct {
	// MaxTextLen drops descriptive text blocks longer than this many runes
	// (0 keeps all). Labels, fragments and base types are never dropped.
	MaxTextLen int
}

// Pool assembles the collision pool for labels of domain: the domain's own
// labels, then every fragment, every entry text and every base type.
func (c *Catalog) Pool(domain string, opts PoolOptions) (*pool.Pool, error) {
	labels, err := c.Labels(domain)
	if err != nil {
		return nil, err
	}

	b := pool.NewBuilder().Labels(labels...)
	for _, d := range c.Domains {
		b.Fragments(d.Fragments...)
	}

	texts := pool.NewBuilder().MaxEntryLen(opts.MaxTextLen)
	for _, d := range c.Domains {
		for _, e := range d.Entries {
			texts.Texts(e.Text)
		}
	}
	b.Texts(texts.Build().Entries()...)

	for _, d := range c.Domains {
		b.BaseTypes(d.BaseTypes...)
	}
	return b.Build(), nil
}

// Stats summarises a catalog.
type Stats struct {
	Domains   int
	Entries   int
	Fragments int
	BaseTypes int
}

// Stats counts domains, entries, fragments and base types.
func (c *Catalog) Stats() Stats {
	s := Stats{Domains: len(c.Domains)}
	for _, d := range c.Domains {
		s.Entries += len(d.Entries)
		s.Fragments += len(d.Fragments)
		s.BaseTypes += len(d.BaseTypes)
	}
	return s
}
