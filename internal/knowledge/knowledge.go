// Package knowledge holds the static per-format and per-material knowledge
// bases. Both are loaded once from embedded YAML at process start and are
// read-only afterwards, so concurrent analyses can consult them without
// locking.
package knowledge

import (
	"embed"
	"fmt"
	"strings"

	"github.com/cad-profiler/backend/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed formats.yaml materials.yaml
var kbFiles embed.FS

// MaterialUnknown is the catch-all material entry. Triage appends extra
// confirmation asks when this one is selected.
const MaterialUnknown = "Other / Unknown"

// Base is the loaded knowledge base.
type Base struct {
	formats       map[string]*models.FormatProfile
	formatOrder   []string
	aliases       map[string]string
	materials     map[string]*models.MaterialProfile
	materialOrder []string
}

type formatsDoc struct {
	Aliases map[string]string       `yaml:"aliases"`
	Formats []*models.FormatProfile `yaml:"formats"`
}

type materialsDoc struct {
	Materials []*models.MaterialProfile `yaml:"materials"`
}

// Load parses the embedded knowledge base documents.
func Load() (*Base, error) {
	fdata, err := kbFiles.ReadFile("formats.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading formats.yaml: %w", err)
	}
	var fdoc formatsDoc
	if err := yaml.Unmarshal(fdata, &fdoc); err != nil {
		return nil, fmt.Errorf("parsing formats.yaml: %w", err)
	}

	mdata, err := kbFiles.ReadFile("materials.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading materials.yaml: %w", err)
	}
	var mdoc materialsDoc
	if err := yaml.Unmarshal(mdata, &mdoc); err != nil {
		return nil, fmt.Errorf("parsing materials.yaml: %w", err)
	}

	b := &Base{
		formats:   make(map[string]*models.FormatProfile, len(fdoc.Formats)),
		aliases:   fdoc.Aliases,
		materials: make(map[string]*models.MaterialProfile, len(mdoc.Materials)),
	}
	if b.aliases == nil {
		b.aliases = map[string]string{}
	}

	for _, f := range fdoc.Formats {
		ext := strings.ToLower(f.Extension)
		if ext == "" {
			return nil, fmt.Errorf("format profile %q has no extension", f.Label)
		}
		if _, dup := b.formats[ext]; dup {
			return nil, fmt.Errorf("duplicate format profile: %s", ext)
		}
		f.Extension = ext
		b.formats[ext] = f
		b.formatOrder = append(b.formatOrder, ext)
	}

	for alias, canonical := range b.aliases {
		if _, ok := b.formats[canonical]; !ok {
			return nil, fmt.Errorf("alias %s points to unknown format %s", alias, canonical)
		}
	}

	for _, m := range mdoc.Materials {
		if m.Name == "" {
			return nil, fmt.Errorf("material profile with empty name")
		}
		b.materials[m.Name] = m
		b.materialOrder = append(b.materialOrder, m.Name)
	}

	return b, nil
}

// Resolve lowercases an extension and maps true aliases (.stp, .igs) onto
// their canonical form. Unknown extensions resolve to themselves.
func (b *Base) Resolve(ext string) string {
	ext = strings.ToLower(ext)
	if canonical, ok := b.aliases[ext]; ok {
		return canonical
	}
	return ext
}

// Format looks up the profile for an extension, alias-aware. The boolean is
// false for extensions absent from the knowledge base; callers must treat
// that as an unknown format, never as a default profile.
func (b *Base) Format(ext string) (*models.FormatProfile, bool) {
	f, ok := b.formats[b.Resolve(ext)]
	return f, ok
}

// Formats returns all profiles in declaration order.
func (b *Base) Formats() []*models.FormatProfile {
	out := make([]*models.FormatProfile, 0, len(b.formatOrder))
	for _, ext := range b.formatOrder {
		out = append(out, b.formats[ext])
	}
	return out
}

// Aliases returns the alias table (alias -> canonical extension).
func (b *Base) Aliases() map[string]string {
	out := make(map[string]string, len(b.aliases))
	for k, v := range b.aliases {
		out[k] = v
	}
	return out
}

// Material looks up a material profile by its exact name.
func (b *Base) Material(name string) (*models.MaterialProfile, bool) {
	m, ok := b.materials[name]
	return m, ok
}

// Materials returns all material profiles in declaration order.
func (b *Base) Materials() []*models.MaterialProfile {
	out := make([]*models.MaterialProfile, 0, len(b.materialOrder))
	for _, name := range b.materialOrder {
		out = append(out, b.materials[name])
	}
	return out
}

// MaterialTriageLabel strips the parenthetical qualifier from a material
// name for use in triage prose ("Aluminum - 6061-T6 (default)" becomes
// "Aluminum - 6061-T6").
func MaterialTriageLabel(name string) string {
	if i := strings.Index(name, " ("); i >= 0 {
		return strings.TrimSpace(name[:i])
	}
	return name
}
