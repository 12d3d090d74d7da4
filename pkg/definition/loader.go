// Package definition loads wizard definitions from JSON or YAML files and
// ships the built-in BizCraft wizards.
package definition

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/goliatone/go-formwizard/pkg/wizard"
)

// Built-in wizard ids.
const (
	TeamRegistration = "team-registration"
	Onboarding       = "onboarding"
	IdeaSubmission   = "idea-submission"
)

// ErrNotFound is returned by Registry.Get for unknown ids.
var ErrNotFound = errors.New("definition: not found")

//go:embed wizards/*
var embedded embed.FS

// EmbeddedFS returns the bundled definition files.
func EmbeddedFS() fs.FS {
	sub, err := fs.Sub(embedded, "wizards")
	if err != nil {
		panic(err)
	}
	return sub
}

// Registry indexes definitions by id.
type Registry struct {
	defs map[string]wizard.Definition
}

// LoadFS walks fsys and parses every .json, .yaml and .yml file. A nil fsys
// yields an empty registry.
func LoadFS(fsys fs.FS) (*Registry, error) {
	reg := &Registry{defs: make(map[string]wizard.Definition)}
	if fsys == nil {
		return reg, nil
	}

	err := fs.WalkDir(fsys, ".", func(p string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isDefinitionFile(p) {
			return nil
		}
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("definition: read %s: %w", p, err)
		}
		def, err := Parse(data, p)
		if err != nil {
			return err
		}
		return reg.Add(def)
	})
	if err != nil {
		return nil, err
	}
	return reg, nil
}

// Default returns a registry holding the built-in wizards.
func Default() *Registry {
	reg, err := LoadFS(EmbeddedFS())
	if err != nil {
		panic(err)
	}
	return reg
}

// Add registers def. Ids must be unique.
func (r *Registry) Add(def wizard.Definition) error {
	if err := def.Validate(); err != nil {
		return err
	}
	if _, exists := r.defs[def.ID]; exists {
		return fmt.Errorf("definition: duplicate id %q", def.ID)
	}
	r.defs[def.ID] = def
	return nil
}

// Get returns the definition registered under id.
func (r *Registry) Get(id string) (wizard.Definition, error) {
	if r != nil {
		if def, ok := r.defs[id]; ok {
			return def, nil
		}
	}
	return wizard.Definition{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// IDs returns the registered ids in lexical order.
func (r *Registry) IDs() []string {
	if r == nil {
		return nil
	}
	ids := make([]string, 0, len(r.defs))
	for id := range r.defs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func isDefinitionFile(p string) bool {
	switch strings.ToLower(path.Ext(p)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
