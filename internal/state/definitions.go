package state

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/glassboard-labs/glassboard/internal/grid"
	"github.com/glassboard-labs/glassboard/internal/identity"
	"github.com/glassboard-labs/glassboard/pkg/core"
)

// BoardDefinition is the YAML shape of a seeded dashboard in the boards
// directory. Components without an explicit index get a fresh one on
// import; layouts are synthesized by the grid model.
type BoardDefinition struct {
	ID         string                `yaml:"id"`
	Title      string                `yaml:"title"`
	ProjectRef string                `yaml:"project_ref"`
	Components []ComponentDefinition `yaml:"components"`
}

// ComponentDefinition is one component in a board definition file.
type ComponentDefinition struct {
	Index              string                  `yaml:"index"`
	Type               string                  `yaml:"type"`
	ChartKind          string                  `yaml:"chart_kind"`
	DataSourceRef      string                  `yaml:"data_source_ref"`
	Dimension          string                  `yaml:"dimension"`
	RenderParams       map[string]any          `yaml:"render_params"`
	FilterDependencies []core.FilterDependency `yaml:"filter_dependencies"`
}

// LoadDefinition parses one board definition file.
func LoadDefinition(path string) (*BoardDefinition, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read board definition: %w", err)
	}
	var def BoardDefinition
	if err := yaml.Unmarshal(raw, &def); err != nil {
		return nil, fmt.Errorf("parse board definition %s: %w", path, err)
	}
	if def.ID == "" {
		def.ID = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if def.Title == "" {
		def.Title = def.ID
	}
	return &def, nil
}

// LoadDefinitionsDir parses every .yaml/.yml file in dir. A missing
// directory yields no definitions, not an error.
func LoadDefinitionsDir(dir string) ([]*BoardDefinition, error) {
	var defs []*BoardDefinition
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return filepath.SkipAll
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := filepath.Ext(path)
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}
		def, err := LoadDefinition(path)
		if err != nil {
			return err
		}
		defs = append(defs, def)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return defs, nil
}

// Import materializes a definition into the store: indexes are allocated
// where absent, metadata built, and layouts synthesized collision-free by
// the grid model. Importing an existing dashboard id replaces it.
func Import(ctx context.Context, store core.Store, alloc *identity.Allocator, model *grid.Model, def *BoardDefinition) (*core.Dashboard, error) {
	d := &core.Dashboard{
		ID:         def.ID,
		Title:      def.Title,
		ProjectRef: def.ProjectRef,
		Components: make(map[core.ComponentIndex]struct{}),
		Metadata:   make(map[core.ComponentIndex]core.ComponentMetadata),
	}

	for _, c := range def.Components {
		idx := core.ComponentIndex(c.Index)
		if idx == "" {
			idx = alloc.NewIndex()
		}
		d.Components[idx] = struct{}{}
		d.Metadata[idx] = core.ComponentMetadata{
			Index:              idx,
			Type:               core.ComponentType(c.Type),
			ChartKind:          core.ChartKind(c.ChartKind),
			DataSourceRef:      c.DataSourceRef,
			Dimension:          c.Dimension,
			RenderParams:       c.RenderParams,
			FilterDependencies: c.FilterDependencies,
		}
	}

	d.Layouts, _ = model.Reconcile(nil, d.KnownComponents())

	if err := store.PutDashboard(ctx, d); err != nil {
		return nil, fmt.Errorf("import board %s: %w", def.ID, err)
	}
	return d, nil
}
