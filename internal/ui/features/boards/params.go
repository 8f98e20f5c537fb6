package boards

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"

	"github.com/glassboard-labs/glassboard/pkg/core"
)

// Render params are persisted as free-form JSON documents; each component
// kind decodes the keys it understands and ignores the rest.

// ChartParams are the render knobs for chart cells.
type ChartParams struct {
	Title  string `mapstructure:"title"`
	XLabel string `mapstructure:"x_label"`
	YLabel string `mapstructure:"y_label"`
}

// TableParams are the render knobs for table cells.
type TableParams struct {
	Title    string `mapstructure:"title"`
	PageSize int    `mapstructure:"page_size"`
}

// CardParams are the render knobs for KPI card cells.
type CardParams struct {
	Title string `mapstructure:"title"`
	Unit  string `mapstructure:"unit"`
}

// FilterParams are the render knobs for filter widget cells.
type FilterParams struct {
	Title       string `mapstructure:"title"`
	Placeholder string `mapstructure:"placeholder"`
}

// TextParams are the render knobs for static text cells.
type TextParams struct {
	Title string `mapstructure:"title"`
	Body  string `mapstructure:"body"`
}

// decodeParams decodes raw render params into a typed param struct. Weak
// typing tolerates YAML scalars arriving as strings.
func decodeParams(raw map[string]any, out any) error {
	if len(raw) == 0 {
		return nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(raw); err != nil {
		return fmt.Errorf("decode render params: %w", err)
	}
	return nil
}

// titleParam extracts the per-kind title, empty when unset or undecodable.
func titleParam(meta core.ComponentMetadata) string {
	switch meta.Type {
	case core.ComponentChart:
		var p ChartParams
		if decodeParams(meta.RenderParams, &p) == nil {
			return p.Title
		}
	case core.ComponentTable:
		var p TableParams
		if decodeParams(meta.RenderParams, &p) == nil {
			return p.Title
		}
	case core.ComponentCard:
		var p CardParams
		if decodeParams(meta.RenderParams, &p) == nil {
			return p.Title
		}
	case core.ComponentFilter:
		var p FilterParams
		if decodeParams(meta.RenderParams, &p) == nil {
			return p.Title
		}
	case core.ComponentText:
		var p TextParams
		if decodeParams(meta.RenderParams, &p) == nil {
			return p.Title
		}
	}
	return ""
}

// rowLimit caps a table cell's payload rows to its configured page size.
func rowLimit(meta core.ComponentMetadata) int {
	if meta.Type == core.ComponentTable {
		var p TableParams
		if decodeParams(meta.RenderParams, &p) == nil && p.PageSize > 0 && p.PageSize < maxCellRows {
			return p.PageSize
		}
	}
	return maxCellRows
}
