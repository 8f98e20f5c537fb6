package grid

import (
	"fmt"

	"github.com/goccy/go-json"

	"github.com/glassboard-labs/glassboard/pkg/core"
)

// referenceBreakpoint is the breakpoint legacy per-breakpoint layouts are
// flattened against. Other breakpoints were derived client-side and carry no
// independent information.
const referenceBreakpoint = "lg"

// Normalize decodes persisted layout bytes into a flat entry list. Three
// shapes are accepted:
//
//   - the current flat list: `[{"component_id": ...}, ...]`
//   - the legacy per-breakpoint map: `{"lg": [...], "md": [...]}`
//   - empty input, which yields an empty layout
//
// Anything else is reported as core.ErrCorruptState; callers recover by
// regenerating the layout, never by failing the load.
func Normalize(raw []byte) ([]core.LayoutEntry, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	var flat []core.LayoutEntry
	if err := json.Unmarshal(raw, &flat); err == nil {
		return flat, nil
	}

	var byBreakpoint map[string][]core.LayoutEntry
	if err := json.Unmarshal(raw, &byBreakpoint); err == nil {
		if entries, ok := byBreakpoint[referenceBreakpoint]; ok {
			return entries, nil
		}
		// Reference breakpoint absent: fall back to any stored breakpoint
		// rather than dropping the layout wholesale.
		for _, bp := range []string{"md", "sm", "xs"} {
			if entries, ok := byBreakpoint[bp]; ok {
				return entries, nil
			}
		}
		return nil, nil
	}

	return nil, fmt.Errorf("normalize layout: %w", core.ErrCorruptState)
}
