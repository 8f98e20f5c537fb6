package boards

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/glassboard-labs/glassboard/pkg/core"
)

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, "NULL"},
		{"string", "west", "west"},
		{"bytes", []byte("blob"), "blob"},
		{"int", 42, "42"},
		{"float", 3.5, "3.5"},
		{"bool", true, "true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatValue(tt.in))
		})
	}
}

func TestComponentTitle(t *testing.T) {
	tests := []struct {
		name string
		meta core.ComponentMetadata
		want string
	}{
		{
			name: "explicit title wins",
			meta: core.ComponentMetadata{
				Type:          core.ComponentChart,
				DataSourceRef: "sales",
				RenderParams:  map[string]any{"title": "Quarterly sales"},
			},
			want: "Quarterly sales",
		},
		{
			name: "derived from type and source",
			meta: core.ComponentMetadata{Type: core.ComponentChart, DataSourceRef: "sales"},
			want: "Chart · sales",
		},
		{
			name: "type only",
			meta: core.ComponentMetadata{Type: core.ComponentText},
			want: "Text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, componentTitle(tt.meta))
		})
	}
}
