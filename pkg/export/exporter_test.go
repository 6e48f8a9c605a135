package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVExporterRender(t *testing.T) {
	exporter := NewCSVExporter()
	data := Table{
		Headers: []string{"Title", "DOI", "Year"},
		Rows: []map[string]string{
			{"Title": "Graphene Sensors", "DOI": "10.1000/abc", "Year": "2023"},
			{"Title": "Dental Implants", "DOI": "10.1000/def", "Year": "2024"},
		},
	}

	raw, err := exporter.Render(data)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Title,DOI,Year", lines[0])
	assert.Contains(t, lines[1], "Graphene Sensors")
}

func TestCSVExporterRequiresHeaders(t *testing.T) {
	exporter := NewCSVExporter()
	_, err := exporter.Render(Table{})
	require.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	exporter := NewPDFExporter()
	data := Table{
		Headers: []string{"Title", "DOI"},
		Rows: []map[string]string{
			{"Title": strings.Repeat("long title ", 12), "DOI": "10.1000/abc"},
		},
	}

	raw, err := exporter.Render(data, "Research Papers")
	require.NoError(t, err)
	assert.True(t, len(raw) > 0)
	assert.Equal(t, "%PDF", string(raw[:4]))
}

func TestPDFExporterRequiresHeaders(t *testing.T) {
	exporter := NewPDFExporter()
	_, err := exporter.Render(Table{}, "")
	require.Error(t, err)
}
