package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDataset() Dataset {
	return Dataset{
		Headers: []string{"ID", "Amount"},
		Rows: []map[string]string{
			{"ID": "p1", "Amount": "250.00"},
			{"ID": "p2", "Amount": "99.50"},
		},
	}
}

func TestCSVExporterRender(t *testing.T) {
	out, err := NewCSVExporter().Render(sampleDataset())
	require.NoError(t, err)
	assert.Equal(t, "ID,Amount\np1,250.00\np2,99.50\n", string(out))
}

func TestCSVExporterRequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	require.Error(t, err)
}

func TestCSVExporterQuotesCommas(t *testing.T) {
	out, err := NewCSVExporter().Render(Dataset{
		Headers: []string{"Name"},
		Rows:    []map[string]string{{"Name": "Reyes, Jordan"}},
	})
	require.NoError(t, err)
	assert.Contains(t, string(out), `"Reyes, Jordan"`)
}

func TestPDFExporterRender(t *testing.T) {
	out, err := NewPDFExporter().Render(sampleDataset(), "Statement of Account", "Balance: 150.50")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestPDFExporterRequiresHeaders(t *testing.T) {
	_, err := NewPDFExporter().Render(Dataset{}, "Empty")
	require.Error(t, err)
}
