package pdfinfo

import (
	"bytes"
	"testing"

	"github.com/jung-kurt/gofpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoPagePDF(t *testing.T) []byte {
	t.Helper()
	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetFont("Helvetica", "", 12)
	pdf.AddPage()
	pdf.Text(50, 80, "First page heading")
	pdf.AddPage()
	pdf.Text(50, 80, "Second page body")
	var buf bytes.Buffer
	require.NoError(t, pdf.Output(&buf))
	return buf.Bytes()
}

func TestInspect(t *testing.T) {
	data := twoPagePDF(t)
	info, err := Inspect(data)
	require.NoError(t, err)

	assert.Equal(t, 2, info.Pages)
	assert.Equal(t, len(data), info.Bytes)
	require.Len(t, info.Text, 2)
	assert.True(t, info.Contains("First page heading"))
	assert.Equal(t, 2, info.PageOf("Second page body"))
	assert.Equal(t, 0, info.PageOf("missing"))
	assert.False(t, info.Contains("missing"))
}

func TestInspect_RejectsNonPDF(t *testing.T) {
	_, err := Inspect([]byte("hello"))
	assert.Error(t, err)

	_, err = Inspect([]byte("%PDF-1.4 truncated"))
	assert.Error(t, err)
}
