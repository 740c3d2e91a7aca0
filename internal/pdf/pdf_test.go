package pdf

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildTextPDF assembles a minimal but well-formed PDF with one text line per
// page, so page-cap behavior can be checked without fixture files.
func buildTextPDF(pageTexts []string) []byte {
	n := len(pageTexts)
	fontNum := 3 + n
	contentNum := func(page int) int { return 3 + n + page } // 1-based page

	var objs []string
	objs = append(objs, "<< /Type /Catalog /Pages 2 0 R >>")

	var kids []string
	for i := 1; i <= n; i++ {
		kids = append(kids, fmt.Sprintf("%d 0 R", 2+i))
	}
	objs = append(objs, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), n))

	for i := 1; i <= n; i++ {
		objs = append(objs, fmt.Sprintf(
			"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] "+
				"/Resources << /Font << /F1 %d 0 R >> >> /Contents %d 0 R >>",
			fontNum, contentNum(i)))
	}

	objs = append(objs, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>")

	for _, text := range pageTexts {
		stream := fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", text)
		objs = append(objs, fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream))
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")

	offsets := make([]int, 0, len(objs))
	for i, body := range objs {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}

	xrefStart := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objs)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d %05d n \n", off, 0)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objs)+1, xrefStart)

	return buf.Bytes()
}

func fivePageTexts() []string {
	texts := make([]string, 5)
	for i := range texts {
		texts[i] = fmt.Sprintf(
			"BARANGAY CLEARANCE PAGE MARKER NUMBER %d ISSUED FOR BUSINESS PERMIT APPLICATION", i+1)
	}
	return texts
}

func TestIsPDF(t *testing.T) {
	assert.True(t, IsPDF(buildTextPDF(fivePageTexts())))
	assert.False(t, IsPDF([]byte("plain text, not a pdf")))
	assert.False(t, IsPDF(nil))
}

func TestExtractTextLayerCapsAtThreePages(t *testing.T) {
	data := buildTextPDF(fivePageTexts())

	text, ok := ExtractTextLayer(data)
	require.True(t, ok, "five pages of embedded text are a usable layer")

	assert.Contains(t, text, "MARKER NUMBER 1")
	assert.Contains(t, text, "MARKER NUMBER 2")
	assert.Contains(t, text, "MARKER NUMBER 3")
	assert.NotContains(t, text, "MARKER NUMBER 4")
	assert.NotContains(t, text, "MARKER NUMBER 5")
}

func TestExtractTextLayerRejectsSparseText(t *testing.T) {
	_, ok := ExtractTextLayer(buildTextPDF([]string{"stray mark"}))
	assert.False(t, ok)

	_, ok = ExtractTextLayer([]byte("not a pdf at all"))
	assert.False(t, ok)
}

func TestConvertPDFToImagesCapsAtThreePages(t *testing.T) {
	images, err := ConvertPDFToImages(buildTextPDF(fivePageTexts()))
	if err != nil {
		t.Skipf("pdf renderer unavailable: %v", err)
	}

	assert.Len(t, images, MaxOCRPages)
	for i, img := range images {
		assert.True(t, bytes.HasPrefix(img, []byte{0xFF, 0xD8}), "page %d is not a JPEG", i)
	}
}

func TestConvertPDFToImagesRejectsGarbage(t *testing.T) {
	_, err := ConvertPDFToImages([]byte("garbage"))
	assert.Error(t, err)
}
