package pdf

import (
	"bytes"
	"strings"

	"github.com/ledongthuc/pdf"
)

// minTextLayerChars is the minimum amount of embedded text that counts as a
// usable text layer. Scanned documents usually expose none or a few stray
// characters, in which case OCR is still required.
const minTextLayerChars = 120

// ExtractTextLayer pulls the embedded text layer of a PDF, if any. It returns
// the text and true when the layer is substantial enough to skip OCR.
func ExtractTextLayer(pdfData []byte) (string, bool) {
	reader, err := pdf.NewReader(bytes.NewReader(pdfData), int64(len(pdfData)))
	if err != nil {
		return "", false
	}

	var b strings.Builder
	pageCount := reader.NumPage()
	if pageCount > MaxOCRPages {
		pageCount = MaxOCRPages
	}

	for i := 1; i <= pageCount; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		b.WriteString(content)
		b.WriteString("\n")
	}

	text := b.String()
	if len(strings.TrimSpace(text)) < minTextLayerChars {
		return "", false
	}
	return text, true
}
