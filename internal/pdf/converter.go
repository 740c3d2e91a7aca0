package pdf

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // register the png decoder for uploaded scans

	"github.com/gen2brain/go-fitz" // Lightweight PDF renderer
)

// MaxOCRPages caps how many pages are rasterized per document. OCR dominates
// verification latency, so only the leading pages are considered.
const MaxOCRPages = 3

// renderDPI approximates a 2.0x viewport scale (PDF native resolution is 72 DPI)
const renderDPI = 144

// ConvertPDFToImages renders up to MaxOCRPages pages of a PDF to JPEG images,
// in page order.
func ConvertPDFToImages(pdfData []byte) ([][]byte, error) {
	doc, err := fitz.NewFromMemory(pdfData)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	pageCount := doc.NumPage()
	if pageCount > MaxOCRPages {
		pageCount = MaxOCRPages
	}

	images := make([][]byte, 0, pageCount)
	for i := 0; i < pageCount; i++ {
		img, err := doc.ImageDPI(i, renderDPI)
		if err != nil {
			return nil, fmt.Errorf("failed to render page %d: %w", i, err)
		}

		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 95}); err != nil {
			return nil, fmt.Errorf("failed to encode page %d: %w", i, err)
		}
		images = append(images, buf.Bytes())
	}

	return images, nil
}

// DetectImageFormat detects if data is already an image
func DetectImageFormat(data []byte) (string, error) {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	return format, nil
}

// ConvertImageToJPEG converts any image format to JPEG
func ConvertImageToJPEG(imageData []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 95}); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	return buf.Bytes(), nil
}

// IsPDF reports whether data starts with the PDF magic bytes
func IsPDF(data []byte) bool {
	return bytes.HasPrefix(data, []byte("%PDF-"))
}
