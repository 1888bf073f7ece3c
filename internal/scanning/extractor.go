package scanning

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors surfaced to the HTTP layer. Both are recoverable from the
// user's point of view: pick a different file, or retry with a clearer one.
var (
	// ErrUnsupportedFormat indicates the uploaded file is neither an image
	// nor a PDF document
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrExtractionFailed indicates the OCR engine or PDF extraction
	// produced an error or no usable text
	ErrExtractionFailed = errors.New("text extraction failed")
)

// Engine defines the interface for optical character recognition backends
type Engine interface {
	// RecognizeText transcribes all visible text from a receipt image,
	// one receipt line per output line
	RecognizeText(imageData []byte, contentType string) (string, error)
	// Close closes the engine and releases resources
	Close() error
}

// Extractor turns an uploaded receipt file into raw text. PDFs go through
// positioned-fragment extraction; images go through the configured OCR engine.
type Extractor struct {
	engine Engine
}

// NewExtractor creates an Extractor. The engine may be nil, in which case only
// PDFs with a text layer can be processed.
func NewExtractor(engine Engine) *Extractor {
	return &Extractor{engine: engine}
}

// ExtractText obtains the raw text of a receipt file. The returned text makes
// no accuracy guarantees; downstream parsing must tolerate garbled output.
func (e *Extractor) ExtractText(data []byte, contentType string) (string, error) {
	mimeType := strings.ToLower(strings.TrimSpace(contentType))

	switch {
	case mimeType == "application/pdf":
		return e.extractPDF(data)
	case strings.HasPrefix(mimeType, "image/"):
		return e.recognize(data, mimeType)
	default:
		return "", fmt.Errorf("%w: %q (upload a PDF or image file)", ErrUnsupportedFormat, contentType)
	}
}

// extractPDF reads the PDF text layer. Scanned PDFs carry no text layer, so an
// empty result falls back to rasterizing the first page and running OCR.
func (e *Extractor) extractPDF(data []byte) (string, error) {
	text, err := extractPDFText(data)
	if err == nil && strings.TrimSpace(text) != "" {
		return text, nil
	}

	if e.engine == nil {
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrExtractionFailed, err)
		}
		return "", fmt.Errorf("%w: pdf contains no extractable text", ErrExtractionFailed)
	}

	pngData, rerr := rasterizePDF(data)
	if rerr != nil {
		return "", fmt.Errorf("%w: %v", ErrExtractionFailed, rerr)
	}
	return e.recognize(pngData, "image/png")
}

// recognize normalizes the image to PNG and delegates to the OCR engine
func (e *Extractor) recognize(imageData []byte, mimeType string) (string, error) {
	if e.engine == nil {
		return "", fmt.Errorf("%w: no OCR engine configured", ErrExtractionFailed)
	}

	pngData, err := normalizeImage(imageData, mimeType)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}

	text, err := e.engine.RecognizeText(pngData, "image/png")
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: engine returned no text", ErrExtractionFailed)
	}
	return text, nil
}

// Close closes the underlying OCR engine
func (e *Extractor) Close() error {
	if e.engine == nil {
		return nil
	}
	return e.engine.Close()
}
