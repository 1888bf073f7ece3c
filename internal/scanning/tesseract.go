package scanning

import (
	"fmt"

	"github.com/otiai10/gosseract/v2"
)

// Tesseract implements the Engine interface using a locally installed
// Tesseract OCR. Needs the language data for the receipt's language
// (German receipts: "deu").
type Tesseract struct {
	language string
}

// NewTesseract creates a new Tesseract Engine instance
func NewTesseract(language string) (*Tesseract, error) {
	if language == "" {
		language = "deu"
	}
	return &Tesseract{language: language}, nil
}

// RecognizeText runs OCR over the receipt image
func (t *Tesseract) RecognizeText(imageData []byte, contentType string) (string, error) {
	// gosseract clients are not safe for concurrent use; one per call
	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(t.language); err != nil {
		return "", fmt.Errorf("setting language %q: %w", t.language, err)
	}
	if err := client.SetImageFromBytes(imageData); err != nil {
		return "", fmt.Errorf("loading image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("recognizing text: %w", err)
	}
	return text, nil
}

// Close closes the engine
func (t *Tesseract) Close() error {
	return nil
}
