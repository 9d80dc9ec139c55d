package util

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

// ExtractDocumentText turns an uploaded resume into plain text. PDFs read
// their text layer first and fall back to OCR when the layer is empty
// (scanned resumes). Supported extensions: .pdf, .docx, .txt.
func ExtractDocumentText(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read text file: %w", err)
		}
		return strings.TrimSpace(string(data)), nil

	case ".pdf":
		text, err := extractPDFText(path)
		if err == nil && strings.TrimSpace(text) != "" {
			return strings.TrimSpace(text), nil
		}
		// No text layer; try OCR before giving up.
		return ExtractPDFOCR(path)

	case ".docx":
		return extractDocxText(path)

	default:
		return "", fmt.Errorf("unsupported file type: %s", filepath.Ext(path))
	}
}

func extractPDFText(path string) (string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to read pdf: %w", err)
	}
	defer f.Close()

	var textBuilder strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, _ := page.GetPlainText(nil)
		textBuilder.WriteString(text)
	}
	return textBuilder.String(), nil
}

func extractDocxText(path string) (string, error) {
	doc, err := docx.ReadDocxFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer doc.Close()

	return strings.TrimSpace(doc.Editable().GetContent()), nil
}

// ExtractPDFOCR extracts text from a PDF by rendering each page and running
// it through Tesseract.
func ExtractPDFOCR(path string) (string, error) {
	if err := checkTesseract(); err != nil {
		return "", fmt.Errorf("tesseract check failed: %w", err)
	}

	doc, err := fitz.New(path)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	var fullText bytes.Buffer
	var lastErr error

	for n := 0; n < doc.NumPage(); n++ {
		img, err := doc.Image(n)
		if err != nil {
			lastErr = fmt.Errorf("page %d: failed to extract image: %w", n+1, err)
			continue
		}

		tmpFile, err := os.CreateTemp("", "page-*.png")
		if err != nil {
			lastErr = fmt.Errorf("page %d: failed to create temp file: %w", n+1, err)
			continue
		}
		tmpPath := tmpFile.Name()
		tmpFile.Close()
		defer os.Remove(tmpPath)

		if err := savePNG(tmpPath, img); err != nil {
			lastErr = fmt.Errorf("page %d: failed to save PNG: %w", n+1, err)
			continue
		}

		cmd := exec.Command("tesseract", tmpPath, "stdout", "-l", "eng")
		out, err := cmd.CombinedOutput()
		if err != nil {
			lastErr = fmt.Errorf("page %d: tesseract error: %w, output: %s", n+1, err, string(out))
			continue
		}

		pageText := strings.TrimSpace(string(out))
		if len(pageText) > 0 {
			fullText.WriteString(pageText)
			fullText.WriteString("\n\n")
		}
	}

	result := strings.TrimSpace(fullText.String())
	if len(result) == 0 {
		if lastErr != nil {
			return "", fmt.Errorf("failed to extract text via OCR: %w", lastErr)
		}
		return "", fmt.Errorf("no text extracted from PDF (PDF might be empty or images are unreadable)")
	}

	return result, nil
}

func checkTesseract() error {
	cmd := exec.Command("tesseract", "-v")
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("tesseract not found or not executable: %w\nOutput: %s", err, string(out))
	}
	return nil
}

func savePNG(path string, img interface{}) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	i, ok := img.(image.Image)
	if !ok {
		return fmt.Errorf("invalid image type: %T", img)
	}

	if err := png.Encode(f, i); err != nil {
		return fmt.Errorf("failed to encode PNG: %w", err)
	}

	return nil
}
