package api

import (
	"bytes"
	"errors"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/wellmedai/gateway/pdfextract"
)

// AnalyzePDF extracts text from an uploaded PDF and stores it as the
// session's document context. A later upload for the same session replaces
// the earlier one.
// POST /api/analyze-pdf  (multipart: pdf, session_id)
func (h *Handler) AnalyzePDF(c echo.Context) error {
	sessionID := c.FormValue("session_id")
	if sessionID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "session_id is required"})
	}

	fileHeader, err := c.FormFile("pdf")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "no PDF file uploaded"})
	}
	if fileHeader.Size > h.config.MaxUploadBytes {
		return c.JSON(http.StatusRequestEntityTooLarge, map[string]string{"error": "file too large"})
	}
	if !isPDF(fileHeader.Filename, fileHeader.Header.Get(echo.HeaderContentType)) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "only PDF files are allowed"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		log.Printf("ERROR: failed to open upload: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to read upload"})
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.config.MaxUploadBytes+1))
	if err != nil {
		log.Printf("ERROR: failed to read upload: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to read upload"})
	}
	if int64(len(data)) > h.config.MaxUploadBytes {
		return c.JSON(http.StatusRequestEntityTooLarge, map[string]string{"error": "file too large"})
	}

	text, pages, err := pdfextract.Extract(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		if errors.Is(err, pdfextract.ErrNoExtractableText) {
			return c.JSON(http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
		}
		log.Printf("ERROR: PDF analysis failed: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"error":   "PDF analysis error",
			"details": err.Error(),
		})
	}

	h.sessions.SetDocumentContext(sessionID, text)

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"text":    text,
		"pages":   pages,
	})
}

func isPDF(filename, contentType string) bool {
	if contentType == "application/pdf" {
		return true
	}
	return strings.EqualFold(filepath.Ext(filename), ".pdf")
}
