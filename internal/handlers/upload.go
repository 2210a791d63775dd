package handlers

import (
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"summit-backend/internal/models"
)

const maxUploadBytes = 10 * 1024 * 1024 // 10MB

// UploadHandler persists one multipart file to local disk with its extension
// preserved. No dedup or content validation beyond the size cap.
type UploadHandler struct {
	dir string
}

func NewUploadHandler(dir string) *UploadHandler {
	return &UploadHandler{dir: dir}
}

func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		log.Printf("[Upload Error] %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Upload failed"})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "No file uploaded"})
		return
	}
	defer file.Close()

	topic := r.FormValue("topic")
	if topic == "" {
		topic = "general"
	}

	if err := os.MkdirAll(h.dir, 0o755); err != nil {
		log.Printf("[Upload Error] %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Upload failed"})
		return
	}

	storedAs := uuid.New().String() + filepath.Ext(header.Filename)
	dst, err := os.Create(filepath.Join(h.dir, storedAs))
	if err != nil {
		log.Printf("[Upload Error] %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Upload failed"})
		return
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		log.Printf("[Upload Error] %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Upload failed"})
		return
	}

	log.Printf("[Upload] File saved: %s → %s [topic: %s]", header.Filename, storedAs, topic)

	writeJSON(w, http.StatusOK, models.UploadResponse{
		Success: true,
		File: models.UploadedFile{
			Name:     header.Filename,
			StoredAs: storedAs,
			Topic:    topic,
		},
	})
}
