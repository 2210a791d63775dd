package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"summit-backend/internal/models"
)

func multipartUpload(t *testing.T, filename, content, topic string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	if filename != "" {
		fw, err := mw.CreateFormFile("file", filename)
		if err != nil {
			t.Fatalf("failed to create form file: %v", err)
		}
		fw.Write([]byte(content))
	}
	if topic != "" {
		mw.WriteField("topic", topic)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUpload_Success(t *testing.T) {
	dir := t.TempDir()
	h := NewUploadHandler(dir)

	req := multipartUpload(t, "agenda.pdf", "fake pdf bytes", "logistics")
	rr := httptest.NewRecorder()
	h.Upload(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp models.UploadResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Success {
		t.Error("expected success true")
	}
	if resp.File.Name != "agenda.pdf" {
		t.Errorf("expected original name, got %q", resp.File.Name)
	}
	if resp.File.Topic != "logistics" {
		t.Errorf("expected topic logistics, got %q", resp.File.Topic)
	}
	if !strings.HasSuffix(resp.File.StoredAs, ".pdf") {
		t.Errorf("extension not preserved: %q", resp.File.StoredAs)
	}

	data, err := os.ReadFile(filepath.Join(dir, resp.File.StoredAs))
	if err != nil {
		t.Fatalf("stored file not readable: %v", err)
	}
	if string(data) != "fake pdf bytes" {
		t.Errorf("stored content mismatch: %q", data)
	}
}

func TestUpload_DefaultTopic(t *testing.T) {
	h := NewUploadHandler(t.TempDir())

	req := multipartUpload(t, "notes.txt", "hello", "")
	rr := httptest.NewRecorder()
	h.Upload(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	var resp models.UploadResponse
	json.NewDecoder(rr.Body).Decode(&resp)
	if resp.File.Topic != "general" {
		t.Errorf("expected default topic general, got %q", resp.File.Topic)
	}
}

func TestUpload_NoFile(t *testing.T) {
	h := NewUploadHandler(t.TempDir())

	req := multipartUpload(t, "", "", "general")
	rr := httptest.NewRecorder()
	h.Upload(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}

	var resp map[string]string
	json.NewDecoder(rr.Body).Decode(&resp)
	if resp["error"] != "No file uploaded" {
		t.Errorf("unexpected error message: %q", resp["error"])
	}
}

func TestUpload_NotMultipart(t *testing.T) {
	h := NewUploadHandler(t.TempDir())

	req := httptest.NewRequest(http.MethodPost, "/api/upload", strings.NewReader("plain body"))
	req.Header.Set("Content-Type", "text/plain")
	rr := httptest.NewRecorder()
	h.Upload(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rr.Code)
	}
}

func TestUpload_NoExtensionFilename(t *testing.T) {
	h := NewUploadHandler(t.TempDir())

	req := multipartUpload(t, "README", "text", "")
	rr := httptest.NewRecorder()
	h.Upload(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	var resp models.UploadResponse
	json.NewDecoder(rr.Body).Decode(&resp)
	if strings.Contains(resp.File.StoredAs, ".") {
		t.Errorf("expected no extension, got %q", resp.File.StoredAs)
	}
}
