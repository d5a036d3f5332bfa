// handlers_upload_test.go - Tests for upload handlers
package api

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/cad-profiler/backend/internal/models"
	"github.com/cad-profiler/backend/internal/testutil"
)

func TestUploadHandler_HandleUploadFile(t *testing.T) {
	tests := []struct {
		name       string
		request    uploadFileRequest
		wantStatus int
		wantErr    bool
		errCode    string
	}{
		{
			name: "valid file upload",
			request: uploadFileRequest{
				Name: "bracket.stl",
				Data: base64.StdEncoding.EncodeToString([]byte("solid bracket")),
			},
			wantStatus: http.StatusCreated,
			wantErr:    false,
		},
		{
			name: "empty name",
			request: uploadFileRequest{
				Name: "",
				Data: base64.StdEncoding.EncodeToString([]byte("content")),
			},
			wantStatus: http.StatusBadRequest,
			wantErr:    true,
			errCode:    "VALIDATION_ERROR",
		},
		{
			name: "empty data",
			request: uploadFileRequest{
				Name: "bracket.stl",
				Data: "",
			},
			wantStatus: http.StatusBadRequest,
			wantErr:    true,
			errCode:    "VALIDATION_ERROR",
		},
		{
			name: "invalid base64",
			request: uploadFileRequest{
				Name: "bracket.stl",
				Data: "not-valid-base64!!!",
			},
			wantStatus: http.StatusBadRequest,
			wantErr:    true,
			errCode:    "BAD_REQUEST",
		},
		{
			name: "disallowed file type",
			request: uploadFileRequest{
				Name: "malware.exe",
				Data: base64.StdEncoding.EncodeToString([]byte("MZ")),
			},
			wantStatus: http.StatusBadRequest,
			wantErr:    true,
			errCode:    "BAD_REQUEST",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := testutil.NewMockStorage()
			handler := NewUploadHandler(store, ".stl,.step,.dxf")

			e := echo.New()
			body, _ := json.Marshal(tt.request)
			req := httptest.NewRequest(http.MethodPost, "/api/files/upload", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			err := handler.HandleUploadFile(c)

			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error, got nil")
					return
				}
				apiErr, ok := err.(*APIError)
				if !ok {
					t.Errorf("expected APIError, got %T", err)
					return
				}
				if apiErr.Status != tt.wantStatus {
					t.Errorf("expected status %d, got %d", tt.wantStatus, apiErr.Status)
				}
				if apiErr.Code != tt.errCode {
					t.Errorf("expected error code %s, got %s", tt.errCode, apiErr.Code)
				}
			} else {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
					return
				}
				if rec.Code != tt.wantStatus {
					t.Errorf("expected status %d, got %d", tt.wantStatus, rec.Code)
				}

				var response models.FileInfo
				if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
					t.Errorf("failed to decode response: %v", err)
					return
				}
				if response.Name != tt.request.Name {
					t.Errorf("expected name %s, got %s", tt.request.Name, response.Name)
				}
				if response.ID == "" {
					t.Error("expected non-empty ID")
				}
			}
		})
	}
}

func TestUploadHandler_HandleGetFile(t *testing.T) {
	store := testutil.NewMockStorage()
	store.AddFile("known-id", "part.step", []byte("ISO-10303-21;"))
	handler := NewUploadHandler(store, "")

	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/api/files/known-id", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("known-id")

	if err := handler.HandleGetFile(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}

	// Missing file
	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/api/files/nope", nil), httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("nope")

	err := handler.HandleGetFile(c)
	apiErr, ok := err.(*APIError)
	if !ok || apiErr.Status != http.StatusNotFound {
		t.Errorf("expected 404 APIError, got %v", err)
	}
}

func TestUploadHandler_DeleteAndRename(t *testing.T) {
	store := testutil.NewMockStorage()
	store.AddFile("f1", "old.stl", []byte("solid"))
	handler := NewUploadHandler(store, ".stl")

	e := echo.New()

	// Rename
	body := bytes.NewBufferString(`{"name":"new.stl"}`)
	req := httptest.NewRequest(http.MethodPut, "/api/files/f1", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("f1")

	if err := handler.HandleRenameFile(c); err != nil {
		t.Fatalf("rename failed: %v", err)
	}
	info, _ := store.Get("f1")
	if info.Name != "new.stl" {
		t.Errorf("expected renamed file, got %s", info.Name)
	}

	// Delete
	rec = httptest.NewRecorder()
	c = e.NewContext(httptest.NewRequest(http.MethodDelete, "/api/files/f1", nil), rec)
	c.SetParamNames("id")
	c.SetParamValues("f1")

	if err := handler.HandleDeleteFile(c); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}
	if store.GetFileCount() != 0 {
		t.Errorf("expected empty store, got %d files", store.GetFileCount())
	}
}
