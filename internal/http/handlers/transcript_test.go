package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/rao305/boilerai-transcript/internal/domain"
	"github.com/rao305/boilerai-transcript/internal/http/middleware"
	apperrors "github.com/rao305/boilerai-transcript/internal/pkg/errors"
	"github.com/rao305/boilerai-transcript/internal/pkg/logger"
	"github.com/rao305/boilerai-transcript/internal/services"
)

type stubTranscriptService struct {
	processFn   func(ctx context.Context, input services.ProcessInput) (*domain.TranscriptRecord, error)
	getByStudFn func(ctx context.Context, studentID string) (*domain.TranscriptRecord, error)
}

func (s *stubTranscriptService) ProcessTranscript(ctx context.Context, input services.ProcessInput) (*domain.TranscriptRecord, error) {
	return s.processFn(ctx, input)
}

func (s *stubTranscriptService) GetTranscript(ctx context.Context, recordID uuid.UUID) (*domain.TranscriptRecord, error) {
	return nil, apperrors.ErrNotFound
}

func (s *stubTranscriptService) GetByStudent(ctx context.Context, studentID string) (*domain.TranscriptRecord, error) {
	return s.getByStudFn(ctx, studentID)
}

func (s *stubTranscriptService) DeleteTranscript(ctx context.Context, recordID uuid.UUID) error {
	return nil
}

func (s *stubTranscriptService) EditEntry(ctx context.Context, entryID uuid.UUID, patch services.EntryPatch) (*domain.CourseEntry, error) {
	return nil, apperrors.ErrInvalidEdit
}

func (s *stubTranscriptService) VerifyEntry(ctx context.Context, entryID uuid.UUID, verified bool) (*domain.CourseEntry, error) {
	return &domain.CourseEntry{ID: entryID, Verified: verified}, nil
}

func (s *stubTranscriptService) SelectAll(ctx context.Context, recordID uuid.UUID) error  { return nil }
func (s *stubTranscriptService) SelectNone(ctx context.Context, recordID uuid.UUID) error { return nil }

func (s *stubTranscriptService) ToggleSelect(ctx context.Context, entryID uuid.UUID) (*domain.CourseEntry, error) {
	return &domain.CourseEntry{ID: entryID, Selected: true}, nil
}

func testRouter(t *testing.T, svc services.TranscriptService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	h := NewTranscriptHandler(log, svc, nil)

	r := gin.New()
	api := r.Group("/api", middleware.RequireStudent())
	api.POST("/transcripts/process", h.Process)
	api.GET("/transcripts/me", h.GetMine)
	api.GET("/transcripts/:id", h.Get)
	api.PATCH("/transcripts/:id/entries/:entryId", h.EditEntry)
	api.POST("/transcripts/:id/entries/:entryId/verify", h.VerifyEntry)
	return r
}

func doJSON(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Student-ID", "student-h1")
	r.ServeHTTP(w, req)
	return w
}

func TestProcess_PassesStudentIdentity(t *testing.T) {
	var gotInput services.ProcessInput
	svc := &stubTranscriptService{
		processFn: func(ctx context.Context, input services.ProcessInput) (*domain.TranscriptRecord, error) {
			gotInput = input
			return &domain.TranscriptRecord{ID: uuid.New(), StudentID: input.StudentID}, nil
		},
	}
	r := testRouter(t, svc)

	w := doJSON(r, http.MethodPost, "/api/transcripts/process",
		`{"student_name":"Ada","program":"CS","raw_text":"transcript text"}`)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", w.Code, w.Body.String())
	}
	if gotInput.StudentID != "student-h1" {
		t.Fatalf("student id not taken from header: %q", gotInput.StudentID)
	}
	if gotInput.RawText != "transcript text" {
		t.Fatalf("raw text = %q", gotInput.RawText)
	}
}

func TestProcess_RequiresRawText(t *testing.T) {
	r := testRouter(t, &stubTranscriptService{})

	w := doJSON(r, http.MethodPost, "/api/transcripts/process", `{"student_name":"Ada"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestServiceErrorMapping(t *testing.T) {
	tests := []struct {
		err  error
		want int
		code string
	}{
		{apperrors.ErrNotFound, http.StatusNotFound, "not_found"},
		{apperrors.ErrEmptyTranscript, http.StatusUnprocessableEntity, "empty_transcript"},
		{apperrors.ErrExtraction, http.StatusBadGateway, "extraction_failed"},
		{apperrors.ErrInvalidEdit, http.StatusBadRequest, "invalid_edit"},
		{apperrors.ErrNoEligibleCourses, http.StatusConflict, "no_eligible_courses"},
		{fmt.Errorf("boom"), http.StatusInternalServerError, "internal_error"},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			svc := &stubTranscriptService{
				getByStudFn: func(ctx context.Context, studentID string) (*domain.TranscriptRecord, error) {
					return nil, fmt.Errorf("lookup: %w", tt.err)
				},
			}
			r := testRouter(t, svc)

			w := doJSON(r, http.MethodGet, "/api/transcripts/me", "")
			if w.Code != tt.want {
				t.Fatalf("status = %d, want %d", w.Code, tt.want)
			}

			var envelope struct {
				Error struct {
					Code string `json:"code"`
				} `json:"error"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
				t.Fatalf("decode envelope: %v", err)
			}
			if envelope.Error.Code != tt.code {
				t.Fatalf("error code = %q, want %q", envelope.Error.Code, tt.code)
			}
		})
	}
}

func TestGet_RejectsMalformedID(t *testing.T) {
	r := testRouter(t, &stubTranscriptService{})

	w := doJSON(r, http.MethodGet, "/api/transcripts/not-a-uuid", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if !strings.Contains(w.Body.String(), "invalid_id") {
		t.Fatalf("expected invalid_id code, got %s", w.Body.String())
	}
}

func TestVerifyEntry_RequiresVerifiedField(t *testing.T) {
	r := testRouter(t, &stubTranscriptService{})
	path := "/api/transcripts/" + uuid.NewString() + "/entries/" + uuid.NewString() + "/verify"

	w := doJSON(r, http.MethodPost, path, `{}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}

	w = doJSON(r, http.MethodPost, path, `{"verified":false}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
}
