package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/rao305/boilerai-transcript/internal/data/repos"
	"github.com/rao305/boilerai-transcript/internal/domain"
	apperrors "github.com/rao305/boilerai-transcript/internal/pkg/errors"
	"github.com/rao305/boilerai-transcript/internal/pkg/logger"
)

// RowExtractor is the upstream extraction boundary.
type RowExtractor interface {
	ExtractRows(ctx context.Context, rawText string) ([]domain.RawRow, error)
}

// ExtractionCache memoizes extraction results by input hash. May be nil.
type ExtractionCache interface {
	Get(ctx context.Context, key string) ([]domain.RawRow, bool)
	Set(ctx context.Context, key string, rows []domain.RawRow)
}

// ProcessInput is one transcript upload.
type ProcessInput struct {
	StudentID   string
	StudentName string
	Program     string
	RawText     string
}

// EntryPatch names the fields an edit may overwrite. Nil fields are left
// untouched.
type EntryPatch struct {
	Subject  *string  `json:"subject"`
	Number   *string  `json:"number"`
	Title    *string  `json:"title"`
	Credits  *float64 `json:"credits"`
	Grade    *string  `json:"grade"`
	Semester *string  `json:"semester"`
	Year     *int     `json:"year"`
}

// TranscriptService runs the processing pipeline and owns the verification
// ledger over the persisted entries. Every mutation recomputes the GPA
// summary before the caller observes the next read.
type TranscriptService interface {
	ProcessTranscript(ctx context.Context, input ProcessInput) (*domain.TranscriptRecord, error)
	GetTranscript(ctx context.Context, recordID uuid.UUID) (*domain.TranscriptRecord, error)
	GetByStudent(ctx context.Context, studentID string) (*domain.TranscriptRecord, error)
	DeleteTranscript(ctx context.Context, recordID uuid.UUID) error

	EditEntry(ctx context.Context, entryID uuid.UUID, patch EntryPatch) (*domain.CourseEntry, error)
	VerifyEntry(ctx context.Context, entryID uuid.UUID, verified bool) (*domain.CourseEntry, error)
	SelectAll(ctx context.Context, recordID uuid.UUID) error
	SelectNone(ctx context.Context, recordID uuid.UUID) error
	ToggleSelect(ctx context.Context, entryID uuid.UUID) (*domain.CourseEntry, error)
}

type transcriptService struct {
	db     *gorm.DB
	log    *logger.Logger
	tracer trace.Tracer

	transcriptRepo repos.TranscriptRepo
	entryRepo      repos.CourseEntryRepo

	extractor  RowExtractor
	cache      ExtractionCache
	normalizer *Normalizer
	matcher    *Matcher
	classifier *Classifier
	gpa        *GPAEngine

	// Mutations are serialized per transcript to keep the
	// recompute-after-every-mutation invariant under concurrent callers.
	locks sync.Map
}

func NewTranscriptService(
	db *gorm.DB,
	baseLog *logger.Logger,
	transcriptRepo repos.TranscriptRepo,
	entryRepo repos.CourseEntryRepo,
	extractor RowExtractor,
	cache ExtractionCache,
	normalizer *Normalizer,
	matcher *Matcher,
	classifier *Classifier,
	gpa *GPAEngine,
) TranscriptService {
	return &transcriptService{
		db:             db,
		log:            baseLog.With("service", "TranscriptService"),
		tracer:         otel.Tracer("transcript"),
		transcriptRepo: transcriptRepo,
		entryRepo:      entryRepo,
		extractor:      extractor,
		cache:          cache,
		normalizer:     normalizer,
		matcher:        matcher,
		classifier:     classifier,
		gpa:            gpa,
	}
}

func (s *transcriptService) lock(recordID uuid.UUID) func() {
	muAny, _ := s.locks.LoadOrStore(recordID, &sync.Mutex{})
	mu := muAny.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func extractionKey(rawText string) string {
	sum := sha256.Sum256([]byte(rawText))
	return "extraction:" + hex.EncodeToString(sum[:])
}

// ProcessTranscript is all-or-nothing per run: if extraction is cancelled or
// times out, no partial record is published, and the student's previous
// record survives untouched.
func (s *transcriptService) ProcessTranscript(ctx context.Context, input ProcessInput) (*domain.TranscriptRecord, error) {
	ctx, span := s.tracer.Start(ctx, "ProcessTranscript",
		trace.WithAttributes(attribute.String("student_id", input.StudentID)))
	defer span.End()

	rows, err := s.extract(ctx, input.RawText)
	if err != nil {
		return nil, err
	}

	drafts, err := s.normalizer.Normalize(rows)
	if err != nil {
		return nil, err
	}

	if err := s.matcher.MatchAll(ctx, drafts); err != nil {
		return nil, fmt.Errorf("match entries: %w", err)
	}
	s.classifier.ClassifyAll(drafts)
	s.gpa.Stamp(drafts)

	rawPayload, err := json.Marshal(rows)
	if err != nil {
		rawPayload = []byte("[]")
	}

	record := &domain.TranscriptRecord{
		ID:          uuid.New(),
		StudentID:   input.StudentID,
		StudentName: input.StudentName,
		Program:     input.Program,
		UploadHash:  extractionKey(input.RawText),
		RawPayload:  datatypes.JSON(rawPayload),
		Summary:     s.gpa.Compute(drafts),
	}
	for _, d := range drafts {
		d.ID = uuid.New()
		d.TranscriptRecordID = record.ID
	}

	// Re-upload replaces the student's record wholesale.
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.transcriptRepo.DeleteByStudentID(ctx, tx, input.StudentID); err != nil {
			return fmt.Errorf("replace previous record: %w", err)
		}
		if _, err := s.transcriptRepo.Create(ctx, tx, record); err != nil {
			return fmt.Errorf("create record: %w", err)
		}
		if _, err := s.entryRepo.CreateBatch(ctx, tx, drafts); err != nil {
			return fmt.Errorf("create entries: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	record.Entries = drafts
	s.log.Info("transcript processed",
		"record_id", record.ID,
		"entries", len(drafts),
		"cumulative_gpa", record.Summary.CumulativeGPA,
	)
	return record, nil
}

func (s *transcriptService) extract(ctx context.Context, rawText string) ([]domain.RawRow, error) {
	key := extractionKey(rawText)
	if s.cache != nil {
		if rows, ok := s.cache.Get(ctx, key); ok {
			s.log.Debug("extraction cache hit")
			return rows, nil
		}
	}
	rows, err := s.extractor.ExtractRows(ctx, rawText)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Set(ctx, key, rows)
	}
	return rows, nil
}

func (s *transcriptService) GetTranscript(ctx context.Context, recordID uuid.UUID) (*domain.TranscriptRecord, error) {
	return s.transcriptRepo.GetByID(ctx, nil, recordID)
}

func (s *transcriptService) GetByStudent(ctx context.Context, studentID string) (*domain.TranscriptRecord, error) {
	return s.transcriptRepo.GetByStudentID(ctx, nil, studentID)
}

func (s *transcriptService) DeleteTranscript(ctx context.Context, recordID uuid.UUID) error {
	defer s.lock(recordID)()
	return s.transcriptRepo.DeleteByID(ctx, nil, recordID)
}

// EditEntry overwrites the named fields after validating every invariant; a
// violating patch leaves the entry unchanged. An edit to subject or number
// re-runs the Matcher so a human correction never carries a stale match.
func (s *transcriptService) EditEntry(ctx context.Context, entryID uuid.UUID, patch EntryPatch) (*domain.CourseEntry, error) {
	entry, err := s.entryRepo.GetByID(ctx, nil, entryID)
	if err != nil {
		return nil, err
	}
	defer s.lock(entry.TranscriptRecordID)()

	if err := applyPatch(entry, patch); err != nil {
		return nil, err
	}

	if patch.Subject != nil || patch.Number != nil {
		s.matcher.Match(entry)
		s.classifier.ClassifyAll([]*domain.CourseEntry{entry})
	}
	s.gpa.Stamp([]*domain.CourseEntry{entry})

	if err := s.saveAndRecompute(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// VerifyEntry sets the human verified flag, independent of the machine match
// status. Verifying promotes match_status; un-verifying restores the
// machine-assigned status by re-running the Matcher.
func (s *transcriptService) VerifyEntry(ctx context.Context, entryID uuid.UUID, verified bool) (*domain.CourseEntry, error) {
	entry, err := s.entryRepo.GetByID(ctx, nil, entryID)
	if err != nil {
		return nil, err
	}
	defer s.lock(entry.TranscriptRecordID)()

	entry.Verified = verified
	if verified {
		entry.MatchStatus = domain.MatchVerified
	} else {
		s.matcher.Match(entry)
	}

	if err := s.saveAndRecompute(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *transcriptService) SelectAll(ctx context.Context, recordID uuid.UUID) error {
	defer s.lock(recordID)()
	return s.entryRepo.SetSelectionAll(ctx, nil, recordID, true)
}

func (s *transcriptService) SelectNone(ctx context.Context, recordID uuid.UUID) error {
	defer s.lock(recordID)()
	return s.entryRepo.SetSelectionAll(ctx, nil, recordID, false)
}

func (s *transcriptService) ToggleSelect(ctx context.Context, entryID uuid.UUID) (*domain.CourseEntry, error) {
	entry, err := s.entryRepo.GetByID(ctx, nil, entryID)
	if err != nil {
		return nil, err
	}
	defer s.lock(entry.TranscriptRecordID)()

	entry.Selected = !entry.Selected
	if err := s.entryRepo.Save(ctx, nil, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// saveAndRecompute persists the entry and refreshes the owning record's
// summary in one transaction.
func (s *transcriptService) saveAndRecompute(ctx context.Context, entry *domain.CourseEntry) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.entryRepo.Save(ctx, tx, entry); err != nil {
			return fmt.Errorf("save entry %s: %w", entry.ID, err)
		}
		entries, err := s.entryRepo.GetByRecordID(ctx, tx, entry.TranscriptRecordID)
		if err != nil {
			return fmt.Errorf("reload entries: %w", err)
		}
		summary := s.gpa.Compute(entries)
		if err := s.transcriptRepo.UpdateSummary(ctx, tx, entry.TranscriptRecordID, summary); err != nil {
			return fmt.Errorf("update summary: %w", err)
		}
		return nil
	})
}

func applyPatch(entry *domain.CourseEntry, patch EntryPatch) error {
	if patch.Credits != nil && *patch.Credits < 0 {
		return fmt.Errorf("%w: entry %s: credits must be non-negative", apperrors.ErrInvalidEdit, entry.ID)
	}
	if patch.Grade != nil && !KnownGrade(*patch.Grade) {
		return fmt.Errorf("%w: entry %s: unknown grade %q", apperrors.ErrInvalidEdit, entry.ID, *patch.Grade)
	}
	if patch.Year != nil && *patch.Year != 0 && (*patch.Year < 1900 || *patch.Year > 2200) {
		return fmt.Errorf("%w: entry %s: year %d out of range", apperrors.ErrInvalidEdit, entry.ID, *patch.Year)
	}

	var subject, number string
	if patch.Subject != nil || patch.Number != nil {
		subject, number = entry.Subject, entry.Number
		if patch.Subject != nil {
			subject = *patch.Subject
		}
		if patch.Number != nil {
			number = *patch.Number
		}
		canonSubject, canonNumber, ok := splitCode(subject + " " + number)
		if !ok {
			return fmt.Errorf("%w: entry %s: %q is not a parseable course code", apperrors.ErrInvalidEdit, entry.ID, subject+" "+number)
		}
		subject, number = canonSubject, canonNumber
	}

	if patch.Subject != nil || patch.Number != nil {
		entry.Subject = subject
		entry.Number = number
	}
	if patch.Title != nil {
		entry.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Credits != nil {
		entry.Credits = *patch.Credits
	}
	if patch.Grade != nil {
		entry.Grade, entry.Status = normalizeGrade(*patch.Grade, "")
	}
	if patch.Semester != nil {
		entry.Semester = canonicalSemester(*patch.Semester)
	}
	if patch.Year != nil {
		entry.Year = *patch.Year
	}
	return nil
}
