package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/campus-records/ccrm-api/internal/models"
	appErrors "github.com/campus-records/ccrm-api/pkg/errors"
	"github.com/campus-records/ccrm-api/pkg/export"
)

type studentReader interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
}

type enrollmentReader interface {
	List(ctx context.Context, filter models.EnrollmentFilter) ([]models.Enrollment, error)
}

// TranscriptFormat selects a transcript download encoding.
type TranscriptFormat string

const (
	TranscriptFormatCSV TranscriptFormat = "csv"
	TranscriptFormatPDF TranscriptFormat = "pdf"
)

// TranscriptService joins enrollment and course data into ordered transcript
// views. Transcripts are built on demand and hold no independent state.
type TranscriptService struct {
	students    studentReader
	courses     courseDirectory
	enrollments enrollmentReader
	csv         *export.CSVExporter
	pdf         *export.PDFExporter
	logger      *zap.Logger
}

// NewTranscriptService constructs TranscriptService.
func NewTranscriptService(students studentReader, courses courseDirectory, enrollments enrollmentReader, logger *zap.Logger) *TranscriptService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TranscriptService{
		students:    students,
		courses:     courses,
		enrollments: enrollments,
		csv:         export.NewCSVExporter(),
		pdf:         export.NewPDFExporter(),
		logger:      logger,
	}
}

// GenerateTranscript builds the complete transcript across all semesters.
func (s *TranscriptService) GenerateTranscript(ctx context.Context, studentID string) (*models.Transcript, error) {
	return s.generate(ctx, studentID, "")
}

// GenerateSemesterTranscript builds a transcript restricted to one semester.
func (s *TranscriptService) GenerateSemesterTranscript(ctx context.Context, studentID string, semester models.Semester) (*models.Transcript, error) {
	return s.generate(ctx, studentID, semester)
}

// generate walks the student's active enrollments in insertion order,
// preserving enrollment chronology. Entries whose course no longer resolves
// are skipped.
func (s *TranscriptService) generate(ctx context.Context, studentID string, semester models.Semester) (*models.Transcript, error) {
	student, err := s.students.FindByID(ctx, studentID)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}

	filter := models.EnrollmentFilter{StudentID: studentID, ActiveOnly: true}
	if semester != "" {
		filter.Semester = semester
	}
	enrollments, err := s.enrollments.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrollments")
	}

	transcript := models.NewTranscript(student.ID, student.FullName)
	for _, e := range enrollments {
		course, err := s.courses.FindByCode(ctx, e.CourseCode)
		if err != nil {
			continue
		}
		transcript.AddEntry(models.NewTranscriptEntry(e.CourseCode, course.Title, course.Credits, e.Grade, e.Semester))
	}
	return transcript, nil
}

// Export renders a transcript as CSV or PDF bytes together with a filename.
func (s *TranscriptService) Export(ctx context.Context, studentID string, semester models.Semester, format TranscriptFormat) ([]byte, string, error) {
	var transcript *models.Transcript
	var err error
	if semester != "" {
		transcript, err = s.GenerateSemesterTranscript(ctx, studentID, semester)
	} else {
		transcript, err = s.GenerateTranscript(ctx, studentID)
	}
	if err != nil {
		return nil, "", err
	}

	dataset := transcriptDataset(transcript)
	switch format {
	case TranscriptFormatPDF:
		payload, err := s.pdf.Render(dataset, fmt.Sprintf("Transcript - %s", transcript.StudentName))
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render transcript pdf")
		}
		return payload, transcriptFilename(transcript, semester, "pdf"), nil
	case TranscriptFormatCSV, "":
		payload, err := s.csv.Render(dataset)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render transcript csv")
		}
		return payload, transcriptFilename(transcript, semester, "csv"), nil
	default:
		return nil, "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported transcript format %q", format))
	}
}

func transcriptDataset(t *models.Transcript) export.Dataset {
	headers := []string{"Code", "Title", "Credits", "Grade", "Semester", "Grade Points"}
	rows := make([]map[string]string, 0, len(t.Entries))
	for _, entry := range t.Entries {
		grade := "N/A"
		if entry.Grade != nil {
			grade = string(*entry.Grade)
		}
		rows = append(rows, map[string]string{
			"Code":         entry.CourseCode,
			"Title":        entry.CourseTitle,
			"Credits":      fmt.Sprintf("%d", entry.Credits),
			"Grade":        grade,
			"Semester":     entry.Semester.Display(),
			"Grade Points": fmt.Sprintf("%.1f", entry.GradePoints),
		})
	}
	return export.Dataset{
		Headers: headers,
		Rows:    rows,
		Summary: []string{
			fmt.Sprintf("Overall GPA: %.2f", t.OverallGPA),
			fmt.Sprintf("Total Credits: %d", t.TotalCredits),
		},
	}
}

func transcriptFilename(t *models.Transcript, semester models.Semester, ext string) string {
	name := fmt.Sprintf("transcript_%s", t.StudentID)
	if semester != "" {
		name += "_" + strings.ToLower(string(semester))
	}
	return name + "." + ext
}
