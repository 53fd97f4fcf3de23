package service

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/campus-records/ccrm-api/internal/models"
	appErrors "github.com/campus-records/ccrm-api/pkg/errors"
	"github.com/campus-records/ccrm-api/pkg/export"
	"github.com/campus-records/ccrm-api/pkg/jobs"
	"github.com/campus-records/ccrm-api/pkg/storage"
)

type studentPort interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error)
	ReplaceAll(ctx context.Context, students []models.Student) error
}

type coursePort interface {
	List(ctx context.Context, filter models.CourseFilter) ([]models.Course, int, error)
	ReplaceAll(ctx context.Context, courses []models.Course) error
}

type instructorPort interface {
	List(ctx context.Context) ([]models.Instructor, error)
	ReplaceAll(ctx context.Context, instructors []models.Instructor) error
}

type enrollmentPort interface {
	All(ctx context.Context) ([]models.Enrollment, error)
	ReplaceAll(ctx context.Context, enrollments []models.Enrollment) error
}

// Known entity names for import/export.
const (
	EntityStudents    = "students"
	EntityCourses     = "courses"
	EntityInstructors = "instructors"
	EntityEnrollments = "enrollments"
)

const backupDirName = "backups"

// FileService owns the CSV file layer: entity import/export under the data
// directory and timestamped backups processed on a background worker queue.
//
// The record formats use a comma delimiter with no escaping inside fields.
// That is the inherited on-disk contract; free-text fields containing commas
// do not round-trip and callers must not assume they do.
type FileService struct {
	students    studentPort
	courses     coursePort
	instructors instructorPort
	enrollments enrollmentPort
	data        *storage.LocalStorage
	csv         *export.CSVExporter
	queue       *jobs.Queue
	logger      *zap.Logger
	metrics     *MetricsService
}

// FileServiceConfig tunes the backup worker pool.
type FileServiceConfig struct {
	BackupWorkers int
	BackupRetries int
	RetryDelay    time.Duration
}

// NewFileService constructs FileService and its backup queue. Call Start
// before enqueueing backups and Stop on shutdown.
func NewFileService(students studentPort, courses coursePort, instructors instructorPort, enrollments enrollmentPort, data *storage.LocalStorage, cfg FileServiceConfig, logger *zap.Logger, metrics *MetricsService) *FileService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &FileService{
		students:    students,
		courses:     courses,
		instructors: instructors,
		enrollments: enrollments,
		data:        data,
		csv:         export.NewCSVExporter(),
		logger:      logger,
		metrics:     metrics,
	}
	s.queue = jobs.NewQueue("backups", s.runBackup, jobs.QueueConfig{
		Workers:    cfg.BackupWorkers,
		MaxRetries: cfg.BackupRetries,
		RetryDelay: cfg.RetryDelay,
		Logger:     logger,
	})
	return s
}

// Start launches the backup workers.
func (s *FileService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the backup workers.
func (s *FileService) Stop() {
	s.queue.Stop()
}

// Export writes the named entity collection to <entity>.csv in the data
// directory and returns the filename.
func (s *FileService) Export(ctx context.Context, entity string) (string, error) {
	dataset, err := s.dataset(ctx, entity)
	if err != nil {
		return "", err
	}
	payload, err := s.csv.Render(*dataset)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
	}
	filename := entity + ".csv"
	if _, err := s.data.Save(filename, payload); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to write export file")
	}
	s.logger.Info("entity exported", zap.String("entity", entity), zap.String("file", filename))
	return filename, nil
}

// Import replaces the named entity collection from a CSV file in the data
// directory. Unparseable lines are skipped with a warning, matching the
// tolerant import behaviour of the file layer.
func (s *FileService) Import(ctx context.Context, entity, filename string) (int, error) {
	file, err := s.data.Open(filename)
	if err != nil {
		return 0, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("file not found: %s", filename))
	}
	defer file.Close() //nolint:errcheck

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read import file")
	}
	if len(lines) > 0 {
		lines = lines[1:] // header
	}

	count, err := s.restore(ctx, entity, lines)
	if err != nil {
		return 0, err
	}
	s.logger.Info("entity imported", zap.String("entity", entity), zap.Int("records", count))
	return count, nil
}

// Backup enqueues an asynchronous backup of the data directory and returns
// the job id.
func (s *FileService) Backup(ctx context.Context) (string, error) {
	job := jobs.Job{ID: uuid.NewString(), Type: "backup"}
	if err := s.queue.Enqueue(job); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enqueue backup")
	}
	return job.ID, nil
}

// BackupSize reports the total size in bytes of all stored backups.
func (s *FileService) BackupSize(ctx context.Context) (int64, error) {
	size, err := s.data.TreeSize(backupDirName)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to compute backup size")
	}
	return size, nil
}

func (s *FileService) runBackup(ctx context.Context, job jobs.Job) error {
	target := fmt.Sprintf("%s/backup_%s", backupDirName, time.Now().UTC().Format("20060102_150405"))
	if err := s.data.CopyTree(".", target, backupDirName); err != nil {
		if s.metrics != nil {
			s.metrics.ObserveBackup("failed")
		}
		return fmt.Errorf("backup %s: %w", job.ID, err)
	}
	if s.metrics != nil {
		s.metrics.ObserveBackup("completed")
	}
	s.logger.Info("backup completed", zap.String("job_id", job.ID), zap.String("target", target))
	return nil
}

func (s *FileService) dataset(ctx context.Context, entity string) (*export.Dataset, error) {
	switch entity {
	case EntityStudents:
		students, _, err := s.students.List(ctx, models.StudentFilter{})
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
		}
		ds := &export.Dataset{Headers: []string{"id", "regNo", "fullName", "email", "status", "enrolledCourses", "createdAt"}}
		for _, st := range students {
			ds.Rows = append(ds.Rows, map[string]string{
				"id":              st.ID,
				"regNo":           st.RegNo,
				"fullName":        st.FullName,
				"email":           st.Email,
				"status":          statusToken(st.Active),
				"enrolledCourses": strings.Join(st.EnrolledCourses, ";"),
				"createdAt":       st.CreatedAt.Format(time.RFC3339),
			})
		}
		return ds, nil
	case EntityCourses:
		courses, _, err := s.courses.List(ctx, models.CourseFilter{})
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
		}
		ds := &export.Dataset{Headers: []string{"id", "code", "title", "credits", "department", "instructorId", "semester", "status", "createdAt"}}
		for _, c := range courses {
			ds.Rows = append(ds.Rows, map[string]string{
				"id":           c.ID,
				"code":         c.Code,
				"title":        c.Title,
				"credits":      strconv.Itoa(c.Credits),
				"department":   c.Department,
				"instructorId": c.InstructorID,
				"semester":     string(c.Semester),
				"status":       statusToken(c.Active),
				"createdAt":    c.CreatedAt.Format(time.RFC3339),
			})
		}
		return ds, nil
	case EntityInstructors:
		instructors, err := s.instructors.List(ctx)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list instructors")
		}
		ds := &export.Dataset{Headers: []string{"id", "fullName", "email", "department", "status", "assignedCourses", "createdAt"}}
		for _, in := range instructors {
			ds.Rows = append(ds.Rows, map[string]string{
				"id":              in.ID,
				"fullName":        in.FullName,
				"email":           in.Email,
				"department":      in.Department,
				"status":          statusToken(in.Active),
				"assignedCourses": strings.Join(in.AssignedCourses, ";"),
				"createdAt":       in.CreatedAt.Format(time.RFC3339),
			})
		}
		return ds, nil
	case EntityEnrollments:
		enrollments, err := s.enrollments.All(ctx)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrollments")
		}
		ds := &export.Dataset{Headers: []string{"id", "studentId", "courseCode", "semester", "enrolledAt", "percentageScore", "grade", "status"}}
		for _, e := range enrollments {
			grade := ""
			if e.Grade != nil {
				grade = string(*e.Grade)
			}
			ds.Rows = append(ds.Rows, map[string]string{
				"id":              e.ID,
				"studentId":       e.StudentID,
				"courseCode":      e.CourseCode,
				"semester":        string(e.Semester),
				"enrolledAt":      e.EnrolledAt.Format(time.RFC3339),
				"percentageScore": fmt.Sprintf("%.2f", e.PercentageScore),
				"grade":           grade,
				"status":          e.StatusToken(),
			})
		}
		return ds, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown entity %q", entity))
	}
}

func (s *FileService) restore(ctx context.Context, entity string, lines []string) (int, error) {
	switch entity {
	case EntityStudents:
		var students []models.Student
		for _, line := range lines {
			st, err := parseStudentRecord(line)
			if err != nil {
				s.logger.Warn("skipping bad student record", zap.String("line", line), zap.Error(err))
				continue
			}
			students = append(students, *st)
		}
		if err := s.students.ReplaceAll(ctx, students); err != nil {
			return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to import students")
		}
		return len(students), nil
	case EntityCourses:
		var courses []models.Course
		for _, line := range lines {
			c, err := parseCourseRecord(line)
			if err != nil {
				s.logger.Warn("skipping bad course record", zap.String("line", line), zap.Error(err))
				continue
			}
			courses = append(courses, *c)
		}
		if err := s.courses.ReplaceAll(ctx, courses); err != nil {
			return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to import courses")
		}
		return len(courses), nil
	case EntityInstructors:
		var instructors []models.Instructor
		for _, line := range lines {
			in, err := parseInstructorRecord(line)
			if err != nil {
				s.logger.Warn("skipping bad instructor record", zap.String("line", line), zap.Error(err))
				continue
			}
			instructors = append(instructors, *in)
		}
		if err := s.instructors.ReplaceAll(ctx, instructors); err != nil {
			return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to import instructors")
		}
		return len(instructors), nil
	case EntityEnrollments:
		var enrollments []models.Enrollment
		for _, line := range lines {
			e, err := parseEnrollmentRecord(line)
			if err != nil {
				s.logger.Warn("skipping bad enrollment record", zap.String("line", line), zap.Error(err))
				continue
			}
			enrollments = append(enrollments, *e)
		}
		if err := s.enrollments.ReplaceAll(ctx, enrollments); err != nil {
			return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to import enrollments")
		}
		return len(enrollments), nil
	default:
		return 0, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown entity %q", entity))
	}
}

// The parse helpers split on the raw delimiter, per the on-disk contract.

func parseStudentRecord(line string) (*models.Student, error) {
	fields := strings.Split(line, ",")
	if len(fields) < 5 {
		return nil, fmt.Errorf("expected at least 5 fields, got %d", len(fields))
	}
	student := &models.Student{
		ID:              fields[0],
		RegNo:           fields[1],
		FullName:        fields[2],
		Email:           fields[3],
		Active:          fields[4] == "ACTIVE",
		EnrolledCourses: []string{},
	}
	if len(fields) > 5 && fields[5] != "" {
		for _, code := range strings.Split(fields[5], ";") {
			if code = strings.TrimSpace(code); code != "" {
				student.EnrollInCourse(code)
			}
		}
	}
	if len(fields) > 6 {
		if ts, err := time.Parse(time.RFC3339, fields[6]); err == nil {
			student.CreatedAt = ts
		}
	}
	return student, nil
}

func parseCourseRecord(line string) (*models.Course, error) {
	fields := strings.Split(line, ",")
	if len(fields) < 8 {
		return nil, fmt.Errorf("expected at least 8 fields, got %d", len(fields))
	}
	credits, err := strconv.Atoi(fields[3])
	if err != nil || credits <= 0 {
		return nil, fmt.Errorf("invalid credits %q", fields[3])
	}
	semester, err := models.ParseSemester(fields[6])
	if err != nil {
		return nil, err
	}
	course := &models.Course{
		ID:           fields[0],
		Code:         fields[1],
		Title:        fields[2],
		Credits:      credits,
		Department:   fields[4],
		InstructorID: fields[5],
		Semester:     semester,
		Active:       fields[7] == "ACTIVE",
	}
	if len(fields) > 8 {
		if ts, err := time.Parse(time.RFC3339, fields[8]); err == nil {
			course.CreatedAt = ts
		}
	}
	return course, nil
}

func parseInstructorRecord(line string) (*models.Instructor, error) {
	fields := strings.Split(line, ",")
	if len(fields) < 5 {
		return nil, fmt.Errorf("expected at least 5 fields, got %d", len(fields))
	}
	instructor := &models.Instructor{
		ID:              fields[0],
		FullName:        fields[1],
		Email:           fields[2],
		Department:      fields[3],
		Active:          fields[4] == "ACTIVE",
		AssignedCourses: []string{},
	}
	if len(fields) > 5 && fields[5] != "" {
		for _, code := range strings.Split(fields[5], ";") {
			if code = strings.TrimSpace(code); code != "" {
				instructor.AssignCourse(code)
			}
		}
	}
	if len(fields) > 6 {
		if ts, err := time.Parse(time.RFC3339, fields[6]); err == nil {
			instructor.CreatedAt = ts
		}
	}
	return instructor, nil
}

func parseEnrollmentRecord(line string) (*models.Enrollment, error) {
	fields := strings.Split(line, ",")
	if len(fields) < 8 {
		return nil, fmt.Errorf("expected 8 fields, got %d", len(fields))
	}
	semester, err := models.ParseSemester(fields[3])
	if err != nil {
		return nil, err
	}
	score, err := strconv.ParseFloat(fields[5], 64)
	if err != nil {
		return nil, fmt.Errorf("invalid percentage score %q", fields[5])
	}
	enrollment := &models.Enrollment{
		ID:              fields[0],
		StudentID:       fields[1],
		CourseCode:      fields[2],
		Semester:        semester,
		PercentageScore: score,
		Active:          fields[7] == "ACTIVE",
	}
	if ts, err := time.Parse(time.RFC3339, fields[4]); err == nil {
		enrollment.EnrolledAt = ts
	}
	if fields[6] != "" {
		grade, err := models.ParseGrade(fields[6])
		if err != nil {
			return nil, err
		}
		enrollment.Grade = &grade
	}
	return enrollment, nil
}

func statusToken(active bool) string {
	if active {
		return "ACTIVE"
	}
	return "INACTIVE"
}
