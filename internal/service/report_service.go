package service

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/campus-records/ccrm-api/internal/models"
	appErrors "github.com/campus-records/ccrm-api/pkg/errors"
)

type studentLister interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error)
}

type courseLister interface {
	List(ctx context.Context, filter models.CourseFilter) ([]models.Course, int, error)
}

// ReportService derives cross-cutting statistics from the registries. All
// queries are read-only; results may be cached in Redis when configured.
type ReportService struct {
	students    studentLister
	courses     courseLister
	enrollments enrollmentReader
	cache       *redis.Client
	cacheTTL    time.Duration
	logger      *zap.Logger
}

// NewReportService constructs ReportService. A nil cache disables caching.
func NewReportService(students studentLister, courses courseLister, enrollments enrollmentReader, cache *redis.Client, cacheTTL time.Duration, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &ReportService{
		students:    students,
		courses:     courses,
		enrollments: enrollments,
		cache:       cache,
		cacheTTL:    cacheTTL,
		logger:      logger,
	}
}

// GPADistribution buckets active students into the four GPA bands.
func (s *ReportService) GPADistribution(ctx context.Context) (*models.GPADistribution, error) {
	if cached, ok := cacheGet[models.GPADistribution](ctx, s, "reports:gpa-distribution"); ok {
		return cached, nil
	}

	active := true
	students, _, err := s.students.List(ctx, models.StudentFilter{Active: &active})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}

	dist := &models.GPADistribution{}
	for _, student := range students {
		switch {
		case student.GPA >= 3.7:
			dist.Excellent++
		case student.GPA >= 3.0:
			dist.Good++
		case student.GPA >= 2.0:
			dist.Satisfactory++
		default:
			dist.NeedsImprovement++
		}
	}

	s.cacheSet(ctx, "reports:gpa-distribution", dist)
	return dist, nil
}

// SemesterStatistics counts active enrollments for every defined semester,
// in chronological order.
func (s *ReportService) SemesterStatistics(ctx context.Context) ([]models.SemesterStat, error) {
	if cached, ok := cacheGet[[]models.SemesterStat](ctx, s, "reports:semester-statistics"); ok {
		return *cached, nil
	}

	stats := make([]models.SemesterStat, 0, len(models.Semesters()))
	for _, semester := range models.Semesters() {
		enrollments, err := s.enrollments.List(ctx, models.EnrollmentFilter{Semester: semester, ActiveOnly: true})
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrollments")
		}
		stats = append(stats, models.SemesterStat{
			Semester:    semester,
			Display:     semester.Display(),
			Enrollments: len(enrollments),
		})
	}

	s.cacheSet(ctx, "reports:semester-statistics", stats)
	return stats, nil
}

// CoursePopularity ranks active courses by active enrollments in the
// course's own semester, descending. Ties break on ascending course code so
// the order is total and deterministic.
func (s *ReportService) CoursePopularity(ctx context.Context) ([]models.CoursePopularity, error) {
	if cached, ok := cacheGet[[]models.CoursePopularity](ctx, s, "reports:course-popularity"); ok {
		return *cached, nil
	}

	active := true
	courses, _, err := s.courses.List(ctx, models.CourseFilter{Active: &active})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}

	ranking := make([]models.CoursePopularity, 0, len(courses))
	for _, course := range courses {
		enrollments, err := s.enrollments.List(ctx, models.EnrollmentFilter{CourseCode: course.Code, Semester: course.Semester, ActiveOnly: true})
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrollments")
		}
		ranking = append(ranking, models.CoursePopularity{
			CourseCode:  course.Code,
			Title:       course.Title,
			Semester:    course.Semester,
			Enrollments: len(enrollments),
		})
	}

	sort.Slice(ranking, func(i, j int) bool {
		if ranking[i].Enrollments != ranking[j].Enrollments {
			return ranking[i].Enrollments > ranking[j].Enrollments
		}
		return ranking[i].CourseCode < ranking[j].CourseCode
	})

	s.cacheSet(ctx, "reports:course-popularity", ranking)
	return ranking, nil
}

// TopStudents returns the highest-GPA active students, at most limit.
func (s *ReportService) TopStudents(ctx context.Context, limit int) ([]models.Student, error) {
	if limit <= 0 {
		limit = 10
	}
	active := true
	students, _, err := s.students.List(ctx, models.StudentFilter{Active: &active})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	sort.SliceStable(students, func(i, j int) bool {
		return students[i].GPA > students[j].GPA
	})
	if len(students) > limit {
		students = students[:limit]
	}
	return students, nil
}

// Summary assembles the registry dashboard snapshot.
func (s *ReportService) Summary(ctx context.Context) (*models.RegistrySummary, error) {
	active := true
	students, _, err := s.students.List(ctx, models.StudentFilter{Active: &active})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	courses, _, err := s.courses.List(ctx, models.CourseFilter{Active: &active})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}
	enrollments, err := s.enrollments.List(ctx, models.EnrollmentFilter{ActiveOnly: true})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrollments")
	}

	summary := &models.RegistrySummary{
		ActiveStudents:    len(students),
		ActiveCourses:     len(courses),
		ActiveEnrollments: len(enrollments),
	}
	for _, e := range enrollments {
		if e.IsGraded() {
			summary.GradedEnrollments++
		} else {
			summary.UngradedEnrollments++
		}
	}
	if len(students) > 0 {
		var sum float64
		for _, student := range students {
			sum += student.GPA
		}
		summary.AverageGPA = sum / float64(len(students))
	}
	return summary, nil
}

// cacheGet fetches and decodes a cached report. A miss or decode failure
// falls through to recomputation.
func cacheGet[T any](ctx context.Context, s *ReportService, key string) (*T, bool) {
	if s.cache == nil {
		return nil, false
	}
	raw, err := s.cache.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		s.logger.Warn("failed to decode cached report", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return &out, true
}

func (s *ReportService) cacheSet(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, raw, s.cacheTTL).Err(); err != nil {
		s.logger.Warn("failed to cache report", zap.String("key", key), zap.Error(err))
	}
}
