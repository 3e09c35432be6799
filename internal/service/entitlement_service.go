package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/akshayds23/Whizrobo/internal/model"
	"go.uber.org/zap"
)

// EntitlementService resolves which content an organization may use and manages course grants
type EntitlementService struct {
	accessRepo CourseAccessStore
	courseRepo CourseStore
	orgRepo    OrganizationStore
	logger     *zap.Logger
}

func NewEntitlementService(
	accessRepo CourseAccessStore,
	courseRepo CourseStore,
	orgRepo OrganizationStore,
	logger *zap.Logger,
) *EntitlementService {
	return &EntitlementService{
		accessRepo: accessRepo,
		courseRepo: courseRepo,
		orgRepo:    orgRepo,
		logger:     logger,
	}
}

// ============ Catalogs ============

// ListAccess returns the organization's access rows
func (s *EntitlementService) ListAccess(ctx context.Context, orgID int64) ([]*model.OrganizationCourseAccess, error) {
	rows, err := s.accessRepo.ListByOrg(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("list course access: %w", err)
	}
	return rows, nil
}

// ResolveOrgCatalog builds the organization-entitled catalog. Zero grants yields an empty catalog.
func (s *EntitlementService) ResolveOrgCatalog(ctx context.Context, orgID int64) ([]model.CatalogCourse, error) {
	rows, err := s.ListAccess(ctx, orgID)
	if err != nil {
		return nil, err
	}

	return s.CatalogForAccess(ctx, rows)
}

// CatalogForAccess materializes the catalog for already loaded access rows.
// Only allowed levels are kept; inside them every lesson is delivered, public or not.
func (s *EntitlementService) CatalogForAccess(ctx context.Context, rows []*model.OrganizationCourseAccess) ([]model.CatalogCourse, error) {
	courses := make([]model.CatalogCourse, 0, len(rows))

	for _, access := range rows {
		course, err := s.courseRepo.GetTree(ctx, access.CourseID)
		if err != nil {
			return nil, fmt.Errorf("get course tree: %w", err)
		}

		if course == nil {
			s.logger.Warn("Course access references missing course",
				zap.Int64("org_id", access.OrgID),
				zap.Int64("course_id", access.CourseID),
			)
			continue
		}

		levels := make([]model.CatalogLevel, 0, len(course.Levels))
		for _, level := range course.Levels {
			if !access.AllowsLevel(level.SequenceNo) {
				continue
			}
			levels = append(levels, catalogLevel(level, level.Lessons))
		}

		courses = append(courses, catalogCourse(course, levels))
	}

	return courses, nil
}

// ResolvePublicCatalog builds the preview catalog: public courses, every level,
// only lessons that are public themselves.
func (s *EntitlementService) ResolvePublicCatalog(ctx context.Context) ([]model.CatalogCourse, error) {
	trees, err := s.courseRepo.ListPublicTrees(ctx)
	if err != nil {
		return nil, fmt.Errorf("list public courses: %w", err)
	}

	courses := make([]model.CatalogCourse, 0, len(trees))
	for _, course := range trees {
		if !course.IsPublic {
			continue
		}

		levels := make([]model.CatalogLevel, 0, len(course.Levels))
		for _, level := range course.Levels {
			lessons := make([]*model.Lesson, 0, len(level.Lessons))
			for _, lesson := range level.Lessons {
				if lesson.IsPublic {
					lessons = append(lessons, lesson)
				}
			}
			levels = append(levels, catalogLevel(level, lessons))
		}

		courses = append(courses, catalogCourse(course, levels))
	}

	return courses, nil
}

func catalogCourse(course *model.Course, levels []model.CatalogLevel) model.CatalogCourse {
	return model.CatalogCourse{
		ID:         course.ID,
		CourseCode: course.CourseCode,
		CourseName: course.CourseName,
		Levels:     levels,
	}
}

func catalogLevel(level *model.CourseLevel, lessons []*model.Lesson) model.CatalogLevel {
	out := model.CatalogLevel{
		ID:         level.ID,
		LevelName:  level.LevelName,
		SequenceNo: level.SequenceNo,
		Lessons:    make([]model.CatalogLesson, 0, len(lessons)),
	}

	for _, lesson := range lessons {
		out.Lessons = append(out.Lessons, model.CatalogLesson{
			ID:          lesson.ID,
			LessonName:  lesson.LessonName,
			ContentType: lesson.ContentType,
			ContentURL:  lesson.ContentURL,
			IsPublic:    lesson.IsPublic,
			UpdatedAt:   lesson.UpdatedAt,
		})
	}

	return out
}

// ============ Recommendations ============

const minRecommendQueryLen = 2

// Recommend finds a lesson by name and reports what the organization may open.
// Owning the course unlocks the lesson; without ownership a lesson that is public in a
// public course is still served in full, anything else is preview only.
func (s *EntitlementService) Recommend(ctx context.Context, query string, orgID *int64) (*model.Recommendation, error) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return nil, invalidInput("query is required")
	}
	if utf8.RuneCountInString(trimmed) < minRecommendQueryLen {
		return nil, invalidInput("query must be at least %d characters", minRecommendQueryLen)
	}
	if orgID != nil && *orgID <= 0 {
		return nil, invalidInput("org_id must be a positive integer")
	}

	match, err := s.courseRepo.FindLessonByName(ctx, trimmed)
	if err != nil {
		return nil, fmt.Errorf("find lesson: %w", err)
	}

	if match == nil {
		return &model.Recommendation{Matched: false}, nil
	}

	owned := false
	if orgID != nil {
		access, err := s.accessRepo.Get(ctx, *orgID, match.Course.ID)
		if err != nil {
			return nil, fmt.Errorf("get course access: %w", err)
		}
		owned = access != nil
	}

	fullAccess := owned || (match.Course.IsPublic && match.Lesson.IsPublic)

	rec := &model.Recommendation{
		Matched: true,
		Course: &model.RecommendedCourse{
			CourseID:   match.Course.ID,
			CourseName: match.Course.CourseName,
			Owned:      owned,
		},
		Lesson: &model.RecommendedLesson{
			LessonID:    match.Lesson.ID,
			LessonName:  match.Lesson.LessonName,
			PreviewOnly: !fullAccess,
		},
	}

	if fullAccess {
		url := match.Lesson.ContentURL
		rec.Lesson.ContentURL = &url
	}

	if !owned {
		rec.CTA = model.RecommendCTA
	}

	return rec, nil
}

// ============ Grants ============

// AssignCourse grants a course to an organization or replaces the allowed levels of an
// existing grant. Returns the stored grant and whether it was newly created.
func (s *EntitlementService) AssignCourse(ctx context.Context, orgID, courseID int64, allowedLevels []int) (*model.OrganizationCourseAccess, bool, error) {
	levels, err := normalizeLevels(allowedLevels)
	if err != nil {
		return nil, false, err
	}

	org, err := s.orgRepo.GetByID(ctx, orgID)
	if err != nil {
		return nil, false, fmt.Errorf("get organization: %w", err)
	}

	if org == nil {
		return nil, false, notFound(model.EntityOrganization, orgID)
	}

	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, false, fmt.Errorf("get course: %w", err)
	}

	if course == nil {
		return nil, false, notFound(model.EntityCourse, courseID)
	}

	access := &model.OrganizationCourseAccess{
		OrgID:         orgID,
		CourseID:      courseID,
		AllowedLevels: levels,
	}

	created, err := s.accessRepo.Upsert(ctx, access)
	if err != nil {
		return nil, false, fmt.Errorf("upsert course access: %w", err)
	}
	access.Course = course

	s.logger.Info("Course access assigned",
		zap.Int64("org_id", orgID),
		zap.Int64("course_id", courseID),
		zap.Ints("allowed_levels", levels),
		zap.Bool("created", created),
	)

	return access, created, nil
}

// RemoveCourse withdraws a course grant from an organization
func (s *EntitlementService) RemoveCourse(ctx context.Context, orgID, courseID int64) error {
	ok, err := s.accessRepo.Delete(ctx, orgID, courseID)
	if err != nil {
		return fmt.Errorf("delete course access: %w", err)
	}

	if !ok {
		return notFound(model.EntityCourseAccess, courseID)
	}

	s.logger.Info("Course access removed",
		zap.Int64("org_id", orgID),
		zap.Int64("course_id", courseID),
	)

	return nil
}

// normalizeLevels validates, dedups and sorts a level list
func normalizeLevels(levels []int) ([]int, error) {
	if len(levels) == 0 {
		return nil, invalidInput("allowed_levels must not be empty")
	}

	seen := make(map[int]struct{}, len(levels))
	out := make([]int, 0, len(levels))
	for _, lvl := range levels {
		if lvl < 1 {
			return nil, invalidInput("allowed_levels must contain positive sequence numbers, got %d", lvl)
		}
		if _, dup := seen[lvl]; dup {
			continue
		}
		seen[lvl] = struct{}{}
		out = append(out, lvl)
	}

	sort.Ints(out)
	return out, nil
}
