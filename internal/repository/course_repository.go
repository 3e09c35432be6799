package repository

import (
	"context"
	"fmt"

	"github.com/akshayds23/Whizrobo/internal/model"
	"github.com/akshayds23/Whizrobo/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CourseRepository reads the course / level / lesson tree
type CourseRepository struct {
	*base.Repository
}

func NewCourseRepository(pool *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{Repository: base.NewRepository(pool)}
}

// GetByID returns the course without its levels, nil, nil when missing
func (r *CourseRepository) GetByID(ctx context.Context, id int64) (*model.Course, error) {
	query := `
		SELECT id, course_code, course_name, is_public, source
		FROM courses
		WHERE id = $1
	`

	var course model.Course
	err := r.QueryRow(ctx, query, id).Scan(
		&course.ID,
		&course.CourseCode,
		&course.CourseName,
		&course.IsPublic,
		&course.Source,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get course: %w", err)
	}

	return &course, nil
}

// GetTree loads a course with all levels and lessons, nil, nil when missing
func (r *CourseRepository) GetTree(ctx context.Context, id int64) (*model.Course, error) {
	course, err := r.GetByID(ctx, id)
	if err != nil || course == nil {
		return course, err
	}

	if err := r.attachLevels(ctx, []*model.Course{course}); err != nil {
		return nil, err
	}

	return course, nil
}

// ListPublicTrees loads every public course with all levels and lessons
func (r *CourseRepository) ListPublicTrees(ctx context.Context) ([]*model.Course, error) {
	query := `
		SELECT id, course_code, course_name, is_public, source
		FROM courses
		WHERE is_public = TRUE
		ORDER BY id ASC
	`

	rows, err := r.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list public courses: %w", err)
	}
	defer rows.Close()

	var courses []*model.Course
	for rows.Next() {
		var course model.Course
		err := rows.Scan(
			&course.ID,
			&course.CourseCode,
			&course.CourseName,
			&course.IsPublic,
			&course.Source,
		)
		if err != nil {
			return nil, fmt.Errorf("scan course: %w", err)
		}
		courses = append(courses, &course)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate courses: %w", err)
	}

	if err := r.attachLevels(ctx, courses); err != nil {
		return nil, err
	}

	return courses, nil
}

// attachLevels fills Levels and their Lessons with two queries for the whole set
func (r *CourseRepository) attachLevels(ctx context.Context, courses []*model.Course) error {
	if len(courses) == 0 {
		return nil
	}

	courseByID := make(map[int64]*model.Course, len(courses))
	courseIDs := make([]int64, 0, len(courses))
	for _, c := range courses {
		c.Levels = []*model.CourseLevel{}
		courseByID[c.ID] = c
		courseIDs = append(courseIDs, c.ID)
	}

	levelQuery := `
		SELECT id, course_id, sequence_no, level_name
		FROM course_levels
		WHERE course_id = ANY($1)
		ORDER BY course_id ASC, sequence_no ASC
	`

	rows, err := r.Query(ctx, levelQuery, courseIDs)
	if err != nil {
		return fmt.Errorf("get course levels: %w", err)
	}

	levelByID := make(map[int64]*model.CourseLevel)
	var levelIDs []int64
	for rows.Next() {
		var level model.CourseLevel
		if err := rows.Scan(&level.ID, &level.CourseID, &level.SequenceNo, &level.LevelName); err != nil {
			rows.Close()
			return fmt.Errorf("scan course level: %w", err)
		}
		level.Lessons = []*model.Lesson{}
		levelByID[level.ID] = &level
		levelIDs = append(levelIDs, level.ID)
		courseByID[level.CourseID].Levels = append(courseByID[level.CourseID].Levels, &level)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate course levels: %w", err)
	}

	if len(levelIDs) == 0 {
		return nil
	}

	lessonQuery := `
		SELECT id, course_level_id, lesson_name, content_type, content_url, is_public, updated_at
		FROM lessons
		WHERE course_level_id = ANY($1)
		ORDER BY id ASC
	`

	rows, err = r.Query(ctx, lessonQuery, levelIDs)
	if err != nil {
		return fmt.Errorf("get lessons: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var lesson model.Lesson
		err := rows.Scan(
			&lesson.ID,
			&lesson.CourseLevelID,
			&lesson.LessonName,
			&lesson.ContentType,
			&lesson.ContentURL,
			&lesson.IsPublic,
			&lesson.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("scan lesson: %w", err)
		}
		level := levelByID[lesson.CourseLevelID]
		level.Lessons = append(level.Lessons, &lesson)
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate lessons: %w", err)
	}

	return nil
}

// FindLessonByName returns the most recently updated lesson whose name contains query,
// with its course. Matching is case-sensitive. nil, nil when nothing matches.
func (r *CourseRepository) FindLessonByName(ctx context.Context, query string) (*model.LessonMatch, error) {
	sql := `
		SELECT l.id, l.course_level_id, l.lesson_name, l.content_type, l.content_url, l.is_public, l.updated_at,
		       c.id, c.course_code, c.course_name, c.is_public, c.source
		FROM lessons l
		JOIN course_levels cl ON cl.id = l.course_level_id
		JOIN courses c ON c.id = cl.course_id
		WHERE strpos(l.lesson_name, $1) > 0
		ORDER BY l.updated_at DESC, l.id DESC
		LIMIT 1
	`

	var lesson model.Lesson
	var course model.Course
	err := r.QueryRow(ctx, sql, query).Scan(
		&lesson.ID,
		&lesson.CourseLevelID,
		&lesson.LessonName,
		&lesson.ContentType,
		&lesson.ContentURL,
		&lesson.IsPublic,
		&lesson.UpdatedAt,
		&course.ID,
		&course.CourseCode,
		&course.CourseName,
		&course.IsPublic,
		&course.Source,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find lesson by name: %w", err)
	}

	return &model.LessonMatch{Lesson: &lesson, Course: &course}, nil
}
