package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/akshayds23/Whizrobo/internal/model"
	"github.com/akshayds23/Whizrobo/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UsageLogRepository struct {
	*base.Repository
}

func NewUsageLogRepository(pool *pgxpool.Pool) *UsageLogRepository {
	return &UsageLogRepository{Repository: base.NewRepository(pool)}
}

// Exists checks for a log with the same (robot, course, lesson, opened_at) key.
// A nil lessonID matches only rows without a lesson.
func (r *UsageLogRepository) Exists(ctx context.Context, robotID, courseID int64, lessonID *int64, openedAt time.Time) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM robot_usage_logs
			WHERE robot_id = $1
			  AND course_id = $2
			  AND lesson_id IS NOT DISTINCT FROM $3
			  AND opened_at = $4
		)
	`

	exists, err := r.Repository.Exists(ctx, query, robotID, courseID, lessonID, openedAt)
	if err != nil {
		return false, fmt.Errorf("check usage log: %w", err)
	}

	return exists, nil
}

// CreateIfAbsent inserts the log; returns false when the key is already stored
// and model.ErrUnknownReference when the course or lesson is missing
func (r *UsageLogRepository) CreateIfAbsent(ctx context.Context, log *model.RobotUsageLog) (bool, error) {
	query := `
		INSERT INTO robot_usage_logs (robot_id, course_id, lesson_id, opened_at, duration_seconds)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT DO NOTHING
		RETURNING id
	`

	err := r.QueryRow(
		ctx, query,
		log.RobotID,
		log.CourseID,
		log.LessonID,
		log.OpenedAt,
		log.DurationSeconds,
	).Scan(&log.ID)

	if err != nil {
		if base.IsNotFound(err) {
			return false, nil
		}
		if base.IsForeignKeyViolation(err) {
			return false, fmt.Errorf("create usage log: %w", model.ErrUnknownReference)
		}
		return false, fmt.Errorf("create usage log: %w", err)
	}

	return true, nil
}
