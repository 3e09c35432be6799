package repository

import (
	"context"
	"fmt"

	"github.com/akshayds23/Whizrobo/internal/model"
	"github.com/akshayds23/Whizrobo/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CourseAccessRepository struct {
	*base.Repository
}

func NewCourseAccessRepository(pool *pgxpool.Pool) *CourseAccessRepository {
	return &CourseAccessRepository{Repository: base.NewRepository(pool)}
}

// Get returns the grant of one course to one organization, nil, nil when there is none
func (r *CourseAccessRepository) Get(ctx context.Context, orgID, courseID int64) (*model.OrganizationCourseAccess, error) {
	query := `
		SELECT org_id, course_id, allowed_levels, assigned_at
		FROM organization_course_access
		WHERE org_id = $1 AND course_id = $2
	`

	var access model.OrganizationCourseAccess
	err := r.QueryRow(ctx, query, orgID, courseID).Scan(
		&access.OrgID,
		&access.CourseID,
		&access.AllowedLevels,
		&access.AssignedAt,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get course access: %w", err)
	}

	return &access, nil
}

// ListByOrg returns the organization's grants with basic course info, newest first
func (r *CourseAccessRepository) ListByOrg(ctx context.Context, orgID int64) ([]*model.OrganizationCourseAccess, error) {
	query := `
		SELECT a.org_id, a.course_id, a.allowed_levels, a.assigned_at,
		       c.id, c.course_code, c.course_name, c.is_public, c.source
		FROM organization_course_access a
		JOIN courses c ON c.id = a.course_id
		WHERE a.org_id = $1
		ORDER BY a.assigned_at DESC, a.course_id ASC
	`

	rows, err := r.Query(ctx, query, orgID)
	if err != nil {
		return nil, fmt.Errorf("list course access: %w", err)
	}
	defer rows.Close()

	accessList := []*model.OrganizationCourseAccess{}
	for rows.Next() {
		var access model.OrganizationCourseAccess
		var course model.Course
		err := rows.Scan(
			&access.OrgID,
			&access.CourseID,
			&access.AllowedLevels,
			&access.AssignedAt,
			&course.ID,
			&course.CourseCode,
			&course.CourseName,
			&course.IsPublic,
			&course.Source,
		)
		if err != nil {
			return nil, fmt.Errorf("scan course access: %w", err)
		}
		access.Course = &course
		accessList = append(accessList, &access)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate course access: %w", err)
	}

	return accessList, nil
}

// Upsert creates the grant or replaces its allowed levels.
// Returns true when a new row was inserted.
func (r *CourseAccessRepository) Upsert(ctx context.Context, access *model.OrganizationCourseAccess) (bool, error) {
	query := `
		INSERT INTO organization_course_access (org_id, course_id, allowed_levels)
		VALUES ($1, $2, $3)
		ON CONFLICT (org_id, course_id) DO UPDATE
		SET allowed_levels = EXCLUDED.allowed_levels
		RETURNING assigned_at, (xmax = 0) AS inserted
	`

	var inserted bool
	err := r.QueryRow(ctx, query, access.OrgID, access.CourseID, access.AllowedLevels).
		Scan(&access.AssignedAt, &inserted)
	if err != nil {
		return false, fmt.Errorf("upsert course access: %w", err)
	}

	return inserted, nil
}

// Delete removes a grant; reports false when there was none
func (r *CourseAccessRepository) Delete(ctx context.Context, orgID, courseID int64) (bool, error) {
	query := `
		DELETE FROM organization_course_access
		WHERE org_id = $1 AND course_id = $2
	`

	affected, err := r.ExecAffected(ctx, query, orgID, courseID)
	if err != nil {
		return false, fmt.Errorf("delete course access: %w", err)
	}

	return affected > 0, nil
}
