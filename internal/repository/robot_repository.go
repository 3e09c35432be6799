package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/akshayds23/Whizrobo/internal/model"
	"github.com/akshayds23/Whizrobo/internal/repository/base"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RobotRepository struct {
	*base.Repository
}

func NewRobotRepository(pool *pgxpool.Pool) *RobotRepository {
	return &RobotRepository{Repository: base.NewRepository(pool)}
}

const robotColumns = `id, org_id, robot_code, is_active, refresh_required, last_sync_at, created_at`

func scanRobot(row pgx.Row) (*model.Robot, error) {
	var robot model.Robot
	err := row.Scan(
		&robot.ID,
		&robot.OrgID,
		&robot.RobotCode,
		&robot.IsActive,
		&robot.RefreshRequired,
		&robot.LastSyncAt,
		&robot.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &robot, nil
}

// GetByID returns nil, nil when the robot does not exist
func (r *RobotRepository) GetByID(ctx context.Context, id int64) (*model.Robot, error) {
	query := `SELECT ` + robotColumns + ` FROM robots WHERE id = $1`

	robot, err := scanRobot(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get robot: %w", err)
	}

	return robot, nil
}

// List returns every robot, or only the robots of orgID when it is not nil
func (r *RobotRepository) List(ctx context.Context, orgID *int64) ([]*model.Robot, error) {
	query := `
		SELECT ` + robotColumns + `
		FROM robots
		WHERE ($1::BIGINT IS NULL OR org_id = $1)
		ORDER BY id ASC
	`

	rows, err := r.Query(ctx, query, orgID)
	if err != nil {
		return nil, fmt.Errorf("list robots: %w", err)
	}
	defer rows.Close()

	var robots []*model.Robot
	for rows.Next() {
		robot, err := scanRobot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan robot: %w", err)
		}
		robots = append(robots, robot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate robots: %w", err)
	}

	return robots, nil
}

// SetRefreshRequired updates the advisory refresh flag, reports false when the robot is missing
func (r *RobotRepository) SetRefreshRequired(ctx context.Context, id int64, required bool) (bool, error) {
	query := `UPDATE robots SET refresh_required = $1 WHERE id = $2`

	affected, err := r.ExecAffected(ctx, query, required, id)
	if err != nil {
		return false, fmt.Errorf("set refresh required: %w", err)
	}

	return affected > 0, nil
}

// TouchLastSync stamps the time of the latest sync
func (r *RobotRepository) TouchLastSync(ctx context.Context, id int64, at time.Time) error {
	query := `UPDATE robots SET last_sync_at = $1 WHERE id = $2`

	if _, err := r.ExecAffected(ctx, query, at, id); err != nil {
		return fmt.Errorf("touch last sync: %w", err)
	}

	return nil
}
