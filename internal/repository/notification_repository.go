package repository

import (
	"context"
	"fmt"

	"github.com/akshayds23/Whizrobo/internal/model"
	"github.com/akshayds23/Whizrobo/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

type NotificationRepository struct {
	*base.Repository
}

func NewNotificationRepository(pool *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{Repository: base.NewRepository(pool)}
}

// ExistsForLicense checks whether a notification of the given type was already recorded
func (r *NotificationRepository) ExistsForLicense(ctx context.Context, licenseID int64, notificationType model.NotificationType) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM license_notifications
			WHERE license_id = $1 AND type = $2
		)
	`

	exists, err := r.Exists(ctx, query, licenseID, notificationType)
	if err != nil {
		return false, fmt.Errorf("check notification: %w", err)
	}

	return exists, nil
}

// CreateOnce inserts the notification unless (license_id, type) is taken.
// Returns false without error when another writer got there first.
func (r *NotificationRepository) CreateOnce(ctx context.Context, n *model.LicenseNotification) (bool, error) {
	query := `
		INSERT INTO license_notifications (license_id, org_id, robot_id, type, message)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (license_id, type) DO NOTHING
		RETURNING id, created_at
	`

	err := r.QueryRow(
		ctx, query,
		n.LicenseID,
		n.OrgID,
		n.RobotID,
		n.Type,
		n.Message,
	).Scan(&n.ID, &n.CreatedAt)

	if err != nil {
		if base.IsNotFound(err) || base.IsUniqueViolation(err) {
			return false, nil
		}
		return false, fmt.Errorf("create notification: %w", err)
	}

	return true, nil
}

// ListByLicense returns the notification history, newest first
func (r *NotificationRepository) ListByLicense(ctx context.Context, licenseID int64) ([]*model.LicenseNotification, error) {
	query := `
		SELECT id, license_id, org_id, robot_id, type, message, created_at, acknowledged
		FROM license_notifications
		WHERE license_id = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.Query(ctx, query, licenseID)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	notifications := []*model.LicenseNotification{}
	for rows.Next() {
		var n model.LicenseNotification
		err := rows.Scan(
			&n.ID,
			&n.LicenseID,
			&n.OrgID,
			&n.RobotID,
			&n.Type,
			&n.Message,
			&n.CreatedAt,
			&n.Acknowledged,
		)
		if err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		notifications = append(notifications, &n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notifications: %w", err)
	}

	return notifications, nil
}

// Acknowledge sets the acknowledged flag; reports false when the license has no such notification
func (r *NotificationRepository) Acknowledge(ctx context.Context, licenseID, id int64) (bool, error) {
	query := `UPDATE license_notifications SET acknowledged = TRUE WHERE id = $1 AND license_id = $2`

	affected, err := r.ExecAffected(ctx, query, id, licenseID)
	if err != nil {
		return false, fmt.Errorf("acknowledge notification: %w", err)
	}

	return affected > 0, nil
}
