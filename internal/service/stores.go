package service

import (
	"context"
	"time"

	"github.com/akshayds23/Whizrobo/internal/model"
)

// Store contracts implemented by the postgres repositories.
// Getters return nil, nil for missing rows.

type LicenseStore interface {
	Create(ctx context.Context, license *model.License) error
	GetByID(ctx context.Context, id int64) (*model.License, error)
	GetMostRecentForRobot(ctx context.Context, robotID int64) (*model.License, error)
	GetMostRecentActiveForRobot(ctx context.Context, robotID int64) (*model.License, error)
	ListActive(ctx context.Context) ([]*model.License, error)
	Deactivate(ctx context.Context, id int64) (bool, error)
}

type NotificationStore interface {
	ExistsForLicense(ctx context.Context, licenseID int64, notificationType model.NotificationType) (bool, error)
	CreateOnce(ctx context.Context, n *model.LicenseNotification) (bool, error)
	ListByLicense(ctx context.Context, licenseID int64) ([]*model.LicenseNotification, error)
	Acknowledge(ctx context.Context, licenseID, id int64) (bool, error)
}

type OrganizationStore interface {
	GetByID(ctx context.Context, id int64) (*model.Organization, error)
	List(ctx context.Context) ([]*model.Organization, error)
}

type RobotStore interface {
	GetByID(ctx context.Context, id int64) (*model.Robot, error)
	List(ctx context.Context, orgID *int64) ([]*model.Robot, error)
	SetRefreshRequired(ctx context.Context, id int64, required bool) (bool, error)
	TouchLastSync(ctx context.Context, id int64, at time.Time) error
}

type CourseStore interface {
	GetByID(ctx context.Context, id int64) (*model.Course, error)
	GetTree(ctx context.Context, id int64) (*model.Course, error)
	ListPublicTrees(ctx context.Context) ([]*model.Course, error)
	FindLessonByName(ctx context.Context, query string) (*model.LessonMatch, error)
}

type CourseAccessStore interface {
	Get(ctx context.Context, orgID, courseID int64) (*model.OrganizationCourseAccess, error)
	ListByOrg(ctx context.Context, orgID int64) ([]*model.OrganizationCourseAccess, error)
	Upsert(ctx context.Context, access *model.OrganizationCourseAccess) (bool, error)
	Delete(ctx context.Context, orgID, courseID int64) (bool, error)
}

// CreateIfAbsent wraps model.ErrUnknownReference when the course or lesson does not exist
type UsageLogStore interface {
	Exists(ctx context.Context, robotID, courseID int64, lessonID *int64, openedAt time.Time) (bool, error)
	CreateIfAbsent(ctx context.Context, log *model.RobotUsageLog) (bool, error)
}
