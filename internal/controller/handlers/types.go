package handlers

import (
	"context"
	"encoding/json"

	"github.com/akshayds23/Whizrobo/internal/model"
	"github.com/akshayds23/Whizrobo/internal/service"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Service contracts consumed by the handlers, implemented by internal/service

type RobotSyncer interface {
	Sync(ctx context.Context, caller *model.Caller) (*model.SyncResponse, error)
	Refresh(ctx context.Context, caller *model.Caller) (*model.SyncResponse, error)
}

type UsageIngester interface {
	IngestLogs(ctx context.Context, caller *model.Caller, payload json.RawMessage) (*model.UsageIngestResult, error)
}

type LicenseStatusResolver interface {
	ResolveStatusForLicense(ctx context.Context, license *model.License) (*model.LicenseStatusResult, error)
	ResolveStatusForRobot(ctx context.Context, robotID int64) (*model.LicenseStatusResult, error)
}

type LicenseManager interface {
	IssueLicense(ctx context.Context, input service.IssueLicenseInput) (*model.License, error)
	GetLicense(ctx context.Context, id int64) (*model.License, error)
	RevokeLicense(ctx context.Context, id int64) (*model.License, error)
	ListNotifications(ctx context.Context, licenseID int64) ([]*model.LicenseNotification, error)
	AcknowledgeNotification(ctx context.Context, licenseID, notificationID int64) error
}

type RobotManager interface {
	ListRobots(ctx context.Context, caller *model.Caller) ([]*model.RobotOverview, error)
	GetRobot(ctx context.Context, robotID int64) (*model.Robot, error)
	RequestRefresh(ctx context.Context, robotID int64) error
	LockRobot(ctx context.Context, robotID int64) (*int64, error)
}

type CourseAccessManager interface {
	ListAccess(ctx context.Context, orgID int64) ([]*model.OrganizationCourseAccess, error)
	AssignCourse(ctx context.Context, orgID, courseID int64, allowedLevels []int) (*model.OrganizationCourseAccess, bool, error)
	RemoveCourse(ctx context.Context, orgID, courseID int64) error
}

type Recommender interface {
	Recommend(ctx context.Context, query string, orgID *int64) (*model.Recommendation, error)
}

type OrganizationManager interface {
	ListOrganizations(ctx context.Context, caller *model.Caller) ([]*model.Organization, error)
	GetOrganization(ctx context.Context, id int64) (*model.Organization, error)
}

// Pinger reports database reachability
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handlers holds every dependency of the HTTP handlers
type Handlers struct {
	sync          RobotSyncer
	usage         UsageIngester
	licenseStatus LicenseStatusResolver
	licenses      LicenseManager
	robots        RobotManager
	courseAccess  CourseAccessManager
	recommender   Recommender
	orgs          OrganizationManager
	db            Pinger
	validate      *validator.Validate
	logger        *zap.Logger
}

func NewHandlers(
	sync RobotSyncer,
	usage UsageIngester,
	licenseStatus LicenseStatusResolver,
	licenses LicenseManager,
	robots RobotManager,
	courseAccess CourseAccessManager,
	recommender Recommender,
	orgs OrganizationManager,
	db Pinger,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		sync:          sync,
		usage:         usage,
		licenseStatus: licenseStatus,
		licenses:      licenses,
		robots:        robots,
		courseAccess:  courseAccess,
		recommender:   recommender,
		orgs:          orgs,
		db:            db,
		validate:      newValidator(),
		logger:        logger,
	}
}
