package service

import (
	"context"
	"fmt"

	"github.com/akshayds23/Whizrobo/internal/metrics"
	"github.com/akshayds23/Whizrobo/internal/model"
	"go.uber.org/zap"
)

// RobotSyncService decides whether a robot is locked and what content it receives
type RobotSyncService struct {
	licenseStatus *LicenseStatusService
	entitlements  *EntitlementService
	robotRepo     RobotStore
	clock         Clock
	metrics       *metrics.Metrics
	logger        *zap.Logger
}

func NewRobotSyncService(
	licenseStatus *LicenseStatusService,
	entitlements *EntitlementService,
	robotRepo RobotStore,
	clock Clock,
	m *metrics.Metrics,
	logger *zap.Logger,
) *RobotSyncService {
	return &RobotSyncService{
		licenseStatus: licenseStatus,
		entitlements:  entitlements,
		robotRepo:     robotRepo,
		clock:         clockOrDefault(clock),
		metrics:       m,
		logger:        logger,
	}
}

// Sync computes the robot's sync payload.
// Lock precedence: license first, then organization binding, then grant presence.
func (s *RobotSyncService) Sync(ctx context.Context, caller *model.Caller) (*model.SyncResponse, error) {
	if caller == nil || !caller.IsRobot() {
		return nil, accessDenied("robot token required")
	}

	resp, err := s.compute(ctx, caller)
	if err != nil {
		return nil, err
	}

	if err := s.robotRepo.TouchLastSync(ctx, caller.SubjectID, s.clock()); err != nil {
		return nil, fmt.Errorf("touch last sync: %w", err)
	}

	s.record(caller, resp)
	return resp, nil
}

// Refresh is Sync flagged as a forced reload. It also clears the robot's pending refresh request.
func (s *RobotSyncService) Refresh(ctx context.Context, caller *model.Caller) (*model.SyncResponse, error) {
	resp, err := s.Sync(ctx, caller)
	if err != nil {
		return nil, err
	}

	if _, err := s.robotRepo.SetRefreshRequired(ctx, caller.SubjectID, false); err != nil {
		return nil, fmt.Errorf("clear refresh required: %w", err)
	}

	resp.RefreshRequired = true
	return resp, nil
}

func (s *RobotSyncService) compute(ctx context.Context, caller *model.Caller) (*model.SyncResponse, error) {
	info, err := s.licenseStatus.ResolveStatusForRobot(ctx, caller.SubjectID)
	if err != nil {
		return nil, fmt.Errorf("resolve license status: %w", err)
	}

	// never licensed is treated exactly like revoked
	status := model.LicenseStatusRevoked
	if info != nil {
		status = info.Status
	}

	if status.Locks() {
		return lockedResponse(model.LockReason(status), status, info), nil
	}

	if caller.OrgID == nil {
		return lockedResponse(model.LockReasonAccessRemoved, status, info), nil
	}

	accessRows, err := s.entitlements.ListAccess(ctx, *caller.OrgID)
	if err != nil {
		return nil, err
	}

	if len(accessRows) == 0 {
		return lockedResponse(model.LockReasonAccessRemoved, status, info), nil
	}

	courses, err := s.entitlements.CatalogForAccess(ctx, accessRows)
	if err != nil {
		return nil, err
	}

	publicCourses, err := s.entitlements.ResolvePublicCatalog(ctx)
	if err != nil {
		return nil, err
	}

	resp := baseResponse(status, info)
	resp.Status = model.SyncStatusOK
	resp.Courses = courses
	resp.PublicCourses = publicCourses

	return resp, nil
}

func (s *RobotSyncService) record(caller *model.Caller, resp *model.SyncResponse) {
	reason := ""
	if resp.LockReason != nil {
		reason = string(*resp.LockReason)
	}

	s.metrics.RecordSync(string(resp.Status), reason)

	if resp.IsLocked() {
		s.logger.Info("Robot sync locked",
			zap.Int64("robot_id", caller.SubjectID),
			zap.String("lock_reason", reason),
			zap.String("license_status", string(resp.LicenseStatus)),
		)
		return
	}

	s.logger.Debug("Robot synced",
		zap.Int64("robot_id", caller.SubjectID),
		zap.Int("courses", len(resp.Courses)),
		zap.Int("public_courses", len(resp.PublicCourses)),
	)
}

// lockedResponse carries license details through but never any content
func lockedResponse(reason model.LockReason, status model.LicenseStatus, info *model.LicenseStatusResult) *model.SyncResponse {
	resp := baseResponse(status, info)
	resp.Status = model.SyncStatusLocked
	resp.LockReason = &reason
	return resp
}

func baseResponse(status model.LicenseStatus, info *model.LicenseStatusResult) *model.SyncResponse {
	resp := &model.SyncResponse{
		LicenseStatus: status,
		Notifications: []model.SyncNotification{},
		Courses:       []model.CatalogCourse{},
		PublicCourses: []model.CatalogCourse{},
	}

	if info == nil {
		return resp
	}

	resp.DaysRemaining = info.DaysRemaining
	for _, n := range info.Notifications {
		resp.Notifications = append(resp.Notifications, model.SyncNotification{
			Type:    n.Type,
			Message: n.Message,
		})
	}

	return resp
}
