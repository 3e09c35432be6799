package service

import (
	"context"
	"fmt"

	"github.com/akshayds23/Whizrobo/internal/model"
	"go.uber.org/zap"
)

// OrganizationService exposes organizations to administrators
type OrganizationService struct {
	orgRepo OrganizationStore
	logger  *zap.Logger
}

func NewOrganizationService(orgRepo OrganizationStore, logger *zap.Logger) *OrganizationService {
	return &OrganizationService{
		orgRepo: orgRepo,
		logger:  logger,
	}
}

// ListOrganizations returns the organizations visible to the caller.
// Superadmins see all of them, org users only their own.
func (s *OrganizationService) ListOrganizations(ctx context.Context, caller *model.Caller) ([]*model.Organization, error) {
	if caller == nil || caller.IsRobot() {
		return nil, accessDenied("user token required")
	}

	if caller.IsSuperadmin {
		orgs, err := s.orgRepo.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("list organizations: %w", err)
		}
		return orgs, nil
	}

	if caller.OrgID == nil {
		return []*model.Organization{}, nil
	}

	org, err := s.orgRepo.GetByID(ctx, *caller.OrgID)
	if err != nil {
		return nil, fmt.Errorf("get organization: %w", err)
	}

	if org == nil {
		s.logger.Warn("Caller organization does not exist", zap.Int64("org_id", *caller.OrgID))
		return []*model.Organization{}, nil
	}

	return []*model.Organization{org}, nil
}

// GetOrganization loads an organization, NotFound when missing
func (s *OrganizationService) GetOrganization(ctx context.Context, id int64) (*model.Organization, error) {
	org, err := s.orgRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get organization: %w", err)
	}

	if org == nil {
		return nil, notFound(model.EntityOrganization, id)
	}

	return org, nil
}
