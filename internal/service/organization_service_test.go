package service

import (
	"context"
	"testing"

	"github.com/akshayds23/Whizrobo/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func orgIDs(orgs []*model.Organization) []int64 {
	ids := make([]int64, 0, len(orgs))
	for _, o := range orgs {
		ids = append(ids, o.ID)
	}
	return ids
}

func TestOrganizationService_ListVisibility(t *testing.T) {
	tests := []struct {
		name   string
		caller *model.Caller
		want   []int64
	}{
		{"superadmin sees all", &model.Caller{SubjectID: 1, TokenType: model.TokenTypeUser, IsSuperadmin: true}, []int64{1, 2, 3}},
		{"org user sees own", &model.Caller{SubjectID: 1, TokenType: model.TokenTypeUser, OrgID: int64Ptr(2)}, []int64{2}},
		{"org user without org", &model.Caller{SubjectID: 1, TokenType: model.TokenTypeUser}, []int64{}},
		{"org missing from store", &model.Caller{SubjectID: 1, TokenType: model.TokenTypeUser, OrgID: int64Ptr(9)}, []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewOrganizationService(newMockOrgStore(1, 2, 3), zap.NewNop())

			orgs, err := svc.ListOrganizations(context.Background(), tt.caller)
			require.NoError(t, err)
			assert.Equal(t, tt.want, orgIDs(orgs))
		})
	}
}

func TestOrganizationService_ListRejectsRobots(t *testing.T) {
	svc := NewOrganizationService(newMockOrgStore(1), zap.NewNop())

	_, err := svc.ListOrganizations(context.Background(), &model.Caller{SubjectID: 5, TokenType: model.TokenTypeRobot, OrgID: int64Ptr(1)})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestOrganizationService_Get(t *testing.T) {
	svc := NewOrganizationService(newMockOrgStore(1), zap.NewNop())

	org, err := svc.GetOrganization(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), org.ID)

	_, err = svc.GetOrganization(context.Background(), 2)
	assert.ErrorIs(t, err, ErrNotFound)
}
