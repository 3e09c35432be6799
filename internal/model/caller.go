package model

type TokenType string

const (
	TokenTypeUser  TokenType = "USER"
	TokenTypeRobot TokenType = "ROBOT"
)

// Caller is the authenticated identity handed over by the auth layer.
// For robots SubjectID is the robot id.
type Caller struct {
	SubjectID    int64     `json:"sub"`
	OrgID        *int64    `json:"org_id"`
	TokenType    TokenType `json:"token_type"`
	IsSuperadmin bool      `json:"is_superadmin"`
	Permissions  []string  `json:"permissions"`
}

// Permission keys checked by the admin endpoints
const (
	PermissionIssueLicense      = "ISSUE_LICENSE"
	PermissionRevokeLicense     = "REVOKE_LICENSE"
	PermissionViewLicenseStatus = "VIEW_LICENSE_STATUS"
	PermissionAssignCourse      = "ASSIGN_COURSE"
	PermissionManageRobots      = "MANAGE_ROBOTS"
	PermissionViewOrg           = "VIEW_ORG"
)

func (c *Caller) IsRobot() bool {
	return c.TokenType == TokenTypeRobot
}

// HasPermission checks a permission key; superadmins hold every permission
func (c *Caller) HasPermission(key string) bool {
	if c.IsSuperadmin {
		return true
	}
	for _, p := range c.Permissions {
		if p == key {
			return true
		}
	}
	return false
}

// CanManageOrg checks whether a user may administer the given organization
func (c *Caller) CanManageOrg(orgID int64) bool {
	if c.IsSuperadmin {
		return true
	}
	return c.OrgID != nil && *c.OrgID == orgID
}
