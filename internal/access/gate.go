package access

import "dnaarchive/internal/model"

// Decision is the outcome of a permission check
type Decision bool

const (
	Allow Decision = true
	Deny  Decision = false
)

func (d Decision) String() string {
	if d == Allow {
		return "allow"
	}
	return "deny"
}

// Authorize allows iff the user's role is one of required. There is no role
// hierarchy: Admin does not implicitly hold other roles' permissions.
func Authorize(required []model.RoleName, user AuthenticatedUser) Decision {
	if user.Role == "" {
		return Deny
	}
	for _, role := range required {
		if role == user.Role {
			return Allow
		}
	}
	return Deny
}

// Route role sets
var (
	AdminOnly    = []model.RoleName{model.RoleAdmin}
	ReportStaff  = []model.RoleName{model.RoleAdmin, model.RoleScientificOfficer}
	CustodyStaff = []model.RoleName{model.RoleAdmin, model.RoleScientificOfficer, model.RoleArchiveInCharge}
)
