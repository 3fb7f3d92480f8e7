package model

// RoleName is the permission class a user belongs to.
type RoleName string

const (
	RoleAdmin             RoleName = "Admin"
	RoleScientificOfficer RoleName = "Scientific Officer"
	RoleArchiveInCharge   RoleName = "Archive In-Charge"
)

// Valid reports whether r is one of the three archive roles
func (r RoleName) Valid() bool {
	switch r {
	case RoleAdmin, RoleScientificOfficer, RoleArchiveInCharge:
		return true
	}
	return false
}

// Role is static reference data; every user points at exactly one.
type Role struct {
	ID       uint     `gorm:"column:role_id;primaryKey" json:"role_id"`
	RoleName RoleName `gorm:"column:role_name;type:varchar(50);uniqueIndex;not null" json:"role_name"`
}

func (Role) TableName() string {
	return "roles"
}
