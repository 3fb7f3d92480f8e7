package access

import (
	"testing"

	"dnaarchive/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestAuthorize(t *testing.T) {
	admin := AuthenticatedUser{ID: 1, Role: model.RoleAdmin}
	officer := AuthenticatedUser{ID: 2, Role: model.RoleScientificOfficer}
	archivist := AuthenticatedUser{ID: 3, Role: model.RoleArchiveInCharge}
	noRole := AuthenticatedUser{ID: 4}
	unknown := AuthenticatedUser{ID: 5, Role: "Auditor"}

	tests := []struct {
		name     string
		required []model.RoleName
		user     AuthenticatedUser
		want     Decision
	}{
		{"admin on admin route", AdminOnly, admin, Allow},
		{"officer on admin route", AdminOnly, officer, Deny},
		{"officer on report route", ReportStaff, officer, Allow},
		{"archivist on report route", ReportStaff, archivist, Deny},
		{"archivist on custody route", CustodyStaff, archivist, Allow},
		{"no role is always denied", CustodyStaff, noRole, Deny},
		{"unknown role", CustodyStaff, unknown, Deny},
		{"empty required set", nil, admin, Deny},
		{"role names are exact", []model.RoleName{"admin"}, admin, Deny},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Authorize(tt.required, tt.user))
		})
	}
}

func TestAuthorizeMembershipProperty(t *testing.T) {
	all := []model.RoleName{model.RoleAdmin, model.RoleScientificOfficer, model.RoleArchiveInCharge, "", "Auditor"}
	sets := [][]model.RoleName{nil, AdminOnly, ReportStaff, CustodyStaff, {"Auditor"}}

	for _, set := range sets {
		for _, role := range all {
			member := false
			for _, r := range set {
				member = member || (r == role && role != "")
			}
			got := Authorize(set, AuthenticatedUser{Role: role})
			assert.Equal(t, Decision(member), got, "set=%v role=%q", set, role)
		}
	}
}

func TestDecisionString(t *testing.T) {
	assert.Equal(t, "allow", Allow.String())
	assert.Equal(t, "deny", Deny.String())
}
