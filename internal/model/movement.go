package model

import "time"

// Movement action types in the chain of custody
const (
	MovementIn       = "IN"
	MovementOut      = "OUT"
	MovementCheckOut = "CHECK_OUT"
	MovementReturn   = "RETURN"
	MovementDisposal = "DISPOSAL"
)

// IsCheckout reports whether the action takes an item out of the archive
func IsCheckout(actionType string) bool {
	return actionType == MovementOut || actionType == MovementCheckOut
}

// Custody holds the fields shared by sample and report movements
type Custody struct {
	ActionType         string     `gorm:"column:action_type;type:varchar(20);not null;index" json:"action_type"`
	PerformedBy        uint       `gorm:"column:performed_by;not null;index" json:"performed_by"`
	Date               time.Time  `gorm:"column:date;not null;index" json:"date"`
	Reason             string     `gorm:"type:text" json:"reason"`
	ExpectedReturnDate *time.Time `gorm:"column:expected_return_date" json:"expected_return_date"`
	ReturnedDate       *time.Time `gorm:"column:returned_date" json:"returned_date"`
}

// IsOverdue: checked out, not yet returned, and past the expected return date
func (c Custody) IsOverdue(now time.Time) bool {
	return IsCheckout(c.ActionType) &&
		c.ReturnedDate == nil &&
		c.ExpectedReturnDate != nil &&
		c.ExpectedReturnDate.Before(now)
}

// SampleMovement is one custody event of a DNA sample
type SampleMovement struct {
	ID                uint       `gorm:"column:movement_id;primaryKey" json:"movement_id"`
	SampleID          uint       `gorm:"column:sample_id;not null;index" json:"sample_id"`
	Sample            *DNASample `gorm:"foreignKey:SampleID;references:ID" json:"sample,omitempty"`
	User              *User      `gorm:"foreignKey:PerformedBy;references:ID" json:"user,omitempty"`
	DisposalMethod    *string    `gorm:"column:disposal_method;type:varchar(100)" json:"disposal_method"`
	DisposalAuthority *string    `gorm:"column:disposal_authority;type:varchar(255)" json:"disposal_authority"`
	Custody
}

// ReportMovement is one custody event of a report
type ReportMovement struct {
	ID       uint    `gorm:"column:movement_id;primaryKey" json:"movement_id"`
	ReportID uint    `gorm:"column:report_id;not null;index" json:"report_id"`
	Report   *Report `gorm:"foreignKey:ReportID;references:ID" json:"report,omitempty"`
	User     *User   `gorm:"foreignKey:PerformedBy;references:ID" json:"user,omitempty"`
	Custody
}
