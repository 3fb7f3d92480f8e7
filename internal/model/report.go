package model

import "time"

// Report is an archived forensic report
type Report struct {
	ID                  uint             `gorm:"column:report_id;primaryKey" json:"report_id"`
	CaseID              uint             `gorm:"column:case_id;not null;index" json:"case_id"`
	Case                *Case            `gorm:"foreignKey:CaseID;references:ID" json:"case,omitempty"`
	ReportReceivedDate  time.Time        `gorm:"column:report_received_date;not null" json:"report_received_date"`
	SampleType          string           `gorm:"column:sample_type;type:varchar(100)" json:"sample_type"`
	LabRegisterNumber   string           `gorm:"column:lab_register_number;type:varchar(100);not null" json:"lab_register_number"`
	ScientificOfficerID *uint            `gorm:"column:scientific_officer_id;index" json:"scientific_officer_id"`
	Officer             *User            `gorm:"foreignKey:ScientificOfficerID;references:ID" json:"officer,omitempty"`
	StorageLocationID   *uint            `gorm:"column:storage_location_id;index" json:"storage_location_id"`
	Location            *StorageLocation `gorm:"foreignKey:StorageLocationID;references:ID" json:"location,omitempty"`
	Barcode             string           `gorm:"type:varchar(100);uniqueIndex;not null" json:"barcode"`
	ArchiveEntryDate    time.Time        `gorm:"column:archive_entry_date;not null" json:"archive_entry_date"`
	Movements           []ReportMovement `gorm:"foreignKey:ReportID" json:"movements,omitempty"`
	CreatedAt           time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
}
