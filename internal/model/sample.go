package model

import "time"

// DNASample is a physical biological sample held in the archive
type DNASample struct {
	ID                  uint             `gorm:"column:sample_id;primaryKey" json:"sample_id"`
	CaseID              uint             `gorm:"column:case_id;not null;index" json:"case_id"`
	Case                *Case            `gorm:"foreignKey:CaseID;references:ID" json:"case,omitempty"`
	SampleType          string           `gorm:"column:sample_type;type:varchar(100);not null" json:"sample_type"`
	SampleSource        string           `gorm:"column:sample_source;type:varchar(100)" json:"sample_source"`
	CollectionDate      time.Time        `gorm:"column:collection_date;not null" json:"collection_date"`
	ReceivedDate        time.Time        `gorm:"column:received_date;not null;index" json:"received_date"`
	LabRegisterNumber   string           `gorm:"column:lab_register_number;type:varchar(100);not null" json:"lab_register_number"`
	ScientificOfficerID *uint            `gorm:"column:scientific_officer_id;index" json:"scientific_officer_id"`
	Officer             *User            `gorm:"foreignKey:ScientificOfficerID;references:ID" json:"officer,omitempty"`
	StorageLocationID   *uint            `gorm:"column:storage_location_id;index" json:"storage_location_id"`
	Location            *StorageLocation `gorm:"foreignKey:StorageLocationID;references:ID" json:"location,omitempty"`
	Barcode             string           `gorm:"type:varchar(100);uniqueIndex;not null" json:"barcode"`
	PackagingInfo       string           `gorm:"column:packaging_info;type:text" json:"packaging_info"`
	ExpiryDate          *time.Time       `gorm:"column:expiry_date;index" json:"expiry_date"`
	Movements           []SampleMovement `gorm:"foreignKey:SampleID" json:"movements,omitempty"`
	CreatedAt           time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
}

func (DNASample) TableName() string {
	return "dna_samples"
}

// IsExpired reports whether the sample passed its expiry date at the given instant
func (s DNASample) IsExpired(now time.Time) bool {
	return s.ExpiryDate != nil && s.ExpiryDate.Before(now)
}
