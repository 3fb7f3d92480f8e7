package model

import "time"

// PoliceStation is the originating station of a case
type PoliceStation struct {
	ID            uint      `gorm:"column:station_id;primaryKey" json:"station_id"`
	Name          string    `gorm:"type:varchar(255);not null" json:"name"`
	Address       string    `gorm:"type:text" json:"address"`
	ContactNumber string    `gorm:"column:contact_number;type:varchar(50)" json:"contact_number"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// Case groups the samples and reports of one police investigation
type Case struct {
	ID               uint           `gorm:"column:case_id;primaryKey" json:"case_id"`
	PoliceCaseNumber string         `gorm:"column:police_case_number;type:varchar(100);uniqueIndex;not null" json:"police_case_number"`
	CaseDate         time.Time      `gorm:"column:case_date;not null" json:"case_date"`
	StationID        uint           `gorm:"column:station_id;not null;index" json:"station_id"`
	Station          *PoliceStation `gorm:"foreignKey:StationID;references:ID" json:"station,omitempty"`
	CaseType         string         `gorm:"column:case_type;type:varchar(100);not null;index" json:"case_type"`
	Samples          []DNASample    `gorm:"foreignKey:CaseID" json:"samples,omitempty"`
	Reports          []Report       `gorm:"foreignKey:CaseID" json:"reports,omitempty"`
	CreatedAt        time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}
