package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	StorageTypeReport = "report"
	StorageTypeSample = "sample"
)

// StorageLocation is a physical slot (cabinet/rack/shelf or freezer) holding evidence
type StorageLocation struct {
	ID                  uint                `gorm:"column:location_id;primaryKey" json:"location_id"`
	Type                string              `gorm:"type:varchar(20);not null;index" json:"type"` // report, sample
	Cabinet             *string             `gorm:"type:varchar(50)" json:"cabinet"`
	Rack                *string             `gorm:"type:varchar(50)" json:"rack"`
	Shelf               *string             `gorm:"type:varchar(50)" json:"shelf"`
	FreezerUnit         *string             `gorm:"column:freezer_unit;type:varchar(50)" json:"freezer_unit"`
	TemperatureZone     *string             `gorm:"column:temperature_zone;type:varchar(20)" json:"temperature_zone"`
	TemperatureSetpoint decimal.NullDecimal `gorm:"column:temperature_setpoint;type:decimal(6,2)" json:"temperature_setpoint"` // degrees Celsius
	Capacity            *int                `gorm:"column:capacity" json:"capacity"`
	CreatedAt           time.Time           `gorm:"autoCreateTime" json:"created_at"`
}

// Label renders the location as "<type> <cabinet> <rack> <shelf>"
func (l StorageLocation) Label() string {
	parts := []string{l.Type}
	for _, p := range []*string{l.Cabinet, l.FreezerUnit, l.Rack, l.Shelf} {
		if p != nil && *p != "" {
			parts = append(parts, *p)
		}
	}
	return strings.Join(parts, " ")
}
