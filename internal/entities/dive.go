package entities

import (
	"time"

	"gorm.io/gorm"
)

// Dive is the canonical in-memory dive record. All physical quantities are
// stored metric (meters, kg, liters, bar, Celsius) regardless of the display
// preference; unit conversion happens only at format boundaries.
type Dive struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Title string `gorm:"index;size:512" json:"title"`

	Location  string   `gorm:"size:512" json:"location,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`

	// End >= Start is not enforced; EndTime == StartTime means the duration
	// is unknown.
	StartTime time.Time `gorm:"index" json:"start_time"`
	EndTime   time.Time `json:"end_time"`

	MaxDepthMeters     float64            `json:"max_depth_meters"`
	VisibilityMeters   *float64           `json:"visibility_meters,omitempty"`
	VisibilityCategory VisibilityCategory `gorm:"size:20" json:"visibility_category,omitempty"`
	Rating             int                `json:"rating"` // 0-5

	WeightKg  *float64  `json:"weight_kg,omitempty"`
	Weighting Weighting `gorm:"size:20" json:"weighting,omitempty"`

	TankSizeLiters   *float64     `json:"tank_size_liters,omitempty"`
	TankMaterial     TankMaterial `gorm:"size:20" json:"tank_material,omitempty"`
	GasMixture       GasMix       `gorm:"size:20" json:"gas_mixture,omitempty"`
	StartPressureBar *float64     `json:"start_pressure_bar,omitempty"`
	EndPressureBar   *float64     `json:"end_pressure_bar,omitempty"`

	DiveType  DiveType  `gorm:"size:20" json:"dive_type,omitempty"`
	SuitType  SuitType  `gorm:"size:20" json:"suit_type,omitempty"`
	WaterType WaterType `gorm:"size:20" json:"water_type,omitempty"`
	WaterBody WaterBody `gorm:"size:20" json:"water_body,omitempty"`
	Waves     Severity  `gorm:"size:20" json:"waves,omitempty"`
	Current   Severity  `gorm:"size:20" json:"current,omitempty"`
	Surge     Severity  `gorm:"size:20" json:"surge,omitempty"`

	AirTempC     *float64 `json:"air_temp_c,omitempty"`
	SurfaceTempC *float64 `json:"surface_temp_c,omitempty"`
	BottomTempC  *float64 `json:"bottom_temp_c,omitempty"`

	Notes string `gorm:"type:text" json:"notes,omitempty"`

	Photos []Photo `gorm:"foreignKey:DiveID" json:"photos,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Dive) TableName() string {
	return "dives"
}

// BottomTimeMinutes derives the bottom time from the start/end timestamps.
func (d *Dive) BottomTimeMinutes() int {
	if !d.EndTime.After(d.StartTime) {
		return 0
	}
	return int(d.EndTime.Sub(d.StartTime).Round(time.Minute) / time.Minute)
}

// PressureWarning reports a physically implausible pressure pair
// (end pressure above start pressure). The condition is surfaced to the
// caller, never silently corrected.
func (d *Dive) PressureWarning() bool {
	if d.StartPressureBar == nil || d.EndPressureBar == nil {
		return false
	}
	return *d.EndPressureBar > *d.StartPressureBar
}

// Photo is a binary attachment on a dive. The interchange engine only passes
// photos through; they never appear in CSV or UDDF output.
type Photo struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	DiveID    uint      `gorm:"index" json:"dive_id"`
	Filename  string    `gorm:"size:512" json:"filename,omitempty"`
	MimeType  string    `gorm:"size:100" json:"mime_type,omitempty"`
	Data      []byte    `gorm:"type:blob" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

func (Photo) TableName() string {
	return "photos"
}
