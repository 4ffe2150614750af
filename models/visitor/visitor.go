package visitor

import (
	"time"
)

// Visitor represents a visitor pass request and its approval state.
type Visitor struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	// UID is the opaque identifier embedded in approval/rejection links.
	UID        string `gorm:"type:varchar(36);not null;unique" json:"uid"`
	PassNumber string `gorm:"type:varchar(20);not null;unique" json:"pass_number"`

	Name  string `gorm:"type:varchar(255);not null" json:"name"`
	Email string `gorm:"type:varchar(255);not null" json:"email"`
	Phone string `gorm:"type:varchar(20);not null" json:"phone"`

	VisitDate string  `gorm:"type:varchar(20);not null" json:"visit_date"`
	VisitTime *string `gorm:"type:varchar(20)" json:"visit_time,omitempty"`
	EndTime   *string `gorm:"type:varchar(20)" json:"end_time,omitempty"`

	Host      string `gorm:"type:varchar(255);not null" json:"host"`
	HostEmail string `gorm:"type:varchar(255);not null" json:"host_email"`
	Purpose   string `gorm:"type:text;not null" json:"purpose"`

	// PhotoData holds a base64 data-URI webcam capture, when one was taken.
	PhotoData *string `gorm:"type:text" json:"photo_data,omitempty"`

	PersonType   *string `gorm:"type:varchar(100)" json:"person_type,omitempty"`
	VisitArea    *string `gorm:"type:varchar(255)" json:"visit_area,omitempty"`
	PPE          *string `gorm:"type:varchar(100)" json:"ppe,omitempty"`
	GovtIDType   *string `gorm:"type:varchar(100)" json:"govt_id_type,omitempty"`
	GovtIDNumber *string `gorm:"type:varchar(100)" json:"govt_id_number,omitempty"`
	LaptopNo     *string `gorm:"type:varchar(100)" json:"laptop_no,omitempty"`
	VehicleNo    *string `gorm:"type:varchar(100)" json:"vehicle_no,omitempty"`

	Status Status `gorm:"type:varchar(20);not null;default:pending;index" json:"status"`

	IssuedAt  time.Time `gorm:"autoCreateTime;index" json:"issued_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName sets the table name for the Visitor model
func (Visitor) TableName() string {
	return "visitors"
}
