package visitor

import (
	"fmt"
)

// PassRequest is the request payload for submitting a visitor pass request.
// Optional fields are passed through as-is; the renderer substitutes "N/A"
// for anything left empty.
type PassRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	VisitDate string `json:"visit_date"`
	VisitTime string `json:"visit_time"`
	EndTime   string `json:"end_time"`
	Host      string `json:"host"`
	HostEmail string `json:"host_email"`
	Purpose   string `json:"purpose"`

	// PhotoData carries an optional base64 data-URI webcam capture.
	PhotoData string `json:"photo_data"`

	PersonType   string `json:"person_type"`
	VisitArea    string `json:"visit_area"`
	PPE          string `json:"ppe"`
	GovtIDType   string `json:"govt_id_type"`
	GovtIDNumber string `json:"govt_id_number"`
	LaptopNo     string `json:"laptop_no"`
	VehicleNo    string `json:"vehicle_no"`
}

// Validate checks presence of the required fields only. Field formats are
// not validated.
func (r PassRequest) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("name is required")
	}
	if r.Email == "" {
		return fmt.Errorf("email is required")
	}
	if r.Phone == "" {
		return fmt.Errorf("phone is required")
	}
	if r.VisitDate == "" {
		return fmt.Errorf("visitDate is required")
	}
	if r.Host == "" {
		return fmt.Errorf("host is required")
	}
	if r.HostEmail == "" {
		return fmt.Errorf("hostEmail is required")
	}
	if r.Purpose == "" {
		return fmt.Errorf("purpose is required")
	}
	return nil
}
