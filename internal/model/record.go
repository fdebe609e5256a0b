package model

// CheckinRecord is one row scraped from the backend's attendance record page.
type CheckinRecord struct {
	CourseName string `json:"course_name"`
	Section    string `json:"section"`
	Time       string `json:"time"`
	IsToday    bool   `json:"is_today"`
}
