package dashboard

// NurseStats is the intake-floor view.
type NurseStats struct {
	ActivePatients    int `json:"active_patients"`
	CriticalCases     int `json:"critical_cases"`
	TriageQueue       int `json:"triage_queue"`
	AppointmentsToday int `json:"appointments_today"`
}

// DoctorStats is the consulting-room view.
type DoctorStats struct {
	AppointmentsToday int `json:"appointments_today"`
	PendingReviews    int `json:"pending_reviews"`
	CriticalAlerts    int `json:"critical_alerts"`
}

// PatientStats is what a patient sees about themselves.
type PatientStats struct {
	UpcomingAppointments int `json:"upcoming_appointments"`
}

// AdminStats is the whole-system view.
type AdminStats struct {
	TotalPatients       int `json:"total_patients"`
	ActiveStaff         int `json:"active_staff"`
	SystemAlerts        int `json:"system_alerts"`
	MonthlyAppointments int `json:"monthly_appointments"`
}
