package models

// Stats is the admin dashboard aggregate over the whole collection.
type Stats struct {
	TotalTeams        int     `json:"totalTeams"`
	TotalParticipants int     `json:"totalParticipants"`
	TotalRevenue      float64 `json:"totalRevenue"`
	PendingTeams      int     `json:"pendingTeams"`
	CompletedTeams    int     `json:"completedTeams"`
}

// AttendanceStats aggregates check-in progress over completed teams only.
type AttendanceStats struct {
	TotalTeams           int `json:"totalTeams"`
	TotalParticipants    int `json:"totalParticipants"`
	AttendanceMarked     int `json:"attendanceMarked"`
	AttendancePending    int `json:"attendancePending"`
	AttendancePercentage int `json:"attendancePercentage"`
}

// AttendanceRow is one line of the check-in desk listing.
type AttendanceRow struct {
	RegistrationID   string `json:"registrationId"`
	TeamName         string `json:"teamName"`
	TeamLeaderName   string `json:"teamLeaderName"`
	MemberCount      int    `json:"memberCount"`
	AttendanceMarked bool   `json:"attendanceMarked"`
	MarkedAt         string `json:"markedAt,omitempty"`
	MarkedBy         string `json:"markedBy,omitempty"`
	RegisteredAt     string `json:"registeredAt"`
}
