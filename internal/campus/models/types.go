package models

// ============================================================
// Rooms & Schedule
// ============================================================

// Room описывает кабинет и его расписание. После создания не изменяется.
type Room struct {
	ID       string         `json:"id" yaml:"id" validate:"required"`
	Number   string         `json:"number" yaml:"number"`
	Name     string         `json:"name" yaml:"name"`
	Floor    int            `json:"floor" yaml:"floor"`
	Schedule []ScheduleItem `json:"schedule" yaml:"schedule"`
}

// ScheduleItem: одна пара в расписании кабинета.
type ScheduleItem struct {
	Time    string `json:"time" yaml:"time"`
	Subject string `json:"subject" yaml:"subject"`
	Teacher string `json:"teacher" yaml:"teacher"`
	Group   string `json:"group" yaml:"group"`
}

// ============================================================
// Floors
// ============================================================

// FloorSummary is the public view of a floor in the catalog.
type FloorSummary struct {
	Number    int    `json:"number"`
	Name      string `json:"name"`
	Asset     string `json:"asset"`
	AreaCount int    `json:"area_count"`
}
