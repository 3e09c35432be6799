package model

import "time"

type RobotUsageLog struct {
	ID              int64     `json:"id"`
	RobotID         int64     `json:"robot_id"`
	CourseID        int64     `json:"course_id"`
	LessonID        *int64    `json:"lesson_id"`
	OpenedAt        time.Time `json:"opened_at"`
	DurationSeconds int       `json:"duration_seconds"`
}

// UsageIngestResult summarises one ingestion batch
type UsageIngestResult struct {
	Received int `json:"received"`
	Inserted int `json:"inserted"`
	Skipped  int `json:"skipped"`
}
