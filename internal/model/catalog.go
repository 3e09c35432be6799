package model

import "time"

// CatalogCourse is the course shape delivered to robots
type CatalogCourse struct {
	ID         int64          `json:"id"`
	CourseCode string         `json:"course_code"`
	CourseName string         `json:"course_name"`
	Levels     []CatalogLevel `json:"levels"`
}

type CatalogLevel struct {
	ID         int64           `json:"id"`
	LevelName  string          `json:"level_name"`
	SequenceNo int             `json:"sequence_no"`
	Lessons    []CatalogLesson `json:"lessons"`
}

type CatalogLesson struct {
	ID          int64       `json:"id"`
	LessonName  string      `json:"lesson_name"`
	ContentType ContentType `json:"content_type"`
	ContentURL  string      `json:"content_url"`
	IsPublic    bool        `json:"is_public"`
	UpdatedAt   time.Time   `json:"updated_at"`
}
