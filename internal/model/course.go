package model

import "time"

type CourseSource string

const (
	CourseSourceWhizrobot CourseSource = "WHIZROBOT"
	CourseSourceSchool    CourseSource = "SCHOOL"
)

type ContentType string

const (
	ContentTypeVideo ContentType = "VIDEO"
	ContentTypeImage ContentType = "IMAGE"
	ContentTypeText  ContentType = "TEXT"
)

// Course is the root of the content tree. Levels is populated only by tree loaders.
type Course struct {
	ID         int64          `json:"id"`
	CourseCode string         `json:"course_code"`
	CourseName string         `json:"course_name"`
	IsPublic   bool           `json:"is_public"`
	Source     CourseSource   `json:"source"`
	Levels     []*CourseLevel `json:"levels,omitempty"`
}

type CourseLevel struct {
	ID         int64     `json:"id"`
	CourseID   int64     `json:"course_id"`
	SequenceNo int       `json:"sequence_no"` // 1-based, unique within course
	LevelName  string    `json:"level_name"`
	Lessons    []*Lesson `json:"lessons,omitempty"`
}

type Lesson struct {
	ID            int64       `json:"id"`
	CourseLevelID int64       `json:"course_level_id"`
	LessonName    string      `json:"lesson_name"`
	ContentType   ContentType `json:"content_type"`
	ContentURL    string      `json:"content_url"`
	IsPublic      bool        `json:"is_public"` // independent of the course flag
	UpdatedAt     time.Time   `json:"updated_at"`
}
