package model

// RecommendCTA is attached to every recommendation for a course the organization does not own
const RecommendCTA = "Contact sales to unlock full course"

// LessonMatch is a lesson found by name together with its course
type LessonMatch struct {
	Lesson *Lesson
	Course *Course
}

// Recommendation answers a free-text lesson search with what the organization may open
type Recommendation struct {
	Matched bool               `json:"matched"`
	Course  *RecommendedCourse `json:"course,omitempty"`
	Lesson  *RecommendedLesson `json:"lesson,omitempty"`
	CTA     string             `json:"cta,omitempty"`
}

type RecommendedCourse struct {
	CourseID   int64  `json:"course_id"`
	CourseName string `json:"course_name"`
	Owned      bool   `json:"owned"`
}

// RecommendedLesson hides ContentURL when only a preview is allowed
type RecommendedLesson struct {
	LessonID    int64   `json:"lesson_id"`
	LessonName  string  `json:"lesson_name"`
	ContentURL  *string `json:"content_url"`
	PreviewOnly bool    `json:"preview_only"`
}
