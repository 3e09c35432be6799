package model

// EntityType tags the kind of record an operation refers to
type EntityType string

const (
	EntityOrganization EntityType = "Organization"
	EntityLicense      EntityType = "License"
	EntityRobot        EntityType = "Robot"
	EntityUser         EntityType = "User"
	EntityCourse       EntityType = "Course"
	EntityCourseLevel  EntityType = "CourseLevel"
	EntityLesson       EntityType = "Lesson"
	EntityNotification EntityType = "LicenseNotification"
	EntityCourseAccess EntityType = "OrganizationCourseAccess"
)
