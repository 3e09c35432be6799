package service

import (
	"context"
	"errors"
	"testing"

	"github.com/akshayds23/Whizrobo/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// buildCourse creates a course whose every level holds one public and one private lesson
func buildCourse(id int64, public bool, levelCount int) *model.Course {
	course := &model.Course{
		ID:         id,
		CourseCode: "C" + string(rune('A'+id%26)),
		CourseName: "Course",
		IsPublic:   public,
		Source:     model.CourseSourceWhizrobot,
	}

	for seq := 1; seq <= levelCount; seq++ {
		levelID := id*100 + int64(seq)
		course.Levels = append(course.Levels, &model.CourseLevel{
			ID:         levelID,
			CourseID:   id,
			SequenceNo: seq,
			LevelName:  "Level",
			Lessons: []*model.Lesson{
				{ID: levelID*10 + 1, CourseLevelID: levelID, LessonName: "Intro", ContentType: model.ContentTypeVideo, IsPublic: true},
				{ID: levelID*10 + 2, CourseLevelID: levelID, LessonName: "Deep dive", ContentType: model.ContentTypeText, IsPublic: false},
			},
		})
	}

	return course
}

func newEntitlementFixture(courses ...*model.Course) (*EntitlementService, *mockAccessStore, *mockCourseStore) {
	access := newMockAccessStore()
	courseStore := newMockCourseStore(courses...)
	svc := NewEntitlementService(access, courseStore, newMockOrgStore(1, 2), zap.NewNop())
	return svc, access, courseStore
}

func lessonIDs(level model.CatalogLevel) []int64 {
	ids := make([]int64, 0, len(level.Lessons))
	for _, l := range level.Lessons {
		ids = append(ids, l.ID)
	}
	return ids
}

func TestEntitlementService_OrgCatalogFiltersLevels(t *testing.T) {
	svc, access, _ := newEntitlementFixture(buildCourse(10, false, 3))
	access.grant(1, 10, 1, 3)

	catalog, err := svc.ResolveOrgCatalog(context.Background(), 1)
	require.NoError(t, err)

	require.Len(t, catalog, 1)
	require.Len(t, catalog[0].Levels, 2)
	assert.Equal(t, 1, catalog[0].Levels[0].SequenceNo)
	assert.Equal(t, 3, catalog[0].Levels[1].SequenceNo)
}

func TestEntitlementService_OrgCatalogKeepsPrivateLessons(t *testing.T) {
	svc, access, _ := newEntitlementFixture(buildCourse(10, true, 1))
	access.grant(1, 10, 1)

	catalog, err := svc.ResolveOrgCatalog(context.Background(), 1)
	require.NoError(t, err)

	require.Len(t, catalog, 1)
	require.Len(t, catalog[0].Levels, 1)
	assert.Equal(t, []int64{10011, 10012}, lessonIDs(catalog[0].Levels[0]))
}

func TestEntitlementService_PublicCatalogDropsPrivateContent(t *testing.T) {
	svc, _, _ := newEntitlementFixture(buildCourse(10, true, 2), buildCourse(20, false, 2))

	catalog, err := svc.ResolvePublicCatalog(context.Background())
	require.NoError(t, err)

	require.Len(t, catalog, 1)
	assert.Equal(t, int64(10), catalog[0].ID)
	require.Len(t, catalog[0].Levels, 2)
	for _, level := range catalog[0].Levels {
		require.Len(t, level.Lessons, 1)
		assert.True(t, level.Lessons[0].IsPublic)
	}
}

func TestEntitlementService_ZeroGrants(t *testing.T) {
	svc, _, _ := newEntitlementFixture(buildCourse(10, true, 1))

	catalog, err := svc.ResolveOrgCatalog(context.Background(), 2)
	require.NoError(t, err)
	assert.NotNil(t, catalog)
	assert.Empty(t, catalog)
}

func TestEntitlementService_MissingCourseIsSkipped(t *testing.T) {
	svc, access, _ := newEntitlementFixture(buildCourse(10, false, 1))
	access.grant(1, 99, 1)
	access.grant(1, 10, 1)

	catalog, err := svc.ResolveOrgCatalog(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, catalog, 1)
	assert.Equal(t, int64(10), catalog[0].ID)
}

func TestEntitlementService_AssignCourse(t *testing.T) {
	svc, access, _ := newEntitlementFixture(buildCourse(10, false, 3))
	ctx := context.Background()

	grant, created, err := svc.AssignCourse(ctx, 1, 10, []int{3, 1, 3})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, []int{1, 3}, grant.AllowedLevels)
	require.NotNil(t, grant.Course)
	assert.Equal(t, int64(10), grant.Course.ID)

	grant, created, err = svc.AssignCourse(ctx, 1, 10, []int{2})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, []int{2}, grant.AllowedLevels)

	rows, err := svc.ListAccess(ctx, 1)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, []int{2}, rows[0].AllowedLevels)
	assert.Len(t, access.rows[1], 1)
}

func TestEntitlementService_AssignCourseErrors(t *testing.T) {
	tests := []struct {
		name     string
		orgID    int64
		courseID int64
		levels   []int
		target   error
		entity   model.EntityType
	}{
		{name: "empty levels", orgID: 1, courseID: 10, levels: nil, target: ErrInvalidInput},
		{name: "zero level", orgID: 1, courseID: 10, levels: []int{0, 1}, target: ErrInvalidInput},
		{name: "unknown organization", orgID: 9, courseID: 10, levels: []int{1}, target: ErrNotFound, entity: model.EntityOrganization},
		{name: "unknown course", orgID: 1, courseID: 77, levels: []int{1}, target: ErrNotFound, entity: model.EntityCourse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, access, _ := newEntitlementFixture(buildCourse(10, false, 1))

			_, _, err := svc.AssignCourse(context.Background(), tt.orgID, tt.courseID, tt.levels)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.target))

			if tt.entity != "" {
				var nf *NotFoundError
				require.ErrorAs(t, err, &nf)
				assert.Equal(t, tt.entity, nf.Entity)
			}
			assert.Empty(t, access.rows)
		})
	}
}

func TestEntitlementService_RemoveCourse(t *testing.T) {
	svc, access, _ := newEntitlementFixture(buildCourse(10, false, 1))
	access.grant(1, 10, 1)

	require.NoError(t, svc.RemoveCourse(context.Background(), 1, 10))
	assert.Empty(t, access.rows[1])

	err := svc.RemoveCourse(context.Background(), 1, 10)
	assert.ErrorIs(t, err, ErrNotFound)
}

func recommendFixture() (*EntitlementService, *mockAccessStore) {
	private := &model.Course{ID: 10, CourseName: "Line Following", Levels: []*model.CourseLevel{
		{ID: 1001, CourseID: 10, SequenceNo: 1, Lessons: []*model.Lesson{
			{ID: 1, LessonName: "Line follower basics", ContentURL: "https://cdn/line.mp4", UpdatedAt: testNow},
		}},
	}}
	public := &model.Course{ID: 20, CourseName: "Servos", IsPublic: true, Levels: []*model.CourseLevel{
		{ID: 2001, CourseID: 20, SequenceNo: 1, Lessons: []*model.Lesson{
			{ID: 2, LessonName: "Servo intro", ContentURL: "https://cdn/servo-intro.mp4", IsPublic: true, UpdatedAt: testNow},
			{ID: 3, LessonName: "Servo advanced", ContentURL: "https://cdn/servo-adv.mp4", UpdatedAt: testNow},
			{ID: 4, LessonName: "Servo advanced (old)", ContentURL: "https://cdn/old.mp4", UpdatedAt: testNow.Add(-day)},
		}},
	}}

	svc, access, _ := newEntitlementFixture(private, public)
	access.grant(1, 10, 1)
	return svc, access
}

func TestEntitlementService_Recommend(t *testing.T) {
	tests := []struct {
		name        string
		query       string
		orgID       *int64
		lessonID    int64
		owned       bool
		previewOnly bool
		contentURL  string
	}{
		{"owned private lesson", "Line follower", int64Ptr(1), 1, true, false, "https://cdn/line.mp4"},
		{"private lesson not owned", "Line follower", int64Ptr(2), 1, false, true, ""},
		{"public lesson in public course", "Servo intro", int64Ptr(2), 2, false, false, "https://cdn/servo-intro.mp4"},
		{"private lesson in public course", "  Servo advanced ", nil, 3, false, true, ""},
		{"latest updated lesson wins", "Servo adv", nil, 3, false, true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := recommendFixture()

			rec, err := svc.Recommend(context.Background(), tt.query, tt.orgID)
			require.NoError(t, err)
			require.True(t, rec.Matched)
			require.NotNil(t, rec.Course)
			require.NotNil(t, rec.Lesson)

			assert.Equal(t, tt.lessonID, rec.Lesson.LessonID)
			assert.Equal(t, tt.owned, rec.Course.Owned)
			assert.Equal(t, tt.previewOnly, rec.Lesson.PreviewOnly)

			if tt.contentURL == "" {
				assert.Nil(t, rec.Lesson.ContentURL)
			} else {
				require.NotNil(t, rec.Lesson.ContentURL)
				assert.Equal(t, tt.contentURL, *rec.Lesson.ContentURL)
			}

			if tt.owned {
				assert.Empty(t, rec.CTA)
			} else {
				assert.Equal(t, model.RecommendCTA, rec.CTA)
			}
		})
	}
}

func TestEntitlementService_RecommendNoMatch(t *testing.T) {
	svc, _ := recommendFixture()

	rec, err := svc.Recommend(context.Background(), "Welding", int64Ptr(1))
	require.NoError(t, err)
	assert.Equal(t, &model.Recommendation{Matched: false}, rec)
}

func TestEntitlementService_RecommendInvalidInput(t *testing.T) {
	tests := []struct {
		name  string
		query string
		orgID *int64
	}{
		{"empty", "", nil},
		{"blank", "   ", nil},
		{"one character", " S ", nil},
		{"zero org", "Servo", int64Ptr(0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := recommendFixture()

			_, err := svc.Recommend(context.Background(), tt.query, tt.orgID)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}
