package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/akshayds23/Whizrobo/internal/model"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// testClock is a settable clock for deterministic thresholds
type testClock struct {
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: testNow}
}

func (c *testClock) Now() time.Time {
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func int64Ptr(v int64) *int64 {
	return &v
}

// ============ licenses ============

type mockLicenseStore struct {
	licenses map[int64]*model.License
	nextID   int64

	getErr    error
	recentErr error
	listErr   error
}

func newMockLicenseStore() *mockLicenseStore {
	return &mockLicenseStore{licenses: make(map[int64]*model.License), nextID: 1}
}

func (m *mockLicenseStore) add(l *model.License) *model.License {
	if l.ID == 0 {
		l.ID = m.nextID
	}
	if l.ID >= m.nextID {
		m.nextID = l.ID + 1
	}
	m.licenses[l.ID] = l
	return l
}

func (m *mockLicenseStore) Create(_ context.Context, l *model.License) error {
	l.CreatedAt = testNow
	m.add(l)
	return nil
}

func (m *mockLicenseStore) GetByID(_ context.Context, id int64) (*model.License, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if l, ok := m.licenses[id]; ok {
		cp := *l
		return &cp, nil
	}
	return nil, nil
}

func (m *mockLicenseStore) mostRecent(robotID int64, activeOnly bool) *model.License {
	var best *model.License
	for _, l := range m.licenses {
		if l.RobotID != robotID || (activeOnly && !l.IsActive) {
			continue
		}
		if best == nil || l.ValidUntil.After(best.ValidUntil) ||
			(l.ValidUntil.Equal(best.ValidUntil) && l.ID > best.ID) {
			best = l
		}
	}
	if best == nil {
		return nil
	}
	cp := *best
	return &cp
}

func (m *mockLicenseStore) GetMostRecentForRobot(_ context.Context, robotID int64) (*model.License, error) {
	if m.recentErr != nil {
		return nil, m.recentErr
	}
	return m.mostRecent(robotID, false), nil
}

func (m *mockLicenseStore) GetMostRecentActiveForRobot(_ context.Context, robotID int64) (*model.License, error) {
	if m.recentErr != nil {
		return nil, m.recentErr
	}
	return m.mostRecent(robotID, true), nil
}

func (m *mockLicenseStore) ListActive(_ context.Context) ([]*model.License, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []*model.License
	for _, l := range m.licenses {
		if l.IsActive {
			cp := *l
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockLicenseStore) Deactivate(_ context.Context, id int64) (bool, error) {
	l, ok := m.licenses[id]
	if !ok {
		return false, nil
	}
	l.IsActive = false
	return true, nil
}

// ============ notifications ============

type mockNotificationStore struct {
	items  []*model.LicenseNotification
	nextID int64

	// existsLies makes ExistsForLicense always report false, as if a concurrent
	// request inserted the row between the check and the insert
	existsLies bool
	createCalls int
	createErr   error
}

func newMockNotificationStore() *mockNotificationStore {
	return &mockNotificationStore{nextID: 1}
}

func (m *mockNotificationStore) ExistsForLicense(_ context.Context, licenseID int64, t model.NotificationType) (bool, error) {
	if m.existsLies {
		return false, nil
	}
	for _, n := range m.items {
		if n.LicenseID == licenseID && n.Type == t {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockNotificationStore) CreateOnce(_ context.Context, n *model.LicenseNotification) (bool, error) {
	m.createCalls++
	if m.createErr != nil {
		return false, m.createErr
	}
	for _, existing := range m.items {
		if existing.LicenseID == n.LicenseID && existing.Type == n.Type {
			return false, nil
		}
	}
	n.ID = m.nextID
	n.CreatedAt = testNow.Add(time.Duration(m.nextID) * time.Second)
	m.nextID++
	cp := *n
	m.items = append(m.items, &cp)
	return true, nil
}

func (m *mockNotificationStore) ListByLicense(_ context.Context, licenseID int64) ([]*model.LicenseNotification, error) {
	out := []*model.LicenseNotification{}
	for _, n := range m.items {
		if n.LicenseID == licenseID {
			cp := *n
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (m *mockNotificationStore) Acknowledge(_ context.Context, licenseID, id int64) (bool, error) {
	for _, n := range m.items {
		if n.ID == id && n.LicenseID == licenseID {
			n.Acknowledged = true
			return true, nil
		}
	}
	return false, nil
}

func (m *mockNotificationStore) countFor(licenseID int64, t model.NotificationType) int {
	count := 0
	for _, n := range m.items {
		if n.LicenseID == licenseID && n.Type == t {
			count++
		}
	}
	return count
}

// ============ organizations & robots ============

type mockOrgStore struct {
	orgs map[int64]*model.Organization
}

func newMockOrgStore(ids ...int64) *mockOrgStore {
	m := &mockOrgStore{orgs: make(map[int64]*model.Organization)}
	for _, id := range ids {
		m.orgs[id] = &model.Organization{ID: id, Name: "org"}
	}
	return m
}

func (m *mockOrgStore) GetByID(_ context.Context, id int64) (*model.Organization, error) {
	return m.orgs[id], nil
}

func (m *mockOrgStore) List(_ context.Context) ([]*model.Organization, error) {
	out := []*model.Organization{}
	for _, o := range m.orgs {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type mockRobotStore struct {
	robots map[int64]*model.Robot

	touchErr error
}

func newMockRobotStore(robots ...*model.Robot) *mockRobotStore {
	m := &mockRobotStore{robots: make(map[int64]*model.Robot)}
	for _, r := range robots {
		m.robots[r.ID] = r
	}
	return m
}

func (m *mockRobotStore) GetByID(_ context.Context, id int64) (*model.Robot, error) {
	if r, ok := m.robots[id]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, nil
}

func (m *mockRobotStore) List(_ context.Context, orgID *int64) ([]*model.Robot, error) {
	var out []*model.Robot
	for _, r := range m.robots {
		if orgID == nil || r.OrgID == *orgID {
			cp := *r
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockRobotStore) SetRefreshRequired(_ context.Context, id int64, required bool) (bool, error) {
	r, ok := m.robots[id]
	if !ok {
		return false, nil
	}
	r.RefreshRequired = required
	return true, nil
}

func (m *mockRobotStore) TouchLastSync(_ context.Context, id int64, at time.Time) error {
	if m.touchErr != nil {
		return m.touchErr
	}
	if r, ok := m.robots[id]; ok {
		t := at
		r.LastSyncAt = &t
	}
	return nil
}

// ============ courses ============

type mockCourseStore struct {
	courses map[int64]*model.Course

	treeCalls int
}

func newMockCourseStore(courses ...*model.Course) *mockCourseStore {
	m := &mockCourseStore{courses: make(map[int64]*model.Course)}
	for _, c := range courses {
		m.courses[c.ID] = c
	}
	return m
}

func (m *mockCourseStore) GetByID(_ context.Context, id int64) (*model.Course, error) {
	c, ok := m.courses[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	cp.Levels = nil
	return &cp, nil
}

func (m *mockCourseStore) GetTree(_ context.Context, id int64) (*model.Course, error) {
	m.treeCalls++
	return m.courses[id], nil
}

func (m *mockCourseStore) ListPublicTrees(_ context.Context) ([]*model.Course, error) {
	var out []*model.Course
	for _, c := range m.courses {
		if c.IsPublic {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// FindLessonByName mirrors the repository: substring match, latest updated_at wins
func (m *mockCourseStore) FindLessonByName(_ context.Context, query string) (*model.LessonMatch, error) {
	var best *model.LessonMatch
	for _, c := range m.courses {
		for _, level := range c.Levels {
			for _, lesson := range level.Lessons {
				if !strings.Contains(lesson.LessonName, query) {
					continue
				}
				if best == nil || lesson.UpdatedAt.After(best.Lesson.UpdatedAt) ||
					(lesson.UpdatedAt.Equal(best.Lesson.UpdatedAt) && lesson.ID > best.Lesson.ID) {
					best = &model.LessonMatch{Lesson: lesson, Course: c}
				}
			}
		}
	}
	return best, nil
}

type mockAccessStore struct {
	rows map[int64][]*model.OrganizationCourseAccess
}

func newMockAccessStore() *mockAccessStore {
	return &mockAccessStore{rows: make(map[int64][]*model.OrganizationCourseAccess)}
}

func (m *mockAccessStore) grant(orgID, courseID int64, levels ...int) {
	m.rows[orgID] = append(m.rows[orgID], &model.OrganizationCourseAccess{
		OrgID:         orgID,
		CourseID:      courseID,
		AllowedLevels: levels,
		AssignedAt:    testNow,
	})
}

func (m *mockAccessStore) Get(_ context.Context, orgID, courseID int64) (*model.OrganizationCourseAccess, error) {
	for _, a := range m.rows[orgID] {
		if a.CourseID == courseID {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *mockAccessStore) ListByOrg(_ context.Context, orgID int64) ([]*model.OrganizationCourseAccess, error) {
	out := []*model.OrganizationCourseAccess{}
	out = append(out, m.rows[orgID]...)
	return out, nil
}

func (m *mockAccessStore) Upsert(_ context.Context, a *model.OrganizationCourseAccess) (bool, error) {
	a.AssignedAt = testNow
	for i, existing := range m.rows[a.OrgID] {
		if existing.CourseID == a.CourseID {
			cp := *a
			m.rows[a.OrgID][i] = &cp
			return false, nil
		}
	}
	cp := *a
	m.rows[a.OrgID] = append(m.rows[a.OrgID], &cp)
	return true, nil
}

func (m *mockAccessStore) Delete(_ context.Context, orgID, courseID int64) (bool, error) {
	rows := m.rows[orgID]
	for i, existing := range rows {
		if existing.CourseID == courseID {
			m.rows[orgID] = append(rows[:i], rows[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// ============ usage logs ============

type mockUsageStore struct {
	logs []*model.RobotUsageLog

	// hidden rows are invisible to Exists but still conflict on insert
	hidden []*model.RobotUsageLog

	// unknownCourses fail inserts the way the foreign key does
	unknownCourses map[int64]bool
}

func newMockUsageStore() *mockUsageStore {
	return &mockUsageStore{}
}

func sameUsageKey(l *model.RobotUsageLog, robotID, courseID int64, lessonID *int64, openedAt time.Time) bool {
	if l.RobotID != robotID || l.CourseID != courseID || !l.OpenedAt.Equal(openedAt) {
		return false
	}
	if l.LessonID == nil || lessonID == nil {
		return l.LessonID == nil && lessonID == nil
	}
	return *l.LessonID == *lessonID
}

func (m *mockUsageStore) Exists(_ context.Context, robotID, courseID int64, lessonID *int64, openedAt time.Time) (bool, error) {
	for _, l := range m.logs {
		if sameUsageKey(l, robotID, courseID, lessonID, openedAt) {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockUsageStore) CreateIfAbsent(_ context.Context, log *model.RobotUsageLog) (bool, error) {
	if m.unknownCourses[log.CourseID] {
		return false, fmt.Errorf("create usage log: %w", model.ErrUnknownReference)
	}
	all := append(append([]*model.RobotUsageLog{}, m.logs...), m.hidden...)
	for _, l := range all {
		if sameUsageKey(l, log.RobotID, log.CourseID, log.LessonID, log.OpenedAt) {
			return false, nil
		}
	}
	log.ID = int64(len(m.logs) + 1)
	cp := *log
	m.logs = append(m.logs, &cp)
	return true, nil
}
