package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/akshayds23/Whizrobo/internal/metrics"
	"github.com/akshayds23/Whizrobo/internal/model"
	"go.uber.org/zap"
)

// UsageEntry is one validated usage event from a robot
type UsageEntry struct {
	CourseID        int64
	LessonID        *int64
	OpenedAt        time.Time
	DurationSeconds int
}

// key identifies the event for deduplication
func (e UsageEntry) key(robotID int64) string {
	lesson := "null"
	if e.LessonID != nil {
		lesson = strconv.FormatInt(*e.LessonID, 10)
	}
	return fmt.Sprintf("%d:%d:%s:%s", robotID, e.CourseID, lesson, e.OpenedAt.Format(time.RFC3339Nano))
}

// UsageLogService ingests robot usage events idempotently
type UsageLogService struct {
	licenseRepo LicenseStore
	usageRepo   UsageLogStore
	clock       Clock
	metrics     *metrics.Metrics
	logger      *zap.Logger
}

func NewUsageLogService(
	licenseRepo LicenseStore,
	usageRepo UsageLogStore,
	clock Clock,
	m *metrics.Metrics,
	logger *zap.Logger,
) *UsageLogService {
	return &UsageLogService{
		licenseRepo: licenseRepo,
		usageRepo:   usageRepo,
		clock:       clockOrDefault(clock),
		metrics:     m,
		logger:      logger,
	}
}

// IngestLogs stores a batch of usage events for the calling robot.
// The whole batch is parsed before anything is written; duplicates within the batch
// and already stored events are counted as skipped.
func (s *UsageLogService) IngestLogs(ctx context.Context, caller *model.Caller, payload json.RawMessage) (*model.UsageIngestResult, error) {
	if caller == nil || !caller.IsRobot() {
		return nil, accessDenied("robot token required")
	}

	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, invalidInput("payload must be an array")
	}

	var rawEntries []json.RawMessage
	if err := json.Unmarshal(trimmed, &rawEntries); err != nil {
		return nil, invalidInput("payload must be an array")
	}

	robotID := caller.SubjectID

	if err := s.assertLicenseValid(ctx, robotID); err != nil {
		return nil, err
	}

	entries, err := ParseUsageEntries(rawEntries)
	if err != nil {
		return nil, err
	}

	result := &model.UsageIngestResult{Received: len(entries)}
	seen := make(map[string]struct{}, len(entries))

	for i, entry := range entries {
		key := entry.key(robotID)
		if _, dup := seen[key]; dup {
			result.Skipped++
			continue
		}
		seen[key] = struct{}{}

		exists, err := s.usageRepo.Exists(ctx, robotID, entry.CourseID, entry.LessonID, entry.OpenedAt)
		if err != nil {
			return nil, fmt.Errorf("check usage log: %w", err)
		}

		if exists {
			result.Skipped++
			continue
		}

		created, err := s.usageRepo.CreateIfAbsent(ctx, &model.RobotUsageLog{
			RobotID:         robotID,
			CourseID:        entry.CourseID,
			LessonID:        entry.LessonID,
			OpenedAt:        entry.OpenedAt,
			DurationSeconds: entry.DurationSeconds,
		})
		if errors.Is(err, model.ErrUnknownReference) {
			return nil, invalidInput("Row %d: course_id or lesson_id does not exist", i+1)
		}
		if err != nil {
			return nil, fmt.Errorf("create usage log: %w", err)
		}

		if created {
			result.Inserted++
		} else {
			result.Skipped++
		}
	}

	s.metrics.RecordUsageLogs(result.Inserted, result.Skipped)

	s.logger.Info("Usage logs ingested",
		zap.Int64("robot_id", robotID),
		zap.Int("received", result.Received),
		zap.Int("inserted", result.Inserted),
		zap.Int("skipped", result.Skipped),
	)

	return result, nil
}

// assertLicenseValid gates ingestion on the robot's most recent license
func (s *UsageLogService) assertLicenseValid(ctx context.Context, robotID int64) error {
	license, err := MostRecentLicenseForRobot(ctx, s.licenseRepo, robotID)
	if err != nil {
		return err
	}

	if license == nil || !license.IsActive {
		return accessDenied("License revoked")
	}

	if !license.InWindow(s.clock()) {
		return accessDenied("License expired")
	}

	return nil
}

// ParseUsageEntries validates every raw entry; the first bad row fails the whole batch
func ParseUsageEntries(rawEntries []json.RawMessage) ([]UsageEntry, error) {
	entries := make([]UsageEntry, 0, len(rawEntries))

	for i, raw := range rawEntries {
		entry, err := parseUsageEntry(raw)
		if err != nil {
			return nil, invalidInput("Row %d: %s", i+1, err.Error())
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

func parseUsageEntry(raw json.RawMessage) (UsageEntry, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return UsageEntry{}, fmt.Errorf("invalid entry")
	}

	var entry UsageEntry

	courseID, ok := positiveInt(fields["course_id"])
	if !ok {
		return UsageEntry{}, fmt.Errorf("course_id invalid")
	}
	entry.CourseID = courseID

	if lessonRaw, present := fields["lesson_id"]; present && !isNull(lessonRaw) {
		lessonID, ok := positiveInt(lessonRaw)
		if !ok {
			return UsageEntry{}, fmt.Errorf("lesson_id invalid")
		}
		entry.LessonID = &lessonID
	}

	duration, ok := number(fields["duration_seconds"])
	if !ok || duration < 0 || duration > math.MaxInt32 {
		return UsageEntry{}, fmt.Errorf("duration_seconds invalid")
	}
	entry.DurationSeconds = int(math.Round(duration))

	var openedAt string
	if err := json.Unmarshal(fields["opened_at"], &openedAt); err != nil {
		return UsageEntry{}, fmt.Errorf("opened_at invalid")
	}
	ts, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(openedAt))
	if err != nil {
		return UsageEntry{}, fmt.Errorf("opened_at invalid")
	}
	// stored with microsecond precision
	entry.OpenedAt = ts.UTC().Truncate(time.Microsecond)

	return entry, nil
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || string(bytes.TrimSpace(raw)) == "null"
}

// number accepts a JSON number or a numeric string
func number(raw json.RawMessage) (float64, bool) {
	if isNull(raw) {
		return 0, false
	}

	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f, true
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, false
	}

	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}

	return f, true
}

func positiveInt(raw json.RawMessage) (int64, bool) {
	f, ok := number(raw)
	if !ok || f <= 0 || f != math.Trunc(f) || f >= 1<<63 {
		return 0, false
	}
	return int64(f), true
}
