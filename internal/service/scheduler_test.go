package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"careconnect/internal/models"
)

type stubMedicationStore struct {
	meds []*models.Medication
}

func (s *stubMedicationStore) GetByID(id int64) (*models.Medication, error) {
	for _, m := range s.meds {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, nil
}

func (s *stubMedicationStore) ListByUser(userID int64) ([]*models.Medication, error) {
	var out []*models.Medication
	for _, m := range s.meds {
		if m.UserID == userID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *stubMedicationStore) ListUserIDs() ([]int64, error) {
	seen := map[int64]bool{}
	var ids []int64
	for _, m := range s.meds {
		if !seen[m.UserID] {
			seen[m.UserID] = true
			ids = append(ids, m.UserID)
		}
	}
	return ids, nil
}

type stubTaskStore struct {
	tasks []*models.Task
}

func (s *stubTaskStore) GetByID(id int64) (*models.Task, error) {
	for _, t := range s.tasks {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, nil
}

func (s *stubTaskStore) ListByUser(userID int64) ([]*models.Task, error) {
	var out []*models.Task
	for _, t := range s.tasks {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *stubTaskStore) ListUserIDsWithIncompleteTasks() ([]int64, error) {
	seen := map[int64]bool{}
	var ids []int64
	for _, t := range s.tasks {
		if !t.IsCompleted && !seen[t.UserID] {
			seen[t.UserID] = true
			ids = append(ids, t.UserID)
		}
	}
	return ids, nil
}

type stubUserStore struct {
	users map[int64]*models.User
}

func (s *stubUserStore) GetUserByID(id int64) (*models.User, error) {
	return s.users[id], nil
}

type stubNotificationStore struct {
	created []*models.Notification
}

func (s *stubNotificationStore) Create(n *models.Notification) (*models.Notification, error) {
	s.created = append(s.created, n)
	return n, nil
}

type stubMailer struct {
	medReminders  int
	taskReminders int
	fail          bool
}

func (s *stubMailer) SendMedicationReminder(ctx context.Context, toEmail, toName, medName, dosage, timeOfDay string) error {
	s.medReminders++
	if s.fail {
		return errors.New("ses unavailable")
	}
	return nil
}

func (s *stubMailer) SendTaskReminder(ctx context.Context, toEmail, toName, taskTitle string, dueDate time.Time) error {
	s.taskReminders++
	if s.fail {
		return errors.New("ses unavailable")
	}
	return nil
}

type schedulerFixture struct {
	scheduler     *ReminderScheduler
	meds          *stubMedicationStore
	tasks         *stubTaskStore
	notifications *stubNotificationStore
	mailer        *stubMailer
}

func newSchedulerFixture(t *testing.T, now time.Time) *schedulerFixture {
	t.Helper()

	meds := &stubMedicationStore{}
	tasks := &stubTaskStore{}
	users := &stubUserStore{users: map[int64]*models.User{
		1: {ID: 1, Email: "pat@example.com", FullName: "Pat Doe", Role: models.RolePatient},
	}}
	notifications := &stubNotificationStore{}
	mailer := &stubMailer{}

	scheduler := NewReminderScheduler(meds, tasks, users, notifications, mailer)
	scheduler.now = func() time.Time { return now }
	t.Cleanup(scheduler.Stop)

	return &schedulerFixture{
		scheduler:     scheduler,
		meds:          meds,
		tasks:         tasks,
		notifications: notifications,
		mailer:        mailer,
	}
}

func TestNextOccurrence(t *testing.T) {
	now := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		timeOfDay string
		want      time.Time
		wantErr   bool
	}{
		{"10:30", time.Date(2026, 8, 31, 10, 30, 0, 0, time.UTC), false},
		// A time already past resolves to tomorrow
		{"08:00", time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC), false},
		// The current minute counts as past
		{"09:00", time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC), false},
		{"00:00", time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), false},
		{"23:59", time.Date(2026, 8, 31, 23, 59, 0, 0, time.UTC), false},
		{"25:00", time.Time{}, true},
		{"12:60", time.Time{}, true},
		{"noon", time.Time{}, true},
		{"", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.timeOfDay, func(t *testing.T) {
			got, err := nextOccurrence(now, tt.timeOfDay)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("nextOccurrence(%q) expected error", tt.timeOfDay)
				}
				return
			}
			if err != nil {
				t.Fatalf("nextOccurrence(%q) error: %v", tt.timeOfDay, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("nextOccurrence(%q) = %v, want %v", tt.timeOfDay, got, tt.want)
			}
		})
	}
}

func TestScheduleMedicationRemindersArmsTimers(t *testing.T) {
	now := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)
	f := newSchedulerFixture(t, now)
	f.meds.meds = []*models.Medication{
		{ID: 5, UserID: 1, Name: "Donepezil", Dosage: "10mg", Schedule: `["08:00","20:00"]`},
	}

	if err := f.scheduler.ScheduleMedicationReminders(1); err != nil {
		t.Fatalf("ScheduleMedicationReminders: %v", err)
	}

	f.scheduler.mu.Lock()
	defer f.scheduler.mu.Unlock()
	timers := f.scheduler.medTimers[1]
	if len(timers) != 2 {
		t.Fatalf("armed %d timers, want 2", len(timers))
	}
	for _, key := range []string{"5:08:00", "5:20:00"} {
		if _, ok := timers[key]; !ok {
			t.Errorf("missing timer for key %q", key)
		}
	}
}

func TestScheduleMedicationRemindersSkipsMalformedSchedule(t *testing.T) {
	now := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)
	f := newSchedulerFixture(t, now)
	f.meds.meds = []*models.Medication{
		{ID: 5, UserID: 1, Name: "Donepezil", Dosage: "10mg", Schedule: `not json`},
		{ID: 6, UserID: 1, Name: "Memantine", Dosage: "5mg", Schedule: `["12:00"]`},
	}

	if err := f.scheduler.ScheduleMedicationReminders(1); err != nil {
		t.Fatalf("ScheduleMedicationReminders: %v", err)
	}

	f.scheduler.mu.Lock()
	defer f.scheduler.mu.Unlock()
	timers := f.scheduler.medTimers[1]
	if len(timers) != 1 {
		t.Fatalf("armed %d timers, want 1 (malformed schedule skipped)", len(timers))
	}
	if _, ok := timers["6:12:00"]; !ok {
		t.Error("the well-formed medication should still be armed")
	}
}

func TestScheduleMedicationRemindersRebuildConverges(t *testing.T) {
	now := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)
	f := newSchedulerFixture(t, now)
	f.meds.meds = []*models.Medication{
		{ID: 5, UserID: 1, Name: "Donepezil", Dosage: "10mg", Schedule: `["08:00"]`},
	}

	if err := f.scheduler.ScheduleMedicationReminders(1); err != nil {
		t.Fatalf("ScheduleMedicationReminders: %v", err)
	}

	// Deleting the medication and rebuilding must drop its timer
	f.meds.meds = nil
	if err := f.scheduler.ScheduleMedicationReminders(1); err != nil {
		t.Fatalf("ScheduleMedicationReminders: %v", err)
	}

	f.scheduler.mu.Lock()
	defer f.scheduler.mu.Unlock()
	if len(f.scheduler.medTimers[1]) != 0 {
		t.Errorf("expected no timers after rebuild, got %d", len(f.scheduler.medTimers[1]))
	}
}

func TestScheduleTaskReminders(t *testing.T) {
	now := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)
	f := newSchedulerFixture(t, now)
	f.tasks.tasks = []*models.Task{
		// Due in 2h: reminder arms at due-30m
		{ID: 1, UserID: 1, Title: "Walk", DueDate: now.Add(2 * time.Hour)},
		// Due in 10m: the reminder moment already passed, silent skip
		{ID: 2, UserID: 1, Title: "Lunch", DueDate: now.Add(10 * time.Minute)},
		// Completed tasks never remind
		{ID: 3, UserID: 1, Title: "Done", DueDate: now.Add(3 * time.Hour), IsCompleted: true},
	}

	if err := f.scheduler.ScheduleTaskReminders(1); err != nil {
		t.Fatalf("ScheduleTaskReminders: %v", err)
	}

	f.scheduler.mu.Lock()
	defer f.scheduler.mu.Unlock()
	timers := f.scheduler.taskTimers[1]
	if len(timers) != 1 {
		t.Fatalf("armed %d timers, want 1", len(timers))
	}
	if _, ok := timers[1]; !ok {
		t.Error("expected a timer for task 1")
	}
}

func TestScheduleTaskRemindersRebuildAfterComplete(t *testing.T) {
	now := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)
	f := newSchedulerFixture(t, now)
	task := &models.Task{ID: 1, UserID: 1, Title: "Walk", DueDate: now.Add(2 * time.Hour)}
	f.tasks.tasks = []*models.Task{task}

	if err := f.scheduler.ScheduleTaskReminders(1); err != nil {
		t.Fatalf("ScheduleTaskReminders: %v", err)
	}

	task.IsCompleted = true
	if err := f.scheduler.ScheduleTaskReminders(1); err != nil {
		t.Fatalf("ScheduleTaskReminders: %v", err)
	}

	f.scheduler.mu.Lock()
	defer f.scheduler.mu.Unlock()
	if len(f.scheduler.taskTimers[1]) != 0 {
		t.Errorf("expected no timers after completion rebuild, got %d", len(f.scheduler.taskTimers[1]))
	}
}

func TestFireMedicationReminder(t *testing.T) {
	now := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)
	f := newSchedulerFixture(t, now)
	f.meds.meds = []*models.Medication{
		{ID: 5, UserID: 1, Name: "Donepezil", Dosage: "10mg", Schedule: `["08:00"]`},
	}

	f.scheduler.fireMedicationReminder(1, 5, "08:00")

	if f.mailer.medReminders != 1 {
		t.Errorf("sent %d reminder emails, want 1", f.mailer.medReminders)
	}
	if len(f.notifications.created) != 1 {
		t.Fatalf("created %d notifications, want 1", len(f.notifications.created))
	}
	n := f.notifications.created[0]
	if n.UserID != 1 || n.Type != models.NotificationMedication {
		t.Errorf("notification = user %d type %q, want user 1 type %q", n.UserID, n.Type, models.NotificationMedication)
	}

	// Firing re-arms the next day's timer
	f.scheduler.mu.Lock()
	armed := len(f.scheduler.medTimers[1])
	f.scheduler.mu.Unlock()
	if armed != 1 {
		t.Errorf("expected 1 re-armed timer, got %d", armed)
	}
}

func TestFireMedicationReminderSkipsRemovedDose(t *testing.T) {
	now := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)
	f := newSchedulerFixture(t, now)
	f.meds.meds = []*models.Medication{
		{ID: 5, UserID: 1, Name: "Donepezil", Dosage: "10mg", Schedule: `["20:00"]`},
	}

	// The 08:00 dose was removed since the timer armed
	f.scheduler.fireMedicationReminder(1, 5, "08:00")

	if f.mailer.medReminders != 0 {
		t.Errorf("sent %d emails for a removed dose, want 0", f.mailer.medReminders)
	}
	if len(f.notifications.created) != 0 {
		t.Errorf("created %d notifications for a removed dose, want 0", len(f.notifications.created))
	}
}

func TestFireMedicationReminderEmailFailureStillNotifies(t *testing.T) {
	now := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)
	f := newSchedulerFixture(t, now)
	f.mailer.fail = true
	f.meds.meds = []*models.Medication{
		{ID: 5, UserID: 1, Name: "Donepezil", Dosage: "10mg", Schedule: `["08:00"]`},
	}

	f.scheduler.fireMedicationReminder(1, 5, "08:00")

	if len(f.notifications.created) != 1 {
		t.Errorf("created %d notifications despite email failure, want 1", len(f.notifications.created))
	}
}

func TestFireTaskReminder(t *testing.T) {
	now := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)
	f := newSchedulerFixture(t, now)
	f.tasks.tasks = []*models.Task{
		{ID: 1, UserID: 1, Title: "Walk", DueDate: now.Add(30 * time.Minute)},
	}

	f.scheduler.fireTaskReminder(1, 1)

	if f.mailer.taskReminders != 1 {
		t.Errorf("sent %d task reminder emails, want 1", f.mailer.taskReminders)
	}
	if len(f.notifications.created) != 1 {
		t.Fatalf("created %d notifications, want 1", len(f.notifications.created))
	}
	if f.notifications.created[0].Type != models.NotificationTask {
		t.Errorf("notification type = %q, want %q", f.notifications.created[0].Type, models.NotificationTask)
	}
}

func TestFireTaskReminderSkipsCompleted(t *testing.T) {
	now := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)
	f := newSchedulerFixture(t, now)
	f.tasks.tasks = []*models.Task{
		{ID: 1, UserID: 1, Title: "Walk", DueDate: now.Add(30 * time.Minute), IsCompleted: true},
	}

	f.scheduler.fireTaskReminder(1, 1)

	if f.mailer.taskReminders != 0 || len(f.notifications.created) != 0 {
		t.Error("completed tasks must not produce reminders")
	}
}

func TestStopCancelsAllTimers(t *testing.T) {
	now := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)
	f := newSchedulerFixture(t, now)
	f.meds.meds = []*models.Medication{
		{ID: 5, UserID: 1, Name: "Donepezil", Dosage: "10mg", Schedule: `["20:00"]`},
	}
	f.tasks.tasks = []*models.Task{
		{ID: 1, UserID: 1, Title: "Walk", DueDate: now.Add(2 * time.Hour)},
	}

	if err := f.scheduler.InitializeUserReminders(1); err != nil {
		t.Fatalf("InitializeUserReminders: %v", err)
	}

	f.scheduler.Stop()

	f.scheduler.mu.Lock()
	defer f.scheduler.mu.Unlock()
	if len(f.scheduler.medTimers) != 0 || len(f.scheduler.taskTimers) != 0 {
		t.Error("Stop should clear every timer map")
	}
}
