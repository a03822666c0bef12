package service

import (
	"context"
	"fmt"
	"log"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"careconnect/internal/models"
)

// taskReminderOffset is how far before a task's due date its reminder fires
const taskReminderOffset = 30 * time.Minute

type medicationStore interface {
	GetByID(id int64) (*models.Medication, error)
	ListByUser(userID int64) ([]*models.Medication, error)
	ListUserIDs() ([]int64, error)
}

type taskStore interface {
	GetByID(id int64) (*models.Task, error)
	ListByUser(userID int64) ([]*models.Task, error)
	ListUserIDsWithIncompleteTasks() ([]int64, error)
}

type reminderUserStore interface {
	GetUserByID(id int64) (*models.User, error)
}

type notificationStore interface {
	Create(n *models.Notification) (*models.Notification, error)
}

type reminderMailer interface {
	SendMedicationReminder(ctx context.Context, toEmail, toName, medName, dosage, timeOfDay string) error
	SendTaskReminder(ctx context.Context, toEmail, toName, taskTitle string, dueDate time.Time) error
}

// ReminderScheduler arms in-process timers for medication and task
// reminders. Rebuilds are idempotent and keyed per user: every mutation
// to a user's medications or tasks triggers a rebuild of that user's
// timers, so the armed set always reflects the stored state. A periodic
// sweep re-arms everyone to recover timers lost across restarts.
type ReminderScheduler struct {
	medications   medicationStore
	tasks         taskStore
	users         reminderUserStore
	notifications notificationStore
	mailer        reminderMailer

	mu sync.Mutex
	// timer key is "medicationID:HH:MM" for medications, the task ID for tasks
	medTimers  map[int64]map[string]*time.Timer
	taskTimers map[int64]map[int64]*time.Timer

	now func() time.Time
}

// NewReminderScheduler creates a reminder scheduler
func NewReminderScheduler(medications medicationStore, tasks taskStore, users reminderUserStore, notifications notificationStore, mailer reminderMailer) *ReminderScheduler {
	return &ReminderScheduler{
		medications:   medications,
		tasks:         tasks,
		users:         users,
		notifications: notifications,
		mailer:        mailer,
		medTimers:     make(map[int64]map[string]*time.Timer),
		taskTimers:    make(map[int64]map[int64]*time.Timer),
		now:           time.Now,
	}
}

// nextOccurrence resolves an "HH:MM" time of day to its next occurrence:
// today if the time is still ahead, otherwise tomorrow.
func nextOccurrence(now time.Time, timeOfDay string) (time.Time, error) {
	parts := strings.SplitN(timeOfDay, ":", 2)
	if len(parts) != 2 {
		return time.Time{}, fmt.Errorf("invalid time of day %q", timeOfDay)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return time.Time{}, fmt.Errorf("invalid time of day %q", timeOfDay)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return time.Time{}, fmt.Errorf("invalid time of day %q", timeOfDay)
	}

	next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next, nil
}

// ScheduleMedicationReminders rebuilds the medication timers for one
// user from the stored state. Existing timers are cancelled first, so
// calling this after any create, update, or delete converges the armed
// set. Malformed schedules are skipped with a log line.
func (s *ReminderScheduler) ScheduleMedicationReminders(userID int64) error {
	medications, err := s.medications.ListByUser(userID)
	if err != nil {
		return fmt.Errorf("failed to load medications for reminders: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelMedTimersLocked(userID)

	now := s.now()
	timers := make(map[string]*time.Timer)
	for _, med := range medications {
		times, err := med.ScheduleTimes()
		if err != nil {
			log.Printf("Skipping reminders for medication %d: %v", med.ID, err)
			continue
		}
		for _, timeOfDay := range times {
			next, err := nextOccurrence(now, timeOfDay)
			if err != nil {
				log.Printf("Skipping reminder for medication %d: %v", med.ID, err)
				continue
			}
			key := fmt.Sprintf("%d:%s", med.ID, timeOfDay)
			medID, tod := med.ID, timeOfDay
			timers[key] = time.AfterFunc(next.Sub(now), func() {
				s.fireMedicationReminder(userID, medID, tod)
			})
		}
	}
	if len(timers) > 0 {
		s.medTimers[userID] = timers
	}
	return nil
}

// ScheduleTaskReminders rebuilds the task timers for one user. Reminders
// fire a fixed offset before the due date; tasks already completed or
// whose reminder moment has passed are skipped silently.
func (s *ReminderScheduler) ScheduleTaskReminders(userID int64) error {
	tasks, err := s.tasks.ListByUser(userID)
	if err != nil {
		return fmt.Errorf("failed to load tasks for reminders: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelTaskTimersLocked(userID)

	now := s.now()
	timers := make(map[int64]*time.Timer)
	for _, task := range tasks {
		if task.IsCompleted {
			continue
		}
		remindAt := task.DueDate.Add(-taskReminderOffset)
		if !remindAt.After(now) {
			continue
		}
		taskID := task.ID
		timers[taskID] = time.AfterFunc(remindAt.Sub(now), func() {
			s.fireTaskReminder(userID, taskID)
		})
	}
	if len(timers) > 0 {
		s.taskTimers[userID] = timers
	}
	return nil
}

// InitializeUserReminders arms both medication and task reminders for a user
func (s *ReminderScheduler) InitializeUserReminders(userID int64) error {
	if err := s.ScheduleMedicationReminders(userID); err != nil {
		return err
	}
	return s.ScheduleTaskReminders(userID)
}

// fireMedicationReminder delivers one medication reminder and re-arms the
// user's medication timers for the next day. The medication is reloaded
// so a dose removed since arming fires nothing.
func (s *ReminderScheduler) fireMedicationReminder(userID, medicationID int64, timeOfDay string) {
	defer func() {
		if err := s.ScheduleMedicationReminders(userID); err != nil {
			log.Printf("Failed to re-arm medication reminders for user %d: %v", userID, err)
		}
	}()

	med, err := s.medications.GetByID(medicationID)
	if err != nil {
		log.Printf("Failed to load medication %d for reminder: %v", medicationID, err)
		return
	}
	if med == nil || med.UserID != userID {
		return
	}
	if times, err := med.ScheduleTimes(); err != nil || !slices.Contains(times, timeOfDay) {
		return
	}

	user, err := s.users.GetUserByID(userID)
	if err != nil || user == nil {
		log.Printf("Failed to load user %d for medication reminder: %v", userID, err)
		return
	}

	// Email failures are logged, never fatal: the in-app notification
	// still gets created
	if err := s.mailer.SendMedicationReminder(context.Background(), user.Email, user.FullName, med.Name, med.Dosage, timeOfDay); err != nil {
		log.Printf("Failed to send medication reminder email to user %d: %v", userID, err)
	}

	refID := med.ID
	if _, err := s.notifications.Create(&models.Notification{
		UserID:      userID,
		Type:        models.NotificationMedication,
		Title:       "Medication Reminder",
		Message:     fmt.Sprintf("Time to take %s (%s), scheduled for %s", med.Name, med.Dosage, timeOfDay),
		ReferenceID: &refID,
	}); err != nil {
		log.Printf("Failed to create medication reminder notification for user %d: %v", userID, err)
	}
}

// fireTaskReminder delivers one task reminder. Task reminders are
// one-shot: completing or deleting the task cancels the timer via a
// rebuild, and a fired timer is not re-armed.
func (s *ReminderScheduler) fireTaskReminder(userID, taskID int64) {
	s.mu.Lock()
	if timers, ok := s.taskTimers[userID]; ok {
		delete(timers, taskID)
	}
	s.mu.Unlock()

	task, err := s.tasks.GetByID(taskID)
	if err != nil {
		log.Printf("Failed to load task %d for reminder: %v", taskID, err)
		return
	}
	if task == nil || task.UserID != userID || task.IsCompleted {
		return
	}

	user, err := s.users.GetUserByID(userID)
	if err != nil || user == nil {
		log.Printf("Failed to load user %d for task reminder: %v", userID, err)
		return
	}

	if err := s.mailer.SendTaskReminder(context.Background(), user.Email, user.FullName, task.Title, task.DueDate); err != nil {
		log.Printf("Failed to send task reminder email to user %d: %v", userID, err)
	}

	refID := task.ID
	if _, err := s.notifications.Create(&models.Notification{
		UserID:      userID,
		Type:        models.NotificationTask,
		Title:       "Task Reminder",
		Message:     fmt.Sprintf("%q is due at %s", task.Title, task.DueDate.Format("15:04")),
		ReferenceID: &refID,
	}); err != nil {
		log.Printf("Failed to create task reminder notification for user %d: %v", userID, err)
	}
}

// Run periodically re-arms every user's reminders until the context is
// cancelled. The sweep covers restart recovery and any timer drift.
func (s *ReminderScheduler) Run(ctx context.Context, interval time.Duration) {
	s.sweep()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.Stop()
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *ReminderScheduler) sweep() {
	userIDs := make(map[int64]struct{})

	medUsers, err := s.medications.ListUserIDs()
	if err != nil {
		log.Printf("Reminder sweep: failed to list medication owners: %v", err)
	}
	for _, id := range medUsers {
		userIDs[id] = struct{}{}
	}

	taskUsers, err := s.tasks.ListUserIDsWithIncompleteTasks()
	if err != nil {
		log.Printf("Reminder sweep: failed to list task owners: %v", err)
	}
	for _, id := range taskUsers {
		userIDs[id] = struct{}{}
	}

	for id := range userIDs {
		if err := s.InitializeUserReminders(id); err != nil {
			log.Printf("Reminder sweep: failed to arm reminders for user %d: %v", id, err)
		}
	}

	if len(userIDs) > 0 {
		log.Printf("Reminder sweep: armed reminders for %d users", len(userIDs))
	}
}

// Stop cancels every armed timer
func (s *ReminderScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for userID := range s.medTimers {
		s.cancelMedTimersLocked(userID)
	}
	for userID := range s.taskTimers {
		s.cancelTaskTimersLocked(userID)
	}
}

func (s *ReminderScheduler) cancelMedTimersLocked(userID int64) {
	for _, timer := range s.medTimers[userID] {
		timer.Stop()
	}
	delete(s.medTimers, userID)
}

func (s *ReminderScheduler) cancelTaskTimersLocked(userID int64) {
	for _, timer := range s.taskTimers[userID] {
		timer.Stop()
	}
	delete(s.taskTimers, userID)
}
