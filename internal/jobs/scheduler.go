package jobs

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"elementleAPI/internal/notification"
	"elementleAPI/services"
)

// Scheduler owns the recurring maintenance jobs. All schedules run in
// UTC to line up with the puzzle day boundary.
type Scheduler struct {
	cron                *cron.Cron
	streakService       *services.StreakService
	badgeService        *services.BadgeService
	notificationService *services.NotificationService
}

func NewScheduler(streakService *services.StreakService, badgeService *services.BadgeService, notificationService *services.NotificationService) *Scheduler {
	return &Scheduler{
		cron:                cron.New(cron.WithLocation(time.UTC)),
		streakService:       streakService,
		badgeService:        badgeService,
		notificationService: notificationService,
	}
}

func (s *Scheduler) Start() error {
	// Close elapsed holiday windows right after the day flips.
	if _, err := s.cron.AddFunc("0 0 * * *", s.closeExpiredHolidays); err != nil {
		return err
	}

	// Monthly saver allowance reset, first of the month.
	if _, err := s.cron.AddFunc("5 0 1 * *", s.resetMonthlySavers); err != nil {
		return err
	}

	// Freeze last month's rankings once the saver reset is done.
	if _, err := s.cron.AddFunc("30 0 1 * *", s.snapshotMonthlyRankings); err != nil {
		return err
	}

	s.cron.Start()
	log.Println("Job scheduler started")
	return nil
}

func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("Job scheduler stopped")
}

func (s *Scheduler) closeExpiredHolidays() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	userIDs, err := s.streakService.CloseExpiredHolidays(ctx)
	if err != nil {
		log.Printf("closeExpiredHolidays failed: %v", err)
		return
	}
	if len(userIDs) == 0 {
		return
	}

	log.Printf("Closed %d expired holidays", len(userIDs))
	for _, userID := range userIDs {
		s.notificationService.Notify(ctx, holidayEndedNotification(userID))
	}
}

// holidayEndedNotification builds the in-app message sent when a
// holiday window runs out on its own.
func holidayEndedNotification(userID uuid.UUID) *notification.CreateNotificationRequest {
	return &notification.CreateNotificationRequest{
		UserID: userID,
		Type:   notification.TypeHolidayEnded,
		Title:  "Holiday ended",
		Body:   "Your streak holiday is over. Play today's puzzle to keep your streak going!",
	}
}

func (s *Scheduler) resetMonthlySavers() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := s.streakService.ResetMonthlySavers(ctx); err != nil {
		log.Printf("resetMonthlySavers failed: %v", err)
		return
	}
	log.Println("Monthly streak saver counters reset")
}

func (s *Scheduler) snapshotMonthlyRankings() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	stored, err := s.badgeService.SnapshotMonthlyRankings(ctx)
	if err != nil {
		log.Printf("snapshotMonthlyRankings failed: %v", err)
		return
	}
	log.Printf("Stored %d monthly ranking rows", stored)
}
