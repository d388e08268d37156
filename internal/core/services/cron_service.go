package services

import (
	"context"
	"log"
	"time"

	"prestamax/internal/adapters/persistence/repositories"
	"prestamax/internal/core/domain"

	"github.com/robfig/cron/v3"
)

// CronService runs scheduled housekeeping jobs
type CronService struct {
	cron             *cron.Cron
	appService       *ApplicationService
	appRepo          ApplicationStore
	refreshTokenRepo repositories.RefreshTokenRepository
	publisher        EventPublisher

	draftExpiryDays  int
	docsReminderDays int
}

// NewCronService creates a new cron service
func NewCronService(
	appService *ApplicationService,
	appRepo ApplicationStore,
	refreshTokenRepo repositories.RefreshTokenRepository,
	publisher EventPublisher,
	draftExpiryDays, docsReminderDays int,
) *CronService {
	return &CronService{
		cron:             cron.New(),
		appService:       appService,
		appRepo:          appRepo,
		refreshTokenRepo: refreshTokenRepo,
		publisher:        publisher,
		draftExpiryDays:  draftExpiryDays,
		docsReminderDays: docsReminderDays,
	}
}

// Start registers and launches all scheduled jobs
func (s *CronService) Start() {
	// Expire abandoned drafts daily at 01:00
	s.cron.AddFunc("0 1 * * *", s.expireStaleDrafts)

	// Remind stalled document requests daily at 09:00
	s.cron.AddFunc("0 9 * * *", s.remindStaleDocsPending)

	// Purge expired refresh tokens daily at 03:00
	s.cron.AddFunc("0 3 * * *", s.cleanupExpiredTokens)

	s.cron.Start()
	log.Println("🚀 CronService started")
}

// Stop stops the scheduler and waits for running jobs
func (s *CronService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("🛑 CronService stopped")
}

// expireStaleDrafts cancels DRAFT applications untouched for longer than the
// configured number of days. Goes through the normal transition path so each
// cancellation leaves a history row.
func (s *CronService) expireStaleDrafts() {
	ctx := context.Background()
	cutoff := time.Now().AddDate(0, 0, -s.draftExpiryDays)

	apps, err := s.appRepo.ListByStatus(ctx, 0, []string{string(domain.StatusDraft)})
	if err != nil {
		log.Printf("❌ Stale draft query error: %v", err)
		return
	}

	cancelled := 0
	for _, app := range apps {
		if app.UpdatedAt.After(cutoff) {
			continue
		}
		_, err := s.appService.Cancel(ctx, app.TenantID, app.ID, 0, domain.ActorSystem, "draft expired")
		if err != nil {
			log.Printf("❌ Stale draft cancel error for %s: %v", app.Folio, err)
			continue
		}
		cancelled++
	}

	if cancelled > 0 {
		log.Printf("🗑️ Cancelled %d expired draft applications", cancelled)
	}
}

// remindStaleDocsPending nudges the webhook for applications stuck waiting on
// documents or corrections
func (s *CronService) remindStaleDocsPending() {
	ctx := context.Background()
	cutoff := time.Now().AddDate(0, 0, -s.docsReminderDays)

	apps, err := s.appRepo.ListByStatus(ctx, 0, []string{
		string(domain.StatusDocsPending),
		string(domain.StatusCorrectionsPending),
	})
	if err != nil {
		log.Printf("❌ Docs reminder query error: %v", err)
		return
	}

	reminded := 0
	for _, app := range apps {
		if app.UpdatedAt.After(cutoff) {
			continue
		}
		if s.publisher != nil {
			s.publisher.Publish(ctx, domain.StatusChanged{
				ApplicationID: app.ID,
				Folio:         app.Folio,
				TenantID:      app.TenantID,
				From:          app.CurrentStatus(),
				To:            app.CurrentStatus(),
				ActorType:     domain.ActorSystem,
				Notes:         "documents still pending",
				OccurredAt:    time.Now(),
			})
		}
		reminded++
	}

	if reminded > 0 {
		log.Printf("📅 Sent %d document reminders", reminded)
	}
}

// cleanupExpiredTokens purges expired refresh tokens
func (s *CronService) cleanupExpiredTokens() {
	if err := s.refreshTokenRepo.DeleteExpired(context.Background()); err != nil {
		log.Printf("❌ Token cleanup error: %v", err)
		return
	}
	log.Println("🧹 Expired refresh tokens purged")
}
