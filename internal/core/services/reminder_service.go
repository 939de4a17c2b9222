package services

import (
	"context"
	"log"

	"libtrack/internal/adapters/persistence/repositories"
	"libtrack/internal/config"

	"github.com/robfig/cron/v3"
)

// ReminderService runs the daily maintenance sweep: overdue loan
// reminders and expired refresh token cleanup.
type ReminderService struct {
	loanRepo  repositories.LoanRepository
	tokenRepo repositories.RefreshTokenRepository
	cfg       *config.Config
	cron      *cron.Cron
}

// NewReminderService creates a new reminder service
func NewReminderService(loanRepo repositories.LoanRepository, tokenRepo repositories.RefreshTokenRepository, cfg *config.Config) *ReminderService {
	return &ReminderService{
		loanRepo:  loanRepo,
		tokenRepo: tokenRepo,
		cfg:       cfg,
		cron:      cron.New(),
	}
}

// Start schedules the daily sweep at 08:30 server time
func (s *ReminderService) Start() error {
	_, err := s.cron.AddFunc("30 8 * * *", func() {
		s.RunSweep(context.Background())
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	log.Printf("✅ Overdue reminder scheduled (daily 08:30, threshold %d days)", s.cfg.Loans.OverdueDays)
	return nil
}

// Stop stops the scheduler and waits for a running sweep to finish
func (s *ReminderService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("🛑 Overdue reminder stopped")
}

// RunSweep logs every loan open longer than the configured threshold
// and drops refresh tokens past their expiry. Exposed so the sweep can
// be triggered outside the schedule.
func (s *ReminderService) RunSweep(ctx context.Context) {
	if err := s.tokenRepo.DeleteExpired(ctx); err != nil {
		log.Printf("⚠️ Expired token cleanup failed: %v", err)
	}

	overdue, err := s.loanRepo.ListOverdue(ctx, s.cfg.Loans.OverdueDays)
	if err != nil {
		log.Printf("⚠️ Overdue sweep failed: %v", err)
		return
	}

	if len(overdue) == 0 {
		log.Println("✅ Overdue sweep: no overdue loans")
		return
	}

	for _, loan := range overdue {
		log.Printf("⚠️ Overdue loan: user %s holds %q since %s (loan ID: %d)",
			loan.Username, loan.BookName, loan.LoanedAt.Format("2006-01-02"), loan.ID)
	}
	log.Printf("⚠️ Overdue sweep: %d loan(s) past %d days", len(overdue), s.cfg.Loans.OverdueDays)
}
