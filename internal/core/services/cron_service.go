package services

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// DefaultDigestSchedule runs the repledge digest at 08:30 every day
const DefaultDigestSchedule = "30 8 * * *"

const tokenPurgeSchedule = "@hourly"

// TokenPurger deletes expired refresh tokens
type TokenPurger interface {
	PurgeExpiredTokens(ctx context.Context) (int64, error)
}

// CronService runs the scheduled background jobs
type CronService struct {
	cron           *cron.Cron
	digest         *DigestService
	tokens         TokenPurger
	digestSchedule string
	jobTimeout     time.Duration
	logger         *zap.Logger
}

// NewCronService creates a new cron service. Schedules are evaluated in loc.
func NewCronService(digest *DigestService, tokens TokenPurger, digestSchedule string, loc *time.Location, logger *zap.Logger) *CronService {
	if digestSchedule == "" {
		digestSchedule = DefaultDigestSchedule
	}
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CronService{
		cron:           cron.New(cron.WithLocation(loc)),
		digest:         digest,
		tokens:         tokens,
		digestSchedule: digestSchedule,
		jobTimeout:     5 * time.Minute,
		logger:         logger,
	}
}

// Start registers every job and starts the scheduler
func (s *CronService) Start() error {
	if s.digest != nil {
		if _, err := s.cron.AddFunc(s.digestSchedule, s.runDigest); err != nil {
			return err
		}
	}
	if s.tokens != nil {
		if _, err := s.cron.AddFunc(tokenPurgeSchedule, s.purgeTokens); err != nil {
			return err
		}
	}

	s.cron.Start()
	s.logger.Info("cron started",
		zap.String("digest", s.digestSchedule),
		zap.Int("jobs", len(s.cron.Entries())),
	)
	return nil
}

// Stop stops the scheduler and waits for running jobs
func (s *CronService) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("cron stopped")
}

func (s *CronService) runDigest() {
	ctx, cancel := context.WithTimeout(context.Background(), s.jobTimeout)
	defer cancel()

	if _, err := s.digest.Run(ctx); err != nil {
		s.logger.Error("repledge digest failed", zap.Error(err))
	}
}

func (s *CronService) purgeTokens() {
	ctx, cancel := context.WithTimeout(context.Background(), s.jobTimeout)
	defer cancel()

	if _, err := s.tokens.PurgeExpiredTokens(ctx); err != nil {
		s.logger.Error("refresh token purge failed", zap.Error(err))
	}
}
