// Package jobs runs periodic housekeeping against the database.
package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/todo-backend/internal/models"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

type PurgeResult struct {
	SystemLogs    int64
	RefreshTokens int64
}

type Janitor struct {
	db           *gorm.DB
	logRetention time.Duration
	now          func() time.Time
	cron         *cron.Cron
}

func NewJanitor(db *gorm.DB, logRetention time.Duration) *Janitor {
	return &Janitor{db: db, logRetention: logRetention, now: time.Now}
}

// Purge deletes old system logs and expired refresh tokens. Verification
// tokens are left to the reset flow, which deletes an expired one when it is
// redeemed and reports the expiry; there is at most one per account email.
func (j *Janitor) Purge(ctx context.Context) (PurgeResult, error) {
	now := j.now().UTC()
	db := j.db.WithContext(ctx)
	var res PurgeResult

	r := db.Where("timestamp < ?", now.Add(-j.logRetention)).Delete(&models.SystemLog{})
	if r.Error != nil {
		return res, r.Error
	}
	res.SystemLogs = r.RowsAffected

	r = db.Where("expires_at < ?", now).Delete(&models.RefreshToken{})
	if r.Error != nil {
		return res, r.Error
	}
	res.RefreshTokens = r.RowsAffected

	return res, nil
}

// Start schedules Purge on spec (standard five-field cron syntax).
func (j *Janitor) Start(spec string) error {
	c := cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger)))
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		res, err := j.Purge(ctx)
		if err != nil {
			slog.Error("janitor purge failed", "action", "purge", "error", err)
			return
		}
		slog.Info("janitor purge completed",
			"system_logs", res.SystemLogs,
			"refresh_tokens", res.RefreshTokens,
		)
	})
	if err != nil {
		return err
	}
	j.cron = c
	c.Start()
	return nil
}

// Stop waits for a running purge to finish.
func (j *Janitor) Stop() {
	if j.cron == nil {
		return
	}
	<-j.cron.Stop().Done()
}
