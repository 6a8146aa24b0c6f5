package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/todo-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/todo-backend/internal/testutil"
)

func TestPurge(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.CreateUser(t, db, "ada@example.com", "password123")
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	logs := []models.SystemLog{
		{Timestamp: now.AddDate(0, 0, -40), Level: "ERROR", Message: "old"},
		{Timestamp: now.AddDate(0, 0, -1), Level: "ERROR", Message: "recent"},
	}
	tokens := []models.VerificationToken{
		{Identifier: "ada@example.com", Token: "long-expired", Expires: now.Add(-48 * time.Hour)},
		{Identifier: "ada@example.com", Token: "just-expired", Expires: now.Add(-time.Hour)},
		{Identifier: "ada@example.com", Token: "valid", Expires: now.Add(time.Hour)},
	}
	refresh := []models.RefreshToken{
		{UserID: user.ID, TokenHash: "expired", ExpiresAt: now.Add(-time.Minute)},
		{UserID: user.ID, TokenHash: "live", ExpiresAt: now.Add(time.Hour)},
	}
	for _, rows := range []any{&logs, &tokens, &refresh} {
		if err := db.Create(rows).Error; err != nil {
			t.Fatal(err)
		}
	}

	j := NewJanitor(db, 30*24*time.Hour)
	j.now = func() time.Time { return now }

	res, err := j.Purge(context.Background())
	if err != nil {
		t.Fatalf("Purge() error = %v", err)
	}
	want := PurgeResult{SystemLogs: 1, RefreshTokens: 1}
	if res != want {
		t.Errorf("Purge() = %+v, want %+v", res, want)
	}

	if n := testutil.Count(t, db, &models.VerificationToken{}, ""); n != int64(len(tokens)) {
		t.Errorf("verification tokens = %d, want all %d kept so a reset attempt can report expiry", n, len(tokens))
	}

	res, err = j.Purge(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if res != (PurgeResult{}) {
		t.Errorf("second Purge() = %+v, want nothing left to delete", res)
	}
}

func TestStartRejectsBadSchedule(t *testing.T) {
	j := NewJanitor(testutil.NewDB(t), time.Hour)
	if err := j.Start("not a cron spec"); err == nil {
		j.Stop()
		t.Fatal("expected an error for an invalid schedule")
	}
	j.Stop()
}
