package repository

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/scytherma/loginshp-sub000/internal/model"
)

// testPool connects to TEST_DATABASE_URL with migrations already applied.
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	pool, err := NewPool(context.Background(), url)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

func TestPgExtraCostPresetRepository_MalformedIDIsNotFound(t *testing.T) {
	// no pool: the id is rejected before any query
	repo := &PgExtraCostPresetRepository{}
	ctx := context.Background()

	if _, err := repo.GetByID(ctx, "p1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID: expected ErrNotFound, got %v", err)
	}
	if err := repo.Update(ctx, &model.ExtraCostPreset{ID: "nope"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Update: expected ErrNotFound, got %v", err)
	}
	if err := repo.Delete(ctx, "1; DROP TABLE x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete: expected ErrNotFound, got %v", err)
	}
}

func TestPgSubscriptionRepository_TrialLifecycle(t *testing.T) {
	pool := testPool(t)
	repo := NewPgSubscriptionRepository(pool)
	ctx := context.Background()
	userID := uuid.NewString()

	if _, err := repo.GetByUserID(ctx, userID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for a new user, got %v", err)
	}

	trialEnds := time.Now().Add(7 * 24 * time.Hour).Truncate(time.Microsecond)
	sub, err := repo.CreateTrial(ctx, userID, trialEnds)
	if err != nil {
		t.Fatalf("CreateTrial failed: %v", err)
	}
	if sub.Status != model.SubscriptionFree || !sub.TrialEndsAt.Equal(trialEnds) {
		t.Errorf("unexpected trial %+v", sub)
	}

	if _, err := repo.CreateTrial(ctx, userID, trialEnds); !errors.Is(err, ErrDuplicate) {
		t.Errorf("expected ErrDuplicate on the second trial, got %v", err)
	}

	preapprovalID := "pre_" + uuid.NewString()
	if err := repo.SetPreapproval(ctx, userID, preapprovalID); err != nil {
		t.Fatalf("SetPreapproval failed: %v", err)
	}
	periodEnd := time.Now().Add(30 * 24 * time.Hour).Truncate(time.Microsecond)
	if err := repo.UpdateStatus(ctx, userID, model.SubscriptionActive, &periodEnd); err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}

	found, err := repo.GetByPreapprovalID(ctx, preapprovalID)
	if err != nil {
		t.Fatalf("GetByPreapprovalID failed: %v", err)
	}
	if found.UserID != userID || found.Status != model.SubscriptionActive {
		t.Errorf("unexpected subscription %+v", found)
	}
	if found.CurrentPeriodEnd == nil || !found.CurrentPeriodEnd.Equal(periodEnd) {
		t.Errorf("unexpected period end %v", found.CurrentPeriodEnd)
	}

	// a nil period end keeps the stored one
	if err := repo.UpdateStatus(ctx, userID, model.SubscriptionExpired, nil); err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}
	found, _ = repo.GetByUserID(ctx, userID)
	if found.Status != model.SubscriptionExpired || found.CurrentPeriodEnd == nil {
		t.Errorf("unexpected subscription after expiry %+v", found)
	}
}

func TestPgExtraCostPresetRepository_CRUDAndReorder(t *testing.T) {
	pool := testPool(t)
	repo := NewPgExtraCostPresetRepository(pool)
	ctx := context.Background()
	userID := uuid.NewString()

	var ids []string
	for _, label := range []string{"Embalagem", "Etiqueta", "Perdas"} {
		p := &model.ExtraCostPreset{UserID: userID, Label: label, Value: 1.5, Unit: "currency"}
		if err := repo.Create(ctx, p); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		ids = append(ids, p.ID)
	}

	list, err := repo.ListByUserID(ctx, userID)
	if err != nil {
		t.Fatalf("ListByUserID failed: %v", err)
	}
	if len(list) != 3 || list[0].Label != "Embalagem" || list[2].SortOrder != 2 {
		t.Fatalf("unexpected list %+v", list)
	}

	if err := repo.Reorder(ctx, userID, []string{ids[2], ids[0], ids[1], "not-a-uuid"}); err != nil {
		t.Fatalf("Reorder failed: %v", err)
	}
	list, _ = repo.ListByUserID(ctx, userID)
	if list[0].ID != ids[2] || list[1].ID != ids[0] {
		t.Errorf("unexpected order after reorder: %s, %s", list[0].Label, list[1].Label)
	}

	list[0].Value = 5
	list[0].Unit = "percentage"
	if err := repo.Update(ctx, list[0]); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	got, err := repo.GetByID(ctx, list[0].ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Value != 5 || got.Unit != "percentage" {
		t.Errorf("unexpected preset after update %+v", got)
	}

	if err := repo.Delete(ctx, ids[1]); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := repo.Delete(ctx, ids[1]); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}
