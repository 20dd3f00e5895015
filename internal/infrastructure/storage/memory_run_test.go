package storage

import (
	"context"
	"testing"
	"time"

	"github.com/yourusername/amazon-listing-agent/internal/domain/entity"
)

func TestMemoryRunRepository(t *testing.T) {
	repo := NewMemoryRunRepository()
	ctx := context.Background()

	base := time.Now()
	for i, id := range []string{"run-1", "run-2", "run-3"} {
		err := repo.SaveRun(ctx, entity.RunReport{
			ID:        id,
			Total:     5,
			Succeeded: 4,
			Dialect:   entity.DialectFlatFile,
			StartedAt: base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("SaveRun failed: %v", err)
		}
	}

	recent, err := repo.GetRecent(ctx, 2)
	if err != nil {
		t.Fatalf("GetRecent failed: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 reports, got %d", len(recent))
	}

	// Eng yangisi birinchi
	if recent[0].ID != "run-3" || recent[1].ID != "run-2" {
		t.Fatalf("unexpected order: %s, %s", recent[0].ID, recent[1].ID)
	}

	all, err := repo.GetRecent(ctx, 0)
	if err != nil {
		t.Fatalf("GetRecent failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected all 3 reports, got %d", len(all))
	}
}
