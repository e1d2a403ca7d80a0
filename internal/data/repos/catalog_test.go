package repos

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/rao305/boilerai-transcript/internal/data/repos/testutil"
	"github.com/rao305/boilerai-transcript/internal/domain"
)

func TestCatalogRepo_RoundTrip(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	repo := NewCatalogRepo(tx, testutil.Logger(t))

	n, err := repo.Count(ctx, nil)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected empty catalog, got %d", n)
	}

	courses := []*domain.CatalogCourse{
		{ID: uuid.New(), Subject: "MA", Number: "16500", Title: "Calc I", Credits: 4},
		{ID: uuid.New(), Subject: "CS", Number: "18000", Title: "Prob Solving", Credits: 4},
	}
	if err := repo.CreateBatch(ctx, nil, courses); err != nil {
		t.Fatalf("CreateBatch: %v", err)
	}

	got, err := repo.GetAll(ctx, nil)
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 courses, got %d", len(got))
	}
	if got[0].Code() != "CS 18000" || got[1].Code() != "MA 16500" {
		t.Fatalf("catalog out of order: %s, %s", got[0].Code(), got[1].Code())
	}

	if err := repo.CreateBatch(ctx, nil, nil); err != nil {
		t.Fatalf("empty CreateBatch should be a no-op: %v", err)
	}
}
