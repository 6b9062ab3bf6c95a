package testdata

import (
	"context"
	"math/rand/v2"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/annotate/internal/database"
	"github.com/jask/annotate/internal/service"
)

func TestSeed(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "seed.db")
	require.NoError(t, database.RunMigrations(dbPath))
	db, err := database.Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	svc := &service.AnnotationService{DB: db, UpdatedBy: "seeder"}

	seeded, err := Seed(ctx, svc, "demo-index", 12, rand.New(rand.NewPCG(1, 2)))
	require.NoError(t, err)
	require.Len(t, seeded, 12)
	for _, a := range seeded {
		require.True(t, a.Status.Valid())
		require.Equal(t, "seeder", a.UpdatedBy)
	}

	page, err := svc.Search(ctx, "demo-index", "seed-", 0)
	require.NoError(t, err)
	require.Len(t, page, service.SearchPageLimit)

	history, err := svc.History(ctx, "demo-index", seeded[0].ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
}
