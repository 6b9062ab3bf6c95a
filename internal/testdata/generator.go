// Package testdata seeds an index with sample annotations.
package testdata

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"

	"github.com/jask/annotate/internal/annotation"
	"github.com/jask/annotate/internal/service"
)

// Creator is the subset of the annotation service Seed needs.
type Creator interface {
	Create(ctx context.Context, index, id string) (annotation.Annotation, error)
	Update(ctx context.Context, index, id string, upd annotation.Annotation) (annotation.Annotation, error)
}

var (
	assignees = []string{"", "alex", "sam", "robin", "kai"}
	contents  = []string{
		"",
		"spike in error rate",
		"duplicate record",
		"needs review by owner",
		"false positive",
	}
)

// Seed creates n annotations in index with randomised assignee, content and
// status. A nil rng uses a time-seeded source. Keys that already exist are
// skipped.
func Seed(ctx context.Context, svc Creator, index string, n int, rng *rand.Rand) ([]annotation.Annotation, error) {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	statuses := annotation.Statuses()
	out := make([]annotation.Annotation, 0, n)
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("seed-%03d-%s", i, uuid.NewString()[:8])
		if _, err := svc.Create(ctx, index, id); err != nil {
			if errors.Is(err, service.ErrExists) {
				continue
			}
			return out, fmt.Errorf("seed %s: %w", id, err)
		}
		a, err := svc.Update(ctx, index, id, annotation.Annotation{
			AssignTo: assignees[rng.IntN(len(assignees))],
			Content:  contents[rng.IntN(len(contents))],
			Status:   statuses[rng.IntN(len(statuses))],
		})
		if err != nil {
			return out, fmt.Errorf("seed %s: %w", id, err)
		}
		out = append(out, a)
	}
	return out, nil
}
