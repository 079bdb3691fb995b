package alerting

import (
	"context"
	"time"

	"github.com/fundwatch/fundwatch/internal/datastore/entities"
)

// ActivityReader serves the contribution records newer than a given
// instant. repository.ContributionStore satisfies it; tests use fixtures.
type ActivityReader interface {
	Since(ctx context.Context, since time.Time) ([]entities.Contribution, error)
}

// ActivitySnapshot is the set of aggregates derived from one activity
// window. It backs both condition evaluation and template rendering.
type ActivitySnapshot struct {
	TotalAmount        float64
	ContributionCount  int
	UniqueContributors int
	Latest             *entities.Contribution
}

// Snapshot computes the aggregates for a window of records. Records are
// expected oldest first, as ActivityReader returns them.
func Snapshot(records []entities.Contribution) ActivitySnapshot {
	snap := ActivitySnapshot{ContributionCount: len(records)}
	members := make(map[string]struct{}, len(records))
	for i := range records {
		r := &records[i]
		snap.TotalAmount += r.Amount
		members[r.MemberID] = struct{}{}
		if snap.Latest == nil || r.CreatedAt.After(snap.Latest.CreatedAt) {
			snap.Latest = r
		}
	}
	snap.UniqueContributors = len(members)
	return snap
}

// AverageAmount returns the mean contribution, 0 for an empty window.
func (s ActivitySnapshot) AverageAmount() float64 {
	if s.ContributionCount == 0 {
		return 0
	}
	return s.TotalAmount / float64(s.ContributionCount)
}
