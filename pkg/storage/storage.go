package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/Malindup2/WattWise-sub000/pkg/types"
	"github.com/levenlabs/go-lflag"
)

// ErrSummaryNotFound means no daily document exists for that user+date.
// Absence is a first-class outcome: it means no entry was ever logged that
// day, which is different from a day that summed to zero.
var ErrSummaryNotFound = errors.New("daily summary not found")

// MaxRangeDays bounds GetDailySummaryRange since there is no native range
// query over the (userID, date) key and each day costs one read.
const MaxRangeDays = 92

// Database is the persistence boundary for daily usage documents, keyed by
// (userID, date). Writes are whole-document replaces with last-writer-wins
// semantics; there is no partial-field merge at this layer.
type Database interface {
	// GetDailySummary returns the summary for one user+date, or
	// ErrSummaryNotFound.
	GetDailySummary(ctx context.Context, userID, date string) (types.DailyUsageSummary, error)

	// PutDailySummary creates or fully replaces the summary for one user+date.
	PutDailySummary(ctx context.Context, userID, date string, summary types.DailyUsageSummary) error

	// DeleteDailySummary removes the summary document. Deleting an absent
	// document is not an error.
	DeleteDailySummary(ctx context.Context, userID, date string) error

	// GetDailySummaryRange returns the summaries between start and end
	// (inclusive, YYYY-MM-DD) sorted ascending by date. Days with no document
	// are omitted. A failed read for a single day degrades to omitting that
	// day rather than failing the range; callers that need hard consistency
	// must re-request.
	GetDailySummaryRange(ctx context.Context, userID, start, end string) ([]types.DailyUsageSummary, error)

	// GetLatestUsageDate returns the most recent date with a persisted
	// summary, or empty when the user has none.
	GetLatestUsageDate(ctx context.Context, userID string) (string, error)

	// Lifecycle
	Close() error
}

// Configured sets up the storage provider based on flags.
func Configured() Database {
	provider := lflag.String("storage-provider", "firestore", "Storage provider to use (available: firestore)")

	var p struct{ Database }

	fs := configuredFirestore()

	lflag.Do(func() {
		switch *provider {
		case "firestore":
			if err := fs.Validate(); err != nil {
				panic(fmt.Sprintf("firestore validation failed: %v", err))
			}
			p.Database = fs
			if err := fs.Init(context.Background()); err != nil {
				panic(fmt.Sprintf("firestore init failed: %v", err))
			}
		default:
			panic(fmt.Sprintf("unknown storage provider: %s", *provider))
		}
	})

	return &p
}
