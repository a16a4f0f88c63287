package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/Malindup2/WattWise-sub000/pkg/log"
	"github.com/Malindup2/WattWise-sub000/pkg/types"
	"github.com/levenlabs/go-lflag"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// rangeReadConcurrency caps the parallel per-date reads a single range request
// can fan out to.
const rangeReadConcurrency = 8

// FirestoreProvider implements the Database interface using Google Cloud
// Firestore. Daily summaries live at users/{userID}/daily_usage/{date} with
// the document body stored as a JSON string for portability.
type FirestoreProvider struct {
	client    *firestore.Client
	projectID string
	database  string
}

// configuredFirestore sets up the Firestore provider.
// It registers flags for configuration.
func configuredFirestore() *FirestoreProvider {
	projectID := lflag.String("firestore-project-id", "", "Google Cloud Project ID for Firestore")
	database := lflag.String("firestore-database", "", "Google Cloud Firestore Database")
	emulator := lflag.String("firestore-emulator", "", "Use Firestore emulator")

	f := &FirestoreProvider{}

	lflag.Do(func() {
		f.projectID = *projectID
		f.database = *database

		// set this because that's how firestore client expects it
		if *emulator != "" {
			os.Setenv("FIRESTORE_EMULATOR_HOST", *emulator)
		}
	})

	return f
}

// Validate checks if the provider is properly configured.
func (f *FirestoreProvider) Validate() error {
	// Project ID verification could be here, but we allow empty if inferred.
	return nil
}

// Init initializes the Firestore client.
// This must be called before using the provider methods.
func (f *FirestoreProvider) Init(ctx context.Context) error {
	projectID := f.projectID
	if projectID == "" {
		projectID = firestore.DetectProjectID
	}
	database := f.database
	if database == "" {
		database = firestore.DefaultDatabaseID
	}
	client, err := firestore.NewClientWithDatabase(ctx, projectID, database)
	if err != nil {
		return fmt.Errorf("failed to create firestore client (project=%s, database=%s): %w", projectID, database, err)
	}
	f.client = client
	return nil
}

// Close closes the Firestore client connection.
func (f *FirestoreProvider) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}

func (f *FirestoreProvider) dailyUsage(userID string) (*firestore.CollectionRef, error) {
	if userID == "" {
		return nil, fmt.Errorf("userID cannot be empty")
	}
	return f.client.Collection("users").Doc(userID).Collection("daily_usage"), nil
}

// GetDailySummary retrieves one daily usage document. Returns
// ErrSummaryNotFound when no entry was ever logged that day.
func (f *FirestoreProvider) GetDailySummary(ctx context.Context, userID, date string) (types.DailyUsageSummary, error) {
	coll, err := f.dailyUsage(userID)
	if err != nil {
		return types.DailyUsageSummary{}, err
	}
	doc, err := coll.Doc(date).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return types.DailyUsageSummary{}, fmt.Errorf("%w: %s/%s", ErrSummaryNotFound, userID, date)
		}
		return types.DailyUsageSummary{}, fmt.Errorf("failed to fetch daily summary %s/%s: %w", userID, date, err)
	}

	val, err := doc.DataAt("json")
	if err != nil {
		log.Ctx(ctx).WarnContext(ctx, "daily summary doc missing json", slog.String("userID", userID), slog.String("date", date))
		return types.DailyUsageSummary{}, fmt.Errorf("daily summary %s/%s missing 'json' field: %w", userID, date, err)
	}
	jsonStr, ok := val.(string)
	if !ok {
		log.Ctx(ctx).WarnContext(ctx, "daily summary doc json not string", slog.String("userID", userID), slog.String("date", date))
		return types.DailyUsageSummary{}, fmt.Errorf("daily summary %s/%s 'json' field is not a string", userID, date)
	}

	var s types.DailyUsageSummary
	if err := json.Unmarshal([]byte(jsonStr), &s); err != nil {
		log.Ctx(ctx).WarnContext(ctx, "failed to unmarshal daily summary", slog.String("userID", userID), slog.String("date", date), slog.Any("err", err))
		return types.DailyUsageSummary{}, fmt.Errorf("failed to unmarshal daily summary %s/%s: %w", userID, date, err)
	}
	return s, nil
}

// PutDailySummary creates or fully replaces a daily usage document. The
// document ID is the YYYY-MM-DD date so per-day lookups need no query.
func (f *FirestoreProvider) PutDailySummary(ctx context.Context, userID, date string, summary types.DailyUsageSummary) error {
	jsonBytes, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to marshal daily summary: %w", err)
	}

	coll, err := f.dailyUsage(userID)
	if err != nil {
		return err
	}
	_, err = coll.Doc(date).Set(ctx, map[string]interface{}{
		"json":      string(jsonBytes),
		"date":      date,
		"updatedAt": time.Now().UTC(),
		"version":   types.CurrentDailySummaryVersion,
	})
	if err != nil {
		return fmt.Errorf("failed to put daily summary %s/%s: %w", userID, date, err)
	}
	return nil
}

// DeleteDailySummary removes a daily usage document. Firestore deletes are
// idempotent so deleting an absent document succeeds.
func (f *FirestoreProvider) DeleteDailySummary(ctx context.Context, userID, date string) error {
	coll, err := f.dailyUsage(userID)
	if err != nil {
		return err
	}
	if _, err := coll.Doc(date).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete daily summary %s/%s: %w", userID, date, err)
	}
	return nil
}

// GetDailySummaryRange reads the documents for every date in [start, end]
// concurrently and returns the ones that exist, sorted ascending by date.
// There is no native range query over this key so this is N independent gets;
// a transient failure on one date drops that date from the result instead of
// failing the whole range.
func (f *FirestoreProvider) GetDailySummaryRange(ctx context.Context, userID, start, end string) ([]types.DailyUsageSummary, error) {
	dates, err := datesBetween(start, end)
	if err != nil {
		return nil, err
	}

	results := make([]*types.DailyUsageSummary, len(dates))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(rangeReadConcurrency)
	for i, date := range dates {
		eg.Go(func() error {
			s, err := f.GetDailySummary(egCtx, userID, date)
			if err != nil {
				// absence is expected; anything else degrades to a missing day
				if !errors.Is(err, ErrSummaryNotFound) {
					log.Ctx(egCtx).WarnContext(egCtx, "dropping failed day from range read",
						slog.String("userID", userID), slog.String("date", date), slog.Any("err", err))
				}
				return nil
			}
			results[i] = &s
			return nil
		})
	}
	// the goroutines never return errors but Wait also surfaces ctx errors
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	summaries := make([]types.DailyUsageSummary, 0, len(results))
	for _, s := range results {
		if s != nil {
			summaries = append(summaries, *s)
		}
	}
	return summaries, nil
}

// GetLatestUsageDate returns the most recent date that has a persisted daily
// summary, or empty when the user has none.
func (f *FirestoreProvider) GetLatestUsageDate(ctx context.Context, userID string) (string, error) {
	coll, err := f.dailyUsage(userID)
	if err != nil {
		return "", err
	}

	// firestore automatically creates indexes for top-level fields
	iter := coll.
		OrderBy("date", firestore.Desc).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get latest daily summary: %w", err)
	}
	if _, err := types.ParseDate(doc.Ref.ID); err != nil {
		return "", fmt.Errorf("invalid daily summary doc id %s: %w", doc.Ref.ID, err)
	}
	return doc.Ref.ID, nil
}

// datesBetween expands an inclusive date range into its YYYY-MM-DD keys.
func datesBetween(start, end string) ([]string, error) {
	startT, err := types.ParseDate(start)
	if err != nil {
		return nil, fmt.Errorf("start: %w", err)
	}
	endT, err := types.ParseDate(end)
	if err != nil {
		return nil, fmt.Errorf("end: %w", err)
	}
	if endT.Before(startT) {
		return nil, fmt.Errorf("end date %s before start date %s", end, start)
	}
	days := int(endT.Sub(startT)/(24*time.Hour)) + 1
	if days > MaxRangeDays {
		return nil, fmt.Errorf("range of %d days exceeds maximum of %d", days, MaxRangeDays)
	}

	dates := make([]string, 0, days)
	for t := startT; !t.After(endT); t = t.AddDate(0, 0, 1) {
		dates = append(dates, t.Format(types.DateLayout))
	}
	return dates, nil
}
