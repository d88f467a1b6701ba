package store

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	mongoUtil "github.com/MPEnsystemsDeveloper/trim-v1/config/mongo"
	"github.com/MPEnsystemsDeveloper/trim-v1/entity"
)

// stagingSuffix names the side collection the aggregate stage writes to
// before the atomic rename over the live one.
const stagingSuffix = "_staging"

// Store owns the Mongo client and the two data collections. It is
// constructed once per process (API) or once per run (ETL jobs) and
// passed down explicitly.
type Store struct {
	client    *mongo.Client
	db        *mongo.Database
	processed *mongo.Collection
	daily     *mongo.Collection
	runs      *mongo.Collection
}

func Open(ctx context.Context, uri, database string) (*Store, error) {
	client, err := mongoUtil.Connect(ctx, uri)
	if err != nil {
		return nil, err
	}
	db := client.Database(database)
	return &Store{
		client:    client,
		db:        db,
		processed: db.Collection(entity.ProcessedReadingEntity{}.CollectionName()),
		daily:     db.Collection(entity.DailySummaryEntity{}.CollectionName()),
		runs:      db.Collection(entity.PipelineRunEntity{}.CollectionName()),
	}, nil
}

func (s *Store) Close() error {
	return mongoUtil.Disconnect(s.client)
}

// InsertProcessed appends readings to the processed collection. No
// clearing and no dedup key: repeated runs over the same file duplicate
// documents, which is the transform stage's contract.
func (s *Store) InsertProcessed(ctx context.Context, docs []entity.ProcessedReadingEntity) (int, error) {
	if len(docs) == 0 {
		return 0, nil
	}
	rows := make([]interface{}, len(docs))
	for i, d := range docs {
		rows[i] = d
	}
	res, err := s.processed.InsertMany(ctx, rows)
	if err != nil {
		// whatever the store already accepted mid-batch stays accepted
		inserted := 0
		if res != nil {
			inserted = len(res.InsertedIDs)
		}
		return inserted, fmt.Errorf("insert processed readings: %w", err)
	}
	return len(res.InsertedIDs), nil
}

// ReplaceDailySummaries replaces the daily collection's contents in one
// observable step: the documents are inserted into a staging collection
// which is then renamed over the live one with dropTarget, so readers
// never see the window between clear and reinsert.
func (s *Store) ReplaceDailySummaries(ctx context.Context, docs []entity.DailySummaryEntity) error {
	if len(docs) == 0 {
		return nil
	}
	stagingName := s.daily.Name() + stagingSuffix
	staging := s.db.Collection(stagingName)

	// leftovers from an aborted previous run
	if err := staging.Drop(ctx); err != nil {
		return fmt.Errorf("drop staging collection: %w", err)
	}

	rows := make([]interface{}, len(docs))
	for i, d := range docs {
		rows[i] = d
	}
	if _, err := staging.InsertMany(ctx, rows); err != nil {
		return fmt.Errorf("insert daily summaries: %w", err)
	}

	cmd := bson.D{
		{Key: "renameCollection", Value: s.db.Name() + "." + stagingName},
		{Key: "to", Value: s.db.Name() + "." + s.daily.Name()},
		{Key: "dropTarget", Value: true},
	}
	if err := s.client.Database("admin").RunCommand(ctx, cmd).Err(); err != nil {
		return fmt.Errorf("swap daily summaries: %w", err)
	}
	return nil
}

// DistinctDevices returns the union of device names seen in either
// collection, ascending and case-sensitive.
func (s *Store) DistinctDevices(ctx context.Context) ([]string, error) {
	seen := map[string]struct{}{}
	for _, coll := range []*mongo.Collection{s.processed, s.daily} {
		values, err := coll.Distinct(ctx, "device_name", bson.D{})
		if err != nil {
			return nil, fmt.Errorf("distinct device_name on %s: %w", coll.Name(), err)
		}
		for _, v := range values {
			if name, ok := v.(string); ok {
				seen[name] = struct{}{}
			}
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// LatestReadingTime returns the newest reading timestamp for a device.
// The second return is false when the device has no readings at all.
func (s *Store) LatestReadingTime(ctx context.Context, device string) (time.Time, bool, error) {
	var doc entity.ProcessedReadingEntity
	err := s.processed.FindOne(ctx,
		bson.M{"device_name": device},
		options.FindOne().SetSort(bson.D{{Key: "timestamp", Value: -1}}),
	).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("latest reading for %s: %w", device, err)
	}
	return doc.Timestamp, true, nil
}

// ReadingsInRange returns a device's readings within the inclusive
// range, ascending by timestamp.
func (s *Store) ReadingsInRange(ctx context.Context, device string, from, to time.Time) ([]entity.ProcessedReadingEntity, error) {
	filter := bson.M{
		"device_name": device,
		"timestamp":   bson.M{"$gte": from, "$lte": to},
	}
	cur, err := s.processed.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find readings for %s: %w", device, err)
	}
	defer cur.Close(ctx)

	readings := []entity.ProcessedReadingEntity{}
	if err := cur.All(ctx, &readings); err != nil {
		return nil, fmt.Errorf("decode readings for %s: %w", device, err)
	}
	return readings, nil
}

// LatestSummaryDate returns the newest summary date for a device.
func (s *Store) LatestSummaryDate(ctx context.Context, device string) (time.Time, bool, error) {
	var doc entity.DailySummaryEntity
	err := s.daily.FindOne(ctx,
		bson.M{"device_name": device},
		options.FindOne().SetSort(bson.D{{Key: "date", Value: -1}}),
	).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("latest summary for %s: %w", device, err)
	}
	return doc.Date, true, nil
}

// SummariesInRange returns a device's daily summaries within the
// inclusive range, ascending by date.
func (s *Store) SummariesInRange(ctx context.Context, device string, from, to time.Time) ([]entity.DailySummaryEntity, error) {
	filter := bson.M{
		"device_name": device,
		"date":        bson.M{"$gte": from, "$lte": to},
	}
	cur, err := s.daily.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "date", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find summaries for %s: %w", device, err)
	}
	defer cur.Close(ctx)

	summaries := []entity.DailySummaryEntity{}
	if err := cur.All(ctx, &summaries); err != nil {
		return nil, fmt.Errorf("decode summaries for %s: %w", device, err)
	}
	return summaries, nil
}

// SaveRun upserts a pipeline run record by its run id.
func (s *Store) SaveRun(ctx context.Context, run entity.PipelineRunEntity) error {
	_, err := s.runs.ReplaceOne(ctx,
		bson.M{"_id": run.RunId},
		run,
		options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save pipeline run %s: %w", run.RunId, err)
	}
	return nil
}
