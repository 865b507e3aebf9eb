package repository

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/comitanigiacomo/lifeos/internal/core/domain"
)

var _ domain.DailyLogRepository = (*MongoDailyLogRepository)(nil)

type MongoDailyLogRepository struct {
	coll *mongo.Collection
}

func NewMongoDailyLogRepository(db *mongo.Database) *MongoDailyLogRepository {
	return &MongoDailyLogRepository{
		coll: db.Collection(dailyLogsCollection),
	}
}

func (r *MongoDailyLogRepository) FindOne(ctx context.Context, userID, date string) (*domain.DailyLog, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var l domain.DailyLog
	if err := r.coll.FindOne(ctx, bson.M{"user_id": userID, "date": date}).Decode(&l); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrLogNotFound
		}
		return nil, storeError("find daily log", err)
	}
	return &l, nil
}

func patchSet(p domain.DailyLogPatch, now time.Time) bson.M {
	set := bson.M{"updated_at": now}
	if p.SleepHours != nil {
		set["sleep_hours"] = *p.SleepHours
	}
	if p.StudyHours != nil {
		set["study_hours"] = *p.StudyHours
	}
	if p.Mood != nil {
		set["mood"] = string(*p.Mood)
	}
	if p.EnergyLevel != nil {
		set["energy_level"] = string(*p.EnergyLevel)
	}
	if p.Notes != nil {
		set["notes"] = *p.Notes
	}
	return set
}

// Upsert is a single FindOneAndUpdate against the unique (user_id, date) index. Two first
// writes racing on a new day make one insert fail with a duplicate key; it is retried as an update.
func (r *MongoDailyLogRepository) Upsert(ctx context.Context, userID, date string, patch domain.DailyLogPatch) (*domain.DailyLog, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	now := time.Now().UTC()
	update := bson.M{
		"$set": patchSet(patch, now),
		"$setOnInsert": bson.M{
			"_id":             uuid.NewString(),
			"tasks_completed": 0,
			"created_at":      now,
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	filter := bson.M{"user_id": userID, "date": date}

	var l domain.DailyLog
	err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&l)
	if isUniqueViolation(err) {
		err = r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&l)
	}
	if err != nil {
		return nil, storeError("upsert daily log", err)
	}
	return &l, nil
}

func (r *MongoDailyLogRepository) FindRange(ctx context.Context, userID string, dr domain.DateRange) ([]*domain.DailyLog, error) {
	query := bson.M{"user_id": userID}
	if dr.Start != "" || dr.End != "" {
		window := bson.M{}
		if dr.Start != "" {
			window["$gte"] = dr.Start
		}
		if dr.End != "" {
			window["$lte"] = dr.End
		}
		query["date"] = window
	}

	return r.find(ctx, query, options.Find().SetSort(bson.D{{Key: "date", Value: 1}}))
}

func (r *MongoDailyLogRepository) FindRecent(ctx context.Context, userID string, limit int) ([]*domain.DailyLog, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	return r.find(ctx, bson.M{"user_id": userID}, opts)
}

func (r *MongoDailyLogRepository) find(ctx context.Context, query bson.M, opts *options.FindOptions) ([]*domain.DailyLog, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, storeError("find daily logs", err)
	}

	logs := make([]*domain.DailyLog, 0)
	if err := cursor.All(ctx, &logs); err != nil {
		return nil, storeError("decode daily logs", err)
	}
	return logs, nil
}

func (r *MongoDailyLogRepository) SetTasksCompleted(ctx context.Context, userID, date string, count int) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"user_id": userID, "date": date},
		bson.M{"$set": bson.M{"tasks_completed": count, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return storeError("update tasks completed", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrLogNotFound
	}
	return nil
}

func (r *MongoDailyLogRepository) ListUserIDsWithLog(ctx context.Context, date string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	values, err := r.coll.Distinct(ctx, "user_id", bson.M{"date": date})
	if err != nil {
		return nil, storeError("distinct users", err)
	}

	ids := make([]string, 0, len(values))
	for _, v := range values {
		if id, ok := v.(string); ok {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}
