package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/comitanigiacomo/lifeos/internal/core/domain"
)

var _ domain.TaskRepository = (*MongoTaskRepository)(nil)

// taskDocument stores the priority rank next to the task so sorts are by weight, not text.
type taskDocument struct {
	domain.Task  `bson:",inline"`
	PriorityRank int `bson:"priority_rank"`
}

func toTaskDocument(t *domain.Task) taskDocument {
	return taskDocument{Task: *t, PriorityRank: t.Priority.Weight()}
}

type MongoTaskRepository struct {
	coll *mongo.Collection
}

func NewMongoTaskRepository(db *mongo.Database) *MongoTaskRepository {
	return &MongoTaskRepository{
		coll: db.Collection(tasksCollection),
	}
}

func (r *MongoTaskRepository) Create(ctx context.Context, task *domain.Task) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, toTaskDocument(task)); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return storeError("insert task", err)
	}
	return nil
}

func (r *MongoTaskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var doc taskDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, storeError("find task", err)
	}
	return &doc.Task, nil
}

func (r *MongoTaskRepository) Update(ctx context.Context, task *domain.Task) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": task.ID, "user_id": task.UserID}, toTaskDocument(task))
	if err != nil {
		return storeError("replace task", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *MongoTaskRepository) Delete(ctx context.Context, id string, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id, "user_id": userID})
	if err != nil {
		return storeError("delete task", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *MongoTaskRepository) Find(ctx context.Context, filter domain.TaskFilter) ([]*domain.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := bson.M{"user_id": filter.UserID}
	if filter.From != nil || filter.To != nil {
		window := bson.M{}
		if filter.From != nil {
			window["$gte"] = filter.From.UTC()
		}
		if filter.To != nil {
			window["$lte"] = filter.To.UTC()
		}
		query["scheduled_for"] = window
	}
	if filter.Completed != nil {
		query["completed"] = *filter.Completed
	}

	opts := options.Find().SetSort(taskSortDoc(filter.Sort))
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}

	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, storeError("find tasks", err)
	}
	defer cursor.Close(ctx)

	tasks := make([]*domain.Task, 0)
	for cursor.Next(ctx) {
		var doc taskDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, storeError("decode task", err)
		}
		t := doc.Task
		tasks = append(tasks, &t)
	}
	if err := cursor.Err(); err != nil {
		return nil, storeError("iterate tasks", err)
	}

	return tasks, nil
}

func taskSortDoc(s domain.TaskSort) bson.D {
	switch s {
	case domain.SortScheduledAsc:
		return bson.D{{Key: "scheduled_for", Value: 1}, {Key: "_id", Value: 1}}
	case domain.SortPriorityDesc:
		return bson.D{{Key: "priority_rank", Value: -1}, {Key: "scheduled_for", Value: 1}, {Key: "_id", Value: 1}}
	case domain.SortScheduledAscPriorityDesc:
		return bson.D{{Key: "scheduled_for", Value: 1}, {Key: "priority_rank", Value: -1}, {Key: "_id", Value: 1}}
	default:
		return bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}}
	}
}
