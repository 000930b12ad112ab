package mongodb

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/adanyl0v/go-planner/internal/models"
	"github.com/adanyl0v/go-planner/internal/storage"
)

type taskRepository struct {
	logger zerolog.Logger
	coll   *mongo.Collection
}

func taskKeyFilter(key models.TaskKey) (bson.M, error) {
	id, err := objectID(key.ID)
	if err != nil {
		return nil, err
	}
	userID, err := objectID(key.UserID)
	if err != nil {
		return nil, err
	}

	filter := bson.M{"_id": id, "userId": userID}
	if key.ProjectID != "" {
		projectID, err := objectID(key.ProjectID)
		if err != nil {
			return nil, err
		}
		filter["projectId"] = projectID
		filter["isProjectTask"] = true
	}
	return filter, nil
}

func (r *taskRepository) List(ctx context.Context, filter models.TaskFilter) ([]*models.Task, error) {
	userID, err := objectID(filter.UserID)
	if err != nil {
		return nil, err
	}

	query := bson.M{"userId": userID}
	switch filter.Scope {
	case models.ScopeStandalone:
		query["isProjectTask"] = bson.M{"$ne": true}
	case models.ScopeProject:
		query["isProjectTask"] = true
	}
	if filter.ProjectID != "" {
		projectID, err := objectID(filter.ProjectID)
		if err != nil {
			return []*models.Task{}, nil
		}
		query["projectId"] = projectID
	}

	scheduled := bson.M{}
	if filter.ScheduledFrom != nil {
		scheduled["$gte"] = *filter.ScheduledFrom
	}
	if filter.ScheduledTo != nil {
		scheduled["$lt"] = *filter.ScheduledTo
	}
	if len(scheduled) > 0 {
		query["scheduledDate"] = scheduled
	}

	sort := bson.D{{Key: "completed", Value: 1}, {Key: "scheduledDate", Value: 1}, {Key: "created", Value: 1}}
	if filter.Order == models.TaskOrderCreated {
		sort = bson.D{{Key: "completed", Value: 1}, {Key: "created", Value: -1}}
	}

	cursor, err := r.coll.Find(ctx, query, options.Find().SetSort(sort))
	if err != nil {
		return nil, fmt.Errorf("failed to find tasks: %w", err)
	}

	var docs []taskDocument
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode tasks: %w", err)
	}

	tasks := make([]*models.Task, 0, len(docs))
	for i := range docs {
		tasks = append(tasks, docs[i].model())
	}
	return tasks, nil
}

func (r *taskRepository) Get(ctx context.Context, key models.TaskKey) (*models.Task, error) {
	filter, err := taskKeyFilter(key)
	if err != nil {
		return nil, err
	}

	var doc taskDocument
	err = r.coll.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		return nil, fmt.Errorf("failed to find task: %w", classify(err))
	}
	return doc.model(), nil
}

func (r *taskRepository) Create(ctx context.Context, task *models.Task) error {
	userID, err := objectID(task.UserID)
	if err != nil {
		return err
	}
	projectID, err := optionalObjectID(task.ProjectID)
	if err != nil {
		return err
	}

	doc := taskDocument{
		ID:            primitive.NewObjectID(),
		UserID:        userID,
		Text:          task.Text,
		Completed:     task.Completed,
		ScheduledDate: task.ScheduledDate,
		ProjectID:     projectID,
		IsProjectTask: task.IsProjectTask,
		Created:       task.CreatedAt,
	}
	_, err = r.coll.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("failed to insert task: %w", classify(err))
	}
	task.ID = doc.ID.Hex()

	r.logger.Debug().
		Str("task_id", task.ID).
		Msg("inserted task")
	return nil
}

func (r *taskRepository) Update(ctx context.Context, task *models.Task) error {
	filter, err := taskKeyFilter(models.TaskKey{ID: task.ID, UserID: task.UserID})
	if err != nil {
		return err
	}

	res, err := r.coll.UpdateOne(ctx, filter, bson.M{
		"$set": bson.M{
			"text":          task.Text,
			"completed":     task.Completed,
			"scheduledDate": task.ScheduledDate,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to update task: %w", classify(err))
	}
	if res.MatchedCount == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (r *taskRepository) Delete(ctx context.Context, key models.TaskKey) (*models.Task, error) {
	filter, err := taskKeyFilter(key)
	if err != nil {
		return nil, err
	}

	var doc taskDocument
	err = r.coll.FindOneAndDelete(ctx, filter).Decode(&doc)
	if err != nil {
		return nil, fmt.Errorf("failed to delete task: %w", classify(err))
	}

	r.logger.Debug().
		Str("task_id", key.ID).
		Msg("deleted task")
	return doc.model(), nil
}

func (r *taskRepository) DeleteByProject(ctx context.Context, userID, projectID string) (int64, error) {
	uid, err := objectID(userID)
	if err != nil {
		return 0, nil
	}
	pid, err := objectID(projectID)
	if err != nil {
		return 0, nil
	}

	res, err := r.coll.DeleteMany(ctx, bson.M{
		"userId":        uid,
		"projectId":     pid,
		"isProjectTask": true,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to delete project tasks: %w", err)
	}
	return res.DeletedCount, nil
}
