package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/adanyl0v/go-planner/internal/models"
	"github.com/adanyl0v/go-planner/internal/storage"
)

type projectRepository struct {
	logger zerolog.Logger
	coll   *mongo.Collection
}

func projectFilter(id, userID string) (bson.M, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	uid, err := objectID(userID)
	if err != nil {
		return nil, err
	}
	return bson.M{"_id": oid, "userId": uid}, nil
}

func (r *projectRepository) List(ctx context.Context, userID string) ([]*models.Project, error) {
	uid, err := objectID(userID)
	if err != nil {
		return nil, err
	}

	opts := options.Find().SetSort(bson.D{{Key: "modified", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{"userId": uid}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find projects: %w", err)
	}

	var docs []projectDocument
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode projects: %w", err)
	}

	projects := make([]*models.Project, 0, len(docs))
	for i := range docs {
		projects = append(projects, docs[i].model())
	}
	return projects, nil
}

func (r *projectRepository) Get(ctx context.Context, id, userID string) (*models.Project, error) {
	filter, err := projectFilter(id, userID)
	if err != nil {
		return nil, err
	}

	var doc projectDocument
	err = r.coll.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		return nil, fmt.Errorf("failed to find project: %w", classify(err))
	}
	return doc.model(), nil
}

func (r *projectRepository) Create(ctx context.Context, project *models.Project) error {
	uid, err := objectID(project.UserID)
	if err != nil {
		return err
	}

	doc := projectDocument{
		ID:       primitive.NewObjectID(),
		UserID:   uid,
		Name:     project.Name,
		Created:  project.CreatedAt,
		Modified: project.ModifiedAt,
	}
	_, err = r.coll.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("failed to insert project: %w", classify(err))
	}
	project.ID = doc.ID.Hex()

	r.logger.Debug().
		Str("project_id", project.ID).
		Msg("inserted project")
	return nil
}

func (r *projectRepository) Touch(ctx context.Context, id, userID string, modifiedAt time.Time) error {
	filter, err := projectFilter(id, userID)
	if err != nil {
		return err
	}

	res, err := r.coll.UpdateOne(ctx, filter, bson.M{"$set": bson.M{"modified": modifiedAt}})
	if err != nil {
		return fmt.Errorf("failed to touch project: %w", err)
	}
	if res.MatchedCount == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (r *projectRepository) Delete(ctx context.Context, id, userID string) (*models.Project, error) {
	filter, err := projectFilter(id, userID)
	if err != nil {
		return nil, err
	}

	var doc projectDocument
	err = r.coll.FindOneAndDelete(ctx, filter).Decode(&doc)
	if err != nil {
		return nil, fmt.Errorf("failed to delete project: %w", classify(err))
	}

	r.logger.Debug().
		Str("project_id", id).
		Msg("deleted project")
	return doc.model(), nil
}
