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

type noteRepository struct {
	logger zerolog.Logger
	coll   *mongo.Collection
}

func noteKeyFilter(key models.NoteKey) (bson.M, error) {
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
		filter["isProjectNote"] = true
	}
	return filter, nil
}

func (r *noteRepository) List(ctx context.Context, filter models.NoteFilter) ([]*models.Note, error) {
	userID, err := objectID(filter.UserID)
	if err != nil {
		return nil, err
	}

	query := bson.M{"userId": userID}
	switch filter.Scope {
	case models.ScopeStandalone:
		query["isProjectNote"] = bson.M{"$ne": true}
	case models.ScopeProject:
		query["isProjectNote"] = true
	}
	if filter.ProjectID != "" {
		projectID, err := objectID(filter.ProjectID)
		if err != nil {
			return []*models.Note{}, nil
		}
		query["projectId"] = projectID
	}

	opts := options.Find().SetSort(bson.D{{Key: "lastModified", Value: -1}})
	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find notes: %w", err)
	}

	var docs []noteDocument
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode notes: %w", err)
	}

	notes := make([]*models.Note, 0, len(docs))
	for i := range docs {
		notes = append(notes, docs[i].model())
	}
	return notes, nil
}

func (r *noteRepository) Get(ctx context.Context, key models.NoteKey) (*models.Note, error) {
	filter, err := noteKeyFilter(key)
	if err != nil {
		return nil, err
	}

	var doc noteDocument
	err = r.coll.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		return nil, fmt.Errorf("failed to find note: %w", classify(err))
	}
	return doc.model(), nil
}

func (r *noteRepository) Create(ctx context.Context, note *models.Note) error {
	userID, err := objectID(note.UserID)
	if err != nil {
		return err
	}
	projectID, err := optionalObjectID(note.ProjectID)
	if err != nil {
		return err
	}

	doc := noteDocument{
		ID:            primitive.NewObjectID(),
		UserID:        userID,
		Title:         note.Title,
		Content:       note.Content,
		ProjectID:     projectID,
		IsProjectNote: note.IsProjectNote,
		Created:       note.CreatedAt,
		LastModified:  note.LastModified,
	}
	_, err = r.coll.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("failed to insert note: %w", classify(err))
	}
	note.ID = doc.ID.Hex()

	r.logger.Debug().
		Str("note_id", note.ID).
		Msg("inserted note")
	return nil
}

func (r *noteRepository) Update(ctx context.Context, note *models.Note) error {
	filter, err := noteKeyFilter(models.NoteKey{ID: note.ID, UserID: note.UserID})
	if err != nil {
		return err
	}

	res, err := r.coll.UpdateOne(ctx, filter, bson.M{
		"$set": bson.M{
			"title":        note.Title,
			"content":      note.Content,
			"lastModified": note.LastModified,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to update note: %w", classify(err))
	}
	if res.MatchedCount == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (r *noteRepository) Delete(ctx context.Context, key models.NoteKey) (*models.Note, error) {
	filter, err := noteKeyFilter(key)
	if err != nil {
		return nil, err
	}

	var doc noteDocument
	err = r.coll.FindOneAndDelete(ctx, filter).Decode(&doc)
	if err != nil {
		return nil, fmt.Errorf("failed to delete note: %w", classify(err))
	}

	r.logger.Debug().
		Str("note_id", key.ID).
		Msg("deleted note")
	return doc.model(), nil
}

func (r *noteRepository) DeleteByProject(ctx context.Context, userID, projectID string) (int64, error) {
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
		"isProjectNote": true,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to delete project notes: %w", err)
	}
	return res.DeletedCount, nil
}
