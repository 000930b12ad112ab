package mongodb

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/adanyl0v/go-planner/internal/models"
	"github.com/adanyl0v/go-planner/internal/storage"
)

type userRepository struct {
	logger zerolog.Logger
	coll   *mongo.Collection
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	var doc userDocument
	err = r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err != nil {
		return nil, fmt.Errorf("failed to find user by id: %w", classify(err))
	}
	return doc.model(), nil
}

func (r *userRepository) GetByGoogleID(ctx context.Context, googleID string) (*models.User, error) {
	var doc userDocument
	err := r.coll.FindOne(ctx, bson.M{"googleId": googleID}).Decode(&doc)
	if err != nil {
		return nil, fmt.Errorf("failed to find user by google id: %w", classify(err))
	}
	return doc.model(), nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	doc := userDocument{
		ID:        primitive.NewObjectID(),
		GoogleID:  user.GoogleID,
		Email:     user.Email,
		Name:      user.Name,
		Picture:   user.Picture,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
	_, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", classify(err))
	}
	user.ID = doc.ID.Hex()

	r.logger.Debug().
		Str("user_id", user.ID).
		Msg("inserted user")
	return nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, user *models.User) error {
	oid, err := objectID(user.ID)
	if err != nil {
		return err
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$set": bson.M{
			"email":     user.Email,
			"name":      user.Name,
			"picture":   user.Picture,
			"updatedAt": user.UpdatedAt,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to update user profile: %w", classify(err))
	}
	if res.MatchedCount == 0 {
		return storage.ErrNotFound
	}
	return nil
}
