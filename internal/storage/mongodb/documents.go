package mongodb

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/adanyl0v/go-planner/internal/models"
)

type userDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	GoogleID  string             `bson:"googleId"`
	Email     string             `bson:"email"`
	Name      string             `bson:"name"`
	Picture   string             `bson:"picture"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func (d *userDocument) model() *models.User {
	return &models.User{
		ID:        d.ID.Hex(),
		GoogleID:  d.GoogleID,
		Email:     d.Email,
		Name:      d.Name,
		Picture:   d.Picture,
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}
}

type taskDocument struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty"`
	UserID        primitive.ObjectID  `bson:"userId"`
	Text          string              `bson:"text"`
	Completed     bool                `bson:"completed"`
	ScheduledDate time.Time           `bson:"scheduledDate"`
	ProjectID     *primitive.ObjectID `bson:"projectId,omitempty"`
	IsProjectTask bool                `bson:"isProjectTask"`
	Created       time.Time           `bson:"created"`
}

func (d *taskDocument) model() *models.Task {
	return &models.Task{
		ID:            d.ID.Hex(),
		UserID:        d.UserID.Hex(),
		Text:          d.Text,
		Completed:     d.Completed,
		ScheduledDate: d.ScheduledDate.UTC(),
		ProjectID:     optionalHex(d.ProjectID),
		IsProjectTask: d.IsProjectTask,
		CreatedAt:     d.Created.UTC(),
	}
}

type noteDocument struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty"`
	UserID        primitive.ObjectID  `bson:"userId"`
	Title         string              `bson:"title"`
	Content       string              `bson:"content"`
	ProjectID     *primitive.ObjectID `bson:"projectId,omitempty"`
	IsProjectNote bool                `bson:"isProjectNote"`
	Created       time.Time           `bson:"created"`
	LastModified  time.Time           `bson:"lastModified"`
}

func (d *noteDocument) model() *models.Note {
	return &models.Note{
		ID:            d.ID.Hex(),
		UserID:        d.UserID.Hex(),
		Title:         d.Title,
		Content:       d.Content,
		ProjectID:     optionalHex(d.ProjectID),
		IsProjectNote: d.IsProjectNote,
		CreatedAt:     d.Created.UTC(),
		LastModified:  d.LastModified.UTC(),
	}
}

type projectDocument struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	UserID   primitive.ObjectID `bson:"userId"`
	Name     string             `bson:"name"`
	Created  time.Time          `bson:"created"`
	Modified time.Time          `bson:"modified"`
}

func (d *projectDocument) model() *models.Project {
	return &models.Project{
		ID:         d.ID.Hex(),
		UserID:     d.UserID.Hex(),
		Name:       d.Name,
		CreatedAt:  d.Created.UTC(),
		ModifiedAt: d.Modified.UTC(),
	}
}
