package models_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/adanyl0v/go-planner/internal/models"
)

func TestTask_Apply(t *testing.T) {
	scheduled := time.Date(2025, time.May, 1, 9, 0, 0, 0, time.UTC)
	task := models.Task{Text: "Buy milk", ScheduledDate: scheduled}

	completed := true
	update := models.TaskUpdate{Completed: &completed}
	assert.False(t, update.IsEmpty())

	task.Apply(update)
	assert.True(t, task.Completed)
	assert.Equal(t, "Buy milk", task.Text)
	assert.Equal(t, scheduled, task.ScheduledDate)

	assert.True(t, models.TaskUpdate{}.IsEmpty())
}

func TestNote_Apply(t *testing.T) {
	note := models.Note{Title: "Ideas", Content: "draft"}

	empty := ""
	note.Apply(models.NoteUpdate{Content: &empty})
	assert.Equal(t, "Ideas", note.Title)
	assert.Empty(t, note.Content)

	assert.True(t, models.NoteUpdate{}.IsEmpty())
}
