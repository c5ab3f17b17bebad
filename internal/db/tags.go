package db

import (
	"context"

	"github.com/google/uuid"

	"github.com/tgienger/gtd/internal/models"
)

const selectTags = "SELECT id, name, color, created_at, updated_at FROM tags"

// Tags maps models.Tag to the tags table
var Tags Mapper[models.Tag] = tagMapper{}

type tagMapper struct{}

func (tagMapper) Kind() Kind                       { return KindTag }
func (tagMapper) ID(t *models.Tag) uuid.UUID       { return t.ID }
func (tagMapper) Clone(t *models.Tag) *models.Tag { return t.Clone() }

func (tagMapper) Select(ctx context.Context, db Executor, q Query) ([]*models.Tag, error) {
	rows, err := db.QueryContext(ctx, q.sql(selectTags), q.Args...)
	if err != nil {
		return nil, err
	}
	return collect(rows, extractTag)
}

func (tagMapper) Insert(ctx context.Context, db Executor, t *models.Tag) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO tags (id, name, color, created_at, updated_at) VALUES (?, ?, ?, ?, ?)
	`, t.ID.String(), t.Name, t.Color, toMillis(t.CreatedAt), toMillis(t.UpdatedAt))
	return err
}

func (tagMapper) Update(ctx context.Context, db Executor, t *models.Tag) error {
	_, err := db.ExecContext(ctx, `
		UPDATE tags SET name = ?, color = ?, updated_at = ? WHERE id = ?
	`, t.Name, t.Color, toMillis(t.UpdatedAt), t.ID.String())
	return err
}

// Delete removes the tag; task_tags rows go with it
func (tagMapper) Delete(ctx context.Context, db Executor, t *models.Tag) error {
	_, err := db.ExecContext(ctx, "DELETE FROM tags WHERE id = ?", t.ID.String())
	return err
}

func extractTag(row scannable) (*models.Tag, error) {
	var (
		t                    models.Tag
		id                   string
		createdAt, updatedAt int64
	)
	if err := row.Scan(&id, &t.Name, &t.Color, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	t.ID = parsed
	t.CreatedAt = fromMillis(createdAt)
	t.UpdatedAt = fromMillis(updatedAt)
	return &t, nil
}
