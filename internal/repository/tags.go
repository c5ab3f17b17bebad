package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/tgienger/gtd/internal/apperr"
	"github.com/tgienger/gtd/internal/db"
	"github.com/tgienger/gtd/internal/models"
	"github.com/tgienger/gtd/internal/validation"
)

type TagRepository struct {
	*Base[models.Tag]
	opts options
}

func NewTagRepository(session *db.Session, opts ...Option) *TagRepository {
	return &TagRepository{
		Base: NewBase(session, db.Tags, apperr.EntityTag),
		opts: newOptions(opts),
	}
}

func (r *TagRepository) CreateTag(ctx context.Context, name, color string) (*models.Tag, error) {
	name, err := validation.Name(name)
	if err != nil {
		return nil, err
	}

	now := r.opts.timestamp()
	t := &models.Tag{
		ID:        uuid.New(),
		Name:      name,
		Color:     color,
		CreatedAt: now,
		UpdatedAt: now,
	}

	db.Insert(r.session, db.Tags, t)
	if err := r.commit(ctx, apperr.CreationFailed); err != nil {
		return nil, err
	}
	return t, nil
}

// FindOrCreateTag returns the oldest tag named exactly name, creating it
// when there is none. Not safe against a concurrent insert of the same name.
func (r *TagRepository) FindOrCreateTag(ctx context.Context, name string) (*models.Tag, error) {
	name, err := validation.Name(name)
	if err != nil {
		return nil, err
	}

	found, err := r.Fetch(ctx, db.Where("name = ?", name).Order("created_at"))
	if err != nil {
		return nil, err
	}
	if len(found) > 0 {
		return found[0], nil
	}
	return r.CreateTag(ctx, name, "")
}

// DeleteTag removes the tag from every task carrying it, then deletes it
func (r *TagRepository) DeleteTag(ctx context.Context, t *models.Tag) error {
	tagged, err := db.Fetch(ctx, r.session.Store(), db.Tasks,
		db.Where("id IN (SELECT task_id FROM task_tags WHERE tag_id = ?)", t.ID.String()))
	if err != nil {
		return apperr.DeletionFailed(apperr.EntityTag, err)
	}

	now := r.opts.timestamp()
	for _, task := range tagged {
		db.Edit(r.session, db.Tasks, task)
		var kept []uuid.UUID
		for _, id := range task.TagIDs {
			if id != t.ID {
				kept = append(kept, id)
			}
		}
		task.TagIDs = kept
		task.UpdatedAt = now
	}
	db.Remove(r.session, db.Tags, t)

	return r.commit(ctx, apperr.DeletionFailed)
}

func (r *TagRepository) GetTag(ctx context.Context, id uuid.UUID) (*models.Tag, error) {
	return r.get(ctx, byID(id))
}

// FetchTags returns every tag sorted by name
func (r *TagRepository) FetchTags(ctx context.Context) ([]*models.Tag, error) {
	return r.Fetch(ctx, TagsQuery())
}
