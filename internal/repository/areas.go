package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/tgienger/gtd/internal/apperr"
	"github.com/tgienger/gtd/internal/db"
	"github.com/tgienger/gtd/internal/models"
	"github.com/tgienger/gtd/internal/validation"
)

type NewArea struct {
	Name  string
	Notes string
	Color string
	Icon  string
}

type AreaUpdate struct {
	Name  *string
	Notes *string
	Color *string
	Icon  *string
}

type AreaRepository struct {
	*Base[models.Area]
	opts options
}

func NewAreaRepository(session *db.Session, opts ...Option) *AreaRepository {
	return &AreaRepository{
		Base: NewBase(session, db.Areas, apperr.EntityArea),
		opts: newOptions(opts),
	}
}

func (r *AreaRepository) CreateArea(ctx context.Context, in NewArea) (*models.Area, error) {
	name, err := validation.Name(in.Name)
	if err != nil {
		return nil, err
	}

	now := r.opts.timestamp()
	a := &models.Area{
		ID:        uuid.New(),
		Name:      name,
		Notes:     in.Notes,
		Color:     in.Color,
		Icon:      in.Icon,
		CreatedAt: now,
		UpdatedAt: now,
	}

	db.Insert(r.session, db.Areas, a)
	if err := r.commit(ctx, apperr.CreationFailed); err != nil {
		return nil, err
	}
	return a, nil
}

func (r *AreaRepository) UpdateArea(ctx context.Context, a *models.Area, u AreaUpdate) (*models.Area, error) {
	var name string
	if u.Name != nil {
		var err error
		if name, err = validation.Name(*u.Name); err != nil {
			return nil, err
		}
	}

	db.Edit(r.session, db.Areas, a)
	if u.Name != nil {
		a.Name = name
	}
	if u.Notes != nil {
		a.Notes = *u.Notes
	}
	if u.Color != nil {
		a.Color = *u.Color
	}
	if u.Icon != nil {
		a.Icon = *u.Icon
	}
	a.UpdatedAt = r.opts.timestamp()

	if err := r.commit(ctx, apperr.UpdateFailed); err != nil {
		return nil, err
	}
	return a, nil
}

// DeleteArea clears the area from its tasks and projects and removes it,
// in one transaction
func (r *AreaRepository) DeleteArea(ctx context.Context, a *models.Area) error {
	store := r.session.Store()
	inArea := db.Where("area_id = ?", a.ID.String())

	tasks, err := db.Fetch(ctx, store, db.Tasks, inArea)
	if err != nil {
		return apperr.DeletionFailed(apperr.EntityArea, err)
	}
	projects, err := db.Fetch(ctx, store, db.Projects, inArea)
	if err != nil {
		return apperr.DeletionFailed(apperr.EntityArea, err)
	}

	now := r.opts.timestamp()
	for _, t := range tasks {
		db.Edit(r.session, db.Tasks, t)
		t.AreaID = nil
		t.UpdatedAt = now
	}
	for _, p := range projects {
		db.Edit(r.session, db.Projects, p)
		p.AreaID = nil
		p.UpdatedAt = now
	}
	db.Remove(r.session, db.Areas, a)

	return r.commit(ctx, apperr.DeletionFailed)
}

func (r *AreaRepository) GetArea(ctx context.Context, id uuid.UUID) (*models.Area, error) {
	return r.get(ctx, byID(id))
}

// FetchAreas returns every area sorted by name
func (r *AreaRepository) FetchAreas(ctx context.Context) ([]*models.Area, error) {
	return r.Fetch(ctx, AreasQuery())
}
