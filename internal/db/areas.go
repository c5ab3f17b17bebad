package db

import (
	"context"

	"github.com/google/uuid"

	"github.com/tgienger/gtd/internal/models"
)

const selectAreas = "SELECT id, name, notes, color, icon, created_at, updated_at FROM areas"

// Areas maps models.Area to the areas table
var Areas Mapper[models.Area] = areaMapper{}

type areaMapper struct{}

func (areaMapper) Kind() Kind                         { return KindArea }
func (areaMapper) ID(a *models.Area) uuid.UUID        { return a.ID }
func (areaMapper) Clone(a *models.Area) *models.Area { return a.Clone() }

func (areaMapper) Select(ctx context.Context, db Executor, q Query) ([]*models.Area, error) {
	rows, err := db.QueryContext(ctx, q.sql(selectAreas), q.Args...)
	if err != nil {
		return nil, err
	}
	return collect(rows, extractArea)
}

func (areaMapper) Insert(ctx context.Context, db Executor, a *models.Area) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO areas (id, name, notes, color, icon, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, a.ID.String(), a.Name, a.Notes, a.Color, a.Icon, toMillis(a.CreatedAt), toMillis(a.UpdatedAt))
	return err
}

func (areaMapper) Update(ctx context.Context, db Executor, a *models.Area) error {
	_, err := db.ExecContext(ctx, `
		UPDATE areas SET name = ?, notes = ?, color = ?, icon = ?, updated_at = ?
		WHERE id = ?
	`, a.Name, a.Notes, a.Color, a.Icon, toMillis(a.UpdatedAt), a.ID.String())
	return err
}

func (areaMapper) Delete(ctx context.Context, db Executor, a *models.Area) error {
	_, err := db.ExecContext(ctx, "DELETE FROM areas WHERE id = ?", a.ID.String())
	return err
}

func extractArea(row scannable) (*models.Area, error) {
	var (
		a                    models.Area
		id                   string
		createdAt, updatedAt int64
	)
	if err := row.Scan(&id, &a.Name, &a.Notes, &a.Color, &a.Icon, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	a.ID = parsed
	a.CreatedAt = fromMillis(createdAt)
	a.UpdatedAt = fromMillis(updatedAt)
	return &a, nil
}
