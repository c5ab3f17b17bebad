package db

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/tgienger/gtd/internal/models"
)

const selectProjects = `SELECT id, name, notes, color, icon, is_completed, completed_at, area_id,
	created_at, updated_at FROM projects`

// Projects maps models.Project to the projects table
var Projects Mapper[models.Project] = projectMapper{}

type projectMapper struct{}

func (projectMapper) Kind() Kind                               { return KindProject }
func (projectMapper) ID(p *models.Project) uuid.UUID           { return p.ID }
func (projectMapper) Clone(p *models.Project) *models.Project { return p.Clone() }

func (projectMapper) Select(ctx context.Context, db Executor, q Query) ([]*models.Project, error) {
	rows, err := db.QueryContext(ctx, q.sql(selectProjects), q.Args...)
	if err != nil {
		return nil, err
	}
	return collect(rows, extractProject)
}

func (projectMapper) Insert(ctx context.Context, db Executor, p *models.Project) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO projects (id, name, notes, color, icon, is_completed, completed_at, area_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, p.ID.String(), p.Name, p.Notes, p.Color, p.Icon, p.IsCompleted, toNullMillis(p.CompletedAt),
		toNullID(p.AreaID), toMillis(p.CreatedAt), toMillis(p.UpdatedAt))
	return err
}

func (projectMapper) Update(ctx context.Context, db Executor, p *models.Project) error {
	_, err := db.ExecContext(ctx, `
		UPDATE projects SET name = ?, notes = ?, color = ?, icon = ?, is_completed = ?, completed_at = ?,
			area_id = ?, updated_at = ?
		WHERE id = ?
	`, p.Name, p.Notes, p.Color, p.Icon, p.IsCompleted, toNullMillis(p.CompletedAt),
		toNullID(p.AreaID), toMillis(p.UpdatedAt), p.ID.String())
	return err
}

func (projectMapper) Delete(ctx context.Context, db Executor, p *models.Project) error {
	_, err := db.ExecContext(ctx, "DELETE FROM projects WHERE id = ?", p.ID.String())
	return err
}

func extractProject(row scannable) (*models.Project, error) {
	var (
		p                    models.Project
		id                   string
		completedAt          sql.NullInt64
		areaID               sql.NullString
		createdAt, updatedAt int64
	)
	err := row.Scan(&id, &p.Name, &p.Notes, &p.Color, &p.Icon, &p.IsCompleted, &completedAt, &areaID,
		&createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	if p.AreaID, err = fromNullID(areaID); err != nil {
		return nil, err
	}
	p.ID = parsed
	p.CompletedAt = fromNullMillis(completedAt)
	p.CreatedAt = fromMillis(createdAt)
	p.UpdatedAt = fromMillis(updatedAt)
	return &p, nil
}
