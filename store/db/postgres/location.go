package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hrygo/homebox/store"
)

func (db *DB) CreateLocation(ctx context.Context, create *store.Location) (*store.Location, error) {
	location := *create
	if location.ID == "" {
		location.ID = uuid.NewString()
	}
	if location.CreatedTs == 0 {
		location.CreatedTs = time.Now().Unix()
	}

	query := `
		INSERT INTO location (id, name, kind, parent_id, room_type, x, y, width, height, created_ts)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	if _, err := db.db.ExecContext(ctx, query,
		location.ID,
		location.Name,
		location.Kind,
		location.ParentID,
		location.RoomType,
		location.Bounds.X,
		location.Bounds.Y,
		location.Bounds.Width,
		location.Bounds.Height,
		location.CreatedTs,
	); err != nil {
		return nil, fmt.Errorf("failed to create location: %w", err)
	}
	return &location, nil
}

func (db *DB) ListLocations(ctx context.Context, find *store.FindLocation) ([]*store.Location, error) {
	query := `
		SELECT id, name, kind, parent_id, room_type, x, y, width, height, created_ts
		FROM location
		WHERE 1=1
	`
	var args []interface{}
	argIndex := 1

	if find.ID != nil {
		query += fmt.Sprintf(" AND id = $%d", argIndex)
		args = append(args, *find.ID)
		argIndex++
	}
	if find.Name != nil {
		query += fmt.Sprintf(" AND name = $%d", argIndex)
		args = append(args, *find.Name)
		argIndex++
	}
	if find.Kind != nil {
		query += fmt.Sprintf(" AND kind = $%d", argIndex)
		args = append(args, *find.Kind)
		argIndex++
	}
	if find.ParentID != nil {
		query += fmt.Sprintf(" AND parent_id = $%d", argIndex)
		args = append(args, *find.ParentID)
	}
	query += " ORDER BY seq ASC"

	rows, err := db.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}
	defer rows.Close()

	list := []*store.Location{}
	for rows.Next() {
		var location store.Location
		if err := rows.Scan(
			&location.ID,
			&location.Name,
			&location.Kind,
			&location.ParentID,
			&location.RoomType,
			&location.Bounds.X,
			&location.Bounds.Y,
			&location.Bounds.Width,
			&location.Bounds.Height,
			&location.CreatedTs,
		); err != nil {
			return nil, fmt.Errorf("failed to scan location: %w", err)
		}
		list = append(list, &location)
	}
	return list, rows.Err()
}
