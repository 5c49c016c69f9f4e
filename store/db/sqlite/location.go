package sqlite

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/hrygo/homebox/store"
)

func (d *DB) CreateLocation(ctx context.Context, create *store.Location) (*store.Location, error) {
	location := *create
	if location.ID == "" {
		location.ID = uuid.NewString()
	}
	if location.CreatedTs == 0 {
		location.CreatedTs = time.Now().Unix()
	}

	stmt := `
		INSERT INTO location (id, name, kind, parent_id, room_type, x, y, width, height, created_ts)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	if _, err := d.db.ExecContext(ctx, stmt,
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
		return nil, errors.Wrap(err, "failed to create location")
	}
	return &location, nil
}

func (d *DB) ListLocations(ctx context.Context, find *store.FindLocation) ([]*store.Location, error) {
	where, args := []string{"1 = 1"}, []any{}
	if v := find.ID; v != nil {
		where, args = append(where, "id = ?"), append(args, *v)
	}
	if v := find.Name; v != nil {
		where, args = append(where, "name = ?"), append(args, *v)
	}
	if v := find.Kind; v != nil {
		where, args = append(where, "kind = ?"), append(args, *v)
	}
	if v := find.ParentID; v != nil {
		where, args = append(where, "parent_id = ?"), append(args, *v)
	}

	query := `
		SELECT id, name, kind, parent_id, room_type, x, y, width, height, created_ts
		FROM location
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY seq ASC`
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list locations")
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
			return nil, errors.Wrap(err, "failed to scan location")
		}
		list = append(list, &location)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}
