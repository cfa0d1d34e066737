// Package repository contains data access logic separated from HTTP handlers.
// This file defines the villa repository: the queries behind list, lookup by
// id or name, insert, replace and delete.  Column lists are derived from
// model.VillaFields so the SQL and the scan targets stay in the same order.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iliyamo/magic-villa-api/internal/model"
)

var (
	villaSelect = "SELECT id, " + strings.Join(model.VillaColumns(), ", ") +
		", fecha_creacion, fecha_actualizacion FROM villas"
	villaInsert = "INSERT INTO villas (" + strings.Join(model.VillaColumns(), ", ") +
		", fecha_creacion, fecha_actualizacion) VALUES (" +
		strings.Repeat("?, ", len(model.VillaFields)) + "?, ?)"
	villaUpdate = "UPDATE villas SET " + strings.Join(model.VillaColumns(), " = ?, ") +
		" = ?, fecha_actualizacion = ? WHERE id = ?"
)

// VillaRepo encapsulates all database queries related to villas.  It
// depends on a sql.DB connection which should be configured elsewhere.
type VillaRepo struct {
	db  *sql.DB
	now func() time.Time
}

// NewVillaRepo constructs a VillaRepo with the provided DB handle.
func NewVillaRepo(db *sql.DB) *VillaRepo {
	return &VillaRepo{db: db, now: func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) }}
}

// scanVilla reads one row produced by villaSelect.
func scanVilla(row interface{ Scan(...any) error }) (*model.Villa, error) {
	v := new(model.Villa)
	dest := append([]any{&v.ID}, model.FieldPtrs(v)...)
	dest = append(dest, &v.FechaCreacion, &v.FechaActualizacion)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return v, nil
}

// List returns every villa ordered by id.
func (r *VillaRepo) List(ctx context.Context) ([]model.Villa, error) {
	rows, err := r.db.QueryContext(ctx, villaSelect+" ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list villas: %w", err)
	}
	defer rows.Close()

	var out []model.Villa
	for rows.Next() {
		v, err := scanVilla(rows)
		if err != nil {
			return nil, fmt.Errorf("scan villa: %w", err)
		}
		out = append(out, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID fetches a villa by primary key.  It returns ErrVillaNotFound if
// no row matches.  The read takes no lock.
func (r *VillaRepo) GetByID(ctx context.Context, id int64) (*model.Villa, error) {
	v, err := scanVilla(r.db.QueryRowContext(ctx, villaSelect+" WHERE id = ?", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVillaNotFound
		}
		return nil, fmt.Errorf("get villa %d: %w", id, err)
	}
	return v, nil
}

// NombreExists reports whether a villa other than excludeID already uses
// nombre, ignoring case only.  Both sides are lowered and compared under a
// binary collation so accents and expansions such as ß/ss stay distinct.
// Pass 0 to check against every villa.
func (r *VillaRepo) NombreExists(ctx context.Context, nombre string, excludeID int64) (bool, error) {
	const q = "SELECT EXISTS(SELECT 1 FROM villas WHERE LOWER(nombre) = LOWER(?) COLLATE utf8mb4_bin AND id <> ?)"
	var exists bool
	if err := r.db.QueryRowContext(ctx, q, nombre, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check villa nombre: %w", err)
	}
	return exists, nil
}

// Create inserts v and populates its ID and both timestamps.
func (r *VillaRepo) Create(ctx context.Context, v *model.Villa) error {
	now := r.now()
	args := append(model.FieldPtrs(v), now, now)
	res, err := r.db.ExecContext(ctx, villaInsert, args...)
	if err != nil {
		return fmt.Errorf("insert villa: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	v.ID = id
	v.FechaCreacion = now
	v.FechaActualizacion = now
	return nil
}

// Update replaces every mutable column of the row identified by v.ID and
// refreshes fecha_actualizacion.  fecha_creacion is never written.  It
// returns ErrVillaNotFound when no row matches.
func (r *VillaRepo) Update(ctx context.Context, v *model.Villa) error {
	now := r.now()
	args := append(model.FieldPtrs(v), now, v.ID)
	res, err := r.db.ExecContext(ctx, villaUpdate, args...)
	if err != nil {
		return fmt.Errorf("update villa %d: %w", v.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrVillaNotFound
	}
	v.FechaActualizacion = now
	return nil
}

// Delete permanently removes a villa.  It returns ErrVillaNotFound when
// no row matches.
func (r *VillaRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM villas WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete villa %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrVillaNotFound
	}
	return nil
}
