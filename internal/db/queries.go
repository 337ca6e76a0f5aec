package db

import (
	"context"
	"crypto/rand"
	"database/sql"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/hpungsan/pokemenu/internal/errors"
)

// Birthday pairs a Pokémon display name with the birthdate that produced it.
type Birthday struct {
	Name      string `json:"name"`
	Birthdate string `json:"birthdate"`
}

// InsertLookup appends name to the lookup list. A name already present is
// left in its original position and inserted is false.
func InsertLookup(ctx context.Context, db *sql.DB, name string) (inserted bool, err error) {
	id, err := generateULID()
	if err != nil {
		return false, errors.NewInternal(err)
	}

	res, err := db.ExecContext(ctx, `
		INSERT INTO lookups (id, name, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT(name) DO NOTHING
	`, id, name, time.Now().Unix())
	if err != nil {
		return false, errors.NewInternal(err)
	}
	return rowsChanged(res)
}

// InsertBirthday records birthdate for name unless name already has one.
func InsertBirthday(ctx context.Context, db *sql.DB, name, birthdate string) (inserted bool, err error) {
	res, err := db.ExecContext(ctx, `
		INSERT INTO birthdays (name, birthdate, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT(name) DO NOTHING
	`, name, birthdate, time.Now().Unix())
	if err != nil {
		return false, errors.NewInternal(err)
	}
	return rowsChanged(res)
}

// ListLookups returns looked-up names in insertion order.
func ListLookups(ctx context.Context, db *sql.DB) ([]string, error) {
	rows, err := db.QueryContext(ctx, `SELECT name FROM lookups ORDER BY rowid`)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	names := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, errors.NewInternal(err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return names, nil
}

// ListBirthdays returns birthday entries in insertion order.
func ListBirthdays(ctx context.Context, db *sql.DB) ([]Birthday, error) {
	rows, err := db.QueryContext(ctx, `SELECT name, birthdate FROM birthdays ORDER BY rowid`)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	items := make([]Birthday, 0)
	for rows.Next() {
		var b Birthday
		if err := rows.Scan(&b.Name, &b.Birthdate); err != nil {
			return nil, errors.NewInternal(err)
		}
		items = append(items, b)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return items, nil
}

func rowsChanged(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, errors.NewInternal(err)
	}
	return n > 0, nil
}

// generateULID generates a new ULID.
func generateULID() (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
