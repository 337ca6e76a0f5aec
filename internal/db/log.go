package db

import (
	"context"
	"database/sql"
)

// SessionLog is the per-process record of lookups and birthday Pokémon.
// Names are unique in both lists and the first birthdate stored for a name wins.
type SessionLog struct {
	db *sql.DB
}

// NewSessionLog wraps an opened database.
func NewSessionLog(db *sql.DB) *SessionLog {
	return &SessionLog{db: db}
}

// AddLookup appends name unless it is already listed. It reports whether
// name was new.
func (l *SessionLog) AddLookup(ctx context.Context, name string) (bool, error) {
	return InsertLookup(ctx, l.db, name)
}

// AddBirthday stores birthdate for name unless name already has one. It
// reports whether birthdate was stored.
func (l *SessionLog) AddBirthday(ctx context.Context, name, birthdate string) (bool, error) {
	return InsertBirthday(ctx, l.db, name, birthdate)
}

// Lookups returns looked-up names in lookup order.
func (l *SessionLog) Lookups(ctx context.Context) ([]string, error) {
	return ListLookups(ctx, l.db)
}

// Birthdays returns birthday entries in the order they were first recorded.
func (l *SessionLog) Birthdays(ctx context.Context) ([]Birthday, error) {
	return ListBirthdays(ctx, l.db)
}
