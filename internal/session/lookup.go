package session

import (
	"context"
	"io"
	"log/slog"

	"github.com/hpungsan/pokemenu/internal/db"
	"github.com/hpungsan/pokemenu/internal/pokemon"
)

// Record is the lookup surface of pokemon.Record.
type Record interface {
	Name() string
	FetchName(ctx context.Context) error
	FetchInfo(ctx context.Context) (pokemon.InfoResult, error)
	PrintInfo(w io.Writer) error
	RenderImage(ctx context.Context, w io.Writer) error
}

// Log accumulates the names looked up during a session.
type Log interface {
	AddLookup(ctx context.Context, name string) (bool, error)
	AddBirthday(ctx context.Context, name, birthdate string) (bool, error)
	Lookups(ctx context.Context) ([]string, error)
	Birthdays(ctx context.Context) ([]db.Birthday, error)
}

// Lookup fetches rec's info and, when the lookup succeeds, logs its name.
// A non-nil birthdate also records the birthday the first time the name is
// reached that way.
func Lookup(ctx context.Context, log Log, rec Record, birthdate *Birthdate) (pokemon.InfoResult, error) {
	res, err := rec.FetchInfo(ctx)
	if err != nil {
		return res, err
	}
	if !res.Found() {
		return res, nil
	}

	added, err := log.AddLookup(ctx, res.Name)
	if err != nil {
		return res, err
	}
	slog.Debug("logged lookup", "name", res.Name, "new", added)

	if birthdate != nil {
		added, err := log.AddBirthday(ctx, res.Name, birthdate.String())
		if err != nil {
			return res, err
		}
		if !added {
			slog.Debug("birthday already attributed", "name", res.Name, "birthdate", birthdate.String())
		}
	}
	return res, nil
}
