package session

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hpungsan/pokemenu/internal/errors"
)

// BirthdayModulus reduces a birthdate sum to a Pokémon ID. A result of 0 is
// reachable and rejected; callers re-prompt for a fresh birthdate.
const BirthdayModulus = 249

// Birthdate is a month/day/year triple. Only digit counts are checked:
// month 13 or day 99 is accepted.
type Birthdate struct {
	Month int `json:"month"`
	Day   int `json:"day"`
	Year  int `json:"year"`
}

// ParseBirthdate parses and validates the three fields.
// Any failure is INVALID_REQUEST.
func ParseBirthdate(month, day, year string) (Birthdate, error) {
	m, ok := parseField(month)
	if !ok {
		return Birthdate{}, errors.NewInvalidRequest(fmt.Sprintf("month %q is not a number", month))
	}
	d, ok := parseField(day)
	if !ok {
		return Birthdate{}, errors.NewInvalidRequest(fmt.Sprintf("day %q is not a number", day))
	}
	y, ok := parseField(year)
	if !ok {
		return Birthdate{}, errors.NewInvalidRequest(fmt.Sprintf("year %q is not a number", year))
	}
	b := Birthdate{Month: m, Day: d, Year: y}
	if !b.Valid() {
		return Birthdate{}, errors.NewInvalidRequest("month and day need 1-2 digits and year needs 4 digits")
	}
	return b, nil
}

// parseField reads one integer field; surrounding whitespace is ignored.
func parseField(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return n, true
}

// Valid reports whether month and day render as 1-2 characters and year as
// exactly 4. The check is on the decimal rendering of the parsed value, so
// "03" counts as one digit.
func (b Birthdate) Valid() bool {
	month := len(strconv.Itoa(b.Month))
	day := len(strconv.Itoa(b.Day))
	year := len(strconv.Itoa(b.Year))
	return month >= 1 && month <= 2 && day >= 1 && day <= 2 && year == 4
}

// PokemonID derives an ID in [0, BirthdayModulus) from the birthdate.
func (b Birthdate) PokemonID() int {
	id := (b.Month + b.Day + b.Year) % BirthdayModulus
	if id < 0 {
		id += BirthdayModulus
	}
	return id
}

// BirthdayID validates b and returns its Pokémon ID, rejecting 0.
func BirthdayID(b Birthdate) (int, error) {
	if !b.Valid() {
		return 0, errors.NewInvalidRequest("month and day need 1-2 digits and year needs 4 digits")
	}
	id := b.PokemonID()
	if id == 0 {
		return 0, errors.NewInvalidRequest(fmt.Sprintf("birthdate %s maps to no pokemon; try another", b))
	}
	return id, nil
}

// String formats as month/day/year without padding.
func (b Birthdate) String() string {
	return fmt.Sprintf("%d/%d/%d", b.Month, b.Day, b.Year)
}
