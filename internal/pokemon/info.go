package pokemon

import (
	"strconv"
	"strings"
)

// Info holds the six attributes reported for a Pokémon.
type Info struct {
	Abilities           []string `json:"abilities"`
	BaseExperience      int      `json:"base_experience"`
	SpriteFrontShinyURL string   `json:"sprite_front_shiny_url"`
	HPBaseStat          int      `json:"hp_base_stat"`
	AttackBaseStat      int      `json:"attack_base_stat"`
	DefenseBaseStat     int      `json:"defense_base_stat"`
}

// Field is one rendered "key: value" line of an Info.
type Field struct {
	Key   string
	Value string
}

// Fields returns the attributes in report order. List values are joined
// with ", ".
func (i Info) Fields() []Field {
	return []Field{
		{"abilities", strings.Join(i.Abilities, ", ")},
		{"base_experience", strconv.Itoa(i.BaseExperience)},
		{"sprite_front_shiny_url", i.SpriteFrontShinyURL},
		{"hp_base_stat", strconv.Itoa(i.HPBaseStat)},
		{"attack_base_stat", strconv.Itoa(i.AttackBaseStat)},
		{"defense_base_stat", strconv.Itoa(i.DefenseBaseStat)},
	}
}

// InfoResult is the outcome of Record.FetchInfo: either the fetched entries
// keyed by display name, or the reason the lookup failed.
type InfoResult struct {
	// Name is the display name the fetch resolved to (empty on failure).
	Name string `json:"name,omitempty"`
	// Entries maps display name to its attributes (nil on failure).
	Entries map[string]Info `json:"entries,omitempty"`
	// Reason explains a failed lookup (empty on success).
	Reason string `json:"reason,omitempty"`
}

// Found reports whether the lookup succeeded.
func (r InfoResult) Found() bool {
	return r.Entries != nil
}

// Info returns the entry for the resolved name.
func (r InfoResult) Info() (Info, bool) {
	info, ok := r.Entries[r.Name]
	return info, ok
}
