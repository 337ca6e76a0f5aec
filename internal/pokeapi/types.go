package pokeapi

import (
	"fmt"

	"github.com/hpungsan/pokemenu/internal/errors"
)

// Stat names as reported in stats[].stat.name.
const (
	StatHP      = "hp"
	StatAttack  = "attack"
	StatDefense = "defense"
)

// Pokemon is the subset of the /pokemon/{id} payload pokemenu reads.
type Pokemon struct {
	ID             int           `json:"id"`
	Name           string        `json:"name"`
	BaseExperience int           `json:"base_experience"`
	Abilities      []AbilitySlot `json:"abilities"`
	Sprites        Sprites       `json:"sprites"`
	Stats          []StatSlot    `json:"stats"`
}

// NamedResource is PokeAPI's {name, url} reference.
type NamedResource struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// AbilitySlot is one entry of abilities[].
type AbilitySlot struct {
	Ability  NamedResource `json:"ability"`
	IsHidden bool          `json:"is_hidden"`
	Slot     int           `json:"slot"`
}

// Sprites holds sprite URLs; PokeAPI sends null for missing ones.
type Sprites struct {
	FrontDefault *string `json:"front_default"`
	FrontShiny   *string `json:"front_shiny"`
}

// StatSlot is one entry of stats[].
type StatSlot struct {
	BaseStat int           `json:"base_stat"`
	Effort   int           `json:"effort"`
	Stat     NamedResource `json:"stat"`
}

// AbilityNames returns ability names in response order.
func (p *Pokemon) AbilityNames() []string {
	names := make([]string, 0, len(p.Abilities))
	for _, a := range p.Abilities {
		names = append(names, a.Ability.Name)
	}
	return names
}

// FrontShinyURL returns the shiny front sprite URL, or "" when PokeAPI has none.
func (p *Pokemon) FrontShinyURL() string {
	if p.Sprites.FrontShiny == nil {
		return ""
	}
	return *p.Sprites.FrontShiny
}

// BaseStat finds a stat by name rather than by position.
// A missing stat is a MALFORMED_RESPONSE.
func (p *Pokemon) BaseStat(name string) (int, error) {
	for _, s := range p.Stats {
		if s.Stat.Name == name {
			return s.BaseStat, nil
		}
	}
	return 0, errors.NewMalformedResponse(fmt.Sprintf("pokemon %s: stat %q missing", p.Name, name))
}
