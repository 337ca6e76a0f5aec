// Package pokemon implements a single Pokémon lookup: fetching its
// attributes from PokeAPI and rendering them as text or character art.
package pokemon

import (
	"context"
	"fmt"
	"image"
	"io"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/hpungsan/pokemenu/internal/errors"
	"github.com/hpungsan/pokemenu/internal/pokeapi"
)

// InvalidReason is the failure reason reported for identifiers PokeAPI rejects.
const InvalidReason = "Invalid pokemon name / ID."

// Fetcher is the subset of pokeapi.Client a Record needs.
type Fetcher interface {
	GetPokemon(ctx context.Context, identifier string) (*pokeapi.Pokemon, error)
	GetSprite(ctx context.Context, url string) (image.Image, error)
}

// Renderer draws sprites and name banners.
type Renderer interface {
	Art(w io.Writer, img image.Image) error
	Banner(w io.Writer, text string) error
}

// Record is one Pokémon addressed by a user-supplied name or ID.
// Fields hold zero values until a fetch succeeds; every fetch re-issues the
// HTTP request.
type Record struct {
	identifier string
	client     Fetcher
	renderer   Renderer

	name           string
	abilities      []string
	baseExperience int
	spriteURL      string
	hp             int
	attack         int
	defense        int

	info map[string]Info
}

// NewRecord creates a Record for identifier. Nothing is fetched yet.
func NewRecord(identifier string, client Fetcher, renderer Renderer) *Record {
	return &Record{
		identifier: identifier,
		client:     client,
		renderer:   renderer,
		info:       make(map[string]Info),
	}
}

// Identifier returns the name or ID the record was created with.
func (r *Record) Identifier() string { return r.identifier }

// Name returns the capitalized display name, or "" before a successful fetch.
func (r *Record) Name() string { return r.name }

// FetchName sets the display name. A lookup the API rejects leaves the record
// untouched and is not an error.
func (r *Record) FetchName(ctx context.Context) error {
	p, err := r.client.GetPokemon(ctx, r.identifier)
	if isLookupFailure(err) {
		return nil
	}
	if err != nil {
		return err
	}
	r.name = DisplayName(p.Name)
	return nil
}

// FetchInfo populates every field and returns them keyed by display name.
// A lookup the API rejects yields a not-found InfoResult rather than an error;
// errors are reserved for transport faults and malformed payloads.
func (r *Record) FetchInfo(ctx context.Context) (InfoResult, error) {
	p, err := r.client.GetPokemon(ctx, r.identifier)
	if isLookupFailure(err) {
		return InfoResult{Reason: InvalidReason}, nil
	}
	if err != nil {
		return InfoResult{}, err
	}

	hp, err := p.BaseStat(pokeapi.StatHP)
	if err != nil {
		return InfoResult{}, err
	}
	attack, err := p.BaseStat(pokeapi.StatAttack)
	if err != nil {
		return InfoResult{}, err
	}
	defense, err := p.BaseStat(pokeapi.StatDefense)
	if err != nil {
		return InfoResult{}, err
	}

	r.name = DisplayName(p.Name)
	r.abilities = p.AbilityNames()
	r.baseExperience = p.BaseExperience
	r.spriteURL = p.FrontShinyURL()
	r.hp, r.attack, r.defense = hp, attack, defense

	r.info[r.name] = Info{
		Abilities:           r.abilities,
		BaseExperience:      r.baseExperience,
		SpriteFrontShinyURL: r.spriteURL,
		HPBaseStat:          r.hp,
		AttackBaseStat:      r.attack,
		DefenseBaseStat:     r.defense,
	}

	entries := make(map[string]Info, len(r.info))
	for k, v := range r.info {
		entries[k] = v
	}
	return InfoResult{Name: r.name, Entries: entries}, nil
}

// PrintInfo writes the fetched attributes for the current display name.
// It fails with NOT_FETCHED unless FetchInfo succeeded under that name.
func (r *Record) PrintInfo(w io.Writer) error {
	info, ok := r.info[r.name]
	if !ok {
		return errors.NewNotFetched(r.name)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Here is the info for %s:\n", r.name)
	for _, f := range info.Fields() {
		fmt.Fprintf(&b, "%s: %s\n", f.Key, f.Value)
	}
	_, err := fmt.Fprintln(w, b.String())
	return err
}

// RenderImage draws the shiny front sprite as character art followed by the
// name as a colored banner. Lookup and sprite failures are reported to w.
func (r *Record) RenderImage(ctx context.Context, w io.Writer) error {
	p, err := r.client.GetPokemon(ctx, r.identifier)
	if isLookupFailure(err) {
		_, werr := fmt.Fprintln(w, InvalidReason)
		return werr
	}
	if err != nil {
		return err
	}

	img, err := r.client.GetSprite(ctx, p.FrontShinyURL())
	if pErr, ok := errors.As(err); ok && pErr.Code == errors.ErrImageUnavailable {
		_, werr := fmt.Fprintf(w, "Could not load the image, server said: %d, %s\n", pErr.Status, pErr.Message)
		return werr
	}
	if err != nil {
		return err
	}

	if err := r.renderer.Art(w, img); err != nil {
		return err
	}
	return r.renderer.Banner(w, p.Name)
}

// DisplayName capitalizes each word of an API name: "mr-mime" -> "Mr-Mime".
func DisplayName(apiName string) string {
	return cases.Title(language.Und).String(apiName)
}

func isLookupFailure(err error) bool {
	return errors.Is(err, errors.ErrNotFound) || errors.Is(err, errors.ErrInvalidRequest)
}
