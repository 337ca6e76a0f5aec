// Package pokeapitest serves a fake PokeAPI for tests.
package pokeapitest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
)

// MaxGeneratedID is the largest numeric ID the server synthesizes a Pokémon for.
const MaxGeneratedID = 248

// Fixture describes one Pokémon the fake server knows by name and ID.
type Fixture struct {
	ID             int
	Name           string
	Abilities      []string
	BaseExperience int
	// Stats in response order, e.g. {"hp", 35}.
	Stats []Stat
	// Sprite controls sprites.front_shiny: "" serves a PNG from this server,
	// "null" sends JSON null, "broken" points at a 404 path.
	Sprite string
}

// Stat is a named base stat.
type Stat struct {
	Name  string
	Value int
}

// Fixtures returns the default fixture set.
func Fixtures() []Fixture {
	return []Fixture{
		{
			ID: 1, Name: "bulbasaur", Abilities: []string{"overgrow", "chlorophyll"}, BaseExperience: 64,
			Stats: standardStats(45, 49, 49),
		},
		{
			ID: 23, Name: "ekans", Abilities: []string{"intimidate", "shed-skin", "unnerve"}, BaseExperience: 58,
			Stats: standardStats(35, 60, 44),
		},
		{
			ID: 25, Name: "pikachu", Abilities: []string{"static", "lightning-rod"}, BaseExperience: 112,
			Stats: standardStats(35, 55, 40),
		},
		{
			ID: 122, Name: "mr-mime", Abilities: []string{"soundproof", "filter", "technician"}, BaseExperience: 161,
			Stats: standardStats(40, 45, 65),
		},
		{
			ID: 133, Name: "eevee", Abilities: []string{"run-away", "adaptability", "anticipation"}, BaseExperience: 65,
			// Deliberately not in hp/attack/defense order
			Stats: []Stat{{"speed", 55}, {"defense", 50}, {"attack", 55}, {"hp", 55}},
		},
		{
			ID: 900, Name: "nosprite", Abilities: []string{"pressure"}, BaseExperience: 10,
			Stats: standardStats(1, 2, 3), Sprite: "null",
		},
		{
			ID: 901, Name: "brokensprite", Abilities: []string{"pressure"}, BaseExperience: 10,
			Stats: standardStats(1, 2, 3), Sprite: "broken",
		},
		{
			ID: 902, Name: "statless", Abilities: []string{"pressure"}, BaseExperience: 10,
			Stats: []Stat{{"speed", 10}},
		},
	}
}

func standardStats(hp, attack, defense int) []Stat {
	return []Stat{
		{"hp", hp}, {"attack", attack}, {"defense", defense},
		{"special-attack", 50}, {"special-defense", 50}, {"speed", 50},
	}
}

// Server is a fake PokeAPI backed by httptest.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	byKey    map[string]Fixture
	requests map[string]int
}

// NewServer starts a fake PokeAPI with the default fixtures.
// Numeric IDs 1..MaxGeneratedID without a fixture get a synthesized Pokémon
// named "mon-<id>". The server is closed when the test ends.
func NewServer(t *testing.T) *Server {
	t.Helper()

	s := &Server{
		byKey:    make(map[string]Fixture),
		requests: make(map[string]int),
	}
	for _, f := range Fixtures() {
		s.add(f)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v2/pokemon/{identifier}", s.handlePokemon)
	mux.HandleFunc("GET /sprites/{id}", s.handleSprite)
	s.Server = httptest.NewServer(s.count(mux))
	t.Cleanup(s.Close)
	return s
}

// BaseURL is the value to pass as pokeapi.Config.BaseURL.
func (s *Server) BaseURL() string {
	return s.URL + "/api/v2"
}

// Requests returns how many times path was requested.
func (s *Server) Requests(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[path]
}

// Add registers an extra fixture.
func (s *Server) Add(f Fixture) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.add(f)
}

func (s *Server) add(f Fixture) {
	s.byKey[strconv.Itoa(f.ID)] = f
	s.byKey[f.Name] = f
}

func (s *Server) count(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests[r.URL.Path]++
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) lookup(identifier string) (Fixture, bool) {
	s.mu.Lock()
	f, ok := s.byKey[identifier]
	s.mu.Unlock()
	if ok {
		return f, true
	}
	id, err := strconv.Atoi(identifier)
	if err != nil || id < 1 || id > MaxGeneratedID || strconv.Itoa(id) != identifier {
		return Fixture{}, false
	}
	return Fixture{
		ID: id, Name: fmt.Sprintf("mon-%d", id), Abilities: []string{"levitate"}, BaseExperience: id,
		Stats: standardStats(id, id+1, id+2),
	}, true
}

func (s *Server) handlePokemon(w http.ResponseWriter, r *http.Request) {
	f, ok := s.lookup(r.PathValue("identifier"))
	if !ok {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	abilities := make([]map[string]any, 0, len(f.Abilities))
	for i, a := range f.Abilities {
		abilities = append(abilities, map[string]any{
			"ability":   map[string]any{"name": a, "url": fmt.Sprintf("%s/api/v2/ability/%s/", s.URL, a)},
			"is_hidden": i == len(f.Abilities)-1 && i > 0,
			"slot":      i + 1,
		})
	}
	stats := make([]map[string]any, 0, len(f.Stats))
	for _, st := range f.Stats {
		stats = append(stats, map[string]any{
			"base_stat": st.Value,
			"effort":    0,
			"stat":      map[string]any{"name": st.Name, "url": fmt.Sprintf("%s/api/v2/stat/%s/", s.URL, st.Name)},
		})
	}

	var shiny any
	switch f.Sprite {
	case "null":
		shiny = nil
	case "broken":
		shiny = fmt.Sprintf("%s/sprites/missing-%d.png", s.URL, f.ID)
	default:
		shiny = fmt.Sprintf("%s/sprites/%d.png", s.URL, f.ID)
	}

	body := map[string]any{
		"id":              f.ID,
		"name":            f.Name,
		"base_experience": f.BaseExperience,
		"abilities":       abilities,
		"sprites":         map[string]any{"front_default": nil, "front_shiny": shiny},
		"stats":           stats,
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(body)
}

func (s *Server) handleSprite(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("id")
	if strings.HasPrefix(name, "missing-") {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(SpritePNG())
}

// SpritePNG returns a small two-tone PNG.
func SpritePNG() []byte {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if x < 4 {
				img.Set(x, y, color.RGBA{R: 250, G: 220, B: 40, A: 255})
			} else {
				img.Set(x, y, color.RGBA{R: 20, G: 20, B: 20, A: 255})
			}
		}
	}
	var buf bytes.Buffer
	_ = png.Encode(&buf, img)
	return buf.Bytes()
}
