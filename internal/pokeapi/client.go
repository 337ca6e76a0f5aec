// Package pokeapi is a minimal client for the PokeAPI pokemon endpoint and the
// sprite images it links to.
package pokeapi

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hpungsan/pokemenu/internal/errors"
)

// DefaultBaseURL is the public PokeAPI v2 root.
const DefaultBaseURL = "https://pokeapi.co/api/v2"

// Config contains configuration options for the client.
type Config struct {
	// BaseURL for the API (optional, defaults to DefaultBaseURL)
	BaseURL string
	// Timeout per request (optional, 0 means none)
	Timeout time.Duration
	// HTTPClient overrides the underlying client (optional)
	HTTPClient *http.Client
}

// Client fetches Pokémon and sprites over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a Client from cfg.
func New(cfg Config) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{baseURL: baseURL, httpClient: httpClient}
}

// PokemonURL returns the lookup URL for identifier.
func (c *Client) PokemonURL(identifier string) string {
	return c.baseURL + "/pokemon/" + url.PathEscape(identifier)
}

// GetPokemon looks up a Pokémon by name or numeric ID.
// A non-success status yields a NOT_FOUND PokeError carrying that status.
// A body that does not decode yields MALFORMED_RESPONSE.
func (c *Client) GetPokemon(ctx context.Context, identifier string) (*Pokemon, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		// The bare collection endpoint answers 200 with a listing, not a Pokémon.
		return nil, errors.NewInvalidRequest("identifier is required")
	}

	endpoint := c.PokemonURL(identifier)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	slog.Debug("Calling PokeAPI", "url", endpoint)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		slog.Debug("PokeAPI lookup failed", "identifier", identifier, "status", resp.StatusCode)
		return nil, errors.NewNotFound(identifier, resp.StatusCode)
	}

	var p Pokemon
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, errors.NewMalformedResponse(fmt.Sprintf("decode pokemon %s: %v", identifier, err))
	}
	if p.Name == "" {
		return nil, errors.NewMalformedResponse(fmt.Sprintf("pokemon %s: response has no name", identifier))
	}
	return &p, nil
}

// GetSprite downloads and decodes the image at spriteURL.
// Any failure (missing URL, non-success status, transport error or
// undecodable payload) is reported as IMAGE_UNAVAILABLE.
func (c *Client) GetSprite(ctx context.Context, spriteURL string) (image.Image, error) {
	if spriteURL == "" {
		return nil, errors.NewImageUnavailable("", http.StatusNotFound, "no sprite available")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, spriteURL, nil)
	if err != nil {
		return nil, errors.NewImageUnavailable(spriteURL, http.StatusBadRequest, err.Error())
	}

	slog.Debug("Downloading sprite", "url", spriteURL)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.NewImageUnavailable(spriteURL, http.StatusBadGateway, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.NewImageUnavailable(spriteURL, resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	img, _, err := image.Decode(resp.Body)
	if err != nil {
		return nil, errors.NewImageUnavailable(spriteURL, resp.StatusCode, fmt.Sprintf("decode image: %v", err))
	}
	return img, nil
}
