package mcp

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/pokemenu/internal/db"
	"github.com/hpungsan/pokemenu/internal/errors"
	"github.com/hpungsan/pokemenu/internal/pokemon"
	"github.com/hpungsan/pokemenu/internal/session"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	newRecord func(identifier string) session.Record
	log       session.Log
}

// NewHandlers creates a new Handlers instance. Lookups go through client and
// successful ones are recorded in log.
func NewHandlers(client pokemon.Fetcher, log session.Log) *Handlers {
	return &Handlers{
		newRecord: func(identifier string) session.Record {
			return pokemon.NewRecord(identifier, client, nil)
		},
		log: log,
	}
}

// InfoRequest represents the arguments for pokemon_info.
type InfoRequest struct {
	Identifier string `json:"identifier"`
}

// BirthdayRequest represents the arguments for pokemon_birthday.
type BirthdayRequest struct {
	Month *int `json:"month"`
	Day   *int `json:"day"`
	Year  *int `json:"year"`
}

// InfoResponse is the result of a successful lookup.
type InfoResponse struct {
	Name string       `json:"name"`
	Info pokemon.Info `json:"info"`
}

// BirthdayResponse adds the birthdate and derived ID to a lookup.
type BirthdayResponse struct {
	Birthdate string       `json:"birthdate"`
	ID        int          `json:"id"`
	Name      string       `json:"name"`
	Info      pokemon.Info `json:"info"`
}

// SessionLogResponse lists what this server process has looked up.
type SessionLogResponse struct {
	Lookups   []string      `json:"lookups"`
	Birthdays []db.Birthday `json:"birthdays"`
}

// HandleInfo handles the pokemon_info tool call.
func (h *Handlers) HandleInfo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[InfoRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	identifier := strings.TrimSpace(input.Identifier)
	if identifier == "" {
		return errorResult(errors.NewInvalidRequest("identifier is required")), nil
	}

	res, err := session.Lookup(ctx, h.log, h.newRecord(identifier), nil)
	if err != nil {
		return errorResult(err), nil
	}
	info, ok := res.Info()
	if !ok {
		return errorResult(errors.NewNotFound(identifier, 404)), nil
	}

	return successResult(InfoResponse{Name: res.Name, Info: info})
}

// HandleBirthday handles the pokemon_birthday tool call.
func (h *Handlers) HandleBirthday(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[BirthdayRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	if input.Month == nil || input.Day == nil || input.Year == nil {
		return errorResult(errors.NewInvalidRequest("month, day and year are required")), nil
	}

	b := session.Birthdate{Month: *input.Month, Day: *input.Day, Year: *input.Year}
	id, err := session.BirthdayID(b)
	if err != nil {
		return errorResult(err), nil
	}

	res, err := session.Lookup(ctx, h.log, h.newRecord(strconv.Itoa(id)), &b)
	if err != nil {
		return errorResult(err), nil
	}
	info, ok := res.Info()
	if !ok {
		return errorResult(errors.NewNotFound(strconv.Itoa(id), 404)), nil
	}

	return successResult(BirthdayResponse{
		Birthdate: b.String(),
		ID:        id,
		Name:      res.Name,
		Info:      info,
	})
}

// HandleSessionLog handles the session_log tool call.
func (h *Handlers) HandleSessionLog(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	lookups, err := h.log.Lookups(ctx)
	if err != nil {
		return errorResult(errors.NewInternal(err)), nil
	}
	birthdays, err := h.log.Birthdays(ctx)
	if err != nil {
		return errorResult(errors.NewInternal(err)), nil
	}

	return successResult(SessionLogResponse{Lookups: lookups, Birthdays: birthdays})
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Uses IsError: true so MCP clients recognize failures properly.
// Internal error details are not exposed.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if pokeErr, ok := errors.As(err); ok {
		errorObj := map[string]any{
			"code":    pokeErr.Code,
			"message": pokeErr.Message,
			"status":  pokeErr.Status,
		}
		if pokeErr.Code != errors.ErrInternal && pokeErr.Details != nil {
			errorObj["details"] = pokeErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    errors.ErrInternal,
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
