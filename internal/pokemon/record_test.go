package pokemon

import (
	"bytes"
	"context"
	"image"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/hpungsan/pokemenu/internal/errors"
	"github.com/hpungsan/pokemenu/internal/pokeapi"
	"github.com/hpungsan/pokemenu/internal/pokeapi/pokeapitest"
)

type mockRenderer struct {
	mock.Mock
}

func (m *mockRenderer) Art(w io.Writer, img image.Image) error {
	args := m.Called(w, img)
	return args.Error(0)
}

func (m *mockRenderer) Banner(w io.Writer, text string) error {
	args := m.Called(w, text)
	return args.Error(0)
}

func setup(t *testing.T) (*pokeapi.Client, *pokeapitest.Server) {
	t.Helper()
	srv := pokeapitest.NewServer(t)
	return pokeapi.New(pokeapi.Config{BaseURL: srv.BaseURL()}), srv
}

func TestNewRecord_NeutralDefaults(t *testing.T) {
	client, _ := setup(t)
	r := NewRecord("25", client, nil)

	assert.Equal(t, "25", r.Identifier())
	assert.Equal(t, "", r.Name())
	assert.Empty(t, r.abilities)
	assert.Zero(t, r.baseExperience)
	assert.Zero(t, r.hp)
	assert.Equal(t, "", r.spriteURL)
}

func TestFetchInfo_Valid(t *testing.T) {
	client, _ := setup(t)

	for _, id := range []string{"25", "pikachu"} {
		r := NewRecord(id, client, nil)
		res, err := r.FetchInfo(context.Background())
		require.NoError(t, err)
		require.True(t, res.Found())

		assert.Equal(t, "Pikachu", res.Name)
		require.Len(t, res.Entries, 1)
		info, ok := res.Entries["Pikachu"]
		require.True(t, ok)

		assert.Equal(t, []string{"static", "lightning-rod"}, info.Abilities)
		assert.Equal(t, 112, info.BaseExperience)
		assert.Contains(t, info.SpriteFrontShinyURL, "/sprites/25.png")
		assert.Equal(t, 35, info.HPBaseStat)
		assert.Equal(t, 55, info.AttackBaseStat)
		assert.Equal(t, 40, info.DefenseBaseStat)
		assert.Len(t, info.Fields(), 6)
		assert.Equal(t, "Pikachu", r.Name())
	}
}

func TestFetchInfo_Invalid(t *testing.T) {
	client, _ := setup(t)

	for _, id := range []string{"99999", "notapokemon", ""} {
		r := NewRecord(id, client, nil)
		res, err := r.FetchInfo(context.Background())
		require.NoError(t, err)

		assert.False(t, res.Found())
		assert.Equal(t, InvalidReason, res.Reason)
		assert.Nil(t, res.Entries)
		assert.Equal(t, "", r.Name(), "state must stay untouched")
	}
}

func TestFetchInfo_StatsByName(t *testing.T) {
	client, _ := setup(t)
	r := NewRecord("eevee", client, nil)

	res, err := r.FetchInfo(context.Background())
	require.NoError(t, err)

	info, ok := res.Info()
	require.True(t, ok)
	assert.Equal(t, 55, info.HPBaseStat)
	assert.Equal(t, 55, info.AttackBaseStat)
	assert.Equal(t, 50, info.DefenseBaseStat)
}

func TestFetchInfo_MissingStat(t *testing.T) {
	client, _ := setup(t)
	r := NewRecord("statless", client, nil)

	_, err := r.FetchInfo(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrMalformedResponse))
	assert.Equal(t, "", r.Name())
}

func TestFetchInfo_RefetchesEveryCall(t *testing.T) {
	client, srv := setup(t)
	r := NewRecord("25", client, nil)

	_, err := r.FetchInfo(context.Background())
	require.NoError(t, err)
	_, err = r.FetchInfo(context.Background())
	require.NoError(t, err)
	require.NoError(t, r.FetchName(context.Background()))

	assert.Equal(t, 3, srv.Requests("/api/v2/pokemon/25"))
}

func TestFetchName(t *testing.T) {
	client, _ := setup(t)

	r := NewRecord("122", client, nil)
	require.NoError(t, r.FetchName(context.Background()))
	assert.Equal(t, "Mr-Mime", r.Name())
}

func TestFetchName_InvalidIsNoop(t *testing.T) {
	client, _ := setup(t)

	r := NewRecord("notapokemon", client, nil)
	require.NoError(t, r.FetchName(context.Background()))
	assert.Equal(t, "", r.Name())
}

func TestPrintInfo(t *testing.T) {
	client, _ := setup(t)
	r := NewRecord("25", client, nil)

	_, err := r.FetchInfo(context.Background())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.PrintInfo(&buf))

	want := "Here is the info for Pikachu:\n" +
		"abilities: static, lightning-rod\n" +
		"base_experience: 112\n" +
		"sprite_front_shiny_url: " + r.spriteURL + "\n" +
		"hp_base_stat: 35\n" +
		"attack_base_stat: 55\n" +
		"defense_base_stat: 40\n" +
		"\n"
	assert.Equal(t, want, buf.String())
}

func TestPrintInfo_NotFetched(t *testing.T) {
	client, _ := setup(t)
	r := NewRecord("25", client, nil)

	var buf bytes.Buffer
	err := r.PrintInfo(&buf)
	assert.True(t, errors.Is(err, errors.ErrNotFetched), "got %v", err)

	// Name known but info never fetched under it
	require.NoError(t, r.FetchName(context.Background()))
	err = r.PrintInfo(&buf)
	assert.True(t, errors.Is(err, errors.ErrNotFetched), "got %v", err)
	assert.Empty(t, buf.String())
}

func TestRenderImage(t *testing.T) {
	client, _ := setup(t)
	renderer := &mockRenderer{}
	renderer.On("Art", mock.Anything, mock.Anything).Return(nil).Once()
	renderer.On("Banner", mock.Anything, "pikachu").Return(nil).Once()

	r := NewRecord("25", client, renderer)
	var buf bytes.Buffer
	require.NoError(t, r.RenderImage(context.Background(), &buf))

	renderer.AssertExpectations(t)
	// RenderImage does not resolve the display name on its own
	assert.Equal(t, "", r.Name())
}

func TestRenderImage_InvalidIdentifier(t *testing.T) {
	client, _ := setup(t)
	renderer := &mockRenderer{}

	r := NewRecord("99999", client, renderer)
	var buf bytes.Buffer
	require.NoError(t, r.RenderImage(context.Background(), &buf))

	assert.Equal(t, "Invalid pokemon name / ID.\n", buf.String())
	renderer.AssertNotCalled(t, "Art", mock.Anything, mock.Anything)
}

func TestRenderImage_SpriteFailures(t *testing.T) {
	client, _ := setup(t)

	tests := []struct {
		id   string
		want string
	}{
		{"nosprite", "Could not load the image, server said: 404, no sprite available\n"},
		{"brokensprite", "Could not load the image, server said: 404, Not Found\n"},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			renderer := &mockRenderer{}
			r := NewRecord(tt.id, client, renderer)

			var buf bytes.Buffer
			require.NoError(t, r.RenderImage(context.Background(), &buf))
			assert.Equal(t, tt.want, buf.String())
			renderer.AssertNotCalled(t, "Banner", mock.Anything, mock.Anything)
		})
	}
}

func TestRenderImage_RendererErrorPropagates(t *testing.T) {
	client, _ := setup(t)
	renderer := &mockRenderer{}
	renderer.On("Art", mock.Anything, mock.Anything).Return(nil)
	renderer.On("Banner", mock.Anything, mock.Anything).Return(assert.AnError)

	r := NewRecord("25", client, renderer)
	err := r.RenderImage(context.Background(), io.Discard)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestDisplayName(t *testing.T) {
	tests := map[string]string{
		"pikachu":  "Pikachu",
		"mr-mime":  "Mr-Mime",
		"ho-oh":    "Ho-Oh",
		"porygon2": "Porygon2",
	}
	for in, want := range tests {
		assert.Equal(t, want, DisplayName(in), "DisplayName(%q)", in)
	}
}
