package session

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/hpungsan/pokemenu/internal/db"
	"github.com/hpungsan/pokemenu/internal/pokeapi"
	"github.com/hpungsan/pokemenu/internal/pokeapi/pokeapitest"
	"github.com/hpungsan/pokemenu/internal/pokemon"
)

const (
	welcome     = "Welcome to the Pokemon program.\n" + mainOptions
	monthPrompt = "What month were you born?"
	dayPrompt   = "What day were you born?"
)

type mockRecord struct {
	mock.Mock
}

func (m *mockRecord) Name() string {
	return m.Called().String(0)
}

func (m *mockRecord) FetchName(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockRecord) FetchInfo(ctx context.Context) (pokemon.InfoResult, error) {
	args := m.Called(ctx)
	return args.Get(0).(pokemon.InfoResult), args.Error(1)
}

func (m *mockRecord) PrintInfo(w io.Writer) error {
	return m.Called(w).Error(0)
}

func (m *mockRecord) RenderImage(ctx context.Context, w io.Writer) error {
	return m.Called(ctx, w).Error(0)
}

func newLog(t *testing.T) *db.SessionLog {
	t.Helper()
	conn, err := db.Open()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return db.NewSessionLog(conn)
}

// runSession plays input against the fixture API and returns the transcript.
func runSession(t *testing.T, input string, configure func(*Config)) (string, *db.SessionLog) {
	t.Helper()
	srv := pokeapitest.NewServer(t)
	client := pokeapi.New(pokeapi.Config{BaseURL: srv.BaseURL()})
	log := newLog(t)

	var out bytes.Buffer
	cfg := Config{
		In:  strings.NewReader(input),
		Out: &out,
		NewRecord: func(identifier string) Record {
			return pokemon.NewRecord(identifier, client, nil)
		},
		Log: log,
	}
	if configure != nil {
		configure(&cfg)
	}

	require.NoError(t, New(cfg).Run(context.Background()))
	return out.String(), log
}

func emptySummary() string {
	return "\nThank you for using our program.\nHere are all the pokemon you looked up today.\n" +
		"\nHere are all the special pokemon we attributed to the birthday(s) you entered:\n" +
		"\nHave a nice day!\n"
}

func TestRun_QuitImmediately(t *testing.T) {
	out, _ := runSession(t, "quit\n", nil)
	assert.Equal(t, welcome+emptySummary(), out)
}

func TestRun_EndOfInputQuits(t *testing.T) {
	out, _ := runSession(t, "", nil)
	assert.Equal(t, welcome+emptySummary(), out)

	out, _ = runSession(t, "info\nknown\n", nil)
	assert.True(t, strings.HasSuffix(out, emptySummary()), "got %q", out)
}

func TestRun_InfoKnown(t *testing.T) {
	out, log := runSession(t, "info\nknown\n25\nquit\n", nil)

	assert.Contains(t, out, "Which Pokemon would you like to get the information for?\n"+innerOptions)
	assert.Contains(t, out, "What is the Pokemon's name/id?\n")
	assert.Contains(t, out, "Here is the information for your pokemon, in dictionary form.\n{\"Pikachu\":{")
	assert.Contains(t, out, "Here is the info for Pikachu:\nabilities: static, lightning-rod\n")
	assert.Contains(t, out, "What else would you like to do?\n"+mainOptions)
	assert.True(t, strings.HasSuffix(out,
		"Here are all the pokemon you looked up today.\nPikachu\n"+
			"\nHere are all the special pokemon we attributed to the birthday(s) you entered:\n"+
			"\nHave a nice day!\n"), "got %q", out)

	names, err := log.Lookups(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Pikachu"}, names)
}

func TestRun_InfoKnownInvalid(t *testing.T) {
	out, log := runSession(t, "info\nknown\nnotapokemon\nquit\n", nil)

	assert.Contains(t, out, "in dictionary form.\n"+pokemon.InvalidReason+"\n\nWhat else would you like to do?")
	assert.NotContains(t, out, "Here is the info for")

	names, err := log.Lookups(context.Background())
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestRun_Random(t *testing.T) {
	var bound int
	out, _ := runSession(t, "info\nrandom\nquit\n", func(cfg *Config) {
		cfg.IntN = func(n int) int {
			bound = n
			return 24
		}
	})

	assert.Equal(t, DefaultRandomMax, bound)
	assert.Contains(t, out, "Here is the info for Pikachu:")
}

func TestRun_Birthday(t *testing.T) {
	out, log := runSession(t, "info\nbirthday\n6\n15\n1994\nquit\n", nil)

	assert.Contains(t, out, "What month were you born? Type the number using 1-2 digits.\nFor example: January = 1.\n")
	assert.Contains(t, out, "What day were you born? Type the number using 1-2 digits.\nFor example: 3rd = 3.\n")
	assert.Contains(t, out, "What year were you born? Type the number using digits.\nFor example: 1994.\n")
	assert.Contains(t, out, "Here is the information for your special birthday pokemon, in dictionary form.\n")
	assert.Contains(t, out, "Here is the info for Ekans:")
	assert.Contains(t, out, "\nEkans : 6/15/1994\n")

	names, err := log.Lookups(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Ekans"}, names)
}

func TestRun_BirthdayRePrompts(t *testing.T) {
	input := strings.Join([]string{
		"info", "birthday",
		// sums to a multiple of the modulus
		"1", "1", "1990",
		// three-digit year
		"3", "5", "201",
		// month is not a number
		"x",
		"6", "15", "1994",
		"quit",
	}, "\n") + "\n"

	out, _ := runSession(t, input, nil)

	assert.Equal(t, 3, strings.Count(out, invalidBirthdate))
	assert.Equal(t, 4, strings.Count(out, monthPrompt))
	assert.Equal(t, 3, strings.Count(out, dayPrompt))
	assert.Contains(t, out, invalidBirthdate+"What month were you born?")
	assert.Contains(t, out, "Here is the info for Ekans:")
}

func TestRun_BirthdayAcceptsLooseDigits(t *testing.T) {
	out, _ := runSession(t, "info\nbirthday\n13\n5\n2001\ninfo\nbirthday\n3\n5\n2001\nquit\n", nil)

	assert.NotContains(t, out, invalidBirthdate)
	assert.Contains(t, out, "\nMon-27 : 13/5/2001\n")
	assert.Contains(t, out, "\nMon-17 : 3/5/2001\n")
}

func TestRun_SummaryDeduplicates(t *testing.T) {
	input := "info\nknown\nekans\n" +
		"info\nbirthday\n6\n15\n1994\n" +
		"info\nbirthday\n1\n9\n2005\n" +
		"quit\n"
	out, log := runSession(t, input, nil)

	ctx := context.Background()
	names, err := log.Lookups(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Ekans"}, names)

	birthdays, err := log.Birthdays(ctx)
	require.NoError(t, err)
	assert.Equal(t, []db.Birthday{{Name: "Ekans", Birthdate: "6/15/1994"}}, birthdays)

	assert.Equal(t, 1, strings.Count(out, "Ekans : "))
}

func TestRun_UnrecognisedCommands(t *testing.T) {
	out, _ := runSession(t, "look\ninfo\nquit\nmain\nquit\n", nil)

	sorry := "Sorry, I couldn't catch what you wanted.\n"
	assert.Contains(t, out, welcome+sorry+mainOptions)
	assert.Contains(t, out, innerOptions+sorry+innerOptions)
	assert.Contains(t, out, "Taking you back to the main menu.\n"+mainOptions)
	assert.True(t, strings.HasSuffix(out, emptySummary()))
}

func TestRun_ImageMode(t *testing.T) {
	rec := new(mockRecord)
	rec.On("RenderImage", mock.Anything, mock.Anything).Return(nil).Once()
	rec.On("FetchName", mock.Anything).Return(nil).Once()
	rec.On("FetchInfo", mock.Anything).Return(pokemon.InfoResult{
		Name:    "Pikachu",
		Entries: map[string]pokemon.Info{"Pikachu": {}},
	}, nil).Once()

	var identifiers []string
	out, log := runSession(t, "image\nknown\npikachu\nquit\n", func(cfg *Config) {
		cfg.NewRecord = func(identifier string) Record {
			identifiers = append(identifiers, identifier)
			return rec
		}
	})

	rec.AssertExpectations(t)
	rec.AssertNotCalled(t, "PrintInfo", mock.Anything)
	assert.Equal(t, []string{"pikachu"}, identifiers)
	assert.NotContains(t, out, "in dictionary form")

	names, err := log.Lookups(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Pikachu"}, names)
}

func TestRun_ImageModeNotFound(t *testing.T) {
	rec := new(mockRecord)
	rec.On("RenderImage", mock.Anything, mock.Anything).Return(nil)
	rec.On("FetchName", mock.Anything).Return(nil)
	rec.On("FetchInfo", mock.Anything).Return(pokemon.InfoResult{Reason: pokemon.InvalidReason}, nil)

	_, log := runSession(t, "image\nrandom\nquit\n", func(cfg *Config) {
		cfg.NewRecord = func(string) Record { return rec }
	})

	names, err := log.Lookups(context.Background())
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestRun_RecordErrorStopsSession(t *testing.T) {
	boom := stderrors.New("connection reset")
	rec := new(mockRecord)
	rec.On("FetchInfo", mock.Anything).Return(pokemon.InfoResult{}, boom)

	var out bytes.Buffer
	c := New(Config{
		In:        strings.NewReader("info\nknown\n25\nquit\n"),
		Out:       &out,
		NewRecord: func(string) Record { return rec },
		Log:       newLog(t),
	})

	err := c.Run(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.NotContains(t, out.String(), "Have a nice day!")
}

func TestRun_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	c := New(Config{
		In:  strings.NewReader("quit\n"),
		Out: &out,
		Log: newLog(t),
	})
	require.NoError(t, c.Run(ctx))
	assert.Equal(t, welcome+emptySummary(), out.String())
}

func TestRun_CancelWhileWaitingForInput(t *testing.T) {
	tests := []struct {
		name    string
		written string
	}{
		{"main menu", ""},
		{"birthday prompt", "info\nbirthday\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pr, pw := io.Pipe()
			t.Cleanup(func() { pw.Close() })

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			var out bytes.Buffer
			c := New(Config{In: pr, Out: &out, Log: newLog(t)})

			done := make(chan error, 1)
			go func() { done <- c.Run(ctx) }()

			if tt.written != "" {
				_, err := pw.Write([]byte(tt.written))
				require.NoError(t, err)
			}
			time.Sleep(50 * time.Millisecond)
			cancel()

			select {
			case err := <-done:
				require.NoError(t, err)
			case <-time.After(2 * time.Second):
				t.Fatal("Run still blocked after cancellation")
			}
			assert.True(t, strings.HasSuffix(out.String(), emptySummary()), "got %q", out.String())
		})
	}
}

func TestLookup_NotFoundIsNotLogged(t *testing.T) {
	ctx := context.Background()
	log := newLog(t)
	rec := new(mockRecord)
	rec.On("FetchInfo", mock.Anything).Return(pokemon.InfoResult{Reason: pokemon.InvalidReason}, nil)

	res, err := Lookup(ctx, log, rec, &Birthdate{6, 15, 1994})
	require.NoError(t, err)
	assert.False(t, res.Found())

	birthdays, err := log.Birthdays(ctx)
	require.NoError(t, err)
	assert.Empty(t, birthdays)
}

func TestLookup_BirthdayAfterPlainLookup(t *testing.T) {
	ctx := context.Background()
	log := newLog(t)
	rec := new(mockRecord)
	rec.On("FetchInfo", mock.Anything).Return(pokemon.InfoResult{
		Name:    "Ekans",
		Entries: map[string]pokemon.Info{"Ekans": {}},
	}, nil)

	_, err := Lookup(ctx, log, rec, nil)
	require.NoError(t, err)
	_, err = Lookup(ctx, log, rec, &Birthdate{6, 15, 1994})
	require.NoError(t, err)
	_, err = Lookup(ctx, log, rec, &Birthdate{1, 9, 2005})
	require.NoError(t, err)

	names, err := log.Lookups(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Ekans"}, names)

	birthdays, err := log.Birthdays(ctx)
	require.NoError(t, err)
	assert.Equal(t, []db.Birthday{{Name: "Ekans", Birthdate: "6/15/1994"}}, birthdays)
}
