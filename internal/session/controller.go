package session

import (
	"bufio"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"strconv"
	"strings"
)

const (
	mainOptions = "Type 'info' to get the information for a pokemon, 'image' to see what a pokemon looks like, and 'quit' to quit the program.\n"

	innerOptions = "Type 'known' for a pokemon whose name/ID number you know, 'random' for a random pokemon, 'birthday' for the pokemon that corresponds to your birthday, and 'main' to get back to the main menu.\n"

	invalidBirthdate = "You did not input the proper digits for each month/day/year value. Please try again.\n"
)

// DefaultRandomMax is the highest ID the random choice draws.
const DefaultRandomMax = 248

// errInputClosed ends the session as if the user typed quit.
var errInputClosed = stderrors.New("input closed")

// Config wires a Controller.
type Config struct {
	In        io.Reader
	Out       io.Writer
	NewRecord func(identifier string) Record
	Log       Log

	// RandomMax bounds the random choice to [1, RandomMax]. Zero means
	// DefaultRandomMax.
	RandomMax int
	// IntN returns a value in [0, n). Nil uses math/rand/v2.
	IntN func(n int) int
}

// Controller drives the interactive menu over line-based input.
type Controller struct {
	in        *bufio.Scanner
	lines     chan string
	out       io.Writer
	newRecord func(identifier string) Record
	log       Log
	randomMax int
	intN      func(n int) int

	mode Mode
}

// New creates a Controller.
func New(cfg Config) *Controller {
	randomMax := cfg.RandomMax
	if randomMax <= 0 {
		randomMax = DefaultRandomMax
	}
	intN := cfg.IntN
	if intN == nil {
		intN = rand.IntN
	}
	return &Controller{
		in:        bufio.NewScanner(cfg.In),
		out:       cfg.Out,
		newRecord: cfg.NewRecord,
		log:       cfg.Log,
		randomMax: randomMax,
		intN:      intN,
	}
}

// Run greets the user and processes commands until quit, end of input or
// cancellation of ctx, then prints the session summary.
func (c *Controller) Run(ctx context.Context) error {
	c.startReader()
	c.printf("Welcome to the Pokemon program.\n%s", mainOptions)

	state := StateMain
	for {
		if ctx.Err() != nil {
			slog.Debug("session cancelled", "state", state)
			return c.summary(context.WithoutCancel(ctx))
		}

		var err error
		switch state {
		case StateQuit:
			return c.summary(ctx)
		case StateBirthday:
			state, err = c.birthday(ctx)
		default:
			line, ok := c.readLine(ctx)
			if !ok {
				state = StateQuit
				continue
			}
			state, err = c.dispatch(ctx, state, line)
		}

		// A lookup interrupted by cancellation ends the session like quit.
		if stderrors.Is(err, errInputClosed) || (err != nil && ctx.Err() != nil) {
			state = StateQuit
			continue
		}
		if err != nil {
			return err
		}
	}
}

func (c *Controller) dispatch(ctx context.Context, state State, command string) (State, error) {
	t, ok := transitions[state][command]
	if !ok {
		slog.Debug("unrecognised command", "state", state, "command", command)
		c.printf("Sorry, I couldn't catch what you wanted.\n%s", c.options(state))
		return state, nil
	}
	if t.run != nil {
		if err := t.run(c, ctx); err != nil {
			return state, err
		}
	}
	return t.next, nil
}

func (c *Controller) options(state State) string {
	if state == StateChoose {
		return innerOptions
	}
	return mainOptions
}

func (c *Controller) chooseInfo(context.Context) error {
	c.mode = ModeInfo
	c.printf("Which Pokemon would you like to get the information for?\n%s", innerOptions)
	return nil
}

func (c *Controller) chooseImage(context.Context) error {
	c.mode = ModeImage
	c.printf("Which Pokemon would you like to get the information for?\n%s", innerOptions)
	return nil
}

func (c *Controller) backToMain(context.Context) error {
	c.printf("Taking you back to the main menu.\n%s", mainOptions)
	return nil
}

func (c *Controller) known(ctx context.Context) error {
	c.printf("What is the Pokemon's name/id?\n")
	identifier, ok := c.readLine(ctx)
	if !ok {
		return errInputClosed
	}
	return c.lookup(ctx, identifier, nil)
}

func (c *Controller) random(ctx context.Context) error {
	id := c.intN(c.randomMax) + 1
	return c.lookup(ctx, strconv.Itoa(id), nil)
}

// birthday collects a birthdate and looks up its Pokémon. A malformed
// birthdate or one mapping to ID 0 stays in StateBirthday.
func (c *Controller) birthday(ctx context.Context) (State, error) {
	b, valid, err := c.readBirthdate(ctx)
	if err != nil {
		return StateBirthday, err
	}

	id := 0
	if valid {
		id = b.PokemonID()
	}
	if id == 0 {
		c.printf(invalidBirthdate)
		return StateBirthday, nil
	}

	if err := c.lookup(ctx, strconv.Itoa(id), &b); err != nil {
		return StateBirthday, err
	}
	return StateMain, nil
}

// readBirthdate prompts for each field in turn. A field that is not a number
// ends collection early and reports invalid.
func (c *Controller) readBirthdate(ctx context.Context) (Birthdate, bool, error) {
	prompts := []string{
		"What month were you born? Type the number using 1-2 digits.\nFor example: January = 1.\n",
		"What day were you born? Type the number using 1-2 digits.\nFor example: 3rd = 3.\n",
		"What year were you born? Type the number using digits.\nFor example: 1994.\n",
	}

	var fields [3]int
	for i, prompt := range prompts {
		c.printf("%s", prompt)
		line, ok := c.readLine(ctx)
		if !ok {
			return Birthdate{}, false, errInputClosed
		}
		n, ok := parseField(line)
		if !ok {
			return Birthdate{}, false, nil
		}
		fields[i] = n
	}

	b := Birthdate{Month: fields[0], Day: fields[1], Year: fields[2]}
	return b, b.Valid(), nil
}

// lookup shows the Pokémon in the current mode and logs it when found.
func (c *Controller) lookup(ctx context.Context, identifier string, birthdate *Birthdate) error {
	rec := c.newRecord(identifier)
	slog.Debug("lookup", "identifier", identifier, "mode", c.mode)

	if c.mode == ModeImage {
		if err := rec.RenderImage(ctx, c.out); err != nil {
			return err
		}
		if err := rec.FetchName(ctx); err != nil {
			return err
		}
		if _, err := Lookup(ctx, c.log, rec, birthdate); err != nil {
			return err
		}
	} else {
		res, err := Lookup(ctx, c.log, rec, birthdate)
		if err != nil {
			return err
		}

		special := ""
		if birthdate != nil {
			special = "special birthday "
		}
		c.printf("Here is the information for your %spokemon, in dictionary form.\n", special)

		if !res.Found() {
			c.printf("%s\n\n", res.Reason)
		} else {
			data, err := json.Marshal(res.Entries)
			if err != nil {
				return err
			}
			c.printf("%s\n\n", data)
			if err := rec.PrintInfo(c.out); err != nil {
				return err
			}
		}
	}

	c.printf("What else would you like to do?\n%s", mainOptions)
	return nil
}

// summary prints every name looked up and every birthday attribution.
func (c *Controller) summary(ctx context.Context) error {
	names, err := c.log.Lookups(ctx)
	if err != nil {
		return err
	}
	birthdays, err := c.log.Birthdays(ctx)
	if err != nil {
		return err
	}

	c.printf("\nThank you for using our program.\nHere are all the pokemon you looked up today.\n")
	for _, name := range names {
		c.printf("%s\n", name)
	}
	c.printf("\nHere are all the special pokemon we attributed to the birthday(s) you entered:\n")
	for _, b := range birthdays {
		c.printf("%s : %s\n", b.Name, b.Birthdate)
	}
	c.printf("\nHave a nice day!\n")
	return nil
}

// startReader scans input on its own goroutine so a blocked read does not
// hold up cancellation. lines is closed at end of input.
func (c *Controller) startReader() {
	if c.lines != nil {
		return
	}
	c.lines = make(chan string)
	go func() {
		defer close(c.lines)
		for c.in.Scan() {
			c.lines <- c.in.Text()
		}
	}()
}

// readLine returns the next input line with surrounding whitespace removed,
// and false at end of input or once ctx is done.
func (c *Controller) readLine(ctx context.Context) (string, bool) {
	select {
	case line, ok := <-c.lines:
		if !ok {
			return "", false
		}
		return strings.TrimSpace(line), true
	case <-ctx.Done():
		return "", false
	}
}

func (c *Controller) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}
