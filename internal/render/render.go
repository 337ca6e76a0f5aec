// Package render draws sprites as character art and names as colored
// figlet banners.
package render

import (
	"fmt"
	"image"
	"io"
	"math/rand/v2"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/common-nighthawk/go-figure"
	"github.com/fatih/color"
	"github.com/qeesung/image2ascii/convert"
	"golang.org/x/term"

	"github.com/hpungsan/pokemenu/internal/config"
)

// PaletteColor is one entry of the banner palette.
type PaletteColor struct {
	Name string
	FG   color.Attribute
	BG   color.Attribute
}

// Palette is the fixed set banner colors are drawn from.
var Palette = []PaletteColor{
	{"red", color.FgRed, color.BgRed},
	{"green", color.FgGreen, color.BgGreen},
	{"yellow", color.FgYellow, color.BgYellow},
	{"blue", color.FgBlue, color.BgBlue},
	{"magenta", color.FgMagenta, color.BgMagenta},
	{"cyan", color.FgCyan, color.BgCyan},
	{"white", color.FgWhite, color.BgWhite},
	{"black", color.FgBlack, color.BgBlack},
}

// Options configures a Renderer.
type Options struct {
	// ArtWidth in columns; 0 means half the terminal width.
	ArtWidth int
	// Font is the figlet font name.
	Font string
	// Color is config.ColorAuto, ColorAlways or ColorNever.
	Color string
	// TermWidth overrides the terminal width query (tests, non-TTY callers).
	TermWidth func() (int, error)
	// Rand overrides the color picker source.
	Rand *rand.Rand
}

// Renderer implements pokemon.Renderer.
type Renderer struct {
	artWidth  int
	font      string
	colored   bool
	termWidth func() (int, error)
	rng       *rand.Rand
}

// New creates a Renderer from opts.
func New(opts Options) *Renderer {
	r := &Renderer{
		artWidth:  opts.ArtWidth,
		font:      opts.Font,
		termWidth: opts.TermWidth,
		rng:       opts.Rand,
	}
	if r.font == "" {
		r.font = "starwars"
	}
	if r.termWidth == nil {
		r.termWidth = StdoutWidth
	}
	if r.rng == nil {
		r.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	switch opts.Color {
	case config.ColorAlways:
		r.colored = true
	case config.ColorNever:
		r.colored = false
	default:
		// fatih/color sets NoColor when stdout is not a terminal or NO_COLOR is set
		r.colored = !color.NoColor
	}
	return r
}

// StdoutWidth queries the width of the terminal attached to stdout.
func StdoutWidth() (int, error) {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return 0, fmt.Errorf("query terminal size: %w", err)
	}
	return width, nil
}

// Art writes img as character art.
func (r *Renderer) Art(w io.Writer, img image.Image) error {
	width := r.artWidth
	if width <= 0 {
		termWidth, err := r.termWidth()
		if err != nil {
			return err
		}
		width = max(termWidth/2, 1)
	}

	bounds := img.Bounds()
	// Terminal cells are roughly twice as tall as they are wide
	height := max(width*bounds.Dy()/max(bounds.Dx(), 1)/2, 1)

	opts := convert.DefaultOptions
	opts.FitScreen = false
	opts.StretchedScreen = false
	opts.FixedWidth = width
	opts.FixedHeight = height
	opts.Colored = r.colored

	converter := convert.NewImageConverter()
	_, err := io.WriteString(w, converter.Image2ASCIIString(img, &opts))
	return err
}

// Banner writes text upper-cased as a figlet banner centred to the terminal
// width, in a bold foreground/background pair drawn independently from Palette.
func (r *Renderer) Banner(w io.Writer, text string) error {
	width, err := r.termWidth()
	if err != nil {
		return err
	}

	lines, err := figletLines(strings.ToUpper(text), r.font)
	if err != nil {
		return err
	}

	fg, bg := r.PickColors()
	c := color.New(fg.FG, bg.BG, color.Bold)
	if r.colored {
		c.EnableColor()
	} else {
		c.DisableColor()
	}

	for _, line := range centerBlock(lines, width) {
		if _, err := c.Fprint(w, line); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}

// PickColors draws a foreground and a background color independently and
// uniformly from Palette; the two may coincide.
func (r *Renderer) PickColors() (fg, bg PaletteColor) {
	fg = Palette[r.rng.IntN(len(Palette))]
	bg = Palette[r.rng.IntN(len(Palette))]
	return fg, bg
}

// figletLines renders phrase with font. go-figure panics on fonts it does
// not bundle, so that is converted to an error.
func figletLines(phrase, font string) (lines []string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("unknown banner font %q: %v", font, rec)
		}
	}()
	return figure.NewFigure(phrase, font, false).Slicify(), nil
}

// centerBlock left-pads every line by the same amount so the block as a
// whole sits in the middle of width columns.
func centerBlock(lines []string, width int) []string {
	widest := 0
	for _, line := range lines {
		widest = max(widest, utf8.RuneCountInString(strings.TrimRight(line, " ")))
	}
	pad := ""
	if widest < width {
		pad = strings.Repeat(" ", (width-widest)/2)
	}
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		out = append(out, pad+strings.TrimRight(line, " "))
	}
	return out
}
