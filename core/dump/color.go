package dump

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// ColorMode controls when output is colorized.
type ColorMode string

const (
	ColorAlways ColorMode = "always"
	ColorAuto   ColorMode = "auto"
	ColorNever  ColorMode = "never"
)

// ColorModes lists the accepted color mode names.
var ColorModes = []string{string(ColorAlways), string(ColorAuto), string(ColorNever)}

// ParseColorMode validates a color mode name.
func ParseColorMode(s string) (ColorMode, error) {
	for _, m := range ColorModes {
		if s == m {
			return ColorMode(s), nil
		}
	}
	return "", fmt.Errorf("unknown color mode %q, expected one of %s", s, strings.Join(ColorModes, ", "))
}

var (
	ColorBoldCyan  = color.New(color.FgCyan, color.Bold)
	ColorBoldRed   = color.New(color.FgRed, color.Bold)
	ColorGreen     = color.New(color.FgGreen)
	ColorYellow    = color.New(color.FgYellow)
	ColorBoldGreen = color.New(color.FgGreen, color.Bold)
)

func init() {
	// ColorPrinter makes the decision, not the package level NoColor flag
	// which is set whenever the process stdout isn't a terminal.
	for _, c := range []*color.Color{ColorBoldCyan, ColorBoldRed, ColorGreen, ColorYellow, ColorBoldGreen} {
		c.EnableColor()
	}
}

// ColorPrinter applies colors depending on the configured mode and whether
// the destination is a terminal.
type ColorPrinter struct {
	Mode       ColorMode
	IsTerminal bool
}

func (c ColorPrinter) ShouldColor() bool {
	switch c.Mode {
	case ColorNever:
		return false
	case ColorAlways:
		return true
	default:
		return c.IsTerminal
	}
}

func (c ColorPrinter) Sprintf(color *color.Color, format string, a ...interface{}) string {
	if c.ShouldColor() {
		return color.Sprintf(format, a...)
	}
	return fmt.Sprintf(format, a...)
}
