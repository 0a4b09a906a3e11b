// Package output renders classified query results for the terminal.
//
// The plain mode reproduces the layout operators are used to: a "=== title ==="
// banner, a body chosen by the payload shape, and a closing rule of '='.
// The other modes exist for piping results into other tools.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/leapstack-labs/gestcom/internal/payload"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Mode selects the output format.
type Mode string

// Output modes.
const (
	ModePlain    Mode = "plain"
	ModeTable    Mode = "table"
	ModeMarkdown Mode = "markdown"
	ModeCSV      Mode = "csv"
	ModeJSON     Mode = "json"
	ModeYAML     Mode = "yaml"
)

// Modes lists every supported mode, in help order.
var Modes = []Mode{ModePlain, ModeTable, ModeMarkdown, ModeCSV, ModeJSON, ModeYAML}

// ParseMode validates a mode name. The empty string selects ModePlain.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return ModePlain, nil
	case "md":
		return ModeMarkdown, nil
	case ModePlain, ModeTable, ModeMarkdown, ModeCSV, ModeJSON, ModeYAML:
		return m, nil
	default:
		return "", fmt.Errorf("unknown output format %q (valid: %s)", s, joinModes())
	}
}

func joinModes() string {
	names := make([]string, len(Modes))
	for i, m := range Modes {
		names[i] = string(m)
	}
	return strings.Join(names, ", ")
}

// Color policies accepted by SetColor.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

const (
	// ruleWidth is the width of the dashed header rule and the closing '=' rule.
	ruleWidth = 50

	// NoResults is printed for empty payloads.
	NoResults = "No se encontraron resultados"
)

// Renderer writes results and messages to a pair of writers.
type Renderer struct {
	out    io.Writer
	errOut io.Writer
	mode   Mode
	isTTY  bool
	styled bool

	titleStyle lipgloss.Style
	ruleStyle  lipgloss.Style
	errStyle   lipgloss.Style
}

// NewRenderer creates a renderer, detecting whether out is a terminal.
func NewRenderer(out, errOut io.Writer, mode Mode) *Renderer {
	return NewRendererWithTTY(out, errOut, isTerminal(out), mode)
}

// NewRendererWithTTY creates a renderer with an explicit terminal flag.
// Styling is enabled for terminals unless NO_COLOR is set.
func NewRendererWithTTY(out, errOut io.Writer, isTTY bool, mode Mode) *Renderer {
	if mode == "" {
		mode = ModePlain
	}
	r := &Renderer{
		out:    out,
		errOut: errOut,
		mode:   mode,
		isTTY:  isTTY,
	}
	r.setStyled(isTTY && os.Getenv("NO_COLOR") == "")
	return r
}

// SetColor applies a color policy (auto, always, never).
func (r *Renderer) SetColor(policy string) {
	switch policy {
	case ColorAlways:
		r.setStyled(true)
	case ColorNever:
		r.setStyled(false)
	default:
		r.setStyled(r.isTTY && os.Getenv("NO_COLOR") == "")
	}
}

func (r *Renderer) setStyled(styled bool) {
	r.styled = styled
	lr := lipgloss.NewRenderer(r.out)
	if styled {
		lr.SetColorProfile(termenv.ANSI256)
	}
	r.titleStyle = lr.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	r.ruleStyle = lr.NewStyle().Faint(true)
	r.errStyle = lr.NewStyle().Bold(true).Foreground(lipgloss.Color("203"))
}

// Mode returns the active output mode.
func (r *Renderer) Mode() Mode {
	return r.mode
}

// Out returns the primary writer.
func (r *Renderer) Out() io.Writer {
	return r.out
}

// Println writes a line to the primary writer.
func (r *Renderer) Println(a ...any) {
	_, _ = fmt.Fprintln(r.out, a...)
}

// Printf writes formatted text to the primary writer.
func (r *Renderer) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(r.out, format, a...)
}

// Error prints err as "Error: <msg>" on the error writer.
func (r *Renderer) Error(err error) {
	_, _ = fmt.Fprintln(r.errOut, r.style(r.errStyle, "Error:"), err)
}

// Warn prints a message on the error writer.
func (r *Renderer) Warn(msg string) {
	_, _ = fmt.Fprintln(r.errOut, msg)
}

// Result renders res under title in the active mode.
func (r *Renderer) Result(title string, res *payload.Result) error {
	if res == nil {
		res = payload.Empty()
	}

	switch r.mode {
	case ModeTable:
		return r.renderTable(title, res)
	case ModeMarkdown:
		return r.renderMarkdown(title, res)
	case ModeCSV:
		return renderCSV(r.out, res)
	case ModeJSON:
		return renderJSON(r.out, res)
	case ModeYAML:
		return renderYAML(r.out, res)
	default:
		return r.renderPlain(title, res)
	}
}

func (r *Renderer) style(s lipgloss.Style, text string) string {
	if !r.styled {
		return text
	}
	return s.Render(text)
}

func (r *Renderer) banner(title string) {
	_, _ = fmt.Fprintf(r.out, "\n%s\n", r.style(r.titleStyle, fmt.Sprintf("=== %s ===", title)))
}

func (r *Renderer) closingRule() {
	_, _ = fmt.Fprintln(r.out, r.style(r.ruleStyle, strings.Repeat("=", ruleWidth)))
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
