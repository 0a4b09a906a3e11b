package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/leapstack-labs/gestcom/internal/gateway"
	"github.com/spf13/cobra"
)

// Menu texts.
const (
	menuHeader    = "Sistema de Gestión Comercial - Supabase"
	menuExit      = "0. Salir"
	menuPrompt    = "Seleccione una opción: "
	invalidChoice = "Opción no válida. Intente nuevamente."
	goodbye       = "Saliendo del sistema..."
)

// NewMenuCommand creates the menu command.
func NewMenuCommand(opts ...gateway.Option) *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "Start the interactive query menu",
		Long: `Start the numbered query menu.

Pick a query by number, answer its prompts and the result is printed.
Errors are shown and the menu continues. Enter 0, exit or .quit (or press
Ctrl-D) to leave; Ctrl-C clears the current line.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return RunMenu(cmd, opts...)
		},
	}
}

// RunMenu connects the gateway and runs the menu on the command's streams.
// The gateway is built before anything is printed, so missing credentials
// stop the command before the menu appears.
func RunMenu(cmd *cobra.Command, opts ...gateway.Option) error {
	cc, cleanup, err := NewCommandContext(cmd, opts...)
	if err != nil {
		return err
	}
	defer cleanup()

	lr, err := newLineReader(cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr(), cc.Cfg.HistoryFile)
	if err != nil {
		return err
	}
	defer func() { _ = lr.Close() }()

	return runMenuLoop(cmd.Context(), cc, lr)
}

func runMenuLoop(ctx context.Context, cc *CommandContext, lr lineReader) error {
	r := cc.Renderer
	for {
		printMenu(cc)

		r.Println()
		line, err := lr.ReadLine(menuPrompt)
		if isInterrupt(err) {
			continue
		}
		if errors.Is(err, io.EOF) {
			r.Println(goodbye)
			return nil
		}
		if err != nil {
			return err
		}

		choice := strings.ToLower(strings.TrimSpace(line))
		if choice == "0" || choice == "exit" || choice == ".quit" {
			r.Println(goodbye)
			return nil
		}

		q, ok := gateway.Lookup(choice)
		if !ok || choice == "" {
			r.Println(invalidChoice)
			continue
		}

		args, err := promptArgs(lr, q)
		switch {
		case isInterrupt(err):
			continue
		case errors.Is(err, io.EOF):
			r.Println(goodbye)
			return nil
		case err != nil:
			r.Error(err)
			continue
		}

		cc.Logger.Debug("menu selection", "query", q.Slug)
		if err := runQuery(ctx, cc, q, args); err != nil {
			r.Error(err)
		}
	}
}

func printMenu(cc *CommandContext) {
	cc.Renderer.Printf("\n%s", menuText())
}

// promptArgs asks for each parameter of q in order, converting as it goes.
func promptArgs(lr lineReader, q gateway.Query) ([]any, error) {
	args := make([]any, 0, len(q.Params))
	for i, p := range q.Params {
		line, err := lr.ReadLine(q.PromptFor(i, args))
		if err != nil {
			return nil, err
		}
		v, err := convertArg(p, line)
		if err != nil {
			return nil, err
		}
		args = q.Normalize(append(args, v))
	}
	return args, nil
}

// menuText returns the numbered menu.
func menuText() string {
	var b strings.Builder
	b.WriteString(menuHeader + "\n")
	for _, q := range gateway.Catalog {
		fmt.Fprintf(&b, "%d. %s\n", q.Number, q.Label)
	}
	b.WriteString(menuExit + "\n")
	return b.String()
}
