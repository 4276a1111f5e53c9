// Command veloterm is the CLI entrypoint for the terminal core: running
// the interactive engine, and listing/restoring saved sessions.
package main

import (
	"fmt"
	"log/slog"
	"os"

	goerrors "github.com/go-errors/errors"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	xterm "golang.org/x/term"

	"github.com/veloterm/veloterm/internal/orchestrator"
	"github.com/veloterm/veloterm/internal/session"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if err := newRootCmd(logger).Execute(); err != nil {
		// Fatal bootstrap errors carry a stack trace so the exit log line
		// is actionable.
		if wrapped := goerrors.Wrap(err, 1); wrapped != nil {
			logger.Error("veloterm exiting", "error", err, "stack", wrapped.ErrorStack())
		}
		os.Exit(1)
	}
}

func newRootCmd(logger *slog.Logger) *cobra.Command {
	var previewOnly bool

	root := &cobra.Command{
		Use:   "veloterm",
		Short: "GPU-accelerated terminal emulator core",
		RunE: func(cmd *cobra.Command, args []string) error {
			if previewOnly {
				return runPreview(logger)
			}
			return runInteractive(logger)
		},
	}
	root.Flags().BoolVar(&previewOnly, "preview", false, "render one headless text-dump frame and exit, instead of opening a window")

	root.AddCommand(newSessionCmd())
	return root
}

func newSessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "inspect and restore saved sessions",
	}
	cmd.AddCommand(newSessionListCmd())
	cmd.AddCommand(newSessionRestoreCmd())
	return cmd
}

func newSessionListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "list saved sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			home, err := os.UserHomeDir()
			if err != nil {
				return err
			}
			dir := session.Dir(home)
			entries, err := os.ReadDir(dir)
			if err != nil {
				if os.IsNotExist(err) {
					fmt.Fprintln(cmd.OutOrStdout(), "no saved sessions")
					return nil
				}
				return err
			}
			for _, e := range entries {
				if e.IsDir() {
					continue
				}
				fmt.Fprintln(cmd.OutOrStdout(), e.Name())
			}
			return nil
		},
	}
}

func newSessionRestoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restore <id>",
		Short: "print the restored leaf/cwd plan for a saved session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			home, err := os.UserHomeDir()
			if err != nil {
				return err
			}
			dir := session.Dir(home)
			state, err := session.Load(dir, args[0])
			if err != nil {
				return err
			}

			for i, t := range state.Tabs {
				fmt.Fprintf(cmd.OutOrStdout(), "tab %d %q:\n", i, t.Title)
				leaves := session.Restore(t.PaneTree, func(p string) bool {
					_, statErr := os.Stat(p)
					return statErr == nil
				})
				for _, l := range leaves {
					cwd := "(default)"
					if l.Cwd != nil {
						cwd = *l.Cwd
					}
					fmt.Fprintf(cmd.OutOrStdout(), "  pane %d: cwd=%s\n", l.PaneIndex, cwd)
				}
			}
			return nil
		},
	}
}

func runInteractive(logger *slog.Logger) error {
	o := orchestrator.New(logger)
	_ = o
	return fmt.Errorf("veloterm: interactive window mode requires a GPU surface/window collaborator not available on this build")
}

func runPreview(logger *slog.Logger) error {
	o := orchestrator.New(logger)
	_ = o

	// The ANSI-colored preview dump is only useful on a real terminal;
	// a piped/redirected stdout gets a plain notice instead.
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		fmt.Println("veloterm --preview: no active panes to render (stdout is not a TTY, skipping ANSI dump)")
		return nil
	}

	cols, rows := 80, 24
	if w, h, err := xterm.GetSize(int(os.Stdout.Fd())); err == nil {
		cols, rows = w, h
	}
	fmt.Printf("veloterm --preview: no active panes to render (would size to %dx%d)\n", cols, rows)
	return nil
}
