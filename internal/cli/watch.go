package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/litescript/ls-platesolver/internal/report"
	"github.com/litescript/ls-platesolver/internal/solution"
	"github.com/litescript/ls-platesolver/internal/state"
	"github.com/litescript/ls-platesolver/internal/ui"
)

func newWatchCmd(root *Root) *cobra.Command {
	var beep bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print changes to the solution store as they happen",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := solution.NewStore(root.cfg.Paths.SolutionDir, root.log)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			beep = beep && root.isTerminal()

			mgr := state.NewManager(state.DefaultConfig())
			var (
				last   *state.Event
				listed bool
			)
			return solution.Watch(cmd.Context(), store, func(entries []solution.Entry, err error) {
				mgr.Update(entries, 0, err)
				if err != nil {
					root.log.Error("refresh failed: %v", err)
					return
				}

				snap := mgr.Snapshot()
				if !listed {
					report.WriteSolutionList(out, entries)
					listed = true
				}
				fresh := eventsAfter(snap.Events, last)
				for _, e := range fresh {
					report.WriteEvent(out, e)
				}
				if len(fresh) > 0 {
					last = &fresh[len(fresh)-1]
					if beep {
						fmt.Fprint(out, "\a")
					}
				}
			})
		},
	}

	cmd.Flags().BoolVar(&beep, "beep", false, "beep on changes (TTY only)")
	return cmd
}

// eventsAfter returns the events that follow last. A nil last, or one that
// has dropped out of the ring, returns all events.
func eventsAfter(events []state.Event, last *state.Event) []state.Event {
	if last == nil {
		return events
	}
	for i := len(events) - 1; i >= 0; i-- {
		if events[i] == *last {
			return events[i+1:]
		}
	}
	return events
}

func newViewCmd(root *Root) *cobra.Command {
	return &cobra.Command{
		Use:   "view [id]",
		Short: "Browse stored solutions in the terminal",
		Long: `Show a stored solution with its object labels in a full screen terminal
view. The view follows the solution store, so solutions added while it is
open show up immediately. Without a terminal the object table is printed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := 0
			if len(args) == 1 {
				var err error
				if id, err = strconv.Atoi(args[0]); err != nil {
					return fmt.Errorf("invalid solution id '%s'", args[0])
				}
			}
			if !root.isTerminal() {
				return root.showEntry(cmd, id)
			}
			return root.runViewer(cmd.Context(), id)
		},
	}
}

// runViewer runs the terminal UI until the user quits. The store is
// watched in the background and every new listing is sent to the UI.
func (r *Root) runViewer(ctx context.Context, id int) error {
	store, err := solution.NewStore(r.cfg.Paths.SolutionDir, r.log)
	if err != nil {
		return err
	}
	if r.cfg.Logging.File == "" {
		r.log.SetOutput(io.Discard)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	mgr := state.NewManager(state.DefaultConfig())
	p := tea.NewProgram(ui.New(mgr, id), tea.WithAltScreen(), tea.WithContext(ctx))

	go func() {
		err := solution.Watch(ctx, store, func(entries []solution.Entry, err error) {
			mgr.Update(entries, 0, err)
			if err != nil {
				p.Send(ui.ErrorMsg{Error: err})
				return
			}
			p.Send(ui.DataUpdateMsg{Snapshot: mgr.Snapshot()})
		})
		if err != nil {
			p.Send(ui.ErrorMsg{Error: err})
		}
	}()

	_, err = p.Run()
	return err
}
