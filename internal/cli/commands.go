package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/storage"
	"github.com/Makepad-fr/tada/internal/store"
	"github.com/Makepad-fr/tada/internal/tui"
	"github.com/Makepad-fr/tada/internal/ui"
)

// run opens the app around fn.
func run(f *flags, fn func(cmd *cobra.Command, a *app, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := f.open(cmd)
		if err != nil {
			return err
		}
		defer a.close()
		return fn(cmd, a, args)
	}
}

func resolve(a *app, ref string) (model.Todo, error) {
	t, err := a.store.Resolve(ref)
	if err == nil {
		return t, nil
	}
	e := &exitErr{code: exitUsage, msg: err.Error()}
	if errors.Is(err, store.ErrNotFound) {
		e.hint = "run `tada ls` to see valid indexes"
	}
	return model.Todo{}, e
}

func newAddCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "add <text...>",
		Short: "Add a new item (text can be multiple words)",
		Args:  cobra.MinimumNArgs(1),
		RunE: run(f, func(cmd *cobra.Command, a *app, args []string) error {
			text := strings.TrimSpace(strings.Join(args, " "))
			if text == "" {
				return failf(exitUsage, "add: empty text")
			}
			a.store.Add(text)
			ui.OK(cmd.OutOrStdout(), "added")
			return nil
		}),
	}
}

func newListCmd(f *flags) *cobra.Command {
	var group bool
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List items",
		Args:    cobra.NoArgs,
		RunE: run(f, func(cmd *cobra.Command, a *app, _ []string) error {
			ui.RenderList(cmd.OutOrStdout(), a.store.Todos(), group)
			return nil
		}),
	}
	cmd.Flags().BoolVar(&group, "group", false, "group output by pending/done")
	return cmd
}

func newDoneCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "done <ref>",
		Short: "Toggle done for an item",
		Args:  cobra.ExactArgs(1),
		RunE: run(f, func(cmd *cobra.Command, a *app, args []string) error {
			t, err := resolve(a, args[0])
			if err != nil {
				return err
			}
			a.store.Toggle(t.ID)
			ui.OK(cmd.OutOrStdout(), "toggled")
			return nil
		}),
	}
}

func newEditCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <ref> <text...>",
		Short: "Replace the text of an item",
		Args:  cobra.MinimumNArgs(2),
		RunE: run(f, func(cmd *cobra.Command, a *app, args []string) error {
			t, err := resolve(a, args[0])
			if err != nil {
				return err
			}
			text := strings.TrimSpace(strings.Join(args[1:], " "))
			if text == "" {
				return failf(exitUsage, "edit: empty text")
			}
			a.store.Update(t.ID, text)
			ui.OK(cmd.OutOrStdout(), "updated")
			return nil
		}),
	}
}

func newRemoveCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <ref>",
		Aliases: []string{"delete"},
		Short:   "Remove an item",
		Args:    cobra.ExactArgs(1),
		RunE: run(f, func(cmd *cobra.Command, a *app, args []string) error {
			t, err := resolve(a, args[0])
			if err != nil {
				return err
			}
			a.store.Delete(t.ID)
			ui.OK(cmd.OutOrStdout(), "removed")
			return nil
		}),
	}
}

func newClearCmd(f *flags) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove completed items (or everything with --all)",
		Args:  cobra.NoArgs,
		RunE: run(f, func(cmd *cobra.Command, a *app, _ []string) error {
			if all {
				a.store.ClearAll()
				ui.OK(cmd.OutOrStdout(), "cleared all")
				return nil
			}
			a.store.ClearCompleted()
			ui.OK(cmd.OutOrStdout(), "cleared completed")
			return nil
		}),
	}
	cmd.Flags().BoolVar(&all, "all", false, "remove every item and delete the stored record")
	return cmd
}

func newTUICmd(f *flags) *cobra.Command {
	var watch bool
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Browse and edit items interactively",
		Args:  cobra.NoArgs,
		RunE: run(f, func(cmd *cobra.Command, a *app, _ []string) error {
			opts := tui.Options{Logger: a.log}
			if watch {
				if fb, ok := a.backend.(*storage.File); ok {
					opts.WatchPath = fb.Path(a.cfg.Storage.Key)
				} else {
					a.log.Warn("--watch needs the file backend; live reload disabled")
				}
			}
			if err := tui.Run(a.store, opts); err != nil {
				return failf(exitError, "tui: %v", err)
			}
			return nil
		}),
	}
	cmd.Flags().BoolVar(&watch, "watch", false, "reload when another process changes the list")
	return cmd
}
