package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newListCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all notes in insertion order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := a.store.List(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(items)
			}
			if len(items) == 0 {
				fmt.Fprintln(out, "No notes found")
				return nil
			}
			for _, n := range items {
				fmt.Fprintf(out, "%s: %s\n", n.Name, n.Text)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output in JSON format")
	return cmd
}

func newGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get NAME",
		Short: "Print the text of a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := a.store.Get(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("get %q: %w", args[0], err)
			}
			fmt.Fprint(cmd.OutOrStdout(), n.Text)
			return nil
		},
	}
}

func newCreateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "create NAME TEXT",
		Short: "Create a new note",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.store.Create(cmd.Context(), args[0], args[1]); err != nil {
				return fmt.Errorf("create %q: %w", args[0], err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Note created")
			return nil
		},
	}
}

func newUpdateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "update NAME [TEXT]",
		Short: "Replace the text of a note; omitting TEXT stores an empty text",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var text string
			if len(args) == 2 {
				text = args[1]
			}
			if err := a.store.Update(cmd.Context(), args[0], text); err != nil {
				return fmt.Errorf("update %q: %w", args[0], err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Note updated")
			return nil
		},
	}
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.store.Delete(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("delete %q: %w", args[0], err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Note deleted")
			return nil
		},
	}
}
