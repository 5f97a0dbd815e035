package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"example.com/notes-registry/internal/config"
	"example.com/notes-registry/internal/logging"
	"example.com/notes-registry/internal/notes"
	"example.com/notes-registry/internal/storage"
)

// app carries what every subcommand needs once the root has run.
type app struct {
	backend string
	file    string
	verbose bool

	store        *notes.NoteStore
	closeStorage func() error
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "notesctl",
		Short: "Inspect and edit the note registry without the HTTP server",
		Long: `notesctl runs note store operations directly against the configured backend.
Configuration is read from the same environment variables (and CONFIG_FILE) as the API server.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.open(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.closeStorage == nil {
				return nil
			}
			return a.closeStorage()
		},
	}

	root.PersistentFlags().StringVar(&a.backend, "backend", "", "Storage backend (file, memory, postgres, s3); overrides NOTES_BACKEND")
	root.PersistentFlags().StringVar(&a.file, "file", "", "Notes file for the file backend; overrides NOTES_FILE")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable verbose logging")

	root.AddCommand(
		newListCmd(a),
		newGetCmd(a),
		newCreateCmd(a),
		newUpdateCmd(a),
		newDeleteCmd(a),
	)
	return root
}

func (a *app) open(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if a.backend != "" {
		cfg.Backend = a.backend
	}
	if a.file != "" {
		cfg.NotesFile = a.file
	}

	level := "warn"
	if a.verbose {
		level = "debug"
	}
	log := logging.New(cmd.ErrOrStderr(), level, "text")
	slog.SetDefault(log)

	p, closeFn, err := storage.Open(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}
	a.store = notes.NewStore(p, notes.WithRequireUpdateText(cfg.UpdateRequireText))
	a.closeStorage = closeFn
	return nil
}
