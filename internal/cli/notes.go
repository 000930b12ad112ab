package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/adanyl0v/go-planner/pkg/client"
)

func (a *app) notesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "notes",
		Aliases: []string{"note", "n"},
		Short:   "Manage notes",
	}
	cmd.AddCommand(
		a.notesListCommand(),
		a.notesAddCommand(),
		a.notesEditCommand(),
		a.notesRemoveCommand(),
	)
	return cmd
}

func (a *app) notesListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List notes, most recently modified first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}

			notes, err := c.ListNotes(cmd.Context())
			if err != nil {
				return err
			}
			printNotes(cmd.OutOrStdout(), notes)
			return nil
		},
	}
}

// notesAddCommand creates the note empty, as the API does, and writes
// --content with a second request.
func (a *app) notesAddCommand() *cobra.Command {
	var content string

	cmd := &cobra.Command{
		Use:   "add TITLE...",
		Short: "Create a note",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}

			note, err := c.CreateNote(cmd.Context(), client.NewNote{Title: strings.Join(args, " ")})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created note %s\n", note.ID)

			if content == "" {
				return nil
			}
			_, err = c.UpdateNote(cmd.Context(), note.ID, client.NoteUpdate{Content: &content})
			return err
		},
	}
	cmd.Flags().StringVar(&content, "content", "", "note body")
	return cmd
}

func (a *app) notesEditCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Change a note's title or content",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			update, err := noteUpdateFromFlags(cmd)
			if err != nil {
				return err
			}

			c, err := a.client()
			if err != nil {
				return err
			}

			note, err := c.UpdateNote(cmd.Context(), args[0], update)
			if err != nil {
				return err
			}
			printNotes(cmd.OutOrStdout(), []client.Note{*note})
			return nil
		},
	}
	addNoteUpdateFlags(cmd)
	return cmd
}

func (a *app) notesRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "rm ID",
		Aliases: []string{"delete"},
		Short:   "Delete a note",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}

			note, err := c.DeleteNote(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted note %s\n", note.ID)
			return nil
		},
	}
}

func addNoteUpdateFlags(cmd *cobra.Command) {
	cmd.Flags().String("title", "", "new title")
	cmd.Flags().String("content", "", "new body")
}

func noteUpdateFromFlags(cmd *cobra.Command) (client.NoteUpdate, error) {
	update := client.NoteUpdate{
		Title:   optionalString(cmd, "title"),
		Content: optionalString(cmd, "content"),
	}
	if update.Title == nil && update.Content == nil {
		return client.NoteUpdate{}, errNothingToUpdate
	}
	return update, nil
}
