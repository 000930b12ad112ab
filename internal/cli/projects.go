package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/adanyl0v/go-planner/pkg/client"
)

func (a *app) projectsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "projects",
		Aliases: []string{"project", "p"},
		Short:   "Manage projects and their tasks and notes",
	}
	cmd.AddCommand(
		a.projectsListCommand(),
		a.projectsAddCommand(),
		a.projectsRemoveCommand(),
		a.projectsAddTaskCommand(),
		a.projectsCompleteTaskCommand("done-task", "Mark a project task as completed", true),
		a.projectsCompleteTaskCommand("undo-task", "Mark a project task as not completed", false),
		a.projectsEditTaskCommand(),
		a.projectsRemoveTaskCommand(),
		a.projectsAddNoteCommand(),
		a.projectsEditNoteCommand(),
		a.projectsRemoveNoteCommand(),
	)
	return cmd
}

func (a *app) projectsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List projects with their tasks and notes",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}

			projects, err := c.ListProjects(cmd.Context())
			if err != nil {
				return err
			}
			printProjects(cmd.OutOrStdout(), projects)
			return nil
		},
	}
}

func (a *app) projectsAddCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add NAME...",
		Short: "Create a project",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}

			project, err := c.CreateProject(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created project %s\n", project.ID)
			return nil
		},
	}
}

func (a *app) projectsRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "rm ID",
		Aliases: []string{"delete"},
		Short:   "Delete a project together with its tasks and notes",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}

			project, err := c.DeleteProject(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted project %s\n", project.ID)
			return nil
		},
	}
}

func (a *app) projectsAddTaskCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add-task PROJECT_ID TEXT...",
		Short: "Create a task in a project",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			scheduled, err := optionalDate(cmd, "date")
			if err != nil {
				return err
			}

			c, err := a.client()
			if err != nil {
				return err
			}

			task, err := c.CreateProjectTask(cmd.Context(), args[0], client.NewTask{
				Text:          strings.Join(args[1:], " "),
				ScheduledDate: scheduled,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created task %s\n", task.ID)
			return nil
		},
	}
	cmd.Flags().String("date", "", "scheduled date as YYYY-MM-DD (default today)")
	return cmd
}

func (a *app) projectsCompleteTaskCommand(use, short string, completed bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " PROJECT_ID TASK_ID",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}

			task, err := c.UpdateProjectTask(cmd.Context(), args[0], args[1], client.TaskUpdate{Completed: &completed})
			if err != nil {
				return err
			}
			printTasks(cmd.OutOrStdout(), []client.Task{*task})
			return nil
		},
	}
}

func (a *app) projectsEditTaskCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit-task PROJECT_ID TASK_ID",
		Short: "Change a project task's text or date",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			update, err := taskUpdateFromFlags(cmd)
			if err != nil {
				return err
			}

			c, err := a.client()
			if err != nil {
				return err
			}

			task, err := c.UpdateProjectTask(cmd.Context(), args[0], args[1], update)
			if err != nil {
				return err
			}
			printTasks(cmd.OutOrStdout(), []client.Task{*task})
			return nil
		},
	}
	cmd.Flags().String("text", "", "new text")
	cmd.Flags().String("date", "", "new scheduled date as YYYY-MM-DD")
	return cmd
}

func (a *app) projectsRemoveTaskCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rm-task PROJECT_ID TASK_ID",
		Short: "Delete a project task",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}

			task, err := c.DeleteProjectTask(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted task %s\n", task.ID)
			return nil
		},
	}
}

func (a *app) projectsAddNoteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add-note PROJECT_ID TITLE...",
		Short: "Create a note in a project",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}

			note, err := c.CreateProjectNote(cmd.Context(), args[0], strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created note %s\n", note.ID)
			return nil
		},
	}
}

func (a *app) projectsEditNoteCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit-note PROJECT_ID NOTE_ID",
		Short: "Change a project note's title or content",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			update, err := noteUpdateFromFlags(cmd)
			if err != nil {
				return err
			}

			c, err := a.client()
			if err != nil {
				return err
			}

			note, err := c.UpdateProjectNote(cmd.Context(), args[0], args[1], update)
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

func (a *app) projectsRemoveNoteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rm-note PROJECT_ID NOTE_ID",
		Short: "Delete a project note",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}

			note, err := c.DeleteProjectNote(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted note %s\n", note.ID)
			return nil
		},
	}
}
