package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/adanyl0v/go-planner/pkg/client"
)

func (a *app) tasksCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tasks",
		Aliases: []string{"task", "t"},
		Short:   "Manage standalone tasks",
	}
	cmd.AddCommand(
		a.tasksListCommand(),
		a.tasksAddCommand(),
		a.tasksCompleteCommand("done", "Mark a task as completed", true),
		a.tasksCompleteCommand("undo", "Mark a task as not completed", false),
		a.tasksEditCommand(),
		a.tasksRemoveCommand(),
	)
	return cmd
}

func (a *app) tasksListCommand() *cobra.Command {
	var today bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List standalone tasks, open ones first, by scheduled date",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}

			state := client.NewSession(c, a.logger).Tasks
			if err = state.Fetch(cmd.Context()); err != nil {
				return err
			}

			tasks := state.Tasks()
			if today {
				tasks = state.Today(time.Now())
			}
			printTasks(cmd.OutOrStdout(), tasks)
			return nil
		},
	}
	cmd.Flags().BoolVar(&today, "today", false, "only tasks scheduled for the local calendar day")
	return cmd
}

func (a *app) tasksAddCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add TEXT...",
		Short: "Create a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scheduled, err := optionalDate(cmd, "date")
			if err != nil {
				return err
			}

			c, err := a.client()
			if err != nil {
				return err
			}

			task, err := c.CreateTask(cmd.Context(), client.NewTask{
				Text:          strings.Join(args, " "),
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

func (a *app) tasksCompleteCommand(use, short string, completed bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " ID",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}

			task, err := c.UpdateTask(cmd.Context(), args[0], client.TaskUpdate{Completed: &completed})
			if err != nil {
				return err
			}
			printTasks(cmd.OutOrStdout(), []client.Task{*task})
			return nil
		},
	}
}

func (a *app) tasksEditCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Change a task's text or date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			update, err := taskUpdateFromFlags(cmd)
			if err != nil {
				return err
			}

			c, err := a.client()
			if err != nil {
				return err
			}

			task, err := c.UpdateTask(cmd.Context(), args[0], update)
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

func (a *app) tasksRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "rm ID",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}

			task, err := c.DeleteTask(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted task %s\n", task.ID)
			return nil
		},
	}
}

func taskUpdateFromFlags(cmd *cobra.Command) (client.TaskUpdate, error) {
	scheduled, err := optionalDate(cmd, "date")
	if err != nil {
		return client.TaskUpdate{}, err
	}

	update := client.TaskUpdate{
		Text:          optionalString(cmd, "text"),
		ScheduledDate: scheduled,
	}
	if update.Text == nil && update.ScheduledDate == nil {
		return client.TaskUpdate{}, errNothingToUpdate
	}
	return update, nil
}
