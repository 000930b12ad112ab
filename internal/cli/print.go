package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/adanyl0v/go-planner/pkg/client"
)

func newTabWriter(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

func printUser(w io.Writer, user *client.User) {
	tw := newTabWriter(w)
	fmt.Fprintf(tw, "ID\t%s\n", user.ID)
	fmt.Fprintf(tw, "Name\t%s\n", user.Name)
	fmt.Fprintf(tw, "Email\t%s\n", user.Email)
	fmt.Fprintf(tw, "Since\t%s\n", user.CreatedAt.Local().Format(time.DateOnly))
	_ = tw.Flush()
}

func checkbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

func printTasks(w io.Writer, tasks []client.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, "No tasks")
		return
	}

	tw := newTabWriter(w)
	fmt.Fprintln(tw, "ID\tDONE\tDATE\tTEXT")
	for _, task := range tasks {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			task.ID,
			checkbox(task.Completed),
			task.ScheduledDate.Local().Format(time.DateOnly),
			task.Text,
		)
	}
	_ = tw.Flush()
}

func printNotes(w io.Writer, notes []client.Note) {
	if len(notes) == 0 {
		fmt.Fprintln(w, "No notes")
		return
	}

	tw := newTabWriter(w)
	fmt.Fprintln(tw, "ID\tMODIFIED\tTITLE\tCONTENT")
	for _, note := range notes {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			note.ID,
			note.LastModified.Local().Format(time.DateTime),
			note.Title,
			preview(note.Content, 40),
		)
	}
	_ = tw.Flush()
}

func printProjects(w io.Writer, projects []client.Project) {
	if len(projects) == 0 {
		fmt.Fprintln(w, "No projects")
		return
	}

	tw := newTabWriter(w)
	for i, project := range projects {
		if i > 0 {
			fmt.Fprintln(tw)
		}
		fmt.Fprintf(tw, "%s\t%s\t%d tasks, %d notes\n", project.ID, project.Name, len(project.Tasks), len(project.Notes))
		for _, task := range project.Tasks {
			fmt.Fprintf(tw, "  %s\t%s %s\t%s\n",
				task.ID,
				checkbox(task.Completed),
				task.Text,
				task.ScheduledDate.Local().Format(time.DateOnly),
			)
		}
		for _, note := range project.Notes {
			fmt.Fprintf(tw, "  %s\t# %s\t%s\n", note.ID, note.Title, preview(note.Content, 40))
		}
	}
	_ = tw.Flush()
}

// preview returns the first line of s cut to n runes.
func preview(s string, n int) string {
	line, _, cut := strings.Cut(s, "\n")
	runes := []rune(line)
	if len(runes) > n {
		return string(runes[:n]) + "..."
	}
	if cut {
		return line + "..."
	}
	return line
}
