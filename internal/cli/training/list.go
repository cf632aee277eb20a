package training

import (
	"fmt"

	"github.com/julianstephens/onboard/internal/cli"
	"github.com/julianstephens/onboard/internal/constants"
	"github.com/julianstephens/onboard/internal/models"
	"github.com/julianstephens/onboard/internal/stats"
)

type ListCmd struct {
	Search  string `short:"s" help:"Only show tasks whose content or category contains this text."`
	Tab     string `help:"Which tasks to show." enum:"all,pending,completed" default:"all"`
	ShowIDs bool   `help:"Show task ids, as used by confirm and unconfirm."`
}

func (c *ListCmd) Run(ctx *cli.Context) error {
	t, _, err := ctx.Tracker()
	if err != nil {
		return err
	}

	d, err := ctx.Dataset()
	if err == nil {
		printHeader(d.Meta)
	}

	sections := t.Filter(c.Search, c.Tab)
	if len(sections) == 0 {
		switch {
		case c.Search != "":
			fmt.Printf("No tasks match %q\n", c.Search)
		case c.Tab == constants.TabCompleted:
			fmt.Println("No completed tasks yet")
		case c.Tab == constants.TabPending:
			fmt.Println("All tasks are confirmed")
		default:
			fmt.Println("No tasks found")
		}
		return nil
	}

	// Section totals come from the unfiltered view.
	totals := make(map[string]stats.Progress)
	for _, sp := range stats.BySection(t.Sections()) {
		totals[sp.Title] = sp.Progress
	}

	for _, s := range sections {
		p := totals[s.Title]
		fmt.Printf("\n%s  (%d/%d)\n", s.Title, p.Completed, p.Total)
		for _, task := range s.Tasks {
			printTask(task, c.ShowIDs)
		}
	}

	overall := t.Stats()
	fmt.Printf("\nProgress: %d/%d (%d%%)\n", overall.Completed, overall.Total, overall.Percentage)
	return nil
}

func printHeader(meta models.Meta) {
	name := meta.Employee()
	if name == "" {
		name = constants.DefaultTrainee
	}
	pos := meta.Position()
	if pos == "" {
		pos = constants.UnknownRole
	}
	fmt.Printf("%s · %s\n", name, pos)
}

func printTask(task models.Task, showID bool) {
	mark := "[ ]"
	if task.Confirmed {
		mark = "[x]"
	}
	line := fmt.Sprintf("  %s %s", mark, task.Content)
	if task.Category != "" {
		line += fmt.Sprintf("  (%s)", task.Category)
	}
	if showID {
		line += "  #" + task.ID
	}
	fmt.Println(line)

	var details []string
	if task.Mentor != "" {
		details = append(details, "mentor: "+task.Mentor)
	}
	if task.Deadline != "" {
		details = append(details, "due: "+task.Deadline)
	}
	if task.Confirmed && task.CompletionDate != "" {
		details = append(details, "done: "+task.CompletionDate)
	}
	for i, d := range details {
		sep := "      "
		if i > 0 {
			sep = ", "
		}
		fmt.Print(sep + d)
	}
	if len(details) > 0 {
		fmt.Println()
	}
}
