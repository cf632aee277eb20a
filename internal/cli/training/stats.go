package training

import (
	"fmt"

	"github.com/julianstephens/onboard/internal/cli"
	"github.com/julianstephens/onboard/internal/constants"
	"github.com/julianstephens/onboard/internal/stats"
	"github.com/julianstephens/onboard/internal/tui"
)

type StatsCmd struct {
	Heatmap bool `help:"Show the completion activity heatmap."`
	Weeks   int  `help:"Weeks shown in the heatmap." default:"26"`
}

func (c *StatsCmd) Run(ctx *cli.Context) error {
	t, _, err := ctx.Tracker()
	if err != nil {
		return err
	}
	sections := t.Sections()

	overall := t.Stats()
	fmt.Printf("Overall: %d/%d (%d%%)\n", overall.Completed, overall.Total, overall.Percentage)
	fmt.Println(tui.RenderProgressBar(overall, 40))

	fmt.Println("\nBy section:")
	for _, sp := range stats.BySection(sections) {
		fmt.Printf("  %-24s %3d%%  %d/%d\n", sp.Title, sp.Percentage, sp.Completed, sp.Total)
	}

	fmt.Println("\nBy track:")
	for _, dp := range stats.Dimensions(sections, stats.DimensionsFromConfig(ctx.Cfg().Dimensions)) {
		fmt.Printf("  %-24s %3d%%  %d/%d\n", dp.Name, dp.Percentage, dp.Completed, dp.Total)
	}

	if c.Heatmap {
		today := ctx.Now()
		weeks := c.Weeks
		if weeks <= 0 {
			weeks = constants.HeatmapWeeks
		}
		counts := stats.Activity(t.AllTasks(), today.Location())
		fmt.Printf("\n%d confirmations in total\n", stats.Total(counts))
		fmt.Println(tui.RenderHeatmap(stats.Heatmap(counts, today, weeks), today))
	}
	return nil
}
