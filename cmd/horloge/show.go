package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/coreman2200/funtimes-horloge/internal/layout"
	"github.com/coreman2200/funtimes-horloge/internal/wordclock"
)

var (
	litStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFA000"))
	darkStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#3A2A10"))
	boxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

func newShowCmd() *cobra.Command {
	var (
		at       string
		itIs     bool
		meridiem bool
	)
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the faceplate lit for a time",
		RunE: func(cmd *cobra.Command, _ []string) error {
			hour, minute, err := clockOf(at, time.Now())
			if err != nil {
				return err
			}
			fr, err := wordclock.Update(hour, minute, wordclock.Flags{Active: true, ItIs: itIs, Meridiem: meridiem})
			if err != nil {
				return err
			}
			l := layout.WordClock()
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderFaceplate(fr.Active, l))
			fmt.Fprintln(out, phrase(wordclock.Words(fr.Active, l.Index)))
			return nil
		},
	}
	cmd.Flags().StringVar(&at, "time", "", "time as HH:MM (default: now)")
	cmd.Flags().BoolVar(&itIs, "it-is", true, `light the "IL EST" lead-in`)
	cmd.Flags().BoolVar(&meridiem, "meridiem", false, "light the AM/PM indicator")
	return cmd
}

// clockOf returns the hour and minute of at, or of now when at is empty.
func clockOf(at string, now time.Time) (hour, minute int, err error) {
	if at == "" {
		return now.Hour(), now.Minute(), nil
	}
	return parseClock(at)
}

// parseClock reads HH:MM; range checks are left to the resolver so 24:00 passes.
func parseClock(s string) (hour, minute int, err error) {
	var rest string
	n, _ := fmt.Sscanf(s, "%d:%d%s", &hour, &minute, &rest)
	if n != 2 {
		return 0, 0, fmt.Errorf("time %q: want HH:MM", s)
	}
	return hour, minute, nil
}

func renderFaceplate(s wordclock.ActiveSet, l layout.Layout) string {
	rows := make([]string, wordclock.Rows)
	for y := 0; y < wordclock.Rows; y++ {
		cells := make([]string, wordclock.Columns)
		for x := 0; x < wordclock.Columns; x++ {
			letter := string(wordclock.Letter(x, y))
			if s.Has(l.Index(x, y)) {
				cells[x] = litStyle.Render(letter)
			} else {
				cells[x] = darkStyle.Render(letter)
			}
		}
		rows[y] = strings.Join(cells, " ")
	}
	return boxStyle.Render(strings.Join(rows, "\n"))
}

// phrase joins the lit runs of each row.
func phrase(rows []string) string {
	var words []string
	for _, r := range rows {
		for _, w := range strings.Split(r, ".") {
			if w != "" {
				words = append(words, w)
			}
		}
	}
	return strings.Join(words, " ")
}
