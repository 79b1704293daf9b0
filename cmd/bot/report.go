package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dailywarden/warden/internal/application/query"
	"github.com/dailywarden/warden/internal/domain/participant"
	"github.com/dailywarden/warden/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// OFFLINE REPORTS
// These read the configured store directly; nothing is written.
// ══════════════════════════════════════════════════════════════════════════════

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
	labelStyle = lipgloss.NewStyle().Bold(true)
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#3FB950"))
	missStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
	boxStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1)
)

func newTodayCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "today",
		Short: "Print every update submitted today",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store, l, err := openLedger(cmd.Context(), cfg, zap.NewNop())
			if err != nil {
				return err
			}
			defer store.Close()

			clock := timeutil.NewSystemClock(cfg.App.Location)
			report, err := query.NewGetTodayReportHandler(l, participant.NewRegistry(), clock).
				Handle(cmd.Context(), query.GetTodayReportQuery{})
			if err != nil {
				return err
			}
			renderToday(cmd.OutOrStdout(), report)
			return nil
		},
	}
}

func newHistoryCommand() *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "history <participant>",
		Short: "Print a participant's updates over the last days",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store, l, err := openLedger(cmd.Context(), cfg, zap.NewNop())
			if err != nil {
				return err
			}
			defer store.Close()

			clock := timeutil.NewSystemClock(cfg.App.Location)
			history, err := query.NewGetHistoryHandler(l, clock).
				Handle(cmd.Context(), query.GetHistoryQuery{ParticipantID: args[0], Days: days})
			if err != nil {
				return err
			}
			renderHistory(cmd.OutOrStdout(), history)
			return nil
		},
	}
	cmd.Flags().IntVar(&days, "days", query.DefaultHistoryDays, "Window length in days")
	return cmd
}

// ══════════════════════════════════════════════════════════════════════════════
// RENDERING
// ══════════════════════════════════════════════════════════════════════════════

func renderToday(w io.Writer, report *query.TodayReportDTO) {
	head := titleStyle.Render(fmt.Sprintf("Daily Updates · %s", report.DayKey))
	if report.IsEmpty() {
		fmt.Fprintln(w, boxStyle.Render(head+"\n"+mutedStyle.Render("No updates submitted today yet.")))
		return
	}

	blocks := make([]string, 0, len(report.Entries))
	for _, e := range report.Entries {
		blocks = append(blocks, fmt.Sprintf("%s\n%s\n%s",
			labelStyle.Render(e.DisplayLabel),
			e.Body,
			mutedStyle.Render("Submitted at "+e.Time),
		))
	}
	fmt.Fprintln(w, boxStyle.Render(head+"\n\n"+strings.Join(blocks, "\n\n")))
}

func renderHistory(w io.Writer, history *query.HistoryDTO) {
	head := titleStyle.Render(fmt.Sprintf("Update History · %s · last %d days", history.ParticipantID, history.Days))
	if history.SubmittedCount == 0 {
		fmt.Fprintln(w, boxStyle.Render(head+"\n"+mutedStyle.Render("No updates found in this period.")))
		return
	}

	lines := make([]string, 0, len(history.Entries))
	for _, e := range history.Entries {
		if !e.Submitted {
			lines = append(lines, fmt.Sprintf("%s %s", missStyle.Render("✗"), mutedStyle.Render(e.DayKey.String())))
			continue
		}
		lines = append(lines, fmt.Sprintf("%s %s  %s", okStyle.Render("✓"), labelStyle.Render(e.DayKey.String()), e.Body))
	}
	summary := mutedStyle.Render(fmt.Sprintf("%d of %d days submitted", history.SubmittedCount, history.Days))
	fmt.Fprintln(w, boxStyle.Render(head+"\n\n"+strings.Join(lines, "\n")+"\n\n"+summary))
}
