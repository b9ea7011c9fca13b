package cli

import (
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/valter-silva-au/time-optimizer/internal/core"
	"github.com/valter-silva-au/time-optimizer/pkg/models"
)

// Dashboard panel indices.
const (
	panelSchedule = iota
	panelSummary
	panelAlerts
	panelCount
)

type dashboardModel struct {
	activePanel int
	width       int
	height      int

	// Data.
	schedule    *models.DailySchedule
	summary     *core.Summary
	metricsData *metricsSnapshot
	alerts      []alertSnapshot

	// State.
	loading bool
	err     error
}

type metricsSnapshot struct {
	planRuns       int
	tasksScheduled int
	hoursScheduled int
	hoursUnused    int
	fillRatio      float64
}

type alertSnapshot struct {
	severity string
	message  string
	time     string
}

// dataLoadedMsg carries loaded data back to the model.
type dataLoadedMsg struct {
	schedule *models.DailySchedule
	summary  *core.Summary
	metrics  *metricsSnapshot
	alerts   []alertSnapshot
	err      error
}

// Style definitions.
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	panelStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(1, 2)

	activePanelStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("62")).
				Padding(1, 2)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			MarginBottom(1)

	severityHigh   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	severityMedium = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
	severityLow    = lipgloss.NewStyle().Foreground(lipgloss.Color("69"))

	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func newDashboardModel() dashboardModel {
	return dashboardModel{
		activePanel: panelSchedule,
		loading:     true,
	}
}

func (m dashboardModel) Init() tea.Cmd {
	return loadData
}

func (m dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "tab":
			m.activePanel = (m.activePanel + 1) % panelCount
			return m, nil
		case "shift+tab":
			m.activePanel = (m.activePanel - 1 + panelCount) % panelCount
			return m, nil
		case "r":
			m.loading = true
			return m, loadData
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case dataLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.schedule = msg.schedule
		m.summary = msg.summary
		m.metricsData = msg.metrics
		m.alerts = msg.alerts
		m.err = nil
		return m, nil
	}

	return m, nil
}

func (m dashboardModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	title := titleStyle.Render(" Time Optimizer ")
	help := helpStyle.Render("tab: switch panel | r: refresh | q: quit")

	if m.loading {
		return fmt.Sprintf("%s\n\n  Loading data...\n\n%s", title, help)
	}
	if m.err != nil {
		return fmt.Sprintf("%s\n\n  Error: %s\n\n%s", title, m.err, help)
	}

	schedulePanel := m.renderSchedulePanel()
	summaryPanel := m.renderSummaryPanel()
	alertsPanel := m.renderAlertsPanel()

	availableWidth := m.width - 2

	// The schedule panel holds the timeline, so it always spans the width.
	schedulePanel = m.applyPanelStyle(panelSchedule, schedulePanel, availableWidth-4)

	var lower string
	if availableWidth > 100 {
		colWidth := availableWidth / 2
		summaryPanel = m.applyPanelStyle(panelSummary, summaryPanel, colWidth-4)
		alertsPanel = m.applyPanelStyle(panelAlerts, alertsPanel, colWidth-4)
		lower = lipgloss.JoinHorizontal(lipgloss.Top, summaryPanel, alertsPanel)
	} else {
		panelWidth := availableWidth - 4
		if panelWidth < 20 {
			panelWidth = 20
		}
		summaryPanel = m.applyPanelStyle(panelSummary, summaryPanel, panelWidth)
		alertsPanel = m.applyPanelStyle(panelAlerts, alertsPanel, panelWidth)
		lower = lipgloss.JoinVertical(lipgloss.Left, summaryPanel, alertsPanel)
	}

	body := lipgloss.JoinVertical(lipgloss.Left, schedulePanel, lower)
	return fmt.Sprintf("%s\n\n%s\n\n%s", title, body, help)
}

func (m dashboardModel) applyPanelStyle(panel int, content string, width int) string {
	style := panelStyle
	if m.activePanel == panel {
		style = activePanelStyle
	}
	return style.Width(width).Render(content)
}

func (m dashboardModel) renderSchedulePanel() string {
	var b strings.Builder

	if m.schedule == nil {
		b.WriteString(headerStyle.Render("Today"))
		b.WriteString("\n")
		b.WriteString("  No saved schedule. Run 'topt plan --save'.")
		return b.String()
	}

	b.WriteString(headerStyle.Render(fmt.Sprintf("Schedule %s (%dh budget)", m.schedule.Date, m.schedule.AvailableHours)))
	b.WriteString("\n")

	if len(m.schedule.Entries) == 0 {
		b.WriteString("  Not enough time to fit any task.")
		return b.String()
	}

	for _, e := range m.schedule.Entries {
		b.WriteString(fmt.Sprintf("  %s  %s\n", e.Label(), styleForEnergy(e.Energy).Render(" "+e.TaskName+" ")))
	}
	b.WriteString("\n")
	b.WriteString(renderTimeline(m.schedule.Entries))
	return b.String()
}

func (m dashboardModel) renderSummaryPanel() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Summary"))
	b.WriteString("\n")

	if m.summary == nil {
		b.WriteString("  Nothing planned yet.")
		return b.String()
	}

	s := m.summary
	for _, level := range models.EnergyLevels {
		label := fmt.Sprintf("  %-14s %d", string(level), s.EnergyCounts[level])
		b.WriteString(styleForEnergy(level).Render(label))
		b.WriteString("\n")
	}
	mostCommon := string(s.MostCommonType)
	if mostCommon == "" {
		mostCommon = "N/A"
	}
	b.WriteString(fmt.Sprintf("\n  %-14s %s\n", "Top type", mostCommon))
	b.WriteString(fmt.Sprintf("  %-14s %.2f\n", "Avg priority", s.AveragePriority))
	b.WriteString(fmt.Sprintf("  %-14s %d\n", "Planned", s.UsedHours))
	b.WriteString(fmt.Sprintf("  %-14s %d", "Unused", s.UnusedHours))

	if md := m.metricsData; md != nil {
		b.WriteString("\n\n")
		b.WriteString(headerStyle.Render("Last 7 days"))
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("  %-14s %d\n", "Plans", md.planRuns))
		b.WriteString(fmt.Sprintf("  %-14s %d\n", "Scheduled", md.tasksScheduled))
		b.WriteString(fmt.Sprintf("  %-14s %d\n", "Hours", md.hoursScheduled))
		b.WriteString(fmt.Sprintf("  %-14s %d\n", "Idle hours", md.hoursUnused))
		b.WriteString(fmt.Sprintf("  %-14s %.0f%%", "Avg fill", md.fillRatio*100))
	}

	return b.String()
}

func (m dashboardModel) renderAlertsPanel() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Alerts"))
	b.WriteString("\n")

	if len(m.alerts) == 0 {
		b.WriteString("  No active alerts.")
		return b.String()
	}

	for _, a := range m.alerts {
		sev := styleForSeverity(a.severity).Render(fmt.Sprintf("[%s]", strings.ToUpper(a.severity)))
		b.WriteString(fmt.Sprintf("  %s %s\n", sev, a.message))
	}

	b.WriteString(fmt.Sprintf("\n  Total: %d alert(s)", len(m.alerts)))
	return b.String()
}

func styleForSeverity(severity string) lipgloss.Style {
	switch strings.ToLower(severity) {
	case "high":
		return severityHigh
	case "medium":
		return severityMedium
	case "low":
		return severityLow
	default:
		return lipgloss.NewStyle()
	}
}

func loadData() tea.Msg {
	var result dataLoadedMsg

	if Planner != nil && Schedules != nil {
		schedule, err := Planner.Today(time.Time{})
		if err != nil {
			result.err = fmt.Errorf("loading schedule: %w", err)
			return result
		}
		result.schedule = schedule
		if schedule != nil {
			var tasks []models.Task
			// Refresh so priorities match what the CLI last saved.
			if Tasks != nil && Tasks.Load() == nil {
				tasks, _ = Tasks.GetAllTasks()
			}
			summary := core.Summarize(schedule.Entries, tasks, schedule.AvailableHours)
			result.summary = &summary
		}
	}

	if MetricsCalc != nil {
		since := time.Now().UTC().AddDate(0, 0, -7)
		metrics, err := MetricsCalc.Calculate(since)
		if err != nil {
			result.err = fmt.Errorf("loading metrics: %w", err)
			return result
		}
		result.metrics = &metricsSnapshot{
			planRuns:       metrics.PlanRuns,
			tasksScheduled: metrics.TasksScheduled,
			hoursScheduled: metrics.HoursScheduled,
			hoursUnused:    metrics.HoursUnused,
			fillRatio:      metrics.AverageFillRatio,
		}
	}

	if AlertEngine != nil {
		alerts, err := AlertEngine.Evaluate()
		if err != nil {
			result.err = fmt.Errorf("loading alerts: %w", err)
			return result
		}

		// High severity first.
		sort.SliceStable(alerts, func(i, j int) bool {
			return severityRank(string(alerts[i].Severity)) < severityRank(string(alerts[j].Severity))
		})

		result.alerts = make([]alertSnapshot, 0, len(alerts))
		for _, a := range alerts {
			result.alerts = append(result.alerts, alertSnapshot{
				severity: string(a.Severity),
				message:  a.Message,
				time:     a.TriggeredAt.Format("2006-01-02 15:04 UTC"),
			})
		}
	}

	return result
}

func severityRank(s string) int {
	switch s {
	case "high":
		return 0
	case "medium":
		return 1
	case "low":
		return 2
	default:
		return 3
	}
}

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Interactive TUI dashboard for today's plan",
	Long: `Launch an interactive terminal dashboard showing today's saved
schedule as a timeline, its summary, recent planning metrics, and alerts.

Navigate between panels with Tab, refresh with r, quit with q.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Planner == nil {
			return fmt.Errorf("planner not initialized")
		}
		p := tea.NewProgram(newDashboardModel(), tea.WithAltScreen())
		_, err := p.Run()
		return err
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}
