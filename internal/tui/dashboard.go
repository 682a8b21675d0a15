// Package tui renders the live dashboard.
package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sandeepkv93/gym-crm-cli/internal/api"
	"github.com/sandeepkv93/gym-crm-cli/internal/domain"
	"github.com/sandeepkv93/gym-crm-cli/internal/session"
)

const refreshEvery = 15 * time.Second

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")).MarginBottom(1)
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 2).MarginRight(2)
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	valueStyle = lipgloss.NewStyle().Bold(true)
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).MarginTop(1)
)

type summaryMsg struct {
	summary *domain.DashboardSummary
	err     error
}

type tickMsg time.Time

type model struct {
	client  *api.Client
	sess    session.Session
	summary *domain.DashboardSummary
	err     error
	updated time.Time
}

func newModel(client *api.Client, sess session.Session) model {
	return model{client: client, sess: sess}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.fetch(), tick())
}

func (m model) fetch() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		sum, err := m.client.Dashboard.Summary(ctx)
		return summaryMsg{summary: sum, err: err}
	}
}

func tick() tea.Cmd {
	return tea.Tick(refreshEvery, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "r":
			return m, m.fetch()
		}
	case tickMsg:
		return m, tea.Batch(m.fetch(), tick())
	case summaryMsg:
		m.err = msg.err
		if msg.err == nil {
			m.summary = msg.summary
			m.updated = time.Now()
		}
	}
	return m, nil
}

func stat(label, value string) string {
	return boxStyle.Render(labelStyle.Render(label) + "\n" + valueStyle.Render(value))
}

func (m model) View() string {
	header := titleStyle.Render(fmt.Sprintf("Gym CRM dashboard  |  %s (%s)", m.sess.Username, m.sess.Role))

	var body string
	switch {
	case m.err != nil:
		body = errStyle.Render("error: " + m.err.Error())
	case m.summary == nil:
		body = labelStyle.Render("loading...")
	default:
		s := m.summary
		body = lipgloss.JoinHorizontal(lipgloss.Top,
			stat("Members", fmt.Sprintf("%d / %d active", s.ActiveMembers, s.TotalMembers)),
			stat("Revenue (month)", fmt.Sprintf("%.2f", s.TotalPaymentsCurrentMonth)),
			stat("Visits today", fmt.Sprintf("%d", s.TodayAttendance)),
		) + "\n" + lipgloss.JoinHorizontal(lipgloss.Top,
			stat("Expiring soon", fmt.Sprintf("%d", s.ExpiringMembersCount)),
			stat("Pending payments", fmt.Sprintf("%d", s.PendingPayments)),
		)
	}

	footer := helpStyle.Render("r refresh  q quit")
	if !m.updated.IsZero() {
		footer = helpStyle.Render(fmt.Sprintf("updated %s  |  r refresh  q quit", m.updated.Format("15:04:05")))
	}
	return header + "\n" + body + "\n" + footer + "\n"
}

// RunDashboard blocks until the user quits the live view.
func RunDashboard(ctx context.Context, client *api.Client, sess session.Session) error {
	p := tea.NewProgram(newModel(client, sess), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
