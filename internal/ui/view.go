package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/buddyctl/internal/buddy"
)

func (m Model) renderMain() string {
	styles := m.theme.Styles()

	status := m.renderStatus(styles)
	apps := m.renderApps(styles)
	body := lipgloss.JoinHorizontal(lipgloss.Top, status, apps)

	parts := []string{m.renderHeader(styles), body}
	if len(m.activity) > 0 {
		parts = append(parts, m.renderActivity(styles))
	}
	parts = append(parts, m.renderNotice(styles), styles.Footer.Render(m.help.View(m.keys)))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// renderHeader renders the status bar: logo, address, connectivity, last poll.
func (m Model) renderHeader(styles Styles) string {
	sep := "  "
	parts := []string{styles.Logo.Render("buddyctl")}
	if m.address != "" {
		parts = append(parts, styles.MutedText.Render(m.address))
	}

	snap := m.snapshot
	switch {
	case snap.IsOffline():
		parts = append(parts, styles.StateStyle("Offline").Render("OFFLINE"))
	case snap.HasStatus:
		parts = append(parts, styles.SuccessText.Render("ONLINE"))
	case snap.LastError != nil:
		parts = append(parts, styles.WarningText.Render("RETRYING"))
	default:
		parts = append(parts, styles.MutedText.Render("Connecting..."))
	}

	if !snap.LastUpdated.IsZero() {
		parts = append(parts, styles.FaintText.Render("updated "+snap.LastUpdated.Format("15:04:05")))
	}

	return styles.Header.Width(m.width).Render(strings.Join(parts, sep))
}

func (m Model) renderStatus(styles Styles) string {
	snap := m.snapshot
	var b strings.Builder
	b.WriteString(styles.PanelTitle.Render("Host"))
	b.WriteString("\n")

	if !snap.HasStatus {
		msg := "Waiting for host status..."
		if snap.LastError != nil {
			msg = classifyError(snap.LastError)
		}
		b.WriteString(styles.MutedText.Render(msg))
		return styles.Panel.Width(m.statusWidth()).Render(b.String())
	}

	info := snap.HostInfo
	rows := [][2]string{
		{"Power", styles.StateStyle(snap.PcState.String()).Render(snap.PcState.String())},
		{"Stream", styles.StateStyle(info.StreamState.String()).Render(info.StreamState.String())},
		{"Steam", steamLabel(styles, info)},
		{"Running app", appLabel(info.SteamRunningAppID)},
		{"Updating app", updatingLabel(info.SteamTrackedUpdatingAppID)},
	}
	for _, row := range rows {
		b.WriteString(styles.MutedText.Width(14).Render(row[0]))
		b.WriteString(row[1])
		b.WriteString("\n")
	}
	if snap.LastError != nil {
		b.WriteString(styles.DangerText.Render(classifyError(snap.LastError)))
	}
	return styles.Panel.Width(m.statusWidth()).Render(strings.TrimRight(b.String(), "\n"))
}

func (m Model) renderApps(styles Styles) string {
	title := styles.PanelTitle.Render("Gamestream apps")
	var content string
	if !m.appsLoaded {
		content = styles.FaintText.Render("press a to load")
	} else {
		content = m.apps.View()
	}
	return styles.Panel.Width(m.appsWidth()).Render(title + "\n" + content)
}

func (m Model) renderActivity(styles Styles) string {
	var b strings.Builder
	b.WriteString(styles.PanelTitle.Render("Activity"))
	for _, e := range m.activity {
		b.WriteString("\n")
		ts := "--:--:--"
		if !e.Time.IsZero() {
			ts = e.Time.Local().Format("15:04:05")
		}
		b.WriteString(styles.FaintText.Render(ts))
		b.WriteString(" ")
		b.WriteString(levelStyle(styles, e.Level).Render(fmt.Sprintf("%-5s", strings.ToUpper(e.Level))))
		b.WriteString(" ")
		msg := e.Message
		if e.Action != "" {
			msg = e.Action + ": " + msg
		}
		if e.Error != "" {
			msg += " (" + e.Error + ")"
		}
		b.WriteString(styles.Text.Render(msg))
	}
	return styles.Panel.Width(max(m.width-2, 20)).Render(b.String())
}

func (m Model) renderNotice(styles Styles) string {
	switch {
	case m.busy != "":
		return styles.InfoText.Render(" " + m.busy + "...")
	case m.notice == "":
		return ""
	case m.noticeErr:
		return styles.DangerText.Render(" " + m.notice)
	default:
		return styles.SuccessText.Render(" " + m.notice)
	}
}

func (m Model) renderHelp() string {
	styles := m.theme.Styles()
	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Keyboard Shortcuts"))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", 30)))
	b.WriteString("\n\n")
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n\n")
	b.WriteString(styles.FaintText.Render("Press any key to close"))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, b.String())
}

func (m Model) statusWidth() int {
	return max(m.width/2-2, 30)
}

func (m Model) appsWidth() int {
	return max(m.width-m.statusWidth()-6, 20)
}

func (m *Model) resizeApps() {
	m.apps.Width = m.appsWidth() - 2
	m.apps.Height = max(m.height-14, 3)
	m.updateApps()
}

func (m *Model) updateApps() {
	styles := m.theme.Styles()
	switch {
	case !m.appsLoaded:
		m.apps.SetContent("")
	case m.appNames == nil:
		m.apps.SetContent(styles.WarningText.Render("Buddy could not list apps"))
	case len(m.appNames) == 0:
		m.apps.SetContent(styles.MutedText.Render("No apps"))
	default:
		m.apps.SetContent(strings.Join(m.appNames, "\n"))
	}
	m.apps.GotoTop()
}

func steamLabel(styles Styles, info buddy.HostInfoResponse) string {
	if info.SteamIsRunning {
		return styles.SuccessText.Render("running")
	}
	return styles.MutedText.Render("not running")
}

func appLabel(id int) string {
	if id == 0 {
		return "-"
	}
	return strconv.Itoa(id)
}

func updatingLabel(id *int) string {
	if id == nil {
		return "-"
	}
	return strconv.Itoa(*id)
}

func levelStyle(styles Styles, level string) lipgloss.Style {
	switch level {
	case "error", "fatal", "panic":
		return styles.DangerText
	case "warn":
		return styles.WarningText
	case "debug", "trace":
		return styles.FaintText
	default:
		return styles.InfoText
	}
}
