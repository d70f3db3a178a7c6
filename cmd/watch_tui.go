// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Calderic Instruments

package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/calderic/fumarole/pkg/tephra"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Event log entry
type watchLogEntry struct {
	timestamp time.Time
	message   string
	isError   bool // true for errors, false for info
}

// Latest report snapshot
type watchReport struct {
	timestamp time.Time
	address   uint64
	report    tephra.ChipReport
}

// TUI model
type watchModel struct {
	connInfo      string
	showAll       bool
	stats         *tephra.Statistics
	eventLog      []watchLogEntry
	logView       viewport.Model
	maxLogEntries int
	synchronized  bool
	invalidBytes  int
	width         int
	height        int
	quitting      bool
	lastReport    *watchReport
}

// Messages
type watchTickMsg time.Time
type watchEventMsg watchEvent

func initialWatchModel(connInfo string, showAll bool) watchModel {
	return watchModel{
		connInfo:      connInfo,
		showAll:       showAll,
		stats:         tephra.NewStatistics(),
		eventLog:      make([]watchLogEntry, 0),
		logView:       viewport.New(76, 8),
		maxLogEntries: 100,
		width:         80,
		height:        24,
	}
}

// runWatchTUI drives the bubbletea program, pumping reader events into it.
func runWatchTUI(connInfo string, events <-chan watchEvent) error {
	m := initialWatchModel(connInfo, watchShowAll)
	p := tea.NewProgram(m, tea.WithAltScreen())

	go func() {
		for ev := range events {
			p.Send(watchEventMsg(ev))
		}
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %v", err)
	}
	return nil
}

func (m watchModel) Init() tea.Cmd {
	return tea.Batch(
		watchTickCmd(),
		tea.EnterAltScreen,
	)
}

func watchTickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return watchTickMsg(t)
	})
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "up", "down", "pgup", "pgdown":
			var cmd tea.Cmd
			m.logView, cmd = m.logView.Update(msg)
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.logView.Width = msg.Width - 6
		logHeight := msg.Height - 20
		if logHeight < 5 {
			logHeight = 5
		}
		m.logView.Height = logHeight

	case watchTickMsg:
		// Update statistics rates
		m.stats.CalculateRates()
		return m, watchTickCmd()

	case watchEventMsg:
		if msg.decodeErr == ErrConnectionClosed {
			m.quitting = true
			return m, tea.Quit
		}
		m.applyEvent(watchEvent(msg))
	}

	return m, nil
}

func (m *watchModel) applyEvent(ev watchEvent) {
	if ev.decodeErr != nil {
		if !m.synchronized {
			// Pre-sync noise is counted but not logged as an error
			m.invalidBytes++
			return
		}
		m.stats.Update(nil, ev.decodeErr, nil)
		m.addLogEntry(fmt.Sprintf("DECODE ERROR: %v", ev.decodeErr), true)
		return
	}
	if ev.packet == nil {
		return
	}

	if !m.synchronized {
		m.synchronized = true
		if m.invalidBytes > 0 {
			m.addLogEntry(fmt.Sprintf("Synchronized after skipping %d invalid bytes", m.invalidBytes), false)
		} else {
			m.addLogEntry("Synchronized", false)
		}
	}

	m.stats.Update(ev.packet, nil, ev.validationErrors)

	// Keep the freshest report for the dashboard
	if ev.packet.Type() == tephra.MsgReportData {
		if report, err := tephra.ParseReportData(ev.packet); err == nil {
			m.lastReport = &watchReport{
				timestamp: time.Now(),
				address:   ev.packet.Address(),
				report:    report,
			}
		}
	}

	if len(ev.validationErrors) > 0 {
		msgType := tephra.FormatMessageType(ev.packet.Type())
		for _, verr := range ev.validationErrors {
			m.addLogEntry(fmt.Sprintf("%s: %s", msgType, verr.Message), true)
		}
	} else if m.showAll {
		msgType := tephra.FormatMessageType(ev.packet.Type())
		m.addLogEntry(fmt.Sprintf("%s (valid)", msgType), false)
	}
}

func (m *watchModel) addLogEntry(message string, isError bool) {
	entry := watchLogEntry{
		timestamp: time.Now(),
		message:   message,
		isError:   isError,
	}
	m.eventLog = append(m.eventLog, entry)

	// Keep only last N entries
	if len(m.eventLog) > m.maxLogEntries {
		m.eventLog = m.eventLog[len(m.eventLog)-m.maxLogEntries:]
	}
}

func (m watchModel) View() string {
	if m.quitting {
		return "Shutting down...\n"
	}

	// Styles
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12")).
		Background(lipgloss.Color("235")).
		Padding(0, 1)

	headerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("12")).
		Bold(true)

	valueStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("10"))

	errorStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("9")).
		Bold(true)

	warningStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("11"))

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	// Header
	var s strings.Builder
	s.WriteString(titleStyle.Render("FUMAROLE - WATCH"))
	s.WriteString("\n")
	s.WriteString(headerStyle.Render(fmt.Sprintf("%s | Mode: %s | Press 'q' to quit",
		m.connInfo, func() string {
			if m.showAll {
				return "All packets"
			}
			return "Errors only"
		}())))
	s.WriteString("\n\n")

	// Sync status
	if !m.synchronized {
		s.WriteString(warningStyle.Render("Waiting for synchronization..."))
		s.WriteString("\n\n")
	} else {
		s.WriteString(valueStyle.Render("Synchronized"))
		if m.invalidBytes > 0 {
			s.WriteString(headerStyle.Render(fmt.Sprintf(" (skipped %d invalid bytes)", m.invalidBytes)))
		}
		s.WriteString("\n\n")
	}

	// Statistics
	m.stats.CalculateRates()
	var validPercent, errorPercent float64
	totalErrors := m.stats.CRCErrors + m.stats.DecodeErrors + m.stats.AnomalousValues
	if m.stats.TotalPackets > 0 {
		validPercent = float64(m.stats.ValidPackets) * 100.0 / float64(m.stats.TotalPackets)
		errorPercent = float64(totalErrors) * 100.0 / float64(m.stats.TotalPackets)
	}

	statsContent := strings.Builder{}
	statsContent.WriteString(fmt.Sprintf("%s %s   %s %s   %s %s\n",
		labelStyle.Render("Total:"), valueStyle.Render(fmt.Sprintf("%d", m.stats.TotalPackets)),
		labelStyle.Render("Valid:"), valueStyle.Render(fmt.Sprintf("%d (%.1f%%)", m.stats.ValidPackets, validPercent)),
		labelStyle.Render("Errors:"), errorStyle.Render(fmt.Sprintf("%d (%.1f%%)", totalErrors, errorPercent)),
	))

	if m.stats.CRCErrors > 0 || m.stats.DecodeErrors > 0 {
		statsContent.WriteString(fmt.Sprintf("%s %s   %s %s\n",
			labelStyle.Render("CRC Errors:"), errorStyle.Render(fmt.Sprintf("%d", m.stats.CRCErrors)),
			labelStyle.Render("Decode Errors:"), errorStyle.Render(fmt.Sprintf("%d", m.stats.DecodeErrors)),
		))
	}

	if m.stats.AnomalousValues > 0 {
		statsContent.WriteString(fmt.Sprintf("%s %s",
			labelStyle.Render("Anomalous:"), warningStyle.Render(fmt.Sprintf("%d", m.stats.AnomalousValues)),
		))
		if m.stats.UnknownModels > 0 || m.stats.InvalidFreqs > 0 || m.stats.InvalidFlash > 0 {
			statsContent.WriteString(fmt.Sprintf(" (%s: %d, %s: %d, %s: %d)",
				headerStyle.Render("unknown models"), m.stats.UnknownModels,
				headerStyle.Render("invalid freq"), m.stats.InvalidFreqs,
				headerStyle.Render("invalid flash"), m.stats.InvalidFlash,
			))
		}
		statsContent.WriteString("\n")
	}

	statsContent.WriteString(fmt.Sprintf("%s %s   %s %s",
		labelStyle.Render("Packet Rate:"), valueStyle.Render(fmt.Sprintf("%.1f pkts/s", m.stats.PacketRate)),
		labelStyle.Render("Error Rate:"), func() string {
			if m.stats.ErrorRate > 0 {
				return errorStyle.Render(fmt.Sprintf("%.1f err/s", m.stats.ErrorRate))
			}
			return valueStyle.Render(fmt.Sprintf("%.1f err/s", m.stats.ErrorRate))
		}(),
	))

	s.WriteString(boxStyle.Render(statsContent.String()))
	s.WriteString("\n\n")

	// Latest report (only shown once one has arrived)
	if m.lastReport != nil {
		s.WriteString(labelStyle.Render("Latest Report:"))
		s.WriteString(headerStyle.Render(fmt.Sprintf("  (%s)", m.lastReport.timestamp.Format("15:04:05"))))
		s.WriteString("\n")

		r := m.lastReport.report
		reportContent := strings.Builder{}
		reportContent.WriteString(fmt.Sprintf("%s %s   %s %d   %s %s\n",
			labelStyle.Render("Model:"), valueStyle.Render(tephra.FormatChipModel(r.Model)),
			labelStyle.Render("Cores:"), r.Cores,
			labelStyle.Render("Revision:"), valueStyle.Render(tephra.FormatRevision(r.Revision)),
		))
		reportContent.WriteString(fmt.Sprintf("%s %s\n",
			labelStyle.Render("Features:"), valueStyle.Render(tephra.FormatFeatures(r.Features)),
		))
		reportContent.WriteString(fmt.Sprintf("%s %s   %s %s\n",
			labelStyle.Render("SDK:"), valueStyle.Render(r.SDKVersion),
			labelStyle.Render("Reset:"), valueStyle.Render(tephra.FormatResetReason(r.ResetReason)),
		))
		flashLoc := "external"
		if r.FlashEmbedded {
			flashLoc = "embedded"
		}
		reportContent.WriteString(fmt.Sprintf("%s %s   %s %s   %s %s",
			labelStyle.Render("CPU:"), valueStyle.Render(fmt.Sprintf("%d MHz", r.CPUFreqMHz)),
			labelStyle.Render("Flash:"), valueStyle.Render(fmt.Sprintf("%s (%s)", tephra.FormatFlashSize(r.FlashSizeBytes), flashLoc)),
			labelStyle.Render("Uptime:"), valueStyle.Render(tephra.FormatDuration(r.UptimeMs)),
		))

		s.WriteString(boxStyle.Render(reportContent.String()))
		s.WriteString("\n\n")
	}

	// Event log
	s.WriteString(labelStyle.Render("Recent Events:"))
	s.WriteString("\n")

	logContent := strings.Builder{}
	if len(m.eventLog) == 0 {
		logContent.WriteString(headerStyle.Render("  (no events yet)"))
	} else {
		for _, entry := range m.eventLog {
			timestamp := entry.timestamp.Format("15:04:05.000")
			if entry.isError {
				logContent.WriteString(fmt.Sprintf("%s %s\n",
					headerStyle.Render(timestamp),
					errorStyle.Render("x "+entry.message),
				))
			} else {
				logContent.WriteString(fmt.Sprintf("%s %s\n",
					headerStyle.Render(timestamp),
					warningStyle.Render("- "+entry.message),
				))
			}
		}
	}
	m.logView.SetContent(logContent.String())
	m.logView.GotoBottom()

	s.WriteString(boxStyle.Width(m.width - 4).Render(m.logView.View()))

	return s.String()
}
