/*
 * Copyright 2025 CoralStor, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package cli implements the CoralStor console: an interactive cluster
// dashboard plus non-interactive subcommands for scripting.
package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/coralstor/console/pkg/forms"
	"github.com/coralstor/console/pkg/models"
)

const requestTimeout = 10 * time.Second

func initialModel(deps consoleDeps) *model {
	ki := textinput.New()
	ki.Placeholder = "Enter API key"
	ki.EchoMode = textinput.EchoPassword
	ki.EchoCharacter = '•'
	ki.Width = 40
	ki.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(draculaCyan))
	ki.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(draculaForeground))
	ki.PlaceholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(draculaComment))
	ki.Focus()

	canCopy := true
	if err := clipboard.WriteAll(""); err != nil {
		canCopy = false
	}

	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Name", Width: 20},
			{Title: "Type", Width: 8},
			{Title: "Size", Width: 10},
			{Title: "Replicas", Width: 8},
			{Title: "Status", Width: 10},
		}),
		table.WithFocused(true),
	)

	return &model{
		cfg:      deps.cfg,
		log:      deps.log,
		gate:     deps.gate,
		alloc:    deps.alloc,
		connect:  deps.connect,
		view:     viewLocked,
		table:    t,
		keyInput: ki,
		canCopy:  canCopy,
		styles:   newStyles(),
	}
}

func (m *model) Init() tea.Cmd {
	// A key from the config or environment skips the lock screen.
	if m.cfg.APIKey != "" {
		if cmd := m.unlock(m.cfg.APIKey); cmd != nil {
			return cmd
		}
	}

	return textinput.Blink
}

// unlock connects (once) and leaves the lock screen. Returns nil and records
// the error when connecting fails.
func (m *model) unlock(apiKey string) tea.Cmd {
	if m.sess == nil {
		sess, err := m.connect(apiKey)
		if err != nil {
			m.err = err
			return nil
		}

		m.sess = sess
		m.widget = sess.widget
	}

	m.err = nil
	m.gate.Set(false)
	m.view = viewDashboard

	return tea.Batch(m.waitForStatus(), m.waitForEvent(), m.fetchServices(), m.refreshEvents())
}

// lock returns to the lock screen without dropping the session. The gate
// suppresses polling until the console is unlocked again.
func (m *model) lock() {
	m.gate.Set(true)
	m.view = viewLocked
	m.keyInput.SetValue("")
	m.copyMessage = ""
	m.notice = ""
}

func (m *model) waitForStatus() tea.Cmd {
	ch := m.sess.statusCh
	svc := m.sess.status

	return func() tea.Msg {
		current, ok := <-ch
		if !ok {
			return statusClosedMsg{}
		}

		return statusMsg{status: current, degraded: svc.Degraded(), failures: svc.Failures()}
	}
}

// waitForEvent delivers the next streamed event into the widget. Nil when the
// core has no event stream; the periodic refresh covers that case.
func (m *model) waitForEvent() tea.Cmd {
	ch := m.sess.eventCh
	if ch == nil {
		return nil
	}

	widget := m.widget

	return func() tea.Msg {
		event, ok := <-ch
		if !ok {
			return eventStreamMsg{open: false}
		}

		widget.Append(event)

		return eventStreamMsg{open: true}
	}
}

func (m *model) fetchServices() tea.Cmd {
	client := m.sess.services

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		list, err := client.List(ctx)
		if err != nil {
			return errMsg{err}
		}

		return servicesMsg{services: list}
	}
}

func (m *model) refreshEvents() tea.Cmd {
	widget := m.widget

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		// Stale events stay on screen when the refresh fails.
		_ = widget.Refresh(ctx)

		return eventsMsg{}
	}
}

func (m *model) createService(spec *models.ServiceSpec) tea.Cmd {
	client := m.sess.services

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		if _, err := client.Create(ctx, spec); err != nil {
			return errMsg{err}
		}

		return serviceCreatedMsg{name: spec.Name}
	}
}

func (m *model) deleteService(name string) tea.Cmd {
	client := m.sess.services

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		if err := client.Delete(ctx, name); err != nil {
			return errMsg{err}
		}

		return serviceDeletedMsg{name: name}
	}
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case statusMsg:
		m.current = msg.status
		m.degraded = msg.degraded
		m.failures = msg.failures

		return m, m.waitForStatus()
	case statusClosedMsg:
		return m, nil
	case servicesMsg:
		m.setServices(msg.services)
		return m, nil
	case eventsMsg:
		return m, nil
	case eventStreamMsg:
		if msg.open {
			return m, m.waitForEvent()
		}

		return m, nil
	case serviceCreatedMsg:
		m.notice = fmt.Sprintf("Service %s created", msg.name)
		m.view = viewDashboard
		m.create = nil

		return m, tea.Batch(m.fetchServices(), m.refreshEvents())
	case serviceDeletedMsg:
		m.notice = fmt.Sprintf("Service %s deleted", msg.name)
		return m, m.fetchServices()
	case errMsg:
		m.err = msg.err
		return m, nil
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	return m.updateFocused(msg)
}

func (m *model) setServices(list *models.Services) {
	m.services = list.Services
	m.allocated = list.Allocated

	rows := make([]table.Row, 0, len(list.Services))
	for _, svc := range list.Services {
		rows = append(rows, table.Row{
			svc.Name,
			svc.Type,
			forms.FormatBytes(svc.Size),
			fmt.Sprintf("%d", svc.ReplicaCount),
			svc.Status.Code.String(),
		})
	}

	m.table.SetRows(rows)
}

// updateFocused routes non-key messages to the focused input component.
func (m *model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.view {
	case viewLocked:
		m.keyInput, cmd = m.keyInput.Update(msg)
	case viewCreate:
		if m.create != nil {
			m.create.inputs[m.create.focus], cmd = m.create.inputs[m.create.focus].Update(msg)
			m.create.syncFocused()
		}
	case viewDashboard:
		m.table, cmd = m.table.Update(msg)
	}

	return m, cmd
}

func (m *model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m.quit()
	}

	switch m.view {
	case viewLocked:
		return m.handleLockedKey(msg)
	case viewCreate:
		return m.handleCreateKey(msg)
	default:
		return m.handleDashboardKey(msg)
	}
}

func (m *model) quit() (tea.Model, tea.Cmd) {
	return m, tea.Quit
}

func (m *model) handleLockedKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		return m.quit()
	case tea.KeyEnter:
		if m.sess != nil {
			return m, m.unlock("")
		}

		key := strings.TrimSpace(m.keyInput.Value())
		if key == "" {
			m.err = errAPIKeyRequired
			return m, nil
		}

		return m, m.unlock(key)
	default:
		var cmd tea.Cmd
		m.keyInput, cmd = m.keyInput.Update(msg)

		return m, cmd
	}
}

func (m *model) handleDashboardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return m.quit()
	case "n":
		create, err := newCreateView(m.alloc)
		if err != nil {
			m.err = err
			return m, nil
		}

		m.create = create
		m.view = viewCreate
		m.err = nil

		return m, textinput.Blink
	case "d":
		cursor := m.table.Cursor()
		if cursor < 0 || cursor >= len(m.services) {
			m.err = errNoServiceSelected
			return m, nil
		}

		return m, m.deleteService(m.services[cursor].Name)
	case "r":
		return m, tea.Batch(m.fetchServices(), m.refreshEvents())
	case "l":
		m.lock()
		return m, textinput.Blink
	case "c":
		m.copyFSID()
		return m, nil
	default:
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)

		return m, cmd
	}
}

func (m *model) copyFSID() {
	if !m.canCopy || m.current == nil || m.current.FSID == "" {
		return
	}

	if err := clipboard.WriteAll(m.current.FSID); err != nil {
		m.copyMessage = "Failed to copy to clipboard"
	} else {
		m.copyMessage = "Cluster ID copied to clipboard!"
	}
}

func (m *model) handleCreateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.create.form.Close()
		m.create = nil
		m.view = viewDashboard

		return m, nil
	case tea.KeyTab:
		m.create.advance(1)
		return m, textinput.Blink
	case tea.KeyShiftTab:
		m.create.advance(-1)
		return m, textinput.Blink
	case tea.KeyEnter:
		return m.submitCreate()
	default:
		var cmd tea.Cmd
		m.create.inputs[m.create.focus], cmd = m.create.inputs[m.create.focus].Update(msg)
		m.create.syncFocused()

		return m, cmd
	}
}

func (m *model) submitCreate() (tea.Model, tea.Cmd) {
	form := m.create.form
	form.Submit()

	if !form.Valid() {
		return m, nil
	}

	spec, err := specFromForm(form)
	if err != nil {
		m.err = err
		return m, nil
	}

	return m, m.createService(spec)
}

func (m *model) View() string {
	var content strings.Builder

	s := m.styles

	content.WriteString(s.title.Render("CoralStor Console") + "\n\n")

	switch m.view {
	case viewLocked:
		content.WriteString(m.renderLockedView(&s))
	case viewCreate:
		content.WriteString(s.label.Render("New service") + "\n\n")
		content.WriteString(m.create.render(&s))
	default:
		content.WriteString(m.renderDashboard(&s))
	}

	if m.err != nil {
		content.WriteString("\n\n")
		content.WriteString(s.error.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	return s.app.Align(lipgloss.Left).Render(content.String())
}

func (m *model) renderLockedView(s *styles) string {
	var content strings.Builder

	if m.sess != nil {
		content.WriteString(s.hint.Render("Console locked, polling paused") + "\n\n")
		content.WriteString(s.help.Render("Enter resume | Esc quit"))

		return content.String()
	}

	content.WriteString(s.label.Render("API key:") + "\n")
	content.WriteString(m.keyInput.View() + "\n\n")
	content.WriteString(s.help.Render("Enter connect | Esc quit"))

	return content.String()
}

func (m *model) renderDashboard(s *styles) string {
	var content strings.Builder

	content.WriteString(m.statusLine(s) + "\n\n")

	content.WriteString(s.label.Render("Services") +
		s.muted.Render(fmt.Sprintf("  (%s allocated)", forms.FormatBytes(m.allocated))) + "\n")
	content.WriteString(m.table.View() + "\n\n")

	content.WriteString(s.label.Render("Recent events") + "\n")
	content.WriteString(m.renderEvents(s) + "\n")

	if m.notice != "" {
		content.WriteString("\n" + s.success.Render(m.notice))
	}

	if m.copyMessage != "" {
		style := s.success
		if strings.HasPrefix(m.copyMessage, "Failed") {
			style = s.error
		}

		content.WriteString("\n" + style.Render(m.copyMessage))
	}

	content.WriteString("\n" + s.help.Render(
		"n new | d delete | r refresh | c copy cluster ID | l lock | q quit"))

	return content.String()
}

// statusLine renders cluster health, the stale marker, and the cluster ID.
func (m *model) statusLine(s *styles) string {
	if m.current == nil {
		return s.muted.Render("Waiting for cluster status...")
	}

	health := s.healthStyle(m.current.Health.Code).Render(
		strings.ToUpper(m.current.Health.Code.String()))

	line := s.label.Render("Cluster: ") + health
	if m.current.Health.Message != "" {
		line += "  " + m.current.Health.Message
	}

	if m.degraded {
		line += "  " + s.warning.Render(fmt.Sprintf("(stale, %d failed polls)", m.failures))
	}

	if m.current.FSID != "" {
		line += "\n" + s.muted.Render("ID: "+m.current.FSID)
	}

	return line
}

func (m *model) renderEvents(s *styles) string {
	rows := m.widget.Rows()
	if len(rows) == 0 {
		return s.muted.Render("  no recent events")
	}

	var content strings.Builder

	for _, row := range rows {
		severity := row[1]

		style := s.muted
		switch severity {
		case models.SeverityWarning.String():
			style = s.warning
		case models.SeverityError.String():
			style = s.error
		}

		content.WriteString(fmt.Sprintf("  %-14s %s %s\n",
			row[0], style.Render(fmt.Sprintf("%-7s", severity)), row[2]))
	}

	return strings.TrimRight(content.String(), "\n")
}
