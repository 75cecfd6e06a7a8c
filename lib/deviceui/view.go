// Copyright 2026 The Netreg Authors
// SPDX-License-Identifier: Apache-2.0

package deviceui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/tortis/netregctl/lib/devices"
)

// Column widths for the device table. Name and owner share the space
// left after the fixed MAC and status columns.
const (
	columnWidthMAC    = 19
	columnWidthStatus = 10
	minimumWidth      = 48
)

func (model Model) View() string {
	if !model.ready {
		return "Loading..."
	}
	if model.view == ViewLogin {
		return model.renderLogin()
	}
	return model.renderDevices()
}

func (model Model) renderLogin() string {
	titleStyle := lipgloss.NewStyle().
		Foreground(model.theme.HeaderForeground).
		Bold(true)
	labelStyle := lipgloss.NewStyle().
		Foreground(model.theme.FaintText).
		Width(10)

	var builder strings.Builder
	builder.WriteString(titleStyle.Render("netreg login"))
	builder.WriteString("\n\n")
	builder.WriteString(labelStyle.Render("Username"))
	builder.WriteString(model.username.View())
	builder.WriteString("\n")
	builder.WriteString(labelStyle.Render("Password"))
	builder.WriteString(model.password.View())
	builder.WriteString("\n\n")

	switch {
	case model.busy:
		builder.WriteString(model.spin.View())
		builder.WriteString(lipgloss.NewStyle().
			Foreground(model.theme.FaintText).
			Render("signing in..."))
	case model.loginErr != "":
		builder.WriteString(lipgloss.NewStyle().
			Foreground(model.theme.ErrorText).
			Render(model.loginErr))
	}
	builder.WriteString("\n\n")
	builder.WriteString(lipgloss.NewStyle().
		Foreground(model.theme.HelpText).
		Render("tab: next field • enter: sign in • ctrl+c: quit"))

	return lipgloss.NewStyle().Padding(1, 2).Render(builder.String())
}

func (model Model) renderDevices() string {
	var sections []string
	sections = append(sections, model.renderHeader())
	sections = append(sections, model.renderTable())

	if model.focus == FocusAddForm && model.snapshot.Adding {
		sections = append(sections, model.renderAddForm())
	}

	sections = append(sections, lipgloss.NewStyle().
		Foreground(model.theme.BorderColor).
		Render(strings.Repeat("─", model.contentWidth())))
	sections = append(sections, model.renderStatusBar())
	sections = append(sections, model.renderHelp())
	return strings.Join(sections, "\n")
}

// renderHeader shows the title, the signed-in identity with an admin
// badge when present, and the busy spinner.
func (model Model) renderHeader() string {
	title := lipgloss.NewStyle().
		Foreground(model.theme.HeaderForeground).
		Bold(true).
		Render("Devices")

	who := lipgloss.NewStyle().
		Foreground(model.theme.FaintText).
		Render(model.identity.Username)
	if model.identity.IsAdmin {
		who += " " + lipgloss.NewStyle().
			Foreground(model.theme.AdminBadge).
			Render("[admin]")
	}

	spin := ""
	if model.busy {
		spin = " " + model.spin.View()
	}

	left := title + spin
	gap := model.contentWidth() - lipgloss.Width(left) - lipgloss.Width(who)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + who
}

func (model Model) renderTable() string {
	width := model.contentWidth()
	nameWidth := (width - columnWidthMAC - columnWidthStatus) / 2
	ownerWidth := width - columnWidthMAC - columnWidthStatus - nameWidth

	headerStyle := lipgloss.NewStyle().
		Foreground(model.theme.FaintText).
		Bold(true)
	header := headerStyle.Render(
		pad("MAC", columnWidthMAC) +
			pad("NAME", nameWidth) +
			pad("OWNER", ownerWidth) +
			pad("STATUS", columnWidthStatus))

	rows := []string{header}
	if len(model.snapshot.Items) == 0 {
		rows = append(rows, lipgloss.NewStyle().
			Foreground(model.theme.FaintText).
			Render("  no devices registered"))
	}
	for index, item := range model.snapshot.Items {
		rows = append(rows, model.renderRow(item, index == model.cursor, nameWidth, ownerWidth))
		if item.Editing && item.MAC == model.editingMAC && model.focus == FocusEditForm {
			rows = append(rows, model.renderEditForm())
		}
	}
	return strings.Join(rows, "\n")
}

func (model Model) renderRow(item devices.Item, selected bool, nameWidth, ownerWidth int) string {
	statusText := "disabled"
	statusColor := model.theme.Disabled
	if item.Enabled {
		statusText = "enabled"
		statusColor = model.theme.Enabled
	}

	if selected && model.focus == FocusTable {
		rowStyle := lipgloss.NewStyle().
			Background(model.theme.SelectedBackground).
			Foreground(model.theme.SelectedForeground)
		row := pad(item.MAC, columnWidthMAC) +
			pad(ansi.Truncate(item.Device.Device, nameWidth-1, "…"), nameWidth) +
			pad(ansi.Truncate(item.Owner, ownerWidth-1, "…"), ownerWidth) +
			pad(statusText, columnWidthStatus)
		return rowStyle.Width(model.contentWidth()).Render(row)
	}

	textStyle := lipgloss.NewStyle().Foreground(model.theme.NormalText)
	return textStyle.Render(pad(item.MAC, columnWidthMAC)) +
		textStyle.Render(pad(ansi.Truncate(item.Device.Device, nameWidth-1, "…"), nameWidth)) +
		textStyle.Render(pad(ansi.Truncate(item.Owner, ownerWidth-1, "…"), ownerWidth)) +
		lipgloss.NewStyle().Foreground(statusColor).Render(pad(statusText, columnWidthStatus))
}

func (model Model) renderEditForm() string {
	labelStyle := lipgloss.NewStyle().
		Foreground(model.theme.FaintText).
		Width(8)
	form := labelStyle.Render("Name") + model.editName.View() + "\n" +
		labelStyle.Render("Owner") + model.editOwner.View()
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(model.theme.BorderColor).
		Padding(0, 1).
		Render(form)
}

func (model Model) renderAddForm() string {
	labelStyle := lipgloss.NewStyle().
		Foreground(model.theme.FaintText).
		Width(8)
	title := lipgloss.NewStyle().
		Foreground(model.theme.HeaderForeground).
		Render("New device")
	form := title + "\n" +
		labelStyle.Render("MAC") + model.addMAC.View() + "\n" +
		labelStyle.Render("Name") + model.addName.View() + "\n" +
		labelStyle.Render("Owner") + model.addOwner.View()
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(model.theme.BorderColor).
		Padding(0, 1).
		Render(form)
}

// renderStatusBar shows the outcome of the most recent operation:
// the success notice or the error, never both.
func (model Model) renderStatusBar() string {
	switch {
	case model.snapshot.Err != "":
		return lipgloss.NewStyle().
			Foreground(model.theme.ErrorText).
			Render(ansi.Truncate(model.snapshot.Err, model.contentWidth(), "…"))
	case model.snapshot.Message != "":
		return lipgloss.NewStyle().
			Foreground(model.theme.SuccessText).
			Render(ansi.Truncate(model.snapshot.Message, model.contentWidth(), "…"))
	}
	return ""
}

func (model Model) renderHelp() string {
	var entries string
	switch model.focus {
	case FocusEditForm, FocusAddForm:
		entries = "tab: next field • enter: save • esc: cancel"
	default:
		entries = "j/k: move • e: edit • space: toggle • a: add • x: delete • r: reload • ctrl+l: logout • q: quit"
	}
	return lipgloss.NewStyle().
		Foreground(model.theme.HelpText).
		Render(entries)
}

func (model Model) contentWidth() int {
	if model.width < minimumWidth {
		return minimumWidth
	}
	return model.width
}

// pad space-pads text to the column width.
func pad(text string, width int) string {
	if lipgloss.Width(text) >= width {
		return text
	}
	return fmt.Sprintf("%-*s", width, text)
}
