// Copyright 2026 The Netreg Authors
// SPDX-License-Identifier: Apache-2.0

// Package tui defines the color theme shared by the netreg terminal
// UI. All colors use lipgloss ANSI 256-color codes for broad terminal
// compatibility.
package tui

import "github.com/charmbracelet/lipgloss"

// Theme defines the color palette for the device UI: universal chrome
// (text, selection, borders) and the semantic colors for device state
// and operation outcomes.
type Theme struct {
	// Text colors.
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	// Selected row.
	SelectedBackground lipgloss.Color
	SelectedForeground lipgloss.Color

	// Device state.
	Enabled  lipgloss.Color
	Disabled lipgloss.Color

	// UI chrome.
	HeaderForeground lipgloss.Color
	BorderColor      lipgloss.Color
	HelpText         lipgloss.Color

	// Status bar outcomes.
	SuccessText lipgloss.Color
	ErrorText   lipgloss.Color

	// Admin badge shown next to the username for admin sessions.
	AdminBadge lipgloss.Color
}

// DefaultTheme returns the standard dark-background palette.
func DefaultTheme() Theme {
	return Theme{
		NormalText:         lipgloss.Color("252"),
		FaintText:          lipgloss.Color("243"),
		SelectedBackground: lipgloss.Color("237"),
		SelectedForeground: lipgloss.Color("255"),
		Enabled:            lipgloss.Color("42"),
		Disabled:           lipgloss.Color("203"),
		HeaderForeground:   lipgloss.Color("39"),
		BorderColor:        lipgloss.Color("238"),
		HelpText:           lipgloss.Color("243"),
		SuccessText:        lipgloss.Color("42"),
		ErrorText:          lipgloss.Color("203"),
		AdminBadge:         lipgloss.Color("214"),
	}
}
