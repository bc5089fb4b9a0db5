package main

import "github.com/charmbracelet/lipgloss"

// Colors used in CLI output.
var (
	colorPrimary = lipgloss.Color("62")  // Purple
	colorMuted   = lipgloss.Color("241") // Gray
	colorGood    = lipgloss.Color("78")  // Green
	colorWarn    = lipgloss.Color("214") // Amber
)

// banner style for run summary headings.
var banner = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorPrimary)

// label style for summary field names, padded to a fixed column.
var label = lipgloss.NewStyle().
	Foreground(colorMuted).
	Width(20)

// header style for table headings and sub-sections.
var header = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorMuted)

// okText style for healthy status values.
var okText = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorGood)

// warnText style for fallback status values.
var warnText = lipgloss.NewStyle().
	Foreground(colorWarn)
