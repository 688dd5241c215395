package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/canemu/internal/can"
	"github.com/muurk/canemu/internal/discovery"
)

const columnGap = 3

// RenderTable renders rows under headers with columns sized to their widest
// cell, inside a rounded border of the given width.
func RenderTable(headers []string, rows [][]string, empty string, width int) string {
	if width < MinTerminalWidth {
		width = MinTerminalWidth
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i := 0; i < len(row) && i < len(widths); i++ {
			if w := lipgloss.Width(row[i]); w > widths[i] {
				widths[i] = w
			}
		}
	}

	renderRow := func(cells []string, style lipgloss.Style) string {
		parts := make([]string, len(widths))
		for i := range widths {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			w := widths[i]
			if i < len(widths)-1 {
				w += columnGap
			}
			parts[i] = style.Width(w).Render(cell)
		}
		return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
	}

	lines := []string{renderRow(headers, TableHeaderStyle)}
	if len(rows) == 0 {
		lines = append(lines, TableEmptyStyle.Render(empty))
	}
	for _, row := range rows {
		lines = append(lines, renderRow(row, TableCellStyle))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(MutedColor).
		Width(width - 2).
		Padding(0, 1).
		Render(strings.Join(lines, "\n"))
}

// DeviceRows formats devices as table rows: id, type, speed, inverted.
func DeviceRows(devs []can.Device) [][]string {
	rows := make([][]string, 0, len(devs))
	for _, d := range devs {
		rows = append(rows, []string{
			strconv.Itoa(int(d.ID)),
			d.Type.String(),
			fmt.Sprintf("%f", d.Speed),
			strconv.FormatBool(d.Inverted),
		})
	}
	return rows
}

// RenderDeviceTable renders the registry contents.
func RenderDeviceTable(devs []can.Device, width int) string {
	return RenderTable(
		[]string{"ID", "TYPE", "SPEED", "INVERTED"},
		DeviceRows(devs),
		"no devices",
		width,
	)
}

// RenderInstanceTable renders emulators found on the network.
func RenderInstanceTable(instances []*discovery.Instance, width int) string {
	rows := make([][]string, 0, len(instances))
	for _, inst := range instances {
		rows = append(rows, []string{
			inst.Name,
			inst.BaseURL(),
			inst.GetMetadata("version"),
		})
	}
	return RenderTable(
		[]string{"NAME", "URL", "VERSION"},
		rows,
		"no emulators found",
		width,
	)
}
