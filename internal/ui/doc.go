// Package ui renders terminal output for the canemu CLI.
//
// Components are built with Lipgloss and follow a "render once and print"
// pattern:
//
//   - Header: command banner showing operation name and parameters
//   - Result: success/failure/warning boxes with ordered details
//   - Table: device registry and discovered emulator listings
//
// Widths adapt to the terminal via GetTerminalWidth, clamped between
// MinTerminalWidth and MaxContentWidth.
//
// Example:
//
//	fmt.Println(ui.NewHeader("Device State", "canemu send 0x02040005").Render())
//	fmt.Println(ui.RenderDeviceTable(devices, ui.GetTerminalWidth()))
//
// Logging is controlled via the CANEMU_LOG_LEVEL environment variable. When
// unset, zap logging is silent so the rendered output stays clean.
package ui
