// Package table renders pterm tables with the shell's defaults.
package table

import "github.com/pterm/pterm"

// PrintTable renders rows as a boxed table.
func PrintTable(rows pterm.TableData, hasHeader bool) {
	_ = pterm.DefaultTable.WithHasHeader(hasHeader).WithBoxed(true).WithData(rows).Render()
}

// PrintTableNoPad renders rows without the surrounding box.
func PrintTableNoPad(rows pterm.TableData, hasHeader bool) {
	_ = pterm.DefaultTable.WithHasHeader(hasHeader).WithData(rows).Render()
}
