package output

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/yourusername/yabactl/internal/config"
	"github.com/yourusername/yabactl/internal/models"
)

// PrintSpacesTable prints spaces in a table format. When defs are given,
// each space's declared icon and preferred display are shown next to the
// live state.
func PrintSpacesTable(spaces []models.SpaceProps, defs []config.SpaceDef) {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Index", "Label", "Icon", "Display", "Pref", "Windows", "Focus", "Visible")

	sort.Slice(spaces, func(i, j int) bool {
		return spaces[i].Index < spaces[j].Index
	})

	for _, sp := range spaces {
		icon, pref := "", "-"
		if def := config.DefByLabel(defs, sp.Label); def != nil {
			icon = def.Icon
			pref = fmt.Sprintf("%d", def.Display)
		}

		label := sp.Label
		if label == "" {
			label = "-"
		}

		table.Append(
			fmt.Sprintf("%d", sp.Index),
			truncate(label, 20),
			icon,
			fmt.Sprintf("%d", sp.DisplayIndex),
			pref,
			fmt.Sprintf("%d", len(sp.Windows)),
			mark(sp.HasFocus),
			mark(sp.IsVisible),
		)
	}

	table.Render()
}

// PrintDisplaysTable prints displays in a table format
func PrintDisplaysTable(displays []models.DisplayProps) {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Index", "ID", "UUID", "Frame", "Spaces")

	sort.Slice(displays, func(i, j int) bool {
		return displays[i].Index < displays[j].Index
	})

	for _, dp := range displays {
		table.Append(
			fmt.Sprintf("%d", dp.Index),
			fmt.Sprintf("%d", dp.ID),
			truncate(dp.UUID.String(), 12),
			dp.Frame.FormatFrame(),
			formatIntSlice(dp.Spaces),
		)
	}

	table.Render()
}

// PrintWindowsTable prints windows in a table format
func PrintWindowsTable(windows []models.WindowProps) {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("ID", "Title", "App", "Space", "Display", "Size", "Focus")

	sort.Slice(windows, func(i, j int) bool {
		return windows[i].ID < windows[j].ID
	})

	for _, win := range windows {
		table.Append(
			fmt.Sprintf("%d", win.ID),
			truncate(win.Title, 30),
			truncate(win.App, 20),
			fmt.Sprintf("%d", win.SpaceIndex),
			fmt.Sprintf("%d", win.DisplayIndex),
			fmt.Sprintf("%.0fx%.0f", win.Frame.W, win.Frame.H),
			mark(win.HasFocus),
		)
	}

	table.Render()
}

// Helper functions

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func formatIntSlice(ints []int) string {
	if len(ints) == 0 {
		return "-"
	}
	strs := make([]string, 0, len(ints))
	for _, v := range ints {
		strs = append(strs, fmt.Sprintf("%d", v))
	}
	return strings.Join(strs, ", ")
}

func mark(b bool) string {
	if b {
		return "✓"
	}
	return ""
}
