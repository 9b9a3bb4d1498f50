package sortable

import "github.com/charmbracelet/lipgloss"

// Properties configures the drag feedback and layout of a sortable list.
//
// Highlight only shows when the row renderer leaves the row background unset.
type Properties struct {
	// Opacity of the dragged row, 0 (invisible) to 1 (unchanged).
	Opacity float64
	// ScaleEnabled animates the dragged row to ScaleFactor while it is held.
	ScaleEnabled bool
	ScaleFactor  float64
	// Highlight is the optional background of the dragged row.
	Highlight lipgloss.TerminalColor
	// Spacing is the number of blank lines rendered after every row.
	Spacing int
	// DragEnabled attaches the drag controller. It can be flipped at any time.
	DragEnabled bool
}

// DefaultProperties mirrors the defaults of the drag feedback contract.
func DefaultProperties() Properties {
	return Properties{
		Opacity:      0.85,
		ScaleEnabled: true,
		ScaleFactor:  1.05,
		DragEnabled:  true,
	}
}

// Normalize clamps out-of-range values into their valid domains.
func (p Properties) Normalize() Properties {
	if p.Opacity < 0 {
		p.Opacity = 0
	}
	if p.Opacity > 1 {
		p.Opacity = 1
	}
	if p.ScaleFactor < 1 {
		p.ScaleFactor = 1
	}
	if p.Spacing < 0 {
		p.Spacing = 0
	}
	return p
}
