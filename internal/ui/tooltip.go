package ui

import (
	"fyne.io/fyne/v2"

	ttwidget "github.com/dweymouth/fyne-tooltip/widget"
)

// newButtonWithTooltip creates a palette button with a hover tooltip.
func newButtonWithTooltip(label string, icon fyne.Resource, tooltip string, tapped func()) *ttwidget.Button {
	btn := ttwidget.NewButtonWithIcon(label, icon, tapped)
	btn.SetToolTip(tooltip)
	return btn
}
