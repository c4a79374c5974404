package app

import "time"

// Layout constants define the default dimensions and spacing for the UI
const (
	// DefaultSelectionWidth is the widest the selection pane grows.
	DefaultSelectionWidth = 52

	// SelectionWidthDivider caps the selection pane at
	// terminal_width / this value on narrow terminals.
	SelectionWidthDivider = 2

	// HeaderRows is the height of the title bar above both panes.
	HeaderRows = 1

	// DropZoneRows is the height of the drop zone including its border.
	DropZoneRows = 4

	// SelectionSummaryRows holds the "Selected:" line and a spacer.
	SelectionSummaryRows = 2

	// FooterMinRows is the default number of rows reserved for the bottom
	// status/help area.
	FooterMinRows = 2
	// FooterMaxRows is the expanded footer height used when content does not
	// fit within FooterMinRows.
	FooterMaxRows = 3
)

// Input limits define maximum sizes for user input
const (
	// InputCharLimit is the maximum number of characters accepted by the
	// drop zone. Dropped paths can be long.
	InputCharLimit = 4096
)

// Rendering constants control render timing and optimization
const (
	// RenderDebounce is the delay before re-rendering the report after a
	// window resize.
	RenderDebounce = 250 * time.Millisecond

	// RenderWidthBucket is the granularity for width-based render caching
	// Widths are rounded to nearest multiple of this value
	RenderWidthBucket = 20
)

// User-facing messages.
const (
	messageNoFile       = "Please select a file before analyzing."
	messageIdleHint     = "Select a blueprint and press %s to analyze it."
	messageDropZoneHint = "Drop a file here or type a path"
	messageDropActive   = "Release to select the dropped file"
)
