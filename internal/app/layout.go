// layout.go centralizes the terminal layout calculations.
//
// A one-row header sits above a horizontal split: the selection pane on the
// left (file browser, drop zone, current selection) and the results pane on
// the right (error banner, loading indicator or report). The footer reserves
// two or three rows depending on how much help text fits.
package app

// LayoutDimensions holds all calculated layout dimensions for the UI.
type LayoutDimensions struct {
	LeftWidth      int // selection pane width including border
	RightWidth     int // results pane width
	ContentHeight  int // pane height: terminal minus header and footer
	PickerHeight   int // rows available to the file browser list
	ViewportWidth  int // usable report width inside the results pane
	ViewportHeight int // usable report height below the results header
}

// calculateLayout computes all UI dimensions from the terminal size.
func (m *Model) calculateLayout() LayoutDimensions {
	leftWidth := min(DefaultSelectionWidth, m.width/SelectionWidthDivider)
	rightWidth := max(0, m.width-leftWidth)
	contentHeight := max(0, m.height-HeaderRows-m.footerHeightForWidth(m.width))

	paneInnerHeight := max(0, contentHeight-selectionPane.GetVerticalFrameSize())
	// One row for the pane title.
	pickerHeight := max(1, paneInnerHeight-1-DropZoneRows-SelectionSummaryRows)

	viewportWidth := max(0, rightWidth-resultsPane.GetHorizontalFrameSize())
	viewportHeight := max(0, contentHeight-resultsPane.GetVerticalFrameSize()-1)

	return LayoutDimensions{
		LeftWidth:      leftWidth,
		RightWidth:     rightWidth,
		ContentHeight:  contentHeight,
		PickerHeight:   pickerHeight,
		ViewportWidth:  viewportWidth,
		ViewportHeight: viewportHeight,
	}
}

// footerHeightForWidth returns how many rows should be reserved for the footer.
// It prefers FooterMinRows and expands to FooterMaxRows when the footer
// segments cannot fit without dropping content.
func (m *Model) footerHeightForWidth(width int) int {
	_, fit := m.buildStatusRows(width, FooterMinRows)
	if fit {
		return FooterMinRows
	}
	return FooterMaxRows
}

// applyLayout resizes the widgets to match layout.
func (m *Model) applyLayout(layout LayoutDimensions) {
	m.viewport.Width = layout.ViewportWidth
	m.viewport.Height = layout.ViewportHeight
	m.picker.Height = layout.PickerHeight
	m.dropZone.Width = max(0, layout.LeftWidth-selectionPane.GetHorizontalFrameSize()-dropZoneStyle.GetHorizontalFrameSize()-lenPrompt(m.dropZone.Prompt)-1)
}
