package app

import tea "github.com/charmbracelet/bubbletea"

// handleKey routes a key press. Pastes are drops, the help screen swallows
// everything but its own keys, the drop zone input gets printable keys, then
// the action map is consulted and anything left goes to the focused pane.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Paste {
		return m.handlePaste(msg)
	}

	if m.showHelp {
		switch m.actionForKey(msg.String()) {
		case actionQuit:
			return m.quit()
		case actionHelp:
			return m.toggleHelp()
		}
		if msg.Type == tea.KeyEsc {
			return m.toggleHelp()
		}
		return m, nil
	}

	if m.focus == focusDropZone {
		if model, cmd, handled := m.handleDropZoneKey(msg); handled {
			return model, cmd
		}
	}

	if action := m.actionForKey(msg.String()); action != "" {
		return m.handleAction(action)
	}

	switch m.focus {
	case focusReport:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	case focusDropZone:
		var cmd tea.Cmd
		m.dropZone, cmd = m.dropZone.Update(msg)
		return m, cmd
	default:
		return m.updatePicker(msg)
	}
}

// handleAction dispatches a bound action.
func (m *Model) handleAction(action string) (tea.Model, tea.Cmd) {
	switch action {
	case actionQuit:
		return m.quit()
	case actionHelp:
		return m.toggleHelp()
	case actionSubmit:
		return m, m.submit()
	case actionCancel:
		m.cancelAnalysis()
		return m, nil
	case actionSelectRecent:
		m.selectRecent()
		return m, nil
	case actionFocusNext:
		return m, m.cycleFocus(1)
	case actionFocusPrev:
		return m, m.cycleFocus(-1)
	case actionReportPageUp:
		m.viewport.ViewUp()
		return m, nil
	case actionReportPageDown:
		m.viewport.ViewDown()
		return m, nil
	case actionReportHalfUp:
		m.viewport.HalfViewUp()
		return m, nil
	case actionReportHalfDown:
		m.viewport.HalfViewDown()
		return m, nil
	case actionCopyReport:
		m.copyReportToClipboard()
		return m, nil
	case actionExport:
		return m, m.exportReport()
	}
	return m, nil
}

func (m *Model) toggleHelp() (tea.Model, tea.Cmd) {
	m.showHelp = !m.showHelp
	if m.showHelp {
		m.status = "Help"
	} else {
		m.status = "Ready"
	}
	return m, nil
}

// quit cancels any outstanding upload before exiting.
func (m *Model) quit() (tea.Model, tea.Cmd) {
	m.releaseRequest()
	return m, tea.Quit
}
