package app

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/treykane/carbon-blueprint/internal/blueprint"
)

// Where a selection came from, for status text and logs.
const (
	sourceBrowse   = "browse"
	sourceDrop     = "drop"
	sourceTyped    = "typed"
	sourceArgument = "argument"
	sourceRecent   = "recent"
)

// selectPath replaces the current selection with path. Paths that are not
// readable regular files are ignored and the previous selection is kept.
// Only Open runs here; the accepted-type check is advisory until submit.
func (m *Model) selectPath(path, source string) bool {
	bp, err := blueprint.Open(path)
	if err != nil {
		m.setStatusError("Cannot select "+path, err, "source", source)
		return false
	}
	m.selected = &bp
	appLog.Info("blueprint selected", "path", bp.Path, "bytes", bp.Size, "source", source)
	m.trackSelection(bp.Path)

	status := fmt.Sprintf("Selected %s (%s)", bp.Name, humanize.IBytes(uint64(bp.Size)))
	if !m.acceptsExtension(bp.Ext()) {
		status += fmt.Sprintf("; %s files are not accepted by the service", displayExt(bp.Ext()))
	}
	m.status = status
	return true
}

func (m *Model) acceptsExtension(ext string) bool {
	for _, accepted := range m.rules.Extensions {
		if strings.EqualFold(accepted, ext) {
			return true
		}
	}
	return false
}

func displayExt(ext string) string {
	if ext == "" {
		return "extensionless"
	}
	return ext
}

// updatePicker forwards msg to the file browser and takes any file it
// selected. Files outside the accepted types are shown disabled but can
// still be chosen.
func (m *Model) updatePicker(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	if ok, path := m.picker.DidSelectFile(msg); ok {
		m.selectPath(path, sourceBrowse)
	} else if ok, path := m.picker.DidSelectDisabledFile(msg); ok {
		m.selectPath(path, sourceBrowse)
	}
	return m, cmd
}

// setFocus moves keyboard focus. Focus on the drop zone is the drag-active
// highlight; leaving it clears the highlight.
func (m *Model) setFocus(f focusArea) tea.Cmd {
	m.focus = f
	m.dragging = f == focusDropZone
	if f == focusDropZone {
		return m.dropZone.Focus()
	}
	m.dropZone.Blur()
	return nil
}

func (m *Model) cycleFocus(step int) tea.Cmd {
	idx := 0
	for i, f := range focusOrder {
		if f == m.focus {
			idx = i
			break
		}
	}
	next := (idx + step + len(focusOrder)) % len(focusOrder)
	cmd := m.setFocus(focusOrder[next])
	m.status = "Focus: " + m.focus.String()
	return cmd
}

// handleDrop treats pasted text as a file drop. Only the first path is used.
// The text never reaches the drop zone input.
func (m *Model) handleDrop(text string) (tea.Model, tea.Cmd) {
	cmd := m.setFocus(focusBrowser)
	paths := blueprint.ParseDropPayload(text)
	if len(paths) == 0 {
		m.status = "Drop contained no file path"
		return m, cmd
	}
	if len(paths) > 1 {
		appLog.Debug("multi-file drop, using first path", "count", len(paths))
	}
	m.selectPath(paths[0], sourceDrop)
	return m, cmd
}

// handlePaste routes a bracketed paste. Pastes only count as drops while the
// drop zone is focused.
func (m *Model) handlePaste(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.focus != focusDropZone {
		m.status = "Focus the drop zone (" + m.primaryActionKey(actionFocusNext, "Tab") + ") to drop a file"
		return m, nil
	}
	return m.handleDrop(string(msg.Runes))
}

// handleDropZoneKey handles keys the drop zone input owns. It reports false
// for keys that should fall through to the action map.
func (m *Model) handleDropZoneKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch msg.Type {
	case tea.KeyEnter:
		typed := strings.TrimSpace(m.dropZone.Value())
		if typed == "" {
			m.status = "Type a path or drop a file"
			return m, nil, true
		}
		path, ok := blueprint.FirstDropped(typed)
		if !ok {
			path = typed
		}
		if m.selectPath(path, sourceTyped) {
			m.dropZone.Reset()
			return m, m.setFocus(focusBrowser), true
		}
		return m, nil, true
	case tea.KeyEsc:
		m.dropZone.Reset()
		return m, m.setFocus(focusBrowser), true
	case tea.KeyRunes, tea.KeySpace, tea.KeyBackspace, tea.KeyDelete, tea.KeyLeft, tea.KeyRight, tea.KeyHome, tea.KeyEnd:
		if msg.Alt {
			return m, nil, false
		}
		var cmd tea.Cmd
		m.dropZone, cmd = m.dropZone.Update(msg)
		return m, cmd, true
	}
	return m, nil, false
}
