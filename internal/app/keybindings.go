package app

import (
	"slices"
	"strings"

	"github.com/treykane/carbon-blueprint/internal/config"
)

// ---------------------------------------------------------------------------
// Action constants
// ---------------------------------------------------------------------------
//
// Actions sit between physical key presses and behavior: a key is looked up
// in keyToAction and the action is dispatched in handleAction. Defaults live
// in defaultActionKeys; users override them through the "keybindings" object
// in config.json.
//
// Printable keys typed while the drop zone is focused go to the input before
// the action map is consulted, so rune bindings such as "q" and "?" only fire
// from the browser and report panes.
// ---------------------------------------------------------------------------

const (
	// actionSubmit uploads the selected blueprint for analysis.
	actionSubmit = "analysis.submit"

	// actionCancel abandons the outstanding upload.
	actionCancel = "analysis.cancel"

	// actionSelectRecent reselects the previous blueprint from the recent
	// list.
	actionSelectRecent = "selection.recent"

	// actionFocusNext moves focus browser → drop zone → report.
	actionFocusNext = "focus.next"

	// actionFocusPrev moves focus in the opposite direction.
	actionFocusPrev = "focus.prev"

	// actionReportPageUp scrolls the report up one page.
	actionReportPageUp = "report.scroll.page_up"

	// actionReportPageDown scrolls the report down one page.
	actionReportPageDown = "report.scroll.page_down"

	// actionReportHalfUp scrolls the report up half a page.
	actionReportHalfUp = "report.scroll.half_up"

	// actionReportHalfDown scrolls the report down half a page.
	actionReportHalfDown = "report.scroll.half_down"

	// actionCopyReport copies the report Markdown to the clipboard.
	actionCopyReport = "report.copy"

	// actionExport writes the report in the configured export formats.
	actionExport = "report.export"

	// actionHelp toggles the keyboard shortcut reference.
	actionHelp = "help.toggle"

	// actionQuit exits the application.
	actionQuit = "app.quit"
)

// defaultActionKeys maps each action to its factory-default key bindings.
//
// Key strings use the Bubble Tea notation ("ctrl+s", "shift+tab", "f1").
// Enter, Esc, arrows and PgUp/PgDn are left unbound so the file browser
// keeps them.
var defaultActionKeys = map[string][]string{
	actionSubmit:         {"ctrl+s"},
	actionCancel:         {"ctrl+x"},
	actionSelectRecent:   {"ctrl+r"},
	actionFocusNext:      {"tab"},
	actionFocusPrev:      {"shift+tab"},
	actionReportPageUp:   {"ctrl+b"},
	actionReportPageDown: {"ctrl+f"},
	actionReportHalfUp:   {"ctrl+u"},
	actionReportHalfDown: {"ctrl+d"},
	actionCopyReport:     {"ctrl+y"},
	actionExport:         {"ctrl+e"},
	actionHelp:           {"f1", "?"},
	actionQuit:           {"q", "ctrl+c"},
}

// ---------------------------------------------------------------------------
// Keybinding initialization
// ---------------------------------------------------------------------------

// loadKeybindings builds the key↔action maps from defaultActionKeys and then
// cfg.Keybindings. An override replaces the action's whole default key set.
// Unknown actions are logged and ignored.
func (m *Model) loadKeybindings(cfg config.Config) {
	m.keyForAction = map[string][]string{}
	for action, keys := range defaultActionKeys {
		m.keyForAction[action] = append([]string(nil), keys...)
	}
	for action, key := range cfg.Keybindings {
		m.applyKeybindingOverride(action, key)
	}
	m.rebuildActionKeyIndex()
}

func (m *Model) applyKeybindingOverride(action, key string) {
	action = strings.TrimSpace(action)
	key = normalizeKeyString(key)
	if action == "" || key == "" {
		return
	}
	if _, ok := defaultActionKeys[action]; !ok {
		appLog.Warn("ignore unknown keybinding action", "action", action)
		return
	}
	m.keyForAction[action] = []string{key}
}

// rebuildActionKeyIndex constructs keyToAction from keyForAction. When two
// actions share a key, the one visited first keeps it and the conflict is
// logged. Actions are visited in sorted order so the winner is stable.
func (m *Model) rebuildActionKeyIndex() {
	m.keyToAction = map[string]string{}
	actions := make([]string, 0, len(m.keyForAction))
	for action := range m.keyForAction {
		actions = append(actions, action)
	}
	slices.Sort(actions)
	for _, action := range actions {
		for _, key := range m.keyForAction[action] {
			if key == "" {
				continue
			}
			if existing, ok := m.keyToAction[key]; ok && existing != action {
				appLog.Warn("keybinding conflict ignored", "key", key, "action", action, "existing_action", existing)
				continue
			}
			m.keyToAction[key] = action
		}
	}
}

// ---------------------------------------------------------------------------
// Key string normalization
// ---------------------------------------------------------------------------

// normalizeKeyString converts a user-provided key string into the lowercase
// form Bubble Tea reports. A single uppercase letter becomes "shift+<letter>"
// so "Y" and "shift+y" in config mean the same key.
//
//	normalizeKeyString("Ctrl+S")  → "ctrl+s"
//	normalizeKeyString(" Y ")     → "shift+y"
//	normalizeKeyString("")        → ""
func normalizeKeyString(key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return ""
	}
	if len([]rune(key)) == 1 && strings.ToUpper(key) == key && strings.ToLower(key) != key {
		return "shift+" + strings.ToLower(key)
	}
	return strings.ToLower(key)
}

// actionForKey returns the action bound to key, or "".
func (m *Model) actionForKey(key string) string {
	if m.keyToAction == nil {
		return ""
	}
	return m.keyToAction[normalizeKeyString(key)]
}

func (m *Model) actionKeyLabels(action string) []string {
	keys, ok := m.keyForAction[action]
	if !ok || len(keys) == 0 {
		return nil
	}
	labels := make([]string, 0, len(keys))
	for _, key := range keys {
		label := humanizeKeyLabel(key)
		if label == "" {
			continue
		}
		if slices.Contains(labels, label) {
			continue
		}
		labels = append(labels, label)
	}
	return labels
}

func (m *Model) primaryActionKey(action, fallback string) string {
	keys := m.actionKeyLabels(action)
	if len(keys) == 0 {
		return fallback
	}
	return keys[0]
}

func (m *Model) allActionKeys(action, fallback string) string {
	keys := m.actionKeyLabels(action)
	if len(keys) == 0 {
		return fallback
	}
	return strings.Join(keys, ", ")
}

func humanizeKeyLabel(key string) string {
	normalized := normalizeKeyString(key)
	if normalized == "" {
		return ""
	}
	special := map[string]string{
		"up":        "↑",
		"down":      "↓",
		"left":      "←",
		"right":     "→",
		"enter":     "Enter",
		"esc":       "Esc",
		"tab":       "Tab",
		"home":      "Home",
		"end":       "End",
		"pgup":      "PgUp",
		"pgdown":    "PgDn",
		"space":     "Space",
		"backspace": "Backspace",
	}
	parts := strings.Split(normalized, "+")
	for i, part := range parts {
		switch part {
		case "ctrl":
			parts[i] = "Ctrl"
		case "alt":
			parts[i] = "Alt"
		case "shift":
			parts[i] = "Shift"
		default:
			if label, ok := special[part]; ok {
				parts[i] = label
				continue
			}
			runes := []rune(part)
			if len(runes) == 1 && runes[0] >= 'a' && runes[0] <= 'z' {
				parts[i] = strings.ToUpper(part)
			} else {
				parts[i] = strings.ToUpper(part[:1]) + part[1:]
			}
		}
	}
	return strings.Join(parts, "+")
}
