package app

import (
	"log/slog"

	"github.com/treykane/carbon-blueprint/internal/logging"
)

// appLog is the package-level structured logger for the app package.
//
// Output goes to stderr or CARBON_BLUEPRINT_LOG_FILE; see the logging package.
// Point the log at a file when running interactively so entries do not draw
// over the alt screen.
var appLog = logging.New("app")

// setStatusError shows status in the footer and logs it with err and any
// extra slog key-value attrs.
//
//	m.setStatusError("Clipboard copy failed", err)
//	m.setStatusError("Cannot select file", err, "path", path)
func (m *Model) setStatusError(status string, err error, attrs ...any) {
	m.status = status
	fields := make([]any, 0, len(attrs)+2)
	fields = append(fields, slog.Any("error", err))
	fields = append(fields, attrs...)
	appLog.Error(status, fields...)
}
