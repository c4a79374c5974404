package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"gopkg.in/yaml.v3"

	"github.com/treykane/carbon-blueprint/internal/analysis"
	"github.com/treykane/carbon-blueprint/internal/config"
)

const (
	exportDirPermission  = 0o755
	exportFilePermission = 0o644
	exportTimeLayout     = "20060102-150405"
)

// ErrNoReport is returned when there is nothing to export.
var ErrNoReport = errors.New("no report to export")

// ExportRequest describes one export run.
type ExportRequest struct {
	Report *analysis.Report
	// Source is the blueprint file name; its stem prefixes the output names.
	Source  string
	Dir     string
	Formats []string
	Now     time.Time
}

var markdownToHTML = goldmark.New(goldmark.WithExtensions(extension.Table))

// Export writes the report once per requested format and returns the paths
// written, in format order. Files written before a failure are kept and
// returned alongside the error.
func Export(req ExportRequest) ([]string, error) {
	if req.Report == nil {
		return nil, ErrNoReport
	}
	if len(req.Formats) == 0 {
		return nil, errors.New("no export formats configured")
	}
	if err := os.MkdirAll(req.Dir, exportDirPermission); err != nil {
		return nil, fmt.Errorf("create export dir: %w", err)
	}

	base := exportBaseName(req.Source, req.Now)
	written := make([]string, 0, len(req.Formats))
	for _, format := range req.Formats {
		data, err := Encode(req.Report, format, req.Source)
		if err != nil {
			return written, err
		}
		path := filepath.Join(req.Dir, base+"."+format)
		if err := os.WriteFile(path, data, exportFilePermission); err != nil {
			return written, fmt.Errorf("write %s export: %w", format, err)
		}
		log.Info("exported report", "format", format, "path", path)
		written = append(written, path)
	}
	return written, nil
}

// Encode serializes the report in one export format.
func Encode(r *analysis.Report, format, source string) ([]byte, error) {
	if r == nil {
		return nil, ErrNoReport
	}
	switch format {
	case config.FormatMarkdown:
		return []byte(Markdown(r)), nil
	case config.FormatHTML:
		return encodeHTML(r, source)
	case config.FormatJSON:
		data, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode json report: %w", err)
		}
		return append(data, '\n'), nil
	case config.FormatYAML:
		data, err := yaml.Marshal(r)
		if err != nil {
			return nil, fmt.Errorf("encode yaml report: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
}

func encodeHTML(r *analysis.Report, source string) ([]byte, error) {
	var body bytes.Buffer
	if err := markdownToHTML.Convert([]byte(Markdown(r)), &body); err != nil {
		return nil, fmt.Errorf("convert report to html: %w", err)
	}
	title := HeadingTitle
	if source != "" {
		title += " - " + source
	}
	var out bytes.Buffer
	out.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	out.WriteString("<title>" + html.EscapeString(title) + "</title>\n")
	out.WriteString("</head>\n<body>\n")
	out.Write(body.Bytes())
	out.WriteString("</body>\n</html>\n")
	return out.Bytes(), nil
}

// exportBaseName builds "<stem>-carbon-report-<timestamp>".
func exportBaseName(source string, now time.Time) string {
	stem := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	stem = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ':
			return '-'
		}
		return r
	}, stem)
	if stem == "" || stem == "." {
		stem = "blueprint"
	}
	if now.IsZero() {
		now = time.Now()
	}
	return stem + "-carbon-report-" + now.Format(exportTimeLayout)
}
