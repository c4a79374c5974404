package blueprint

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
)

// sniffBytes is how much of a file is read to check its signature.
const sniffBytes = 1024

// Rules configures Validate.
type Rules struct {
	// Extensions lists accepted extensions, lowercase with a leading dot.
	Extensions []string
	// MaxBytes is the upload size limit. Zero disables the check.
	MaxBytes int64
}

// ValidationError explains why a blueprint cannot be submitted. Error returns
// a message suitable for showing to the user.
type ValidationError struct {
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// signatures maps known blueprint extensions to a check of their leading
// bytes. Extensions without an entry skip the content check.
var signatures = map[string]func(head []byte) bool{
	// PDF readers accept the header anywhere in the first kilobyte.
	".pdf": func(head []byte) bool {
		return bytes.Contains(head, []byte("%PDF-"))
	},
	// DWG files open with a version tag such as AC1015 or AC1032.
	".dwg": func(head []byte) bool {
		return bytes.HasPrefix(head, []byte("AC1"))
	},
	// IFC-SPF is an ISO 10303-21 exchange file.
	".ifc": func(head []byte) bool {
		head = bytes.TrimPrefix(head, []byte("\xef\xbb\xbf"))
		head = bytes.TrimLeft(head, " \t\r\n")
		return bytes.HasPrefix(head, []byte("ISO-10303-21"))
	},
}

// Validate checks that b can be uploaded under rules: accepted extension,
// non-empty, within the size limit, and content matching the extension.
func Validate(b Blueprint, rules Rules) error {
	ext := b.Ext()
	if !accepts(rules.Extensions, ext) {
		shown := ext
		if shown == "" {
			shown = "(none)"
		}
		return &ValidationError{
			Reason: fmt.Sprintf("Unsupported file type %s. Accepted types: %s.", shown, strings.Join(rules.Extensions, ", ")),
		}
	}

	info, err := os.Stat(b.Path)
	if err != nil {
		return &ValidationError{Reason: fmt.Sprintf("Cannot read %s.", b.Name), Err: err}
	}
	if !info.Mode().IsRegular() {
		return &ValidationError{Reason: fmt.Sprintf("%s is not a regular file.", b.Name), Err: ErrNotAFile}
	}
	size := info.Size()
	if size == 0 {
		return &ValidationError{Reason: fmt.Sprintf("%s is empty.", b.Name)}
	}
	if rules.MaxBytes > 0 && size > rules.MaxBytes {
		return &ValidationError{
			Reason: fmt.Sprintf("%s is %s; the upload limit is %s.", b.Name, humanize.IBytes(uint64(size)), humanize.IBytes(uint64(rules.MaxBytes))),
		}
	}

	check, ok := signatures[ext]
	if !ok {
		return nil
	}
	head, err := readHead(b.Path)
	if err != nil {
		return &ValidationError{Reason: fmt.Sprintf("Cannot read %s.", b.Name), Err: err}
	}
	if !check(head) {
		return &ValidationError{
			Reason: fmt.Sprintf("%s does not look like a %s file.", b.Name, strings.ToUpper(strings.TrimPrefix(ext, "."))),
		}
	}
	return nil
}

func accepts(exts []string, ext string) bool {
	if ext == "" {
		return false
	}
	for _, candidate := range exts {
		if strings.EqualFold(candidate, ext) {
			return true
		}
	}
	return false
}

func readHead(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf := make([]byte, sniffBytes)
	n, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return buf[:n], nil
}
