// Package source loads the raw schedule text the parser consumes: from a
// file or stdin, from a saved HTML page, or over HTTP.
package source

import (
	"bytes"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// maxInputBytes bounds a single pasted or saved page.
const maxInputBytes = 8 << 20

// FromReader reads plain text, stripping a UTF-8 BOM.
func FromReader(r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxInputBytes+1))
	if err != nil {
		return "", errors.Wrap(err, "read schedule text")
	}
	if len(data) > maxInputBytes {
		return "", errors.Errorf("schedule text exceeds %d bytes", maxInputBytes)
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	return string(data), nil
}

// FromFile reads path, or stdin when path is "-". Files ending in .html or
// .htm are converted with FromHTML.
func FromFile(path string) (string, error) {
	r, err := openInput(path)
	if err != nil {
		return "", err
	}
	defer r.Close()

	if IsHTMLPath(path) {
		return FromHTML(r)
	}
	return FromReader(r)
}

// FromHTMLFile is FromFile with the input always treated as HTML, for pages
// piped on stdin or saved without an .html extension.
func FromHTMLFile(path string) (string, error) {
	r, err := openInput(path)
	if err != nil {
		return "", err
	}
	defer r.Close()
	return FromHTML(r)
}

func openInput(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	return f, nil
}

// IsHTMLPath reports whether path looks like a saved web page.
func IsHTMLPath(path string) bool {
	p := strings.ToLower(path)
	return strings.HasSuffix(p, ".html") || strings.HasSuffix(p, ".htm")
}
