package asset

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

const maxCodeLen = 255

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

// now is replaced in tests
var now = time.Now

// Code derives the PIM asset code from an image filename. The same
// filename always yields the same code, which makes the code the
// idempotency key for asset creation.
func Code(filename string) string {
	base := filepath.Base(filename)
	// leading dots belong to the name, so ".jpg" keeps "jpg"
	base = strings.TrimSuffix(base, filepath.Ext(strings.TrimLeft(base, ".")))

	code := nonAlphanumeric.ReplaceAllString(strings.ToLower(base), "_")
	code = strings.Trim(code, "_")
	if code == "" {
		code = fmt.Sprintf("asset_%d", now().Unix())
	}

	if len(code) > maxCodeLen {
		code = code[:maxCodeLen]
	}
	return code
}
