package asset

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCode(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"Nice-Image!.jpg", "nice_image"},
		{"already_fine.png", "already_fine"},
		{"  Spaces  and -- dashes .jpeg", "spaces_and_dashes"},
		{"path/to/Über Photo 2.JPG", "ber_photo_2"},
		{"no-extension", "no_extension"},
		{"archive.tar.gz", "archive_tar"},
		{"__x__.webp", "x"},
		{".jpg", "jpg"},
		{"..jpg", "jpg"},
		{".hidden", "hidden"},
		{".hidden.jpg", "hidden"},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			assert.Equal(t, tt.want, Code(tt.filename))
		})
	}
}

func TestCode_Deterministic(t *testing.T) {
	assert.Equal(t, Code("Nice-Image!.jpg"), Code("Nice-Image!.jpg"))
}

func TestCode_LeadingDotIsStable(t *testing.T) {
	defer func(orig func() time.Time) { now = orig }(now)

	now = func() time.Time { return time.Unix(1700000000, 0) }
	first := Code(".jpg")
	now = func() time.Time { return time.Unix(1700000001, 0) }

	assert.Equal(t, first, Code(".jpg"))
}

func TestCode_Truncated(t *testing.T) {
	code := Code(strings.Repeat("a", 300) + ".jpg")
	assert.Len(t, code, maxCodeLen)
}

func TestCode_FallbackWhenEmpty(t *testing.T) {
	defer func(orig func() time.Time) { now = orig }(now)
	now = func() time.Time { return time.Unix(1700000000, 0) }

	assert.Equal(t, "asset_1700000000", Code("!!!.jpg"))
}
