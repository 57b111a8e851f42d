package lib

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUploadKeyShape(t *testing.T) {
	now := time.Date(2024, 3, 15, 10, 30, 45, 0, time.UTC)

	key := UploadKey(now, "holiday photo.JPG")
	assert.True(t, strings.HasPrefix(key, "uploads/20240315103045-"))
	assert.True(t, strings.HasSuffix(key, ".JPG"))
	assert.NotContains(t, key, "holiday")
}

func TestUploadKeyUnique(t *testing.T) {
	now := time.Now()
	assert.NotEqual(t, UploadKey(now, "a.png"), UploadKey(now, "a.png"))
}

func TestFileExtension(t *testing.T) {
	assert.Equal(t, ".png", fileExtension("image.png"))
	assert.Equal(t, ".gz", fileExtension("archive.tar.gz"))
	assert.Equal(t, "", fileExtension("noext"))
	assert.Equal(t, "", fileExtension("trailingdot."))
	assert.Equal(t, ".gitignore", fileExtension(".gitignore"))
	assert.Equal(t, ".dat", fileExtension(""))
}
