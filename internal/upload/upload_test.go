package upload

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidImageExtension(t *testing.T) {
	valid := []string{"photo.jpg", "photo.jpeg", "photo.png", "photo.webp", "photo.PNG", "PHOTO.JPG", "a.b.webp"}
	for _, name := range valid {
		assert.True(t, ValidImageExtension(name), name)
	}

	invalid := []string{"payload.exe", "archive.tar.gz", "noextension", "photo.gif", "photo.svg", ""}
	for _, name := range invalid {
		assert.False(t, ValidImageExtension(name), name)
	}
}

func TestContentTypeOf(t *testing.T) {
	cases := map[string]string{
		"a.jpg":     "image/jpeg",
		"a.JPEG":    "image/jpeg",
		"a.png":     "image/png",
		"a.webp":    "image/webp",
		"a.bin":     "application/octet-stream",
		"no-suffix": "application/octet-stream",
	}
	for name, want := range cases {
		assert.Equal(t, want, contentTypeOf(name), name)
	}
}

func TestExtensionOfDefaultsToJPG(t *testing.T) {
	assert.Equal(t, "jpg", extensionOf("picture"))
	assert.Equal(t, "png", extensionOf("picture.png"))
	assert.Equal(t, "webp", extensionOf("some.photo.webp"))
}
