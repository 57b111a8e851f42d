package lib

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// UploadKey builds the object-store key for an uploaded file:
// uploads/<timestamp>-<uuid><ext>. The original file name contributes only
// its extension; everything else is replaced so keys never collide and never
// carry user-controlled path segments.
func UploadKey(now time.Time, originalName string) string {
	return fmt.Sprintf("uploads/%s-%s%s",
		now.Format("20060102150405"),
		uuid.New().String(),
		fileExtension(originalName),
	)
}

func fileExtension(name string) string {
	if name == "" {
		return ".dat"
	}
	dot := strings.LastIndex(name, ".")
	switch {
	case dot > 0 && dot < len(name)-1:
		return name[dot:]
	case dot == 0:
		// dotfile, keep the whole name as the extension
		return name
	default:
		return ""
	}
}
