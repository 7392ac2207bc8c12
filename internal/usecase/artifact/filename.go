package artifact

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/johnquangdev/meeting-analyzer/internal/domain/entities"
)

const maxFilenameLen = 50

var unsafeFilenameChars = regexp.MustCompile(`[^\w\-\. ]`)

// SanitizeFilename turns a meeting title into a safe file name component.
// The result only holds [A-Za-z0-9_-. ] and is at most 50 bytes long.
func SanitizeFilename(title string) string {
	if title == "" {
		return "untitled"
	}

	decomposed := norm.NFKD.String(title)
	ascii := strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return -1
		}
		return r
	}, decomposed)

	safe := unsafeFilenameChars.ReplaceAllString(ascii, "_")
	if len(safe) > maxFilenameLen {
		safe = safe[:maxFilenameLen]
	}
	if strings.TrimSpace(safe) == "" {
		return "untitled"
	}
	return safe
}

// StorageKey is where a rendered document is kept: {area}/{kind}_{id}_{title}.{ext}
func StorageKey(area string, m *entities.Meeting, kind entities.ArtifactKind, format entities.ArtifactFormat) string {
	return fmt.Sprintf("%s/%s_%s_%s.%s", area, kind, m.ID, SanitizeFilename(m.Title), format.Extension())
}

// DownloadName is the attachment name offered to clients
func DownloadName(title string, kind entities.ArtifactKind, format entities.ArtifactFormat) string {
	return fmt.Sprintf("%s_%s.%s", SanitizeFilename(title), kind, format.Extension())
}
