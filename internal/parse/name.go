package parse

import (
	"path"
	"regexp"
	"strings"
)

// Labels of the resized copies the asset grid and the detail panel show.
const (
	SmallImageLabel = "2-small"
	LargeImageLabel = "4-large"
)

// spaceRe also matches non-breaking and other Unicode spaces.
var spaceRe = regexp.MustCompile(`[\s\p{Zs}]+`)

// Name cleans a display name from an import file. Surrounding whitespace is
// dropped and inner runs of whitespace collapse to one space.
func Name(raw string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(raw, " "))
}

// ImageVariant returns the path of the resized copy of original carrying
// label, e.g. "/data/xps.jpeg" with "2-small" gives "/data/xps_2-small.jpg".
// Everything after the first dot of the file name is replaced.
func ImageVariant(original, label string) string {
	original = strings.TrimSpace(original)
	if original == "" {
		return ""
	}
	dir, file := path.Split(original)
	if i := strings.Index(file, "."); i >= 0 {
		file = file[:i]
	}
	if file == "" {
		return ""
	}
	return dir + file + "_" + label + ".jpg"
}
