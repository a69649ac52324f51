package catalog

import "strings"

// ImageResolver maps image paths from the storage layout to paths the web
// server can serve.
type ImageResolver struct {
	StorageRootPrefix string
	WebPathPrefix     string
}

// Resolve rewrites the first occurrence of the storage prefix. Paths without
// the prefix are returned as they are and an empty path stays empty.
func (r ImageResolver) Resolve(path string) string {
	if path == "" {
		return ""
	}
	if r.StorageRootPrefix == "" {
		return path
	}
	return strings.Replace(path, r.StorageRootPrefix, r.WebPathPrefix, 1)
}
