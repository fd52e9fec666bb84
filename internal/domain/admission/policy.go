// Package admission decides whether a file may be uploaded at all.
// It has no dependencies and is shared by the upload API and the upload client,
// so both sides always apply the same rules.
package admission

import (
	"fmt"
	"path"
	"strings"
)

// AllowedExtensions are compared against the lower-cased suffix starting at the last dot.
var AllowedExtensions = []string{".sldprt", ".sldasm", ".slddrw", ".step", ".pdf"}

const (
	FileTypeUnknown = "unknown"

	defaultContentType = "application/octet-stream"
)

var contentTypes = map[string]string{
	".pdf":  "application/pdf",
	".step": "model/step",
}

// FileDescriptor is the client-supplied description of a candidate file.
type FileDescriptor struct {
	Name string
	Size int64
}

// Evaluate applies the admission rules in a fixed order:
// emptiness, absolute cap, tier cap, extension.
// It returns nil when the file is accepted and a *Rejection otherwise.
func Evaluate(file FileDescriptor, tier Tier) error {
	if file.Size <= 0 {
		return reject(ReasonEmptyFile, "File is empty")
	}

	if file.Size > AbsoluteMaxSize {
		return reject(ReasonSizeExceedsAbsoluteMax,
			fmt.Sprintf("File exceeds maximum size of %s", formatMB(AbsoluteMaxSize)))
	}

	limit, ok := TierLimit(tier)
	if !ok {
		return reject(ReasonUnknownTier, fmt.Sprintf("Unknown subscription tier %q", tier))
	}
	if file.Size > limit {
		return reject(ReasonSizeExceedsTierLimit,
			fmt.Sprintf("File exceeds %s limit for %s tier", formatMB(limit), tier))
	}

	ext := Extension(file.Name)
	if !isAllowed(ext) {
		return reject(ReasonUnsupportedExtension,
			fmt.Sprintf("Unsupported file type: %s. Allowed: %s", ext, strings.Join(AllowedExtensions, ", ")))
	}

	return nil
}

// Extension returns the lower-cased suffix of name from its last dot, including the dot.
// Names without a dot have no extension.
func Extension(name string) string {
	i := strings.LastIndex(name, ".")
	if i < 0 {
		return ""
	}
	return strings.ToLower(name[i:])
}

// FileType maps a file name to its stored type: the allowed extension without
// the dot, or "unknown".
func FileType(name string) string {
	ext := Extension(name)
	if !isAllowed(ext) {
		return FileTypeUnknown
	}
	return strings.TrimPrefix(ext, ".")
}

// ContentTypeFor is the content type a write URL is signed for when the
// caller does not declare one. CAD formats have no registered type.
func ContentTypeFor(name string) string {
	if ct, ok := contentTypes[Extension(path.Base(name))]; ok {
		return ct
	}
	return defaultContentType
}

func isAllowed(ext string) bool {
	for _, allowed := range AllowedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

func formatMB(n int64) string {
	return fmt.Sprintf("%dMB", n/MiB)
}
