package normalize

import (
	"path"
	"strings"
)

const (
	fallbackBaseName = "image"
	maxBaseNameLen   = 100
)

// safeBaseName reduces an untrusted client filename to [A-Za-z0-9_-]: any
// directory part and the extension are dropped, every other rune becomes '_'.
func safeBaseName(filename string) string {
	filename = strings.ReplaceAll(strings.TrimSpace(filename), `\`, "/")
	base := path.Base(filename)
	if base == "." || base == "/" {
		return fallbackBaseName
	}
	base = strings.TrimSuffix(base, path.Ext(base))
	if base == "" {
		return fallbackBaseName
	}

	var b strings.Builder
	b.Grow(len(base))
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	out := b.String()
	if len(out) > maxBaseNameLen {
		out = out[:maxBaseNameLen]
	}
	return out
}

// UniqueFilename builds the stored name for an upload: the sanitized client
// base name, an underscore, token, then ext.
func UniqueFilename(original, token, ext string) string {
	return safeBaseName(original) + "_" + token + "." + ext
}
