package vault

import (
	"path"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var spaceReplacer = strings.NewReplacer(
	"\\", "/",
	"\u00a0", " ",
	"\u202f", " ",
)

// NormalizePath returns the canonical vault-relative form of raw.
//
// Backslashes are treated as separators, repeated separators collapse, and
// "." and ".." segments are resolved without ever climbing above the vault
// root. Leading and trailing slashes are dropped, so "/Notes//a.md" becomes
// "Notes/a.md". The vault root itself is "/".
func NormalizePath(raw string) string {
	s := norm.NFC.String(spaceReplacer.Replace(raw))
	s = strings.Trim(path.Clean("/"+s), "/")
	if s == "" {
		return "/"
	}
	return s
}

// Join builds the note path for name inside folder and normalizes it.
func Join(folder, name string) string {
	return NormalizePath("/" + folder + "/" + name + ".md")
}
