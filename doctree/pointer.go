package doctree

import (
	"fmt"
	"strings"
)

// EscapeToken escapes a single reference token per RFC 6901:
// "~" becomes "~0" and "/" becomes "~1".
func EscapeToken(token string) string {
	token = strings.ReplaceAll(token, "~", "~0")
	return strings.ReplaceAll(token, "/", "~1")
}

// UnescapeToken reverses EscapeToken. Order matters: "~1" first, then "~0".
func UnescapeToken(token string) string {
	token = strings.ReplaceAll(token, "~1", "/")
	return strings.ReplaceAll(token, "~0", "~")
}

// AppendToken appends one reference token to a JSON Pointer.
func AppendToken(ptr, token string) string {
	return ptr + "/" + EscapeToken(token)
}

// SplitPointer splits a JSON Pointer into its unescaped reference tokens.
// The empty pointer addresses the whole document and yields no tokens.
func SplitPointer(ptr string) ([]string, error) {
	if ptr == "" {
		return nil, nil
	}
	if !strings.HasPrefix(ptr, "/") {
		return nil, fmt.Errorf("doctree: pointer %q must start with '/'", ptr)
	}
	raw := strings.Split(ptr[1:], "/")
	tokens := make([]string, len(raw))
	for i, tok := range raw {
		tokens[i] = UnescapeToken(tok)
	}
	return tokens, nil
}

// ParseRef splits a $ref value into its document part and JSON Pointer
// fragment. A local reference such as "#/components/schemas/Pet" has an
// empty document part.
func ParseRef(ref string) (document, pointer string) {
	doc, frag, found := strings.Cut(ref, "#")
	if !found {
		return ref, ""
	}
	return doc, frag
}

// IsLocalRef reports whether ref points inside the current document.
func IsLocalRef(ref string) bool {
	return strings.HasPrefix(ref, "#")
}
