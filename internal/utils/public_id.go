package utils

import "strings"

// Public ids contain "/" which cannot travel in a single path segment, so
// clients send "--" instead.
func EncodePublicID(id string) string { return strings.ReplaceAll(id, "/", "--") }

func DecodePublicID(id string) string { return strings.ReplaceAll(id, "--", "/") }
