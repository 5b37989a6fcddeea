// Package testutil holds helpers shared by the tests of this module.
package testutil

import (
	"strings"
)

// PtrTo return a pointer to the value v.
func PtrTo[T any](v T) *T { return &v }

// TableName is a helper to dynamically generate a new table name
// based on the test name, subtest separators become underscores.
//
// Example:
//
//	TableName(t.Name())
func TableName(fullName string) string {
	isValid := func(ch byte) bool {
		return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
	}

	var sb strings.Builder
	for i := range fullName {
		ch := fullName[i]

		switch {
		case ch == '/' || ch == '.':
			sb.WriteByte('_')

		case isValid(ch):
			sb.WriteByte(ch)
		}
	}

	// PostgreSQL truncates identifiers longer than 63 bytes
	name := strings.ToLower(sb.String())
	if len(name) > 63 {
		name = name[len(name)-63:]
	}
	return name
}
