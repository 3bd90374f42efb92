// Package jsonrepair recovers JSON documents that a text model cut off
// before finishing them.
package jsonrepair

import (
	"encoding/json"
	"strings"
	"unicode"

	"github.com/sirupsen/logrus"
)

// tailLength is how much of a document that still fails to parse is logged.
const tailLength = 500

// Repair closes a document truncated inside a string, one object, one array
// and the enclosing object, in that order. Deeper truncation is not
// recovered; the result then fails to parse and RepairAndParse degrades.
func Repair(text string) string {
	raw := strings.TrimRightFunc(text, unicode.IsSpace)

	if countUnescapedQuotes(raw)%2 == 1 {
		raw += `"`
	}

	var fix strings.Builder
	openCurly := strings.Count(raw, "{")
	closeCurly := strings.Count(raw, "}")

	if closeCurly < openCurly {
		fix.WriteByte('}')
	}
	if strings.Count(raw, "]") < strings.Count(raw, "[") {
		fix.WriteByte(']')
	}
	if closeCurly+strings.Count(fix.String(), "}") < openCurly {
		fix.WriteByte('}')
	}

	return raw + fix.String()
}

// RepairAndParse repairs text and decodes it. Documents that still do not
// parse are logged and yield an empty object. It never panics.
func RepairAndParse(text string, logger logrus.FieldLogger) any {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	repaired := Repair(text)

	var value any
	if err := json.Unmarshal([]byte(repaired), &value); err != nil {
		logger.WithFields(logrus.Fields{
			"error": err.Error(),
			"tail":  tail(repaired, tailLength),
		}).Warn("model output is not valid JSON after repair")
		return map[string]any{}
	}
	return value
}

// countUnescapedQuotes counts double quotes not directly preceded by a backslash.
func countUnescapedQuotes(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '"' && (i == 0 || s[i-1] != '\\') {
			n++
		}
	}
	return n
}

func tail(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[len(r)-n:])
}
