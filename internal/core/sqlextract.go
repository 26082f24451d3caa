// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package core

import (
	"regexp"
	"strings"
)

var (
	fencedSQL   = regexp.MustCompile("(?s)```(?:sql)?\n(.+?)```")
	selectToken = regexp.MustCompile(`(?i)select`)
)

// ExtractSQL pulls the SQL statement out of a model response. A fenced
// code block wins; otherwise the span from the first SELECT to the first
// semicolon is taken. Backticks are stripped either way. When neither form
// is present the response is returned unchanged.
func ExtractSQL(response string) string {
	if m := fencedSQL.FindStringSubmatch(response); m != nil {
		return strings.ReplaceAll(m[1], "`", "")
	}
	if hasSelectBeforeSemicolon(response) {
		start := selectIndex(response)
		end := strings.Index(response, ";")
		return strings.ReplaceAll(response[start:end+1], "`", "")
	}
	return response
}

// selectIndex returns the byte offset of the first SELECT keyword in s,
// matched case-insensitively on the original string so multi-byte case
// mappings cannot shift the offset. -1 when absent.
func selectIndex(s string) int {
	loc := selectToken.FindStringIndex(s)
	if loc == nil {
		return -1
	}
	return loc[0]
}

// ValidSQL reports whether sql looks like a complete read query: a SELECT
// appearing before a terminating semicolon.
func ValidSQL(sql string) bool {
	return hasSelectBeforeSemicolon(sql)
}

func hasSelectBeforeSemicolon(s string) bool {
	selectIdx := selectIndex(s)
	semiIdx := strings.Index(s, ";")
	return selectIdx != -1 && semiIdx != -1 && selectIdx < semiIdx
}
