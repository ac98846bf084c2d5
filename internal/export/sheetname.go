package export

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const maxSheetName = 31

var sheetNameReplacer = strings.NewReplacer(
	`\`, "", "/", "", "?", "", "*", "", "[", "", "]", "",
)

// SanitizeSheetName makes a worksheet name acceptable to xlsx: drops \ / ? * [ ],
// caps it at 31 characters, avoids the reserved "History" name and never returns
// an empty string.
func SanitizeSheetName(name string) string {
	s := strings.TrimSpace(sheetNameReplacer.Replace(name))
	s = truncateRunes(s, maxSheetName)
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "history") {
		return "Sheet_History"
	}
	if s == "" {
		return "Sheet"
	}
	return s
}

// WorkbookSheetName is SanitizeSheetName with the writer's extra rules applied:
// excelize also rejects ':' and a leading or trailing apostrophe.
func WorkbookSheetName(name string) string {
	s := SanitizeSheetName(strings.ReplaceAll(name, ":", ""))
	for strings.HasPrefix(s, "'") || strings.HasSuffix(s, "'") {
		s = SanitizeSheetName(strings.Trim(s, "'"))
	}
	return s
}

// UniqueSheetName returns name, or name with a " (n)" suffix when it is already
// taken. Comparison is case-insensitive, as in Excel. The result is recorded in used.
func UniqueSheetName(name string, used map[string]bool) string {
	candidate := name
	for n := 2; used[strings.ToLower(candidate)]; n++ {
		suffix := fmt.Sprintf(" (%d)", n)
		candidate = strings.TrimSpace(truncateRunes(name, maxSheetName-utf8.RuneCountInString(suffix))) + suffix
	}
	used[strings.ToLower(candidate)] = true
	return candidate
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
