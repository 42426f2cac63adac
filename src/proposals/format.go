package proposals

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// FullGovActionID renders "<txHash>#<index>".
func FullGovActionID(txHash string, index uint32) string {
	return fmt.Sprintf("%s#%d", txHash, index)
}

// ParseGovActionID splits an id produced by FullGovActionID.
func ParseGovActionID(id string) (string, uint32, error) {
	hash, idx, ok := strings.Cut(id, "#")
	if !ok || hash == "" {
		return "", 0, fmt.Errorf("bad governance action id %q", id)
	}
	n, err := strconv.ParseUint(idx, 10, 32)
	if err != nil {
		return "", 0, fmt.Errorf("bad governance action index %q", idx)
	}
	return strings.ToLower(hash), uint32(n), nil
}

// TypeLabel splits a CamelCase proposal type into words.
func TypeLabel(t string) string {
	var b strings.Builder
	runes := []rune(t)
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) && !unicode.IsUpper(runes[i-1]) {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// TypeNoEmptySpaces returns the label with spaces removed.
func TypeNoEmptySpaces(t string) string {
	return strings.ReplaceAll(TypeLabel(t), " ", "")
}

// FormatDisplayDate renders dates as "2nd Jan 2006". Zero times render empty.
func FormatDisplayDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	t = t.UTC()
	return fmt.Sprintf("%d%s %s", t.Day(), ordinal(t.Day()), t.Format("Jan 2006"))
}

func ordinal(day int) string {
	if day >= 11 && day <= 13 {
		return "th"
	}
	switch day % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	}
	return "th"
}
