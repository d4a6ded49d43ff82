// Package assetcode generates human-readable asset codes.
//
// Codes are built from a prefix, optional category and subcategory
// codes, a timestamp, and a random suffix. The only correctness
// property is "very likely unique": the collision fallback appends a
// random suffix once and does not loop, so a second collision is
// possible and unhandled. The output alphabet is uppercase letters,
// digits, and hyphens, all inside the Code 128 character set.
package assetcode

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
	"unicode"
)

// DefaultPrefix is the prefix used for generated asset codes.
const DefaultPrefix = "AST"

const timestampLayout = "20060102150405"

// Generate produces a candidate asset code. With both category and
// subcategory codes present the candidate is
//
//	{prefix}-{cat}-{sub}-{last 6 timestamp digits}-{4 random digits}
//
// otherwise
//
//	{prefix}-{full 14-digit timestamp}-{4 random digits}
//
// When the candidate is already in existing, a 2-digit random suffix is
// appended once.
func Generate(prefix, categoryCode, subcategoryCode string, existing map[string]bool) string {
	return generateAt(time.Now(), prefix, categoryCode, subcategoryCode, existing)
}

func generateAt(now time.Time, prefix, categoryCode, subcategoryCode string, existing map[string]bool) string {
	ts := now.Format(timestampLayout)
	suffix := 1000 + rand.Intn(9000)

	var code string
	if categoryCode != "" && subcategoryCode != "" {
		code = fmt.Sprintf("%s-%s-%s-%s-%d", prefix, categoryCode, subcategoryCode, ts[len(ts)-6:], suffix)
	} else {
		code = fmt.Sprintf("%s-%s-%d", prefix, ts, suffix)
	}

	if existing[code] {
		code = fmt.Sprintf("%s-%d", code, 10+rand.Intn(90))
	}
	return code
}

// DefaultCode derives a short code from a name: the first three letters,
// uppercased. Non-letter runes count toward the three, matching the
// plain prefix-slice behavior callers rely on.
func DefaultCode(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	runes := []rune(name)
	if len(runes) > 3 {
		runes = runes[:3]
	}
	for i, r := range runes {
		runes[i] = unicode.ToUpper(r)
	}
	return string(runes)
}
