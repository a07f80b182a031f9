package domain

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
)

// HashPrefixLen is how many hex characters of the content hash are embedded
// in a record identifier.
const HashPrefixLen = 16

// ContentHash returns the md5 hex digest of text. md5 is part of the stored
// identifier format; this is a dedup fingerprint, not a security boundary.
func ContentHash(text string) string {
	sum := md5.Sum([]byte(text))
	return hex.EncodeToString(sum[:])
}

// SanitizeASCII strips every non-ASCII rune from s. Korean file names lose
// their Hangul portion rather than being transliterated, matching the id
// scheme of the existing index.
func SanitizeASCII(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < 128 {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// RecordID derives the storage identifier for a chunk:
// sanitized file name + page + hash prefix. Deterministic, so upserts are
// idempotent.
func RecordID(fileName string, page int, contentHash string) string {
	prefix := contentHash
	if len(prefix) > HashPrefixLen {
		prefix = prefix[:HashPrefixLen]
	}
	return fmt.Sprintf("%s_p%d_%s", SanitizeASCII(fileName), page, prefix)
}
