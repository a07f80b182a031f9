package domain

import (
	"strings"
	"testing"
)

func TestContentHash_Deterministic(t *testing.T) {
	a := ContentHash("보험부채의 최선추정")
	b := ContentHash("보험부채의 최선추정")
	if a != b {
		t.Fatalf("hash not deterministic: %s vs %s", a, b)
	}
	if len(a) != 32 {
		t.Fatalf("expected 32 hex chars, got %d", len(a))
	}
	if a == ContentHash("다른 텍스트") {
		t.Fatal("distinct texts hashed equal")
	}
}

func TestSanitizeASCII(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"IFRS17보험회계해설서_2022.pdf", "IFRS17_2022.pdf"},
		{"KICS 해설서.pdf", "KICS .pdf"},
		{"plain.pdf", "plain.pdf"},
		{"한글만", ""},
	}
	for _, c := range cases {
		if got := SanitizeASCII(c.in); got != c.want {
			t.Errorf("SanitizeASCII(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestRecordID_Idempotent(t *testing.T) {
	h := ContentHash("청크 본문")
	a := RecordID("KICS 해설서.pdf", 12, h)
	b := RecordID("KICS 해설서.pdf", 12, h)
	if a != b {
		t.Fatalf("id not idempotent: %s vs %s", a, b)
	}
	if !strings.HasPrefix(a, "KICS .pdf_p12_") {
		t.Fatalf("unexpected id shape: %s", a)
	}
	if got := len(strings.TrimPrefix(a, "KICS .pdf_p12_")); got != HashPrefixLen {
		t.Fatalf("hash prefix length = %d, want %d", got, HashPrefixLen)
	}
}

func TestRecordID_ShortHash(t *testing.T) {
	// A hash shorter than the prefix length is used as-is.
	if got := RecordID("a.pdf", 1, "abc"); got != "a.pdf_p1_abc" {
		t.Fatalf("got %s", got)
	}
}

func TestDocumentProfile_Matches(t *testing.T) {
	p := DocumentProfile{
		FileName: "KICS 해설서.pdf",
		Topics:   []Topic{TopicCapitalAdequacy, TopicReinsurance},
	}
	if !p.Matches([]Topic{TopicCapitalAdequacy}) {
		t.Fatal("expected match on capital-adequacy")
	}
	if p.Matches([]Topic{TopicAccountingStandard}) {
		t.Fatal("unexpected match on accounting-standard")
	}
	if p.Matches(nil) {
		t.Fatal("unexpected match on empty classification")
	}
}
