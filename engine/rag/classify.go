package rag

import (
	"strings"

	"github.com/kactuary/actuary-rag/engine/domain"
)

// topicKeywords maps each topic to the substrings that flag it. Matching
// is case-insensitive and works on the raw query, so both Korean terms
// and romanised spellings are listed.
var topicKeywords = map[domain.Topic][]string{
	domain.TopicCapitalAdequacy: {
		"kics", "kic-s", "k-ics", "킥스", "지급여력", "요구자본", "가용자본", "신지급여력",
	},
	domain.TopicAccountingStandard: {
		"ifrs17", "ifrs 17", "보험회계", "보험부채", "csm", "계약서비스마진", "수익인식",
	},
	domain.TopicReinsurance: {
		"재보험", "출재", "수재", "reinsurance",
	},
	domain.TopicRiskAdjustment: {
		"위험조정", "리스크마진", "risk adjustment",
	},
}

// Classify tests the question against every topic's keyword set and
// returns the matched topics in declared order. Zero matches is a valid
// outcome.
func Classify(question string) []domain.Topic {
	q := strings.ToLower(question)
	var matched []domain.Topic
	for _, topic := range domain.Topics {
		for _, kw := range topicKeywords[topic] {
			if strings.Contains(q, kw) {
				matched = append(matched, topic)
				break
			}
		}
	}
	return matched
}
