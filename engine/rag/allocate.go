package rag

import (
	"fmt"
	"sort"

	"github.com/kactuary/actuary-rag/engine/domain"
)

// allocate selects and formats up to maxContexts context blocks from the
// candidate set. Candidates are bucketed by source document; each
// document contributes at most its quota of above-floor candidates, with
// the quota boosted for documents whose topics matched the
// classification. Documents are visited in profile declaration order,
// unknown documents after them in first-seen order, so weak matches from
// every document surface before any single document dominates.
func allocate(profiles []domain.DocumentProfile, topics []domain.Topic, candidates []domain.Candidate, maxContexts int, floor float32) []string {
	if len(candidates) == 0 || maxContexts < 1 {
		return nil
	}

	buckets := make(map[string][]domain.Candidate)
	var order []string
	known := make(map[string]bool, len(profiles))
	for _, p := range profiles {
		known[p.FileName] = true
		order = append(order, p.FileName)
	}
	for _, c := range candidates {
		if _, seen := buckets[c.FileName]; !seen && !known[c.FileName] {
			order = append(order, c.FileName)
		}
		buckets[c.FileName] = append(buckets[c.FileName], c)
	}
	for _, bucket := range buckets {
		sort.SliceStable(bucket, func(i, j int) bool {
			return bucket[i].Score > bucket[j].Score
		})
	}

	quotas := make(map[string]int, len(order))
	for _, p := range profiles {
		quotas[p.FileName] = p.BaseQuota
		if p.Matches(topics) {
			quotas[p.FileName] = p.BoostQuota
		}
	}

	var contexts []string
	for _, file := range order {
		quota, ok := quotas[file]
		if !ok {
			quota = 1
		}
		taken := 0
		for _, c := range buckets[file] {
			if taken >= quota || len(contexts) >= maxContexts {
				break
			}
			if c.Score <= floor {
				break
			}
			contexts = append(contexts, formatContext(c))
			taken++
		}
	}

	// Relaxed pass: every candidate sat below the floor, so take the
	// single best per document until the cap is hit. This keeps the
	// model grounded on something whenever the store is non-empty.
	if len(contexts) == 0 {
		fallbackTotal.Inc()
		for _, file := range order {
			if len(contexts) >= maxContexts {
				break
			}
			bucket := buckets[file]
			if len(bucket) == 0 {
				continue
			}
			contexts = append(contexts, formatContext(bucket[0]))
		}
	}

	if len(contexts) > maxContexts {
		contexts = contexts[:maxContexts]
	}
	return contexts
}

func formatContext(c domain.Candidate) string {
	return fmt.Sprintf("[%s - %d페이지]\n%s", c.FileName, c.Page, c.Text)
}
