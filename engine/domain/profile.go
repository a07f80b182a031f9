package domain

// Topic tags a query or a document with an actuarial subject area.
type Topic string

// Recognised topics.
const (
	TopicCapitalAdequacy    Topic = "capital-adequacy"
	TopicAccountingStandard Topic = "accounting-standard"
	TopicReinsurance        Topic = "reinsurance"
	TopicRiskAdjustment     Topic = "risk-adjustment"
)

// Topics lists all topics in their fixed classification order.
var Topics = []Topic{
	TopicCapitalAdequacy,
	TopicAccountingStandard,
	TopicReinsurance,
	TopicRiskAdjustment,
}

// DocumentProfile declares one known source document: which topics boost
// it, and how many context entries it may contribute with and without a
// topical match. Profile order fixes the document iteration order during
// allocation.
type DocumentProfile struct {
	FileName   string
	Topics     []Topic
	BaseQuota  int
	BoostQuota int
}

// Matches reports whether any of the matched topics belongs to this
// document's profile.
func (p DocumentProfile) Matches(matched []Topic) bool {
	for _, m := range matched {
		for _, t := range p.Topics {
			if m == t {
				return true
			}
		}
	}
	return false
}

// DefaultProfiles returns the declared corpus: the two actuarial reference
// handbooks. Adding a document means adding a profile here, not touching
// allocator logic.
func DefaultProfiles() []DocumentProfile {
	return []DocumentProfile{
		{
			FileName:   "IFRS17보험회계해설서_2022.pdf",
			Topics:     []Topic{TopicAccountingStandard, TopicRiskAdjustment, TopicReinsurance},
			BaseQuota:  1,
			BoostQuota: 3,
		},
		{
			FileName:   "KICS 해설서.pdf",
			Topics:     []Topic{TopicCapitalAdequacy, TopicReinsurance},
			BaseQuota:  1,
			BoostQuota: 3,
		},
	}
}
