package risk

import (
	"strings"

	"github.com/avelines/remit/internal/transfer"
)

// Rule flags transfers for compliance clearance. A transfer is flagged when
// its send amount exceeds the per-transfer threshold, or when the recipient
// sits in a jurisdiction configured for enhanced review.
type Rule struct {
	threshold     int64
	jurisdictions map[string]struct{}
}

// New builds a Rule. threshold is in minor units; jurisdictions are
// ISO country codes, matched case-insensitively.
func New(threshold int64, jurisdictions []string) *Rule {
	set := make(map[string]struct{}, len(jurisdictions))
	for _, j := range jurisdictions {
		set[strings.ToUpper(strings.TrimSpace(j))] = struct{}{}
	}

	return &Rule{
		threshold:     threshold,
		jurisdictions: set,
	}
}

func (r *Rule) ShouldFlag(p transfer.CreateParams) bool {
	if r.threshold > 0 && p.SendAmount > r.threshold {
		return true
	}

	_, enhanced := r.jurisdictions[strings.ToUpper(p.Recipient.Country)]

	return enhanced
}
