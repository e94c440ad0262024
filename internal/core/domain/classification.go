package domain

// Classification is the outcome of evaluating a property against the
// dual-token rules, with the reasons that produced the decision.
type Classification struct {
	TokenType TokenType     `json:"tokenType"`
	Tier      DeveloperTier `json:"tier,omitempty"` // Developer tier the property was evaluated with
	Reasons   []string      `json:"reasons"`
}
