package models

// MatchSession is the Redis-cached result of a match search. A later confirm
// call books against a provider quoted in this session, so stale or tampered
// provider choices are rejected.
type MatchSession struct {
	SessionID  string           `json:"sessionId"`
	Criteria   MatchingCriteria `json:"criteria"`
	Matches    []ProviderMatch  `json:"matches"`
	CustomerID string           `json:"customerId"`
}

// FindMatch returns the quoted match for the given provider, if present.
func (s MatchSession) FindMatch(providerID string) (ProviderMatch, bool) {
	for _, m := range s.Matches {
		if m.Provider.ID == providerID {
			return m, true
		}
	}
	return ProviderMatch{}, false
}
