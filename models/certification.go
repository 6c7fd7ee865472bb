package models

import "time"

// CertificationLevel mirrors the referee certification ENUM in the database.
type CertificationLevel string

const (
	CertificationAssistant CertificationLevel = "assistant"
	CertificationSnitch    CertificationLevel = "snitch"
	CertificationHead      CertificationLevel = "head"
	CertificationField     CertificationLevel = "field"
	CertificationScorekeep CertificationLevel = "scorekeeper"
)

// certificationAwards declares which levels a passed test confers. A
// recertification test at a higher level also awards the lower levels it
// subsumes.
var certificationAwards = map[CertificationLevel][]CertificationLevel{
	CertificationAssistant: {CertificationAssistant},
	CertificationSnitch:    {CertificationSnitch},
	CertificationScorekeep: {CertificationScorekeep},
	CertificationHead:      {CertificationHead, CertificationAssistant, CertificationSnitch},
	CertificationField:     {CertificationField, CertificationHead, CertificationAssistant, CertificationSnitch},
}

// AwardedLevels returns every level conferred by passing a test at the given
// level. Unknown levels award nothing.
func AwardedLevels(passed CertificationLevel) []CertificationLevel {
	awarded, ok := certificationAwards[passed]
	if !ok {
		return nil
	}
	out := make([]CertificationLevel, len(awarded))
	copy(out, awarded)
	return out
}

// certificationRank orders levels for picking a referee's highest one.
var certificationRank = map[CertificationLevel]int{
	CertificationAssistant: 1,
	CertificationSnitch:    2,
	CertificationScorekeep: 2,
	CertificationHead:      3,
	CertificationField:     4,
}

// HighestCertification returns the highest-ranked level in the list, or ""
// when the list is empty.
func HighestCertification(levels []CertificationLevel) CertificationLevel {
	var best CertificationLevel
	bestRank := 0
	for _, l := range levels {
		if r := certificationRank[l]; r > bestRank {
			best, bestRank = l, r
		}
	}
	return best
}

type RefereeCertification struct {
	ID        int                `json:"id" db:"id"`
	UserID    int                `json:"user_id" db:"user_id"`
	Level     CertificationLevel `json:"level" db:"level"`
	AwardedAt time.Time          `json:"awarded_at" db:"awarded_at"`
}
