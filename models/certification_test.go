package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAwardedLevels(t *testing.T) {
	t.Run("higher tests subsume lower levels", func(t *testing.T) {
		assert.ElementsMatch(t,
			[]CertificationLevel{CertificationHead, CertificationAssistant, CertificationSnitch},
			AwardedLevels(CertificationHead))
		assert.ElementsMatch(t,
			[]CertificationLevel{CertificationField, CertificationHead, CertificationAssistant, CertificationSnitch},
			AwardedLevels(CertificationField))
	})

	t.Run("base tests award only themselves", func(t *testing.T) {
		assert.Equal(t, []CertificationLevel{CertificationAssistant}, AwardedLevels(CertificationAssistant))
		assert.Equal(t, []CertificationLevel{CertificationScorekeep}, AwardedLevels(CertificationScorekeep))
	})

	t.Run("unknown level awards nothing", func(t *testing.T) {
		assert.Nil(t, AwardedLevels(CertificationLevel("grandmaster")))
	})

	t.Run("returned slice is a copy", func(t *testing.T) {
		first := AwardedLevels(CertificationHead)
		first[0] = CertificationField
		assert.Equal(t, CertificationHead, AwardedLevels(CertificationHead)[0])
	})
}

func TestHighestCertification(t *testing.T) {
	assert.Equal(t, CertificationLevel(""), HighestCertification(nil))
	assert.Equal(t, CertificationField,
		HighestCertification([]CertificationLevel{CertificationAssistant, CertificationField, CertificationHead}))
	assert.Equal(t, CertificationHead,
		HighestCertification([]CertificationLevel{CertificationSnitch, CertificationHead}))
	assert.Equal(t, CertificationAssistant,
		HighestCertification([]CertificationLevel{CertificationAssistant}))
}
