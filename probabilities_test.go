package vp9

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaultsMatchesDefaultProbabilitySet(t *testing.T) {
	var p ProbabilityTables
	p.LoadDefaults()
	assert.Equal(t, defaultProbabilitySet(), *p.Current())
}

func TestSaveAndLoadProbsRoundTrips(t *testing.T) {
	var p ProbabilityTables
	p.LoadDefaults()
	p.Current().SkipProb = [SkipContexts]uint8{1, 2, 3}
	p.Current().CompModeProb = [CompModeContexts]uint8{9, 9, 9, 9, 9}
	p.SaveProbs(2)

	p.LoadDefaults()
	assert.NotEqual(t, [SkipContexts]uint8{1, 2, 3}, p.Current().SkipProb)

	p.LoadProbs(2)
	assert.Equal(t, [SkipContexts]uint8{1, 2, 3}, p.Current().SkipProb)
	// LoadProbs only restores the coefficient-adjacent tables; CompModeProb
	// belongs to the LoadProbs2 phase and must still read back as default.
	assert.Equal(t, defaultProbabilitySet().CompModeProb, p.Current().CompModeProb)

	p.LoadProbs2(2)
	assert.Equal(t, [CompModeContexts]uint8{9, 9, 9, 9, 9}, p.Current().CompModeProb)
}

func TestResetProbsRestoresDefaultsAfterMutation(t *testing.T) {
	var p ProbabilityTables
	p.LoadDefaults()
	p.Current().MvSignProb = [2]uint8{7, 7}
	p.ResetProbs()
	assert.Equal(t, defaultProbabilitySet().MvSignProb, p.Current().MvSignProb)
}

func TestSavedBanksAreIndependentSnapshots(t *testing.T) {
	var p ProbabilityTables
	p.LoadDefaults()
	p.SaveProbs(0)
	p.Current().SkipProb[0] = 1
	p.SaveProbs(1)

	p.LoadProbs(0)
	bank0 := p.Current().SkipProb[0]
	p.LoadProbs(1)
	bank1 := p.Current().SkipProb[0]

	assert.NotEqual(t, bank0, bank1)
}

func TestGenerateDefaultCoefProbsStaysInRange(t *testing.T) {
	c := generateDefaultCoefProbs()
	for tx := 0; tx < TxSizes; tx++ {
		for plane := 0; plane < 2; plane++ {
			for ref := 0; ref < 2; ref++ {
				for band := 0; band < 6; band++ {
					maxCtx := 6
					if band == 0 {
						maxCtx = 3
					}
					for ctx := 0; ctx < maxCtx; ctx++ {
						for node := 0; node < 3; node++ {
							v := c[tx][plane][ref][band][ctx][node]
							assert.GreaterOrEqual(t, int(v), 1)
							assert.LessOrEqual(t, int(v), 254)
						}
					}
				}
			}
		}
	}
}

func TestGenerateKFYModeProbsStaysInRange(t *testing.T) {
	t_ := generateKFYModeProbs()
	for a := 0; a < IntraModes; a++ {
		for l := 0; l < IntraModes; l++ {
			for n := 0; n < IntraModes-1; n++ {
				v := t_[a][l][n]
				assert.GreaterOrEqual(t, int(v), 1)
				assert.LessOrEqual(t, int(v), 254)
			}
		}
	}
}
