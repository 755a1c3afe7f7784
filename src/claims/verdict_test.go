package claims

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	cases := map[Verdict]VerdictClass{
		VerdictMisinformation:        ClassMisinformation,
		"Misinformation (partially)": ClassMisinformation,
		"false":                      ClassMisinformation,
		VerdictTrue:                  ClassTrue,
		"Mostly accurate":            ClassTrue,
		VerdictUnclear:               ClassUnclear,
		"":                           ClassUnclear,
	}
	for in, want := range cases {
		assert.Equal(t, want, Classify(in), string(in))
	}
	assert.True(t, IsMisinformation("MISINFORMATION"))
	assert.False(t, IsMisinformation("UNCLEAR"))
}

func TestDangerHelpers(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "critical", Level(" Critical "))
	assert.Equal(t, "low", Level("extreme"))
	assert.True(t, IsSevere("HIGH"))
	assert.False(t, IsSevere(DangerModerate))

	records := []Record{
		{Danger: DangerHigh}, {Danger: DangerCritical}, {Danger: DangerLow}, {Danger: " high "},
	}
	assert.Equal(t, 3, CountSevere(records))
}
