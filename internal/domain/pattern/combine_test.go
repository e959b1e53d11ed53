package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCombine_DropsDuplicatesAndSubsumed(t *testing.T) {
	tests := []struct {
		name   string
		groups [][]string
		want   []string
	}{
		{"duplicate across groups", [][]string{{"fi", "arc"}, {"fi"}}, []string{"fi", "arc"}},
		{"substring subsumes", [][]string{{"fire", "ire"}}, []string{"ire"}},
		{"unanchored subsumes anchored", [][]string{{"^fi", "fi"}}, []string{"fi"}},
		{"anchored does not subsume unanchored", [][]string{{"fi", "^fir"}}, []string{"fi"}},
		{"anchored keeps unrelated anchored", [][]string{{"^fi", "^ar"}}, []string{"^fi", "^ar"}},
		{"wildcard subsumes literal", [][]string{{"abc", "a.c"}}, []string{"a.c"}},
		{"literal does not subsume wildcard", [][]string{{"a.c", "b"}}, []string{"a.c", "b"}},
		{"case variants keep first", [][]string{{"ABC", "abc"}}, []string{"ABC"}},
		{"literal inside span pattern", [][]string{{"fi.+ll", "ll"}}, []string{"ll"}},
		{"span never subsumes other shapes", [][]string{{"i.+l", "fiball"}}, []string{"i.+l", "fiball"}},
		{"empty patterns skipped", [][]string{{"", "fi"}}, []string{"fi"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Combine(tt.groups...))
		})
	}
}

func TestCombine_KeptPatternsStillCoverEverything(t *testing.T) {
	labels := []string{"Fireball", "Firestorm", "Flame Dash"}
	patterns := []string{"fireb", "ireb", "firest", "flam", "fl"}
	combined := Combine(patterns)
	assert.Equal(t, []string{"ireb", "firest", "fl"}, combined)
	for _, l := range labels {
		hit := false
		for _, p := range combined {
			hit = hit || Match(p, l)
		}
		assert.True(t, hit, "%q lost coverage", l)
	}
}

func TestJoin(t *testing.T) {
	assert.Equal(t, "fi|^arc|tb", Join([]string{"fi", "^arc", "tb"}))
	assert.Equal(t, "", Join(nil))
}

func TestPack(t *testing.T) {
	assert.Equal(t, []string{"abc|de", "fgh"}, Pack([]string{"abc", "de", "fgh"}, 6))
	assert.Equal(t, []string{"abc|de|fgh"}, Pack([]string{"abc", "de", "fgh"}, 0))
	assert.Equal(t, []string{"abcdefgh", "ab"}, Pack([]string{"abcdefgh", "ab"}, 4), "oversized pattern stands alone")
	assert.Nil(t, Pack(nil, 10))
}
