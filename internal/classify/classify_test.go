package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatches(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		include []string
		exclude []string
		want    bool
	}{
		{"simple prefix", "7300", []string{"73"}, nil, true},
		{"longer code", "7399", []string{"73"}, nil, true},
		{"three digits", "731", []string{"73"}, nil, true},
		{"literal not numeric", "074", []string{"73"}, nil, false},
		{"any of several", "641", []string{"60", "64"}, nil, true},
		{"excluded", "75882", []string{"75"}, []string{"75882"}, false},
		{"exclusion sibling kept", "7588", []string{"75"}, []string{"75882"}, true},
		{"no includes", "706", nil, nil, false},
		{"exclusion without inclusion", "706", nil, []string{"70"}, false},
		{"shorter than prefix", "7", []string{"73"}, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Matches(tt.code, tt.include, tt.exclude))
		})
	}
}

func TestSpecificExclusionKeepsOtherBucket(t *testing.T) {
	otherTaxes := Prefixes("732", "733").Except("73211", "73212", "73221")
	redistributed := Prefixes("73211", "73212")

	assert.False(t, otherTaxes.Matches("73211"))
	assert.True(t, redistributed.Matches("73211"))
	assert.True(t, otherTaxes.Matches("7321"))
}

func TestExceptDoesNotAlias(t *testing.T) {
	base := Prefixes("16").Except("166")
	a := base.Except("1688")
	b := base.Except("169")

	assert.Equal(t, []string{"166", "1688"}, a.Exclude)
	assert.Equal(t, []string{"166", "169"}, b.Exclude)
	assert.Equal(t, []string{"166"}, base.Exclude)
}

func TestInternalOrder(t *testing.T) {
	assert.Equal(t,
		[]string{"709", "719", "729", "739", "749", "759", "769", "779", "789", "799"},
		InternalOrder('7'))
	assert.Equal(t,
		[]string{"609", "619", "629", "639", "649", "659", "669", "679", "689", "699"},
		InternalOrder('6'))

	for _, p := range InternalOrder('3') {
		assert.Len(t, p, 3)
		assert.Equal(t, byte('3'), p[0])
		assert.Equal(t, byte('9'), p[2])
	}
}

func TestClasses(t *testing.T) {
	classes, all := Prefixes("70", "13", "7", "4541").Classes()
	assert.False(t, all)
	assert.Equal(t, []byte{'1', '4', '7'}, classes)

	_, all = Prefixes("").Classes()
	assert.True(t, all)

	classes, all = Rule{}.Classes()
	assert.False(t, all)
	assert.Empty(t, classes)
}

func TestRuleString(t *testing.T) {
	assert.Equal(t, "74 (except 741)", Prefixes("74").Except("741").String())
	assert.Equal(t, "163, 164", Prefixes("163", "164").String())
}

func TestEmpty(t *testing.T) {
	assert.True(t, Rule{}.Empty())
	assert.True(t, Rule{Exclude: []string{"6"}}.Empty())
	assert.False(t, Prefixes("6").Empty())
}
