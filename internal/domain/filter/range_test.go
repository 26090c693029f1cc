package filter

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockscope/internal/core/apperror"
)

var weightOnly = FieldSet{Numeric: []Field{{Param: "weight", Column: "weight"}}}

func TestParseNumeric(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		policy BetweenPolicy
		want   []Range
	}{
		{
			name:  "no parameters",
			query: "",
			want:  nil,
		},
		{
			name:  "single comparison",
			query: "weightComparison1=gt&weightValue1=10",
			want:  []Range{{Column: "weight", Lower: []Bound{{Value: 10}}}},
		},
		{
			name:  "two independent comparisons",
			query: "weightComparison1=gte&weightValue1=10&weightComparison2=lt&weightValue2=20",
			want: []Range{{
				Column: "weight",
				Lower:  []Bound{{Value: 10, Inclusive: true}},
				Upper:  []Bound{{Value: 20}},
			}},
		},
		{
			name:  "two eq comparisons are kept literally",
			query: "weightComparison1=eq&weightValue1=5&weightComparison2=eq&weightValue2=6",
			want:  []Range{{Column: "weight", Exact: []float64{5, 6}}},
		},
		{
			name:  "two lower bounds are both kept",
			query: "weightComparison1=gt&weightValue1=5&weightComparison2=gte&weightValue2=7",
			want: []Range{{
				Column: "weight",
				Lower:  []Bound{{Value: 5}, {Value: 7, Inclusive: true}},
			}},
		},
		{
			name:  "between is inclusive",
			query: "weightComparison1=between&weightValue1=10&weightValue2=20",
			want: []Range{{
				Column: "weight",
				Lower:  []Bound{{Value: 10, Inclusive: true}},
				Upper:  []Bound{{Value: 20, Inclusive: true}},
			}},
		},
		{
			name:   "between degrades to lower bound",
			query:  "weightComparison1=between&weightValue1=10",
			policy: BetweenDegrade,
			want:   []Range{{Column: "weight", Lower: []Bound{{Value: 10, Inclusive: true}}}},
		},
		{
			name:   "between degrades to upper bound",
			query:  "weightComparison1=between&weightValue2=20",
			policy: BetweenDegrade,
			want:   []Range{{Column: "weight", Upper: []Bound{{Value: 20, Inclusive: true}}}},
		},
		{
			name:  "operator without value is ignored",
			query: "weightComparison1=gt",
			want:  nil,
		},
		{
			name:  "value without operator is ignored",
			query: "weightValue1=3",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params, err := url.ParseQuery(tt.query)
			require.NoError(t, err)

			policy := tt.policy
			if policy == "" {
				policy = BetweenDegrade
			}
			got, err := ParseNumeric(params, weightOnly, policy)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseNumeric_Errors(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		policy BetweenPolicy
	}{
		{"between with one value rejected", "weightComparison1=between&weightValue1=10", BetweenReject},
		{"between in second slot", "weightComparison2=between&weightValue2=10", BetweenDegrade},
		{"unknown operator", "weightComparison1=like&weightValue1=10", BetweenDegrade},
		{"value not a number", "weightComparison1=gt&weightValue1=ten", BetweenDegrade},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params, _ := url.ParseQuery(tt.query)
			_, err := ParseNumeric(params, weightOnly, tt.policy)
			require.Error(t, err)
			assert.True(t, apperror.Is(err, apperror.CodeValidation))
		})
	}
}

func TestParseBetweenPolicy(t *testing.T) {
	p, err := ParseBetweenPolicy("")
	require.NoError(t, err)
	assert.Equal(t, BetweenDegrade, p)

	p, err = ParseBetweenPolicy("REJECT")
	require.NoError(t, err)
	assert.Equal(t, BetweenReject, p)

	_, err = ParseBetweenPolicy("maybe")
	assert.Error(t, err)
}

func TestLikePattern(t *testing.T) {
	assert.Equal(t, "%kraft%", LikePattern("kraft"))
	assert.Equal(t, `%50\%\_off%`, LikePattern("50%_off"))
}
