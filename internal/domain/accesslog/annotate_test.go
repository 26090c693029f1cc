package accesslog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnnotator_DefaultRules(t *testing.T) {
	a, err := NewAnnotator(DefaultRules)
	require.NoError(t, err)

	tests := []struct {
		name     string
		method   string
		response any
		want     string
	}{
		{
			name:     "activate",
			method:   "PATCH",
			response: map[string]any{"rawMaterial": map[string]any{"status": "active"}},
			want:     "Stoğa girişi yapılmıştır",
		},
		{
			name:     "deactivate",
			method:   "PATCH",
			response: map[string]any{"rawMaterial": map[string]any{"status": "passive"}},
			want:     "Stoktan çıkışı yapılmıştır",
		},
		{
			name:     "not a patch",
			method:   "POST",
			response: map[string]any{"rawMaterial": map[string]any{"status": "passive"}},
		},
		{name: "no raw material", method: "PATCH", response: map[string]any{"stock": map[string]any{}}},
		{name: "missing status", method: "PATCH", response: map[string]any{"rawMaterial": map[string]any{}}},
		{name: "nil response", method: "PATCH"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, a.Annotate(tt.method, tt.response))
		})
	}
}

func TestAnnotator_ExtraRule(t *testing.T) {
	rules := append([]Rule{}, DefaultRules...)
	rules = append(rules, Rule{Expr: `method == "DELETE"`, Details: "silindi"})

	a, err := NewAnnotator(rules)
	require.NoError(t, err)
	assert.Equal(t, "silindi", a.Annotate("DELETE", nil))
}

func TestAnnotator_RejectsBadRules(t *testing.T) {
	_, err := NewAnnotator([]Rule{{Expr: `method ==`}})
	assert.Error(t, err)

	_, err = NewAnnotator([]Rule{{Expr: `method + "x"`}})
	assert.Error(t, err)
}

func TestAnnotator_Nil(t *testing.T) {
	var a *Annotator
	assert.Empty(t, a.Annotate("PATCH", nil))
}
