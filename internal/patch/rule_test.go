package patch_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/adpatch/internal/patch"
)

func TestNewRule(t *testing.T) {
	tests := []struct {
		name    string
		rule    string
		pattern string
		wantErr bool
	}{
		{name: "valid", rule: "r", pattern: `a+`},
		{name: "empty name", rule: " ", pattern: `a+`, wantErr: true},
		{name: "bad regex", rule: "r", pattern: `(a`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := patch.NewRule(tt.rule, tt.pattern, "x")
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, patch.ErrInvalidRule)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.rule, r.Name)
		})
	}
}

func TestMustRule_PanicsOnBadPattern(t *testing.T) {
	assert.Panics(t, func() { patch.MustRule("bad", `[`, "") })
}

func TestRuleApply(t *testing.T) {
	tests := []struct {
		name        string
		rule        patch.Rule
		in          string
		want        string
		wantMatched bool
	}{
		{
			name:        "replaces every match",
			rule:        patch.MustRule("r", `a`, "b"),
			in:          "a-a-a",
			want:        "b-b-b",
			wantMatched: true,
		},
		{
			name:        "once replaces leftmost only",
			rule:        patch.MustRule("r", `a`, "b").WithOnce(),
			in:          "a-a-a",
			want:        "b-a-a",
			wantMatched: true,
		},
		{
			name:        "expands capture groups",
			rule:        patch.MustRule("r", `(x+)y`, "${1}z"),
			in:          "xxy",
			want:        "xxz",
			wantMatched: true,
		},
		{
			name:        "once expands capture groups",
			rule:        patch.MustRule("r", `(\s*)<T`, "${1}[<T").WithOnce(),
			in:          "a\n  <T\n  <T",
			want:        "a\n  [<T\n  <T",
			wantMatched: true,
		},
		{
			name: "no match leaves content unchanged",
			rule: patch.MustRule("r", `zzz`, "b"),
			in:   "abc",
			want: "abc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, matched := tt.rule.Apply(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantMatched, matched)
		})
	}
}

func TestRuleSetApply_ChainsOutput(t *testing.T) {
	rs := patch.RuleSet{
		Rules: []patch.Rule{
			patch.MustRule("first", `a`, "b"),
			patch.MustRule("second", `b`, "c"),
			patch.MustRule("absent", `q`, "r"),
		},
	}

	tr := rs.Apply("a")

	assert.Equal(t, "c", tr.Content)
	assert.Equal(t, []string{"first", "second"}, tr.Matched)
	assert.Empty(t, tr.MissingRequired)
}

func TestRuleSetApply_StopsAtMissingRequired(t *testing.T) {
	rs := patch.RuleSet{
		Rules: []patch.Rule{
			patch.MustRule("first", `a`, "b"),
			patch.MustRule("anchor", `q`, "r").WithRequired(),
			patch.MustRule("never", `b`, "c"),
		},
	}

	tr := rs.Apply("a")

	assert.Equal(t, "anchor", tr.MissingRequired)
	assert.Equal(t, []string{"first"}, tr.Matched)
	assert.Equal(t, "b", tr.Content)
}

func TestRuleSetPatched(t *testing.T) {
	rs := patch.RuleSet{Marker: "MARK"}
	assert.True(t, rs.Patched("x MARK y"))
	assert.False(t, rs.Patched("x y"))

	assert.False(t, patch.RuleSet{}.Patched("anything"), "empty marker never matches")
}

func TestRuleNames(t *testing.T) {
	assert.Equal(t,
		[]string{"import-injection", "wrapper-expansion", "wrapper-closure"},
		patch.BannerRules().RuleNames())
}
