package build

import (
	"errors"
	"testing"

	"aviutl2-cli/internal/config"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveCommands_Shapes(t *testing.T) {
	groups := map[string]*config.BuildCommand{
		"compile": config.CommandList("cargo build", "cargo test"),
		"pack":    config.SingleCommand("zip"),
		"all":     config.GroupRef("compile"),
	}

	tests := []struct {
		name string
		ref  *config.BuildCommand
		want []string
	}{
		{name: "nil", ref: nil, want: nil},
		{name: "single", ref: config.SingleCommand("make"), want: []string{"make"}},
		{name: "list keeps order", ref: config.CommandList("b", "a", "c"), want: []string{"b", "a", "c"}},
		{name: "group", ref: config.GroupRef("compile"), want: []string{"cargo build", "cargo test"}},
		{name: "nested group", ref: config.GroupRef("all"), want: []string{"cargo build", "cargo test"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveCommands(tt.ref, groups)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("commands mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestResolveCommands_DoesNotAliasConfig(t *testing.T) {
	ref := config.CommandList("a", "b")
	got, err := ResolveCommands(ref, nil)
	require.NoError(t, err)
	got[0] = "changed"
	assert.Equal(t, "a", ref.Commands[0])
}

func TestResolveCommands_MissingGroup(t *testing.T) {
	_, err := ResolveCommands(config.GroupRef("ghost"), nil)
	require.ErrorIs(t, err, ErrGroupNotFound)
	assert.Contains(t, err.Error(), "ghost")

	groups := map[string]*config.BuildCommand{"outer": config.GroupRef("inner")}
	_, err = ResolveCommands(config.GroupRef("outer"), groups)
	require.ErrorIs(t, err, ErrGroupNotFound)
	assert.Contains(t, err.Error(), "inner")
}

func TestResolveCommands_Cycles(t *testing.T) {
	tests := []struct {
		name   string
		groups map[string]*config.BuildCommand
		start  string
	}{
		{
			name:   "self reference",
			groups: map[string]*config.BuildCommand{"a": config.GroupRef("a")},
			start:  "a",
		},
		{
			name: "mutual reference",
			groups: map[string]*config.BuildCommand{
				"a": config.GroupRef("b"),
				"b": config.GroupRef("a"),
			},
			start: "a",
		},
		{
			name: "longer cycle",
			groups: map[string]*config.BuildCommand{
				"a": config.GroupRef("b"),
				"b": config.GroupRef("c"),
				"c": config.GroupRef("a"),
			},
			start: "b",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ResolveCommands(config.GroupRef(tt.start), tt.groups)
			var cycle *CycleError
			require.True(t, errors.As(err, &cycle), "expected CycleError, got %v", err)
			assert.Equal(t, tt.start, cycle.Group)
			assert.Equal(t, tt.start, cycle.Path[0])
			assert.Equal(t, tt.start, cycle.Path[len(cycle.Path)-1])
		})
	}
}

func TestResolveCommands_RepeatedResolutionIsNotACycle(t *testing.T) {
	groups := map[string]*config.BuildCommand{
		"shared": config.SingleCommand("make shared"),
		"a":      config.GroupRef("shared"),
		"b":      config.GroupRef("shared"),
	}
	for _, name := range []string{"a", "b", "shared", "a"} {
		got, err := ResolveCommands(config.GroupRef(name), groups)
		require.NoError(t, err)
		assert.Equal(t, []string{"make shared"}, got)
	}
}

func TestResolvePlan_GroupIdentity(t *testing.T) {
	groups := map[string]*config.BuildCommand{"g": config.SingleCommand("x")}

	plan, err := ResolvePlan(config.GroupRef("g"), groups)
	require.NoError(t, err)
	assert.Equal(t, Plan{Commands: []string{"x"}, Group: "g"}, plan)

	plan, err = ResolvePlan(config.SingleCommand("y"), groups)
	require.NoError(t, err)
	assert.Equal(t, "", plan.Group)

	plan, err = ResolvePlan(nil, groups)
	require.NoError(t, err)
	assert.True(t, plan.Empty())
}
