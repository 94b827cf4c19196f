// Package build expands build references into shell commands and runs them.
package build

import (
	"errors"
	"fmt"
	"strings"

	"aviutl2-cli/internal/config"
)

// ErrGroupNotFound is returned when a reference names a group missing from [build_group].
var ErrGroupNotFound = errors.New("build group not found")

// CycleError reports a build group that references itself, directly or transitively.
type CycleError struct {
	Group string
	Path  []string
}

// Error formats the cycle as "a -> b -> a".
func (e *CycleError) Error() string {
	return fmt.Sprintf("build group cycle detected at %q: %s", e.Group, strings.Join(e.Path, " -> "))
}

// Plan is a resolved build reference. Group is set when the reference was a
// group reference; a Runner uses it to run shared groups once per invocation.
type Plan struct {
	Commands []string
	Group    string
}

// Empty reports whether the plan has nothing to run.
func (p Plan) Empty() bool { return len(p.Commands) == 0 }

// ResolveCommands flattens ref into an ordered command list.
// A nil reference resolves to no commands.
func ResolveCommands(ref *config.BuildCommand, groups map[string]*config.BuildCommand) ([]string, error) {
	visiting := make(map[string]bool)
	return resolve(ref, groups, visiting, nil)
}

// ResolvePlan resolves ref and remembers the originating group name, if any.
func ResolvePlan(ref *config.BuildCommand, groups map[string]*config.BuildCommand) (Plan, error) {
	cmds, err := ResolveCommands(ref, groups)
	if err != nil {
		return Plan{}, err
	}
	plan := Plan{Commands: cmds}
	if ref != nil && ref.Kind == config.BuildGroup {
		plan.Group = ref.Group
	}
	return plan, nil
}

// resolve walks group references depth-first. visiting holds the groups on the
// current path only; a name is removed again on every return so sibling
// references to the same group are not mistaken for cycles.
func resolve(ref *config.BuildCommand, groups map[string]*config.BuildCommand, visiting map[string]bool, path []string) ([]string, error) {
	if ref == nil {
		return nil, nil
	}
	switch ref.Kind {
	case config.BuildSingle, config.BuildList:
		return append([]string(nil), ref.Commands...), nil
	case config.BuildGroup:
		name := ref.Group
		group, ok := groups[name]
		if !ok {
			return nil, fmt.Errorf("%w: build_group.%s", ErrGroupNotFound, name)
		}
		path = append(path, name)
		if visiting[name] {
			return nil, &CycleError{Group: name, Path: path}
		}
		visiting[name] = true
		defer delete(visiting, name)
		return resolve(group, groups, visiting, path)
	default:
		return nil, fmt.Errorf("unknown build reference kind %v", ref.Kind)
	}
}
