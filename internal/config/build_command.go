package config

import "fmt"

// BuildKind tags which shape a build reference was declared with.
type BuildKind int

const (
	// BuildSingle is a single shell command string.
	BuildSingle BuildKind = iota + 1
	// BuildList is an ordered list of shell command strings.
	BuildList
	// BuildGroup references a named entry of [build_group].
	BuildGroup
)

// String returns the manifest spelling of the kind.
func (k BuildKind) String() string {
	switch k {
	case BuildSingle:
		return "single"
	case BuildList:
		return "list"
	case BuildGroup:
		return "group"
	default:
		return "unknown"
	}
}

// BuildCommand is a build reference: a command, a list of commands, or a group name.
type BuildCommand struct {
	Kind     BuildKind
	Commands []string
	Group    string
}

// SingleCommand returns a build reference to one command.
func SingleCommand(cmd string) *BuildCommand {
	return &BuildCommand{Kind: BuildSingle, Commands: []string{cmd}}
}

// CommandList returns a build reference to an ordered command list.
func CommandList(cmds ...string) *BuildCommand {
	return &BuildCommand{Kind: BuildList, Commands: cmds}
}

// GroupRef returns a build reference to the named build group.
func GroupRef(name string) *BuildCommand {
	return &BuildCommand{Kind: BuildGroup, Group: name}
}

// ParseBuildCommand converts a decoded TOML value into a build reference.
// Accepted shapes are "cmd", ["cmd1", "cmd2"] and { group = "name" }.
// A nil value yields a nil reference.
func ParseBuildCommand(v any) (*BuildCommand, error) {
	switch value := v.(type) {
	case nil:
		return nil, nil
	case string:
		return SingleCommand(value), nil
	case []any:
		cmds := make([]string, 0, len(value))
		for i, item := range value {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("command #%d must be a string, got %T", i, item)
			}
			cmds = append(cmds, s)
		}
		return CommandList(cmds...), nil
	case []string:
		return CommandList(append([]string(nil), value...)...), nil
	case map[string]any:
		raw, ok := value["group"]
		if !ok {
			return nil, fmt.Errorf("table build reference requires a group key")
		}
		name, ok := raw.(string)
		if !ok || name == "" {
			return nil, fmt.Errorf("group must be a non-empty string")
		}
		for key := range value {
			if key != "group" {
				return nil, fmt.Errorf("unknown key %q in group reference", key)
			}
		}
		return GroupRef(name), nil
	default:
		return nil, fmt.Errorf("unsupported build reference of type %T", v)
	}
}
