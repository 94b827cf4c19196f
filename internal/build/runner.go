package build

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"

	"aviutl2-cli/internal/config"
	"aviutl2-cli/internal/logger"
)

// CommandError reports a build command that could not run or exited non-zero.
type CommandError struct {
	Command string
	Err     error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("build command failed: %s: %v", e.Command, e.Err)
}

// Unwrap returns the underlying exec error.
func (e *CommandError) Unwrap() error { return e.Err }

// Runner executes build commands through the platform shell.
// One Runner lives for one CLI invocation; it remembers which build groups
// already ran so artifacts sharing a group do not rebuild it.
type Runner struct {
	// Dir is the working directory for commands; empty means the current directory.
	Dir    string
	Stdout io.Writer
	Stderr io.Writer

	executed map[string]bool
}

// NewRunner returns a Runner wired to the process's standard streams.
func NewRunner() *Runner {
	return &Runner{
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
		executed: make(map[string]bool),
	}
}

// Executed reports whether the named group has already run in this invocation.
func (r *Runner) Executed(group string) bool {
	return r.executed[group]
}

// RunPlan runs the plan's commands, skipping group plans that already succeeded.
// A group is only marked as executed after all its commands succeed.
func (r *Runner) RunPlan(plan Plan) error {
	if plan.Group == "" {
		return r.RunCommands(plan.Commands)
	}
	if r.executed[plan.Group] {
		logger.Debug("[DEBUG] Build group %s already ran, skipping\n", plan.Group)
		return nil
	}
	if err := r.RunCommands(plan.Commands); err != nil {
		return err
	}
	if r.executed == nil {
		r.executed = make(map[string]bool)
	}
	r.executed[plan.Group] = true
	return nil
}

// RunCommands runs cmds in order and stops at the first failure.
func (r *Runner) RunCommands(cmds []string) error {
	for _, c := range cmds {
		logger.Info("[INFO] Running command: %s\n", c)
		if err := r.run(c); err != nil {
			return &CommandError{Command: c, Err: err}
		}
	}
	return nil
}

// RunHook resolves a prebuild/postbuild reference and runs it.
func (r *Runner) RunHook(ref *config.BuildCommand, groups map[string]*config.BuildCommand) error {
	cmds, err := ResolveCommands(ref, groups)
	if err != nil {
		return err
	}
	return r.RunCommands(cmds)
}

func (r *Runner) run(command string) error {
	cmd := shellCommand(command)
	cmd.Dir = r.Dir
	cmd.Stdin = os.Stdin
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	logger.Debug("[DEBUG] Running command: %v\n", cmd.Args)
	return cmd.Run()
}

func shellCommand(command string) *exec.Cmd {
	if runtime.GOOS == "windows" {
		return exec.Command("cmd", "/C", command)
	}
	return exec.Command("sh", "-c", command)
}
