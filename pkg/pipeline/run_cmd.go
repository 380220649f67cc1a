package pipeline

import (
	"bytes"
	"fmt"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

// RunCmd spawns a child process built from a formatted command template,
// per §4.1.b.
type RunCmd struct {
	Input              Input  `yaml:"input"`
	CommandTemplate    string `yaml:"command_template"`
	InputFormatting    bool   `yaml:"input_formatting"`
	DateTimeFormatting bool   `yaml:"datetime_formatting"`
	MustSucceedFlag    bool   `yaml:"must_succeed"`
}

// Name implements Action.Name.
func (a *RunCmd) Name() string {
	return "RunCmd"
}

// MustSucceed implements Action.MustSucceed.
func (a *RunCmd) MustSucceed() bool {
	return a.MustSucceedFlag
}

// Run implements Action.Run.
func (a *RunCmd) Run(context *ExecutionContext) bool {
	context.setCurrentAction(a.Name())

	inputPath := context.GetInput(a.Input)

	command := applyInputFormatting(a.CommandTemplate, inputPath, a.InputFormatting)
	command = applyDateTimeFormatting(command, time.Now(), a.DateTimeFormatting)

	var cmd *exec.Cmd
	if runtime.GOOS == "windows" {
		cmd = exec.Command("cmd.exe", "/C", command)
	} else {
		// No shell is spawned on POSIX hosts: the formatted command is
		// split on whitespace and the resulting argv is executed
		// directly, so a quoted argument containing spaces cannot be
		// expressed (§4.1.b).
		fields := strings.Fields(command)
		if len(fields) == 0 {
			return context.HandleError(fmt.Errorf("command template produced an empty command"))
		}
		cmd = exec.Command(fields[0], fields[1:]...)
	}
	cmd.Dir = filepath.Dir(inputPath)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()

	if runErr != nil || stdout.Len() == 0 {
		return context.HandleError(fmt.Errorf("command %q failed or produced no output: %s", command, stderr.String()))
	}

	context.Log(stdout.String())

	return true
}
