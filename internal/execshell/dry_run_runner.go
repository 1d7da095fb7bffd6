package execshell

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
)

const dryRunAnnouncementTemplateConstant = "Executing: %s\n"

// DryRunCommandRunner prints each command line instead of running it.
//
// Every command reports success with empty output, so callers that branch on
// command output (status, ls-remote) behave as if the answer were empty.
type DryRunCommandRunner struct {
	output      io.Writer
	outputGuard sync.Mutex
}

// NewDryRunCommandRunner constructs a runner that announces commands on the provided writer.
func NewDryRunCommandRunner(output io.Writer) *DryRunCommandRunner {
	if output == nil {
		output = os.Stdout
	}
	return &DryRunCommandRunner{output: output}
}

// Run prints the command line and returns an empty successful result.
func (runner *DryRunCommandRunner) Run(_ context.Context, command ShellCommand) (ExecutionResult, error) {
	runner.outputGuard.Lock()
	defer runner.outputGuard.Unlock()

	if _, writeError := fmt.Fprintf(runner.output, dryRunAnnouncementTemplateConstant, command.CommandLine()); writeError != nil {
		return ExecutionResult{}, writeError
	}
	return ExecutionResult{ExitCode: 0}, nil
}
