package execshell

// CommandEventObserver receives lifecycle notifications for every command the executor runs.
// Workers share one executor, so observers must tolerate concurrent calls.
type CommandEventObserver interface {
	CommandStarted(command ShellCommand)
	CommandCompleted(command ShellCommand, result ExecutionResult)
	CommandExecutionFailed(command ShellCommand, failure error)
}

// commandEventFanOut forwards each event to every registered observer in registration order.
type commandEventFanOut []CommandEventObserver

func (observers commandEventFanOut) CommandStarted(command ShellCommand) {
	for _, observer := range observers {
		observer.CommandStarted(command)
	}
}

func (observers commandEventFanOut) CommandCompleted(command ShellCommand, result ExecutionResult) {
	for _, observer := range observers {
		observer.CommandCompleted(command, result)
	}
}

func (observers commandEventFanOut) CommandExecutionFailed(command ShellCommand, failure error) {
	for _, observer := range observers {
		observer.CommandExecutionFailed(command, failure)
	}
}
