package execshell

import (
	"fmt"
	"strings"
)

type messageStage int

const (
	messageStageStart messageStage = iota
	messageStageSuccess
	messageStageFailure
	messageStageExecutionFailure
)

const (
	genericStartTemplateConstant            = "Running %s"
	genericSuccessTemplateConstant          = "Completed %s"
	genericFailureTemplateConstant          = "%s failed with exit code %d%s"
	genericExecutionFailureTemplateConstant = "%s failed: %s"
	exitCodeSuffixTemplateConstant          = " (exit code %d%s)"
	executionFailureSuffixTemplateConstant  = ": %s"
	workingDirectorySuffixTemplateConstant  = " (in %s)"
	standardErrorSuffixTemplateConstant     = ": %s"
	unknownFailureMessageConstant           = "unknown error"
	defaultWorkingDirectoryLabelConstant    = "current directory"
	fallbackUnknownValueLabelConstant       = "unknown"
	emptyStringConstant                     = ""
	flagPrefixConstant                      = "-"
)

const (
	gitDirectoryFlagConstant            = "-C"
	gitCloneSubcommandConstant          = "clone"
	gitPullSubcommandConstant           = "pull"
	gitCheckoutSubcommandConstant       = "checkout"
	gitSymbolicRefSubcommandConstant    = "symbolic-ref"
	gitLSRemoteSubcommandConstant       = "ls-remote"
	gitStatusSubcommandConstant         = "status"
	gitAddSubcommandConstant            = "add"
	gitCommitSubcommandConstant         = "commit"
	gitPushSubcommandConstant           = "push"
	gitConfigSubcommandConstant         = "config"
	gitBranchSubcommandConstant         = "branch"
	gitDiffSubcommandConstant           = "diff"
	gitBranchFlagConstant               = "-b"
	gitMessageFlagConstant              = "-m"
	gitConfigGetFlagConstant            = "--get"
	gitShowCurrentFlagConstant          = "--show-current"
	gitLSRemoteMinimumArgumentsConstant = 2
)

// lifecycleTemplates take the subject as %[1]s and the repository location as %[2]s.
type lifecycleTemplates struct {
	start            string
	success          string
	failure          string
	executionFailure string
}

var gitLifecycleTemplates = map[string]lifecycleTemplates{
	gitCloneSubcommandConstant: {
		start:            "Cloning %[1]s into %[2]s",
		success:          "Cloned %[1]s into %[2]s",
		failure:          "Failed to clone %[1]s into %[2]s",
		executionFailure: "Unable to clone %[1]s into %[2]s",
	},
	gitPullSubcommandConstant: {
		start:            "Pulling latest changes into %[2]s",
		success:          "Pulled latest changes into %[2]s",
		failure:          "Failed to pull latest changes into %[2]s",
		executionFailure: "Unable to pull latest changes into %[2]s",
	},
	gitCheckoutSubcommandConstant: {
		start:            "Switching %[2]s to branch %[1]s",
		success:          "%[2]s now on branch %[1]s",
		failure:          "Failed to switch %[2]s to branch %[1]s",
		executionFailure: "Unable to switch %[2]s to branch %[1]s",
	},
	gitSymbolicRefSubcommandConstant: {
		start:            "Resolving %[1]s in %[2]s",
		success:          "Resolved %[1]s in %[2]s",
		failure:          "Failed to resolve %[1]s in %[2]s",
		executionFailure: "Unable to resolve %[1]s in %[2]s",
	},
	gitLSRemoteSubcommandConstant: {
		start:            "Checking for branch %[1]s on the remote of %[2]s",
		success:          "Checked for branch %[1]s on the remote of %[2]s",
		failure:          "Failed to check for branch %[1]s on the remote of %[2]s",
		executionFailure: "Unable to check for branch %[1]s on the remote of %[2]s",
	},
	gitStatusSubcommandConstant: {
		start:            "Reviewing working tree status in %[2]s",
		success:          "Collected working tree status for %[2]s",
		failure:          "Failed to review working tree status in %[2]s",
		executionFailure: "Unable to review working tree status in %[2]s",
	},
	gitAddSubcommandConstant: {
		start:            "Staging %[1]s in %[2]s",
		success:          "Staged %[1]s in %[2]s",
		failure:          "Failed to stage %[1]s in %[2]s",
		executionFailure: "Unable to stage %[1]s in %[2]s",
	},
	gitCommitSubcommandConstant: {
		start:            "Creating commit in %[2]s with message %[1]q",
		success:          "Created commit in %[2]s with message %[1]q",
		failure:          "Failed to create commit in %[2]s with message %[1]q",
		executionFailure: "Unable to create commit in %[2]s with message %[1]q",
	},
	gitPushSubcommandConstant: {
		start:            "Pushing %[1]s from %[2]s",
		success:          "Pushed %[1]s from %[2]s",
		failure:          "Failed to push %[1]s from %[2]s",
		executionFailure: "Unable to push %[1]s from %[2]s",
	},
	gitConfigSubcommandConstant: {
		start:            "Configuring %[1]s in %[2]s",
		success:          "Configured %[1]s in %[2]s",
		failure:          "Failed to configure %[1]s in %[2]s",
		executionFailure: "Unable to configure %[1]s in %[2]s",
	},
	gitDiffSubcommandConstant: {
		start:            "Collecting changes in %[2]s",
		success:          "Collected changes in %[2]s",
		failure:          "Failed to collect changes in %[2]s",
		executionFailure: "Unable to collect changes in %[2]s",
	},
}

var gitConfigReadTemplates = lifecycleTemplates{
	start:            "Reading %[1]s in %[2]s",
	success:          "Read %[1]s in %[2]s",
	failure:          "Failed to read %[1]s in %[2]s",
	executionFailure: "Unable to read %[1]s in %[2]s",
}

var gitCurrentBranchTemplates = lifecycleTemplates{
	start:            "Identifying current branch in %[2]s",
	success:          "Identified current branch in %[2]s",
	failure:          "Failed to identify current branch in %[2]s",
	executionFailure: "Unable to identify current branch in %[2]s",
}

// CommandMessageFormatter builds human-readable messages for command lifecycle events.
type CommandMessageFormatter struct{}

// BuildStartedMessage formats the message describing a command about to run.
func (formatter CommandMessageFormatter) BuildStartedMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageStart)
}

// BuildSuccessMessage formats the message describing a completed command with a zero exit code.
func (formatter CommandMessageFormatter) BuildSuccessMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageSuccess)
}

// BuildFailureMessage formats the message describing a command that returned a non-zero exit code.
func (formatter CommandMessageFormatter) BuildFailureMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.buildMessage(command, result, nil, messageStageFailure)
}

// BuildExecutionFailureMessage formats the message describing an unexpected execution failure.
func (formatter CommandMessageFormatter) BuildExecutionFailureMessage(command ShellCommand, failure error) string {
	return formatter.buildMessage(command, ExecutionResult{}, failure, messageStageExecutionFailure)
}

func (formatter CommandMessageFormatter) buildMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	if command.Name != CommandGit {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	repositoryLocation, gitArguments := formatter.splitRepositoryDirectory(command)
	if len(gitArguments) == 0 {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	subcommand := strings.TrimSpace(gitArguments[0])
	templates, subject, recognized := formatter.selectGitTemplates(subcommand, gitArguments[1:])
	if !recognized {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
	if subcommand == gitCloneSubcommandConstant {
		repositoryLocation = formatter.ensureValue(formatter.lastArgument(gitArguments[1:]))
	}

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(templates.start, subject, repositoryLocation)
	case messageStageSuccess:
		return fmt.Sprintf(templates.success, subject, repositoryLocation)
	case messageStageFailure:
		return fmt.Sprintf(templates.failure, subject, repositoryLocation) +
			fmt.Sprintf(exitCodeSuffixTemplateConstant, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(templates.executionFailure, subject, repositoryLocation) +
			fmt.Sprintf(executionFailureSuffixTemplateConstant, formatter.describeFailure(failure))
	default:
		return emptyStringConstant
	}
}

func (formatter CommandMessageFormatter) selectGitTemplates(subcommand string, arguments []string) (lifecycleTemplates, string, bool) {
	switch subcommand {
	case gitCloneSubcommandConstant:
		return gitLifecycleTemplates[subcommand], formatter.ensureValue(formatter.extractCloneSource(arguments)), true
	case gitCheckoutSubcommandConstant, gitPushSubcommandConstant:
		return gitLifecycleTemplates[subcommand], formatter.ensureValue(formatter.lastNonFlagArgument(arguments)), true
	case gitSymbolicRefSubcommandConstant, gitAddSubcommandConstant:
		return gitLifecycleTemplates[subcommand], formatter.ensureValue(formatter.firstNonFlagArgument(arguments)), true
	case gitLSRemoteSubcommandConstant:
		if len(arguments) < gitLSRemoteMinimumArgumentsConstant {
			return lifecycleTemplates{}, emptyStringConstant, false
		}
		return gitLifecycleTemplates[subcommand], formatter.ensureValue(formatter.lastArgument(arguments)), true
	case gitCommitSubcommandConstant:
		return gitLifecycleTemplates[subcommand], formatter.findFlagValue(arguments, gitMessageFlagConstant), true
	case gitConfigSubcommandConstant:
		configurationKey := formatter.ensureValue(formatter.firstNonFlagArgument(arguments))
		if containsArgument(arguments, gitConfigGetFlagConstant) {
			return gitConfigReadTemplates, configurationKey, true
		}
		return gitLifecycleTemplates[subcommand], configurationKey, true
	case gitBranchSubcommandConstant:
		if containsArgument(arguments, gitShowCurrentFlagConstant) {
			return gitCurrentBranchTemplates, emptyStringConstant, true
		}
		return lifecycleTemplates{}, emptyStringConstant, false
	case gitPullSubcommandConstant, gitStatusSubcommandConstant, gitDiffSubcommandConstant:
		return gitLifecycleTemplates[subcommand], emptyStringConstant, true
	default:
		return lifecycleTemplates{}, emptyStringConstant, false
	}
}

// splitRepositoryDirectory treats a leading "-C <path>" as the repository location.
func (formatter CommandMessageFormatter) splitRepositoryDirectory(command ShellCommand) (string, []string) {
	arguments := command.Details.Arguments
	if len(arguments) >= 2 && strings.TrimSpace(arguments[0]) == gitDirectoryFlagConstant {
		return formatter.ensureValue(arguments[1]), arguments[2:]
	}
	return formatter.describeWorkingDirectory(command), arguments
}

func (formatter CommandMessageFormatter) buildGenericMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	commandLabel := command.CommandLine() + formatter.formatWorkingDirectorySuffix(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(genericStartTemplateConstant, commandLabel)
	case messageStageSuccess:
		return fmt.Sprintf(genericSuccessTemplateConstant, commandLabel)
	case messageStageFailure:
		return fmt.Sprintf(genericFailureTemplateConstant, commandLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(genericExecutionFailureTemplateConstant, commandLabel, formatter.describeFailure(failure))
	default:
		return emptyStringConstant
	}
}

func (formatter CommandMessageFormatter) formatWorkingDirectorySuffix(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(workingDirectorySuffixTemplateConstant, trimmedWorkingDirectory)
}

func (formatter CommandMessageFormatter) formatStandardErrorSuffix(standardError string) string {
	trimmedStandardError := strings.TrimSpace(standardError)
	if len(trimmedStandardError) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(standardErrorSuffixTemplateConstant, trimmedStandardError)
}

func (formatter CommandMessageFormatter) describeWorkingDirectory(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return defaultWorkingDirectoryLabelConstant
	}
	return trimmedWorkingDirectory
}

func (formatter CommandMessageFormatter) describeFailure(failure error) string {
	if failure == nil {
		return unknownFailureMessageConstant
	}
	return failure.Error()
}

func (formatter CommandMessageFormatter) ensureValue(value string) string {
	trimmed := strings.TrimSpace(value)
	if len(trimmed) == 0 {
		return fallbackUnknownValueLabelConstant
	}
	return trimmed
}

// extractCloneSource skips "-b <branch>" and returns the repository URL.
func (formatter CommandMessageFormatter) extractCloneSource(arguments []string) string {
	for index := 0; index < len(arguments); index++ {
		trimmed := strings.TrimSpace(arguments[index])
		if trimmed == gitBranchFlagConstant {
			index++
			continue
		}
		if strings.HasPrefix(trimmed, flagPrefixConstant) {
			continue
		}
		return trimmed
	}
	return emptyStringConstant
}

func (formatter CommandMessageFormatter) firstNonFlagArgument(arguments []string) string {
	for _, argument := range arguments {
		trimmed := strings.TrimSpace(argument)
		if len(trimmed) == 0 || strings.HasPrefix(trimmed, flagPrefixConstant) {
			continue
		}
		return trimmed
	}
	return emptyStringConstant
}

func (formatter CommandMessageFormatter) lastNonFlagArgument(arguments []string) string {
	for index := len(arguments) - 1; index >= 0; index-- {
		trimmed := strings.TrimSpace(arguments[index])
		if len(trimmed) == 0 || strings.HasPrefix(trimmed, flagPrefixConstant) {
			continue
		}
		return trimmed
	}
	return emptyStringConstant
}

func (formatter CommandMessageFormatter) lastArgument(arguments []string) string {
	if len(arguments) == 0 {
		return emptyStringConstant
	}
	return strings.TrimSpace(arguments[len(arguments)-1])
}

func (formatter CommandMessageFormatter) findFlagValue(arguments []string, flag string) string {
	for index := 0; index+1 < len(arguments); index++ {
		if strings.TrimSpace(arguments[index]) == flag {
			return strings.TrimSpace(arguments[index+1])
		}
	}
	return fallbackUnknownValueLabelConstant
}

func containsArgument(arguments []string, value string) bool {
	for _, argument := range arguments {
		if strings.TrimSpace(argument) == value {
			return true
		}
	}
	return false
}
