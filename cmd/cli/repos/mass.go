package repos

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/temirov/grgry/internal/repos/dependencies"
	"github.com/temirov/grgry/internal/repos/mass"
	"github.com/temirov/grgry/internal/repos/shared"
	flagutils "github.com/temirov/grgry/internal/utils/flags"
)

const (
	massUseConstant            = "mass <git command>"
	massShortDescription       = "Execute a git command in every repository below the working directory"
	massLongDescription        = "mass runs the given git command, written without the git prefix, in every repository found below the working directory. Quote commands that carry their own flags, e.g. grgry mass \"log -1 --oneline\". The quoted command is split the way a POSIX shell splits words, so nested quotes group arguments: grgry mass \"commit -m 'two words'\". Shell operators such as ; | & < > are rejected unless quoted, and no variable expansion happens."
	massDefaultPatternConstant = ".*"
)

// MassCommandBuilder assembles the mass command.
type MassCommandBuilder struct {
	LoggerProvider               LoggerProvider
	HumanReadableLoggingProvider func() bool
	ConfigurationProvider        func() MassConfiguration
	WorkerCountProvider          WorkerCountProvider
	Locator                      shared.RepositoryLocator
	GitExecutor                  shared.GitExecutor
	GitManager                   shared.GitRepositoryManager
	PrompterFactory              PrompterFactory
	Reporter                     shared.Reporter
	WorkingDirectory             string
}

// Build constructs the mass command.
func (builder *MassCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   massUseConstant,
		Short: massShortDescription,
		Long:  massLongDescription,
		Args:  cobra.MinimumNArgs(1),
	}

	selectionValues := flagutils.BindSelectionFlags(command, massDefaultPatternConstant)
	flagutils.BindExecutionFlags(command, flagutils.ExecutionDefaults{}, flagutils.DefaultExecutionFlagDefinitions())

	command.RunE = func(command *cobra.Command, arguments []string) error {
		return builder.run(command, arguments, selectionValues)
	}
	return command, nil
}

func (builder *MassCommandBuilder) run(command *cobra.Command, arguments []string, selectionValues *flagutils.SelectionFlagValues) error {
	configuration := builder.resolveConfiguration()
	execution := flagutils.ApplyExecutionFlags(command, flagutils.ExecutionDefaults{
		DryRun:          configuration.DryRun,
		SkipInteractive: configuration.SkipInteractive,
	})
	pattern, reverse := selectionValues.Resolve()
	workerCount := resolveWorkerCount(builder.WorkerCountProvider)

	logger := resolveLogger(builder.LoggerProvider)
	gitExecutor, executorError := dependencies.ResolveGitExecutor(builder.GitExecutor, dependencies.ExecutorOptions{
		Logger:        logger,
		HumanReadable: resolveHumanReadable(builder.HumanReadableLoggingProvider),
		DryRun:        execution.DryRun,
		DryRunOutput:  command.OutOrStdout(),
	})
	if executorError != nil {
		return executorError
	}

	gitManager, managerError := dependencies.ResolveGitRepositoryManager(builder.GitManager, gitExecutor)
	if managerError != nil {
		return managerError
	}

	massDependencies := mass.Dependencies{
		Locator:  dependencies.ResolveRepositoryLocator(builder.Locator, logger, workerCount),
		Manager:  gitManager,
		Reporter: resolveReporter(builder.Reporter, command),
		Logger:   logger,
	}
	if !execution.SkipInteractive {
		prompter, releasePrompter := resolvePrompter(builder.PrompterFactory, command)
		defer releasePrompter()
		massDependencies.Prompter = prompter
	}

	return mass.RunMass(command.Context(), massDependencies, strings.Join(arguments, " "), mass.SearchOptions{
		RootDirectory:   builder.WorkingDirectory,
		Pattern:         pattern,
		Reverse:         reverse,
		SkipInteractive: execution.SkipInteractive,
		WorkerCount:     workerCount,
	})
}

func (builder *MassCommandBuilder) resolveConfiguration() MassConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultToolsConfiguration().Mass
	}
	return builder.ConfigurationProvider()
}
