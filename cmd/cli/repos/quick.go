package repos

import (
	"github.com/spf13/cobra"

	"github.com/temirov/grgry/internal/repos/dependencies"
	"github.com/temirov/grgry/internal/repos/discovery"
	"github.com/temirov/grgry/internal/repos/mass"
	"github.com/temirov/grgry/internal/repos/shared"
	flagutils "github.com/temirov/grgry/internal/utils/flags"
)

const (
	quickUseConstant      = "quick <message>"
	quickShortDescription = "Stage, commit, and push pending changes in one go"
	quickLongDescription  = "quick runs git add, git commit -m <message>, and git push in the current repository, or in every changed repository below it when --regex or --rev-regex is given. Commits use the identity of the profile owning the remote."
)

// QuickCommandBuilder assembles the quick command.
type QuickCommandBuilder struct {
	LoggerProvider               LoggerProvider
	HumanReadableLoggingProvider func() bool
	ConfigurationProvider        func() QuickConfiguration
	ProfileStoreProvider         ProfileStoreProvider
	WorkerCountProvider          WorkerCountProvider
	Locator                      shared.RepositoryLocator
	GitExecutor                  shared.GitExecutor
	GitManager                   shared.GitRepositoryManager
	PrompterFactory              PrompterFactory
	Reporter                     shared.Reporter
	WorkingDirectory             string
}

// Build constructs the quick command.
func (builder *QuickCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   quickUseConstant,
		Short: quickShortDescription,
		Long:  quickLongDescription,
		Args:  cobra.ExactArgs(1),
	}

	selectionValues := flagutils.BindSelectionFlags(command, discovery.NoRecursiveSearchPattern)
	flagutils.BindExecutionFlags(command, flagutils.ExecutionDefaults{}, flagutils.DefaultExecutionFlagDefinitions())

	command.RunE = func(command *cobra.Command, arguments []string) error {
		return builder.run(command, arguments, selectionValues)
	}
	return command, nil
}

func (builder *QuickCommandBuilder) run(command *cobra.Command, arguments []string, selectionValues *flagutils.SelectionFlagValues) error {
	configuration := builder.resolveConfiguration()
	execution := flagutils.ApplyExecutionFlags(command, flagutils.ExecutionDefaults{
		DryRun:          configuration.DryRun,
		SkipInteractive: configuration.SkipInteractive,
	})
	pattern, reverse := selectionValues.Resolve()
	workerCount := resolveWorkerCount(builder.WorkerCountProvider)

	store, storeError := loadProfileStore(builder.ProfileStoreProvider)
	if storeError != nil {
		return storeError
	}

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

	quickDependencies := mass.Dependencies{
		Locator:  dependencies.ResolveRepositoryLocator(builder.Locator, logger, workerCount),
		Manager:  gitManager,
		Reporter: resolveReporter(builder.Reporter, command),
		Logger:   logger,
	}
	if !execution.SkipInteractive {
		prompter, releasePrompter := resolvePrompter(builder.PrompterFactory, command)
		defer releasePrompter()
		quickDependencies.Prompter = prompter
	}

	return mass.RunQuick(command.Context(), quickDependencies, store, arguments[0], mass.SearchOptions{
		RootDirectory:   builder.WorkingDirectory,
		Pattern:         pattern,
		Reverse:         reverse,
		SkipInteractive: execution.SkipInteractive,
		WorkerCount:     workerCount,
	})
}

func (builder *QuickCommandBuilder) resolveConfiguration() QuickConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultToolsConfiguration().Quick
	}
	return builder.ConfigurationProvider()
}
