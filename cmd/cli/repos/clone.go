package repos

import (
	"fmt"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/temirov/grgry/internal/providers"
	"github.com/temirov/grgry/internal/repos/clone"
	"github.com/temirov/grgry/internal/repos/dependencies"
	"github.com/temirov/grgry/internal/repos/shared"
	flagutils "github.com/temirov/grgry/internal/utils/flags"
)

const (
	cloneUseConstant              = "clone <group|org|user>"
	cloneShortDescription         = "Clone or update every repository of a group, organization, or user"
	cloneLongDescription          = "clone lists the repositories of a collection on the active profile's provider and clones missing ones below the profile's target base path. Existing repositories are pulled."
	cloneForceFlagName            = "force"
	cloneForceFlagShorthand       = "f"
	cloneForceFlagDescription     = "Remove the target base directory before cloning"
	cloneUserFlagName             = "user"
	cloneUserFlagShorthand        = "u"
	cloneUserFlagDescription      = "Treat the collection as a user instead of a group or organization"
	cloneBranchFlagDescription    = "Check out this branch in every repository (default: the remote HEAD branch)"
	invalidBranchErrorTemplate    = "invalid --branch %q: %w"
	cloneDefaultPatternConstant   = ".*"
	cloneCollectionArgumentsCount = 1
)

// CloneCommandBuilder assembles the clone command.
type CloneCommandBuilder struct {
	LoggerProvider               LoggerProvider
	HumanReadableLoggingProvider func() bool
	ConfigurationProvider        func() CloneConfiguration
	ProfileStoreProvider         ProfileStoreProvider
	WorkerCountProvider          WorkerCountProvider
	Lister                       clone.RepositoryLister
	GitExecutor                  shared.GitExecutor
	GitManager                   shared.GitRepositoryManager
	FileSystem                   afero.Fs
	Reporter                     shared.Reporter
}

// Build constructs the clone command.
func (builder *CloneCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   cloneUseConstant,
		Short: cloneShortDescription,
		Long:  cloneLongDescription,
		Args:  cobra.ExactArgs(cloneCollectionArgumentsCount),
	}

	command.Flags().BoolP(cloneForceFlagName, cloneForceFlagShorthand, false, cloneForceFlagDescription)
	command.Flags().BoolP(cloneUserFlagName, cloneUserFlagShorthand, false, cloneUserFlagDescription)
	branchValues := flagutils.BindBranchFlags(command, flagutils.BranchFlagValues{}, cloneBranchFlagDescription)
	selectionValues := flagutils.BindSelectionFlags(command, cloneDefaultPatternConstant)
	flagutils.BindExecutionFlags(command, flagutils.ExecutionDefaults{}, flagutils.ExecutionFlagDefinitions{
		DryRun: flagutils.ExecutionFlagDefinition{Name: flagutils.DryRunFlagName, Usage: flagutils.DryRunFlagUsage, Enabled: true},
	})

	command.RunE = func(command *cobra.Command, arguments []string) error {
		return builder.run(command, arguments, branchValues, selectionValues)
	}
	return command, nil
}

func (builder *CloneCommandBuilder) run(command *cobra.Command, arguments []string, branchValues *flagutils.BranchFlagValues, selectionValues *flagutils.SelectionFlagValues) error {
	configuration := builder.resolveConfiguration()
	execution := flagutils.ApplyExecutionFlags(command, flagutils.ExecutionDefaults{DryRun: configuration.DryRun})
	force, _ := command.Flags().GetBool(cloneForceFlagName)
	isUser, _ := command.Flags().GetBool(cloneUserFlagName)
	pattern, reverse := selectionValues.Resolve()

	branchName := ""
	if len(strings.TrimSpace(branchValues.Name)) > 0 {
		validatedBranch, branchError := shared.NewBranchName(branchValues.Name)
		if branchError != nil {
			return fmt.Errorf(invalidBranchErrorTemplate, branchValues.Name, branchError)
		}
		branchName = validatedBranch.String()
	}

	_, activeProfile, profileError := loadActiveProfile(builder.ProfileStoreProvider)
	if profileError != nil {
		return profileError
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

	service, serviceError := clone.NewService(clone.Dependencies{
		Lister:     dependencies.ResolveRepositoryLister(builder.Lister, logger),
		Manager:    gitManager,
		FileSystem: builder.FileSystem,
		Reporter:   resolveReporter(builder.Reporter, command),
		Logger:     logger,
	})
	if serviceError != nil {
		return serviceError
	}

	activeProfile.Token = providers.ResolveToken(activeProfile.Provider, activeProfile.Token, nil)
	_, runError := service.Run(command.Context(), activeProfile, clone.Options{
		Collection:  strings.TrimSpace(arguments[0]),
		IsUser:      isUser,
		Branch:      branchName,
		Pattern:     pattern,
		Reverse:     reverse,
		Force:       force,
		DryRun:      execution.DryRun,
		WorkerCount: resolveWorkerCount(builder.WorkerCountProvider),
	})
	return runError
}

func (builder *CloneCommandBuilder) resolveConfiguration() CloneConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultToolsConfiguration().Clone
	}
	return builder.ConfigurationProvider()
}
