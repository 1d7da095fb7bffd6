package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	profilecmd "github.com/temirov/grgry/cmd/cli/profile"
	"github.com/temirov/grgry/cmd/cli/repos"
	"github.com/temirov/grgry/internal/profiles"
	"github.com/temirov/grgry/internal/utils"
	flagutils "github.com/temirov/grgry/internal/utils/flags"
	pathutils "github.com/temirov/grgry/internal/utils/path"
)

const (
	applicationNameConstant                 = "grgry"
	applicationShortDescriptionConstant     = "Run git operations across many repositories at once"
	applicationLongDescriptionConstant      = "grgry clones every repository of a GitHub or GitLab group, organization or user, runs git commands across local repositories, and commits and pushes changes in bulk."
	configFileFlagNameConstant              = "config"
	configFileFlagUsageConstant             = "Optional path to a configuration file (YAML)."
	logLevelFlagNameConstant                = "log-level"
	logLevelFlagUsageConstant               = "Override the configured log level."
	logFormatFlagNameConstant               = "log-format"
	logFormatFlagUsageConstant              = "Override the configured log format."
	workersFlagNameConstant                 = "workers"
	workersFlagUsageConstant                = "Number of parallel workers (0 uses every CPU)."
	commonConfigurationKeyConstant          = "common"
	commonLogLevelConfigKeyConstant         = commonConfigurationKeyConstant + ".log_level"
	commonLogFormatConfigKeyConstant        = commonConfigurationKeyConstant + ".log_format"
	commonProfilesFileConfigKeyConstant     = commonConfigurationKeyConstant + ".profiles_file"
	commonWorkersConfigKeyConstant          = commonConfigurationKeyConstant + ".workers"
	toolsConfigurationKeyConstant           = "tools"
	defaultProfilesFileConstant             = "~/.config/grgry/profiles.yaml"
	environmentPrefixConstant               = "GRGRY"
	configurationNameConstant               = "config"
	configurationTypeConstant               = "yaml"
	configurationInitializedMessageConstant = "configuration initialized"
	configurationEnvironmentFieldConstant   = "environment_overrides"
	configurationLogLevelFieldConstant      = "log_level"
	configurationLogFormatFieldConstant     = "log_format"
	configurationFileFieldConstant          = "config_file"
	configurationProfilesFileFieldConstant  = "profiles_file"
	configurationWorkersFieldConstant       = "workers"
	configurationLoadErrorTemplateConstant  = "unable to load configuration: %w"
	loggerCreationErrorTemplateConstant     = "unable to create logger: %w"
	loggerSyncErrorTemplateConstant         = "unable to flush logger: %w"
	negativeWorkersErrorTemplateConstant    = "workers must not be negative: %d"
	rootCommandInfoMessageConstant          = "grgry CLI executed"
	rootCommandDebugMessageConstant         = "grgry CLI diagnostics"
	logFieldCommandNameConstant             = "command_name"
	logFieldArgumentCountConstant           = "argument_count"
	logFieldArgumentsConstant               = "arguments"
	loggerNotInitializedMessageConstant     = "logger not initialized"
	versionTemplateConstant                 = "grgry version: {{.Version}}\n"
	developmentVersionConstant              = "dev"
	buildInfoDevelVersionConstant           = "(devel)"
)

// Version is stamped at build time with -ldflags "-X github.com/temirov/grgry/cmd/cli.Version=...".
var Version string

// ApplicationConfiguration describes the persisted configuration for the CLI entrypoint.
type ApplicationConfiguration struct {
	Common ApplicationCommonConfiguration `mapstructure:"common"`
	Tools  repos.ToolsConfiguration       `mapstructure:"tools"`
}

// ApplicationCommonConfiguration stores settings shared across commands.
type ApplicationCommonConfiguration struct {
	LogLevel     string `mapstructure:"log_level"`
	LogFormat    string `mapstructure:"log_format"`
	ProfilesFile string `mapstructure:"profiles_file"`
	Workers      int    `mapstructure:"workers"`
}

// Application wires the Cobra root command, configuration loader, and structured logger.
type Application struct {
	rootCommand           *cobra.Command
	configurationLoader   *utils.ConfigurationLoader
	loggerFactory         *utils.LoggerFactory
	logger                *zap.Logger
	configuration         ApplicationConfiguration
	configurationMetadata utils.LoadedConfiguration
	configurationFilePath string
	logLevelFlagValue     string
	logFormatFlagValue    string
	workersFlagValue      int
	pathExpander          *pathutils.HomeExpander
}

// NewApplication assembles a fully wired CLI application instance.
func NewApplication() *Application {
	configurationLoader := utils.NewConfigurationLoader(
		configurationNameConstant,
		configurationTypeConstant,
		environmentPrefixConstant,
		utils.DefaultConfigurationSearchPaths(applicationNameConstant),
	)
	configurationLoader.SetEmbeddedConfiguration(EmbeddedDefaultConfiguration())

	application := &Application{
		configurationLoader: configurationLoader,
		loggerFactory:       utils.NewLoggerFactory(),
		logger:              zap.NewNop(),
		pathExpander:        pathutils.NewHomeExpander(),
	}

	cobraCommand := &cobra.Command{
		Use:           applicationNameConstant,
		Short:         applicationShortDescriptionConstant,
		Long:          applicationLongDescriptionConstant,
		Version:       resolveVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			return application.initializeConfiguration(command)
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			return application.runRootCommand(command, arguments)
		},
	}

	cobraCommand.SetContext(context.Background())
	cobraCommand.SetVersionTemplate(versionTemplateConstant)
	cobraCommand.PersistentFlags().StringVar(&application.configurationFilePath, configFileFlagNameConstant, "", configFileFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.logLevelFlagValue, logLevelFlagNameConstant, "", logLevelFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.logFormatFlagValue, logFormatFlagNameConstant, "", flagutils.FormatChoiceUsage(string(utils.LogFormatConsole), utils.SupportedLogFormats(), logFormatFlagUsageConstant))
	cobraCommand.PersistentFlags().IntVar(&application.workersFlagValue, workersFlagNameConstant, 0, workersFlagUsageConstant)

	loggerProvider := func() *zap.Logger {
		return application.logger
	}
	workingDirectory, _ := os.Getwd()

	cloneBuilder := repos.CloneCommandBuilder{
		LoggerProvider:               loggerProvider,
		HumanReadableLoggingProvider: application.humanReadableLoggingEnabled,
		ConfigurationProvider: func() repos.CloneConfiguration {
			return application.configuration.Tools.Clone
		},
		ProfileStoreProvider: application.loadProfileStore,
		WorkerCountProvider:  application.workerCount,
	}
	cloneCommand, cloneBuildError := cloneBuilder.Build()
	if cloneBuildError == nil {
		cobraCommand.AddCommand(cloneCommand)
	}

	massBuilder := &repos.MassCommandBuilder{
		LoggerProvider:               loggerProvider,
		HumanReadableLoggingProvider: application.humanReadableLoggingEnabled,
		ConfigurationProvider: func() repos.MassConfiguration {
			return application.configuration.Tools.Mass
		},
		WorkerCountProvider: application.workerCount,
		WorkingDirectory:    workingDirectory,
	}
	massCommand, massBuildError := massBuilder.Build()
	if massBuildError == nil {
		cobraCommand.AddCommand(massCommand)
	}

	quickBuilder := repos.QuickCommandBuilder{
		LoggerProvider:               loggerProvider,
		HumanReadableLoggingProvider: application.humanReadableLoggingEnabled,
		ConfigurationProvider: func() repos.QuickConfiguration {
			return application.configuration.Tools.Quick
		},
		ProfileStoreProvider: application.loadProfileStore,
		WorkerCountProvider:  application.workerCount,
		WorkingDirectory:     workingDirectory,
	}
	quickCommand, quickBuildError := quickBuilder.Build()
	if quickBuildError == nil {
		cobraCommand.AddCommand(quickCommand)
	}

	aliasBuilder := repos.AliasCommandBuilder{MassBuilder: massBuilder}
	aliasCommand, aliasBuildError := aliasBuilder.Build()
	if aliasBuildError == nil {
		cobraCommand.AddCommand(aliasCommand)
	}

	profileBuilder := profilecmd.CommandBuilder{
		LoggerProvider:       loggerProvider,
		ProfileStoreProvider: application.loadProfileStore,
	}
	profileCommand, profileBuildError := profileBuilder.Build()
	if profileBuildError == nil {
		cobraCommand.AddCommand(profileCommand)
	}

	application.rootCommand = cobraCommand

	return application
}

// Execute runs the configured Cobra command hierarchy and ensures logger flushing.
func (application *Application) Execute() error {
	executionError := application.rootCommand.Execute()
	if syncError := application.flushLogger(); syncError != nil {
		return fmt.Errorf(loggerSyncErrorTemplateConstant, syncError)
	}
	return executionError
}

// Execute builds a fresh application instance and executes the root command hierarchy.
func Execute() error {
	return NewApplication().Execute()
}

func (application *Application) initializeConfiguration(command *cobra.Command) error {
	defaultValues := map[string]any{
		commonLogLevelConfigKeyConstant:     string(utils.LogLevelInfo),
		commonLogFormatConfigKeyConstant:    string(utils.LogFormatConsole),
		commonProfilesFileConfigKeyConstant: defaultProfilesFileConstant,
		commonWorkersConfigKeyConstant:      0,
	}
	for configurationKey, configurationValue := range repos.DefaultConfigurationValues(toolsConfigurationKeyConstant) {
		defaultValues[configurationKey] = configurationValue
	}

	loadedConfiguration, loadError := application.configurationLoader.LoadConfiguration(application.configurationFilePath, defaultValues, &application.configuration)
	if loadError != nil {
		return fmt.Errorf(configurationLoadErrorTemplateConstant, loadError)
	}

	application.configurationMetadata = loadedConfiguration

	if application.persistentFlagChanged(command, logLevelFlagNameConstant) {
		application.configuration.Common.LogLevel = application.logLevelFlagValue
	}

	if application.persistentFlagChanged(command, logFormatFlagNameConstant) {
		application.configuration.Common.LogFormat = application.logFormatFlagValue
	}

	if application.persistentFlagChanged(command, workersFlagNameConstant) {
		application.configuration.Common.Workers = application.workersFlagValue
	}
	if application.configuration.Common.Workers < 0 {
		return fmt.Errorf(negativeWorkersErrorTemplateConstant, application.configuration.Common.Workers)
	}

	application.configuration.Common.ProfilesFile = application.pathExpander.Expand(application.configuration.Common.ProfilesFile)

	logger, loggerCreationError := application.loggerFactory.CreateLogger(
		utils.LogLevel(application.configuration.Common.LogLevel),
		utils.LogFormat(application.configuration.Common.LogFormat),
	)
	if loggerCreationError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, loggerCreationError)
	}

	application.logger = logger

	application.logger.Debug(
		configurationInitializedMessageConstant,
		zap.String(configurationLogLevelFieldConstant, application.configuration.Common.LogLevel),
		zap.String(configurationLogFormatFieldConstant, application.configuration.Common.LogFormat),
		zap.String(configurationFileFieldConstant, application.configurationMetadata.ConfigFileUsed),
		zap.Strings(configurationEnvironmentFieldConstant, application.configurationMetadata.EnvironmentOverrides),
		zap.String(configurationProfilesFileFieldConstant, application.configuration.Common.ProfilesFile),
		zap.Int(configurationWorkersFieldConstant, application.configuration.Common.Workers),
	)

	return nil
}

func (application *Application) loadProfileStore() (*profiles.Store, error) {
	return profiles.LoadStore(application.configuration.Common.ProfilesFile)
}

func (application *Application) workerCount() int {
	return application.configuration.Common.Workers
}

func (application *Application) humanReadableLoggingEnabled() bool {
	logFormatValue := strings.TrimSpace(application.configuration.Common.LogFormat)
	return strings.EqualFold(logFormatValue, string(utils.LogFormatConsole))
}

func (application *Application) runRootCommand(command *cobra.Command, arguments []string) error {
	if application.logger == nil {
		return errors.New(loggerNotInitializedMessageConstant)
	}

	application.logger.Info(
		rootCommandInfoMessageConstant,
		zap.String(logFieldCommandNameConstant, command.Name()),
		zap.Int(logFieldArgumentCountConstant, len(arguments)),
	)

	application.logger.Debug(
		rootCommandDebugMessageConstant,
		zap.Strings(logFieldArgumentsConstant, arguments),
	)

	return command.Help()
}

func (application *Application) flushLogger() error {
	if application.logger == nil {
		return nil
	}

	syncError := application.logger.Sync()
	switch {
	case syncError == nil:
		return nil
	case errors.Is(syncError, syscall.ENOTSUP):
		return nil
	case errors.Is(syncError, syscall.EINVAL):
		return nil
	case errors.Is(syncError, syscall.ENOTTY):
		return nil
	default:
		return syncError
	}
}

func (application *Application) persistentFlagChanged(command *cobra.Command, flagName string) bool {
	if command == nil {
		return false
	}

	flagSetsToInspect := []*pflag.FlagSet{
		command.PersistentFlags(),
		command.InheritedFlags(),
	}

	rootCommand := command.Root()
	if rootCommand != nil {
		flagSetsToInspect = append(flagSetsToInspect, rootCommand.PersistentFlags())
	}

	for _, flagSet := range flagSetsToInspect {
		if flagSet == nil {
			continue
		}

		if flagSet.Changed(flagName) {
			return true
		}
	}

	return false
}

func resolveVersion() string {
	if len(Version) > 0 {
		return Version
	}
	buildInformation, available := debug.ReadBuildInfo()
	if !available || len(buildInformation.Main.Version) == 0 || buildInformation.Main.Version == buildInfoDevelVersionConstant {
		return developmentVersionConstant
	}
	return buildInformation.Main.Version
}
