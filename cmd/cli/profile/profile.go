package profile

import (
	"errors"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/grgry/internal/profiles"
	"github.com/temirov/grgry/internal/prompt"
	"github.com/temirov/grgry/internal/repos/dependencies"
	"github.com/temirov/grgry/internal/repos/shared"
	"github.com/temirov/grgry/internal/ui"
)

const (
	groupUseConstant                         = "profile"
	groupShortDescription                    = "Manage grgry profiles for providers like GitHub and GitLab"
	groupLongDescription                     = "profile groups the commands that maintain the provider profiles clone and quick rely on. Exactly one profile is active at a time."
	profileStoreNotConfiguredMessageConstant = "profile store not configured"
	noProfilesMessageConstant                = "no profiles configured; run \"grgry profile add\" first"
	logMessageProfilesSaved                  = "Saved profiles"
	logFieldProfileConstant                  = "profile"
	logFieldFileConstant                     = "file"
)

var (
	// ErrProfileStoreNotConfigured indicates a builder without a store provider.
	ErrProfileStoreNotConfigured = errors.New(profileStoreNotConfiguredMessageConstant)
	// ErrNoProfiles indicates a selection over an empty store.
	ErrNoProfiles = errors.New(noProfilesMessageConstant)
)

// Prompter collects profile answers, including secrets that must not echo.
type Prompter interface {
	shared.Prompter
	Secret(message string) (string, error)
}

// LoggerProvider yields a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// ProfileStoreProvider loads the profile store.
type ProfileStoreProvider func() (*profiles.Store, error)

// PrompterFactory creates prompters scoped to a Cobra command.
type PrompterFactory func(*cobra.Command) Prompter

// CommandBuilder assembles the profile command group.
type CommandBuilder struct {
	LoggerProvider       LoggerProvider
	ProfileStoreProvider ProfileStoreProvider
	PrompterFactory      PrompterFactory
	Reporter             shared.Reporter
}

// Build constructs the profile command hierarchy.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   groupUseConstant,
		Short: groupShortDescription,
		Long:  groupLongDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
	}

	command.AddCommand(builder.buildActivateCommand())
	command.AddCommand(builder.buildAddCommand())
	command.AddCommand(builder.buildDeleteCommand())
	command.AddCommand(builder.buildShowCommand())
	return command, nil
}

func (builder *CommandBuilder) loadStore() (*profiles.Store, error) {
	if builder.ProfileStoreProvider == nil {
		return nil, ErrProfileStoreNotConfigured
	}
	return builder.ProfileStoreProvider()
}

func (builder *CommandBuilder) saveStore(store *profiles.Store, profileName string) error {
	if saveError := store.Save(); saveError != nil {
		return saveError
	}
	builder.logger().Info(logMessageProfilesSaved,
		zap.String(logFieldProfileConstant, profileName),
		zap.String(logFieldFileConstant, store.FilePath()),
	)
	return nil
}

func (builder *CommandBuilder) logger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	if logger := builder.LoggerProvider(); logger != nil {
		return logger
	}
	return zap.NewNop()
}

// resolvePrompter returns the factory's prompter or one bound to the command's streams.
func (builder *CommandBuilder) resolvePrompter(command *cobra.Command) (Prompter, func()) {
	if builder.PrompterFactory != nil {
		if prompter := builder.PrompterFactory(command); prompter != nil {
			return prompter, func() {}
		}
	}

	input := command.InOrStdin()
	output := command.OutOrStdout()
	inputFile, inputIsFile := input.(*os.File)
	outputFile, outputIsFile := output.(*os.File)

	var prompter *prompt.Prompter
	if inputIsFile && outputIsFile {
		prompter = prompt.NewForTerminal(inputFile, outputFile)
	} else {
		prompter = prompt.New(prompt.NewIOLineReader(input, output), output)
	}
	return prompter, func() { _ = prompter.Close() }
}

func (builder *CommandBuilder) resolveReporter(command *cobra.Command) shared.Reporter {
	output := command.OutOrStdout()
	return dependencies.ResolveReporter(builder.Reporter, output, colorEnabled(output))
}

func colorEnabled(output io.Writer) bool {
	outputFile, isFile := output.(*os.File)
	if !isFile {
		return false
	}
	return ui.ColorEnabled(outputFile)
}

func selectProfileName(prompter Prompter, store *profiles.Store, message string) (string, error) {
	names := store.Names()
	if len(names) == 0 {
		return "", ErrNoProfiles
	}
	selectedIndex, selectError := prompter.Select(message, names)
	if selectError != nil {
		return "", selectError
	}
	return names[selectedIndex], nil
}
