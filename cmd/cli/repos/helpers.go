package repos

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
	pathutils "github.com/temirov/grgry/internal/utils/path"
)

const (
	profileStoreNotConfiguredMessageConstant = "profile store not configured"
)

var (
	// ErrProfileStoreNotConfigured indicates a command that needs profiles was built without a store provider.
	ErrProfileStoreNotConfigured = errors.New(profileStoreNotConfiguredMessageConstant)

	targetBasePathExpander = pathutils.NewHomeExpander()
)

// LoggerProvider yields a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// ProfileStoreProvider loads the profile store.
type ProfileStoreProvider func() (*profiles.Store, error)

// WorkerCountProvider yields the configured worker count; zero means hardware parallelism.
type WorkerCountProvider func() int

// PrompterFactory creates prompters scoped to a Cobra command.
type PrompterFactory func(*cobra.Command) shared.Prompter

func resolveLogger(provider LoggerProvider) *zap.Logger {
	if provider == nil {
		return zap.NewNop()
	}
	logger := provider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func resolveHumanReadable(provider func() bool) bool {
	if provider == nil {
		return false
	}
	return provider()
}

func resolveWorkerCount(provider WorkerCountProvider) int {
	if provider == nil {
		return 0
	}
	return provider()
}

func loadProfileStore(provider ProfileStoreProvider) (*profiles.Store, error) {
	if provider == nil {
		return nil, ErrProfileStoreNotConfigured
	}
	return provider()
}

// loadActiveProfile returns the active profile with its target base path expanded.
func loadActiveProfile(provider ProfileStoreProvider) (*profiles.Store, profiles.Profile, error) {
	store, storeError := loadProfileStore(provider)
	if storeError != nil {
		return nil, profiles.Profile{}, storeError
	}
	activeProfile, activeError := store.ActiveProfile()
	if activeError != nil {
		return nil, profiles.Profile{}, activeError
	}
	activeProfile.TargetBasePath = targetBasePathExpander.Expand(activeProfile.TargetBasePath)
	return store, activeProfile, nil
}

// resolvePrompter returns the factory's prompter or one bound to the command's streams.
// The returned function releases the terminal.
func resolvePrompter(factory PrompterFactory, command *cobra.Command) (shared.Prompter, func()) {
	if factory != nil {
		if prompter := factory(command); prompter != nil {
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

func resolveReporter(existing shared.Reporter, command *cobra.Command) shared.Reporter {
	output := command.OutOrStdout()
	return dependencies.ResolveReporter(existing, output, colorEnabled(output))
}

func colorEnabled(output io.Writer) bool {
	outputFile, isFile := output.(*os.File)
	if !isFile {
		return false
	}
	return ui.ColorEnabled(outputFile)
}
