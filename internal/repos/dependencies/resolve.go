package dependencies

import (
	"io"

	"go.uber.org/zap"

	"github.com/temirov/grgry/internal/execshell"
	"github.com/temirov/grgry/internal/gitrepo"
	"github.com/temirov/grgry/internal/providers"
	"github.com/temirov/grgry/internal/repos/clone"
	"github.com/temirov/grgry/internal/repos/discovery"
	"github.com/temirov/grgry/internal/repos/shared"
	"github.com/temirov/grgry/internal/ui"
)

// ExecutorOptions controls how a default git executor is assembled.
type ExecutorOptions struct {
	Logger        *zap.Logger
	HumanReadable bool
	DryRun        bool
	DryRunOutput  io.Writer
}

// ResolveGitExecutor returns the provided executor or constructs a shell-backed default.
// Dry runs print each command instead of running it.
func ResolveGitExecutor(existing shared.GitExecutor, options ExecutorOptions) (shared.GitExecutor, error) {
	if existing != nil {
		return existing, nil
	}

	var commandRunner execshell.CommandRunner = execshell.NewOSCommandRunner()
	if options.DryRun {
		commandRunner = execshell.NewDryRunCommandRunner(options.DryRunOutput)
	}

	executorOptions := make([]execshell.ExecutorOption, 0, 1)
	if options.HumanReadable {
		executorOptions = append(executorOptions, execshell.WithCommandEventObserver(ui.NewConsoleCommandEventLogger(options.Logger)))
	}

	shellExecutor, creationError := execshell.NewShellExecutor(options.Logger, commandRunner, executorOptions...)
	if creationError != nil {
		return nil, creationError
	}
	return shellExecutor, nil
}

// ResolveGitRepositoryManager returns the provided repository manager or constructs one from the executor.
func ResolveGitRepositoryManager(existing shared.GitRepositoryManager, executor shared.GitExecutor) (shared.GitRepositoryManager, error) {
	if existing != nil {
		return existing, nil
	}
	return gitrepo.NewRepositoryManager(executor)
}

// ResolveRepositoryLocator returns the provided locator or a filesystem-backed default.
func ResolveRepositoryLocator(existing shared.RepositoryLocator, logger *zap.Logger, workerCount int) shared.RepositoryLocator {
	if existing != nil {
		return existing
	}
	return discovery.NewLocator(nil, logger, workerCount)
}

// ResolveRepositoryLister returns the provided lister or an HTTP-backed default.
func ResolveRepositoryLister(existing clone.RepositoryLister, logger *zap.Logger) clone.RepositoryLister {
	if existing != nil {
		return existing
	}
	return providers.NewLister(nil, logger)
}

// ResolveReporter returns the provided reporter or a console reporter on output.
func ResolveReporter(existing shared.Reporter, output io.Writer, styled bool) shared.Reporter {
	if existing != nil {
		return existing
	}
	return ui.NewConsoleReporter(output, styled)
}
