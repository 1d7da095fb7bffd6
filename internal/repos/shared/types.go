package shared

import (
	"context"

	"github.com/temirov/grgry/internal/execshell"
)

// GitExecutor exposes the subset of shell execution used by repository services.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// CloneSyncManager is what the clone workflow needs from git.
type CloneSyncManager interface {
	Clone(executionContext context.Context, cloneArguments []string) error
	ResolveRemoteHeadBranch(executionContext context.Context, repositoryPath string) (string, error)
	RemoteBranchExists(executionContext context.Context, repositoryPath string, branchName string) (bool, error)
	CheckoutBranch(executionContext context.Context, repositoryPath string, branchName string) error
	Pull(executionContext context.Context, repositoryPath string) error
}

// GitRepositoryManager exposes every repository-level git operation the workflows use.
type GitRepositoryManager interface {
	CloneSyncManager
	HasUncommittedChanges(executionContext context.Context, repositoryPath string) (bool, error)
	GetRemoteURL(executionContext context.Context, repositoryPath string, remoteName string) (string, error)
	GetCurrentBranch(executionContext context.Context, repositoryPath string) (string, error)
	SetIdentity(executionContext context.Context, repositoryPath string, userName string, userEmail string) error
	StageAll(executionContext context.Context, repositoryPath string) error
	Commit(executionContext context.Context, repositoryPath string, message string) error
	Push(executionContext context.Context, repositoryPath string, branchName string, setUpstream bool) error
	Diff(executionContext context.Context, repositoryPath string) (string, error)
	RunCommand(executionContext context.Context, repositoryPath string, arguments []string) (string, error)
}

// RepositoryLocator finds local repositories below a root directory.
type RepositoryLocator interface {
	Locate(rootDirectory string, pattern string, reverse bool) ([]string, error)
}

// Prompter collects constrained answers from the operator.
type Prompter interface {
	// Choose repeats the question until one of allowedAnswers is given.
	Choose(message string, allowedAnswers []string) (string, error)
	// Select offers numbered options and returns the chosen index.
	Select(message string, options []string) (int, error)
	// Input reads free text, falling back to defaultValue on an empty answer.
	Input(message string, defaultValue string) (string, error)
}
