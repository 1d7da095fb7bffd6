package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/temirov/grgry/internal/execshell"
)

const (
	requiredValueMessageConstant             = "value required"
	executorNotConfiguredMessageConstant     = "git executor not configured"
	repositoryPathRequiredMessageConstant    = "repository path required"
	branchNameRequiredMessageConstant        = "branch name required"
	gitDirectoryFlagConstant                 = "-C"
	gitSymbolicRefSubcommandConstant         = "symbolic-ref"
	gitOriginHeadReferenceConstant           = "refs/remotes/origin/HEAD"
	gitShortFlagConstant                     = "--short"
	gitLSRemoteSubcommandConstant            = "ls-remote"
	gitHeadsFlagConstant                     = "--heads"
	gitCheckoutSubcommandConstant            = "checkout"
	gitPullSubcommandConstant                = "pull"
	gitCloneSubcommandConstant               = "clone"
	gitStatusSubcommandConstant              = "status"
	gitPorcelainFlagConstant                 = "--porcelain"
	gitConfigSubcommandConstant              = "config"
	gitConfigGetFlagConstant                 = "--get"
	gitRemoteURLKeyTemplateConstant          = "remote.%s.url"
	gitUserNameKeyConstant                   = "user.name"
	gitUserEmailKeyConstant                  = "user.email"
	gitBranchSubcommandConstant              = "branch"
	gitShowCurrentFlagConstant               = "--show-current"
	gitAddSubcommandConstant                 = "add"
	gitAddAllPathspecConstant                = "."
	gitCommitSubcommandConstant              = "commit"
	gitMessageFlagConstant                   = "-m"
	gitPushSubcommandConstant                = "push"
	gitSetUpstreamFlagConstant               = "--set-upstream"
	gitDiffSubcommandConstant                = "diff"
	gitBranchFlagConstant                    = "-b"
	remoteBranchPrefixTemplateConstant       = "%s/"
	repositoryOperationErrorTemplateConstant = "%s: %w"
)

// OriginRemoteNameConstant is the remote every workflow talks to.
const OriginRemoteNameConstant = "origin"

var (
	// ErrGitExecutorNotConfigured indicates the manager was built without an executor.
	ErrGitExecutorNotConfigured = errors.New(executorNotConfiguredMessageConstant)
	// ErrRepositoryPathRequired indicates an empty repository path.
	ErrRepositoryPathRequired = errors.New(repositoryPathRequiredMessageConstant)
	// ErrBranchNameRequired indicates an empty branch name.
	ErrBranchNameRequired = errors.New(branchNameRequiredMessageConstant)
)

// GitCommandExecutor is the subset of execshell.ShellExecutor the manager relies on.
type GitCommandExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// RepositoryManager runs repository-scoped git commands as "git -C <path> ...".
type RepositoryManager struct {
	executor GitCommandExecutor
}

// NewRepositoryManager constructs a RepositoryManager.
func NewRepositoryManager(executor GitCommandExecutor) (*RepositoryManager, error) {
	if executor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	return &RepositoryManager{executor: executor}, nil
}

// BuildCloneArguments assembles "clone [-b branch] <url> <destination>". An empty branch omits -b.
func BuildCloneArguments(branchName string, cloneURL string, destinationPath string) []string {
	arguments := []string{gitCloneSubcommandConstant}
	trimmedBranch := strings.TrimSpace(branchName)
	if len(trimmedBranch) > 0 {
		arguments = append(arguments, gitBranchFlagConstant, trimmedBranch)
	}
	return append(arguments, cloneURL, destinationPath)
}

// BuildPushArguments assembles "push origin <branch>" with --set-upstream only when requested.
func BuildPushArguments(branchName string, setUpstream bool) []string {
	arguments := []string{gitPushSubcommandConstant, OriginRemoteNameConstant, branchName}
	if setUpstream {
		arguments = append(arguments, gitSetUpstreamFlagConstant)
	}
	return arguments
}

// Clone runs git clone with the provided arguments, which must start with "clone".
func (manager *RepositoryManager) Clone(executionContext context.Context, cloneArguments []string) error {
	_, executionError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{Arguments: cloneArguments})
	return executionError
}

// ResolveRemoteHeadBranch returns the branch origin/HEAD points to, without the remote prefix.
func (manager *RepositoryManager) ResolveRemoteHeadBranch(executionContext context.Context, repositoryPath string) (string, error) {
	output, executionError := manager.run(executionContext, repositoryPath, gitSymbolicRefSubcommandConstant, gitOriginHeadReferenceConstant, gitShortFlagConstant)
	if executionError != nil {
		return "", executionError
	}
	branchName := strings.TrimPrefix(strings.TrimSpace(output), fmt.Sprintf(remoteBranchPrefixTemplateConstant, OriginRemoteNameConstant))
	return branchName, nil
}

// RemoteBranchExists reports whether origin advertises the branch.
func (manager *RepositoryManager) RemoteBranchExists(executionContext context.Context, repositoryPath string, branchName string) (bool, error) {
	if len(strings.TrimSpace(branchName)) == 0 {
		return false, ErrBranchNameRequired
	}
	output, executionError := manager.run(executionContext, repositoryPath, gitLSRemoteSubcommandConstant, gitHeadsFlagConstant, OriginRemoteNameConstant, branchName)
	if executionError != nil {
		return false, executionError
	}
	return len(strings.TrimSpace(output)) > 0, nil
}

// CheckoutBranch switches the working tree to the branch.
func (manager *RepositoryManager) CheckoutBranch(executionContext context.Context, repositoryPath string, branchName string) error {
	if len(strings.TrimSpace(branchName)) == 0 {
		return ErrBranchNameRequired
	}
	_, executionError := manager.run(executionContext, repositoryPath, gitCheckoutSubcommandConstant, branchName)
	return executionError
}

// Pull fetches and merges the tracked upstream branch.
func (manager *RepositoryManager) Pull(executionContext context.Context, repositoryPath string) error {
	_, executionError := manager.run(executionContext, repositoryPath, gitPullSubcommandConstant)
	return executionError
}

// HasUncommittedChanges reports whether git status --porcelain lists anything.
func (manager *RepositoryManager) HasUncommittedChanges(executionContext context.Context, repositoryPath string) (bool, error) {
	output, executionError := manager.run(executionContext, repositoryPath, gitStatusSubcommandConstant, gitPorcelainFlagConstant)
	if executionError != nil {
		return false, executionError
	}
	return len(strings.TrimSpace(output)) > 0, nil
}

// GetRemoteURL reads the configured URL of the named remote.
func (manager *RepositoryManager) GetRemoteURL(executionContext context.Context, repositoryPath string, remoteName string) (string, error) {
	output, executionError := manager.run(executionContext, repositoryPath, gitConfigSubcommandConstant, gitConfigGetFlagConstant, fmt.Sprintf(gitRemoteURLKeyTemplateConstant, remoteName))
	if executionError != nil {
		return "", executionError
	}
	return strings.TrimSpace(output), nil
}

// GetCurrentBranch returns the checked out branch; empty when HEAD is detached.
func (manager *RepositoryManager) GetCurrentBranch(executionContext context.Context, repositoryPath string) (string, error) {
	output, executionError := manager.run(executionContext, repositoryPath, gitBranchSubcommandConstant, gitShowCurrentFlagConstant)
	if executionError != nil {
		return "", executionError
	}
	return strings.TrimSpace(output), nil
}

// SetIdentity writes user.name and user.email into the repository configuration.
func (manager *RepositoryManager) SetIdentity(executionContext context.Context, repositoryPath string, userName string, userEmail string) error {
	if _, executionError := manager.run(executionContext, repositoryPath, gitConfigSubcommandConstant, gitUserNameKeyConstant, userName); executionError != nil {
		return executionError
	}
	_, executionError := manager.run(executionContext, repositoryPath, gitConfigSubcommandConstant, gitUserEmailKeyConstant, userEmail)
	return executionError
}

// StageAll stages every change in the working tree.
func (manager *RepositoryManager) StageAll(executionContext context.Context, repositoryPath string) error {
	_, executionError := manager.run(executionContext, repositoryPath, gitAddSubcommandConstant, gitAddAllPathspecConstant)
	return executionError
}

// Commit records staged changes with the message.
func (manager *RepositoryManager) Commit(executionContext context.Context, repositoryPath string, message string) error {
	_, executionError := manager.run(executionContext, repositoryPath, gitCommitSubcommandConstant, gitMessageFlagConstant, message)
	return executionError
}

// Push sends the branch to origin.
func (manager *RepositoryManager) Push(executionContext context.Context, repositoryPath string, branchName string, setUpstream bool) error {
	if len(strings.TrimSpace(branchName)) == 0 {
		return ErrBranchNameRequired
	}
	_, executionError := manager.run(executionContext, repositoryPath, BuildPushArguments(branchName, setUpstream)...)
	return executionError
}

// Diff returns the unstaged diff of the working tree.
func (manager *RepositoryManager) Diff(executionContext context.Context, repositoryPath string) (string, error) {
	return manager.run(executionContext, repositoryPath, gitDiffSubcommandConstant)
}

// RunCommand executes arbitrary git arguments inside the repository and returns standard output.
func (manager *RepositoryManager) RunCommand(executionContext context.Context, repositoryPath string, arguments []string) (string, error) {
	return manager.run(executionContext, repositoryPath, arguments...)
}

func (manager *RepositoryManager) run(executionContext context.Context, repositoryPath string, arguments ...string) (string, error) {
	trimmedPath := strings.TrimSpace(repositoryPath)
	if len(trimmedPath) == 0 {
		return "", ErrRepositoryPathRequired
	}

	commandArguments := append([]string{gitDirectoryFlagConstant, trimmedPath}, arguments...)
	executionResult, executionError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{Arguments: commandArguments})
	if executionError != nil {
		return "", fmt.Errorf(repositoryOperationErrorTemplateConstant, trimmedPath, executionError)
	}
	return executionResult.StandardOutput, nil
}
