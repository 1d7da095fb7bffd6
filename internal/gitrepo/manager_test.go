package gitrepo_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/grgry/internal/execshell"
	"github.com/temirov/grgry/internal/gitrepo"
)

const (
	testRepositoryPathConstant = "/workspace/team/api"
	testBranchNameConstant     = "feature/login"
)

type scriptedGitExecutor struct {
	outputs          map[string]string
	failures         map[string]error
	recordedCommands [][]string
}

func (executor *scriptedGitExecutor) ExecuteGit(_ context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.recordedCommands = append(executor.recordedCommands, append([]string{}, details.Arguments...))
	subcommand := ""
	if len(details.Arguments) > 2 {
		subcommand = details.Arguments[2]
	}
	if failure, failureConfigured := executor.failures[subcommand]; failureConfigured {
		return execshell.ExecutionResult{}, failure
	}
	return execshell.ExecutionResult{StandardOutput: executor.outputs[subcommand]}, nil
}

func TestNewRepositoryManagerRequiresExecutor(testInstance *testing.T) {
	manager, creationError := gitrepo.NewRepositoryManager(nil)
	require.Nil(testInstance, manager)
	require.ErrorIs(testInstance, creationError, gitrepo.ErrGitExecutorNotConfigured)
}

func TestRepositoryManagerPrefixesRepositoryDirectory(testInstance *testing.T) {
	testCases := []struct {
		name              string
		invoke            func(manager *gitrepo.RepositoryManager) error
		expectedArguments []string
	}{
		{
			name: "checkout",
			invoke: func(manager *gitrepo.RepositoryManager) error {
				return manager.CheckoutBranch(context.Background(), testRepositoryPathConstant, testBranchNameConstant)
			},
			expectedArguments: []string{"-C", testRepositoryPathConstant, "checkout", testBranchNameConstant},
		},
		{
			name: "pull",
			invoke: func(manager *gitrepo.RepositoryManager) error {
				return manager.Pull(context.Background(), testRepositoryPathConstant)
			},
			expectedArguments: []string{"-C", testRepositoryPathConstant, "pull"},
		},
		{
			name: "stage_all",
			invoke: func(manager *gitrepo.RepositoryManager) error {
				return manager.StageAll(context.Background(), testRepositoryPathConstant)
			},
			expectedArguments: []string{"-C", testRepositoryPathConstant, "add", "."},
		},
		{
			name: "commit",
			invoke: func(manager *gitrepo.RepositoryManager) error {
				return manager.Commit(context.Background(), testRepositoryPathConstant, "fix typo")
			},
			expectedArguments: []string{"-C", testRepositoryPathConstant, "commit", "-m", "fix typo"},
		},
		{
			name: "push_with_upstream",
			invoke: func(manager *gitrepo.RepositoryManager) error {
				return manager.Push(context.Background(), testRepositoryPathConstant, testBranchNameConstant, true)
			},
			expectedArguments: []string{"-C", testRepositoryPathConstant, "push", "origin", testBranchNameConstant, "--set-upstream"},
		},
		{
			name: "push_tracked_branch",
			invoke: func(manager *gitrepo.RepositoryManager) error {
				return manager.Push(context.Background(), testRepositoryPathConstant, testBranchNameConstant, false)
			},
			expectedArguments: []string{"-C", testRepositoryPathConstant, "push", "origin", testBranchNameConstant},
		},
		{
			name: "arbitrary_command",
			invoke: func(manager *gitrepo.RepositoryManager) error {
				_, runError := manager.RunCommand(context.Background(), testRepositoryPathConstant, []string{"fetch", "--all"})
				return runError
			},
			expectedArguments: []string{"-C", testRepositoryPathConstant, "fetch", "--all"},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			executor := &scriptedGitExecutor{}
			manager, creationError := gitrepo.NewRepositoryManager(executor)
			require.NoError(testInstance, creationError)

			require.NoError(testInstance, testCase.invoke(manager))
			require.Equal(testInstance, [][]string{testCase.expectedArguments}, executor.recordedCommands)
		})
	}
}

func TestRepositoryManagerInterpretsQueryOutput(testInstance *testing.T) {
	executor := &scriptedGitExecutor{
		outputs: map[string]string{
			"symbolic-ref": "origin/main\n",
			"ls-remote":    "4f2c1d\trefs/heads/feature/login\n",
			"status":       " M README.md\n",
			"config":       "git@github.com:team/api.git\n",
			"branch":       "feature/login\n",
		},
	}
	manager, creationError := gitrepo.NewRepositoryManager(executor)
	require.NoError(testInstance, creationError)

	headBranch, headError := manager.ResolveRemoteHeadBranch(context.Background(), testRepositoryPathConstant)
	require.NoError(testInstance, headError)
	require.Equal(testInstance, "main", headBranch)

	branchExists, existsError := manager.RemoteBranchExists(context.Background(), testRepositoryPathConstant, testBranchNameConstant)
	require.NoError(testInstance, existsError)
	require.True(testInstance, branchExists)

	hasChanges, statusError := manager.HasUncommittedChanges(context.Background(), testRepositoryPathConstant)
	require.NoError(testInstance, statusError)
	require.True(testInstance, hasChanges)

	remoteURL, remoteError := manager.GetRemoteURL(context.Background(), testRepositoryPathConstant, gitrepo.OriginRemoteNameConstant)
	require.NoError(testInstance, remoteError)
	require.Equal(testInstance, "git@github.com:team/api.git", remoteURL)

	currentBranch, branchError := manager.GetCurrentBranch(context.Background(), testRepositoryPathConstant)
	require.NoError(testInstance, branchError)
	require.Equal(testInstance, testBranchNameConstant, currentBranch)

	require.Equal(testInstance, []string{"-C", testRepositoryPathConstant, "config", "--get", "remote.origin.url"}, executor.recordedCommands[3])
}

func TestRepositoryManagerReportsEmptyQueries(testInstance *testing.T) {
	executor := &scriptedGitExecutor{}
	manager, creationError := gitrepo.NewRepositoryManager(executor)
	require.NoError(testInstance, creationError)

	branchExists, existsError := manager.RemoteBranchExists(context.Background(), testRepositoryPathConstant, testBranchNameConstant)
	require.NoError(testInstance, existsError)
	require.False(testInstance, branchExists)

	hasChanges, statusError := manager.HasUncommittedChanges(context.Background(), testRepositoryPathConstant)
	require.NoError(testInstance, statusError)
	require.False(testInstance, hasChanges)
}

func TestRepositoryManagerWrapsFailuresWithRepositoryPath(testInstance *testing.T) {
	symbolicRefFailure := errors.New("not a symbolic ref")
	executor := &scriptedGitExecutor{failures: map[string]error{"symbolic-ref": symbolicRefFailure}}
	manager, creationError := gitrepo.NewRepositoryManager(executor)
	require.NoError(testInstance, creationError)

	_, headError := manager.ResolveRemoteHeadBranch(context.Background(), testRepositoryPathConstant)
	require.ErrorIs(testInstance, headError, symbolicRefFailure)
	require.Contains(testInstance, headError.Error(), testRepositoryPathConstant)

	require.ErrorIs(testInstance, manager.Pull(context.Background(), " "), gitrepo.ErrRepositoryPathRequired)
	require.ErrorIs(testInstance, manager.CheckoutBranch(context.Background(), testRepositoryPathConstant, ""), gitrepo.ErrBranchNameRequired)
}

func TestBuildCloneArgumentsPlacesBranchAfterSubcommand(testInstance *testing.T) {
	testCases := []struct {
		name              string
		branchName        string
		expectedArguments []string
	}{
		{
			name:              "explicit_branch",
			branchName:        "develop",
			expectedArguments: []string{"clone", "-b", "develop", "https://example.com/team/api.git", "/srv/team/api"},
		},
		{
			name:              "default_branch",
			branchName:        "",
			expectedArguments: []string{"clone", "https://example.com/team/api.git", "/srv/team/api"},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			arguments := gitrepo.BuildCloneArguments(testCase.branchName, "https://example.com/team/api.git", "/srv/team/api")
			require.Equal(testInstance, testCase.expectedArguments, arguments)
		})
	}
}
