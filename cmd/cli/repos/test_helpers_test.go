package repos_test

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/temirov/grgry/internal/profiles"
	"github.com/temirov/grgry/internal/prompt"
	"github.com/temirov/grgry/internal/providers"
)

const (
	testProfilesFilePathConstant = "/config/grgry/profiles.yaml"
	testProfilesDocumentConstant = `profiles:
  work:
    active: true
    pull_option: https
    username: Ada Operator
    email: ada@example.com
    base_address: https://api.github.com
    provider: github
    token: secret
    target_base_path: /srv/code
  personal:
    active: false
    pull_option: ssh
    username: ada
    email: ada@home.example
    base_address: https://gitlab.com
    provider: gitlab
    target_base_path: /srv/home
`
	testInactiveProfilesDocumentConstant = `profiles:
  work:
    active: false
    pull_option: https
    base_address: https://api.github.com
    provider: github
    target_base_path: /srv/code
`
)

func newProfileStoreProvider(testingInstance require.TestingT, document string) func() (*profiles.Store, error) {
	fileSystem := afero.NewMemMapFs()
	require.NoError(testingInstance, afero.WriteFile(fileSystem, testProfilesFilePathConstant, []byte(document), 0o600))
	return func() (*profiles.Store, error) {
		return profiles.LoadStoreFromFs(fileSystem, testProfilesFilePathConstant)
	}
}

type recordingRepositoryManager struct {
	mutex          sync.Mutex
	calls          []string
	dirty          map[string]bool
	remoteURL      string
	currentBranch  string
	headBranch     string
	commandOutput  string
	remoteBranches map[string]bool
}

func (manager *recordingRepositoryManager) record(format string, arguments ...any) {
	manager.mutex.Lock()
	defer manager.mutex.Unlock()
	manager.calls = append(manager.calls, fmt.Sprintf(format, arguments...))
}

func (manager *recordingRepositoryManager) recorded() []string {
	manager.mutex.Lock()
	defer manager.mutex.Unlock()
	return append([]string{}, manager.calls...)
}

func (manager *recordingRepositoryManager) Clone(_ context.Context, cloneArguments []string) error {
	manager.record("clone-command %s", strings.Join(cloneArguments, " "))
	return nil
}

func (manager *recordingRepositoryManager) ResolveRemoteHeadBranch(_ context.Context, repositoryPath string) (string, error) {
	return manager.headBranch, nil
}

func (manager *recordingRepositoryManager) RemoteBranchExists(_ context.Context, repositoryPath string, branchName string) (bool, error) {
	return manager.remoteBranches[branchName], nil
}

func (manager *recordingRepositoryManager) CheckoutBranch(_ context.Context, repositoryPath string, branchName string) error {
	manager.record("checkout %s %s", repositoryPath, branchName)
	return nil
}

func (manager *recordingRepositoryManager) Pull(_ context.Context, repositoryPath string) error {
	manager.record("pull %s", repositoryPath)
	return nil
}

func (manager *recordingRepositoryManager) HasUncommittedChanges(_ context.Context, repositoryPath string) (bool, error) {
	return manager.dirty[repositoryPath], nil
}

func (manager *recordingRepositoryManager) GetRemoteURL(context.Context, string, string) (string, error) {
	return manager.remoteURL, nil
}

func (manager *recordingRepositoryManager) GetCurrentBranch(context.Context, string) (string, error) {
	return manager.currentBranch, nil
}

func (manager *recordingRepositoryManager) SetIdentity(_ context.Context, repositoryPath string, userName string, userEmail string) error {
	manager.record("identity %s %s <%s>", repositoryPath, userName, userEmail)
	return nil
}

func (manager *recordingRepositoryManager) StageAll(_ context.Context, repositoryPath string) error {
	manager.record("stage %s", repositoryPath)
	return nil
}

func (manager *recordingRepositoryManager) Commit(_ context.Context, repositoryPath string, message string) error {
	manager.record("commit %s %s", repositoryPath, message)
	return nil
}

func (manager *recordingRepositoryManager) Push(_ context.Context, repositoryPath string, branchName string, setUpstream bool) error {
	manager.record("push %s %s upstream=%t", repositoryPath, branchName, setUpstream)
	return nil
}

func (manager *recordingRepositoryManager) Diff(context.Context, string) (string, error) {
	return "", nil
}

func (manager *recordingRepositoryManager) RunCommand(_ context.Context, repositoryPath string, arguments []string) (string, error) {
	manager.record("run %s %s", repositoryPath, strings.Join(arguments, " "))
	return manager.commandOutput, nil
}

type staticLister struct {
	repositories []providers.RemoteRepository
	requests     []providers.ListingRequest
}

func (lister *staticLister) ListRepositories(_ context.Context, request providers.ListingRequest) ([]providers.RemoteRepository, error) {
	lister.requests = append(lister.requests, request)
	return append([]providers.RemoteRepository{}, lister.repositories...), nil
}

type locateCall struct {
	rootDirectory string
	pattern       string
	reverse       bool
}

type staticLocator struct {
	repositories []string
	calls        []locateCall
}

func (locator *staticLocator) Locate(rootDirectory string, pattern string, reverse bool) ([]string, error) {
	locator.calls = append(locator.calls, locateCall{rootDirectory: rootDirectory, pattern: pattern, reverse: reverse})
	return append([]string{}, locator.repositories...), nil
}

type scriptedPrompter struct {
	answers []string
	asked   []string
}

func (prompter *scriptedPrompter) next(message string) (string, error) {
	prompter.asked = append(prompter.asked, message)
	if len(prompter.answers) == 0 {
		return "", prompt.ErrPromptCancelled
	}
	answer := prompter.answers[0]
	prompter.answers = prompter.answers[1:]
	return answer, nil
}

func (prompter *scriptedPrompter) Choose(message string, _ []string) (string, error) {
	return prompter.next(message)
}

func (prompter *scriptedPrompter) Select(message string, _ []string) (int, error) {
	answer, answerError := prompter.next(message)
	if answerError != nil {
		return 0, answerError
	}
	var index int
	_, scanError := fmt.Sscanf(answer, "%d", &index)
	return index, scanError
}

func (prompter *scriptedPrompter) Input(message string, defaultValue string) (string, error) {
	answer, answerError := prompter.next(message)
	if answerError != nil {
		return "", answerError
	}
	if len(answer) == 0 {
		return defaultValue, nil
	}
	return answer, nil
}
