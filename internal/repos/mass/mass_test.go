package mass_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/grgry/internal/profiles"
	"github.com/temirov/grgry/internal/prompt"
	"github.com/temirov/grgry/internal/repos/mass"
	"github.com/temirov/grgry/internal/repos/shared"
)

type recordedCall struct {
	operation      string
	repositoryPath string
	arguments      []string
}

type recordingRepositoryManager struct {
	mutex          sync.Mutex
	calls          []recordedCall
	dirty          map[string]bool
	remoteURLs     map[string]string
	currentBranch  string
	remoteBranches map[string]bool
	commandOutput  string
	commandErrors  map[string]error
	commitErrors   map[string]error
}

func newRecordingRepositoryManager() *recordingRepositoryManager {
	return &recordingRepositoryManager{
		dirty:          map[string]bool{},
		remoteURLs:     map[string]string{},
		currentBranch:  "main",
		remoteBranches: map[string]bool{},
		commandErrors:  map[string]error{},
		commitErrors:   map[string]error{},
	}
}

func (manager *recordingRepositoryManager) record(operation string, repositoryPath string, arguments ...string) {
	manager.mutex.Lock()
	defer manager.mutex.Unlock()
	manager.calls = append(manager.calls, recordedCall{operation: operation, repositoryPath: repositoryPath, arguments: arguments})
}

func (manager *recordingRepositoryManager) recorded() []recordedCall {
	manager.mutex.Lock()
	defer manager.mutex.Unlock()
	return append([]recordedCall(nil), manager.calls...)
}

func (manager *recordingRepositoryManager) operationsFor(repositoryPath string) []string {
	operations := make([]string, 0)
	for _, call := range manager.recorded() {
		if call.repositoryPath == repositoryPath {
			operations = append(operations, call.operation)
		}
	}
	return operations
}

func (manager *recordingRepositoryManager) Clone(_ context.Context, cloneArguments []string) error {
	manager.record("clone", "", cloneArguments...)
	return nil
}

func (manager *recordingRepositoryManager) ResolveRemoteHeadBranch(_ context.Context, repositoryPath string) (string, error) {
	manager.record("symbolic-ref", repositoryPath)
	return "main", nil
}

func (manager *recordingRepositoryManager) RemoteBranchExists(_ context.Context, repositoryPath string, branchName string) (bool, error) {
	manager.record("ls-remote", repositoryPath, branchName)
	return manager.remoteBranches[branchName], nil
}

func (manager *recordingRepositoryManager) CheckoutBranch(_ context.Context, repositoryPath string, branchName string) error {
	manager.record("checkout", repositoryPath, branchName)
	return nil
}

func (manager *recordingRepositoryManager) Pull(_ context.Context, repositoryPath string) error {
	manager.record("pull", repositoryPath)
	return nil
}

func (manager *recordingRepositoryManager) HasUncommittedChanges(_ context.Context, repositoryPath string) (bool, error) {
	manager.record("status", repositoryPath)
	return manager.dirty[repositoryPath], nil
}

func (manager *recordingRepositoryManager) GetRemoteURL(_ context.Context, repositoryPath string, remoteName string) (string, error) {
	manager.record("remote-url", repositoryPath, remoteName)
	return manager.remoteURLs[repositoryPath], nil
}

func (manager *recordingRepositoryManager) GetCurrentBranch(_ context.Context, repositoryPath string) (string, error) {
	manager.record("current-branch", repositoryPath)
	return manager.currentBranch, nil
}

func (manager *recordingRepositoryManager) SetIdentity(_ context.Context, repositoryPath string, userName string, userEmail string) error {
	manager.record("identity", repositoryPath, userName, userEmail)
	return nil
}

func (manager *recordingRepositoryManager) StageAll(_ context.Context, repositoryPath string) error {
	manager.record("add", repositoryPath)
	return nil
}

func (manager *recordingRepositoryManager) Commit(_ context.Context, repositoryPath string, message string) error {
	manager.record("commit", repositoryPath, message)
	return manager.commitErrors[repositoryPath]
}

func (manager *recordingRepositoryManager) Push(_ context.Context, repositoryPath string, branchName string, setUpstream bool) error {
	manager.record("push", repositoryPath, branchName, fmt.Sprintf("%t", setUpstream))
	return nil
}

func (manager *recordingRepositoryManager) Diff(_ context.Context, repositoryPath string) (string, error) {
	manager.record("diff", repositoryPath)
	return "diff --git a/README.md b/README.md\n", nil
}

func (manager *recordingRepositoryManager) RunCommand(_ context.Context, repositoryPath string, arguments []string) (string, error) {
	manager.record("run", repositoryPath, arguments...)
	return manager.commandOutput, manager.commandErrors[repositoryPath]
}

type staticLocator struct {
	repositoryPaths []string
	requests        []string
}

func (locator *staticLocator) Locate(rootDirectory string, pattern string, reverse bool) ([]string, error) {
	locator.requests = append(locator.requests, fmt.Sprintf("%s|%s|%t", rootDirectory, pattern, reverse))
	return locator.repositoryPaths, nil
}

type scriptedPrompter struct {
	answers        []string
	selections     []int
	chooseMessages []string
	selectMessages []string
	selectOptions  [][]string
}

func (prompter *scriptedPrompter) Choose(message string, allowedAnswers []string) (string, error) {
	prompter.chooseMessages = append(prompter.chooseMessages, message)
	if len(prompter.answers) == 0 {
		return "", prompt.ErrPromptCancelled
	}
	answer := prompter.answers[0]
	prompter.answers = prompter.answers[1:]
	return answer, nil
}

func (prompter *scriptedPrompter) Select(message string, options []string) (int, error) {
	prompter.selectMessages = append(prompter.selectMessages, message)
	prompter.selectOptions = append(prompter.selectOptions, options)
	if len(prompter.selections) == 0 {
		return 0, prompt.ErrPromptCancelled
	}
	selection := prompter.selections[0]
	prompter.selections = prompter.selections[1:]
	return selection, nil
}

func (prompter *scriptedPrompter) Input(_ string, defaultValue string) (string, error) {
	return defaultValue, nil
}

type bufferReporter struct {
	mutex   sync.Mutex
	builder strings.Builder
}

func (reporter *bufferReporter) Printf(format string, args ...any) {
	reporter.mutex.Lock()
	defer reporter.mutex.Unlock()
	fmt.Fprintf(&reporter.builder, format, args...)
}

func (reporter *bufferReporter) Successf(format string, args ...any) {
	reporter.Printf(format, args...)
}

func (reporter *bufferReporter) Warnf(format string, args ...any) {
	reporter.Printf(format, args...)
}

func (reporter *bufferReporter) String() string {
	reporter.mutex.Lock()
	defer reporter.mutex.Unlock()
	return reporter.builder.String()
}

var _ shared.Reporter = (*bufferReporter)(nil)

type staticProfileSource struct {
	matches map[string][]profiles.Profile
	active  profiles.Profile
}

func (source staticProfileSource) FindProfilesByRemote(remoteURL string) []profiles.Profile {
	return source.matches[remoteURL]
}

func (source staticProfileSource) ActiveProfile() (profiles.Profile, error) {
	if len(source.active.Name) == 0 {
		return profiles.Profile{}, profiles.ErrNoActiveProfile
	}
	return source.active, nil
}

func TestProcessRepositories(testInstance *testing.T) {
	fatalError := errors.New("status failed")
	actionFailure := errors.New("action failed")

	testCases := []struct {
		name             string
		approvals        map[string]error
		rejected         map[string]bool
		failingActions   map[string]bool
		expectedExecuted []string
		expectedError    error
	}{
		{
			name:             "approved_and_rejected",
			rejected:         map[string]bool{"/b": true},
			expectedExecuted: []string{"/a", "/c"},
		},
		{
			name:             "cancellation_stops_quietly",
			approvals:        map[string]error{"/b": prompt.ErrPromptCancelled},
			expectedExecuted: []string{"/a"},
		},
		{
			name:             "approval_error_is_fatal",
			approvals:        map[string]error{"/b": fatalError},
			expectedExecuted: []string{"/a"},
			expectedError:    fatalError,
		},
		{
			name:             "later_action_error_keeps_earlier_work",
			failingActions:   map[string]bool{"/b": true},
			expectedExecuted: []string{"/a", "/b"},
			expectedError:    actionFailure,
		},
		{
			name:             "action_error_ends_the_walk",
			failingActions:   map[string]bool{"/a": true},
			expectedExecuted: []string{"/a"},
			expectedError:    actionFailure,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subtest *testing.T) {
			executed := make([]string, 0)
			processError := mass.ProcessRepositories([]string{"/a", "/b", "/c"},
				func(repositoryPath string) (bool, error) {
					if approvalError := testCase.approvals[repositoryPath]; approvalError != nil {
						return false, approvalError
					}
					return !testCase.rejected[repositoryPath], nil
				},
				func(repositoryPath string) error {
					executed = append(executed, repositoryPath)
					if testCase.failingActions[repositoryPath] {
						return actionFailure
					}
					return nil
				},
			)
			require.Equal(subtest, testCase.expectedExecuted, executed)
			if testCase.expectedError == nil {
				require.NoError(subtest, processError)
				return
			}
			require.ErrorIs(subtest, processError, testCase.expectedError)
		})
	}
}

func TestParseCommand(testInstance *testing.T) {
	testCases := []struct {
		name              string
		commandLine       string
		expectedArguments []string
		expectedError     error
	}{
		{
			name:              "strips_git_word",
			commandLine:       "git  fetch --all ",
			expectedArguments: []string{"fetch", "--all"},
		},
		{
			name:              "bare_command",
			commandLine:       "status",
			expectedArguments: []string{"status"},
		},
		{
			name:              "single_quoted_message",
			commandLine:       "commit -m 'two words'",
			expectedArguments: []string{"commit", "-m", "two words"},
		},
		{
			name:              "double_quoted_message",
			commandLine:       `git commit -m "fix: two words"`,
			expectedArguments: []string{"commit", "-m", "fix: two words"},
		},
		{
			name:          "empty_command",
			commandLine:   " git ",
			expectedError: mass.ErrCommandRequired,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subtest *testing.T) {
			arguments, parseError := mass.ParseCommand(testCase.commandLine)
			if testCase.expectedError != nil {
				require.ErrorIs(subtest, parseError, testCase.expectedError)
				return
			}
			require.NoError(subtest, parseError)
			require.Equal(subtest, testCase.expectedArguments, arguments)
		})
	}
}

func TestParseCommandRejectsMalformedInput(testInstance *testing.T) {
	for _, commandLine := range []string{"commit -m 'unterminated", "status; rm -rf /"} {
		_, parseError := mass.ParseCommand(commandLine)
		require.Error(testInstance, parseError, commandLine)
	}
}

func TestJoinCommandWordsParsesBack(testInstance *testing.T) {
	testCases := []struct {
		name  string
		words []string
	}{
		{name: "plain_words", words: []string{"log", "-1", "--oneline"}},
		{name: "spaced_message", words: []string{"commit", "-m", "two words"}},
		{name: "embedded_single_quote", words: []string{"commit", "-m", "it's done"}},
		{name: "shell_operators", words: []string{"log", "--grep=a|b;c", "--format=$x"}},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subtest *testing.T) {
			arguments, parseError := mass.ParseCommand(mass.JoinCommandWords(testCase.words))
			require.NoError(subtest, parseError)
			require.Equal(subtest, testCase.words, arguments)
		})
	}
}

func TestRunMassInteractive(testInstance *testing.T) {
	manager := newRecordingRepositoryManager()
	manager.commandOutput = "On branch main\n"
	locator := &staticLocator{repositoryPaths: []string{"/code/a", "/code/b", "/code/c"}}
	prompter := &scriptedPrompter{answers: []string{"y", "n", "y"}}
	reporter := &bufferReporter{}

	runError := mass.RunMass(context.Background(), mass.Dependencies{
		Locator:  locator,
		Manager:  manager,
		Prompter: prompter,
		Reporter: reporter,
	}, "status", mass.SearchOptions{RootDirectory: "/code", Pattern: ".*"})
	require.NoError(testInstance, runError)

	require.Equal(testInstance, []string{"/code|.*|false"}, locator.requests)
	require.Equal(testInstance, []string{"run"}, manager.operationsFor("/code/a"))
	require.Empty(testInstance, manager.operationsFor("/code/b"))
	require.Equal(testInstance, []string{"run"}, manager.operationsFor("/code/c"))
	require.Len(testInstance, prompter.chooseMessages, 3)
	require.Equal(testInstance, "Do you want to execute status? (y/n):", prompter.chooseMessages[0])
	require.Contains(testInstance, reporter.String(), "Repository found at: /code/b\n")
	require.Equal(testInstance, 2, strings.Count(reporter.String(), "On branch main\n"))
}

func TestRunMassSkipInteractiveRunsEverywhere(testInstance *testing.T) {
	manager := newRecordingRepositoryManager()
	locator := &staticLocator{repositoryPaths: []string{"/code/a", "/code/b", "/code/c"}}

	runError := mass.RunMass(context.Background(), mass.Dependencies{
		Locator:  locator,
		Manager:  manager,
		Reporter: &bufferReporter{},
	}, "git fetch --prune", mass.SearchOptions{Pattern: ".*", SkipInteractive: true, WorkerCount: 2})
	require.NoError(testInstance, runError)

	runCount := 0
	for _, call := range manager.recorded() {
		require.Equal(testInstance, "run", call.operation)
		require.Equal(testInstance, []string{"fetch", "--prune"}, call.arguments)
		runCount++
	}
	require.Equal(testInstance, 3, runCount)
}

func TestRunMassStopsAfterFailedCommand(testInstance *testing.T) {
	gitFailure := errors.New("exit status 1")
	repositoryPaths := []string{"/code/a", "/code/b", "/code/c"}

	testCases := []struct {
		name            string
		skipInteractive bool
		answers         []string
	}{
		{
			name:            "skip_interactive",
			skipInteractive: true,
		},
		{
			name:    "interactive",
			answers: []string{"y", "y", "y"},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subtest *testing.T) {
			manager := newRecordingRepositoryManager()
			manager.commandErrors["/code/a"] = gitFailure
			prompter := &scriptedPrompter{answers: testCase.answers}

			runError := mass.RunMass(context.Background(), mass.Dependencies{
				Locator:  &staticLocator{repositoryPaths: repositoryPaths},
				Manager:  manager,
				Prompter: prompter,
				Reporter: &bufferReporter{},
			}, "status", mass.SearchOptions{Pattern: ".*", SkipInteractive: testCase.skipInteractive, WorkerCount: 1})
			require.ErrorIs(subtest, runError, gitFailure)
			require.Contains(subtest, runError.Error(), "/code/a")

			require.Equal(subtest, []string{"run"}, manager.operationsFor("/code/a"))
			require.Empty(subtest, manager.operationsFor("/code/b"))
			require.Empty(subtest, manager.operationsFor("/code/c"))
			if !testCase.skipInteractive {
				require.Len(subtest, prompter.chooseMessages, 1)
			}
		})
	}
}

func TestRunMassRequiresPrompterWhenInteractive(testInstance *testing.T) {
	runError := mass.RunMass(context.Background(), mass.Dependencies{
		Locator: &staticLocator{},
		Manager: newRecordingRepositoryManager(),
	}, "status", mass.SearchOptions{Pattern: ".*"})
	require.ErrorIs(testInstance, runError, mass.ErrPrompterNotConfigured)
}

func quickProfile(name string) profiles.Profile {
	return profiles.Profile{Name: name, Username: name + "-user", Email: name + "@example.com"}
}

func TestRunQuickSkipsCleanRepositoriesSilently(testInstance *testing.T) {
	manager := newRecordingRepositoryManager()
	prompter := &scriptedPrompter{}
	reporter := &bufferReporter{}

	runError := mass.RunQuick(context.Background(), mass.Dependencies{
		Locator:  &staticLocator{repositoryPaths: []string{"/code/a", "/code/b"}},
		Manager:  manager,
		Prompter: prompter,
		Reporter: reporter,
	}, staticProfileSource{active: quickProfile("work")}, "wip", mass.SearchOptions{Pattern: "$^"})
	require.NoError(testInstance, runError)

	for _, call := range manager.recorded() {
		require.Equal(testInstance, "status", call.operation)
	}
	require.Empty(testInstance, prompter.chooseMessages)
	require.Empty(testInstance, reporter.String())
}

func TestRunQuickInteractiveCommitsAndPushes(testInstance *testing.T) {
	manager := newRecordingRepositoryManager()
	manager.dirty["/code/a"] = true
	manager.remoteURLs["/code/a"] = "git@gitlab.example.com:team/a.git"
	prompter := &scriptedPrompter{answers: []string{"m", "y"}}
	reporter := &bufferReporter{}
	profileSource := staticProfileSource{
		matches: map[string][]profiles.Profile{"git@gitlab.example.com:team/a.git": {quickProfile("work")}},
		active:  quickProfile("personal"),
	}

	runError := mass.RunQuick(context.Background(), mass.Dependencies{
		Locator:  &staticLocator{repositoryPaths: []string{"/code/a"}},
		Manager:  manager,
		Prompter: prompter,
		Reporter: reporter,
	}, profileSource, "update docs", mass.SearchOptions{Pattern: "$^"})
	require.NoError(testInstance, runError)

	require.Equal(testInstance, []string{
		"status",
		"diff", "remote-url", "current-branch",
		"remote-url", "identity", "add", "commit", "current-branch", "ls-remote", "push",
	}, manager.operationsFor("/code/a"))
	require.Len(testInstance, prompter.chooseMessages, 2)
	require.Empty(testInstance, prompter.selectMessages)

	for _, call := range manager.recorded() {
		switch call.operation {
		case "identity":
			require.Equal(testInstance, []string{"work-user", "work@example.com"}, call.arguments)
		case "commit":
			require.Equal(testInstance, []string{"update docs"}, call.arguments)
		case "push":
			require.Equal(testInstance, []string{"main", "true"}, call.arguments)
		}
	}
	require.Contains(testInstance, reporter.String(), "There are changes in the repository /code/a\n")
	require.Contains(testInstance, reporter.String(), "URL       : git@gitlab.example.com:team/a.git\n")
	require.Contains(testInstance, reporter.String(), "Branch    : main\n")
	require.Contains(testInstance, reporter.String(), "Successfully pushed repo into: git@gitlab.example.com:team/a.git on branch main")
}

func TestRunQuickDeclineLeavesRepositoryUntouched(testInstance *testing.T) {
	manager := newRecordingRepositoryManager()
	manager.dirty["/code/a"] = true

	runError := mass.RunQuick(context.Background(), mass.Dependencies{
		Locator:  &staticLocator{repositoryPaths: []string{"/code/a"}},
		Manager:  manager,
		Prompter: &scriptedPrompter{answers: []string{"n"}},
		Reporter: &bufferReporter{},
	}, staticProfileSource{active: quickProfile("work")}, "wip", mass.SearchOptions{})
	require.NoError(testInstance, runError)
	require.Equal(testInstance, []string{"status"}, manager.operationsFor("/code/a"))
}

func TestRunQuickProfileSelection(testInstance *testing.T) {
	const remoteURL = "https://github.com/acme/a.git"
	twoMatches := map[string][]profiles.Profile{remoteURL: {quickProfile("alpha"), quickProfile("beta")}}

	testCases := []struct {
		name             string
		skipInteractive  bool
		matches          map[string][]profiles.Profile
		answers          []string
		selections       []int
		expectedIdentity []string
		expectedSelects  int
	}{
		{
			name:             "several_matches_prompt",
			matches:          twoMatches,
			answers:          []string{"y"},
			selections:       []int{1},
			expectedIdentity: []string{"beta-user", "beta@example.com"},
			expectedSelects:  1,
		},
		{
			name:             "cancelled_selection_uses_active",
			matches:          twoMatches,
			answers:          []string{"y"},
			expectedIdentity: []string{"active-user", "active@example.com"},
			expectedSelects:  1,
		},
		{
			name:             "no_match_uses_active",
			answers:          []string{"y"},
			expectedIdentity: []string{"active-user", "active@example.com"},
		},
		{
			name:             "several_matches_without_prompting_use_active",
			skipInteractive:  true,
			matches:          twoMatches,
			expectedIdentity: []string{"active-user", "active@example.com"},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subtest *testing.T) {
			manager := newRecordingRepositoryManager()
			manager.dirty["/code/a"] = true
			manager.remoteURLs["/code/a"] = remoteURL
			manager.remoteBranches["main"] = true
			prompter := &scriptedPrompter{answers: testCase.answers, selections: testCase.selections}

			runError := mass.RunQuick(context.Background(), mass.Dependencies{
				Locator:  &staticLocator{repositoryPaths: []string{"/code/a"}},
				Manager:  manager,
				Prompter: prompter,
				Reporter: &bufferReporter{},
			}, staticProfileSource{matches: testCase.matches, active: quickProfile("active")}, "wip", mass.SearchOptions{SkipInteractive: testCase.skipInteractive})
			require.NoError(subtest, runError)
			require.Len(subtest, prompter.selectMessages, testCase.expectedSelects)

			for _, call := range manager.recorded() {
				switch call.operation {
				case "identity":
					require.Equal(subtest, testCase.expectedIdentity, call.arguments)
				case "push":
					require.Equal(subtest, []string{"main", "false"}, call.arguments)
				}
			}
		})
	}
}

func TestRunQuickStopsAfterFailedCommit(testInstance *testing.T) {
	commitFailure := errors.New("nothing to commit")
	manager := newRecordingRepositoryManager()
	for _, repositoryPath := range []string{"/code/a", "/code/b"} {
		manager.dirty[repositoryPath] = true
		manager.remoteURLs[repositoryPath] = "git@github.com:team/repo.git"
	}
	manager.commitErrors["/code/a"] = commitFailure

	runError := mass.RunQuick(context.Background(), mass.Dependencies{
		Locator:  &staticLocator{repositoryPaths: []string{"/code/a", "/code/b"}},
		Manager:  manager,
		Reporter: &bufferReporter{},
	}, staticProfileSource{active: quickProfile("work")}, "wip", mass.SearchOptions{Pattern: ".*", SkipInteractive: true, WorkerCount: 1})
	require.ErrorIs(testInstance, runError, commitFailure)

	require.Equal(testInstance, []string{"status", "remote-url", "identity", "add", "commit"}, manager.operationsFor("/code/a"))
	require.Empty(testInstance, manager.operationsFor("/code/b"))
}

func TestRunQuickRequiresMessage(testInstance *testing.T) {
	runError := mass.RunQuick(context.Background(), mass.Dependencies{}, staticProfileSource{}, "  ", mass.SearchOptions{})
	require.ErrorIs(testInstance, runError, mass.ErrCommitMessageRequired)
}
