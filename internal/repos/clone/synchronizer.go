package clone

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/temirov/grgry/internal/gitrepo"
	"github.com/temirov/grgry/internal/profiles"
	"github.com/temirov/grgry/internal/providers"
	"github.com/temirov/grgry/internal/repos/shared"
)

const (
	managerNotConfiguredMessageConstant   = "clone synchronizer requires a git repository manager"
	targetBasePathRequiredMessageConstant = "clone synchronizer requires a target base path"
	inspectDestinationErrorTemplate       = "failed to inspect %s: %w"
	cloneErrorTemplate                    = "failed to clone %s: %w"
	remoteBranchErrorTemplate             = "failed to check remote branch %s of %s: %w"
	checkoutErrorTemplate                 = "failed to check out %s in %s: %w"
	pullErrorTemplate                     = "failed to pull %s: %w"
	clonedMessageTemplate                 = "Repository %s successfully cloned!\n"
	pulledMessageTemplate                 = "Repository %s successfully pulled!\n"
	noHeadMessageTemplate                 = "There is no HEAD branch defined in origin for %s\n"
	noRemoteBranchMessageTemplate         = "Branch %s does not exist in origin for %s, skipping\n"
)

// ErrManagerNotConfigured indicates a synchronizer built without a git manager.
var ErrManagerNotConfigured = errors.New(managerNotConfiguredMessageConstant)

// ErrTargetBasePathRequired indicates a synchronizer built without a destination root.
var ErrTargetBasePathRequired = errors.New(targetBasePathRequiredMessageConstant)

// State describes a remote repository's local presence.
type State int

const (
	// StateNotPresent means nothing exists at the destination.
	StateNotPresent State = iota
	// StatePresentNoBranch means the destination exists and origin/HEAD decides the branch.
	StatePresentNoBranch
	// StatePresentTrackedBranch means the destination exists and the operator named the branch.
	StatePresentTrackedBranch
)

// Outcome is what synchronizing one repository did.
type Outcome int

const (
	// OutcomeCloned means the repository was cloned.
	OutcomeCloned Outcome = iota
	// OutcomePulled means the existing checkout was updated.
	OutcomePulled
	// OutcomeSkippedNoHead means origin has no HEAD branch to follow.
	OutcomeSkippedNoHead
	// OutcomeSkippedNoRemoteBranch means origin does not advertise the branch.
	OutcomeSkippedNoRemoteBranch
)

// String renders the outcome for logs and summaries.
func (outcome Outcome) String() string {
	switch outcome {
	case OutcomeCloned:
		return "cloned"
	case OutcomePulled:
		return "pulled"
	case OutcomeSkippedNoHead:
		return "skipped_no_head"
	default:
		return "skipped_no_remote_branch"
	}
}

// ResolveCloneURL picks the SSH URL for ssh profiles and the HTTP URL otherwise.
func ResolveCloneURL(pullOption profiles.PullOption, repository providers.RemoteRepository) string {
	if pullOption == profiles.PullOptionSSH {
		return repository.SSHURL
	}
	return repository.HTTPURL
}

// DestinationPath is where a remote repository lives below the target base path.
func DestinationPath(targetBasePath string, fullPath string) string {
	return filepath.Join(targetBasePath, filepath.FromSlash(fullPath))
}

// BuildCloneArguments assembles "clone [-b branch] <url> <base>/<fullPath>".
func BuildCloneArguments(branchName string, cloneURL string, targetBasePath string, fullPath string) []string {
	return gitrepo.BuildCloneArguments(branchName, cloneURL, DestinationPath(targetBasePath, fullPath))
}

// SynchronizerConfiguration carries the profile and flag values a synchronizer applies.
type SynchronizerConfiguration struct {
	PullOption     profiles.PullOption
	TargetBasePath string
	Branch         string
}

// Synchronizer clones or updates single repositories. It is safe for concurrent use when
// its manager and reporter are.
type Synchronizer struct {
	manager       shared.CloneSyncManager
	fileSystem    afero.Fs
	reporter      shared.Reporter
	configuration SynchronizerConfiguration
}

// NewSynchronizer validates its collaborators.
func NewSynchronizer(manager shared.CloneSyncManager, fileSystem afero.Fs, reporter shared.Reporter, configuration SynchronizerConfiguration) (*Synchronizer, error) {
	if manager == nil {
		return nil, ErrManagerNotConfigured
	}
	if len(strings.TrimSpace(configuration.TargetBasePath)) == 0 {
		return nil, ErrTargetBasePathRequired
	}
	if fileSystem == nil {
		fileSystem = FsFactory()
	}
	if reporter == nil {
		reporter = shared.NewWriterReporter(nil)
	}
	configuration.Branch = strings.TrimSpace(configuration.Branch)
	return &Synchronizer{manager: manager, fileSystem: fileSystem, reporter: reporter, configuration: configuration}, nil
}

// DetermineState inspects the destination of a remote repository.
func (synchronizer *Synchronizer) DetermineState(repository providers.RemoteRepository) (State, error) {
	destination := DestinationPath(synchronizer.configuration.TargetBasePath, repository.FullPath)
	exists, existsError := afero.Exists(synchronizer.fileSystem, destination)
	if existsError != nil {
		return StateNotPresent, fmt.Errorf(inspectDestinationErrorTemplate, destination, existsError)
	}
	switch {
	case !exists:
		return StateNotPresent, nil
	case len(synchronizer.configuration.Branch) == 0:
		return StatePresentNoBranch, nil
	default:
		return StatePresentTrackedBranch, nil
	}
}

// Synchronize clones a missing repository or pulls an existing one.
func (synchronizer *Synchronizer) Synchronize(executionContext context.Context, repository providers.RemoteRepository) (Outcome, error) {
	cloneURL := ResolveCloneURL(synchronizer.configuration.PullOption, repository)
	destination := DestinationPath(synchronizer.configuration.TargetBasePath, repository.FullPath)

	state, stateError := synchronizer.DetermineState(repository)
	if stateError != nil {
		return OutcomeSkippedNoRemoteBranch, stateError
	}

	if state == StateNotPresent {
		cloneArguments := BuildCloneArguments(synchronizer.configuration.Branch, cloneURL, synchronizer.configuration.TargetBasePath, repository.FullPath)
		if cloneError := synchronizer.manager.Clone(executionContext, cloneArguments); cloneError != nil {
			return OutcomeCloned, fmt.Errorf(cloneErrorTemplate, cloneURL, cloneError)
		}
		synchronizer.reporter.Successf(clonedMessageTemplate, cloneURL)
		return OutcomeCloned, nil
	}

	branchName := synchronizer.configuration.Branch
	if state == StatePresentNoBranch {
		headBranch, headError := synchronizer.manager.ResolveRemoteHeadBranch(executionContext, destination)
		if headError != nil || len(headBranch) == 0 {
			synchronizer.reporter.Warnf(noHeadMessageTemplate, destination)
			return OutcomeSkippedNoHead, nil
		}
		branchName = headBranch
	}

	branchExists, branchError := synchronizer.manager.RemoteBranchExists(executionContext, destination, branchName)
	if branchError != nil {
		return OutcomeSkippedNoRemoteBranch, fmt.Errorf(remoteBranchErrorTemplate, branchName, destination, branchError)
	}
	if !branchExists {
		synchronizer.reporter.Warnf(noRemoteBranchMessageTemplate, branchName, destination)
		return OutcomeSkippedNoRemoteBranch, nil
	}

	if checkoutError := synchronizer.manager.CheckoutBranch(executionContext, destination, branchName); checkoutError != nil {
		return OutcomePulled, fmt.Errorf(checkoutErrorTemplate, branchName, destination, checkoutError)
	}
	if pullError := synchronizer.manager.Pull(executionContext, destination); pullError != nil {
		return OutcomePulled, fmt.Errorf(pullErrorTemplate, destination, pullError)
	}
	synchronizer.reporter.Successf(pulledMessageTemplate, cloneURL)
	return OutcomePulled, nil
}
