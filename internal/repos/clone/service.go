package clone

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/temirov/grgry/internal/distribution"
	"github.com/temirov/grgry/internal/profiles"
	"github.com/temirov/grgry/internal/providers"
	"github.com/temirov/grgry/internal/repos/shared"
)

const (
	listerNotConfiguredMessageConstant = "clone service requires a repository lister"
	invalidPatternErrorTemplate        = "invalid repository pattern %q: %w"
	listRepositoriesErrorTemplate      = "failed to list repositories of %s: %w"
	removeBaseDirectoryErrorTemplate   = "failed to remove base directory %s: %w"
	cloningHeaderMessageTemplate       = "\nCloning %d repositories from %s\n"
	baseDirectoryCleanedTemplate       = "Base directory %s cleaned successfully.\n"
	baseDirectoryDryRunTemplate        = "Would remove base directory %s\n"
	finishedMessageTemplate            = "\nFinished cloning repositories: %d cloned, %d pulled, %d skipped\n"
	logMessageCloneStarted             = "Synchronizing remote collection"
	logMessageCloneFinished            = "Synchronized remote collection"
	logFieldCollectionConstant         = "collection"
	logFieldProfileConstant            = "profile"
	logFieldListedConstant             = "listed"
	logFieldSelectedConstant           = "selected"
	logFieldClonedConstant             = "cloned"
	logFieldPulledConstant             = "pulled"
	logFieldSkippedConstant            = "skipped"
)

// ErrListerNotConfigured indicates a service built without a repository lister.
var ErrListerNotConfigured = errors.New(listerNotConfiguredMessageConstant)

// RepositoryLister enumerates a remote collection.
type RepositoryLister interface {
	ListRepositories(executionContext context.Context, request providers.ListingRequest) ([]providers.RemoteRepository, error)
}

// Options configures one clone run.
type Options struct {
	Collection  string
	IsUser      bool
	Branch      string
	Pattern     string
	Reverse     bool
	Force       bool
	DryRun      bool
	WorkerCount int
}

// Dependencies wires the collaborators a Service uses.
type Dependencies struct {
	Lister     RepositoryLister
	Manager    shared.CloneSyncManager
	FileSystem afero.Fs
	Reporter   shared.Reporter
	Logger     *zap.Logger
}

// Summary counts what a run did.
type Summary struct {
	Listed                int
	Selected              int
	Cloned                int
	Pulled                int
	SkippedNoHead         int
	SkippedNoRemoteBranch int
}

// Skipped is the number of repositories left untouched.
func (summary Summary) Skipped() int {
	return summary.SkippedNoHead + summary.SkippedNoRemoteBranch
}

// Service lists a remote collection and synchronizes every selected repository.
type Service struct {
	dependencies Dependencies
}

// NewService validates dependencies and fills optional ones.
func NewService(dependencies Dependencies) (*Service, error) {
	if dependencies.Lister == nil {
		return nil, ErrListerNotConfigured
	}
	if dependencies.Manager == nil {
		return nil, ErrManagerNotConfigured
	}
	if dependencies.FileSystem == nil {
		dependencies.FileSystem = FsFactory()
	}
	if dependencies.Reporter == nil {
		dependencies.Reporter = shared.NewWriterReporter(nil)
	}
	if dependencies.Logger == nil {
		dependencies.Logger = zap.NewNop()
	}
	return &Service{dependencies: dependencies}, nil
}

// FilterRepositories keeps repositories whose HTTP or SSH URL matches pattern, inverted by reverse.
func FilterRepositories(repositories []providers.RemoteRepository, pattern string, reverse bool) ([]providers.RemoteRepository, error) {
	compiledPattern, compileError := regexp.Compile(pattern)
	if compileError != nil {
		return nil, fmt.Errorf(invalidPatternErrorTemplate, pattern, compileError)
	}
	selected := make([]providers.RemoteRepository, 0, len(repositories))
	for _, repository := range repositories {
		matches := compiledPattern.MatchString(repository.HTTPURL) || compiledPattern.MatchString(repository.SSHURL)
		if matches != reverse {
			selected = append(selected, repository)
		}
	}
	return selected, nil
}

// Run lists the collection with the profile's credentials and synchronizes the selection
// across options.WorkerCount workers. Per-repository failures are aggregated into the
// returned error after every repository has been attempted.
func (service *Service) Run(executionContext context.Context, profile profiles.Profile, options Options) (Summary, error) {
	summary := Summary{}
	service.dependencies.Logger.Info(logMessageCloneStarted,
		zap.String(logFieldProfileConstant, profile.Name),
		zap.String(logFieldCollectionConstant, options.Collection),
	)

	repositories, listError := service.dependencies.Lister.ListRepositories(executionContext, profile.ListingRequest(options.Collection, options.IsUser))
	if listError != nil {
		return summary, fmt.Errorf(listRepositoriesErrorTemplate, options.Collection, listError)
	}
	summary.Listed = len(repositories)

	selected, filterError := FilterRepositories(repositories, options.Pattern, options.Reverse)
	if filterError != nil {
		return summary, filterError
	}
	providers.SortRepositoriesByPath(selected)
	summary.Selected = len(selected)

	if options.Force {
		if removeError := service.cleanBaseDirectory(profile.TargetBasePath, options.DryRun); removeError != nil {
			return summary, removeError
		}
	}

	synchronizer, synchronizerError := NewSynchronizer(service.dependencies.Manager, service.dependencies.FileSystem, service.dependencies.Reporter, SynchronizerConfiguration{
		PullOption:     profile.PullOption,
		TargetBasePath: profile.TargetBasePath,
		Branch:         options.Branch,
	})
	if synchronizerError != nil {
		return summary, synchronizerError
	}

	service.dependencies.Reporter.Printf(cloningHeaderMessageTemplate, len(selected), profile.BaseAddress)
	results := distribution.Distribute(options.WorkerCount, selected, func(_ int, repository providers.RemoteRepository) (Outcome, distribution.Signal, error) {
		outcome, synchronizeError := synchronizer.Synchronize(executionContext, repository)
		if synchronizeError != nil || outcome == OutcomeSkippedNoHead || outcome == OutcomeSkippedNoRemoteBranch {
			return outcome, distribution.SignalSkip, synchronizeError
		}
		return outcome, distribution.SignalContinue, nil
	})

	for _, result := range results {
		if result.Error != nil {
			continue
		}
		switch result.Value {
		case OutcomeCloned:
			summary.Cloned++
		case OutcomePulled:
			summary.Pulled++
		case OutcomeSkippedNoHead:
			summary.SkippedNoHead++
		case OutcomeSkippedNoRemoteBranch:
			summary.SkippedNoRemoteBranch++
		}
	}

	service.dependencies.Reporter.Successf(finishedMessageTemplate, summary.Cloned, summary.Pulled, summary.Skipped())
	service.dependencies.Logger.Info(logMessageCloneFinished,
		zap.String(logFieldProfileConstant, profile.Name),
		zap.String(logFieldCollectionConstant, options.Collection),
		zap.Int(logFieldListedConstant, summary.Listed),
		zap.Int(logFieldSelectedConstant, summary.Selected),
		zap.Int(logFieldClonedConstant, summary.Cloned),
		zap.Int(logFieldPulledConstant, summary.Pulled),
		zap.Int(logFieldSkippedConstant, summary.Skipped()),
	)
	return summary, results.Errors()
}

func (service *Service) cleanBaseDirectory(targetBasePath string, dryRun bool) error {
	if dryRun {
		service.dependencies.Reporter.Printf(baseDirectoryDryRunTemplate, targetBasePath)
		return nil
	}
	if removeError := service.dependencies.FileSystem.RemoveAll(targetBasePath); removeError != nil {
		return fmt.Errorf(removeBaseDirectoryErrorTemplate, targetBasePath, removeError)
	}
	service.dependencies.Reporter.Successf(baseDirectoryCleanedTemplate, targetBasePath)
	return nil
}
