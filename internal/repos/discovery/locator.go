package discovery

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/temirov/grgry/internal/distribution"
)

const (
	// NoRecursiveSearchPattern limits a search to the root directory itself.
	NoRecursiveSearchPattern = "$^"

	gitMetadataDirectoryNameConstant = ".git"
	invalidPatternErrorTemplate      = "invalid repository pattern %q: %w"
	resolveRootErrorTemplate         = "failed to resolve search root %q: %w"
	rootNotDirectoryErrorTemplate    = "search root %q is not a directory"
	walkErrorTemplate                = "failed to walk %q: %w"
	logMessageSkippingUnreadable     = "Skipping unreadable directory"
	logMessageLocatedRepositories    = "Located repositories"
	logFieldPathConstant             = "path"
	logFieldRootConstant             = "root"
	logFieldPatternConstant          = "pattern"
	logFieldReverseConstant          = "reverse"
	logFieldCandidateCountConstant   = "candidate_count"
	logFieldSelectedCountConstant    = "selected_count"
)

// Locator finds git repositories below a root directory.
type Locator struct {
	fileSystem  afero.Fs
	logger      *zap.Logger
	workerCount int
}

// NewLocator builds a Locator. A nil filesystem falls back to FsFactory.
func NewLocator(fileSystem afero.Fs, logger *zap.Logger, workerCount int) *Locator {
	if fileSystem == nil {
		fileSystem = FsFactory()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Locator{fileSystem: fileSystem, logger: logger, workerCount: workerCount}
}

// Locate returns the sorted absolute paths of every repository below rootDirectory whose
// path matches pattern, or does not match it when reverse is set. A directory holding a
// .git directory is a repository and nothing beneath it is searched.
func (locator *Locator) Locate(rootDirectory string, pattern string, reverse bool) ([]string, error) {
	resolvedRoot, rootError := resolveRoot(rootDirectory)
	if rootError != nil {
		return nil, rootError
	}
	if pattern == NoRecursiveSearchPattern {
		return []string{resolvedRoot}, nil
	}

	compiledPattern, compileError := regexp.Compile(pattern)
	if compileError != nil {
		return nil, fmt.Errorf(invalidPatternErrorTemplate, pattern, compileError)
	}

	rootInfo, statError := locator.fileSystem.Stat(resolvedRoot)
	if statError != nil {
		return nil, fmt.Errorf(resolveRootErrorTemplate, resolvedRoot, statError)
	}
	if !rootInfo.IsDir() {
		return nil, fmt.Errorf(rootNotDirectoryErrorTemplate, resolvedRoot)
	}

	candidates, walkError := locator.collectRepositories(resolvedRoot)
	if walkError != nil {
		return nil, walkError
	}

	selections := distribution.Distribute(locator.workerCount, candidates, func(_ int, candidate string) (bool, distribution.Signal, error) {
		return compiledPattern.MatchString(candidate) != reverse, distribution.SignalContinue, nil
	})
	selected := make([]string, 0, len(selections))
	for _, selection := range selections {
		if selection.Value {
			selected = append(selected, candidates[selection.Index])
		}
	}
	sort.Strings(selected)

	locator.logger.Debug(logMessageLocatedRepositories,
		zap.String(logFieldRootConstant, resolvedRoot),
		zap.String(logFieldPatternConstant, pattern),
		zap.Bool(logFieldReverseConstant, reverse),
		zap.Int(logFieldCandidateCountConstant, len(candidates)),
		zap.Int(logFieldSelectedCountConstant, len(selected)),
	)
	return selected, nil
}

func (locator *Locator) collectRepositories(resolvedRoot string) ([]string, error) {
	candidates := make([]string, 0)
	walkError := afero.Walk(locator.fileSystem, resolvedRoot, func(path string, info os.FileInfo, visitError error) error {
		if visitError != nil {
			if path == resolvedRoot {
				return visitError
			}
			locator.logger.Debug(logMessageSkippingUnreadable, zap.String(logFieldPathConstant, path), zap.Error(visitError))
			if info != nil && info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !info.IsDir() {
			return nil
		}
		if locator.isRepositoryRoot(path) {
			candidates = append(candidates, path)
			return filepath.SkipDir
		}
		return nil
	})
	if walkError != nil && !errors.Is(walkError, filepath.SkipDir) {
		return nil, fmt.Errorf(walkErrorTemplate, resolvedRoot, walkError)
	}
	return candidates, nil
}

func (locator *Locator) isRepositoryRoot(directoryPath string) bool {
	metadataInfo, statError := locator.fileSystem.Stat(filepath.Join(directoryPath, gitMetadataDirectoryNameConstant))
	return statError == nil && metadataInfo.IsDir()
}

func resolveRoot(rootDirectory string) (string, error) {
	trimmedRoot := strings.TrimSpace(rootDirectory)
	if len(trimmedRoot) == 0 {
		workingDirectory, workingDirectoryError := os.Getwd()
		if workingDirectoryError != nil {
			return "", fmt.Errorf(resolveRootErrorTemplate, rootDirectory, workingDirectoryError)
		}
		return workingDirectory, nil
	}
	absoluteRoot, absoluteError := filepath.Abs(trimmedRoot)
	if absoluteError != nil {
		return "", fmt.Errorf(resolveRootErrorTemplate, rootDirectory, absoluteError)
	}
	return absoluteRoot, nil
}
