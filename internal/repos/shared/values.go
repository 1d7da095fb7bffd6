package shared

import (
	"errors"
	"strings"
)

const (
	branchNameEmptyMessageConstant       = "branch name must not be empty"
	branchNameWhitespaceMessageConstant  = "branch name must not contain whitespace"
	branchNameLeadingDashMessageConstant = "branch name must not start with a dash"
	whitespaceCharactersConstant         = " \t\r\n"
	leadingDashConstant                  = "-"
)

var (
	// ErrBranchNameEmpty indicates a blank branch name.
	ErrBranchNameEmpty = errors.New(branchNameEmptyMessageConstant)
	// ErrBranchNameWhitespace indicates a branch name git would split or reject.
	ErrBranchNameWhitespace = errors.New(branchNameWhitespaceMessageConstant)
	// ErrBranchNameLeadingDash indicates a branch name git would read as an option.
	ErrBranchNameLeadingDash = errors.New(branchNameLeadingDashMessageConstant)
)

// BranchName is a branch that is safe to pass to git clone -b, ls-remote and checkout
// as a positional argument.
type BranchName string

// NewBranchName validates a branch name.
func NewBranchName(raw string) (BranchName, error) {
	trimmed := strings.TrimSpace(raw)
	if len(trimmed) == 0 {
		return "", ErrBranchNameEmpty
	}
	if strings.ContainsAny(trimmed, whitespaceCharactersConstant) {
		return "", ErrBranchNameWhitespace
	}
	if strings.HasPrefix(trimmed, leadingDashConstant) {
		return "", ErrBranchNameLeadingDash
	}
	return BranchName(trimmed), nil
}

// String returns the branch name.
func (branch BranchName) String() string {
	return string(branch)
}
