package providers

import (
	"fmt"
	"strings"
)

const (
	unsupportedProviderMessageTemplateConstant = "unsupported provider %q: expected github or gitlab"
)

// ProviderKind identifies a hosted git provider.
type ProviderKind string

const (
	// ProviderKindGitHub targets the GitHub REST API.
	ProviderKindGitHub ProviderKind = "github"
	// ProviderKindGitLab targets the GitLab v4 REST API.
	ProviderKindGitLab ProviderKind = "gitlab"
)

// SupportedProviderKinds lists every provider the tool can talk to.
func SupportedProviderKinds() []ProviderKind {
	return []ProviderKind{ProviderKindGitHub, ProviderKindGitLab}
}

// UnsupportedProviderError reports a provider name outside the supported set.
type UnsupportedProviderError struct {
	Kind string
}

func (unsupportedError UnsupportedProviderError) Error() string {
	return fmt.Sprintf(unsupportedProviderMessageTemplateConstant, unsupportedError.Kind)
}

// ParseProviderKind maps a case-insensitive provider name onto a ProviderKind.
func ParseProviderKind(raw string) (ProviderKind, error) {
	normalized := ProviderKind(strings.ToLower(strings.TrimSpace(raw)))
	switch normalized {
	case ProviderKindGitHub, ProviderKindGitLab:
		return normalized, nil
	default:
		return "", UnsupportedProviderError{Kind: raw}
	}
}

func (kind ProviderKind) validate() error {
	switch kind {
	case ProviderKindGitHub, ProviderKindGitLab:
		return nil
	default:
		return UnsupportedProviderError{Kind: string(kind)}
	}
}
