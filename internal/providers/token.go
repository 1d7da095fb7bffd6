package providers

import (
	"os"
	"strings"
)

// Environment variables consulted when a profile carries no token.
const (
	EnvGitHubCLIToken = "GH_TOKEN"
	EnvGitHubToken    = "GITHUB_TOKEN"
	EnvGitLabToken    = "GITLAB_TOKEN"
	EnvGitLabCIToken  = "CI_JOB_TOKEN"
)

var tokenPreference = map[ProviderKind][]string{
	ProviderKindGitHub: {EnvGitHubCLIToken, EnvGitHubToken},
	ProviderKindGitLab: {EnvGitLabToken, EnvGitLabCIToken},
}

// ResolveToken returns the configured token when present. Otherwise it returns the first
// non-empty token variable for the provider, checking environment before the process environment.
// An empty result limits listing to public repositories.
func ResolveToken(kind ProviderKind, configuredToken string, environment map[string]string) string {
	if trimmedToken := strings.TrimSpace(configuredToken); len(trimmedToken) > 0 {
		return trimmedToken
	}
	for _, key := range tokenPreference[kind] {
		if value, found := lookupToken(environment, key); found {
			return value
		}
	}
	for _, key := range tokenPreference[kind] {
		if value, found := lookupToken(nil, key); found {
			return value
		}
	}
	return ""
}

func lookupToken(environment map[string]string, key string) (string, bool) {
	var value string
	if environment == nil {
		value = os.Getenv(key)
	} else {
		value = environment[key]
	}
	value = strings.TrimSpace(value)
	return value, len(value) > 0
}
