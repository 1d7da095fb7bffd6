package gitrepo

import (
	"fmt"
	"strings"
)

const (
	sshProtocolPrefixConstant           = "ssh://"
	httpsProtocolPrefixConstant         = "https://"
	httpProtocolPrefixConstant          = "http://"
	sshUserDelimiterConstant            = "@"
	sshPathDelimiterConstant            = ":"
	portDelimiterConstant               = ":"
	pathSeparatorConstant               = "/"
	gitSuffixConstant                   = ".git"
	remoteURLParseErrorTemplateConstant = "%s: %s"
	invalidRemoteURLMessageConstant     = "invalid remote url"
	minimumPathSegmentsConstant         = 2
)

// RemoteProtocol enumerates transport schemes found in remote URLs.
type RemoteProtocol string

// Supported remote protocols.
const (
	RemoteProtocolSSH   RemoteProtocol = RemoteProtocol("ssh")
	RemoteProtocolHTTPS RemoteProtocol = RemoteProtocol("https")
	RemoteProtocolHTTP  RemoteProtocol = RemoteProtocol("http")
)

// RemoteURL is a parsed git remote. Owner keeps every namespace segment, so
// GitLab subgroups appear as "group/subgroup".
type RemoteURL struct {
	Protocol   RemoteProtocol
	Host       string
	Owner      string
	Repository string
}

// FullPath joins owner and repository.
func (remote RemoteURL) FullPath() string {
	return remote.Owner + pathSeparatorConstant + remote.Repository
}

// RemoteURLParseError indicates a remote string could not be parsed.
type RemoteURLParseError struct {
	Input   string
	Message string
}

// Error describes the parse failure.
func (parseError RemoteURLParseError) Error() string {
	return fmt.Sprintf(remoteURLParseErrorTemplateConstant, parseError.Input, parseError.Message)
}

// ParseRemoteURL converts ssh (scp-like or ssh://) and http(s) remotes into a RemoteURL.
func ParseRemoteURL(remote string) (RemoteURL, error) {
	trimmedRemote := strings.TrimSpace(remote)
	if len(trimmedRemote) == 0 {
		return RemoteURL{}, RemoteURLParseError{Input: remote, Message: requiredValueMessageConstant}
	}

	switch {
	case strings.HasPrefix(trimmedRemote, sshProtocolPrefixConstant):
		return parseSchemeRemote(remote, RemoteProtocolSSH, strings.TrimPrefix(trimmedRemote, sshProtocolPrefixConstant))
	case strings.HasPrefix(trimmedRemote, httpsProtocolPrefixConstant):
		return parseSchemeRemote(remote, RemoteProtocolHTTPS, strings.TrimPrefix(trimmedRemote, httpsProtocolPrefixConstant))
	case strings.HasPrefix(trimmedRemote, httpProtocolPrefixConstant):
		return parseSchemeRemote(remote, RemoteProtocolHTTP, strings.TrimPrefix(trimmedRemote, httpProtocolPrefixConstant))
	case strings.Contains(trimmedRemote, sshUserDelimiterConstant) && strings.Contains(trimmedRemote, sshPathDelimiterConstant):
		return parseScpLikeRemote(remote, trimmedRemote)
	default:
		return RemoteURL{}, RemoteURLParseError{Input: remote, Message: invalidRemoteURLMessageConstant}
	}
}

// parseSchemeRemote handles "[user@]host[:port]/owner/.../repository[.git]".
func parseSchemeRemote(originalInput string, protocol RemoteProtocol, remainder string) (RemoteURL, error) {
	authorityAndPath := strings.SplitN(remainder, pathSeparatorConstant, 2)
	if len(authorityAndPath) != 2 {
		return RemoteURL{}, RemoteURLParseError{Input: originalInput, Message: invalidRemoteURLMessageConstant}
	}

	authority := authorityAndPath[0]
	if userIndex := strings.LastIndex(authority, sshUserDelimiterConstant); userIndex >= 0 {
		authority = authority[userIndex+1:]
	}
	host := authority
	if portIndex := strings.Index(host, portDelimiterConstant); portIndex >= 0 {
		host = host[:portIndex]
	}

	return buildRemoteURL(originalInput, protocol, host, authorityAndPath[1])
}

// parseScpLikeRemote handles "user@host:owner/.../repository[.git]".
func parseScpLikeRemote(originalInput string, remote string) (RemoteURL, error) {
	userSplitIndex := strings.Index(remote, sshUserDelimiterConstant)
	hostAndPath := remote[userSplitIndex+1:]
	pathSplitIndex := strings.Index(hostAndPath, sshPathDelimiterConstant)
	if pathSplitIndex <= 0 {
		return RemoteURL{}, RemoteURLParseError{Input: originalInput, Message: invalidRemoteURLMessageConstant}
	}
	return buildRemoteURL(originalInput, RemoteProtocolSSH, hostAndPath[:pathSplitIndex], hostAndPath[pathSplitIndex+1:])
}

func buildRemoteURL(originalInput string, protocol RemoteProtocol, host string, path string) (RemoteURL, error) {
	trimmedHost := strings.TrimSpace(host)
	segments := strings.Split(strings.Trim(path, pathSeparatorConstant), pathSeparatorConstant)
	if len(trimmedHost) == 0 || len(segments) < minimumPathSegmentsConstant {
		return RemoteURL{}, RemoteURLParseError{Input: originalInput, Message: invalidRemoteURLMessageConstant}
	}

	repository := strings.TrimSuffix(segments[len(segments)-1], gitSuffixConstant)
	owner := strings.Join(segments[:len(segments)-1], pathSeparatorConstant)
	if len(repository) == 0 || len(owner) == 0 {
		return RemoteURL{}, RemoteURLParseError{Input: originalInput, Message: invalidRemoteURLMessageConstant}
	}

	return RemoteURL{Protocol: protocol, Host: strings.ToLower(trimmedHost), Owner: owner, Repository: repository}, nil
}
