package providers

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const (
	pageParameterConstant                = "page"
	perPageParameterConstant             = "per_page"
	repositoriesPerPageConstant          = 100
	includeSubgroupsParameterConstant    = "include_subgroups"
	simpleParameterConstant              = "simple"
	trueParameterValueConstant           = "true"
	authorizationHeaderConstant          = "Authorization"
	privateTokenHeaderConstant           = "Private-Token"
	userAgentHeaderConstant              = "User-Agent"
	userAgentValueConstant               = "grgry"
	bearerSchemePrefixConstant           = "Bearer "
	gitHubOrganizationEndpointTemplate   = "%s/orgs/%s/repos"
	gitHubUserEndpointTemplate           = "%s/users/%s/repos"
	gitHubAuthenticatedEndpointTemplate  = "%s/user/repos"
	gitLabGroupEndpointTemplate          = "%s/api/v4/groups/%s/projects"
	gitLabUserEndpointTemplate           = "%s/api/v4/users/%s/projects"
	gitLabNamespaceSeparatorConstant     = "/"
	gitLabEscapedNamespaceSeparator      = "%2F"
	collectionRequiredMessageConstant    = "collection name must not be empty"
	baseAddressRequiredMessageConstant   = "base address must not be empty"
	baseAddressTrailingSeparatorConstant = "/"
)

// ListingRequest describes one collection to enumerate.
type ListingRequest struct {
	Kind        ProviderKind
	BaseAddress string
	Collection  string
	IsUser      bool
	Username    string
	Token       string
}

// PageRequest is a single page fetch against a provider endpoint.
type PageRequest struct {
	Endpoint        string
	QueryParameters url.Values
	Headers         http.Header
	PageNumber      int
}

// BuildEndpoint returns the collection listing URL for the request.
func BuildEndpoint(request ListingRequest) (string, error) {
	if err := request.Kind.validate(); err != nil {
		return "", err
	}
	baseAddress := strings.TrimRight(strings.TrimSpace(request.BaseAddress), baseAddressTrailingSeparatorConstant)
	if len(baseAddress) == 0 {
		return "", errors.New(baseAddressRequiredMessageConstant)
	}
	collection := strings.TrimSpace(request.Collection)
	if len(collection) == 0 {
		return "", errors.New(collectionRequiredMessageConstant)
	}

	switch request.Kind {
	case ProviderKindGitHub:
		if !request.IsUser {
			return fmt.Sprintf(gitHubOrganizationEndpointTemplate, baseAddress, collection), nil
		}
		if collection == request.Username && len(request.Token) > 0 {
			return fmt.Sprintf(gitHubAuthenticatedEndpointTemplate, baseAddress), nil
		}
		return fmt.Sprintf(gitHubUserEndpointTemplate, baseAddress, collection), nil
	default:
		escapedCollection := strings.ReplaceAll(collection, gitLabNamespaceSeparatorConstant, gitLabEscapedNamespaceSeparator)
		if request.IsUser {
			return fmt.Sprintf(gitLabUserEndpointTemplate, baseAddress, escapedCollection), nil
		}
		return fmt.Sprintf(gitLabGroupEndpointTemplate, baseAddress, escapedCollection), nil
	}
}

// BaseQueryParameters returns the parameters sent with every page of a listing.
func BaseQueryParameters(kind ProviderKind) url.Values {
	parameters := url.Values{}
	parameters.Set(perPageParameterConstant, strconv.Itoa(repositoriesPerPageConstant))
	if kind == ProviderKindGitLab {
		parameters.Set(includeSubgroupsParameterConstant, trueParameterValueConstant)
		parameters.Set(simpleParameterConstant, trueParameterValueConstant)
	}
	return parameters
}

// BuildHeaders returns authentication headers. An empty token yields no headers.
func BuildHeaders(kind ProviderKind, token string) http.Header {
	headers := http.Header{}
	trimmedToken := strings.TrimSpace(token)
	if len(trimmedToken) == 0 {
		return headers
	}
	switch kind {
	case ProviderKindGitLab:
		headers.Set(privateTokenHeaderConstant, trimmedToken)
	default:
		if strings.Contains(trimmedToken, " ") {
			headers.Set(authorizationHeaderConstant, trimmedToken)
		} else {
			headers.Set(authorizationHeaderConstant, bearerSchemePrefixConstant+trimmedToken)
		}
	}
	headers.Set(userAgentHeaderConstant, userAgentValueConstant)
	return headers
}

// URL renders the request with its page number applied.
func (request PageRequest) URL() (string, error) {
	parsedEndpoint, parseError := url.Parse(request.Endpoint)
	if parseError != nil {
		return "", parseError
	}
	parameters := url.Values{}
	for key, values := range parsedEndpoint.Query() {
		parameters[key] = append([]string(nil), values...)
	}
	for key, values := range request.QueryParameters {
		parameters[key] = append([]string(nil), values...)
	}
	parameters.Set(pageParameterConstant, strconv.Itoa(request.PageNumber))
	parsedEndpoint.RawQuery = parameters.Encode()
	return parsedEndpoint.String(), nil
}
