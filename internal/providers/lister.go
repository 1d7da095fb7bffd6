package providers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"

	"github.com/hashicorp/go-cleanhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	pageFetchStatusMessageTemplate      = "failed to fetch page %d of %s: unexpected status %d"
	pageFetchCauseMessageTemplate       = "failed to fetch page %d of %s: %v"
	discoverPageCountErrorTemplate      = "failed to discover page count for %s: %w"
	logMessageDiscoveringPagesConstant  = "Discovering page count"
	logMessageFetchingPageConstant      = "Fetching repository page"
	logMessageListingCompleteConstant   = "Listed remote repositories"
	logMessageDuplicatesDroppedConstant = "Provider returned duplicate repositories"
	logFieldDroppedCountConstant        = "dropped_count"
	logFieldEndpointConstant            = "endpoint"
	logFieldProviderConstant            = "provider"
	logFieldPageConstant                = "page"
	logFieldTotalPagesConstant          = "total_pages"
	logFieldRepositoryCountConstant     = "repository_count"
	firstPageNumberConstant             = 1
	successfulStatusLowerBound          = 200
	successfulStatusUpperBound          = 299
)

// PageFetchError reports a page that could not be retrieved. StatusCode is zero for transport failures.
type PageFetchError struct {
	PageNumber int
	Endpoint   string
	StatusCode int
	Cause      error
}

func (fetchError PageFetchError) Error() string {
	if fetchError.Cause != nil {
		return fmt.Sprintf(pageFetchCauseMessageTemplate, fetchError.PageNumber, fetchError.Endpoint, fetchError.Cause)
	}
	return fmt.Sprintf(pageFetchStatusMessageTemplate, fetchError.PageNumber, fetchError.Endpoint, fetchError.StatusCode)
}

func (fetchError PageFetchError) Unwrap() error {
	return fetchError.Cause
}

// Lister enumerates every repository of a remote collection.
type Lister struct {
	httpClient *http.Client
	logger     *zap.Logger
}

// NewLister builds a Lister. A nil client falls back to a pooled cleanhttp client.
func NewLister(httpClient *http.Client, logger *zap.Logger) *Lister {
	if httpClient == nil {
		httpClient = cleanhttp.DefaultPooledClient()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Lister{httpClient: httpClient, logger: logger}
}

// ListRepositories discovers the page count of the collection and fetches every page.
func (lister *Lister) ListRepositories(executionContext context.Context, request ListingRequest) ([]RemoteRepository, error) {
	endpoint, endpointError := BuildEndpoint(request)
	if endpointError != nil {
		return nil, endpointError
	}
	baseParameters := BaseQueryParameters(request.Kind)
	headers := BuildHeaders(request.Kind, request.Token)

	totalPages, discoveryError := lister.DiscoverPageCount(executionContext, request.Kind, endpoint, baseParameters, headers)
	if discoveryError != nil {
		return nil, fmt.Errorf(discoverPageCountErrorTemplate, endpoint, discoveryError)
	}

	repositories, fetchError := lister.FetchAllPages(executionContext, request.Kind, totalPages, endpoint, baseParameters, headers)
	if fetchError != nil {
		return nil, fetchError
	}
	lister.logger.Info(logMessageListingCompleteConstant,
		zap.String(logFieldProviderConstant, string(request.Kind)),
		zap.String(logFieldEndpointConstant, endpoint),
		zap.Int(logFieldTotalPagesConstant, totalPages),
		zap.Int(logFieldRepositoryCountConstant, len(repositories)),
	)
	return repositories, nil
}

// DiscoverPageCount requests the first page and reads the provider's pagination signal.
func (lister *Lister) DiscoverPageCount(executionContext context.Context, kind ProviderKind, endpoint string, baseParameters url.Values, headers http.Header) (int, error) {
	lister.logger.Debug(logMessageDiscoveringPagesConstant,
		zap.String(logFieldProviderConstant, string(kind)),
		zap.String(logFieldEndpointConstant, endpoint),
	)
	response, responseError := lister.get(executionContext, PageRequest{
		Endpoint:        endpoint,
		QueryParameters: baseParameters,
		Headers:         headers,
		PageNumber:      firstPageNumberConstant,
	})
	if responseError != nil {
		return 0, responseError
	}
	defer response.Body.Close()
	_, _ = io.Copy(io.Discard, response.Body)

	return ParsePageCount(kind, response.Header)
}

// FetchAllPages fetches pages 1..totalPages concurrently. The first failure cancels
// the remaining fetches and no partial result is returned.
func (lister *Lister) FetchAllPages(executionContext context.Context, kind ProviderKind, totalPages int, endpoint string, baseParameters url.Values, headers http.Header) ([]RemoteRepository, error) {
	if totalPages <= 0 {
		return []RemoteRepository{}, nil
	}

	pageResults := make([][]RemoteRepository, totalPages)
	group, groupContext := errgroup.WithContext(executionContext)
	for pageNumber := firstPageNumberConstant; pageNumber <= totalPages; pageNumber++ {
		group.Go(func() error {
			repositories, pageError := lister.fetchPage(groupContext, kind, PageRequest{
				Endpoint:        endpoint,
				QueryParameters: baseParameters,
				Headers:         headers,
				PageNumber:      pageNumber,
			})
			if pageError != nil {
				return pageError
			}
			pageResults[pageNumber-firstPageNumberConstant] = repositories
			return nil
		})
	}
	if waitError := group.Wait(); waitError != nil {
		return nil, waitError
	}

	merged, droppedCount := mergePages(pageResults)
	if droppedCount > 0 {
		lister.logger.Warn(logMessageDuplicatesDroppedConstant,
			zap.String(logFieldProviderConstant, string(kind)),
			zap.String(logFieldEndpointConstant, endpoint),
			zap.Int(logFieldDroppedCountConstant, droppedCount),
		)
	}
	return merged, nil
}

func (lister *Lister) fetchPage(executionContext context.Context, kind ProviderKind, pageRequest PageRequest) ([]RemoteRepository, error) {
	lister.logger.Debug(logMessageFetchingPageConstant,
		zap.String(logFieldProviderConstant, string(kind)),
		zap.String(logFieldEndpointConstant, pageRequest.Endpoint),
		zap.Int(logFieldPageConstant, pageRequest.PageNumber),
	)
	response, responseError := lister.get(executionContext, pageRequest)
	if responseError != nil {
		return nil, responseError
	}
	defer response.Body.Close()

	repositories, decodeError := DecodeRepositories(kind, response.Body)
	if decodeError != nil {
		return nil, PageFetchError{PageNumber: pageRequest.PageNumber, Endpoint: pageRequest.Endpoint, StatusCode: response.StatusCode, Cause: decodeError}
	}
	return repositories, nil
}

// get issues the request and rejects non-2xx responses. Callers own the body on success.
func (lister *Lister) get(executionContext context.Context, pageRequest PageRequest) (*http.Response, error) {
	requestURL, urlError := pageRequest.URL()
	if urlError != nil {
		return nil, PageFetchError{PageNumber: pageRequest.PageNumber, Endpoint: pageRequest.Endpoint, Cause: urlError}
	}
	httpRequest, requestError := http.NewRequestWithContext(executionContext, http.MethodGet, requestURL, nil)
	if requestError != nil {
		return nil, PageFetchError{PageNumber: pageRequest.PageNumber, Endpoint: pageRequest.Endpoint, Cause: requestError}
	}
	for headerName, headerValues := range pageRequest.Headers {
		for _, headerValue := range headerValues {
			httpRequest.Header.Add(headerName, headerValue)
		}
	}

	response, transportError := lister.httpClient.Do(httpRequest)
	if transportError != nil {
		return nil, PageFetchError{PageNumber: pageRequest.PageNumber, Endpoint: pageRequest.Endpoint, Cause: transportError}
	}
	if response.StatusCode < successfulStatusLowerBound || response.StatusCode > successfulStatusUpperBound {
		_, _ = io.Copy(io.Discard, response.Body)
		response.Body.Close()
		return nil, PageFetchError{PageNumber: pageRequest.PageNumber, Endpoint: pageRequest.Endpoint, StatusCode: response.StatusCode}
	}
	return response, nil
}

// mergePages concatenates pages in page order, keeping the first occurrence of every
// FullPath. It also returns how many repeated entries were dropped.
func mergePages(pageResults [][]RemoteRepository) ([]RemoteRepository, int) {
	seenPaths := make(map[string]struct{})
	merged := make([]RemoteRepository, 0)
	droppedCount := 0
	for _, page := range pageResults {
		for _, repository := range page {
			if _, seen := seenPaths[repository.FullPath]; seen {
				droppedCount++
				continue
			}
			seenPaths[repository.FullPath] = struct{}{}
			merged = append(merged, repository)
		}
	}
	return merged, droppedCount
}

// SortRepositoriesByPath orders repositories by FullPath for stable display.
func SortRepositoriesByPath(repositories []RemoteRepository) {
	sort.Slice(repositories, func(leftIndex int, rightIndex int) bool {
		return repositories[leftIndex].FullPath < repositories[rightIndex].FullPath
	})
}
