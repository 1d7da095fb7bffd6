package providers

import (
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
)

const (
	linkHeaderConstant                    = "Link"
	totalPagesHeaderConstant              = "X-Total-Pages"
	defaultPageCountConstant              = 1
	paginationSignalMessageTemplate       = "%s response did not carry a usable %s header (value %q)"
	negativePageCountMessageTemplate      = "%s reported a negative page count %d"
	linkHeaderPagePatternConstant         = `(?:^|[?&])page=(\d+)`
	linkHeaderPageCaptureGroupConstant    = 1
	linkHeaderPageSubmatchCountConstant   = 2
	linkHeaderPageCaptureSentinelConstant = -1
)

var linkHeaderPagePattern = regexp.MustCompile(linkHeaderPagePatternConstant)

// PaginationSignalError reports a provider response without the header that announces the page count.
type PaginationSignalError struct {
	Kind   ProviderKind
	Header string
	Value  string
}

func (signalError PaginationSignalError) Error() string {
	return fmt.Sprintf(paginationSignalMessageTemplate, signalError.Kind, signalError.Header, signalError.Value)
}

// ParsePageCount extracts the total number of pages from the first-page response headers.
//
// GitHub announces pages through the Link header; the largest page number referenced
// there is the last page and a missing header means one page. GitLab must send
// X-Total-Pages.
func ParsePageCount(kind ProviderKind, headers http.Header) (int, error) {
	if err := kind.validate(); err != nil {
		return 0, err
	}
	if kind == ProviderKindGitHub {
		return parseLinkHeaderPageCount(headers.Get(linkHeaderConstant)), nil
	}

	rawValue := strings.TrimSpace(headers.Get(totalPagesHeaderConstant))
	pageCount, parseError := strconv.Atoi(rawValue)
	if parseError != nil {
		return 0, PaginationSignalError{Kind: kind, Header: totalPagesHeaderConstant, Value: rawValue}
	}
	if pageCount < 0 {
		return 0, fmt.Errorf(negativePageCountMessageTemplate, kind, pageCount)
	}
	return pageCount, nil
}

func parseLinkHeaderPageCount(linkHeader string) int {
	if len(strings.TrimSpace(linkHeader)) == 0 {
		return defaultPageCountConstant
	}
	highestPage := defaultPageCountConstant
	for _, submatches := range linkHeaderPagePattern.FindAllStringSubmatch(linkHeader, linkHeaderPageCaptureSentinelConstant) {
		if len(submatches) < linkHeaderPageSubmatchCountConstant {
			continue
		}
		pageNumber, parseError := strconv.Atoi(submatches[linkHeaderPageCaptureGroupConstant])
		if parseError != nil {
			continue
		}
		if pageNumber > highestPage {
			highestPage = pageNumber
		}
	}
	return highestPage
}
