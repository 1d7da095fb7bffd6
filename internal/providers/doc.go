// Package providers lists remote repositories from hosted git providers.
//
// Each ProviderKind contributes pure functions for endpoint construction,
// authentication headers, pagination discovery and response decoding. The
// Lister combines them: it discovers the total page count with one request and
// then fetches every page concurrently, failing the whole listing when any page
// fails.
package providers
