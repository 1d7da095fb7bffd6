// Package mass runs git across every local repository a search selects.
//
// Mass executes an arbitrary git command in each repository after confirmation.
// Quick commits and pushes pending changes with the identity of the profile that
// owns the repository's remote.
package mass
