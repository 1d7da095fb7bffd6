// Package gitrepo drives the git executable for a single repository.
//
// RepositoryManager issues every query as "git -C <path> ..." so that many
// repositories can be processed concurrently from one working directory.
// ParseRemoteURL normalizes ssh and http remotes for profile matching.
package gitrepo
