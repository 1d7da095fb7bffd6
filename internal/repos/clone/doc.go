// Package clone mirrors a remote collection into the active profile's target directory.
//
// Repositories that are missing locally are cloned. Repositories that already exist are
// brought up to date on their branch, provided origin still advertises it.
package clone
