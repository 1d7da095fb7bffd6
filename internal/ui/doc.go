// Package ui renders operator-facing console output.
//
// Git command lifecycle events are narrated through a console zap logger, while
// workflow results go through a reporter that colours successes and warnings on
// capable terminals.
package ui
