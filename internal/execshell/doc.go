// Package execshell runs external tools on behalf of the repository workflows.
//
// ShellExecutor logs every invocation and turns non-zero exits into typed
// errors. OSCommandRunner spawns real processes; DryRunCommandRunner prints the
// command line instead, which is how dry-run mode is applied to every call site
// without the callers knowing about it.
package execshell
