package shared

// ConfirmationPolicy specifies how workflows handle operator confirmations.
type ConfirmationPolicy int

const (
	// ConfirmationPrompt asks before acting on each repository.
	ConfirmationPrompt ConfirmationPolicy = iota
	// ConfirmationAssumeYes acts on every repository without asking.
	ConfirmationAssumeYes
)

// ConfirmationPolicyFromSkipInteractive converts the --skip-interactive flag into a policy.
func ConfirmationPolicyFromSkipInteractive(skipInteractive bool) ConfirmationPolicy {
	if skipInteractive {
		return ConfirmationAssumeYes
	}
	return ConfirmationPrompt
}

// ShouldPrompt reports whether the workflow must prompt the operator.
func (policy ConfirmationPolicy) ShouldPrompt() bool {
	return policy != ConfirmationAssumeYes
}
