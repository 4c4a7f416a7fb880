package agent

// FailureKind classifies why a turn did not produce a clean assistant
// response, grounded on the teacher's distinction in
// reasoning/chain_of_thought.go between tool-level errors fed back to the
// LLM and hard engine errors that break the loop (spec.md §4.11).
type FailureKind int

const (
	// FailureNone means the turn completed normally.
	FailureNone FailureKind = iota
	// FailureValidation is a tool rejecting bad input; recoverable, fed
	// back to the LLM as a tool result, never surfaced as an engine error.
	FailureValidation
	// FailureTransient is an LLM provider call that failed and failed again
	// on its single retry: the turn ends with a generic apology, FSM state
	// is left unchanged.
	FailureTransient
	// FailureIntegrity is a recursion-limit breach or malformed tool-call
	// loop: the turn ends with a best-effort fallback message, FSM state
	// is left unchanged.
	FailureIntegrity
	// FailureProgrammer is a bug: an unknown tool name, a schema the
	// registry rejects, or a nil dependency. Always logged at error level.
	FailureProgrammer
)

func (k FailureKind) String() string {
	switch k {
	case FailureValidation:
		return "validation"
	case FailureTransient:
		return "transient"
	case FailureIntegrity:
		return "integrity"
	case FailureProgrammer:
		return "programmer"
	default:
		return "none"
	}
}
