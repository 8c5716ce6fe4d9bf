package domain

type OutcomeKind int

const (
	OutcomeSummary OutcomeKind = iota
	OutcomeDebug
	OutcomeNotFound
	OutcomeError
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSummary:
		return "summary"
	case OutcomeDebug:
		return "debug"
	case OutcomeNotFound:
		return "not_found"
	default:
		return "error"
	}
}

// Outcome is what a lookup hands to the HTTP layer. Text is the chat line
// for every kind except Debug, which carries the raw upstream exchange.
type Outcome struct {
	Kind  OutcomeKind
	Text  string
	Debug any
}

func Summary(text string) Outcome {
	return Outcome{Kind: OutcomeSummary, Text: text}
}

func NotFound(text string) Outcome {
	return Outcome{Kind: OutcomeNotFound, Text: text}
}

func Failure(text string) Outcome {
	return Outcome{Kind: OutcomeError, Text: text}
}

func DebugPayload(payload any) Outcome {
	return Outcome{Kind: OutcomeDebug, Debug: payload}
}
