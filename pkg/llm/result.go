package llm

// ResultKind classifies a provider reply. The tag travels alongside the text
// from the gateway all the way into storage, so downstream code never has to
// sniff prefixes inside assistant text to tell a real reply from a fallback.
type ResultKind int

const (
	// KindContent is a genuine assistant reply. Only these are persisted as
	// plain assistant messages and fed back into future context.
	KindContent ResultKind = iota

	// KindProviderTerminal is an upstream condition that must never be
	// retried (bad key, exhausted balance). Surfaced to the user verbatim.
	KindProviderTerminal

	// KindDegraded is a continuable failure (retries exhausted, parse
	// error, mock fallback). Excluded from future context.
	KindDegraded
)

// Terminal reasons produced by the gateway.
const (
	ReasonAuth                = "auth"
	ReasonInsufficientBalance = "insufficient_balance"
)

// Degraded reasons.
const (
	ReasonParseError       = "parse_error"
	ReasonExhaustedRetries = "exhausted_retries"
	ReasonMock             = "mock"
)

// Result is the tagged outcome of one provider call.
type Result struct {
	Kind   ResultKind
	Text   string
	Reason string // set for ProviderTerminal and Degraded
}

func Content(text string) Result {
	return Result{Kind: KindContent, Text: text}
}

func ProviderTerminal(reason string) Result {
	return Result{Kind: KindProviderTerminal, Reason: reason}
}

func Degraded(reason string) Result {
	return Result{Kind: KindDegraded, Reason: reason}
}

// DegradedText is a degraded result that still carries user-visible text,
// such as the mock responder's reply.
func DegradedText(text, reason string) Result {
	return Result{Kind: KindDegraded, Text: text, Reason: reason}
}

// Tag renders the storage form of a non-content result ("degraded:mock",
// "terminal:auth"). Content results have no tag.
func (r Result) Tag() string {
	switch r.Kind {
	case KindProviderTerminal:
		return "terminal:" + r.Reason
	case KindDegraded:
		return "degraded:" + r.Reason
	default:
		return ""
	}
}

// IsContent reports whether the result carries a persistable assistant reply.
func (r Result) IsContent() bool {
	return r.Kind == KindContent
}
