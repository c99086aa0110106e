package domain

// IntentKind categorizes what the user is asking for.
type IntentKind string

const (
	IntentNone         IntentKind = "none"
	IntentConversation IntentKind = "conversation"
	IntentQuestion     IntentKind = "question"
	IntentCommand      IntentKind = "command"
)

// Classification is the intent classifier's verdict for one utterance.
// CommandLikelihood is in [0,1] and gates whether the command generator runs.
type Classification struct {
	Kind              IntentKind
	CommandLikelihood float64
	// MatchedRule names the pattern rule that produced the verdict, empty
	// when the semantic fallback or keyword cues decided.
	MatchedRule string
}
