package session

// Decision tells the caller what to do with a navigation attempt.
type Decision int

const (
	// DecisionWait: bootstrap has not finished; render nothing and retry,
	// never redirect.
	DecisionWait Decision = iota
	// DecisionSignIn: no authenticated session; send the user to sign-in.
	DecisionSignIn
	// DecisionAllow: protected views may render.
	DecisionAllow
)

func (d Decision) String() string {
	switch d {
	case DecisionWait:
		return "wait"
	case DecisionSignIn:
		return "sign-in"
	case DecisionAllow:
		return "allow"
	default:
		return "unknown"
	}
}

// Evaluate is the route guard: a pure function of session state, safe to
// call on every navigation attempt.
func Evaluate(s Snapshot) Decision {
	if !s.Ready {
		return DecisionWait
	}
	if !s.Authenticated {
		return DecisionSignIn
	}
	return DecisionAllow
}
