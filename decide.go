package labelprune

// Action is the outcome of deciding a labeled statement.
type Action uint8

const (
	// Ignore leaves the labeled statement untouched.
	Ignore Action = iota
	// Unwrap replaces the labeled statement with its body.
	Unwrap
	// Prune removes the labeled statement and its body.
	Prune
)

func (a Action) String() string {
	switch a {
	case Ignore:
		return "ignore"
	case Unwrap:
		return "unwrap"
	case Prune:
		return "prune"
	default:
		return "unknown"
	}
}

// Decide returns the action for a statement labeled label, along with the
// feature key it was looked up under. The key is empty for Ignore.
//
// Only the first match of the pattern is removed to form the key.
func (c *Config) Decide(label string) (Action, string) {
	loc := c.pattern.FindStringIndex(label)
	if loc == nil {
		return Ignore, ""
	}
	key := label[:loc[0]] + label[loc[1]:]
	if Enabled(c.features[key]) {
		return Unwrap, key
	}
	return Prune, key
}

// Node is a labeled statement owned by a traversal. S is the traversal's
// statement type.
//
// Visit calls at most one of Replace and Remove, once.
type Node[S any] interface {
	Label() string
	Body() S
	Replace(S)
	Remove()
}

// Visit decides n and applies the decision to it.
func Visit[S any](c *Config, n Node[S]) Action {
	action, _ := c.Decide(n.Label())
	switch action {
	case Unwrap:
		n.Replace(n.Body())
	case Prune:
		n.Remove()
	}
	return action
}
