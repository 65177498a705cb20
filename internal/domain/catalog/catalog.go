// Package catalog lists the game's activities. Activity ids are stable keys
// into the score ledger.
package catalog

// Activity identifies one game activity.
type Activity struct {
	ID   string
	Name string
}

var activities = []Activity{
	{ID: "exponential-explorer", Name: "Exponential Explorer"},
	{ID: "log-detective", Name: "Log Detective"},
	{ID: "compound-interest", Name: "Compound Interest Quest"},
	{ID: "viral-video", Name: "Viral Video Challenge"},
	{ID: "carbon-dating", Name: "Carbon Dating Lab"},
	{ID: "log-laws", Name: "Logarithm Laws Master"},
	{ID: "log-evaluation", Name: "Logarithm Evaluation Expert"},
	{ID: "equation-solver", Name: "Equation Solver Challenge"},
	{ID: "graph-matcher", Name: "Graph Matcher Challenge"},
}

var byID = func() map[string]Activity {
	m := make(map[string]Activity, len(activities))
	for _, a := range activities {
		m[a.ID] = a
	}
	return m
}()

// Lookup returns the activity with the given id.
func Lookup(id string) (Activity, bool) {
	a, ok := byID[id]
	return a, ok
}

// All returns every activity in menu order.
func All() []Activity {
	out := make([]Activity, len(activities))
	copy(out, activities)
	return out
}
