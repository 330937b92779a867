package citation

// NoSourceCitation is the sentinel citation used when the web search returned
// no organic result for a statement.
const NoSourceCitation = "No credible source found."

// Result pairs an extracted statement with a resolved web source and a
// formatted citation string. Source is nil when no search result was found.
type Result struct {
	Statement string  `json:"statement"`
	Source    *string `json:"source"`
	Citation  string  `json:"citation"`
}
