package domain

// EmailItem is one ranked entry inside a digest email draft.
type EmailItem struct {
	Rank    int    `json:"rank"`
	Title   string `json:"title"`
	URL     string `json:"url"`
	Summary string `json:"summary"`
	Score   int    `json:"score"`
	Reason  string `json:"reason"`
}

// EmailDraft is the structured output of the drafting collaborator.
type EmailDraft struct {
	Subject  string      `json:"subject"`
	Greeting string      `json:"greeting"`
	Intro    string      `json:"intro"`
	Items    []EmailItem `json:"items"`
	Closing  string      `json:"closing"`
}

// Email is a rendered message ready for the transport.
type Email struct {
	To        string
	Subject   string
	PlainBody string
	HTMLBody  string
}
