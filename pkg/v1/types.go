package v1

import "time"

// Message describes a commit message. An empty Message commits the
// placeholder text.
type Message struct {
	Emoji    string `json:"emoji,omitempty"`
	Title    string `json:"title,omitempty"`
	Body     string `json:"body,omitempty"`
	Breaking string `json:"breaking,omitempty"`

	// Raw is committed verbatim and takes precedence over the other fields.
	Raw string `json:"raw,omitempty"`
}

func (m Message) empty() bool {
	return m == Message{}
}

// Commit represents a commit in the repository history.
type Commit struct {
	Hash      string    `json:"hash"`
	Message   string    `json:"message"`
	Author    string    `json:"author"`
	Timestamp time.Time `json:"timestamp"`
}

// PushResult reports where a push went.
type PushResult struct {
	Remote   string `json:"remote"`
	URL      string `json:"url"`
	RefSpec  string `json:"refspec"`
	Strategy string `json:"strategy"`
	UpToDate bool   `json:"up_to_date"`
}
