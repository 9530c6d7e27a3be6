package internal

import "time"

type Commit struct {
	Hash      string
	Message   string
	Author    string
	Email     string
	Timestamp time.Time
	Parents   []string
}

// Title is the first line of the commit message.
func (c *Commit) Title() string {
	for i, r := range c.Message {
		if r == '\n' {
			return c.Message[:i]
		}
	}
	return c.Message
}

// Status summarises where HEAD is and what the next commit would contain.
type Status struct {
	Branch string // empty when HEAD is detached
	Head   string // empty when the branch is unborn
	Staged int
	Remote string
}
