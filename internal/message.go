package internal

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// PlaceholderMessage is committed when no operator is available to answer
// prompts.
const PlaceholderMessage = "unit testing"

const breakingChangesLabel = "BREAKING CHANGES: "

// CommitMessage is the four-segment message: glyph, title, body and the
// breaking-change note.
type CommitMessage struct {
	Glyph    string
	Title    string
	Body     string
	Breaking string

	literal string
}

// LiteralMessage wraps text that is committed exactly as given.
func LiteralMessage(text string) CommitMessage {
	return CommitMessage{literal: text}
}

func (m CommitMessage) String() string {
	if m.literal != "" {
		return m.literal
	}

	var b strings.Builder
	b.WriteString(m.Glyph)
	b.WriteString(m.Title)
	b.WriteByte('\n')
	b.WriteString(m.Body)
	b.WriteByte('\n')
	b.WriteString(breakingChangesLabel)
	b.WriteString(m.Breaking)
	b.WriteByte('\n')
	return b.String()
}

// MessageSource produces the message for one commit.
type MessageSource interface {
	Message(ctx context.Context) (CommitMessage, error)
}

type literalSource string

func (s literalSource) Message(context.Context) (CommitMessage, error) {
	return LiteralMessage(string(s)), nil
}

// PlaceholderSource never prompts and always yields PlaceholderMessage.
func PlaceholderSource() MessageSource {
	return literalSource(PlaceholderMessage)
}

type staticSource CommitMessage

func (s staticSource) Message(context.Context) (CommitMessage, error) {
	return CommitMessage(s), nil
}

// StaticSource always yields m.
func StaticSource(m CommitMessage) MessageSource {
	return staticSource(m)
}

// ComposeMessage assembles a message without prompting, looking the
// category up by its code.
func ComposeMessage(catalog *Catalog, code, title, body, breaking string) (CommitMessage, error) {
	msg := CommitMessage{
		Title:    strings.TrimSpace(title),
		Body:     strings.TrimSpace(body),
		Breaking: strings.TrimSpace(breaking),
	}
	if code == "" {
		return msg, nil
	}

	e, ok := catalog.Lookup(code)
	if !ok {
		return CommitMessage{}, fmt.Errorf("unknown emoji code %q", code)
	}
	msg.Glyph = GlyphOf(e.Label())
	return msg, nil
}

// Prompter asks the operator for input. Implementations return an error
// wrapping ErrSelectionAborted when the operator cancels.
type Prompter interface {
	Select(ctx context.Context, message string, options []string) (int, error)
	Input(ctx context.Context, message string) (string, error)
}

type BuildState int

const (
	AwaitingSelection BuildState = iota
	AwaitingTitle
	AwaitingBody
	AwaitingBreaking
	Assembled
)

func (s BuildState) String() string {
	switch s {
	case AwaitingSelection:
		return "awaiting selection"
	case AwaitingTitle:
		return "awaiting title"
	case AwaitingBody:
		return "awaiting body"
	case AwaitingBreaking:
		return "awaiting breaking changes"
	case Assembled:
		return "assembled"
	}
	return fmt.Sprintf("BuildState(%d)", int(s))
}

// MessageBuilder walks the operator through the menu and the three text
// prompts. Each Step suspends on exactly one prompt.
type MessageBuilder struct {
	catalog  *Catalog
	prompter Prompter
	state    BuildState
	msg      CommitMessage
}

func NewMessageBuilder(catalog *Catalog, prompter Prompter) *MessageBuilder {
	return &MessageBuilder{catalog: catalog, prompter: prompter}
}

func (b *MessageBuilder) State() BuildState {
	return b.state
}

func (b *MessageBuilder) Reset() {
	b.state = AwaitingSelection
	b.msg = CommitMessage{}
}

// Step answers the prompt for the current state and advances to the next.
func (b *MessageBuilder) Step(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	switch b.state {
	case AwaitingSelection:
		labels := b.catalog.Labels()
		choice, err := b.prompter.Select(ctx, "Select an emoji for your commit:", labels)
		if err != nil {
			if errors.Is(err, ErrSelectionAborted) {
				return err
			}
			return fmt.Errorf("%w: %v", ErrSelectionAborted, err)
		}
		if choice < 0 || choice >= len(labels) {
			return fmt.Errorf("selection %d out of range", choice)
		}
		b.msg.Glyph = GlyphOf(labels[choice])
		b.state = AwaitingTitle
	case AwaitingTitle:
		title, err := b.prompter.Input(ctx, "Provide a commit title")
		if err != nil {
			return fmt.Errorf("read title: %w", err)
		}
		b.msg.Title = strings.TrimSpace(title)
		b.state = AwaitingBody
	case AwaitingBody:
		body, err := b.prompter.Input(ctx, "Provide a commit message")
		if err != nil {
			return fmt.Errorf("read message: %w", err)
		}
		b.msg.Body = strings.TrimSpace(body)
		b.state = AwaitingBreaking
	case AwaitingBreaking:
		note, err := b.prompter.Input(ctx, "Provide a breaking changes description")
		if err != nil {
			return fmt.Errorf("read breaking changes: %w", err)
		}
		b.msg.Breaking = strings.TrimSpace(note)
		b.state = Assembled
	case Assembled:
	}
	return nil
}

// Build steps until the message is assembled.
func (b *MessageBuilder) Build(ctx context.Context) (CommitMessage, error) {
	for b.state != Assembled {
		if err := b.Step(ctx); err != nil {
			return CommitMessage{}, err
		}
	}
	return b.msg, nil
}

// Message runs a fresh build, so one builder serves repeated commits.
func (b *MessageBuilder) Message(ctx context.Context) (CommitMessage, error) {
	b.Reset()
	return b.Build(ctx)
}
