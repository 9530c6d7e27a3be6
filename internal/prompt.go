package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/mattn/go-isatty"
	"github.com/sahilm/fuzzy"
)

const DefaultPageSize = 15

var ErrNotInteractive = errors.New("standard input is not a terminal")

// SurveyPrompter renders prompts on the terminal.
type SurveyPrompter struct {
	in       terminal.FileReader
	out      terminal.FileWriter
	errOut   io.Writer
	pageSize int
}

func NewSurveyPrompter(pageSize int) *SurveyPrompter {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &SurveyPrompter{
		in:       os.Stdin,
		out:      os.Stdout,
		errOut:   os.Stderr,
		pageSize: pageSize,
	}
}

// IsTerminal reports whether both ends of the prompter are attached to a TTY.
func IsTerminal() bool {
	in, out := os.Stdin.Fd(), os.Stdout.Fd()
	return (isatty.IsTerminal(in) || isatty.IsCygwinTerminal(in)) &&
		(isatty.IsTerminal(out) || isatty.IsCygwinTerminal(out))
}

func (p *SurveyPrompter) Select(ctx context.Context, message string, options []string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	prompt := &survey.Select{
		Message:  message,
		Options:  options,
		PageSize: p.pageSize,
	}

	var choice int
	err := survey.AskOne(prompt, &choice,
		survey.WithStdio(p.in, p.out, p.errOut),
		survey.WithFilter(fuzzyFilter),
	)
	if err != nil {
		return 0, surveyError(err)
	}
	return choice, nil
}

func (p *SurveyPrompter) Input(ctx context.Context, message string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var answer string
	err := survey.AskOne(&survey.Input{Message: message}, &answer,
		survey.WithStdio(p.in, p.out, p.errOut),
	)
	if err != nil {
		return "", surveyError(err)
	}
	return answer, nil
}

func fuzzyFilter(filter, value string, _ int) bool {
	if filter == "" {
		return true
	}
	return len(fuzzy.Find(filter, []string{value})) > 0
}

func surveyError(err error) error {
	if errors.Is(err, terminal.InterruptErr) || errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %v", ErrSelectionAborted, err)
	}
	return err
}

// ScriptedPrompter replays canned answers, for callers that drive the
// builder without a terminal.
type ScriptedPrompter struct {
	Choices []int
	Inputs  []string

	// Prompts records every message shown, in order.
	Prompts []string
}

func (p *ScriptedPrompter) Select(_ context.Context, message string, _ []string) (int, error) {
	p.Prompts = append(p.Prompts, message)
	if len(p.Choices) == 0 {
		return 0, fmt.Errorf("%w: no scripted choice left", ErrSelectionAborted)
	}
	c := p.Choices[0]
	p.Choices = p.Choices[1:]
	return c, nil
}

func (p *ScriptedPrompter) Input(_ context.Context, message string) (string, error) {
	p.Prompts = append(p.Prompts, message)
	if len(p.Inputs) == 0 {
		return "", fmt.Errorf("%w: no scripted input left", ErrSelectionAborted)
	}
	in := p.Inputs[0]
	p.Inputs = p.Inputs[1:]
	return in, nil
}
