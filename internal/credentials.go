package internal

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/go-git/go-git/v5/plumbing/transport/ssh"
)

const DefaultSSHUser = "git"

type StrategyKind int

const (
	SSHAgent StrategyKind = iota
	CredentialHelper
)

func (k StrategyKind) String() string {
	switch k {
	case SSHAgent:
		return "ssh-agent"
	case CredentialHelper:
		return "credential-helper"
	}
	return "StrategyKind(" + strconv.Itoa(int(k)) + ")"
}

// CredentialStrategy hands the transport an auth method when it asks for
// credentials for url, optionally hinting the username.
type CredentialStrategy interface {
	Kind() StrategyKind
	Credentials(ctx context.Context, url, usernameHint string) (transport.AuthMethod, error)
}

// ClassifyRemote picks the strategy for a remote URL: http(s) URLs go
// through the credential helper, everything else through the SSH agent.
// URLs the endpoint parser rejects fall back to a plain "https" substring
// check.
func ClassifyRemote(remoteURL string) StrategyKind {
	ep, err := transport.NewEndpoint(remoteURL)
	if err != nil {
		if strings.Contains(remoteURL, "https") {
			return CredentialHelper
		}
		return SSHAgent
	}

	switch ep.Protocol {
	case "https", "http":
		return CredentialHelper
	}
	return SSHAgent
}

// CredentialFeedback is implemented by strategies whose store should learn
// whether the credentials it handed out were accepted.
type CredentialFeedback interface {
	Approve(ctx context.Context) error
	Reject(ctx context.Context) error
}

// helperFunc runs `git credential <action>` in dir, feeding it input.
type helperFunc func(ctx context.Context, dir, action, input string) (string, error)

type sshAuthFunc func(user string) (transport.AuthMethod, error)

type CredentialResolver struct {
	dir     string
	helper  helperFunc
	sshAuth sshAuthFunc
}

// NewCredentialResolver binds helper lookups to repo's configuration.
func NewCredentialResolver(repo *GitRepository) *CredentialResolver {
	return &CredentialResolver{
		dir:     repo.Root(),
		helper:  runCredential,
		sshAuth: newSSHAgentAuth,
	}
}

func (r *CredentialResolver) Resolve(remoteURL string) CredentialStrategy {
	if ClassifyRemote(remoteURL) == CredentialHelper {
		return &helperStrategy{dir: r.dir, run: r.helper}
	}
	return &sshAgentStrategy{auth: r.sshAuth}
}

type sshAgentStrategy struct {
	auth sshAuthFunc
}

func (s *sshAgentStrategy) Kind() StrategyKind { return SSHAgent }

func (s *sshAgentStrategy) Credentials(_ context.Context, _ string, usernameHint string) (transport.AuthMethod, error) {
	user := usernameHint
	if user == "" {
		user = DefaultSSHUser
	}

	auth, err := s.auth(user)
	if err != nil {
		return nil, fmt.Errorf("ssh agent: %w", err)
	}
	return auth, nil
}

func newSSHAgentAuth(user string) (transport.AuthMethod, error) {
	return ssh.NewSSHAgentAuth(user)
}

type helperStrategy struct {
	dir string
	run helperFunc

	// filled is the helper's answer, replayed to approve or reject.
	filled string
}

func (s *helperStrategy) Kind() StrategyKind { return CredentialHelper }

func (s *helperStrategy) Credentials(ctx context.Context, remoteURL, usernameHint string) (transport.AuthMethod, error) {
	request, err := credentialRequest(remoteURL, usernameHint)
	if err != nil {
		return nil, err
	}

	out, err := s.run(ctx, s.dir, "fill", request)
	if err != nil {
		return nil, fmt.Errorf("credential helper: %w", err)
	}

	fields := parseCredentialResponse(out)
	if fields["password"] == "" {
		return nil, errors.New("credential helper returned no password")
	}
	s.filled = strings.TrimRight(out, "\n") + "\n\n"

	return &http.BasicAuth{
		Username: fields["username"],
		Password: fields["password"],
	}, nil
}

func (s *helperStrategy) Approve(ctx context.Context) error {
	return s.report(ctx, "approve")
}

func (s *helperStrategy) Reject(ctx context.Context) error {
	return s.report(ctx, "reject")
}

func (s *helperStrategy) report(ctx context.Context, action string) error {
	if s.filled == "" {
		return nil
	}
	if _, err := s.run(ctx, s.dir, action, s.filled); err != nil {
		return fmt.Errorf("credential %s: %w", action, err)
	}
	return nil
}

// credentialRequest renders the key=value request `git credential` reads.
func credentialRequest(remoteURL, usernameHint string) (string, error) {
	ep, err := transport.NewEndpoint(remoteURL)
	if err != nil {
		return "", fmt.Errorf("parse remote url: %w", err)
	}

	host := ep.Host
	if ep.Port != 0 {
		host += ":" + strconv.Itoa(ep.Port)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "protocol=%s\n", ep.Protocol)
	fmt.Fprintf(&b, "host=%s\n", host)
	if usernameHint != "" {
		fmt.Fprintf(&b, "username=%s\n", usernameHint)
	}
	b.WriteByte('\n')
	return b.String(), nil
}

func parseCredentialResponse(out string) map[string]string {
	fields := make(map[string]string)
	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		key, value, ok := strings.Cut(scanner.Text(), "=")
		if ok {
			fields[key] = value
		}
	}
	return fields
}

func runCredential(ctx context.Context, dir, action, input string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", "credential", action)
	cmd.Dir = dir
	cmd.Env = credentialEnv(os.Environ(), IsTerminal())
	cmd.Stdin = strings.NewReader(input)
	cmd.Stderr = os.Stderr

	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("git credential %s: %w", action, err)
	}
	return stdout.String(), nil
}

// credentialEnv keeps git from prompting for a username or password when
// no terminal is attached.
func credentialEnv(base []string, tty bool) []string {
	if tty {
		return base
	}
	return append(base[:len(base):len(base)], "GIT_TERMINAL_PROMPT=0")
}
