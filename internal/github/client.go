// Package github is a minimal read-only client for the GitHub REST API
// endpoints the governance snapshot needs: commits, recursive trees, and file
// contents.
package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrNotFound is returned when the API answers 404.
var ErrNotFound = errors.New("github: not found")

// Defaults.
const (
	DefaultBaseURL     = "https://api.github.com"
	DefaultTimeout     = 15 * time.Second
	DefaultUserAgent   = "atlas-snapshot"
	DefaultMaxBodySize = 32 << 20
	apiVersion         = "2022-11-28"
)

// Config configures a Client.
type Config struct {
	BaseURL     string
	Token       string
	Timeout     time.Duration
	UserAgent   string
	MaxBodySize int64
	// HTTPClient overrides the default client, mainly for tests.
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client talks to the GitHub REST API.
type Client struct {
	baseURL     string
	token       string
	userAgent   string
	maxBodySize int64
	http        *http.Client
	logger      *slog.Logger
}

// New creates a client. Zero config fields take their defaults.
func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.MaxBodySize <= 0 {
		cfg.MaxBodySize = DefaultMaxBodySize
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Client{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		token:       cfg.Token,
		userAgent:   cfg.UserAgent,
		maxBodySize: cfg.MaxBodySize,
		http:        cfg.HTTPClient,
		logger:      cfg.Logger,
	}
}

// Repo identifies a repository.
type Repo struct {
	Owner string
	Name  string
}

func (r Repo) String() string { return r.Owner + "/" + r.Name }

// ParseRepo parses "owner/name".
func ParseRepo(s string) (Repo, error) {
	owner, name, ok := strings.Cut(strings.TrimSpace(s), "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return Repo{}, fmt.Errorf("invalid repository %q, want owner/name", s)
	}
	return Repo{Owner: owner, Name: name}, nil
}

// Commit is the subset of a commit response the snapshot uses.
type Commit struct {
	SHA     string
	TreeSHA string
}

// Commit resolves ref to a commit.
func (c *Client) Commit(ctx context.Context, repo Repo, ref string) (*Commit, error) {
	var body struct {
		SHA    string `json:"sha"`
		Commit struct {
			Tree struct {
				SHA string `json:"sha"`
			} `json:"tree"`
		} `json:"commit"`
	}
	path := fmt.Sprintf("/repos/%s/%s/commits/%s", repo.Owner, repo.Name, url.PathEscape(ref))
	if err := c.getJSON(ctx, path, &body); err != nil {
		return nil, fmt.Errorf("get commit %s: %w", ref, err)
	}
	if body.SHA == "" {
		return nil, fmt.Errorf("get commit %s: empty sha in response", ref)
	}
	return &Commit{SHA: body.SHA, TreeSHA: body.Commit.Tree.SHA}, nil
}

// TreeEntry is one path in a git tree.
type TreeEntry struct {
	Path string `json:"path"`
	Type string `json:"type"` // blob, tree or commit
	SHA  string `json:"sha"`
}

// Tree is a recursive git tree listing.
type Tree struct {
	SHA       string      `json:"sha"`
	Entries   []TreeEntry `json:"tree"`
	Truncated bool        `json:"truncated"`
}

// Files returns blob paths.
func (t *Tree) Files() []string {
	var out []string
	for _, e := range t.Entries {
		if e.Type == "blob" {
			out = append(out, e.Path)
		}
	}
	return out
}

// Dirs returns tree paths.
func (t *Tree) Dirs() []string {
	var out []string
	for _, e := range t.Entries {
		if e.Type == "tree" {
			out = append(out, e.Path)
		}
	}
	return out
}

// Tree fetches the recursive tree for a commit or tree SHA.
func (c *Client) Tree(ctx context.Context, repo Repo, sha string) (*Tree, error) {
	var tree Tree
	path := fmt.Sprintf("/repos/%s/%s/git/trees/%s?recursive=1", repo.Owner, repo.Name, url.PathEscape(sha))
	if err := c.getJSON(ctx, path, &tree); err != nil {
		return nil, fmt.Errorf("get tree %s: %w", sha, err)
	}
	if tree.Truncated {
		c.logger.Warn("github tree listing truncated", "repo", repo.String(), "sha", sha, "entries", len(tree.Entries))
	}
	return &tree, nil
}

// Contents fetches a file at ref and returns its decoded bytes.
func (c *Client) Contents(ctx context.Context, repo Repo, filePath, ref string) ([]byte, error) {
	var body struct {
		Type     string `json:"type"`
		Encoding string `json:"encoding"`
		Content  string `json:"content"`
	}
	segments := strings.Split(strings.Trim(filePath, "/"), "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	path := fmt.Sprintf("/repos/%s/%s/contents/%s?ref=%s",
		repo.Owner, repo.Name, strings.Join(segments, "/"), url.QueryEscape(ref))
	if err := c.getJSON(ctx, path, &body); err != nil {
		return nil, fmt.Errorf("get contents %s: %w", filePath, err)
	}
	if body.Type != "" && body.Type != "file" {
		return nil, fmt.Errorf("get contents %s: is a %s, not a file", filePath, body.Type)
	}
	if body.Encoding != "base64" {
		return nil, fmt.Errorf("get contents %s: unsupported encoding %q", filePath, body.Encoding)
	}
	raw := strings.NewReplacer("\n", "", "\r", "").Replace(body.Content)
	data, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("decode contents %s: %w", filePath, err)
	}
	return data, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", apiVersion)
	req.Header.Set("User-Agent", c.userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	c.logger.Debug("github request", "path", path, "status", resp.StatusCode, "duration", time.Since(start))

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodySize+1))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if int64(len(body)) > c.maxBodySize {
		return fmt.Errorf("response too large (exceeds %d bytes)", c.maxBodySize)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
