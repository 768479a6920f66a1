// Package copilot adapts the dashboard's chat assistant to Gemini.
//
// The underlying client is created once, on first use, and shared for the
// life of the process. A failed construction is remembered and returned on
// every later call.
package copilot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"google.golang.org/genai"
)

var (
	ErrNotConfigured = errors.New("copilot is not configured")
	ErrEmptyPrompt   = errors.New("no messages to answer")
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type Completer interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

type generator interface {
	generate(ctx context.Context, model string, contents []*genai.Content) (string, error)
}

type genaiGenerator struct {
	client *genai.Client
}

func (g *genaiGenerator) generate(ctx context.Context, model string, contents []*genai.Content) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, model, contents, nil)
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}

// newGenerator is a seam for tests.
var newGenerator = func(ctx context.Context, apiKey string) (generator, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return &genaiGenerator{client: client}, nil
}

type Runtime struct {
	apiKey string
	model  string

	once sync.Once
	gen  generator
	err  error
}

func NewRuntime(apiKey, model string) *Runtime {
	return &Runtime{apiKey: apiKey, model: model}
}

func (r *Runtime) Enabled() bool { return r.apiKey != "" }

func (r *Runtime) init(ctx context.Context) {
	if r.apiKey == "" {
		r.err = ErrNotConfigured
		return
	}
	gen, err := newGenerator(ctx, r.apiKey)
	if err != nil {
		r.err = fmt.Errorf("failed to create GenAI client: %w", err)
		return
	}
	r.gen = gen
}

// Complete answers the conversation with the model's next reply.
func (r *Runtime) Complete(ctx context.Context, messages []Message) (string, error) {
	r.once.Do(func() { r.init(context.WithoutCancel(ctx)) })
	if r.err != nil {
		return "", r.err
	}

	contents := toContents(messages)
	if len(contents) == 0 {
		return "", ErrEmptyPrompt
	}

	reply, err := r.gen.generate(ctx, r.model, contents)
	if err != nil {
		return "", fmt.Errorf("GenAI generate failed: %w", err)
	}
	return strings.TrimSpace(reply), nil
}

func toContents(messages []Message) []*genai.Content {
	contents := make([]*genai.Content, 0, len(messages))
	for _, m := range messages {
		text := strings.TrimSpace(m.Content)
		if text == "" {
			continue
		}
		role := genai.Role(genai.RoleUser)
		if m.Role == "assistant" || m.Role == "model" {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(text, role))
	}
	return contents
}
