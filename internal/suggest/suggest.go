package suggest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"inbox_service/internal/apperror"
	sl "inbox_service/internal/lib/logger"

	"google.golang.org/genai"
)

const (
	Separator = "||"
	count     = 3

	apiVersion = "v1beta"
)

const instruction = "Create a list of three open-ended and engaging questions formatted as a single string. " +
	"Each question should be separated by '||'. These questions are for an anonymous social messaging platform, " +
	"like Qooh.me, and should be suitable for a diverse audience. Avoid personal or sensitive topics, focusing " +
	"instead on universal themes that encourage friendly interaction. For example, your output should be " +
	"structured like this: 'What's a hobby you've recently started?||If you could have dinner with any " +
	"historical figure, who would it be?||What's a simple thing that makes you happy?'. Ensure the questions " +
	"are intriguing, foster curiosity, and contribute to a positive and welcoming conversational environment."

var (
	errBadShape     = errors.New("unexpected suggestion format")
	errNotAvailable = errors.New("suggestion client is not configured")
)

type Options struct {
	BaseURL string
	Model   string
	APIKey  string
	Timeout time.Duration
}

// Provider asks Gemini for three conversation starters.
type Provider struct {
	log    *slog.Logger
	client *genai.Client
	model  string
}

// New builds the Gemini client. A client that cannot be built (no api key)
// leaves the provider in place and every Suggest call fails as unavailable.
func New(ctx context.Context, log *slog.Logger, opts Options) *Provider {
	const op = "suggest.New"

	p := &Provider{log: log, model: opts.Model}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     opts.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: opts.Timeout},
		HTTPOptions: genai.HTTPOptions{
			BaseURL:    opts.BaseURL,
			APIVersion: apiVersion,
		},
	})
	if err != nil {
		log.Warn("suggestions disabled", slog.String("op", op), sl.Err(err))
		return p
	}

	p.client = client

	return p
}

// Suggest returns exactly three trimmed prompts.
func (p *Provider) Suggest(ctx context.Context) ([]string, error) {
	const op = "suggest.Suggest"

	log := p.log.With(slog.String("op", op))

	text, err := p.generate(ctx)
	if err != nil {
		log.Error("suggestion request failed", sl.Err(err))

		return nil, apperror.NewUpstreamUnavailable("Failed to generate suggestions", fmt.Errorf("%s: %w", op, err))
	}

	prompts, err := Split(text)
	if err != nil {
		log.Warn("suggestion reply rejected", slog.String("reply", text))

		return nil, apperror.NewUpstreamUnavailable("Failed to generate suggestions", fmt.Errorf("%s: %w", op, err))
	}

	return prompts, nil
}

func (p *Provider) generate(ctx context.Context) (string, error) {
	if p.client == nil {
		return "", errNotAvailable
	}

	resp, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(instruction), nil)
	if err != nil {
		return "", err
	}

	if resp == nil || len(resp.Candidates) == 0 {
		return "", errBadShape
	}

	c := resp.Candidates[0]
	if c == nil || c.Content == nil || len(c.Content.Parts) == 0 || c.Content.Parts[0] == nil {
		return "", errBadShape
	}

	return c.Content.Parts[0].Text, nil
}

// Split breaks a "a||b||c" reply into its three trimmed prompts.
func Split(text string) ([]string, error) {
	parts := strings.Split(strings.TrimSpace(text), Separator)
	if len(parts) != count {
		return nil, errBadShape
	}

	for i, s := range parts {
		parts[i] = strings.TrimSpace(strings.Trim(s, `'"`))
		if parts[i] == "" {
			return nil, errBadShape
		}
	}

	return parts, nil
}
