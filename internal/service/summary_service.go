package service

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Fixed summary messages shown instead of an answer.
const (
	MsgNoSymbols   = "No stock symbols available. Please provide valid symbols."
	MsgNoResponse  = "No response received."
	MsgFetchFailed = "Failed to fetch response."
)

// Summary is a rendered news summary.
type Summary struct {
	Prompt   string `json:"prompt,omitempty"`
	Markdown string `json:"markdown"`
	HTML     string `json:"html"`
	Backend  string `json:"backend"`
}

// BuildPrompt returns the news prompt for tickers, or "" when there are none.
func BuildPrompt(tickers []string) string {
	if len(tickers) == 0 {
		return ""
	}
	return fmt.Sprintf("Please search online for any current news about the following stocks: %s. "+
		"Then summarize the latest headlines or information for each ticker symbol.",
		strings.Join(tickers, ", "))
}

// SummaryService asks the configured backend for news about tickers.
type SummaryService struct {
	backend  Summarizer
	markdown goldmark.Markdown
	logger   *slog.Logger
}

// NewSummaryService creates a new SummaryService.
func NewSummaryService(backend Summarizer, logger *slog.Logger) *SummaryService {
	return &SummaryService{
		backend:  backend,
		markdown: goldmark.New(goldmark.WithExtensions(extension.GFM)),
		logger:   logger,
	}
}

// Backend names the summarizer in use.
func (s *SummaryService) Backend() string {
	return s.backend.Name()
}

// Summarize asks for news about tickers. Failures are reported in the
// summary text rather than returned.
func (s *SummaryService) Summarize(ctx context.Context, tickers []string) Summary {
	prompt := BuildPrompt(tickers)
	if prompt == "" {
		return s.render("", MsgNoSymbols)
	}

	answer, err := s.backend.Summarize(ctx, prompt)
	if err != nil {
		s.logger.Error("failed to summarize news", "backend", s.backend.Name(), "tickers", len(tickers), "error", err)
		return s.render(prompt, MsgFetchFailed)
	}
	if strings.TrimSpace(answer) == "" {
		return s.render(prompt, MsgNoResponse)
	}
	return s.render(prompt, answer)
}

// SummarizeWorkspace summarizes every ticker of the user's portfolio.
func (s *SummaryService) SummarizeWorkspace(ctx context.Context, ws *Workspace) Summary {
	ws.lock()
	tickers := make([]string, len(ws.positions))
	for i, p := range ws.positions {
		tickers[i] = p.Ticker
	}
	ws.unlock()
	return s.Summarize(ctx, tickers)
}

func (s *SummaryService) render(prompt, md string) Summary {
	var buf bytes.Buffer
	if err := s.markdown.Convert([]byte(md), &buf); err != nil {
		s.logger.Warn("failed to render summary markdown", "error", err)
		buf.Reset()
	}
	return Summary{Prompt: prompt, Markdown: md, HTML: buf.String(), Backend: s.backend.Name()}
}
