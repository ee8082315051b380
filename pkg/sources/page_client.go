package sources

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/matt-fiveeighty/odyssey-collector/pkg/apperrors"
	"github.com/matt-fiveeighty/odyssey-collector/pkg/delimited"
	"github.com/matt-fiveeighty/odyssey-collector/pkg/fingerprint"
)

// Retriever is the transport PageClient fetches through.
// fetch.Client implements this interface.
type Retriever interface {
	Retrieve(ctx context.Context, url string) (string, error)
}

// PageClient is what agency modules fetch through. Every document retrieved
// is fingerprinted against its stored signature; structural drift is logged
// as a warning so operators notice a layout change before extractors start
// silently returning garbage. Drift never blocks collection.
type PageClient struct {
	retriever    Retriever
	fingerprints fingerprint.Service
	logger       *zap.Logger
}

// NewPageClient creates a page client.
func NewPageClient(retriever Retriever, fingerprints fingerprint.Service, logger *zap.Logger) *PageClient {
	return &PageClient{
		retriever:    retriever,
		fingerprints: fingerprints,
		logger:       logger,
	}
}

// FetchPage retrieves url and parses it as HTML.
func (p *PageClient) FetchPage(ctx context.Context, source, url string) (*goquery.Document, error) {
	body, err := p.fetch(ctx, source, url)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", url, err)
	}
	return doc, nil
}

// FetchRows retrieves url and tokenizes it as delimited text.
func (p *PageClient) FetchRows(ctx context.Context, source, url string) ([][]string, error) {
	body, err := p.fetch(ctx, source, url)
	if err != nil {
		return nil, err
	}
	return delimited.Tokenize(body), nil
}

func (p *PageClient) fetch(ctx context.Context, source, url string) (string, error) {
	body, err := p.retriever.Retrieve(ctx, url)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(body) == "" {
		return "", fmt.Errorf("%w: %s", apperrors.ErrEmptyDocument, url)
	}

	p.checkDrift(ctx, source, url, body)
	return body, nil
}

func (p *PageClient) checkDrift(ctx context.Context, source, url, body string) {
	report, err := p.fingerprints.Check(ctx, source, url, body)
	if err != nil {
		p.logger.Warn("fingerprint check failed",
			zap.String("source", source),
			zap.String("url", url),
			zap.Error(err))
		return
	}
	if report.Changed {
		p.logger.Warn("page structure drifted since last run",
			zap.String("source", source),
			zap.String("url", url),
			zap.Strings("details", report.Details))
	}
}
