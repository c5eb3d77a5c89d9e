package planner

import (
	"context"
	"log/slog"
	"strings"

	"github.com/harunnryd/verblume/internal/lesson"
	"github.com/harunnryd/verblume/internal/logger"
	"github.com/harunnryd/verblume/internal/model/contract"

	"golang.org/x/sync/errgroup"
)

type topicBatch struct {
	Topics []lesson.TopicDetails `json:"topics" validate:"required,dive"`
}

// EnrichTopics translates topic names in fixed-size batches. Batches run one
// after another; a failed batch is logged and its topics are left out.
// Results follow input order. The only error returned is ctx's.
func (p *Planner) EnrichTopics(ctx context.Context, topics []string, language, base string) ([]lesson.TopicDetails, error) {
	size := p.cfg.TopicBatchSize
	details := make([]lesson.TopicDetails, 0, len(topics))

	for start := 0; start < len(topics); start += size {
		if err := ctx.Err(); err != nil {
			return details, err
		}

		end := min(start+size, len(topics))
		batch := topics[start:end]

		got, err := p.enrichBatch(ctx, batch, language, base)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return details, ctxErr
			}
			slog.Error("Topic batch failed, skipping",
				"first_topic", batch[0],
				"batch_size", len(batch),
				"language", language,
				"error", err,
				"trace_id", logger.GetTraceID(ctx))
			continue
		}
		details = append(details, got...)
	}
	return details, nil
}

func (p *Planner) enrichBatch(ctx context.Context, batch []string, language, base string) ([]lesson.TopicDetails, error) {
	req := contract.CompletionRequest{
		Messages:   contract.UserPrompt(topicBatchPrompt(batch, language, base)),
		Schema:     topicDetailsSchema(),
		SchemaName: "topic_details",
	}

	raw, err := p.complete(ctx, "enrich.topics", req)
	if err != nil {
		return nil, err
	}

	var parsed topicBatch
	if err := lesson.DecodeInto([]byte(raw), &parsed); err != nil {
		return nil, err
	}
	return inputOrder(batch, parsed.Topics), nil
}

// inputOrder sorts details by the position of their originalTopic in batch.
// Entries the service invented are kept at the end.
func inputOrder(batch []string, details []lesson.TopicDetails) []lesson.TopicDetails {
	byTopic := make(map[string]lesson.TopicDetails, len(details))
	var extra []lesson.TopicDetails
	for _, d := range details {
		key := topicKey(d.OriginalTopic)
		if _, dup := byTopic[key]; dup {
			continue
		}
		byTopic[key] = d
	}

	known := make(map[string]bool, len(batch))
	ordered := make([]lesson.TopicDetails, 0, len(details))
	for _, topic := range batch {
		key := topicKey(topic)
		known[key] = true
		if d, ok := byTopic[key]; ok {
			ordered = append(ordered, d)
			delete(byTopic, key)
		}
	}
	for _, d := range details {
		key := topicKey(d.OriginalTopic)
		if known[key] {
			continue
		}
		if _, ok := byTopic[key]; ok {
			extra = append(extra, d)
			delete(byTopic, key)
		}
	}
	return append(ordered, extra...)
}

func topicKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// PrefetchTopics enriches several categories concurrently. Each category is
// independent; one failing does not affect the others.
func (p *Planner) PrefetchTopics(ctx context.Context, categories map[string][]string, language, base string) (map[string][]lesson.TopicDetails, error) {
	names := make([]string, 0, len(categories))
	for name := range categories {
		names = append(names, name)
	}
	results := make([][]lesson.TopicDetails, len(names))

	g, gctx := errgroup.WithContext(ctx)
	for i, name := range names {
		g.Go(func() error {
			details, err := p.EnrichTopics(gctx, categories[name], language, base)
			results[i] = details
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string][]lesson.TopicDetails, len(names))
	for i, name := range names {
		out[name] = results[i]
	}
	return out, nil
}

// SubCategories proposes 5 to 8 topics for a category. Failures yield an
// empty list.
func (p *Planner) SubCategories(ctx context.Context, category string) []string {
	req := contract.CompletionRequest{
		Messages:   contract.UserPrompt(subCategoryPrompt(category)),
		Schema:     subCategorySchema(),
		SchemaName: "sub_categories",
	}

	var parsed struct {
		SubCategories []string `json:"subCategories"`
	}
	raw, err := p.complete(ctx, "generate.sub_categories", req)
	if err == nil {
		err = lesson.DecodeInto([]byte(raw), &parsed)
	}
	if err != nil {
		slog.Error("Could not generate sub-categories",
			"category", category,
			"error", err,
			"trace_id", logger.GetTraceID(ctx))
		return []string{}
	}

	out := make([]string, 0, len(parsed.SubCategories))
	for _, s := range parsed.SubCategories {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// LanguageDetails describes a language the catalog does not know yet.
func (p *Planner) LanguageDetails(ctx context.Context, name, base string) (*lesson.LanguageDetails, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalidInput("language name is required")
	}

	req := contract.CompletionRequest{
		Messages:   contract.UserPrompt(languageDetailsPrompt(name, base)),
		Schema:     languageDetailsSchema(),
		SchemaName: "language_details",
	}
	raw, err := p.complete(ctx, "generate.language_details", req)
	if err != nil {
		return nil, err
	}

	var details lesson.LanguageDetails
	if err := lesson.DecodeInto([]byte(raw), &details); err != nil {
		return nil, err
	}
	details.Name = name
	return &details, nil
}
