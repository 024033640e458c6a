// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/poiesic/answerit/ai"
	"github.com/poiesic/answerit/ai/mock"
	"github.com/poiesic/answerit/ai/openai"
	"github.com/poiesic/answerit/ai/vnpt"
	"github.com/poiesic/answerit/answer"
	"github.com/poiesic/answerit/chunker"
	"github.com/poiesic/answerit/core"
	"github.com/poiesic/answerit/corpus"
	"github.com/poiesic/answerit/embed"
	"github.com/poiesic/answerit/index"
	"github.com/poiesic/answerit/quota"
	"github.com/poiesic/answerit/remote"
	"github.com/poiesic/answerit/run"
	"github.com/poiesic/answerit/search"
)

func main() {
	app := &cli.App{
		Name:  "answerit",
		Usage: "Retrieval-grounded answering for multiple-choice question sets",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "chunk",
				Usage:  "Split a document corpus into overlapping retrieval chunks",
				Action: chunkCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "input",
						Aliases:  []string{"i"},
						Usage:    "Path to document corpus (JSONL)",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "output",
						Aliases:  []string{"o"},
						Usage:    "Path to write chunk records (JSONL)",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "config",
						Usage: "Named chunking configuration (small, medium, large)",
						Value: "small",
					},
					&cli.IntFlag{
						Name:  "chunk-size",
						Usage: "Override chunk size in words (0 uses the named configuration)",
					},
					&cli.IntFlag{
						Name:  "overlap",
						Usage: "Override overlap in words (applies with chunk-size)",
					},
					&cli.IntFlag{
						Name:  "min-words",
						Usage: "Discard chunks shorter than this many words",
					},
					&cli.StringFlag{
						Name:  "method",
						Usage: "Splitting method (sentence, words)",
						Value: "sentence",
					},
				},
			},
			{
				Name:   "index",
				Usage:  "Embed chunk records and build the retrieval index",
				Action: indexCommand,
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB index directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "input",
						Aliases:  []string{"i"},
						Usage:    "Path to chunk records (JSONL)",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "pool-size",
						Usage: "Number of concurrent embedding workers",
						Value: 4,
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of chunks to embed and store per batch",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "hourly-limit",
						Usage: "Maximum embedding calls per hour (0 disables)",
					},
				}, providerFlags()...),
			},
			{
				Name:   "answer",
				Usage:  "Answer a question set, resuming from previous output",
				Action: answerCommand,
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:     "questions",
						Aliases:  []string{"q"},
						Usage:    "Path to question set (JSON array)",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Path to answer CSV; existing rows are skipped",
						Value:   "submission.csv",
					},
					&cli.StringFlag{
						Name:  "timing",
						Usage: "Optional path for a per-question timing CSV",
					},
					&cli.StringFlag{
						Name:    "db",
						Aliases: []string{"d"},
						Usage:   "Path to BadgerDB index directory (omit for ungrounded answering)",
					},
					&cli.IntFlag{
						Name:  "hourly-limit",
						Usage: "Maximum generation calls per hour",
						Value: 60,
					},
					&cli.IntFlag{
						Name:  "daily-limit",
						Usage: "Maximum generation calls per day; the run pauses when reached",
						Value: 1000,
					},
					&cli.DurationFlag{
						Name:  "min-interval",
						Usage: "Minimum spacing between generation calls",
					},
					&cli.IntFlag{
						Name:  "top-k",
						Usage: "Number of passages to retrieve per question",
						Value: search.DefaultTopK,
					},
					&cli.Float64Flag{
						Name:  "threshold",
						Usage: "Maximum retrieval distance for a passage to count (0 disables)",
						Value: float64(search.DefaultThreshold),
					},
					&cli.IntFlag{
						Name:  "max-context",
						Usage: "Maximum characters of retrieved context per prompt",
						Value: answer.DefaultMaxContextChars,
					},
					&cli.StringFlag{
						Name:  "digit-policy",
						Usage: "How digit completions map to letters (offset, ordinal)",
						Value: "offset",
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N questions",
						Value: run.DefaultReportInterval,
					},
				}, providerFlags()...),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// providerFlags are shared by every command that talks to an AI service.
func providerFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "provider",
			Usage: "AI provider (vnpt, openai, mock)",
			Value: "vnpt",
		},
		&cli.StringFlag{
			Name:  "credentials",
			Usage: "Path to the API key file (vnpt provider)",
			Value: "api-keys.json",
		},
		&cli.StringFlag{
			Name:  "embedding-key",
			Usage: "Substring selecting the embedding credential by API name",
			Value: "embedding",
		},
		&cli.StringFlag{
			Name:  "generator-key",
			Usage: "Substring selecting the generation credential by API name",
			Value: "small",
		},
		&cli.StringFlag{
			Name:  "embedding-host",
			Usage: "Embedding service host URL (defaults to the provider's)",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name (defaults to the provider's)",
		},
		&cli.StringFlag{
			Name:  "generator-host",
			Usage: "Generation service host URL (defaults to the provider's)",
		},
		&cli.StringFlag{
			Name:  "generator-model",
			Usage: "Generation model name (defaults to the provider's)",
		},
	}
}

func chunkCommand(c *cli.Context) error {
	cfg, err := chunkConfig(c)
	if err != nil {
		return err
	}

	splitter, err := chunker.NewSplitter(cfg)
	if err != nil {
		return fmt.Errorf("invalid chunking configuration: %w", err)
	}

	documents, err := corpus.ReadDocumentsFile(c.String("input"))
	if err != nil {
		return fmt.Errorf("failed to read corpus: %w", err)
	}

	out, err := os.Create(c.String("output"))
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer out.Close()

	writer := corpus.NewWriter(out)
	for _, doc := range documents {
		for _, record := range corpus.ChunkDocument(doc, splitter) {
			if err := writer.Write(record); err != nil {
				return fmt.Errorf("failed to write chunk: %w", err)
			}
		}
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush output: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Chunked %d documents into %d chunks (%s)\n",
		len(documents), writer.Written(), cfg.ID)
	return nil
}

func chunkConfig(c *cli.Context) (chunker.Config, error) {
	var cfg chunker.Config
	switch c.String("config") {
	case "small":
		cfg = chunker.Small
	case "medium":
		cfg = chunker.Medium
	case "large":
		cfg = chunker.Large
	default:
		return chunker.Config{}, fmt.Errorf("unknown chunking configuration %q: must be one of small, medium, large", c.String("config"))
	}

	if size := c.Int("chunk-size"); size > 0 {
		cfg = chunker.Config{ID: "custom", ChunkSize: size, Overlap: c.Int("overlap")}
	}
	if minWords := c.Int("min-words"); minWords > 0 {
		cfg.MinWords = minWords
	}
	cfg.Method = chunker.Method(c.String("method"))
	return cfg, nil
}

func indexCommand(c *cli.Context) error {
	ctx := context.Background()

	records, err := corpus.ReadChunksFile(c.String("input"))
	if err != nil {
		return fmt.Errorf("failed to read chunks: %w", err)
	}
	records = dedupeChunks(records)
	if len(records) == 0 {
		return fmt.Errorf("no chunks found in %s", c.String("input"))
	}

	provider, err := buildProvider(c)
	if err != nil {
		return err
	}
	defer provider.Close()

	clientOpts := []embed.Option{embed.WithPoolSize(c.Int("pool-size"))}
	if limit := c.Int("hourly-limit"); limit > 0 {
		governor := quota.NewGovernor([]quota.Window{
			{Name: "hourly", Length: time.Hour, Capacity: limit},
		})
		clientOpts = append(clientOpts, embed.WithGovernor(governor))
	}

	client, err := embed.NewClient(provider.Embedder(), clientOpts...)
	if err != nil {
		return fmt.Errorf("failed to create embedding client: %w", err)
	}
	defer client.Release()

	store, err := index.OpenStore(c.String("db"), false)
	if err != nil {
		return fmt.Errorf("failed to open index: %w", err)
	}
	defer store.Close()

	batchSize := c.Int("batch-size")
	if batchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}

	fmt.Fprintf(os.Stderr, "Indexing %d chunks into %s (batch size: %d)\n",
		len(records), c.String("db"), batchSize)

	indexed := 0
	for start := 0; start < len(records); start += batchSize {
		end := start + batchSize
		if end > len(records) {
			end = len(records)
		}
		batch := records[start:end]

		texts := make([]string, len(batch))
		for i, record := range batch {
			texts[i] = record.Text
		}

		results, err := client.EncodeBatch(ctx, texts)
		if err != nil {
			return fmt.Errorf("failed to embed batch: %w", err)
		}

		// Fallback vectors are good enough for querying but would poison
		// the stored index, so those chunks are left out.
		entries := make([]core.IndexEntry, 0, len(batch))
		for i, record := range batch {
			if results[i].Fallback {
				continue
			}
			entries = append(entries, core.IndexEntry{
				Text:   record.Text,
				Domain: record.Domain,
				Source: record.OriginalID,
				Vector: results[i].Vector,
			})
		}
		if err := store.Add(ctx, entries...); err != nil {
			return fmt.Errorf("failed to store batch: %w", err)
		}
		indexed += len(entries)
	}

	count, err := store.Count()
	if err != nil {
		return fmt.Errorf("failed to count index entries: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Indexed %d of %d chunks (%d entries total, %d fallback embeddings skipped)\n",
		indexed, len(records), count, client.Cache().Fallbacks())
	return nil
}

// dedupeChunks keeps the first record for each distinct chunk text. The same
// passage appearing under several documents would otherwise cost an embedding
// call apiece and surface as duplicate retrieval hits.
func dedupeChunks(records []corpus.ChunkRecord) []corpus.ChunkRecord {
	seen := make(map[core.ID]struct{}, len(records))
	kept := records[:0]
	for _, record := range records {
		id := record.Chunk().ID
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		kept = append(kept, record)
	}
	return kept
}

func answerCommand(c *cli.Context) error {
	ctx := context.Background()

	questions, err := run.LoadQuestions(c.String("questions"))
	if err != nil {
		return err
	}

	provider, err := buildProvider(c)
	if err != nil {
		return err
	}
	defer provider.Close()

	pipelineOpts := []answer.Option{
		answer.WithMaxContextChars(c.Int("max-context")),
	}

	policy, err := digitPolicy(c.String("digit-policy"))
	if err != nil {
		return err
	}
	pipelineOpts = append(pipelineOpts, answer.WithDigitPolicy(policy))

	if dbPath := c.String("db"); dbPath != "" {
		store, err := index.OpenStore(dbPath, false)
		if err != nil {
			return fmt.Errorf("failed to open index: %w", err)
		}
		defer store.Close()

		flat, err := store.Load(ctx)
		if err != nil {
			return fmt.Errorf("failed to load index: %w", err)
		}

		client, err := embed.NewClient(provider.Embedder())
		if err != nil {
			return fmt.Errorf("failed to create embedding client: %w", err)
		}
		defer client.Release()

		retriever, err := search.NewRetriever(flat, client,
			search.WithTopK(c.Int("top-k")),
			search.WithThreshold(float32(c.Float64("threshold"))),
		)
		if err != nil {
			return fmt.Errorf("failed to create retriever: %w", err)
		}
		pipelineOpts = append(pipelineOpts, answer.WithRetriever(retriever))
	}

	pipeline, err := answer.NewPipeline(provider.Generator(), pipelineOpts...)
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}

	progress, err := run.OpenProgressLog(c.String("output"))
	if err != nil {
		return err
	}
	defer progress.Close()

	governorOpts := []quota.Option{}
	if interval := c.Duration("min-interval"); interval > 0 {
		governorOpts = append(governorOpts, quota.WithMinInterval(interval))
	}
	governor := quota.NewGovernor([]quota.Window{
		{Name: "hourly", Length: time.Hour, Capacity: c.Int("hourly-limit")},
		{Name: "daily", Length: 24 * time.Hour, Capacity: c.Int("daily-limit"), Hard: true},
	}, governorOpts...)

	runnerOpts := []run.Option{
		run.WithGovernor(governor),
		run.WithTrackerOutput(os.Stderr),
		run.WithReportInterval(c.Int("report-interval")),
	}
	if timingPath := c.String("timing"); timingPath != "" {
		timing, err := run.CreateTimingLog(timingPath)
		if err != nil {
			return err
		}
		defer timing.Close()
		runnerOpts = append(runnerOpts, run.WithTimingLog(timing))
	}

	runner, err := run.NewRunner(pipeline, progress, runnerOpts...)
	if err != nil {
		return fmt.Errorf("failed to create runner: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Questions: %d (%d already answered)\n", len(questions), progress.DoneCount())

	summary, err := runner.Run(ctx, questions)
	if err != nil {
		return fmt.Errorf("run failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Answered %d questions in %v (%d skipped, %d fallbacks)\n",
		summary.Answered, summary.Elapsed.Round(time.Second), summary.Skipped, summary.Fallbacks)
	if summary.Paused {
		fmt.Fprintln(os.Stderr, "Daily quota reached; rerun later to resume from the output file")
	}
	return nil
}

// buildProvider constructs the AI provider selected by the shared flags.
func buildProvider(c *cli.Context) (ai.Provider, error) {
	configOpts := []ai.ConfigOption{}
	if host := c.String("embedding-host"); host != "" {
		configOpts = append(configOpts, ai.WithEmbeddingHost(host))
	}
	if model := c.String("embedding-model"); model != "" {
		configOpts = append(configOpts, ai.WithEmbeddingModel(model))
	}
	if host := c.String("generator-host"); host != "" {
		configOpts = append(configOpts, ai.WithGeneratorHost(host))
	}
	if model := c.String("generator-model"); model != "" {
		configOpts = append(configOpts, ai.WithGeneratorModel(model))
	}
	config := ai.NewConfig(configOpts...)

	switch c.String("provider") {
	case "mock":
		return mock.NewMockProvider(), nil

	case "openai":
		provider, err := openai.NewProvider(config)
		if err != nil {
			return nil, fmt.Errorf("failed to create openai provider: %w", err)
		}
		return provider, nil

	case "vnpt":
		creds, err := remote.LoadCredentials(c.String("credentials"))
		if err != nil {
			return nil, err
		}
		embedCreds, err := remote.SelectCredentials(creds, c.String("embedding-key"))
		if err != nil {
			return nil, fmt.Errorf("no embedding credential: %w", err)
		}
		genCreds, err := remote.SelectCredentials(creds, c.String("generator-key"))
		if err != nil {
			return nil, fmt.Errorf("no generation credential: %w", err)
		}
		provider, err := vnpt.NewProvider(config, embedCreds, genCreds)
		if err != nil {
			return nil, fmt.Errorf("failed to create vnpt provider: %w", err)
		}
		return provider, nil

	default:
		return nil, fmt.Errorf("unknown provider %q: must be one of vnpt, openai, mock", c.String("provider"))
	}
}

func digitPolicy(name string) (answer.DigitPolicy, error) {
	switch name {
	case "offset":
		return answer.DigitOffset, nil
	case "ordinal":
		return answer.DigitOrdinal, nil
	default:
		return 0, fmt.Errorf("unknown digit policy %q: must be offset or ordinal", name)
	}
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
