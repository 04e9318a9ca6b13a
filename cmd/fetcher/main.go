package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"newspulse/db"
	"newspulse/internal/ingest"
	"newspulse/internal/repository"
	"newspulse/internal/scheduler"
	"newspulse/pkg/llm"
	"newspulse/pkg/news"
)

// newsAPICountries is the fixed top-headlines rotation. One partition is
// fetched per tick, so full coverage takes len(rotation) ticks.
var newsAPICountries = []string{
	"us", "gb", "ca", "au", "in", "jp", "de", "fr", "br", "za",
	"ae", "sg", "cn", "ru", "mx", "ng", "eg", "kr", "it", "tr",
}

func main() {

	godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	err := db.Connect()
	if err != nil {
		log.Fatalf("error connecting to DB: %v", err)
	}
	defer db.Close()

	var queue ingest.Queue
	if err := db.ConnectRedis(); err != nil {
		slog.Warn("redis unavailable, enrichment queue disabled", "error", err)
	} else {
		defer db.CloseRedis()
		queue = db.EnrichQueue{}
	}

	pipeline := ingest.NewPipeline(ingest.PipelineDeps{
		Store:    repository.NewArticleRepository(db.DB),
		Enhancer: llm.NewFromEnv(),
		Queue:    queue,
		AuthorID: ingestAuthorID(),
	})

	interval := fetchInterval()

	var schedulers []*scheduler.Scheduler

	if key := os.Getenv("NEWS_API_KEY"); key != "" {
		src := news.NewNewsAPIClient(key)

		rotation := make([]news.Request, 0, len(newsAPICountries)+1)
		for _, country := range newsAPICountries {
			rotation = append(rotation, news.Request{Country: country, PageSize: 20})
		}
		rotation = append(rotation, news.Request{Trending: true, PageSize: 20})

		schedulers = append(schedulers, scheduler.New(scheduler.Config{
			Name:        src.Name(),
			Rotation:    rotation,
			MinInterval: interval,
			Job:         sweepJob(src, pipeline),
		}))
	}

	if key := os.Getenv("NEWSROOM_API_KEY"); key != "" {
		src := news.NewNewsroomClient(key)

		schedulers = append(schedulers, scheduler.New(scheduler.Config{
			Name:        src.Name(),
			Rotation:    []news.Request{{}},
			MinInterval: interval,
			Job:         sweepJob(src, pipeline),
		}))
	}

	if len(schedulers) == 0 {
		slog.Error("no news source API keys configured")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	for _, s := range schedulers {
		wg.Add(1)
		go func(s *scheduler.Scheduler) {
			defer wg.Done()
			s.Start(ctx)
		}(s)
	}

	slog.Info("fetch schedulers started", "sources", len(schedulers), "interval", interval.String())

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down fetchers")
	cancel()
	wg.Wait()
}

// sweepJob fetches one partition and hands the batch to the pipeline.
// Errors are logged and dropped so the rotation keeps advancing.
func sweepJob(src news.Source, pipeline *ingest.Pipeline) scheduler.Job {
	return func(ctx context.Context, req news.Request) {
		fetchCtx, cancel := context.WithTimeout(ctx, 60*time.Second)
		defer cancel()

		raws, err := src.Fetch(fetchCtx, req)
		if err != nil {
			slog.Error("error fetching articles", "source", src.Name(), "country", req.CountryTag(), "error", err)
			return
		}

		res := pipeline.Ingest(ctx, raws, req.Category, req.CountryTag(), src.Name())

		slog.Info("fetch complete", "source", src.Name(), "country", req.CountryTag(),
			"saved", res.Saved, "duplicated", res.Duplicated, "errors", res.Errors)
	}
}

func fetchInterval() time.Duration {
	raw := os.Getenv("FETCH_INTERVAL")
	if raw == "" {
		return time.Minute
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		slog.Warn("invalid FETCH_INTERVAL, using default", "value", raw)
		return time.Minute
	}
	return d
}

func ingestAuthorID() *int64 {
	raw := os.Getenv("INGEST_AUTHOR_ID")
	if raw == "" {
		return nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		slog.Warn("invalid INGEST_AUTHOR_ID, ignoring", "value", raw)
		return nil
	}
	return &id
}
