package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"newspulse/db"
	"newspulse/internal/model"
	"newspulse/internal/repository"
	"newspulse/pkg/llm"
)

// The enricher drains the enrichment queue: for each stored article id it
// generates platform variants and a sentiment analysis. Both are best
// effort; a failed id goes to the dead-letter list and the worker moves on.
func main() {

	godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	err := db.ConnectRedis()
	if err != nil {
		log.Fatalf("error connecting to Redis: %v", err)
	}
	defer db.CloseRedis()

	err = db.Connect()
	if err != nil {
		log.Fatalf("error connecting to DB: %v", err)
	}
	defer db.Close()

	repo := repository.NewArticleRepository(db.DB)

	enhancer := llm.NewFromEnv()
	if enhancer == nil {
		slog.Error("no LLM API key configured")
		return
	}

	for {
		id, err := db.PopFromQueue(db.EnrichQueueKey, 0)
		if err != nil {
			slog.Error("error popping from Redis queue", "error", err)
			break
		}

		articleID, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			slog.Error("invalid article id in queue", "id", id, "error", err)
			continue
		}

		if err := enrich(repo, enhancer, articleID); err != nil {
			slog.Error("error enriching article", "error", err, "article_id", articleID)
			db.PushToQueue(db.DeadLetterKey, id)
			time.Sleep(5 * time.Second)
			continue
		}

		slog.Info("article enriched", "article_id", articleID)
	}
}

func enrich(repo *repository.ArticleRepository, enhancer llm.Enhancer, articleID int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	article, err := repo.GetByID(ctx, articleID)
	if errors.Is(err, repository.ErrNotFound) {
		slog.Warn("article not found, skipping", "article_id", articleID)
		return nil
	}
	if err != nil {
		return err
	}

	variants, err := enhancer.GenerateVariants(ctx, article.Title, article.Content())
	if err != nil {
		return err
	}

	err = repo.SaveVariants(ctx, &model.ArticleVariants{
		ArticleID:   articleID,
		SocialPost:  variants.SocialPost,
		ShortForm:   variants.ShortForm,
		NewsChannel: variants.NewsChannel,
		ModelUsed:   variants.ModelUsed,
	})
	if err != nil {
		return err
	}

	analysis, err := enhancer.AnalyzeSentiment(ctx, article.Content())
	if err != nil {
		return err
	}

	return repo.SaveSentiment(ctx, &model.SentimentAnalysis{
		ArticleID:     articleID,
		Sentiment:     analysis.Sentiment,
		Objectivity:   analysis.Objectivity,
		KeyThemes:     analysis.KeyThemes,
		PotentialBias: analysis.PotentialBias,
		ModelUsed:     analysis.ModelUsed,
	})
}
