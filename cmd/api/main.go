package main

import (
	"log"
	"log/slog"
	"os"
	"strconv"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"newspulse/db"
	"newspulse/internal/handler"
	"newspulse/internal/ingest"
	"newspulse/internal/query"
	"newspulse/internal/repository"
	"newspulse/pkg/llm"
)

func main() {

	godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	err := db.Connect()
	if err != nil {
		log.Fatalf("error connecting to DB: %v", err)
	}
	defer db.Close()

	articleRepo := repository.NewArticleRepository(db.DB)

	var queue ingest.Queue
	if err := db.ConnectRedis(); err != nil {
		slog.Warn("redis unavailable, enrichment queue disabled", "error", err)
	} else {
		defer db.CloseRedis()
		queue = db.EnrichQueue{}
	}

	pipeline := ingest.NewPipeline(ingest.PipelineDeps{
		Store:    articleRepo,
		Enhancer: llm.NewFromEnv(),
		Queue:    queue,
		AuthorID: ingestAuthorID(),
	})

	articleHandler := handler.NewArticleHandler(articleRepo, query.NewService(articleRepo), pipeline, llm.NewFromEnv())

	r := gin.Default()

	allowedOrigins := []string{"http://localhost:3000"}

	if frontendURL := os.Getenv("FRONTEND_URL"); frontendURL != "" {
		allowedOrigins = append(allowedOrigins, frontendURL)
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins: allowedOrigins,
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type"},
	}))

	r.GET("/api/news", articleHandler.GetArticles)
	r.GET("/api/news/:id", articleHandler.GetArticle)
	r.POST("/api/news/batch", articleHandler.PostBatch)
	r.POST("/api/news/:id/variants", articleHandler.PostVariants)
	r.POST("/api/news/:id/sentiment", articleHandler.PostSentiment)
	r.GET("/health", articleHandler.GetHealth)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	err = r.Run(":" + port)
	if err != nil {
		log.Fatalf("error starting server: %v", err)
	}
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
