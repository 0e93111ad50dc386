package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"prescription-chatbot/internal/core"
	"prescription-chatbot/internal/db"
	httpserver "prescription-chatbot/internal/http"
	"prescription-chatbot/internal/llm"
	"prescription-chatbot/internal/observability"
	"prescription-chatbot/internal/session"

	_ "github.com/lib/pq"
)

func main() {
	// Load environment variables; a missing .env file is fine.
	_ = godotenv.Load()
	observability.InitLogger("prescription-chatbot", os.Getenv("APP_ENV"))

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal().Msg("DATABASE_URL must be set")
	}
	// Open database connection
	dbConn, err := sql.Open("postgres", dbURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbConn.PingContext(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to ping database")
	}
	if err := db.Migrate(context.Background(), dbConn); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}
	repo := db.NewRepository(dbConn)

	// Pending prescriptions live in Redis when configured, otherwise in
	// process memory.
	var sessions session.Store
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		redisDB := 0
		if v, err := strconv.Atoi(os.Getenv("REDIS_DB")); err == nil {
			redisDB = v
		}
		rs, err := session.NewRedisStore(addr, os.Getenv("REDIS_PASSWORD"), redisDB)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer rs.Close()
		sessions = rs
		log.Info().Str("addr", addr).Msg("using redis session store")
	} else {
		sessions = session.NewMemoryStore()
		log.Info().Msg("REDIS_ADDR not set; using in-memory session store")
	}

	// Initialize the extraction client (uses env: OPENAI_API_KEY,
	// OPENAI_MODEL_EXTRACT).  Without an API key the extractor degrades
	// to rule-based parsing only.
	var extractor *core.Extractor
	if os.Getenv("OPENAI_API_KEY") != "" {
		extractor = core.NewExtractor(llm.NewOpenAIClient())
	} else {
		log.Warn().Msg("OPENAI_API_KEY not set; extraction overrides disabled")
	}
	builder := core.NewBuilder(extractor)
	engine := core.NewEngine(builder, sessions, repo)

	srv := httpserver.NewServer(engine, repo)
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	addr := ":" + port
	log.Info().Str("addr", addr).Msg("listening")
	if err := http.ListenAndServe(addr, srv); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}
