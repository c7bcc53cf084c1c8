package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/agenthands/mediascreen/internal/config"
	"github.com/agenthands/mediascreen/internal/core"
	"github.com/agenthands/mediascreen/internal/core/conflict"
	"github.com/agenthands/mediascreen/internal/core/extraction"
	"github.com/agenthands/mediascreen/internal/core/filter"
	"github.com/agenthands/mediascreen/internal/core/model"
	"github.com/agenthands/mediascreen/internal/core/validate"
	"github.com/agenthands/mediascreen/internal/llm"
)

type Server struct {
	Screener *core.Screener
}

// NewServer wires the pipeline from configuration. The config file is
// optional; env vars override either way.
func NewServer() *Server {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config/config.toml"
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Printf("Warning: could not load %s: %v. Using built-in defaults.", cfgPath, err)
		cfg = config.Default()
	}
	cfg.ApplyEnv()

	nicknames, err := config.LoadNicknames(cfg.NicknamesPath)
	if err != nil {
		log.Printf("Warning: could not load nickname table: %v. Using built-in table.", err)
		nicknames = config.DefaultNicknames()
	}

	llmClient, err := llm.NewClient(context.Background(), cfg.LLM)
	if err != nil {
		log.Fatalf("Failed to initialize LLM client: %v", err)
	}

	return &Server{Screener: buildScreener(cfg, llmClient, nicknames)}
}

// buildScreener assembles the pipeline for a given client and table; split
// out so tests can inject a mock LLM.
func buildScreener(cfg config.Config, llmClient llm.LLMClient, nicknames *config.NicknameTable) *core.Screener {
	extractor := extraction.NewLLMExtractor(llmClient, cfg.Prompts.Extraction)
	detector := conflict.NewDetector(cfg.Thresholds, cfg.Excerpt.ConflictWindow)
	stage1 := filter.NewFilter(extractor, detector, nicknames, cfg.Thresholds)
	validator := validate.NewValidator(llmClient, cfg.Prompts.Validation, cfg.Thresholds.Confidence,
		time.Duration(cfg.TimeoutSeconds)*time.Second)
	cache := validate.NewCache(cfg.Cache.Capacity)

	return core.NewScreener(stage1, validator, cache, core.VersionsFromConfig(cfg.Versions), cfg.Excerpt.Window)
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.Default()

	r.POST("/api/match", s.Match)
	r.GET("/api/health", s.Health)

	return r
}

func (s *Server) Match(c *gin.Context) {
	var req model.MatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	resp, err := s.Screener.Match(c.Request.Context(), req.Candidate, req.Article)
	if err != nil {
		if errors.Is(err, core.ErrEmptyName) || errors.Is(err, core.ErrEmptyArticle) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		log.Printf("Failed to process match request: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}
