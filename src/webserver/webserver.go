package webserver

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/stake-plus/govtool/src/config"
	"github.com/stake-plus/govtool/src/discussion"
	"github.com/stake-plus/govtool/src/proposals"
	"github.com/stake-plus/govtool/src/registration"
)

// VoteRecorder stores votes cast through the API.
type VoteRecorder interface {
	RecordVote(ctx context.Context, dRepID, govActionID, vote, txHash string) error
}

// Deps are the services the API exposes.
type Deps struct {
	Server     config.ServerConfig
	DB         *gorm.DB
	Redis      redis.Cmdable
	Proposals  *proposals.Service
	Votes      VoteRecorder
	VoterInfo  proposals.VoterInfoProvider
	Registrar  *registration.Registrar
	Discussion *discussion.Service
	Logger     *zap.Logger
}

func New(d Deps) *gin.Engine {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	g := gin.New()
	g.Use(requestLogger(d.Logger), gin.Recovery())
	attachRoutes(g, d)
	return g
}

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()),
		)
	}
}

type Health struct{ db *gorm.DB }

func (h Health) Check(c *gin.Context) {
	if h.db != nil {
		sqlDB, err := h.db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "down", "err": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
