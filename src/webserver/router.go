package webserver

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func attachRoutes(r *gin.Engine, d Deps) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     d.Server.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
	}))

	m := newMetrics()
	r.Use(m.middleware())
	r.GET("/metrics", m.handler())
	r.GET("/health", Health{db: d.DB}.Check)

	secret := []byte(d.Server.JWTSecret)
	authH := NewAuth(d.Redis, secret, d.Logger)
	propH := NewProposals(d.Proposals, d.Votes, d.VoterInfo, d.Redis, d.Logger)
	drepH := NewDRep(d.Registrar, m, d.Logger)
	discH := NewDiscussion(d.Discussion)

	v1 := r.Group("/v1")
	v1.Use(OptionalJWT(secret), RateLimitMiddleware(NewRateLimiter(d.Server.RateLimit, d.Server.RateWindow)))
	{
		v1.POST("/auth/challenge", authH.Challenge)
		v1.POST("/auth/verify", authH.Verify)

		v1.GET("/proposals", propH.List)
		v1.GET("/proposals/:id/comments", discH.Comments)
		v1.GET("/proposals/:id/reactions", discH.ProposalReactions)
		v1.GET("/polls/:id", discH.Poll)

		secured := v1.Group("")
		secured.Use(RequireDRep())
		secured.GET("/drep/info", propH.VoterInfo)
		secured.GET("/drep/votes", propH.Votes)
		secured.POST("/votes", propH.Cast)

		secured.POST("/drep/metadata", drepH.Metadata)
		secured.POST("/drep/metadata/download", drepH.Download)
		secured.POST("/drep/metadata/validate", drepH.Validate)
		secured.POST("/drep/register", drepH.Register)
		secured.GET("/drep/register/view", drepH.View)
		secured.POST("/drep/register/action", drepH.Action)

		secured.POST("/proposals/:id/comments", discH.AddComment)
		secured.POST("/comments/:id/replies", discH.Reply)
		secured.POST("/reactions", discH.React)
		secured.POST("/proposals/:id/poll", discH.CreatePoll)
		secured.POST("/polls/:id/votes", discH.VotePoll)
		secured.POST("/polls/:id/close", discH.ClosePoll)
	}
}
