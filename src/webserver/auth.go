package webserver

import (
	"crypto/ed25519"
	"encoding/hex"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/stake-plus/govtool/src/cardano"
	"github.com/stake-plus/govtool/src/data"
)

type Auth struct {
	rdb       redis.Cmdable
	jwtSecret []byte
	logger    *zap.Logger
}

func NewAuth(rdb redis.Cmdable, secret []byte, logger *zap.Logger) Auth {
	return Auth{rdb: rdb, jwtSecret: secret, logger: logger}
}

func decodeHex(s string) ([]byte, error) {
	return hex.DecodeString(strings.TrimPrefix(s, "0x"))
}

func decodePublicKey(s string) (ed25519.PublicKey, error) {
	raw, err := decodeHex(s)
	if err != nil {
		return nil, err
	}
	if len(raw) != ed25519.PublicKeySize {
		return nil, errors.New("invalid public key length")
	}
	return ed25519.PublicKey(raw), nil
}

// Challenge issues a nonce for the DRep credential of publicKey.
func (a Auth) Challenge(c *gin.Context) {
	var req struct {
		PublicKey string `json:"publicKey" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}
	pub, err := decodePublicKey(req.PublicKey)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}
	drep, err := cardano.DRepIDFromPublicKey(pub)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}
	nonce := uuid.NewString()
	if err := data.SetNonce(c.Request.Context(), a.rdb, drep, nonce); err != nil {
		a.logger.Error("store nonce", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"err": "could not create challenge"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"nonce": nonce, "drepId": drep})
}

// Verify checks an ed25519 signature over the nonce and issues a token.
func (a Auth) Verify(c *gin.Context) {
	var req struct {
		PublicKey string `json:"publicKey" binding:"required"`
		Signature string `json:"signature" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}
	pub, err := decodePublicKey(req.PublicKey)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}
	drep, err := cardano.DRepIDFromPublicKey(pub)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}
	nonce, err := data.GetAndDelNonce(c.Request.Context(), a.rdb, drep)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"err": "challenge expired"})
		return
	}
	sig, err := decodeHex(req.Signature)
	if err != nil || len(sig) != ed25519.SignatureSize || !ed25519.Verify(pub, []byte(nonce), sig) {
		a.logger.Info("signature verification failed", zap.String("drep", drep))
		c.JSON(http.StatusUnauthorized, gin.H{"err": "bad signature"})
		return
	}
	token, err := issueJWT(drep, a.jwtSecret)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"err": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "drepId": drep})
}
