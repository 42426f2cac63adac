package webserver

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/stake-plus/govtool/src/cardano"
	"github.com/stake-plus/govtool/src/metadata"
	"github.com/stake-plus/govtool/src/registration"
)

type DRep struct {
	registrar *registration.Registrar
	metrics   *metrics
	logger    *zap.Logger
}

func NewDRep(registrar *registration.Registrar, m *metrics, logger *zap.Logger) DRep {
	return DRep{registrar: registrar, metrics: m, logger: logger}
}

func (d DRep) session(c *gin.Context) (*registration.Session, *registration.Recorder, bool) {
	kh, err := cardano.ParseDRepID(c.GetString(ctxDRep))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"err": err.Error()})
		return nil, nil, false
	}
	s, rec := d.registrar.Session(kh)
	return s, rec, true
}

func bindValues(c *gin.Context) (registration.RegisterAsDRepValues, bool) {
	values := registration.DefaultRegisterAsDRepValues()
	if err := c.ShouldBindJSON(&values); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return values, false
	}
	return values, true
}

// Metadata generates the document for the posted form and returns its hash.
func (d DRep) Metadata(c *gin.Context) {
	s, _, ok := d.session(c)
	if !ok {
		return
	}
	values, ok := bindValues(c)
	if !ok {
		return
	}
	doc, err := s.GenerateMetadata(values)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"jsonld":   doc.JSONLD,
		"hash":     doc.Hash,
		"fileName": metadata.FileName(values.DRepName),
	})
}

// Download returns the document as an attachment.
func (d DRep) Download(c *gin.Context) {
	s, _, ok := d.session(c)
	if !ok {
		return
	}
	values, ok := bindValues(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	name, err := s.OnClickDownloadJSON(&buf, values)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Header("X-Metadata-Hash", s.Hash(values))
	c.Data(http.StatusOK, "application/ld+json", buf.Bytes())
}

// Validate checks the hosted document against the session hash.
func (d DRep) Validate(c *gin.Context) {
	s, rec, ok := d.session(c)
	if !ok {
		return
	}
	values, ok := bindValues(c)
	if !ok {
		return
	}
	if err := s.ValidateHash(c.Request.Context(), values.StoringURL, s.Hash(values)); err != nil {
		d.validationFailed(c, err, rec)
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": true})
}

func (d DRep) validationFailed(c *gin.Context, err error, rec *registration.Recorder) {
	body := gin.H{"err": err.Error(), "view": rec.View()}
	if kind, ok := metadata.KindOf(err); ok {
		body["kind"] = kind
		c.JSON(http.StatusUnprocessableEntity, body)
		return
	}
	c.JSON(http.StatusBadGateway, body)
}

// Register runs validation, certificate building and submission.
func (d DRep) Register(c *gin.Context) {
	s, rec, ok := d.session(c)
	if !ok {
		return
	}
	values, ok := bindValues(c)
	if !ok {
		return
	}
	res, err := s.RegisterAsDRep(c.Request.Context(), values)
	if errors.Is(err, registration.ErrRegistrationInProgress) {
		c.JSON(http.StatusConflict, gin.H{"err": err.Error()})
		return
	}
	d.metrics.registrations.WithLabelValues(string(res.State)).Inc()
	if err != nil {
		body := gin.H{"err": err.Error(), "result": res, "view": rec.View()}
		if kind, ok := metadata.KindOf(err); ok {
			body["kind"] = kind
		}
		c.JSON(http.StatusUnprocessableEntity, body)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": res, "view": rec.View()})
}

func (d DRep) View(c *gin.Context) {
	s, rec, ok := d.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"view":      rec.View(),
		"state":     s.State(),
		"isLoading": s.IsLoading(),
	})
}

// Action runs a modal button.
func (d DRep) Action(c *gin.Context) {
	_, rec, ok := d.session(c)
	if !ok {
		return
	}
	var req struct {
		Action string `json:"action" binding:"required,oneof=backToForm backToDashboard"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}
	registration.RunAction(rec, registration.Action(req.Action))
	c.JSON(http.StatusOK, gin.H{"view": rec.View()})
}
