// handlers.go - HTTP-Handler fuer Detektion, Rendering und Registry
// Hauptfunktionen: DetectHandler, DrawHandler, ListHandler, PullHandler,
// ClearCacheHandler

package server

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"net/http"
	"os"

	"github.com/disintegration/imaging"
	"github.com/gin-gonic/gin"

	"github.com/linyu92/sd-webui-segment-anything/api"
	"github.com/linyu92/sd-webui-segment-anything/dino"
	"github.com/linyu92/sd-webui-segment-anything/draw"
	"github.com/linyu92/sd-webui-segment-anything/vision"
)

// DefaultBoxThreshold wird verwendet wenn der Request keinen
// Threshold angibt
const DefaultBoxThreshold float32 = 0.3

// DetectHandler fuehrt eine Objekt-Detektion aus (POST /api/detect)
func (s *Server) DetectHandler(c *gin.Context) {
	var req api.DetectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	switch {
	case req.Model == "":
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "model is required"})
		return
	case req.Prompt == "":
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "prompt is required"})
		return
	case len(req.Image) == 0:
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "image is required"})
		return
	}

	threshold := req.BoxThreshold
	if threshold <= 0 {
		threshold = DefaultBoxThreshold
	}

	input, err := vision.LoadImageFromBytes(req.Image)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	boxes, ok, err := s.det.Predict(c.Request.Context(), input.Image, req.Model, req.Prompt, threshold)
	switch {
	case errors.Is(err, dino.ErrUnknownModel):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case err != nil:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if !ok {
		// Soft-Fail: Runtime fehlt, Feature fuer die Session deaktivieren
		c.JSON(http.StatusOK, api.DetectResponse{Available: false})
		return
	}

	if boxes == nil {
		boxes = []api.Rect{}
	}

	c.JSON(http.StatusOK, api.DetectResponse{Boxes: boxes, Available: true})
}

// DrawHandler rendert Boxen in eine Bild-Kopie (POST /api/draw)
func (s *Server) DrawHandler(c *gin.Context) {
	var req api.DrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if len(req.Image) == 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "image is required"})
		return
	}

	input, err := vision.LoadImageFromBytes(req.Image)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	opts := draw.DefaultOptions()
	if req.Color != [4]uint8{} {
		opts.Color = color.RGBA{R: req.Color[0], G: req.Color[1], B: req.Color[2], A: req.Color[3]}
	}
	if req.Thickness > 0 {
		opts.Thickness = req.Thickness
	}
	opts.ShowIndex = req.ShowIndex

	annotated := draw.Boxes(input.Image, req.Boxes, opts)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, annotated, imaging.PNG); err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, api.DrawResponse{Image: buf.Bytes()})
}

// ListHandler listet registrierte Modelle samt Download-Status
// (GET /api/tags)
func (s *Server) ListHandler(c *gin.Context) {
	resp := api.ListResponse{Models: []api.ModelResponse{}}

	for _, d := range dino.Models() {
		m := api.ModelResponse{
			Name:       d.Name,
			Checkpoint: d.Checkpoint,
		}

		if fi, err := os.Stat(d.CheckpointPath()); err == nil {
			m.Downloaded = true
			m.Size = fi.Size()
			m.ModifiedAt = fi.ModTime()
		}

		resp.Models = append(resp.Models, m)
	}

	c.JSON(http.StatusOK, resp)
}

// PullHandler laedt den Checkpoint eines Modells herunter
// (POST /api/pull)
func (s *Server) PullHandler(c *gin.Context) {
	var req api.PullRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	d, ok := dino.Lookup(req.Model)
	if !ok {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("model %q not found", req.Model)})
		return
	}

	if _, err := DownloadCheckpoint(c.Request.Context(), d); err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, api.ProgressResponse{Status: "success", Checkpoint: d.Checkpoint})
}

// ClearCacheHandler entlaedt das gecachte Modell (DELETE /api/cache)
func (s *Server) ClearCacheHandler(c *gin.Context) {
	s.det.ClearCache()
	c.Status(http.StatusOK)
}
