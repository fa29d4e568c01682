// Package api serves the vectoriser over HTTP.
//
// Routes:
//
//	GET  /healthz          liveness probe
//	GET  /api/categories   the category table
//	POST /api/vectorize    multipart upload, field "label"; returns the record
//
// POST /api/vectorize accepts the query parameters format (json|geojson),
// strategy, polyline_epsilon and polygon_epsilon.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ironsheep/label-vectorizer/internal/batch"
	"github.com/ironsheep/label-vectorizer/internal/imaging"
	"github.com/ironsheep/label-vectorizer/internal/log"
	"github.com/ironsheep/label-vectorizer/internal/vectorize"
)

const logTag = "api: "

// MaxUploadBytes caps the size of an uploaded label image.
const MaxUploadBytes = 64 << 20

type handler struct {
	ex *vectorize.Extractor
}

// SetupRouter builds the gin engine serving ex.
func SetupRouter(ex *vectorize.Extractor) *gin.Engine {
	h := &handler{ex: ex}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())
	r.MaxMultipartMemory = MaxUploadBytes

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		api.GET("/categories", h.categories)
		api.POST("/vectorize", h.vectorize)
	}

	return r
}

// requestLogger logs one line per request through the process logger.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info(logTag+"request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)))
	}
}

func abort(c *gin.Context, status int, err error) {
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

func (h *handler) categories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": h.ex.Table().Categories()})
}

func (h *handler) vectorize(c *gin.Context) {
	format, err := batch.ParseFormat(c.Query("format"))
	if err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}
	ex, err := h.extractorFor(c)
	if err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}

	fh, err := c.FormFile("label")
	if err != nil {
		abort(c, http.StatusBadRequest, fmt.Errorf("multipart field \"label\" is required: %w", err))
		return
	}
	if fh.Size > MaxUploadBytes {
		abort(c, http.StatusRequestEntityTooLarge, fmt.Errorf("label image exceeds %d bytes", MaxUploadBytes))
		return
	}
	f, err := fh.Open()
	if err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}
	defer f.Close()

	labels, err := imaging.DecodeLabels(f)
	if err != nil {
		abort(c, http.StatusUnprocessableEntity, err)
		return
	}

	rec, ok, err := ex.Extract(fh.Filename, labels)
	switch {
	case errors.Is(err, vectorize.ErrUnknownClass):
		log.Error(logTag+"image rejected", zap.String("file", fh.Filename), zap.Error(err))
		abort(c, http.StatusUnprocessableEntity, err)
		return
	case err != nil:
		abort(c, http.StatusInternalServerError, err)
		return
	case !ok:
		rec = vectorize.Record{File: fh.Filename, Features: []vectorize.Feature{}}
	}

	if format == batch.FormatGeoJSON {
		data, err := batch.FeatureCollection([]vectorize.Record{rec}).MarshalJSON()
		if err != nil {
			abort(c, http.StatusInternalServerError, err)
			return
		}
		c.Data(http.StatusOK, "application/geo+json", data)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// extractorFor applies the query overrides to the handler's extractor.
func (h *handler) extractorFor(c *gin.Context) (*vectorize.Extractor, error) {
	strategy, hasStrategy := c.GetQuery("strategy")
	lineEps, hasLine := c.GetQuery("polyline_epsilon")
	polyEps, hasPoly := c.GetQuery("polygon_epsilon")
	if !hasStrategy && !hasLine && !hasPoly {
		return h.ex, nil
	}

	opts := h.ex.Options()
	if hasStrategy {
		s, err := vectorize.ParseStrategy(strategy)
		if err != nil {
			return nil, err
		}
		opts.Strategy = s
	}
	for _, q := range []struct {
		name string
		raw  string
		set  bool
		dst  *float64
	}{
		{"polyline_epsilon", lineEps, hasLine, &opts.PolylineEpsilon},
		{"polygon_epsilon", polyEps, hasPoly, &opts.PolygonEpsilon},
	} {
		if !q.set {
			continue
		}
		v, err := strconv.ParseFloat(q.raw, 64)
		if err != nil {
			return nil, fmt.Errorf("%s: %q is not a number", q.name, q.raw)
		}
		*q.dst = v
	}
	return vectorize.New(opts)
}

// Serve listens on addr until ctx is cancelled, then shuts down gracefully.
func Serve(ctx context.Context, addr string, h http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(logTag+"listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		log.Info(logTag+"stopped")
		return nil
	}
}
