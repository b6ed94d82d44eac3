// Package api exposes the loader, filter, aggregate and stats operations over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	d "github.com/invertedv/crimedf"
	"github.com/invertedv/crimedf/loader"
	gometrics "github.com/rcrowley/go-metrics"
	"github.com/sirupsen/logrus"
)

type Config struct {
	Title          string
	Version        string
	AllowedOrigins []string
}

type Server struct {
	conf    *Config
	log     logrus.FieldLogger
	store   *loader.Store
	metrics gometrics.Registry
}

func New(store *loader.Store, conf *Config, log logrus.FieldLogger) *Server {
	if conf == nil {
		conf = &Config{}
	}

	if log == nil {
		log = logrus.StandardLogger()
	}

	return &Server{
		conf:    conf,
		log:     log.WithField("module", "api"),
		store:   store,
		metrics: gometrics.NewRegistry(),
	}
}

// Handler returns a gin engine with every route installed.
func (svr *Server) Handler() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	svr.Route(r)

	return r
}

func (svr *Server) Route(r *gin.Engine) {
	r.Use(svr.corsHandler(), svr.requestHandler())

	r.GET("/", svr.handleRoot)
	r.GET("/health", svr.handleHealth)

	data := r.Group("/api/data")
	data.GET("/", svr.handleAllData)
	data.GET("/summary", svr.handleSummary)
	data.GET("/unique/states", svr.handleUniqueStates)
	data.GET("/unique/counties", svr.handleUniqueCounties)
	data.GET("/unique/years", svr.handleUniqueYears)
	data.GET("/columns", svr.handleColumns)
	data.GET("/metrics", svr.handleMetricCatalog)

	flt := r.Group("/api/filter")
	flt.GET("/", svr.handleFilter)
	flt.POST("/advanced", svr.handleFilterAdvanced)

	agg := r.Group("/api/aggregate")
	agg.GET("/state", svr.handleByState)
	agg.GET("/year", svr.handleByYear)
	agg.GET("/county", svr.handleByCounty)
	agg.GET("/timeseries", svr.handleTimeSeries)

	st := r.Group("/api/stats")
	st.GET("/correlation", svr.handleCorrelation)
	st.GET("/summary/:variable", svr.handleDescribe)
	st.GET("/trend/:variable", svr.handleTrend)
	st.GET("/outliers/:variable", svr.handleOutliers)

	r.GET("/api/export/csv", svr.handleExport)
	r.GET("/api/metrics", svr.handleRequestMetrics)
}

// Serve listens on addr until ctx is done, then shuts down gracefully.
func (svr *Server) Serve(ctx context.Context, addr string) error {
	hs := &http.Server{
		Addr:              addr,
		Handler:           svr.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		svr.log.WithField("addr", addr).Info("listening")
		errc <- hs.ListenAndServe()
	}()

	select {
	case e := <-errc:
		return e
	case <-ctx.Done():
		shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if e := hs.Shutdown(shutdown); e != nil {
			return e
		}

		if e := <-errc; !errors.Is(e, http.ErrServerClosed) {
			return e
		}

		return nil
	}
}

func (svr *Server) table(ctx *gin.Context) (*d.Table, bool) {
	t, e := svr.store.Canonical(ctx.Request.Context())
	if e != nil {
		svr.log.WithError(e).Error("table unavailable")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": e.Error()})
		return nil, false
	}

	return t, true
}

func (svr *Server) corsHandler() gin.HandlerFunc {
	origins := svr.conf.AllowedOrigins
	cfg := cors.Config{
		AllowMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"*"},
		ExposeHeaders: []string{"Content-Disposition", "Content-Length", "Content-Type", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}

	if len(origins) == 0 || d.Has("*", origins) {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}

	return cors.New(cfg)
}

// requestHandler tags each request with an id, logs it and records its latency per route.
func (svr *Server) requestHandler() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		reqID := ctx.GetHeader("X-Request-ID")
		if reqID == "" {
			reqID = uuid.NewString()
		}

		ctx.Header("X-Request-ID", reqID)
		ctx.Next()

		route := ctx.FullPath()
		if route == "" {
			route = "unmatched"
		}

		status := ctx.Writer.Status()
		gometrics.GetOrRegisterTimer("http."+route, svr.metrics).UpdateSince(start)
		if status >= http.StatusBadRequest {
			gometrics.GetOrRegisterCounter("http.errors", svr.metrics).Inc(1)
		}

		svr.log.WithFields(logrus.Fields{
			"request_id": reqID,
			"method":     ctx.Request.Method,
			"path":       ctx.Request.URL.Path,
			"status":     status,
			"latency":    time.Since(start).String(),
		}).Debug("request")
	}
}

func (svr *Server) handleRoot(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"message": svr.conf.Title,
		"version": svr.conf.Version,
		"docs":    "/docs",
		"health":  "/health",
	})
}

func (svr *Server) handleHealth(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func (svr *Server) handleRequestMetrics(ctx *gin.Context) {
	ctx.Header("Content-Type", "application/json")
	ctx.Status(http.StatusOK)
	gometrics.WriteJSONOnce(svr.metrics, ctx.Writer)
}
