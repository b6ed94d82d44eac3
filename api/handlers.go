package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	d "github.com/invertedv/crimedf"
	"github.com/invertedv/crimedf/aggregate"
	"github.com/invertedv/crimedf/filter"
	"github.com/invertedv/crimedf/loader"
	"github.com/invertedv/crimedf/stats"
)

func badRequest(ctx *gin.Context, e error) {
	ctx.JSON(http.StatusBadRequest, gin.H{"error": e.Error()})
}

// statsError answers with a structured error payload. Conditions that describe the data rather
// than the request go back with 200, as the dashboard expects.
func statsError(ctx *gin.Context, e error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(e, stats.ErrVariableNotFound), errors.Is(e, stats.ErrNoData), errors.Is(e, stats.ErrInsufficientData):
		status = http.StatusOK
	case errors.Is(e, stats.ErrUnknownMethod):
		status = http.StatusBadRequest
	}

	ctx.JSON(status, gin.H{"error": e.Error()})
}

// ***************** data *****************

func (svr *Server) handleAllData(ctx *gin.Context) {
	if t, ok := svr.table(ctx); ok {
		ctx.JSON(http.StatusOK, t.Records())
	}
}

func (svr *Server) handleSummary(ctx *gin.Context) {
	if t, ok := svr.table(ctx); ok {
		ctx.JSON(http.StatusOK, loader.Describe(t))
	}
}

func (svr *Server) handleUniqueStates(ctx *gin.Context) {
	if t, ok := svr.table(ctx); ok {
		ctx.JSON(http.StatusOK, loader.UniqueValues(t, d.StateName))
	}
}

func (svr *Server) handleUniqueCounties(ctx *gin.Context) {
	t, ok := svr.table(ctx)
	if !ok {
		return
	}

	if state := ctx.Query("state"); state != "" {
		ctx.JSON(http.StatusOK, filter.CountiesByState(t, state))
		return
	}

	ctx.JSON(http.StatusOK, loader.UniqueValues(t, d.CountyClean))
}

func (svr *Server) handleUniqueYears(ctx *gin.Context) {
	if t, ok := svr.table(ctx); ok {
		ctx.JSON(http.StatusOK, loader.UniqueValues(t, d.Year))
	}
}

func (svr *Server) handleColumns(ctx *gin.Context) {
	if t, ok := svr.table(ctx); ok {
		ctx.JSON(http.StatusOK, loader.Columns(t))
	}
}

func (svr *Server) handleMetricCatalog(ctx *gin.Context) {
	if t, ok := svr.table(ctx); ok {
		ctx.JSON(http.StatusOK, loader.Metrics(t))
	}
}

// ***************** filter *****************

func filtered(ctx *gin.Context, t *d.Table) {
	ctx.JSON(http.StatusOK, gin.H{"count": t.RowCount(), "data": t.Records()})
}

func (svr *Server) handleFilter(ctx *gin.Context) {
	var (
		p filter.Predicates
		e error
	)

	p.States = queryStrings(ctx, "states")
	p.Counties = queryStrings(ctx, "counties")
	if p.Years, e = queryInts(ctx, "years"); e != nil {
		badRequest(ctx, e)
		return
	}

	for _, r := range []struct {
		rng      *filter.Range
		min, max string
	}{
		{&p.GDPPerCapita, "gdp_min", "gdp_max"},
		{&p.Population, "pop_min", "pop_max"},
		{&p.ViolentCrimeRate, "violent_crime_min", "violent_crime_max"},
		{&p.PropertyCrimeRate, "property_crime_min", "property_crime_max"},
	} {
		if *r.rng, e = queryRange(ctx, r.min, r.max); e != nil {
			badRequest(ctx, e)
			return
		}
	}

	if t, ok := svr.table(ctx); ok {
		filtered(ctx, filter.Apply(t, p))
	}
}

func (svr *Server) handleFilterAdvanced(ctx *gin.Context) {
	var p filter.Predicates
	// every field is optional, so is the body
	if e := ctx.ShouldBindJSON(&p); e != nil && !errors.Is(e, io.EOF) {
		badRequest(ctx, e)
		return
	}

	if t, ok := svr.table(ctx); ok {
		filtered(ctx, filter.Apply(t, p))
	}
}

// ***************** aggregate *****************

func (svr *Server) aggregated(ctx *gin.Context, t *d.Table, e error) {
	if e != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": e.Error()})
		return
	}

	ctx.JSON(http.StatusOK, t.Records())
}

func (svr *Server) handleByState(ctx *gin.Context) {
	years, e := queryInts(ctx, "years")
	if e != nil {
		badRequest(ctx, e)
		return
	}

	if t, ok := svr.table(ctx); ok {
		out, e := aggregate.ByState(t, years, queryStrings(ctx, "metrics"))
		svr.aggregated(ctx, out, e)
	}
}

func (svr *Server) handleByYear(ctx *gin.Context) {
	if t, ok := svr.table(ctx); ok {
		out, e := aggregate.ByYear(t, queryStrings(ctx, "states"))
		svr.aggregated(ctx, out, e)
	}
}

func (svr *Server) handleByCounty(ctx *gin.Context) {
	state := ctx.Query("state")
	if state == "" {
		badRequest(ctx, errors.New("state is required"))
		return
	}

	years, e := queryInts(ctx, "years")
	if e != nil {
		badRequest(ctx, e)
		return
	}

	if t, ok := svr.table(ctx); ok {
		out, e := aggregate.ByCounty(t, state, years)
		svr.aggregated(ctx, out, e)
	}
}

func (svr *Server) handleTimeSeries(ctx *gin.Context) {
	metric := ctx.DefaultQuery("metric", d.ViolentCrimeRate)
	if t, ok := svr.table(ctx); ok {
		out, e := aggregate.TimeSeries(t, ctx.Query("state"), ctx.Query("county"), metric)
		svr.aggregated(ctx, out, e)
	}
}

// ***************** stats *****************

func statsFilters(ctx *gin.Context) (stats.Filters, error) {
	years, e := queryInts(ctx, "years")
	if e != nil {
		return stats.Filters{}, e
	}

	return stats.Filters{States: queryStrings(ctx, "states"), Years: years}, nil
}

func (svr *Server) handleCorrelation(ctx *gin.Context) {
	f, e := statsFilters(ctx)
	if e != nil {
		badRequest(ctx, e)
		return
	}

	if t, ok := svr.table(ctx); ok {
		ctx.JSON(http.StatusOK, stats.Correlation(t, queryStrings(ctx, "variables"), f))
	}
}

func (svr *Server) handleDescribe(ctx *gin.Context) {
	f, e := statsFilters(ctx)
	if e != nil {
		badRequest(ctx, e)
		return
	}

	t, ok := svr.table(ctx)
	if !ok {
		return
	}

	s, e := stats.Describe(t, ctx.Param("variable"), f)
	if e != nil {
		statsError(ctx, e)
		return
	}

	ctx.JSON(http.StatusOK, s)
}

func (svr *Server) handleTrend(ctx *gin.Context) {
	t, ok := svr.table(ctx)
	if !ok {
		return
	}

	tr, e := stats.Trend(t, ctx.Param("variable"), ctx.Query("state"))
	if e != nil {
		statsError(ctx, e)
		return
	}

	ctx.JSON(http.StatusOK, tr)
}

func (svr *Server) handleOutliers(ctx *gin.Context) {
	f, e := statsFilters(ctx)
	if e != nil {
		badRequest(ctx, e)
		return
	}

	t, ok := svr.table(ctx)
	if !ok {
		return
	}

	out, e := stats.Outliers(t, ctx.Param("variable"), ctx.DefaultQuery("method", stats.MethodIQR), f)
	if e != nil {
		statsError(ctx, e)
		return
	}

	ctx.JSON(http.StatusOK, out)
}

// ***************** export *****************

func (svr *Server) handleExport(ctx *gin.Context) {
	format := ctx.DefaultQuery("format", "csv")
	if format != "csv" && format != "json" {
		badRequest(ctx, errors.New("format must be csv or json"))
		return
	}

	years, e := queryInts(ctx, "years")
	if e != nil {
		badRequest(ctx, e)
		return
	}

	t, ok := svr.table(ctx)
	if !ok {
		return
	}

	out := filter.Apply(t, filter.Predicates{States: queryStrings(ctx, "states"), Years: years})
	if format == "json" {
		ctx.JSON(http.StatusOK, out.Records())
		return
	}

	ctx.Header("Content-Disposition", "attachment; filename=crime_gdp_data.csv")
	ctx.Header("Content-Type", "text/csv")
	ctx.Status(http.StatusOK)
	if e := d.NewFiles().Write(ctx.Writer, out); e != nil {
		svr.log.WithError(e).Error("export failed")
	}
}
