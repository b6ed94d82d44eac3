package api

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/invertedv/crimedf/filter"
)

// queryStrings returns every value of a repeated query parameter. Values may also be comma separated.
func queryStrings(ctx *gin.Context, name string) []string {
	var out []string
	for _, v := range ctx.QueryArray(name) {
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	}

	return out
}

func queryInts(ctx *gin.Context, name string) ([]int, error) {
	var out []int
	for _, s := range queryStrings(ctx, name) {
		x, e := strconv.Atoi(s)
		if e != nil {
			return nil, fmt.Errorf("%s: %q is not an integer", name, s)
		}

		out = append(out, x)
	}

	return out, nil
}

func queryFloat(ctx *gin.Context, name string) (*float64, error) {
	s, ok := ctx.GetQuery(name)
	if !ok || strings.TrimSpace(s) == "" {
		return nil, nil
	}

	x, e := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if e != nil {
		return nil, fmt.Errorf("%s: %q is not a number", name, s)
	}

	return &x, nil
}

func queryRange(ctx *gin.Context, minName, maxName string) (filter.Range, error) {
	lo, e := queryFloat(ctx, minName)
	if e != nil {
		return filter.Range{}, e
	}

	hi, e := queryFloat(ctx, maxName)
	if e != nil {
		return filter.Range{}, e
	}

	return filter.Range{Min: lo, Max: hi}, nil
}
