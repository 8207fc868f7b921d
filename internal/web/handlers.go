package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/pfrederiksen/ffvb-results/internal/calendar"
	"github.com/pfrederiksen/ffvb-results/internal/document"
	"github.com/pfrederiksen/ffvb-results/internal/extract"
	"github.com/pfrederiksen/ffvb-results/internal/logger"
	"github.com/pfrederiksen/ffvb-results/internal/scraper"
	"github.com/unrolled/render"
)

// errorBody is the JSON body of every error response
type errorBody struct {
	Error string `json:"error"`
}

// errMissingParam is returned by queryParams when a required parameter is absent
var errMissingParam = errors.New("missing query parameter")

// queryParams returns the named query parameters, all required. Values are
// passed through untrimmed: region and team names are matched exactly.
func queryParams(r *http.Request, names ...string) ([]string, error) {
	q := r.URL.Query()
	values := make([]string, len(names))
	for i, name := range names {
		values[i] = q.Get(name)
		if strings.TrimSpace(values[i]) == "" {
			return nil, fmt.Errorf("%w: %s", errMissingParam, name)
		}
	}
	return values, nil
}

// errorStatus maps an error to the HTTP status reported to the client
func errorStatus(err error) int {
	switch {
	case errors.Is(err, errMissingParam):
		return http.StatusBadRequest
	case errors.Is(err, extract.ErrRegionNotFound):
		return http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, scraper.ErrFetchFailure), errors.Is(err, scraper.ErrUnexpectedStatus):
		return http.StatusBadGateway
	case errors.Is(err, extract.ErrStructuralMismatch),
		errors.Is(err, document.ErrMalformedMarkup),
		errors.Is(err, document.ErrMissingAttribute),
		errors.Is(err, document.ErrInvalidSelector):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func renderError(w http.ResponseWriter, r *http.Request, render *render.Render, err error) {
	status := errorStatus(err)
	if status >= http.StatusInternalServerError {
		logger.Error("Request failed", logger.Fields{
			"request_id": middleware.GetReqID(r.Context()),
			"path":       r.URL.Path,
			"status":     status,
		}, err)
	}
	render.JSON(w, status, errorBody{Error: err.Error()})
}

func competitionsHandler(ext *extract.Extractor, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, http.StatusOK, ext.ListCompetitions())
	}
}

func regionsHandler(ext *extract.Extractor, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := queryParams(r, "url")
		if err != nil {
			renderError(w, r, render, err)
			return
		}

		regions, err := ext.ListRegions(r.Context(), params[0])
		if err != nil {
			renderError(w, r, render, err)
			return
		}
		render.JSON(w, http.StatusOK, regions)
	}
}

func departmentsHandler(ext *extract.Extractor, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := queryParams(r, "url", "region")
		if err != nil {
			renderError(w, r, render, err)
			return
		}

		departments, err := ext.ListDepartments(r.Context(), params[0], params[1])
		if err != nil {
			renderError(w, r, render, err)
			return
		}
		render.JSON(w, http.StatusOK, departments)
	}
}

func matchesHandler(ext *extract.Extractor, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := queryParams(r, "url", "team")
		if err != nil {
			renderError(w, r, render, err)
			return
		}

		matches, err := ext.ListMatches(r.Context(), params[0], params[1])
		if err != nil {
			renderError(w, r, render, err)
			return
		}
		render.JSON(w, http.StatusOK, matches)
	}
}

func rankingHandler(ext *extract.Extractor, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := queryParams(r, "url")
		if err != nil {
			renderError(w, r, render, err)
			return
		}

		ranks, err := ext.ListRanking(r.Context(), params[0])
		if err != nil {
			renderError(w, r, render, err)
			return
		}
		render.JSON(w, http.StatusOK, ranks)
	}
}

// calendarHandler serves a team's fixtures as an iCalendar feed
func calendarHandler(ext *extract.Extractor, gen *calendar.Generator, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := queryParams(r, "url", "team")
		if err != nil {
			renderError(w, r, render, err)
			return
		}

		matches, err := ext.ListMatches(r.Context(), params[0], params[1])
		if err != nil {
			renderError(w, r, render, err)
			return
		}

		w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, gen.Generate(params[1], matches))
	}
}

func metricsHandler(render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, http.StatusOK, logger.GetMetricsSnapshot())
	}
}
