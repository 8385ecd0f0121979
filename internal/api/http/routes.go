package httpapi

import (
	"errors"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/ai-weather-summariser/internal/store"
	"github.com/i474232898/ai-weather-summariser/internal/weather"
)

var validate = validator.New()

// SummarySource is the read side of the monitor.
type SummarySource interface {
	Location() weather.Location
	GetLatest() (weather.SummaryRecord, error)
	GetRange(from, to time.Time) ([]weather.SummaryRecord, error)
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, source SummarySource) {
	v1 := app.Group("/api/v1")

	v1.Get("/location", func(c *fiber.Ctx) error {
		return c.JSON(source.Location())
	})

	v1.Get("/summary/latest", func(c *fiber.Ctx) error {
		rec, err := source.GetLatest()
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no summary generated yet")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to read summaries")
		}
		return c.JSON(rec)
	})

	v1.Get("/summary/history", func(c *fiber.Ctx) error {
		var req historyQuery
		if err := req.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		records, err := source.GetRange(req.From, req.To)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no summaries for requested range")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to read summaries")
		}

		return c.JSON(fiber.Map{
			"location":  source.Location(),
			"from":      req.From,
			"to":        req.To,
			"summaries": records,
		})
	})
}

// historyQuery holds query parameters for the history endpoint.
type historyQuery struct {
	From time.Time `validate:"required"`
	To   time.Time `validate:"required,gtefield=From"`
}

func (h *historyQuery) bind(c *fiber.Ctx) error {
	fromStr := c.Query("from")
	toStr := c.Query("to")
	if fromStr == "" || toStr == "" {
		return errors.New("from and to query parameters are required")
	}

	from, err := parseTime(fromStr)
	if err != nil {
		return err
	}
	to, err := parseTime(toStr)
	if err != nil {
		return err
	}

	h.From = from
	h.To = to
	return nil
}

// parseTime tries to parse either RFC3339 or Unix seconds.
func parseTime(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	if unix, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}
	return time.Time{}, errors.New("invalid time format; use RFC3339 or unix seconds")
}
