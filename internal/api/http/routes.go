package httpapi

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/city-weather/internal/store"
	"github.com/i474232898/city-weather/internal/weather"
	"github.com/i474232898/city-weather/internal/widget"
)

var validate = validator.New()

// WidgetFactory builds a fresh, not yet started widget.
type WidgetFactory func() (*widget.Widget, error)

// RegisterRoutes wires the widget session handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, sessions *store.MemoryStore, newWidget WidgetFactory) {
	v1 := app.Group("/api/v1")

	v1.Post("/sessions", func(c *fiber.Ctx) error {
		w, err := newWidget()
		if err != nil {
			return err
		}
		sess := sessions.Create(w)
		w.Start()

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"id":      sess.ID,
			"display": w.Display(),
		})
	})

	v1.Put("/sessions/:id/query", func(c *fiber.Ctx) error {
		w, err := lookup(c, sessions)
		if err != nil {
			return err
		}

		var req queryRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		w.SetQueryText(req.Text)
		return c.JSON(w.SearchView())
	})

	v1.Get("/sessions/:id/candidates", func(c *fiber.Ctx) error {
		w, err := lookup(c, sessions)
		if err != nil {
			return err
		}
		return c.JSON(w.SearchView())
	})

	v1.Post("/sessions/:id/select", func(c *fiber.Ctx) error {
		w, err := lookup(c, sessions)
		if err != nil {
			return err
		}

		var req selectRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		if _, err := w.SelectIndex(*req.Index); err != nil {
			if errors.Is(err, widget.ErrNoSuchCandidate) || errors.Is(err, weather.ErrInvalidCoordinates) {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			return err
		}

		return c.JSON(fiber.Map{"display": w.Display()})
	})

	v1.Get("/sessions/:id/display", func(c *fiber.Ctx) error {
		w, err := lookup(c, sessions)
		if err != nil {
			return err
		}
		return c.JSON(w.Display())
	})

	v1.Delete("/sessions/:id", func(c *fiber.Ctx) error {
		if err := sessions.Delete(c.Params("id")); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, err.Error())
			}
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}

// ErrorHandler renders every error as {"error": true, "message": ...}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": err.Error(),
	})
}

func lookup(c *fiber.Ctx, sessions *store.MemoryStore) (*widget.Widget, error) {
	sess, err := sessions.Get(c.Params("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		return nil, err
	}
	return sess.Widget, nil
}

// queryRequest carries the raw search box text; empty is allowed.
type queryRequest struct {
	Text string `json:"text"`
}

// selectRequest picks an entry of the current candidate list.
type selectRequest struct {
	Index *int `json:"index" validate:"required,gte=0"`
}
