package sim

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(r fiber.Router, e *Engine) {

	r.Post("/sim/step", func(c *fiber.Ctx) error {
		snap, err := e.Step()
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(snap)
	})

	r.Post("/sim/run", func(c *fiber.Ctx) error {
		type Req struct {
			Days int `json:"days"`
		}
		var body Req
		if err := c.BodyParser(&body); err != nil {
			return c.SendStatus(400)
		}
		if body.Days <= 0 {
			return c.Status(400).JSON(fiber.Map{"error": "days must be positive"})
		}
		if err := e.Run(body.Days); err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(fiber.Map{"status": "ok", "day": e.Day()})
	})

	r.Get("/sim/status", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"day":            e.Day(),
			"date":           e.Today().Format("2006-01-02"),
			"open_contracts": e.book.Size(),
		})
	})
}
