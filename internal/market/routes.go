package market

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(r fiber.Router, m *Market) {

	r.Get("/market/assets", func(c *fiber.Ctx) error {
		prices := m.LatestPrices()

		type view struct {
			ID    string  `json:"id"`
			Name  string  `json:"name"`
			Price float64 `json:"price"`
		}
		var out []view
		for _, a := range m.Assets() {
			out = append(out, view{ID: a.ID, Name: a.Name, Price: prices[a.ID]})
		}
		return c.JSON(out)
	})

	r.Get("/market/history/:id", func(c *fiber.Ctx) error {
		history, err := m.History(c.Params("id"))
		if err != nil {
			return c.Status(404).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(fiber.Map{"id": c.Params("id"), "history": history})
	})
}
