package portfolio

import "github.com/gofiber/fiber/v2"

// Lookup resolves a participant by UID.
type Lookup func(uid int) (*Portfolio, bool)

// Prices is the market seam for valuations and stock fills.
type Prices interface {
	Latest(assetID string) (float64, error)
	LatestPrices() map[string]float64
}

func RegisterRoutes(r fiber.Router, lookup Lookup, prices Prices) {

	r.Get("/portfolio/:uid", func(c *fiber.Ctx) error {
		uid, _ := c.ParamsInt("uid")
		p, ok := lookup(uid)
		if !ok {
			return c.Status(404).JSON(fiber.Map{"error": "unknown player"})
		}
		snap := p.Snapshot()
		return c.JSON(fiber.Map{
			"portfolio": snap,
			"valuation": p.Valuation(prices.LatestPrices()).StringFixed(2),
		})
	})

	r.Post("/stocks/buy", func(c *fiber.Ctx) error {
		type Req struct {
			UID   int    `json:"uid"`
			Asset string `json:"asset"`
			Qty   int    `json:"qty"`
		}
		var body Req
		if err := c.BodyParser(&body); err != nil {
			return c.SendStatus(400)
		}
		p, ok := lookup(body.UID)
		if !ok {
			return c.Status(404).JSON(fiber.Map{"error": "unknown player"})
		}
		if body.Qty <= 0 {
			return c.Status(400).JSON(fiber.Map{"error": "qty must be positive"})
		}
		price, err := prices.Latest(body.Asset)
		if err != nil {
			return c.Status(404).JSON(fiber.Map{"error": err.Error()})
		}
		if err := p.BuyStock(body.Asset, body.Qty, price); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(fiber.Map{"status": "bought", "price": price})
	})

	r.Post("/stocks/sell", func(c *fiber.Ctx) error {
		type Req struct {
			UID   int    `json:"uid"`
			Asset string `json:"asset"`
			Qty   int    `json:"qty"`
		}
		var body Req
		if err := c.BodyParser(&body); err != nil {
			return c.SendStatus(400)
		}
		p, ok := lookup(body.UID)
		if !ok {
			return c.Status(404).JSON(fiber.Map{"error": "unknown player"})
		}
		if body.Qty <= 0 {
			return c.Status(400).JSON(fiber.Map{"error": "qty must be positive"})
		}
		price, err := prices.Latest(body.Asset)
		if err != nil {
			return c.Status(404).JSON(fiber.Map{"error": err.Error()})
		}
		if err := p.SellStock(body.Asset, body.Qty, price); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(fiber.Map{"status": "sold", "price": price})
	})
}
