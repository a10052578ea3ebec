package bank

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"marketsim/internal/pricing"
)

// Accounts resolves a buyer account by UID.
type Accounts func(uid int) (Account, bool)

// Clock reports the simulation's current date.
type Clock func() time.Time

func RegisterRoutes(r fiber.Router, desk *Desk, accounts Accounts, today Clock) {

	parseKind := func(s string) (pricing.Kind, bool) {
		k := pricing.Kind(s)
		return k, k.Valid()
	}

	r.Post("/options/quote", func(c *fiber.Ctx) error {
		type Req struct {
			Kind       string  `json:"kind"`
			Asset      string  `json:"asset"`
			Days       int     `json:"days"`
			MinPremium float64 `json:"min_premium"`
		}
		var body Req
		if err := c.BodyParser(&body); err != nil {
			return c.SendStatus(400)
		}
		kind, ok := parseKind(body.Kind)
		if !ok {
			return c.Status(400).JSON(fiber.Map{"error": "kind must be call or put"})
		}

		now := today()
		contract, err := desk.Quote(kind, body.Asset, now.AddDate(0, 0, body.Days), now, body.MinPremium)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(contract)
	})

	r.Post("/options/buy", func(c *fiber.Ctx) error {
		type Req struct {
			UID        int     `json:"uid"`
			Kind       string  `json:"kind"`
			Asset      string  `json:"asset"`
			Days       int     `json:"days"`
			MinPremium float64 `json:"min_premium"`
			Units      int     `json:"units"`
		}
		var body Req
		if err := c.BodyParser(&body); err != nil {
			return c.SendStatus(400)
		}
		kind, ok := parseKind(body.Kind)
		if !ok {
			return c.Status(400).JSON(fiber.Map{"error": "kind must be call or put"})
		}
		buyer, ok := accounts(body.UID)
		if !ok {
			return c.Status(404).JSON(fiber.Map{"error": "unknown player"})
		}

		now := today()
		contract, err := desk.Sell(buyer, body.UID, kind, body.Asset, now.AddDate(0, 0, body.Days), now, body.MinPremium, body.Units)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(contract)
	})

	r.Post("/options/sell", func(c *fiber.Ctx) error {
		type Req struct {
			UID        int    `json:"uid"`
			ContractID string `json:"contract_id"`
			Units      int    `json:"units"`
		}
		var body Req
		if err := c.BodyParser(&body); err != nil {
			return c.SendStatus(400)
		}
		holder, ok := accounts(body.UID)
		if !ok {
			return c.Status(404).JSON(fiber.Map{"error": "unknown player"})
		}

		refund, err := desk.Buyback(holder, body.UID, body.ContractID, body.Units)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(fiber.Map{"status": "sold", "refund": refund.StringFixed(2)})
	})

	r.Get("/options/book", func(c *fiber.Ctx) error {
		return c.JSON(desk.Book().Live())
	})
}
