package routes

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/travigo/commute/pkg/ctdf"
)

type PushTargetRegistry interface {
	RegisterPushTarget(ctx context.Context, target ctdf.UserPushNotificationTarget) error
}

func AccountRouter(router fiber.Router, registry PushTargetRegistry) {
	router.Post("/notificationtoken", func(c *fiber.Ctx) error {
		return postNotificationToken(c, registry)
	})
}

func postNotificationToken(c *fiber.Ctx, registry PushTargetRegistry) error {
	var requestBody struct {
		Token string `json:"token"`
	}
	if err := c.BodyParser(&requestBody); err != nil {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	userID, _ := c.Locals("account_userid").(string)

	if userID == "" {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": "No userid set",
		})
	}

	if requestBody.Token == "" {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "No token set",
		})
	}

	err := registry.RegisterPushTarget(c.UserContext(), ctdf.UserPushNotificationTarget{
		UserID:                userID,
		PushNotificationToken: requestBody.Token,
		ModificationDateTime:  time.Now(),
	})
	if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
	})
}
