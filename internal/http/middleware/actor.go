package middleware

import (
	"github.com/gofiber/fiber/v2"

	"tourapi/internal/model"
)

const (
	// UserIDHeader carries the authenticated caller's ID, set by the
	// upstream auth gateway.
	UserIDHeader = "X-User-ID"
	// UserRoleHeader carries the caller's role ("admin" or "seller").
	UserRoleHeader = "X-User-Role"
	// ActorLocalKey is the key under which the resolved Actor is stored in
	// Fiber's context locals.
	ActorLocalKey = "actor"
)

// Actor resolves the calling identity from the gateway headers and stores it
// in context locals. An absent header yields a zero-valued actor; ownership
// checks further down reject it where identity is required.
func Actor() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor := model.Actor{
			ID:   c.Get(UserIDHeader),
			Role: c.Get(UserRoleHeader),
		}
		c.Locals(ActorLocalKey, actor)
		return c.Next()
	}
}

// ActorFromCtx returns the actor stored by the Actor middleware, or a zero
// actor when the middleware did not run.
func ActorFromCtx(c *fiber.Ctx) model.Actor {
	if v := c.Locals(ActorLocalKey); v != nil {
		if a, ok := v.(model.Actor); ok {
			return a
		}
	}
	return model.Actor{}
}
