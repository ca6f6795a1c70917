package http

import (
	"context"
	"math"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-admin/internal/application/dto"
	"github.com/jhoicas/inventario-admin/internal/infrastructure/cache"
	"github.com/jhoicas/inventario-admin/pkg/logger"
)

// tokenTaker lo implementa *cache.TokenBucket.
type tokenTaker interface {
	Take(ctx context.Context, key string) (cache.Decision, error)
}

// RateLimit limita por IP de cliente. Si Redis falla la petición pasa (fail-open) y se registra.
func RateLimit(limiter tokenTaker, log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		d, err := limiter.Take(c.UserContext(), c.IP())
		if err != nil {
			log.Warn().Err(err).Str("ip", c.IP()).Msg("rate limit no disponible")
			return c.Next()
		}
		c.Set("X-RateLimit-Limit", strconv.Itoa(d.Limit))
		c.Set("X-RateLimit-Remaining", strconv.FormatInt(d.Remaining, 10))
		if !d.Allowed {
			secs := int(math.Ceil(d.RetryAfter.Seconds()))
			if secs < 1 {
				secs = 1
			}
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(secs))
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{
				Code:    "RATE_LIMITED",
				Message: "demasiados intentos, intente de nuevo en " + strconv.Itoa(secs) + "s",
			})
		}
		return c.Next()
	}
}
