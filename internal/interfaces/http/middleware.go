package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/agrovale/nfe-api/pkg/logger"
)

const headerRequestID = "X-Request-Id"

// RequestID garante um identificador de correlação por requisição,
// respeitando o que veio do gateway quando presente.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(headerRequestID)
		if id == "" {
			id = uuid.New().String()
		}
		c.Locals("request_id", id)
		c.Set(headerRequestID, id)
		return c.Next()
	}
}

// AccessLog registra cada requisição com método, rota, status e duração.
func AccessLog(log *logger.Logger) fiber.Handler {
	sublog := log.Componente("http")
	return func(c *fiber.Ctx) error {
		inicio := time.Now()
		err := c.Next()

		evento := sublog.Info()
		if err != nil || c.Response().StatusCode() >= fiber.StatusInternalServerError {
			evento = sublog.Error().Err(err)
		}
		requestID, _ := c.Locals("request_id").(string)
		evento.
			Str("request_id", requestID).
			Str("metodo", c.Method()).
			Str("rota", c.Path()).
			Int("status", c.Response().StatusCode()).
			Dur("duracao", time.Since(inicio)).
			Msg("requisição atendida")
		return err
	}
}
