package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/agrovale/nfe-api/internal/application/conciliacao"
)

// RouterDeps dependências para o router.
type RouterDeps struct {
	ConciliacaoUC *conciliacao.UseCase
}

// Router registra as rotas da API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Central de notas (detalhe + conciliação manual)
	nfe := api.Group("/nfe")
	notaHandler := NewNotaHandler(deps.ConciliacaoUC)
	nfe.Get("/:chave", notaHandler.Detalhe)
	nfe.Post("/:chave/itens/:item/pedidos", notaHandler.BuscarPedidos)
	nfe.Post("/:chave/conciliacao", notaHandler.Conciliar)
}
