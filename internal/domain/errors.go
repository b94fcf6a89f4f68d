package domain

import "errors"

// Erros de domínio (sem dependências externas).
var (
	ErrNotaInvalida          = errors.New("nota fiscal sem itens ou resposta inválida")
	ErrItemNaoEncontrado     = errors.New("item não encontrado na nota")
	ErrBuscaPedidos          = errors.New("falha na busca de pedidos de compra")
	ErrSalvarConciliacao     = errors.New("falha ao enviar a conciliação manual")
	ErrConciliacaoIncompleta = errors.New("existem itens sem pedido de compra vinculado")
	ErrEntradaInvalida       = errors.New("entrada inválida")
)
