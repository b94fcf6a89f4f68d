package conciliacao

import (
	"context"

	"github.com/agrovale/nfe-api/internal/domain/nfe"
)

// NotaComItens retorno primário do coletor: cabeçalho e linhas da nota.
type NotaComItens struct {
	Nota  nfe.Nota
	Itens []nfe.ItemNota
}

// ClienteERP porta para o backend ERP (coletor). Todas as chamadas são
// independentes; o chamador decide o que fazer com falhas parciais.
type ClienteERP interface {
	// ItensNota busca cabeçalho e linhas da nota pela chave de acesso.
	ItensNota(ctx context.Context, chave string) (*NotaComItens, error)

	// HistoricoNota busca o histórico de processamento da nota.
	HistoricoNota(ctx context.Context, chave string) ([]nfe.EventoHistorico, error)

	// ErrosNota busca os erros registrados pelo fluxo automático.
	ErrosNota(ctx context.Context, chave string) ([]nfe.ErroProcessamento, error)

	// SugestoesTES busca as sugestões de código fiscal por linha.
	SugestoesTES(ctx context.Context, chave string) ([]nfe.SugestaoTES, error)

	// BuscarPedidos busca pedidos de compra candidatos para uma linha.
	BuscarPedidos(ctx context.Context, chave string, itemXML int) ([]nfe.CandidatoPedido, error)

	// SalvarConciliacao envia o conjunto completo de linhas conciliadas.
	SalvarConciliacao(ctx context.Context, chave string, itens []nfe.ItemNota) error
}
