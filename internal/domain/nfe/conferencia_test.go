package nfe_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/agrovale/nfe-api/internal/domain/nfe"
)

// As faixas de escore são constantes fixas usadas pelo front para colorir
// linhas; os limites precisam bater exatamente (66/11 para similaridade,
// 90/70 para a confiança TES).

func TestFaixaSimilaridade_LimitesExatos(t *testing.T) {
	casos := []struct {
		escore string
		faixa  nfe.Faixa
	}{
		{"100", nfe.FaixaAlta},
		{"66", nfe.FaixaAlta},
		{"65.99", nfe.FaixaMedia},
		{"65", nfe.FaixaMedia},
		{"11", nfe.FaixaMedia},
		{"10.99", nfe.FaixaBaixa},
		{"10", nfe.FaixaBaixa},
		{"0", nfe.FaixaBaixa},
	}
	for _, c := range casos {
		faixa := nfe.FaixaSimilaridade(decimal.RequireFromString(c.escore))
		assert.Equal(t, c.faixa, faixa, "escore %s deve cair na faixa %s", c.escore, c.faixa)
	}
}

func TestFaixaConfiancaTES_LimitesExatos(t *testing.T) {
	casos := []struct {
		confianca string
		faixa     nfe.Faixa
	}{
		{"100", nfe.FaixaAlta},
		{"90", nfe.FaixaAlta},
		{"89.9", nfe.FaixaMedia},
		{"70", nfe.FaixaMedia},
		{"69.9", nfe.FaixaBaixa},
		{"0", nfe.FaixaBaixa},
	}
	for _, c := range casos {
		faixa := nfe.FaixaConfiancaTES(decimal.RequireFromString(c.confianca))
		assert.Equal(t, c.faixa, faixa, "confiança %s deve cair na faixa %s", c.confianca, c.faixa)
	}
}

func TestAvaliarItem_ConciliadoPorNumeroDePedido(t *testing.T) {
	semPedido := nfe.ItemNota{Similaridade: decimal.NewFromInt(80)}
	av := nfe.AvaliarItem(semPedido)
	assert.False(t, av.Conciliado, "sem num_pedido a linha não está conciliada")
	assert.Equal(t, nfe.FaixaAlta, av.FaixaSimilaridade)

	comPedido := semPedido
	comPedido.NumPedido = "PC-000123"
	av = nfe.AvaliarItem(comPedido)
	assert.True(t, av.Conciliado)
}

func TestTodosConciliados(t *testing.T) {
	conciliado := nfe.ItemNota{NumPedido: "PC-1"}
	pendente := nfe.ItemNota{}

	assert.True(t, nfe.TodosConciliados([]nfe.ItemNota{conciliado, {NumPedido: "PC-2"}}))
	assert.False(t, nfe.TodosConciliados([]nfe.ItemNota{conciliado, pendente}),
		"uma única linha sem pedido reprova a nota inteira")
	assert.False(t, nfe.TodosConciliados(nil), "nota sem linhas não conta como conciliada")
}

func TestTodasComSugestao(t *testing.T) {
	assert.True(t, nfe.TodasComSugestao(3, 3))
	assert.False(t, nfe.TodasComSugestao(3, 2))
	assert.False(t, nfe.TodasComSugestao(0, 0), "nota sem linhas não gate a etapa fiscal")
}

func TestContarSugestoes(t *testing.T) {
	itens := []nfe.ItemNota{
		{TESCodigo: "010"},
		{TESCodigo: ""},
		{TESCodigo: "201"},
	}
	assert.Equal(t, 2, nfe.ContarSugestoes(itens))
}
