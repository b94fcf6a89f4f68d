package nfe_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrovale/nfe-api/internal/domain/nfe"
)

// ──────────────────────────────────────────────────────────────────────────────
// Vetores exatos da comparação financeira. A aritmética é em decimal para os
// resultados baterem na casa do centavo; qualquer mudança no ramo de conversão
// PTAX ou na proteção de divisão por zero quebra estes testes primeiro.
// ──────────────────────────────────────────────────────────────────────────────

func itemUSD(valorXML, valorPedido, ptax string) nfe.ItemNota {
	return nfe.ItemNota{
		ValorUnitarioXML:    decimal.RequireFromString(valorXML),
		ValorUnitarioPedido: decimal.RequireFromString(valorPedido),
		TemValorPedido:      true,
		Moeda:               nfe.MoedaUSD,
		UltimaPTAX:          decimal.RequireFromString(ptax),
		Quantidade:          decimal.NewFromInt(1),
	}
}

func TestCalcularDiferenca_VetorPTAXSemDiferenca(t *testing.T) {
	// 150.00 BRL vs 30.00 USD a PTAX 5.00 -> pedido convertido 150.00
	item := itemUSD("150.00", "30.00", "5.00")

	diff, ok := nfe.CalcularDiferenca(item)
	require.True(t, ok)
	assert.True(t, diff.ValorPedidoBase.Equal(decimal.RequireFromString("150.00")),
		"pedido convertido deve ser 150.00, obtido %s", diff.ValorPedidoBase)
	assert.True(t, diff.DiffBase.IsZero(), "diferença deve ser 0.00")
	assert.True(t, diff.DiffPercent.IsZero(), "percentual deve ser 0.00")
}

func TestCalcularDiferenca_VetorPTAXComPrejuizo(t *testing.T) {
	// Mesma linha com PTAX 4.80 -> pedido convertido 144.00, diferença 6.00 (4%).
	// Sinal positivo = nota mais cara que o pedido (prejuízo).
	item := itemUSD("150.00", "30.00", "4.80")

	diff, ok := nfe.CalcularDiferenca(item)
	require.True(t, ok)
	assert.True(t, diff.ValorPedidoBase.Equal(decimal.RequireFromString("144.00")))
	assert.True(t, diff.DiffBase.Equal(decimal.RequireFromString("6.00")),
		"diferença deve ser 6.00, obtida %s", diff.DiffBase)
	assert.True(t, diff.DiffPercent.Equal(decimal.RequireFromString("4.00")),
		"percentual deve ser 4.00, obtido %s", diff.DiffPercent)
}

func TestCalcularDiferenca_MoedaBaseIgnoraPTAX(t *testing.T) {
	// Simetria de moeda: com moeda BRL o resultado independe da PTAX.
	base := nfe.ItemNota{
		ValorUnitarioXML:    decimal.RequireFromString("100.00"),
		ValorUnitarioPedido: decimal.RequireFromString("90.00"),
		TemValorPedido:      true,
		Moeda:               nfe.MoedaBRL,
	}
	comPTAX := base
	comPTAX.UltimaPTAX = decimal.RequireFromString("5.43")

	d1, ok1 := nfe.CalcularDiferenca(base)
	d2, ok2 := nfe.CalcularDiferenca(comPTAX)
	require.True(t, ok1)
	require.True(t, ok2)
	assert.True(t, d1.DiffBase.Equal(d2.DiffBase),
		"moeda base não pode ser afetada pela PTAX")
	assert.True(t, d1.DiffBase.Equal(decimal.RequireFromString("10.00")))
}

func TestCalcularDiferenca_EstrangeiraSemPTAXUsaValorComoEsta(t *testing.T) {
	item := itemUSD("150.00", "30.00", "0")
	diff, ok := nfe.CalcularDiferenca(item)
	require.True(t, ok)
	assert.True(t, diff.ValorPedidoBase.Equal(decimal.RequireFromString("30.00")),
		"PTAX ausente (zero) não converte; o valor do pedido é usado como está")
}

func TestCalcularDiferenca_EuroTambemConverte(t *testing.T) {
	item := itemUSD("120.00", "20.00", "6.00")
	item.Moeda = nfe.MoedaEUR
	diff, ok := nfe.CalcularDiferenca(item)
	require.True(t, ok)
	assert.True(t, diff.ValorPedidoBase.Equal(decimal.RequireFromString("120.00")))
	assert.True(t, diff.DiffBase.IsZero())
}

func TestCalcularDiferenca_ValorXMLZeroNuncaDivide(t *testing.T) {
	item := itemUSD("0", "30.00", "5.00")
	diff, ok := nfe.CalcularDiferenca(item)
	require.True(t, ok)
	assert.True(t, diff.DiffPercent.IsZero(),
		"denominador zero deve resultar em 0, nunca NaN/Inf")
	assert.True(t, diff.DiffBase.Equal(decimal.RequireFromString("-150.00")))
}

func TestCalcularDiferenca_SemValorDePedidoNaoCompara(t *testing.T) {
	item := nfe.ItemNota{
		ValorUnitarioXML: decimal.RequireFromString("50.00"),
		TemValorPedido:   false,
	}
	_, ok := nfe.CalcularDiferenca(item)
	assert.False(t, ok, "linha sem pedido não é comparável (não vale zero)")
}

// ── Totais da nota ────────────────────────────────────────────────────────────

func TestTotalizarDiferencas_ExcluiLinhaSemPedido(t *testing.T) {
	// Duas linhas: uma conciliada com diferença 10.00 e quantidade 2, outra
	// sem valor de pedido. Total = 20.00 apenas da linha conciliada; a linha
	// sem pedido fica fora do numerador e do denominador.
	conciliada := nfe.ItemNota{
		ValorUnitarioXML:    decimal.RequireFromString("110.00"),
		ValorUnitarioPedido: decimal.RequireFromString("100.00"),
		TemValorPedido:      true,
		Moeda:               nfe.MoedaBRL,
		Quantidade:          decimal.NewFromInt(2),
	}
	semPedido := nfe.ItemNota{
		ValorUnitarioXML: decimal.RequireFromString("999.00"),
		Quantidade:       decimal.NewFromInt(7),
	}

	total := nfe.TotalizarDiferencas([]nfe.ItemNota{conciliada, semPedido})

	assert.Equal(t, 1, total.LinhasComparadas)
	assert.True(t, total.TotalDiffBase.Equal(decimal.RequireFromString("20.00")),
		"total deve somar só a linha conciliada, obtido %s", total.TotalDiffBase)
	assert.True(t, total.TotalXMLBase.Equal(decimal.RequireFromString("220.00")))
}

func TestTotalizarDiferencas_PercentualTotal(t *testing.T) {
	itens := []nfe.ItemNota{
		{
			ValorUnitarioXML:    decimal.RequireFromString("100.00"),
			ValorUnitarioPedido: decimal.RequireFromString("95.00"),
			TemValorPedido:      true,
			Moeda:               nfe.MoedaBRL,
			Quantidade:          decimal.NewFromInt(1),
		},
	}
	total := nfe.TotalizarDiferencas(itens)
	assert.True(t, total.TotalDiffPercent.Equal(decimal.RequireFromString("5.00")),
		"5.00/100.00 = 5%%, obtido %s", total.TotalDiffPercent)
}

func TestTotalizarDiferencas_NotaVaziaSemDivisao(t *testing.T) {
	total := nfe.TotalizarDiferencas(nil)
	assert.True(t, total.TotalDiffPercent.IsZero())
	assert.Zero(t, total.LinhasComparadas)
}
