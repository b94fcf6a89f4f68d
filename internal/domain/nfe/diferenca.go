package nfe

import "github.com/shopspring/decimal"

var cem = decimal.NewFromInt(100)

// Diferenca comparação financeira entre o valor declarado no XML e o valor
// do pedido de compra convertido para a moeda base.
//
// Convenção de sinal: DiffBase positivo significa nota mais cara que o
// pedido (prejuízo); negativo, nota mais barata (ganho).
type Diferenca struct {
	ValorPedidoBase decimal.Decimal // valor do pedido já convertido para BRL
	DiffBase        decimal.Decimal
	DiffPercent     decimal.Decimal
}

// ValorPedidoConvertido converte o preço unitário do pedido para a moeda
// base. Moeda estrangeira com PTAX positiva multiplica pela taxa; qualquer
// outro caso usa o valor como está (já em BRL).
func ValorPedidoConvertido(item ItemNota) decimal.Decimal {
	if MoedaEstrangeira(item.Moeda) && item.UltimaPTAX.GreaterThan(decimal.Zero) {
		return item.ValorUnitarioPedido.Mul(item.UltimaPTAX)
	}
	return item.ValorUnitarioPedido
}

// CalcularDiferenca computa a diferença unitária da linha. Devolve false
// quando a linha ainda não tem valor de pedido: sem pedido não há
// comparação, e a linha fica fora dos totais (não entra como zero).
//
// A divisão do percentual é protegida: valor XML zero resulta em 0%,
// nunca NaN ou infinito.
func CalcularDiferenca(item ItemNota) (Diferenca, bool) {
	if !item.TemValorPedido {
		return Diferenca{}, false
	}

	pedidoBase := ValorPedidoConvertido(item)
	diff := item.ValorUnitarioXML.Sub(pedidoBase)

	pct := decimal.Zero
	if item.ValorUnitarioXML.GreaterThan(decimal.Zero) {
		pct = diff.Div(item.ValorUnitarioXML).Mul(cem)
	}

	return Diferenca{
		ValorPedidoBase: pedidoBase,
		DiffBase:        diff,
		DiffPercent:     pct,
	}, true
}

// TotalNota totais financeiros da nota, ponderados pela quantidade.
type TotalNota struct {
	TotalXMLBase     decimal.Decimal
	TotalDiffBase    decimal.Decimal
	TotalDiffPercent decimal.Decimal
	LinhasComparadas int
}

// TotalizarDiferencas soma DiffBase*Quantidade e ValorXML*Quantidade das
// linhas comparáveis. Linhas sem valor de pedido ficam fora do numerador e
// do denominador. Denominador zero resulta em percentual 0.
func TotalizarDiferencas(itens []ItemNota) TotalNota {
	var total TotalNota
	for _, item := range itens {
		diff, ok := CalcularDiferenca(item)
		if !ok {
			continue
		}
		total.TotalXMLBase = total.TotalXMLBase.Add(item.ValorUnitarioXML.Mul(item.Quantidade))
		total.TotalDiffBase = total.TotalDiffBase.Add(diff.DiffBase.Mul(item.Quantidade))
		total.LinhasComparadas++
	}
	if total.TotalXMLBase.GreaterThan(decimal.Zero) {
		total.TotalDiffPercent = total.TotalDiffBase.Div(total.TotalXMLBase).Mul(cem)
	}
	return total
}
