package nfe

import "github.com/shopspring/decimal"

// ItemNota linha de uma NF-e, identificada por (Chave, ItemXML).
//
// ValorUnitarioXML está sempre na moeda base da nota (BRL). O preço do
// pedido vinculado (ValorUnitarioPedido) está na moeda do pedido; quando a
// moeda é estrangeira, UltimaPTAX é a taxa de referência usada na conversão.
type ItemNota struct {
	Chave            string
	ItemXML          int
	DescricaoXML     string
	ValorUnitarioXML decimal.Decimal
	Quantidade       decimal.Decimal

	// Campos preenchidos pelo vínculo com o pedido de compra.
	NumPedido           string
	DescricaoPedido     string
	ValorUnitarioPedido decimal.Decimal
	TemValorPedido      bool // false enquanto não há pedido comparável
	RegistroPedido      string
	Moeda               int
	UltimaPTAX          decimal.Decimal
	DataUltimaPTAX      string

	// Escores pré-calculados pelo serviço de sugestão (0–100).
	Similaridade decimal.Decimal

	// Sugestão fiscal (TES) da linha.
	TESCodigo        string
	TESClasse        string
	TESConfianca     decimal.Decimal
	TESJustificativa string
}

// Conciliado indica se a linha já tem pedido de compra vinculado.
func (i ItemNota) Conciliado() bool {
	return i.NumPedido != ""
}

// CandidatoPedido projeção de um pedido de compra retornado pela busca.
// Efêmero: existe apenas durante o diálogo de busca; ao ser escolhido, seus
// campos são copiados para a linha e o candidato é descartado.
type CandidatoPedido struct {
	Pedido         string
	Produto        string
	UM             string
	SaldoRestante  decimal.Decimal
	Moeda          int
	ValorUnitario  decimal.Decimal
	Registro       string
	UltimaPTAX     decimal.Decimal
	DataUltimaPTAX string
}

// SugestaoTES sugestão de código fiscal para uma linha da nota.
type SugestaoTES struct {
	NItem         int
	TESCodigo     string
	Classe        string
	ConfiancaPct  decimal.Decimal
	Justificativa string
}
