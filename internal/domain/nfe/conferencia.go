package nfe

import "github.com/shopspring/decimal"

// Faixa classificação de um escore percentual para apresentação.
type Faixa string

const (
	FaixaAlta  Faixa = "alta"
	FaixaMedia Faixa = "media"
	FaixaBaixa Faixa = "baixa"
)

// Limiares fixos das faixas. Devem ser reproduzidos exatamente: o front
// pinta as linhas a partir deles.
var (
	limiarSimilaridadeAlta  = decimal.NewFromInt(66)
	limiarSimilaridadeMedia = decimal.NewFromInt(11)
	limiarTESAlta           = decimal.NewFromInt(90)
	limiarTESMedia          = decimal.NewFromInt(70)
)

// FaixaSimilaridade classifica o escore de similaridade (0–100) entre a
// descrição declarada no XML e a do pedido vinculado: >=66 alta, 11–65
// média, <11 baixa.
func FaixaSimilaridade(escore decimal.Decimal) Faixa {
	switch {
	case escore.GreaterThanOrEqual(limiarSimilaridadeAlta):
		return FaixaAlta
	case escore.GreaterThanOrEqual(limiarSimilaridadeMedia):
		return FaixaMedia
	default:
		return FaixaBaixa
	}
}

// FaixaConfiancaTES classifica a confiança da sugestão fiscal (0–100):
// >=90 alta, >=70 média, abaixo baixa. Escala própria, mesmo formato.
func FaixaConfiancaTES(confianca decimal.Decimal) Faixa {
	switch {
	case confianca.GreaterThanOrEqual(limiarTESAlta):
		return FaixaAlta
	case confianca.GreaterThanOrEqual(limiarTESMedia):
		return FaixaMedia
	default:
		return FaixaBaixa
	}
}

// Avaliacao resultado da conferência de uma linha.
type Avaliacao struct {
	Conciliado        bool
	ConfiancaPct      decimal.Decimal
	FaixaSimilaridade Faixa
}

// AvaliarItem confere uma linha: conciliada quando há número de pedido,
// com a similaridade pré-calculada classificada em faixa.
func AvaliarItem(item ItemNota) Avaliacao {
	return Avaliacao{
		Conciliado:        item.Conciliado(),
		ConfiancaPct:      item.Similaridade,
		FaixaSimilaridade: FaixaSimilaridade(item.Similaridade),
	}
}

// TodosConciliados agrega a conferência da nota: true somente quando toda
// linha tem pedido vinculado. Nota sem linhas não conta como conciliada.
func TodosConciliados(itens []ItemNota) bool {
	if len(itens) == 0 {
		return false
	}
	for _, item := range itens {
		if !item.Conciliado() {
			return false
		}
	}
	return true
}

// TodasComSugestao agrega a sugestão fiscal da nota: true quando toda linha
// tem código TES sugerido e a nota tem ao menos uma linha. Usado apenas para
// escolher a mensagem/cor da etapa fiscal da jornada.
func TodasComSugestao(totalLinhas, linhasComSugestao int) bool {
	return totalLinhas > 0 && linhasComSugestao == totalLinhas
}

// ContarSugestoes conta as linhas com código TES sugerido não vazio.
func ContarSugestoes(itens []ItemNota) int {
	n := 0
	for _, item := range itens {
		if item.TESCodigo != "" {
			n++
		}
	}
	return n
}
