package conciliacao

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/agrovale/nfe-api/internal/domain"
	"github.com/agrovale/nfe-api/internal/domain/nfe"
)

// EstadoLinha estado de uma linha dentro do rascunho de conciliação.
type EstadoLinha string

const (
	LinhaNaoConciliada EstadoLinha = "nao_conciliada"
	LinhaBuscando      EstadoLinha = "buscando"
	LinhaConciliada    EstadoLinha = "conciliada"
)

// LinhaRascunho linha da nota com seu estado de conciliação.
type LinhaRascunho struct {
	Item   nfe.ItemNota
	Estado EstadoLinha
}

// Rascunho cópia de trabalho das linhas de uma nota durante a conciliação
// manual. Vive apenas em memória: é descartado no cancelamento e só chega ao
// ERP via UseCase.Salvar após validação completa.
type Rascunho struct {
	Chave  string
	Linhas []LinhaRascunho
}

// NovoRascunho cria o rascunho a partir das linhas atuais da nota. Linhas já
// vinculadas a pedido entram como conciliadas.
func NovoRascunho(chave string, itens []nfe.ItemNota) *Rascunho {
	r := &Rascunho{Chave: chave, Linhas: make([]LinhaRascunho, 0, len(itens))}
	for _, item := range itens {
		estado := LinhaNaoConciliada
		if item.Conciliado() {
			estado = LinhaConciliada
		}
		r.Linhas = append(r.Linhas, LinhaRascunho{Item: item, Estado: estado})
	}
	return r
}

// Linha devolve um ponteiro para a linha com o número de item informado.
func (r *Rascunho) Linha(itemXML int) (*LinhaRascunho, error) {
	for i := range r.Linhas {
		if r.Linhas[i].Item.ItemXML == itemXML {
			return &r.Linhas[i], nil
		}
	}
	return nil, domain.ErrItemNaoEncontrado
}

// IniciarBusca marca a linha como em busca de pedido (diálogo aberto).
func (r *Rascunho) IniciarBusca(itemXML int) error {
	linha, err := r.Linha(itemXML)
	if err != nil {
		return err
	}
	linha.Estado = LinhaBuscando
	return nil
}

// Selecionar copia os campos do candidato escolhido para a linha e a marca
// como conciliada. Todos os campos de vínculo são sobrescritos de uma vez;
// nada do vínculo anterior sobrevive (inclusive a similaridade, que se
// referia à descrição do pedido antigo).
func (r *Rascunho) Selecionar(itemXML int, candidato nfe.CandidatoPedido) error {
	linha, err := r.Linha(itemXML)
	if err != nil {
		return err
	}

	item := &linha.Item
	item.NumPedido = candidato.Pedido
	item.DescricaoPedido = candidato.Produto
	item.ValorUnitarioPedido = candidato.ValorUnitario
	item.TemValorPedido = true
	item.RegistroPedido = candidato.Registro
	item.Moeda = candidato.Moeda
	item.UltimaPTAX = candidato.UltimaPTAX
	item.DataUltimaPTAX = candidato.DataUltimaPTAX
	item.Similaridade = decimal.Zero

	linha.Estado = LinhaConciliada
	return nil
}

// Validar devolve os números de item sem pedido vinculado. Lista vazia
// significa rascunho completo e apto à gravação.
func (r *Rascunho) Validar() []int {
	var invalidos []int
	for _, linha := range r.Linhas {
		if strings.TrimSpace(linha.Item.NumPedido) == "" {
			invalidos = append(invalidos, linha.Item.ItemXML)
		}
	}
	return invalidos
}

// Itens devolve as linhas do rascunho como itens da nota, na ordem original.
func (r *Rascunho) Itens() []nfe.ItemNota {
	itens := make([]nfe.ItemNota, 0, len(r.Linhas))
	for _, linha := range r.Linhas {
		itens = append(itens, linha.Item)
	}
	return itens
}

// FiltrarCandidatos aplica o filtro textual do diálogo de busca sobre o
// conjunto já carregado (sem nova consulta ao ERP). Filtro vazio devolve o
// conjunto inteiro; a comparação ignora caixa e cobre número do pedido e
// descrição do produto. O chamador distingue "fornecedor sem pedidos" de
// "filtro sem resultado" comparando com o tamanho do conjunto original.
func FiltrarCandidatos(candidatos []nfe.CandidatoPedido, filtro string) []nfe.CandidatoPedido {
	filtro = strings.TrimSpace(strings.ToLower(filtro))
	if filtro == "" {
		return candidatos
	}
	filtrados := make([]nfe.CandidatoPedido, 0, len(candidatos))
	for _, c := range candidatos {
		if strings.Contains(strings.ToLower(c.Pedido), filtro) ||
			strings.Contains(strings.ToLower(c.Produto), filtro) {
			filtrados = append(filtrados, c)
		}
	}
	return filtrados
}
