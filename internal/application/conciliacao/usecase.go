package conciliacao

import (
	"context"
	"fmt"
	"sync"

	"github.com/agrovale/nfe-api/internal/domain"
	"github.com/agrovale/nfe-api/internal/domain/nfe"
	"github.com/agrovale/nfe-api/pkg/logger"
)

// Seções auxiliares do detalhe da nota, para sinalizar falhas parciais.
const (
	SecaoHistorico = "historico"
	SecaoErros     = "erros"
	SecaoSugestoes = "sugestoes_tes"
)

// DetalheNota resultado consolidado do carregamento da central de notas.
// Seções auxiliares que falharam vêm vazias e listadas em Indisponiveis.
type DetalheNota struct {
	Nota          nfe.Nota
	Itens         []nfe.ItemNota
	Historico     []nfe.EventoHistorico
	Erros         []nfe.ErroProcessamento
	Indisponiveis []string
}

// ErroValidacao falha da checagem de completude antes da gravação; carrega
// os números de item sem pedido para destaque no front.
type ErroValidacao struct {
	ItensInvalidos []int
}

func (e *ErroValidacao) Error() string {
	return fmt.Sprintf("%v: itens %v", domain.ErrConciliacaoIncompleta, e.ItensInvalidos)
}

func (e *ErroValidacao) Unwrap() error {
	return domain.ErrConciliacaoIncompleta
}

// ResultadoBusca candidatos retornados pelo ERP e a visão filtrada no lado
// do cliente. TotalSemFiltro distingue base vazia de filtro sem resultado.
type ResultadoBusca struct {
	TotalSemFiltro int
	Candidatos     []nfe.CandidatoPedido
}

// UseCase orquestra o fluxo de conciliação manual contra o ERP.
type UseCase struct {
	erp ClienteERP
	log *logger.Logger
}

// NewUseCase constrói o caso de uso.
func NewUseCase(erp ClienteERP, log *logger.Logger) *UseCase {
	return &UseCase{erp: erp, log: log.Componente("conciliacao")}
}

// CarregarDetalhe dispara as quatro consultas do detalhe em paralelo e
// espera todas terminarem. A falha da consulta primária (itens) invalida o
// detalhe; falhas das auxiliares degradam a seção para vazia, sem retry
// global e sem derrubar as demais.
func (uc *UseCase) CarregarDetalhe(ctx context.Context, chave string) (*DetalheNota, error) {
	if chave == "" {
		return nil, domain.ErrEntradaInvalida
	}

	var (
		wg        sync.WaitGroup
		notaItens *NotaComItens
		historico []nfe.EventoHistorico
		erros     []nfe.ErroProcessamento
		sugestoes []nfe.SugestaoTES

		errItens, errHist, errErros, errSug error
	)

	wg.Add(4)
	go func() {
		defer wg.Done()
		notaItens, errItens = uc.erp.ItensNota(ctx, chave)
	}()
	go func() {
		defer wg.Done()
		historico, errHist = uc.erp.HistoricoNota(ctx, chave)
	}()
	go func() {
		defer wg.Done()
		erros, errErros = uc.erp.ErrosNota(ctx, chave)
	}()
	go func() {
		defer wg.Done()
		sugestoes, errSug = uc.erp.SugestoesTES(ctx, chave)
	}()
	wg.Wait()

	if errItens != nil || notaItens == nil {
		uc.log.Error().Err(errItens).Str("chave", chave).Msg("consulta primária de itens falhou")
		return nil, fmt.Errorf("%w: %v", domain.ErrNotaInvalida, errItens)
	}

	detalhe := &DetalheNota{
		Nota:  notaItens.Nota,
		Itens: notaItens.Itens,
	}

	if errHist != nil {
		uc.log.Warn().Err(errHist).Str("chave", chave).Msg("histórico indisponível")
		detalhe.Indisponiveis = append(detalhe.Indisponiveis, SecaoHistorico)
	} else {
		detalhe.Historico = historico
	}
	if errErros != nil {
		uc.log.Warn().Err(errErros).Str("chave", chave).Msg("erros de processamento indisponíveis")
		detalhe.Indisponiveis = append(detalhe.Indisponiveis, SecaoErros)
	} else {
		detalhe.Erros = erros
	}
	if errSug != nil {
		uc.log.Warn().Err(errSug).Str("chave", chave).Msg("sugestões TES indisponíveis")
		detalhe.Indisponiveis = append(detalhe.Indisponiveis, SecaoSugestoes)
	} else {
		aplicarSugestoes(detalhe.Itens, sugestoes)
	}

	return detalhe, nil
}

// aplicarSugestoes anexa as sugestões fiscais às linhas pelo número do item.
func aplicarSugestoes(itens []nfe.ItemNota, sugestoes []nfe.SugestaoTES) {
	porItem := make(map[int]nfe.SugestaoTES, len(sugestoes))
	for _, s := range sugestoes {
		porItem[s.NItem] = s
	}
	for i := range itens {
		s, ok := porItem[itens[i].ItemXML]
		if !ok {
			continue
		}
		itens[i].TESCodigo = s.TESCodigo
		itens[i].TESClasse = s.Classe
		itens[i].TESConfianca = s.ConfiancaPct
		itens[i].TESJustificativa = s.Justificativa
	}
}

// BuscarPedidos consulta os pedidos candidatos para a linha e aplica o
// filtro textual do lado do cliente. Uma busca por vez por diálogo; o
// descarte de respostas atrasadas após o fechamento do diálogo é
// responsabilidade do chamador.
func (uc *UseCase) BuscarPedidos(ctx context.Context, chave string, itemXML int, filtro string) (*ResultadoBusca, error) {
	candidatos, err := uc.erp.BuscarPedidos(ctx, chave, itemXML)
	if err != nil {
		uc.log.Error().Err(err).Str("chave", chave).Int("item", itemXML).Msg("busca de pedidos falhou")
		return nil, fmt.Errorf("%w: %v", domain.ErrBuscaPedidos, err)
	}
	return &ResultadoBusca{
		TotalSemFiltro: len(candidatos),
		Candidatos:     FiltrarCandidatos(candidatos, filtro),
	}, nil
}

// Salvar valida o rascunho e, somente se completo, envia todas as linhas ao
// ERP de uma vez. Rascunho incompleto é recusado antes de qualquer chamada
// de rede; falha do ERP deixa o rascunho intocado para nova tentativa.
func (uc *UseCase) Salvar(ctx context.Context, rascunho *Rascunho) error {
	if rascunho == nil || rascunho.Chave == "" {
		return domain.ErrEntradaInvalida
	}

	if invalidos := rascunho.Validar(); len(invalidos) > 0 {
		return &ErroValidacao{ItensInvalidos: invalidos}
	}

	if err := uc.erp.SalvarConciliacao(ctx, rascunho.Chave, rascunho.Itens()); err != nil {
		uc.log.Error().Err(err).Str("chave", rascunho.Chave).Msg("envio da conciliação falhou")
		return fmt.Errorf("%w: %v", domain.ErrSalvarConciliacao, err)
	}

	uc.log.Info().Str("chave", rascunho.Chave).Int("linhas", len(rascunho.Linhas)).
		Msg("conciliação manual gravada")
	return nil
}
