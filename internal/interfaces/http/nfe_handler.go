package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/agrovale/nfe-api/internal/application/conciliacao"
	"github.com/agrovale/nfe-api/internal/application/dto"
	"github.com/agrovale/nfe-api/internal/domain"
	"github.com/agrovale/nfe-api/internal/domain/nfe"
)

// NotaHandler atende as rotas da central de notas (detalhe, busca de
// pedidos e conciliação manual).
type NotaHandler struct {
	uc *conciliacao.UseCase
}

// NewNotaHandler constrói o handler.
func NewNotaHandler(uc *conciliacao.UseCase) *NotaHandler {
	return &NotaHandler{uc: uc}
}

// chaveValida chave de acesso de NF-e tem 44 dígitos.
func chaveValida(chave string) bool {
	if len(chave) != 44 {
		return false
	}
	for _, r := range chave {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Detalhe devolve o detalhe consolidado da nota: jornada, linhas conferidas,
// diferenças financeiras, totais e seções auxiliares.
// GET /api/nfe/:chave
func (h *NotaHandler) Detalhe(c *fiber.Ctx) error {
	chave := c.Params("chave")
	if !chaveValida(chave) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code: "CHAVE_INVALIDA", Message: "chave de acesso deve ter 44 dígitos"})
	}

	detalhe, err := h.uc.CarregarDetalhe(c.Context(), chave)
	if err != nil {
		if errors.Is(err, domain.ErrNotaInvalida) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Code: "NOTA_INVALIDA", Message: "nota sem itens ou resposta inválida do coletor"})
		}
		return erroInterno(c, err)
	}

	return c.JSON(montarDetalheResponse(detalhe))
}

// BuscarPedidos busca pedidos de compra candidatos para uma linha e aplica o
// filtro textual do lado do cliente.
// POST /api/nfe/:chave/itens/:item/pedidos
func (h *NotaHandler) BuscarPedidos(c *fiber.Ctx) error {
	chave := c.Params("chave")
	if !chaveValida(chave) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code: "CHAVE_INVALIDA", Message: "chave de acesso deve ter 44 dígitos"})
	}
	itemXML, err := c.ParamsInt("item")
	if err != nil || itemXML <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code: "ITEM_INVALIDO", Message: "número do item deve ser um inteiro positivo"})
	}

	var in dto.BuscaPedidosRequest
	if err := c.BodyParser(&in); err != nil && !errors.Is(err, fiber.ErrUnprocessableEntity) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code: "INVALID_BODY", Message: "corpo inválido"})
	}

	res, err := h.uc.BuscarPedidos(c.Context(), chave, itemXML, in.Filtro)
	if err != nil {
		if errors.Is(err, domain.ErrBuscaPedidos) {
			return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{
				Code: "BUSCA_PEDIDOS", Message: "falha na busca de pedidos no ERP"})
		}
		return erroInterno(c, err)
	}

	out := dto.BuscaPedidosResponse{
		TotalSemFiltro: res.TotalSemFiltro,
		Candidatos:     make([]dto.CandidatoPedidoResponse, 0, len(res.Candidatos)),
	}
	for _, cand := range res.Candidatos {
		out.Candidatos = append(out.Candidatos, dto.CandidatoPedidoResponse{
			Pedido:         cand.Pedido,
			Produto:        cand.Produto,
			UM:             cand.UM,
			SaldoRestante:  cand.SaldoRestante,
			Moeda:          cand.Moeda,
			ValorUnitario:  cand.ValorUnitario,
			Registro:       cand.Registro,
			UltimaPTAX:     cand.UltimaPTAX,
			DataUltimaPTAX: cand.DataUltimaPTAX,
		})
	}
	return c.JSON(out)
}

// Conciliar valida e grava o conjunto completo de linhas conciliadas.
// POST /api/nfe/:chave/conciliacao
func (h *NotaHandler) Conciliar(c *fiber.Ctx) error {
	chave := c.Params("chave")
	if !chaveValida(chave) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code: "CHAVE_INVALIDA", Message: "chave de acesso deve ter 44 dígitos"})
	}

	var in dto.ConciliacaoRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	if len(in.Itens) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code: "VALIDATION", Message: "conciliação sem itens"})
	}

	itens := make([]nfe.ItemNota, 0, len(in.Itens))
	for _, linha := range in.Itens {
		itens = append(itens, nfe.ItemNota{
			Chave:               chave,
			ItemXML:             linha.ItemXML,
			NumPedido:           linha.NumPedido,
			DescricaoPedido:     linha.DescricaoPedido,
			ValorUnitarioPedido: linha.ValorUnitarioPed,
			TemValorPedido:      true,
			RegistroPedido:      linha.RegistroPedido,
			Moeda:               linha.Moeda,
			UltimaPTAX:          linha.UltimaPTAX,
			DataUltimaPTAX:      linha.DataUltimaPTAX,
		})
	}
	rascunho := conciliacao.NovoRascunho(chave, itens)

	if err := h.uc.Salvar(c.Context(), rascunho); err != nil {
		var ev *conciliacao.ErroValidacao
		if errors.As(err, &ev) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
				Code:         "CONCILIACAO_INCOMPLETA",
				Message:      "existem itens sem pedido de compra vinculado",
				InvalidItems: ev.ItensInvalidos,
			})
		}
		if errors.Is(err, domain.ErrSalvarConciliacao) {
			return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{
				Code: "SALVAR_CONCILIACAO", Message: "falha ao gravar a conciliação no ERP; tente novamente"})
		}
		return erroInterno(c, err)
	}

	return c.JSON(dto.ConciliacaoResponse{Status: "ok"})
}

func erroInterno(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Code: "INTERNAL", Message: err.Error()})
}

// montarDetalheResponse converte o detalhe consolidado em resposta HTTP,
// calculando jornada, faixas e diferenças com os serviços puros do domínio.
func montarDetalheResponse(detalhe *conciliacao.DetalheNota) dto.DetalheNotaResponse {
	nota := detalhe.Nota
	jornada := nfe.EstadosEtapas(nota)

	itens := make([]dto.ItemDetalheResponse, 0, len(detalhe.Itens))
	for _, item := range detalhe.Itens {
		av := nfe.AvaliarItem(item)
		out := dto.ItemDetalheResponse{
			ItemXML:          item.ItemXML,
			DescricaoXML:     item.DescricaoXML,
			ValorUnitarioXML: item.ValorUnitarioXML,
			Quantidade:       item.Quantidade,
			NumPedido:        item.NumPedido,
			DescricaoPedido:  item.DescricaoPedido,
			ValorUnitarioPed: item.ValorUnitarioPedido,
			Moeda:            item.Moeda,
			UltimaPTAX:       item.UltimaPTAX,
			DataUltimaPTAX:   item.DataUltimaPTAX,
			Similaridade:     item.Similaridade,
			FaixaSimilar:     string(av.FaixaSimilaridade),
			Conciliado:       av.Conciliado,
			TESCodigo:        item.TESCodigo,
			TESConfianca:     item.TESConfianca,
			FaixaTES:         string(nfe.FaixaConfiancaTES(item.TESConfianca)),
			TESJustificativa: item.TESJustificativa,
		}
		if diff, ok := nfe.CalcularDiferenca(item); ok {
			out.Diferenca = &dto.DiferencaResponse{
				ValorPedidoBase: diff.ValorPedidoBase,
				DiffBase:        diff.DiffBase,
				DiffPercent:     diff.DiffPercent,
			}
		}
		itens = append(itens, out)
	}

	totais := nfe.TotalizarDiferencas(detalhe.Itens)

	historico := make([]dto.EventoHistoricoResponse, 0, len(detalhe.Historico))
	for _, e := range detalhe.Historico {
		historico = append(historico, dto.EventoHistoricoResponse{
			Data: e.Data, Usuario: e.Usuario, Descricao: e.Descricao})
	}
	erros := make([]dto.ErroProcessamentoResponse, 0, len(detalhe.Erros))
	for _, e := range detalhe.Erros {
		erros = append(erros, dto.ErroProcessamentoResponse{Etapa: e.Etapa, Mensagem: e.Mensagem})
	}

	return dto.DetalheNotaResponse{
		Chave:         nota.Chave,
		NumNF:         nota.NumNF,
		StatusNF:      nota.StatusNF,
		StatusCompras: nota.StatusCompras,
		StatusTES:     nota.StatusTES,
		Enviada:       nota.Enviada,
		Observacao:    nota.Observacao,
		Jornada: dto.JornadaResponse{
			Etapa:          int(jornada.Etapa),
			EtapaNome:      jornada.Etapa.String(),
			EstadoPedidos:  string(jornada.EstadoPedidos),
			EstadoFiscal:   string(jornada.EstadoFiscal),
			FalhaCabecalho: jornada.FalhaCabecalho,
		},
		Itens: itens,
		Totais: dto.TotaisResponse{
			TotalXMLBase:     totais.TotalXMLBase,
			TotalDiffBase:    totais.TotalDiffBase,
			TotalDiffPercent: totais.TotalDiffPercent,
			LinhasComparadas: totais.LinhasComparadas,
		},
		TodosConciliados:    nfe.TodosConciliados(detalhe.Itens),
		TodasComSugestao:    nfe.TodasComSugestao(len(detalhe.Itens), nfe.ContarSugestoes(detalhe.Itens)),
		Historico:           historico,
		Erros:               erros,
		SecoesIndisponiveis: detalhe.Indisponiveis,
	}
}
