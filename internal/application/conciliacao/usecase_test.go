package conciliacao_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrovale/nfe-api/internal/application/conciliacao"
	"github.com/agrovale/nfe-api/internal/domain"
	"github.com/agrovale/nfe-api/internal/domain/nfe"
	"github.com/agrovale/nfe-api/pkg/logger"
)

// clienteERPFake implementa a porta ClienteERP para os testes do caso de uso.
type clienteERPFake struct {
	notaItens    *conciliacao.NotaComItens
	errItens     error
	historico    []nfe.EventoHistorico
	errHistorico error
	erros        []nfe.ErroProcessamento
	errErros     error
	sugestoes    []nfe.SugestaoTES
	errSugestoes error
	candidatos   []nfe.CandidatoPedido
	errBusca     error
	errSalvar    error

	salvouChave string
	salvouItens []nfe.ItemNota
	buscas      int
}

func (f *clienteERPFake) ItensNota(context.Context, string) (*conciliacao.NotaComItens, error) {
	return f.notaItens, f.errItens
}

func (f *clienteERPFake) HistoricoNota(context.Context, string) ([]nfe.EventoHistorico, error) {
	return f.historico, f.errHistorico
}

func (f *clienteERPFake) ErrosNota(context.Context, string) ([]nfe.ErroProcessamento, error) {
	return f.erros, f.errErros
}

func (f *clienteERPFake) SugestoesTES(context.Context, string) ([]nfe.SugestaoTES, error) {
	return f.sugestoes, f.errSugestoes
}

func (f *clienteERPFake) BuscarPedidos(context.Context, string, int) ([]nfe.CandidatoPedido, error) {
	f.buscas++
	return f.candidatos, f.errBusca
}

func (f *clienteERPFake) SalvarConciliacao(_ context.Context, chave string, itens []nfe.ItemNota) error {
	if f.errSalvar != nil {
		return f.errSalvar
	}
	f.salvouChave = chave
	f.salvouItens = itens
	return nil
}

func logTeste() *logger.Logger {
	return logger.New(logger.Config{Env: "production", Level: "error"})
}

func notaComItensFake() *conciliacao.NotaComItens {
	return &conciliacao.NotaComItens{
		Nota: nfe.Nota{
			Chave:     chaveTeste,
			NumNF:     "000004655",
			StatusNF:  nfe.StatusNFPendente,
			StatusTES: nfe.StatusTESPendente,
		},
		Itens: itensNotaTeste(),
	}
}

// ── CarregarDetalhe ───────────────────────────────────────────────────────────

func TestCarregarDetalhe_TodasAsSecoes(t *testing.T) {
	erp := &clienteERPFake{
		notaItens: notaComItensFake(),
		historico: []nfe.EventoHistorico{{Descricao: "XML recebido"}},
		erros:     []nfe.ErroProcessamento{{Mensagem: "pedido não localizado"}},
		sugestoes: []nfe.SugestaoTES{
			{NItem: 1, TESCodigo: "010", ConfiancaPct: decimal.NewFromInt(95), Justificativa: "insumo agrícola"},
		},
	}
	uc := conciliacao.NewUseCase(erp, logTeste())

	detalhe, err := uc.CarregarDetalhe(context.Background(), chaveTeste)
	require.NoError(t, err)

	assert.Equal(t, "000004655", detalhe.Nota.NumNF)
	assert.Len(t, detalhe.Itens, 2)
	assert.Len(t, detalhe.Historico, 1)
	assert.Len(t, detalhe.Erros, 1)
	assert.Empty(t, detalhe.Indisponiveis)

	// sugestão TES anexada à linha pelo número do item
	assert.Equal(t, "010", detalhe.Itens[0].TESCodigo)
	assert.True(t, detalhe.Itens[0].TESConfianca.Equal(decimal.NewFromInt(95)))
	assert.Empty(t, detalhe.Itens[1].TESCodigo, "linha sem sugestão permanece vazia")
}

func TestCarregarDetalhe_FalhaPrimariaInvalidaODetalhe(t *testing.T) {
	erp := &clienteERPFake{
		errItens:  errors.New("coletor fora do ar"),
		historico: []nfe.EventoHistorico{{Descricao: "ok"}},
	}
	uc := conciliacao.NewUseCase(erp, logTeste())

	_, err := uc.CarregarDetalhe(context.Background(), chaveTeste)
	assert.ErrorIs(t, err, domain.ErrNotaInvalida,
		"sem a lista de itens o detalhe inteiro é inválido")
}

func TestCarregarDetalhe_FalhaAuxiliarDegradaParaVazio(t *testing.T) {
	erp := &clienteERPFake{
		notaItens:    notaComItensFake(),
		errHistorico: errors.New("timeout"),
		errSugestoes: errors.New("500"),
		erros:        []nfe.ErroProcessamento{{Mensagem: "x"}},
	}
	uc := conciliacao.NewUseCase(erp, logTeste())

	detalhe, err := uc.CarregarDetalhe(context.Background(), chaveTeste)
	require.NoError(t, err, "falha auxiliar não derruba o detalhe")

	assert.Empty(t, detalhe.Historico)
	assert.Len(t, detalhe.Erros, 1, "as seções que responderam continuam presentes")
	assert.ElementsMatch(t,
		[]string{conciliacao.SecaoHistorico, conciliacao.SecaoSugestoes},
		detalhe.Indisponiveis)
}

func TestCarregarDetalhe_ChaveVazia(t *testing.T) {
	uc := conciliacao.NewUseCase(&clienteERPFake{}, logTeste())
	_, err := uc.CarregarDetalhe(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrEntradaInvalida)
}

// ── BuscarPedidos ─────────────────────────────────────────────────────────────

func TestBuscarPedidos_FiltroClienteSemSegundaConsulta(t *testing.T) {
	erp := &clienteERPFake{
		candidatos: []nfe.CandidatoPedido{
			{Pedido: "PC-9001", Produto: "MAP SACARIA"},
			{Pedido: "PC-9002", Produto: "UREIA GRANEL"},
		},
	}
	uc := conciliacao.NewUseCase(erp, logTeste())

	res, err := uc.BuscarPedidos(context.Background(), chaveTeste, 1, "ureia")
	require.NoError(t, err)

	assert.Equal(t, 2, res.TotalSemFiltro)
	require.Len(t, res.Candidatos, 1)
	assert.Equal(t, "PC-9002", res.Candidatos[0].Pedido)
	assert.Equal(t, 1, erp.buscas, "o filtro é local; uma única chamada ao ERP")
}

func TestBuscarPedidos_BaseVaziaVersusFiltroSemResultado(t *testing.T) {
	uc := conciliacao.NewUseCase(&clienteERPFake{}, logTeste())

	res, err := uc.BuscarPedidos(context.Background(), chaveTeste, 1, "qualquer")
	require.NoError(t, err)
	assert.Zero(t, res.TotalSemFiltro, "fornecedor sem pedidos em aberto")
	assert.Empty(t, res.Candidatos)
}

func TestBuscarPedidos_ErroDoERP(t *testing.T) {
	erp := &clienteERPFake{errBusca: errors.New("502")}
	uc := conciliacao.NewUseCase(erp, logTeste())

	_, err := uc.BuscarPedidos(context.Background(), chaveTeste, 1, "")
	assert.ErrorIs(t, err, domain.ErrBuscaPedidos)
}

// ── Salvar ────────────────────────────────────────────────────────────────────

func TestSalvar_RecusaRascunhoIncompletoSemChamarRede(t *testing.T) {
	erp := &clienteERPFake{}
	uc := conciliacao.NewUseCase(erp, logTeste())
	rascunho := conciliacao.NovoRascunho(chaveTeste, itensNotaTeste())

	err := uc.Salvar(context.Background(), rascunho)

	var ev *conciliacao.ErroValidacao
	require.ErrorAs(t, err, &ev)
	assert.Equal(t, []int{1}, ev.ItensInvalidos)
	assert.ErrorIs(t, err, domain.ErrConciliacaoIncompleta)
	assert.Empty(t, erp.salvouChave, "a recusa acontece antes de qualquer chamada ao ERP")
}

func TestSalvar_EnviaTodasAsLinhasDeUmaVez(t *testing.T) {
	erp := &clienteERPFake{}
	uc := conciliacao.NewUseCase(erp, logTeste())
	rascunho := conciliacao.NovoRascunho(chaveTeste, itensNotaTeste())
	require.NoError(t, rascunho.Selecionar(1, candidatoUSD()))

	require.NoError(t, uc.Salvar(context.Background(), rascunho))

	assert.Equal(t, chaveTeste, erp.salvouChave)
	require.Len(t, erp.salvouItens, 2, "o conjunto completo de linhas vai em uma única gravação")
	assert.Equal(t, "PC-9001", erp.salvouItens[0].NumPedido)
	assert.Equal(t, "PC-4711", erp.salvouItens[1].NumPedido)
}

func TestSalvar_FalhaDoERPPreservaORascunho(t *testing.T) {
	erp := &clienteERPFake{errSalvar: errors.New("gateway timeout")}
	uc := conciliacao.NewUseCase(erp, logTeste())
	rascunho := conciliacao.NovoRascunho(chaveTeste, itensNotaTeste())
	require.NoError(t, rascunho.Selecionar(1, candidatoUSD()))

	err := uc.Salvar(context.Background(), rascunho)
	require.ErrorIs(t, err, domain.ErrSalvarConciliacao)

	// o rascunho permanece intocado para nova tentativa
	linha, errLinha := rascunho.Linha(1)
	require.NoError(t, errLinha)
	assert.Equal(t, "PC-9001", linha.Item.NumPedido)
	assert.Empty(t, rascunho.Validar())
}
