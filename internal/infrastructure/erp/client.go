package erp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker/v2"

	"github.com/agrovale/nfe-api/internal/application/conciliacao"
	"github.com/agrovale/nfe-api/internal/domain/nfe"
	"github.com/agrovale/nfe-api/pkg/logger"
)

// Verificação em tempo de compilação de que Cliente implementa a porta.
var _ conciliacao.ClienteERP = (*Cliente)(nil)

const maxRespostaBytes = 4 * 1024 * 1024 // notas grandes chegam a centenas de linhas

// Config do cliente ERP.
type Config struct {
	BaseURL        string
	Token          string
	Timeout        time.Duration
	BreakerMaxFail int
	BreakerOpenFor time.Duration
}

// Cliente adaptador HTTP/JSON para o backend ERP (coletor de notas e
// pedidos). Usa net/http da biblioteca padrão com um circuit breaker por
// host: o coletor compartilha o mesmo gateway para todas as rotas, então
// falhas consecutivas em qualquer rota abrem o circuito para todas.
type Cliente struct {
	cfg        Config
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[[]byte]
	log        *logger.Logger
}

// NewCliente constrói o adaptador.
func NewCliente(cfg Config, log *logger.Logger) *Cliente {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 25 * time.Second
	}
	maxFail := uint32(5)
	if cfg.BreakerMaxFail > 0 {
		maxFail = uint32(cfg.BreakerMaxFail)
	}
	openFor := cfg.BreakerOpenFor
	if openFor <= 0 {
		openFor = 30 * time.Second
	}

	sublog := log.Componente("erp")
	breaker := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:    "erp",
		Timeout: openFor,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFail
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			sublog.Warn().
				Str("breaker", name).
				Str("de", from.String()).
				Str("para", to.String()).
				Msg("mudança de estado do circuit breaker")
		},
	})

	return &Cliente{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		breaker:    breaker,
		log:        sublog,
	}
}

// ── Formas de fio (JSON do coletor) ───────────────────────────────────────────

type chaveRequest struct {
	Chave string `json:"chave"`
}

type buscaPedidoRequest struct {
	Chave   string `json:"chave"`
	ItemXML int    `json:"item_xml"`
}

type notaItensResponse struct {
	NumNF         string     `json:"num_nf"`
	StatusNF      string     `json:"status_nf"`
	StatusCompras string     `json:"status_compras"`
	StatusTES     string     `json:"status_tes"`
	Enviada       string     `json:"enviada"`
	Observacao    string     `json:"observacao"`
	Itens         []itemWire `json:"itens"`
}

type itemWire struct {
	ItemXML          int              `json:"item_xml"`
	DescricaoXML     string           `json:"descricao_xml"`
	ValorUnitarioXML decimal.Decimal  `json:"valor_unitario_xml"`
	Quantidade       decimal.Decimal  `json:"quantidade"`
	NumPedido        string           `json:"num_pedido"`
	DescricaoPedido  string           `json:"descricao_pedido"`
	ValorUnitarioPed *decimal.Decimal `json:"valor_unitario_ped"` // nulo = sem comparação
	RegistroPedido   string           `json:"registro_pedido"`
	Moeda            int              `json:"moeda"`
	UltimaPTAX       decimal.Decimal  `json:"ultima_ptax"`
	DataUltimaPTAX   string           `json:"data_ultima_ptax"`
	Similaridade     decimal.Decimal  `json:"similaridade"`
}

type historicoResponse struct {
	Eventos []struct {
		Data      string `json:"data"`
		Usuario   string `json:"usuario"`
		Descricao string `json:"descricao"`
	} `json:"eventos"`
}

type errosResponse struct {
	Erros []struct {
		Etapa    string `json:"etapa"`
		Mensagem string `json:"mensagem"`
	} `json:"erros"`
}

type sugestoesResponse struct {
	Itens []struct {
		NItem         int             `json:"nItem"`
		TESCodigo     string          `json:"tes_codigo"`
		Classe        string          `json:"classe"`
		ConfiancaPct  decimal.Decimal `json:"confianca_pct"`
		Justificativa string          `json:"justificativa_texto"`
	} `json:"itens"`
}

type candidatoWire struct {
	Pedido         string          `json:"pedido"`
	Produto        string          `json:"produto"`
	UM             string          `json:"um"`
	SaldoRestante  decimal.Decimal `json:"saldo_restante"`
	Moeda          int             `json:"moeda"`
	ValorUnitario  decimal.Decimal `json:"valor_unitario"`
	Registro       string          `json:"registro"`
	UltimaPTAX     decimal.Decimal `json:"ultima_ptax"`
	DataUltimaPTAX string          `json:"data_ultima_ptax"`
}

type conciliacaoRequest struct {
	Chave string             `json:"chave"`
	Itens []itemConciliaWire `json:"itens"`
}

type itemConciliaWire struct {
	ItemXML          int             `json:"item_xml"`
	NumPedido        string          `json:"num_pedido"`
	DescricaoPedido  string          `json:"descricao_pedido"`
	ValorUnitarioPed decimal.Decimal `json:"valor_unitario_ped"`
	RegistroPedido   string          `json:"registro_pedido"`
	Moeda            int             `json:"moeda"`
	UltimaPTAX       decimal.Decimal `json:"ultima_ptax"`
	DataUltimaPTAX   string          `json:"data_ultima_ptax"`
}

type statusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type erroERPResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// ── Transporte ────────────────────────────────────────────────────────────────

// postJSON envia um POST JSON ao coletor através do circuit breaker e devolve
// o corpo bruto da resposta.
func (c *Cliente) postJSON(ctx context.Context, rota string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("erp: serializar request: %w", err)
	}

	return c.breaker.Execute(func() ([]byte, error) {
		url := strings.TrimRight(c.cfg.BaseURL, "/") + rota
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("erp: criar HTTP request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		if c.cfg.Token != "" {
			req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("erp: timeout ou cancelamento: %w", ctx.Err())
			}
			return nil, fmt.Errorf("erp: chamada HTTP falhou: %w", err)
		}
		defer resp.Body.Close()

		raw, err := io.ReadAll(io.LimitReader(resp.Body, maxRespostaBytes))
		if err != nil {
			return nil, fmt.Errorf("erp: ler resposta: %w", err)
		}

		if resp.StatusCode != http.StatusOK {
			var envelope erroERPResponse
			if jsonErr := json.Unmarshal(raw, &envelope); jsonErr == nil && (envelope.Error != "" || envelope.Message != "") {
				return nil, fmt.Errorf("erp: %s HTTP %d: %s %s", rota, resp.StatusCode, envelope.Error, envelope.Message)
			}
			return nil, fmt.Errorf("erp: %s HTTP %d", rota, resp.StatusCode)
		}
		return raw, nil
	})
}

// ── Implementação da porta ────────────────────────────────────────────────────

// ItensNota busca cabeçalho e linhas da nota pela chave de acesso.
func (c *Cliente) ItensNota(ctx context.Context, chave string) (*conciliacao.NotaComItens, error) {
	raw, err := c.postJSON(ctx, "/notas/itens", chaveRequest{Chave: chave})
	if err != nil {
		return nil, err
	}
	var resp notaItensResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("erp: deserializar itens da nota: %w", err)
	}

	itens := make([]nfe.ItemNota, 0, len(resp.Itens))
	for _, w := range resp.Itens {
		item := nfe.ItemNota{
			Chave:            chave,
			ItemXML:          w.ItemXML,
			DescricaoXML:     w.DescricaoXML,
			ValorUnitarioXML: w.ValorUnitarioXML,
			Quantidade:       w.Quantidade,
			NumPedido:        w.NumPedido,
			DescricaoPedido:  w.DescricaoPedido,
			RegistroPedido:   w.RegistroPedido,
			Moeda:            w.Moeda,
			UltimaPTAX:       w.UltimaPTAX,
			DataUltimaPTAX:   w.DataUltimaPTAX,
			Similaridade:     w.Similaridade,
		}
		if w.ValorUnitarioPed != nil {
			item.ValorUnitarioPedido = *w.ValorUnitarioPed
			item.TemValorPedido = true
		}
		itens = append(itens, item)
	}

	return &conciliacao.NotaComItens{
		Nota: nfe.Nota{
			Chave:         chave,
			NumNF:         resp.NumNF,
			StatusNF:      resp.StatusNF,
			StatusCompras: resp.StatusCompras,
			StatusTES:     resp.StatusTES,
			Enviada:       resp.Enviada,
			Observacao:    resp.Observacao,
		},
		Itens: itens,
	}, nil
}

// HistoricoNota busca o histórico de processamento da nota.
func (c *Cliente) HistoricoNota(ctx context.Context, chave string) ([]nfe.EventoHistorico, error) {
	raw, err := c.postJSON(ctx, "/notas/historico", chaveRequest{Chave: chave})
	if err != nil {
		return nil, err
	}
	var resp historicoResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("erp: deserializar histórico: %w", err)
	}
	eventos := make([]nfe.EventoHistorico, 0, len(resp.Eventos))
	for _, e := range resp.Eventos {
		eventos = append(eventos, nfe.EventoHistorico{
			Chave:     chave,
			Data:      e.Data,
			Usuario:   e.Usuario,
			Descricao: e.Descricao,
		})
	}
	return eventos, nil
}

// ErrosNota busca os erros registrados pelo fluxo automático.
func (c *Cliente) ErrosNota(ctx context.Context, chave string) ([]nfe.ErroProcessamento, error) {
	raw, err := c.postJSON(ctx, "/notas/erros", chaveRequest{Chave: chave})
	if err != nil {
		return nil, err
	}
	var resp errosResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("erp: deserializar erros: %w", err)
	}
	erros := make([]nfe.ErroProcessamento, 0, len(resp.Erros))
	for _, e := range resp.Erros {
		erros = append(erros, nfe.ErroProcessamento{
			Chave:    chave,
			Etapa:    e.Etapa,
			Mensagem: e.Mensagem,
		})
	}
	return erros, nil
}

// SugestoesTES busca as sugestões de código fiscal por linha.
func (c *Cliente) SugestoesTES(ctx context.Context, chave string) ([]nfe.SugestaoTES, error) {
	raw, err := c.postJSON(ctx, "/notas/sugestao-tes", chaveRequest{Chave: chave})
	if err != nil {
		return nil, err
	}
	var resp sugestoesResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("erp: deserializar sugestões TES: %w", err)
	}
	sugestoes := make([]nfe.SugestaoTES, 0, len(resp.Itens))
	for _, s := range resp.Itens {
		sugestoes = append(sugestoes, nfe.SugestaoTES{
			NItem:         s.NItem,
			TESCodigo:     s.TESCodigo,
			Classe:        s.Classe,
			ConfiancaPct:  s.ConfiancaPct,
			Justificativa: s.Justificativa,
		})
	}
	return sugestoes, nil
}

// BuscarPedidos busca pedidos de compra candidatos para uma linha.
func (c *Cliente) BuscarPedidos(ctx context.Context, chave string, itemXML int) ([]nfe.CandidatoPedido, error) {
	raw, err := c.postJSON(ctx, "/pedidos/busca", buscaPedidoRequest{Chave: chave, ItemXML: itemXML})
	if err != nil {
		return nil, err
	}
	var wire []candidatoWire
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, fmt.Errorf("erp: deserializar candidatos: %w", err)
	}
	candidatos := make([]nfe.CandidatoPedido, 0, len(wire))
	for _, w := range wire {
		candidatos = append(candidatos, nfe.CandidatoPedido{
			Pedido:         w.Pedido,
			Produto:        w.Produto,
			UM:             w.UM,
			SaldoRestante:  w.SaldoRestante,
			Moeda:          w.Moeda,
			ValorUnitario:  w.ValorUnitario,
			Registro:       w.Registro,
			UltimaPTAX:     w.UltimaPTAX,
			DataUltimaPTAX: w.DataUltimaPTAX,
		})
	}
	return candidatos, nil
}

// SalvarConciliacao envia o conjunto completo de linhas conciliadas.
func (c *Cliente) SalvarConciliacao(ctx context.Context, chave string, itens []nfe.ItemNota) error {
	payload := conciliacaoRequest{Chave: chave, Itens: make([]itemConciliaWire, 0, len(itens))}
	for _, item := range itens {
		payload.Itens = append(payload.Itens, itemConciliaWire{
			ItemXML:          item.ItemXML,
			NumPedido:        item.NumPedido,
			DescricaoPedido:  item.DescricaoPedido,
			ValorUnitarioPed: item.ValorUnitarioPedido,
			RegistroPedido:   item.RegistroPedido,
			Moeda:            item.Moeda,
			UltimaPTAX:       item.UltimaPTAX,
			DataUltimaPTAX:   item.DataUltimaPTAX,
		})
	}

	raw, err := c.postJSON(ctx, "/notas/conciliacao-manual", payload)
	if err != nil {
		return err
	}
	var resp statusResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return fmt.Errorf("erp: deserializar confirmação: %w", err)
	}
	if !strings.EqualFold(resp.Status, "ok") && !strings.EqualFold(resp.Status, "sucesso") {
		return fmt.Errorf("erp: conciliação recusada pelo coletor: %s %s", resp.Status, resp.Message)
	}
	return nil
}
