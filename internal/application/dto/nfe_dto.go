package dto

import "github.com/shopspring/decimal"

// ErrorResponse corpo de erro padronizado da API.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	// Itens inválidos da conciliação, quando aplicável (para destaque no front).
	InvalidItems []int `json:"invalid_items,omitempty"`
}

// JornadaResponse etapa ordinal e recoloração das etapas intermediárias.
type JornadaResponse struct {
	Etapa          int    `json:"etapa"`
	EtapaNome      string `json:"etapa_nome"`
	EstadoPedidos  string `json:"estado_pedidos"`
	EstadoFiscal   string `json:"estado_fiscal"`
	FalhaCabecalho bool   `json:"falha_cabecalho"`
}

// DiferencaResponse comparação financeira de uma linha (presente apenas
// quando a linha é comparável).
type DiferencaResponse struct {
	ValorPedidoBase decimal.Decimal `json:"valor_pedido_base"`
	DiffBase        decimal.Decimal `json:"diff_base"`
	DiffPercent     decimal.Decimal `json:"diff_percent"`
}

// ItemDetalheResponse linha da nota com conferência e diferença calculadas.
type ItemDetalheResponse struct {
	ItemXML          int                `json:"item_xml"`
	DescricaoXML     string             `json:"descricao_xml"`
	ValorUnitarioXML decimal.Decimal    `json:"valor_unitario_xml"`
	Quantidade       decimal.Decimal    `json:"quantidade"`
	NumPedido        string             `json:"num_pedido,omitempty"`
	DescricaoPedido  string             `json:"descricao_pedido,omitempty"`
	ValorUnitarioPed decimal.Decimal    `json:"valor_unitario_ped"`
	Moeda            int                `json:"moeda"`
	UltimaPTAX       decimal.Decimal    `json:"ultima_ptax"`
	DataUltimaPTAX   string             `json:"data_ultima_ptax,omitempty"`
	Similaridade     decimal.Decimal    `json:"similaridade"`
	FaixaSimilar     string             `json:"faixa_similaridade"`
	Conciliado       bool               `json:"conciliado"`
	TESCodigo        string             `json:"tes_codigo,omitempty"`
	TESConfianca     decimal.Decimal    `json:"tes_confianca"`
	FaixaTES         string             `json:"faixa_tes"`
	TESJustificativa string             `json:"tes_justificativa,omitempty"`
	Diferenca        *DiferencaResponse `json:"diferenca,omitempty"`
}

// TotaisResponse totais financeiros da nota.
type TotaisResponse struct {
	TotalXMLBase     decimal.Decimal `json:"total_xml_base"`
	TotalDiffBase    decimal.Decimal `json:"total_diff_base"`
	TotalDiffPercent decimal.Decimal `json:"total_diff_percent"`
	LinhasComparadas int             `json:"linhas_comparadas"`
}

// EventoHistoricoResponse entrada do histórico da nota.
type EventoHistoricoResponse struct {
	Data      string `json:"data"`
	Usuario   string `json:"usuario"`
	Descricao string `json:"descricao"`
}

// ErroProcessamentoResponse erro do fluxo automático da nota.
type ErroProcessamentoResponse struct {
	Etapa    string `json:"etapa"`
	Mensagem string `json:"mensagem"`
}

// DetalheNotaResponse resposta completa da central de notas: cabeçalho,
// linhas conferidas, jornada, totais e seções auxiliares. Seções auxiliares
// que falharam no coletor vêm vazias e listadas em secoes_indisponiveis.
type DetalheNotaResponse struct {
	Chave               string                      `json:"chave"`
	NumNF               string                      `json:"num_nf"`
	StatusNF            string                      `json:"status_nf"`
	StatusCompras       string                      `json:"status_compras"`
	StatusTES           string                      `json:"status_tes"`
	Enviada             string                      `json:"enviada"`
	Observacao          string                      `json:"observacao,omitempty"`
	Jornada             JornadaResponse             `json:"jornada"`
	Itens               []ItemDetalheResponse       `json:"itens"`
	Totais              TotaisResponse              `json:"totais"`
	TodosConciliados    bool                        `json:"todos_conciliados"`
	TodasComSugestao    bool                        `json:"todas_com_sugestao"`
	Historico           []EventoHistoricoResponse   `json:"historico"`
	Erros               []ErroProcessamentoResponse `json:"erros"`
	SecoesIndisponiveis []string                    `json:"secoes_indisponiveis,omitempty"`
}

// BuscaPedidosRequest filtro textual opcional aplicado no lado do cliente
// sobre o conjunto retornado pelo ERP (não dispara segunda consulta).
type BuscaPedidosRequest struct {
	Filtro string `json:"filtro"`
}

// CandidatoPedidoResponse pedido de compra candidato ao vínculo.
type CandidatoPedidoResponse struct {
	Pedido         string          `json:"pedido"`
	Produto        string          `json:"produto"`
	UM             string          `json:"um"`
	SaldoRestante  decimal.Decimal `json:"saldo_restante"`
	Moeda          int             `json:"moeda"`
	ValorUnitario  decimal.Decimal `json:"valor_unitario"`
	Registro       string          `json:"registro"`
	UltimaPTAX     decimal.Decimal `json:"ultima_ptax"`
	DataUltimaPTAX string          `json:"data_ultima_ptax,omitempty"`
}

// BuscaPedidosResponse resultado da busca. TotalSemFiltro permite ao front
// distinguir "fornecedor sem pedidos em aberto" de "filtro sem resultado".
type BuscaPedidosResponse struct {
	TotalSemFiltro int                       `json:"total_sem_filtro"`
	Candidatos     []CandidatoPedidoResponse `json:"candidatos"`
}

// ItemConciliacaoRequest linha do rascunho enviada para gravação.
type ItemConciliacaoRequest struct {
	ItemXML          int             `json:"item_xml"`
	NumPedido        string          `json:"num_pedido"`
	DescricaoPedido  string          `json:"descricao_pedido"`
	ValorUnitarioPed decimal.Decimal `json:"valor_unitario_ped"`
	RegistroPedido   string          `json:"registro_pedido"`
	Moeda            int             `json:"moeda"`
	UltimaPTAX       decimal.Decimal `json:"ultima_ptax"`
	DataUltimaPTAX   string          `json:"data_ultima_ptax"`
}

// ConciliacaoRequest conjunto completo de linhas conciliadas da nota.
type ConciliacaoRequest struct {
	Itens []ItemConciliacaoRequest `json:"itens"`
}

// ConciliacaoResponse confirmação da gravação.
type ConciliacaoResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}
