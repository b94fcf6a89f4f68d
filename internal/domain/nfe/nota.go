package nfe

// Status da cabeçalho da NF-e (status_nf). Valores vindos do coletor,
// de fontes independentes entre si; combinações inconsistentes são possíveis.
const (
	StatusNFImportada  = "importada"     // Lançada no ERP pelo fluxo automático
	StatusNFManual     = "manual"        // Lançada manualmente pelo operador
	StatusNFPendente   = "pendente"      // Aguardando processamento
	StatusNFAguardando = "aguardando"    // Na fila de execução automática
	StatusNFErro       = "erro"          // Erro genérico de processamento
	StatusNFErroExec   = "erro execauto" // Falhou na execução automática (terminal)
	StatusNFFinalizada = "finalizada"
)

// Status do pipeline de compras (status_compras).
const (
	StatusComprasConcluido = "CONCLUIDO"
	StatusComprasPendente  = "PENDENTE"
	StatusComprasFila      = "FILA"
)

// Status do pipeline fiscal (status_tes).
const (
	StatusTESProcessado = "PROCESSADO"
	StatusTESPendente   = "PENDENTE"
	StatusTESErro       = "ERRO"
)

// EnviadaSim valor afirmativo do flag "enviada para a unidade".
const EnviadaSim = "sim"

// Moedas do pedido de compra. A enumeração é fixa no ERP e os ramos de
// conversão dependem dela; 1 é a moeda base da nota (BRL).
const (
	MoedaBRL = 1
	MoedaUSD = 2
	MoedaEUR = 3
)

// MoedaEstrangeira indica se o código de moeda exige conversão via PTAX.
func MoedaEstrangeira(moeda int) bool {
	return moeda == MoedaUSD || moeda == MoedaEUR
}

// Nota cabeçalho de uma NF-e de entrada, identificada pela chave de acesso
// de 44 caracteres.
type Nota struct {
	Chave         string
	NumNF         string
	StatusNF      string
	StatusCompras string
	StatusTES     string
	Enviada       string // "sim" quando já enviada à unidade
	Observacao    string
}

// EnviadaUnidade devolve true quando a nota já foi enviada à unidade.
func (n Nota) EnviadaUnidade() bool {
	return n.Enviada == EnviadaSim
}

// EventoHistorico entrada do histórico de processamento da nota.
type EventoHistorico struct {
	Chave     string
	Data      string
	Usuario   string
	Descricao string
}

// ErroProcessamento erro registrado pelo fluxo automático para a nota.
type ErroProcessamento struct {
	Chave    string
	Etapa    string
	Mensagem string
}
