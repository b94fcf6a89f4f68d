package nfe

// Etapa posição ordinal da nota na jornada de processamento.
type Etapa int

const (
	EtapaRecebida Etapa = iota + 1
	EtapaProcessamentoPedidos
	EtapaDefinicaoFiscal
	EtapaEnviadaUnidade
	EtapaFinalizada
)

// String nome da etapa para logs e respostas.
func (e Etapa) String() string {
	switch e {
	case EtapaRecebida:
		return "Recebida"
	case EtapaProcessamentoPedidos:
		return "Processamento de Pedidos"
	case EtapaDefinicaoFiscal:
		return "Definição Fiscal"
	case EtapaEnviadaUnidade:
		return "Enviada à Unidade"
	case EtapaFinalizada:
		return "Lançada/Finalizada"
	default:
		return "Recebida"
	}
}

// statusNFTerminais estados de cabeçalho que encerram a jornada,
// independentemente dos demais pipelines.
var statusNFTerminais = map[string]bool{
	StatusNFImportada:  true,
	StatusNFManual:     true,
	StatusNFErroExec:   true,
	StatusNFFinalizada: true,
}

// ResolverEtapa mapeia os três status independentes da nota em uma única
// etapa ordinal. Avaliação de cima para baixo, primeiro caso vence:
//
//  1. status terminal do cabeçalho -> Finalizada
//  2. enviada à unidade            -> EnviadaUnidade
//  3. TES processado               -> DefinicaoFiscal
//  4. TES pendente ou em erro      -> ProcessamentoPedidos (a classificação
//     fiscal não inicia antes de compras resolver os pedidos)
//  5. qualquer outra combinação    -> Recebida
//
// Função pura e total: entradas desconhecidas caem em Recebida.
func ResolverEtapa(statusNF string, enviadaUnidade bool, statusTES string) Etapa {
	if statusNFTerminais[statusNF] {
		return EtapaFinalizada
	}
	if enviadaUnidade {
		return EtapaEnviadaUnidade
	}
	switch statusTES {
	case StatusTESProcessado:
		return EtapaDefinicaoFiscal
	case StatusTESPendente, StatusTESErro:
		return EtapaProcessamentoPedidos
	}
	return EtapaRecebida
}

// EstadoEtapa classificação visual de uma etapa da jornada.
type EstadoEtapa string

const (
	EstadoSucesso     EstadoEtapa = "sucesso"
	EstadoFalha       EstadoEtapa = "falha"
	EstadoEmAndamento EstadoEtapa = "em_andamento"
)

// ApresentacaoJornada recoloração das etapas intermediárias a partir de
// status_compras e status_tes. É uma classificação independente da etapa
// ordinal calculada por ResolverEtapa e não a altera: uma etapa pode constar
// como alcançada e ao mesmo tempo em falha (escolha confirmada do fluxo
// original, não unificar).
type ApresentacaoJornada struct {
	Etapa          Etapa
	EstadoPedidos  EstadoEtapa // etapa ProcessamentoPedidos
	EstadoFiscal   EstadoEtapa // etapa DefinicaoFiscal
	FalhaCabecalho bool        // cabeçalho terminal em erro ("erro execauto")
}

// EstadosEtapas calcula a etapa ordinal e a recoloração das etapas de
// compras e fiscal para a nota.
func EstadosEtapas(n Nota) ApresentacaoJornada {
	return ApresentacaoJornada{
		Etapa:          ResolverEtapa(n.StatusNF, n.EnviadaUnidade(), n.StatusTES),
		EstadoPedidos:  estadoCompras(n.StatusCompras),
		EstadoFiscal:   estadoFiscal(n.StatusTES),
		FalhaCabecalho: n.StatusNF == StatusNFErroExec,
	}
}

func estadoCompras(status string) EstadoEtapa {
	switch status {
	case StatusComprasConcluido:
		return EstadoSucesso
	case StatusComprasFila:
		return EstadoEmAndamento
	default:
		// PENDENTE, ERRO ou valor desconhecido: etapa concluída com falha
		return EstadoFalha
	}
}

func estadoFiscal(status string) EstadoEtapa {
	switch status {
	case StatusTESProcessado:
		return EstadoSucesso
	case StatusTESPendente, StatusTESErro:
		return EstadoFalha
	default:
		return EstadoEmAndamento
	}
}
