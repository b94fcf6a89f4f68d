package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agrovale/nfe-api/internal/domain/nfe"
)

var jornadaCmd = &cobra.Command{
	Use:   "jornada <dump.json>",
	Short: "Resolve a etapa da jornada de uma nota a partir de um dump JSON",
	Example: `  # Jornada de uma nota exportada do coletor
  nfe-cli jornada nota-4655.json`,
	Args: cobra.ExactArgs(1),
	RunE: runJornada,
}

func init() {
	rootCmd.AddCommand(jornadaCmd)
}

func runJornada(cmd *cobra.Command, args []string) error {
	nota, itens, err := lerDump(args[0])
	if err != nil {
		return err
	}

	ap := nfe.EstadosEtapas(nota)
	log.Info().
		Str("chave", nota.Chave).
		Int("etapa", int(ap.Etapa)).
		Str("etapa_nome", ap.Etapa.String()).
		Msg("jornada resolvida")

	fmt.Printf("nota %s (%s)\n", nota.NumNF, nota.Chave)
	fmt.Printf("  etapa:          %d — %s\n", int(ap.Etapa), ap.Etapa)
	fmt.Printf("  compras:        %s (%s)\n", ap.EstadoPedidos, nota.StatusCompras)
	fmt.Printf("  fiscal:         %s (%s)\n", ap.EstadoFiscal, nota.StatusTES)
	if ap.FalhaCabecalho {
		fmt.Println("  atenção:        cabeçalho terminou em erro de execução automática")
	}
	fmt.Printf("  conciliadas:    %v (%d linhas)\n", nfe.TodosConciliados(itens), len(itens))
	fmt.Printf("  sugestões TES:  %d de %d linhas\n", nfe.ContarSugestoes(itens), len(itens))
	return nil
}
