package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agrovale/nfe-api/internal/domain/nfe"
)

var diferencasCmd = &cobra.Command{
	Use:   "diferencas <dump.json>",
	Short: "Calcula as diferenças financeiras por linha e os totais da nota",
	Example: `  # Diferenças de uma nota exportada do coletor
  nfe-cli diferencas nota-4655.json`,
	Args: cobra.ExactArgs(1),
	RunE: runDiferencas,
}

func init() {
	rootCmd.AddCommand(diferencasCmd)
}

func runDiferencas(cmd *cobra.Command, args []string) error {
	nota, itens, err := lerDump(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("nota %s (%s)\n", nota.NumNF, nota.Chave)
	for _, item := range itens {
		diff, ok := nfe.CalcularDiferenca(item)
		if !ok {
			fmt.Printf("  item %3d: sem pedido vinculado, não comparável\n", item.ItemXML)
			continue
		}
		fmt.Printf("  item %3d: xml %s  pedido %s  diff %s (%s%%)\n",
			item.ItemXML,
			item.ValorUnitarioXML.StringFixed(2),
			diff.ValorPedidoBase.StringFixed(2),
			diff.DiffBase.StringFixed(2),
			diff.DiffPercent.StringFixed(2),
		)
	}

	total := nfe.TotalizarDiferencas(itens)
	fmt.Printf("total: xml %s  diff %s (%s%%) em %d linhas comparadas\n",
		total.TotalXMLBase.StringFixed(2),
		total.TotalDiffBase.StringFixed(2),
		total.TotalDiffPercent.StringFixed(2),
		total.LinhasComparadas,
	)
	return nil
}
