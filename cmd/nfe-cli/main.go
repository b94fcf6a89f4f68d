// nfe-cli roda o motor de conciliação sobre um dump JSON de nota, sem
// depender do coletor. Uso de suporte: reproduzir localmente a jornada e as
// diferenças financeiras de uma nota problemática.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/agrovale/nfe-api/pkg/logger"
)

var log *logger.Logger

var rootCmd = &cobra.Command{
	Use:   "nfe-cli",
	Short: "Ferramentas de suporte do motor de conciliação de NF-e",
	Long: `nfe-cli executa os cálculos puros do motor de conciliação sobre um
dump JSON de nota (mesmas formas de fio do coletor), sem tocar o ERP.

Subcomandos:
  jornada     resolve a etapa da jornada e a recoloração das etapas
  diferencas  calcula as diferenças financeiras por linha e os totais`,
}

func main() {
	// .env opcional, mesmo hábito do serviço
	_ = godotenv.Load()

	log = logger.New(logger.Config{
		Env:   os.Getenv("APP_ENV"),
		Level: "info",
	})

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "erro: %v\n", err)
		os.Exit(1)
	}
}
