package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/shopspring/decimal"

	"github.com/agrovale/nfe-api/internal/domain/nfe"
)

// dumpNota forma de fio do dump de nota aceito pelos subcomandos (mesmos
// nomes de campo do coletor).
type dumpNota struct {
	Chave         string     `json:"chave"`
	NumNF         string     `json:"num_nf"`
	StatusNF      string     `json:"status_nf"`
	StatusCompras string     `json:"status_compras"`
	StatusTES     string     `json:"status_tes"`
	Enviada       string     `json:"enviada"`
	Itens         []dumpItem `json:"itens"`
}

type dumpItem struct {
	ItemXML          int              `json:"item_xml"`
	DescricaoXML     string           `json:"descricao_xml"`
	ValorUnitarioXML decimal.Decimal  `json:"valor_unitario_xml"`
	Quantidade       decimal.Decimal  `json:"quantidade"`
	NumPedido        string           `json:"num_pedido"`
	ValorUnitarioPed *decimal.Decimal `json:"valor_unitario_ped"`
	Moeda            int              `json:"moeda"`
	UltimaPTAX       decimal.Decimal  `json:"ultima_ptax"`
	Similaridade     decimal.Decimal  `json:"similaridade"`
}

// lerDump carrega e converte o dump JSON para o modelo de domínio.
func lerDump(caminho string) (nfe.Nota, []nfe.ItemNota, error) {
	raw, err := os.ReadFile(caminho)
	if err != nil {
		return nfe.Nota{}, nil, fmt.Errorf("ler dump: %w", err)
	}
	var dump dumpNota
	if err := json.Unmarshal(raw, &dump); err != nil {
		return nfe.Nota{}, nil, fmt.Errorf("interpretar dump: %w", err)
	}

	nota := nfe.Nota{
		Chave:         dump.Chave,
		NumNF:         dump.NumNF,
		StatusNF:      dump.StatusNF,
		StatusCompras: dump.StatusCompras,
		StatusTES:     dump.StatusTES,
		Enviada:       dump.Enviada,
	}
	itens := make([]nfe.ItemNota, 0, len(dump.Itens))
	for _, d := range dump.Itens {
		item := nfe.ItemNota{
			Chave:            dump.Chave,
			ItemXML:          d.ItemXML,
			DescricaoXML:     d.DescricaoXML,
			ValorUnitarioXML: d.ValorUnitarioXML,
			Quantidade:       d.Quantidade,
			NumPedido:        d.NumPedido,
			Moeda:            d.Moeda,
			UltimaPTAX:       d.UltimaPTAX,
			Similaridade:     d.Similaridade,
		}
		if d.ValorUnitarioPed != nil {
			item.ValorUnitarioPedido = *d.ValorUnitarioPed
			item.TemValorPedido = true
		}
		itens = append(itens, item)
	}
	return nota, itens, nil
}
