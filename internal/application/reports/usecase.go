// Package reports implementa los reportes del POS sobre facturas no anuladas:
// resumen de ventas, productos más vendidos, ganancia estimada (costo de
// última compra) y alertas de stock bajo.
package reports

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-ledger-api/internal/application/dto"
	"github.com/jhoicas/pos-ledger-api/internal/domain/repository"
)

// UseCase consultas de reporte de solo lectura.
type UseCase struct {
	invoiceRepo repository.InvoiceRepository
	productRepo repository.ProductRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(invoiceRepo repository.InvoiceRepository, productRepo repository.ProductRepository) *UseCase {
	return &UseCase{invoiceRepo: invoiceRepo, productRepo: productRepo}
}

// SalesSummary total, cantidad y promedio de facturas no anuladas del rango.
func (uc *UseCase) SalesSummary(ctx context.Context, from, to time.Time) (*dto.SalesSummaryResponse, error) {
	invoices, err := uc.invoiceRepo.ListByDateRange(from, to)
	if err != nil {
		return nil, err
	}

	resp := &dto.SalesSummaryResponse{}
	for _, inv := range invoices {
		if inv.IsCancelled {
			continue
		}
		resp.TotalSales = resp.TotalSales.Add(inv.GrandTotal)
		resp.InvoicesCount++
	}
	if resp.InvoicesCount > 0 {
		resp.AvgInvoice = resp.TotalSales.Div(decimal.NewFromInt(int64(resp.InvoicesCount)))
	}
	return resp, nil
}

type productAgg struct {
	qty   decimal.Decimal
	value decimal.Decimal
}

// aggregateSoldItems acumula qty y valor vendido por producto en el rango,
// ignorando facturas anuladas.
func (uc *UseCase) aggregateSoldItems(from, to time.Time) (map[string]*productAgg, error) {
	invoices, err := uc.invoiceRepo.ListByDateRange(from, to)
	if err != nil {
		return nil, err
	}
	aggs := make(map[string]*productAgg)
	for _, inv := range invoices {
		if inv.IsCancelled {
			continue
		}
		items, err := uc.invoiceRepo.GetItems(inv.ID)
		if err != nil {
			return nil, err
		}
		for _, it := range items {
			agg := aggs[it.ProductID]
			if agg == nil {
				agg = &productAgg{}
				aggs[it.ProductID] = agg
			}
			agg.qty = agg.qty.Add(it.Qty)
			agg.value = agg.value.Add(it.LineTotal)
		}
	}
	return aggs, nil
}

// TopProducts los topN productos por cantidad vendida, desempate por valor.
func (uc *UseCase) TopProducts(ctx context.Context, from, to time.Time, topN int) ([]*dto.TopProductResponse, error) {
	if topN <= 0 {
		topN = 10
	}
	aggs, err := uc.aggregateSoldItems(from, to)
	if err != nil {
		return nil, err
	}

	out := make([]*dto.TopProductResponse, 0, len(aggs))
	for id, agg := range aggs {
		name := id
		if p, err := uc.productRepo.GetByID(id); err == nil && p != nil {
			name = p.Name
		}
		out = append(out, &dto.TopProductResponse{ProductID: id, Name: name, Qty: agg.qty, Value: agg.value})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Qty.Equal(out[j].Qty) {
			return out[i].Qty.GreaterThan(out[j].Qty)
		}
		return out[i].Value.GreaterThan(out[j].Value)
	})
	if len(out) > topN {
		out = out[:topN]
	}
	return out, nil
}

// EstimatedProfit ganancia estimada: ingreso vendido menos qty·costo de
// última compra de cada producto.
func (uc *UseCase) EstimatedProfit(ctx context.Context, from, to time.Time) (*dto.ProfitResponse, error) {
	aggs, err := uc.aggregateSoldItems(from, to)
	if err != nil {
		return nil, err
	}

	resp := &dto.ProfitResponse{}
	for id, agg := range aggs {
		resp.Revenue = resp.Revenue.Add(agg.value)
		if p, err := uc.productRepo.GetByID(id); err == nil && p != nil {
			resp.CostBasis = resp.CostBasis.Add(agg.qty.Mul(p.CostPrice))
		}
	}
	resp.EstimatedProfit = resp.Revenue.Sub(resp.CostBasis)
	return resp, nil
}

// LowStockAlerts productos activos con saldo en o bajo su umbral de alerta.
func (uc *UseCase) LowStockAlerts(ctx context.Context) ([]*dto.LowStockAlertResponse, error) {
	products, err := uc.productRepo.List(repository.ProductFilter{ActiveOnly: true})
	if err != nil {
		return nil, err
	}
	var alerts []*dto.LowStockAlertResponse
	for _, p := range products {
		if p.StockQty.LessThanOrEqual(p.MinStockAlert) {
			alerts = append(alerts, &dto.LowStockAlertResponse{
				ProductID:     p.ID,
				Name:          p.Name,
				StockQty:      p.StockQty,
				MinStockAlert: p.MinStockAlert,
			})
		}
	}
	return alerts, nil
}
