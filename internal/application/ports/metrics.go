package ports

// BusinessMetrics contadores de negocio expuestos en /metrics.
type BusinessMetrics interface {
	SaleRecorded(items int)
	PurchaseRecorded(items int)
	StockMovement(movementType string)
	NegativeStock()
	LoginAttempt(result string)
}

// NopMetrics implementación vacía para tests y herramientas de línea de comando.
type NopMetrics struct{}

func (NopMetrics) SaleRecorded(int)     {}
func (NopMetrics) PurchaseRecorded(int) {}
func (NopMetrics) StockMovement(string) {}
func (NopMetrics) NegativeStock()       {}
func (NopMetrics) LoginAttempt(string)  {}
