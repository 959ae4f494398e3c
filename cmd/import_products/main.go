// import_products carga productos desde un CSV exportado de otro sistema.
//
// Uso: go run ./cmd/import_products -org <uuid> -user <uuid> [-latin1] productos.csv
//
// Columnas (con encabezado): sku,name,product_code,unit,purchase_price,sell_price,reorder_level,initial_stock,barcode
// Las filas con error se reportan y se siguen procesando las demás.
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/pos-backoffice/internal/application/dto"
	"github.com/jhoicas/pos-backoffice/internal/application/inventory"
	"github.com/jhoicas/pos-backoffice/internal/application/ports"
	"github.com/jhoicas/pos-backoffice/internal/application/usecase"
	"github.com/jhoicas/pos-backoffice/internal/infrastructure/postgres"
	"github.com/jhoicas/pos-backoffice/pkg/config"
	"github.com/jhoicas/pos-backoffice/pkg/logger"
)

var columns = []string{"sku", "name", "product_code", "unit", "purchase_price", "sell_price", "reorder_level", "initial_stock", "barcode"}

func main() {
	orgID := flag.String("org", "", "organización destino (UUID)")
	userID := flag.String("user", "", "usuario que figura en los movimientos de stock inicial (UUID)")
	latin1 := flag.Bool("latin1", false, "el archivo viene en ISO-8859-1")
	flag.Parse()
	if *orgID == "" || *userID == "" || flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "uso: import_products -org <uuid> -user <uuid> [-latin1] archivo.csv")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Named("import")

	f, err := os.Open(flag.Arg(0))
	if err != nil {
		log.Fatal().Err(err).Msg("abrir CSV")
	}
	defer f.Close()

	var src io.Reader = f
	if *latin1 {
		src = transform.NewReader(f, charmap.ISO8859_1.NewDecoder())
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	adjuster := inventory.NewStockAdjuster(cfg.Inventory.AllowNegativeStock, ports.NopMetrics{}, log)
	products := usecase.NewProductUseCase(
		postgres.NewProductRepository(pool),
		postgres.NewCategoryRepository(pool),
		postgres.NewTxRunner(pool),
		adjuster,
	)

	r := csv.NewReader(src)
	r.TrimLeadingSpace = true
	header, err := r.Read()
	if err != nil {
		log.Fatal().Err(err).Msg("leer encabezado")
	}
	index, err := columnIndex(header)
	if err != nil {
		log.Fatal().Err(err).Msg("encabezado")
	}

	var created, failed int
	for line := 2; ; line++ {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			log.Warn().Err(err).Int("line", line).Msg("fila ilegible")
			failed++
			continue
		}
		in, err := parseRow(record, index)
		if err != nil {
			log.Warn().Err(err).Int("line", line).Msg("fila inválida")
			failed++
			continue
		}
		if _, err := products.Create(ctx, *orgID, *userID, in); err != nil {
			log.Warn().Err(err).Int("line", line).Str("sku", in.SKU).Msg("no se pudo crear el producto")
			failed++
			continue
		}
		created++
	}

	log.Info().Int("created", created).Int("failed", failed).Msg("importación terminada")
	if failed > 0 {
		pool.Close()
		os.Exit(1)
	}
}

// columnIndex nombre de columna -> posición. sku y name son obligatorias.
func columnIndex(header []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{"sku", "name"} {
		if _, ok := idx[required]; !ok {
			return nil, fmt.Errorf("falta la columna %q (esperadas: %s)", required, strings.Join(columns, ","))
		}
	}
	return idx, nil
}

func parseRow(record []string, idx map[string]int) (dto.CreateProductRequest, error) {
	get := func(col string) string {
		i, ok := idx[col]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}
	in := dto.CreateProductRequest{
		SKU:         get("sku"),
		Name:        get("name"),
		ProductCode: get("product_code"),
		Unit:        get("unit"),
	}
	var err error
	if in.PurchasePrice, err = parseDecimal(get("purchase_price")); err != nil {
		return in, fmt.Errorf("purchase_price: %w", err)
	}
	if in.SellPrice, err = parseDecimal(get("sell_price")); err != nil {
		return in, fmt.Errorf("sell_price: %w", err)
	}
	if in.ReorderLevel, err = parseInt(get("reorder_level")); err != nil {
		return in, fmt.Errorf("reorder_level: %w", err)
	}
	if in.InitialStock, err = parseInt(get("initial_stock")); err != nil {
		return in, fmt.Errorf("initial_stock: %w", err)
	}
	if b := get("barcode"); b != "" {
		in.Barcode = &b
	}
	return in, nil
}

// parseDecimal acepta coma decimal ("1234,50").
func parseDecimal(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
}

func parseInt(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}
