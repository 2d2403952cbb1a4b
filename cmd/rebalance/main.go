// rebalance ejecuta el rateo tienda a tienda desde la línea de comandos.
//
// Uso:
//
//	rebalance run -in base.xlsx -outgoing L01,L02 -incoming L03 [-out resultado.json] [-pdf informe.pdf]
//	              [-xlsx resultado.xlsx] [-min-days-out 100] [-target-days-in 60] [-min-move 10]
//	              [-include-pending-po=true]
//	rebalance run -snapshot <id> -outgoing ... -incoming ...   (usa SNAPSHOT_SOURCE)
//	rebalance stores -in base.csv
//	rebalance template -out modelo.xlsx   (o modelo.csv)
//
// -in acepta .xlsx (hoja "Base") o CSV; el formato se detecta por el contenido.
//
// Los parámetros omitidos toman los valores de REBALANCE_* (o los por defecto 100/60/10/true).
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jhoicas/Rateio-api/internal/application/dto"
	apprebalance "github.com/jhoicas/Rateio-api/internal/application/rebalance"
	"github.com/jhoicas/Rateio-api/internal/domain/entity"
	"github.com/jhoicas/Rateio-api/internal/domain/repository"
	"github.com/jhoicas/Rateio-api/internal/infrastructure/excel"
	infrapdf "github.com/jhoicas/Rateio-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Rateio-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Rateio-api/internal/infrastructure/sheets"
	"github.com/jhoicas/Rateio-api/internal/infrastructure/tabular"
	"github.com/jhoicas/Rateio-api/pkg/config"
	"github.com/jhoicas/Rateio-api/pkg/logger"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	var err error
	switch os.Args[1] {
	case "run":
		err = runCmd(os.Args[2:])
	case "stores":
		err = storesCmd(os.Args[2:])
	case "template":
		err = templateCmd(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "rebalance %s: %v\n", os.Args[1], err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "uso: rebalance run|stores|template [flags]")
}

func runCmd(args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	in := fs.String("in", "", "base de entrada (.xlsx o CSV)")
	snapshotID := fs.String("snapshot", "", "id de base guardada (SNAPSHOT_SOURCE)")
	out := fs.String("out", "", "archivo JSON de salida (vacío = stdout)")
	pdfPath := fs.String("pdf", "", "archivo PDF del informe (opcional)")
	xlsxPath := fs.String("xlsx", "", "libro .xlsx con el resultado (opcional)")
	outgoing := fs.String("outgoing", "", "tiendas de salida separadas por coma")
	incoming := fs.String("incoming", "", "tiendas de entrada separadas por coma")
	minDaysOut := fs.Int("min-days-out", 0, "días de stock mínimo en la tienda de salida")
	targetDaysIn := fs.Int("target-days-in", 0, "días de stock objetivo en la tienda de entrada")
	minMove := fs.Int("min-move", 0, "cantidad mínima a mover")
	includePO := fs.Bool("include-pending-po", true, "considerar pedidos de compra pendientes")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if (*in == "") == (*snapshotID == "") {
		return errors.New("indique -in o -snapshot (uno de los dos)")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Output: os.Stderr})
	ctx := context.Background()

	// Solo los flags informados sobrescriben los valores configurados.
	var params dto.RebalanceParamsDTO
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "min-days-out":
			params.MinDaysOut = minDaysOut
		case "target-days-in":
			params.TargetDaysIn = targetDaysIn
		case "min-move":
			params.MinMove = minMove
		case "include-pending-po":
			params.IncludePendingPO = includePO
		}
	})
	stores := dto.StoreSelectionDTO{
		OutgoingStores: strings.Split(*outgoing, ","),
		IncomingStores: strings.Split(*incoming, ","),
	}

	var snapshots repository.SnapshotRepository
	if *snapshotID != "" {
		var closeSnapshots func()
		if snapshots, closeSnapshots, err = openSnapshots(ctx, cfg, log); err != nil {
			return err
		}
		defer closeSnapshots()
	}
	uc := apprebalance.NewRebalanceUseCase(cfg.Rebalance, snapshots,
		infrapdf.NewMarotoReportGenerator(cfg.Report.Locale, cfg.Report.Currency),
		excel.NewExcelizeWorkbookGenerator(cfg.Report.Currency), log)

	var res *dto.RebalanceResponse
	if *snapshotID != "" {
		res, err = uc.RunSnapshot(ctx, *snapshotID, dto.SnapshotRebalanceRequest{Params: params, StoreSelectionDTO: stores})
	} else {
		var rows []entity.InventoryRow
		if rows, err = readBaseFile(*in); err != nil {
			return err
		}
		res, err = uc.Run(ctx, apprebalance.SourceUpload, rows, params, stores)
	}
	if err != nil {
		return err
	}

	if err := writeJSON(*out, res); err != nil {
		return err
	}
	if *pdfPath != "" {
		pdf, err := uc.Report(ctx, res)
		if err != nil {
			return err
		}
		if err := os.WriteFile(*pdfPath, pdf, 0o644); err != nil {
			return fmt.Errorf("escribir PDF: %w", err)
		}
		log.Info().Str("path", *pdfPath).Msg("informe PDF generado")
	}
	if *xlsxPath != "" {
		xlsx, err := uc.Workbook(ctx, res)
		if err != nil {
			return err
		}
		if err := os.WriteFile(*xlsxPath, xlsx, 0o644); err != nil {
			return fmt.Errorf("escribir xlsx: %w", err)
		}
		log.Info().Str("path", *xlsxPath).Msg("libro xlsx generado")
	}
	return nil
}

func storesCmd(args []string) error {
	fs := flag.NewFlagSet("stores", flag.ContinueOnError)
	in := fs.String("in", "", "base de entrada (.xlsx o CSV)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rows, err := readBaseFile(*in)
	if err != nil {
		return err
	}
	for _, s := range apprebalance.ListStores(rows) {
		fmt.Println(s)
	}
	return nil
}

func templateCmd(args []string) error {
	fs := flag.NewFlagSet("template", flag.ContinueOnError)
	out := fs.String("out", "modelo_rateio.xlsx", "archivo a escribir (.xlsx, o .csv para CSV)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	write := tabular.WriteTemplate
	if strings.EqualFold(filepath.Ext(*out), ".csv") {
		write = tabular.WriteTemplateCSV
	}
	return writeFile(*out, write)
}

// openSnapshots abre la fuente configurada; el cierre libera el pool de PostgreSQL.
func openSnapshots(ctx context.Context, cfg *config.Config, log *logger.Logger) (repository.SnapshotRepository, func(), error) {
	switch cfg.Snapshot.Source {
	case config.SnapshotSourcePostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, nil, err
		}
		return postgres.NewSnapshotRepository(pool), pool.Close, nil
	case config.SnapshotSourceSheets:
		repo, err := sheets.NewSnapshotRepository(ctx, cfg.Sheets, log)
		if err != nil {
			return nil, nil, err
		}
		return repo, func() {}, nil
	default:
		return nil, nil, errors.New("SNAPSHOT_SOURCE no configurado (postgres | sheets)")
	}
}

func readBaseFile(path string) ([]entity.InventoryRow, error) {
	if path == "" {
		return nil, errors.New("falta -in")
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("abrir %s: %w", path, err)
	}
	defer f.Close()
	return tabular.ReadBase(f)
}

func writeJSON(path string, v interface{}) error {
	encode := func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	if path == "" {
		return encode(os.Stdout)
	}
	return writeFile(path, encode)
}

// writeFile crea path, escribe y devuelve también el error de Close.
func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("crear %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("cerrar %s: %w", path, cerr)
		}
	}()
	return write(f)
}
