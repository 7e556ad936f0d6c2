package source

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/farxc/vendas_sync/internal/db"
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
)

// Export file names, one per source table.
const (
	MesaFile     = "Mesa.csv"
	PedidoFile   = "Pedido.csv"
	DespesasFile = "Despesas.csv"
	CaixaFile    = "N_MovimentosCaixa.csv"
)

var ErrMissingFile = errors.New("export file not found")

// CSVSource reads a directory of exports produced by the point-of-sale
// back office: ';' separated, Windows-1252 encoded, comma decimals.
type CSVSource struct {
	dir string
}

func NewCSV(dir string) *CSVSource {
	return &CSVSource{dir: dir}
}

func (s *CSVSource) Open(ctx context.Context) (Reader, error) {
	if s.dir == "" {
		return nil, fmt.Errorf("csv source: %w", db.ErrMissingConnectionString)
	}
	info, err := os.Stat(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open export directory %s: %w", s.dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("export path %s is not a directory", s.dir)
	}
	return &csvReader{dir: s.dir}, nil
}

type csvReader struct {
	dir string
}

func (r *csvReader) Close() error { return nil }

func (r *csvReader) Tables(ctx context.Context) ([]TableRow, error) {
	mesa, err := r.load(MesaFile)
	if err != nil {
		return nil, err
	}
	lines, err := r.allOrderLines()
	if err != nil {
		return nil, err
	}

	type aggregate struct {
		first, last time.Time
		total       decimal.Decimal
		hasLines    bool
	}
	byCont := make(map[int64]*aggregate)
	for _, l := range lines {
		if !l.Cont.Valid {
			continue
		}
		agg, ok := byCont[l.Cont.Int64]
		if !ok {
			agg = &aggregate{}
			byCont[l.Cont.Int64] = agg
		}
		agg.hasLines = true
		agg.total = agg.total.Add(l.Qty.Decimal.Mul(l.UnitPrice.Decimal))
		if l.At.Valid {
			if agg.first.IsZero() || l.At.Time.Before(agg.first) {
				agg.first = l.At.Time
			}
			if l.At.Time.After(agg.last) {
				agg.last = l.At.Time
			}
		}
	}

	rows := make([]TableRow, 0, mesa.Nrow())
	for i := 0; i < mesa.Nrow(); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row := TableRow{
			TableID:  mesa.String("codigo", i),
			Status:   mesa.String("estado", i),
			Sector:   mesa.String("sector", i),
			Cont:     mesa.Int("cont", i),
			OpenedAt: mesa.Time("nota_time", i),
		}
		if row.Cont.Valid {
			if agg, ok := byCont[row.Cont.Int64]; ok && agg.hasLines {
				row.CurrentTotal = decimal.NullDecimal{Decimal: agg.total, Valid: true}
				if !agg.first.IsZero() {
					row.FirstOrderAt = sql.NullTime{Time: agg.first, Valid: true}
					row.LastOrderAt = sql.NullTime{Time: agg.last, Valid: true}
				}
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (r *csvReader) OrderLines(ctx context.Context, since time.Time) ([]OrderLine, error) {
	lines, err := r.allOrderLines()
	if err != nil {
		return nil, err
	}

	recent := make([]OrderLine, 0, len(lines))
	for _, l := range lines {
		if l.At.Valid && Within(l.At.Time, since) {
			recent = append(recent, l)
		}
	}
	return recent, ctx.Err()
}

func (r *csvReader) allOrderLines() ([]OrderLine, error) {
	pedido, err := r.load(PedidoFile)
	if err != nil {
		return nil, err
	}

	lines := make([]OrderLine, 0, pedido.Nrow())
	for i := 0; i < pedido.Nrow(); i++ {
		lines = append(lines, OrderLine{
			Cont:        pedido.Int("cont", i),
			Table:       pedido.String("mesa", i),
			Customer:    pedido.String("cliente", i),
			At:          pedido.Time("data", i),
			ProductCode: pedido.String("codigo", i),
			ProductName: pedido.String("designacao", i),
			Qty:         pedido.Decimal("quant", i),
			UnitPrice:   pedido.Decimal("valor", i),
		})
	}
	return lines, nil
}

func (r *csvReader) Expenses(ctx context.Context, since time.Time) ([]ExpenseRow, error) {
	despesas, err := r.load(DespesasFile)
	if err != nil {
		return nil, err
	}

	var rows []ExpenseRow
	for i := 0; i < despesas.Nrow(); i++ {
		id := despesas.Int("id", i)
		spentAt := despesas.Time("data", i)
		if !id.Valid || !spentAt.Valid || !Within(spentAt.Time, since) {
			continue
		}
		rows = append(rows, ExpenseRow{
			ID:          id.Int64,
			SpentAt:     spentAt,
			Description: despesas.String("descricao", i),
			Amount:      despesas.Decimal("valor", i),
			Note:        despesas.String("obs", i),
			Operator:    despesas.String("user_r", i),
		})
	}
	return rows, ctx.Err()
}

func (r *csvReader) Shifts(ctx context.Context, since time.Time) ([]ShiftRow, error) {
	caixa, err := r.load(CaixaFile)
	if err != nil {
		return nil, err
	}

	var rows []ShiftRow
	for i := 0; i < caixa.Nrow(); i++ {
		id := caixa.Int("id", i)
		if !id.Valid {
			continue
		}
		opened := caixa.Time("abertura", i)
		closed := caixa.Time("fecho", i)
		if !(opened.Valid && Within(opened.Time, since)) && !(closed.Valid && Within(closed.Time, since)) {
			continue
		}
		rows = append(rows, ShiftRow{
			ID:          id.Int64,
			OpenedAt:    opened,
			ClosedAt:    closed,
			TotalPaid:   caixa.Decimal("total_pago", i),
			CashExpense: caixa.Decimal("desp_caixa", i),
		})
	}
	return rows, ctx.Err()
}

func (r *csvReader) load(name string) (*frame, error) {
	path := filepath.Join(r.dir, name)
	df, err := openFileAndDecode(path)
	if err != nil {
		return nil, err
	}
	return newFrame(df), nil
}

func openFileAndDecode(path string) (dataframe.DataFrame, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return dataframe.DataFrame{}, fmt.Errorf("%w: %s", ErrMissingFile, path)
		}
		return dataframe.DataFrame{}, fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer file.Close()

	decoded := charmap.Windows1252.NewDecoder().Reader(file)
	df := dataframe.ReadCSV(decoded,
		dataframe.WithDelimiter(';'),
		dataframe.WithLazyQuotes(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues([]string{"", "NULL", "null"}),
	)
	if err := df.Error(); err != nil {
		// Header-only exports are valid and simply have no rows.
		if strings.Contains(err.Error(), "empty DataFrame") {
			return dataframe.DataFrame{}, nil
		}
		return dataframe.DataFrame{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return df, nil
}
