// Package importer provides the bulk import reconciler: it maps
// human-readable spreadsheet rows onto validated movements and feeds them
// through the movement lifecycle inside one all-or-nothing transaction.
package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"cajalibro/internal/core/apperror"
)

// Field keys the reconciler understands. Keys are matched after
// lowercasing and trimming the header cells.
const (
	FieldTipo          = "tipo"
	FieldFecha         = "fecha"
	FieldDescripcion   = "descripcion"
	FieldMonto         = "monto"
	FieldCuenta        = "cuenta"
	FieldCuentaDestino = "cuenta destino"
	FieldCategoria     = "categoria"
	FieldProveedor     = "proveedor"
	FieldCajero        = "cajero"
)

// Row types accepted in the tipo column.
const (
	RowTipoIngreso  = "ingreso"
	RowTipoEgreso   = "egreso"
	RowTipoTraslado = "traslado"
)

// Row is one loosely-typed record from an uploaded file.
type Row struct {
	// Index is the 1-based line number in the source file, carried into
	// error details so a failing row can be located.
	Index int

	Fields map[string]string
}

// Get returns the trimmed value for a field key, empty when absent.
func (r Row) Get(key string) string {
	return strings.TrimSpace(r.Fields[key])
}

// RowProducer yields an ordered sequence of field-keyed rows from an
// uploaded buffer. Whole-file parse failure is a single fatal PARSE_ERROR,
// distinct from per-row validation errors raised by the reconciler.
type RowProducer interface {
	Produce(r io.Reader) ([]Row, error)
}

// CSVRowProducer parses comma-separated uploads. The first record is the
// header; its cells become the field keys.
type CSVRowProducer struct {
	// Comma overrides the field delimiter when nonzero.
	Comma rune
}

// NewCSVRowProducer creates a producer with default settings.
func NewCSVRowProducer() *CSVRowProducer {
	return &CSVRowProducer{}
}

// Produce implements RowProducer.
func (p *CSVRowProducer) Produce(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	if p.Comma != 0 {
		reader.Comma = p.Comma
	}

	header, err := reader.Read()
	if err != nil {
		return nil, apperror.NewParse("failed to read file header").WithCause(err)
	}

	keys := make([]string, len(header))
	for i, cell := range header {
		keys[i] = strings.ToLower(strings.TrimSpace(cell))
	}

	var rows []Row
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperror.NewParse(fmt.Sprintf("failed to read file at line %d", line+1)).WithCause(err)
		}
		line++

		fields := make(map[string]string, len(keys))
		for i, cell := range record {
			if i >= len(keys) || keys[i] == "" {
				continue
			}
			fields[keys[i]] = cell
		}
		rows = append(rows, Row{Index: line, Fields: fields})
	}

	return rows, nil
}

var _ RowProducer = (*CSVRowProducer)(nil)
