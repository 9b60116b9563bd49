package importer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cajalibro/internal/core/apperror"
)

func TestCSVRowProducer_Produce(t *testing.T) {
	input := strings.Join([]string{
		"Tipo, FECHA ,Descripcion,Monto,Cuenta",
		"ingreso,15/03/2024,venta del dia,100.50,Caja principal",
		"egreso,16/03/2024,papeleria,20,Caja principal",
	}, "\n")

	rows, err := NewCSVRowProducer().Produce(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// Header cells become lowercased, trimmed keys.
	first := rows[0]
	assert.Equal(t, 2, first.Index)
	assert.Equal(t, "ingreso", first.Get(FieldTipo))
	assert.Equal(t, "15/03/2024", first.Get(FieldFecha))
	assert.Equal(t, "venta del dia", first.Get(FieldDescripcion))
	assert.Equal(t, "100.50", first.Get(FieldMonto))
	assert.Equal(t, "Caja principal", first.Get(FieldCuenta))

	assert.Equal(t, 3, rows[1].Index)
	assert.Equal(t, "egreso", rows[1].Get(FieldTipo))
}

func TestCSVRowProducer_RaggedRecords(t *testing.T) {
	input := strings.Join([]string{
		"tipo,fecha,descripcion,monto,cuenta",
		"ingreso,15/03/2024",
		"egreso,16/03/2024,papeleria,20,Caja principal,celda extra",
	}, "\n")

	rows, err := NewCSVRowProducer().Produce(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// Short records leave missing fields empty; extra cells are dropped.
	assert.Equal(t, "", rows[0].Get(FieldMonto))
	assert.Equal(t, "20", rows[1].Get(FieldMonto))
}

func TestCSVRowProducer_CustomDelimiter(t *testing.T) {
	input := "tipo;monto\ningreso;40"

	rows, err := (&CSVRowProducer{Comma: ';'}).Produce(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "40", rows[0].Get(FieldMonto))
}

func TestCSVRowProducer_EmptyFile(t *testing.T) {
	_, err := NewCSVRowProducer().Produce(strings.NewReader(""))
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeParse, appErr.Code)
}

func TestCSVRowProducer_HeaderOnly(t *testing.T) {
	rows, err := NewCSVRowProducer().Produce(strings.NewReader("tipo,fecha,monto\n"))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestRowGet_TrimsValues(t *testing.T) {
	row := Row{Fields: map[string]string{FieldCuenta: "  Banco  "}}
	assert.Equal(t, "Banco", row.Get(FieldCuenta))
	assert.Equal(t, "", row.Get(FieldCajero))
}

func TestCSVRowProducer_MalformedQuoting(t *testing.T) {
	input := "tipo,monto\n\"sin cierre,40"

	_, err := NewCSVRowProducer().Produce(strings.NewReader(input))
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeParse, appErr.Code)
}
