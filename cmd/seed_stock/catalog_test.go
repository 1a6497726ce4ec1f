package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCatalog_Latin1(t *testing.T) {
	// "Confección" en ISO-8859-1: ó = 0xF3
	raw := []byte("<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?>\n<catalogo><proveedores>" +
		"<proveedor codigo=\"P01\" nombre=\"Confecci\xf3n O'Neil\"/></proveedores>" +
		"<productos><producto codigo=\"GORRA\" cantidad=\"12\"/>" +
		"<producto codigo=\"CAMISETA\"><variante codigo=\"M\" cantidad=\"4\"/><variante codigo=\"L\" cantidad=\"0\"/></producto>" +
		"</productos></catalogo>")

	cat, err := parseCatalog(bytes.NewReader(raw))
	require.NoError(t, err)
	require.Len(t, cat.Suppliers, 1)
	assert.Equal(t, "Confección O'Neil", cat.Suppliers[0].Name)

	rows := cat.stockRows()
	require.Len(t, rows, 4)
	assert.Equal(t, "CAMISETA", rows[0].productID)
	assert.True(t, rows[0].hasVariants)
	assert.Zero(t, rows[0].quantity, "la fila padre no lleva stock")
	assert.Equal(t, "L", rows[1].variantID)
	assert.Equal(t, int64(12), rows[3].quantity)

	var sql bytes.Buffer
	items, suppliers, err := writeSeedSQL(&sql, cat)
	require.NoError(t, err)
	assert.Equal(t, 4, items)
	assert.Equal(t, 1, suppliers)
	out := sql.String()
	assert.Contains(t, out, "'Confección O''Neil'")
	assert.Equal(t, 4, strings.Count(out, "INSERT INTO stock_items"))
	assert.Contains(t, out, "'Saldo inicial'")
}

func TestSeedIDsDeterministas(t *testing.T) {
	assert.Equal(t, seedID("item", "GORRA"), seedID("item", "GORRA"))
	assert.NotEqual(t, seedID("item", "GORRA"), seedID("item", "GORRA", "M"))
}

func TestParseCatalog_Invalido(t *testing.T) {
	_, err := parseCatalog(strings.NewReader(`<catalogo><productos><producto codigo="X" cantidad="-1"/></productos></catalogo>`))
	assert.Error(t, err)
	_, err = parseCatalog(strings.NewReader(`<catalogo><productos><producto cantidad="1"/></productos></catalogo>`))
	assert.Error(t, err)
}
