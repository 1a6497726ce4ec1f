package main

import (
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// seedNamespace hace deterministas los IDs: volver a correr el seed no duplica filas.
var seedNamespace = uuid.MustParse("6f1c1e4a-2b7d-4f0e-9a57-3c0d5b8e2a11")

// Formato del catálogo exportado por el ERP (ISO-8859-1 habitualmente):
//
//	<catalogo>
//	  <proveedores><proveedor codigo="P01" nombre="..." email="..." telefono="..."/></proveedores>
//	  <productos>
//	    <producto codigo="GORRA" cantidad="12"/>
//	    <producto codigo="CAMISETA"><variante codigo="M" cantidad="4"/></producto>
//	  </productos>
//	</catalogo>
type catalog struct {
	Suppliers []supplierXML `xml:"proveedores>proveedor"`
	Products  []productXML  `xml:"productos>producto"`
}

type supplierXML struct {
	Code  string `xml:"codigo,attr"`
	Name  string `xml:"nombre,attr"`
	Email string `xml:"email,attr"`
	Phone string `xml:"telefono,attr"`
}

type productXML struct {
	Code     string       `xml:"codigo,attr"`
	Quantity int64        `xml:"cantidad,attr"`
	Variants []variantXML `xml:"variante"`
}

type variantXML struct {
	Code     string `xml:"codigo,attr"`
	Quantity int64  `xml:"cantidad,attr"`
}

func parseCatalog(r io.Reader) (*catalog, error) {
	var c catalog
	dec := xml.NewDecoder(r)
	dec.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
		if strings.EqualFold(charset, "ISO-8859-1") || strings.EqualFold(charset, "ISO8859-1") {
			return transform.NewReader(input, charmap.ISO8859_1.NewDecoder()), nil
		}
		if strings.EqualFold(charset, "windows-1252") {
			return transform.NewReader(input, charmap.Windows1252.NewDecoder()), nil
		}
		return input, nil
	}
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("decodificar catálogo: %w", err)
	}
	for _, p := range c.Products {
		if strings.TrimSpace(p.Code) == "" {
			return nil, fmt.Errorf("producto sin código")
		}
		if p.Quantity < 0 {
			return nil, fmt.Errorf("producto %s: cantidad negativa", p.Code)
		}
		for _, v := range p.Variants {
			if strings.TrimSpace(v.Code) == "" || v.Quantity < 0 {
				return nil, fmt.Errorf("producto %s: variante inválida", p.Code)
			}
		}
	}
	return &c, nil
}

// stockRow fila de stock_items más su saldo inicial.
type stockRow struct {
	id          string
	productID   string
	variantID   string
	hasVariants bool
	quantity    int64
}

// stockRows aplana el catálogo: un producto con variantes genera la fila padre (sin stock)
// y una fila por variante.
func (c *catalog) stockRows() []stockRow {
	var rows []stockRow
	for _, p := range c.Products {
		code := strings.TrimSpace(p.Code)
		if len(p.Variants) == 0 {
			rows = append(rows, stockRow{id: seedID("item", code), productID: code, quantity: p.Quantity})
			continue
		}
		rows = append(rows, stockRow{id: seedID("item", code), productID: code, hasVariants: true})
		for _, v := range p.Variants {
			vc := strings.TrimSpace(v.Code)
			rows = append(rows, stockRow{id: seedID("item", code, vc), productID: code, variantID: vc, quantity: v.Quantity})
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].productID != rows[j].productID {
			return rows[i].productID < rows[j].productID
		}
		return rows[i].variantID < rows[j].variantID
	})
	return rows
}

func seedID(parts ...string) string {
	return uuid.NewSHA1(seedNamespace, []byte(strings.Join(parts, "/"))).String()
}

// writeSeedSQL escribe upserts idempotentes. Las cantidades iniciales entran con un
// movimiento RESTOCK "Saldo inicial" para que el libro cuadre con stock_items.
func writeSeedSQL(w io.Writer, c *catalog) (items, suppliers int, err error) {
	p := &sqlWriter{w: w}
	p.printf("-- Catálogo inicial de stock y proveedores\n")
	p.printf("-- Generado por cmd/seed_stock\n\n")

	if len(c.Suppliers) > 0 {
		p.printf("-- 1. Proveedores\n")
		p.printf("INSERT INTO suppliers (id, name, email, phone) VALUES\n")
		for i, s := range c.Suppliers {
			sep := ","
			if i == len(c.Suppliers)-1 {
				sep = ""
			}
			p.printf("  ('%s', '%s', %s, %s)%s\n",
				seedID("supplier", strings.TrimSpace(s.Code)), escapeSQL(strings.TrimSpace(s.Name)),
				nullable(s.Email), nullable(s.Phone), sep)
		}
		p.printf("ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, email = EXCLUDED.email, phone = EXCLUDED.phone;\n\n")
	}

	rows := c.stockRows()
	p.printf("-- 2. Ítems de stock con saldo inicial\n")
	for _, r := range rows {
		p.printf("WITH ins AS (\n")
		p.printf("  INSERT INTO stock_items (id, product_id, variant_id, has_variants, quantity)\n")
		p.printf("  VALUES ('%s', '%s', %s, %t, %d)\n", r.id, escapeSQL(r.productID), nullable(r.variantID), r.hasVariants, r.quantity)
		p.printf("  ON CONFLICT DO NOTHING\n")
		p.printf("  RETURNING id, product_id, variant_id, quantity\n")
		p.printf(")\n")
		p.printf("INSERT INTO stock_movements (id, stock_item_id, product_id, variant_id, change_type,\n")
		p.printf("  quantity_before, quantity_after, quantity_change, reason, actor_id)\n")
		p.printf("SELECT '%s', id, product_id, variant_id, 'RESTOCK', 0, quantity, quantity, 'Saldo inicial', 'seed'\n", seedID("opening", r.id))
		p.printf("FROM ins WHERE quantity > 0;\n")
	}
	return len(rows), len(c.Suppliers), p.err
}

type sqlWriter struct {
	w   io.Writer
	err error
}

func (p *sqlWriter) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func nullable(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "NULL"
	}
	return "'" + escapeSQL(s) + "'"
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
