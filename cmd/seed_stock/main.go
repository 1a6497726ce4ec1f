// seed_stock genera el script SQL con el catálogo inicial de ítems de stock y proveedores
// a partir del XML exportado por el ERP.
//
// Uso: go run ./cmd/seed_stock [ruta/catalogo.xml]
// Por defecto busca catalogo.xml en el directorio actual.
// Escribe: migrations/0002_seed_stock.sql
package main

import (
	"fmt"
	"os"
	"path/filepath"
)

func main() {
	xmlPath := "catalogo.xml"
	if len(os.Args) > 1 {
		xmlPath = os.Args[1]
	}
	f, err := os.Open(xmlPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir XML: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	cat, err := parseCatalog(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	outPath := filepath.Join(findModuleRoot(), "migrations", "0002_seed_stock.sql")
	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	items, suppliers, err := writeSeedSQL(out, cat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Escribir SQL: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Generado %s: %d ítems de stock, %d proveedores\n", outPath, items, suppliers)
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
