package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

//
// ---------------------- CLI FLAGS DOCUMENTATION ----------------------
//
// --output      : Where to write the sample orders, .xlsx or .csv. Default = test_file.xlsx
// --orders      : Number of orders to generate. Default = 50
// --seed        : Random seed, the same flags always give the same file. Default = 42
// --return-rate : Probability that an order is returned. Default = 0.2
//
// Example:
//   go run ./cmd/examples/Sample_Orders --output orders.csv --orders 200
//
// ---------------------------------------------------------------------
//

// Column names as exported by the first shop that sent us data; the
// resolver maps them onto the canonical schema.
var headers = []string{"id_commande", "id_client", "id_produit", "prix", "catégorie", "note_client", "retour"}

var categories = []string{"Électronique", "Vêtements", "Maison", "Sports", "Livres"}

func generate(n int, seed int64, returnRate float64) [][]string {
	rng := rand.New(rand.NewSource(seed))
	rows := make([][]string, n)
	for i := range rows {
		price := math.Round((10+rng.Float64()*490)*100) / 100
		rating := math.Round((1+rng.Float64()*4)*10) / 10
		returned := "0"
		if rng.Float64() < returnRate {
			returned = "1"
		}
		rows[i] = []string{
			strconv.Itoa(i + 1),
			strconv.Itoa(1 + rng.Intn(49)),
			strconv.Itoa(1 + rng.Intn(19)),
			strconv.FormatFloat(price, 'f', 2, 64),
			categories[rng.Intn(len(categories))],
			strconv.FormatFloat(rating, 'f', 1, 64),
			returned,
		}
	}
	return rows
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	if err := w.Write(headers); err != nil {
		f.Close()
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeXLSX(path string, rows [][]string) error {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for r, row := range append([][]string{headers}, rows...) {
		cells := make([]any, len(row))
		for c, v := range row {
			if num, err := strconv.ParseFloat(v, 64); err == nil && r > 0 {
				cells[c] = num
			} else {
				cells[c] = v
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, r+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return err
		}
	}
	return f.SaveAs(path)
}

func main() {
	output := flag.String("output", "test_file.xlsx", "Where to write the sample orders (.xlsx or .csv)")
	n := flag.Int("orders", 50, "Number of orders")
	seed := flag.Int64("seed", 42, "Random seed")
	returnRate := flag.Float64("return-rate", 0.2, "Probability that an order is returned")
	flag.Parse()

	rows := generate(*n, *seed, *returnRate)

	var err error
	switch strings.ToLower(filepath.Ext(*output)) {
	case ".csv":
		err = writeCSV(*output, rows)
	case ".xlsx":
		err = writeXLSX(*output, rows)
	default:
		log.Fatalf("Unsupported output extension: %s", *output)
	}
	if err != nil {
		log.Fatalf("Error writing %s: %v", *output, err)
	}

	fmt.Printf("Wrote %d orders to %s\n", len(rows), *output)
	fmt.Println("Columns:", strings.Join(headers, ", "))
}
