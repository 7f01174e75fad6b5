package storage

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"ecommerce-scraper/models"
)

var csvHeader = []string{"title", "description", "price", "rating", "num_of_reviews"}

// CSVWriter saves the products of one catalog page to a CSV file.
type CSVWriter struct {
	path string
}

func NewCSVWriter(path string) *CSVWriter {
	return &CSVWriter{path: path}
}

func (w *CSVWriter) Path() string {
	return w.path
}

// Write creates or truncates the file and writes the header followed by one
// row per product, in order, each line ending in \r\n. An empty slice
// produces a header-only file.
//
// CSV columns: title, description, price, rating, num_of_reviews
func (w *CSVWriter) Write(products []models.Product) (err error) {
	if err := ensureDir(w.path); err != nil {
		return ErrIO{Op: "create dir for", Path: w.path, Err: err}
	}

	file, err := os.Create(w.path)
	if err != nil {
		return ErrIO{Op: "create", Path: w.path, Err: err}
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = ErrIO{Op: "close", Path: w.path, Err: closeErr}
		}
	}()

	// \r\n record terminators, as RFC 4180 has them
	writer := csv.NewWriter(file)
	writer.UseCRLF = true

	if err := writer.Write(csvHeader); err != nil {
		return ErrIO{Op: "write", Path: w.path, Err: err}
	}
	for _, p := range products {
		row := []string{
			p.Title,
			p.Description,
			formatPrice(p.Price),
			strconv.Itoa(p.Rating),
			strconv.Itoa(p.NumOfReviews),
		}
		if err := writer.Write(row); err != nil {
			return ErrIO{Op: "write", Path: w.path, Err: err}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return ErrIO{Op: "flush", Path: w.path, Err: err}
	}
	return nil
}

// formatPrice writes the shortest decimal that round-trips, keeping at least
// one fractional digit: 199.99, 1299.0.
func formatPrice(price float64) string {
	s := strconv.FormatFloat(price, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
