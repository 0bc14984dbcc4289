// Package tradelog is the durable record of executed trades: a flat
// append-only CSV with columns horario,moeda,tipo,preco,qtd followed by a
// variable-width snapshot of the indicator parameters that were active
// when the trade fired. The file is the source of truth for all profit
// reporting; older schema revisions and headerless rows coexist in it, so
// the read side tolerates and discards anything it cannot parse.
package tradelog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

const timeLayout = "2006-01-02 15:04:05"

// Record is one row of the trade log.
type Record struct {
	Time   time.Time `json:"time"`
	Symbol string    `json:"symbol"`
	Side   string    `json:"side"`
	Price  float64   `json:"price"`
	Qty    float64   `json:"qty"`
	Params []string  `json:"params,omitempty"`
}

type Log struct {
	mu   sync.Mutex
	path string
}

func New(path string) *Log { return &Log{path: path} }

func (l *Log) Path() string { return l.path }

// Append writes one record. Price is fixed at two decimals, matching
// every schema revision of the log; quantity is written raw. Callers
// treat a returned error as a warning only; a failed write must never
// abort the trading cycle.
func (l *Log) Append(r Record) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if r.Time.IsZero() {
		r.Time = time.Now()
	}
	if dir := filepath.Dir(l.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	row := append([]string{
		r.Time.Format(timeLayout),
		r.Symbol,
		r.Side,
		fmt.Sprintf("%.2f", r.Price),
		strconv.FormatFloat(r.Qty, 'f', -1, 64),
	}, r.Params...)
	if err := w.Write(row); err != nil {
		f.Close()
		return err
	}
	w.Flush()
	return errors.Join(w.Error(), f.Close())
}

// Read parses the whole log and returns the valid rows sorted ascending
// by timestamp. Rows with an unparsable timestamp or numeric column,
// including legacy header rows mixed into the file, are discarded
// individually; one bad row never fails the read. A missing file is an
// empty log, not an error.
func (l *Log) Read() ([]Record, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	f, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	rd := csv.NewReader(f)
	rd.FieldsPerRecord = -1
	rd.LazyQuotes = true

	var out []Record
	for {
		row, err := rd.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}
		if len(row) < 5 {
			continue
		}
		ts, err := time.Parse(timeLayout, strings.TrimSpace(row[0]))
		if err != nil {
			continue
		}
		price, err := strconv.ParseFloat(strings.TrimSpace(row[3]), 64)
		if err != nil {
			continue
		}
		qty, err := strconv.ParseFloat(strings.TrimSpace(row[4]), 64)
		if err != nil {
			continue
		}
		rec := Record{Time: ts, Symbol: row[1], Side: row[2], Price: price, Qty: qty}
		if len(row) > 5 {
			rec.Params = append([]string(nil), row[5:]...)
		}
		out = append(out, rec)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Time.Before(out[j].Time) })
	return out, nil
}
