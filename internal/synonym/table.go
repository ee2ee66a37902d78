package synonym

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/bytedance/sonic"
)

var (
	// ErrTableNotFound is returned when a synonym table file does not exist.
	ErrTableNotFound = errors.New("synonym table file not found")

	// ErrEmptyTable is returned when a table file parses but holds no entries.
	ErrEmptyTable = errors.New("synonym table is empty")
)

// Entry is one headword in the synonym table.
type Entry struct {
	// Tag is the part-of-speech tag (n, v, adj, adv).
	Tag string `json:"tag"`
	// Synonyms is the ordered candidate list.
	Synonyms []string `json:"sinonim"`
}

// Table is a read-only headword index. It is immutable after
// construction and safe for unsynchronized concurrent reads.
type Table struct {
	entries map[string]Entry
}

// LoadTable loads a synonym table from a JSON file shaped as
// {"headword": {"tag": "n", "sinonim": ["...", ...]}, ...}. The full
// table runs to tens of thousands of entries, so decoding goes through
// sonic rather than encoding/json.
func LoadTable(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrTableNotFound, path)
		}
		return nil, fmt.Errorf("failed to read synonym table: %w", err)
	}

	var entries map[string]Entry
	if err := sonic.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse synonym table: %w", err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyTable, path)
	}

	normalized := make(map[string]Entry, len(entries))
	for headword, entry := range entries {
		normalized[strings.ToLower(headword)] = entry
	}
	return &Table{entries: normalized}, nil
}

// DefaultTable returns the built-in fallback table. It covers only the
// most common academic headwords; production use should load the full
// table file and fall back here when that fails.
func DefaultTable() *Table {
	return &Table{
		entries: map[string]Entry{
			"kualitas": {Tag: "n", Synonyms: []string{"mutu", "standar", "tingkat", "derajat", "taraf"}},
			"penelitian": {Tag: "n", Synonyms: []string{"riset", "studi", "kajian", "investigasi", "eksplorasi"}},
			"hasil": {Tag: "n", Synonyms: []string{"temuan", "capaian", "pencapaian", "output"}},
			"dapat": {Tag: "v", Synonyms: []string{"mampu", "bisa", "sanggup", "angsal"}},
			"keputusan": {Tag: "n", Synonyms: []string{"pilihan", "penetapan", "resolusi", "kata putus"}},
			"produk": {Tag: "n", Synonyms: []string{"barang", "komoditas", "item", "buatan"}},
			"konsumen": {Tag: "n", Synonyms: []string{"pelanggan", "klien", "pembeli"}},
			"pengaruh": {Tag: "n", Synonyms: []string{"dampak", "efek", "imbas"}},
			"metode": {Tag: "n", Synonyms: []string{"pendekatan", "teknik", "prosedur", "cara"}},
			"menunjukkan": {Tag: "v", Synonyms: []string{"mengindikasikan", "memperlihatkan", "menandakan"}},
			"signifikan": {Tag: "adj", Synonyms: []string{"substansial", "bermakna", "berarti"}},
			"penting": {Tag: "adj", Synonyms: []string{"esensial", "krusial", "utama"}},
			"menggunakan": {Tag: "v", Synonyms: []string{"memakai", "menerapkan", "memanfaatkan"}},
			"tujuan": {Tag: "n", Synonyms: []string{"sasaran", "maksud", "target"}},
			"masalah": {Tag: "n", Synonyms: []string{"persoalan", "problem", "isu"}},
		},
	}
}

// Lookup returns the entry for word, matched case-insensitively.
func (t *Table) Lookup(word string) (Entry, bool) {
	entry, ok := t.entries[strings.ToLower(word)]
	return entry, ok
}

// Size returns the number of headwords in the table.
func (t *Table) Size() int { return len(t.entries) }
