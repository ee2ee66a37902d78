package homoglyph

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	// ErrTableNotFound is returned when a table file does not exist.
	ErrTableNotFound = errors.New("homoglyph table file not found")

	// ErrInvalidTable is returned when a table entry fails validation.
	ErrInvalidTable = errors.New("invalid homoglyph table")
)

// Table holds the substitution mappings. Character entries map a
// single codepoint to an ordered list of look-alike codepoints; word
// entries map a whole word to a same-length replacement containing
// look-alike characters. A Table is immutable after construction and
// safe for unsynchronized concurrent reads.
type Table struct {
	// chars maps a source codepoint to its ordered substitutes.
	chars map[rune][]rune
	// words maps a lowercased headword to its replacement.
	words map[string]string
}

// tableFile is the YAML serialization of a Table.
type tableFile struct {
	// Chars maps a single-character string to its substitute list.
	Chars map[string][]string `yaml:"chars"`
	// Words maps a whole word to its replacement.
	Words map[string]string `yaml:"words"`
}

// DefaultTable returns the built-in substitution table. The character
// entries cover Latin-to-Cyrillic (primary), Latin-to-Greek
// (secondary), and mathematical bold look-alikes; the word entries
// cover Indonesian academic section headings and connector words.
func DefaultTable() *Table {
	t := &Table{
		chars: map[rune][]rune{
			// Uppercase: Cyrillic first, Greek second, math bold third.
			'A': {'А', 'Α', '𝐀'},
			'B': {'В', 'Β', '𝐁'},
			'C': {'С', '𝐂'},
			'D': {'𝐃'},
			'E': {'Е', 'Ε', '𝐄'},
			'H': {'Н', 'Η'},
			'I': {'І', 'Ι'},
			'J': {'Ј'},
			'K': {'К', 'Κ'},
			'M': {'М', 'Μ'},
			'N': {'Ν'},
			'O': {'О', 'Ο'},
			'P': {'Р', 'Ρ'},
			'S': {'Ѕ'},
			'T': {'Т', 'Τ'},
			'X': {'Х', 'Χ'},
			'Y': {'Ү', 'Υ'},
			'Z': {'Ζ'},

			// Lowercase.
			'a': {'а', 'α', '𝐚'},
			'b': {'𝐛'},
			'c': {'с', '𝐜'},
			'd': {'𝐝'},
			'e': {'е', '𝐞'},
			'i': {'і'},
			'j': {'ј'},
			'o': {'о', 'ο'},
			'p': {'р', 'ρ'},
			's': {'ѕ'},
			'x': {'х', 'χ'},
			'y': {'у', 'υ'},
		},
		words: map[string]string{
			// Academic section headings. The replacements swap one or
			// more letters for Cyrillic look-alikes.
			"bab":         "ВАВ",
			"pendahuluan": "РENDAHULUAN",
			"metode":      "МETODE",
			"penelitian":  "РENELITIAN",
			"hasil":       "НASIL",
			"pembahasan":  "РEMBAHASAN",
			"kesimpulan":  "КESIMPULAN",
			"daftar":      "DАFTAR",
			"pustaka":     "РUSTAKA",
			"analisis":    "АNALISIS",
			"data":        "DАTA",
			"teori":       "ТЕORI",
			"konsep":      "КONSEP",
			"faktor":      "FАKTOR",
			"variabel":    "VАRIABEL",
			"hipotesis":   "НIPOTESIS",

			// Connector words.
			"dan":     "dаn",
			"atau":    "аtau",
			"dengan":  "dengаn",
			"dalam":   "dаlam",
			"pada":    "pаda",
			"dari":    "dаri",
			"yang":    "yаng",
			"ini":     "іni",
			"itu":     "іtu",
			"adalah":  "аdalah",
			"akan":    "аkan",
			"telah":   "telаh",
			"dapat":   "dаpat",
			"juga":    "jugа",
			"hanya":   "hаnya",
			"sangat":  "sаngat",
			"lebih":   "lebіh",
			"sering":  "serіng",
			"baik":    "bаik",
			"besar":   "besаr",
			"penting": "pentіng",
		},
	}
	return t
}

// LoadTable loads a substitution table from a YAML file and validates
// every entry. Callers should fall back to DefaultTable when loading
// fails.
func LoadTable(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrTableNotFound, path)
		}
		return nil, fmt.Errorf("failed to read homoglyph table: %w", err)
	}

	var file tableFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse homoglyph table: %w", err)
	}

	t := &Table{
		chars: make(map[rune][]rune, len(file.Chars)),
		words: make(map[string]string, len(file.Words)),
	}

	for key, subs := range file.Chars {
		keyRunes := []rune(key)
		if len(keyRunes) != 1 {
			return nil, fmt.Errorf("%w: char key %q must be a single codepoint", ErrInvalidTable, key)
		}
		candidates := make([]rune, 0, len(subs))
		for _, sub := range subs {
			subRunes := []rune(sub)
			if len(subRunes) != 1 {
				return nil, fmt.Errorf("%w: substitute %q for %q must be a single codepoint", ErrInvalidTable, sub, key)
			}
			candidates = append(candidates, subRunes[0])
		}
		t.chars[keyRunes[0]] = candidates
	}

	for word, replacement := range file.Words {
		t.words[strings.ToLower(word)] = replacement
	}

	if err := t.validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// validate checks every entry: a substitute must differ in codepoint
// from its canonical form, fold to the same visual shape, and (for
// word entries) have the same rune length so casing can be aligned.
func (t *Table) validate() error {
	for key, subs := range t.chars {
		if len(subs) == 0 {
			return fmt.Errorf("%w: char %q has no substitutes", ErrInvalidTable, key)
		}
		for _, sub := range subs {
			if sub == key {
				return fmt.Errorf("%w: substitute for %q is identical to the original", ErrInvalidTable, key)
			}
			if !strings.EqualFold(Fold(string(sub)), Fold(string(key))) {
				return fmt.Errorf("%w: substitute %q is not confusable with %q", ErrInvalidTable, sub, key)
			}
		}
	}

	for word, replacement := range t.words {
		if strings.EqualFold(word, replacement) && Fold(replacement) == replacement {
			return fmt.Errorf("%w: replacement for %q contains no substituted codepoints", ErrInvalidTable, word)
		}
		if len([]rune(word)) != len([]rune(replacement)) {
			return fmt.Errorf("%w: replacement %q for %q differs in length", ErrInvalidTable, replacement, word)
		}
		if !strings.EqualFold(Fold(replacement), Fold(word)) {
			return fmt.Errorf("%w: replacement %q is not confusable with %q", ErrInvalidTable, replacement, word)
		}
	}
	return nil
}

// CharCandidates returns the substitute list for r, or nil when r has
// no entry.
func (t *Table) CharCandidates(r rune) []rune {
	return t.chars[r]
}

// WordReplacement returns the replacement for word, looked up
// case-insensitively.
func (t *Table) WordReplacement(word string) (string, bool) {
	replacement, ok := t.words[strings.ToLower(word)]
	return replacement, ok
}

// CharCount returns the number of character entries.
func (t *Table) CharCount() int { return len(t.chars) }

// WordCount returns the number of word entries.
func (t *Table) WordCount() int { return len(t.words) }

// Encode serializes the table to YAML, suitable for writing a starter
// table file that users can edit.
func (t *Table) Encode() ([]byte, error) {
	file := tableFile{
		Chars: make(map[string][]string, len(t.chars)),
		Words: make(map[string]string, len(t.words)),
	}
	for key, subs := range t.chars {
		list := make([]string, 0, len(subs))
		for _, sub := range subs {
			list = append(list, string(sub))
		}
		file.Chars[string(key)] = list
	}
	for word, replacement := range t.words {
		file.Words[word] = replacement
	}

	data, err := yaml.Marshal(&file)
	if err != nil {
		return nil, fmt.Errorf("failed to encode homoglyph table: %w", err)
	}
	return data, nil
}
