package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nightjar-labs/triage/internal/model"
)

// Sentinel errors for the load path. Both are fatal at startup: the process
// must not serve traffic over a half-loaded model.
var (
	// ErrDataLoad indicates a missing or unreadable source table.
	ErrDataLoad = errors.New("dataset: load failed")
	// ErrSchema indicates a source table without its expected columns.
	ErrSchema = errors.New("dataset: unexpected schema")
)

// Source table file names, as shipped with the training data.
const (
	MainFile       = "dataset.csv"
	DescFile       = "symptom_Description.csv"
	PrecautionFile = "symptom_precaution.csv"
	SeverityFile   = "Symptom-severity.csv"
)

// SourcePaths returns the four source table paths under dir in the fixed
// order used for content hashing.
func SourcePaths(dir string) []string {
	return []string{
		filepath.Join(dir, MainFile),
		filepath.Join(dir, DescFile),
		filepath.Join(dir, PrecautionFile),
		filepath.Join(dir, SeverityFile),
	}
}

// Tables holds every normalized structure derived from the source CSVs.
type Tables struct {
	Records   []model.DatasetRecord
	Severity  model.SeverityTable
	Knowledge model.KnowledgeTable
}

// Load reads and normalizes the four source tables under dir.
// It has no side effects beyond the returned structures.
func Load(dir string) (*Tables, error) {
	for _, p := range SourcePaths(dir) {
		if _, err := os.Stat(p); err != nil {
			return nil, fmt.Errorf("%w: missing source table %s", ErrDataLoad, p)
		}
	}

	records, err := loadMain(filepath.Join(dir, MainFile))
	if err != nil {
		return nil, err
	}
	descriptions, err := loadDescriptions(filepath.Join(dir, DescFile))
	if err != nil {
		return nil, err
	}
	precautions, err := loadPrecautions(filepath.Join(dir, PrecautionFile))
	if err != nil {
		return nil, err
	}
	severity, err := loadSeverity(filepath.Join(dir, SeverityFile))
	if err != nil {
		return nil, err
	}

	slog.Info("datasets loaded",
		"records", len(records),
		"descriptions", len(descriptions),
		"precautions", len(precautions),
		"severity_weights", len(severity))

	return &Tables{
		Records:  records,
		Severity: severity,
		Knowledge: model.KnowledgeTable{
			Descriptions: descriptions,
			Precautions:  precautions,
		},
	}, nil
}

// loadMain reads the training table: one disease column plus a variable
// number of sparse symptom columns.
func loadMain(path string) ([]model.DatasetRecord, error) {
	header, rows, err := readCSV(path)
	if err != nil {
		return nil, err
	}

	diseaseCol := -1
	var symptomCols []int
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(h))
		switch {
		case name == "disease":
			diseaseCol = i
		case strings.HasPrefix(name, "symptom"):
			symptomCols = append(symptomCols, i)
		}
	}
	if diseaseCol < 0 {
		return nil, fmt.Errorf("%w: %s has no disease column", ErrSchema, filepath.Base(path))
	}
	if len(symptomCols) == 0 {
		return nil, fmt.Errorf("%w: %s has no symptom columns", ErrSchema, filepath.Base(path))
	}

	records := make([]model.DatasetRecord, 0, len(rows))
	for _, row := range rows {
		if diseaseCol >= len(row) {
			continue
		}
		disease := NormalizeDisease(row[diseaseCol])
		if disease == "" {
			continue
		}
		var symptoms []string
		for _, c := range symptomCols {
			if c >= len(row) {
				continue
			}
			if tok := NormalizeSymptom(row[c]); tok != "" {
				symptoms = append(symptoms, tok)
			}
		}
		records = append(records, model.DatasetRecord{Symptoms: symptoms, Disease: disease})
	}
	return records, nil
}

// loadDescriptions reads the disease → free-text description table.
func loadDescriptions(path string) (map[string]string, error) {
	header, rows, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	diseaseCol, err := findColumn(header, "disease", path)
	if err != nil {
		return nil, err
	}
	descCol, err := findColumn(header, "description", path)
	if err != nil {
		return nil, err
	}

	out := make(map[string]string, len(rows))
	for _, row := range rows {
		if diseaseCol >= len(row) || descCol >= len(row) {
			continue
		}
		disease := NormalizeDisease(row[diseaseCol])
		desc := strings.TrimSpace(row[descCol])
		if disease != "" && desc != "" {
			out[disease] = desc
		}
	}
	return out, nil
}

// loadPrecautions reads the disease → precaution columns table. Every
// non-key column is treated as a precaution slot; empty cells are skipped.
func loadPrecautions(path string) (map[string][]string, error) {
	header, rows, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	diseaseCol, err := findColumn(header, "disease", path)
	if err != nil {
		return nil, err
	}

	out := make(map[string][]string, len(rows))
	for _, row := range rows {
		if diseaseCol >= len(row) {
			continue
		}
		disease := NormalizeDisease(row[diseaseCol])
		if disease == "" {
			continue
		}
		var precautions []string
		for i, cell := range row {
			if i == diseaseCol {
				continue
			}
			if p := strings.TrimSpace(cell); p != "" && !strings.EqualFold(p, "nan") {
				precautions = append(precautions, p)
			}
		}
		out[disease] = precautions
	}
	return out, nil
}

// loadSeverity reads the symptom → numeric weight table.
func loadSeverity(path string) (model.SeverityTable, error) {
	header, rows, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	symptomCol, err := findColumn(header, "symptom", path)
	if err != nil {
		return nil, err
	}
	weightCol, err := findColumn(header, "weight", path)
	if err != nil {
		return nil, err
	}

	out := make(model.SeverityTable, len(rows))
	for _, row := range rows {
		if symptomCol >= len(row) || weightCol >= len(row) {
			continue
		}
		tok := NormalizeSymptom(row[symptomCol])
		if tok == "" {
			continue
		}
		w, err := strconv.ParseFloat(strings.TrimSpace(row[weightCol]), 64)
		if err != nil || w < 0 {
			return nil, fmt.Errorf("%w: %s has non-numeric or negative weight for %q",
				ErrSchema, filepath.Base(path), tok)
		}
		out[tok] = w
	}
	return out, nil
}

// readCSV loads a whole CSV file, returning the header row and data rows.
// Rows may have a variable number of fields.
func readCSV(path string) ([]string, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: open %s: %v", ErrDataLoad, path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err == io.EOF {
		return nil, nil, fmt.Errorf("%w: %s is empty", ErrSchema, filepath.Base(path))
	}
	if err != nil {
		return nil, nil, fmt.Errorf("%w: read %s: %v", ErrDataLoad, path, err)
	}

	rows, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: read %s: %v", ErrDataLoad, path, err)
	}
	return header, rows, nil
}

// findColumn returns the index of the named column (case-insensitive).
func findColumn(header []string, name, path string) (int, error) {
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(h), name) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %s lacks %q column", ErrSchema, filepath.Base(path), name)
}
