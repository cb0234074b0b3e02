package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/nightjar-labs/triage/internal/testdata"
)

func writeTables(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := testdata.WriteTables(dir); err != nil {
		t.Fatalf("write fixture tables: %v", err)
	}
	return dir
}

func TestNormalizeSymptom(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"fever", "fever"},
		{" Fever ", "fever"},
		{"runny nose", "runny_nose"},
		{"  nodal   skin  eruptions ", "nodal_skin_eruptions"},
		{"NaN", ""},
		{"nan", ""},
		{"", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		if got := NormalizeSymptom(tt.input); got != tt.want {
			t.Errorf("NormalizeSymptom(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestNormalizeDisease(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"common cold", "Common Cold"},
		{" HEART ATTACK ", "Heart Attack"},
		{"Fungal infection", "Fungal Infection"},
		{"nan", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeDisease(tt.input); got != tt.want {
			t.Errorf("NormalizeDisease(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestLoad(t *testing.T) {
	dir := writeTables(t)

	tables, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if len(tables.Records) != 20 {
		t.Fatalf("expected 20 records, got %d", len(tables.Records))
	}

	// Every disease is title-cased, every symptom underscore-joined.
	diseases := map[string]bool{}
	for _, rec := range tables.Records {
		diseases[rec.Disease] = true
		for _, s := range rec.Symptoms {
			if s != NormalizeSymptom(s) {
				t.Errorf("symptom %q is not normalized", s)
			}
		}
	}
	for _, want := range []string{"Common Cold", "Fungal Infection", "Heart Attack", "Gastroenteritis"} {
		if !diseases[want] {
			t.Errorf("missing disease %q in records", want)
		}
	}

	if got := tables.Severity["shortness_of_breath"]; got != 6 {
		t.Errorf("severity[shortness_of_breath] = %v, want 6", got)
	}
	if _, ok := tables.Knowledge.Descriptions["Heart Attack"]; !ok {
		t.Error("missing description for Heart Attack")
	}
	if got := len(tables.Knowledge.Precautions["Fungal Infection"]); got != 3 {
		t.Errorf("Fungal Infection precautions = %d, want 3 (empty slot dropped)", got)
	}
}

func TestLoadMissingTable(t *testing.T) {
	dir := writeTables(t)
	if err := os.Remove(filepath.Join(dir, SeverityFile)); err != nil {
		t.Fatal(err)
	}

	_, err := Load(dir)
	if !errors.Is(err, ErrDataLoad) {
		t.Fatalf("expected ErrDataLoad for missing table, got %v", err)
	}
}

func TestLoadMissingKeyColumn(t *testing.T) {
	dir := writeTables(t)
	bad := "Condition,Description\nCommon Cold,whatever\n"
	if err := os.WriteFile(filepath.Join(dir, DescFile), []byte(bad), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(dir)
	if !errors.Is(err, ErrSchema) {
		t.Fatalf("expected ErrSchema for missing disease column, got %v", err)
	}
}

func TestLoadBadSeverityWeight(t *testing.T) {
	dir := writeTables(t)
	bad := "Symptom,weight\nfever,severe\n"
	if err := os.WriteFile(filepath.Join(dir, SeverityFile), []byte(bad), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(dir)
	if !errors.Is(err, ErrSchema) {
		t.Fatalf("expected ErrSchema for non-numeric weight, got %v", err)
	}
}

func TestLoadMainWithoutDiseaseColumn(t *testing.T) {
	dir := writeTables(t)
	bad := "Illness,Symptom_1\nflu,fever\n"
	if err := os.WriteFile(filepath.Join(dir, MainFile), []byte(bad), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(dir)
	if !errors.Is(err, ErrSchema) {
		t.Fatalf("expected ErrSchema for missing disease column, got %v", err)
	}
}
