// Package testdata ships a small, deterministic symptom corpus used by
// tests across the module. The tables mirror the production CSV layout,
// including messy casing and embedded whitespace, so loading them exercises
// the same normalization as real data.
package testdata

import (
	"os"
	"path/filepath"
)

// MainCSV is the training table: one disease column, sparse symptom columns.
const MainCSV = `Disease,Symptom_1,Symptom_2,Symptom_3,Symptom_4
common cold,fever,cough,runny nose,headache
Common Cold,cough,runny nose,headache,
COMMON COLD, fever ,cough,runny nose,
common cold,fever,runny nose,headache,
common cold,fever,cough,headache,
fungal infection,itching,skin rash,nodal skin eruptions,
Fungal Infection,itching,skin rash,,
fungal infection,skin rash,nodal skin eruptions,,
fungal infection,itching,nodal skin eruptions,,
fungal infection,itching,skin rash,nodal skin eruptions,
heart attack,chest pain,shortness of breath,sweating,
Heart Attack,chest pain,shortness of breath,,
heart attack,chest pain,sweating,vomiting,
heart attack,shortness of breath,sweating,,
heart attack,chest pain,shortness of breath,vomiting,
gastroenteritis,stomach pain,vomiting,diarrhoea,
Gastroenteritis,stomach pain,diarrhoea,,
gastroenteritis,vomiting,diarrhoea,dehydration,
gastroenteritis,stomach pain,vomiting,dehydration,
gastroenteritis,stomach pain,diarrhoea,dehydration,
`

// DescriptionCSV maps diseases to free-text descriptions.
const DescriptionCSV = `Disease,Description
Common Cold,A viral infection of the upper respiratory tract.
Fungal Infection,An infection caused by fungi affecting skin or nails.
Heart Attack,A blockage of blood flow to the heart muscle.
Gastroenteritis,An intestinal infection with diarrhoea and vomiting.
`

// PrecautionCSV maps diseases to up to four precaution columns.
const PrecautionCSV = `Disease,Precaution_1,Precaution_2,Precaution_3,Precaution_4
Common Cold,drink vitamin c rich drinks,take vapour,avoid cold food,keep fever in check
Fungal Infection,bath twice,use clean cloths,keep infected area dry,
Heart Attack,call ambulance,chew aspirin if advised,keep calm,
Gastroenteritis,stop eating solid food for a while,try taking small sips of water,rest,ease back into eating
`

// SeverityCSV maps symptom tokens to numeric severity weights.
const SeverityCSV = `Symptom,weight
fever,4
cough,2
runny nose,1
headache,3
itching,1
skin rash,3
nodal skin eruptions,4
chest pain,7
shortness of breath,6
sweating,3
vomiting,5
stomach pain,5
diarrhoea,6
dehydration,4
`

// WriteTables writes the four source tables into dir using their
// production file names.
func WriteTables(dir string) error {
	files := map[string]string{
		"dataset.csv":             MainCSV,
		"symptom_Description.csv": DescriptionCSV,
		"symptom_precaution.csv":  PrecautionCSV,
		"Symptom-severity.csv":    SeverityCSV,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			return err
		}
	}
	return nil
}
