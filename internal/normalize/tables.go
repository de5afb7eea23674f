package normalize

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Built-in rule tables. Plain data so deployments can override them from a
// YAML file without touching code.

var defaultProcedures = map[string]string{
	"LAP APPY":       "Laparoscopic appendectomy",
	"LAP CHOLE":      "Laparoscopic cholecystectomy",
	"TKA":            "Total knee arthroplasty",
	"TKA - LT":       "Total knee arthroplasty, left",
	"TKA - RT":       "Total knee arthroplasty, right",
	"THA":            "Total hip arthroplasty",
	"CABG":           "Coronary artery bypass graft",
	"ESS":            "Endoscopic sinus surgery",
	"EXP LAP":        "Exploratory laparotomy",
	"SB RESECTION":   "Small bowel resection",
	"TURP":           "Transurethral resection of prostate",
	"ARTHRO RTC REP": "Arthroscopic rotator cuff repair",
	"CRANIO":         "Craniotomy",
	"BT":             "Brain tumor",
	"C-SECTION":      "Cesarean section",
}

var defaultHospitals = map[string]string{
	"UNIV-HOSP":       "University Hospital",
	"UNIV":            "University",
	"MEM":             "Memorial",
	"CTR":             "Center",
	"NEURO":           "Neuroscience Center",
	"URO INST":        "Urology Institute",
	"WOMENS":          "Women's Hospital",
	"SPORTS MED":      "Sports Medicine Center",
	"GENERAL":         "General Hospital",
	"ENT SPECIALISTS": "ENT Specialists",
}

// tableFile is the on-disk YAML structure for rule table overrides.
type tableFile struct {
	Procedures map[string]string `yaml:"procedures"`
	Hospitals  map[string]string `yaml:"hospitals"`
}

// LoadTableOverrides merges rule tables from a YAML file into the expander.
// Keys present in the file replace built-in rules of the same key.
func (e *Expander) LoadTableOverrides(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read lexicon file: %w", err)
	}
	var tf tableFile
	if err := yaml.Unmarshal(data, &tf); err != nil {
		return fmt.Errorf("parse lexicon file: %w", err)
	}
	if len(tf.Procedures) > 0 {
		e.Procedures = e.Procedures.Merge(tf.Procedures)
	}
	if len(tf.Hospitals) > 0 {
		e.Hospitals = e.Hospitals.Merge(tf.Hospitals)
	}
	return nil
}
