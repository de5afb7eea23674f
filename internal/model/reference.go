package model

// CPTReference is one entry of the static CPT code lexicon.
type CPTReference struct {
	Code        string `json:"code"`
	Description string `json:"description"`
	Category    string `json:"category"`
}
