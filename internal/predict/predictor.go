// Package predict fills in predicted CPT codes for standardized case records.
package predict

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/gyeh/caselog/internal/model"
	"github.com/gyeh/caselog/internal/oracle"
	"github.com/gyeh/caselog/internal/reference"
)

// maxPromptCodes caps how many reference entries are embedded in a
// prediction prompt.
const maxPromptCodes = 30

// chunkSize is how many rows are predicted between progress callbacks.
const chunkSize = 5

// Completer is the subset of the oracle client the predictor needs.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	Enabled() bool
}

// Stats summarizes one prediction pass.
type Stats struct {
	Passthrough    int
	Predicted      int
	ShortCircuited int
	OracleErrors   int
}

// Predictor assigns predicted_cpt_code, cpt_description and confidence to
// records. Records whose cpt_code already matches the reference lexicon pass
// through untouched with full confidence.
type Predictor struct {
	Oracle   Completer
	Ref      *reference.Lexicon
	Progress func(processed, total int)
	Log      zerolog.Logger
}

const predictSystemPrompt = "You are an expert medical coder specializing in CPT code assignment for surgical procedures."

type oracleResponse struct {
	CPTCode     string          `json:"cpt_code"`
	Description string          `json:"description"`
	Confidence  json.RawMessage `json:"confidence"`
	Explanation string          `json:"explanation"`
}

// Run predicts codes for every record in place and returns pass statistics.
// Row order is preserved and per-row oracle failures never abort the pass.
func (p *Predictor) Run(ctx context.Context, records []model.CaseRecord) (Stats, error) {
	var stats Stats
	total := len(records)
	ref := p.Ref
	if ref == nil {
		ref = reference.Empty()
	}

	for i := range records {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		r := &records[i]
		switch {
		case p.trusted(r):
			code := strings.TrimSpace(deref(r.CPTCode))
			r.PredictedCPTCode = strptr(code)
			if e, ok := ref.Lookup(code); ok && r.CPTDescription == nil {
				r.CPTDescription = strptr(e.Description)
			}
			r.Confidence = 1.0
			stats.Passthrough++
		case strings.TrimSpace(deref(r.ProcedureType)) == "":
			r.PredictedCPTCode = strptr("")
			r.Confidence = 0.0
			stats.ShortCircuited++
		default:
			p.predictRow(ctx, r, ref, &stats)
		}
		if (i+1)%chunkSize == 0 || i+1 == total {
			p.report(i+1, total)
		}
	}
	return stats, nil
}

// trusted reports whether the record's source cpt_code can be passed
// through without prediction. Only codes found in the reference lexicon
// qualify: with an empty lexicon every pre-coded row goes down the
// prediction path instead of getting an unverified 1.0.
func (p *Predictor) trusted(r *model.CaseRecord) bool {
	code := strings.TrimSpace(deref(r.CPTCode))
	if code == "" || p.Ref == nil {
		return false
	}
	_, ok := p.Ref.Lookup(code)
	return ok
}

func (p *Predictor) predictRow(ctx context.Context, r *model.CaseRecord, ref *reference.Lexicon, stats *Stats) {
	if p.Oracle == nil || !p.Oracle.Enabled() {
		r.PredictedCPTCode = strptr("")
		r.Confidence = 0.0
		stats.ShortCircuited++
		return
	}

	text, err := p.Oracle.Complete(ctx, predictSystemPrompt, p.buildPrompt(r, ref))
	if err != nil {
		p.Log.Warn().Err(err).Str("procedure", deref(r.ProcedureType)).Msg("cpt prediction failed")
		p.fillError(r)
		stats.OracleErrors++
		return
	}

	var resp oracleResponse
	if err := json.Unmarshal([]byte(oracle.StripFences(text)), &resp); err != nil {
		p.Log.Warn().Err(err).Msg("unparseable cpt prediction response")
		p.fillError(r)
		stats.OracleErrors++
		return
	}

	r.PredictedCPTCode = strptr(strings.TrimSpace(resp.CPTCode))
	if d := strings.TrimSpace(resp.Description); d != "" {
		r.CPTDescription = strptr(d)
	}
	r.Confidence = coerceConfidence(resp.Confidence)
	stats.Predicted++
}

// fillError marks a row whose prediction failed. The error stays in the
// log; the output columns carry no prose.
func (p *Predictor) fillError(r *model.CaseRecord) {
	r.PredictedCPTCode = strptr("")
	r.Confidence = 0.0
}

func (p *Predictor) buildPrompt(r *model.CaseRecord, ref *reference.Lexicon) string {
	var sb strings.Builder
	sb.WriteString("Assign the most appropriate CPT code for this surgical procedure:\n\n")
	fmt.Fprintf(&sb, "Procedure: %s\n", deref(r.ProcedureType))
	if h := deref(r.Hospital); h != "" {
		fmt.Fprintf(&sb, "Facility: %s\n", h)
	}
	if a := deref(r.Attending); a != "" {
		fmt.Fprintf(&sb, "Attending Physician: %s\n", a)
	}

	entries := ref.Entries()
	if len(entries) > 0 {
		if len(entries) > maxPromptCodes {
			entries = entries[:maxPromptCodes]
		}
		sb.WriteString("\nPrefer one of these reference codes when applicable:\n")
		for _, e := range entries {
			fmt.Fprintf(&sb, "- %s: %s\n", e.Code, e.Description)
		}
	}

	sb.WriteString(`
Return a JSON object with exactly these keys:
- "cpt_code": the CPT code as a string
- "description": the official CPT description
- "confidence": a number between 0.0 and 1.0
- "explanation": one sentence on why this code fits`)
	return sb.String()
}

// coerceConfidence accepts a JSON number or numeric string and clamps it
// to [0, 1]. Anything unparseable is 0.
func coerceConfidence(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return 0.0
	}
	s := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0.0
	}
	if v < 0 {
		return 0.0
	}
	if v > 1 {
		return 1.0
	}
	return v
}

func (p *Predictor) report(done, total int) {
	if p.Progress != nil {
		p.Progress(done, total)
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func strptr(s string) *string { return &s }
