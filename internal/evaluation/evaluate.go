// Package evaluation scores the classifier against a labeled CSV dataset,
// reporting per-label precision/recall/F1 plus pooled aggregate metrics.
package evaluation

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jceal/stormwater-classifier/internal/domain"
)

// FinalLabels are the output columns scored against the classifier's final
// labels, in report order.
var FinalLabels = []string{"ESC", "WQ", "RR", "Vv", "NNI"}

// IntermediateLabels are the feature columns scored against the classifier's
// intermediate labels.
var IntermediateLabels = []string{
	"disturb_20000_sf",
	"new_imp",
	"new_imp_5000_sf",
	"table_2_2_activity",
	"in_ms4",
}

// Sample is one labeled row of the evaluation dataset.
type Sample struct {
	Description  string
	Final        map[string]bool
	Intermediate map[string]bool
}

// ParseBool interprets the boolean spellings allowed in dataset columns.
// Unrecognized values are an error rather than a silent default: a typo in
// ground truth must fail the run, not skew the metrics.
func ParseBool(val string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(val)) {
	case "true", "1", "yes", "y":
		return true, nil
	case "false", "0", "no", "n", "", "none":
		return false, nil
	default:
		return false, fmt.Errorf("cannot interpret boolean value: %q", val)
	}
}

// nniTruthy interprets the NNI ground-truth column, where the negative class
// has more spellings than a plain boolean.
func nniTruthy(val string) bool {
	switch strings.ToLower(strings.TrimSpace(val)) {
	case "false", "", "none", "na":
		return false
	default:
		return true
	}
}

// LoadDataset reads a labeled CSV. The header must include description plus
// every final and intermediate label column.
func LoadDataset(path string) ([]Sample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("no data rows in %s", path)
	}

	col := make(map[string]int, len(records[0]))
	for i, h := range records[0] {
		col[strings.TrimSpace(h)] = i
	}
	required := append([]string{"description"}, FinalLabels...)
	required = append(required, IntermediateLabels...)
	for _, name := range required {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("missing column %q in %s", name, path)
		}
	}

	samples := make([]Sample, 0, len(records)-1)
	for i, row := range records[1:] {
		line := i + 2
		sample := Sample{
			Description:  row[col["description"]],
			Final:        make(map[string]bool, len(FinalLabels)),
			Intermediate: make(map[string]bool, len(IntermediateLabels)),
		}
		for _, lbl := range FinalLabels {
			if lbl == "NNI" {
				sample.Final[lbl] = nniTruthy(row[col[lbl]])
				continue
			}
			v, err := ParseBool(row[col[lbl]])
			if err != nil {
				return nil, fmt.Errorf("line %d, column %s: %w", line, lbl, err)
			}
			sample.Final[lbl] = v
		}
		for _, lbl := range IntermediateLabels {
			v, err := ParseBool(row[col[lbl]])
			if err != nil {
				return nil, fmt.Errorf("line %d, column %s: %w", line, lbl, err)
			}
			sample.Intermediate[lbl] = v
		}
		samples = append(samples, sample)
	}
	return samples, nil
}

// LabelMetrics is precision/recall/F1 for the positive class of one label.
type LabelMetrics struct {
	Precision float64
	Recall    float64
	F1        float64
	Support   int
}

// Report is the scored evaluation result.
type Report struct {
	Samples      int
	Final        map[string]LabelMetrics
	Intermediate map[string]LabelMetrics

	// Aggregates over the pooled final-label predictions.
	MacroF1    float64
	MicroF1    float64
	WeightedF1 float64
	Accuracy   float64
}

// Evaluate classifies every sample and scores predictions against ground
// truth.
func Evaluate(ctx context.Context, classifier *domain.Classifier, samples []Sample) Report {
	finalCounts := make(map[string]*confusion, len(FinalLabels))
	interCounts := make(map[string]*confusion, len(IntermediateLabels))
	for _, lbl := range FinalLabels {
		finalCounts[lbl] = &confusion{}
	}
	for _, lbl := range IntermediateLabels {
		interCounts[lbl] = &confusion{}
	}

	pooled := confusion{}

	for _, sample := range samples {
		final, inter := classifier.ClassifyWithExplanation(ctx, sample.Description)

		pred := map[string]bool{
			"ESC": final.ESC,
			"WQ":  final.WQ,
			"RR":  final.RR,
			"Vv":  final.Vv,
			"NNI": final.NNI.Applicable(),
		}
		for _, lbl := range FinalLabels {
			finalCounts[lbl].add(sample.Final[lbl], pred[lbl])
			pooled.add(sample.Final[lbl], pred[lbl])
		}

		interPred := map[string]bool{
			"disturb_20000_sf":   inter.Disturb20000SF,
			"new_imp":            inter.NewImp,
			"new_imp_5000_sf":    inter.NewImp5000SF,
			"table_2_2_activity": inter.Table22Activity,
			"in_ms4":             inter.InMS4,
		}
		for _, lbl := range IntermediateLabels {
			interCounts[lbl].add(sample.Intermediate[lbl], interPred[lbl])
		}
	}

	report := Report{
		Samples:      len(samples),
		Final:        make(map[string]LabelMetrics, len(FinalLabels)),
		Intermediate: make(map[string]LabelMetrics, len(IntermediateLabels)),
	}
	for lbl, c := range finalCounts {
		report.Final[lbl] = c.metrics()
	}
	for lbl, c := range interCounts {
		report.Intermediate[lbl] = c.metrics()
	}

	report.MacroF1, report.MicroF1, report.WeightedF1, report.Accuracy = pooled.aggregates()
	return report
}

// Render writes the report in the fixed-width layout consumed by humans.
func (r Report) Render(w io.Writer) {
	fmt.Fprintf(w, "Evaluated %d samples\n\n", r.Samples)

	fmt.Fprintln(w, "Label    Prec    Rec     F1     Support")
	for _, lbl := range FinalLabels {
		m := r.Final[lbl]
		fmt.Fprintf(w, "%-5s   %0.3f   %0.3f   %0.3f   %5d\n", lbl, m.Precision, m.Recall, m.F1, m.Support)
	}

	fmt.Fprintln(w, "\nIntermediate Label Performance")
	fmt.Fprintln(w, "Label                Prec    Rec     F1     Support")
	fmt.Fprintln(w, "-----------------------------------------------------")
	for _, lbl := range IntermediateLabels {
		m := r.Intermediate[lbl]
		fmt.Fprintf(w, "%-20s %0.3f   %0.3f   %0.3f   %5d\n", lbl, m.Precision, m.Recall, m.F1, m.Support)
	}

	fmt.Fprintln(w, "\nAggregate Metrics")
	fmt.Fprintf(w, "Macro F1:     %0.3f\n", r.MacroF1)
	fmt.Fprintf(w, "Micro F1:     %0.3f\n", r.MicroF1)
	fmt.Fprintf(w, "Weighted F1:  %0.3f\n", r.WeightedF1)
	fmt.Fprintf(w, "Accuracy:     %0.3f\n", r.Accuracy)
}

// confusion accumulates binary prediction counts.
type confusion struct {
	tp, fp, fn, tn int
}

func (c *confusion) add(truth, pred bool) {
	switch {
	case truth && pred:
		c.tp++
	case !truth && pred:
		c.fp++
	case truth && !pred:
		c.fn++
	default:
		c.tn++
	}
}

// metrics scores the positive class. Degenerate denominators yield zero
// rather than NaN.
func (c *confusion) metrics() LabelMetrics {
	m := LabelMetrics{Support: c.tp + c.fn}
	if c.tp+c.fp > 0 {
		m.Precision = float64(c.tp) / float64(c.tp+c.fp)
	}
	if c.tp+c.fn > 0 {
		m.Recall = float64(c.tp) / float64(c.tp+c.fn)
	}
	if m.Precision+m.Recall > 0 {
		m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
	}
	return m
}

// aggregates computes macro, micro, and weighted F1 over both classes of the
// pooled predictions, plus plain accuracy.
func (c *confusion) aggregates() (macro, micro, weighted, accuracy float64) {
	total := c.tp + c.fp + c.fn + c.tn
	if total == 0 {
		return 0, 0, 0, 0
	}

	pos := c.metrics()
	neg := (&confusion{tp: c.tn, fp: c.fn, fn: c.fp, tn: c.tp}).metrics()

	macro = (pos.F1 + neg.F1) / 2
	accuracy = float64(c.tp+c.tn) / float64(total)
	// Micro-averaged F1 over both classes of a binary task reduces to accuracy.
	micro = accuracy

	nPos := c.tp + c.fn
	nNeg := c.fp + c.tn
	weighted = (float64(nPos)*pos.F1 + float64(nNeg)*neg.F1) / float64(total)
	return macro, micro, weighted, accuracy
}
