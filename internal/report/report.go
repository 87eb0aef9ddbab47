// Package report serializes an analyzed model into the XML report format
// (component K, SPEC_FULL.md §4.K): one <results> element per fault tree,
// carrying a sum-of-products list, a per-event measure table, and an
// optional SIL verdict. It only reads the model. BuildResults always calls
// the evaluator's TopProbability and Products for the tree, runs the
// importance pass only when Options asks for it, and derives the SIL verdict
// from samples the caller already collected.
package report

import (
	"encoding/xml"
	"math"
	"os"

	"github.com/scram-tools/scram-core/internal/evaluator"
	"github.com/scram-tools/scram-core/mef"
)

// Document is the root of a serialized report, one Results per fault tree.
type Document struct {
	XMLName xml.Name `xml:"scram-results"`
	Results []Results `xml:"results"`
}

// Results holds everything computed for a single fault tree.
type Results struct {
	Name           string         `xml:"name,attr"`
	TopProbability float64        `xml:"top-probability"`
	SumOfProducts  SumOfProducts  `xml:"sum-of-products"`
	Measures       []Measure      `xml:"measure"`
	SIL            *SIL           `xml:"sil,omitempty"`
}

// SumOfProducts lists the minimal cut sets the evaluator found, up to
// whatever order it was asked for.
type SumOfProducts struct {
	Approximation string    `xml:"approximation,attr"`
	Products      []Product `xml:"product"`
}

// Product is one minimal cut set, its basic events in the evaluator's order.
type Product struct {
	Order       int      `xml:"order,attr"`
	BasicEvents []string `xml:"basic-event"`
}

// Measure is one event's importance row. Every field is NaN unless an
// importance pass actually ran for this report (§4.K); encoding/xml renders
// a NaN float as the literal text "NaN", which this report's own schema
// treats as "not computed" rather than a numeric value.
type Measure struct {
	Event    string  `xml:"event,attr"`
	FV       float64 `xml:"fussell-vesely,attr"`
	Birnbaum float64 `xml:"birnbaum,attr"`
	CIF      float64 `xml:"cif,attr"`
	DIF      float64 `xml:"dif,attr"`
	RAW      float64 `xml:"raw,attr"`
	RRW      float64 `xml:"rrw,attr"`
}

// SIL is the IEC 61508 verdict derived from a PFDavg/PFH time integration.
type SIL struct {
	PFDAvg         float64 `xml:"pfd-avg,attr"`
	PFH            float64 `xml:"pfh,attr"`
	DemandBand     string  `xml:"demand-band,attr"`
	ContinuousBand string  `xml:"continuous-band,attr"`
}

// Options controls which optional sections BuildResults fills in. The zero
// value produces top-probability, a sum-of-products, and one all-NaN
// <measure> row per leaf event, with no <sil> element.
type Options struct {
	// MaxProductOrder bounds the minimal cut sets requested from eval;
	// zero selects defaultMaxProductOrder.
	MaxProductOrder int
	// Importance, when true, runs internal/evaluator's exact importance
	// pass for every leaf event instead of leaving its row NaN.
	Importance bool
	// SIL, when true, derives a <sil> element from the two sample slices
	// below, which the caller must have already collected by repeatedly
	// calling Analysis.ProbabilityAt across a mission-time interval.
	SIL           bool
	PFDAvgSamples []float64
	PFHSamples    []float64
	PFHInterval   float64
}

const defaultMaxProductOrder = 3

// BuildDocument assembles one Results entry per fault tree in m, in model
// order.
func BuildDocument(m *mef.Model, eval mef.Evaluator, opts Options) *Document {
	doc := &Document{}
	for _, ft := range m.FaultTrees {
		doc.Results = append(doc.Results, BuildResults(ft, eval, opts))
	}
	return doc
}

// BuildResults runs eval's TopProbability and Products over ft and folds in
// whichever of Importance/SIL opts asks for.
func BuildResults(ft *mef.FaultTree, eval mef.Evaluator, opts Options) Results {
	order := opts.MaxProductOrder
	if order <= 0 {
		order = defaultMaxProductOrder
	}

	res := Results{
		Name:           ft.Name,
		TopProbability: eval.TopProbability(ft),
		SumOfProducts:  buildSumOfProducts(eval, eval.Products(ft, order)),
	}

	var table map[*mef.BasicEvent]evaluator.Measures
	if opts.Importance {
		table = make(map[*mef.BasicEvent]evaluator.Measures)
		for _, b := range evaluator.LeafBasics(ft) {
			table[b] = evaluator.Importance(ft, b)
		}
	}
	for _, b := range evaluator.LeafBasics(ft) {
		m := Measure{Event: b.ID, FV: math.NaN(), Birnbaum: math.NaN(), CIF: math.NaN(), DIF: math.NaN(), RAW: math.NaN(), RRW: math.NaN()}
		if meas, ok := table[b]; ok {
			m.FV, m.Birnbaum, m.CIF, m.DIF, m.RAW, m.RRW = meas.FV, meas.Birnbaum, meas.CIF, meas.DIF, meas.RAW, meas.RRW
		}
		res.Measures = append(res.Measures, m)
	}

	if opts.SIL {
		pfdAvg := evaluator.PFDAvg(opts.PFDAvgSamples)
		pfh := evaluator.PFH(opts.PFHSamples, opts.PFHInterval)
		res.SIL = &SIL{
			PFDAvg:         pfdAvg,
			PFH:            pfh,
			DemandBand:     evaluator.DemandBand(pfdAvg).String(),
			ContinuousBand: evaluator.ContinuousBand(pfh).String(),
		}
	}
	return res
}

func buildSumOfProducts(eval mef.Evaluator, products [][]string) SumOfProducts {
	approx := "exact"
	if e, ok := eval.(*evaluator.Evaluator); ok {
		approx = e.Approximation.String()
	}
	sop := SumOfProducts{Approximation: approx}
	for _, p := range products {
		sop.Products = append(sop.Products, Product{Order: len(p), BasicEvents: p})
	}
	return sop
}

// Marshal renders doc as an indented XML document with its declaration.
func Marshal(doc *Document) ([]byte, error) {
	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, mef.NewIOError("marshal report: %v", err)
	}
	out := append([]byte(xml.Header), body...)
	return out, nil
}

// WriteFile renders doc and writes it to filename.
func WriteFile(doc *Document, filename string) error {
	data, err := Marshal(doc)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return mef.NewIOError("write report %s: %v", filename, err)
	}
	return nil
}
