// Package triage provides a symptom-to-disease triage engine that trains a
// random-forest classifier over a symptom dataset and answers prediction
// requests with severity tiers and advisory content.
//
// Quick start:
//
//	t, err := triage.New(triage.WithDataDir("data/"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	p, _ := t.PredictText("high fever and a pounding head")
//	fmt.Println(p.Disease, p.Severity) // Common Cold medium
//
// The Triage instance is safe for concurrent use. Construction trains the
// model (or restores it from the artifact cache) — create once, reuse
// across requests. See the README for full documentation.
package triage
