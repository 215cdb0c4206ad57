package stub

import (
	"math"
	"sort"

	"github.com/ayushhealth/ayushbot/internal/predictor"
)

// Neighbours is how many diseases are kept for a number of accepted
// symptoms: fewer symptoms cast a wider net.
func Neighbours(accepted int) int {
	switch {
	case accepted < 3:
		return 5
	case accepted < 5:
		return 3
	case accepted < 7:
		return 2
	default:
		return 1
	}
}

// Rank finds the nearest disease profiles to the accepted symptoms by
// TF-IDF cosine similarity, among profiles that apply to the asker. The
// candidate symptoms are those of the kept profiles minus accepted and
// rejected, least shared first; equal counts keep first-seen order.
func (ds *Dataset) Rank(q predictor.Query) predictor.Candidates {
	group := AgeGroup(q.Age)
	var docs []Profile
	for _, p := range ds.Profiles {
		if p.applies(group, q.Gender) {
			docs = append(docs, p)
		}
	}

	idf := inverseDocFreq(docs)
	query := weigh(q.Symptoms, idf)

	type scored struct {
		i     int
		score float64
	}
	scores := make([]scored, len(docs))
	for i, d := range docs {
		scores[i] = scored{i, cosine(query, weigh(d.Symptoms, idf))}
	}
	sort.SliceStable(scores, func(a, b int) bool { return scores[a].score > scores[b].score })

	k := min(Neighbours(len(q.Symptoms)), len(scores))
	out := predictor.Candidates{Diseases: []string{}, Symptoms: []string{}}

	known := make(map[string]bool, len(q.Symptoms)+len(q.RejectedSymptoms))
	for _, s := range q.Symptoms {
		known[s] = true
	}
	for _, s := range q.RejectedSymptoms {
		known[s] = true
	}

	counts := make(map[string]int)
	for _, sc := range scores[:k] {
		d := docs[sc.i]
		out.Diseases = append(out.Diseases, d.Disease)
		for _, s := range d.Symptoms {
			if known[s] {
				continue
			}
			if counts[s] == 0 {
				out.Symptoms = append(out.Symptoms, s)
			}
			counts[s]++
		}
	}
	sort.SliceStable(out.Symptoms, func(a, b int) bool {
		return counts[out.Symptoms[a]] < counts[out.Symptoms[b]]
	})
	return out
}

// inverseDocFreq uses smoothed idf: ln((1+n)/(1+df)) + 1.
func inverseDocFreq(docs []Profile) map[string]float64 {
	df := make(map[string]int)
	for _, d := range docs {
		for _, s := range uniq(d.Symptoms) {
			df[s]++
		}
	}
	n := float64(len(docs))
	idf := make(map[string]float64, len(df))
	for s, c := range df {
		idf[s] = math.Log((1+n)/(1+float64(c))) + 1
	}
	return idf
}

// weigh builds a binary-tf vector; unknown terms get no weight.
func weigh(terms []string, idf map[string]float64) map[string]float64 {
	v := make(map[string]float64, len(terms))
	for _, t := range terms {
		if w, ok := idf[t]; ok {
			v[t] = w
		}
	}
	return v
}

func cosine(a, b map[string]float64) float64 {
	var dot, na, nb float64
	for t, w := range a {
		na += w * w
		dot += w * b[t]
	}
	for _, w := range b {
		nb += w * w
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

func uniq(ss []string) []string {
	seen := make(map[string]bool, len(ss))
	out := ss[:0:0]
	for _, s := range ss {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
