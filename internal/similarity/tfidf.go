// Package similarity scores pairwise paragraph similarity with TF-IDF
// vectors and cosine similarity.
package similarity

import (
	"errors"
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/dgallion1/docchunk/internal/stopwords"
)

// ErrEmptyVocabulary is returned when no document contributes a single term,
// e.g. every paragraph consists of stop words.
var ErrEmptyVocabulary = errors.New("similarity: empty vocabulary; documents may only contain stop words")

// termPattern matches runs of two or more word characters.
var termPattern = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// Scorer computes an n×n similarity matrix for n documents.
type Scorer interface {
	Available() bool
	Similarities(docs []string) ([][]float64, error)
}

// TFIDF vectorizes documents with raw term counts, smoothed inverse document
// frequency (ln((1+n)/(1+df)) + 1) and L2 row normalization, excluding
// English stop words. The vocabulary is fit fresh on every call.
type TFIDF struct{}

func NewTFIDF() *TFIDF {
	return &TFIDF{}
}

func (t *TFIDF) Available() bool { return true }

// Vector is a sparse, L2-normalized TF-IDF row sorted by term index.
type Vector []Weight

// Weight is one non-zero vector entry.
type Weight struct {
	Term  int
	Value float64
}

// Vectorize fits a vocabulary over docs and returns one vector per doc.
func (t *TFIDF) Vectorize(docs []string) ([]Vector, error) {
	counts := make([]map[string]int, len(docs))
	df := make(map[string]int)
	for i, doc := range docs {
		counts[i] = termCounts(doc)
		for term := range counts[i] {
			df[term]++
		}
	}
	if len(df) == 0 {
		return nil, ErrEmptyVocabulary
	}

	vocab := make([]string, 0, len(df))
	for term := range df {
		vocab = append(vocab, term)
	}
	sort.Strings(vocab)
	index := make(map[string]int, len(vocab))
	idf := make([]float64, len(vocab))
	n := float64(len(docs))
	for i, term := range vocab {
		index[term] = i
		idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}

	vectors := make([]Vector, len(docs))
	for i, c := range counts {
		v := make(Vector, 0, len(c))
		for term, tf := range c {
			j := index[term]
			v = append(v, Weight{Term: j, Value: float64(tf) * idf[j]})
		}
		sort.Slice(v, func(a, b int) bool { return v[a].Term < v[b].Term })
		vectors[i] = normalize(v)
	}
	return vectors, nil
}

// Similarities returns the cosine similarity matrix of docs.
func (t *TFIDF) Similarities(docs []string) ([][]float64, error) {
	vectors, err := t.Vectorize(docs)
	if err != nil {
		return nil, err
	}
	m := make([][]float64, len(vectors))
	for i := range vectors {
		m[i] = make([]float64, len(vectors))
	}
	for i := range vectors {
		for j := i; j < len(vectors); j++ {
			s := Cosine(vectors[i], vectors[j])
			m[i][j] = s
			m[j][i] = s
		}
	}
	return m, nil
}

// Cosine returns the cosine similarity of two L2-normalized vectors. Zero
// vectors have similarity 0 with everything.
func Cosine(a, b Vector) float64 {
	var dot float64
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i].Term == b[j].Term:
			dot += a[i].Value * b[j].Value
			i++
			j++
		case a[i].Term < b[j].Term:
			i++
		default:
			j++
		}
	}
	return dot
}

func termCounts(doc string) map[string]int {
	counts := make(map[string]int)
	for _, term := range termPattern.FindAllString(strings.ToLower(doc), -1) {
		if stopwords.IsEnglish(term) {
			continue
		}
		counts[term]++
	}
	return counts
}

func normalize(v Vector) Vector {
	var sum float64
	for _, w := range v {
		sum += w.Value * w.Value
	}
	if sum == 0 {
		return v
	}
	norm := math.Sqrt(sum)
	for i := range v {
		v[i].Value /= norm
	}
	return v
}
