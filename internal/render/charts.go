package render

import (
	"bytes"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// Count is the number of occurrences of a value.
type Count struct {
	Name  string
	Value int
}

// CountValues counts occurrences, most frequent first and ties by name.
func CountValues(values []string) []Count {
	idx := make(map[string]int)
	var out []Count
	for _, v := range values {
		i, ok := idx[v]
		if !ok {
			i = len(out)
			idx[v] = i
			out = append(out, Count{Name: v})
		}
		out[i].Value++
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Value != out[j].Value {
			return out[i].Value > out[j].Value
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Chart is a standalone chart document, embedded through an iframe srcdoc.
type Chart struct {
	Title string
	Doc   string
}

// PieChart renders a pie of the value counts.
func PieChart(title string, values []string) (*Chart, error) {
	counts := CountValues(values)
	items := make([]opts.PieData, 0, len(counts))
	for _, c := range counts {
		items = append(items, opts.PieData{Name: c.Name, Value: c.Value})
	}
	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: title,
			Width:     "100%",
			Height:    "340px",
		}),
		charts.WithTitleOpts(opts.Title{Title: title}),
	)
	pie.AddSeries(title, items)
	var buf bytes.Buffer
	if err := pie.Render(&buf); err != nil {
		return nil, err
	}
	return &Chart{Title: title, Doc: buf.String()}, nil
}
