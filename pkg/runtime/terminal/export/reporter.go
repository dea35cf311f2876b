package export

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/xam-health/equity-atlas/pkg/models/domain"
)

type TableConfig struct {
	AntecedentWidth int
	ConsequentWidth int
	MetricWidth     int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		AntecedentWidth: 44,
		ConsequentWidth: 44,
		MetricWidth:     10,
	}
}

type Reporter struct {
	writer io.Writer
	config TableConfig
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{
		writer: writer,
		config: DefaultTableConfig(),
	}
}

func (c *Reporter) Handle(result *domain.MiningResult) error {
	funcMap := template.FuncMap{
		"labels": func(items []domain.Item) string {
			parts := make([]string, len(items))
			for i, it := range items {
				parts[i] = string(it)
			}
			return strings.Join(parts, " & ")
		},
		"metric": func(v float64) string {
			return fmt.Sprintf("%.4f", v)
		},
		"pct": func(v float64) float64 {
			return v * 100
		},
		"formatRow": func(antecedent, consequent, support, confidence, lift string) string {
			return fmt.Sprintf("| %-*s | %-*s | %-*s | %-*s | %-*s |",
				c.config.AntecedentWidth, antecedent,
				c.config.ConsequentWidth, consequent,
				c.config.MetricWidth, support,
				c.config.MetricWidth, confidence,
				c.config.MetricWidth, lift)
		},
		"separator": func() string {
			return fmt.Sprintf("+%s+%s+%s+%s+%s+",
				strings.Repeat("-", c.config.AntecedentWidth+2),
				strings.Repeat("-", c.config.ConsequentWidth+2),
				strings.Repeat("-", c.config.MetricWidth+2),
				strings.Repeat("-", c.config.MetricWidth+2),
				strings.Repeat("-", c.config.MetricWidth+2))
		},
	}

	tmpl := `
{{.Scope.Disease}} patterns, {{.Scope.Year}} ({{.Transactions}} state transactions)
{{if .Summary}}
{{.Summary}}
{{end}}{{if .Disparity}}
Lowest rate:  {{.Disparity.MinState}} {{printf "%.2f%%" (pct .Disparity.MinRate)}}
Highest rate: {{.Disparity.MaxState}} {{printf "%.2f%%" (pct .Disparity.MaxRate)}}
Disparity index: {{printf "%.2f" .Disparity.DisparityIndex}}
{{end}}{{if .Rules}}
{{separator}}
{{formatRow "Antecedent" "Consequent" "Support" "Confidence" "Lift"}}
{{separator}}
{{range .Rules}}{{formatRow (labels .Antecedent) (labels .Consequent) (metric .Support) (metric .Confidence) (metric .Lift)}}
{{end}}{{separator}}
{{end}}
`

	t, err := template.New("report").Funcs(funcMap).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(c.writer, result)
}
