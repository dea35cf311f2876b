package adapters

import (
	"math"

	"github.com/xam-health/equity-atlas/pkg/models/api"
	"github.com/xam-health/equity-atlas/pkg/models/domain"
)

// reportPrecision is the decimal precision applied to support, confidence
// and lift at the API boundary. Internally everything stays unrounded.
const reportPrecision = 4

func MapRuleDomainToApi(r domain.Rule) api.Rule {
	return api.Rule{
		Antecedent: mapItems(r.Antecedent),
		Consequent: mapItems(r.Consequent),
		Support:    round(r.Support),
		Confidence: round(r.Confidence),
		Lift:       round(r.Lift),
	}
}

func MapRulesDomainToApi(rules []domain.Rule) []api.Rule {
	out := make([]api.Rule, 0, len(rules))
	for _, r := range rules {
		out = append(out, MapRuleDomainToApi(r))
	}
	return out
}

func MapMiningResultToMineResponse(result *domain.MiningResult) api.MineResponse {
	return api.MineResponse{
		Rules:   MapRulesDomainToApi(result.Rules),
		Summary: result.Summary,
	}
}

func MapMiningResultToInsightsResponse(result *domain.MiningResult) api.InsightsResponse {
	return api.InsightsResponse{
		Source:     string(result.Source),
		Insights:   result.Insights,
		MLPatterns: MapRulesDomainToApi(result.Rules),
	}
}

func MapStateAggregateDomainToApi(agg domain.StateAggregate) api.StateRecord {
	rec := api.StateRecord{
		State:      agg.State,
		Year:       agg.Year,
		Population: agg.Population,
		Suppressed: agg.Suppressed,
	}
	if agg.Cases != nil {
		cases := *agg.Cases
		rec.Cases = &cases
	}
	if agg.Rate != nil {
		rate := round(*agg.Rate)
		rec.Rate = &rate
	}
	return rec
}

// MapRequestScope converts the request filter block into a validated
// domain scope. Unknown diseases or demographic keys surface as InputError.
func MapRequestScope(disease string, year int, demographics map[string]string) (domain.Scope, error) {
	d, err := domain.ParseDisease(disease)
	if err != nil {
		return domain.Scope{}, err
	}

	scope := domain.Scope{Disease: d, Year: year}
	if len(demographics) > 0 {
		scope.Demographics = make(map[domain.DemographicCategory]string, len(demographics))
		for key, value := range demographics {
			if value == "" {
				continue
			}
			category, err := domain.ParseDemographicCategory(key)
			if err != nil {
				return domain.Scope{}, err
			}
			scope.Demographics[category] = value
		}
	}
	return scope, nil
}

func mapItems(items []domain.Item) []string {
	labels := make([]string, len(items))
	for i, it := range items {
		labels[i] = string(it)
	}
	return labels
}

func round(v float64) float64 {
	factor := math.Pow10(reportPrecision)
	return math.Round(v*factor) / factor
}
