package service

import (
	"sort"
	"strings"

	"careconnect/internal/models"
)

// Preferences are the optional filter/preference criteria for a caretaker
// search. Zero values mean "no constraint": an empty string, a zero price
// or age bound, and a false boolean all leave the criterion unset.
type Preferences struct {
	Location            string  `json:"location,omitempty"`
	ServiceArea         string  `json:"serviceArea,omitempty"`
	Specialization      string  `json:"specialization,omitempty"`
	MinPrice            float64 `json:"minPrice,omitempty"`
	MaxPrice            float64 `json:"maxPrice,omitempty"`
	Gender              string  `json:"gender,omitempty"`
	MinAge              int     `json:"minAge,omitempty"`
	MaxAge              int     `json:"maxAge,omitempty"`
	IsCertified         bool    `json:"isCertified,omitempty"`
	IsBackgroundChecked bool    `json:"isBackgroundChecked,omitempty"`
	IsAvailable         bool    `json:"isAvailable,omitempty"`
}

// Weights are the scoring constants for ranking. They are hand-tuned
// configuration, not algorithm invariants; DefaultWeights reproduces the
// production behavior.
type Weights struct {
	RatingMultiplier    float64 // base score per rating point
	DefaultRating       float64 // assumed rating for unrated caretakers
	LocationBonus       float64
	ServiceAreaBonus    float64
	GenderBonus         float64
	AgeRangeBonus       float64
	PriceBonusMax       float64 // cap on the price-headroom bonus
	PricePerDollar      float64 // bonus per dollar below the max price
	SpecializationBonus float64
	CertifiedBonus      float64
	BackgroundBonus     float64
	ExperiencePerYear   float64
	ExperienceBonusMax  float64
}

// DefaultWeights are the production scoring constants
var DefaultWeights = Weights{
	RatingMultiplier:    10,
	DefaultRating:       4.0,
	LocationBonus:       20,
	ServiceAreaBonus:    15,
	GenderBonus:         15,
	AgeRangeBonus:       15,
	PriceBonusMax:       20,
	PricePerDollar:      0.2,
	SpecializationBonus: 25,
	CertifiedBonus:      15,
	BackgroundBonus:     15,
	ExperiencePerYear:   2,
	ExperienceBonusMax:  20,
}

// ScoredCaretaker is a caretaker profile with its match score attached.
// The score is an additive ranking signal, not a normalized percentage.
type ScoredCaretaker struct {
	*models.CaretakerProfile
	MatchScore float64 `json:"matchScore"`
}

// FilterCaretakers applies the hard constraints in prefs conjunctively: a
// candidate is excluded if it fails any provided criterion. Absent
// criteria impose no constraint. Source order is preserved.
func FilterCaretakers(candidates []*models.CaretakerProfile, prefs Preferences) []*models.CaretakerProfile {
	var matched []*models.CaretakerProfile
	for _, c := range candidates {
		if matchesFilters(c, prefs) {
			matched = append(matched, c)
		}
	}
	return matched
}

func matchesFilters(c *models.CaretakerProfile, prefs Preferences) bool {
	if prefs.Location != "" && !containsFold(c.Location, prefs.Location) {
		return false
	}
	if prefs.ServiceArea != "" && !anyContainsFold(c.ServiceAreas, prefs.ServiceArea) {
		return false
	}
	if prefs.Specialization != "" && !anyContainsFold(c.Specializations, prefs.Specialization) {
		return false
	}
	if prefs.MinPrice > 0 && c.PricePerDay < prefs.MinPrice {
		return false
	}
	if prefs.MaxPrice > 0 && c.PricePerDay > prefs.MaxPrice {
		return false
	}
	if prefs.Gender != "" && c.Gender != prefs.Gender {
		return false
	}
	if prefs.MinAge > 0 && c.Age < prefs.MinAge {
		return false
	}
	if prefs.MaxAge > 0 && c.Age > prefs.MaxAge {
		return false
	}
	if prefs.IsCertified && !c.IsCertified {
		return false
	}
	if prefs.IsBackgroundChecked && !c.IsBackgroundChecked {
		return false
	}
	if prefs.IsAvailable && !c.IsAvailable {
		return false
	}
	return true
}

// MatchScore computes the additive preference score for one caretaker
func MatchScore(c *models.CaretakerProfile, prefs Preferences, w Weights) float64 {
	rating := c.Rating
	if rating == 0 {
		rating = w.DefaultRating
	}
	score := rating * w.RatingMultiplier

	if prefs.Location != "" && containsFold(c.Location, prefs.Location) {
		score += w.LocationBonus
	}
	if prefs.ServiceArea != "" && anyContainsFold(c.ServiceAreas, prefs.ServiceArea) {
		score += w.ServiceAreaBonus
	}
	if prefs.Gender != "" && c.Gender == prefs.Gender {
		score += w.GenderBonus
	}
	if prefs.MinAge > 0 && prefs.MaxAge > 0 && c.Age >= prefs.MinAge && c.Age <= prefs.MaxAge {
		score += w.AgeRangeBonus
	}
	if prefs.MaxPrice > 0 {
		// The further below the max price, the higher the bonus
		if headroom := prefs.MaxPrice - c.PricePerDay; headroom > 0 {
			score += min(w.PriceBonusMax, headroom*w.PricePerDollar)
		}
	}
	if prefs.Specialization != "" && anyContainsFold(c.Specializations, prefs.Specialization) {
		score += w.SpecializationBonus
	}
	if prefs.IsCertified && c.IsCertified {
		score += w.CertifiedBonus
	}
	if prefs.IsBackgroundChecked && c.IsBackgroundChecked {
		score += w.BackgroundBonus
	}
	score += min(w.ExperienceBonusMax, float64(c.YearsExperience)*w.ExperiencePerYear)

	return score
}

// RankCaretakers scores each candidate against the preferences and
// returns them ordered by descending score. The sort is stable: equal
// scores keep their input order, so results are deterministic for a
// deterministic input order.
func RankCaretakers(candidates []*models.CaretakerProfile, prefs Preferences, w Weights) []ScoredCaretaker {
	ranked := make([]ScoredCaretaker, 0, len(candidates))
	for _, c := range candidates {
		ranked = append(ranked, ScoredCaretaker{
			CaretakerProfile: c,
			MatchScore:       MatchScore(c, prefs, w),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].MatchScore > ranked[j].MatchScore
	})

	return ranked
}

// TopRecommendations filters, ranks, and truncates to at most count
// entries. Every returned entry satisfies all hard filters in prefs.
func TopRecommendations(candidates []*models.CaretakerProfile, prefs Preferences, count int) []ScoredCaretaker {
	if count <= 0 {
		count = 3
	}
	ranked := RankCaretakers(FilterCaretakers(candidates, prefs), prefs, DefaultWeights)
	if len(ranked) > count {
		ranked = ranked[:count]
	}
	return ranked
}

// Sort modes for the full result list
const (
	SortRelevance    = "relevance"
	SortPriceLow     = "price_low"
	SortPriceHigh    = "price_high"
	SortRating       = "rating"
	SortLiveLocation = "live_location"
)

// SortCaretakers orders a result list by a field-level sort key. The
// default ("relevance" or unknown keys) keeps the input order.
func SortCaretakers(caretakers []*models.CaretakerProfile, mode string) {
	switch mode {
	case SortPriceLow:
		sort.SliceStable(caretakers, func(i, j int) bool {
			return caretakers[i].PricePerDay < caretakers[j].PricePerDay
		})
	case SortPriceHigh:
		sort.SliceStable(caretakers, func(i, j int) bool {
			return caretakers[i].PricePerDay > caretakers[j].PricePerDay
		})
	case SortRating:
		sort.SliceStable(caretakers, func(i, j int) bool {
			return caretakers[i].Rating > caretakers[j].Rating
		})
	case SortLiveLocation:
		// Live-location caretakers first, then by rating
		sort.SliceStable(caretakers, func(i, j int) bool {
			if caretakers[i].ProvidesLiveLocation != caretakers[j].ProvidesLiveLocation {
				return caretakers[i].ProvidesLiveLocation
			}
			return caretakers[i].Rating > caretakers[j].Rating
		})
	}
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func anyContainsFold(haystacks []string, needle string) bool {
	for _, h := range haystacks {
		if containsFold(h, needle) {
			return true
		}
	}
	return false
}
