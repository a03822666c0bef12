package service

import (
	"testing"

	"careconnect/internal/models"
)

func sampleCaretakers() []*models.CaretakerProfile {
	return []*models.CaretakerProfile{
		{
			ID: 1, UserID: 1, Location: "Boston, MA",
			ServiceAreas:    []string{"Boston", "Cambridge"},
			Specializations: []string{"Alzheimer's care", "Memory care"},
			Gender:          "female", Age: 32,
			PricePerDay: 180, YearsExperience: 8, Rating: 4.8,
			IsCertified: true, IsBackgroundChecked: true, IsAvailable: true,
		},
		{
			ID: 2, UserID: 2, Location: "Chicago, IL",
			ServiceAreas:    []string{"Chicago", "Evanston"},
			Specializations: []string{"Dementia care"},
			Gender:          "male", Age: 45,
			PricePerDay: 210, YearsExperience: 15, Rating: 4.2,
			IsCertified: true, IsBackgroundChecked: true, IsAvailable: true,
		},
		{
			ID: 3, UserID: 3, Location: "Boston, MA",
			ServiceAreas:    []string{"Somerville"},
			Specializations: []string{"Physical therapy"},
			Gender:          "male", Age: 34,
			PricePerDay: 120, YearsExperience: 3, Rating: 3.9,
			IsCertified: false, IsBackgroundChecked: true, IsAvailable: false,
		},
	}
}

func TestFilterCaretakers(t *testing.T) {
	caretakers := sampleCaretakers()

	tests := []struct {
		name    string
		prefs   Preferences
		wantIDs []int64
	}{
		{"no criteria keeps all", Preferences{}, []int64{1, 2, 3}},
		{"location substring, case-insensitive", Preferences{Location: "boston"}, []int64{1, 3}},
		{"service area substring", Preferences{ServiceArea: "cambridge"}, []int64{1}},
		{"specialization substring", Preferences{Specialization: "care"}, []int64{1, 2}},
		{"price range", Preferences{MinPrice: 150, MaxPrice: 200}, []int64{1}},
		{"gender exact match", Preferences{Gender: "male"}, []int64{2, 3}},
		{"age range", Preferences{MinAge: 30, MaxAge: 40}, []int64{1, 3}},
		{"certified only", Preferences{IsCertified: true}, []int64{1, 2}},
		{"available only", Preferences{IsAvailable: true}, []int64{1, 2}},
		{"conjunctive criteria", Preferences{Location: "Boston", IsCertified: true}, []int64{1}},
		{"no match", Preferences{Location: "Denver"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterCaretakers(caretakers, tt.prefs)
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("got %d results, want %d", len(got), len(tt.wantIDs))
			}
			for i, want := range tt.wantIDs {
				if got[i].ID != want {
					t.Errorf("result[%d].ID = %d, want %d", i, got[i].ID, want)
				}
			}
		})
	}
}

func TestFilterCaretakersIdempotent(t *testing.T) {
	caretakers := sampleCaretakers()
	prefs := Preferences{Location: "Boston"}

	once := FilterCaretakers(caretakers, prefs)
	twice := FilterCaretakers(once, prefs)

	if len(once) != len(twice) {
		t.Fatalf("filtering twice changed result count: %d vs %d", len(once), len(twice))
	}
	for i := range once {
		if once[i].ID != twice[i].ID {
			t.Errorf("filtering twice changed result order at %d", i)
		}
	}
}

func TestMatchScoreWorkedExample(t *testing.T) {
	// 4.8*10 + 20 location + 15 service area + 15 gender + 25
	// specialization + 8*2 experience = 139
	caretaker := &models.CaretakerProfile{
		Rating:          4.8,
		Location:        "Boston, MA",
		ServiceAreas:    []string{"Cambridge"},
		Gender:          "female",
		Specializations: []string{"Alzheimer's care"},
		YearsExperience: 8,
	}
	prefs := Preferences{
		Location:       "Boston",
		ServiceArea:    "cambridge",
		Gender:         "female",
		Specialization: "alzheimer",
	}

	got := MatchScore(caretaker, prefs, DefaultWeights)
	if got != 139 {
		t.Errorf("MatchScore() = %v, want 139", got)
	}
}

func TestMatchScoreCertificationVariant(t *testing.T) {
	// 4.8*10 + 20 location + 25 specialization + 15 certified + 15
	// background-checked + 8*2 experience = 139
	caretaker := &models.CaretakerProfile{
		Rating:              4.8,
		Location:            "Boston, MA",
		Specializations:     []string{"Alzheimer's care"},
		IsCertified:         true,
		IsBackgroundChecked: true,
		YearsExperience:     8,
	}
	prefs := Preferences{
		Location:            "Boston",
		Specialization:      "alzheimer",
		IsCertified:         true,
		IsBackgroundChecked: true,
	}

	got := MatchScore(caretaker, prefs, DefaultWeights)
	if got != 139 {
		t.Errorf("MatchScore() = %v, want 139", got)
	}

	// Preferring certification scores nothing for an uncertified candidate
	uncertified := &models.CaretakerProfile{Rating: 4.8, YearsExperience: 8}
	if got := MatchScore(uncertified, prefs, DefaultWeights); got != 64 {
		t.Errorf("MatchScore() for uncertified candidate = %v, want 64", got)
	}
}

func TestMatchScoreDefaultRating(t *testing.T) {
	unrated := &models.CaretakerProfile{}
	got := MatchScore(unrated, Preferences{}, DefaultWeights)
	// Unrated caretakers score as if rated 4.0
	if got != 40 {
		t.Errorf("MatchScore() for unrated caretaker = %v, want 40", got)
	}
}

func TestMatchScorePriceHeadroom(t *testing.T) {
	tests := []struct {
		name        string
		pricePerDay float64
		maxPrice    float64
		want        float64
	}{
		{"bonus proportional to headroom", 150, 200, 40 + 10},
		{"bonus capped", 50, 300, 40 + 20},
		{"no bonus at max price", 200, 200, 40},
		{"no bonus above max price", 250, 200, 40},
		{"no bonus without max price", 150, 0, 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &models.CaretakerProfile{PricePerDay: tt.pricePerDay}
			got := MatchScore(c, Preferences{MaxPrice: tt.maxPrice}, DefaultWeights)
			if got != tt.want {
				t.Errorf("MatchScore() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMatchScoreExperienceCap(t *testing.T) {
	veteran := &models.CaretakerProfile{YearsExperience: 25}
	got := MatchScore(veteran, Preferences{}, DefaultWeights)
	// 40 base + capped 20 experience
	if got != 60 {
		t.Errorf("MatchScore() = %v, want 60", got)
	}
}

func TestMatchScoreMonotonicInRating(t *testing.T) {
	low := &models.CaretakerProfile{Rating: 4.1}
	high := &models.CaretakerProfile{Rating: 4.9}

	if MatchScore(high, Preferences{}, DefaultWeights) <= MatchScore(low, Preferences{}, DefaultWeights) {
		t.Error("higher rating should score higher, all else equal")
	}
}

func TestRankCaretakersOrdering(t *testing.T) {
	caretakers := sampleCaretakers()
	prefs := Preferences{Location: "Boston"}

	ranked := RankCaretakers(caretakers, prefs, DefaultWeights)
	if len(ranked) != len(caretakers) {
		t.Fatalf("ranked %d, want %d", len(ranked), len(caretakers))
	}
	for i := 1; i < len(ranked); i++ {
		if ranked[i-1].MatchScore < ranked[i].MatchScore {
			t.Errorf("ranking not descending at %d: %v < %v", i, ranked[i-1].MatchScore, ranked[i].MatchScore)
		}
	}
}

func TestRankCaretakersStable(t *testing.T) {
	// Identical profiles tie; their input order must survive
	a := &models.CaretakerProfile{ID: 10, Rating: 4.0}
	b := &models.CaretakerProfile{ID: 20, Rating: 4.0}
	c := &models.CaretakerProfile{ID: 30, Rating: 4.0}

	ranked := RankCaretakers([]*models.CaretakerProfile{a, b, c}, Preferences{}, DefaultWeights)
	wantIDs := []int64{10, 20, 30}
	for i, want := range wantIDs {
		if ranked[i].ID != want {
			t.Errorf("ranked[%d].ID = %d, want %d", i, ranked[i].ID, want)
		}
	}
}

func TestTopRecommendations(t *testing.T) {
	caretakers := sampleCaretakers()

	t.Run("default count is 3", func(t *testing.T) {
		got := TopRecommendations(caretakers, Preferences{}, 0)
		if len(got) != 3 {
			t.Errorf("got %d recommendations, want 3", len(got))
		}
	})

	t.Run("count truncates", func(t *testing.T) {
		got := TopRecommendations(caretakers, Preferences{}, 2)
		if len(got) != 2 {
			t.Errorf("got %d recommendations, want 2", len(got))
		}
	})

	t.Run("hard filters apply", func(t *testing.T) {
		got := TopRecommendations(caretakers, Preferences{IsCertified: true}, 5)
		for _, rec := range got {
			if !rec.IsCertified {
				t.Errorf("recommendation %d fails the certified filter", rec.ID)
			}
		}
	})

	t.Run("best match first", func(t *testing.T) {
		got := TopRecommendations(caretakers, Preferences{Location: "Boston", Specialization: "memory"}, 3)
		if len(got) == 0 {
			t.Fatal("expected recommendations")
		}
		if got[0].ID != 1 {
			t.Errorf("top recommendation ID = %d, want 1", got[0].ID)
		}
	})
}

func TestSortCaretakers(t *testing.T) {
	t.Run("price_low", func(t *testing.T) {
		caretakers := sampleCaretakers()
		SortCaretakers(caretakers, SortPriceLow)
		for i := 1; i < len(caretakers); i++ {
			if caretakers[i-1].PricePerDay > caretakers[i].PricePerDay {
				t.Errorf("price_low not ascending at %d", i)
			}
		}
	})

	t.Run("price_high", func(t *testing.T) {
		caretakers := sampleCaretakers()
		SortCaretakers(caretakers, SortPriceHigh)
		for i := 1; i < len(caretakers); i++ {
			if caretakers[i-1].PricePerDay < caretakers[i].PricePerDay {
				t.Errorf("price_high not descending at %d", i)
			}
		}
	})

	t.Run("rating", func(t *testing.T) {
		caretakers := sampleCaretakers()
		SortCaretakers(caretakers, SortRating)
		for i := 1; i < len(caretakers); i++ {
			if caretakers[i-1].Rating < caretakers[i].Rating {
				t.Errorf("rating not descending at %d", i)
			}
		}
	})

	t.Run("live_location first", func(t *testing.T) {
		caretakers := sampleCaretakers()
		caretakers[2].ProvidesLiveLocation = true
		SortCaretakers(caretakers, SortLiveLocation)
		if !caretakers[0].ProvidesLiveLocation {
			t.Error("live-location caretaker should sort first")
		}
	})

	t.Run("unknown mode keeps order", func(t *testing.T) {
		caretakers := sampleCaretakers()
		SortCaretakers(caretakers, "relevance")
		wantIDs := []int64{1, 2, 3}
		for i, want := range wantIDs {
			if caretakers[i].ID != want {
				t.Errorf("caretakers[%d].ID = %d, want %d", i, caretakers[i].ID, want)
			}
		}
	})
}
