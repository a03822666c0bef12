package service

import (
	"fmt"
	"log"
	"math/rand"

	"careconnect/internal/models"
	"careconnect/internal/repository"
	"careconnect/internal/security"
)

// SeedService populates the database with a demo caretaker roster so a
// fresh installation has searchable results. Seeding is idempotent:
// caretakers that already exist (by username) are skipped.
type SeedService struct {
	userRepo      *repository.UserRepository
	caretakerRepo *repository.CaretakerRepository
}

// NewSeedService creates a new seed service
func NewSeedService(userRepo *repository.UserRepository, caretakerRepo *repository.CaretakerRepository) *SeedService {
	return &SeedService{
		userRepo:      userRepo,
		caretakerRepo: caretakerRepo,
	}
}

type caretakerSeed struct {
	Username string
	Password string
	Email    string
	FullName string
	Profile  models.CaretakerProfile
}

// SeedCaretakers inserts the demo roster, returning how many caretakers
// were created. Individual failures are logged and skipped so one bad
// row never aborts the run.
func (s *SeedService) SeedCaretakers() (int, error) {
	created := 0
	for _, seed := range caretakerRoster {
		existing, err := s.userRepo.GetUserByUsername(seed.Username)
		if err != nil {
			return created, fmt.Errorf("failed to check existing user %s: %w", seed.Username, err)
		}
		if existing != nil {
			log.Printf("Caretaker %s already exists, skipping", seed.Username)
			continue
		}

		passwordHash, err := security.HashPassword(seed.Password)
		if err != nil {
			return created, fmt.Errorf("failed to hash password for %s: %w", seed.Username, err)
		}

		user, err := s.userRepo.CreateUser(&models.User{
			Username:     seed.Username,
			PasswordHash: passwordHash,
			Email:        seed.Email,
			FullName:     seed.FullName,
			Role:         models.RoleCaretaker,
		})
		if err != nil {
			log.Printf("Failed to create caretaker %s: %v", seed.Username, err)
			continue
		}

		profile := seed.Profile
		profile.UserID = user.ID
		if _, err := s.caretakerRepo.Create(&profile); err != nil {
			log.Printf("Failed to create profile for %s: %v", seed.Username, err)
			continue
		}

		// Demo ratings: 4.0-5.0 stars over 5-35 reviews
		rating := 4 + rand.Float64()
		reviewCount := rand.Intn(30) + 5
		if err := s.caretakerRepo.SetRating(user.ID, rating, reviewCount); err != nil {
			log.Printf("Failed to set rating for %s: %v", seed.Username, err)
		}

		log.Printf("Created caretaker: %s", seed.FullName)
		created++
	}
	return created, nil
}

var caretakerRoster = []caretakerSeed{
	{
		Username: "emma_wilson", Password: "password123",
		Email: "emma.wilson@example.com", FullName: "Emma Wilson",
		Profile: models.CaretakerProfile{
			Bio:             "Certified nurse with specialized training in dementia care. Compassionate and patient with 8 years of experience working with elderly patients.",
			PricePerDay:     180, YearsExperience: 8,
			Location:        "Boston, MA",
			ServiceAreas:    []string{"Boston", "Cambridge", "Somerville"},
			Gender:          "female", Age: 32,
			Specializations: []string{"Alzheimer's care", "Medication management", "Memory care"},
			IsCertified:     true, IsBackgroundChecked: true, IsAvailable: true,
			ImageURL:        "https://randomuser.me/api/portraits/women/22.jpg",
		},
	},
	{
		Username: "james_miller", Password: "password123",
		Email: "james.miller@example.com", FullName: "James Miller",
		Profile: models.CaretakerProfile{
			Bio:             "Former hospital administrator with a focus on elderly care. Known for creating structured routines that help dementia patients feel secure and oriented.",
			PricePerDay:     210, YearsExperience: 15,
			Location:        "Chicago, IL",
			ServiceAreas:    []string{"Chicago", "Evanston", "Oak Park"},
			Gender:          "male", Age: 45,
			Specializations: []string{"Dementia care", "Parkinson's assistance", "Daily living assistance"},
			IsCertified:     true, IsBackgroundChecked: true, IsAvailable: true,
			ImageURL:        "https://randomuser.me/api/portraits/men/32.jpg",
		},
	},
	{
		Username: "sophia_rodriguez", Password: "password123",
		Email: "sophia.rodriguez@example.com", FullName: "Sophia Rodriguez",
		Profile: models.CaretakerProfile{
			Bio:             "Trained in occupational therapy with a focus on cognitive stimulation for dementia patients. Bilingual in English and Spanish.",
			PricePerDay:     165, YearsExperience: 5,
			Location:        "Miami, FL",
			ServiceAreas:    []string{"Miami", "Coral Gables", "Miami Beach"},
			Gender:          "female", Age: 28,
			Specializations: []string{"Cognitive therapy", "Bilingual care", "Memory exercises"},
			IsCertified:     true, IsBackgroundChecked: true, IsAvailable: true,
			ImageURL:        "https://randomuser.me/api/portraits/women/28.jpg",
		},
	},
	{
		Username: "david_chen", Password: "password123",
		Email: "david.chen@example.com", FullName: "David Chen",
		Profile: models.CaretakerProfile{
			Bio:             "Nurse practitioner with specialized dementia training. Expert in managing behavioral symptoms and reducing agitation through environmental adjustments.",
			PricePerDay:     195, YearsExperience: 10,
			Location:        "San Francisco, CA",
			ServiceAreas:    []string{"San Francisco", "Oakland", "Berkeley"},
			Gender:          "male", Age: 37,
			Specializations: []string{"Behavioral management", "Medication supervision", "Fall prevention"},
			IsCertified:     true, IsBackgroundChecked: true, IsAvailable: true,
			ImageURL:        "https://randomuser.me/api/portraits/men/45.jpg",
		},
	},
	{
		Username: "olivia_thompson", Password: "password123",
		Email: "olivia.thompson@example.com", FullName: "Olivia Thompson",
		Profile: models.CaretakerProfile{
			Bio:             "Social worker with extensive background in dementia care. Focuses on maintaining dignity and quality of life while incorporating family in the care plan.",
			PricePerDay:     175, YearsExperience: 12,
			Location:        "Seattle, WA",
			ServiceAreas:    []string{"Seattle", "Bellevue", "Tacoma"},
			Gender:          "female", Age: 41,
			Specializations: []string{"Family coordination", "Social engagement", "Emotional support"},
			IsCertified:     true, IsBackgroundChecked: true, IsAvailable: true,
			ImageURL:        "https://randomuser.me/api/portraits/women/35.jpg",
		},
	},
	{
		Username: "michael_patel", Password: "password123",
		Email: "michael.patel@example.com", FullName: "Michael Patel",
		Profile: models.CaretakerProfile{
			Bio:             "Physical therapist with additional certification in dementia care. Specializes in maintaining mobility and preventing physical decline in dementia patients.",
			PricePerDay:     190, YearsExperience: 9,
			Location:        "Austin, TX",
			ServiceAreas:    []string{"Austin", "Round Rock", "Cedar Park"},
			Gender:          "male", Age: 34,
			Specializations: []string{"Physical therapy", "Mobility assistance", "Exercise programs"},
			IsCertified:     true, IsBackgroundChecked: true, IsAvailable: true,
			ImageURL:        "https://randomuser.me/api/portraits/men/58.jpg",
		},
	},
	{
		Username: "amelia_garcia", Password: "password123",
		Email: "amelia.garcia@example.com", FullName: "Amelia Garcia",
		Profile: models.CaretakerProfile{
			Bio:             "Nutritionist with dementia care training. Expert in developing meal plans that address cognitive needs while accommodating eating difficulties common in dementia.",
			PricePerDay:     155, YearsExperience: 6,
			Location:        "Denver, CO",
			ServiceAreas:    []string{"Denver", "Boulder", "Aurora"},
			Gender:          "female", Age: 30,
			Specializations: []string{"Nutrition planning", "Hydration monitoring", "Feeding assistance"},
			IsCertified:     true, IsBackgroundChecked: true, IsAvailable: true,
			ImageURL:        "https://randomuser.me/api/portraits/women/42.jpg",
		},
	},
	{
		Username: "william_jackson", Password: "password123",
		Email: "william.jackson@example.com", FullName: "William Jackson",
		Profile: models.CaretakerProfile{
			Bio:             "Former geriatric nurse with 20 years of experience. Specializes in late-stage dementia care and palliative approaches for maximum comfort.",
			PricePerDay:     225, YearsExperience: 20,
			Location:        "Philadelphia, PA",
			ServiceAreas:    []string{"Philadelphia", "Camden", "King of Prussia"},
			Gender:          "male", Age: 50,
			Specializations: []string{"Late-stage care", "Palliative care", "Pain management"},
			IsCertified:     true, IsBackgroundChecked: true, IsAvailable: true,
			ImageURL:        "https://randomuser.me/api/portraits/men/64.jpg",
		},
	},
	{
		Username: "isabella_wong", Password: "password123",
		Email: "isabella.wong@example.com", FullName: "Isabella Wong",
		Profile: models.CaretakerProfile{
			Bio:             "Art therapist with dementia care certification. Uses creative expression to improve communication and emotional well-being in patients with cognitive decline.",
			PricePerDay:     170, YearsExperience: 8,
			Location:        "Portland, OR",
			ServiceAreas:    []string{"Portland", "Beaverton", "Gresham"},
			Gender:          "female", Age: 36,
			Specializations: []string{"Art therapy", "Creative stimulation", "Non-verbal communication"},
			IsCertified:     true, IsBackgroundChecked: true, IsAvailable: true,
			ImageURL:        "https://randomuser.me/api/portraits/women/50.jpg",
		},
	},
	{
		Username: "benjamin_smith", Password: "password123",
		Email: "benjamin.smith@example.com", FullName: "Benjamin Smith",
		Profile: models.CaretakerProfile{
			Bio:             "Licensed practical nurse with dementia specialization. Skilled in managing complex medical needs alongside cognitive care requirements.",
			PricePerDay:     185, YearsExperience: 14,
			Location:        "Minneapolis, MN",
			ServiceAreas:    []string{"Minneapolis", "St. Paul", "Bloomington"},
			Gender:          "male", Age: 42,
			Specializations: []string{"Medical care coordination", "Wound care", "Diabetes management"},
			IsCertified:     true, IsBackgroundChecked: true, IsAvailable: true,
			ImageURL:        "https://randomuser.me/api/portraits/men/76.jpg",
		},
	},
	{
		Username: "charlotte_brown", Password: "password123",
		Email: "charlotte.brown@example.com", FullName: "Charlotte Brown",
		Profile: models.CaretakerProfile{
			Bio:             "Former music therapist with specialized training in dementia care. Uses music to trigger memories and improve mood in patients with cognitive impairment.",
			PricePerDay:     160, YearsExperience: 11,
			Location:        "Nashville, TN",
			ServiceAreas:    []string{"Nashville", "Franklin", "Brentwood"},
			Gender:          "female", Age: 44,
			Specializations: []string{"Music therapy", "Memory stimulation", "Emotional regulation"},
			IsCertified:     true, IsBackgroundChecked: true, IsAvailable: true,
			ImageURL:        "https://randomuser.me/api/portraits/women/60.jpg",
		},
	},
	{
		Username: "ethan_nguyen", Password: "password123",
		Email: "ethan.nguyen@example.com", FullName: "Ethan Nguyen",
		Profile: models.CaretakerProfile{
			Bio:             "Psychiatric nurse with dementia care expertise. Specializes in managing challenging behaviors and sundowning symptoms with non-pharmaceutical approaches.",
			PricePerDay:     200, YearsExperience: 12,
			Location:        "San Diego, CA",
			ServiceAreas:    []string{"San Diego", "La Jolla", "Chula Vista"},
			Gender:          "male", Age: 39,
			Specializations: []string{"Behavioral intervention", "Anxiety management", "Sleep improvement"},
			IsCertified:     true, IsBackgroundChecked: true, IsAvailable: true,
			ImageURL:        "https://randomuser.me/api/portraits/men/85.jpg",
		},
	},
	{
		Username: "ava_martinez", Password: "password123",
		Email: "ava.martinez@example.com", FullName: "Ava Martinez",
		Profile: models.CaretakerProfile{
			Bio:             "Bilingual speech therapist with dementia care training. Helps patients maintain communication abilities and swallowing function as long as possible.",
			PricePerDay:     175, YearsExperience: 7,
			Location:        "Phoenix, AZ",
			ServiceAreas:    []string{"Phoenix", "Scottsdale", "Tempe"},
			Gender:          "female", Age: 33,
			Specializations: []string{"Speech therapy", "Swallowing assistance", "Communication aids"},
			IsCertified:     true, IsBackgroundChecked: true, IsAvailable: true,
			ImageURL:        "https://randomuser.me/api/portraits/women/74.jpg",
		},
	},
	{
		Username: "noah_williams", Password: "password123",
		Email: "noah.williams@example.com", FullName: "Noah Williams",
		Profile: models.CaretakerProfile{
			Bio:             "Former senior living director with extensive dementia care experience. Expert in creating safe environments and establishing predictable routines.",
			PricePerDay:     215, YearsExperience: 18,
			Location:        "Atlanta, GA",
			ServiceAreas:    []string{"Atlanta", "Decatur", "Marietta"},
			Gender:          "male", Age: 48,
			Specializations: []string{"Environmental safety", "Routine development", "Wandering prevention"},
			IsCertified:     true, IsBackgroundChecked: true, IsAvailable: true,
			ImageURL:        "https://randomuser.me/api/portraits/men/92.jpg",
		},
	},
	{
		Username: "zoe_clarke", Password: "password123",
		Email: "zoe.clarke@example.com", FullName: "Zoe Clarke",
		Profile: models.CaretakerProfile{
			Bio:             "Recreation therapist with dementia care certification. Specializes in meaningful activities that maintain skills and provide purpose to those with cognitive decline.",
			PricePerDay:     155, YearsExperience: 6,
			Location:        "New Orleans, LA",
			ServiceAreas:    []string{"New Orleans", "Metairie", "Kenner"},
			Gender:          "female", Age: 31,
			Specializations: []string{"Activity planning", "Cognitive stimulation", "Social engagement"},
			IsCertified:     true, IsBackgroundChecked: true, IsAvailable: true,
			ImageURL:        "https://randomuser.me/api/portraits/women/89.jpg",
		},
	},
	{
		Username: "lucas_kim", Password: "password123",
		Email: "lucas.kim@example.com", FullName: "Lucas Kim",
		Profile: models.CaretakerProfile{
			Bio:             "Occupational therapist with dementia care specialization. Helps patients maintain independence in daily activities through adaptive techniques and equipment.",
			PricePerDay:     180, YearsExperience: 9,
			Location:        "Salt Lake City, UT",
			ServiceAreas:    []string{"Salt Lake City", "West Valley City", "Provo"},
			Gender:          "male", Age: 35,
			Specializations: []string{"ADL assistance", "Home modification", "Adaptive equipment"},
			IsCertified:     true, IsBackgroundChecked: true, IsAvailable: true,
			ImageURL:        "https://randomuser.me/api/portraits/men/34.jpg",
		},
	},
	{
		Username: "mia_johnson", Password: "password123",
		Email: "mia.johnson@example.com", FullName: "Mia Johnson",
		Profile: models.CaretakerProfile{
			Bio:             "Psychology graduate with specialized training in dementia care. Focuses on emotional well-being and depression prevention in dementia patients.",
			PricePerDay:     150, YearsExperience: 4,
			Location:        "Charlotte, NC",
			ServiceAreas:    []string{"Charlotte", "Concord", "Gastonia"},
			Gender:          "female", Age: 29,
			Specializations: []string{"Emotional support", "Depression prevention", "Social interaction"},
			IsCertified:     true, IsBackgroundChecked: true, IsAvailable: true,
			ImageURL:        "https://randomuser.me/api/portraits/women/12.jpg",
		},
	},
	{
		Username: "henry_davis", Password: "password123",
		Email: "henry.davis@example.com", FullName: "Henry Davis",
		Profile: models.CaretakerProfile{
			Bio:             "Retired nurse with 25 years of geriatric experience. Specializes in complex cases combining dementia with other chronic health conditions.",
			PricePerDay:     230, YearsExperience: 25,
			Location:        "Detroit, MI",
			ServiceAreas:    []string{"Detroit", "Dearborn", "Ann Arbor"},
			Gender:          "male", Age: 52,
			Specializations: []string{"Complex care coordination", "Multi-condition management", "Hospital-to-home transition"},
			IsCertified:     true, IsBackgroundChecked: true, IsAvailable: true,
			ImageURL:        "https://randomuser.me/api/portraits/men/18.jpg",
		},
	},
	{
		Username: "lily_wilson", Password: "password123",
		Email: "lily.wilson@example.com", FullName: "Lily Wilson",
		Profile: models.CaretakerProfile{
			Bio:             "Hospice nurse with specialized dementia training. Provides compassionate end-of-life care for dementia patients with a focus on comfort and dignity.",
			PricePerDay:     200, YearsExperience: 11,
			Location:        "Las Vegas, NV",
			ServiceAreas:    []string{"Las Vegas", "Henderson", "North Las Vegas"},
			Gender:          "female", Age: 38,
			Specializations: []string{"End-of-life care", "Pain management", "Family support"},
			IsCertified:     true, IsBackgroundChecked: true, IsAvailable: true,
			ImageURL:        "https://randomuser.me/api/portraits/women/9.jpg",
		},
	},
	{
		Username: "alexander_robinson", Password: "password123",
		Email: "alexander.robinson@example.com", FullName: "Alexander Robinson",
		Profile: models.CaretakerProfile{
			Bio:             "Former chef with dementia care certification. Specializes in nutrition and meal preparation that addresses the unique dietary needs and challenges of dementia patients.",
			PricePerDay:     170, YearsExperience: 7,
			Location:        "Pittsburgh, PA",
			ServiceAreas:    []string{"Pittsburgh", "Monroeville", "Mt. Lebanon"},
			Gender:          "male", Age: 40,
			Specializations: []string{"Meal preparation", "Nutrition planning", "Sensory stimulation through food"},
			IsCertified:     true, IsBackgroundChecked: true, IsAvailable: true,
			ImageURL:        "https://randomuser.me/api/portraits/men/21.jpg",
		},
	},
}
