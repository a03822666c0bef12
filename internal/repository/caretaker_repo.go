package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"careconnect/internal/database"
	"careconnect/internal/models"
)

// CaretakerRepository handles database operations for caretaker profiles
type CaretakerRepository struct {
	db *database.DB
}

// NewCaretakerRepository creates a new caretaker repository
func NewCaretakerRepository(db *database.DB) *CaretakerRepository {
	return &CaretakerRepository{db: db}
}

// CaretakerSearchFilters are the hard criteria applied in the search
// query. Zero-value strings and prices mean "no constraint"; nil bool
// pointers mean "no constraint".
type CaretakerSearchFilters struct {
	Location            string
	MinPrice            float64
	MaxPrice            float64
	Specialization      string
	IsCertified         *bool
	IsBackgroundChecked *bool
	IsAvailable         *bool
}

const profileColumns = `p.id, p.user_id, p.bio, p.price_per_day, p.years_experience, p.location,
	p.service_areas, p.gender, p.age, p.specializations, p.is_certified,
	p.is_background_checked, p.is_available, p.provides_live_location,
	p.rating, p.review_count, COALESCE(p.image_url, '')`

func scanProfile(scan func(dest ...interface{}) error) (*models.CaretakerProfile, error) {
	profile := &models.CaretakerProfile{}
	var serviceAreas, specializations string
	err := scan(
		&profile.ID,
		&profile.UserID,
		&profile.Bio,
		&profile.PricePerDay,
		&profile.YearsExperience,
		&profile.Location,
		&serviceAreas,
		&profile.Gender,
		&profile.Age,
		&specializations,
		&profile.IsCertified,
		&profile.IsBackgroundChecked,
		&profile.IsAvailable,
		&profile.ProvidesLiveLocation,
		&profile.Rating,
		&profile.ReviewCount,
		&profile.ImageURL,
	)
	if err != nil {
		return nil, err
	}

	profile.ServiceAreas = decodeStringList(serviceAreas)
	profile.Specializations = decodeStringList(specializations)
	return profile, nil
}

// Create inserts a new caretaker profile. Rating and review count start at
// zero; they are only changed by the review pipeline.
func (r *CaretakerRepository) Create(profile *models.CaretakerProfile) (*models.CaretakerProfile, error) {
	query := `
		INSERT INTO caretaker_profiles
			(user_id, bio, price_per_day, years_experience, location, service_areas,
			 gender, age, specializations, is_certified, is_background_checked,
			 is_available, provides_live_location, rating, review_count, image_url)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0, 0, ?)
	`
	id, err := r.db.ExecReturningID(query,
		profile.UserID,
		profile.Bio,
		profile.PricePerDay,
		profile.YearsExperience,
		profile.Location,
		encodeStringList(profile.ServiceAreas),
		profile.Gender,
		profile.Age,
		encodeStringList(profile.Specializations),
		profile.IsCertified,
		profile.IsBackgroundChecked,
		profile.IsAvailable,
		profile.ProvidesLiveLocation,
		profile.ImageURL,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create caretaker profile: %w", err)
	}

	created := *profile
	created.ID = id
	created.Rating = 0
	created.ReviewCount = 0
	return &created, nil
}

// GetByUserID retrieves a caretaker profile by the owning user's ID
func (r *CaretakerRepository) GetByUserID(userID int64) (*models.CaretakerProfile, error) {
	query := "SELECT " + profileColumns + " FROM caretaker_profiles p WHERE p.user_id = ?"
	row := r.db.QueryRow(query, userID)
	profile, err := scanProfile(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get caretaker profile: %w", err)
	}
	return profile, nil
}

// Update replaces the mutable fields of a caretaker profile. Rating and
// review count are deliberately left untouched.
func (r *CaretakerRepository) Update(userID int64, profile *models.CaretakerProfile) (*models.CaretakerProfile, error) {
	query := `
		UPDATE caretaker_profiles
		SET bio = ?, price_per_day = ?, years_experience = ?, location = ?,
			service_areas = ?, gender = ?, age = ?, specializations = ?,
			is_certified = ?, is_background_checked = ?, is_available = ?,
			provides_live_location = ?, image_url = ?
		WHERE user_id = ?
	`
	_, err := r.db.Exec(query,
		profile.Bio,
		profile.PricePerDay,
		profile.YearsExperience,
		profile.Location,
		encodeStringList(profile.ServiceAreas),
		profile.Gender,
		profile.Age,
		encodeStringList(profile.Specializations),
		profile.IsCertified,
		profile.IsBackgroundChecked,
		profile.IsAvailable,
		profile.ProvidesLiveLocation,
		profile.ImageURL,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update caretaker profile: %w", err)
	}

	return r.GetByUserID(userID)
}

// SetRating overwrites the review aggregate for a caretaker. Only the
// review pipeline and the seeder call this.
func (r *CaretakerRepository) SetRating(userID int64, rating float64, reviewCount int) error {
	query := "UPDATE caretaker_profiles SET rating = ?, review_count = ? WHERE user_id = ?"
	if _, err := r.db.Exec(query, rating, reviewCount, userID); err != nil {
		return fmt.Errorf("failed to set caretaker rating: %w", err)
	}
	return nil
}

// Search returns caretaker profiles joined with their user records,
// applying the SQL-expressible hard filters. The specialization filter
// runs in memory because the list is stored as a JSON text column.
func (r *CaretakerRepository) Search(filters CaretakerSearchFilters) ([]*models.CaretakerProfile, error) {
	var conditions []string
	var args []interface{}

	if filters.Location != "" {
		conditions = append(conditions, "LOWER(p.location) LIKE ?")
		args = append(args, "%"+strings.ToLower(filters.Location)+"%")
	}
	if filters.MinPrice > 0 {
		conditions = append(conditions, "p.price_per_day >= ?")
		args = append(args, filters.MinPrice)
	}
	if filters.MaxPrice > 0 {
		conditions = append(conditions, "p.price_per_day <= ?")
		args = append(args, filters.MaxPrice)
	}
	if filters.IsCertified != nil {
		conditions = append(conditions, "p.is_certified = ?")
		args = append(args, *filters.IsCertified)
	}
	if filters.IsBackgroundChecked != nil {
		conditions = append(conditions, "p.is_background_checked = ?")
		args = append(args, *filters.IsBackgroundChecked)
	}
	if filters.IsAvailable != nil {
		conditions = append(conditions, "p.is_available = ?")
		args = append(args, *filters.IsAvailable)
	}

	query := "SELECT " + profileColumns + `,
		u.id, u.username, u.email, u.full_name, COALESCE(u.phone, ''), u.role, u.created_at
		FROM caretaker_profiles p
		INNER JOIN users u ON u.id = p.user_id`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY p.id"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search caretakers: %w", err)
	}
	defer rows.Close()

	var results []*models.CaretakerProfile
	for rows.Next() {
		profile := &models.CaretakerProfile{}
		user := &models.User{}
		var serviceAreas, specializations string
		err := rows.Scan(
			&profile.ID,
			&profile.UserID,
			&profile.Bio,
			&profile.PricePerDay,
			&profile.YearsExperience,
			&profile.Location,
			&serviceAreas,
			&profile.Gender,
			&profile.Age,
			&specializations,
			&profile.IsCertified,
			&profile.IsBackgroundChecked,
			&profile.IsAvailable,
			&profile.ProvidesLiveLocation,
			&profile.Rating,
			&profile.ReviewCount,
			&profile.ImageURL,
			&user.ID,
			&user.Username,
			&user.Email,
			&user.FullName,
			&user.Phone,
			&user.Role,
			&user.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan caretaker row: %w", err)
		}
		profile.ServiceAreas = decodeStringList(serviceAreas)
		profile.Specializations = decodeStringList(specializations)
		profile.User = user
		results = append(results, profile)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read caretaker rows: %w", err)
	}

	if filters.Specialization != "" {
		needle := strings.ToLower(filters.Specialization)
		filtered := results[:0]
		for _, profile := range results {
			for _, spec := range profile.Specializations {
				if strings.Contains(strings.ToLower(spec), needle) {
					filtered = append(filtered, profile)
					break
				}
			}
		}
		results = filtered
	}

	return results, nil
}

// encodeStringList serializes a string slice as a JSON text column value
func encodeStringList(list []string) string {
	if list == nil {
		list = []string{}
	}
	data, err := json.Marshal(list)
	if err != nil {
		return "[]"
	}
	return string(data)
}

// decodeStringList parses a JSON text column into a string slice,
// tolerating empty or malformed values
func decodeStringList(data string) []string {
	if data == "" {
		return []string{}
	}
	var list []string
	if err := json.Unmarshal([]byte(data), &list); err != nil {
		return []string{}
	}
	return list
}
