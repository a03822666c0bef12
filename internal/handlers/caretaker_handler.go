package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"careconnect/internal/models"
	"careconnect/internal/repository"
	"careconnect/internal/service"
)

// CaretakerHandler handles caretaker search, recommendations, and profiles
type CaretakerHandler struct {
	caretakerRepo    *repository.CaretakerRepository
	userRepo         *repository.UserRepository
	notificationRepo *repository.NotificationRepository
	emailService     *service.EmailService
}

// NewCaretakerHandler creates a new caretaker handler
func NewCaretakerHandler(caretakerRepo *repository.CaretakerRepository, userRepo *repository.UserRepository, notificationRepo *repository.NotificationRepository, emailService *service.EmailService) *CaretakerHandler {
	return &CaretakerHandler{
		caretakerRepo:    caretakerRepo,
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
		emailService:     emailService,
	}
}

// Search handles GET /api/caretakers. All filter query parameters are
// optional; sort selects the result ordering.
func (h *CaretakerHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	prefs := service.Preferences{
		Location:            q.Get("location"),
		ServiceArea:         q.Get("serviceArea"),
		Specialization:      q.Get("specialization"),
		MinPrice:            queryFloat(q.Get("minPrice")),
		MaxPrice:            queryFloat(q.Get("maxPrice")),
		Gender:              q.Get("gender"),
		MinAge:              queryInt(q.Get("minAge")),
		MaxAge:              queryInt(q.Get("maxAge")),
		IsCertified:         queryBool(q.Get("certified")),
		IsBackgroundChecked: queryBool(q.Get("backgroundChecked")),
		IsAvailable:         queryBool(q.Get("available")),
	}

	// The SQL layer handles what it can; the rest filters in memory
	results, err := h.caretakerRepo.Search(repository.CaretakerSearchFilters{
		Location:            prefs.Location,
		MinPrice:            prefs.MinPrice,
		MaxPrice:            prefs.MaxPrice,
		Specialization:      prefs.Specialization,
		IsCertified:         queryBoolPtr(q.Get("certified")),
		IsBackgroundChecked: queryBoolPtr(q.Get("backgroundChecked")),
		IsAvailable:         queryBoolPtr(q.Get("available")),
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to search caretakers", "caretaker search failed", err)
		return
	}

	results = service.FilterCaretakers(results, prefs)
	service.SortCaretakers(results, q.Get("sort"))

	if results == nil {
		results = []*models.CaretakerProfile{}
	}
	respondJSON(w, http.StatusOK, results)
}

type recommendationsRequest struct {
	service.Preferences
	Count int `json:"count,omitempty"`
}

// Recommendations handles POST /api/caretakers/recommendations, returning
// the best matches for the submitted preferences with scores attached
func (h *CaretakerHandler) Recommendations(w http.ResponseWriter, r *http.Request) {
	var req recommendationsRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error(), "", nil)
		return
	}

	candidates, err := h.caretakerRepo.Search(repository.CaretakerSearchFilters{})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load caretakers", "caretaker load failed", err)
		return
	}

	recommendations := service.TopRecommendations(candidates, req.Preferences, req.Count)
	if recommendations == nil {
		recommendations = []service.ScoredCaretaker{}
	}
	respondJSON(w, http.StatusOK, recommendations)
}

// Get handles GET /api/caretakers/{id}, where id is the caretaker's user ID
func (h *CaretakerHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid caretaker id", "", nil)
		return
	}

	profile, err := h.caretakerRepo.GetByUserID(userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load caretaker", "caretaker load failed", err)
		return
	}
	if profile == nil {
		respondError(w, http.StatusNotFound, "Caretaker not found", "", nil)
		return
	}

	if user, err := h.userRepo.GetUserByID(userID); err == nil && user != nil {
		profile.User = user
	}

	respondJSON(w, http.StatusOK, profile)
}

type contactRequest struct {
	Message string `json:"message"`
}

// Contact handles POST /api/caretakers/{id}/contact, forwarding a message
// from the authenticated user to the caretaker by email and notification
func (h *CaretakerHandler) Contact(w http.ResponseWriter, r *http.Request) {
	sender := GetUserFromContext(r.Context())

	caretakerID, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid caretaker id", "", nil)
		return
	}

	var req contactRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error(), "", nil)
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		respondError(w, http.StatusBadRequest, "Message is required", "", nil)
		return
	}

	caretaker, err := h.userRepo.GetUserByID(caretakerID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load caretaker", "caretaker load failed", err)
		return
	}
	if caretaker == nil || !caretaker.IsCaretaker() {
		respondError(w, http.StatusNotFound, "Caretaker not found", "", nil)
		return
	}

	if err := h.emailService.SendContactMessage(r.Context(), caretaker.Email, caretaker.FullName, sender.FullName, req.Message); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to send message", "contact email failed", err)
		return
	}

	refID := sender.ID
	if _, err := h.notificationRepo.Create(&models.Notification{
		UserID:      caretaker.ID,
		Type:        models.NotificationSystem,
		Title:       "New Message",
		Message:     sender.FullName + " sent you a message",
		ReferenceID: &refID,
	}); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to deliver message", "contact notification failed", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Message sent"})
}

// GetProfile handles GET /api/caretakers/profile for the signed-in caretaker
func (h *CaretakerHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	profile, err := h.caretakerRepo.GetByUserID(user.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load profile", "profile load failed", err)
		return
	}
	if profile == nil {
		respondError(w, http.StatusNotFound, "Profile not found", "", nil)
		return
	}
	respondJSON(w, http.StatusOK, profile)
}

// CreateProfile handles POST /api/caretakers/profile
func (h *CaretakerHandler) CreateProfile(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	existing, err := h.caretakerRepo.GetByUserID(user.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to check profile", "profile check failed", err)
		return
	}
	if existing != nil {
		respondError(w, http.StatusConflict, "Profile already exists", "", nil)
		return
	}

	var profile models.CaretakerProfile
	if err := decodeJSON(r, &profile); err != nil {
		respondError(w, http.StatusBadRequest, err.Error(), "", nil)
		return
	}
	profile.UserID = user.ID

	created, err := h.caretakerRepo.Create(&profile)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create profile", "profile create failed", err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

// UpdateProfile handles PUT /api/caretakers/profile
func (h *CaretakerHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	existing, err := h.caretakerRepo.GetByUserID(user.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load profile", "profile load failed", err)
		return
	}
	if existing == nil {
		respondError(w, http.StatusNotFound, "Profile not found", "", nil)
		return
	}

	var profile models.CaretakerProfile
	if err := decodeJSON(r, &profile); err != nil {
		respondError(w, http.StatusBadRequest, err.Error(), "", nil)
		return
	}

	updated, err := h.caretakerRepo.Update(user.ID, &profile)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to update profile", "profile update failed", err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

func queryFloat(s string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func queryInt(s string) int {
	if s == "" {
		return 0
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return v
}

func queryBool(s string) bool {
	v, err := strconv.ParseBool(s)
	return err == nil && v
}

func queryBoolPtr(s string) *bool {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return nil
	}
	return &v
}
