package httpserver

import (
	"net/http"
	"strings"

	accountsapp "github.com/bryanwahyu/healthcare-collab/internal/application/accounts"
	"github.com/bryanwahyu/healthcare-collab/internal/middleware"
)

// POST /api/auth/register
func (r *Router) handleRegister(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		Email             string   `json:"email"`
		Password          string   `json:"password"`
		Role              string   `json:"role"`
		FirstName         string   `json:"first_name"`
		LastName          string   `json:"last_name"`
		DateOfBirth       string   `json:"date_of_birth"`
		Gender            string   `json:"gender"`
		BloodType         string   `json:"blood_type"`
		HeightCm          *float64 `json:"height_cm"`
		WeightKg          *float64 `json:"weight_kg"`
		LicenseNumber     string   `json:"license_number"`
		Specialization    string   `json:"specialization"`
		YearsOfExperience int      `json:"years_of_experience"`
	}
	if err := decode(req, &body); err != nil {
		return err
	}
	if strings.TrimSpace(body.Email) != "" {
		if err := middleware.ValidateEmail(body.Email); err != nil {
			return err
		}
	}
	if body.Password != "" {
		if err := middleware.ValidatePassword(body.Password); err != nil {
			return err
		}
	}

	res, err := r.accounts.Register(req.Context(), accountsapp.RegisterCommand{
		Email:             body.Email,
		Password:          body.Password,
		Role:              body.Role,
		FirstName:         middleware.SanitizeString(body.FirstName),
		LastName:          middleware.SanitizeString(body.LastName),
		DateOfBirth:       body.DateOfBirth,
		Gender:            middleware.SanitizeString(body.Gender),
		BloodType:         middleware.SanitizeString(body.BloodType),
		HeightCm:          body.HeightCm,
		WeightKg:          body.WeightKg,
		LicenseNumber:     middleware.SanitizeString(body.LicenseNumber),
		Specialization:    middleware.SanitizeString(body.Specialization),
		YearsOfExperience: body.YearsOfExperience,
	})
	if err != nil {
		return err
	}
	r.writeJSON(w, http.StatusCreated, map[string]any{
		"message":      "User registered successfully",
		"user":         res.User,
		"access_token": res.AccessToken,
	})
	return nil
}

// POST /api/auth/login
func (r *Router) handleLogin(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decode(req, &body); err != nil {
		return err
	}
	res, err := r.accounts.Login(req.Context(), body.Email, body.Password)
	if err != nil {
		return err
	}
	r.writeJSON(w, http.StatusOK, map[string]any{
		"message":      "Login successful",
		"user":         res.User,
		"access_token": res.AccessToken,
	})
	return nil
}

// GET /api/auth/me
func (r *Router) handleMe(w http.ResponseWriter, req *http.Request) error {
	id, err := caller(req)
	if err != nil {
		return err
	}
	u, err := r.accounts.Me(req.Context(), id)
	if err != nil {
		return err
	}
	r.writeJSON(w, http.StatusOK, u)
	return nil
}

// GET /api/patients
func (r *Router) handlePatients(w http.ResponseWriter, req *http.Request) error {
	id, err := caller(req)
	if err != nil {
		return err
	}
	list, err := r.accounts.ListPatients(req.Context(), id)
	if err != nil {
		return err
	}
	r.writeJSON(w, http.StatusOK, map[string]any{"patients": list})
	return nil
}
