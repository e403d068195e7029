package httpserver

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	decisionsapp "github.com/bryanwahyu/healthcare-collab/internal/application/decisions"
	"github.com/bryanwahyu/healthcare-collab/internal/domain"
	"github.com/bryanwahyu/healthcare-collab/internal/domain/decisions"
	"github.com/bryanwahyu/healthcare-collab/internal/middleware"
)

// POST /api/decisions/create
func (r *Router) handleCreateDecision(w http.ResponseWriter, req *http.Request) error {
	id, err := caller(req)
	if err != nil {
		return err
	}
	var body struct {
		DiscussionID             string                       `json:"discussion_id"`
		PatientID                string                       `json:"patient_id"`
		TreatmentPlan            map[string]any               `json:"treatment_plan"`
		Medications              []decisions.Medication       `json:"medications"`
		LifestyleRecommendations []string                     `json:"lifestyle_recommendations"`
		FollowUpDate             *string                      `json:"follow_up_date"`
		AIContributions          []decisions.ContributionItem `json:"ai_contributions"`
		DoctorContributions      []decisions.ContributionItem `json:"doctor_contributions"`
		Confidence               *float64                     `json:"confidence"`
	}
	if err := decode(req, &body); err != nil {
		return err
	}

	var followUp *decisions.Date
	if body.FollowUpDate != nil && strings.TrimSpace(*body.FollowUpDate) != "" {
		d, err := decisions.ParseDate(*body.FollowUpDate)
		if err != nil {
			return domain.Invalid("follow_up_date", "must be YYYY-MM-DD")
		}
		followUp = &d
	}

	res, err := r.decisions.Create(req.Context(), id, decisionsapp.CreateCommand{
		DiscussionID:             middleware.SanitizeString(body.DiscussionID),
		PatientID:                body.PatientID,
		TreatmentPlan:            body.TreatmentPlan,
		Medications:              body.Medications,
		LifestyleRecommendations: body.LifestyleRecommendations,
		FollowUpDate:             followUp,
		AIContributions:          body.AIContributions,
		DoctorContributions:      body.DoctorContributions,
		Confidence:               body.Confidence,
	})
	if err != nil {
		return err
	}
	r.writeJSON(w, http.StatusCreated, map[string]any{
		"message":       "Decision saved successfully",
		"decision":      res.Decision,
		"contributions": res.Contributions,
	})
	return nil
}

// GET /api/decisions/{id}
func (r *Router) handleDecision(w http.ResponseWriter, req *http.Request) error {
	id, err := caller(req)
	if err != nil {
		return err
	}
	decisionID, err := middleware.ParseUUID("id", chi.URLParam(req, "id"))
	if err != nil {
		return err
	}
	d, err := r.decisions.Get(req.Context(), id, decisionID)
	if err != nil {
		return err
	}
	r.writeJSON(w, http.StatusOK, d)
	return nil
}

// GET /api/decisions/patient/{patient_id}
func (r *Router) handleDecisionsByPatient(w http.ResponseWriter, req *http.Request) error {
	id, err := caller(req)
	if err != nil {
		return err
	}
	patientID, err := middleware.ParseUUID("patient_id", chi.URLParam(req, "patient_id"))
	if err != nil {
		return err
	}
	list, err := r.decisions.ListByPatient(req.Context(), id, patientID)
	if err != nil {
		return err
	}
	r.writeJSON(w, http.StatusOK, map[string]any{"decisions": list})
	return nil
}
