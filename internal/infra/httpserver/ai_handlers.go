package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bryanwahyu/healthcare-collab/internal/application/analyses"
	"github.com/bryanwahyu/healthcare-collab/internal/domain"
	"github.com/bryanwahyu/healthcare-collab/internal/domain/ai"
	"github.com/bryanwahyu/healthcare-collab/internal/domain/analysis"
	"github.com/bryanwahyu/healthcare-collab/internal/middleware"
)

// POST /api/ai/analyze/{patient_id}
// Body (optional): {"chronic_conditions": [], "medications": [], "vitals": [], "health_logs": []}
func (r *Router) handleAnalyze(w http.ResponseWriter, req *http.Request) error {
	id, err := caller(req)
	if err != nil {
		return err
	}
	patientID, err := middleware.ParseUUID("patient_id", chi.URLParam(req, "patient_id"))
	if err != nil {
		return err
	}
	var body struct {
		ChronicConditions []string                  `json:"chronic_conditions"`
		Medications       []string                  `json:"medications"`
		Vitals            []analysis.VitalReading   `json:"vitals"`
		HealthLogs        []analysis.HealthLogEntry `json:"health_logs"`
	}
	if err := decode(req, &body); err != nil {
		return err
	}

	res, err := r.analyses.Request(req.Context(), id, analyses.RequestCommand{
		PatientID:         patientID,
		ChronicConditions: body.ChronicConditions,
		Medications:       body.Medications,
		Vitals:            body.Vitals,
		HealthLogs:        body.HealthLogs,
	})
	if err != nil {
		return err
	}
	r.writeJSON(w, http.StatusCreated, map[string]any{
		"message":     "Analysis generated successfully",
		"analysis":    res.Report,
		"analysis_id": res.Record.ID,
		"outcome":     res.Outcome,
	})
	return nil
}

// GET /api/ai/analyses/patient/{patient_id}?page=&page_size=
func (r *Router) handleAnalysesByPatient(w http.ResponseWriter, req *http.Request) error {
	id, err := caller(req)
	if err != nil {
		return err
	}
	patientID, err := middleware.ParseUUID("patient_id", chi.URLParam(req, "patient_id"))
	if err != nil {
		return err
	}
	q := req.URL.Query()
	page := middleware.ValidatePage(middleware.QueryInt(q.Get("page"), 1))
	size := middleware.ValidateLimit(middleware.QueryInt(q.Get("page_size"), 0))

	list, err := r.analyses.ListByPatient(req.Context(), id, patientID, page, size)
	if err != nil {
		return err
	}
	r.writeJSON(w, http.StatusOK, list)
	return nil
}

// GET /api/ai/analyses/{id}
func (r *Router) handleAnalysis(w http.ResponseWriter, req *http.Request) error {
	id, err := caller(req)
	if err != nil {
		return err
	}
	analysisID, err := middleware.ParseUUID("id", chi.URLParam(req, "id"))
	if err != nil {
		return err
	}
	rec, err := r.analyses.Get(req.Context(), id, analysisID)
	if err != nil {
		return err
	}
	r.writeJSON(w, http.StatusOK, rec)
	return nil
}

// POST /api/ai/proposal
// Body: {"patient_context": {...}, "ai_analysis": {...}}
func (r *Router) handleProposal(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		PatientContext any `json:"patient_context"`
		AIAnalysis     any `json:"ai_analysis"`
	}
	if err := decode(req, &body); err != nil {
		return err
	}
	if body.PatientContext == nil {
		body.PatientContext = map[string]any{}
	}
	if body.AIAnalysis == nil {
		body.AIAnalysis = map[string]any{}
	}

	proposal, outcome := r.ai.ProposeTreatment(req.Context(), body.PatientContext, body.AIAnalysis)
	r.writeJSON(w, http.StatusOK, map[string]any{
		"message":  "Treatment proposal generated",
		"proposal": proposal,
		"outcome":  outcome,
	})
	return nil
}

// POST /api/ai/chat
// Body: {"conversation_history": [{"speaker": "ai|doctor", "content": "..."}], "message": "..."}
func (r *Router) handleChat(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		History []ai.ChatTurn `json:"conversation_history"`
		Message string        `json:"message"`
	}
	if err := decode(req, &body); err != nil {
		return err
	}
	msg := middleware.SanitizeString(body.Message)
	if msg == "" {
		return &domain.ValidationError{Field: "message", Message: "Message is required"}
	}

	reply, outcome := r.ai.Chat(req.Context(), body.History, msg)
	r.writeJSON(w, http.StatusOK, map[string]any{
		"message":     "AI response generated",
		"ai_response": reply,
		"outcome":     outcome,
	})
	return nil
}

// GET /api/ai/failures?limit=
func (r *Router) handleFailures(w http.ResponseWriter, req *http.Request) error {
	id, err := caller(req)
	if err != nil {
		return err
	}
	limit := middleware.QueryInt(req.URL.Query().Get("limit"), 0)
	list, err := r.ai.RecentFailures(req.Context(), id, limit)
	if err != nil {
		return err
	}
	r.writeJSON(w, http.StatusOK, map[string]any{"failures": list})
	return nil
}
