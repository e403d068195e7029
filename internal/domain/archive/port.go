package archive

import "context"

// Store keeps an immutable JSON copy of analyses and decisions.
// PutJSON returns the object location.
type Store interface {
	PutJSON(ctx context.Context, key string, v any) (string, error)
}

// Keys used for archived objects.
func AnalysisKey(patientID, id string) string {
	return "analyses/" + patientID + "/" + id + ".json"
}

func DecisionKey(patientID, id string) string {
	return "decisions/" + patientID + "/" + id + ".json"
}
