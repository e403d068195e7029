package analysis

// PatientSnapshot is the demographic context embedded in the analysis prompt.
type PatientSnapshot struct {
	Name              string   `json:"name"`
	Age               int      `json:"age"`
	Gender            string   `json:"gender"`
	ChronicConditions []string `json:"chronic_conditions"`
	Medications       []string `json:"medications"`
}

// VitalReading is one day of wearable data.
type VitalReading struct {
	Date       string   `json:"date"`
	HeartRate  *float64 `json:"heart_rate"`
	SpO2       *float64 `json:"spo2"`
	SleepScore *float64 `json:"sleep_score"`
}

// HealthLogEntry is one patient-reported log.
type HealthLogEntry struct {
	Date          string   `json:"date"`
	BloodPressure string   `json:"blood_pressure"`
	Glucose       *float64 `json:"glucose"`
	Notes         string   `json:"notes"`
}

// Prompt window sizes.
const (
	MaxVitals = 7
	MaxLogs   = 5
)

// LastVitals returns at most the n most recent readings, oldest first.
func LastVitals(v []VitalReading, n int) []VitalReading {
	if len(v) <= n {
		return v
	}
	return v[len(v)-n:]
}

// LastLogs returns at most the n most recent entries, oldest first.
func LastLogs(l []HealthLogEntry, n int) []HealthLogEntry {
	if len(l) <= n {
		return l
	}
	return l[len(l)-n:]
}
