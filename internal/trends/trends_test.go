package trends

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/consultation-aggregator/internal/models"
)

func sessionWithReport(id string, createdOn time.Time, specialist string, report *models.SessionReport) *models.ConsultationSession {
	return &models.ConsultationSession{
		SessionID:      id,
		CreatedOn:      createdOn,
		SelectedDoctor: &models.DoctorAgent{Specialist: specialist},
		Report:         report,
	}
}

func TestBuild(t *testing.T) {
	day1 := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2025, 2, 5, 0, 0, 0, 0, time.UTC)

	sessions := []*models.ConsultationSession{
		// новые первыми, как отдаёт хранилище
		sessionWithReport("s2", day2, "Cardiologist", &models.SessionReport{
			ChiefComplaint:       "chest discomfort",
			Severity:             "moderate",
			RiskLevel:            "high",
			Symptoms:             []string{"chest pain", "fatigue"},
			MedicationsMentioned: []string{"aspirin"},
		}),
		{SessionID: "no-report", CreatedOn: day1},
		sessionWithReport("s1", day1, "General Physician", &models.SessionReport{
			ChiefComplaint:       "persistent cough",
			Severity:             "mild",
			RiskLevel:            "low",
			Symptoms:             []string{"cough", "fatigue"},
			MedicationsMentioned: []string{"aspirin", "paracetamol"},
		}),
	}

	summary := Build(sessions)

	assert.Equal(t, 2, summary.TotalConsultations)
	require.Len(t, summary.Trends, 2)
	// сессии без отчёта не попадают в сводку, точки упорядочены по дате
	assert.Equal(t, "s1", summary.Trends[0].SessionID)
	assert.Equal(t, "s2", summary.Trends[1].SessionID)

	require.NotEmpty(t, summary.SymptomFrequency)
	assert.Equal(t, Frequency{Name: "fatigue", Count: 2}, summary.SymptomFrequency[0])

	require.Len(t, summary.RiskTrend, 2)
	assert.Equal(t, "low", summary.RiskTrend[0].Level)
	assert.Equal(t, "high", summary.RiskTrend[1].Level)

	require.NotEmpty(t, summary.CommonMedications)
	assert.Equal(t, Frequency{Name: "aspirin", Count: 2}, summary.CommonMedications[0])

	assert.Len(t, summary.SpecialistVisits, 2)
}

func TestBuild_EmptyAndMissingFields(t *testing.T) {
	summary := Build(nil)
	assert.Equal(t, 0, summary.TotalConsultations)
	assert.Empty(t, summary.Trends)

	day := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	sessions := []*models.ConsultationSession{
		{
			SessionID: "bare",
			CreatedOn: day,
			Notes:     "headache since monday",
			Report:    &models.SessionReport{},
		},
	}

	summary = Build(sessions)
	require.Len(t, summary.Trends, 1)
	assert.Equal(t, "Unknown", summary.Trends[0].Specialist)
	// при пустом chiefComplaint подставляются заметки сессии
	assert.Equal(t, "headache since monday", summary.Trends[0].ChiefComplaint)
	assert.Equal(t, "unknown", summary.RiskTrend[0].Level)
	assert.Equal(t, "unknown", summary.SeverityTrend[0].Level)
}
