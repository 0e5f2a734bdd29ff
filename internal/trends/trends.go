// Package trends агрегирует отчёты консультаций пользователя в сводку
// динамики здоровья: частота симптомов и препаратов, динамика риска
// и тяжести, визиты по специальностям.
package trends

import (
	"sort"
	"time"

	"github.com/magabrotheeeer/consultation-aggregator/internal/models"
)

// Point данные одной консультации с отчётом.
type Point struct {
	SessionID      string    `json:"sessionId"`
	Date           time.Time `json:"date"`
	Specialist     string    `json:"specialist"`
	ChiefComplaint string    `json:"chiefComplaint"`
	Severity       string    `json:"severity"`
	RiskLevel      string    `json:"riskLevel"`
	Symptoms       []string  `json:"symptoms"`
	Medications    []string  `json:"medications"`
}

// Frequency счётчик встречаемости значения.
type Frequency struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// LevelPoint уровень (риска или тяжести) на дату консультации.
type LevelPoint struct {
	Date  time.Time `json:"date"`
	Level string    `json:"level"`
}

// Summary сводка динамики здоровья по всем консультациям с отчётами.
type Summary struct {
	TotalConsultations int          `json:"totalConsultations"`
	Trends             []Point      `json:"trends"`
	SymptomFrequency   []Frequency  `json:"symptomFrequency"`
	RiskTrend          []LevelPoint `json:"riskTrend"`
	SeverityTrend      []LevelPoint `json:"severityTrend"`
	CommonMedications  []Frequency  `json:"commonMedications"`
	SpecialistVisits   []Frequency  `json:"specialistVisits"`
}

// Build строит сводку по сессиям пользователя. Сессии без отчёта
// пропускаются; точки упорядочены по дате консультации.
func Build(sessions []*models.ConsultationSession) *Summary {
	var points []Point
	for _, session := range sessions {
		if session.Report == nil {
			continue
		}
		specialist := "Unknown"
		if session.SelectedDoctor != nil {
			specialist = session.SelectedDoctor.Specialist
		}
		complaint := session.Report.ChiefComplaint
		if complaint == "" {
			complaint = session.Notes
		}
		points = append(points, Point{
			SessionID:      session.SessionID,
			Date:           session.CreatedOn,
			Specialist:     specialist,
			ChiefComplaint: complaint,
			Severity:       session.Report.Severity,
			RiskLevel:      session.Report.RiskLevel,
			Symptoms:       session.Report.Symptoms,
			Medications:    session.Report.MedicationsMentioned,
		})
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].Date.Before(points[j].Date)
	})

	return &Summary{
		TotalConsultations: len(points),
		Trends:             points,
		SymptomFrequency:   countFrequency(points, func(p Point) []string { return p.Symptoms }),
		RiskTrend:          levelTrend(points, func(p Point) string { return p.RiskLevel }),
		SeverityTrend:      levelTrend(points, func(p Point) string { return p.Severity }),
		CommonMedications:  countFrequency(points, func(p Point) []string { return p.Medications }),
		SpecialistVisits: countFrequency(points, func(p Point) []string {
			return []string{p.Specialist}
		}),
	}
}

// countFrequency считает встречаемость значений и возвращает не более
// десяти самых частых, по убыванию счётчика.
func countFrequency(points []Point, extract func(Point) []string) []Frequency {
	frequency := make(map[string]int)
	for _, p := range points {
		for _, value := range extract(p) {
			if value == "" {
				continue
			}
			frequency[value]++
		}
	}

	result := make([]Frequency, 0, len(frequency))
	for name, count := range frequency {
		result = append(result, Frequency{Name: name, Count: count})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Name < result[j].Name
	})
	if len(result) > 10 {
		result = result[:10]
	}
	return result
}

func levelTrend(points []Point, extract func(Point) string) []LevelPoint {
	result := make([]LevelPoint, 0, len(points))
	for _, p := range points {
		level := extract(p)
		if level == "" {
			level = "unknown"
		}
		result = append(result, LevelPoint{Date: p.Date, Level: level})
	}
	return result
}
