package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/consultation-aggregator/internal/models"
)

const sessionColumns = `id, session_id, created_by, notes, selected_doctor,
			      conversation, report, uploaded_reports, created_on`

func scanSession(scan func(dest ...any) error) (*models.ConsultationSession, error) {
	s := &models.ConsultationSession{}
	var notes sql.NullString
	var selectedDoctor, conversation, report, uploadedReports []byte
	if err := scan(&s.ID, &s.SessionID, &s.CreatedBy, &notes, &selectedDoctor,
		&conversation, &report, &uploadedReports, &s.CreatedOn); err != nil {
		return nil, err
	}
	s.Notes = notes.String
	if len(selectedDoctor) > 0 {
		if err := json.Unmarshal(selectedDoctor, &s.SelectedDoctor); err != nil {
			return nil, err
		}
	}
	if len(conversation) > 0 {
		if err := json.Unmarshal(conversation, &s.Conversation); err != nil {
			return nil, err
		}
	}
	if len(report) > 0 {
		if err := json.Unmarshal(report, &s.Report); err != nil {
			return nil, err
		}
	}
	if len(uploadedReports) > 0 {
		if err := json.Unmarshal(uploadedReports, &s.UploadedReports); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// CreateSession сохраняет новую консультационную сессию и возвращает
// её запись с выданным ID.
func (s *Storage) CreateSession(ctx context.Context, sessionID, createdBy, notes string,
	selectedDoctor *models.DoctorAgent) (*models.ConsultationSession, error) {
	const op = "storage.CreateSession"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	doctorJSON, err := json.Marshal(selectedDoctor)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query := `INSERT INTO consultation_sessions (session_id, created_by, notes, selected_doctor)
			  VALUES ($1, $2, $3, $4)
			  RETURNING ` + sessionColumns
	session, err := scanSession(s.DB.QueryRowContext(ctx, query,
		sessionID, createdBy, notes, doctorJSON).Scan)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return session, nil
}

// GetSessionByID возвращает сессию по её session_id.
func (s *Storage) GetSessionByID(ctx context.Context, sessionID string) (*models.ConsultationSession, error) {
	const op = "storage.GetSessionByID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + sessionColumns + `
			  FROM consultation_sessions
			  WHERE session_id = $1`
	session, err := scanSession(s.DB.QueryRowContext(ctx, query, sessionID).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrSessionNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return session, nil
}

// ListSessionsByUser возвращает сессии пользователя, новые первыми.
func (s *Storage) ListSessionsByUser(ctx context.Context, email string) ([]*models.ConsultationSession, error) {
	const op = "storage.ListSessionsByUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + sessionColumns + `
			  FROM consultation_sessions
			  WHERE created_by = $1
			  ORDER BY id DESC`
	rows, err := s.DB.QueryContext(ctx, query, email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.ConsultationSession
	for rows.Next() {
		session, err := scanSession(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, session)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// AppendConversation дописывает реплики в конец переписки сессии.
// Конкатенация выполняется на стороне базы, порядок реплик сохраняется.
func (s *Storage) AppendConversation(ctx context.Context, sessionID string, turns []models.ConversationTurn) error {
	const op = "storage.AppendConversation"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	turnsJSON, err := json.Marshal(turns)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	query := `UPDATE consultation_sessions
			  SET conversation = COALESCE(conversation, '[]'::jsonb) || $2::jsonb
			  WHERE session_id = $1`
	res, err := s.DB.ExecContext(ctx, query, sessionID, turnsJSON)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, ErrSessionNotFound)
	}
	return nil
}

// SaveReport сохраняет итоговый отчёт сессии, перезаписывая предыдущий.
func (s *Storage) SaveReport(ctx context.Context, sessionID string, report *models.SessionReport) error {
	const op = "storage.SaveReport"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	reportJSON, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	query := `UPDATE consultation_sessions
			  SET report = $2::jsonb
			  WHERE session_id = $1`
	res, err := s.DB.ExecContext(ctx, query, sessionID, reportJSON)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, ErrSessionNotFound)
	}
	return nil
}

// AppendLabReport дописывает анализ лабораторного отчёта в конец списка
// загруженных отчётов сессии, не затрагивая предыдущие анализы.
func (s *Storage) AppendLabReport(ctx context.Context, sessionID string, analysis *models.LabReportAnalysis) error {
	const op = "storage.AppendLabReport"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	analysisJSON, err := json.Marshal([]*models.LabReportAnalysis{analysis})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	query := `UPDATE consultation_sessions
			  SET uploaded_reports = COALESCE(uploaded_reports, '[]'::jsonb) || $2::jsonb
			  WHERE session_id = $1`
	res, err := s.DB.ExecContext(ctx, query, sessionID, analysisJSON)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, ErrSessionNotFound)
	}
	return nil
}
