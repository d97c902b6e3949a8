package exam

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// SQLStore persists tests, answers, classes and users over database/sql.
// Question content and reviewer decisions are stored as JSON columns, the
// same way the rest of the schema keeps composite payloads.
type SQLStore struct {
	db       *sql.DB
	pageSize int
}

func NewSQLStore(db *sql.DB, pageSize int) *SQLStore {
	if pageSize <= 0 {
		pageSize = 100
	}
	return &SQLStore{db: db, pageSize: pageSize}
}

func (s *SQLStore) PutTest(ctx context.Context, t Test) error {
	cj, err := json.Marshal(t.Content)
	if err != nil {
		return err
	}
	mj, err := json.Marshal(t.RequiresManualGrade)
	if err != nil {
		return err
	}
	created := t.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO tests (id,title,professor_id,content_json,manual_ids_json,created_at)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (id) DO UPDATE SET title=EXCLUDED.title, professor_id=EXCLUDED.professor_id,
			content_json=EXCLUDED.content_json, manual_ids_json=EXCLUDED.manual_ids_json`,
		t.ID, t.Title, t.ProfessorID, string(cj), string(mj), created.Unix())
	return err
}

func (s *SQLStore) GetTest(ctx context.Context, id string) (Test, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id,title,professor_id,content_json,manual_ids_json,created_at FROM tests WHERE id=$1`, id)
	var t Test
	var cj, mj string
	var created int64
	if err := row.Scan(&t.ID, &t.Title, &t.ProfessorID, &cj, &mj, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Test{}, ErrTestNotFound
		}
		return Test{}, err
	}
	if err := json.Unmarshal([]byte(cj), &t.Content); err != nil {
		return Test{}, fmt.Errorf("test %s content: %w", id, err)
	}
	if err := json.Unmarshal([]byte(mj), &t.RequiresManualGrade); err != nil {
		return Test{}, fmt.Errorf("test %s manual ids: %w", id, err)
	}
	t.CreatedAt = time.Unix(created, 0).UTC()
	return t, nil
}

func (s *SQLStore) GetClass(ctx context.Context, id string) (Class, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id,name,professor_id FROM classes WHERE id=$1`, id)
	var c Class
	if err := row.Scan(&c.ID, &c.Name, &c.ProfessorID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Class{}, ErrClassNotFound
		}
		return Class{}, err
	}
	return c, nil
}

func (s *SQLStore) GetUser(ctx context.Context, id string) (User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id,display_name,email,role FROM users WHERE id=$1`, id)
	var u User
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Role); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrUserNotFound
		}
		return User{}, err
	}
	return u, nil
}

func (s *SQLStore) PutAnswer(ctx context.Context, a Answer) error {
	cj, err := json.Marshal(a.Content)
	if err != nil {
		return err
	}
	mj, err := json.Marshal(a.Metadata.ManualGrade)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO answers (test_id,class_id,student_id,content_json,manual_grades_json,try_finished,submitted_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (test_id,class_id,student_id) DO UPDATE SET content_json=EXCLUDED.content_json,
			manual_grades_json=EXCLUDED.manual_grades_json, try_finished=EXCLUDED.try_finished`,
		a.TestID, a.ClassID, a.StudentID, string(cj), string(mj), a.Metadata.TryFinished, time.Now().Unix())
	return err
}

func (s *SQLStore) GetAnswer(ctx context.Context, testID, classID, studentID string) (Answer, error) {
	row := s.db.QueryRowContext(ctx, `SELECT content_json,manual_grades_json,try_finished FROM answers
		WHERE test_id=$1 AND class_id=$2 AND student_id=$3`, testID, classID, studentID)
	return scanAnswer(row, testID, classID, studentID)
}

// GetAnswerPage pages through finished submissions for one (test, class)
// pair, ordered by student id. Pages are 0-based.
func (s *SQLStore) GetAnswerPage(ctx context.Context, testID, classID string, page int) (AnswerPage, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM answers
		WHERE test_id=$1 AND class_id=$2 AND try_finished=$3`, testID, classID, true).Scan(&count); err != nil {
		return AnswerPage{}, err
	}
	total := (count + s.pageSize - 1) / s.pageSize
	out := AnswerPage{Items: []Answer{}, TotalPages: total}
	if count == 0 || page >= total {
		return out, nil
	}

	rows, err := s.db.QueryContext(ctx, `SELECT student_id,content_json,manual_grades_json,try_finished FROM answers
		WHERE test_id=$1 AND class_id=$2 AND try_finished=$3
		ORDER BY student_id LIMIT $4 OFFSET $5`,
		testID, classID, true, s.pageSize, page*s.pageSize)
	if err != nil {
		return AnswerPage{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var studentID, cj, mj string
		var finished bool
		if err := rows.Scan(&studentID, &cj, &mj, &finished); err != nil {
			return AnswerPage{}, err
		}
		a, err := decodeAnswer(testID, classID, studentID, cj, mj, finished)
		if err != nil {
			return AnswerPage{}, err
		}
		out.Items = append(out.Items, a)
	}
	return out, rows.Err()
}

// ApplyManualGrades merges reviewer decisions into the stored answer
// metadata and returns the updated answer.
func (s *SQLStore) ApplyManualGrades(ctx context.Context, testID, classID, studentID string, grades map[string]bool) (Answer, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Answer{}, err
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, `SELECT content_json,manual_grades_json,try_finished FROM answers
		WHERE test_id=$1 AND class_id=$2 AND student_id=$3`, testID, classID, studentID)
	a, err := scanAnswer(row, testID, classID, studentID)
	if err != nil {
		return Answer{}, err
	}

	if a.Metadata.ManualGrade == nil {
		a.Metadata.ManualGrade = map[string]bool{}
	}
	for id, correct := range grades {
		a.Metadata.ManualGrade[id] = correct
	}
	mj, err := json.Marshal(a.Metadata.ManualGrade)
	if err != nil {
		return Answer{}, err
	}
	if _, err := tx.ExecContext(ctx, `UPDATE answers SET manual_grades_json=$1
		WHERE test_id=$2 AND class_id=$3 AND student_id=$4`, string(mj), testID, classID, studentID); err != nil {
		return Answer{}, err
	}
	if err := tx.Commit(); err != nil {
		return Answer{}, err
	}
	return a, nil
}

// AppendEvent writes an audit row to the event log.
func (s *SQLStore) AppendEvent(ctx context.Context, typ, key string, data any) error {
	buf, err := json.Marshal(data)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO event_log (typ,key,data,created_at) VALUES ($1,$2,$3,$4)`,
		typ, key, string(buf), time.Now().Unix())
	return err
}

func scanAnswer(row *sql.Row, testID, classID, studentID string) (Answer, error) {
	var cj, mj string
	var finished bool
	if err := row.Scan(&cj, &mj, &finished); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Answer{}, ErrAnswerNotFound
		}
		return Answer{}, err
	}
	return decodeAnswer(testID, classID, studentID, cj, mj, finished)
}

func decodeAnswer(testID, classID, studentID, contentJSON, manualJSON string, finished bool) (Answer, error) {
	a := Answer{TestID: testID, ClassID: classID, StudentID: studentID}
	if err := json.Unmarshal([]byte(contentJSON), &a.Content); err != nil {
		return Answer{}, fmt.Errorf("answer %s/%s/%s content: %w", testID, classID, studentID, err)
	}
	if err := json.Unmarshal([]byte(manualJSON), &a.Metadata.ManualGrade); err != nil {
		return Answer{}, fmt.Errorf("answer %s/%s/%s manual grades: %w", testID, classID, studentID, err)
	}
	a.Metadata.TryFinished = finished
	return a, nil
}
