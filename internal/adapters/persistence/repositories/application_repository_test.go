package repositories

import (
	"context"
	"testing"
	"time"

	"prestamax/internal/adapters/persistence/models"
	"prestamax/internal/core/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	return db, mock
}

func TestUpdateStatusWithHistory_WritesStatusAndHistoryAtomically(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewApplicationRepository(db)

	app := &models.Application{ID: 10, TenantID: 1, Status: string(domain.StatusSubmitted)}
	history := &models.ApplicationStatusHistory{
		FromStatus:    string(domain.StatusSubmitted),
		ToStatus:      string(domain.StatusInReview),
		ChangedBy:     99,
		ChangedByType: string(domain.ActorStaff),
	}

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `applications` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO `application_status_histories`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := repo.UpdateStatusWithHistory(context.Background(), app, domain.StatusSubmitted, nil, history)
	require.NoError(t, err)
	assert.Equal(t, uint(10), history.ApplicationID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatusWithHistory_StaleStatusRollsBack(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewApplicationRepository(db)

	app := &models.Application{ID: 10, TenantID: 1, Status: string(domain.StatusSubmitted)}
	history := &models.ApplicationStatusHistory{
		FromStatus: string(domain.StatusSubmitted),
		ToStatus:   string(domain.StatusInReview),
	}

	// The guarded UPDATE matches no row: someone else moved the status first
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `applications` SET").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.UpdateStatusWithHistory(context.Background(), app, domain.StatusSubmitted, nil, history)
	assert.ErrorIs(t, err, domain.ErrStaleStatus)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordOfferResponse_WritesOnlyOfferColumns(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewApplicationRepository(db)

	app := &models.Application{ID: 10, TenantID: 1, Status: string(domain.StatusCounterOffered)}
	respondedAt := time.Now()

	// The SET clause carries the offer columns and the timestamp, never
	// status; the WHERE clause carries the COUNTER_OFFERED guard.
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `applications` SET `offer_accepted`=\\?,`offer_responded_at`=\\?,`updated_at`=\\? WHERE").
		WithArgs(false, sqlmock.AnyArg(), sqlmock.AnyArg(), app.ID, string(domain.StatusCounterOffered)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.RecordOfferResponse(context.Background(), app, respondedAt, false)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordOfferResponse_StaleStatusFails(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewApplicationRepository(db)

	app := &models.Application{ID: 10, TenantID: 1, Status: string(domain.StatusCounterOffered)}

	// Staff moved the application between the read and this write: the
	// guard matches no row and the response is not recorded
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `applications` SET `offer_accepted`=\\?,`offer_responded_at`=\\?,`updated_at`=\\? WHERE").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.RecordOfferResponse(context.Background(), app, time.Now(), false)
	assert.ErrorIs(t, err, domain.ErrStaleStatus)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByID_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewApplicationRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM `applications`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	app, err := repo.GetByID(context.Background(), 1, 404)
	assert.Nil(t, app)
	assert.ErrorIs(t, err, domain.ErrApplicationNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetHistory_ReturnsRowsOldestFirst(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewApplicationRepository(db)

	rows := sqlmock.NewRows([]string{"id", "application_id", "from_status", "to_status", "changed_by", "changed_by_type"}).
		AddRow(1, 10, "DRAFT", "SUBMITTED", 7, "applicant").
		AddRow(2, 10, "SUBMITTED", "IN_REVIEW", 99, "staff")

	mock.ExpectQuery("SELECT (.+) FROM `application_status_histories`").
		WillReturnRows(rows)

	history, err := repo.GetHistory(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "SUBMITTED", history[0].ToStatus)
	assert.Equal(t, history[0].ToStatus, history[1].FromStatus)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountByStatus_GroupsRows(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewApplicationRepository(db)

	rows := sqlmock.NewRows([]string{"status", "count"}).
		AddRow("DRAFT", 3).
		AddRow("IN_REVIEW", 2).
		AddRow("APPROVED", 1)

	mock.ExpectQuery("SELECT status, COUNT(.+) FROM `applications`").
		WillReturnRows(rows)

	counts, err := repo.CountByStatus(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), counts["DRAFT"])
	assert.Equal(t, int64(2), counts["IN_REVIEW"])
	assert.Equal(t, int64(1), counts["APPROVED"])
	assert.NoError(t, mock.ExpectationsWereMet())
}
