package campaign

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/outreachhq/outreach/internal/services/contact"
	"github.com/outreachhq/outreach/internal/services/template"
)

var campaignRows = []string{
	"id", "workspace_id", "name", "target_tags", "template_id", "status",
	"launched_at", "created_at", "updated_at",
	"template_name", "template_type", "template_body", "template_image_url",
	"created_by", "created_by_name", "created_by_email",
}

func newMockService(t *testing.T) (*CampaignService, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	conn := sqlx.NewDb(db, "sqlmock")
	svc := NewCampaignService(NewCampaignRepo(conn), template.NewTemplateRepo(conn), contact.NewContactRepo(conn))
	return svc, mock
}

func campaignRow(id, workspaceID, templateID uuid.UUID, status CampaignStatus) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(campaignRows).AddRow(
		id, workspaceID, "Spring Launch", "{vip}", templateID, string(status),
		nil, now, now,
		"Welcome", "Text", "Hello there", nil,
		nil, nil, nil,
	)
}

func TestLaunchCompletesAndBatchesContacts(t *testing.T) {
	svc, mock := newMockService(t)
	svc.WithClock(func() time.Time { return time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC) })
	svc.WithRand(func() float64 { return 0.5 })

	id, workspaceID, templateID := uuid.New(), uuid.New(), uuid.New()

	mock.ExpectQuery("SELECT(.|\n)*FROM campaigns c").
		WithArgs(id, workspaceID).
		WillReturnRows(campaignRow(id, workspaceID, templateID, StatusDraft))

	contactCols := []string{
		"id", "workspace_id", "name", "phone_number", "email", "company",
		"tags", "notes", "created_at", "updated_at",
		"created_by", "created_by_name", "created_by_email",
	}
	now := time.Now()
	mock.ExpectQuery("SELECT(.|\n)*FROM contacts c").
		WithArgs(workspaceID, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(contactCols).
			AddRow(uuid.New(), workspaceID, "Dana", "+15550001111", "dana@acme.test", "Acme", "{vip}", nil, now, now, nil, nil, nil).
			AddRow(uuid.New(), workspaceID, "Lee", "+15550002222", "lee@acme.test", "Acme", "{vip}", nil, now, now, nil, nil, nil))

	mock.ExpectExec("UPDATE campaigns").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT(.|\n)*FROM campaigns c").
		WithArgs(id, workspaceID).
		WillReturnRows(campaignRow(id, workspaceID, templateID, StatusCompleted))

	mock.ExpectQuery("INSERT INTO campaign_messages").
		WithArgs(workspaceID, id, sqlmock.AnyArg(), "Hello there", nil, "Sent").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(uuid.New(), now))

	result, reached, err := svc.Launch(context.Background(), id, workspaceID)
	require.NoError(t, err)
	assert.True(t, reached)
	assert.Equal(t, StatusCompleted, result.Status)
	assert.Equal(t, 2, result.ContactsReached)
	assert.Equal(t, time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC), result.LaunchedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLaunchWithNoContactsStillCompletes(t *testing.T) {
	svc, mock := newMockService(t)

	id, workspaceID, templateID := uuid.New(), uuid.New(), uuid.New()

	mock.ExpectQuery("SELECT(.|\n)*FROM campaigns c").
		WithArgs(id, workspaceID).
		WillReturnRows(campaignRow(id, workspaceID, templateID, StatusDraft))

	mock.ExpectQuery("SELECT(.|\n)*FROM contacts c").
		WithArgs(workspaceID, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	mock.ExpectExec("UPDATE campaigns").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT(.|\n)*FROM campaigns c").
		WithArgs(id, workspaceID).
		WillReturnRows(campaignRow(id, workspaceID, templateID, StatusCompleted))

	result, reached, err := svc.Launch(context.Background(), id, workspaceID)
	require.NoError(t, err)
	assert.False(t, reached)
	assert.Equal(t, StatusCompleted, result.Status)
	assert.Equal(t, 0, result.ContactsReached)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLaunchRejectsCompletedCampaign(t *testing.T) {
	svc, mock := newMockService(t)

	id, workspaceID, templateID := uuid.New(), uuid.New(), uuid.New()

	mock.ExpectQuery("SELECT(.|\n)*FROM campaigns c").
		WithArgs(id, workspaceID).
		WillReturnRows(campaignRow(id, workspaceID, templateID, StatusCompleted))

	_, _, err := svc.Launch(context.Background(), id, workspaceID)
	assert.ErrorIs(t, err, ErrOnlyDraftLaunches)
}

func TestUpdateRejectsCompletedCampaign(t *testing.T) {
	svc, mock := newMockService(t)

	id, workspaceID, templateID := uuid.New(), uuid.New(), uuid.New()

	mock.ExpectQuery("SELECT(.|\n)*FROM campaigns c").
		WithArgs(id, workspaceID).
		WillReturnRows(campaignRow(id, workspaceID, templateID, StatusCompleted))

	name := "Renamed"
	_, err := svc.Update(context.Background(), id, workspaceID, &UpdateCampaignRequest{Name: &name})
	assert.ErrorIs(t, err, ErrOnlyDraftEditable)
}
