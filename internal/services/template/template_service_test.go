package template

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var templateRows = []string{
	"id", "workspace_id", "name", "type", "body", "image_url",
	"created_at", "updated_at",
	"created_by", "created_by_name", "created_by_email",
}

func newMockService(t *testing.T) (*TemplateService, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewTemplateService(NewTemplateRepo(sqlx.NewDb(db, "sqlmock"))), mock
}

func templateRow(id, workspaceID uuid.UUID, typ TemplateType, imageURL interface{}) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(templateRows).AddRow(
		id, workspaceID, "Welcome", string(typ), "Hello there", imageURL,
		now, now, nil, nil, nil,
	)
}

func TestCreateRequiresImageForTextImageType(t *testing.T) {
	svc, _ := newMockService(t)

	_, err := svc.Create(context.Background(), uuid.New(), nil, &CreateTemplateRequest{
		Name: "Welcome",
		Type: TypeTextImage,
		Body: "Hello there",
	})
	assert.ErrorIs(t, err, ErrImageURLRequired)
}

func TestCreateRejectsInvalidType(t *testing.T) {
	svc, _ := newMockService(t)

	_, err := svc.Create(context.Background(), uuid.New(), nil, &CreateTemplateRequest{
		Name: "Welcome",
		Type: "Video",
		Body: "Hello there",
	})
	assert.Error(t, err)
}

func TestCreateRejectsDuplicateName(t *testing.T) {
	svc, mock := newMockService(t)
	workspaceID := uuid.New()

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(workspaceID, "Welcome").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	_, err := svc.Create(context.Background(), workspaceID, nil, &CreateTemplateRequest{
		Name: "Welcome",
		Type: TypeText,
		Body: "Hello there",
	})
	assert.ErrorIs(t, err, ErrNameTaken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateClearsImageWhenStoredTypeIsText(t *testing.T) {
	svc, mock := newMockService(t)
	id, workspaceID := uuid.New(), uuid.New()

	mock.ExpectQuery("SELECT(.|\n)*FROM message_templates t").
		WithArgs(id, workspaceID).
		WillReturnRows(templateRow(id, workspaceID, TypeText, nil))

	// The stored type is Text, so image_url is forced to NULL even when
	// the request tries to set one
	mock.ExpectExec("UPDATE message_templates").
		WithArgs(nil, id, workspaceID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	mock.ExpectQuery("SELECT(.|\n)*FROM message_templates t").
		WithArgs(id, workspaceID).
		WillReturnRows(templateRow(id, workspaceID, TypeText, nil))

	image := "https://cdn.test/banner.png"
	updated, err := svc.Update(context.Background(), id, workspaceID, &UpdateTemplateRequest{ImageURL: &image})
	require.NoError(t, err)
	assert.Nil(t, updated.ImageURL)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateKeepsImageWhileStoredTypeIsTextImage(t *testing.T) {
	svc, mock := newMockService(t)
	id, workspaceID := uuid.New(), uuid.New()

	mock.ExpectQuery("SELECT(.|\n)*FROM message_templates t").
		WithArgs(id, workspaceID).
		WillReturnRows(templateRow(id, workspaceID, TypeTextImage, "https://cdn.test/old.png"))

	mock.ExpectExec("UPDATE message_templates").
		WithArgs("https://cdn.test/new.png", id, workspaceID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	mock.ExpectQuery("SELECT(.|\n)*FROM message_templates t").
		WithArgs(id, workspaceID).
		WillReturnRows(templateRow(id, workspaceID, TypeTextImage, "https://cdn.test/new.png"))

	image := "https://cdn.test/new.png"
	updated, err := svc.Update(context.Background(), id, workspaceID, &UpdateTemplateRequest{ImageURL: &image})
	require.NoError(t, err)
	require.NotNil(t, updated.ImageURL)
	assert.Equal(t, "https://cdn.test/new.png", *updated.ImageURL)
	assert.NoError(t, mock.ExpectationsWereMet())
}
