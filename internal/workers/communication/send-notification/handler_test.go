// internal/workers/communication/send-notification/handler_test.go
package sendnotification

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"migratio-workers/internal/common/logger"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockSESService struct {
	SendEmailFunc func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

func (m *MockSESService) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	return m.SendEmailFunc(ctx, params, optFns...)
}

type MockSNSService struct {
	PublishFunc func(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

func (m *MockSNSService) Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	return m.PublishFunc(ctx, params, optFns...)
}

func createTestConfig() *Config {
	return &Config{
		EmailEnabled: true,
		SMSEnabled:   true,
		FromEmail:    "noreply@migratio.com",
		AWSRegion:    "us-east-1",
		Timeout:      30 * time.Second,
	}
}

func createTestInput(notificationType string) *Input {
	return &Input{
		UserID:           "user-001",
		NotificationType: notificationType,
		RecommendationID: "rec-001",
		Priority:         "high",
		Metadata: map[string]interface{}{
			"resultCount":    3,
			"topProgramName": "Express Entry",
			"topMatchScore":  "87",
		},
	}
}

func newTestHandler(t *testing.T, db *sql.DB, config *Config, sesClient SESService, snsClient SNSService) *Handler {
	t.Helper()
	return &Handler{
		config:      config,
		db:          db,
		logger:      logger.NewTestLogger(t),
		sesClient:   sesClient,
		snsClient:   snsClient,
		templateMap: notificationTemplates(),
	}
}

func expectContactLookup(mock sqlmock.Sqlmock, userID, firstName, email, phone string) {
	mock.ExpectQuery(`FROM profiles WHERE user_id = \$1`).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{"first_name", "email", "phone"}).
			AddRow(firstName, email, phone))
}

func TestHandler_Execute_Channels(t *testing.T) {
	tests := []struct {
		name         string
		emailEnabled bool
		smsEnabled   bool
		priority     string
		wantStatus   string
		wantEmail    bool
		wantSMS      bool
	}{
		{
			name:         "email and SMS for high priority",
			emailEnabled: true,
			smsEnabled:   true,
			priority:     "high",
			wantStatus:   StatusSent,
			wantEmail:    true,
			wantSMS:      true,
		},
		{
			name:         "email only when SMS disabled",
			emailEnabled: true,
			smsEnabled:   false,
			priority:     "high",
			wantStatus:   StatusSent,
			wantEmail:    true,
		},
		{
			name:         "no SMS below high priority",
			emailEnabled: false,
			smsEnabled:   true,
			priority:     "medium",
			wantStatus:   StatusDisabled,
		},
		{
			name:         "SMS only for high priority",
			emailEnabled: false,
			smsEnabled:   true,
			priority:     "high",
			wantStatus:   StatusSent,
			wantSMS:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			expectContactLookup(mock, "user-001", "Anika", "anika@example.com", "+15550100")

			emailSent := false
			mockSES := &MockSESService{
				SendEmailFunc: func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
					emailSent = true
					assert.Equal(t, "anika@example.com", params.Destination.ToAddresses[0])
					assert.Equal(t, "noreply@migratio.com", *params.Source)
					return &ses.SendEmailOutput{}, nil
				},
			}

			smsSent := false
			mockSNS := &MockSNSService{
				PublishFunc: func(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
					smsSent = true
					assert.Equal(t, "+15550100", *params.PhoneNumber)
					return &sns.PublishOutput{}, nil
				},
			}

			config := createTestConfig()
			config.EmailEnabled = tt.emailEnabled
			config.SMSEnabled = tt.smsEnabled

			handler := newTestHandler(t, db, config, mockSES, mockSNS)

			input := createTestInput(TypeRecommendationCompleted)
			input.Priority = tt.priority
			output, err := handler.Execute(context.Background(), input)

			require.NoError(t, err)
			require.NotNil(t, output)
			assert.Equal(t, tt.wantStatus, output.Status)
			assert.NotEmpty(t, output.NotificationID)
			assert.NotEmpty(t, output.SentAt)
			assert.Equal(t, tt.wantEmail, emailSent)
			assert.Equal(t, tt.wantSMS, smsSent)

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestHandler_Execute_TemplateRendering(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	expectContactLookup(mock, "user-001", "Anika", "anika@example.com", "")

	var gotSubject, gotBody string
	mockSES := &MockSESService{
		SendEmailFunc: func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
			gotSubject = *params.Message.Subject.Data
			gotBody = *params.Message.Body.Text.Data
			return &ses.SendEmailOutput{}, nil
		},
	}

	handler := newTestHandler(t, db, createTestConfig(), mockSES, &MockSNSService{})

	output, err := handler.Execute(context.Background(), createTestInput(TypeRecommendationCompleted))
	require.NoError(t, err)
	assert.Equal(t, StatusSent, output.Status)

	assert.Equal(t, "Your Immigration Program Recommendations Are Ready", gotSubject)
	assert.Contains(t, gotBody, "Hello Anika")
	assert.Contains(t, gotBody, "3 active programs")
	assert.Contains(t, gotBody, "Express Entry")
	assert.Contains(t, gotBody, "87% score")
	assert.Contains(t, gotBody, "rec-001")
	assert.NotContains(t, gotBody, "{{")
}

func TestHandler_Execute_RecipientNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`FROM profiles WHERE user_id = \$1`).
		WithArgs("user-001").
		WillReturnError(sql.ErrNoRows)

	handler := newTestHandler(t, db, createTestConfig(), &MockSESService{}, &MockSNSService{})

	output, err := handler.Execute(context.Background(), createTestInput(TypeRecommendationCompleted))

	require.NoError(t, err)
	assert.Equal(t, StatusDisabled, output.Status)
	assert.NotEmpty(t, output.NotificationID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_UnknownNotificationType(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	expectContactLookup(mock, "user-001", "Anika", "anika@example.com", "")

	handler := newTestHandler(t, db, createTestConfig(), &MockSESService{}, &MockSNSService{})

	output, err := handler.Execute(context.Background(), createTestInput("password_reset"))

	assert.Nil(t, output)
	assert.ErrorIs(t, err, ErrUnknownTemplate)
}

func TestHandler_Execute_EmailFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	expectContactLookup(mock, "user-001", "Anika", "anika@example.com", "+15550100")

	mockSES := &MockSESService{
		SendEmailFunc: func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
			return nil, errors.New("SES throttled")
		},
	}

	handler := newTestHandler(t, db, createTestConfig(), mockSES, &MockSNSService{})

	output, err := handler.Execute(context.Background(), createTestInput(TypeRecommendationCompleted))

	assert.Nil(t, output)
	assert.ErrorIs(t, err, ErrNotificationSendFailed)
}

func TestHandler_Execute_SMSFailureAfterEmailSuccess(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	expectContactLookup(mock, "user-001", "Anika", "anika@example.com", "+15550100")

	mockSES := &MockSESService{
		SendEmailFunc: func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
			return &ses.SendEmailOutput{}, nil
		},
	}
	mockSNS := &MockSNSService{
		PublishFunc: func(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
			return nil, errors.New("SNS unavailable")
		},
	}

	handler := newTestHandler(t, db, createTestConfig(), mockSES, mockSNS)

	output, err := handler.Execute(context.Background(), createTestInput(TypeRecommendationCompleted))

	require.NoError(t, err)
	assert.Equal(t, StatusSent, output.Status)
}

func TestRenderTemplate(t *testing.T) {
	data := map[string]interface{}{
		"firstName": "Anika",
		"count":     2,
		"score":     91.5,
	}

	result := renderTemplate("Hi {{firstName}}, {{count}} matches, best {{score}}, missing {{unknown}}.", data)

	assert.Equal(t, "Hi Anika, 2 matches, best 91.5, missing .", result)
}
