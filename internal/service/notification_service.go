package service

import (
	"context"
	"fmt"
	"html/template"
	"sort"
	"strings"
	"time"

	"github.com/formbridge/backend/internal/model"
	"github.com/formbridge/backend/pkg/mailer"
)

// NotificationService renders and sends the new-submission email.
// Best effort only: a failed send is the caller's to log and forget.
type NotificationService interface {
	Notify(ctx context.Context, form *model.Form, owner *model.User, data map[string]any) error
}

// notificationServiceImpl renders the fixed HTML template and hands the
// result to the mail transport.
type notificationServiceImpl struct {
	mail   mailer.Client
	appURL string
}

// NewNotificationService creates a NotificationService. appURL is the
// dashboard base used for the deep link in the email body.
func NewNotificationService(mail mailer.Client, appURL string) NotificationService {
	return &notificationServiceImpl{mail: mail, appURL: strings.TrimSuffix(appURL, "/")}
}

// submissionField is one key/value pair rendered into the email body.
type submissionField struct {
	Key   string
	Value string
}

type emailData struct {
	FormName     string
	Fields       []submissionField
	DashboardURL string
	Year         int
}

// All field values pass through html/template, so submitted markup arrives
// in the owner's inbox as text, not as HTML.
var submissionEmailTmpl = template.Must(template.New("submission").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>New Submission</title>
</head>
<body style="margin: 0; padding: 0; font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif; background-color: #f9fafb;">
  <table width="100%" cellpadding="0" cellspacing="0" style="background-color: #f9fafb; padding: 40px 20px;">
    <tr>
      <td align="center">
        <table width="600" cellpadding="0" cellspacing="0" style="background-color: #ffffff; border-radius: 8px; overflow: hidden;">
          <tr>
            <td style="padding: 32px 40px; text-align: center; background-color: #000000;">
              <span style="color: #ffffff; font-size: 22px; font-weight: bold; letter-spacing: 1px;">FormBridge</span>
            </td>
          </tr>
          <tr>
            <td style="padding: 40px;">
              <h1 style="margin: 0 0 16px 0; font-size: 24px; font-weight: bold; color: #111827;">New Form Submission</h1>
              <p style="margin: 0 0 24px 0; font-size: 16px; line-height: 24px; color: #6b7280;">
                You have received a new submission for your form <strong>{{.FormName}}</strong>.
              </p>
              <div style="background: #f9fafb; padding: 24px; border-radius: 8px; margin: 24px 0; border: 1px solid #e5e7eb;">
                {{range .Fields}}<strong>{{.Key}}:</strong> {{.Value}}<br>
                {{end}}
              </div>
              <table width="100%" cellpadding="0" cellspacing="0">
                <tr>
                  <td align="center" style="padding: 24px 0;">
                    <a href="{{.DashboardURL}}" style="display: inline-block; padding: 14px 32px; background-color: #000000; color: #ffffff; text-decoration: none; border-radius: 6px; font-weight: 500; font-size: 14px;">
                      View in Dashboard
                    </a>
                  </td>
                </tr>
              </table>
            </td>
          </tr>
          <tr>
            <td style="padding: 24px 40px; background-color: #f9fafb; text-align: center; border-top: 1px solid #e5e7eb;">
              <p style="margin: 0; font-size: 12px; color: #9ca3af;">
                &copy; {{.Year}} FormBridge. All rights reserved.
              </p>
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>
`))

// Notify renders the email and sends it once. Recipients come from the
// form's notification list when set, otherwise the owner's address; with
// neither, the notification is silently skipped.
func (s *notificationServiceImpl) Notify(ctx context.Context, form *model.Form, owner *model.User, data map[string]any) error {
	to := form.Settings.NotificationEmails
	if len(to) == 0 && owner != nil && owner.Email != "" {
		to = []string{owner.Email}
	}
	if len(to) == 0 {
		return nil
	}

	var body strings.Builder
	if err := submissionEmailTmpl.Execute(&body, emailData{
		FormName:     form.Name,
		Fields:       flattenFields(data),
		DashboardURL: fmt.Sprintf("%s/dashboard/forms/%s", s.appURL, form.ID),
		Year:         time.Now().Year(),
	}); err != nil {
		return err
	}

	return s.mail.Send(ctx, mailer.Message{
		To:      to,
		Subject: fmt.Sprintf("New submission for %s", form.Name),
		HTML:    body.String(),
	})
}

// flattenFields renders the payload as sorted key/value strings. Nested
// objects are inlined as compact JSON-ish text via Sprintf.
func flattenFields(data map[string]any) []submissionField {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fields := make([]submissionField, 0, len(keys))
	for _, k := range keys {
		fields = append(fields, submissionField{Key: k, Value: fmt.Sprintf("%v", data[k])})
	}
	return fields
}
