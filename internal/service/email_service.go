package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// EmailService handles sending emails via Amazon SES
type EmailService struct {
	client     *sesv2.Client
	fromEmail  string
	fromName   string
	appBaseURL string
	enabled    bool
	debug      bool
}

// NewEmailService creates a new email service. If fromEmail is empty the
// service comes up disabled and every send becomes a logged no-op, so the
// rest of the application never has to check.
func NewEmailService(awsRegion, fromEmail, fromName, appBaseURL string, debug bool) (*EmailService, error) {
	if fromEmail == "" {
		log.Println("Email service disabled: SES_FROM_EMAIL not configured")
		return &EmailService{
			enabled: false,
			debug:   debug,
		}, nil
	}

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(awsRegion),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := sesv2.NewFromConfig(cfg)

	log.Printf("Email service enabled: from=%s, region=%s", fromEmail, awsRegion)

	return &EmailService{
		client:     client,
		fromEmail:  fromEmail,
		fromName:   fromName,
		appBaseURL: appBaseURL,
		enabled:    true,
		debug:      debug,
	}, nil
}

// IsEnabled returns whether the email service is enabled
func (s *EmailService) IsEnabled() bool {
	return s.enabled
}

// SendMedicationReminder notifies a patient that a scheduled dose is due
func (s *EmailService) SendMedicationReminder(ctx context.Context, toEmail, toName, medName, dosage, timeOfDay string) error {
	if !s.enabled {
		log.Printf("Skipping email send (service disabled): medication reminder to %s", toEmail)
		return nil
	}

	subject := fmt.Sprintf("Medication Reminder: %s", medName)
	heading := "Medication Reminder"
	intro := fmt.Sprintf("It's time to take your medication <strong>%s</strong> (%s), scheduled for %s.", medName, dosage, timeOfDay)
	htmlBody := s.renderHTML(heading, toName, intro,
		"Please remember to log the dose in the app once taken.",
		s.appBaseURL+"/medications", "Open Medications")

	textBody := fmt.Sprintf(`Hi %s,

It's time to take your medication %s (%s), scheduled for %s.

Please remember to log the dose in the app once taken:
%s/medications

---
This is an automated email from CareConnect. Please do not reply.
`, toName, medName, dosage, timeOfDay, s.appBaseURL)

	return s.sendEmail(ctx, toEmail, subject, htmlBody, textBody)
}

// SendTaskReminder notifies a patient that a task is coming up
func (s *EmailService) SendTaskReminder(ctx context.Context, toEmail, toName, taskTitle string, dueDate time.Time) error {
	if !s.enabled {
		log.Printf("Skipping email send (service disabled): task reminder to %s", toEmail)
		return nil
	}

	due := dueDate.Format("Mon, 2 Jan 2006 at 15:04")
	subject := fmt.Sprintf("Upcoming Task: %s", taskTitle)
	heading := "Task Reminder"
	intro := fmt.Sprintf("Your task <strong>%s</strong> is due on %s.", taskTitle, due)
	htmlBody := s.renderHTML(heading, toName, intro,
		"Mark the task as completed in the app when you're done.",
		s.appBaseURL+"/tasks", "Open Tasks")

	textBody := fmt.Sprintf(`Hi %s,

Your task "%s" is due on %s.

Mark the task as completed in the app when you're done:
%s/tasks

---
This is an automated email from CareConnect. Please do not reply.
`, toName, taskTitle, due, s.appBaseURL)

	return s.sendEmail(ctx, toEmail, subject, htmlBody, textBody)
}

// SendAssignmentNotification tells a caretaker they have been assigned to a patient
func (s *EmailService) SendAssignmentNotification(ctx context.Context, toEmail, toName, patientName string) error {
	if !s.enabled {
		log.Printf("Skipping email send (service disabled): assignment notification to %s", toEmail)
		return nil
	}

	subject := "New Patient Assignment"
	heading := "New Patient Assignment"
	intro := fmt.Sprintf("You have been assigned as a caretaker for <strong>%s</strong>.", patientName)
	htmlBody := s.renderHTML(heading, toName, intro,
		"You can now view and manage this patient's medications and tasks.",
		s.appBaseURL+"/patients", "View Patients")

	textBody := fmt.Sprintf(`Hi %s,

You have been assigned as a caretaker for %s.

You can now view and manage this patient's medications and tasks:
%s/patients

---
This is an automated email from CareConnect. Please do not reply.
`, toName, patientName, s.appBaseURL)

	return s.sendEmail(ctx, toEmail, subject, htmlBody, textBody)
}

// SendPatientUpdate notifies a caretaker about activity on one of their patients
func (s *EmailService) SendPatientUpdate(ctx context.Context, toEmail, toName, patientName, update string) error {
	if !s.enabled {
		log.Printf("Skipping email send (service disabled): patient update to %s", toEmail)
		return nil
	}

	subject := fmt.Sprintf("Update for %s", patientName)
	heading := "Patient Update"
	intro := fmt.Sprintf("There is an update for your patient <strong>%s</strong>:", patientName)
	htmlBody := s.renderHTML(heading, toName, intro, update,
		s.appBaseURL+"/patients", "View Patients")

	textBody := fmt.Sprintf(`Hi %s,

There is an update for your patient %s:

%s

View details: %s/patients

---
This is an automated email from CareConnect. Please do not reply.
`, toName, patientName, update, s.appBaseURL)

	return s.sendEmail(ctx, toEmail, subject, htmlBody, textBody)
}

// SendContactMessage forwards a patient's message to a caretaker
func (s *EmailService) SendContactMessage(ctx context.Context, toEmail, toName, fromName, message string) error {
	if !s.enabled {
		log.Printf("Skipping email send (service disabled): contact message to %s", toEmail)
		return nil
	}

	subject := fmt.Sprintf("New message from %s", fromName)
	heading := "New Message"
	intro := fmt.Sprintf("<strong>%s</strong> sent you a message through CareConnect:", fromName)
	htmlBody := s.renderHTML(heading, toName, intro, message,
		s.appBaseURL+"/messages", "Reply in CareConnect")

	textBody := fmt.Sprintf(`Hi %s,

%s sent you a message through CareConnect:

%s

Reply in CareConnect: %s/messages

---
This is an automated email from CareConnect. Please do not reply.
`, toName, fromName, message, s.appBaseURL)

	return s.sendEmail(ctx, toEmail, subject, htmlBody, textBody)
}

// renderHTML produces the shared email layout
func (s *EmailService) renderHTML(heading, toName, intro, detail, linkURL, linkLabel string) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<style>
		body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
		.container { max-width: 600px; margin: 0 auto; padding: 20px; }
		.header { background-color: #2e8b57; color: white; padding: 20px; text-align: center; border-radius: 5px 5px 0 0; }
		.content { background-color: #f9f9f9; padding: 30px; border-radius: 0 0 5px 5px; }
		.button { display: inline-block; padding: 12px 30px; background-color: #2e8b57; color: white; text-decoration: none; border-radius: 5px; margin: 20px 0; }
		.footer { text-align: center; margin-top: 20px; font-size: 12px; color: #666; }
	</style>
</head>
<body>
	<div class="container">
		<div class="header">
			<h1>%s</h1>
		</div>
		<div class="content">
			<p>Hi %s,</p>
			<p>%s</p>
			<p>%s</p>
			<p style="text-align: center;">
				<a href="%s" class="button">%s</a>
			</p>
		</div>
		<div class="footer">
			<p>This is an automated email from CareConnect. Please do not reply.</p>
		</div>
	</div>
</body>
</html>
`, heading, toName, intro, detail, linkURL, linkLabel)
}

// sendEmail sends an email using Amazon SES
func (s *EmailService) sendEmail(ctx context.Context, toEmail, subject, htmlBody, textBody string) error {
	fromAddress := s.fromEmail
	if s.fromName != "" {
		fromAddress = fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Html: &types.Content{
						Data:    aws.String(htmlBody),
						Charset: aws.String("UTF-8"),
					},
					Text: &types.Content{
						Data:    aws.String(textBody),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	result, err := s.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to send email to %s: %w", toEmail, err)
	}

	if s.debug && result.MessageId != nil {
		log.Printf("[DEBUG] SES message ID: %s", *result.MessageId)
	}

	log.Printf("Email sent successfully: to=%s, subject=%s", toEmail, subject)
	return nil
}
