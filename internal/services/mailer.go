package services

import (
	"fmt"
	"net/smtp"
	"strings"

	"itms-api/config"
	"itms-api/internal/models"

	"github.com/rs/zerolog/log"
)

// Mailer sends notification emails over SMTP. Every send failure is logged
// and swallowed so mail outages never fail the triggering request.
type Mailer struct {
	config *config.Config
}

func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{config: cfg}
}

func (m *Mailer) enabled() bool {
	return m.config.SMTP.Host != ""
}

func (m *Mailer) send(to, subject, body string) error {
	smtpCfg := m.config.SMTP
	addr := fmt.Sprintf("%s:%s", smtpCfg.Host, smtpCfg.Port)

	from := smtpCfg.FromEmail
	headers := []string{
		fmt.Sprintf("From: %s <%s>", smtpCfg.FromName, from),
		fmt.Sprintf("To: %s", to),
		fmt.Sprintf("Subject: %s", subject),
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=utf-8",
	}
	msg := strings.Join(headers, "\r\n") + "\r\n\r\n" + body

	var auth smtp.Auth
	if smtpCfg.Username != "" {
		auth = smtp.PlainAuth("", smtpCfg.Username, smtpCfg.Password, smtpCfg.Host)
	}

	return smtp.SendMail(addr, auth, from, []string{to}, []byte(msg))
}

// NotifyTicketCreated mails the assignee when a ticket lands in their queue.
func (m *Mailer) NotifyTicketCreated(ticket *models.HelpDeskTicket, assigneeEmail string) {
	if !m.enabled() || assigneeEmail == "" {
		return
	}

	subject := fmt.Sprintf("[%s] New ticket: %s", ticket.TicketNumber, ticket.Title)
	body := fmt.Sprintf(
		"A new help desk ticket has been assigned to you.\n\n"+
			"Ticket: %s\nTitle: %s\nPriority: %s\n\n%s\n",
		ticket.TicketNumber, ticket.Title, ticket.Priority, ticket.Description,
	)

	if err := m.send(assigneeEmail, subject, body); err != nil {
		log.Warn().Err(err).Str("ticket", ticket.TicketNumber).Msg("failed to send ticket notification")
	}
}

// NotifyReservationApproved mails the requester when their reservation is
// approved.
func (m *Mailer) NotifyReservationApproved(res *models.Reservation, requesterEmail string) {
	if !m.enabled() || requesterEmail == "" {
		return
	}

	assetName := ""
	if res.AssetName != nil {
		assetName = *res.AssetName
	}

	subject := fmt.Sprintf("[%s] Reservation approved", res.ReservationNumber)
	body := fmt.Sprintf(
		"Your reservation has been approved.\n\n"+
			"Reservation: %s\nAsset: %s\nFrom: %s\nTo: %s\n",
		res.ReservationNumber, assetName,
		res.StartDatetime.Format("2006-01-02 15:04"),
		res.EndDatetime.Format("2006-01-02 15:04"),
	)

	if err := m.send(requesterEmail, subject, body); err != nil {
		log.Warn().Err(err).Str("reservation", res.ReservationNumber).Msg("failed to send reservation notification")
	}
}
