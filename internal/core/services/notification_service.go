package services

import (
	"context"
	"fmt"
	"net/url"

	"princip-gym/internal/adapters/persistence/models"
	"princip-gym/internal/pkg/mailer"

	"go.uber.org/zap"
)

// NotificationService composes and sends member emails
type NotificationService struct {
	mailer mailer.Mailer
	appURL string
	log    *zap.Logger
}

// NewNotificationService creates a new notification service
func NewNotificationService(m mailer.Mailer, appURL string, log *zap.Logger) *NotificationService {
	return &NotificationService{
		mailer: m,
		appURL: appURL,
		log:    log,
	}
}

// SendVerification emails the address confirmation link
func (s *NotificationService) SendVerification(ctx context.Context, user *models.User, token string) error {
	link := fmt.Sprintf("%s/api/v1/auth/verify-email?token=%s", s.appURL, url.QueryEscape(token))

	body := fmt.Sprintf(`Dobrodošli u Princip Gym!

Hvala vam što ste se registrovali. Potvrdite vašu email adresu otvaranjem linka:

%s

Ako niste vi kreirali ovaj nalog, možete ignorisati ovaj email.
`, link)

	return s.mailer.Send(ctx, user.Email, "Potvrdite vašu email adresu - Princip Gym", body)
}

// SendExpiryReminder warns a member that their membership ends soon
func (s *NotificationService) SendExpiryReminder(ctx context.Context, user *models.User, daysLeft int) error {
	name := user.Name
	if name == "" {
		name = "člane"
	}

	body := fmt.Sprintf(`Pozdrav %s,

Vaša članarina ističe za %d dana.

Molimo vas da obnovite članarinu na vreme kako biste nastavili da koristite naše usluge bez prekida.

Vidimo se u teretani!
Princip Gym
`, name, daysLeft)

	subject := fmt.Sprintf("Članarina ističe za %d dana - Princip Gym", daysLeft)
	return s.mailer.Send(ctx, user.Email, subject, body)
}
