package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const defaultTimeout = 10 * time.Second

type tokenRepo interface {
	Upsert(ctx context.Context, token string, email *string) error
	TokensByEmail(ctx context.Context, email string) ([]string, error)
}

// Service associates notification tokens with customers and pushes
// messages to them through the FCM send endpoint.
type Service struct {
	repo      tokenRepo
	endpoint  string
	serverKey string
	http      *http.Client
	log       *logrus.Entry
}

func New(repo tokenRepo, endpoint, serverKey string, logger *logrus.Logger) *Service {
	return &Service{
		repo:      repo,
		endpoint:  endpoint,
		serverKey: serverKey,
		http:      &http.Client{Timeout: defaultTimeout},
		log:       logger.WithField("component", "push"),
	}
}

// Register associates a notification token with an optional customer email.
func (s *Service) Register(ctx context.Context, token string, email *string) error {
	if strings.TrimSpace(token) == "" {
		return errors.New("missing token")
	}
	return s.repo.Upsert(ctx, token, email)
}

type fcmNotification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type fcmMessage struct {
	To           string            `json:"to"`
	Notification fcmNotification   `json:"notification"`
	Data         map[string]string `json:"data,omitempty"`
}

// SendToEmail pushes a notification to every token registered for the
// email. Delivery is fire-and-forget: per-token failures are logged, not
// returned.
func (s *Service) SendToEmail(ctx context.Context, email, title, body string) error {
	tokens, err := s.repo.TokensByEmail(ctx, email)
	if err != nil {
		return err
	}
	if len(tokens) == 0 {
		s.log.WithField("email", email).Info("no push tokens registered")
		return nil
	}

	for _, token := range tokens {
		if err := s.send(ctx, token, title, body, email); err != nil {
			s.log.WithError(err).WithField("token", token).Error("send notification")
		} else {
			s.log.WithField("token", token).Info("notification sent")
		}
	}
	return nil
}

func (s *Service) send(ctx context.Context, token, title, body, email string) error {
	payload, err := json.Marshal(fcmMessage{
		To:           token,
		Notification: fcmNotification{Title: title, Body: body},
		Data:         map[string]string{"email": email},
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "key="+s.serverKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("fcm send: %d %s", resp.StatusCode, string(text))
	}
	return nil
}
