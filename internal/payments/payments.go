// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package payments converts a pro-template purchase intent into a recorded,
// fulfilled transaction via Stripe Checkout. The flow is: create a hosted
// checkout session, let Stripe redirect the buyer, then record the purchase
// when the signed completion webhook arrives.
package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
	"github.com/stripe/stripe-go/v82/webhook"

	"flowsite/internal/cache"
	"flowsite/internal/mailer"
	"flowsite/internal/models"
	"flowsite/internal/store"
)

var (
	// ErrTemplateNotFound is returned when the template does not exist or
	// is not a paid (pro) template. Free templates never reach checkout.
	ErrTemplateNotFound = errors.New("pro template not found")

	// ErrBadSignature is returned when webhook signature verification
	// fails. No state is touched on a forged or corrupted event.
	ErrBadSignature = errors.New("webhook signature verification failed")

	// ErrPaymentNotCompleted is returned by VerifySuccess when the
	// provider does not report the session as paid.
	ErrPaymentNotCompleted = errors.New("payment not completed")
)

const currency = "usd"

// CheckoutResult identifies a created checkout session.
type CheckoutResult struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
}

// PurchaseConfirmation is the synchronous redirect-back confirmation.
type PurchaseConfirmation struct {
	TemplateID    int64  `json:"templateId"`
	TemplateTitle string `json:"templateTitle"`
	BuyerEmail    string `json:"buyerEmail"`
}

// Service drives the checkout and fulfillment pipeline.
type Service struct {
	api           *client.API
	webhookSecret string
	successURL    string
	cancelURL     string
	templates     *store.TemplateStore
	downloads     *store.DownloadStore
	mail          mailer.Mailer
	dedup         *cache.EventDedup
}

// New creates a payments service. frontendOrigin is where Stripe redirects
// the buyer after checkout.
func New(secretKey, webhookSecret, frontendOrigin string, templates *store.TemplateStore, downloads *store.DownloadStore, mail mailer.Mailer, dedup *cache.EventDedup) *Service {
	api := &client.API{}
	api.Init(secretKey, nil)

	return &Service{
		api:           api,
		webhookSecret: webhookSecret,
		successURL:    frontendOrigin + "/payments/success?session_id={CHECKOUT_SESSION_ID}",
		cancelURL:     frontendOrigin + "/templates",
		templates:     templates,
		downloads:     downloads,
		mail:          mail,
		dedup:         dedup,
	}
}

// CreateCheckout builds a Stripe checkout session for a pro template. The
// template ID and title ride along as session metadata so the webhook can
// correlate the completed payment back to the template.
func (s *Service) CreateCheckout(ctx context.Context, templateID int64, buyerEmail string) (*CheckoutResult, error) {
	tmpl, err := s.templates.FindByID(templateID)
	if err != nil {
		return nil, err
	}
	if tmpl == nil || !tmpl.IsPro {
		return nil, ErrTemplateNotFound
	}

	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(s.successURL),
		CancelURL:  stripe.String(s.cancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			Quantity: stripe.Int64(1),
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(currency),
				UnitAmount: stripe.Int64(int64(math.Round(tmpl.Price * 100))),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(tmpl.Title),
				},
			},
		}},
	}
	if buyerEmail != "" {
		params.CustomerEmail = stripe.String(buyerEmail)
	}
	params.AddMetadata("template_id", strconv.FormatInt(tmpl.ID, 10))
	params.AddMetadata("template_title", tmpl.Title)
	params.Context = ctx

	sess, err := s.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}

	return &CheckoutResult{SessionID: sess.ID, URL: sess.URL}, nil
}

// HandleWebhook verifies and processes a provider event. Signature failure
// returns ErrBadSignature before any state is touched. A completed checkout
// is fulfilled at most once per event ID; duplicate deliveries are
// acknowledged without re-recording. Fulfillment database errors release
// the dedup claim and propagate, so the provider retries the event.
func (s *Service) HandleWebhook(ctx context.Context, payload []byte, sigHeader string) error {
	// Endpoints deliver events pinned to the account's API version, which
	// rarely matches the SDK's. Signature verification is what matters here.
	event, err := webhook.ConstructEventWithOptions(payload, sigHeader, s.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return ErrBadSignature
	}

	if event.Type != stripe.EventTypeCheckoutSessionCompleted {
		// Other event types are acknowledged and ignored.
		slog.Debug("webhook event ignored", "type", event.Type)
		return nil
	}

	if !s.dedup.Claim(ctx, event.ID) {
		return nil
	}

	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		slog.Error("webhook session decode failed", "event_id", event.ID, "error", err)
		return nil
	}

	if err := s.fulfill(&sess); err != nil {
		s.dedup.Release(ctx, event.ID)
		return fmt.Errorf("fulfill checkout %s: %w", sess.ID, err)
	}
	return nil
}

// fulfill records the purchase: one transaction covering the download event
// row and the counter increment, then a confirmation email. Email failure
// is logged and never undoes the recorded purchase.
func (s *Service) fulfill(sess *stripe.CheckoutSession) error {
	templateID, err := strconv.ParseInt(sess.Metadata["template_id"], 10, 64)
	if err != nil {
		return fmt.Errorf("session metadata missing template_id: %w", err)
	}

	email := sess.CustomerEmail
	if sess.CustomerDetails != nil && sess.CustomerDetails.Email != "" {
		email = sess.CustomerDetails.Email
	}

	if _, err := s.downloads.Record(templateID, email, nil, models.DownloadPurchased); err != nil {
		return err
	}

	tmpl, err := s.templates.FindByID(templateID)
	if err != nil || tmpl == nil {
		slog.Error("purchased template lookup failed, skipping email",
			"template_id", templateID, "error", err)
		return nil
	}

	if err := s.mail.SendPurchaseConfirmation(email, tmpl); err != nil {
		slog.Error("purchase confirmation email failed",
			"template_id", templateID, "to", email, "error", err)
	}

	slog.Info("purchase recorded",
		"template_id", templateID, "email", email, "session", sess.ID)
	return nil
}

// VerifySuccess is the synchronous confirmation path for the redirect-back
// flow. It asks the provider for the session and fails unless it is paid.
func (s *Service) VerifySuccess(ctx context.Context, sessionID string) (*PurchaseConfirmation, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	sess, err := s.api.CheckoutSessions.Get(sessionID, params)
	if err != nil {
		return nil, fmt.Errorf("retrieve checkout session: %w", err)
	}

	if sess.PaymentStatus != stripe.CheckoutSessionPaymentStatusPaid {
		return nil, ErrPaymentNotCompleted
	}

	templateID, _ := strconv.ParseInt(sess.Metadata["template_id"], 10, 64)
	email := sess.CustomerEmail
	if sess.CustomerDetails != nil && sess.CustomerDetails.Email != "" {
		email = sess.CustomerDetails.Email
	}

	return &PurchaseConfirmation{
		TemplateID:    templateID,
		TemplateTitle: sess.Metadata["template_title"],
		BuyerEmail:    email,
	}, nil
}
