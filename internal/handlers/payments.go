// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"flowsite/internal/payments"
)

// maxWebhookBody bounds the raw webhook payload read into memory.
const maxWebhookBody = 1 << 20 // 1 MiB

// Payments groups the checkout and fulfillment handlers.
type Payments struct {
	service *payments.Service
}

// NewPayments creates the payments handler group.
func NewPayments(service *payments.Service) *Payments {
	return &Payments{service: service}
}

// checkoutRequest is the POST /payments/create-checkout body.
type checkoutRequest struct {
	TemplateID int64  `json:"templateId"`
	Email      string `json:"email"`
}

// CreateCheckout starts a provider-hosted checkout for a pro template.
func (p *Payments) CreateCheckout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.TemplateID == 0 {
		writeError(w, http.StatusBadRequest, "templateId is required")
		return
	}

	result, err := p.service.CreateCheckout(r.Context(), req.TemplateID, req.Email)
	if err != nil {
		if errors.Is(err, payments.ErrTemplateNotFound) {
			writeError(w, http.StatusNotFound, "pro template not found")
			return
		}
		slog.Error("create checkout failed", "template_id", req.TemplateID, "error", err)
		writeError(w, http.StatusBadGateway, "payment provider error")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Webhook receives signed provider events. The raw body is needed for
// signature verification, so it must not pass through any JSON decoding
// middleware first. A bad signature is rejected with 400 before any state
// change; a verified event is acknowledged unless fulfillment itself
// failed, in which case the provider retries.
func (p *Payments) Webhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, "unreadable payload")
		return
	}

	err = p.service.HandleWebhook(r.Context(), payload, r.Header.Get("Stripe-Signature"))
	if err != nil {
		if errors.Is(err, payments.ErrBadSignature) {
			writeError(w, http.StatusBadRequest, "invalid signature")
			return
		}
		serverError(w, "webhook fulfillment failed", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"received": true})
}

// Success is the synchronous redirect-back confirmation: the web client
// lands here with a session_id and asks whether the payment went through.
func (p *Payments) Success(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, "session_id is required")
		return
	}

	confirmation, err := p.service.VerifySuccess(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, payments.ErrPaymentNotCompleted) {
			writeError(w, http.StatusPaymentRequired, "payment not completed")
			return
		}
		slog.Error("verify success failed", "session_id", sessionID, "error", err)
		writeError(w, http.StatusBadGateway, "payment provider error")
		return
	}

	writeJSON(w, http.StatusOK, confirmation)
}
