// Package metrics exposes Prometheus counters for the authentication flows.
package metrics

import (
	"context"
	"errors"
	"net/http"

	"github.com/kuba1e/food-delivery/internal/common"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels.
const (
	OutcomeOK                 = "ok"
	OutcomeBadInput           = "bad_input"
	OutcomeConflict           = "conflict"
	OutcomeNotFound           = "not_found"
	OutcomeInvalidCode        = "invalid_code"
	OutcomeExpired            = "expired"
	OutcomeInvalidSignature   = "invalid_signature"
	OutcomeInvalidCredentials = "invalid_credentials"
	OutcomeUnauthenticated    = "unauthenticated"
	OutcomeDependency         = "dependency"
	OutcomeCanceled           = "canceled"
	OutcomeError              = "error"
)

// AuthRecorder is what services and the guard report to.
type AuthRecorder interface {
	RecordRegistration(outcome string)
	RecordActivation(outcome string)
	RecordLogin(outcome string)
	RecordGuard(outcome string)
	RecordEmail(outcome string)
}

// Nop discards everything.
type Nop struct{}

func (Nop) RecordRegistration(string) {}
func (Nop) RecordActivation(string)   {}
func (Nop) RecordLogin(string)        {}
func (Nop) RecordGuard(string)        {}
func (Nop) RecordEmail(string)        {}

// Collector is the Prometheus implementation of AuthRecorder.
type Collector struct {
	registrations *prometheus.CounterVec
	activations   *prometheus.CounterVec
	logins        *prometheus.CounterVec
	guard         *prometheus.CounterVec
	emails        *prometheus.CounterVec
}

// NewCollector creates the counters and registers them with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	newVec := func(name, help string) *prometheus.CounterVec {
		return prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "users",
			Name:      name,
			Help:      help,
		}, []string{"outcome"})
	}

	c := &Collector{
		registrations: newVec("registrations_total", "Registration attempts by outcome."),
		activations:   newVec("activations_total", "Account activation attempts by outcome."),
		logins:        newVec("logins_total", "Login attempts by outcome."),
		guard:         newVec("guard_decisions_total", "Authenticated request decisions by outcome."),
		emails:        newVec("emails_total", "Activation email dispatches by outcome."),
	}

	reg.MustRegister(c.registrations, c.activations, c.logins, c.guard, c.emails)

	return c
}

func (c *Collector) RecordRegistration(outcome string) { c.registrations.WithLabelValues(outcome).Inc() }
func (c *Collector) RecordActivation(outcome string)   { c.activations.WithLabelValues(outcome).Inc() }
func (c *Collector) RecordLogin(outcome string)        { c.logins.WithLabelValues(outcome).Inc() }
func (c *Collector) RecordGuard(outcome string)        { c.guard.WithLabelValues(outcome).Inc() }
func (c *Collector) RecordEmail(outcome string)        { c.emails.WithLabelValues(outcome).Inc() }

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// Outcome maps an error returned by the auth flows to its label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, common.ErrBadInput):
		return OutcomeBadInput
	case errors.Is(err, common.ErrConflict):
		return OutcomeConflict
	case errors.Is(err, common.ErrorNotFound):
		return OutcomeNotFound
	case errors.Is(err, common.ErrInvalidCode):
		return OutcomeInvalidCode
	case errors.Is(err, common.ErrTokenExpired):
		return OutcomeExpired
	case errors.Is(err, common.ErrInvalidSignature):
		return OutcomeInvalidSignature
	case errors.Is(err, common.ErrInvalidCredentials):
		return OutcomeInvalidCredentials
	case errors.Is(err, common.ErrUnauthenticated):
		return OutcomeUnauthenticated
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return OutcomeCanceled
	case errors.Is(err, common.ErrDependency):
		return OutcomeDependency
	default:
		return OutcomeError
	}
}
