package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	wizardTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rentalweb_wizard_transitions_total",
		Help: "Booking wizard step submissions by step and outcome",
	}, []string{"step", "outcome"})

	wizardsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rentalweb_wizards_started_total",
		Help: "The total number of booking wizards started",
	})

	bookingsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rentalweb_bookings_created_total",
		Help: "Bookings created through the wizard by payment method",
	}, []string{"method"})

	apiCalls = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "rentalweb_api_call_duration_seconds",
		Help:    "Time taken by calls to the rental API",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	}, []string{"operation", "status"})

	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rentalweb_http_requests_total",
		Help: "HTTP requests served by route and status",
	}, []string{"method", "route", "status"})
)

// Outcomes for WizardTransition.
const (
	OutcomeAdvanced = "advanced"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
	OutcomeBack     = "back"
)

func WizardStarted() { wizardsStarted.Inc() }

func WizardTransition(step, outcome string) {
	wizardTransitions.WithLabelValues(step, outcome).Inc()
}

func BookingCreated(method string) {
	bookingsCreated.WithLabelValues(method).Inc()
}

// ObserveAPICall matches apiclient.Observer.
func ObserveAPICall(operation string, status int, elapsed time.Duration) {
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	apiCalls.WithLabelValues(operation, label).Observe(elapsed.Seconds())
}

func HTTPRequest(method, route string, status int) {
	if route == "" {
		route = "unmatched"
	}
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}

// Handler exposes the default registry.
func Handler() http.Handler { return promhttp.Handler() }
