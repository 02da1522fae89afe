package metrics

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the service's Prometheus collectors.
	Registry = prometheus.NewRegistry()

	// ProfilesCreated counts profiles created on first resolution of a handle.
	ProfilesCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "tipjar",
		Subsystem: "profiles",
		Name:      "created_total",
		Help:      "Profiles created on first access.",
	})

	// WalletUpdates counts wallet address updates by result (ok, invalid, error).
	WalletUpdates = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tipjar",
		Subsystem: "profiles",
		Name:      "wallet_updates_total",
		Help:      "Wallet address update attempts.",
	}, []string{"result"})

	// DonationsRecorded counts donations accepted by updateStats.
	DonationsRecorded = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "tipjar",
		Subsystem: "donations",
		Name:      "recorded_total",
		Help:      "Donations recorded against profiles.",
	})

	httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tipjar",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests handled.",
	}, []string{"method", "status"})
)

func init() {
	Registry.MustRegister(ProfilesCreated, WalletUpdates, DonationsRecorded, httpRequests)
}

// Handler serves the registry in the Prometheus exposition format.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(Registry, promhttp.HandlerOpts{}))
}

// Middleware counts every request by method and final status code.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		httpRequests.WithLabelValues(c.Method(), strconv.Itoa(status)).Inc()
		return err
	}
}
