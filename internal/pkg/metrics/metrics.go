// Package metrics holds the Prometheus collectors of the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Values of the result label of OrderValidations.
const (
	ResultAccepted = "accepted"
	ResultRejected = "rejected"
	ResultError    = "error"
)

// Values of the kind label of SubscriptionsCancelled.
const (
	KindCancelled = "cancelled"
	KindDeleted   = "deleted"
)

var OrderValidations = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "csa",
	Name:      "order_validations_total",
	Help:      "Number of validated orders by result",
}, []string{"result"})

var SubscriptionsRenewed = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "csa",
	Name:      "subscriptions_renewed_total",
	Help:      "Number of subscriptions continued into the next growing period",
})

var SubscriptionsCancelled = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "csa",
	Name:      "subscriptions_cancelled_total",
	Help:      "Number of cancelled subscriptions by kind",
}, []string{"kind"})
