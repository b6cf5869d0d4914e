package metrics

import "github.com/prometheus/client_golang/prometheus"

// CheckoutMetrics counts checkout flow outcomes.
type CheckoutMetrics struct {
	submissions   *prometheus.CounterVec
	couponApplies *prometheus.CounterVec
	quoteFailures prometheus.Counter
}

// NewCheckoutMetrics registers checkout counters on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	submissions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_submissions_total",
		Help: "Checkout submissions by terminal outcome.",
	}, []string{"outcome"})
	couponApplies := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_coupon_applies_total",
		Help: "Coupon applications by result.",
	}, []string{"result"})
	quoteFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "checkout_quote_failures_total",
		Help: "Shipping quote computations that failed and degraded to zero.",
	})
	reg.MustRegister(submissions, couponApplies, quoteFailures)
	return &CheckoutMetrics{
		submissions:   submissions,
		couponApplies: couponApplies,
		quoteFailures: quoteFailures,
	}
}

// IncSubmission counts one submission with its terminal outcome.
func (c *CheckoutMetrics) IncSubmission(outcome string) {
	if c == nil || c.submissions == nil {
		return
	}
	c.submissions.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// IncCouponApply counts one coupon application attempt.
func (c *CheckoutMetrics) IncCouponApply(result string) {
	if c == nil || c.couponApplies == nil {
		return
	}
	c.couponApplies.WithLabelValues(normalizeLabel(result)).Inc()
}

// IncQuoteFailure counts one degraded shipping quote.
func (c *CheckoutMetrics) IncQuoteFailure() {
	if c == nil || c.quoteFailures == nil {
		return
	}
	c.quoteFailures.Inc()
}
