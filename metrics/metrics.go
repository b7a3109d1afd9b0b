// Package metrics exports the progress of a search as Prometheus metrics.
package metrics

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sgaliamov/ergo-balance/genetic"
)

// Recorder updates the search collectors after every generation.
type Recorder struct {
	generations    prometheus.Counter
	duration       prometheus.Histogram
	populationSize prometheus.Gauge
	repeats        prometheus.Gauge
	best           prometheus.Gauge
	mean           prometheus.Gauge
}

var _ genetic.Observer = (*Recorder)(nil)

// NewRecorder creates the collectors under namespace and registers them.
func NewRecorder(registerer prometheus.Registerer, namespace string) (*Recorder, error) {
	r := &Recorder{
		generations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generations_total",
			Help:      "Number of finished generation steps.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "generation_duration_seconds",
			Help:      "Time spent on one generation step.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
		populationSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "population_size",
			Help:      "Individuals left after the last generation step.",
		}),
		repeats: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "repeats",
			Help:      "Consecutive generations without a change of the top results.",
		}),
		best: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "best_score",
			Help:      "Score of the best individual.",
		}),
		mean: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "mean_score",
			Help:      "Mean score of the population.",
		}),
	}

	for _, c := range []prometheus.Collector{r.generations, r.duration, r.populationSize, r.repeats, r.best, r.mean} {
		if err := registerer.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Recorder) ObserveGeneration(_ context.Context, stats genetic.GenerationStats) {
	r.generations.Inc()
	r.duration.Observe(stats.Duration.Seconds())
	r.populationSize.Set(float64(stats.PopulationSize))
	r.repeats.Set(float64(stats.Repeats))
	if stats.Scores.Count > 0 {
		r.best.Set(stats.Scores.Best)
		r.mean.Set(stats.Scores.Mean)
	}
}

// Handler serves the metrics of gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
