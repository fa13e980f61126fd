package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "golfer"

// Recorder collects the metrics of one run on a private registry.
type Recorder struct {
	registry    *prometheus.Registry
	variables   prometheus.Gauge
	constraints prometheus.Gauge
	duration    *prometheus.HistogramVec
	objective   prometheus.Gauge
	validations *prometheus.CounterVec
}

func NewRecorder() *Recorder {
	recorder := &Recorder{
		registry: prometheus.NewRegistry(),
		variables: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "model_variables",
			Help:      "Boolean variables declared by the model builder.",
		}),
		constraints: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "model_constraints",
			Help:      "Equality constraints posted by the model builder.",
		}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "solve_duration_seconds",
			Help:      "Wall time spent in the optimisation engine.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 4, 8),
		}, []string{"solver"}),
		objective: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "objective",
			Help:      "Redundant meetings in the returned schedule.",
		}),
		validations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validations_total",
			Help:      "Schedules validated, by verdict.",
		}, []string{"result"}),
	}
	recorder.registry.MustRegister(
		recorder.variables,
		recorder.constraints,
		recorder.duration,
		recorder.objective,
		recorder.validations,
	)
	return recorder
}

func (recorder *Recorder) ObserveModel(variables, constraints uint64) {
	recorder.variables.Set(float64(variables))
	recorder.constraints.Set(float64(constraints))
}

func (recorder *Recorder) ObserveSolve(solver string, duration time.Duration, objective int) {
	recorder.duration.WithLabelValues(solver).Observe(duration.Seconds())
	recorder.objective.Set(float64(objective))
}

func (recorder *Recorder) ObserveValidation(valid bool) {
	result := "invalid"
	if valid {
		result = "valid"
	}
	recorder.validations.WithLabelValues(result).Inc()
}

func (recorder *Recorder) Registry() *prometheus.Registry {
	return recorder.registry
}

// WriteToTextfile dumps the registry in the text exposition format, for node_exporter's textfile
// collector.
func (recorder *Recorder) WriteToTextfile(file string) error {
	return prometheus.WriteToTextfile(file, recorder.registry)
}
