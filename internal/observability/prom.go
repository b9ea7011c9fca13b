package observability

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// PromExporter publishes planning metrics as Prometheus gauges, for scraping
// through the node_exporter textfile collector.
type PromExporter struct {
	gatherer prometheus.Gatherer

	planRuns          prometheus.Gauge
	emptyRuns         prometheus.Gauge
	tasksScheduled    prometheus.Gauge
	hoursScheduled    prometheus.Gauge
	hoursAvailable    prometheus.Gauge
	hoursUnused       prometheus.Gauge
	fillRatio         prometheus.Gauge
	scheduledByEnergy *prometheus.GaugeVec
}

// NewPromExporter registers the planning gauges on reg. If reg is nil a new
// registry is used. Collectors that are already registered are reused.
func NewPromExporter(reg *prometheus.Registry) (*PromExporter, error) {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	e := &PromExporter{gatherer: reg}

	gauge := func(name, help string) (prometheus.Gauge, error) {
		g := prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "topt", Name: name, Help: help})
		if err := reg.Register(g); err != nil {
			if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
				return are.ExistingCollector.(prometheus.Gauge), nil
			}
			return nil, fmt.Errorf("registering %s: %w", name, err)
		}
		return g, nil
	}

	var err error
	for _, m := range []struct {
		dst  *prometheus.Gauge
		name string
		help string
	}{
		{&e.planRuns, "plan_runs", "Schedules generated in the metrics window"},
		{&e.emptyRuns, "empty_plan_runs", "Generated schedules that fit no task"},
		{&e.tasksScheduled, "tasks_scheduled", "Tasks placed across all generated schedules"},
		{&e.hoursScheduled, "hours_scheduled", "Hours placed across all generated schedules"},
		{&e.hoursAvailable, "hours_available", "Hour budget across all generated schedules"},
		{&e.hoursUnused, "hours_unused", "Budgeted hours left unscheduled"},
		{&e.fillRatio, "average_fill_ratio", "Mean share of the hour budget that was scheduled"},
	} {
		if *m.dst, err = gauge(m.name, m.help); err != nil {
			return nil, err
		}
	}

	byEnergy := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "topt",
		Name:      "tasks_scheduled_by_energy",
		Help:      "Tasks placed, by the energy level they need",
	}, []string{"energy"})
	if err := reg.Register(byEnergy); err != nil {
		are, ok := err.(prometheus.AlreadyRegisteredError)
		if !ok {
			return nil, fmt.Errorf("registering tasks_scheduled_by_energy: %w", err)
		}
		byEnergy = are.ExistingCollector.(*prometheus.GaugeVec)
	}
	e.scheduledByEnergy = byEnergy

	return e, nil
}

// Record sets every gauge from m.
func (e *PromExporter) Record(m *Metrics) {
	e.planRuns.Set(float64(m.PlanRuns))
	e.emptyRuns.Set(float64(m.EmptyRuns))
	e.tasksScheduled.Set(float64(m.TasksScheduled))
	e.hoursScheduled.Set(float64(m.HoursScheduled))
	e.hoursAvailable.Set(float64(m.HoursAvailable))
	e.hoursUnused.Set(float64(m.HoursUnused))
	e.fillRatio.Set(m.AverageFillRatio)
	for _, level := range []string{"high", "medium", "low"} {
		e.scheduledByEnergy.WithLabelValues(level).Set(float64(m.ScheduledByLevel[level]))
	}
}

// WriteTextfile writes the current gauge values to path in the Prometheus
// text exposition format. The file is replaced atomically.
func (e *PromExporter) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, e.gatherer); err != nil {
		return fmt.Errorf("writing prometheus textfile: %w", err)
	}
	return nil
}
