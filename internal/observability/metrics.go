package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// WorkflowRuns counts download workflow runs by platform and outcome
// ("success", "failure").
var WorkflowRuns = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "grabbit_workflow_runs_total",
	Help: "Download workflow runs by platform and outcome.",
}, []string{"platform", "outcome"})

// Compressions counts transcode attempts triggered by the upload ceiling.
var Compressions = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "grabbit_compressions_total",
	Help: "Transcode attempts by outcome.",
}, []string{"outcome"})

// CommandsHandled counts dispatched bot commands.
var CommandsHandled = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "grabbit_commands_total",
	Help: "Bot commands dispatched by command name.",
}, []string{"command"})

// CallbacksHandled counts dispatched callback queries by token prefix.
var CallbacksHandled = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "grabbit_callbacks_total",
	Help: "Callback queries dispatched by token prefix.",
}, []string{"prefix"})
