// Mgmt
// Copyright (C) James Shubin and the project contributors
// Written by James Shubin <james@shubin.ca> and the project contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.
//
// Additional permission under GNU GPL version 3 section 7
//
// If you modify this program, or any covered work, by linking or combining it
// with embedded mcl code and modules (and that the embedded mcl code and
// modules which link with this program, contain a copy of their source code in
// the authoritative form) containing parts covered by the terms of any other
// license, the licensors of this program grant you additional permission to
// convey the resulting work. Furthermore, the licensors of this program grant
// the original author, James Shubin, additional permission to update this
// additional permission if he deems it necessary to achieve the goals of this
// additional permission.

// Package prometheus exports the reduction statistics of a heap to a
// prometheus endpoint.
package prometheus

import (
	"context"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/purpleidea/tygraph/lang/heap"
	"github.com/purpleidea/tygraph/lang/reduce"
	"github.com/purpleidea/tygraph/util"
	"github.com/purpleidea/tygraph/util/errwrap"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DefaultPrometheusListen is registered in
// https://github.com/prometheus/prometheus/wiki/Default-port-allocations
const DefaultPrometheusListen = "127.0.0.1:9233"

// Prometheus is a reduce.Monitor which counts the reduction events, and serves
// them on /metrics. Run Init() on it.
type Prometheus struct {
	Listen string // the listen address for the net/http server

	// Heap, if set, has its number of cells exported.
	Heap *heap.Heap

	Logf func(format string, v ...interface{})

	registry      *prometheus.Registry
	eventsTotal   *prometheus.CounterVec // reduction events by kind and form
	stackDepth    prometheus.Gauge       // nodes being reduced at the last event
	stackDepthMax prometheus.Gauge       // the most nodes ever reduced at once
	maxDepth      int

	server *http.Server
	addr   net.Addr
}

// Init builds the metrics in a private registry, so that several of these can
// exist in one process.
func (obj *Prometheus) Init() error {
	if len(obj.Listen) == 0 {
		obj.Listen = DefaultPrometheusListen
	}
	if obj.Logf == nil {
		obj.Logf = func(format string, v ...interface{}) {} // noop
	}
	obj.registry = prometheus.NewRegistry()

	obj.eventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tygraph_reduce_events_total",
			Help: "Number of reduction events that have happened.",
		},
		// Labels for this metric.
		// kind: mark, beta or delta
		// form: the form of the node after the event
		[]string{"kind", "form"},
	)
	obj.stackDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "tygraph_reduce_stack_depth",
			Help: "Number of nodes being reduced at the last event.",
		},
	)
	obj.stackDepthMax = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "tygraph_reduce_stack_depth_max",
			Help: "Largest number of nodes that were reduced at once.",
		},
	)
	collectors := []prometheus.Collector{obj.eventsTotal, obj.stackDepth, obj.stackDepthMax}

	if h := obj.Heap; h != nil {
		collectors = append(collectors, prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name:        "tygraph_heap_cells",
				Help:        "Number of cells allocated in the heap.",
				ConstLabels: prometheus.Labels{"heap": h.ID().String()},
			},
			func() float64 { return float64(h.Len()) },
		))
	}
	for _, c := range collectors {
		if err := obj.registry.Register(c); err != nil {
			return errwrap.Wrapf(err, "could not register metric")
		}
	}
	return nil
}

// Observe counts one reduction event.
func (obj *Prometheus) Observe(event *reduce.Event) {
	labels := prometheus.Labels{"kind": event.Kind.String(), "form": event.Form.String()}
	obj.eventsTotal.With(labels).Inc()
	obj.stackDepth.Set(float64(event.Depth))
	if event.Depth > obj.maxDepth {
		obj.maxDepth = event.Depth
		obj.stackDepthMax.Set(float64(event.Depth))
	}
}

// Gatherer returns the registry that the metrics are in.
func (obj *Prometheus) Gatherer() prometheus.Gatherer {
	return obj.registry
}

// Start runs a http server in a go routine, that responds to /metrics as
// prometheus would expect. Errors from binding the listen address are returned
// here.
func (obj *Prometheus) Start() error {
	logger := log.New(&util.LogWriter{Prefix: "http: ", Logf: obj.Logf}, "", 0)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(obj.registry, promhttp.HandlerOpts{
		ErrorLog: logger,
	}))
	listener, err := net.Listen("tcp", obj.Listen)
	if err != nil {
		return errwrap.Wrapf(err, "can't listen on %s", obj.Listen)
	}
	obj.addr = listener.Addr()
	obj.server = &http.Server{
		Handler:           mux,
		ErrorLog:          logger,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := obj.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			obj.Logf("server exited with: %+v", err)
		}
	}()
	obj.Logf("serving metrics on %s", obj.addr)
	return nil
}

// Addr returns the address the server listens on once it started. It differs
// from Listen when that asks for any free port.
func (obj *Prometheus) Addr() string {
	if obj.addr == nil {
		return obj.Listen
	}
	return obj.addr.String()
}

// Stop the http server.
func (obj *Prometheus) Stop() error {
	if obj.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return obj.server.Shutdown(ctx)
}
