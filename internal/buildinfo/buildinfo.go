// Package buildinfo carries version data injected at link time:
//
//	go build -ldflags "-X github.com/kuba1e/food-delivery/internal/buildinfo.buildVersion=v1.0.0"
package buildinfo

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	buildVersion = "N/A"
	buildDate    = "N/A"
	buildCommit  = "N/A"
)

// PrintBuildData writes the build banner to w.
func PrintBuildData(w io.Writer) {
	fmt.Fprintf(w, "Build version: %s\n", buildVersion)
	fmt.Fprintf(w, "Build date: %s\n", buildDate)
	fmt.Fprintf(w, "Build commit: %s\n", buildCommit)
}

// Register exposes the build data as a constant users_build_info gauge.
func Register(reg prometheus.Registerer) error {
	g := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "users",
		Name:      "build_info",
		Help:      "Build metadata of the running binary.",
		ConstLabels: prometheus.Labels{
			"version": buildVersion,
			"date":    buildDate,
			"commit":  buildCommit,
		},
	})
	g.Set(1)
	return reg.Register(g)
}
