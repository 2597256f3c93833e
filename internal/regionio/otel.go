package regionio

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/astrokit/regions/internal/regionio"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

var (
	regionsRead    metric.Int64Counter
	regionsWritten metric.Int64Counter
)

func init() {
	m := meter()
	regionsRead, _ = m.Int64Counter("regionio.regions.read",
		metric.WithDescription("Regions deserialized from region files"))
	regionsWritten, _ = m.Int64Counter("regionio.regions.written",
		metric.WithDescription("Regions serialized to region files"))
}
