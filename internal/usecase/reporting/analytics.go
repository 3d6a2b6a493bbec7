package reporting

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/barbershop-engine/internal/domain/appointment"
	rdomain "github.com/BruksfildServices01/barbershop-engine/internal/domain/reporting"
	"github.com/BruksfildServices01/barbershop-engine/internal/logging"
	"github.com/BruksfildServices01/barbershop-engine/internal/timezone"
	"github.com/BruksfildServices01/barbershop-engine/internal/tracing"
)

const analyticsTTL = time.Minute

type AnalyticsInput struct {
	Principal  domain.Principal
	Period     string
	LocationID string
}

type GetAnalytics struct {
	src   Source
	cache Cache
	clock timezone.Clock
}

func NewGetAnalytics(src Source, cache Cache, clock timezone.Clock) *GetAnalytics {
	return &GetAnalytics{src: src, cache: cache, clock: clock}
}

func (uc *GetAnalytics) Execute(ctx context.Context, in AnalyticsInput) (*rdomain.Report, error) {
	ctx, span := tracing.StartSpan(ctx, "reporting.Analytics")
	defer span.End()

	period, err := rdomain.ParsePeriod(in.Period)
	if err != nil {
		return nil, err
	}

	locationID, err := adminLocation(in.Principal, in.LocationID)
	if err != nil {
		return nil, err
	}

	loc := locationTZ(ctx, uc.src, locationID)
	w := rdomain.WindowFor(period, uc.clock.Now(), loc)

	key := fmt.Sprintf("analytics:%s:%s:%d", period, locationID, w.From.Unix())
	if uc.cache != nil {
		var cached rdomain.Report
		if ok, err := uc.cache.Get(ctx, key, &cached); err == nil && ok {
			return &cached, nil
		}
	}

	from, to := w.From, w.To
	aps, err := uc.src.ListAppointments(ctx, domain.ListFilter{
		LocationID: locationID,
		From:       &from,
		To:         &to,
		Statuses:   []domain.Status{domain.StatusCompleted},
	})
	if err != nil {
		return nil, err
	}

	report := rdomain.BuildReport(period, w, aps)

	if uc.cache != nil {
		if err := uc.cache.Set(ctx, key, report, analyticsTTL); err != nil {
			logging.GetLogger().Warn("analytics cache write failed", zap.Error(err))
		}
	}

	return &report, nil
}
