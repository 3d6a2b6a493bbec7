package reporting

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/barbershop-engine/internal/audit"
	"github.com/BruksfildServices01/barbershop-engine/internal/httperr"
	"github.com/BruksfildServices01/barbershop-engine/internal/logging"
	"github.com/BruksfildServices01/barbershop-engine/internal/timezone"
)

type ExportOutput struct {
	Key string `json:"key"`
}

// ExportAnalytics writes the analytics report for a period to the archive.
type ExportAnalytics struct {
	analytics *GetAnalytics
	archive   Archive
	audit     *audit.Dispatcher
	clock     timezone.Clock
}

func NewExportAnalytics(
	analytics *GetAnalytics,
	archive Archive,
	audit *audit.Dispatcher,
	clock timezone.Clock,
) *ExportAnalytics {
	return &ExportAnalytics{analytics: analytics, archive: archive, audit: audit, clock: clock}
}

func (uc *ExportAnalytics) Execute(ctx context.Context, in AnalyticsInput) (*ExportOutput, error) {
	if uc.archive == nil {
		return nil, httperr.New(httperr.KindUnavailable, "archive_not_configured")
	}

	report, err := uc.analytics.Execute(ctx, in)
	if err != nil {
		return nil, err
	}

	body, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal report: %w", err)
	}

	locationID, _ := adminLocation(in.Principal, in.LocationID)
	scope := locationID
	if scope == "" {
		scope = "all"
	}
	key := fmt.Sprintf("reports/analytics/%s/%s/%s-%d.json",
		scope,
		report.Period,
		report.From.Format("2006-01-02"),
		uc.clock.Now().Unix(),
	)

	if err := uc.archive.Put(ctx, key, body, "application/json"); err != nil {
		logging.GetLogger().Error("report archive failed", zap.String("key", key), zap.Error(err))
		return nil, httperr.New(httperr.KindUnavailable, "archive_failed")
	}

	uc.audit.Dispatch(audit.Event{
		LocationID: locationID,
		ActorID:    audit.Ref(in.Principal.UserID),
		Action:     "analytics_exported",
		Entity:     "report",
		Metadata:   map[string]any{"key": key},
	})

	return &ExportOutput{Key: key}, nil
}
