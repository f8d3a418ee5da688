// Package analytics reads engagement aggregates written by the analytics
// worker back out of ClickHouse.
package analytics

import (
	"context"
	"fmt"
	"time"

	"abletech/common/errors"
	"abletech/common/telemetry"

	"github.com/ClickHouse/clickhouse-go/v2"
	"go.uber.org/zap"
)

const (
	DefaultDays = 30
	MaxDays     = 365
)

var tracer = telemetry.GetTracer("abletech/careers/analytics")

// DailyCount is one row of the daily engagement rollup.
type DailyCount struct {
	Day    time.Time
	Type   string
	Action string
	Events uint64
}

// Source returns rollup rows for days on or after since.
type Source interface {
	Daily(ctx context.Context, since time.Time) ([]DailyCount, error)
}

type DayEngagement struct {
	Day      string         `json:"day"`
	Total    int            `json:"total"`
	ByAction map[string]int `json:"byAction"`
	ByType   map[string]int `json:"byType"`
}

type Reader struct {
	source Source
	logger *zap.Logger
	now    func() time.Time
}

// NewReader returns a reader over source. A nil source means ClickHouse is
// not configured and every query fails with an UNAVAILABLE error.
func NewReader(logger *zap.Logger, source Source) *Reader {
	return &Reader{source: source, logger: logger, now: time.Now}
}

// Engagement returns one entry per day for the last days days, oldest first,
// including days without events.
func (r *Reader) Engagement(ctx context.Context, days int) ([]DayEngagement, error) {
	ctx, span := tracer.Start(ctx, "Engagement")
	defer span.End()

	if days == 0 {
		days = DefaultDays
	}
	if days < 0 || days > MaxDays {
		return nil, errors.InvalidInput(fmt.Sprintf("days must be between 1 and %d", MaxDays), nil)
	}
	span.SetAttributes(telemetry.Int("analytics.days", days))

	if r.source == nil {
		return nil, errors.Unavailable("engagement analytics are not configured", nil)
	}

	today := r.now().UTC().Truncate(24 * time.Hour)
	since := today.AddDate(0, 0, -(days - 1))

	rows, err := r.source.Daily(ctx, since)
	if err != nil {
		telemetry.RecordError(span, err)
		r.logger.Error("failed to query engagement rollup", zap.Error(err))
		return nil, errors.Unavailable("engagement analytics are unavailable", err)
	}

	out := make([]DayEngagement, days)
	index := make(map[string]int, days)
	for i := range out {
		day := since.AddDate(0, 0, i).Format("2006-01-02")
		out[i] = DayEngagement{Day: day, ByAction: map[string]int{}, ByType: map[string]int{}}
		index[day] = i
	}
	for _, row := range rows {
		i, ok := index[row.Day.UTC().Format("2006-01-02")]
		if !ok {
			continue
		}
		n := int(row.Events)
		out[i].Total += n
		out[i].ByAction[row.Action] += n
		out[i].ByType[row.Type] += n
	}
	return out, nil
}

// ClickHouseSource queries the daily_engagement materialized view.
type ClickHouseSource struct {
	conn clickhouse.Conn
}

func NewClickHouseSource(conn clickhouse.Conn) *ClickHouseSource {
	return &ClickHouseSource{conn: conn}
}

func (s *ClickHouseSource) Daily(ctx context.Context, since time.Time) ([]DailyCount, error) {
	rows, err := s.conn.Query(ctx, `
		SELECT day, type, action, sum(events) AS events
		FROM daily_engagement
		WHERE day >= ?
		GROUP BY day, type, action
		ORDER BY day, type, action`, since)
	if err != nil {
		return nil, fmt.Errorf("query daily engagement: %w", err)
	}
	defer rows.Close()

	var out []DailyCount
	for rows.Next() {
		var c DailyCount
		if err := rows.Scan(&c.Day, &c.Type, &c.Action, &c.Events); err != nil {
			return nil, fmt.Errorf("scan daily engagement: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
